// Package ledger appends one summary row per exported invoice to a persistent
// xlsx workbook.
package ledger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/diewo77/garage-invoices/internal/models"
	"github.com/diewo77/garage-invoices/internal/services"
)

const sheetName = "Factures"

var headers = []string{"ID", "Client", "Immatriculation", "Vehicule", "Date", "Total_TTC", "Services"}

// Exporter rewrites the whole workbook on each append. That is only safe with
// one writer, so every mutation is serialized through mu: two concurrent
// exports can never read the same prior state and lose a row.
type Exporter struct {
	mu             sync.Mutex
	path           string
	currencySymbol string
}

func New(path, currencySymbol string) *Exporter {
	return &Exporter{path: path, currencySymbol: currencySymbol}
}

// Path returns the workbook location.
func (e *Exporter) Path() string { return e.path }

// AppendRow adds one summarized row for the invoice, creating the workbook
// with its header row on first use. Returns the workbook path.
func (e *Exporter) AppendRow(inv *models.Invoice, totals services.Totals) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	f, err := e.open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return "", fmt.Errorf("read workbook rows: %w", err)
	}
	rowNo := len(rows) + 1

	// Invoices exported before being persisted have no durable id; fall back
	// to the sequential data-row number.
	rowID := inv.ID
	if rowID == 0 {
		rowID = uint(rowNo - 1)
	}

	values := []any{
		rowID,
		inv.ClientName,
		inv.Registration,
		inv.Car,
		inv.CreatedAt.Format("02/01/2006 15:04"),
		totals.GrandTotal.StringFixed(2) + " " + e.currencySymbol,
		FlattenLines(inv.ServiceLines),
	}
	for i, v := range values {
		cell := fmt.Sprintf("%c%d", 'A'+i, rowNo)
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return "", fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	if err := f.SaveAs(e.path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return e.path, nil
}

// open loads the existing workbook, or builds a fresh one with the header row.
func (e *Exporter) open() (*excelize.File, error) {
	if _, err := os.Stat(e.path); err == nil {
		f, err := excelize.OpenFile(e.path)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		return f, nil
	}
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	for i, h := range headers {
		if err := f.SetCellValue(sheetName, fmt.Sprintf("%c1", 'A'+i), h); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// FlattenLines renders the service lines as one text field for human skimming.
// Lossy by design, not meant to be re-parsed.
func FlattenLines(lines []models.ServiceLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%s x%d @%g", l.Service, l.Quantity, l.UnitPrice))
	}
	return strings.Join(parts, "; ")
}
