package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/diewo77/garage-invoices/internal/config"
	"github.com/diewo77/garage-invoices/internal/export"
	"github.com/diewo77/garage-invoices/internal/httpx"
	"github.com/diewo77/garage-invoices/internal/ledger"
	"github.com/diewo77/garage-invoices/internal/models"
	"github.com/diewo77/garage-invoices/internal/pdf"
	"github.com/diewo77/garage-invoices/internal/services"
	"github.com/diewo77/garage-invoices/internal/store"
	"github.com/diewo77/garage-invoices/internal/words"
)

const maxExportBody = 1 << 20

// ExportHandler drives the three export pipelines. Each one recomputes the
// totals from the current line set; nothing is read from a stored total.
type ExportHandler struct {
	Store    *store.InvoiceStore
	Ledger   *ledger.Exporter
	Renderer *pdf.Renderer
	Snaps    *export.SnapshotWriter
	Totals   services.TotalsConfig
	Currency config.Currency
	Log      *logrus.Logger
}

// exportRequest addresses either a persisted invoice (by id) or an inline
// payload that was never stored.
type exportRequest struct {
	ID looseInt `json:"id"`
	invoicePayload
	// Snapshot carries pre-rendered lines to reproduce verbatim (PDF only).
	Snapshot []string `json:"snapshot"`
	Title    string   `json:"title"`
}

// resolveInvoice loads the durable invoice when an id is given, otherwise
// builds one from the inline payload.
func (h *ExportHandler) resolveInvoice(req exportRequest) (*models.Invoice, error) {
	if req.ID > 0 {
		return h.Store.Get(uint(req.ID))
	}
	inv := withCreatedAt(req.toModel())
	return &inv, nil
}

// JSON: POST /api/export/json — persists the posted payload verbatim.
func (h *ExportHandler) JSON(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxExportBody))
	if err != nil || !json.Valid(body) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	// Only the client name is probed, for the file name; the payload itself
	// has no fixed schema.
	var probe struct {
		ClientName string `json:"clientName"`
	}
	_ = json.Unmarshal(body, &probe)
	path, err := h.Snaps.Write(body, probe.ClientName)
	if err != nil {
		h.Log.WithError(err).Error("failed to write json snapshot")
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"file": filepath.Base(path)})
}

// Spreadsheet: POST /api/export/spreadsheet — appends one ledger row.
func (h *ExportHandler) Spreadsheet(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	inv, err := h.resolveInvoice(req)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		h.Log.WithError(err).Error("failed to load invoice for export")
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	totals := services.ComputeTotals(inv.ServiceLines, h.Totals)
	path, err := h.Ledger.AppendRow(inv, totals)
	if err != nil {
		h.Log.WithError(err).Error("failed to append ledger row")
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"file": filepath.Base(path)})
}

// PDF: POST /api/export/pdf — renders and persists the invoice document.
func (h *ExportHandler) PDF(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	var data []byte
	var name string
	if len(req.Snapshot) > 0 {
		// Caller-confirmed snapshot: wrap verbatim, no recomputation.
		title := req.Title
		if title == "" {
			title = "Facture"
		}
		var err error
		data, err = h.Renderer.RenderSnapshot(title, req.Snapshot)
		if err != nil {
			h.Log.WithError(err).Error("snapshot rendering failed")
			httpx.JSONError(w, http.StatusInternalServerError, "render_failed", nil)
			return
		}
		name = fmt.Sprintf("facture-%s-%s.pdf", export.SanitizeName(title), export.UniqueSuffix())
	} else {
		inv, err := h.resolveInvoice(req)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
				return
			}
			h.Log.WithError(err).Error("failed to load invoice for export")
			httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
			return
		}
		totals := services.ComputeTotals(inv.ServiceLines, h.Totals)
		sentence := words.AmountInWords(words.French, totals.GrandTotal, h.Currency.UnitWord, h.Currency.CentWord)
		data, err = h.Renderer.Render(inv, totals, sentence)
		if err != nil {
			h.Log.WithError(err).WithField("id", inv.ID).Error("pdf rendering failed")
			httpx.JSONError(w, http.StatusInternalServerError, "render_failed", nil)
			return
		}
		name = fmt.Sprintf("facture-%s-%s.pdf", export.SanitizeName(inv.ClientName), export.UniqueSuffix())
	}

	path, err := h.Snaps.WriteFile(name, data)
	if err != nil {
		h.Log.WithError(err).Error("failed to write pdf")
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"file": path})
}
