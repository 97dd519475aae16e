// Package pdf renders print-quality invoice documents on a fixed A4 page.
package pdf

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/diewo77/garage-invoices/internal/models"
	"github.com/diewo77/garage-invoices/internal/services"
)

type Options struct {
	IssuerName     string
	IssuerLine     string
	CurrencySymbol string

	// PoolSize bounds concurrent rendering sessions; AcquireWait bounds how
	// long an export waits for a free slot before proceeding best-effort.
	PoolSize    int
	AcquireWait time.Duration
}

// Renderer builds invoice documents. Sessions are pooled rather than created
// per export; an export that cannot get a slot within AcquireWait still runs
// instead of failing.
type Renderer struct {
	opts  Options
	slots chan struct{}
}

func New(opts Options) *Renderer {
	if opts.PoolSize <= 0 {
		opts.PoolSize = 2
	}
	if opts.AcquireWait <= 0 {
		opts.AcquireWait = 3 * time.Second
	}
	slots := make(chan struct{}, opts.PoolSize)
	for i := 0; i < opts.PoolSize; i++ {
		slots <- struct{}{}
	}
	return &Renderer{opts: opts, slots: slots}
}

// acquire takes a rendering slot, waiting at most AcquireWait. The returned
// release func is a no-op when the wait timed out.
func (r *Renderer) acquire() func() {
	timer := time.NewTimer(r.opts.AcquireWait)
	defer timer.Stop()
	select {
	case <-r.slots:
		return func() { r.slots <- struct{}{} }
	case <-timer.C:
		return func() {}
	}
}

// newEngine applies the print style profile: fixed A4 page, fixed margins.
// The engine does not select this by itself.
func newEngine() core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	return maroto.New(cfg)
}

// Render builds the invoice document from raw data. Line totals are recomputed
// independently here, never copied from a cached value; the totals block uses
// the calculator output passed in so every surface shows identical amounts.
func (r *Renderer) Render(inv *models.Invoice, totals services.Totals, totalInWords string) ([]byte, error) {
	release := r.acquire()
	defer release()

	m := newEngine()
	r.addHeader(m, inv)
	r.addClientBlock(m, inv)
	r.addLinesTable(m, inv)
	r.addTotalsBlock(m, totals)
	m.AddRow(12, col.New(12).Add(
		text.New("Arrêtée la présente facture à la somme de : "+totalInWords, props.Text{
			Size:  10,
			Style: fontstyle.Italic,
			Align: align.Left,
			Top:   4,
		}),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf generation: %w", err)
	}
	return doc.GetBytes(), nil
}

// RenderSnapshot wraps caller-supplied pre-rendered lines verbatim, without
// recomputing anything. Escape hatch for reproducing exactly what the user
// visually confirmed.
func (r *Renderer) RenderSnapshot(title string, lines []string) ([]byte, error) {
	release := r.acquire()
	defer release()

	m := newEngine()
	m.AddRow(14, col.New(12).Add(
		text.New(title, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Left}),
	))
	m.AddRow(3, line.NewCol(12))
	for _, l := range lines {
		m.AddRow(7, col.New(12).Add(
			text.New(l, props.Text{Size: 10, Align: align.Left}),
		))
	}
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf generation: %w", err)
	}
	return doc.GetBytes(), nil
}

func (r *Renderer) money(d decimal.Decimal) string {
	return d.StringFixed(2) + " " + r.opts.CurrencySymbol
}

func (r *Renderer) addHeader(m core.Maroto, inv *models.Invoice) {
	m.AddRow(24,
		col.New(7).Add(
			text.New(r.opts.IssuerName, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Left}),
			text.New(r.opts.IssuerLine, props.Text{Size: 9, Top: 8, Align: align.Left}),
		),
		col.New(5).Add(
			text.New("FACTURE", props.Text{Size: 20, Style: fontstyle.Bold, Align: align.Right}),
			text.New(fmt.Sprintf("N° %d", inv.ID), props.Text{Size: 10, Top: 9, Align: align.Right}),
			text.New("Date : "+inv.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 9, Top: 14, Align: align.Right}),
		),
	)
	m.AddRow(4, line.NewCol(12))
}

func (r *Renderer) addClientBlock(m core.Maroto, inv *models.Invoice) {
	registration := inv.Registration
	if registration == "" {
		registration = "—"
	}
	car := inv.Car
	if car == "" {
		car = "—"
	}
	m.AddRow(20,
		col.New(6).Add(
			text.New("CLIENT", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left}),
			text.New(inv.ClientName, props.Text{Size: 10, Top: 5, Align: align.Left}),
		),
		col.New(6).Add(
			text.New("VÉHICULE", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left}),
			text.New(car, props.Text{Size: 10, Top: 5, Align: align.Left}),
			text.New("Immatriculation : "+registration, props.Text{Size: 9, Top: 10, Align: align.Left}),
		),
	)
	m.AddRow(4, line.NewCol(12))
}

func (r *Renderer) addLinesTable(m core.Maroto, inv *models.Invoice) {
	m.AddRow(8,
		col.New(6).Add(text.New("Désignation", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left})),
		col.New(2).Add(text.New("Qté", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Center})),
		col.New(2).Add(text.New("P.U. HT", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right})),
		col.New(2).Add(text.New("Montant HT", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right})),
	)
	m.AddRow(2, line.NewCol(12))

	for _, l := range inv.ServiceLines {
		label := l.Service
		if label == "" {
			label = "Prestation"
		}
		m.AddRow(7,
			col.New(6).Add(text.New(label, props.Text{Size: 9, Align: align.Left})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 9, Align: align.Center})),
			col.New(2).Add(text.New(r.money(decimal.NewFromFloat(l.UnitPrice)), props.Text{Size: 9, Align: align.Right})),
			col.New(2).Add(text.New(r.money(services.LineTotal(l).Round(2)), props.Text{Size: 9, Align: align.Right})),
		)
	}
	m.AddRow(3, line.NewCol(12))
}

func (r *Renderer) addTotalsBlock(m core.Maroto, totals services.Totals) {
	rows := []struct {
		label string
		value decimal.Decimal
		bold  bool
	}{
		{"Total HT", totals.Subtotal, false},
		{"TVA", totals.TVA, false},
		{"Timbre fiscal", totals.StampFee, false},
		{"Total TTC", totals.GrandTotal, true},
	}
	for _, row := range rows {
		style := fontstyle.Normal
		size := 10.0
		if row.bold {
			style = fontstyle.Bold
			size = 11
		}
		m.AddRow(6,
			col.New(8),
			col.New(2).Add(text.New(row.label, props.Text{Size: size, Style: style, Align: align.Right})),
			col.New(2).Add(text.New(r.money(row.value), props.Text{Size: size, Style: style, Align: align.Right})),
		)
	}
}
