package services

import (
	"github.com/shopspring/decimal"

	"github.com/diewo77/garage-invoices/internal/models"
)

// TotalsConfig carries the fiscal constants applied to every invoice.
// Threaded explicitly into each computation so no consumer depends on ambient state.
type TotalsConfig struct {
	TVARate  decimal.Decimal // ex: 0.19 pour 19%
	StampFee decimal.Decimal // timbre fiscal, ajouté inconditionnellement
}

// Totals is the derived export record: never persisted, always recomputed,
// so persisted data and exported artifacts cannot drift apart.
//
// All four amounts are rounded to 2 decimals here and nowhere else; every
// consumer (JSON, PDF, workbook) reads these same values. GrandTotal is the
// exact sum of the three rounded components, so the identity
// GrandTotal == Subtotal + TVA + StampFee holds for every line set.
type Totals struct {
	Subtotal   decimal.Decimal
	TVA        decimal.Decimal
	StampFee   decimal.Decimal
	GrandTotal decimal.Decimal
}

// LineTotal computes quantity × unitPrice for one line, clamping negatives to zero.
// Consumers must call this rather than caching line amounts.
func LineTotal(l models.ServiceLine) decimal.Decimal {
	qty := l.Quantity
	if qty < 0 {
		qty = 0
	}
	price := decimal.NewFromFloat(l.UnitPrice)
	if price.IsNegative() {
		price = decimal.Zero
	}
	return decimal.NewFromInt(int64(qty)).Mul(price)
}

// ComputeTotals derives subtotal, TVA, stamp fee and grand total from a line set.
// Pure and deterministic: safe to call redundantly from every consumer.
// The stamp fee applies even when the line set is empty.
func ComputeTotals(lines []models.ServiceLine, cfg TotalsConfig) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(LineTotal(l))
	}
	sub := subtotal.Round(2)
	tva := subtotal.Mul(cfg.TVARate).Round(2)
	stamp := cfg.StampFee.Round(2)
	return Totals{
		Subtotal:   sub,
		TVA:        tva,
		StampFee:   stamp,
		GrandTotal: sub.Add(tva).Add(stamp),
	}
}
