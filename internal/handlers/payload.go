package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/garage-invoices/internal/models"
)

// The UI historically sent quantity/unitPrice as numbers or strings and the
// server coerced with Number(x) || 0. That tolerance is part of the contract:
// coercion never fails a request. It happens once, here at the boundary, and
// the rest of the code only ever sees a fully-populated typed invoice.

type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	*n = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if json.Unmarshal(b, &s) == nil {
			if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				*n = looseInt(int(v))
			}
		}
		return nil
	}
	var f float64
	if json.Unmarshal(b, &f) == nil {
		*n = looseInt(int(f))
	}
	return nil
}

type looseFloat float64

func (n *looseFloat) UnmarshalJSON(b []byte) error {
	*n = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if json.Unmarshal(b, &s) == nil {
			if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				*n = looseFloat(v)
			}
		}
		return nil
	}
	var f float64
	if json.Unmarshal(b, &f) == nil {
		*n = looseFloat(f)
	}
	return nil
}

type serviceLinePayload struct {
	Service   string     `json:"service"`
	Quantity  looseInt   `json:"quantity"`
	UnitPrice looseFloat `json:"unitPrice"`
}

type invoicePayload struct {
	ClientName   string               `json:"clientName"`
	Registration string               `json:"registration"`
	Car          string               `json:"car"`
	ServiceLines []serviceLinePayload `json:"serviceLines"`
}

// toModel builds the typed internal invoice: trimmed client name, non-negative
// quantities and prices.
func (p invoicePayload) toModel() models.Invoice {
	inv := models.Invoice{
		ClientName:   strings.TrimSpace(p.ClientName),
		Registration: p.Registration,
		Car:          p.Car,
	}
	for _, l := range p.ServiceLines {
		qty := int(l.Quantity)
		if qty < 0 {
			qty = 0
		}
		price := float64(l.UnitPrice)
		if price < 0 {
			price = 0
		}
		inv.ServiceLines = append(inv.ServiceLines, models.ServiceLine{
			Service:   l.Service,
			Quantity:  qty,
			UnitPrice: price,
		})
	}
	return inv
}

// withCreatedAt stamps invoices that never went through the store, so export
// artifacts always carry a date.
func withCreatedAt(inv models.Invoice) models.Invoice {
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	return inv
}
