package handlers

import (
	"encoding/json"
	"testing"
)

func TestLooseCoercion(t *testing.T) {
	cases := []struct {
		body      string
		wantQty   int
		wantPrice float64
	}{
		{`{"quantity":2,"unitPrice":25.5}`, 2, 25.5},
		{`{"quantity":"3","unitPrice":"10.75"}`, 3, 10.75},
		{`{"quantity":null,"unitPrice":null}`, 0, 0},
		{`{}`, 0, 0},
		{`{"quantity":"abc","unitPrice":"n/a"}`, 0, 0},
		{`{"quantity":true,"unitPrice":[1]}`, 0, 0},
		{`{"quantity":2.9,"unitPrice":7}`, 2, 7},
	}
	for _, c := range cases {
		var l serviceLinePayload
		if err := json.Unmarshal([]byte(c.body), &l); err != nil {
			t.Fatalf("coercion must never fail: %s: %v", c.body, err)
		}
		if int(l.Quantity) != c.wantQty || float64(l.UnitPrice) != c.wantPrice {
			t.Errorf("%s -> qty=%d price=%v, want qty=%d price=%v",
				c.body, l.Quantity, l.UnitPrice, c.wantQty, c.wantPrice)
		}
	}
}

func TestPayloadToModel(t *testing.T) {
	p := invoicePayload{
		ClientName: "  Mme Dupont  ",
		Car:        "Golf",
		ServiceLines: []serviceLinePayload{
			{Service: "Vidange", Quantity: -2, UnitPrice: -5},
			{Service: "Lavage", Quantity: 1, UnitPrice: 12},
		},
	}
	inv := p.toModel()
	if inv.ClientName != "Mme Dupont" {
		t.Fatalf("client name not trimmed: %q", inv.ClientName)
	}
	if inv.ServiceLines[0].Quantity != 0 || inv.ServiceLines[0].UnitPrice != 0 {
		t.Fatalf("negative input must clamp to zero: %+v", inv.ServiceLines[0])
	}
	if inv.ServiceLines[1].Quantity != 1 || inv.ServiceLines[1].UnitPrice != 12 {
		t.Fatalf("valid line altered: %+v", inv.ServiceLines[1])
	}
}
