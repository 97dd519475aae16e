package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/garage-invoices/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Invoice{}, &models.ServiceLine{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sampleInvoice() models.Invoice {
	return models.Invoice{
		ClientName:   "Karim B.",
		Registration: "123-TUN-456",
		Car:          "Renault Clio",
		ServiceLines: []models.ServiceLine{
			{Service: "Vidange", Quantity: 1, UnitPrice: 45},
			{Service: "Changement de pneus", Quantity: 4, UnitPrice: 80.5},
			{Service: "Lavage complet", Quantity: 1, UnitPrice: 12},
		},
	}
}

func TestCreateRoundTrip(t *testing.T) {
	s := New(setupTestDB(t))
	inv := sampleInvoice()
	id, err := s.Create(&inv)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := sampleInvoice()
	if len(got.ServiceLines) != len(want.ServiceLines) {
		t.Fatalf("expected %d lines, got %d", len(want.ServiceLines), len(got.ServiceLines))
	}
	for i, l := range got.ServiceLines {
		w := want.ServiceLines[i]
		if l.Service != w.Service || l.Quantity != w.Quantity || l.UnitPrice != w.UnitPrice {
			t.Fatalf("line %d mismatch: got %+v want %+v", i, l, w)
		}
	}
}

func TestCreateRequiresClientName(t *testing.T) {
	s := New(setupTestDB(t))
	inv := models.Invoice{ClientName: "   "}
	_, err := s.Create(&inv)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "clientName" {
		t.Fatalf("unexpected field %q", verr.Field)
	}
}

func TestUpdateReplacesFullLineSet(t *testing.T) {
	s := New(setupTestDB(t))
	inv := sampleInvoice()
	id, err := s.Create(&inv)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created, err := s.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	upd := models.Invoice{
		ClientName:   "Karim B.",
		Car:          "Peugeot 208",
		ServiceLines: []models.ServiceLine{{Service: "Diagnostic électronique", Quantity: 1, UnitPrice: 60}},
	}
	if err := s.Update(id, upd); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if len(got.ServiceLines) != 1 {
		t.Fatalf("expected exactly 1 line after full replace, got %d", len(got.ServiceLines))
	}
	if got.ServiceLines[0].Service != "Diagnostic électronique" {
		t.Fatalf("unexpected line: %+v", got.ServiceLines[0])
	}
	if got.Car != "Peugeot 208" || got.Registration != "" {
		t.Fatalf("scalar fields not replaced: %+v", got)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("createdAt must never change on update: %v -> %v", created.CreatedAt, got.CreatedAt)
	}
}

func TestUpdateMissingID(t *testing.T) {
	s := New(setupTestDB(t))
	err := s.Update(999, models.Invoice{ClientName: "X"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIdempotentAndCascading(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	inv := sampleInvoice()
	id, err := s.Create(&inv)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	// Deleting an already-absent id is still a success.
	if err := s.Delete(id); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if err := s.Delete(424242); err != nil {
		t.Fatalf("delete of never-existed id: %v", err)
	}

	var lineCount int64
	if err := db.Model(&models.ServiceLine{}).Count(&lineCount).Error; err != nil {
		t.Fatalf("count lines: %v", err)
	}
	if lineCount != 0 {
		t.Fatalf("expected cascaded line deletion, %d lines remain", lineCount)
	}

	if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)

	older := models.Invoice{ClientName: "Premier"}
	newer := models.Invoice{ClientName: "Second"}
	olderID, err := s.Create(&older)
	if err != nil {
		t.Fatalf("create older: %v", err)
	}
	newerID, err := s.Create(&newer)
	if err != nil {
		t.Fatalf("create newer: %v", err)
	}
	// Force distinct timestamps; sqlite time resolution can collapse them.
	base := time.Now().Add(-time.Hour)
	if err := db.Model(&models.Invoice{}).Where("id = ?", olderID).Update("created_at", base).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}
	if err := db.Model(&models.Invoice{}).Where("id = ?", newerID).Update("created_at", base.Add(time.Minute)).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	invs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(invs) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(invs))
	}
	if invs[0].ClientName != "Second" || invs[1].ClientName != "Premier" {
		t.Fatalf("expected newest first, got %s then %s", invs[0].ClientName, invs[1].ClientName)
	}
}
