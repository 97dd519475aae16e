// Package store owns the durable record of invoices and their service lines.
package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/garage-invoices/internal/models"
)

// ErrNotFound is returned when the referenced invoice id does not exist.
var ErrNotFound = errors.New("invoice_not_found")

// ValidationError flags a missing or empty required field. Mapped to 4xx by
// the HTTP layer, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }

// InvoiceStore persists invoices with their full line set as one unit.
//
// Mutating calls targeting the same invoice id must be serialized by the
// caller; the store takes no per-id locks, and a concurrent update and delete
// on one id is a race with an undefined winner.
type InvoiceStore struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *InvoiceStore { return &InvoiceStore{DB: db} }

// Create persists the invoice and all its lines atomically and returns the
// assigned id. An invoice must never exist without its full intended line set.
func (s *InvoiceStore) Create(inv *models.Invoice) (uint, error) {
	inv.ClientName = strings.TrimSpace(inv.ClientName)
	if inv.ClientName == "" {
		return 0, &ValidationError{Field: "clientName", Reason: "required"}
	}
	lines := inv.ServiceLines
	inv.ServiceLines = nil
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(inv).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].ID = 0
			lines[i].InvoiceID = inv.ID
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	inv.ServiceLines = lines
	return inv.ID, nil
}

// Update replaces the scalar fields and the entire line set of an existing
// invoice in one transaction. CreatedAt is never modified.
func (s *InvoiceStore) Update(id uint, inv models.Invoice) error {
	inv.ClientName = strings.TrimSpace(inv.ClientName)
	if inv.ClientName == "" {
		return &ValidationError{Field: "clientName", Reason: "required"}
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Invoice
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		updates := map[string]any{
			"client_name":  inv.ClientName,
			"registration": inv.Registration,
			"car":          inv.Car,
		}
		if err := tx.Model(&models.Invoice{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&models.ServiceLine{}).Error; err != nil {
			return err
		}
		lines := inv.ServiceLines
		for i := range lines {
			lines[i].ID = 0
			lines[i].InvoiceID = id
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the invoice and cascades to its lines. Deleting an absent id
// is a success: the caller cannot distinguish "already deleted" from "never
// existed" and both are acceptable terminal states.
func (s *InvoiceStore) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.ServiceLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Invoice{}, id).Error
	})
}

// Get returns one invoice with its lines in insertion order.
func (s *InvoiceStore) Get(id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.DB.Preload("ServiceLines", func(db *gorm.DB) *gorm.DB {
		return db.Order("service_lines.id ASC")
	}).First(&inv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// List returns every invoice, most recent first, lines attached.
func (s *InvoiceStore) List() ([]models.Invoice, error) {
	var invs []models.Invoice
	err := s.DB.Preload("ServiceLines", func(db *gorm.DB) *gorm.DB {
		return db.Order("service_lines.id ASC")
	}).Order("created_at DESC, id DESC").Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return invs, nil
}
