package models

import "time"

// Facturation atelier: une facture correspond à un passage véhicule d'un client.
type Invoice struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	ClientName   string        `gorm:"not null;index" json:"clientName"`
	Registration string        `json:"registration"` // immatriculation, texte libre
	Car          string        `json:"car"`          // véhicule, texte libre
	ServiceLines []ServiceLine `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"serviceLines"`
	CreatedAt    time.Time     `json:"createdAt"` // figé à la création, jamais touché par update
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// ServiceLine belongs to exactly one Invoice and never outlives it.
// The whole line set is replaced together on update, never patched line by line,
// so the subtotal is always recomputable from the current set alone.
type ServiceLine struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	InvoiceID uint    `gorm:"not null;index" json:"-"`
	Service   string  `json:"service"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unitPrice"` // P.U. HT
}
