package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HistorialPrecio is an immutable record of a price, cost or margin edit.
type HistorialPrecio struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ProductoID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	VentaAntes    decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	VentaDespues  decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	CostoAntes    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CostoDespues  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MargenAntes   *decimal.Decimal `gorm:"type:decimal(6,4)"`
	MargenDespues *decimal.Decimal `gorm:"type:decimal(6,4)"`
	Motivo        string           `gorm:"not null;default:'edicion'"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (h *HistorialPrecio) BeforeCreate(*gorm.DB) error {
	asignarID(&h.ID)
	return nil
}
