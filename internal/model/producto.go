package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Producto is a catalog item. Products are never hard-deleted: order lines keep
// their own copies of price and cost, but still reference the product row.
type Producto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Nombre      string          `gorm:"index;not null"`
	Descripcion string          `gorm:"type:text;not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// PrecioBase is the unit cost; nil when it was never recorded.
	PrecioBase *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Margen is a fraction of the selling price (0.30 = 30%).
	Margen      *decimal.Decimal `gorm:"type:decimal(6,4)"`
	StockActual int              `gorm:"not null;default:0"`
	StockMinimo int              `gorm:"not null;default:0"`
	CategoriaID uuid.UUID        `gorm:"type:uuid;not null;index"`
	UbicacionID uuid.UUID        `gorm:"type:uuid;not null;index"`
	ImagenURL   *string
	ImagenHint  *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
	Ubicacion *Ubicacion `gorm:"foreignKey:UbicacionID"`
}

func (p *Producto) BeforeCreate(*gorm.DB) error {
	asignarID(&p.ID)
	return nil
}

// BajoStock reports whether the product is at or below its reorder point.
func (p *Producto) BajoStock() bool { return p.StockActual <= p.StockMinimo }
