package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estados de pedido. The workflow only moves forward:
// solicitado → en-proceso → entregado.
const (
	EstadoSolicitado = "solicitado"
	EstadoEnProceso  = "en-proceso"
	EstadoEntregado  = "entregado"
)

// Métodos de pago aceptados.
const (
	MetodoEfectivo      = "efectivo"
	MetodoNequi         = "nequi"
	MetodoDaviplata     = "daviplata"
	MetodoTarjeta       = "tarjeta"
	MetodoContraentrega = "cash-on-delivery"
)

// Origen del pedido: storefront checkout or a sale typed in at the counter.
const (
	OrigenWeb       = "web"
	OrigenMostrador = "mostrador"
)

// OrdenEstado returns the position of estado in the workflow, or -1 if unknown.
func OrdenEstado(estado string) int {
	switch estado {
	case EstadoSolicitado:
		return 0
	case EstadoEnProceso:
		return 1
	case EstadoEntregado:
		return 2
	default:
		return -1
	}
}

// Pedido is a customer order. Total is the sum of the line snapshots at the
// moment of capture.
type Pedido struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Codigo           string          `gorm:"type:varchar(16);uniqueIndex;not null"`
	Fecha            time.Time       `gorm:"not null;index"`
	Estado           string          `gorm:"type:varchar(20);not null;index"`
	Total            decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	MetodoPago       string          `gorm:"type:varchar(30);not null"`
	Origen           string          `gorm:"type:varchar(20);not null;default:'web'"`
	ClienteNombre    *string
	ClienteDireccion *string
	ClienteTelefono  *string
	ClienteEmail     *string
	// UsuarioID is the staff member who typed in a counter sale.
	UsuarioID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []PedidoItem `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
}

func (p *Pedido) BeforeCreate(*gorm.DB) error {
	asignarID(&p.ID)
	return nil
}

// CantidadItems is the total number of units in the order.
func (p *Pedido) CantidadItems() int {
	n := 0
	for _, it := range p.Items {
		n += it.Cantidad
	}
	return n
}

// PedidoItem is one order line. PrecioUnitario, CostoUnitario and
// MargenUnitario are copies taken when the order was captured; later product
// edits never reach them.
type PedidoItem struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	PedidoID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductoNombre string           `gorm:"not null"`
	Cantidad       int              `gorm:"not null"`
	PrecioUnitario decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	CostoUnitario  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MargenUnitario *decimal.Decimal `gorm:"type:decimal(6,4)"`
	// CostoEstimado marks a CostoUnitario back-derived from price and margin.
	CostoEstimado bool `gorm:"not null;default:false"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (PedidoItem) TableName() string { return "pedido_items" }

func (i *PedidoItem) BeforeCreate(*gorm.DB) error {
	asignarID(&i.ID)
	return nil
}

// Subtotal is PrecioUnitario × Cantidad.
func (i *PedidoItem) Subtotal() decimal.Decimal {
	return i.PrecioUnitario.Mul(decimal.NewFromInt(int64(i.Cantidad)))
}
