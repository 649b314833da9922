package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LineaPedidoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type ClienteRequest struct {
	Nombre    *string `json:"nombre"    validate:"omitempty,min=2,max=120"`
	Direccion *string `json:"direccion" validate:"omitempty,min=5,max=200"`
	Telefono  *string `json:"telefono"  validate:"omitempty,min=7,max=20"`
	Email     *string `json:"email"     validate:"omitempty,email"`
}

type CrearPedidoRequest struct {
	Items      []LineaPedidoRequest `json:"items"       validate:"required,min=1,dive"`
	MetodoPago string               `json:"metodo_pago" validate:"required,oneof=efectivo nequi daviplata tarjeta cash-on-delivery"`
	Cliente    ClienteRequest       `json:"cliente"`
}

type ActualizarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=solicitado en-proceso entregado"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type PedidoFilter struct {
	Estado string `form:"estado" validate:"omitempty,oneof=solicitado en-proceso entregado"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type ExportarPedidosFilter struct {
	Estado string `form:"estado" validate:"required,oneof=solicitado en-proceso entregado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PedidoItemResponse struct {
	ProductoID     string          `json:"producto_id"`
	ProductoNombre string          `json:"producto_nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type ClienteResponse struct {
	Nombre    *string `json:"nombre"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"`
}

type PedidoResponse struct {
	ID            string               `json:"id"`
	Codigo        string               `json:"codigo"`
	Fecha         time.Time            `json:"fecha"`
	Estado        string               `json:"estado"`
	Total         decimal.Decimal      `json:"total"`
	MetodoPago    string               `json:"metodo_pago"`
	Origen        string               `json:"origen"`
	Cliente       ClienteResponse      `json:"cliente"`
	CantidadItems int                  `json:"cantidad_items"`
	Items         []PedidoItemResponse `json:"items"`
}

type PedidoListResponse struct {
	Data       []PedidoResponse `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

type PendientesResponse struct {
	Pendientes int64 `json:"pendientes"`
}
