package dto

import "github.com/shopspring/decimal"

type AgregarCarritoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

// ActualizarCantidadRequest sets a line quantity; zero or less removes the line.
type ActualizarCantidadRequest struct {
	Cantidad int `json:"cantidad"`
}

type CheckoutRequest struct {
	MetodoPago string         `json:"metodo_pago" validate:"required,oneof=efectivo nequi daviplata tarjeta cash-on-delivery"`
	Cliente    ClienteRequest `json:"cliente"`
}

type CarritoItemResponse struct {
	ProductoID     string          `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Cantidad       int             `json:"cantidad"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ImagenURL      *string         `json:"imagen_url,omitempty"`
}

type CarritoResponse struct {
	ID            string                `json:"id"`
	Items         []CarritoItemResponse `json:"items"`
	CantidadItems int                   `json:"cantidad_items"`
	Total         decimal.Decimal       `json:"total"`
}
