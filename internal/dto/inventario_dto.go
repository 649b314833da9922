package dto

import "time"

type AlertaStockResponse struct {
	ProductoID  string `json:"producto_id"`
	Nombre      string `json:"nombre"`
	StockActual int    `json:"stock_actual"`
	StockMinimo int    `json:"stock_minimo"`
	Faltante    int    `json:"faltante"`
	Categoria   string `json:"categoria"`
	Ubicacion   string `json:"ubicacion"`
}

type MovimientoFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"        validate:"omitempty,oneof=pedido ajuste_manual alta"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MovimientoStockResponse struct {
	ID             string    `json:"id"`
	ProductoID     string    `json:"producto_id"`
	ProductoNombre string    `json:"producto_nombre"`
	Tipo           string    `json:"tipo"`
	Cantidad       int       `json:"cantidad"`
	StockAnterior  int       `json:"stock_anterior"`
	StockNuevo     int       `json:"stock_nuevo"`
	Motivo         string    `json:"motivo"`
	ReferenciaID   *string   `json:"referencia_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoStockResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
