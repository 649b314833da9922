package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearProductoRequest creates a catalog item. When precio_base is given the
// selling price is derived from it and margen_pct; precio_venta is only used
// for items without a recorded cost.
type CrearProductoRequest struct {
	Nombre      string           `json:"nombre"        validate:"required,min=3,max=120"`
	Descripcion string           `json:"descripcion"   validate:"required,min=10"`
	PrecioBase  *decimal.Decimal `json:"precio_base"   validate:"omitempty,gt=0"`
	MargenPct   *float64         `json:"margen_pct"    validate:"omitempty,gt=0,lt=100"`
	PrecioVenta *decimal.Decimal `json:"precio_venta"  validate:"omitempty,gt=0"`
	StockActual int              `json:"stock_actual"  validate:"min=0"`
	StockMinimo int              `json:"stock_minimo"  validate:"min=0"`
	CategoriaID string           `json:"categoria_id"  validate:"required,uuid"`
	UbicacionID string           `json:"ubicacion_id"  validate:"required,uuid"`
	ImagenURL   *string          `json:"imagen_url"    validate:"omitempty,url"`
	ImagenHint  *string          `json:"imagen_hint"   validate:"omitempty,max=60"`
}

// ActualizarProductoRequest is a partial update. Stock is changed through
// AjustarStock so every change leaves a movement.
type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"        validate:"omitempty,min=3,max=120"`
	Descripcion *string          `json:"descripcion"   validate:"omitempty,min=10"`
	PrecioBase  *decimal.Decimal `json:"precio_base"   validate:"omitempty,gt=0"`
	MargenPct   *float64         `json:"margen_pct"    validate:"omitempty,gt=0,lt=100"`
	PrecioVenta *decimal.Decimal `json:"precio_venta"  validate:"omitempty,gt=0"`
	StockMinimo *int             `json:"stock_minimo"  validate:"omitempty,min=0"`
	CategoriaID *string          `json:"categoria_id"  validate:"omitempty,uuid"`
	UbicacionID *string          `json:"ubicacion_id"  validate:"omitempty,uuid"`
	ImagenURL   *string          `json:"imagen_url"    validate:"omitempty,url"`
	ImagenHint  *string          `json:"imagen_hint"   validate:"omitempty,max=60"`
}

type AjustarStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3,max=200"`
}

// CalcularPrecioRequest previews the price the product form would store.
type CalcularPrecioRequest struct {
	PrecioBase decimal.Decimal `json:"precio_base" validate:"required,gt=0"`
	MargenPct  float64         `json:"margen_pct"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre      string `form:"nombre"`
	CategoriaID string `form:"categoria_id" validate:"omitempty,uuid"`
	Activo      string `form:"activo"` // "true" (default) | "false" | "all"
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string           `json:"id"`
	Nombre      string           `json:"nombre"`
	Descripcion string           `json:"descripcion"`
	PrecioVenta decimal.Decimal  `json:"precio_venta"`
	PrecioBase  *decimal.Decimal `json:"precio_base"`
	Margen      *decimal.Decimal `json:"margen"`
	MargenPct   *decimal.Decimal `json:"margen_pct"`
	StockActual int              `json:"stock_actual"`
	StockMinimo int              `json:"stock_minimo"`
	BajoStock   bool             `json:"bajo_stock"`
	CategoriaID string           `json:"categoria_id"`
	Categoria   string           `json:"categoria"`
	UbicacionID string           `json:"ubicacion_id"`
	Ubicacion   string           `json:"ubicacion"`
	ImagenURL   *string          `json:"imagen_url"`
	ImagenHint  *string          `json:"imagen_hint"`
	Activo      bool             `json:"activo"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// CatalogoProductoResponse is the public view of a product: no cost data.
type CatalogoProductoResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	Disponible  int             `json:"disponible"`
	Categoria   string          `json:"categoria"`
	Ubicacion   string          `json:"ubicacion"`
	ImagenURL   *string         `json:"imagen_url"`
	ImagenHint  *string         `json:"imagen_hint"`
}

type CatalogoListResponse struct {
	Data  []CatalogoProductoResponse `json:"data"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}

type CalcularPrecioResponse struct {
	PrecioBase  decimal.Decimal `json:"precio_base"`
	MargenPct   float64         `json:"margen_pct"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	// SinMargen is true when the percentage was not usable and the product
	// would sell at cost.
	SinMargen bool `json:"sin_margen"`
}
