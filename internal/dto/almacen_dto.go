package dto

import "time"

type RotacionFilter struct {
	Dias int `form:"dias,default=30" validate:"min=1,max=365"`
}

// ProductoRotacion is the sales velocity of one product in the window.
// StockActual is the live on-hand quantity, not a historical value.
type ProductoRotacion struct {
	ProductoID       string `json:"producto_id"`
	Nombre           string `json:"nombre"`
	Categoria        string `json:"categoria"`
	StockActual      int    `json:"stock_actual"`
	UnidadesVendidas int    `json:"unidades_vendidas"`
	Rotacion         string `json:"rotacion"` // alta | media | baja
}

type ResumenRotacion struct {
	Alta             int     `json:"alta"`
	Media            int     `json:"media"`
	Baja             int     `json:"baja"`
	PromedioUnidades float64 `json:"promedio_unidades"`
	MedianaUnidades  float64 `json:"mediana_unidades"`
}

type RotacionResponse struct {
	Dias      int                `json:"dias"`
	Desde     time.Time          `json:"desde"`
	Hasta     time.Time          `json:"hasta"`
	Productos []ProductoRotacion `json:"productos"`
	Resumen   ResumenRotacion    `json:"resumen"`
}
