package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResumenPedidoContable holds the money figures of one delivered order.
type ResumenPedidoContable struct {
	PedidoID      string          `json:"pedido_id"`
	Codigo        string          `json:"codigo"`
	Fecha         time.Time       `json:"fecha"`
	CantidadItems int             `json:"cantidad_items"`
	TotalVenta    decimal.Decimal `json:"total_venta"`
	TotalCosto    decimal.Decimal `json:"total_costo"`
	Ganancia      decimal.Decimal `json:"ganancia"`
	MargenPct     decimal.Decimal `json:"margen_pct"`
	// CostoEstimado: at least one line cost was back-derived from its margin.
	CostoEstimado bool `json:"costo_estimado"`
	// CostoFaltante: at least one line had no cost data and counts as zero profit.
	CostoFaltante bool `json:"costo_faltante"`
}

type TotalesContables struct {
	TotalVenta   decimal.Decimal `json:"total_venta"`
	TotalCosto   decimal.Decimal `json:"total_costo"`
	Ganancia     decimal.Decimal `json:"ganancia"`
	MargenPct    decimal.Decimal `json:"margen_pct"`
	TotalPedidos int             `json:"total_pedidos"`
	TotalItems   int             `json:"total_items"`
}

type ContabilidadResponse struct {
	Pedidos []ResumenPedidoContable `json:"pedidos"`
	Totales TotalesContables        `json:"totales"`
}

// LineaContable is one line of the per-order accounting detail. Nil pointers
// render as N/A.
type LineaContable struct {
	ProductoID     string           `json:"producto_id"`
	ProductoNombre string           `json:"producto_nombre"`
	Cantidad       int              `json:"cantidad"`
	PrecioUnitario decimal.Decimal  `json:"precio_unitario"`
	CostoUnitario  *decimal.Decimal `json:"costo_unitario"`
	MargenUnitario *decimal.Decimal `json:"margen_unitario"`
	TotalLinea     decimal.Decimal  `json:"total_linea"`
	CostoLinea     decimal.Decimal  `json:"costo_linea"`
	GananciaLinea  decimal.Decimal  `json:"ganancia_linea"`
	MargenLineaPct *decimal.Decimal `json:"margen_linea_pct"`
	CostoEstimado  bool             `json:"costo_estimado"`
	CostoFaltante  bool             `json:"costo_faltante"`
}

type DetalleContableResponse struct {
	Resumen ResumenPedidoContable `json:"resumen"`
	Lineas  []LineaContable       `json:"lineas"`
}

// FilaContableCSV is one row of the accounting CSV export.
type FilaContableCSV struct {
	Codigo        string `csv:"codigo_pedido"`
	Fecha         string `csv:"fecha"`
	CantidadItems int    `csv:"items"`
	TotalVenta    string `csv:"total_venta"`
	TotalCosto    string `csv:"total_costo"`
	Ganancia      string `csv:"ganancia"`
	MargenPct     string `csv:"margen_pct"`
	CostoEstimado bool   `csv:"costo_estimado"`
}
