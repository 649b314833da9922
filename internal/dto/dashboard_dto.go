package dto

type DashboardResponse struct {
	PedidosPendientes   int64                 `json:"pedidos_pendientes"`
	ConsultasPendientes int64                 `json:"consultas_pendientes"`
	AlertasStock        []AlertaStockResponse `json:"alertas_stock"`
	Contabilidad        TotalesContables      `json:"contabilidad"`
	TopRotacion         []ProductoRotacion    `json:"top_rotacion"`
}
