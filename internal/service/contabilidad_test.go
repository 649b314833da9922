package service_test

import (
	"testing"
	"time"

	"tresetapas/internal/model"
	"tresetapas/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linea(precio int64, cantidad int, costo *decimal.Decimal, margen *decimal.Decimal) model.PedidoItem {
	return model.PedidoItem{
		ProductoID:     uuid.New(),
		ProductoNombre: "Producto",
		Cantidad:       cantidad,
		PrecioUnitario: dec(precio),
		CostoUnitario:  costo,
		MargenUnitario: margen,
	}
}

func pedidoEntregado(codigo string, items ...model.PedidoItem) model.Pedido {
	return model.Pedido{
		ID:     uuid.New(),
		Codigo: codigo,
		Fecha:  time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC),
		Estado: model.EstadoEntregado,
		Items:  items,
	}
}

func TestResumirContabilidad_CostoConocido(t *testing.T) {
	p := pedidoEntregado("A1", linea(28571, 1, decPtr(dec(20000)), decPtr(decimal.RequireFromString("0.3"))))

	resp := service.ResumirContabilidad([]model.Pedido{p})

	require.Len(t, resp.Pedidos, 1)
	assert.Equal(t, "28571", resp.Totales.TotalVenta.String())
	assert.Equal(t, "20000", resp.Totales.TotalCosto.String())
	assert.Equal(t, "8571", resp.Totales.Ganancia.String())
	assert.Equal(t, "30", resp.Totales.MargenPct.String())

	det := service.DetallarPedido(&p)
	require.Len(t, det.Lineas, 1)
	require.NotNil(t, det.Lineas[0].MargenLineaPct)
	assert.Equal(t, "30", det.Lineas[0].MargenLineaPct.String())
}

func TestResumirContabilidad_CostoFaltanteEsGananciaCero(t *testing.T) {
	a := pedidoEntregado("A", linea(50000, 2, decPtr(dec(35000)), nil))
	b := pedidoEntregado("B", linea(25000, 2, nil, nil))

	resp := service.ResumirContabilidad([]model.Pedido{a, b})

	assert.Equal(t, "150000", resp.Totales.TotalVenta.String())
	assert.Equal(t, "120000", resp.Totales.TotalCosto.String())
	assert.Equal(t, "30000", resp.Totales.Ganancia.String())
	assert.Equal(t, 2, resp.Totales.TotalPedidos)
	assert.Equal(t, 4, resp.Totales.TotalItems)

	require.Len(t, resp.Pedidos, 2)
	assert.False(t, resp.Pedidos[0].CostoFaltante)
	assert.True(t, resp.Pedidos[1].CostoFaltante)
	assert.True(t, resp.Pedidos[1].Ganancia.IsZero())

	det := service.DetallarPedido(&b)
	assert.Nil(t, det.Lineas[0].CostoUnitario)
}

func TestResumirContabilidad_EstimaCostoDesdeMargen(t *testing.T) {
	p := pedidoEntregado("E", linea(10000, 3, nil, decPtr(decimal.RequireFromString("0.25"))))

	resp := service.ResumirContabilidad([]model.Pedido{p})

	require.Len(t, resp.Pedidos, 1)
	assert.True(t, resp.Pedidos[0].CostoEstimado)
	assert.False(t, resp.Pedidos[0].CostoFaltante)
	assert.Equal(t, "22500", resp.Totales.TotalCosto.String())
	assert.Equal(t, "7500", resp.Totales.Ganancia.String())
}

func TestResumirContabilidad_SoloEntregados(t *testing.T) {
	entregado := pedidoEntregado("OK", linea(1000, 1, decPtr(dec(800)), nil))
	pendiente := pedidoEntregado("NO", linea(99999, 1, nil, nil))
	pendiente.Estado = model.EstadoSolicitado
	enProceso := pedidoEntregado("NO2", linea(99999, 1, nil, nil))
	enProceso.Estado = model.EstadoEnProceso

	resp := service.ResumirContabilidad([]model.Pedido{pendiente, entregado, enProceso})

	require.Len(t, resp.Pedidos, 1)
	assert.Equal(t, "OK", resp.Pedidos[0].Codigo)
	assert.Equal(t, "1000", resp.Totales.TotalVenta.String())
}

func TestResumirContabilidad_VacioYSinVentas(t *testing.T) {
	resp := service.ResumirContabilidad(nil)
	assert.Empty(t, resp.Pedidos)
	assert.True(t, resp.Totales.MargenPct.IsZero())

	gratis := pedidoEntregado("G", linea(0, 1, decPtr(dec(0)), nil))
	det := service.DetallarPedido(&gratis)
	assert.Nil(t, det.Lineas[0].MargenLineaPct)
	assert.True(t, det.Resumen.MargenPct.IsZero())
}

func TestResumirContabilidad_Idempotente(t *testing.T) {
	pedidos := []model.Pedido{
		pedidoEntregado("A", linea(12000, 2, decPtr(dec(9000)), nil), linea(5000, 1, nil, nil)),
		pedidoEntregado("B", linea(8000, 4, nil, decPtr(decimal.RequireFromString("0.4")))),
	}
	primero := service.ResumirContabilidad(pedidos)
	segundo := service.ResumirContabilidad(pedidos)
	assert.Equal(t, primero, segundo)
	assert.Nil(t, pedidos[1].Items[0].CostoUnitario, "the fold must not write back into the lines")
}

func TestResumirContabilidad_TotalesCuadranConPedidos(t *testing.T) {
	pendiente := pedidoEntregado("P", linea(90000, 1, decPtr(dec(10000)), nil))
	pendiente.Estado = model.EstadoEnProceso
	pedidos := []model.Pedido{
		pedidoEntregado("M1",
			linea(28571, 2, decPtr(dec(20000)), decPtr(decimal.RequireFromString("0.3"))),
			linea(15000, 1, nil, nil),
		),
		pedidoEntregado("M2",
			linea(12500, 3, nil, decPtr(decimal.RequireFromString("0.2"))),
			linea(7001, 1, decPtr(dec(5000)), nil),
		),
		pedidoEntregado("M3", linea(3333, 7, nil, nil)),
		pendiente,
	}

	resp := service.ResumirContabilidad(pedidos)

	require.Len(t, resp.Pedidos, 3)
	venta, costo, ganancia := decimal.Zero, decimal.Zero, decimal.Zero
	items := 0
	for _, p := range resp.Pedidos {
		assert.True(t, p.TotalVenta.Sub(p.TotalCosto).Equal(p.Ganancia), "pedido %s", p.Codigo)
		venta = venta.Add(p.TotalVenta)
		costo = costo.Add(p.TotalCosto)
		ganancia = ganancia.Add(p.Ganancia)
		items += p.CantidadItems
	}
	assert.True(t, resp.Totales.TotalVenta.Equal(venta), "venta %s vs %s", resp.Totales.TotalVenta, venta)
	assert.True(t, resp.Totales.TotalCosto.Equal(costo), "costo %s vs %s", resp.Totales.TotalCosto, costo)
	assert.True(t, resp.Totales.Ganancia.Equal(ganancia), "ganancia %s vs %s", resp.Totales.Ganancia, ganancia)
	assert.True(t, resp.Totales.TotalVenta.Sub(resp.Totales.TotalCosto).Equal(resp.Totales.Ganancia))
	assert.Equal(t, 14, items)
	assert.Equal(t, 14, resp.Totales.TotalItems)
	assert.Equal(t, 3, resp.Totales.TotalPedidos)
	// 2×8571 + 0 + 3×2500 + 2001 + 0
	assert.Equal(t, "26643", resp.Totales.Ganancia.String())
}
