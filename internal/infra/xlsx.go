package infra

import (
	"fmt"
	"io"
	"strings"

	"tresetapas/internal/model"

	"github.com/360EntSecGroup-Skylar/excelize"
)

var columnasPedidos = []struct {
	titulo string
	ancho  float64
}{
	{"Código de Pedido", 15},
	{"Fecha", 12},
	{"Estado", 12},
	{"Total", 10},
	{"Método de Pago", 18},
	{"Nombre del Cliente", 20},
	{"Dirección", 25},
	{"Teléfono", 12},
	{"Productos", 50},
	{"Cantidades Totales", 15},
}

var (
	hojaPorEstado = map[string]string{
		model.EstadoSolicitado: "Solicitados",
		model.EstadoEnProceso:  "En_Proceso",
		model.EstadoEntregado:  "Entregados",
	}
	estadoLabel = map[string]string{
		model.EstadoSolicitado: "Solicitado",
		model.EstadoEnProceso:  "En Proceso",
		model.EstadoEntregado:  "Entregado",
	}
)

// HojaPedidos is the sheet (and file name) label for an order state.
func HojaPedidos(estado string) string {
	if h, ok := hojaPorEstado[estado]; ok {
		return h
	}
	return "Pedidos"
}

// ExportarPedidosXLSX writes one sheet with a row per order. Product names
// come from the line snapshots.
func ExportarPedidosXLSX(w io.Writer, pedidos []model.Pedido, estado string) error {
	f := excelize.NewFile()
	hoja := HojaPedidos(estado)
	f.SetSheetName("Sheet1", hoja)

	for i, c := range columnasPedidos {
		col := columna(i)
		f.SetCellValue(hoja, col+"1", c.titulo)
		f.SetColWidth(hoja, col, col, c.ancho)
	}

	for r := range pedidos {
		p := &pedidos[r]
		productos := make([]string, 0, len(p.Items))
		for _, it := range p.Items {
			productos = append(productos, fmt.Sprintf("%s (x%d)", it.ProductoNombre, it.Cantidad))
		}
		total, _ := p.Total.Float64()
		fila := []any{
			p.Codigo,
			p.Fecha.Format("02/01/2006"),
			estadoLabel[p.Estado],
			total,
			MetodoPagoLabel(p.MetodoPago),
			deref(p.ClienteNombre),
			deref(p.ClienteDireccion),
			deref(p.ClienteTelefono),
			strings.Join(productos, "; "),
			p.CantidadItems(),
		}
		for i, v := range fila {
			f.SetCellValue(hoja, fmt.Sprintf("%s%d", columna(i), r+2), v)
		}
	}
	return f.Write(w)
}

// columna maps a zero-based index to a column letter; the sheet has fewer
// than 26 columns.
func columna(i int) string { return string(rune('A' + i)) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
