package service

import (
	"bytes"
	"context"
	"errors"
	"time"

	"tresetapas/internal/dto"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ContabilidadService interface {
	Resumen(ctx context.Context) (*dto.ContabilidadResponse, error)
	Detalle(ctx context.Context, pedidoID uuid.UUID) (*dto.DetalleContableResponse, error)
	ExportarCSV(ctx context.Context) ([]byte, error)
}

type contabilidadService struct {
	pedidos repository.PedidoRepository
}

func NewContabilidadService(pedidos repository.PedidoRepository) ContabilidadService {
	return &contabilidadService{pedidos: pedidos}
}

func (s *contabilidadService) Resumen(ctx context.Context) (*dto.ContabilidadResponse, error) {
	pedidos, err := s.pedidos.List(ctx, repository.PedidoQuery{Estado: model.EstadoEntregado})
	if err != nil {
		return nil, err
	}
	resp := ResumirContabilidad(pedidos)
	return &resp, nil
}

func (s *contabilidadService) Detalle(ctx context.Context, pedidoID uuid.UUID) (*dto.DetalleContableResponse, error) {
	p, err := s.pedidos.FindByID(ctx, pedidoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPedidoNoEncontrado
		}
		return nil, err
	}
	if p.Estado != model.EstadoEntregado {
		return nil, ErrPedidoNoEncontrado
	}
	resp := DetallarPedido(p)
	return &resp, nil
}

// ExportarCSV renders the per-order summary as CSV.
func (s *contabilidadService) ExportarCSV(ctx context.Context) ([]byte, error) {
	resumen, err := s.Resumen(ctx)
	if err != nil {
		return nil, err
	}
	filas := make([]dto.FilaContableCSV, 0, len(resumen.Pedidos))
	for _, p := range resumen.Pedidos {
		filas = append(filas, dto.FilaContableCSV{
			Codigo:        p.Codigo,
			Fecha:         p.Fecha.Format(time.DateOnly),
			CantidadItems: p.CantidadItems,
			TotalVenta:    p.TotalVenta.StringFixed(0),
			TotalCosto:    p.TotalCosto.StringFixed(0),
			Ganancia:      p.Ganancia.StringFixed(0),
			MargenPct:     p.MargenPct.StringFixed(2),
			CostoEstimado: p.CostoEstimado,
		})
	}
	var buf bytes.Buffer
	if err := gocsv.Marshal(&filas, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ── Aggregation ───────────────────────────────────────────────────────────────
// Everything below is a pure fold over the snapshot fields stored on each
// order line. Live product prices are never consulted.

// ResumirContabilidad summarizes delivered orders. Orders in any other state
// are skipped. Totals are the sums of the per-order figures.
func ResumirContabilidad(pedidos []model.Pedido) dto.ContabilidadResponse {
	resp := dto.ContabilidadResponse{Pedidos: []dto.ResumenPedidoContable{}}
	venta, costo := decimal.Zero, decimal.Zero
	for i := range pedidos {
		p := &pedidos[i]
		if p.Estado != model.EstadoEntregado {
			continue
		}
		r := DetallarPedido(p).Resumen
		resp.Pedidos = append(resp.Pedidos, r)
		venta = venta.Add(r.TotalVenta)
		costo = costo.Add(r.TotalCosto)
		resp.Totales.TotalItems += r.CantidadItems
	}
	resp.Totales.TotalPedidos = len(resp.Pedidos)
	resp.Totales.TotalVenta = venta
	resp.Totales.TotalCosto = costo
	resp.Totales.Ganancia = venta.Sub(costo)
	resp.Totales.MargenPct = margenPct(resp.Totales.Ganancia, venta)
	return resp
}

// DetallarPedido computes the line and order figures of a single order.
func DetallarPedido(p *model.Pedido) dto.DetalleContableResponse {
	r := dto.ResumenPedidoContable{
		PedidoID: p.ID.String(),
		Codigo:   p.Codigo,
		Fecha:    p.Fecha,
	}
	lineas := make([]dto.LineaContable, 0, len(p.Items))
	venta, costo := decimal.Zero, decimal.Zero
	for i := range p.Items {
		it := &p.Items[i]
		l := lineaContable(it)
		lineas = append(lineas, l)
		venta = venta.Add(l.TotalLinea)
		costo = costo.Add(l.CostoLinea)
		r.CantidadItems += it.Cantidad
		r.CostoEstimado = r.CostoEstimado || l.CostoEstimado
		r.CostoFaltante = r.CostoFaltante || l.CostoFaltante
	}
	r.TotalVenta = venta
	r.TotalCosto = costo
	r.Ganancia = venta.Sub(costo)
	r.MargenPct = margenPct(r.Ganancia, venta)
	return dto.DetalleContableResponse{Resumen: r, Lineas: lineas}
}

func lineaContable(it *model.PedidoItem) dto.LineaContable {
	cant := decimal.NewFromInt(int64(it.Cantidad))
	costoUnit, estimado, faltante := costoUnitario(it)
	total := it.PrecioUnitario.Mul(cant)
	costo := costoUnit.Mul(cant)
	l := dto.LineaContable{
		ProductoID:     it.ProductoID.String(),
		ProductoNombre: it.ProductoNombre,
		Cantidad:       it.Cantidad,
		PrecioUnitario: it.PrecioUnitario,
		MargenUnitario: it.MargenUnitario,
		TotalLinea:     total,
		CostoLinea:     costo,
		GananciaLinea:  total.Sub(costo),
		CostoEstimado:  estimado,
		CostoFaltante:  faltante,
	}
	if !faltante {
		l.CostoUnitario = &costoUnit
	}
	if total.IsPositive() {
		m := margenPct(l.GananciaLinea, total)
		l.MargenLineaPct = &m
	}
	return l
}

// costoUnitario picks the cost of a line: the captured cost when present,
// else an estimate from the captured margin, else the sale price itself so
// the line contributes zero profit.
func costoUnitario(it *model.PedidoItem) (costo decimal.Decimal, estimado, faltante bool) {
	switch {
	case it.CostoUnitario != nil:
		return *it.CostoUnitario, it.CostoEstimado, false
	case it.MargenUnitario != nil:
		return EstimarCosto(it.PrecioUnitario, *it.MargenUnitario), true, false
	default:
		return it.PrecioUnitario, false, true
	}
}

func margenPct(ganancia, venta decimal.Decimal) decimal.Decimal {
	if !venta.IsPositive() {
		return decimal.Zero
	}
	return ganancia.Div(venta).Mul(cien).Round(2)
}
