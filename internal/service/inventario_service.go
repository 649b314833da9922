package service

import (
	"context"

	"tresetapas/internal/dto"
	"tresetapas/internal/repository"

	"github.com/google/uuid"
)

// InventarioService exposes the read side of stock: alerts and the movement
// ledger. Writes go through PedidoService and ProductoService.AjustarStock.
type InventarioService interface {
	ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
}

type inventarioService struct {
	productos   repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
}

func NewInventarioService(productos repository.ProductoRepository, movimientos repository.MovimientoStockRepository) InventarioService {
	return &inventarioService{productos: productos, movimientos: movimientos}
}

// ObtenerAlertas lists active products at or below their reorder point.
func (s *inventarioService) ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	productos, err := s.productos.ListBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertaStockResponse, 0, len(productos))
	for _, p := range productos {
		a := dto.AlertaStockResponse{
			ProductoID:  p.ID.String(),
			Nombre:      p.Nombre,
			StockActual: p.StockActual,
			StockMinimo: p.StockMinimo,
			Faltante:    p.StockMinimo - p.StockActual,
		}
		if p.Categoria != nil {
			a.Categoria = p.Categoria.Nombre
		}
		if p.Ubicacion != nil {
			a.Ubicacion = p.Ubicacion.Nombre
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	page, limit := paginar(filter.Page, filter.Limit, 50)
	q := repository.MovimientoStockFilter{Tipo: filter.Tipo, Page: page, Limit: limit}
	if filter.ProductoID != "" {
		id, err := uuid.Parse(filter.ProductoID)
		if err != nil {
			return nil, ErrProductoNoEncontrado
		}
		q.ProductoID = &id
	}
	movs, total, err := s.movimientos.List(ctx, q)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoStockResponse, len(movs))
	for i, m := range movs {
		r := dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			ProductoID:    m.ProductoID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt,
		}
		if m.Producto != nil {
			r.ProductoNombre = m.Producto.Nombre
		}
		if m.ReferenciaID != nil {
			ref := m.ReferenciaID.String()
			r.ReferenciaID = &ref
		}
		data[i] = r
	}
	return &dto.MovimientoListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}
