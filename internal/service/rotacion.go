package service

import (
	"context"
	"sort"
	"time"

	"tresetapas/internal/dto"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
)

// Rotation tiers by units sold in the window.
const (
	RotacionAlta  = "alta"
	RotacionMedia = "media"
	RotacionBaja  = "baja"

	rotacionAltaMin  = 50
	rotacionMediaMin = 10

	DiasRotacionDefault = 30
)

type AlmacenService interface {
	Rotacion(ctx context.Context, dias int) (*dto.RotacionResponse, error)
}

type almacenService struct {
	pedidos repository.PedidoRepository
	now     func() time.Time
}

func NewAlmacenService(pedidos repository.PedidoRepository) AlmacenService {
	return &almacenService{pedidos: pedidos, now: time.Now}
}

func (s *almacenService) Rotacion(ctx context.Context, dias int) (*dto.RotacionResponse, error) {
	if dias <= 0 {
		dias = DiasRotacionDefault
	}
	now := s.now().UTC()
	desde := inicioVentana(now, dias)
	pedidos, err := s.pedidos.List(ctx, repository.PedidoQuery{
		Estado:       model.EstadoEntregado,
		Desde:        &desde,
		ConProductos: true,
	})
	if err != nil {
		return nil, err
	}
	productos := ClasificarRotacion(pedidos, dias, now)
	return &dto.RotacionResponse{
		Dias:      dias,
		Desde:     desde,
		Hasta:     now,
		Productos: productos,
		Resumen:   resumirRotacion(productos),
	}, nil
}

// ClasificarRotacion sums the units of every product sold in delivered orders
// dated within the last dias days of now and assigns each a tier. Products
// with no sales in the window are left out. Stock and category come from the
// product loaded on each line, so they reflect the current catalog.
//
// The result is sorted by units sold, highest first, then by name.
func ClasificarRotacion(pedidos []model.Pedido, dias int, now time.Time) []dto.ProductoRotacion {
	desde := inicioVentana(now, dias)
	acum := make(map[uuid.UUID]*dto.ProductoRotacion)
	for i := range pedidos {
		p := &pedidos[i]
		if p.Estado != model.EstadoEntregado || p.Fecha.Before(desde) {
			continue
		}
		for j := range p.Items {
			it := &p.Items[j]
			r, ok := acum[it.ProductoID]
			if !ok {
				r = &dto.ProductoRotacion{ProductoID: it.ProductoID.String(), Nombre: it.ProductoNombre}
				if prod := it.Producto; prod != nil {
					r.Nombre = prod.Nombre
					r.StockActual = prod.StockActual
					if prod.Categoria != nil {
						r.Categoria = prod.Categoria.Nombre
					}
				}
				acum[it.ProductoID] = r
			}
			r.UnidadesVendidas += it.Cantidad
		}
	}

	out := make([]dto.ProductoRotacion, 0, len(acum))
	for _, r := range acum {
		tier := clasificarRotacion(r.UnidadesVendidas)
		if tier == "" {
			continue
		}
		r.Rotacion = tier
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnidadesVendidas != out[j].UnidadesVendidas {
			return out[i].UnidadesVendidas > out[j].UnidadesVendidas
		}
		return out[i].Nombre < out[j].Nombre
	})
	return out
}

// clasificarRotacion maps units sold to a tier; "" means not sold.
func clasificarRotacion(unidades int) string {
	switch {
	case unidades >= rotacionAltaMin:
		return RotacionAlta
	case unidades >= rotacionMediaMin:
		return RotacionMedia
	case unidades > 0:
		return RotacionBaja
	default:
		return ""
	}
}

func inicioVentana(now time.Time, dias int) time.Time {
	return now.Add(-time.Duration(dias) * 24 * time.Hour)
}

func resumirRotacion(productos []dto.ProductoRotacion) dto.ResumenRotacion {
	var r dto.ResumenRotacion
	unidades := make(stats.Float64Data, 0, len(productos))
	for _, p := range productos {
		switch p.Rotacion {
		case RotacionAlta:
			r.Alta++
		case RotacionMedia:
			r.Media++
		case RotacionBaja:
			r.Baja++
		}
		unidades = append(unidades, float64(p.UnidadesVendidas))
	}
	if len(unidades) == 0 {
		return r
	}
	if mean, err := unidades.Mean(); err == nil {
		r.PromedioUnidades, _ = stats.Round(mean, 2)
	}
	if med, err := unidades.Median(); err == nil {
		r.MedianaUnidades = med
	}
	return r
}
