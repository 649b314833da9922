package service

import (
	"context"

	"tresetapas/internal/dto"

	"golang.org/x/sync/errgroup"
)

const topRotacion = 5

type DashboardService interface {
	Resumen(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	pedidos      PedidoService
	consultas    ConsultaService
	inventario   InventarioService
	contabilidad ContabilidadService
	almacen      AlmacenService
	rotacionDias int
}

func NewDashboardService(
	pedidos PedidoService,
	consultas ConsultaService,
	inventario InventarioService,
	contabilidad ContabilidadService,
	almacen AlmacenService,
	rotacionDias int,
) DashboardService {
	return &dashboardService{
		pedidos:      pedidos,
		consultas:    consultas,
		inventario:   inventario,
		contabilidad: contabilidad,
		almacen:      almacen,
		rotacionDias: rotacionDias,
	}
}

// Resumen gathers the panel figures concurrently; the first failure cancels
// the rest.
func (s *dashboardService) Resumen(ctx context.Context) (*dto.DashboardResponse, error) {
	var resp dto.DashboardResponse
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		resp.PedidosPendientes, err = s.pedidos.ContarPendientes(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.ConsultasPendientes, err = s.consultas.ContarPendientes(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.AlertasStock, err = s.inventario.ObtenerAlertas(ctx)
		return err
	})
	g.Go(func() error {
		c, err := s.contabilidad.Resumen(ctx)
		if err != nil {
			return err
		}
		resp.Contabilidad = c.Totales
		return nil
	})
	g.Go(func() error {
		r, err := s.almacen.Rotacion(ctx, s.rotacionDias)
		if err != nil {
			return err
		}
		top := r.Productos
		if len(top) > topRotacion {
			top = top[:topRotacion]
		}
		resp.TopRotacion = top
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &resp, nil
}
