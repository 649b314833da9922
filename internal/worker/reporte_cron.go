package worker

// reporte_cron.go: daily digest for the staff inbox: products at or below
// their reorder point and the current rotation tiers.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tresetapas/internal/model"
	"tresetapas/internal/repository"
	"tresetapas/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ReporteCronConfig holds the dependencies of the digest job.
type ReporteCronConfig struct {
	Spec         string // cron expression, e.g. "0 7 * * *"
	Location     *time.Location
	Productos    repository.ProductoRepository
	Pedidos      repository.PedidoRepository
	Dispatcher   *Dispatcher
	StaffEmail   string
	RotacionDias int
}

// StartReporteCron schedules the digest and stops the scheduler when ctx is
// cancelled. An empty Spec disables it.
func StartReporteCron(ctx context.Context, cfg ReporteCronConfig) error {
	if cfg.Spec == "" {
		log.Info().Msg("reporte_cron: disabled")
		return nil
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(cfg.Spec, func() { runReporte(ctx, cfg) }); err != nil {
		return fmt.Errorf("reporte_cron: invalid spec %q: %w", cfg.Spec, err)
	}
	c.Start()
	log.Info().Str("spec", cfg.Spec).Msg("reporte_cron: started")

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		log.Info().Msg("reporte_cron: shutting down")
	}()
	return nil
}

func runReporte(ctx context.Context, cfg ReporteCronConfig) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("reporte_cron: panic recovered")
		}
	}()

	body, alertas, err := ConstruirReporte(ctx, cfg.Productos, cfg.Pedidos, cfg.RotacionDias, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("reporte_cron: build failed")
		return
	}
	log.Info().Int("alertas", alertas).Msg("reporte_cron: digest built")

	if cfg.StaffEmail == "" || cfg.Dispatcher == nil {
		return
	}
	if err := cfg.Dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: cfg.StaffEmail,
		Subject: fmt.Sprintf("Reporte diario de inventario (%d alertas)", alertas),
		Body:    body,
	}); err != nil {
		log.Error().Err(err).Msg("reporte_cron: enqueue failed")
	}
}

// ConstruirReporte renders the digest text and returns the number of stock
// alerts in it.
func ConstruirReporte(ctx context.Context, productos repository.ProductoRepository, pedidos repository.PedidoRepository, dias int, now time.Time) (string, int, error) {
	if dias <= 0 {
		dias = service.DiasRotacionDefault
	}
	bajos, err := productos.ListBajoStock(ctx)
	if err != nil {
		return "", 0, err
	}
	desde := now.UTC().Add(-time.Duration(dias) * 24 * time.Hour)
	entregados, err := pedidos.List(ctx, repository.PedidoQuery{
		Estado:       model.EstadoEntregado,
		Desde:        &desde,
		ConProductos: true,
	})
	if err != nil {
		return "", 0, err
	}
	rotacion := service.ClasificarRotacion(entregados, dias, now.UTC())

	var b strings.Builder
	fmt.Fprintf(&b, "Stock bajo (%d):\n", len(bajos))
	for _, p := range bajos {
		fmt.Fprintf(&b, "  - %s: %d (mínimo %d)\n", p.Nombre, p.StockActual, p.StockMinimo)
	}
	fmt.Fprintf(&b, "\nRotación últimos %d días (%d productos):\n", dias, len(rotacion))
	for _, r := range rotacion {
		fmt.Fprintf(&b, "  - [%s] %s: %d vendidos, %d en stock\n", r.Rotacion, r.Nombre, r.UnidadesVendidas, r.StockActual)
	}
	return b.String(), len(bajos), nil
}
