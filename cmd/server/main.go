package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tresetapas/internal/config"
	"tresetapas/internal/infra"
	"tresetapas/internal/repository"
	"tresetapas/internal/router"
	"tresetapas/internal/service"
	"tresetapas/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty console in development, JSON in production
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := service.NewAuthService(repository.NewUsuarioRepository(db), cfg).SembrarPermisos(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed permissions")
	}

	codigos, err := infra.NewGeneradorCodigos(cfg.NodoID)
	if err != nil {
		log.Fatal().Err(err).Int64("nodo", cfg.NodoID).Msg("invalid snowflake node")
	}

	// Worker handlers are wired here so the pool shares the same mailer and
	// dispatcher as the HTTP layer.
	mailer := infra.NewMailer(cfg, infra.NewCircuitBreaker(infra.DefaultCBConfig()))
	if !mailer.Habilitado() {
		log.Warn().Msg("SMTP_HOST not set: emails will be dropped")
	}
	dispatcher := worker.NewDispatcher(rdb, cfg.NotificacionesEmail)
	pedidoRepo := repository.NewPedidoRepository(db)

	workerHandlers := &worker.WorkerHandlers{
		Recibo: worker.NewReciboWorker(pedidoRepo, dispatcher, cfg.PDFStoragePath, cfg.NombreTienda),
		Email:  worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	loc, err := time.LoadLocation(cfg.Zona)
	if err != nil {
		log.Warn().Err(err).Str("zona", cfg.Zona).Msg("unknown time zone, using UTC")
		loc = time.UTC
	}
	if err := worker.StartReporteCron(ctx, worker.ReporteCronConfig{
		Spec:         cfg.ReporteCron,
		Location:     loc,
		Productos:    repository.NewProductoRepository(db),
		Pedidos:      pedidoRepo,
		Dispatcher:   dispatcher,
		StaffEmail:   cfg.NotificacionesEmail,
		RotacionDias: cfg.RotacionDias,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule report")
	}

	r := router.New(cfg, db, rdb, router.Deps{
		Mailer:     mailer,
		Dispatcher: dispatcher,
		Codigos:    codigos,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Tres Etapas backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	log.Info().Msg("server exited")
}
