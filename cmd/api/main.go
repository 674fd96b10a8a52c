package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "easystay/internal/adapters/http_server"
	"easystay/internal/adapters/observability"
	"easystay/internal/app"
	"easystay/internal/shared"
	"easystay/internal/storage"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("open kv substrate failed")
	}
	defer func() {
		if err := closeKV(); err != nil {
			log.Warn().Err(err).Msg("close kv substrate")
		}
	}()

	// deps
	hotels := app.NewHotelService(kv,
		app.WithStrictRooms(cfg.StrictRooms),
		app.WithPageSizes(cfg.QueryPageSize, cfg.AdminPageSize),
	)
	if cfg.SeedDemo {
		seeded, err := hotels.SeedIfEmpty(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("demo seed failed")
		}
		log.Info().Bool("seeded", seeded).Msg("demo catalogue checked")
	}
	search := app.NewSearchService(kv, cfg.DefaultCity)
	booking := app.NewBookingService(hotels)

	// http
	srv := server.New(cfg.RateLimitRPS)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Hotels: hotels, Search: search, Booking: booking})

	servers := []*http.Server{{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}}
	if ms := observability.MetricsServer(cfg.MetricsAddr, reg); ms != nil {
		servers = append(servers, ms)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		s := s
		g.Go(func() error {
			log.Info().Str("addr", s.Addr).Msg("listening")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var errs []error
		for _, s := range servers {
			errs = append(errs, s.Shutdown(shutdownCtx))
		}
		log.Info().Msg("servers stopped")
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited with error")
	}
}
