package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"easystay/internal/adapters/observability"
	"easystay/internal/app"
	"easystay/internal/domain"
	"easystay/internal/shared"
	"easystay/internal/storage"
)

// seed replaces hotel_map with the demo catalogue and clears saved search
// parameters. Development use only.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("backend", cfg.StoreBackend).
		Str("prefix", cfg.KVPrefix).
		Msg("seed starting")

	kv, closeKV, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open kv substrate failed")
	}
	defer closeKV()

	hotels := app.NewHotelService(kv)
	if err := hotels.Reset(ctx); err != nil {
		log.Fatal().Err(err).Msg("reset hotel map failed")
	}
	if err := kv.Remove(ctx, domain.KeySearchParams); err != nil {
		log.Warn().Err(err).Msg("clear search params failed")
	}

	all, err := hotels.ListByMerchant(ctx, "")
	if err != nil {
		log.Fatal().Err(err).Msg("read back failed")
	}
	log.Info().Int("hotels", len(all)).Msg("seed completed")
}
