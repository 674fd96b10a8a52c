package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	redisad "easystay/internal/adapters/redis"
	"easystay/internal/domain"
	"easystay/internal/shared"
	"easystay/internal/storage/memory"
	mysqlrepo "easystay/internal/storage/mysql"
	"easystay/internal/storage/sqlite"
)

// Open builds the substrate named by cfg.StoreBackend, scoped under
// cfg.KVPrefix. The returned close func releases the backend's connections.
func Open(ctx context.Context, cfg shared.Config) (domain.KVStore, func() error, error) {
	var (
		kv      domain.KVStore
		closeFn = func() error { return nil }
	)
	switch cfg.StoreBackend {
	case "memory":
		kv = memory.New()
	case "sqlite":
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		kv, closeFn = s, s.Close
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		repo := mysqlrepo.New(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		kv, closeFn = repo, db.Close
	case "redis":
		s := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		kv, closeFn = s, s.Close
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	log.Info().Str("backend", cfg.StoreBackend).Str("prefix", cfg.KVPrefix).Msg("kv substrate ready")
	return Prefixed(kv, cfg.KVPrefix), closeFn, nil
}
