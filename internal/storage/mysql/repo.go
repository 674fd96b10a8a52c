package mysql

import (
	"context"
	"database/sql"
	"errors"

	"easystay/internal/adapters/observability"
	"easystay/internal/domain"
)

var _ domain.KVStore = (*Repo)(nil)

// Repo keeps the key-value substrate in a MySQL table.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// EnsureSchema creates kv_entries when missing.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createTableSQL)
	return err
}

func (r *Repo) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := r.db.QueryRowContext(ctx, getSQL, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		observability.ObserveKV("mysql", "miss")
		return "", false, nil
	}
	if err != nil {
		observability.ObserveKV("mysql", "error")
		return "", false, err
	}
	observability.ObserveKV("mysql", "hit")
	return v, true, nil
}

func (r *Repo) Set(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx, upsertSQL, key, value); err != nil {
		observability.ObserveKV("mysql", "error")
		return err
	}
	observability.ObserveKV("mysql", "set")
	return nil
}

func (r *Repo) Remove(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, deleteSQL, key); err != nil {
		observability.ObserveKV("mysql", "error")
		return err
	}
	observability.ObserveKV("mysql", "remove")
	return nil
}
