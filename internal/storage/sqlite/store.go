// Package sqlite keeps the key-value substrate in a device-local SQLite file
// through gorm.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"easystay/internal/adapters/observability"
	"easystay/internal/domain"
)

var _ domain.KVStore = (*Store)(nil)

// Entry is one row of the kv_entries table.
type Entry struct {
	Key   string `gorm:"primaryKey;size:191"`
	Value string `gorm:"type:text;not null"`
}

func (Entry) TableName() string { return "kv_entries" }

type Store struct{ db *gorm.DB }

// Open creates the parent directory if needed, opens the database file and
// migrates the kv_entries table. Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	s, err := New(db)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return s, nil
}

// New wraps an open gorm handle and migrates kv_entries. The caller keeps
// ownership of db when migration fails.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var e Entry
	err := s.db.WithContext(ctx).First(&e, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		observability.ObserveKV("sqlite", "miss")
		return "", false, nil
	}
	if err != nil {
		observability.ObserveKV("sqlite", "error")
		return "", false, err
	}
	observability.ObserveKV("sqlite", "hit")
	return e.Value, true, nil
}

// Set is a blind write: insert, or replace the value of an existing key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&Entry{Key: key, Value: value}).Error
	if err != nil {
		observability.ObserveKV("sqlite", "error")
		return err
	}
	observability.ObserveKV("sqlite", "set")
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&Entry{}, "key = ?", key).Error; err != nil {
		observability.ObserveKV("sqlite", "error")
		return err
	}
	observability.ObserveKV("sqlite", "remove")
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
