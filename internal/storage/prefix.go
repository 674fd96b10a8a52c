// Package storage selects and decorates the key-value substrate.
package storage

import (
	"context"

	"easystay/internal/domain"
)

// Prefixed scopes every key of next under prefix, so several applications can
// share one substrate.
func Prefixed(next domain.KVStore, prefix string) domain.KVStore {
	if prefix == "" {
		return next
	}
	return prefixed{next: next, prefix: prefix}
}

type prefixed struct {
	next   domain.KVStore
	prefix string
}

func (p prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.next.Get(ctx, p.prefix+key)
}

func (p prefixed) Set(ctx context.Context, key, value string) error {
	return p.next.Set(ctx, p.prefix+key, value)
}

func (p prefixed) Remove(ctx context.Context, key string) error {
	return p.next.Remove(ctx, p.prefix+key)
}
