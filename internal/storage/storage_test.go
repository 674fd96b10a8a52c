package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"easystay/internal/shared"
	"easystay/internal/storage"
	"easystay/internal/storage/memory"
)

func TestPrefixed_ScopesKeys(t *testing.T) {
	ctx := context.Background()
	base := memory.New()
	kv := storage.Prefixed(base, "HOTEL_APP_")

	require.NoError(t, kv.Set(ctx, "hotel_map", "{}"))
	require.Equal(t, []string{"HOTEL_APP_hotel_map"}, base.Keys())

	v, ok, err := kv.Get(ctx, "hotel_map")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "{}", v)

	require.NoError(t, kv.Remove(ctx, "hotel_map"))
	require.Empty(t, base.Keys())
}

func TestPrefixed_EmptyPrefixIsIdentity(t *testing.T) {
	base := memory.New()
	require.Same(t, base, storage.Prefixed(base, ""))
}

func TestOpen_SQLiteAndMemory(t *testing.T) {
	ctx := context.Background()

	kv, closeFn, err := storage.Open(ctx, shared.Config{
		StoreBackend: "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "kv.db"),
		KVPrefix:     "T_",
	})
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "search_params", "{}"))
	require.NoError(t, closeFn())

	kv, closeFn, err = storage.Open(ctx, shared.Config{StoreBackend: "memory"})
	require.NoError(t, err)
	_, ok, err := kv.Get(ctx, "search_params")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, closeFn())

	_, _, err = storage.Open(ctx, shared.Config{StoreBackend: "etcd"})
	require.Error(t, err)
}
