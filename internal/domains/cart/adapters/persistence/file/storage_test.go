package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

func TestStorage_LoadMissingSnapshot(t *testing.T) {
	store := NewStorage(t.TempDir())
	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ports.ErrSnapshotNotFound)
}

func TestStorage_SaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store := NewStorage(dir)
	cart := domain.Cart{
		{Product: domain.Product{ID: 7, Title: "Shoe", Price: decimal.RequireFromString("139.90")}, Amount: 2},
		{Product: domain.Product{ID: 3, Title: "Boot", Price: decimal.RequireFromString("99")}, Amount: 1},
	}

	require.NoError(t, store.Save(context.Background(), cart))
	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(cart, loaded); diff != "" {
		t.Fatalf("loaded cart mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStorage_SaveOverwritesWholesale(t *testing.T) {
	store := NewStorage(t.TempDir())
	first := domain.Cart{
		{Product: domain.Product{ID: 1}, Amount: 1},
		{Product: domain.Product{ID: 2}, Amount: 1},
	}
	require.NoError(t, store.Save(context.Background(), first))
	require.NoError(t, store.Save(context.Background(), domain.Cart{}))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestStorage_KeysAreIsolated(t *testing.T) {
	dir := t.TempDir()
	a := NewStorage(dir, WithKey("a"))
	b := NewStorage(dir, WithKey("b"))
	require.NotEqual(t, a.Path(), b.Path())

	require.NoError(t, a.Save(context.Background(), domain.Cart{{Product: domain.Product{ID: 1}, Amount: 1}}))
	_, err := b.Load(context.Background())
	require.ErrorIs(t, err, ports.ErrSnapshotNotFound)
}

func TestStorage_CorruptFile(t *testing.T) {
	store := NewStorage(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path(), []byte("{oops"), 0o600))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrCorruptSnapshot)
}
