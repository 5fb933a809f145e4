package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	_, hit, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, m.Set(ctx, "k", []byte("v1"), time.Minute))
	got, hit, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, []byte("v1"), got)

	// Overwrite replaces the value.
	require.NoError(t, m.Set(ctx, "k", []byte("v2"), time.Minute))
	got, hit, err = m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, []byte("v2"), got)
}

func TestMemoryTTLExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Hour))

	now = now.Add(59 * time.Minute)
	_, hit, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, hit)

	now = now.Add(2 * time.Minute)
	_, hit, err = m.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, hit)
}

func TestMemoryCopiesValues(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	src := []byte("original")
	require.NoError(t, m.Set(ctx, "k", src, time.Minute))
	src[0] = 'X'

	got, hit, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, []byte("original"), got)

	got[0] = 'Y'
	again, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), again)
}
