package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "snapshot", []byte("v1"), 10*time.Minute))

	b, ok, err := s.Get(ctx, "snapshot")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), b)

	now = now.Add(10*time.Minute + time.Second)
	_, ok, err = s.Get(ctx, "snapshot")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreNoTTLAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "k", []byte("forever"), 0))
	_, ok, _ := s.Get(ctx, "k")
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "k"))
	_, ok, _ = s.Get(ctx, "k")
	assert.False(t, ok)

	_, ok, err := s.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}
