package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	newly, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, newly)

	again, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	processed, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = store.IsProcessed(ctx, "evt-2")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "evt-1", time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	processed, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, processed)

	// expired entries can be re-marked
	newly, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, newly)
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "evt-1", time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "evt-2", time.Minute)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
