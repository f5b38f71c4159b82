package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T) (*InMemoryIdempotencyStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	store := NewInMemoryIdempotencyStore(WithClock(clock.Now), WithSweepInterval(time.Hour))
	t.Cleanup(func() { _ = store.Close() })
	return store, clock
}

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	isNew, err := store.MarkProcessed(ctx, "tenant-a:sale-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, "tenant-a:sale-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, isNew, "a replay inside the TTL is rejected")

	isNew, err = store.MarkProcessed(ctx, "tenant-b:sale-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew, "keys are namespaced by tenant")

	clock.Advance(time.Hour)
	isNew, err = store.MarkProcessed(ctx, "tenant-a:sale-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew, "an expired key can be claimed again")
}

func TestInMemoryIdempotencyStore_IsProcessedAndForget(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "purchase-1", time.Minute)
	require.NoError(t, err)
	processed, _ = store.IsProcessed(ctx, "purchase-1")
	assert.True(t, processed)

	require.NoError(t, store.Forget(ctx, "purchase-1"))
	processed, _ = store.IsProcessed(ctx, "purchase-1")
	assert.False(t, processed, "a forgotten key can be retried")
	assert.NoError(t, store.Forget(ctx, "never-seen"))

	_, _ = store.MarkProcessed(ctx, "purchase-2", time.Minute)
	clock.Advance(2 * time.Minute)
	processed, _ = store.IsProcessed(ctx, "purchase-2")
	assert.False(t, processed)
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	_, _ = store.MarkProcessed(ctx, "short-1", time.Second)
	_, _ = store.MarkProcessed(ctx, "short-2", time.Second)
	_, _ = store.MarkProcessed(ctx, "long", time.Hour)
	assert.Equal(t, 3, store.Size())

	clock.Advance(time.Minute)
	store.cleanup()

	assert.Equal(t, 1, store.Size())
	processed, _ := store.IsProcessed(ctx, "long")
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_OneWinnerPerKey(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if isNew, err := store.MarkProcessed(ctx, "same-key", time.Hour); err == nil && isNew {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
