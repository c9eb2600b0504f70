package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	clock := &manualClock{now: time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)}
	store := NewInMemoryIdempotencyStore(WithStoreClock(clock.Now))
	defer store.Close()
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, fresh)

	seen, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, seen)

	clock.Advance(time.Hour)
	seen, err = store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)

	fresh, err = store.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestInMemoryIdempotencyStore_ConcurrentMarkWinsOnce(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if fresh, _ := store.MarkProcessed(context.Background(), "evt-shared", time.Minute); fresh {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners.Load())
}

func TestInMemoryIdempotencyStore_SweepDropsExpired(t *testing.T) {
	clock := &manualClock{now: time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)}
	store := NewInMemoryIdempotencyStore(WithStoreClock(clock.Now), WithSweepInterval(time.Hour))
	defer store.Close()
	ctx := context.Background()

	_, _ = store.MarkProcessed(ctx, "short", time.Minute)
	_, _ = store.MarkProcessed(ctx, "long", time.Hour)
	clock.Advance(2 * time.Minute)

	store.sweep()
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore(WithSweepInterval(time.Millisecond))
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
