package cache

import (
	"context"
	"testing"

	"github.com/fleet/ledger/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// port 1 is never a redis server, so the ping fails fast
var unreachable = config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

func TestIdempotencyStoreFactory_DisabledUsesMemory(t *testing.T) {
	f := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: false}, WithLogger(zap.NewNop()))
	store, err := f.CreateStore(context.Background())
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &InMemoryIdempotencyStore{}, store)
}

func TestIdempotencyStoreFactory_FallsBackWhenUnreachable(t *testing.T) {
	f := NewIdempotencyStoreFactory(unreachable)
	store, err := f.CreateStore(context.Background())
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &InMemoryIdempotencyStore{}, store)
}

func TestIdempotencyStoreFactory_FallbackDisabled(t *testing.T) {
	f := NewIdempotencyStoreFactory(unreachable, WithInMemoryFallback(false))
	_, err := f.CreateStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis required")
}
