package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/rapidfire/internal/adapters/redis"
	"github.com/aretw0/rapidfire/pkg/domain"
	"github.com/aretw0/rapidfire/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	ports.RunProjectStoreContract(t, store)
}

func TestRedisStore_Key(t *testing.T) {
	store, mr := newStore(t, redis.WithKey("game:audio"))
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Save(ctx, ports.ContractProject()))

	assert.True(t, mr.Exists("game:audio"))
	assert.False(t, mr.Exists(redis.DefaultKey))
}

func TestRedisStore_Malformed(t *testing.T) {
	store, mr := newStore(t)
	require.NoError(t, mr.Set(redis.DefaultKey, "not-json"))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedProject)
}

func TestRedisStore_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	store := redis.New(addr, "", 0)
	defer store.Close()

	err = store.Save(context.Background(), ports.ContractProject())
	assert.Error(t, err)
}
