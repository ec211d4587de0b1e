package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Remote backends run only when a server is provided, e.g.
//
//	BOXYPIC_TEST_REDIS=localhost:6379 BOXYPIC_TEST_MONGO=mongodb://localhost:27017 go test ./pkg/cache

func testBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "boxypic-test:" + t.Name()

	_, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, c.Set(ctx, key, []byte("payload"), time.Minute))
	data, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, "payload", string(data))

	require.NoError(t, c.Delete(ctx, key))
	_, hit, err = c.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, hit)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("BOXYPIC_TEST_REDIS")
	if addr == "" {
		t.Skip("BOXYPIC_TEST_REDIS not set")
	}
	c, err := NewRedisCache(context.Background(), addr)
	require.NoError(t, err)
	defer c.Close()
	testBackend(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("BOXYPIC_TEST_MONGO")
	if uri == "" {
		t.Skip("BOXYPIC_TEST_MONGO not set")
	}
	c, err := NewMongoCache(context.Background(), uri, "boxypic_test")
	require.NoError(t, err)
	defer c.Close()
	testBackend(t, c)
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRedisCache(ctx, "127.0.0.1:1")
	require.ErrorIs(t, err, ErrUnreachable)
}
