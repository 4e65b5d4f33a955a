package cache_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mpaulosky/blogsite/internal/cache"
)

// setupRedis starts a Redis container and returns a client against it.
// Teardown is registered on t.
func setupRedis(t *testing.T) *cache.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := cache.New(net.JoinHostPort(host, port.Port()), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClient(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := setupRedis(t)
	ctx := context.Background()

	t.Run("set and get round trip", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "output:/api/v1/ping", []byte("pong"), time.Minute))

		got, err := client.Get(ctx, "output:/api/v1/ping")
		require.NoError(t, err)
		assert.Equal(t, []byte("pong"), got)
	})

	t.Run("missing key behaves like a miss", func(t *testing.T) {
		got, err := client.Get(ctx, "output:/api/v1/nothing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete removes the key", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "output:/api/v1/gone", []byte("x"), time.Minute))
		require.NoError(t, client.Delete(ctx, "output:/api/v1/gone"))

		got, err := client.Get(ctx, "output:/api/v1/gone")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete by prefix removes query variants", func(t *testing.T) {
		entries := []string{
			"output:/api/v1/articles",
			"output:/api/v1/articles?include_archived=true",
			"output:/api/v1/articles/20250101/hello-world",
		}
		for _, key := range entries {
			require.NoError(t, client.Set(ctx, key, []byte("cached"), time.Minute))
		}
		require.NoError(t, client.Set(ctx, "output:/api/v1/categories", []byte("cached"), time.Minute))

		require.NoError(t, client.DeleteByPrefix(ctx, "output:/api/v1/articles"))

		for _, key := range entries {
			got, err := client.Get(ctx, key)
			require.NoError(t, err)
			assert.Nil(t, got, "expected %s to be invalidated", key)
		}

		got, err := client.Get(ctx, "output:/api/v1/categories")
		require.NoError(t, err)
		assert.Equal(t, []byte("cached"), got)
	})
}

func TestDisabledClient(t *testing.T) {
	ctx := context.Background()
	client := cache.New("", "", 0)

	assert.False(t, client.Enabled())

	got, err := client.Get(ctx, "output:/api/v1/articles")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, client.Set(ctx, "output:/api/v1/articles", []byte("x"), time.Minute))
	require.NoError(t, client.Delete(ctx, "output:/api/v1/articles"))
	require.NoError(t, client.DeleteByPrefix(ctx, "output:/api/v1/articles"))
	require.NoError(t, client.Close())
}
