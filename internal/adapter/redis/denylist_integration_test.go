//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestDenylist_Redis(t *testing.T) {
	ctx := context.Background()
	rdb, err := Dial(ctx, Options{Addr: startRedis(t)})
	require.NoError(t, err)
	defer rdb.Close()

	dl := NewDenylist(rdb, WithPrefix("test:revoked:"))

	revoked, err := dl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, dl.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err = dl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := rdb.TTL(ctx, "test:revoked:jti-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	// Already expired tokens are not stored.
	require.NoError(t, dl.Revoke(ctx, "jti-2", time.Now().Add(-time.Minute)))
	revoked, err = dl.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDial_Unreachable(t *testing.T) {
	_, err := Dial(context.Background(), Options{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
