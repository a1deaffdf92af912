package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenylist_Key(t *testing.T) {
	assert.Equal(t, "blogpessoal:revoked:abc", NewDenylist(nil).key("abc"))
	assert.Equal(t, "x:y:abc", NewDenylist(nil, WithPrefix(":x:y:")).key("abc"))
}

func TestDenylist_RevokeExpiredIsNoop(t *testing.T) {
	// A nil client would panic if Revoke reached Redis.
	d := NewDenylist(nil)
	d.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, d.Revoke(context.Background(), "jti", d.now().Add(-time.Second)))
	require.NoError(t, d.Revoke(context.Background(), "jti", d.now()))
}
