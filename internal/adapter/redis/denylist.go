// Package redis stores revoked access tokens in Redis so that logouts are
// shared by every replica.
package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"blogpessoal/internal/domain"
)

// Options configures the client created by Dial.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Dial connects to Redis and pings it.
func Dial(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, oops.Code("REDIS_PING_FAILED").With("addr", opts.Addr).Wrap(err)
	}
	return rdb, nil
}

// Denylist implements domain.TokenDenylist with one expiring key per token.
type Denylist struct {
	rdb    redis.Cmdable
	prefix string
	now    func() time.Time
}

// DenylistOption customizes a Denylist.
type DenylistOption func(*Denylist)

// WithPrefix sets the key prefix. The default is "blogpessoal:revoked".
func WithPrefix(prefix string) DenylistOption {
	return func(d *Denylist) { d.prefix = strings.Trim(prefix, ":") }
}

// NewDenylist creates a Denylist on top of rdb.
func NewDenylist(rdb redis.Cmdable, opts ...DenylistOption) *Denylist {
	d := &Denylist{
		rdb:    rdb,
		prefix: "blogpessoal:revoked",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ domain.TokenDenylist = (*Denylist)(nil)

func (d *Denylist) key(jti string) string {
	return d.prefix + ":" + jti
}

// Revoke stores jti until the token would have expired anyway.
func (d *Denylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.rdb.Set(ctx, d.key(jti), 1, ttl).Err(); err != nil {
		return oops.Code("REDIS_REVOKE_FAILED").Wrap(err)
	}
	return nil
}

// IsRevoked reports whether jti is on the list.
func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.rdb.Exists(ctx, d.key(jti)).Result()
	if err != nil {
		return false, oops.Code("REDIS_LOOKUP_FAILED").Wrap(err)
	}
	return n > 0, nil
}
