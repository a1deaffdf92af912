package adapthttp

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key and forgets keys that
// have been idle for a while.
type RateLimiter struct {
	mu           sync.Mutex
	entries      map[string]*limiterEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiterOption customizes a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithIdleTTL sets how long an unused key is kept.
func WithIdleTTL(d time.Duration) RateLimiterOption {
	return func(l *RateLimiter) { l.idleTTL = d }
}

// WithCleanupEvery sets the janitor interval. Zero disables the janitor.
func WithCleanupEvery(d time.Duration) RateLimiterOption {
	return func(l *RateLimiter) { l.cleanupEvery = d }
}

// NewRateLimiter allows rps requests per second per key with the given burst.
func NewRateLimiter(rps float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	l := &RateLimiter{
		entries:      make(map[string]*limiterEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Get returns the limiter for key, creating it on first use.
func (l *RateLimiter) Get(key string) *rate.Limiter {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if ent, ok := l.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(l.rps, l.burst)
	l.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup drops keys idle for longer than the idle TTL.
func (l *RateLimiter) Cleanup() {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, ent := range l.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(l.entries, k)
		}
	}
}

// StartJanitor runs Cleanup periodically until ctx is cancelled.
func (l *RateLimiter) StartJanitor(ctx context.Context) {
	if l.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(l.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}

// retryAfter is the whole number of seconds until one token refills.
func (l *RateLimiter) retryAfter() int {
	if l.rps <= 0 || l.rps == rate.Inf {
		return 1
	}
	return int(math.Max(1, math.Ceil(1/float64(l.rps))))
}

func (l *RateLimiter) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// rateLimitMiddleware rejects requests over the login budget with 429.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.loginLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if !s.loginLimiter.Get(ip).Allow() {
			s.log.Warn("login rate limited", zap.String("remote", ip))
			w.Header().Set("Retry-After", strconv.Itoa(s.loginLimiter.retryAfter()))
			writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "muitas tentativas de login, tente novamente mais tarde"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
