package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/turtacn/qsim/pkg/errors"
)

// RateLimiter decides whether the client identified by key may proceed.
type RateLimiter interface {
	Allow(key string) (bool, RateLimitInfo)
}

// RateLimitInfo is the limiter state reported in response headers.
type RateLimitInfo struct {
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimitConfig configures the RateLimit middleware.
type RateLimitConfig struct {
	// KeyFunc extracts the client key.  Defaults to ClientIPKey.
	KeyFunc func(r *http.Request) string

	// SkipPaths bypass the limiter.
	SkipPaths []string
}

// DefaultRateLimitConfig keys on client address and leaves probes and the
// metrics endpoint unthrottled.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		KeyFunc:   ClientIPKey,
		SkipPaths: []string{"/health", "/healthz", "/readyz", "/metrics"},
	}
}

// ClientIPKey returns the host part of RemoteAddr.  Run it behind chi's
// RealIP so proxied addresses are honoured.
func ClientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ─────────────────────────────────────────────────────────────────────────────
// KeyedLimiter
// ─────────────────────────────────────────────────────────────────────────────

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter keeps one token bucket per key.  Buckets idle for longer than
// idleTTL are dropped on a later call.
type KeyedLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

// DefaultLimiterIdleTTL is how long an unused bucket is kept.
const DefaultLimiterIdleTTL = 5 * time.Minute

// NewKeyedLimiter refills rps tokens per second up to burst for each key.
func NewKeyedLimiter(rps float64, burst int, idleTTL time.Duration) *KeyedLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KeyedLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
		entries: make(map[string]*limiterEntry),
	}
}

// Allow takes one token from key's bucket.
func (l *KeyedLimiter) Allow(key string) (bool, RateLimitInfo) {
	now := l.now()
	lim := l.bucket(key, now)

	info := RateLimitInfo{Limit: l.burst}
	if lim.AllowN(now, 1) {
		info.Remaining = int(math.Max(0, lim.TokensAt(now)))
		return true, info
	}

	deficit := 1 - lim.TokensAt(now)
	if l.limit > 0 {
		info.RetryAfter = time.Duration(deficit / float64(l.limit) * float64(time.Second))
	}
	return false, info
}

// Len returns the number of live buckets.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *KeyedLimiter) bucket(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.idleTTL > 0 && now.Sub(l.lastSweep) >= l.idleTTL {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) >= l.idleTTL {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.lim
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

type rateLimitedBody struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Code   string `json:"code"`
}

// RateLimit rejects requests over the limit with 429 and a Retry-After header
// in whole seconds.
func RateLimit(limiter RateLimiter, cfg RateLimitConfig) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = ClientIPKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			allowed, info := limiter.Allow(keyFunc(r))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			if allowed {
				next.ServeHTTP(w, r)
				return
			}

			secs := int(math.Ceil(info.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(rateLimitedBody{
				Status: "error",
				Error:  errors.DefaultMessageForCode(errors.ErrCodeTooManyRequests),
				Code:   errors.ErrCodeTooManyRequests.String(),
			})
		})
	}
}

//Personal.AI order the ending
