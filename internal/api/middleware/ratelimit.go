package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	appErr "github.com/planwise/engine/pkg/errors"
	"github.com/planwise/engine/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides whether one more request from key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type limiterEntry struct {
	limiter *rate.Limiter
	last    time.Time
}

// MemoryLimiter is a per-key token bucket held in process memory.
type MemoryLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*limiterEntry
	stop     chan struct{}
	once     sync.Once
}

// NewMemoryLimiter starts a GC goroutine that drops idle keys; call Stop to end it.
func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	l := &MemoryLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: map[string]*limiterEntry{},
		stop:     make(chan struct{}),
	}
	go l.gc(5*time.Minute, 10*time.Minute)
	return l
}

func (l *MemoryLimiter) gc(every, idle time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-t.C:
			l.mu.Lock()
			for k, v := range l.visitors {
				if time.Since(v.last) > idle {
					delete(l.visitors, k)
				}
			}
			l.mu.Unlock()
		}
	}
}

func (l *MemoryLimiter) Stop() { l.once.Do(func() { close(l.stop) }) }

func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	le, ok := l.visitors[key]
	if !ok {
		le = &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = le
	}
	le.last = time.Now()
	return le.limiter.Allow()
}

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// RedisLimiter is a fixed-window counter shared by every API instance.
// When Redis cannot answer it defers to Fallback.
type RedisLimiter struct {
	Client   *redis.Client
	Window   time.Duration
	Limit    int
	Prefix   string
	Fallback Limiter
}

func NewRedisLimiter(client *redis.Client, window time.Duration, limit int, fallback Limiter) *RedisLimiter {
	if window <= 0 {
		window = time.Second
	}
	if limit <= 0 {
		limit = 1
	}
	return &RedisLimiter{Client: client, Window: window, Limit: limit, Prefix: "rl:", Fallback: fallback}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	res, err := rateLimitScript.Run(ctx, l.Client, []string{l.Prefix + key}, l.Window.Milliseconds()).Result()
	if err != nil {
		logger.L().Warn("redis rate limit unavailable", zap.Error(err))
		return l.fallback(ctx, key)
	}
	vals, ok := res.([]interface{})
	if !ok || len(vals) < 2 {
		return l.fallback(ctx, key)
	}
	count, _ := vals[0].(int64)
	return int(count) <= l.Limit
}

func (l *RedisLimiter) fallback(ctx context.Context, key string) bool {
	if l.Fallback == nil {
		return true
	}
	return l.Fallback.Allow(ctx, key)
}

// NewRedisLimiterRPS sizes the window so the shared limiter admits the
// same sustained rate as a MemoryLimiter built from rps.
func NewRedisLimiterRPS(client *redis.Client, rps float64, fallback Limiter) *RedisLimiter {
	if rps >= 1 {
		return NewRedisLimiter(client, time.Second, int(math.Ceil(rps)), fallback)
	}
	if rps <= 0 {
		rps = 1
	}
	return NewRedisLimiter(client, time.Duration(float64(time.Second)/rps), 1, fallback)
}

// ClientIP picks the rate-limit key for a request. X-Forwarded-For is read
// only when the direct peer is a trusted proxy.
type ClientIP struct {
	trusted []netip.Prefix
}

// NewClientIP accepts CIDRs or bare addresses. With none, forwarding
// headers are ignored.
func NewClientIP(proxies []string) (*ClientIP, error) {
	c := &ClientIP{}
	for _, raw := range proxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !strings.Contains(raw, "/") {
			addr, err := netip.ParseAddr(raw)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
			}
			addr = addr.Unmap()
			c.trusted = append(c.trusted, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		p, err := netip.ParsePrefix(raw)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
		}
		c.trusted = append(c.trusted, p.Masked())
	}
	return c, nil
}

func (c *ClientIP) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range c.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Of walks X-Forwarded-For from the right and returns the first hop that
// is not a trusted proxy.
func (c *ClientIP) Of(r *http.Request) string {
	peer := remoteHost(r)
	if c == nil || !c.isTrusted(peer) {
		return peer
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	client := peer
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		client = hop
		if !c.isTrusted(hop) {
			break
		}
	}
	return client
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit rejects requests over the client IP's budget with 429. A nil
// ips keys on the direct peer address.
func RateLimit(l Limiter, ips *ClientIP) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(r.Context(), ips.Of(r)) {
				writeError(w, http.StatusTooManyRequests, appErr.CodeTooManyRequests, http.StatusText(http.StatusTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
