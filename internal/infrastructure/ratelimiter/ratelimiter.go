package ratelimiter

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultSourceKey = "X-RateLimit-Key"

type Limiter interface {
	Allow(sourceKey string) bool
	GetSourceKey(r *http.Request) string
	Remaining(sourceKey string) int
	GetMaxBurst() int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per source. Buckets idle for longer
// than the cache TTL are evicted.
type RateLimiter struct {
	limit           rate.Limit
	maxBurst        int
	cacheTTL        time.Duration
	sourceHeaderKey string
	now             func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

type Options struct {
	MaxRatePerSecond int
	MaxBurst         int
	CacheTTL         time.Duration
	SourceHeaderKey  string
}

func New(options Options) *RateLimiter {
	if options.CacheTTL == 0 {
		options.CacheTTL = 10 * time.Second
	}

	if options.MaxBurst <= 0 {
		options.MaxBurst = options.MaxRatePerSecond
	}

	if options.SourceHeaderKey == "" {
		options.SourceHeaderKey = defaultSourceKey
	}

	rl := &RateLimiter{
		limit:           rate.Limit(options.MaxRatePerSecond),
		maxBurst:        options.MaxBurst,
		cacheTTL:        options.CacheTTL,
		sourceHeaderKey: options.SourceHeaderKey,
		now:             time.Now,
		buckets:         make(map[string]*bucket),
		stop:            make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *RateLimiter) get(sourceKey string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[sourceKey]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.maxBurst)}
		rl.buckets[sourceKey] = b
	}
	b.lastSeen = rl.now()

	return b.limiter
}

func (rl *RateLimiter) Allow(sourceKey string) bool {
	return rl.get(sourceKey).AllowN(rl.now(), 1)
}

func (rl *RateLimiter) Remaining(sourceKey string) int {
	tokens := rl.get(sourceKey).TokensAt(rl.now())
	if tokens < 0 {
		return 0
	}
	return int(tokens)
}

func (rl *RateLimiter) GetMaxBurst() int {
	return rl.maxBurst
}

// GetSourceKey uses the configured header, taking the first hop of a
// forwarded chain, and falls back to the remote host.
func (rl *RateLimiter) GetSourceKey(r *http.Request) string {
	if key := r.Header.Get(rl.sourceHeaderKey); key != "" {
		first, _, _ := strings.Cut(key, ",")
		return strings.TrimSpace(first)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cacheTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	cutoff := rl.now().Add(-rl.cacheTTL)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() {
		close(rl.stop)
	})
}
