package ratelimiter

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_BurstThenDeny(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 3})
	defer rl.Close()

	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return frozen }

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("a"), "request %d", i)
	}
	assert.False(t, rl.Allow("a"))
	assert.Equal(t, 0, rl.Remaining("a"))

	assert.True(t, rl.Allow("b"), "sources are independent")

	frozen = frozen.Add(time.Second)
	assert.True(t, rl.Allow("a"), "one token refilled after a second")
}

func TestRateLimiter_Remaining(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 10, MaxBurst: 5})
	defer rl.Close()

	frozen := time.Now()
	rl.now = func() time.Time { return frozen }

	assert.Equal(t, 5, rl.Remaining("x"))
	rl.Allow("x")
	assert.Equal(t, 4, rl.Remaining("x"))
	assert.Equal(t, 5, rl.GetMaxBurst())
}

func TestRateLimiter_EvictsIdleBuckets(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 1, CacheTTL: time.Hour})
	defer rl.Close()

	frozen := time.Now()
	rl.now = func() time.Time { return frozen }
	assert.True(t, rl.Allow("idle"))

	frozen = frozen.Add(2 * time.Hour)
	rl.evictIdle()

	rl.mu.Lock()
	_, ok := rl.buckets["idle"]
	rl.mu.Unlock()
	assert.False(t, ok)
}

func TestRateLimiter_GetSourceKey(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, SourceHeaderKey: "X-Forwarded-For"})
	defer rl.Close()

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", rl.GetSourceKey(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", rl.GetSourceKey(r))
}
