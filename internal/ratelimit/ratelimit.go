// Package ratelimit throttles mutating requests per user with sliding
// minute and hour windows.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"rental-portal/internal/auth"

	"github.com/gin-gonic/gin"
)

// RateLimiter tracks and enforces per-user request rate limits.
type RateLimiter struct {
	requestsPerMinute int
	requestsPerHour   int
	enabled           bool

	// Request tracking, keyed by user id
	minuteWindows map[string][]time.Time
	hourWindows   map[string][]time.Time
	mu            sync.Mutex
}

// NewRateLimiter creates a new rate limiter with the given limits.
func NewRateLimiter(requestsPerMinute, requestsPerHour int, enabled bool) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		requestsPerHour:   requestsPerHour,
		enabled:           enabled,
		minuteWindows:     make(map[string][]time.Time),
		hourWindows:       make(map[string][]time.Time),
	}
}

// AllowRequest checks if a request by the given user is allowed.
// Returns true if allowed, false if a rate limit is exceeded.
func (rl *RateLimiter) AllowRequest(userID string) bool {
	if !rl.enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.cleanup(userID, now)

	if rl.requestsPerMinute > 0 && len(rl.minuteWindows[userID]) >= rl.requestsPerMinute {
		return false
	}
	if rl.requestsPerHour > 0 && len(rl.hourWindows[userID]) >= rl.requestsPerHour {
		return false
	}

	rl.minuteWindows[userID] = append(rl.minuteWindows[userID], now)
	rl.hourWindows[userID] = append(rl.hourWindows[userID], now)

	return true
}

// Middleware rejects over-limit mutating requests with 429. Reads are never
// throttled.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		actor := auth.FromContext(c)
		if actor.ID == "" {
			c.Next()
			return
		}

		if !rl.AllowRequest(actor.ID) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded, try again later",
			})
			return
		}
		c.Next()
	}
}

// cleanup removes expired entries from the user's time windows.
func (rl *RateLimiter) cleanup(userID string, now time.Time) {
	minuteAgo := now.Add(-1 * time.Minute)
	rl.minuteWindows[userID] = filterTimes(rl.minuteWindows[userID], minuteAgo)

	hourAgo := now.Add(-1 * time.Hour)
	rl.hourWindows[userID] = filterTimes(rl.hourWindows[userID], hourAgo)

	if len(rl.minuteWindows[userID]) == 0 {
		delete(rl.minuteWindows, userID)
	}
	if len(rl.hourWindows[userID]) == 0 {
		delete(rl.hourWindows, userID)
	}
}

// filterTimes keeps only times after the cutoff.
func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	result := make([]time.Time, 0, len(times))
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}

// Stats contains rate limiter statistics.
type Stats struct {
	Enabled            bool `json:"enabled"`
	TrackedUsers       int  `json:"tracked_users"`
	RequestsLastMinute int  `json:"requests_last_minute"`
	RequestsLastHour   int  `json:"requests_last_hour"`
	LimitPerMinute     int  `json:"limit_per_minute"`
	LimitPerHour       int  `json:"limit_per_hour"`
}

// GetStats returns current rate limiter statistics across all users.
func (rl *RateLimiter) GetStats() Stats {
	if !rl.enabled {
		return Stats{Enabled: false}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	ids := make(map[string]struct{})
	for id := range rl.minuteWindows {
		ids[id] = struct{}{}
	}
	for id := range rl.hourWindows {
		ids[id] = struct{}{}
	}
	for id := range ids {
		rl.cleanup(id, now)
	}

	minuteTotal, hourTotal := 0, 0
	for _, w := range rl.minuteWindows {
		minuteTotal += len(w)
	}
	for _, w := range rl.hourWindows {
		hourTotal += len(w)
	}

	// Every request lands in both windows and the hour one expires last,
	// so hourWindows holds every user still tracked.
	return Stats{
		Enabled:            true,
		TrackedUsers:       len(rl.hourWindows),
		RequestsLastMinute: minuteTotal,
		RequestsLastHour:   hourTotal,
		LimitPerMinute:     rl.requestsPerMinute,
		LimitPerHour:       rl.requestsPerHour,
	}
}

// Reset clears all tracked requests (useful for testing).
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.minuteWindows = make(map[string][]time.Time)
	rl.hourWindows = make(map[string][]time.Time)
}
