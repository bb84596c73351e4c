package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rental-portal/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAllowRequestPerMinuteLimit(t *testing.T) {
	rl := NewRateLimiter(3, 100, true)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.AllowRequest("user-1"))
	}
	assert.False(t, rl.AllowRequest("user-1"))

	// Limits are per user.
	assert.True(t, rl.AllowRequest("user-2"))
}

func TestAllowRequestPerHourLimit(t *testing.T) {
	rl := NewRateLimiter(0, 2, true)

	assert.True(t, rl.AllowRequest("user-1"))
	assert.True(t, rl.AllowRequest("user-1"))
	assert.False(t, rl.AllowRequest("user-1"))
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	rl := NewRateLimiter(1, 1, false)

	for i := 0; i < 10; i++ {
		assert.True(t, rl.AllowRequest("user-1"))
	}
	assert.False(t, rl.GetStats().Enabled)
}

func TestReset(t *testing.T) {
	rl := NewRateLimiter(1, 10, true)

	assert.True(t, rl.AllowRequest("user-1"))
	assert.False(t, rl.AllowRequest("user-1"))

	rl.Reset()
	assert.True(t, rl.AllowRequest("user-1"))
}

func TestGetStats(t *testing.T) {
	rl := NewRateLimiter(10, 100, true)

	rl.AllowRequest("user-1")
	rl.AllowRequest("user-1")
	rl.AllowRequest("user-2")

	stats := rl.GetStats()
	assert.True(t, stats.Enabled)
	assert.Equal(t, 2, stats.TrackedUsers)
	assert.Equal(t, 3, stats.RequestsLastMinute)
	assert.Equal(t, 3, stats.RequestsLastHour)
	assert.Equal(t, 10, stats.LimitPerMinute)
	assert.Equal(t, 100, stats.LimitPerHour)
}

func TestGetStatsSweepsHourOnlyUsers(t *testing.T) {
	rl := NewRateLimiter(10, 100, true)

	// Users whose minute entries have already expired exist only in the
	// hour map; stats must still sweep and count them correctly.
	rl.hourWindows["idle"] = []time.Time{time.Now().Add(-2 * time.Hour)}
	rl.hourWindows["slow"] = []time.Time{time.Now().Add(-30 * time.Minute)}

	stats := rl.GetStats()
	assert.Equal(t, 1, stats.TrackedUsers)
	assert.Equal(t, 0, stats.RequestsLastMinute)
	assert.Equal(t, 1, stats.RequestsLastHour)

	// The expired user's entry is gone, not lingering.
	rl.mu.Lock()
	_, ok := rl.hourWindows["idle"]
	rl.mu.Unlock()
	assert.False(t, ok)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(1, 10, true)
	r := gin.New()
	r.Use(auth.Middleware(), rl.Middleware())
	r.GET("/things", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/things", func(c *gin.Context) { c.Status(http.StatusCreated) })

	do := func(method, userID string) int {
		req := httptest.NewRequest(method, "/things", nil)
		req.Header.Set("X-User-Id", userID)
		req.Header.Set("X-User-Role", "TENANT")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, do(http.MethodPost, "user-1"))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "user-1"))

	// Reads are never throttled.
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "user-1"))

	// Other users are unaffected.
	assert.Equal(t, http.StatusCreated, do(http.MethodPost, "user-2"))
}

func TestMiddlewareSkipsAnonymousRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(1, 10, true)
	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/public", func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/public", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}
