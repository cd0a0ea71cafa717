package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safedocs/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

// newTestLimiter returns a limiter driven by a movable clock
func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *time.Time) {
	rl := NewRateLimiter(limit, window)
	t.Cleanup(rl.Stop)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl.mu.Lock()
	rl.now = func() time.Time { return now }
	rl.mu.Unlock()
	return rl, &now
}

func TestRateLimiter_Allow(t *testing.T) {
	rl, now := newTestLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("a"), "request %d", i+1)
	}
	assert.False(t, rl.Allow("a"))
	assert.Equal(t, 0, rl.Remaining("a"))

	// other keys have their own budget
	assert.True(t, rl.Allow("b"))
	assert.Equal(t, 2, rl.Remaining("b"))

	*now = now.Add(time.Minute)
	assert.Equal(t, 3, rl.Remaining("a"))
	assert.True(t, rl.Allow("a"))
}

func TestRateLimiter_EvictExpired(t *testing.T) {
	rl, now := newTestLimiter(t, 1, time.Minute)
	rl.Allow("old")
	*now = now.Add(3 * time.Minute)
	rl.Allow("fresh")

	rl.evictExpired()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "old")
	assert.Contains(t, rl.clients, "fresh")
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl, _ := newTestLimiter(t, 50, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, time.Minute)

	r := gin.New()
	r.Use(RequestID())
	r.POST("/generate-summary", RateLimit(rl), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/generate-summary", nil)
		req.RemoteAddr = ip + ":5555"
		req.Header.Set(RequestIDHeader, "req-rl")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send("10.0.0.1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)

	w = send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	errInfo := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeRateLimited, errInfo.Code)
	assert.Equal(t, "req-rl", errInfo.RequestID)

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)
}

func TestClientKey(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.1.2.3:80"

	assert.Equal(t, "ip:10.1.2.3", ClientKey(c))

	c.Set(JWTUserIDKey, "4b0f1c9e-0000-4000-8000-000000000001")
	assert.Equal(t, "user:4b0f1c9e-0000-4000-8000-000000000001", ClientKey(c))
}
