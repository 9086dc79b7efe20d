package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterAllow(t *testing.T) {
	t.Run("CeilingEnforced", func(t *testing.T) {
		limiter := New("test", 3, time.Minute, "too many requests")

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("10.0.0.1"), "request %d should be allowed", i+1)
		}
		assert.False(t, limiter.Allow("10.0.0.1"), "request over the ceiling should be limited")
	})

	t.Run("WindowReset", func(t *testing.T) {
		limiter := New("test", 1, 50*time.Millisecond, "too many requests")

		require.True(t, limiter.Allow("10.0.0.1"))
		require.False(t, limiter.Allow("10.0.0.1"))

		time.Sleep(60 * time.Millisecond)

		assert.True(t, limiter.Allow("10.0.0.1"), "a fresh window should admit requests again")
	})

	t.Run("IdentitiesIndependent", func(t *testing.T) {
		limiter := New("test", 1, time.Minute, "too many requests")

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.2"), "a different identity has its own window")
	})

	t.Run("ConcurrentBurstCannotExceedCeiling", func(t *testing.T) {
		const ceiling = 50
		limiter := New("test", ceiling, time.Minute, "too many requests")

		var allowed int64
		var wg sync.WaitGroup
		for i := 0; i < ceiling*2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("10.0.0.1") {
					atomic.AddInt64(&allowed, 1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(ceiling), atomic.LoadInt64(&allowed))
	})
}

func TestLimiterCleanup(t *testing.T) {
	limiter := New("test", 5, 10*time.Millisecond, "too many requests")

	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.2")

	time.Sleep(20 * time.Millisecond)
	limiter.Cleanup()

	count, _ := limiter.RequestInfo("10.0.0.1")
	assert.Equal(t, 0, count, "lapsed windows should be removed")
}

func TestLimiterMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEngine := func(limiter *Limiter) *gin.Engine {
		engine := gin.New()
		engine.POST("/guarded", limiter.Middleware(), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return engine
	}

	t.Run("LimitedRequestShortCircuits", func(t *testing.T) {
		limiter := New("auth", 1, time.Minute, "please try again later")
		engine := newEngine(limiter)

		first := httptest.NewRecorder()
		engine.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/guarded", nil))
		require.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		engine.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/guarded", nil))
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Contains(t, second.Body.String(), "RATE_LIMIT_EXCEEDED")
		assert.Contains(t, second.Body.String(), "please try again later")
		assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("AllowedRequestCarriesHeaders", func(t *testing.T) {
		limiter := New("auth", 5, time.Minute, "please try again later")
		engine := newEngine(limiter)

		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/guarded", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "5", recorder.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", recorder.Header().Get("X-RateLimit-Remaining"))
	})
}
