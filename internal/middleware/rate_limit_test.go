package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipes-api/backend/internal/testhelpers"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.POST("/api/recipes", rl.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func TestRateLimitFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	router := limitedRouter(NewRecipeWriteRateLimiter(client, 1, time.Minute))
	w := serve(router, httptest.NewRequest(http.MethodPost, "/api/recipes", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := NewRecipeWriteRateLimiter(client, 2, time.Minute)
	router := limitedRouter(rl)

	for i := 0; i < 2; i++ {
		w := serve(router, httptest.NewRequest(http.MethodPost, "/api/recipes", nil))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := serve(router, httptest.NewRequest(http.MethodPost, "/api/recipes", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// httptest requests come from 192.0.2.1
	remaining, _, err := rl.GetRemainingRequests(context.Background(), "192.0.2.1")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	remaining, _, err = rl.GetRemainingRequests(context.Background(), "198.51.100.7")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}
