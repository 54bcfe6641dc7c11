package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"lyra/internal/api"
)

type envelopeBody struct {
	OK    bool           `json:"ok"`
	Error *api.ErrorBody `json:"error"`
}

func limitedRouter(limiter *rate.Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(limiter))
	r.GET("/iss/api/last", func(c *gin.Context) {
		c.JSON(http.StatusOK, api.Success("pong"))
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestRateLimitBlocksBurstOverflow(t *testing.T) {
	// 1 req/sec, burst 2: третий запрос подряд блокируется
	r := limitedRouter(rate.NewLimiter(1, 2))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/iss/api/last", nil))
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)

	var body envelopeBody
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
	assert.False(t, body.OK)
	require.NotNil(t, body.Error)
	assert.Equal(t, "RATE_LIMITED", body.Error.Code)
	assert.GreaterOrEqual(t, body.Error.RetryAfter, 1)
}

func TestRateLimitAllowsWithinBurst(t *testing.T) {
	r := limitedRouter(rate.NewLimiter(100, 10))

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/iss/api/last", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitExemptsHealth(t *testing.T) {
	// Лимит исчерпан, но health продолжает отвечать
	r := limitedRouter(rate.NewLimiter(0, 0))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/iss/api/last", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestIPRateLimiterSeparatesClients(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)

	a := limiter.GetLimiter("10.0.0.1")
	b := limiter.GetLimiter("10.0.0.2")
	assert.NotSame(t, a, b)

	// Повторный запрос того же IP отдает тот же лимитер
	assert.Same(t, a, limiter.GetLimiter("10.0.0.1"))
}
