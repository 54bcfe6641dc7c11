package middleware

import (
	"log"
	"math"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"lyra/internal/api"
)

// RateLimitMiddleware ограничивает общий поток запросов. Отказ отдается
// конвертом с кодом RATE_LIMITED и подсказкой retry_after в секундах
func RateLimitMiddleware(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Health-check не лимитируем
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		reservation := limiter.Reserve()
		if !reservation.OK() || reservation.Delay() > 0 {
			delay := reservation.Delay()
			reservation.Cancel()

			log.Printf("Rate limit blocked IP: %s for path: %s",
				c.ClientIP(), c.Request.URL.Path)

			env := api.Error("RATE_LIMITED", "rate limit exceeded, please try again later")
			env.Error.RetryAfter = retryAfterSeconds(delay.Seconds())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, env)
			return
		}

		c.Next()
	}
}

func retryAfterSeconds(seconds float64) int {
	retryAfter := int(math.Ceil(seconds))
	if retryAfter < 1 {
		retryAfter = 1
	}
	return retryAfter
}

// IPRateLimiter держит отдельный лимитер на каждый клиентский IP
type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

func IPRateLimitMiddleware(ipLimiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		limiter := ipLimiter.GetLimiter(c.ClientIP())
		if !limiter.Allow() {
			env := api.Error("RATE_LIMITED", "rate limit exceeded for your IP")
			env.Error.RetryAfter = 1
			c.AbortWithStatusJSON(http.StatusTooManyRequests, env)
			return
		}

		c.Next()
	}
}
