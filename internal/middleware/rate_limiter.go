package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int
}

// maxTrackedClients bounds the limiter map; past it the map resets,
// which briefly refills every bucket but keeps memory flat.
const maxTrackedClients = 10000

// RateLimiter throttles per client IP so a single greedy booking client
// cannot starve the rest.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter
	config  RateLimiterConfig
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*rate.Limiter),
		config:  config,
	}
}

func (rl *RateLimiter) limiterFor(clientIP string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.clients[clientIP]
	if !ok {
		if len(rl.clients) >= maxTrackedClients {
			rl.clients = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(rl.config.Rate, rl.config.Burst)
		rl.clients[clientIP] = limiter
	}
	return limiter
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
