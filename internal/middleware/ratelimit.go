package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxTrackedIPs limita quantos IPs têm limiter em memória; o menos usado sai primeiro.
const maxTrackedIPs = 4096

type rateLimiterStore struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

func (s *rateLimiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(s.limit, s.burst)
		s.limiters.Add(ip, limiter)
	}
	return limiter
}

// RateLimit limita requisições por IP a perMinute, com rajada do mesmo tamanho.
func RateLimit(perMinute int, log *zap.Logger) gin.HandlerFunc {
	return rateLimit(perMinute, maxTrackedIPs, log)
}

func rateLimit(perMinute, capacity int, log *zap.Logger) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 20
	}

	// só falha com capacidade <= 0
	limiters, err := lru.New[string, *rate.Limiter](capacity)
	if err != nil {
		panic(err)
	}

	store := &rateLimiterStore{
		limiters: limiters,
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.get(ip).Allow() {
			log.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error_code": "rate_limited",
				"message":    "Muitas tentativas. Tente novamente em instantes.",
			})
			return
		}
		c.Next()
	}
}
