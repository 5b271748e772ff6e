package api

import (
	"sync"

	"prokatnik/internal/config"

	"golang.org/x/time/rate"
)

// rateLimiter держит отдельный token bucket на каждого клиента.
type rateLimiter struct {
	rps     float64
	burst   int
	clients sync.Map // ключ клиента -> *rate.Limiter
}

func newRateLimiter(cfg *config.APIConfig) *rateLimiter {
	burst := cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}
	return &rateLimiter{rps: cfg.RateLimit.RPS, burst: burst}
}

// allow списывает один токен клиента, создавая лимитер при первом обращении.
func (l *rateLimiter) allow(key string) bool {
	if v, ok := l.clients.Load(key); ok {
		return v.(*rate.Limiter).Allow()
	}

	fresh := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	actual, _ := l.clients.LoadOrStore(key, fresh)
	return actual.(*rate.Limiter).Allow()
}
