package middlewares

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeremiapane/storefront-api/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter memberi token bucket terpisah untuk tiap IP client
type IPRateLimiter struct {
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration
	visitors map[string]*visitor
	mu       sync.Mutex
}

func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		visitors: make(map[string]*visitor),
	}
}

// NewStrictRateLimiter untuk endpoint login/register: 5 request per menit per IP
func NewStrictRateLimiter() *IPRateLimiter {
	return NewIPRateLimiter(float64(rate.Every(time.Minute/5)), 5)
}

func (rl *IPRateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, exists := rl.visitors[ip]
	if !exists {
		rl.cleanupLocked(now)
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst), lastSeen: now}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Hapus IP yang sudah lama tidak request
func (rl *IPRateLimiter) cleanupLocked(now time.Time) {
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			utils.RespondError(c, http.StatusTooManyRequests, errors.New("Terlalu banyak request, silakan tunggu beberapa saat"))
			c.Abort()
			return
		}
		c.Next()
	}
}
