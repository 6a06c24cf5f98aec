package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/flowva/rewards-hub/config"
	"github.com/flowva/rewards-hub/utils"
)

const bucketIdleTTL = 5 * time.Minute

type ipBucket struct {
	limiter *rate.Limiter
	expires time.Time
	mu      sync.Mutex
}

var (
	buckets   = map[string]*ipBucket{}
	bucketsMu sync.Mutex
)

// RateLimitMiddleware throttles requests per client IP with a token bucket,
// sized from the configured per-minute budget. Used on the auth routes to slow
// credential stuffing and signup abuse.
func RateLimitMiddleware() gin.HandlerFunc {
	cfg := config.Get()
	perMinute := max(cfg.RateLimitPerMinute, 1)
	limit := rate.Every(time.Minute / time.Duration(perMinute))
	burst := max(perMinute/2, 1)

	return func(ctx *gin.Context) {
		bucket := bucketFor(ctx.ClientIP(), limit, burst)

		bucket.mu.Lock()
		allowed := bucket.limiter.Allow()
		bucket.mu.Unlock()

		if !allowed {
			utils.Error(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func bucketFor(ip string, limit rate.Limit, burst int) *ipBucket {
	bucketsMu.Lock()
	defer bucketsMu.Unlock()

	now := time.Now()
	for key, b := range buckets {
		if now.After(b.expires) {
			delete(buckets, key)
		}
	}

	if b, ok := buckets[ip]; ok {
		b.expires = now.Add(bucketIdleTTL)
		return b
	}
	b := &ipBucket{
		limiter: rate.NewLimiter(limit, burst),
		expires: now.Add(bucketIdleTTL),
	}
	buckets[ip] = b
	return b
}
