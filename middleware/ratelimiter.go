package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter returns a Gin middleware that limits requests per IP. Scan
// stations fire one redeem per attendee, so 120/min leaves headroom for a
// busy entrance without letting a runaway client hammer the store.
func RateLimiter() gin.HandlerFunc {
	store := memory.NewStore()
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  120,
	}

	instance := limiter.New(store, rate)
	return ginlimiter.NewMiddleware(instance)
}
