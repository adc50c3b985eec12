package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"inkwell/api/internal/config"
)

// Throttle rate-limits a route per client IP with a fixed window counter
// in Redis. It fails open when the counter backend is unavailable so an
// outage cannot lock everyone out of login.
func Throttle(cfg config.ThrottleConfig, client *redis.Client, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || cfg.Limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("throttle:%s:%s", c.ClientIP(), c.FullPath())
		ctx := c.Request.Context()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Warn().Err(err).Msg("throttle counter unavailable")
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, cfg.Window)
		}

		if count > int64(cfg.Limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too_many_requests"})
			return
		}

		c.Next()
	}
}
