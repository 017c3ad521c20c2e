package middleware

import (
	"fmt"
	"froggocodes_backend/internal/util"
	"froggocodes_backend/pkg/logger"
	"froggocodes_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// PaymentRateLimiter 支付发起接口按用户限流
// 优先用 Redis 计数，多实例共享窗口；Redis 不可用时退回进程内滑动窗口
// 这是软性防滥用阈值，不是安全边界，放行与否不影响支付校验本身
func PaymentRateLimiter(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	fallback := security.NewSlidingWindow(limit, window)

	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		key := fmt.Sprintf("ratelimit:payment:%d", claims.UserID)

		if rdb != nil {
			count, err := rdb.Incr(c.Request.Context(), key).Result()
			if err == nil {
				if count == 1 {
					rdb.Expire(c.Request.Context(), key, window)
				}
				if count > int64(limit) {
					util.TooManyRequests(c)
					c.Abort()
					return
				}
				c.Next()
				return
			}
			logger.Log.Warn("redis rate limit unavailable, falling back to in-process window",
				zap.Error(err))
		}

		if !fallback.Allow(key) {
			util.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
