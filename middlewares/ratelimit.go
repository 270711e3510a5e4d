package middlewares

import (
	"net/http"
	"time"

	"forumcore/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// RateLimitMiddleware 全局令牌桶限流
// fillInterval: 每隔多久放入一个令牌，capacity: 允许的突发请求数
func RateLimitMiddleware(fillInterval time.Duration, capacity int64) gin.HandlerFunc {
	bucket := ratelimit.NewBucket(fillInterval, capacity)

	return func(c *gin.Context) {
		if bucket.TakeAvailable(1) < 1 {
			// 限流是少数不走 200 的响应
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code": errorx.CodeRateLimitExceeded,
				"msg":  errorx.ErrRateLimit.Msg,
				"data": nil,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
