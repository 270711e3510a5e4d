package middlewares

import (
	"forumcore/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestID 沿用调用方传入的请求ID，没有就生成一个
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(logger.CtxRequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
