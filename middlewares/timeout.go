package middlewares

import (
	"time"

	"forumcore/controller"
	"forumcore/pkg/errorx"

	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
)

// TimeoutMiddleware 请求超时后返回服务繁忙
func TimeoutMiddleware(d time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(d),
		timeout.WithResponse(func(c *gin.Context) {
			controller.ResponseErrorWithMsg(c, errorx.CodeServerBusy, "请求超时")
		}),
	)
}
