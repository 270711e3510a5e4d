package controller

import (
	"errors"
	"net/http"

	"forumcore/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CtxUserIDKey gin.Context 中当前用户ID的 key
// 定义在 controller 包中，middlewares 引用它不会产生循环依赖
const CtxUserIDKey = "userID"

// ResponseData 统一响应结构体 (用于 Swagger 文档生成)
type ResponseData struct {
	Code int         `json:"code"`           // 业务响应状态码
	Msg  interface{} `json:"msg"`            // 提示信息
	Data interface{} `json:"data,omitempty"` // 数据
}

// ResponseError 返回预定义的业务错误
func ResponseError(c *gin.Context, e *errorx.CodeError) {
	c.JSON(http.StatusOK, gin.H{
		"code": e.Code,
		"msg":  e.Msg,
		"data": nil,
	})
}

// ResponseErrorWithMsg 返回带自定义消息的错误响应，msg 可以是校验错误的字段映射
func ResponseErrorWithMsg(c *gin.Context, code int, msg interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code": code,
		"msg":  msg,
		"data": nil,
	})
}

func ResponseSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code": errorx.CodeSuccess,
		"msg":  "success",
		"data": data,
	})
}

// HandleError logic 层返回的 CodeError 原样透传，其他错误记日志后按服务繁忙处理
func HandleError(c *gin.Context, err error) {
	var ce *errorx.CodeError
	if errors.As(err, &ce) {
		ResponseError(c, ce)
		return
	}
	zap.L().Error("unexpected error",
		zap.String("path", c.FullPath()),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	ResponseError(c, errorx.ErrServerBusy)
}
