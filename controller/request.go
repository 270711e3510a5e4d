package controller

import (
	"errors"
	"strconv"

	"forumcore/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var ErrorUserNotLogin = errors.New("用户未登录")

// GetCurrentUser 从 Gin 上下文中获取当前登录的用户ID
func GetCurrentUser(c *gin.Context) (userID int64, err error) {
	uid, ok := c.Get(CtxUserIDKey)
	if !ok {
		return 0, ErrorUserNotLogin
	}
	userID, ok = uid.(int64)
	if !ok || userID == 0 {
		return 0, ErrorUserNotLogin
	}
	return userID, nil
}

// viewerID 可选登录的接口用，匿名返回 0
func viewerID(c *gin.Context) int64 {
	uid, _ := GetCurrentUser(c)
	return uid
}

// pathID 解析路径中的ID参数，失败时已写好响应
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ResponseErrorWithMsg(c, errorx.CodeInvalidParam, "无效的"+name)
		return 0, false
	}
	return id, true
}

// bindJSON 绑定并校验请求体，失败时已写好响应
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		responseBindError(c, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		responseBindError(c, err)
		return false
	}
	return true
}

// responseBindError 校验错误翻译成字段提示，其他错误（如 JSON 格式错误）只返回参数错误
func responseBindError(c *gin.Context, err error) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || trans == nil {
		ResponseError(c, errorx.ErrInvalidParam)
		return
	}
	ResponseErrorWithMsg(c, errorx.CodeInvalidParam, removeTopStruct(errs.Translate(trans)))
}
