package errorx

import (
	"errors"
	"fmt"
)

// CodeError 带业务错误码的自定义错误
// Logic 层只返回 CodeError 或 ErrServerBusy，Controller 层据此生成响应
type CodeError struct {
	Code int    // 业务错误码
	Msg  string // 错误消息
}

// Error 实现 error 接口
func (e *CodeError) Error() string {
	return e.Msg
}

// Is 错误码相同即视为同一类错误，Newf 生成的实例也能和预定义实例匹配
func (e *CodeError) Is(target error) bool {
	var t *CodeError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// CodeOf 取出错误码，非 CodeError 一律按服务繁忙处理
func CodeOf(err error) int {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return CodeServerBusy
}

// 业务错误码常量定义
const (
	CodeSuccess           = 1000
	CodeInvalidParam      = 1001
	CodeUserExist         = 1002
	CodeUserNotExist      = 1003
	CodeInvalidPassword   = 1004
	CodeServerBusy        = 1005
	CodeNeedLogin         = 1006
	CodeInvalidToken      = 1007
	CodeNotFound          = 1008
	CodeForbidden         = 1011
	CodeConflict          = 1012
	CodeAlreadyResolved   = 1013
	CodeRateLimitExceeded = 1014
)

// 预定义常用错误实例（Logic 层可直接返回）
var (
	ErrInvalidParam    = New(CodeInvalidParam, "请求参数错误")
	ErrUserExist       = New(CodeUserExist, "用户名已存在")
	ErrUserNotExist    = New(CodeUserNotExist, "用户名不存在")
	ErrInvalidPassword = New(CodeInvalidPassword, "用户名或密码错误")
	ErrServerBusy      = New(CodeServerBusy, "服务繁忙")
	ErrNeedLogin       = New(CodeNeedLogin, "需要登录")
	ErrInvalidToken    = New(CodeInvalidToken, "无效的Token")
	ErrNotFound        = New(CodeNotFound, "资源不存在")
	ErrForbidden       = New(CodeForbidden, "没有权限")
	ErrConflict        = New(CodeConflict, "资源冲突")
	ErrAlreadyResolved = New(CodeAlreadyResolved, "举报已处理")
	ErrRateLimit       = New(CodeRateLimitExceeded, "请求过于频繁，请稍后再试")
)
