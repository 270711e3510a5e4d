package controller

import (
	"strconv"

	"forumcore/models"

	"github.com/gin-gonic/gin"
)

// SignUpHandler 处理用户注册请求
// @Summary 用户注册
// @Tags 用户相关
// @Accept application/json
// @Produce application/json
// @Param object body models.ParamSignUp true "注册参数"
// @Success 200 {object} ResponseData
// @Router /signup [post]
func (h *Handler) SignUpHandler(c *gin.Context) {
	p := new(models.ParamSignUp)
	if !bindJSON(c, p) {
		return
	}
	u, err := h.svc.SignUp(c.Request.Context(), p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, models.UserBrief{UserID: u.UserID, Username: u.Username, Karma: u.Karma})
}

// LoginHandler 登录，返回访问令牌和刷新令牌
// @Summary 用户登录
// @Tags 用户相关
// @Accept application/json
// @Produce application/json
// @Param object body models.ParamLogin true "登录参数"
// @Success 200 {object} ResponseData
// @Router /login [post]
func (h *Handler) LoginHandler(c *gin.Context) {
	var p models.ParamLogin
	if !bindJSON(c, &p) {
		return
	}
	u, aToken, rToken, err := h.svc.Login(c.Request.Context(), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, gin.H{
		"user_id":       strconv.FormatInt(u.UserID, 10),
		"username":      u.Username,
		"access_token":  aToken,
		"refresh_token": rToken,
	})
}

// RefreshTokenHandler 用刷新令牌换一对新令牌
// @Summary 刷新令牌
// @Tags 用户相关
// @Accept application/json
// @Produce application/json
// @Param object body models.ParamRefreshToken true "刷新令牌"
// @Success 200 {object} ResponseData
// @Router /refresh_token [post]
func (h *Handler) RefreshTokenHandler(c *gin.Context) {
	var p models.ParamRefreshToken
	if !bindJSON(c, &p) {
		return
	}
	aToken, rToken, err := h.svc.RefreshToken(c.Request.Context(), p.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, gin.H{
		"access_token":  aToken,
		"refresh_token": rToken,
	})
}

// UserProfileHandler 用户公开资料
// @Summary 用户资料
// @Tags 用户相关
// @Produce application/json
// @Param id path string true "用户ID"
// @Success 200 {object} ResponseData
// @Router /users/{id} [get]
func (h *Handler) UserProfileHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetUserProfile(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, p)
}
