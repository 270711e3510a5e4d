package controller

import (
	"forumcore/models"

	"github.com/gin-gonic/gin"
)

// JoinHandler 加入社区；PRIVATE 社区只能由版主邀请，这里会返回无权限
// @Summary 加入社区
// @Tags 成员相关
// @Produce application/json
// @Security ApiKeyAuth
// @Param slug path string true "社区 slug"
// @Success 200 {object} ResponseData
// @Router /communities/{slug}/join [post]
func (h *Handler) JoinHandler(c *gin.Context) {
	m, err := h.svc.Join(c.Request.Context(), viewerID(c), c.Param("slug"))
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, m)
}

// LeaveHandler 退出社区，OWNER 不能退出
// @Summary 退出社区
// @Tags 成员相关
// @Produce application/json
// @Security ApiKeyAuth
// @Param slug path string true "社区 slug"
// @Success 200 {object} ResponseData
// @Router /communities/{slug}/leave [post]
func (h *Handler) LeaveHandler(c *gin.Context) {
	if err := h.svc.Leave(c.Request.Context(), viewerID(c), c.Param("slug")); err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}

func (h *Handler) MembershipHandler(c *gin.Context) {
	m, err := h.svc.GetMembership(c.Request.Context(), viewerID(c), c.Param("slug"))
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, m)
}

// MemberListHandler 成员列表，版主在前
// @Summary 成员列表
// @Tags 成员相关
// @Produce application/json
// @Security ApiKeyAuth
// @Param slug path string true "社区 slug"
// @Param object query models.ParamMemberList false "查询参数"
// @Success 200 {object} ResponseData
// @Router /communities/{slug}/members [get]
func (h *Handler) MemberListHandler(c *gin.Context) {
	var p models.ParamMemberList
	if !bindQuery(c, &p) {
		return
	}
	list, err := h.svc.ListMembers(c.Request.Context(), c.Param("slug"), viewerID(c), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, list)
}

// ChangeRoleHandler 任免版主，仅 OWNER
// @Summary 修改成员角色
// @Tags 成员相关
// @Accept application/json
// @Produce application/json
// @Security ApiKeyAuth
// @Param slug path string true "社区 slug"
// @Param user_id path string true "目标用户ID"
// @Param object body models.ParamChangeRole true "新角色"
// @Success 200 {object} ResponseData
// @Router /communities/{slug}/members/{user_id}/role [put]
func (h *Handler) ChangeRoleHandler(c *gin.Context) {
	target, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var p models.ParamChangeRole
	if !bindJSON(c, &p) {
		return
	}
	m, err := h.svc.ChangeRole(c.Request.Context(), viewerID(c), c.Param("slug"), target, p.Role)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, m)
}

func (h *Handler) RemoveMemberHandler(c *gin.Context) {
	target, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if err := h.svc.RemoveMember(c.Request.Context(), viewerID(c), c.Param("slug"), target); err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}

// BanHandler 封禁用户，同时移出社区
// @Summary 封禁用户
// @Tags 成员相关
// @Accept application/json
// @Produce application/json
// @Security ApiKeyAuth
// @Param slug path string true "社区 slug"
// @Param object body models.ParamBan true "封禁参数"
// @Success 200 {object} ResponseData
// @Router /communities/{slug}/bans [post]
func (h *Handler) BanHandler(c *gin.Context) {
	var p models.ParamBan
	if !bindJSON(c, &p) {
		return
	}
	b, err := h.svc.Ban(c.Request.Context(), viewerID(c), c.Param("slug"), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, b)
}

func (h *Handler) UnbanHandler(c *gin.Context) {
	target, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if err := h.svc.Unban(c.Request.Context(), viewerID(c), c.Param("slug"), target); err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}
