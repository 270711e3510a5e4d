package controller

import (
	"forumcore/models"

	"github.com/gin-gonic/gin"
)

// CommunityListHandler 社区列表，私有和已归档社区不出现
// @Summary 社区列表
// @Tags 社区相关
// @Produce application/json
// @Param object query models.ParamCommunityList false "查询参数"
// @Success 200 {object} ResponseData
// @Router /communities [get]
func (h *Handler) CommunityListHandler(c *gin.Context) {
	var p models.ParamCommunityList
	if !bindQuery(c, &p) {
		return
	}
	list, err := h.svc.ListCommunities(c.Request.Context(), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, list)
}

// CommunityDetailHandler 社区详情，登录用户附带自己的成员身份
// @Summary 社区详情
// @Tags 社区相关
// @Produce application/json
// @Param slug path string true "社区 slug"
// @Success 200 {object} ResponseData
// @Router /communities/{slug} [get]
func (h *Handler) CommunityDetailHandler(c *gin.Context) {
	d, err := h.svc.GetCommunity(c.Request.Context(), c.Param("slug"), viewerID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, d)
}

// CreateCommunityHandler 创建社区，创建者成为 OWNER
// @Summary 创建社区
// @Tags 社区相关
// @Accept application/json
// @Produce application/json
// @Security ApiKeyAuth
// @Param object body models.ParamCreateCommunity true "社区参数"
// @Success 200 {object} ResponseData
// @Router /communities [post]
func (h *Handler) CreateCommunityHandler(c *gin.Context) {
	var p models.ParamCreateCommunity
	if !bindJSON(c, &p) {
		return
	}
	cm, err := h.svc.CreateCommunity(c.Request.Context(), viewerID(c), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, cm)
}

// UpdateCommunityHandler 修改社区设置
// @Summary 修改社区设置
// @Tags 社区相关
// @Accept application/json
// @Produce application/json
// @Security ApiKeyAuth
// @Param slug path string true "社区 slug"
// @Param object body models.ParamUpdateCommunity true "要修改的字段"
// @Success 200 {object} ResponseData
// @Router /communities/{slug} [patch]
func (h *Handler) UpdateCommunityHandler(c *gin.Context) {
	var p models.ParamUpdateCommunity
	if !bindJSON(c, &p) {
		return
	}
	cm, err := h.svc.UpdateCommunity(c.Request.Context(), viewerID(c), c.Param("slug"), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, cm)
}

// ArchiveCommunityHandler 归档社区，仅 OWNER 和管理员
// @Summary 归档社区
// @Tags 社区相关
// @Produce application/json
// @Security ApiKeyAuth
// @Param slug path string true "社区 slug"
// @Success 200 {object} ResponseData
// @Router /communities/{slug}/archive [post]
func (h *Handler) ArchiveCommunityHandler(c *gin.Context) {
	if err := h.svc.ArchiveCommunity(c.Request.Context(), viewerID(c), c.Param("slug")); err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}

func (h *Handler) RuleListHandler(c *gin.Context) {
	list, err := h.svc.ListRules(c.Request.Context(), c.Param("slug"), viewerID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, list)
}

func (h *Handler) CreateRuleHandler(c *gin.Context) {
	var p models.ParamRule
	if !bindJSON(c, &p) {
		return
	}
	r, err := h.svc.CreateRule(c.Request.Context(), viewerID(c), c.Param("slug"), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, r)
}

func (h *Handler) UpdateRuleHandler(c *gin.Context) {
	id, ok := pathID(c, "rule_id")
	if !ok {
		return
	}
	var p models.ParamRule
	if !bindJSON(c, &p) {
		return
	}
	r, err := h.svc.UpdateRule(c.Request.Context(), viewerID(c), c.Param("slug"), id, &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, r)
}

func (h *Handler) DeleteRuleHandler(c *gin.Context) {
	id, ok := pathID(c, "rule_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteRule(c.Request.Context(), viewerID(c), c.Param("slug"), id); err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}

func (h *Handler) FlairListHandler(c *gin.Context) {
	list, err := h.svc.ListFlairs(c.Request.Context(), c.Param("slug"), viewerID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, list)
}

func (h *Handler) CreateFlairHandler(c *gin.Context) {
	var p models.ParamFlair
	if !bindJSON(c, &p) {
		return
	}
	f, err := h.svc.CreateFlair(c.Request.Context(), viewerID(c), c.Param("slug"), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, f)
}

func (h *Handler) UpdateFlairHandler(c *gin.Context) {
	id, ok := pathID(c, "flair_id")
	if !ok {
		return
	}
	var p models.ParamFlair
	if !bindJSON(c, &p) {
		return
	}
	f, err := h.svc.UpdateFlair(c.Request.Context(), viewerID(c), c.Param("slug"), id, &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, f)
}

func (h *Handler) DeleteFlairHandler(c *gin.Context) {
	id, ok := pathID(c, "flair_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteFlair(c.Request.Context(), viewerID(c), c.Param("slug"), id); err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}
