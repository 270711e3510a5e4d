package controller

import (
	"forumcore/models"

	"github.com/gin-gonic/gin"
)

// ReportHandler 举报帖子或评论
// @Summary 举报
// @Tags 管理相关
// @Accept application/json
// @Produce application/json
// @Security ApiKeyAuth
// @Param object body models.ParamReport true "举报参数"
// @Success 200 {object} ResponseData
// @Router /reports [post]
func (h *Handler) ReportHandler(c *gin.Context) {
	var p models.ParamReport
	if !bindJSON(c, &p) {
		return
	}
	r, err := h.svc.CreateReport(c.Request.Context(), viewerID(c), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, r)
}

// ReportListHandler 社区举报队列，仅版主可见
// @Summary 举报队列
// @Tags 管理相关
// @Produce application/json
// @Security ApiKeyAuth
// @Param slug path string true "社区 slug"
// @Param object query models.ParamReportList false "查询参数"
// @Success 200 {object} ResponseData
// @Router /communities/{slug}/reports [get]
func (h *Handler) ReportListHandler(c *gin.Context) {
	var p models.ParamReportList
	if !bindQuery(c, &p) {
		return
	}
	page, err := h.svc.ListReports(c.Request.Context(), viewerID(c), c.Param("slug"), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, page)
}

// ResolveReportHandler 处理举报，remove 会同时移除内容
// @Summary 处理举报
// @Tags 管理相关
// @Accept application/json
// @Produce application/json
// @Security ApiKeyAuth
// @Param id path string true "举报ID"
// @Param object body models.ParamResolveReport true "处理方式"
// @Success 200 {object} ResponseData
// @Router /reports/{id}/resolve [post]
func (h *Handler) ResolveReportHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p models.ParamResolveReport
	if !bindJSON(c, &p) {
		return
	}
	r, err := h.svc.ResolveReport(c.Request.Context(), viewerID(c), id, &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, r)
}

func (h *Handler) ModLogHandler(c *gin.Context) {
	var p models.ParamPage
	if !bindQuery(c, &p) {
		return
	}
	page, err := h.svc.ListModLogs(c.Request.Context(), viewerID(c), c.Param("slug"), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, page)
}
