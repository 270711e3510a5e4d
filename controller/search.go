package controller

import (
	"forumcore/models"

	"github.com/gin-gonic/gin"
)

// SearchHandler 搜索社区、帖子和评论
// @Summary 搜索
// @Description kind 为空时三类都搜
// @Tags 搜索相关
// @Produce application/json
// @Param object query models.ParamSearch true "搜索参数"
// @Success 200 {object} ResponseData
// @Router /search [get]
func (h *Handler) SearchHandler(c *gin.Context) {
	var p models.ParamSearch
	if !bindQuery(c, &p) {
		return
	}
	res, err := h.svc.Search(c.Request.Context(), viewerID(c), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, res)
}
