package controller

import (
	"forumcore/models"

	"github.com/gin-gonic/gin"
)

// VoteHandler 对帖子或评论投票
// @Summary 投票
// @Description direction 为 UP、DOWN 或 NONE，NONE 表示取消
// @Tags 投票相关
// @Accept application/json
// @Produce application/json
// @Security ApiKeyAuth
// @Param object body models.ParamVoteData true "投票参数"
// @Success 200 {object} ResponseData
// @Router /votes [post]
func (h *Handler) VoteHandler(c *gin.Context) {
	var p models.ParamVoteData
	if !bindJSON(c, &p) {
		return
	}
	res, err := h.svc.CastVote(c.Request.Context(), viewerID(c), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, res)
}
