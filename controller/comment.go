package controller

import (
	"forumcore/models"

	"github.com/gin-gonic/gin"
)

// CreateCommentHandler 评论或回复
// @Summary 发表评论
// @Tags 评论相关
// @Accept application/json
// @Produce application/json
// @Security ApiKeyAuth
// @Param object body models.ParamCreateComment true "评论参数"
// @Success 200 {object} ResponseData
// @Router /comments [post]
func (h *Handler) CreateCommentHandler(c *gin.Context) {
	var p models.ParamCreateComment
	if !bindJSON(c, &p) {
		return
	}
	cm, err := h.svc.CreateComment(c.Request.Context(), viewerID(c), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, cm)
}

// CommentListHandler 帖子下的顶层评论
// @Summary 评论列表
// @Tags 评论相关
// @Produce application/json
// @Param id path string true "帖子ID"
// @Param object query models.ParamCommentList false "分页参数"
// @Success 200 {object} ResponseData
// @Router /posts/{id}/comments [get]
func (h *Handler) CommentListHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p models.ParamCommentList
	if !bindQuery(c, &p) {
		return
	}
	page, err := h.svc.ListComments(c.Request.Context(), id, viewerID(c), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, page)
}

func (h *Handler) ReplyListHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p models.ParamCommentList
	if !bindQuery(c, &p) {
		return
	}
	page, err := h.svc.ListReplies(c.Request.Context(), id, viewerID(c), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, page)
}

func (h *Handler) EditCommentHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p models.ParamEditContent
	if !bindJSON(c, &p) {
		return
	}
	cm, err := h.svc.EditComment(c.Request.Context(), viewerID(c), id, p.Content)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, cm)
}

func (h *Handler) DeleteCommentHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteComment(c.Request.Context(), viewerID(c), id); err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}

func (h *Handler) RemoveCommentHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p models.ParamRemoveContent
	if c.Request.ContentLength > 0 && !bindJSON(c, &p) {
		return
	}
	if err := h.svc.RemoveComment(c.Request.Context(), viewerID(c), id, p.Reason); err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}
