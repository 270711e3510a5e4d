package controller

import (
	"forumcore/models"

	"github.com/gin-gonic/gin"
)

// CreatePostHandler 发帖
// @Summary 发帖
// @Description 支持 TEXT、LINK、POLL 三种类型，POLL 需要 2 到 6 个选项
// @Tags 帖子相关
// @Accept application/json
// @Produce application/json
// @Security ApiKeyAuth
// @Param object body models.ParamCreatePost true "帖子参数"
// @Success 200 {object} ResponseData
// @Router /posts [post]
func (h *Handler) CreatePostHandler(c *gin.Context) {
	var p models.ParamCreatePost
	if !bindJSON(c, &p) {
		return
	}
	post, err := h.svc.CreatePost(c.Request.Context(), viewerID(c), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, post)
}

// PostDetailHandler 帖子详情，每次访问浏览量 +1
// @Summary 帖子详情
// @Tags 帖子相关
// @Produce application/json
// @Param id path string true "帖子ID"
// @Success 200 {object} ResponseData
// @Router /posts/{id} [get]
func (h *Handler) PostDetailHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.svc.GetPost(c.Request.Context(), id, viewerID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, d)
}

// EditPostHandler 作者修改正文
// @Summary 修改帖子
// @Tags 帖子相关
// @Accept application/json
// @Produce application/json
// @Security ApiKeyAuth
// @Param id path string true "帖子ID"
// @Param object body models.ParamEditContent true "新正文"
// @Success 200 {object} ResponseData
// @Router /posts/{id} [patch]
func (h *Handler) EditPostHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p models.ParamEditContent
	if !bindJSON(c, &p) {
		return
	}
	post, err := h.svc.EditPost(c.Request.Context(), viewerID(c), id, p.Content)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, post)
}

func (h *Handler) DeletePostHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), viewerID(c), id); err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}

// RemovePostHandler 版主移除帖子
// @Summary 移除帖子
// @Tags 帖子相关
// @Accept application/json
// @Produce application/json
// @Security ApiKeyAuth
// @Param id path string true "帖子ID"
// @Param object body models.ParamRemoveContent false "移除原因"
// @Success 200 {object} ResponseData
// @Router /posts/{id}/remove [post]
func (h *Handler) RemovePostHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p models.ParamRemoveContent
	if c.Request.ContentLength > 0 && !bindJSON(c, &p) {
		return
	}
	if err := h.svc.RemovePost(c.Request.Context(), viewerID(c), id, p.Reason); err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}

// PollVoteHandler 投票贴选择选项，返回最新计票
// @Summary 投票贴投票
// @Tags 帖子相关
// @Accept application/json
// @Produce application/json
// @Security ApiKeyAuth
// @Param id path string true "帖子ID"
// @Param object body models.ParamPollVote true "选项"
// @Success 200 {object} ResponseData
// @Router /posts/{id}/poll [post]
func (h *Handler) PollVoteHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p models.ParamPollVote
	if !bindJSON(c, &p) {
		return
	}
	opts, err := h.svc.VotePoll(c.Request.Context(), viewerID(c), id, p.OptionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, opts)
}

// CommunityFeedHandler 社区帖子流
// @Summary 社区帖子流
// @Description 按 hot/top/new 排序，游标分页
// @Tags 帖子相关
// @Produce application/json
// @Param slug path string true "社区 slug"
// @Param object query models.ParamFeed false "分页参数"
// @Success 200 {object} ResponseData
// @Router /communities/{slug}/feed [get]
func (h *Handler) CommunityFeedHandler(c *gin.Context) {
	var p models.ParamFeed
	if !bindQuery(c, &p) {
		return
	}
	page, err := h.svc.GetCommunityFeed(c.Request.Context(), c.Param("slug"), viewerID(c), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, page)
}

// FeedHandler 聚合帖子流，scope 为 home、popular 或 all
// @Summary 聚合帖子流
// @Tags 帖子相关
// @Produce application/json
// @Param scope path string true "home / popular / all"
// @Param object query models.ParamFeed false "分页参数"
// @Success 200 {object} ResponseData
// @Router /feed/{scope} [get]
func (h *Handler) FeedHandler(c *gin.Context) {
	var p models.ParamFeed
	if !bindQuery(c, &p) {
		return
	}
	page, err := h.svc.GetFeed(c.Request.Context(), c.Param("scope"), viewerID(c), &p)
	if err != nil {
		HandleError(c, err)
		return
	}
	ResponseSuccess(c, page)
}
