package logic

import (
	"context"
	"strings"

	"forumcore/models"
	"forumcore/pkg/cursor"
	"forumcore/pkg/errorx"
	"forumcore/pkg/metrics"
	"forumcore/pkg/snowflake"

	"go.uber.org/zap"
)

const (
	defaultCommentLimit = 50
	maxCommentLimit     = 200
)

// CreateComment 评论或回复；帖子必须仍然可见，回复的父评论必须属于同一帖子
func (s *Service) CreateComment(ctx context.Context, userID int64, p *models.ParamCreateComment) (*models.Comment, error) {
	ctx, span := tracer.Start(ctx, "logic.CreateComment")
	defer span.End()

	post, err := s.store.GetPostByID(ctx, p.PostID)
	if err != nil {
		return nil, serverBusy("store.GetPostByID failed", err, zap.Int64("post_id", p.PostID))
	}
	if post == nil {
		return nil, errorx.ErrNotFound
	}
	a, err := s.communityAccessByID(ctx, post.CommunityID, userID)
	if err != nil {
		return nil, err
	}
	if err := a.canParticipate(); err != nil {
		return nil, err
	}
	if !post.Status.Live() {
		return nil, errorx.Newf(errorx.CodeForbidden, "帖子已删除或被移除，不能评论")
	}

	content := strings.TrimSpace(p.Content)
	if content == "" {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "评论内容不能为空")
	}
	if err := checkLength("评论内容", content, s.limits.MaxCommentContent); err != nil {
		return nil, err
	}
	if p.ParentID != nil {
		parent, err := s.store.GetCommentByID(ctx, *p.ParentID)
		if err != nil {
			return nil, serverBusy("store.GetCommentByID failed", err, zap.Int64("comment_id", *p.ParentID))
		}
		if parent == nil || parent.PostID != post.ID {
			return nil, errorx.Newf(errorx.CodeInvalidParam, "回复的评论不存在")
		}
		if !parent.Status.Live() {
			return nil, errorx.Newf(errorx.CodeForbidden, "不能回复已删除或被移除的评论")
		}
	}

	c := &models.Comment{
		ID:          snowflake.GenID(),
		PostID:      post.ID,
		CommunityID: post.CommunityID,
		AuthorID:    userID,
		ParentID:    p.ParentID,
		Content:     content,
		Status:      models.StatusVisible,
		CreateTime:  s.now(),
	}
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.CreateComment(ctx, c); err != nil {
			return err
		}
		return tx.IncrPostCommentCount(ctx, post.ID, 1)
	})
	if err != nil {
		return nil, serverBusy("create comment failed", err, zap.Int64("post_id", post.ID))
	}
	metrics.ContentCreated.WithLabelValues("comment").Inc()
	s.indexComment(c)
	return c, nil
}

// ListComments 帖子下的全部可见评论，帖子被移除后评论仍可读
func (s *Service) ListComments(ctx context.Context, postID, userID int64, p *models.ParamCommentList) (*models.Page[*models.ApiCommentDetail], error) {
	post, err := s.store.GetPostByID(ctx, postID)
	if err != nil {
		return nil, serverBusy("store.GetPostByID failed", err, zap.Int64("post_id", postID))
	}
	if post == nil {
		return nil, errorx.ErrNotFound
	}
	return s.listComments(ctx, post.CommunityID, userID, CommentQuery{PostID: post.ID}, p)
}

// ListReplies 某条评论的直接回复
func (s *Service) ListReplies(ctx context.Context, commentID, userID int64, p *models.ParamCommentList) (*models.Page[*models.ApiCommentDetail], error) {
	parent, err := s.store.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, serverBusy("store.GetCommentByID failed", err, zap.Int64("comment_id", commentID))
	}
	if parent == nil {
		return nil, errorx.ErrNotFound
	}
	return s.listComments(ctx, parent.CommunityID, userID, CommentQuery{PostID: parent.PostID, ParentID: &parent.ID}, p)
}

func (s *Service) listComments(ctx context.Context, communityID, userID int64, q CommentQuery, p *models.ParamCommentList) (*models.Page[*models.ApiCommentDetail], error) {
	a, err := s.communityAccessByID(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if err := a.canRead(); err != nil {
		return nil, err
	}
	cur, err := cursor.Decode(p.Cursor)
	if err != nil {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "无效的分页游标")
	}
	q.Sort = p.Sort
	if q.Sort == "" {
		q.Sort = models.CommentSortTop
	}
	limit := clampLimit(p.Limit, defaultCommentLimit, maxCommentLimit)
	q.Cursor = cur
	q.Limit = limit + 1

	list, err := s.store.ListComments(ctx, q)
	if err != nil {
		return nil, serverBusy("store.ListComments failed", err, zap.Int64("post_id", q.PostID))
	}
	page := &models.Page[*models.ApiCommentDetail]{}
	if len(list) > limit {
		last := list[limit-1]
		key := 0.0
		if q.Sort == models.CommentSortTop {
			key = float64(last.Score)
		}
		page.NextCursor = cursor.Cursor{Key: key, ID: last.ID}.Encode()
		list = list[:limit]
	}
	if page.Items, err = s.decorateComments(ctx, list, userID); err != nil {
		return nil, err
	}
	return page, nil
}

// EditComment 作者修改评论，已删除或移除的评论不能修改
func (s *Service) EditComment(ctx context.Context, userID, commentID int64, content string) (*models.Comment, error) {
	if userID == 0 {
		return nil, errorx.ErrNeedLogin
	}
	c, err := s.store.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, serverBusy("store.GetCommentByID failed", err, zap.Int64("comment_id", commentID))
	}
	if c == nil {
		return nil, errorx.ErrNotFound
	}
	if c.AuthorID != userID {
		return nil, errorx.Newf(errorx.CodeForbidden, "只能编辑自己的评论")
	}
	if !c.Status.Live() {
		return nil, errorx.Newf(errorx.CodeForbidden, "评论已删除或被移除")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "评论内容不能为空")
	}
	if err := checkLength("评论内容", content, s.limits.MaxCommentContent); err != nil {
		return nil, err
	}
	now := s.now()
	ok, err := s.store.EditComment(ctx, c.ID, content, now)
	if err != nil {
		return nil, serverBusy("store.EditComment failed", err, zap.Int64("comment_id", c.ID))
	}
	if !ok {
		return nil, errorx.Newf(errorx.CodeForbidden, "评论已删除或被移除")
	}
	c.Content = content
	c.EditedAt = &now
	s.indexComment(c)
	return c, nil
}

// DeleteComment 作者自删，帖子的评论数尽力减一
func (s *Service) DeleteComment(ctx context.Context, userID, commentID int64) error {
	if userID == 0 {
		return errorx.ErrNeedLogin
	}
	c, err := s.store.GetCommentByID(ctx, commentID)
	if err != nil {
		return serverBusy("store.GetCommentByID failed", err, zap.Int64("comment_id", commentID))
	}
	if c == nil {
		return errorx.ErrNotFound
	}
	if c.AuthorID != userID {
		return errorx.Newf(errorx.CodeForbidden, "只能删除自己的评论")
	}
	switch c.Status {
	case models.StatusDeleted:
		return nil
	case models.StatusRemoved:
		return errorx.Newf(errorx.CodeForbidden, "评论已被版主移除")
	}
	ok, err := s.store.SetCommentStatus(ctx, c.ID, models.StatusVisible, models.StatusDeleted)
	if err != nil {
		return serverBusy("store.SetCommentStatus failed", err, zap.Int64("comment_id", c.ID))
	}
	if ok {
		s.afterHidden(&targetRef{Target: models.Target{Type: models.TargetComment, ID: c.ID}, PostID: c.PostID})
	}
	return nil
}

// RemoveComment 版主移除评论并写 REMOVE_COMMENT 日志
func (s *Service) RemoveComment(ctx context.Context, userID, commentID int64, reason string) error {
	return s.removeContent(ctx, userID, models.Target{Type: models.TargetComment, ID: commentID}, reason)
}

func newCommentDetail(c *models.Comment) *models.ApiCommentDetail {
	return &models.ApiCommentDetail{
		Comment:   c,
		IsDeleted: c.Status == models.StatusDeleted,
		IsRemoved: c.Status == models.StatusRemoved,
	}
}

func (s *Service) decorateComments(ctx context.Context, list []*models.Comment, userID int64) ([]*models.ApiCommentDetail, error) {
	data := make([]*models.ApiCommentDetail, 0, len(list))
	if len(list) == 0 {
		return data, nil
	}
	authorIDs := make([]int64, 0, len(list))
	ids := make([]int64, 0, len(list))
	for _, c := range list {
		authorIDs = append(authorIDs, c.AuthorID)
		ids = append(ids, c.ID)
	}
	users, err := s.userBriefs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	var votes map[int64]models.VoteType
	if userID != 0 {
		votes, err = s.store.GetUserVotes(ctx, userID, models.TargetComment, ids)
		if err != nil {
			return nil, serverBusy("store.GetUserVotes failed", err, zap.Int64("user_id", userID))
		}
	}
	for _, c := range list {
		d := newCommentDetail(c)
		d.Author = users[c.AuthorID]
		d.ViewerVote = votes[c.ID]
		data = append(data, d)
	}
	return data, nil
}
