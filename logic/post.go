package logic

import (
	"context"
	"strings"
	"unicode/utf8"

	"forumcore/models"
	"forumcore/pkg/errorx"
	"forumcore/pkg/hotrank"
	"forumcore/pkg/metrics"
	"forumcore/pkg/snowflake"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	minPollOptions = 2
	maxPollOptions = 6
	maxPollOption  = 128
)

func checkLength(field string, s string, max int) error {
	if utf8.RuneCountInString(s) > max {
		return errorx.Newf(errorx.CodeInvalidParam, "%s不能超过 %d 个字符", field, max)
	}
	return nil
}

// CreatePost 发帖；非 PUBLIC 社区需要成员身份，归档社区和被封禁用户不能发帖
func (s *Service) CreatePost(ctx context.Context, userID int64, p *models.ParamCreatePost) (*models.Post, error) {
	ctx, span := tracer.Start(ctx, "logic.CreatePost")
	defer span.End()

	a, err := s.communityAccessByID(ctx, p.CommunityID, userID)
	if err != nil {
		return nil, err
	}
	if err := a.canParticipate(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "标题不能为空")
	}
	if err := checkLength("标题", title, s.limits.MaxTitle); err != nil {
		return nil, err
	}
	if err := checkLength("帖子内容", p.Content, s.limits.MaxPostContent); err != nil {
		return nil, err
	}
	typ := p.Type
	if typ == "" {
		typ = models.PostText
	}
	if !typ.Valid() {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的帖子类型 %q", typ)
	}

	post := &models.Post{
		ID:          snowflake.GenID(),
		CommunityID: a.community.ID,
		AuthorID:    userID,
		Title:       title,
		Content:     p.Content,
		Type:        typ,
		Status:      models.StatusVisible,
		CreateTime:  s.now(),
		UpdateTime:  s.now(),
	}
	switch typ {
	case models.PostLink:
		post.URL = strings.TrimSpace(p.URL)
		if post.URL == "" {
			return nil, errorx.Newf(errorx.CodeInvalidParam, "链接帖必须提供 url")
		}
	case models.PostPoll:
		if len(p.PollOptions) < minPollOptions || len(p.PollOptions) > maxPollOptions {
			return nil, errorx.Newf(errorx.CodeInvalidParam, "投票选项数量需在 %d 到 %d 之间", minPollOptions, maxPollOptions)
		}
		for i, text := range p.PollOptions {
			text = strings.TrimSpace(text)
			if text == "" {
				return nil, errorx.Newf(errorx.CodeInvalidParam, "投票选项不能为空")
			}
			if err := checkLength("投票选项", text, maxPollOption); err != nil {
				return nil, err
			}
			post.PollOptions = append(post.PollOptions, &models.PollOption{
				ID:        snowflake.GenID(),
				PostID:    post.ID,
				Text:      text,
				SortOrder: i,
			})
		}
	}
	if p.FlairID != nil {
		if _, err := s.flairOf(ctx, a.community.ID, *p.FlairID); err != nil {
			if errorx.CodeOf(err) == errorx.CodeNotFound {
				return nil, errorx.Newf(errorx.CodeInvalidParam, "标签不属于该社区")
			}
			return nil, err
		}
		post.FlairID = p.FlairID
	}

	// 帖子和投票选项在一条 Create 中写入
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, serverBusy("store.CreatePost failed", err, zap.Int64("post_id", post.ID))
	}
	metrics.ContentCreated.WithLabelValues("post").Inc()
	s.indexPost(post)
	return post, nil
}

// GetPost 帖子详情，浏览量异步累加
// 已删除或移除的帖子仍可打开，但只有作者和版主能看到原文
func (s *Service) GetPost(ctx context.Context, postID, userID int64) (*models.ApiPostDetail, error) {
	ctx, span := tracer.Start(ctx, "logic.GetPost")
	defer span.End()

	post, err := s.store.GetPostByID(ctx, postID)
	if err != nil {
		return nil, serverBusy("store.GetPostByID failed", err, zap.Int64("post_id", postID))
	}
	if post == nil {
		return nil, errorx.ErrNotFound
	}
	a, err := s.communityAccessByID(ctx, post.CommunityID, userID)
	if err != nil {
		return nil, err
	}
	if err := a.canRead(); err != nil {
		return nil, err
	}
	redacted := !post.Status.Live() && !a.isModerator() && post.AuthorID != userID
	if redacted {
		post = redactPost(post)
	}

	list, err := s.decoratePosts(ctx, []*models.Post{post}, userID)
	if err != nil {
		return nil, err
	}
	data := list[0]
	data.HotScore = hotrank.Score(post.Score, post.CreateTime)

	if post.Type == models.PostPoll && !redacted {
		opts, err := s.store.GetPollOptions(ctx, post.ID)
		if err != nil {
			return nil, serverBusy("store.GetPollOptions failed", err, zap.Int64("post_id", post.ID))
		}
		data.PollOptions = opts
		if userID != 0 {
			pv, err := s.store.GetPollVote(ctx, post.ID, userID)
			if err != nil {
				return nil, serverBusy("store.GetPollVote failed", err, zap.Int64("post_id", post.ID))
			}
			if pv != nil {
				data.PollChoice = &pv.OptionID
			}
		}
	}

	if post.Status.Live() {
		s.goBestEffort("view_count", func(ctx context.Context) error {
			return s.views.Incr(ctx, post.ID)
		})
	}
	return data, nil
}

func redactPost(p *models.Post) *models.Post {
	cp := *p
	cp.Title, cp.Content, cp.URL = "", "", ""
	cp.PollOptions = nil
	return &cp
}

// EditPost 作者修改正文，已删除或移除的帖子不能修改
func (s *Service) EditPost(ctx context.Context, userID, postID int64, content string) (*models.Post, error) {
	if userID == 0 {
		return nil, errorx.ErrNeedLogin
	}
	post, err := s.store.GetPostByID(ctx, postID)
	if err != nil {
		return nil, serverBusy("store.GetPostByID failed", err, zap.Int64("post_id", postID))
	}
	if post == nil {
		return nil, errorx.ErrNotFound
	}
	if post.AuthorID != userID {
		return nil, errorx.Newf(errorx.CodeForbidden, "只能编辑自己的帖子")
	}
	if !post.Status.Live() {
		return nil, errorx.Newf(errorx.CodeForbidden, "帖子已删除或被移除")
	}
	if err := checkLength("帖子内容", content, s.limits.MaxPostContent); err != nil {
		return nil, err
	}
	now := s.now()
	ok, err := s.store.EditPost(ctx, post.ID, content, now)
	if err != nil {
		return nil, serverBusy("store.EditPost failed", err, zap.Int64("post_id", post.ID))
	}
	// 读取之后被删除或移除
	if !ok {
		return nil, errorx.Newf(errorx.CodeForbidden, "帖子已删除或被移除")
	}
	post.Content = content
	post.EditedAt = &now
	s.indexPost(post)
	return post, nil
}

// DeletePost 作者自删，终态；重复删除不报错
func (s *Service) DeletePost(ctx context.Context, userID, postID int64) error {
	if userID == 0 {
		return errorx.ErrNeedLogin
	}
	post, err := s.store.GetPostByID(ctx, postID)
	if err != nil {
		return serverBusy("store.GetPostByID failed", err, zap.Int64("post_id", postID))
	}
	if post == nil {
		return errorx.ErrNotFound
	}
	if post.AuthorID != userID {
		return errorx.Newf(errorx.CodeForbidden, "只能删除自己的帖子")
	}
	switch post.Status {
	case models.StatusDeleted:
		return nil
	case models.StatusRemoved:
		return errorx.Newf(errorx.CodeForbidden, "帖子已被版主移除")
	}
	ok, err := s.store.SetPostStatus(ctx, post.ID, models.StatusVisible, models.StatusDeleted)
	if err != nil {
		return serverBusy("store.SetPostStatus failed", err, zap.Int64("post_id", post.ID))
	}
	if ok {
		s.unindex(models.SearchPost, post.ID)
	}
	return nil
}

// RemovePost 版主移除帖子并写 REMOVE_POST 日志
func (s *Service) RemovePost(ctx context.Context, userID, postID int64, reason string) error {
	return s.removeContent(ctx, userID, models.Target{Type: models.TargetPost, ID: postID}, reason)
}

// VotePoll 每个用户在一个投票帖里只有一票，改选时把票挪到新选项
func (s *Service) VotePoll(ctx context.Context, userID, postID, optionID int64) ([]*models.PollOption, error) {
	post, err := s.store.GetPostByID(ctx, postID)
	if err != nil {
		return nil, serverBusy("store.GetPostByID failed", err, zap.Int64("post_id", postID))
	}
	if post == nil {
		return nil, errorx.ErrNotFound
	}
	if post.Type != models.PostPoll {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "该帖子不是投票帖")
	}
	if !post.Status.Live() {
		return nil, errorx.Newf(errorx.CodeForbidden, "帖子已删除或被移除")
	}
	a, err := s.communityAccessByID(ctx, post.CommunityID, userID)
	if err != nil {
		return nil, err
	}
	if err := a.canParticipate(); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		// 锁住帖子，同一帖子的投票串行执行
		if _, err := tx.LockPost(ctx, post.ID); err != nil {
			return err
		}
		opts, err := tx.GetPollOptions(ctx, post.ID)
		if err != nil {
			return err
		}
		valid := false
		for _, o := range opts {
			if o.ID == optionID {
				valid = true
				break
			}
		}
		if !valid {
			return errorx.Newf(errorx.CodeInvalidParam, "选项不属于该投票")
		}

		pv, err := tx.GetPollVote(ctx, post.ID, userID)
		if err != nil {
			return err
		}
		switch {
		case pv == nil:
			if err := tx.CreatePollVote(ctx, &models.PollVote{
				ID:         snowflake.GenID(),
				PostID:     post.ID,
				UserID:     userID,
				OptionID:   optionID,
				CreateTime: s.now(),
			}); err != nil {
				return err
			}
			return tx.IncrPollOption(ctx, optionID, 1)
		case pv.OptionID == optionID:
			return nil
		default:
			if err := tx.UpdatePollVote(ctx, pv.ID, optionID); err != nil {
				return err
			}
			if err := tx.IncrPollOption(ctx, pv.OptionID, -1); err != nil {
				return err
			}
			return tx.IncrPollOption(ctx, optionID, 1)
		}
	})
	if err != nil {
		return nil, txError("vote poll failed", err, zap.Int64("post_id", post.ID), zap.Int64("option_id", optionID))
	}

	opts, err := s.store.GetPollOptions(ctx, post.ID)
	if err != nil {
		return nil, serverBusy("store.GetPollOptions failed", err, zap.Int64("post_id", post.ID))
	}
	return opts, nil
}

func newPostDetail(p *models.Post) *models.ApiPostDetail {
	return &models.ApiPostDetail{
		Post:      p,
		IsDeleted: p.Status == models.StatusDeleted,
		IsRemoved: p.Status == models.StatusRemoved,
	}
}

// decoratePosts 并发补齐作者、社区和调用者的投票
func (s *Service) decoratePosts(ctx context.Context, posts []*models.Post, userID int64) ([]*models.ApiPostDetail, error) {
	data := make([]*models.ApiPostDetail, 0, len(posts))
	if len(posts) == 0 {
		return data, nil
	}
	authorIDs := make([]int64, 0, len(posts))
	communityIDs := make([]int64, 0, len(posts))
	postIDs := make([]int64, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.AuthorID)
		communityIDs = append(communityIDs, p.CommunityID)
		postIDs = append(postIDs, p.ID)
	}

	var (
		users       map[int64]*models.UserBrief
		communities map[int64]*models.CommunityBrief
		votes       map[int64]models.VoteType
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.userBriefs(gctx, authorIDs)
		return err
	})
	g.Go(func() (err error) {
		communities, err = s.communityBriefs(gctx, communityIDs)
		return err
	})
	if userID != 0 {
		g.Go(func() (err error) {
			votes, err = s.store.GetUserVotes(gctx, userID, models.TargetPost, postIDs)
			if err != nil {
				return serverBusy("store.GetUserVotes failed", err, zap.Int64("user_id", userID))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range posts {
		d := newPostDetail(p)
		d.Author = users[p.AuthorID]
		d.Community = communities[p.CommunityID]
		d.ViewerVote = votes[p.ID]
		data = append(data, d)
	}
	return data, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *Service) userBriefs(ctx context.Context, ids []int64) (map[int64]*models.UserBrief, error) {
	out := make(map[int64]*models.UserBrief, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := s.store.GetUsersByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, serverBusy("store.GetUsersByIDs failed", err)
	}
	for _, u := range users {
		out[u.UserID] = &models.UserBrief{UserID: u.UserID, Username: u.Username, Karma: u.Karma}
	}
	return out, nil
}

func (s *Service) communityBriefs(ctx context.Context, ids []int64) (map[int64]*models.CommunityBrief, error) {
	out := make(map[int64]*models.CommunityBrief, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := s.store.GetCommunitiesByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, serverBusy("store.GetCommunitiesByIDs failed", err)
	}
	for _, c := range list {
		out[c.ID] = &models.CommunityBrief{ID: c.ID, Slug: c.Slug, Name: c.Name, IsNSFW: c.IsNSFW, Icon: c.Icon}
	}
	return out, nil
}
