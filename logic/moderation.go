package logic

import (
	"context"
	"strings"

	"forumcore/models"
	"forumcore/pkg/cursor"
	"forumcore/pkg/errorx"
	"forumcore/pkg/snowflake"

	"go.uber.org/zap"
)

const (
	defaultReportLimit = 25
	maxReportLimit     = 100
	maxReportReason    = 1000
)

// targetRef 投票、举报、移除共用的内容快照
type targetRef struct {
	models.Target
	CommunityID int64
	AuthorID    int64
	PostID      int64
	Status      models.ContentStatus
	Text        string
}

// loadTarget 取帖子或评论，不存在返回 NotFound
func (s *Service) loadTarget(ctx context.Context, t models.Target) (*targetRef, error) {
	switch t.Type {
	case models.TargetPost:
		p, err := s.store.GetPostByID(ctx, t.ID)
		if err != nil {
			return nil, serverBusy("store.GetPostByID failed", err, zap.Int64("post_id", t.ID))
		}
		if p == nil {
			return nil, errorx.ErrNotFound
		}
		return &targetRef{Target: t, CommunityID: p.CommunityID, AuthorID: p.AuthorID, PostID: p.ID,
			Status: p.Status, Text: strings.TrimSpace(p.Title + "\n" + p.Content)}, nil
	case models.TargetComment:
		c, err := s.store.GetCommentByID(ctx, t.ID)
		if err != nil {
			return nil, serverBusy("store.GetCommentByID failed", err, zap.Int64("comment_id", t.ID))
		}
		if c == nil {
			return nil, errorx.ErrNotFound
		}
		return &targetRef{Target: t, CommunityID: c.CommunityID, AuthorID: c.AuthorID, PostID: c.PostID,
			Status: c.Status, Text: c.Content}, nil
	}
	return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的对象类型 %q", t.Type)
}

// removeContent 版主移除帖子或评论，已不可见的内容直接返回
func (s *Service) removeContent(ctx context.Context, userID int64, t models.Target, reason string) error {
	ctx, span := tracer.Start(ctx, "logic.removeContent")
	defer span.End()

	if userID == 0 {
		return errorx.ErrNeedLogin
	}
	ref, err := s.loadTarget(ctx, t)
	if err != nil {
		return err
	}
	a, err := s.communityAccessByID(ctx, ref.CommunityID, userID)
	if err != nil {
		return err
	}
	if err := a.visible(); err != nil {
		return err
	}
	if err := a.requireModerator(); err != nil {
		return err
	}
	if !ref.Status.Live() {
		return nil
	}

	var removed bool
	err = s.store.Transaction(ctx, func(tx Store) (err error) {
		removed, err = s.removeTx(ctx, tx, userID, ref, strings.TrimSpace(reason), nil)
		return err
	})
	if err != nil {
		return serverBusy("remove content failed", err, zap.String("target_type", string(t.Type)), zap.Int64("target_id", t.ID))
	}
	if removed {
		s.afterHidden(ref)
	}
	return nil
}

// removeTx VISIBLE -> REMOVED 并在同一事务写审计日志，内容已不可见时返回 false
func (s *Service) removeTx(ctx context.Context, tx Store, moderatorID int64, ref *targetRef, reason string, metadata map[string]any) (bool, error) {
	l := s.newModLog(ref.CommunityID, moderatorID, "")
	author := ref.AuthorID
	l.TargetUserID = &author
	l.Reason = reason
	l.Metadata = metadata

	var (
		ok  bool
		err error
	)
	id := ref.ID
	switch ref.Type {
	case models.TargetPost:
		l.Action = models.ActionRemovePost
		l.TargetPostID = &id
		ok, err = tx.SetPostStatus(ctx, id, models.StatusVisible, models.StatusRemoved)
	case models.TargetComment:
		l.Action = models.ActionRemoveComment
		l.TargetCommentID = &id
		ok, err = tx.SetCommentStatus(ctx, id, models.StatusVisible, models.StatusRemoved)
	}
	if err != nil || !ok {
		return false, err
	}
	return true, writeModLog(ctx, tx, l)
}

// afterHidden 内容变为不可见后的尽力而为收尾：评论数减一、移出索引
func (s *Service) afterHidden(ref *targetRef) {
	switch ref.Type {
	case models.TargetPost:
		s.unindex(models.SearchPost, ref.ID)
	case models.TargetComment:
		postID := ref.PostID
		s.goBestEffort("comment_count", func(ctx context.Context) error {
			return s.store.IncrPostCommentCount(ctx, postID, -1)
		})
		s.unindex(models.SearchComment, ref.ID)
	}
}

func lockTarget(ctx context.Context, tx Store, t models.Target) error {
	var err error
	switch t.Type {
	case models.TargetPost:
		_, err = tx.LockPost(ctx, t.ID)
	case models.TargetComment:
		_, err = tx.LockComment(ctx, t.ID)
	}
	return err
}

// CreateReport 举报帖子或评论；同一举报人对同一对象只能有一条 OPEN 举报
func (s *Service) CreateReport(ctx context.Context, userID int64, p *models.ParamReport) (*models.Report, error) {
	if userID == 0 {
		return nil, errorx.ErrNeedLogin
	}
	reason := strings.TrimSpace(p.Reason)
	if reason == "" {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "举报理由不能为空")
	}
	if err := checkLength("举报理由", reason, maxReportReason); err != nil {
		return nil, err
	}
	t := models.Target{Type: p.TargetType, ID: p.TargetID}
	ref, err := s.loadTarget(ctx, t)
	if err != nil {
		return nil, err
	}
	a, err := s.communityAccessByID(ctx, ref.CommunityID, userID)
	if err != nil {
		return nil, err
	}
	if err := a.canRead(); err != nil {
		return nil, err
	}
	if !ref.Status.Live() {
		return nil, errorx.ErrNotFound
	}

	r := &models.Report{
		ID:          snowflake.GenID(),
		CommunityID: ref.CommunityID,
		TargetType:  t.Type,
		TargetID:    t.ID,
		ReporterID:  userID,
		Reason:      reason,
		Status:      models.ReportOpen,
		CreateTime:  s.now(),
	}
	// 查重和写入都在被举报对象的行锁下
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := lockTarget(ctx, tx, t); err != nil {
			return err
		}
		dup, err := tx.HasOpenReport(ctx, userID, t)
		if err != nil {
			return err
		}
		if dup {
			return errorx.Newf(errorx.CodeConflict, "你已经举报过该内容")
		}
		return tx.CreateReport(ctx, r)
	})
	if err != nil {
		return nil, txError("create report failed", err, zap.Int64("user_id", userID), zap.Int64("target_id", t.ID))
	}

	if s.triager != nil {
		text := ref.Text
		s.goBestEffort("report.triage", func(ctx context.Context) error {
			priority, note, err := s.triager.Triage(ctx, reason, text)
			if err != nil {
				return err
			}
			return s.store.SetReportTriage(ctx, r.ID, priority, note)
		})
	}
	return r, nil
}

// ListReports 版主查看举报，默认只看 OPEN
func (s *Service) ListReports(ctx context.Context, userID int64, slugStr string, p *models.ParamReportList) (*models.Page[*models.Report], error) {
	a, err := s.moderatorAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	cur, err := cursor.Decode(p.Cursor)
	if err != nil {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "无效的分页游标")
	}
	status := p.Status
	if status == "" {
		status = models.ReportOpen
	}
	if !status.Valid() {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的举报状态 %q", status)
	}
	limit := clampLimit(p.Limit, defaultReportLimit, maxReportLimit)
	q := ReportQuery{CommunityID: a.community.ID, Status: status, Limit: limit + 1}
	if cur != nil {
		q.BeforeID = cur.ID
	}
	list, err := s.store.ListReports(ctx, q)
	if err != nil {
		return nil, serverBusy("store.ListReports failed", err, zap.Int64("community_id", a.community.ID))
	}
	page := &models.Page[*models.Report]{Items: list}
	if len(list) > limit {
		page.NextCursor = cursor.Cursor{ID: list[limit-1].ID}.Encode()
		page.Items = list[:limit]
	}
	if page.Items == nil {
		page.Items = make([]*models.Report, 0)
	}
	return page, nil
}

// ResolveReport OPEN -> RESOLVED（同时移除内容）或 OPEN -> DISMISSED，非 OPEN 返回 AlreadyResolved
func (s *Service) ResolveReport(ctx context.Context, userID, reportID int64, p *models.ParamResolveReport) (*models.Report, error) {
	ctx, span := tracer.Start(ctx, "logic.ResolveReport")
	defer span.End()

	if userID == 0 {
		return nil, errorx.ErrNeedLogin
	}
	var (
		status models.ReportStatus
		action models.ModAction
	)
	switch p.Action {
	case models.ResolveRemove:
		status, action = models.ReportResolved, models.ActionResolveReport
	case models.ResolveDismiss:
		status, action = models.ReportDismissed, models.ActionDismissReport
	default:
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的处理动作 %q", p.Action)
	}

	r, err := s.store.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, serverBusy("store.GetReportByID failed", err, zap.Int64("report_id", reportID))
	}
	if r == nil {
		return nil, errorx.ErrNotFound
	}
	a, err := s.communityAccessByID(ctx, r.CommunityID, userID)
	if err != nil {
		return nil, err
	}
	if err := a.visible(); err != nil {
		return nil, err
	}
	if err := a.requireModerator(); err != nil {
		return nil, err
	}
	if r.Status != models.ReportOpen {
		return nil, errorx.ErrAlreadyResolved
	}

	var ref *targetRef
	if status == models.ReportResolved {
		if ref, err = s.loadTarget(ctx, models.Target{Type: r.TargetType, ID: r.TargetID}); err != nil {
			return nil, err
		}
	}

	now := s.now()
	reason := strings.TrimSpace(p.Reason)
	var removed bool
	err = s.store.Transaction(ctx, func(tx Store) error {
		ok, err := tx.CloseReport(ctx, r.ID, status, userID, now)
		if err != nil {
			return err
		}
		if !ok {
			return errorx.ErrAlreadyResolved
		}
		if ref != nil {
			if removed, err = s.removeTx(ctx, tx, userID, ref, reason, map[string]any{"report_id": r.ID}); err != nil {
				return err
			}
		}
		l := s.newModLog(r.CommunityID, userID, action)
		l.Reason = reason
		l.Metadata = map[string]any{"report_id": r.ID, "target_type": r.TargetType, "target_id": r.TargetID}
		return writeModLog(ctx, tx, l)
	})
	if err != nil {
		return nil, txError("resolve report failed", err, zap.Int64("report_id", r.ID))
	}
	if removed {
		s.afterHidden(ref)
	}

	r.Status = status
	r.ResolvedBy = &userID
	r.ResolvedAt = &now
	return r, nil
}

// ListModLogs 社区审计日志，新的在前
func (s *Service) ListModLogs(ctx context.Context, userID int64, slugStr string, p *models.ParamPage) (*models.Page[*models.ModLog], error) {
	a, err := s.moderatorAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	cur, err := cursor.Decode(p.Cursor)
	if err != nil {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "无效的分页游标")
	}
	var before int64
	if cur != nil {
		before = cur.ID
	}
	limit := clampLimit(p.Limit, defaultReportLimit, maxReportLimit)
	list, err := s.store.ListModLogs(ctx, a.community.ID, before, limit+1)
	if err != nil {
		return nil, serverBusy("store.ListModLogs failed", err, zap.Int64("community_id", a.community.ID))
	}
	page := &models.Page[*models.ModLog]{Items: list}
	if len(list) > limit {
		page.NextCursor = cursor.Cursor{ID: list[limit-1].ID}.Encode()
		page.Items = list[:limit]
	}
	if page.Items == nil {
		page.Items = make([]*models.ModLog, 0)
	}
	return page, nil
}
