package logic

import (
	"context"
	"sort"
	"time"

	"forumcore/models"
	"forumcore/pkg/cursor"
	"forumcore/pkg/errorx"
	"forumcore/pkg/hotrank"

	"go.uber.org/zap"
)

// topSince top 排序的时间窗口，all 或空表示不限
func topSince(now time.Time, r string) (time.Time, error) {
	switch r {
	case "", models.RangeAll:
		return time.Time{}, nil
	case models.RangeToday:
		return now.Add(-24 * time.Hour), nil
	case models.RangeWeek:
		return now.AddDate(0, 0, -7), nil
	case models.RangeMonth:
		return now.AddDate(0, 0, -30), nil
	case models.RangeYear:
		return now.AddDate(0, 0, -365), nil
	}
	return time.Time{}, errorx.Newf(errorx.CodeInvalidParam, "未知的时间范围 %q", r)
}

// GetCommunityFeed 单个社区的 feed
func (s *Service) GetCommunityFeed(ctx context.Context, slugStr string, userID int64, p *models.ParamFeed) (*models.Page[*models.ApiPostDetail], error) {
	ctx, span := tracer.Start(ctx, "logic.GetCommunityFeed")
	defer span.End()

	a, err := s.communityAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	if err := a.canRead(); err != nil {
		return nil, err
	}
	// 归档社区不出 feed，版主也只能按链接看单个帖子
	if a.community.IsArchived {
		return nil, errorx.ErrNotFound
	}
	return s.composeFeed(ctx, []int64{a.community.ID}, userID, p)
}

// GetFeed 聚合 feed：home 为已加入的社区，popular 为非 NSFW 的公开社区，all 为全部公开社区
// 私有社区和归档社区不参与 popular/all
func (s *Service) GetFeed(ctx context.Context, scope string, userID int64, p *models.ParamFeed) (*models.Page[*models.ApiPostDetail], error) {
	ctx, span := tracer.Start(ctx, "logic.GetFeed")
	defer span.End()

	var (
		ids []int64
		err error
	)
	switch scope {
	case models.ScopeHome:
		if userID == 0 {
			return nil, errorx.ErrNeedLogin
		}
		ids, err = s.store.JoinedCommunityIDs(ctx, userID)
	case models.ScopePopular:
		ids, err = s.store.FeedCommunityIDs(ctx, true)
	case models.ScopeAll:
		ids, err = s.store.FeedCommunityIDs(ctx, false)
	default:
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的 feed 范围 %q", scope)
	}
	if err != nil {
		return nil, serverBusy("load feed communities failed", err, zap.String("scope", scope), zap.Int64("user_id", userID))
	}
	if len(ids) == 0 {
		return &models.Page[*models.ApiPostDetail]{Items: make([]*models.ApiPostDetail, 0)}, nil
	}
	return s.composeFeed(ctx, ids, userID, p)
}

// composeFeed new/top 直接由存储排序分页；hot 取最近 HotWindow 条帖子在内存里按 hot 分重排
func (s *Service) composeFeed(ctx context.Context, communityIDs []int64, userID int64, p *models.ParamFeed) (*models.Page[*models.ApiPostDetail], error) {
	cur, err := cursor.Decode(p.Cursor)
	if err != nil {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "无效的分页游标")
	}
	sortBy := p.Sort
	if sortBy == "" {
		sortBy = models.SortHot
	}
	limit := clampLimit(p.Limit, s.limits.FeedDefaultLimit, s.limits.FeedMaxLimit)

	var (
		posts []*models.Post
		keyOf func(*models.Post) float64
		hot   map[int64]float64
	)
	switch sortBy {
	case models.SortNew:
		posts, err = s.store.ListPosts(ctx, PostQuery{CommunityIDs: communityIDs, Sort: models.SortNew, Cursor: cur, Limit: limit + 1})
		keyOf = func(*models.Post) float64 { return 0 }
	case models.SortTop:
		since, rerr := topSince(s.now(), p.TimeRange)
		if rerr != nil {
			return nil, rerr
		}
		posts, err = s.store.ListPosts(ctx, PostQuery{CommunityIDs: communityIDs, Since: since, Sort: models.SortTop, Cursor: cur, Limit: limit + 1})
		keyOf = func(p *models.Post) float64 { return float64(p.Score) }
	case models.SortHot:
		posts, hot, err = s.hotPage(ctx, communityIDs, cur, limit+1)
		keyOf = func(p *models.Post) float64 { return hot[p.ID] }
	default:
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的排序方式 %q", sortBy)
	}
	if err != nil {
		return nil, serverBusy("store.ListPosts failed", err, zap.String("sort", sortBy))
	}

	page := &models.Page[*models.ApiPostDetail]{}
	if len(posts) > limit {
		last := posts[limit-1]
		page.NextCursor = cursor.Cursor{Key: keyOf(last), ID: last.ID}.Encode()
		posts = posts[:limit]
	}
	if page.Items, err = s.decoratePosts(ctx, posts, userID); err != nil {
		return nil, err
	}
	for _, d := range page.Items {
		if hot != nil {
			d.HotScore = hot[d.ID]
		} else {
			d.HotScore = hotrank.Score(d.Score, d.CreateTime)
		}
	}
	return page, nil
}

// hotPage 候选集为最近的 HotWindow 条可见帖子，按 (hot, id) 降序排列后从游标处截取
func (s *Service) hotPage(ctx context.Context, communityIDs []int64, cur *cursor.Cursor, n int) ([]*models.Post, map[int64]float64, error) {
	candidates, err := s.store.ListPosts(ctx, PostQuery{CommunityIDs: communityIDs, Sort: models.SortNew, Limit: s.limits.HotWindow})
	if err != nil {
		return nil, nil, err
	}
	hot := make(map[int64]float64, len(candidates))
	for _, p := range candidates {
		hot[p.ID] = hotrank.Score(p.Score, p.CreateTime)
	}
	sort.Slice(candidates, func(i, j int) bool {
		hi, hj := hot[candidates[i].ID], hot[candidates[j].ID]
		if hi != hj {
			return hi > hj
		}
		return candidates[i].ID > candidates[j].ID
	})

	out := make([]*models.Post, 0, n)
	for _, p := range candidates {
		if !cur.Before(hot[p.ID], p.ID) {
			continue
		}
		out = append(out, p)
		if len(out) == n {
			break
		}
	}
	return out, hot, nil
}
