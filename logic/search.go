package logic

import (
	"context"
	"errors"
	"strings"

	"forumcore/models"
	"forumcore/pkg/errorx"

	"go.uber.org/zap"
)

// SearchDoc 写入全文索引的文档
type SearchDoc struct {
	Kind        string `json:"kind"`
	ID          int64  `json:"id,string"`
	CommunityID int64  `json:"community_id,string"`
	Title       string `json:"title,omitempty"`
	Body        string `json:"body"`
}

// Searcher 全文检索后端，只负责给出候选 ID，可见性由 Service 重新校验
type Searcher interface {
	Index(ctx context.Context, doc *SearchDoc) error
	Delete(ctx context.Context, kind string, id int64) error
	Search(ctx context.Context, kind, q string, limit int) ([]int64, error)
}

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

func (s *Service) index(doc *SearchDoc) {
	if s.searcher == nil {
		return
	}
	s.goBestEffort("search.index", func(ctx context.Context) error {
		return s.searcher.Index(ctx, doc)
	})
}

func (s *Service) unindex(kind string, id int64) {
	if s.searcher == nil {
		return
	}
	s.goBestEffort("search.delete", func(ctx context.Context) error {
		return s.searcher.Delete(ctx, kind, id)
	})
}

func (s *Service) indexCommunity(c *models.Community) {
	s.index(&SearchDoc{Kind: models.SearchCommunity, ID: c.ID, CommunityID: c.ID, Title: c.Name, Body: c.Description})
}

func (s *Service) indexPost(p *models.Post) {
	s.index(&SearchDoc{Kind: models.SearchPost, ID: p.ID, CommunityID: p.CommunityID, Title: p.Title, Body: p.Content})
}

func (s *Service) indexComment(c *models.Comment) {
	s.index(&SearchDoc{Kind: models.SearchComment, ID: c.ID, CommunityID: c.CommunityID, Body: c.Content})
}

// candidates 向全文索引要候选 ID；索引不可用时返回 false，调用方退回数据库 LIKE
func (s *Service) candidates(ctx context.Context, kind, q string, limit int) ([]int64, bool) {
	if s.searcher == nil {
		return nil, false
	}
	ids, err := s.searcher.Search(ctx, kind, q, limit)
	if err != nil {
		zap.L().Warn("searcher.Search failed, fallback to store", zap.String("kind", kind), zap.Error(err))
		return nil, false
	}
	return ids, true
}

// orderByIDs 按 ids 的顺序重排，丢弃不在 ids 中的元素
func orderByIDs[T any](ids []int64, items []T, idOf func(T) int64) []T {
	byID := make(map[int64]T, len(items))
	for _, it := range items {
		byID[idOf(it)] = it
	}
	out := make([]T, 0, len(items))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// readCache 同一次请求里缓存社区可读性
type readCache struct {
	s      *Service
	userID int64
	seen   map[int64]bool
}

func (s *Service) newReadCache(userID int64) *readCache {
	return &readCache{s: s, userID: userID, seen: make(map[int64]bool)}
}

// readable 未归档且调用者可读
func (r *readCache) readable(ctx context.Context, communityID int64) (bool, error) {
	if ok, hit := r.seen[communityID]; hit {
		return ok, nil
	}
	a, err := r.s.communityAccessByID(ctx, communityID, r.userID)
	if errors.Is(err, errorx.ErrNotFound) {
		r.seen[communityID] = false
		return false, nil
	}
	if err != nil {
		return false, err
	}
	ok := !a.community.IsArchived && a.canRead() == nil
	r.seen[communityID] = ok
	return ok, nil
}

// Search 按社区名称/描述、帖子标题/正文、评论正文搜索
// 归档社区、已删除或移除的内容、无权阅读的私有社区内容都不会出现在结果中
func (s *Service) Search(ctx context.Context, userID int64, p *models.ParamSearch) (*models.SearchResult, error) {
	ctx, span := tracer.Start(ctx, "logic.Search")
	defer span.End()

	q := strings.TrimSpace(p.Query)
	if q == "" {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "搜索关键词不能为空")
	}
	limit := clampLimit(p.Limit, defaultSearchLimit, maxSearchLimit)
	kinds := []string{models.SearchCommunity, models.SearchPost, models.SearchComment}
	if p.Kind != "" {
		kinds = []string{p.Kind}
	}

	rc := s.newReadCache(userID)
	res := new(models.SearchResult)
	for _, kind := range kinds {
		var err error
		switch kind {
		case models.SearchCommunity:
			res.Communities, err = s.searchCommunities(ctx, q, limit)
		case models.SearchPost:
			res.Posts, err = s.searchPosts(ctx, rc, q, limit)
		case models.SearchComment:
			res.Comments, err = s.searchComments(ctx, rc, q, limit)
		default:
			return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的搜索类型 %q", kind)
		}
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *Service) searchCommunities(ctx context.Context, q string, limit int) ([]*models.Community, error) {
	var (
		list []*models.Community
		err  error
	)
	if ids, ok := s.candidates(ctx, models.SearchCommunity, q, limit); ok {
		list, err = s.store.GetCommunitiesByIDs(ctx, ids)
		list = orderByIDs(ids, list, func(c *models.Community) int64 { return c.ID })
	} else {
		list, err = s.store.SearchCommunities(ctx, q, limit)
	}
	if err != nil {
		return nil, serverBusy("search communities failed", err, zap.String("q", q))
	}
	out := make([]*models.Community, 0, len(list))
	for _, c := range list {
		if c.Discoverable() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Service) searchPosts(ctx context.Context, rc *readCache, q string, limit int) ([]*models.ApiPostDetail, error) {
	var (
		list []*models.Post
		err  error
	)
	if ids, ok := s.candidates(ctx, models.SearchPost, q, limit); ok {
		list, err = s.store.GetPostsByIDs(ctx, ids)
		list = orderByIDs(ids, list, func(p *models.Post) int64 { return p.ID })
	} else {
		list, err = s.store.SearchPosts(ctx, q, limit)
	}
	if err != nil {
		return nil, serverBusy("search posts failed", err, zap.String("q", q))
	}
	kept := make([]*models.Post, 0, len(list))
	for _, p := range list {
		if !p.Status.Live() {
			continue
		}
		ok, err := rc.readable(ctx, p.CommunityID)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, p)
		}
	}
	return s.decoratePosts(ctx, kept, rc.userID)
}

func (s *Service) searchComments(ctx context.Context, rc *readCache, q string, limit int) ([]*models.ApiCommentDetail, error) {
	var (
		list []*models.Comment
		err  error
	)
	if ids, ok := s.candidates(ctx, models.SearchComment, q, limit); ok {
		list, err = s.store.GetCommentsByIDs(ctx, ids)
		list = orderByIDs(ids, list, func(c *models.Comment) int64 { return c.ID })
	} else {
		list, err = s.store.SearchComments(ctx, q, limit)
	}
	if err != nil {
		return nil, serverBusy("search comments failed", err, zap.String("q", q))
	}
	kept := make([]*models.Comment, 0, len(list))
	for _, c := range list {
		if !c.Status.Live() {
			continue
		}
		ok, err := rc.readable(ctx, c.CommunityID)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, c)
		}
	}
	return s.decorateComments(ctx, kept, rc.userID)
}
