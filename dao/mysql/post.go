package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"forumcore/logic"
	"forumcore/models"
)

// CreatePost POLL 帖的选项随帖子一起写入
func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	return wrap("insert post", s.conn(ctx).Create(p).Error)
}

func (s *Store) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	return first[models.Post](s.conn(ctx).Where("post_id = ?", id), "query post by id")
}

func (s *Store) LockPost(ctx context.Context, id int64) (*models.Post, error) {
	return first[models.Post](
		s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("post_id = ?", id), "lock post")
}

// GetPostsByIDs 结果按 ids 顺序返回，不存在的 ID 跳过
func (s *Store) GetPostsByIDs(ctx context.Context, ids []int64) ([]*models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	posts := make([]*models.Post, 0, len(ids))
	if err := s.conn(ctx).Where("post_id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, wrap("query posts by ids", err)
	}
	return byIDs(ids, posts, func(p *models.Post) int64 { return p.ID }), nil
}

func (s *Store) ListPosts(ctx context.Context, q logic.PostQuery) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, q.Limit)
	if len(q.CommunityIDs) == 0 {
		return posts, nil
	}
	tx := s.conn(ctx).
		Where("community_id IN ?", q.CommunityIDs).
		Where("status = ?", models.StatusVisible)
	if !q.Since.IsZero() {
		tx = tx.Where("create_time >= ?", q.Since)
	}
	switch q.Sort {
	case models.SortTop:
		if c := q.Cursor; c != nil {
			score := int64(c.Key)
			tx = tx.Where("score < ? OR (score = ? AND post_id < ?)", score, score, c.ID)
		}
		tx = tx.Order("score DESC").Order("post_id DESC")
	default:
		if q.Cursor != nil {
			tx = tx.Where("post_id < ?", q.Cursor.ID)
		}
		tx = tx.Order("post_id DESC")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if err := tx.Find(&posts).Error; err != nil {
		return nil, wrap("query post list", err)
	}
	return posts, nil
}

// EditPost 只修改 VISIBLE 的帖子，返回是否命中
func (s *Store) EditPost(ctx context.Context, id int64, content string, editedAt time.Time) (bool, error) {
	res := s.conn(ctx).Model(&models.Post{}).
		Where("post_id = ? AND status = ?", id, models.StatusVisible).
		Updates(map[string]any{"content": content, "edited_at": editedAt})
	if res.Error != nil {
		return false, wrap("edit post", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) SetPostStatus(ctx context.Context, id int64, from, to models.ContentStatus) (bool, error) {
	res := s.conn(ctx).Model(&models.Post{}).
		Where("post_id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, wrap("set post status", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) incrPost(ctx context.Context, id int64, column string, delta int64) error {
	return s.conn(ctx).Model(&models.Post{}).
		Where("post_id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

func (s *Store) IncrPostScore(ctx context.Context, id, delta int64) error {
	return wrap("incr post score", s.incrPost(ctx, id, "score", delta))
}

func (s *Store) IncrPostCommentCount(ctx context.Context, id, delta int64) error {
	return wrap("incr post comment count", s.incrPost(ctx, id, "comment_count", delta))
}

func (s *Store) IncrPostViewCount(ctx context.Context, id, delta int64) error {
	return wrap("incr post view count", s.incrPost(ctx, id, "view_count", delta))
}

func (s *Store) GetPollOptions(ctx context.Context, postID int64) ([]*models.PollOption, error) {
	opts := make([]*models.PollOption, 0)
	err := s.conn(ctx).Where("post_id = ?", postID).Order("sort_order ASC").Find(&opts).Error
	if err != nil {
		return nil, wrap("query poll options", err)
	}
	return opts, nil
}

func (s *Store) GetPollVote(ctx context.Context, postID, userID int64) (*models.PollVote, error) {
	return first[models.PollVote](
		s.conn(ctx).Where("post_id = ? AND user_id = ?", postID, userID), "query poll vote")
}

func (s *Store) CreatePollVote(ctx context.Context, v *models.PollVote) error {
	return wrap("insert poll vote", s.conn(ctx).Create(v).Error)
}

func (s *Store) UpdatePollVote(ctx context.Context, id, optionID int64) error {
	err := s.conn(ctx).Model(&models.PollVote{}).
		Where("poll_vote_id = ?", id).
		Update("option_id", optionID).Error
	return wrap("update poll vote", err)
}

func (s *Store) IncrPollOption(ctx context.Context, optionID, delta int64) error {
	err := s.conn(ctx).Model(&models.PollOption{}).
		Where("option_id = ?", optionID).
		UpdateColumn("vote_count", gorm.Expr("vote_count + ?", delta)).Error
	return wrap("incr poll option", err)
}
