package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"forumcore/logic"
	"forumcore/models"
)

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	return wrap("insert comment", s.conn(ctx).Create(c).Error)
}

func (s *Store) GetCommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	return first[models.Comment](s.conn(ctx).Where("comment_id = ?", id), "query comment by id")
}

func (s *Store) LockComment(ctx context.Context, id int64) (*models.Comment, error) {
	return first[models.Comment](
		s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("comment_id = ?", id), "lock comment")
}

func (s *Store) GetCommentsByIDs(ctx context.Context, ids []int64) ([]*models.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	list := make([]*models.Comment, 0, len(ids))
	if err := s.conn(ctx).Where("comment_id IN ?", ids).Find(&list).Error; err != nil {
		return nil, wrap("query comments by ids", err)
	}
	return byIDs(ids, list, func(c *models.Comment) int64 { return c.ID }), nil
}

// ListComments top 按 (score, id) 降序，new 按 id 降序，old 按 id 升序
func (s *Store) ListComments(ctx context.Context, q logic.CommentQuery) ([]*models.Comment, error) {
	tx := s.conn(ctx).Where("post_id = ? AND status = ?", q.PostID, models.StatusVisible)
	if q.ParentID != nil {
		tx = tx.Where("parent_id = ?", *q.ParentID)
	}
	c := q.Cursor
	switch q.Sort {
	case models.CommentSortTop:
		if c != nil {
			score := int64(c.Key)
			tx = tx.Where("score < ? OR (score = ? AND comment_id < ?)", score, score, c.ID)
		}
		tx = tx.Order("score DESC").Order("comment_id DESC")
	case models.CommentSortOld:
		if c != nil {
			tx = tx.Where("comment_id > ?", c.ID)
		}
		tx = tx.Order("comment_id ASC")
	default:
		if c != nil {
			tx = tx.Where("comment_id < ?", c.ID)
		}
		tx = tx.Order("comment_id DESC")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	list := make([]*models.Comment, 0)
	if err := tx.Find(&list).Error; err != nil {
		return nil, wrap("query comment list", err)
	}
	return list, nil
}

// EditComment 只修改 VISIBLE 的评论，返回是否命中
func (s *Store) EditComment(ctx context.Context, id int64, content string, editedAt time.Time) (bool, error) {
	res := s.conn(ctx).Model(&models.Comment{}).
		Where("comment_id = ? AND status = ?", id, models.StatusVisible).
		Updates(map[string]any{"content": content, "edited_at": editedAt})
	if res.Error != nil {
		return false, wrap("edit comment", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) SetCommentStatus(ctx context.Context, id int64, from, to models.ContentStatus) (bool, error) {
	res := s.conn(ctx).Model(&models.Comment{}).
		Where("comment_id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, wrap("set comment status", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) IncrCommentScore(ctx context.Context, id, delta int64) error {
	err := s.conn(ctx).Model(&models.Comment{}).
		Where("comment_id = ?", id).
		UpdateColumn("score", gorm.Expr("score + ?", delta)).Error
	return wrap("incr comment score", err)
}
