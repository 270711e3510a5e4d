package mysql

import (
	"context"

	"forumcore/models"
)

// 未配置 Elasticsearch 时的 LIKE 检索，结果仍需 logic 层做可见性过滤

func (s *Store) SearchCommunities(ctx context.Context, q string, limit int) ([]*models.Community, error) {
	p := likePattern(q)
	tx := discoverable(s.conn(ctx)).
		Where("LOWER(community_name) LIKE ? OR LOWER(description) LIKE ?", p, p).
		Order("member_count DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	list := make([]*models.Community, 0)
	if err := tx.Find(&list).Error; err != nil {
		return nil, wrap("search communities", err)
	}
	return list, nil
}

func (s *Store) SearchPosts(ctx context.Context, q string, limit int) ([]*models.Post, error) {
	p := likePattern(q)
	tx := s.conn(ctx).
		Where("status = ?", models.StatusVisible).
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", p, p).
		Order("post_id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	list := make([]*models.Post, 0)
	if err := tx.Find(&list).Error; err != nil {
		return nil, wrap("search posts", err)
	}
	return list, nil
}

func (s *Store) SearchComments(ctx context.Context, q string, limit int) ([]*models.Comment, error) {
	tx := s.conn(ctx).
		Where("status = ? AND LOWER(content) LIKE ?", models.StatusVisible, likePattern(q)).
		Order("comment_id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	list := make([]*models.Comment, 0)
	if err := tx.Find(&list).Error; err != nil {
		return nil, wrap("search comments", err)
	}
	return list, nil
}
