package mysql

import (
	"context"

	"gorm.io/gorm"

	"forumcore/logic"
	"forumcore/models"
)

func (s *Store) CreateCommunity(ctx context.Context, c *models.Community) error {
	return wrap("insert community", s.conn(ctx).Create(c).Error)
}

func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Community{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, wrap("count community slug", err)
	}
	return count > 0, nil
}

func (s *Store) GetCommunityByID(ctx context.Context, id int64) (*models.Community, error) {
	return first[models.Community](s.conn(ctx).Where("community_id = ?", id), "query community by id")
}

func (s *Store) GetCommunityBySlug(ctx context.Context, slug string) (*models.Community, error) {
	return first[models.Community](s.conn(ctx).Where("slug = ?", slug), "query community by slug")
}

func (s *Store) GetCommunitiesByIDs(ctx context.Context, ids []int64) ([]*models.Community, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	list := make([]*models.Community, 0, len(ids))
	if err := s.conn(ctx).Where("community_id IN ?", ids).Find(&list).Error; err != nil {
		return nil, wrap("query communities by ids", err)
	}
	return list, nil
}

// discoverable 未归档且非私有
func discoverable(tx *gorm.DB) *gorm.DB {
	return tx.Where("is_archived = ? AND type <> ?", false, models.CommunityPrivate)
}

func (s *Store) ListCommunities(ctx context.Context, q logic.CommunityQuery) ([]*models.Community, error) {
	tx := discoverable(s.conn(ctx).Model(&models.Community{}))
	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}
	if q.Query != "" {
		p := likePattern(q.Query)
		tx = tx.Where("LOWER(community_name) LIKE ? OR LOWER(description) LIKE ?", p, p)
	}
	switch q.Sort {
	case models.CommunitySortName:
		tx = tx.Order("community_name ASC")
	case models.CommunitySortNew:
		tx = tx.Order("community_id DESC")
	default:
		tx = tx.Order("member_count DESC").Order("community_id DESC")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	list := make([]*models.Community, 0)
	if err := tx.Offset(q.Offset).Find(&list).Error; err != nil {
		return nil, wrap("query community list", err)
	}
	return list, nil
}

// SaveCommunitySettings 只写可编辑字段，计数和归档状态不受影响
func (s *Store) SaveCommunitySettings(ctx context.Context, c *models.Community) error {
	err := s.conn(ctx).Model(&models.Community{}).
		Where("community_id = ?", c.ID).
		Updates(map[string]any{
			"community_name": c.Name,
			"description":    c.Description,
			"sidebar":        c.Sidebar,
			"type":           c.Type,
			"is_nsfw":        c.IsNSFW,
			"icon":           c.Icon,
			"banner":         c.Banner,
			"color":          c.Color,
		}).Error
	return wrap("update community settings", err)
}

func (s *Store) ArchiveCommunity(ctx context.Context, id int64) (bool, error) {
	res := s.conn(ctx).Model(&models.Community{}).
		Where("community_id = ? AND is_archived = ?", id, false).
		Update("is_archived", true)
	if res.Error != nil {
		return false, wrap("archive community", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) IncrMemberCount(ctx context.Context, communityID, delta int64) error {
	err := s.conn(ctx).Model(&models.Community{}).
		Where("community_id = ?", communityID).
		UpdateColumn("member_count", gorm.Expr("member_count + ?", delta)).Error
	return wrap("incr member count", err)
}

func (s *Store) FeedCommunityIDs(ctx context.Context, excludeNSFW bool) ([]int64, error) {
	tx := discoverable(s.conn(ctx).Model(&models.Community{}))
	if excludeNSFW {
		tx = tx.Where("is_nsfw = ?", false)
	}
	var ids []int64
	if err := tx.Pluck("community_id", &ids).Error; err != nil {
		return nil, wrap("query feed community ids", err)
	}
	return ids, nil
}

func (s *Store) JoinedCommunityIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := s.conn(ctx).Table("community_member AS m").
		Joins("JOIN community AS c ON c.community_id = m.community_id").
		Where("m.user_id = ? AND c.is_archived = ?", userID, false).
		Pluck("m.community_id", &ids).Error
	if err != nil {
		return nil, wrap("query joined community ids", err)
	}
	return ids, nil
}

func (s *Store) ListRules(ctx context.Context, communityID int64) ([]*models.CommunityRule, error) {
	list := make([]*models.CommunityRule, 0)
	err := s.conn(ctx).Where("community_id = ?", communityID).
		Order("sort_order ASC").Order("rule_id ASC").
		Find(&list).Error
	if err != nil {
		return nil, wrap("query rules", err)
	}
	return list, nil
}

func (s *Store) GetRule(ctx context.Context, id int64) (*models.CommunityRule, error) {
	return first[models.CommunityRule](s.conn(ctx).Where("rule_id = ?", id), "query rule")
}

func (s *Store) CreateRule(ctx context.Context, r *models.CommunityRule) error {
	return wrap("insert rule", s.conn(ctx).Create(r).Error)
}

func (s *Store) SaveRule(ctx context.Context, r *models.CommunityRule) error {
	err := s.conn(ctx).Model(&models.CommunityRule{}).
		Where("rule_id = ?", r.ID).
		Updates(map[string]any{"title": r.Title, "description": r.Description, "sort_order": r.SortOrder}).Error
	return wrap("update rule", err)
}

func (s *Store) DeleteRule(ctx context.Context, id int64) error {
	return wrap("delete rule", s.conn(ctx).Where("rule_id = ?", id).Delete(&models.CommunityRule{}).Error)
}

func (s *Store) ListFlairs(ctx context.Context, communityID int64) ([]*models.CommunityFlair, error) {
	list := make([]*models.CommunityFlair, 0)
	err := s.conn(ctx).Where("community_id = ?", communityID).
		Order("sort_order ASC").Order("flair_id ASC").
		Find(&list).Error
	if err != nil {
		return nil, wrap("query flairs", err)
	}
	return list, nil
}

func (s *Store) GetFlair(ctx context.Context, id int64) (*models.CommunityFlair, error) {
	return first[models.CommunityFlair](s.conn(ctx).Where("flair_id = ?", id), "query flair")
}

func (s *Store) CreateFlair(ctx context.Context, f *models.CommunityFlair) error {
	return wrap("insert flair", s.conn(ctx).Create(f).Error)
}

func (s *Store) SaveFlair(ctx context.Context, f *models.CommunityFlair) error {
	err := s.conn(ctx).Model(&models.CommunityFlair{}).
		Where("flair_id = ?", f.ID).
		Updates(map[string]any{"text": f.Text, "color": f.Color, "sort_order": f.SortOrder}).Error
	return wrap("update flair", err)
}

func (s *Store) DeleteFlair(ctx context.Context, id int64) error {
	return wrap("delete flair", s.conn(ctx).Where("flair_id = ?", id).Delete(&models.CommunityFlair{}).Error)
}
