package mysql

import (
	"context"

	"gorm.io/gorm/clause"

	"forumcore/models"
)

func (s *Store) GetMember(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error) {
	return first[models.CommunityMember](
		s.conn(ctx).Where("community_id = ? AND user_id = ?", communityID, userID), "query member")
}

func (s *Store) CreateMember(ctx context.Context, m *models.CommunityMember) error {
	return wrap("insert member", s.conn(ctx).Create(m).Error)
}

func (s *Store) DeleteMember(ctx context.Context, communityID, userID int64) (bool, error) {
	res := s.conn(ctx).Where("community_id = ? AND user_id = ?", communityID, userID).Delete(&models.CommunityMember{})
	if res.Error != nil {
		return false, wrap("delete member", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) UpdateMemberRole(ctx context.Context, communityID, userID int64, role models.MemberRole) error {
	err := s.conn(ctx).Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Update("role", role).Error
	return wrap("update member role", err)
}

// roleOrder OWNER 在前，其次 MODERATOR
const roleOrder = "CASE role WHEN 'OWNER' THEN 0 WHEN 'MODERATOR' THEN 1 ELSE 2 END"

func (s *Store) ListMembers(ctx context.Context, communityID int64, role models.MemberRole, offset, limit int) ([]*models.CommunityMember, error) {
	tx := s.conn(ctx).Where("community_id = ?", communityID)
	if role != "" {
		tx = tx.Where("role = ?", role)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	list := make([]*models.CommunityMember, 0)
	err := tx.Order(roleOrder).Order("joined_at ASC").Order("member_id ASC").
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, wrap("query members", err)
	}
	return list, nil
}

func (s *Store) GetBan(ctx context.Context, communityID, userID int64) (*models.CommunityBan, error) {
	return first[models.CommunityBan](
		s.conn(ctx).Where("community_id = ? AND user_id = ?", communityID, userID), "query ban")
}

// UpsertBan 同一用户重复封禁时覆盖原记录
func (s *Store) UpsertBan(ctx context.Context, b *models.CommunityBan) error {
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "expires_at", "reason", "banned_by"}),
	}).Create(b).Error
	return wrap("upsert ban", err)
}

func (s *Store) DeleteBan(ctx context.Context, communityID, userID int64) (bool, error) {
	res := s.conn(ctx).Where("community_id = ? AND user_id = ?", communityID, userID).Delete(&models.CommunityBan{})
	if res.Error != nil {
		return false, wrap("delete ban", res.Error)
	}
	return res.RowsAffected > 0, nil
}
