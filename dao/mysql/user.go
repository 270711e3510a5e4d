package mysql

import (
	"context"

	"gorm.io/gorm"

	"forumcore/models"
)

// CreateUser 密码由 logic 层哈希后传入
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return wrap("insert user", s.conn(ctx).Create(u).Error)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return first[models.User](s.conn(ctx).Where("user_id = ?", id), "query user by id")
}

func (s *Store) GetUserByName(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](s.conn(ctx).Where("username = ?", username), "query user by name")
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	users := make([]*models.User, 0, len(ids))
	if err := s.conn(ctx).Where("user_id IN ?", ids).Find(&users).Error; err != nil {
		return nil, wrap("query users by ids", err)
	}
	return users, nil
}

func (s *Store) IncrUserKarma(ctx context.Context, userID, delta int64) error {
	err := s.conn(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		UpdateColumn("karma", gorm.Expr("karma + ?", delta)).Error
	return wrap("incr user karma", err)
}
