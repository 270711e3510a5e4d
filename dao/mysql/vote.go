package mysql

import (
	"context"

	"forumcore/models"
)

func (s *Store) GetVote(ctx context.Context, userID int64, target models.Target) (*models.Vote, error) {
	return first[models.Vote](
		s.conn(ctx).Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target.Type, target.ID),
		"query vote")
}

// CreateVote 并发重复投票由唯一索引兜底，返回 dao.ErrDuplicateKey
func (s *Store) CreateVote(ctx context.Context, v *models.Vote) error {
	return wrap("insert vote", s.conn(ctx).Create(v).Error)
}

func (s *Store) UpdateVoteType(ctx context.Context, id int64, t models.VoteType) error {
	return wrap("update vote", s.conn(ctx).Model(&models.Vote{}).Where("vote_id = ?", id).Update("type", t).Error)
}

func (s *Store) DeleteVote(ctx context.Context, id int64) error {
	return wrap("delete vote", s.conn(ctx).Where("vote_id = ?", id).Delete(&models.Vote{}).Error)
}

// GetUserVotes 批量查询用户对一组目标的投票，未投票的不在结果中
func (s *Store) GetUserVotes(ctx context.Context, userID int64, targetType models.TargetType, ids []int64) (map[int64]models.VoteType, error) {
	out := make(map[int64]models.VoteType, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var votes []*models.Vote
	err := s.conn(ctx).Select("target_id", "type").
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, targetType, ids).
		Find(&votes).Error
	if err != nil {
		return nil, wrap("query user votes", err)
	}
	for _, v := range votes {
		out[v.TargetID] = v.Type
	}
	return out, nil
}
