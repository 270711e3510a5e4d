package logic

import (
	"context"

	"forumcore/models"
	"forumcore/pkg/errorx"
	"forumcore/pkg/metrics"
	"forumcore/pkg/snowflake"

	"go.uber.org/zap"
)

// voteOutcome 一次投票状态迁移的结果
type voteOutcome struct {
	score      int64
	karmaDelta int64
	authorID   int64
}

// CastVote 投票状态机：NONE/UP/DOWN 之间迁移
//
//	NONE -> UP/DOWN       新增记录，分数 +1/-1
//	UP <-> DOWN           修改记录，分数 ±2
//	UP/DOWN -> NONE       删除记录，分数 -1/+1
//	相同状态              不产生任何写入
//
// 作者 karma 跟随同样的分数变化，自己给自己投票不影响 karma
// 返回目标的最新分数
func (s *Service) CastVote(ctx context.Context, userID int64, p *models.ParamVoteData) (*models.VoteResult, error) {
	ctx, span := tracer.Start(ctx, "logic.CastVote")
	defer span.End()

	if userID == 0 {
		return nil, errorx.ErrNeedLogin
	}
	switch p.Direction {
	case models.VoteUp, models.VoteDown, models.VoteNone:
	default:
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的投票方向 %q", p.Direction)
	}
	if !p.TargetType.Valid() {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的对象类型 %q", p.TargetType)
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
	if err := a.canParticipate(); err != nil {
		return nil, err
	}
	if !ref.Status.Live() && p.Direction != models.VoteNone {
		return nil, errorx.Newf(errorx.CodeForbidden, "内容已删除或被移除")
	}

	var out voteOutcome
	err = s.store.Transaction(ctx, func(tx Store) (err error) {
		out, err = s.voteTransition(ctx, tx, userID, t, p.Direction)
		return err
	})
	if err != nil {
		return nil, txError("cast vote failed", err,
			zap.Int64("user_id", userID), zap.String("target_type", string(t.Type)), zap.Int64("target_id", t.ID))
	}
	metrics.VotesTotal.WithLabelValues(string(t.Type), string(p.Direction)).Inc()

	if out.karmaDelta > 0 {
		s.award(out.authorID, EventVoteReceived, out.karmaDelta, map[string]any{
			"target_type": t.Type,
			"target_id":   t.ID,
			"voter_id":    userID,
		})
	}
	return &models.VoteResult{TargetType: t.Type, TargetID: t.ID, Score: out.score, Vote: p.Direction}, nil
}

// voteTransition 在事务内执行：先锁目标行，再读现有投票，最后写投票、分数和 karma
// 同一目标上的并发投票在行锁上排队，分数用原子增量更新
func (s *Service) voteTransition(ctx context.Context, tx Store, userID int64, t models.Target, desired models.VoteType) (voteOutcome, error) {
	var out voteOutcome

	switch t.Type {
	case models.TargetPost:
		p, err := tx.LockPost(ctx, t.ID)
		if err != nil {
			return out, err
		}
		if p == nil {
			return out, errorx.ErrNotFound
		}
		out.score, out.authorID = p.Score, p.AuthorID
	case models.TargetComment:
		c, err := tx.LockComment(ctx, t.ID)
		if err != nil {
			return out, err
		}
		if c == nil {
			return out, errorx.ErrNotFound
		}
		out.score, out.authorID = c.Score, c.AuthorID
	}

	existing, err := tx.GetVote(ctx, userID, t)
	if err != nil {
		return out, err
	}
	current := models.VoteNone
	if existing != nil {
		current = existing.Type
	}
	delta := desired.Value() - current.Value()
	if delta == 0 {
		return out, nil
	}

	switch {
	case existing == nil:
		err = tx.CreateVote(ctx, &models.Vote{
			ID:         snowflake.GenID(),
			UserID:     userID,
			TargetType: t.Type,
			TargetID:   t.ID,
			Type:       desired,
			CreateTime: s.now(),
			UpdateTime: s.now(),
		})
	case desired == models.VoteNone:
		err = tx.DeleteVote(ctx, existing.ID)
	default:
		err = tx.UpdateVoteType(ctx, existing.ID, desired)
	}
	if err != nil {
		return out, err
	}

	if t.Type == models.TargetPost {
		err = tx.IncrPostScore(ctx, t.ID, delta)
	} else {
		err = tx.IncrCommentScore(ctx, t.ID, delta)
	}
	if err != nil {
		return out, err
	}
	out.score += delta

	if out.authorID != userID {
		if err := tx.IncrUserKarma(ctx, out.authorID, delta); err != nil {
			return out, err
		}
		out.karmaDelta = delta
	}
	return out, nil
}
