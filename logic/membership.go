package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"forumcore/dao"
	"forumcore/models"
	"forumcore/pkg/errorx"
	"forumcore/pkg/snowflake"

	"go.uber.org/zap"
)

const notifyRoleChange = "role_change"

// Join 加入 PUBLIC/RESTRICTED 社区，重复加入直接返回当前身份
func (s *Service) Join(ctx context.Context, userID int64, slugStr string) (*models.Membership, error) {
	if userID == 0 {
		return nil, errorx.ErrNeedLogin
	}
	a, err := s.communityAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	if err := a.visible(); err != nil {
		return nil, err
	}
	if a.isMember() {
		return membershipOf(a), nil
	}
	c := a.community
	switch {
	case c.IsArchived:
		return nil, errorx.Newf(errorx.CodeForbidden, "社区已归档")
	case a.ban != nil:
		return nil, errorx.Newf(errorx.CodeForbidden, "你已被该社区封禁")
	case c.Type == models.CommunityPrivate:
		return nil, errorx.Newf(errorx.CodeForbidden, "私有社区需要邀请才能加入")
	}

	m := &models.CommunityMember{
		ID:          snowflake.GenID(),
		CommunityID: c.ID,
		UserID:      userID,
		Role:        models.RoleMember,
		JoinedAt:    s.now(),
	}
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.CreateMember(ctx, m); err != nil {
			return err
		}
		return tx.IncrMemberCount(ctx, c.ID, 1)
	})
	if errors.Is(err, dao.ErrDuplicateKey) {
		// 并发加入，以库里的记录为准
		m, err = s.store.GetMember(ctx, c.ID, userID)
		if err != nil {
			return nil, serverBusy("store.GetMember failed", err, zap.Int64("community_id", c.ID), zap.Int64("user_id", userID))
		}
		if m == nil {
			return nil, errorx.Newf(errorx.CodeConflict, "加入社区冲突，请重试")
		}
	} else if err != nil {
		return nil, serverBusy("join community failed", err, zap.Int64("community_id", c.ID), zap.Int64("user_id", userID))
	}
	a.member = m
	return membershipOf(a), nil
}

// Leave 退出社区；OWNER 不能退出，未加入时直接返回
func (s *Service) Leave(ctx context.Context, userID int64, slugStr string) error {
	if userID == 0 {
		return errorx.ErrNeedLogin
	}
	a, err := s.communityAccess(ctx, slugStr, userID)
	if err != nil {
		return err
	}
	if err := a.visible(); err != nil {
		return err
	}
	if !a.isMember() {
		return nil
	}
	if a.isOwner() {
		return errorx.Newf(errorx.CodeForbidden, "社区所有者不能退出社区")
	}
	if err := s.dropMember(ctx, a.community.ID, userID); err != nil {
		return serverBusy("leave community failed", err, zap.Int64("community_id", a.community.ID), zap.Int64("user_id", userID))
	}
	return nil
}

// dropMember 删除成员并同步 memberCount，已不是成员时不改计数
func (s *Service) dropMember(ctx context.Context, communityID, userID int64) error {
	return s.store.Transaction(ctx, func(tx Store) error {
		return dropMemberTx(ctx, tx, communityID, userID)
	})
}

func dropMemberTx(ctx context.Context, tx Store, communityID, userID int64) error {
	removed, err := tx.DeleteMember(ctx, communityID, userID)
	if err != nil || !removed {
		return err
	}
	return tx.IncrMemberCount(ctx, communityID, -1)
}

// GetMembership 调用者在社区中的身份
func (s *Service) GetMembership(ctx context.Context, userID int64, slugStr string) (*models.Membership, error) {
	if userID == 0 {
		return nil, errorx.ErrNeedLogin
	}
	a, err := s.communityAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	if err := a.visible(); err != nil {
		return nil, err
	}
	return membershipOf(a), nil
}

// ListMembers 成员列表，OWNER、MODERATOR 在前
func (s *Service) ListMembers(ctx context.Context, slugStr string, userID int64, p *models.ParamMemberList) ([]*models.ApiMember, error) {
	a, err := s.communityAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	if err := a.canRead(); err != nil {
		return nil, err
	}
	size := clampLimit(int(p.Size), defaultPageSize, maxPageSize)
	page := int(p.Page)
	if page < 1 {
		page = 1
	}
	members, err := s.store.ListMembers(ctx, a.community.ID, p.Role, (page-1)*size, size)
	if err != nil {
		return nil, serverBusy("store.ListMembers failed", err, zap.Int64("community_id", a.community.ID))
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := s.userBriefs(ctx, ids)
	if err != nil {
		return nil, err
	}
	data := make([]*models.ApiMember, 0, len(members))
	for _, m := range members {
		item := &models.ApiMember{CommunityMember: m}
		if u, ok := users[m.UserID]; ok {
			item.Username = u.Username
		}
		data = append(data, item)
	}
	return data, nil
}

// ChangeRole 只有 OWNER 可以在 MODERATOR 和 MEMBER 之间调整他人角色
func (s *Service) ChangeRole(ctx context.Context, userID int64, slugStr string, targetUserID int64, role models.MemberRole) (*models.CommunityMember, error) {
	if userID == 0 {
		return nil, errorx.ErrNeedLogin
	}
	if role != models.RoleModerator && role != models.RoleMember {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "角色只能是 MODERATOR 或 MEMBER")
	}
	if targetUserID == userID {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "不能修改自己的角色")
	}
	a, err := s.communityAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	if err := a.visible(); err != nil {
		return nil, err
	}
	if !a.isOwner() {
		return nil, errorx.Newf(errorx.CodeForbidden, "只有社区所有者可以调整角色")
	}
	c := a.community
	target, err := s.store.GetMember(ctx, c.ID, targetUserID)
	if err != nil {
		return nil, serverBusy("store.GetMember failed", err, zap.Int64("community_id", c.ID), zap.Int64("user_id", targetUserID))
	}
	if target == nil {
		return nil, errorx.Newf(errorx.CodeNotFound, "该用户不是社区成员")
	}
	if target.Role == models.RoleOwner {
		return nil, errorx.Newf(errorx.CodeForbidden, "不能修改社区所有者的角色")
	}
	if target.Role == role {
		return target, nil
	}

	from := target.Role
	l := s.newModLog(c.ID, userID, models.ActionChangeRole)
	l.TargetUserID = &targetUserID
	l.Metadata = map[string]any{"from": from, "to": role}
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.UpdateMemberRole(ctx, c.ID, targetUserID, role); err != nil {
			return err
		}
		return writeModLog(ctx, tx, l)
	})
	if err != nil {
		return nil, serverBusy("change role failed", err, zap.Int64("community_id", c.ID), zap.Int64("user_id", targetUserID))
	}
	target.Role = role

	if s.notifier != nil {
		title := "社区角色变更"
		msg := fmt.Sprintf("你在 %s 的角色已从 %s 变更为 %s", c.Name, from, role)
		s.goBestEffort("notify."+notifyRoleChange, func(ctx context.Context) error {
			return s.notifier.Notify(ctx, targetUserID, notifyRoleChange, title, msg)
		})
	}
	return target, nil
}

// RemoveMember 版主移出成员，OWNER 不能被移出
func (s *Service) RemoveMember(ctx context.Context, userID int64, slugStr string, targetUserID int64) error {
	a, err := s.moderatorAccess(ctx, slugStr, userID)
	if err != nil {
		return err
	}
	c := a.community
	target, err := s.store.GetMember(ctx, c.ID, targetUserID)
	if err != nil {
		return serverBusy("store.GetMember failed", err, zap.Int64("community_id", c.ID), zap.Int64("user_id", targetUserID))
	}
	if target == nil {
		return errorx.Newf(errorx.CodeNotFound, "该用户不是社区成员")
	}
	if target.Role == models.RoleOwner {
		return errorx.Newf(errorx.CodeForbidden, "不能移出社区所有者")
	}

	l := s.newModLog(c.ID, userID, models.ActionRemoveMember)
	l.TargetUserID = &targetUserID
	l.Metadata = map[string]any{"role": target.Role}
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := dropMemberTx(ctx, tx, c.ID, targetUserID); err != nil {
			return err
		}
		return writeModLog(ctx, tx, l)
	})
	if err != nil {
		return serverBusy("remove member failed", err, zap.Int64("community_id", c.ID), zap.Int64("user_id", targetUserID))
	}
	return nil
}

// Ban 封禁用户并移出社区；临时封禁必须带一个未来的过期时间
func (s *Service) Ban(ctx context.Context, userID int64, slugStr string, p *models.ParamBan) (*models.CommunityBan, error) {
	if p.UserID == userID {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "不能封禁自己")
	}
	now := s.now()
	var expiresAt = p.ExpiresAt
	switch p.Status {
	case models.BanTemporary:
		if expiresAt == nil || !expiresAt.After(now) {
			return nil, errorx.Newf(errorx.CodeInvalidParam, "临时封禁需要一个未来的过期时间")
		}
	case models.BanPermanent:
		expiresAt = nil
	default:
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的封禁类型 %q", p.Status)
	}

	a, err := s.moderatorAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	c := a.community
	u, err := s.store.GetUserByID(ctx, p.UserID)
	if err != nil {
		return nil, serverBusy("store.GetUserByID failed", err, zap.Int64("user_id", p.UserID))
	}
	if u == nil {
		return nil, errorx.ErrUserNotExist
	}
	target, err := s.store.GetMember(ctx, c.ID, p.UserID)
	if err != nil {
		return nil, serverBusy("store.GetMember failed", err, zap.Int64("community_id", c.ID), zap.Int64("user_id", p.UserID))
	}
	if target != nil && target.Role == models.RoleOwner {
		return nil, errorx.Newf(errorx.CodeForbidden, "不能封禁社区所有者")
	}

	b := &models.CommunityBan{
		ID:          snowflake.GenID(),
		CommunityID: c.ID,
		UserID:      p.UserID,
		Status:      p.Status,
		ExpiresAt:   expiresAt,
		Reason:      strings.TrimSpace(p.Reason),
		BannedBy:    userID,
		CreateTime:  now,
	}
	l := s.newModLog(c.ID, userID, models.ActionBan)
	l.TargetUserID = &b.UserID
	l.Reason = b.Reason
	l.Metadata = map[string]any{"status": b.Status}
	if expiresAt != nil {
		l.Metadata["expires_at"] = expiresAt.UTC()
	}
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.UpsertBan(ctx, b); err != nil {
			return err
		}
		if err := dropMemberTx(ctx, tx, c.ID, b.UserID); err != nil {
			return err
		}
		return writeModLog(ctx, tx, l)
	})
	if err != nil {
		return nil, serverBusy("ban user failed", err, zap.Int64("community_id", c.ID), zap.Int64("user_id", b.UserID))
	}
	return b, nil
}

// Unban 解除封禁，用户需要重新加入社区
func (s *Service) Unban(ctx context.Context, userID int64, slugStr string, targetUserID int64) error {
	a, err := s.moderatorAccess(ctx, slugStr, userID)
	if err != nil {
		return err
	}
	c := a.community
	l := s.newModLog(c.ID, userID, models.ActionUnban)
	l.TargetUserID = &targetUserID
	err = s.store.Transaction(ctx, func(tx Store) error {
		ok, err := tx.DeleteBan(ctx, c.ID, targetUserID)
		if err != nil {
			return err
		}
		if !ok {
			return errorx.Newf(errorx.CodeNotFound, "该用户未被封禁")
		}
		return writeModLog(ctx, tx, l)
	})
	if err != nil {
		return txError("unban user failed", err, zap.Int64("community_id", c.ID), zap.Int64("user_id", targetUserID))
	}
	return nil
}
