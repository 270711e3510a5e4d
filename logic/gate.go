package logic

import (
	"context"
	"errors"

	"forumcore/models"
	"forumcore/pkg/errorx"

	"go.uber.org/zap"
)

// AdminList 全局管理员白名单，由配置注入
type AdminList map[int64]struct{}

func NewAdminList(ids []int64) AdminList {
	a := make(AdminList, len(ids))
	for _, id := range ids {
		a[id] = struct{}{}
	}
	return a
}

func (a AdminList) Contains(userID int64) bool {
	if userID == 0 {
		return false
	}
	_, ok := a[userID]
	return ok
}

// access 某用户在某社区的权限事实，一次请求内解析一次
type access struct {
	userID    int64
	community *models.Community
	member    *models.CommunityMember
	ban       *models.CommunityBan
	isAdmin   bool
}

func (a *access) isMember() bool {
	return a.member != nil
}

func (a *access) role() models.MemberRole {
	if a.member == nil {
		return ""
	}
	return a.member.Role
}

// isModerator MODERATOR、OWNER 或全局管理员
func (a *access) isModerator() bool {
	return a.isAdmin || (a.member != nil && a.member.Role.AtLeast(models.RoleModerator))
}

func (a *access) isOwner() bool {
	return a.member != nil && a.member.Role == models.RoleOwner
}

// visible 归档社区只对版主和管理员可见，其余人视为不存在
func (a *access) visible() error {
	if a.community.IsArchived && !a.isModerator() {
		return errorx.ErrNotFound
	}
	return nil
}

// canRead 读取社区内容：PRIVATE 需要成员身份
func (a *access) canRead() error {
	if err := a.visible(); err != nil {
		return err
	}
	if a.community.Type == models.CommunityPrivate && !a.isMember() && !a.isAdmin {
		return errorx.Newf(errorx.CodeForbidden, "私有社区仅成员可见")
	}
	return nil
}

// canParticipate 发帖、评论、投票：未归档、未被封禁，非 PUBLIC 社区需要成员身份
func (a *access) canParticipate() error {
	if a.userID == 0 {
		return errorx.ErrNeedLogin
	}
	if err := a.visible(); err != nil {
		return err
	}
	if a.community.IsArchived {
		return errorx.Newf(errorx.CodeForbidden, "社区已归档")
	}
	if a.ban != nil {
		return errorx.Newf(errorx.CodeForbidden, "你已被该社区封禁")
	}
	if a.community.Type != models.CommunityPublic && !a.isMember() {
		return errorx.Newf(errorx.CodeForbidden, "需要先加入社区")
	}
	return nil
}

func (a *access) requireModerator() error {
	if a.userID == 0 {
		return errorx.ErrNeedLogin
	}
	if !a.isModerator() {
		return errorx.Newf(errorx.CodeForbidden, "需要版主权限")
	}
	return nil
}

// resolveAccess 查询成员身份和生效中的封禁
func (s *Service) resolveAccess(ctx context.Context, c *models.Community, userID int64) (*access, error) {
	a := &access{userID: userID, community: c, isAdmin: s.admins.Contains(userID)}
	if userID == 0 {
		return a, nil
	}
	m, err := s.store.GetMember(ctx, c.ID, userID)
	if err != nil {
		zap.L().Error("store.GetMember failed",
			zap.Int64("community_id", c.ID), zap.Int64("user_id", userID), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	a.member = m
	if a.ban, err = s.activeBan(ctx, c.ID, userID); err != nil {
		return nil, err
	}
	return a, nil
}

// activeBan 返回生效中的封禁；过期的临时封禁顺手删除
func (s *Service) activeBan(ctx context.Context, communityID, userID int64) (*models.CommunityBan, error) {
	b, err := s.store.GetBan(ctx, communityID, userID)
	if err != nil {
		zap.L().Error("store.GetBan failed",
			zap.Int64("community_id", communityID), zap.Int64("user_id", userID), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if b == nil {
		return nil, nil
	}
	if b.InEffect(s.now()) {
		return b, nil
	}
	if _, err := s.store.DeleteBan(ctx, communityID, userID); err != nil {
		zap.L().Warn("delete expired ban failed",
			zap.Int64("community_id", communityID), zap.Int64("user_id", userID), zap.Error(err))
	}
	return nil, nil
}

// communityAccess 按 slug 取社区并解析权限，不存在返回 NotFound
func (s *Service) communityAccess(ctx context.Context, slug string, userID int64) (*access, error) {
	c, err := s.store.GetCommunityBySlug(ctx, slug)
	if err != nil {
		zap.L().Error("store.GetCommunityBySlug failed", zap.String("slug", slug), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if c == nil {
		return nil, errorx.ErrNotFound
	}
	return s.resolveAccess(ctx, c, userID)
}

func (s *Service) communityAccessByID(ctx context.Context, id int64, userID int64) (*access, error) {
	c, err := s.store.GetCommunityByID(ctx, id)
	if err != nil {
		zap.L().Error("store.GetCommunityByID failed", zap.Int64("community_id", id), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if c == nil {
		return nil, errorx.ErrNotFound
	}
	return s.resolveAccess(ctx, c, userID)
}

// serverBusy 记录系统错误并返回通用错误
func serverBusy(msg string, err error, fields ...zap.Field) error {
	zap.L().Error(msg, append(fields, zap.Error(err))...)
	return errorx.ErrServerBusy
}

// txError 事务里返回的业务错误原样透出，其余按系统错误处理
func txError(msg string, err error, fields ...zap.Field) error {
	var ce *errorx.CodeError
	if errors.As(err, &ce) {
		return ce
	}
	return serverBusy(msg, err, fields...)
}
