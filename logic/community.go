package logic

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"forumcore/dao"
	"forumcore/models"
	"forumcore/pkg/errorx"
	"forumcore/pkg/metrics"
	"forumcore/pkg/slug"
	"forumcore/pkg/snowflake"

	"go.uber.org/zap"
)

const (
	minCommunityName = 3
	maxCommunityName = 100
	maxSlugAttempts  = 100

	defaultPageSize = 20
	maxPageSize     = 100
)

func validCommunityName(name string) error {
	if n := utf8.RuneCountInString(name); n < minCommunityName || n > maxCommunityName {
		return errorx.Newf(errorx.CodeInvalidParam, "社区名称长度需在 %d 到 %d 个字符之间", minCommunityName, maxCommunityName)
	}
	return nil
}

// CreateCommunity 创建社区，创建者成为 OWNER
// slug 冲突时依次尝试 -1、-2 ... 后缀
func (s *Service) CreateCommunity(ctx context.Context, userID int64, p *models.ParamCreateCommunity) (*models.Community, error) {
	ctx, span := tracer.Start(ctx, "logic.CreateCommunity")
	defer span.End()

	if userID == 0 {
		return nil, errorx.ErrNeedLogin
	}
	name := strings.TrimSpace(p.Name)
	if err := validCommunityName(name); err != nil {
		return nil, err
	}
	typ := p.Type
	if typ == "" {
		typ = models.CommunityPublic
	}
	if !typ.Valid() {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的社区类型 %q", typ)
	}

	base := slug.Make(name)
	for n := 0; n < maxSlugAttempts; n++ {
		candidate := slug.WithSuffix(base, n)
		exists, err := s.store.SlugExists(ctx, candidate)
		if err != nil {
			return nil, serverBusy("store.SlugExists failed", err, zap.String("slug", candidate))
		}
		if exists {
			continue
		}

		now := s.now()
		c := &models.Community{
			ID:          snowflake.GenID(),
			Slug:        candidate,
			Name:        name,
			Description: strings.TrimSpace(p.Description),
			Type:        typ,
			IsNSFW:      p.IsNSFW,
			Icon:        p.Icon,
			Banner:      p.Banner,
			MemberCount: 1,
			CreatorID:   userID,
			CreateTime:  now,
			UpdateTime:  now,
		}
		owner := &models.CommunityMember{
			ID:          snowflake.GenID(),
			CommunityID: c.ID,
			UserID:      userID,
			Role:        models.RoleOwner,
			JoinedAt:    now,
		}
		err = s.store.Transaction(ctx, func(tx Store) error {
			if err := tx.CreateCommunity(ctx, c); err != nil {
				return err
			}
			return tx.CreateMember(ctx, owner)
		})
		if errors.Is(err, dao.ErrDuplicateKey) {
			// 检查和插入之间被别人抢先，换下一个后缀
			continue
		}
		if err != nil {
			return nil, serverBusy("create community failed", err, zap.String("slug", candidate), zap.Int64("user_id", userID))
		}

		metrics.ContentCreated.WithLabelValues("community").Inc()
		s.award(userID, EventCommunityCreated, communityCreatedPoints, map[string]any{"community_id": c.ID})
		s.indexCommunity(c)
		return c, nil
	}
	return nil, errorx.Newf(errorx.CodeConflict, "无法为 %q 生成唯一的 slug", name)
}

// GetCommunity 社区详情；归档社区对非版主返回 NotFound
// 私有社区的元数据对所有人可见，内容只对成员可见
func (s *Service) GetCommunity(ctx context.Context, slugStr string, userID int64) (*models.ApiCommunityDetail, error) {
	a, err := s.communityAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	if err := a.visible(); err != nil {
		return nil, err
	}
	data := &models.ApiCommunityDetail{Community: a.community}
	if userID != 0 {
		data.Viewer = membershipOf(a)
	}
	return data, nil
}

func membershipOf(a *access) *models.Membership {
	return &models.Membership{
		IsMember:    a.isMember(),
		Role:        a.role(),
		IsBanned:    a.ban != nil,
		Ban:         a.ban,
		IsAdmin:     a.isAdmin,
		CanModerate: a.isModerator(),
	}
}

// ListCommunities 社区目录，不含归档和私有社区
func (s *Service) ListCommunities(ctx context.Context, p *models.ParamCommunityList) ([]*models.Community, error) {
	sort := p.Sort
	if sort == "" {
		sort = models.CommunitySortPopular
	}
	size := clampLimit(int(p.Size), defaultPageSize, maxPageSize)
	page := int(p.Page)
	if page < 1 {
		page = 1
	}
	list, err := s.store.ListCommunities(ctx, CommunityQuery{
		Query:  strings.TrimSpace(p.Query),
		Type:   p.Type,
		Sort:   sort,
		Offset: (page - 1) * size,
		Limit:  size,
	})
	if err != nil {
		return nil, serverBusy("store.ListCommunities failed", err)
	}
	if list == nil {
		list = make([]*models.Community, 0)
	}
	return list, nil
}

// moderatorAccess 版主操作的统一入口：社区可见且调用者是版主以上
func (s *Service) moderatorAccess(ctx context.Context, slugStr string, userID int64) (*access, error) {
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
	if err := a.requireModerator(); err != nil {
		return nil, err
	}
	return a, nil
}

type change struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// UpdateCommunity 修改社区设置，diff 写入 EDIT_SETTINGS 日志；slug 不随名称变化
func (s *Service) UpdateCommunity(ctx context.Context, userID int64, slugStr string, p *models.ParamUpdateCommunity) (*models.Community, error) {
	ctx, span := tracer.Start(ctx, "logic.UpdateCommunity")
	defer span.End()

	a, err := s.moderatorAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	c := *a.community
	diff := make(map[string]any)

	setString := func(field string, dst *string, v *string) {
		if v == nil || *v == *dst {
			return
		}
		diff[field] = change{From: *dst, To: *v}
		*dst = *v
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if err := validCommunityName(name); err != nil {
			return nil, err
		}
		setString("name", &c.Name, &name)
	}
	setString("description", &c.Description, p.Description)
	setString("sidebar", &c.Sidebar, p.Sidebar)
	setString("icon", &c.Icon, p.Icon)
	setString("banner", &c.Banner, p.Banner)
	setString("color", &c.Color, p.Color)
	if p.Type != nil && *p.Type != c.Type {
		if !p.Type.Valid() {
			return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的社区类型 %q", *p.Type)
		}
		diff["type"] = change{From: c.Type, To: *p.Type}
		c.Type = *p.Type
	}
	if p.IsNSFW != nil && *p.IsNSFW != c.IsNSFW {
		diff["is_nsfw"] = change{From: c.IsNSFW, To: *p.IsNSFW}
		c.IsNSFW = *p.IsNSFW
	}
	if len(diff) == 0 {
		return a.community, nil
	}
	c.UpdateTime = s.now()

	l := s.newModLog(c.ID, userID, models.ActionEditSettings)
	l.Metadata = diff
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.SaveCommunitySettings(ctx, &c); err != nil {
			return err
		}
		return writeModLog(ctx, tx, l)
	})
	if err != nil {
		return nil, serverBusy("update community failed", err, zap.Int64("community_id", c.ID))
	}
	s.indexCommunity(&c)
	return &c, nil
}

// ArchiveCommunity 软隐藏社区，只有 OWNER 或全局管理员可以操作，重复归档不报错
func (s *Service) ArchiveCommunity(ctx context.Context, userID int64, slugStr string) error {
	if userID == 0 {
		return errorx.ErrNeedLogin
	}
	a, err := s.communityAccess(ctx, slugStr, userID)
	if err != nil {
		return err
	}
	if !a.isOwner() && !a.isAdmin {
		if err := a.visible(); err != nil {
			return err
		}
		return errorx.Newf(errorx.CodeForbidden, "只有社区所有者可以归档社区")
	}
	if a.community.IsArchived {
		return nil
	}

	c := a.community
	err = s.store.Transaction(ctx, func(tx Store) error {
		ok, err := tx.ArchiveCommunity(ctx, c.ID)
		if err != nil || !ok {
			return err
		}
		return writeModLog(ctx, tx, s.newModLog(c.ID, userID, models.ActionArchive))
	})
	if err != nil {
		return serverBusy("archive community failed", err, zap.Int64("community_id", c.ID))
	}
	s.unindex(models.SearchCommunity, c.ID)
	return nil
}

// ListRules 社区规则，按 sort_order 排序
func (s *Service) ListRules(ctx context.Context, slugStr string, userID int64) ([]*models.CommunityRule, error) {
	a, err := s.communityAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	if err := a.visible(); err != nil {
		return nil, err
	}
	rules, err := s.store.ListRules(ctx, a.community.ID)
	if err != nil {
		return nil, serverBusy("store.ListRules failed", err, zap.Int64("community_id", a.community.ID))
	}
	if rules == nil {
		rules = make([]*models.CommunityRule, 0)
	}
	return rules, nil
}

func (s *Service) CreateRule(ctx context.Context, userID int64, slugStr string, p *models.ParamRule) (*models.CommunityRule, error) {
	a, err := s.moderatorAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "规则标题不能为空")
	}
	r := &models.CommunityRule{
		ID:          snowflake.GenID(),
		CommunityID: a.community.ID,
		Title:       title,
		Description: p.Description,
		SortOrder:   p.SortOrder,
		CreateTime:  s.now(),
	}
	l := s.newModLog(r.CommunityID, userID, models.ActionEditRules)
	l.Metadata = map[string]any{"op": "create", "rule_id": r.ID, "title": r.Title}
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.CreateRule(ctx, r); err != nil {
			return err
		}
		return writeModLog(ctx, tx, l)
	})
	if err != nil {
		return nil, serverBusy("create rule failed", err, zap.Int64("community_id", r.CommunityID))
	}
	return r, nil
}

// ruleOf 取规则并确认它属于该社区
func (s *Service) ruleOf(ctx context.Context, communityID, ruleID int64) (*models.CommunityRule, error) {
	r, err := s.store.GetRule(ctx, ruleID)
	if err != nil {
		return nil, serverBusy("store.GetRule failed", err, zap.Int64("rule_id", ruleID))
	}
	if r == nil || r.CommunityID != communityID {
		return nil, errorx.ErrNotFound
	}
	return r, nil
}

func (s *Service) UpdateRule(ctx context.Context, userID int64, slugStr string, ruleID int64, p *models.ParamRule) (*models.CommunityRule, error) {
	a, err := s.moderatorAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	r, err := s.ruleOf(ctx, a.community.ID, ruleID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "规则标题不能为空")
	}
	r.Title, r.Description, r.SortOrder = title, p.Description, p.SortOrder

	l := s.newModLog(r.CommunityID, userID, models.ActionEditRules)
	l.Metadata = map[string]any{"op": "update", "rule_id": r.ID, "title": r.Title}
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.SaveRule(ctx, r); err != nil {
			return err
		}
		return writeModLog(ctx, tx, l)
	})
	if err != nil {
		return nil, serverBusy("update rule failed", err, zap.Int64("rule_id", r.ID))
	}
	return r, nil
}

func (s *Service) DeleteRule(ctx context.Context, userID int64, slugStr string, ruleID int64) error {
	a, err := s.moderatorAccess(ctx, slugStr, userID)
	if err != nil {
		return err
	}
	r, err := s.ruleOf(ctx, a.community.ID, ruleID)
	if err != nil {
		return err
	}
	l := s.newModLog(r.CommunityID, userID, models.ActionEditRules)
	l.Metadata = map[string]any{"op": "delete", "rule_id": r.ID, "title": r.Title}
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.DeleteRule(ctx, r.ID); err != nil {
			return err
		}
		return writeModLog(ctx, tx, l)
	})
	if err != nil {
		return serverBusy("delete rule failed", err, zap.Int64("rule_id", r.ID))
	}
	return nil
}

func (s *Service) ListFlairs(ctx context.Context, slugStr string, userID int64) ([]*models.CommunityFlair, error) {
	a, err := s.communityAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	if err := a.visible(); err != nil {
		return nil, err
	}
	flairs, err := s.store.ListFlairs(ctx, a.community.ID)
	if err != nil {
		return nil, serverBusy("store.ListFlairs failed", err, zap.Int64("community_id", a.community.ID))
	}
	if flairs == nil {
		flairs = make([]*models.CommunityFlair, 0)
	}
	return flairs, nil
}

func (s *Service) CreateFlair(ctx context.Context, userID int64, slugStr string, p *models.ParamFlair) (*models.CommunityFlair, error) {
	a, err := s.moderatorAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "标签文字不能为空")
	}
	f := &models.CommunityFlair{
		ID:          snowflake.GenID(),
		CommunityID: a.community.ID,
		Text:        text,
		Color:       p.Color,
		SortOrder:   p.SortOrder,
		CreateTime:  s.now(),
	}
	l := s.newModLog(f.CommunityID, userID, models.ActionEditFlairs)
	l.Metadata = map[string]any{"op": "create", "flair_id": f.ID, "text": f.Text}
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.CreateFlair(ctx, f); err != nil {
			return err
		}
		return writeModLog(ctx, tx, l)
	})
	if err != nil {
		return nil, serverBusy("create flair failed", err, zap.Int64("community_id", f.CommunityID))
	}
	return f, nil
}

func (s *Service) flairOf(ctx context.Context, communityID, flairID int64) (*models.CommunityFlair, error) {
	f, err := s.store.GetFlair(ctx, flairID)
	if err != nil {
		return nil, serverBusy("store.GetFlair failed", err, zap.Int64("flair_id", flairID))
	}
	if f == nil || f.CommunityID != communityID {
		return nil, errorx.ErrNotFound
	}
	return f, nil
}

func (s *Service) UpdateFlair(ctx context.Context, userID int64, slugStr string, flairID int64, p *models.ParamFlair) (*models.CommunityFlair, error) {
	a, err := s.moderatorAccess(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	f, err := s.flairOf(ctx, a.community.ID, flairID)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "标签文字不能为空")
	}
	f.Text, f.Color, f.SortOrder = text, p.Color, p.SortOrder

	l := s.newModLog(f.CommunityID, userID, models.ActionEditFlairs)
	l.Metadata = map[string]any{"op": "update", "flair_id": f.ID, "text": f.Text}
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.SaveFlair(ctx, f); err != nil {
			return err
		}
		return writeModLog(ctx, tx, l)
	})
	if err != nil {
		return nil, serverBusy("update flair failed", err, zap.Int64("flair_id", f.ID))
	}
	return f, nil
}

func (s *Service) DeleteFlair(ctx context.Context, userID int64, slugStr string, flairID int64) error {
	a, err := s.moderatorAccess(ctx, slugStr, userID)
	if err != nil {
		return err
	}
	f, err := s.flairOf(ctx, a.community.ID, flairID)
	if err != nil {
		return err
	}
	l := s.newModLog(f.CommunityID, userID, models.ActionEditFlairs)
	l.Metadata = map[string]any{"op": "delete", "flair_id": f.ID, "text": f.Text}
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.DeleteFlair(ctx, f.ID); err != nil {
			return err
		}
		return writeModLog(ctx, tx, l)
	})
	if err != nil {
		return serverBusy("delete flair failed", err, zap.Int64("flair_id", f.ID))
	}
	return nil
}
