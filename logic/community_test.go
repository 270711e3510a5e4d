package logic

import (
	"errors"
	"testing"

	"forumcore/dao"
	"forumcore/models"
	"forumcore/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommunitySlugCollision(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user("alice"), f.user("bob")

	first := f.community(alice, "Night Owls", models.CommunityPublic)
	assert.Equal(t, "night-owls", first.Slug)
	assert.Equal(t, int64(1), first.MemberCount)

	second := f.community(bob, "Night  Owls!", models.CommunityPublic)
	assert.Equal(t, "night-owls-1", second.Slug)

	m, err := f.svc.GetMembership(f.ctx, alice, first.Slug)
	require.NoError(t, err)
	assert.True(t, m.IsMember)
	assert.Equal(t, models.RoleOwner, m.Role)
	assert.True(t, m.CanModerate)
}

func TestCreateCommunityRetriesOnInsertRace(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice")

	// 第一次插入时 slug 已被并发请求占用
	raced := false
	f.store.hooks["CreateCommunity"] = func() error {
		if !raced {
			raced = true
			return dao.ErrDuplicateKey
		}
		return nil
	}
	c := f.community(alice, "Night Owls", models.CommunityPublic)
	assert.Equal(t, "night-owls-1", c.Slug)
}

func TestCreateCommunityIsAtomic(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice")

	f.store.hooks["CreateMember"] = func() error { return errors.New("db down") }
	_, err := f.svc.CreateCommunity(f.ctx, alice, &models.ParamCreateCommunity{Name: "Night Owls"})
	assert.ErrorIs(t, err, errorx.ErrServerBusy)

	exists, err := f.store.SlugExists(f.ctx, "night-owls")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateCommunityValidation(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice")

	_, err := f.svc.CreateCommunity(f.ctx, 0, &models.ParamCreateCommunity{Name: "Gophers"})
	assert.ErrorIs(t, err, errorx.ErrNeedLogin)

	_, err = f.svc.CreateCommunity(f.ctx, alice, &models.ParamCreateCommunity{Name: " ab "})
	assert.ErrorIs(t, err, errorx.ErrInvalidParam)

	_, err = f.svc.CreateCommunity(f.ctx, alice, &models.ParamCreateCommunity{Name: "Gophers", Type: "SECRET"})
	assert.ErrorIs(t, err, errorx.ErrInvalidParam)

	c := f.community(alice, "???", models.CommunityPublic)
	assert.Equal(t, "community", c.Slug)

	c = f.community(alice, "读书会", models.CommunityPublic)
	assert.Equal(t, "读书会", c.Slug)
	got, err := f.svc.GetCommunity(f.ctx, "读书会", alice)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestArchivedCommunityIsHidden(t *testing.T) {
	f := newFixture(t)
	owner, mod, reader := f.user("owner"), f.user("mod"), f.user("reader")
	c := f.community(owner, "Night Owls", models.CommunityPublic)
	f.community(owner, "Early Birds", models.CommunityPublic)
	p := f.post(owner, c)

	_, err := f.svc.Join(f.ctx, mod, c.Slug)
	require.NoError(t, err)
	_, err = f.svc.ChangeRole(f.ctx, owner, c.Slug, mod, models.RoleModerator)
	require.NoError(t, err)

	// 版主不能归档
	err = f.svc.ArchiveCommunity(f.ctx, mod, c.Slug)
	assert.ErrorIs(t, err, errorx.ErrForbidden)

	require.NoError(t, f.svc.ArchiveCommunity(f.ctx, owner, c.Slug))
	require.NoError(t, f.svc.ArchiveCommunity(f.ctx, owner, c.Slug))
	assert.Len(t, f.store.modlogsOf(c.ID), 2, "CHANGE_ROLE and a single ARCHIVE")

	list, err := f.svc.ListCommunities(f.ctx, &models.ParamCommunityList{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "early-birds", list[0].Slug)

	_, err = f.svc.GetCommunity(f.ctx, c.Slug, reader)
	assert.ErrorIs(t, err, errorx.ErrNotFound)
	_, err = f.svc.GetCommunity(f.ctx, c.Slug, 0)
	assert.ErrorIs(t, err, errorx.ErrNotFound)

	// 版主仍然可以查看
	d, err := f.svc.GetCommunity(f.ctx, c.Slug, mod)
	require.NoError(t, err)
	assert.True(t, d.IsArchived)

	feed, err := f.svc.GetFeed(f.ctx, models.ScopeAll, reader, &models.ParamFeed{Sort: models.SortNew})
	require.NoError(t, err)
	assert.NotContains(t, postIDs(feed.Items), p.ID)

	_, err = f.svc.GetCommunityFeed(f.ctx, c.Slug, reader, &models.ParamFeed{})
	assert.ErrorIs(t, err, errorx.ErrNotFound)

	// 版主也不能再发帖
	_, err = f.svc.CreatePost(f.ctx, mod, &models.ParamCreatePost{CommunityID: c.ID, Title: "late", Content: "x"})
	assert.ErrorIs(t, err, errorx.ErrForbidden)

	res, err := f.svc.Search(f.ctx, reader, &models.ParamSearch{Query: "night", Kind: models.SearchCommunity})
	require.NoError(t, err)
	assert.Empty(t, res.Communities)
}

func TestUpdateCommunityWritesDiff(t *testing.T) {
	f := newFixture(t)
	owner, member := f.user("owner"), f.user("member")
	c := f.community(owner, "Night Owls", models.CommunityPublic)
	_, err := f.svc.Join(f.ctx, member, c.Slug)
	require.NoError(t, err)

	desc := "for people who stay up late"
	nsfw := true
	_, err = f.svc.UpdateCommunity(f.ctx, member, c.Slug, &models.ParamUpdateCommunity{Description: &desc})
	assert.ErrorIs(t, err, errorx.ErrForbidden)

	name := "Night Owls Club"
	updated, err := f.svc.UpdateCommunity(f.ctx, owner, c.Slug, &models.ParamUpdateCommunity{
		Name:        &name,
		Description: &desc,
		IsNSFW:      &nsfw,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "night-owls", updated.Slug)
	assert.True(t, updated.IsNSFW)
	assert.Equal(t, int64(2), f.store.community(c.ID).MemberCount)

	logs := f.store.modlogsOf(c.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionEditSettings, logs[0].Action)
	assert.Equal(t, change{From: "Night Owls", To: name}, logs[0].Metadata["name"])
	assert.Equal(t, change{From: false, To: true}, logs[0].Metadata["is_nsfw"])
	assert.NotContains(t, logs[0].Metadata, "sidebar")

	// 没有变化时不写日志
	_, err = f.svc.UpdateCommunity(f.ctx, owner, c.Slug, &models.ParamUpdateCommunity{Name: &name})
	require.NoError(t, err)
	assert.Len(t, f.store.modlogsOf(c.ID), 1)
}

func TestRulesAndFlairs(t *testing.T) {
	f := newFixture(t)
	owner, member := f.user("owner"), f.user("member")
	c := f.community(owner, "Gophers", models.CommunityPublic)
	other := f.community(owner, "Rustaceans", models.CommunityPublic)

	r2, err := f.svc.CreateRule(f.ctx, owner, c.Slug, &models.ParamRule{Title: "No spam", SortOrder: 2})
	require.NoError(t, err)
	r1, err := f.svc.CreateRule(f.ctx, owner, c.Slug, &models.ParamRule{Title: "Be kind", SortOrder: 1})
	require.NoError(t, err)

	rules, err := f.svc.ListRules(f.ctx, c.Slug, 0)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, r1.ID, rules[0].ID)
	assert.Equal(t, r2.ID, rules[1].ID)

	_, err = f.svc.CreateRule(f.ctx, member, c.Slug, &models.ParamRule{Title: "mine"})
	assert.ErrorIs(t, err, errorx.ErrForbidden)

	// 规则 ID 和社区不匹配
	_, err = f.svc.UpdateRule(f.ctx, owner, other.Slug, r1.ID, &models.ParamRule{Title: "x"})
	assert.ErrorIs(t, err, errorx.ErrNotFound)

	r1, err = f.svc.UpdateRule(f.ctx, owner, c.Slug, r1.ID, &models.ParamRule{Title: "Be very kind", SortOrder: 3})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteRule(f.ctx, owner, c.Slug, r2.ID))
	rules, err = f.svc.ListRules(f.ctx, c.Slug, 0)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "Be very kind", rules[0].Title)

	fl, err := f.svc.CreateFlair(f.ctx, owner, c.Slug, &models.ParamFlair{Text: "Question", Color: "#00f"})
	require.NoError(t, err)
	_, err = f.svc.UpdateFlair(f.ctx, owner, c.Slug, fl.ID, &models.ParamFlair{Text: " "})
	assert.ErrorIs(t, err, errorx.ErrInvalidParam)
	flairs, err := f.svc.ListFlairs(f.ctx, c.Slug, member)
	require.NoError(t, err)
	require.Len(t, flairs, 1)
	require.NoError(t, f.svc.DeleteFlair(f.ctx, owner, c.Slug, fl.ID))

	var actions []models.ModAction
	for _, l := range f.store.modlogsOf(c.ID) {
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []models.ModAction{
		models.ActionEditRules, models.ActionEditRules, models.ActionEditRules, models.ActionEditRules,
		models.ActionEditFlairs, models.ActionEditFlairs,
	}, actions)
}

func TestListCommunitiesSortAndFilter(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	a := f.community(owner, "Alpha", models.CommunityPublic)
	b := f.community(owner, "Bravo", models.CommunityRestricted)
	f.community(owner, "Secret Garden", models.CommunityPrivate)

	for _, name := range []string{"u1", "u2"} {
		_, err := f.svc.Join(f.ctx, f.user(name), b.Slug)
		require.NoError(t, err)
	}

	list, err := f.svc.ListCommunities(f.ctx, &models.ParamCommunityList{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)

	list, err = f.svc.ListCommunities(f.ctx, &models.ParamCommunityList{Sort: models.CommunitySortName})
	require.NoError(t, err)
	assert.Equal(t, a.ID, list[0].ID)

	list, err = f.svc.ListCommunities(f.ctx, &models.ParamCommunityList{Type: models.CommunityRestricted})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	list, err = f.svc.ListCommunities(f.ctx, &models.ParamCommunityList{Size: 1, Page: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
}
