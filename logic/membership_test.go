package logic

import (
	"testing"
	"time"

	"forumcore/dao"
	"forumcore/models"
	"forumcore/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestJoinAndLeave(t *testing.T) {
	f := newFixture(t)
	owner, u := f.user("owner"), f.user("u")
	c := f.community(owner, "Gophers", models.CommunityRestricted)

	m, err := f.svc.Join(f.ctx, u, c.Slug)
	require.NoError(t, err)
	assert.True(t, m.IsMember)
	assert.Equal(t, models.RoleMember, m.Role)

	// 重复加入不重复计数
	_, err = f.svc.Join(f.ctx, u, c.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.store.community(c.ID).MemberCount)

	require.NoError(t, f.svc.Leave(f.ctx, u, c.Slug))
	require.NoError(t, f.svc.Leave(f.ctx, u, c.Slug))
	assert.Equal(t, int64(1), f.store.community(c.ID).MemberCount)

	err = f.svc.Leave(f.ctx, owner, c.Slug)
	assert.ErrorIs(t, err, errorx.ErrForbidden)

	_, err = f.svc.Join(f.ctx, 0, c.Slug)
	assert.ErrorIs(t, err, errorx.ErrNeedLogin)
	_, err = f.svc.Join(f.ctx, u, "no-such-place")
	assert.ErrorIs(t, err, errorx.ErrNotFound)
}

func TestPrivateCommunity(t *testing.T) {
	f := newFixture(t)
	owner, outsider, admin := f.user("owner"), f.user("outsider"), f.user("admin")
	f.svc = New(f.store, WithClock(f.clock.Now), WithAdmins(NewAdminList([]int64{admin})))
	c := f.community(owner, "Secret Garden", models.CommunityPrivate)
	p := f.post(owner, c)

	_, err := f.svc.Join(f.ctx, outsider, c.Slug)
	assert.ErrorIs(t, err, errorx.ErrForbidden)

	// 元数据可见，内容不可见
	d, err := f.svc.GetCommunity(f.ctx, c.Slug, outsider)
	require.NoError(t, err)
	assert.False(t, d.Viewer.IsMember)

	_, err = f.svc.GetCommunityFeed(f.ctx, c.Slug, outsider, &models.ParamFeed{})
	assert.ErrorIs(t, err, errorx.ErrForbidden)
	_, err = f.svc.GetPost(f.ctx, p.ID, outsider)
	assert.ErrorIs(t, err, errorx.ErrForbidden)
	_, err = f.svc.ListMembers(f.ctx, c.Slug, outsider, &models.ParamMemberList{})
	assert.ErrorIs(t, err, errorx.ErrForbidden)
	_, err = f.svc.CreatePost(f.ctx, outsider, &models.ParamCreatePost{CommunityID: c.ID, Title: "hi"})
	assert.ErrorIs(t, err, errorx.ErrForbidden)

	feed, err := f.svc.GetCommunityFeed(f.ctx, c.Slug, admin, &models.ParamFeed{})
	require.NoError(t, err)
	assert.Equal(t, []int64{p.ID}, postIDs(feed.Items))

	all, err := f.svc.GetFeed(f.ctx, models.ScopeAll, owner, &models.ParamFeed{})
	require.NoError(t, err)
	assert.Empty(t, all.Items)
	home, err := f.svc.GetFeed(f.ctx, models.ScopeHome, owner, &models.ParamFeed{})
	require.NoError(t, err)
	assert.Equal(t, []int64{p.ID}, postIDs(home.Items))
	f.svc.Wait()
}

func TestChangeRole(t *testing.T) {
	n := new(mockNotifier)
	f := newFixture(t, WithNotifier(n))
	owner, alice, bob := f.user("owner"), f.user("alice"), f.user("bob")
	c := f.community(owner, "Gophers", models.CommunityPublic)
	for _, u := range []int64{alice, bob} {
		_, err := f.svc.Join(f.ctx, u, c.Slug)
		require.NoError(t, err)
	}
	n.On("Notify", alice, notifyRoleChange, mock.Anything, mock.Anything).Return(nil).Once()

	m, err := f.svc.ChangeRole(f.ctx, owner, c.Slug, alice, models.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, m.Role)

	// 版主不能调整角色
	_, err = f.svc.ChangeRole(f.ctx, alice, c.Slug, bob, models.RoleModerator)
	assert.ErrorIs(t, err, errorx.ErrForbidden)
	_, err = f.svc.ChangeRole(f.ctx, owner, c.Slug, owner, models.RoleMember)
	assert.ErrorIs(t, err, errorx.ErrInvalidParam)
	_, err = f.svc.ChangeRole(f.ctx, owner, c.Slug, bob, models.RoleOwner)
	assert.ErrorIs(t, err, errorx.ErrInvalidParam)
	_, err = f.svc.ChangeRole(f.ctx, owner, c.Slug, f.user("stranger"), models.RoleModerator)
	assert.ErrorIs(t, err, errorx.ErrNotFound)

	// 角色不变时不写日志也不通知
	_, err = f.svc.ChangeRole(f.ctx, owner, c.Slug, alice, models.RoleModerator)
	require.NoError(t, err)

	f.svc.Wait()
	n.AssertExpectations(t)
	logs := f.store.modlogsOf(c.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionChangeRole, logs[0].Action)
	assert.Equal(t, alice, *logs[0].TargetUserID)
	assert.Equal(t, models.RoleMember, logs[0].Metadata["from"])
	assert.Equal(t, models.RoleModerator, logs[0].Metadata["to"])

	members, err := f.svc.ListMembers(f.ctx, c.Slug, 0, &models.ParamMemberList{})
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, models.RoleOwner, members[0].Role)
	assert.Equal(t, "owner", members[0].Username)
	assert.Equal(t, models.RoleModerator, members[1].Role)
	assert.Equal(t, "alice", members[1].Username)
}

func TestRemoveMember(t *testing.T) {
	f := newFixture(t)
	owner, mod, u := f.user("owner"), f.user("mod"), f.user("u")
	c := f.community(owner, "Gophers", models.CommunityPublic)
	for _, id := range []int64{mod, u} {
		_, err := f.svc.Join(f.ctx, id, c.Slug)
		require.NoError(t, err)
	}
	_, err := f.svc.ChangeRole(f.ctx, owner, c.Slug, mod, models.RoleModerator)
	require.NoError(t, err)

	err = f.svc.RemoveMember(f.ctx, mod, c.Slug, owner)
	assert.ErrorIs(t, err, errorx.ErrForbidden)
	err = f.svc.RemoveMember(f.ctx, u, c.Slug, mod)
	assert.ErrorIs(t, err, errorx.ErrForbidden)

	require.NoError(t, f.svc.RemoveMember(f.ctx, mod, c.Slug, u))
	assert.Equal(t, int64(2), f.store.community(c.ID).MemberCount)
	err = f.svc.RemoveMember(f.ctx, mod, c.Slug, u)
	assert.ErrorIs(t, err, errorx.ErrNotFound)

	logs := f.store.modlogsOf(c.ID)
	assert.Equal(t, models.ActionRemoveMember, logs[len(logs)-1].Action)
}

func TestBanRemovesMembershipAndExpires(t *testing.T) {
	f := newFixture(t)
	owner, u := f.user("owner"), f.user("u")
	c := f.community(owner, "Gophers", models.CommunityPublic)
	_, err := f.svc.Join(f.ctx, u, c.Slug)
	require.NoError(t, err)

	expires := f.clock.Now().Add(time.Hour)
	b, err := f.svc.Ban(f.ctx, owner, c.Slug, &models.ParamBan{UserID: u, Status: models.BanTemporary, ExpiresAt: &expires, Reason: " spam "})
	require.NoError(t, err)
	assert.Equal(t, "spam", b.Reason)
	assert.Equal(t, int64(1), f.store.community(c.ID).MemberCount)

	m, err := f.svc.GetMembership(f.ctx, u, c.Slug)
	require.NoError(t, err)
	assert.False(t, m.IsMember)
	assert.True(t, m.IsBanned)

	_, err = f.svc.Join(f.ctx, u, c.Slug)
	assert.ErrorIs(t, err, errorx.ErrForbidden)
	_, err = f.svc.CreatePost(f.ctx, u, &models.ParamCreatePost{CommunityID: c.ID, Title: "hi"})
	assert.ErrorIs(t, err, errorx.ErrForbidden)

	// 过期后自动失效，记录被惰性删除
	f.clock.Advance(2 * time.Hour)
	_, err = f.svc.CreatePost(f.ctx, u, &models.ParamCreatePost{CommunityID: c.ID, Title: "back"})
	require.NoError(t, err)
	left, err := f.store.GetBan(f.ctx, c.ID, u)
	require.NoError(t, err)
	assert.Nil(t, left)

	logs := f.store.modlogsOf(c.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionBan, logs[0].Action)
	assert.Equal(t, "spam", logs[0].Reason)
}

func TestBanValidation(t *testing.T) {
	f := newFixture(t)
	owner, mod, u := f.user("owner"), f.user("mod"), f.user("u")
	c := f.community(owner, "Gophers", models.CommunityPublic)
	_, err := f.svc.Join(f.ctx, mod, c.Slug)
	require.NoError(t, err)
	_, err = f.svc.ChangeRole(f.ctx, owner, c.Slug, mod, models.RoleModerator)
	require.NoError(t, err)

	past := f.clock.Now().Add(-time.Minute)
	cases := []struct {
		name  string
		actor int64
		p     models.ParamBan
		want  error
	}{
		{"self", mod, models.ParamBan{UserID: mod, Status: models.BanPermanent}, errorx.ErrInvalidParam},
		{"temporary without expiry", mod, models.ParamBan{UserID: u, Status: models.BanTemporary}, errorx.ErrInvalidParam},
		{"temporary in the past", mod, models.ParamBan{UserID: u, Status: models.BanTemporary, ExpiresAt: &past}, errorx.ErrInvalidParam},
		{"owner", mod, models.ParamBan{UserID: owner, Status: models.BanPermanent}, errorx.ErrForbidden},
		{"not a moderator", u, models.ParamBan{UserID: mod, Status: models.BanPermanent}, errorx.ErrForbidden},
		{"unknown user", mod, models.ParamBan{UserID: 12345, Status: models.BanPermanent}, errorx.ErrUserNotExist},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Ban(f.ctx, tc.actor, c.Slug, &tc.p)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// 永久封禁忽略过期时间；解封后需要重新加入
	future := f.clock.Now().Add(time.Hour)
	b, err := f.svc.Ban(f.ctx, mod, c.Slug, &models.ParamBan{UserID: u, Status: models.BanPermanent, ExpiresAt: &future})
	require.NoError(t, err)
	assert.Nil(t, b.ExpiresAt)

	require.NoError(t, f.svc.Unban(f.ctx, mod, c.Slug, u))
	err = f.svc.Unban(f.ctx, mod, c.Slug, u)
	assert.ErrorIs(t, err, errorx.ErrNotFound)

	m, err := f.svc.Join(f.ctx, u, c.Slug)
	require.NoError(t, err)
	assert.True(t, m.IsMember)
}

func TestJoinRaceReturnsStoredMembership(t *testing.T) {
	f := newFixture(t)
	owner, u := f.user("owner"), f.user("u")
	c := f.community(owner, "Gophers", models.CommunityPublic)

	// 另一个请求先提交了成员记录
	f.store.hooks["CreateMember"] = func() error { return dao.ErrDuplicateKey }
	f.store.hooks["Rollback"] = func() error {
		f.store.d.members[pair{c.ID, u}] = models.CommunityMember{
			ID: 4242, CommunityID: c.ID, UserID: u, Role: models.RoleModerator, JoinedAt: f.clock.Now().Add(-time.Hour),
		}
		return nil
	}
	m, err := f.svc.Join(f.ctx, u, c.Slug)
	require.NoError(t, err)
	assert.True(t, m.IsMember)
	assert.Equal(t, models.RoleModerator, m.Role)
	assert.True(t, m.CanModerate)
	assert.Equal(t, int64(4242), f.store.d.members[pair{c.ID, u}].ID)
	// 失败的事务不计数
	assert.Equal(t, int64(1), f.store.community(c.ID).MemberCount)
}
