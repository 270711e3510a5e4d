package logic

import (
	"errors"
	"testing"

	"forumcore/models"
	"forumcore/pkg/errorx"
	"forumcore/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSignUpAndLogin(t *testing.T) {
	tokens := new(mockTokens)
	f := newFixture(t, WithTokenStore(tokens))

	u, err := f.svc.SignUp(f.ctx, &models.ParamSignUp{Username: " alice ", Password: "hunter22", RePassword: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "hunter22", u.Password)

	_, err = f.svc.SignUp(f.ctx, &models.ParamSignUp{Username: "alice", Password: "another1", RePassword: "another1"})
	assert.ErrorIs(t, err, errorx.ErrUserExist)
	_, err = f.svc.SignUp(f.ctx, &models.ParamSignUp{Username: "bob", Password: "hunter22", RePassword: "hunter23"})
	assert.ErrorIs(t, err, errorx.ErrInvalidParam)

	_, _, _, err = f.svc.Login(f.ctx, &models.ParamLogin{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, errorx.ErrInvalidPassword)
	_, _, _, err = f.svc.Login(f.ctx, &models.ParamLogin{Username: "nobody", Password: "hunter22"})
	assert.ErrorIs(t, err, errorx.ErrUserNotExist)

	tokens.On("SetUserToken", u.UserID).Return(nil).Twice()
	got, aToken, rToken, err := f.svc.Login(f.ctx, &models.ParamLogin{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, u.UserID, got.UserID)

	claims, err := jwt.ParseToken(aToken)
	require.NoError(t, err)
	assert.Equal(t, u.UserID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	a2, r2, err := f.svc.RefreshToken(f.ctx, rToken)
	require.NoError(t, err)
	assert.NotEmpty(t, a2)
	assert.NotEmpty(t, r2)
	tokens.AssertExpectations(t)

	_, _, err = f.svc.RefreshToken(f.ctx, "garbage")
	assert.ErrorIs(t, err, errorx.ErrInvalidToken)
}

func TestLoginFailsWhenTokenStoreDown(t *testing.T) {
	tokens := new(mockTokens)
	tokens.On("SetUserToken", mock.Anything).Return(errors.New("redis down"))
	f := newFixture(t, WithTokenStore(tokens))

	_, err := f.svc.SignUp(f.ctx, &models.ParamSignUp{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)
	_, _, _, err = f.svc.Login(f.ctx, &models.ParamLogin{Username: "alice", Password: "hunter22"})
	assert.ErrorIs(t, err, errorx.ErrServerBusy)
}

func TestUserProfileTracksKarma(t *testing.T) {
	f := newFixture(t)
	owner, author, voter := f.user("owner"), f.user("author"), f.user("voter")
	c := f.community(owner, "Gophers", models.CommunityPublic)
	f.vote(voter, models.TargetPost, f.post(author, c).ID, models.VoteUp)
	f.vote(voter, models.TargetComment, f.comment(author, f.post(owner, c), nil).ID, models.VoteUp)

	p, err := f.svc.GetUserProfile(f.ctx, author)
	require.NoError(t, err)
	assert.Equal(t, "author", p.Username)
	assert.Equal(t, int64(2), p.Karma)

	_, err = f.svc.GetUserProfile(f.ctx, 1)
	assert.ErrorIs(t, err, errorx.ErrUserNotExist)
}

func TestAdminList(t *testing.T) {
	admins := NewAdminList([]int64{7, 9})
	assert.True(t, admins.Contains(7))
	assert.False(t, admins.Contains(8))
	assert.False(t, admins.Contains(0))

	f := newFixture(t, WithAdmins(admins))
	assert.True(t, f.svc.IsAdmin(9))
	assert.False(t, f.svc.IsAdmin(1))
}

func TestAdminModeratesAnyCommunity(t *testing.T) {
	f := newFixture(t)
	owner, author, admin := f.user("owner"), f.user("author"), f.user("admin")
	f.svc = New(f.store, WithClock(f.clock.Now), WithAdmins(NewAdminList([]int64{admin})))
	t.Cleanup(f.svc.Wait)
	c := f.community(owner, "Gophers", models.CommunityPublic)
	p := f.post(author, c)

	require.NoError(t, f.svc.RemovePost(f.ctx, admin, p.ID, "site rule"))
	require.NoError(t, f.svc.ArchiveCommunity(f.ctx, admin, c.Slug))

	d, err := f.svc.GetCommunity(f.ctx, c.Slug, admin)
	require.NoError(t, err)
	assert.True(t, d.Viewer.IsAdmin)
	assert.True(t, d.Viewer.CanModerate)
	assert.False(t, d.Viewer.IsMember)
}
