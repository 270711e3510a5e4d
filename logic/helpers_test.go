package logic

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"forumcore/models"
	"forumcore/pkg/snowflake"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, userID int64, typ, title, message string) error {
	return m.Called(userID, typ, title, message).Error(0)
}

type mockReputation struct{ mock.Mock }

func (m *mockReputation) AwardEvent(ctx context.Context, userID int64, eventType string, points int64, metadata map[string]any) error {
	return m.Called(userID, eventType, points, metadata).Error(0)
}

type mockViews struct{ mock.Mock }

func (m *mockViews) Incr(ctx context.Context, postID int64) error {
	return m.Called(postID).Error(0)
}

type mockTriager struct{ mock.Mock }

func (m *mockTriager) Triage(ctx context.Context, reason, content string) (string, string, error) {
	args := m.Called(reason, content)
	return args.String(0), args.String(1), args.Error(2)
}

type mockSearcher struct{ mock.Mock }

func (m *mockSearcher) Index(ctx context.Context, doc *SearchDoc) error {
	return m.Called(doc.Kind, doc.ID).Error(0)
}

func (m *mockSearcher) Delete(ctx context.Context, kind string, id int64) error {
	return m.Called(kind, id).Error(0)
}

func (m *mockSearcher) Search(ctx context.Context, kind, q string, limit int) ([]int64, error) {
	args := m.Called(kind, q)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) SetUserToken(ctx context.Context, userID int64, aToken, rToken string, aExp, rExp time.Duration) error {
	return m.Called(userID).Error(0)
}

// testClock 可手动拨动的时钟
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	t     *testing.T
	ctx   context.Context
	svc   *Service
	store *fakeStore
	clock *testClock
	n     int
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	store := newFakeStore()
	clock := newTestClock()
	views := new(mockViews)
	views.On("Incr", mock.Anything).Return(nil).Maybe()
	base := []Option{WithClock(clock.Now), WithViewCounter(views)}
	svc := New(store, append(base, opts...)...)
	t.Cleanup(svc.Wait)
	return &fixture{t: t, ctx: context.Background(), svc: svc, store: store, clock: clock}
}

func (f *fixture) user(name string) int64 {
	f.t.Helper()
	id := snowflake.GenID()
	require.NoError(f.t, f.store.CreateUser(f.ctx, &models.User{UserID: id, Username: name, CreateTime: f.clock.Now()}))
	return id
}

func (f *fixture) community(owner int64, name string, typ models.CommunityType) *models.Community {
	f.t.Helper()
	c, err := f.svc.CreateCommunity(f.ctx, owner, &models.ParamCreateCommunity{Name: name, Type: typ})
	require.NoError(f.t, err)
	return c
}

func (f *fixture) post(author int64, c *models.Community) *models.Post {
	f.t.Helper()
	f.n++
	p, err := f.svc.CreatePost(f.ctx, author, &models.ParamCreatePost{
		CommunityID: c.ID,
		Title:       fmt.Sprintf("post %d", f.n),
		Content:     "body",
	})
	require.NoError(f.t, err)
	return p
}

func (f *fixture) comment(author int64, p *models.Post, parent *int64) *models.Comment {
	f.t.Helper()
	c, err := f.svc.CreateComment(f.ctx, author, &models.ParamCreateComment{PostID: p.ID, ParentID: parent, Content: "nice"})
	require.NoError(f.t, err)
	return c
}

func (f *fixture) vote(userID int64, t models.TargetType, id int64, dir models.VoteType) *models.VoteResult {
	f.t.Helper()
	res, err := f.svc.CastVote(f.ctx, userID, &models.ParamVoteData{TargetType: t, TargetID: id, Direction: dir})
	require.NoError(f.t, err)
	return res
}

func postIDs(items []*models.ApiPostDetail) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
