package logic

import (
	"fmt"
	"testing"
	"time"

	"forumcore/models"
	"forumcore/pkg/errorx"
	"forumcore/pkg/hotrank"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rankedPosts old: 10 赞，mid: 晚 0.5 个衰减周期无票，fresh: 晚 1.5 个周期 1 踩
func rankedPosts(f *fixture) (c *models.Community, old, mid, fresh *models.Post, voter int64) {
	owner, author := f.user("owner"), f.user("author")
	c = f.community(owner, "Gophers", models.CommunityPublic)

	old = f.post(author, c)
	for i := range 10 {
		f.vote(f.user(fmt.Sprintf("fan-%d", i)), models.TargetPost, old.ID, models.VoteUp)
	}
	f.clock.Advance(hotrank.DecaySeconds / 2 * time.Second)
	mid = f.post(author, c)
	f.clock.Advance(hotrank.DecaySeconds * time.Second)
	fresh = f.post(author, c)
	voter = f.user("critic")
	f.vote(voter, models.TargetPost, fresh.ID, models.VoteDown)
	return c, old, mid, fresh, voter
}

func TestFeedSorts(t *testing.T) {
	f := newFixture(t)
	c, old, mid, fresh, voter := rankedPosts(f)

	cases := []struct {
		sort string
		want []int64
	}{
		{models.SortHot, []int64{fresh.ID, old.ID, mid.ID}},
		{"", []int64{fresh.ID, old.ID, mid.ID}},
		{models.SortNew, []int64{fresh.ID, mid.ID, old.ID}},
		{models.SortTop, []int64{old.ID, mid.ID, fresh.ID}},
	}
	for _, tc := range cases {
		t.Run("sort="+tc.sort, func(t *testing.T) {
			page, err := f.svc.GetCommunityFeed(f.ctx, c.Slug, voter, &models.ParamFeed{Sort: tc.sort})
			require.NoError(t, err)
			assert.Equal(t, tc.want, postIDs(page.Items))
			assert.Empty(t, page.NextCursor)
		})
	}

	page, err := f.svc.GetCommunityFeed(f.ctx, c.Slug, voter, &models.ParamFeed{})
	require.NoError(t, err)
	assert.Equal(t, models.VoteDown, page.Items[0].ViewerVote)
	assert.Equal(t, hotrank.Score(-1, fresh.CreateTime), page.Items[0].HotScore)
	assert.Equal(t, "author", page.Items[0].Author.Username)
	assert.Equal(t, c.Slug, page.Items[0].Community.Slug)
}

func TestFeedCursorPaging(t *testing.T) {
	f := newFixture(t)
	c, old, mid, fresh, _ := rankedPosts(f)

	want := map[string][]int64{
		models.SortHot: {fresh.ID, old.ID, mid.ID},
		models.SortNew: {fresh.ID, mid.ID, old.ID},
		models.SortTop: {old.ID, mid.ID, fresh.ID},
	}
	for sort, ids := range want {
		t.Run(sort, func(t *testing.T) {
			var got []int64
			cur := ""
			for range 5 {
				page, err := f.svc.GetCommunityFeed(f.ctx, c.Slug, 0, &models.ParamFeed{Sort: sort, Limit: 1, Cursor: cur})
				require.NoError(t, err)
				got = append(got, postIDs(page.Items)...)
				if page.NextCursor == "" {
					break
				}
				cur = page.NextCursor
			}
			assert.Equal(t, ids, got)
		})
	}
}

func TestHotCursorIsStableWhenScoresMove(t *testing.T) {
	f := newFixture(t)
	c, old, mid, fresh, _ := rankedPosts(f)

	page, err := f.svc.GetCommunityFeed(f.ctx, c.Slug, 0, &models.ParamFeed{Limit: 1})
	require.NoError(t, err)
	require.Equal(t, []int64{fresh.ID}, postIDs(page.Items))

	// 翻页之间 fresh 的分数上升，也不会在下一页重复出现
	for i := range 3 {
		f.vote(f.user(fmt.Sprintf("late-%d", i)), models.TargetPost, fresh.ID, models.VoteUp)
	}
	next, err := f.svc.GetCommunityFeed(f.ctx, c.Slug, 0, &models.ParamFeed{Limit: 5, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Equal(t, []int64{old.ID, mid.ID}, postIDs(next.Items))
}

func TestTopTimeRange(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	c := f.community(owner, "Gophers", models.CommunityPublic)
	ancient := f.post(owner, c)
	f.vote(f.user("fan"), models.TargetPost, ancient.ID, models.VoteUp)
	f.clock.Advance(10 * 24 * time.Hour)
	recent := f.post(owner, c)

	page, err := f.svc.GetCommunityFeed(f.ctx, c.Slug, 0, &models.ParamFeed{Sort: models.SortTop, TimeRange: models.RangeWeek})
	require.NoError(t, err)
	assert.Equal(t, []int64{recent.ID}, postIDs(page.Items))

	page, err = f.svc.GetCommunityFeed(f.ctx, c.Slug, 0, &models.ParamFeed{Sort: models.SortTop, TimeRange: models.RangeMonth})
	require.NoError(t, err)
	assert.Equal(t, []int64{ancient.ID, recent.ID}, postIDs(page.Items))

	page, err = f.svc.GetCommunityFeed(f.ctx, c.Slug, 0, &models.ParamFeed{Sort: models.SortTop})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	_, err = f.svc.GetCommunityFeed(f.ctx, c.Slug, 0, &models.ParamFeed{Sort: models.SortTop, TimeRange: "decade"})
	assert.ErrorIs(t, err, errorx.ErrInvalidParam)
}

func TestAggregateFeeds(t *testing.T) {
	f := newFixture(t)
	owner, reader, loner := f.user("owner"), f.user("reader"), f.user("loner")
	sfw := f.community(owner, "Gophers", models.CommunityPublic)
	nsfw, err := f.svc.CreateCommunity(f.ctx, owner, &models.ParamCreateCommunity{Name: "After Dark", IsNSFW: true})
	require.NoError(t, err)
	restricted := f.community(owner, "Closed Club", models.CommunityRestricted)
	p1 := f.post(owner, sfw)
	p2 := f.post(owner, nsfw)
	p3 := f.post(owner, restricted)

	_, err = f.svc.Join(f.ctx, reader, nsfw.Slug)
	require.NoError(t, err)

	popular, err := f.svc.GetFeed(f.ctx, models.ScopePopular, 0, &models.ParamFeed{Sort: models.SortNew})
	require.NoError(t, err)
	assert.Equal(t, []int64{p3.ID, p1.ID}, postIDs(popular.Items))

	all, err := f.svc.GetFeed(f.ctx, models.ScopeAll, 0, &models.ParamFeed{Sort: models.SortNew})
	require.NoError(t, err)
	assert.Equal(t, []int64{p3.ID, p2.ID, p1.ID}, postIDs(all.Items))

	home, err := f.svc.GetFeed(f.ctx, models.ScopeHome, reader, &models.ParamFeed{Sort: models.SortNew})
	require.NoError(t, err)
	assert.Equal(t, []int64{p2.ID}, postIDs(home.Items))

	empty, err := f.svc.GetFeed(f.ctx, models.ScopeHome, loner, &models.ParamFeed{})
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)

	_, err = f.svc.GetFeed(f.ctx, models.ScopeHome, 0, &models.ParamFeed{})
	assert.ErrorIs(t, err, errorx.ErrNeedLogin)
	_, err = f.svc.GetFeed(f.ctx, "best", 0, &models.ParamFeed{})
	assert.ErrorIs(t, err, errorx.ErrInvalidParam)
	_, err = f.svc.GetFeed(f.ctx, models.ScopeAll, 0, &models.ParamFeed{Sort: "random"})
	assert.ErrorIs(t, err, errorx.ErrInvalidParam)
	_, err = f.svc.GetFeed(f.ctx, models.ScopeAll, 0, &models.ParamFeed{Cursor: "!!!"})
	assert.ErrorIs(t, err, errorx.ErrInvalidParam)
}

func TestHotWindowLimitsCandidates(t *testing.T) {
	limits := DefaultLimits
	limits.HotWindow = 2
	f := newFixture(t, WithLimits(limits))

	owner := f.user("owner")
	c := f.community(owner, "Gophers", models.CommunityPublic)
	oldest := f.post(owner, c)
	for i := range 5 {
		f.vote(f.user(fmt.Sprintf("fan-%d", i)), models.TargetPost, oldest.ID, models.VoteUp)
	}
	a := f.post(owner, c)
	b := f.post(owner, c)

	page, err := f.svc.GetCommunityFeed(f.ctx, c.Slug, 0, &models.ParamFeed{Sort: models.SortHot})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{a.ID, b.ID}, postIDs(page.Items))
}

func TestArchivedCommunityHasNoFeed(t *testing.T) {
	f := newFixture(t)
	owner, author := f.user("owner"), f.user("author")
	c := f.community(owner, "Gophers", models.CommunityPublic)
	p := f.post(author, c)
	require.NoError(t, f.svc.ArchiveCommunity(f.ctx, owner, c.Slug))

	for _, uid := range []int64{owner, author, 0} {
		_, err := f.svc.GetCommunityFeed(f.ctx, c.Slug, uid, &models.ParamFeed{})
		assert.ErrorIs(t, err, errorx.ErrNotFound, "user %d", uid)
	}

	// 版主仍能按链接打开社区和帖子
	_, err := f.svc.GetCommunity(f.ctx, c.Slug, owner)
	require.NoError(t, err)
	got, err := f.svc.GetPost(f.ctx, p.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}
