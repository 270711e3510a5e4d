package logic

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"forumcore/dao"
	"forumcore/models"
)

type pair [2]int64

type voteKey struct {
	userID int64
	target models.Target
}

type fakeData struct {
	users       map[int64]models.User
	communities map[int64]models.Community
	rules       map[int64]models.CommunityRule
	flairs      map[int64]models.CommunityFlair
	members     map[pair]models.CommunityMember
	bans        map[pair]models.CommunityBan
	posts       map[int64]models.Post
	options     map[int64]models.PollOption
	pollVotes   map[pair]models.PollVote
	comments    map[int64]models.Comment
	votes       map[voteKey]models.Vote
	reports     map[int64]models.Report
	modlogs     []models.ModLog
}

func newFakeData() *fakeData {
	return &fakeData{
		users:       map[int64]models.User{},
		communities: map[int64]models.Community{},
		rules:       map[int64]models.CommunityRule{},
		flairs:      map[int64]models.CommunityFlair{},
		members:     map[pair]models.CommunityMember{},
		bans:        map[pair]models.CommunityBan{},
		posts:       map[int64]models.Post{},
		options:     map[int64]models.PollOption{},
		pollVotes:   map[pair]models.PollVote{},
		comments:    map[int64]models.Comment{},
		votes:       map[voteKey]models.Vote{},
		reports:     map[int64]models.Report{},
	}
}

func (d *fakeData) clone() *fakeData {
	return &fakeData{
		users:       maps.Clone(d.users),
		communities: maps.Clone(d.communities),
		rules:       maps.Clone(d.rules),
		flairs:      maps.Clone(d.flairs),
		members:     maps.Clone(d.members),
		bans:        maps.Clone(d.bans),
		posts:       maps.Clone(d.posts),
		options:     maps.Clone(d.options),
		pollVotes:   maps.Clone(d.pollVotes),
		comments:    maps.Clone(d.comments),
		votes:       maps.Clone(d.votes),
		reports:     maps.Clone(d.reports),
		modlogs:     slices.Clone(d.modlogs),
	}
}

// fakeStore 内存版 Store；事务持有全局锁并在出错时整体回滚
type fakeStore struct {
	mu    *sync.Mutex
	d     *fakeData
	inTx  bool
	hooks map[string]func() error
}

func newFakeStore() *fakeStore {
	return &fakeStore{mu: new(sync.Mutex), d: newFakeData(), hooks: map[string]func() error{}}
}

func (f *fakeStore) lock() func() {
	if f.inTx {
		return func() {}
	}
	f.mu.Lock()
	return f.mu.Unlock
}

// hook 测试注入的故障
func (f *fakeStore) hook(name string) error {
	if h, ok := f.hooks[name]; ok {
		return h()
	}
	return nil
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if f.inTx {
		return fn(f)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := f.d.clone()
	tx := &fakeStore{mu: f.mu, d: f.d, inTx: true, hooks: f.hooks}
	if err := fn(tx); err != nil {
		*f.d = *snap
		// 回滚后执行，模拟并发事务已经提交的写入
		_ = f.hook("Rollback")
		return err
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func (f *fakeStore) CreateUser(ctx context.Context, u *models.User) error {
	defer f.lock()()
	for _, x := range f.d.users {
		if x.Username == u.Username {
			return dao.ErrDuplicateKey
		}
	}
	f.d.users[u.UserID] = *u
	return nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	defer f.lock()()
	if u, ok := f.d.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (f *fakeStore) GetUserByName(ctx context.Context, username string) (*models.User, error) {
	defer f.lock()()
	for _, u := range f.d.users {
		if u.Username == username {
			return ptr(u), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUsersByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	defer f.lock()()
	var out []*models.User
	for _, id := range ids {
		if u, ok := f.d.users[id]; ok {
			out = append(out, ptr(u))
		}
	}
	return out, nil
}

func (f *fakeStore) IncrUserKarma(ctx context.Context, userID, delta int64) error {
	defer f.lock()()
	if err := f.hook("IncrUserKarma"); err != nil {
		return err
	}
	if u, ok := f.d.users[userID]; ok {
		u.Karma += delta
		f.d.users[userID] = u
	}
	return nil
}

func (f *fakeStore) CreateCommunity(ctx context.Context, c *models.Community) error {
	defer f.lock()()
	if err := f.hook("CreateCommunity"); err != nil {
		return err
	}
	for _, x := range f.d.communities {
		if x.Slug == c.Slug {
			return dao.ErrDuplicateKey
		}
	}
	f.d.communities[c.ID] = *c
	return nil
}

func (f *fakeStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	defer f.lock()()
	for _, c := range f.d.communities {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetCommunityByID(ctx context.Context, id int64) (*models.Community, error) {
	defer f.lock()()
	if c, ok := f.d.communities[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeStore) GetCommunityBySlug(ctx context.Context, slug string) (*models.Community, error) {
	defer f.lock()()
	for _, c := range f.d.communities {
		if c.Slug == slug {
			return ptr(c), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetCommunitiesByIDs(ctx context.Context, ids []int64) ([]*models.Community, error) {
	defer f.lock()()
	var out []*models.Community
	for _, id := range ids {
		if c, ok := f.d.communities[id]; ok {
			out = append(out, ptr(c))
		}
	}
	return out, nil
}

func (f *fakeStore) ListCommunities(ctx context.Context, q CommunityQuery) ([]*models.Community, error) {
	defer f.lock()()
	needle := strings.ToLower(q.Query)
	var out []*models.Community
	for _, c := range f.d.communities {
		if c.IsArchived || c.Type == models.CommunityPrivate {
			continue
		}
		if q.Type != "" && c.Type != q.Type {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Description), needle) {
			continue
		}
		out = append(out, ptr(c))
	}
	sort.Slice(out, func(i, j int) bool {
		switch q.Sort {
		case models.CommunitySortName:
			return out[i].Name < out[j].Name
		case models.CommunitySortNew:
			return out[i].ID > out[j].ID
		}
		if out[i].MemberCount != out[j].MemberCount {
			return out[i].MemberCount > out[j].MemberCount
		}
		return out[i].ID > out[j].ID
	})
	return window(out, q.Offset, q.Limit), nil
}

func window[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

func (f *fakeStore) SaveCommunitySettings(ctx context.Context, c *models.Community) error {
	defer f.lock()()
	old := f.d.communities[c.ID]
	cp := *c
	cp.MemberCount, cp.IsArchived = old.MemberCount, old.IsArchived
	f.d.communities[c.ID] = cp
	return nil
}

func (f *fakeStore) ArchiveCommunity(ctx context.Context, id int64) (bool, error) {
	defer f.lock()()
	c, ok := f.d.communities[id]
	if !ok || c.IsArchived {
		return false, nil
	}
	c.IsArchived = true
	f.d.communities[id] = c
	return true, nil
}

func (f *fakeStore) IncrMemberCount(ctx context.Context, communityID, delta int64) error {
	defer f.lock()()
	if c, ok := f.d.communities[communityID]; ok {
		c.MemberCount += delta
		f.d.communities[communityID] = c
	}
	return nil
}

func (f *fakeStore) FeedCommunityIDs(ctx context.Context, excludeNSFW bool) ([]int64, error) {
	defer f.lock()()
	var ids []int64
	for _, c := range f.d.communities {
		if c.IsArchived || c.Type == models.CommunityPrivate || (excludeNSFW && c.IsNSFW) {
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (f *fakeStore) JoinedCommunityIDs(ctx context.Context, userID int64) ([]int64, error) {
	defer f.lock()()
	var ids []int64
	for k, m := range f.d.members {
		if m.UserID != userID {
			continue
		}
		if c := f.d.communities[k[0]]; !c.IsArchived {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (f *fakeStore) ListRules(ctx context.Context, communityID int64) ([]*models.CommunityRule, error) {
	defer f.lock()()
	var out []*models.CommunityRule
	for _, r := range f.d.rules {
		if r.CommunityID == communityID {
			out = append(out, ptr(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeStore) GetRule(ctx context.Context, id int64) (*models.CommunityRule, error) {
	defer f.lock()()
	if r, ok := f.d.rules[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (f *fakeStore) CreateRule(ctx context.Context, r *models.CommunityRule) error {
	defer f.lock()()
	f.d.rules[r.ID] = *r
	return nil
}

func (f *fakeStore) SaveRule(ctx context.Context, r *models.CommunityRule) error {
	defer f.lock()()
	f.d.rules[r.ID] = *r
	return nil
}

func (f *fakeStore) DeleteRule(ctx context.Context, id int64) error {
	defer f.lock()()
	delete(f.d.rules, id)
	return nil
}

func (f *fakeStore) ListFlairs(ctx context.Context, communityID int64) ([]*models.CommunityFlair, error) {
	defer f.lock()()
	var out []*models.CommunityFlair
	for _, x := range f.d.flairs {
		if x.CommunityID == communityID {
			out = append(out, ptr(x))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeStore) GetFlair(ctx context.Context, id int64) (*models.CommunityFlair, error) {
	defer f.lock()()
	if x, ok := f.d.flairs[id]; ok {
		return &x, nil
	}
	return nil, nil
}

func (f *fakeStore) CreateFlair(ctx context.Context, x *models.CommunityFlair) error {
	defer f.lock()()
	f.d.flairs[x.ID] = *x
	return nil
}

func (f *fakeStore) SaveFlair(ctx context.Context, x *models.CommunityFlair) error {
	defer f.lock()()
	f.d.flairs[x.ID] = *x
	return nil
}

func (f *fakeStore) DeleteFlair(ctx context.Context, id int64) error {
	defer f.lock()()
	delete(f.d.flairs, id)
	return nil
}

func (f *fakeStore) GetMember(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error) {
	defer f.lock()()
	if m, ok := f.d.members[pair{communityID, userID}]; ok {
		return &m, nil
	}
	return nil, nil
}

func (f *fakeStore) CreateMember(ctx context.Context, m *models.CommunityMember) error {
	defer f.lock()()
	if err := f.hook("CreateMember"); err != nil {
		return err
	}
	k := pair{m.CommunityID, m.UserID}
	if _, ok := f.d.members[k]; ok {
		return dao.ErrDuplicateKey
	}
	f.d.members[k] = *m
	return nil
}

func (f *fakeStore) DeleteMember(ctx context.Context, communityID, userID int64) (bool, error) {
	defer f.lock()()
	k := pair{communityID, userID}
	if _, ok := f.d.members[k]; !ok {
		return false, nil
	}
	delete(f.d.members, k)
	return true, nil
}

func (f *fakeStore) UpdateMemberRole(ctx context.Context, communityID, userID int64, role models.MemberRole) error {
	defer f.lock()()
	k := pair{communityID, userID}
	m := f.d.members[k]
	m.Role = role
	f.d.members[k] = m
	return nil
}

var roleOrder = map[models.MemberRole]int{models.RoleOwner: 0, models.RoleModerator: 1, models.RoleMember: 2}

func (f *fakeStore) ListMembers(ctx context.Context, communityID int64, role models.MemberRole, offset, limit int) ([]*models.CommunityMember, error) {
	defer f.lock()()
	var out []*models.CommunityMember
	for _, m := range f.d.members {
		if m.CommunityID == communityID && (role == "" || m.Role == role) {
			out = append(out, ptr(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return roleOrder[out[i].Role] < roleOrder[out[j].Role]
		}
		return out[i].ID < out[j].ID
	})
	return window(out, offset, limit), nil
}

func (f *fakeStore) GetBan(ctx context.Context, communityID, userID int64) (*models.CommunityBan, error) {
	defer f.lock()()
	if b, ok := f.d.bans[pair{communityID, userID}]; ok {
		return &b, nil
	}
	return nil, nil
}

func (f *fakeStore) UpsertBan(ctx context.Context, b *models.CommunityBan) error {
	defer f.lock()()
	f.d.bans[pair{b.CommunityID, b.UserID}] = *b
	return nil
}

func (f *fakeStore) DeleteBan(ctx context.Context, communityID, userID int64) (bool, error) {
	defer f.lock()()
	k := pair{communityID, userID}
	if _, ok := f.d.bans[k]; !ok {
		return false, nil
	}
	delete(f.d.bans, k)
	return true, nil
}

func (f *fakeStore) CreatePost(ctx context.Context, p *models.Post) error {
	defer f.lock()()
	cp := *p
	cp.PollOptions = nil
	f.d.posts[p.ID] = cp
	for _, o := range p.PollOptions {
		f.d.options[o.ID] = *o
	}
	return nil
}

func (f *fakeStore) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	defer f.lock()()
	if p, ok := f.d.posts[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeStore) LockPost(ctx context.Context, id int64) (*models.Post, error) {
	return f.GetPostByID(ctx, id)
}

func (f *fakeStore) GetPostsByIDs(ctx context.Context, ids []int64) ([]*models.Post, error) {
	defer f.lock()()
	var out []*models.Post
	for _, id := range ids {
		if p, ok := f.d.posts[id]; ok {
			out = append(out, ptr(p))
		}
	}
	return out, nil
}

func (f *fakeStore) ListPosts(ctx context.Context, q PostQuery) ([]*models.Post, error) {
	defer f.lock()()
	in := make(map[int64]bool, len(q.CommunityIDs))
	for _, id := range q.CommunityIDs {
		in[id] = true
	}
	var out []*models.Post
	for _, p := range f.d.posts {
		if !in[p.CommunityID] || p.Status != models.StatusVisible {
			continue
		}
		if !q.Since.IsZero() && p.CreateTime.Before(q.Since) {
			continue
		}
		switch q.Sort {
		case models.SortTop:
			if !q.Cursor.Before(float64(p.Score), p.ID) {
				continue
			}
		default:
			if q.Cursor != nil && p.ID >= q.Cursor.ID {
				continue
			}
		}
		out = append(out, ptr(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if q.Sort == models.SortTop && out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID > out[j].ID
	})
	return window(out, 0, q.Limit), nil
}

func (f *fakeStore) EditPost(ctx context.Context, id int64, content string, editedAt time.Time) (bool, error) {
	defer f.lock()()
	if err := f.hook("EditPost"); err != nil {
		return false, err
	}
	p, ok := f.d.posts[id]
	if !ok || p.Status != models.StatusVisible {
		return false, nil
	}
	p.Content, p.EditedAt = content, &editedAt
	f.d.posts[id] = p
	return true, nil
}

func (f *fakeStore) SetPostStatus(ctx context.Context, id int64, from, to models.ContentStatus) (bool, error) {
	defer f.lock()()
	p, ok := f.d.posts[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	f.d.posts[id] = p
	return true, nil
}

func (f *fakeStore) IncrPostScore(ctx context.Context, id, delta int64) error {
	defer f.lock()()
	if err := f.hook("IncrPostScore"); err != nil {
		return err
	}
	p := f.d.posts[id]
	p.Score += delta
	f.d.posts[id] = p
	return nil
}

func (f *fakeStore) IncrPostCommentCount(ctx context.Context, id, delta int64) error {
	defer f.lock()()
	p := f.d.posts[id]
	p.CommentCount += delta
	f.d.posts[id] = p
	return nil
}

func (f *fakeStore) IncrPostViewCount(ctx context.Context, id, delta int64) error {
	defer f.lock()()
	p := f.d.posts[id]
	p.ViewCount += delta
	f.d.posts[id] = p
	return nil
}

func (f *fakeStore) GetPollOptions(ctx context.Context, postID int64) ([]*models.PollOption, error) {
	defer f.lock()()
	var out []*models.PollOption
	for _, o := range f.d.options {
		if o.PostID == postID {
			out = append(out, ptr(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeStore) GetPollVote(ctx context.Context, postID, userID int64) (*models.PollVote, error) {
	defer f.lock()()
	if v, ok := f.d.pollVotes[pair{postID, userID}]; ok {
		return &v, nil
	}
	return nil, nil
}

func (f *fakeStore) CreatePollVote(ctx context.Context, v *models.PollVote) error {
	defer f.lock()()
	k := pair{v.PostID, v.UserID}
	if _, ok := f.d.pollVotes[k]; ok {
		return dao.ErrDuplicateKey
	}
	f.d.pollVotes[k] = *v
	return nil
}

func (f *fakeStore) UpdatePollVote(ctx context.Context, id, optionID int64) error {
	defer f.lock()()
	for k, v := range f.d.pollVotes {
		if v.ID == id {
			v.OptionID = optionID
			f.d.pollVotes[k] = v
		}
	}
	return nil
}

func (f *fakeStore) IncrPollOption(ctx context.Context, optionID, delta int64) error {
	defer f.lock()()
	o := f.d.options[optionID]
	o.VoteCount += delta
	f.d.options[optionID] = o
	return nil
}

func (f *fakeStore) CreateComment(ctx context.Context, c *models.Comment) error {
	defer f.lock()()
	f.d.comments[c.ID] = *c
	return nil
}

func (f *fakeStore) GetCommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	defer f.lock()()
	if c, ok := f.d.comments[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeStore) LockComment(ctx context.Context, id int64) (*models.Comment, error) {
	return f.GetCommentByID(ctx, id)
}

func (f *fakeStore) GetCommentsByIDs(ctx context.Context, ids []int64) ([]*models.Comment, error) {
	defer f.lock()()
	var out []*models.Comment
	for _, id := range ids {
		if c, ok := f.d.comments[id]; ok {
			out = append(out, ptr(c))
		}
	}
	return out, nil
}

func (f *fakeStore) ListComments(ctx context.Context, q CommentQuery) ([]*models.Comment, error) {
	defer f.lock()()
	var out []*models.Comment
	for _, c := range f.d.comments {
		if c.PostID != q.PostID || c.Status != models.StatusVisible {
			continue
		}
		if q.ParentID != nil && (c.ParentID == nil || *c.ParentID != *q.ParentID) {
			continue
		}
		if q.Cursor != nil {
			switch q.Sort {
			case models.CommentSortTop:
				if !q.Cursor.Before(float64(c.Score), c.ID) {
					continue
				}
			case models.CommentSortOld:
				if c.ID <= q.Cursor.ID {
					continue
				}
			default:
				if c.ID >= q.Cursor.ID {
					continue
				}
			}
		}
		out = append(out, ptr(c))
	}
	sort.Slice(out, func(i, j int) bool {
		switch q.Sort {
		case models.CommentSortOld:
			return out[i].ID < out[j].ID
		case models.CommentSortTop:
			if out[i].Score != out[j].Score {
				return out[i].Score > out[j].Score
			}
		}
		return out[i].ID > out[j].ID
	})
	return window(out, 0, q.Limit), nil
}

func (f *fakeStore) EditComment(ctx context.Context, id int64, content string, editedAt time.Time) (bool, error) {
	defer f.lock()()
	if err := f.hook("EditComment"); err != nil {
		return false, err
	}
	c, ok := f.d.comments[id]
	if !ok || c.Status != models.StatusVisible {
		return false, nil
	}
	c.Content, c.EditedAt = content, &editedAt
	f.d.comments[id] = c
	return true, nil
}

func (f *fakeStore) SetCommentStatus(ctx context.Context, id int64, from, to models.ContentStatus) (bool, error) {
	defer f.lock()()
	c, ok := f.d.comments[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	f.d.comments[id] = c
	return true, nil
}

func (f *fakeStore) IncrCommentScore(ctx context.Context, id, delta int64) error {
	defer f.lock()()
	c := f.d.comments[id]
	c.Score += delta
	f.d.comments[id] = c
	return nil
}

func (f *fakeStore) GetVote(ctx context.Context, userID int64, target models.Target) (*models.Vote, error) {
	defer f.lock()()
	if v, ok := f.d.votes[voteKey{userID, target}]; ok {
		return &v, nil
	}
	return nil, nil
}

func (f *fakeStore) CreateVote(ctx context.Context, v *models.Vote) error {
	defer f.lock()()
	k := voteKey{v.UserID, models.Target{Type: v.TargetType, ID: v.TargetID}}
	if _, ok := f.d.votes[k]; ok {
		return dao.ErrDuplicateKey
	}
	f.d.votes[k] = *v
	return nil
}

func (f *fakeStore) UpdateVoteType(ctx context.Context, id int64, t models.VoteType) error {
	defer f.lock()()
	for k, v := range f.d.votes {
		if v.ID == id {
			v.Type = t
			f.d.votes[k] = v
		}
	}
	return nil
}

func (f *fakeStore) DeleteVote(ctx context.Context, id int64) error {
	defer f.lock()()
	for k, v := range f.d.votes {
		if v.ID == id {
			delete(f.d.votes, k)
		}
	}
	return nil
}

func (f *fakeStore) GetUserVotes(ctx context.Context, userID int64, targetType models.TargetType, ids []int64) (map[int64]models.VoteType, error) {
	defer f.lock()()
	out := make(map[int64]models.VoteType)
	for _, id := range ids {
		if v, ok := f.d.votes[voteKey{userID, models.Target{Type: targetType, ID: id}}]; ok {
			out[id] = v.Type
		}
	}
	return out, nil
}

func (f *fakeStore) CreateReport(ctx context.Context, r *models.Report) error {
	defer f.lock()()
	f.d.reports[r.ID] = *r
	return nil
}

func (f *fakeStore) GetReportByID(ctx context.Context, id int64) (*models.Report, error) {
	defer f.lock()()
	if r, ok := f.d.reports[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (f *fakeStore) HasOpenReport(ctx context.Context, reporterID int64, target models.Target) (bool, error) {
	defer f.lock()()
	for _, r := range f.d.reports {
		if r.ReporterID == reporterID && r.TargetType == target.Type && r.TargetID == target.ID && r.Status == models.ReportOpen {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListReports(ctx context.Context, q ReportQuery) ([]*models.Report, error) {
	defer f.lock()()
	var out []*models.Report
	for _, r := range f.d.reports {
		if r.CommunityID != q.CommunityID || r.Status != q.Status {
			continue
		}
		if q.BeforeID > 0 && r.ID >= q.BeforeID {
			continue
		}
		out = append(out, ptr(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, 0, q.Limit), nil
}

func (f *fakeStore) CloseReport(ctx context.Context, id int64, status models.ReportStatus, resolverID int64, at time.Time) (bool, error) {
	defer f.lock()()
	r, ok := f.d.reports[id]
	if !ok || r.Status != models.ReportOpen {
		return false, nil
	}
	r.Status, r.ResolvedBy, r.ResolvedAt = status, &resolverID, &at
	f.d.reports[id] = r
	return true, nil
}

func (f *fakeStore) SetReportTriage(ctx context.Context, id int64, priority, note string) error {
	defer f.lock()()
	r := f.d.reports[id]
	r.Priority, r.TriageNote = priority, note
	f.d.reports[id] = r
	return nil
}

func (f *fakeStore) CreateModLog(ctx context.Context, l *models.ModLog) error {
	defer f.lock()()
	if err := f.hook("CreateModLog"); err != nil {
		return err
	}
	f.d.modlogs = append(f.d.modlogs, *l)
	return nil
}

func (f *fakeStore) ListModLogs(ctx context.Context, communityID, beforeID int64, limit int) ([]*models.ModLog, error) {
	defer f.lock()()
	var out []*models.ModLog
	for _, l := range f.d.modlogs {
		if l.CommunityID == communityID && (beforeID == 0 || l.ID < beforeID) {
			out = append(out, ptr(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, 0, limit), nil
}

func (f *fakeStore) SearchCommunities(ctx context.Context, q string, limit int) ([]*models.Community, error) {
	defer f.lock()()
	needle := strings.ToLower(q)
	var out []*models.Community
	for _, c := range f.d.communities {
		if c.IsArchived || c.Type == models.CommunityPrivate {
			continue
		}
		if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(strings.ToLower(c.Description), needle) {
			out = append(out, ptr(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberCount > out[j].MemberCount })
	return window(out, 0, limit), nil
}

func (f *fakeStore) SearchPosts(ctx context.Context, q string, limit int) ([]*models.Post, error) {
	defer f.lock()()
	needle := strings.ToLower(q)
	var out []*models.Post
	for _, p := range f.d.posts {
		if p.Status != models.StatusVisible {
			continue
		}
		if strings.Contains(strings.ToLower(p.Title), needle) || strings.Contains(strings.ToLower(p.Content), needle) {
			out = append(out, ptr(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, 0, limit), nil
}

func (f *fakeStore) SearchComments(ctx context.Context, q string, limit int) ([]*models.Comment, error) {
	defer f.lock()()
	needle := strings.ToLower(q)
	var out []*models.Comment
	for _, c := range f.d.comments {
		if c.Status == models.StatusVisible && strings.Contains(strings.ToLower(c.Content), needle) {
			out = append(out, ptr(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, 0, limit), nil
}

// 测试辅助读取

func (f *fakeStore) user(id int64) models.User {
	defer f.lock()()
	return f.d.users[id]
}

func (f *fakeStore) post(id int64) models.Post {
	defer f.lock()()
	return f.d.posts[id]
}

func (f *fakeStore) comment(id int64) models.Comment {
	defer f.lock()()
	return f.d.comments[id]
}

func (f *fakeStore) community(id int64) models.Community {
	defer f.lock()()
	return f.d.communities[id]
}

func (f *fakeStore) modlogsOf(communityID int64) []models.ModLog {
	defer f.lock()()
	var out []models.ModLog
	for _, l := range f.d.modlogs {
		if l.CommunityID == communityID {
			out = append(out, l)
		}
	}
	return out
}

func (f *fakeStore) votesOn(t models.Target) []models.Vote {
	defer f.lock()()
	var out []models.Vote
	for k, v := range f.d.votes {
		if k.target == t {
			out = append(out, v)
		}
	}
	return out
}

var _ Store = (*fakeStore)(nil)
