package logic

import (
	"context"
	"time"

	"forumcore/models"
	"forumcore/pkg/cursor"
)

// CommunityQuery 社区列表查询，归档社区和私有社区一律排除
type CommunityQuery struct {
	Query  string
	Type   models.CommunityType
	Sort   string
	Offset int
	Limit  int
}

// PostQuery 只返回 VISIBLE 的帖子
// Sort 为 new 时按 post_id 降序，top 时按 (score, post_id) 降序
type PostQuery struct {
	CommunityIDs []int64
	Since        time.Time
	Sort         string
	Cursor       *cursor.Cursor
	Limit        int
}

// CommentQuery 只返回 VISIBLE 的评论；ParentID 为 nil 时返回整帖评论
type CommentQuery struct {
	PostID   int64
	ParentID *int64
	Sort     string
	Cursor   *cursor.Cursor
	Limit    int
}

type ReportQuery struct {
	CommunityID int64
	Status      models.ReportStatus
	BeforeID    int64
	Limit       int
}

// Store 关系存储的全部能力；查不到单条记录时返回 (nil, nil)
// 唯一索引冲突返回 dao.ErrDuplicateKey
type Store interface {
	// Transaction 在同一事务中执行 fn，fn 返回错误则全部回滚
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByName(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	IncrUserKarma(ctx context.Context, userID, delta int64) error

	CreateCommunity(ctx context.Context, c *models.Community) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	GetCommunityByID(ctx context.Context, id int64) (*models.Community, error)
	GetCommunityBySlug(ctx context.Context, slug string) (*models.Community, error)
	GetCommunitiesByIDs(ctx context.Context, ids []int64) ([]*models.Community, error)
	ListCommunities(ctx context.Context, q CommunityQuery) ([]*models.Community, error)
	SaveCommunitySettings(ctx context.Context, c *models.Community) error
	ArchiveCommunity(ctx context.Context, id int64) (bool, error)
	IncrMemberCount(ctx context.Context, communityID, delta int64) error
	// FeedCommunityIDs PUBLIC/RESTRICTED 且未归档的社区
	FeedCommunityIDs(ctx context.Context, excludeNSFW bool) ([]int64, error)
	// JoinedCommunityIDs 用户加入的未归档社区
	JoinedCommunityIDs(ctx context.Context, userID int64) ([]int64, error)

	ListRules(ctx context.Context, communityID int64) ([]*models.CommunityRule, error)
	GetRule(ctx context.Context, id int64) (*models.CommunityRule, error)
	CreateRule(ctx context.Context, r *models.CommunityRule) error
	SaveRule(ctx context.Context, r *models.CommunityRule) error
	DeleteRule(ctx context.Context, id int64) error
	ListFlairs(ctx context.Context, communityID int64) ([]*models.CommunityFlair, error)
	GetFlair(ctx context.Context, id int64) (*models.CommunityFlair, error)
	CreateFlair(ctx context.Context, f *models.CommunityFlair) error
	SaveFlair(ctx context.Context, f *models.CommunityFlair) error
	DeleteFlair(ctx context.Context, id int64) error

	GetMember(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error)
	CreateMember(ctx context.Context, m *models.CommunityMember) error
	DeleteMember(ctx context.Context, communityID, userID int64) (bool, error)
	UpdateMemberRole(ctx context.Context, communityID, userID int64, role models.MemberRole) error
	// ListMembers 按 OWNER、MODERATOR、MEMBER 排序，同角色按加入时间
	ListMembers(ctx context.Context, communityID int64, role models.MemberRole, offset, limit int) ([]*models.CommunityMember, error)

	GetBan(ctx context.Context, communityID, userID int64) (*models.CommunityBan, error)
	UpsertBan(ctx context.Context, b *models.CommunityBan) error
	DeleteBan(ctx context.Context, communityID, userID int64) (bool, error)

	CreatePost(ctx context.Context, p *models.Post) error
	GetPostByID(ctx context.Context, id int64) (*models.Post, error)
	// LockPost SELECT ... FOR UPDATE，只能在事务内调用
	LockPost(ctx context.Context, id int64) (*models.Post, error)
	GetPostsByIDs(ctx context.Context, ids []int64) ([]*models.Post, error)
	ListPosts(ctx context.Context, q PostQuery) ([]*models.Post, error)
	EditPost(ctx context.Context, id int64, content string, editedAt time.Time) (bool, error)
	// SetPostStatus 仅当当前状态为 from 时修改，返回是否生效
	SetPostStatus(ctx context.Context, id int64, from, to models.ContentStatus) (bool, error)
	IncrPostScore(ctx context.Context, id, delta int64) error
	IncrPostCommentCount(ctx context.Context, id, delta int64) error
	IncrPostViewCount(ctx context.Context, id, delta int64) error

	GetPollOptions(ctx context.Context, postID int64) ([]*models.PollOption, error)
	GetPollVote(ctx context.Context, postID, userID int64) (*models.PollVote, error)
	CreatePollVote(ctx context.Context, v *models.PollVote) error
	UpdatePollVote(ctx context.Context, id, optionID int64) error
	IncrPollOption(ctx context.Context, optionID, delta int64) error

	CreateComment(ctx context.Context, c *models.Comment) error
	GetCommentByID(ctx context.Context, id int64) (*models.Comment, error)
	LockComment(ctx context.Context, id int64) (*models.Comment, error)
	GetCommentsByIDs(ctx context.Context, ids []int64) ([]*models.Comment, error)
	ListComments(ctx context.Context, q CommentQuery) ([]*models.Comment, error)
	EditComment(ctx context.Context, id int64, content string, editedAt time.Time) (bool, error)
	SetCommentStatus(ctx context.Context, id int64, from, to models.ContentStatus) (bool, error)
	IncrCommentScore(ctx context.Context, id, delta int64) error

	GetVote(ctx context.Context, userID int64, target models.Target) (*models.Vote, error)
	CreateVote(ctx context.Context, v *models.Vote) error
	UpdateVoteType(ctx context.Context, id int64, t models.VoteType) error
	DeleteVote(ctx context.Context, id int64) error
	GetUserVotes(ctx context.Context, userID int64, targetType models.TargetType, ids []int64) (map[int64]models.VoteType, error)

	CreateReport(ctx context.Context, r *models.Report) error
	GetReportByID(ctx context.Context, id int64) (*models.Report, error)
	HasOpenReport(ctx context.Context, reporterID int64, target models.Target) (bool, error)
	ListReports(ctx context.Context, q ReportQuery) ([]*models.Report, error)
	// CloseReport OPEN -> status，返回是否生效
	CloseReport(ctx context.Context, id int64, status models.ReportStatus, resolverID int64, at time.Time) (bool, error)
	SetReportTriage(ctx context.Context, id int64, priority, note string) error

	CreateModLog(ctx context.Context, l *models.ModLog) error
	ListModLogs(ctx context.Context, communityID, beforeID int64, limit int) ([]*models.ModLog, error)

	SearchCommunities(ctx context.Context, q string, limit int) ([]*models.Community, error)
	SearchPosts(ctx context.Context, q string, limit int) ([]*models.Post, error)
	SearchComments(ctx context.Context, q string, limit int) ([]*models.Comment, error)
}
