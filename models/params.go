package models

import "time"

// ParamSignUp 注册请求参数
type ParamSignUp struct {
	Username   string `json:"username" binding:"required,min=3,max=64"`
	Password   string `json:"password" binding:"required,min=6"`
	RePassword string `json:"re_password" binding:"required"`
}

type ParamLogin struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ParamCreateCommunity struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	Type        CommunityType `json:"type" binding:"omitempty,oneof=PUBLIC RESTRICTED PRIVATE"`
	IsNSFW      bool          `json:"is_nsfw"`
	Icon        string        `json:"icon" binding:"omitempty,max=512"`
	Banner      string        `json:"banner" binding:"omitempty,max=512"`
}

// ParamUpdateCommunity 只有非 nil 字段会被修改
type ParamUpdateCommunity struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Sidebar     *string        `json:"sidebar"`
	Icon        *string        `json:"icon" binding:"omitempty,max=512"`
	Banner      *string        `json:"banner" binding:"omitempty,max=512"`
	Color       *string        `json:"color" binding:"omitempty,max=16"`
	Type        *CommunityType `json:"type" binding:"omitempty,oneof=PUBLIC RESTRICTED PRIVATE"`
	IsNSFW      *bool          `json:"is_nsfw"`
}

// 社区列表排序
const (
	CommunitySortPopular = "popular"
	CommunitySortNew     = "new"
	CommunitySortName    = "name"
)

type ParamCommunityList struct {
	Query string        `json:"q" form:"q"`
	Type  CommunityType `json:"type" form:"type" binding:"omitempty,oneof=PUBLIC RESTRICTED"`
	Sort  string        `json:"sort" form:"sort" binding:"omitempty,oneof=popular new name"`
	Page  int64         `json:"page" form:"page"`
	Size  int64         `json:"size" form:"size"`
}

type ParamChangeRole struct {
	Role MemberRole `json:"role" binding:"required,oneof=MODERATOR MEMBER"`
}

type ParamMemberList struct {
	Role MemberRole `json:"role" form:"role" binding:"omitempty,oneof=OWNER MODERATOR MEMBER"`
	Page int64      `json:"page" form:"page"`
	Size int64      `json:"size" form:"size"`
}

type ParamBan struct {
	UserID    int64      `json:"user_id,string" binding:"required"`
	Status    BanStatus  `json:"status" binding:"required,oneof=PERMANENT TEMPORARY"`
	ExpiresAt *time.Time `json:"expires_at"`
	Reason    string     `json:"reason" binding:"max=512"`
}

type ParamRule struct {
	Title       string `json:"title" binding:"required,max=128"`
	Description string `json:"description" binding:"max=2000"`
	SortOrder   int    `json:"sort_order"`
}

type ParamFlair struct {
	Text      string `json:"text" binding:"required,max=64"`
	Color     string `json:"color" binding:"max=16"`
	SortOrder int    `json:"sort_order"`
}

type ParamCreatePost struct {
	CommunityID int64    `json:"community_id,string" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Content     string   `json:"content"`
	URL         string   `json:"url" binding:"omitempty,url"`
	Type        PostType `json:"type" binding:"omitempty,oneof=TEXT LINK POLL"`
	FlairID     *int64   `json:"flair_id,string"`
	PollOptions []string `json:"poll_options"`
}

type ParamEditContent struct {
	Content string `json:"content" binding:"required"`
}

type ParamCreateComment struct {
	PostID   int64  `json:"post_id,string" binding:"required"`
	ParentID *int64 `json:"parent_id,string"`
	Content  string `json:"content" binding:"required"`
}

type ParamRemoveContent struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// ParamVoteData 投票参数，NONE 表示取消投票
type ParamVoteData struct {
	TargetType TargetType `json:"target_type" binding:"required,oneof=post comment"`
	TargetID   int64      `json:"target_id,string" binding:"required"`
	Direction  VoteType   `json:"direction" binding:"required,oneof=UP DOWN NONE"`
}

type ParamPollVote struct {
	OptionID int64 `json:"option_id,string" binding:"required"`
}

// feed 排序与时间范围
const (
	SortHot = "hot"
	SortTop = "top"
	SortNew = "new"

	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeYear  = "year"
	RangeAll   = "all"
)

// feed 聚合范围
const (
	ScopeHome    = "home"
	ScopePopular = "popular"
	ScopeAll     = "all"
)

type ParamFeed struct {
	Sort      string `json:"sort" form:"sort" binding:"omitempty,oneof=hot top new"`
	TimeRange string `json:"time_range" form:"t" binding:"omitempty,oneof=today week month year all"`
	Cursor    string `json:"cursor" form:"cursor"`
	Limit     int    `json:"limit" form:"limit"`
}

// 评论排序
const (
	CommentSortTop = "top"
	CommentSortNew = "new"
	CommentSortOld = "old"
)

type ParamCommentList struct {
	Sort   string `json:"sort" form:"sort" binding:"omitempty,oneof=top new old"`
	Cursor string `json:"cursor" form:"cursor"`
	Limit  int    `json:"limit" form:"limit"`
}

type ParamReport struct {
	TargetType TargetType `json:"target_type" binding:"required,oneof=post comment"`
	TargetID   int64      `json:"target_id,string" binding:"required"`
	Reason     string     `json:"reason" binding:"required,max=1000"`
}

type ParamReportList struct {
	Status ReportStatus `json:"status" form:"status" binding:"omitempty,oneof=OPEN RESOLVED DISMISSED"`
	Cursor string       `json:"cursor" form:"cursor"`
	Limit  int          `json:"limit" form:"limit"`
}

// 举报处理动作
const (
	ResolveRemove  = "remove"
	ResolveDismiss = "dismiss"
)

type ParamResolveReport struct {
	Action string `json:"action" binding:"required,oneof=remove dismiss"`
	Reason string `json:"reason" binding:"max=1000"`
}

type ParamPage struct {
	Cursor string `json:"cursor" form:"cursor"`
	Limit  int    `json:"limit" form:"limit"`
}

// 搜索对象
const (
	SearchCommunity = "community"
	SearchPost      = "post"
	SearchComment   = "comment"
)

type ParamSearch struct {
	Query string `json:"q" form:"q" binding:"required,max=200"`
	Kind  string `json:"kind" form:"kind" binding:"omitempty,oneof=community post comment"`
	Limit int    `json:"limit" form:"limit"`
}

type ParamRefreshToken struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token" binding:"required"`
}
