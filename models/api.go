package models

// Page 游标分页结果，NextCursor 为空表示没有下一页
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor"`
}

type UserBrief struct {
	UserID   int64  `json:"user_id,string"`
	Username string `json:"username"`
	Karma    int64  `json:"karma"`
}

type CommunityBrief struct {
	ID     int64  `json:"id,string"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	IsNSFW bool   `json:"is_nsfw"`
	Icon   string `json:"icon,omitempty"`
}

// ApiPostDetail 返回给客户端的帖子详情
type ApiPostDetail struct {
	*Post
	IsDeleted  bool            `json:"is_deleted"`
	IsRemoved  bool            `json:"is_removed"`
	Author     *UserBrief      `json:"author"`
	Community  *CommunityBrief `json:"community"`
	ViewerVote VoteType        `json:"viewer_vote,omitempty"`
	PollChoice *int64          `json:"poll_choice,string,omitempty"`
	HotScore   float64         `json:"hot_score,omitempty"`
}

type ApiCommentDetail struct {
	*Comment
	IsDeleted  bool       `json:"is_deleted"`
	IsRemoved  bool       `json:"is_removed"`
	Author     *UserBrief `json:"author"`
	ViewerVote VoteType   `json:"viewer_vote,omitempty"`
}

// ApiCommunityDetail 社区详情，带上当前用户的成员身份
type ApiCommunityDetail struct {
	*Community
	Viewer *Membership `json:"viewer,omitempty"`
}

// Membership 用户在某社区的身份
type Membership struct {
	IsMember    bool          `json:"is_member"`
	Role        MemberRole    `json:"role,omitempty"`
	IsBanned    bool          `json:"is_banned"`
	Ban         *CommunityBan `json:"ban,omitempty"`
	IsAdmin     bool          `json:"is_admin"`
	CanModerate bool          `json:"can_moderate"`
}

type ApiMember struct {
	*CommunityMember
	Username string `json:"username"`
}

// VoteResult 投票后的最新分数
type VoteResult struct {
	TargetType TargetType `json:"target_type"`
	TargetID   int64      `json:"target_id,string"`
	Score      int64      `json:"score"`
	Vote       VoteType   `json:"vote"`
}

type SearchResult struct {
	Communities []*Community        `json:"communities,omitempty"`
	Posts       []*ApiPostDetail    `json:"posts,omitempty"`
	Comments    []*ApiCommentDetail `json:"comments,omitempty"`
}
