package models

import "time"

type PostType string

const (
	PostText PostType = "TEXT"
	PostLink PostType = "LINK"
	PostPoll PostType = "POLL"
)

func (t PostType) Valid() bool {
	switch t {
	case PostText, PostLink, PostPoll:
		return true
	}
	return false
}

// Post Score/CommentCount/ViewCount 都是反范式计数，只做原子增减
type Post struct {
	ID           int64         `json:"id,string" gorm:"column:post_id;primaryKey;autoIncrement:false"`
	CommunityID  int64         `json:"community_id,string" gorm:"column:community_id;not null;index:idx_post_community_score,priority:1"`
	AuthorID     int64         `json:"author_id,string" gorm:"column:author_id;not null;index"`
	Title        string        `json:"title" gorm:"column:title;size:300;not null"`
	Content      string        `json:"content" gorm:"column:content;type:text"`
	URL          string        `json:"url,omitempty" gorm:"column:url;size:2048"`
	Type         PostType      `json:"type" gorm:"column:type;size:8;not null"`
	FlairID      *int64        `json:"flair_id,string,omitempty" gorm:"column:flair_id"`
	Score        int64         `json:"score" gorm:"column:score;not null;default:0;index:idx_post_community_score,priority:2"`
	ViewCount    int64         `json:"view_count" gorm:"column:view_count;not null;default:0"`
	CommentCount int64         `json:"comment_count" gorm:"column:comment_count;not null;default:0"`
	Status       ContentStatus `json:"status" gorm:"column:status;size:16;not null;index"`
	CreateTime   time.Time     `json:"create_time" gorm:"column:create_time;autoCreateTime;index"`
	UpdateTime   time.Time     `json:"update_time" gorm:"column:update_time;autoUpdateTime"`
	EditedAt     *time.Time    `json:"edited_at" gorm:"column:edited_at"`

	PollOptions []*PollOption `json:"poll_options,omitempty" gorm:"foreignKey:PostID;references:ID"`
}

func (Post) TableName() string {
	return "post"
}

// PollOption 投票帖的选项，VoteCount 由独立的 PollVote 账本维护
type PollOption struct {
	ID        int64  `json:"id,string" gorm:"column:option_id;primaryKey;autoIncrement:false"`
	PostID    int64  `json:"post_id,string" gorm:"column:post_id;not null;index"`
	Text      string `json:"text" gorm:"column:text;size:128;not null"`
	SortOrder int    `json:"sort_order" gorm:"column:sort_order;not null;default:0"`
	VoteCount int64  `json:"vote_count" gorm:"column:vote_count;not null;default:0"`
}

func (PollOption) TableName() string {
	return "poll_option"
}

type PollVote struct {
	ID         int64     `json:"id,string" gorm:"column:poll_vote_id;primaryKey;autoIncrement:false"`
	PostID     int64     `json:"post_id,string" gorm:"column:post_id;not null;uniqueIndex:uk_poll_vote_post_user,priority:1"`
	UserID     int64     `json:"user_id,string" gorm:"column:user_id;not null;uniqueIndex:uk_poll_vote_post_user,priority:2"`
	OptionID   int64     `json:"option_id,string" gorm:"column:option_id;not null"`
	CreateTime time.Time `json:"create_time" gorm:"column:create_time;autoCreateTime"`
}

func (PollVote) TableName() string {
	return "poll_vote"
}
