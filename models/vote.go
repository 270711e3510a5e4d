package models

import "time"

type VoteType string

const (
	VoteUp   VoteType = "UP"
	VoteDown VoteType = "DOWN"
	// VoteNone 只作为请求值，数据库中没有这一状态（对应删除记录）
	VoteNone VoteType = "NONE"
)

// Value UP=+1 DOWN=-1 NONE=0
func (v VoteType) Value() int64 {
	switch v {
	case VoteUp:
		return 1
	case VoteDown:
		return -1
	}
	return 0
}

type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

func (t TargetType) Valid() bool {
	return t == TargetPost || t == TargetComment
}

// Target 投票/举报的对象，帖子或评论二选一
type Target struct {
	Type TargetType
	ID   int64
}

// Vote 每个 (user, target) 最多一行；取消投票即删除该行
type Vote struct {
	ID         int64      `json:"id,string" gorm:"column:vote_id;primaryKey;autoIncrement:false"`
	UserID     int64      `json:"user_id,string" gorm:"column:user_id;not null;uniqueIndex:uk_vote_user_target,priority:1"`
	TargetType TargetType `json:"target_type" gorm:"column:target_type;size:8;not null;uniqueIndex:uk_vote_user_target,priority:2"`
	TargetID   int64      `json:"target_id,string" gorm:"column:target_id;not null;uniqueIndex:uk_vote_user_target,priority:3;index"`
	Type       VoteType   `json:"type" gorm:"column:type;size:8;not null"`
	CreateTime time.Time  `json:"create_time" gorm:"column:create_time;autoCreateTime"`
	UpdateTime time.Time  `json:"update_time" gorm:"column:update_time;autoUpdateTime"`
}

func (Vote) TableName() string {
	return "vote"
}
