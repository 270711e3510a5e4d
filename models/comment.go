package models

import "time"

// Comment CommunityID 冗余存储，权限检查不必回表查帖子
type Comment struct {
	ID          int64         `json:"id,string" gorm:"column:comment_id;primaryKey;autoIncrement:false"`
	PostID      int64         `json:"post_id,string" gorm:"column:post_id;not null;index"`
	CommunityID int64         `json:"community_id,string" gorm:"column:community_id;not null;index"`
	AuthorID    int64         `json:"author_id,string" gorm:"column:author_id;not null;index"`
	ParentID    *int64        `json:"parent_id,string,omitempty" gorm:"column:parent_id;index"`
	Content     string        `json:"content" gorm:"column:content;type:text;not null"`
	Score       int64         `json:"score" gorm:"column:score;not null;default:0"`
	Status      ContentStatus `json:"status" gorm:"column:status;size:16;not null"`
	CreateTime  time.Time     `json:"create_time" gorm:"column:create_time;autoCreateTime"`
	EditedAt    *time.Time    `json:"edited_at" gorm:"column:edited_at"`
}

func (Comment) TableName() string {
	return "comment"
}
