package models

import "time"

type ModAction string

const (
	ActionRemovePost    ModAction = "REMOVE_POST"
	ActionRemoveComment ModAction = "REMOVE_COMMENT"
	ActionChangeRole    ModAction = "CHANGE_ROLE"
	ActionEditSettings  ModAction = "EDIT_SETTINGS"
	ActionEditRules     ModAction = "EDIT_RULES"
	ActionEditFlairs    ModAction = "EDIT_FLAIRS"
	ActionBan           ModAction = "BAN"
	ActionUnban         ModAction = "UNBAN"
	ActionRemoveMember  ModAction = "REMOVE_MEMBER"
	ActionArchive       ModAction = "ARCHIVE"
	ActionResolveReport ModAction = "RESOLVE_REPORT"
	ActionDismissReport ModAction = "DISMISS_REPORT"
)

// ModLog 只追加，不更新不删除
type ModLog struct {
	ID              int64          `json:"id,string" gorm:"column:modlog_id;primaryKey;autoIncrement:false"`
	CommunityID     int64          `json:"community_id,string" gorm:"column:community_id;not null;index"`
	ModeratorID     int64          `json:"moderator_id,string" gorm:"column:moderator_id;not null"`
	Action          ModAction      `json:"action" gorm:"column:action;size:32;not null"`
	TargetUserID    *int64         `json:"target_user_id,string,omitempty" gorm:"column:target_user_id"`
	TargetPostID    *int64         `json:"target_post_id,string,omitempty" gorm:"column:target_post_id"`
	TargetCommentID *int64         `json:"target_comment_id,string,omitempty" gorm:"column:target_comment_id"`
	Reason          string         `json:"reason,omitempty" gorm:"column:reason;size:1000"`
	Metadata        map[string]any `json:"metadata,omitempty" gorm:"column:metadata;type:json;serializer:json"`
	CreateTime      time.Time      `json:"create_time" gorm:"column:create_time;autoCreateTime"`
}

func (ModLog) TableName() string {
	return "community_modlog"
}
