package models

import "time"

type CommunityType string

const (
	CommunityPublic     CommunityType = "PUBLIC"
	CommunityRestricted CommunityType = "RESTRICTED"
	CommunityPrivate    CommunityType = "PRIVATE"
)

func (t CommunityType) Valid() bool {
	switch t {
	case CommunityPublic, CommunityRestricted, CommunityPrivate:
		return true
	}
	return false
}

// Community 社区表，MemberCount 只通过原子增减维护
type Community struct {
	ID          int64         `json:"id,string" gorm:"column:community_id;primaryKey;autoIncrement:false"`
	Slug        string        `json:"slug" gorm:"column:slug;uniqueIndex;size:96;not null"`
	Name        string        `json:"name" gorm:"column:community_name;size:128;not null"`
	Description string        `json:"description" gorm:"column:description;type:text"`
	Sidebar     string        `json:"sidebar" gorm:"column:sidebar;type:text"`
	Type        CommunityType `json:"type" gorm:"column:type;size:16;not null;index"`
	IsNSFW      bool          `json:"is_nsfw" gorm:"column:is_nsfw;not null;default:false"`
	Icon        string        `json:"icon" gorm:"column:icon;size:512"`
	Banner      string        `json:"banner" gorm:"column:banner;size:512"`
	Color       string        `json:"color" gorm:"column:color;size:16"`
	MemberCount int64         `json:"member_count" gorm:"column:member_count;not null;default:0"`
	IsArchived  bool          `json:"is_archived" gorm:"column:is_archived;not null;default:false;index"`
	CreatorID   int64         `json:"creator_id,string" gorm:"column:creator_id;not null"`
	CreateTime  time.Time     `json:"create_time" gorm:"column:create_time;autoCreateTime"`
	UpdateTime  time.Time     `json:"update_time" gorm:"column:update_time;autoUpdateTime"`
}

func (Community) TableName() string {
	return "community"
}

// Discoverable 出现在列表、搜索和聚合 feed 中的社区
func (c *Community) Discoverable() bool {
	return !c.IsArchived && c.Type != CommunityPrivate
}

// CommunityRule 社区规则，按 SortOrder 升序展示
type CommunityRule struct {
	ID          int64     `json:"id,string" gorm:"column:rule_id;primaryKey;autoIncrement:false"`
	CommunityID int64     `json:"community_id,string" gorm:"column:community_id;index;not null"`
	Title       string    `json:"title" gorm:"column:title;size:128;not null"`
	Description string    `json:"description" gorm:"column:description;type:text"`
	SortOrder   int       `json:"sort_order" gorm:"column:sort_order;not null;default:0"`
	CreateTime  time.Time `json:"create_time" gorm:"column:create_time;autoCreateTime"`
}

func (CommunityRule) TableName() string {
	return "community_rule"
}

// CommunityFlair 帖子标签
type CommunityFlair struct {
	ID          int64     `json:"id,string" gorm:"column:flair_id;primaryKey;autoIncrement:false"`
	CommunityID int64     `json:"community_id,string" gorm:"column:community_id;index;not null"`
	Text        string    `json:"text" gorm:"column:text;size:64;not null"`
	Color       string    `json:"color" gorm:"column:color;size:16"`
	SortOrder   int       `json:"sort_order" gorm:"column:sort_order;not null;default:0"`
	CreateTime  time.Time `json:"create_time" gorm:"column:create_time;autoCreateTime"`
}

func (CommunityFlair) TableName() string {
	return "community_flair"
}
