package models

import "time"

type MemberRole string

const (
	RoleOwner     MemberRole = "OWNER"
	RoleModerator MemberRole = "MODERATOR"
	RoleMember    MemberRole = "MEMBER"
)

// rank 角色高低，用于排序和权限比较
func (r MemberRole) rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleModerator:
		return 2
	case RoleMember:
		return 1
	}
	return 0
}

// AtLeast r 是否不低于 other
func (r MemberRole) AtLeast(other MemberRole) bool {
	return r.rank() >= other.rank()
}

type CommunityMember struct {
	ID          int64      `json:"id,string" gorm:"column:member_id;primaryKey;autoIncrement:false"`
	CommunityID int64      `json:"community_id,string" gorm:"column:community_id;not null;uniqueIndex:uk_member_community_user,priority:1"`
	UserID      int64      `json:"user_id,string" gorm:"column:user_id;not null;uniqueIndex:uk_member_community_user,priority:2;index"`
	Role        MemberRole `json:"role" gorm:"column:role;size:16;not null"`
	JoinedAt    time.Time  `json:"joined_at" gorm:"column:joined_at;autoCreateTime"`
}

func (CommunityMember) TableName() string {
	return "community_member"
}

type BanStatus string

const (
	BanPermanent BanStatus = "PERMANENT"
	BanTemporary BanStatus = "TEMPORARY"
)

type CommunityBan struct {
	ID          int64      `json:"id,string" gorm:"column:ban_id;primaryKey;autoIncrement:false"`
	CommunityID int64      `json:"community_id,string" gorm:"column:community_id;not null;uniqueIndex:uk_ban_community_user,priority:1"`
	UserID      int64      `json:"user_id,string" gorm:"column:user_id;not null;uniqueIndex:uk_ban_community_user,priority:2"`
	Status      BanStatus  `json:"status" gorm:"column:status;size:16;not null"`
	ExpiresAt   *time.Time `json:"expires_at" gorm:"column:expires_at"`
	Reason      string     `json:"reason" gorm:"column:reason;size:512"`
	BannedBy    int64      `json:"banned_by,string" gorm:"column:banned_by;not null"`
	CreateTime  time.Time  `json:"create_time" gorm:"column:create_time;autoCreateTime"`
}

func (CommunityBan) TableName() string {
	return "community_ban"
}

// InEffect 临时封禁过期后不再生效
func (b *CommunityBan) InEffect(now time.Time) bool {
	if b.Status == BanTemporary && b.ExpiresAt != nil && !now.Before(*b.ExpiresAt) {
		return false
	}
	return true
}
