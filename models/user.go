package models

import "time"

// User 用户表，karma 为用户内容收到的投票累计
type User struct {
	UserID     int64     `json:"user_id,string" gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Username   string    `json:"username" gorm:"column:username;uniqueIndex;size:64;not null"`
	Password   string    `json:"-" gorm:"column:password;size:128;not null"`
	Karma      int64     `json:"karma" gorm:"column:karma;not null;default:0"`
	CreateTime time.Time `json:"create_time" gorm:"column:create_time;autoCreateTime"`
}

func (User) TableName() string {
	return "user"
}
