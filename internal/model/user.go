package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            uint `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
	Username      string         `json:"username"` // 显示名, 不要求唯一
	Email         string         `json:"email" gorm:"unique;not null;index;size:255"`
	Password      string         `json:"-" gorm:"not null"`
	Bio           string         `json:"bio"`
	Avatar        string         `json:"avatar"`
	Status        int            `json:"status" gorm:"default:1"` // 1: 正常, 2: 封禁
	EmailVerified bool           `json:"email_verified" gorm:"default:false"`

	StorageAccount *StorageAccount `json:"-" gorm:"foreignKey:UserID"`
}

// Follow 追踪关系, follower 追踪 following
type Follow struct {
	ID          uint `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time
	FollowerID  uint `json:"follower_id" gorm:"not null;index;uniqueIndex:idx_follow_pair"`
	FollowingID uint `json:"following_id" gorm:"not null;index;uniqueIndex:idx_follow_pair"`

	Follower  User `gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Following User `gorm:"foreignKey:FollowingID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}
