package model

import (
	"time"
)

// Comment 留言, parent 为空表示顶层留言, 否则是巢状回复
type Comment struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	PostID     uint   `json:"post_id" gorm:"not null;index"`
	AuthorID   uint   `json:"author_id" gorm:"not null;index"`
	Content    string `json:"content" gorm:"type:text;not null"`
	ParentID   *uint  `json:"parent_id" gorm:"index"`
	LikesCount int    `json:"likes_count" gorm:"default:0"`

	Post   Post     `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Author User     `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Parent *Comment `gorm:"foreignKey:ParentID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}

// CommentLike 留言点赞, 同一用户对同一留言只能有一条
type CommentLike struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    uint `json:"user_id" gorm:"not null;uniqueIndex:idx_comment_like_pair"`
	CommentID uint `json:"comment_id" gorm:"not null;index;uniqueIndex:idx_comment_like_pair"`

	User    User    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Comment Comment `gorm:"foreignKey:CommentID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}
