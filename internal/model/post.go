package model

import (
	"time"
)

// 文章发布状态
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// 文章可见性
const (
	VisibilityPublic    = "public"    // 开放所有人
	VisibilityPrivate   = "private"   // 只限本人
	VisibilityFollowers = "followers" // 只限追踪者
	VisibilityMembers   = "members"   // 只限登录会员
)

type Post struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Title     string `json:"title" gorm:"size:255"`
	Slug      string `json:"slug" gorm:"uniqueIndex;size:255;default:null"`
	// ProseMirror JSON 文档, 原样存储, 摘要和缩图在发布时从中提取
	Content      string `json:"content" gorm:"type:text"`
	Summary      string `json:"summary" gorm:"type:text"` // 文章摘要, 用于 SEO 或列表显示
	ThumbnailURL string `json:"thumbnail_url" gorm:"size:1800"`
	Status       string `json:"status" gorm:"size:20;default:'draft'"`
	Visibility   string `json:"visibility" gorm:"size:50;default:'public'"`
	ViewsCount   uint   `json:"views_count" gorm:"default:0"`
	AuthorID     uint   `json:"author_id" gorm:"not null;index"`

	Author User  `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Tags   []Tag `gorm:"many2many:tag_managements;" json:"-"`
}

type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:100;not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;size:100"`
}

// PostLike 文章点赞, 同一用户对同一文章只能有一条
type PostLike struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    uint `json:"user_id" gorm:"not null;uniqueIndex:idx_post_like_pair"`
	PostID    uint `json:"post_id" gorm:"not null;index;uniqueIndex:idx_post_like_pair"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Post Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}

// Bookmark 收藏文章
type Bookmark struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    uint `json:"user_id" gorm:"not null;uniqueIndex:idx_bookmark_pair"`
	PostID    uint `json:"post_id" gorm:"not null;index;uniqueIndex:idx_bookmark_pair"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Post Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}

// PostImage 文章内的图片
type PostImage struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	PostID     uint   `json:"post_id" gorm:"not null;index"`
	Filename   string `json:"filename" gorm:"not null"`
	Path       string `json:"path" gorm:"not null;unique"`
	Size       int64  `json:"size" gorm:"not null"`
	IsCover    bool   `json:"is_cover" gorm:"default:false"`
	UploadedAt int64  `json:"uploaded_at" gorm:"not null;index"`

	Post Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}

// PostVideo 文章内的影片
type PostVideo struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	PostID     uint   `json:"post_id" gorm:"not null;index"`
	Filename   string `json:"filename" gorm:"not null"`
	Path       string `json:"path" gorm:"not null;unique"`
	Size       int64  `json:"size" gorm:"not null"`
	UploadedAt int64  `json:"uploaded_at" gorm:"not null;index"`

	Post Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}
