package model

import (
	"time"
)

type Album struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time
	Name      string `json:"name" gorm:"size:100;default:'新增相簿名稱'"`
	AuthorID  uint   `json:"author_id" gorm:"not null;index"`

	Author User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}

type AlbumImage struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	AlbumID    uint   `json:"album_id" gorm:"not null;index"`
	Filename   string `json:"filename" gorm:"not null"`
	Path       string `json:"path" gorm:"not null;unique"`
	Size       int64  `json:"size" gorm:"not null"`
	IsCover    bool   `json:"is_cover" gorm:"default:false"`
	UploadedAt int64  `json:"uploaded_at" gorm:"not null;index"`

	Album Album `gorm:"foreignKey:AlbumID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}
