package models

import (
	"time"

	"gorm.io/gorm"
)

// GalleryPost is an image post in the gallery section. LikedCount feeds
// both the "popular" threshold query and the external ranking pipeline
// that produces the featured-gallery sorted set.
type GalleryPost struct {
	ID          string      `gorm:"primaryKey" json:"id"`
	UserID      string      `gorm:"index" json:"user_id"`
	User        User        `gorm:"foreignKey:UserID" json:"user"`
	Title       string      `json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	FileURLs    StringArray `gorm:"type:text" json:"file_urls"`
	IsSensitive bool        `json:"is_sensitive"`
	LikedCount  int         `gorm:"index" json:"liked_count"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a time-prefixed ID if one wasn't provided
func (p *GalleryPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// TableName specifies the table name for GalleryPost
func (GalleryPost) TableName() string {
	return "gallery_posts"
}
