package models

import (
	"time"

	"gorm.io/gorm"
)

// Note visibility levels. Only public notes are eligible for featured feeds.
const (
	VisibilityPublic    = "public"
	VisibilityHome      = "home"
	VisibilityFollowers = "followers"
)

// Note is a text post, optionally attached to a channel. Score is the
// engagement score maintained by the external scoring pipeline; the
// featured-notes feed thresholds and orders on it directly.
type Note struct {
	ID          string  `gorm:"primaryKey" json:"id"`
	UserID      string  `gorm:"index" json:"user_id"`
	User        User    `gorm:"foreignKey:UserID" json:"user"`
	UserHost    *string `gorm:"index" json:"user_host,omitempty"` // denormalized from User for cheap local-only filters
	ChannelID   *string `gorm:"index" json:"channel_id,omitempty"`
	Text        string  `gorm:"type:text" json:"text"`
	Visibility  string  `gorm:"index;default:public" json:"visibility"`
	Score       int     `gorm:"index" json:"score"`
	LikeCount   int     `json:"like_count"`
	RenoteCount int     `json:"renote_count"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a time-prefixed ID if one wasn't provided
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = NewID()
	}
	return nil
}

// TableName specifies the table name for Note
func (Note) TableName() string {
	return "notes"
}
