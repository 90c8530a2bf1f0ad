package models

import (
	"time"

	"gorm.io/gorm"
)

// Channel is a topic-scoped collection of notes
type Channel struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	OwnerID     string     `gorm:"index" json:"owner_id"`
	Name        string     `gorm:"index" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	IsArchived  bool       `gorm:"index" json:"is_archived"`
	NoteCount   int        `json:"note_count"`
	LastNotedAt *time.Time `gorm:"index" json:"last_noted_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a time-prefixed ID if one wasn't provided
func (ch *Channel) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == "" {
		ch.ID = NewID()
	}
	return nil
}

// TableName specifies the table name for Channel
func (Channel) TableName() string {
	return "channels"
}
