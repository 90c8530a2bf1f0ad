package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a driftnote account. Host is nil for local accounts and
// holds the origin domain for federated (remote) accounts.
type User struct {
	ID            string  `gorm:"primaryKey" json:"id"`
	Username      string  `gorm:"uniqueIndex:idx_users_username_host" json:"username"`
	UsernameLower string  `gorm:"index" json:"-"`
	Host          *string `gorm:"uniqueIndex:idx_users_username_host" json:"host,omitempty"`
	DisplayName   string  `json:"display_name"`
	Bio           string  `gorm:"type:text" json:"bio"`
	AvatarURL     string  `json:"avatar_url"`
	IsSuspended   bool    `json:"is_suspended"`
	FollowerCount int     `json:"follower_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a time-prefixed ID if one wasn't provided
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

// IsLocal reports whether the account belongs to this instance
func (u *User) IsLocal() bool {
	return u.Host == nil
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
