package models

import (
	"time"
)

// Blocking records that Blocker has blocked Blockee. Content authored by a
// blocked account is removed from the blocker's feeds.
type Blocking struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	BlockerID string    `gorm:"uniqueIndex:idx_blockings_pair" json:"blocker_id"`
	BlockeeID string    `gorm:"uniqueIndex:idx_blockings_pair" json:"blockee_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Blocking
func (Blocking) TableName() string {
	return "blockings"
}

// Muting hides the muted account's content from the muter's feeds without
// affecting the follow relationship.
type Muting struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	MuterID   string    `gorm:"uniqueIndex:idx_mutings_pair" json:"muter_id"`
	MuteeID   string    `gorm:"uniqueIndex:idx_mutings_pair" json:"mutee_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Muting
func (Muting) TableName() string {
	return "mutings"
}
