package models

import (
	"time"
)

// Meta is the singleton instance-settings row. SimpleMode disables the
// discovery surface (featured feeds, search); PinnedUsers lists the
// usernames promoted on the instance landing page.
type Meta struct {
	ID          string      `gorm:"primaryKey" json:"id"` // always "x"
	SimpleMode  bool        `json:"simple_mode"`
	PinnedUsers StringArray `gorm:"type:text" json:"pinned_users"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// MetaRowID is the fixed primary key of the singleton settings row
const MetaRowID = "x"

// TableName specifies the table name for Meta
func (Meta) TableName() string {
	return "meta"
}
