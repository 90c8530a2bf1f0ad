package query

import (
	"time"

	"gorm.io/gorm"
)

// TextMatchType selects which columns a text filter matches against
type TextMatchType string

const (
	MatchNameAndDescription TextMatchType = "nameAndDescription"
	MatchNameOnly           TextMatchType = "nameOnly"
)

// Scopes below are conjunctive gorm filter fragments. Endpoints chain the
// ones that apply; everything composes with AND.

// PublicNotesOnly restricts to publicly visible, non-deleted notes
func PublicNotesOnly() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("visibility = ?", "public")
	}
}

// LocalOnly excludes federated (remote-origin) notes
func LocalOnly() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_host IS NULL")
	}
}

// MinScore keeps rows with an engagement score above the threshold
func MinScore(column string, threshold int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" > ?", threshold)
	}
}

// CreatedAfter applies the recency lower bound for windowed rankings
func CreatedAfter(cutoff time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at > ?", cutoff)
	}
}

// InChannel scopes notes to one channel when a channel ID is supplied.
// A nil channelID leaves the query untouched; scoping is triggered by
// presence of the parameter, not by non-emptiness.
func InChannel(channelID *string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if channelID == nil {
			return db
		}
		return db.Where("channel_id = ?", *channelID)
	}
}

// NotArchived keeps channels that haven't been archived
func NotArchived() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_archived = ?", false)
	}
}

// ExcludeAuthors removes content authored by the viewer's blocked and
// muted actors. No viewer, or nothing to exclude, is a no-op: anonymous
// requests see the unfiltered ranked set.
func ExcludeAuthors(ec *ExclusionContext) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !ec.HasViewer() {
			return db
		}
		excluded := ec.ExcludedActorIDs()
		if len(excluded) == 0 {
			return db
		}
		return db.Where("user_id NOT IN ?", excluded)
	}
}

// TextFilter matches name (and optionally description) against a
// case-insensitive substring. query == nil skips the filter entirely;
// an explicit empty string still filters, it is not treated as absence.
func TextFilter(q *string, matchType TextMatchType) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q == nil {
			return db
		}
		pattern := "%" + escapeLike(*q) + "%"
		if matchType == MatchNameOnly {
			return db.Where("name LIKE ?", pattern)
		}
		return db.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}
}

// CursorBounds applies since/until identifier bounds with strict
// inequality, for direct queries that paginate in the database
func CursorBounds(sinceID, untilID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if sinceID != "" {
			db = db.Where("id > ?", sinceID)
		}
		if untilID != "" {
			db = db.Where("id < ?", untilID)
		}
		return db
	}
}

// escapeLike neutralizes LIKE metacharacters in user-supplied text
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
