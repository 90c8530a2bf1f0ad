package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// idEpoch is the base time for identifier timestamps (2020-01-01 UTC).
// Subtracting it keeps the base36 prefix short and stable in length.
var idEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

// NewID generates a time-prefixed identifier. The prefix is the creation
// time in base36 so lexicographic order on IDs matches creation order,
// which is what cursor pagination and the chronological re-sort rely on.
func NewID() string {
	return NewIDAt(time.Now())
}

// NewIDAt generates an identifier for an explicit creation time.
// Exposed for seeding and tests that need deterministic ordering.
func NewIDAt(t time.Time) string {
	ms := t.UnixMilli() - idEpoch
	if ms < 0 {
		ms = 0
	}
	prefix := strconv.FormatInt(ms, 36)
	// Fixed-width prefix keeps string comparison consistent with numeric order.
	if pad := 9 - len(prefix); pad > 0 {
		prefix = strings.Repeat("0", pad) + prefix
	}
	entropy := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return prefix + entropy
}
