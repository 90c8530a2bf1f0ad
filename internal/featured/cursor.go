package featured

import (
	apierrors "github.com/driftnote/backend/internal/errors"
)

// PageCursor bounds a page of an ordered identifier sequence. SinceID and
// UntilID are independent exclusive bounds; either or both may be empty.
// Bounds compare with strict inequality and are applied after the
// secondary re-sort.
type PageCursor struct {
	SinceID string
	UntilID string
	Limit   int
}

// NewPageCursor validates raw cursor parameters. A non-positive limit
// falls back to defaultLimit; limits above maxLimit are clamped, not
// rejected. Contradictory bounds (sinceId >= untilId) are rejected before
// any cache or storage access.
func NewPageCursor(sinceID, untilID string, limit, defaultLimit, maxLimit int) (PageCursor, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if sinceID != "" && untilID != "" && sinceID >= untilID {
		return PageCursor{}, apierrors.InvalidCursor("sinceId must be less than untilId")
	}
	return PageCursor{SinceID: sinceID, UntilID: untilID, Limit: limit}, nil
}

// Paginate applies the cursor to an ordered identifier sequence: drop IDs
// >= UntilID, drop IDs <= SinceID, then truncate to Limit preserving the
// input order. An empty window is an empty result, never an error.
func Paginate(orderedIDs []string, cursor PageCursor) []string {
	out := make([]string, 0, min(len(orderedIDs), cursor.Limit))
	for _, id := range orderedIDs {
		if cursor.UntilID != "" && id >= cursor.UntilID {
			continue
		}
		if cursor.SinceID != "" && id <= cursor.SinceID {
			continue
		}
		out = append(out, id)
		if len(out) == cursor.Limit {
			break
		}
	}
	return out
}

// Window slices items to [offset, offset+limit), clamped to the slice
// bounds. Used by the offset-paged featured-notes variant.
func Window[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
