// Package ranking provides access to the precomputed engagement rankings
// that back the featured feeds. The external scoring pipeline maintains one
// Redis sorted set per ranking key; this package reads them back as ordered
// candidate lists.
package ranking

import "context"

// Key names one ranked universe, e.g. KeyGallery for featured gallery posts.
type Key string

const (
	KeyGallery Key = "gallery"
	KeyNotes   Key = "notes"
)

// ScoredCandidate pairs an identifier with the score that ranked it
type ScoredCandidate struct {
	ID    string
	Score float64
}

// Source computes the current ranking for a key, deepest first.
// Implementations must return candidates in strictly descending score
// order with identifier-descending tie-breaks and no duplicates.
type Source interface {
	ComputeRanking(ctx context.Context, key Key, depth int) ([]ScoredCandidate, error)
}
