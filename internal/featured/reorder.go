package featured

import "sort"

// ReorderByID re-sorts a score-ordered identifier list into identifier
// descending order. Identifiers are time-prefixed, so "greater ID" means
// "created later" and the result is newest-first chronological order.
//
// The input is never modified; the output is a permutation of it.
func ReorderByID(orderedIDs []string) []string {
	out := make([]string, len(orderedIDs))
	copy(out, orderedIDs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i] > out[j]
	})
	return out
}
