package util

import (
	"strconv"
)

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// OptionalString returns nil when the query parameter was absent and a
// pointer to the raw value (possibly empty) when it was supplied. Filter
// skipping keys off absence, not emptiness.
func OptionalString(value string, present bool) *string {
	if !present {
		return nil
	}
	return &value
}
