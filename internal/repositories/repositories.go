// package repositories provides read access to the mirror store.
//
// The mirror holds statistics precomputed by an ingestion job; nothing here writes to it.
package repositories

import (
	"sort"
	"strings"
)

const (
	// DefaultListLimit is used when a caller passes a non-positive limit.
	DefaultListLimit = 10
	// MaxListLimit caps every list read.
	MaxListLimit = 20
)

// clampLimit applies [DefaultListLimit] and [MaxListLimit].
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// splitGenres turns a GROUP_CONCAT result into a sorted list.
func splitGenres(list string) []string {
	if list == "" {
		return []string{}
	}
	genres := strings.Split(list, ",")
	sort.Strings(genres)
	return genres
}
