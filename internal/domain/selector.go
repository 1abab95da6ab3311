package domain

import (
	"sort"

	"github.com/google/uuid"
)

const (
	// DefaultResultFloor and DefaultResultCeiling bound the truncated
	// result list: never fewer than the floor nor more than the
	// ceiling when enough candidates exist. Completeness is traded for
	// a short, non-overwhelming list.
	DefaultResultFloor   = 5
	DefaultResultCeiling = 10
)

// SelectTop deduplicates, assigns missing identifiers, ranks and
// truncates a scored candidate set.
//
// Deduplication is by ProductURL, first occurrence wins. Since merge
// order is completion order, a cross-platform duplicate is resolved as
// "first platform to respond wins" - a documented policy.
//
// The sort is stable and descending by combined score; ties keep their
// merge order.
func SelectTop(scored []ScoredListing, floor, ceiling int) []ScoredListing {
	if floor <= 0 {
		floor = DefaultResultFloor
	}
	if ceiling < floor {
		ceiling = DefaultResultCeiling
	}

	seen := make(map[string]bool, len(scored))
	deduped := make([]ScoredListing, 0, len(scored))
	for _, s := range scored {
		if seen[s.ProductURL] {
			continue
		}
		seen[s.ProductURL] = true
		if s.ID == "" {
			s.ID = SyntheticID(s.ProductURL)
		}
		deduped = append(deduped, s)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].CombinedScore > deduped[j].CombinedScore
	})

	top := len(deduped)
	if top < floor {
		return deduped
	}
	if top > ceiling {
		top = ceiling
	}
	return deduped[:top]
}

// SyntheticID derives a stable identifier from a listing's source URL.
// The same URL always yields the same ID (UUIDv5 in the URL namespace).
func SyntheticID(productURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(productURL)).String()
}
