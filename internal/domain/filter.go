package domain

// FilterSpec holds the user-supplied constraints applied to the merged
// result set before scoring. Nil pointer fields mean "not requested".
type FilterSpec struct {
	MinPrice  *float64
	MaxPrice  *float64
	Platforms []string
	MinRating *float64
}

// IsZero reports whether no constraint was requested.
func (f FilterSpec) IsZero() bool {
	return f.MinPrice == nil && f.MaxPrice == nil && f.MinRating == nil && len(f.Platforms) == 0
}

// hasPriceBound reports whether any price constraint was requested.
func (f FilterSpec) hasPriceBound() bool {
	return f.MinPrice != nil || f.MaxPrice != nil
}

// ApplyFilter returns the listings that satisfy the filter spec.
// It is a pure function: order-preserving, never mutates its input,
// always returns a new slice.
//
// A listing without a price fails only when a price bound was
// requested. A listing without a rating fails a min_rating filter.
func ApplyFilter(listings []Listing, spec FilterSpec) []Listing {
	out := make([]Listing, 0, len(listings))

	if spec.IsZero() {
		return append(out, listings...)
	}

	var allowed map[string]bool
	if len(spec.Platforms) > 0 {
		allowed = make(map[string]bool, len(spec.Platforms))
		for _, p := range spec.Platforms {
			allowed[p] = true
		}
	}

	for _, l := range listings {
		if spec.hasPriceBound() {
			if l.Price == nil {
				continue
			}
			if spec.MinPrice != nil && *l.Price < *spec.MinPrice {
				continue
			}
			if spec.MaxPrice != nil && *l.Price > *spec.MaxPrice {
				continue
			}
		}

		if allowed != nil && !allowed[l.Platform] {
			continue
		}

		if spec.MinRating != nil {
			if l.Rating == nil || *l.Rating < *spec.MinRating {
				continue
			}
		}

		out = append(out, l)
	}

	return out
}
