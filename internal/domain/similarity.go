package domain

import "strings"

// LexicalSimilarity is the zero-training similarity used in real-time
// mode: the fraction of query terms found as substrings of the
// listing's lower-cased name+description+category, clipped to [0,1].
//
// It is intentionally cheap so it can run inline for every listing in
// the request path with no precomputation.
func LexicalSimilarity(query string, l *Listing) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0.0
	}

	text := l.SearchText()

	matches := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			matches++
		}
	}

	score := float64(matches) / float64(len(terms))
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// lowerJoin joins the non-empty parts with single spaces and lowers
// the result.
func lowerJoin(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.ToLower(strings.Join(kept, " "))
}
