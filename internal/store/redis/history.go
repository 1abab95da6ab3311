package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// historyMaxEntries caps the recent-search list
	historyMaxEntries = 500
)

// SearchRecord is one entry in the recent-search history.
type SearchRecord struct {
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	At          time.Time `json:"at"`
}

// TrendingTerm is a search term with its accumulated frequency.
type TrendingTerm struct {
	Term  string  `json:"term"`
	Count float64 `json:"count"`
}

// RecordSearch bumps the term's trending score and appends a record to
// the capped history list. It satisfies the search service's history
// recorder interface.
func (s *Store) RecordSearch(ctx context.Context, query string, resultCount int) error {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return nil
	}

	record := SearchRecord{Query: term, ResultCount: resultCount, At: time.Now()}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal search record: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.ZIncrBy(ctx, KeyTrending, 1, term)
	pipe.LPush(ctx, KeyHistory, data)
	pipe.LTrim(ctx, KeyHistory, 0, historyMaxEntries-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}

	return nil
}

// TopSearches returns the n most frequent search terms, best first.
func (s *Store) TopSearches(ctx context.Context, n int) ([]TrendingTerm, error) {
	if n <= 0 {
		return []TrendingTerm{}, nil
	}

	members, err := s.client.ZRevRangeWithScores(ctx, KeyTrending, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get trending terms: %w", err)
	}

	terms := make([]TrendingTerm, 0, len(members))
	for _, m := range members {
		term, ok := m.Member.(string)
		if !ok {
			continue
		}
		terms = append(terms, TrendingTerm{Term: term, Count: m.Score})
	}

	return terms, nil
}

// RecentSearches returns the n most recent search records, newest first.
func (s *Store) RecentSearches(ctx context.Context, n int) ([]SearchRecord, error) {
	if n <= 0 {
		return []SearchRecord{}, nil
	}

	raw, err := s.client.LRange(ctx, KeyHistory, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get search history: %w", err)
	}

	records := make([]SearchRecord, 0, len(raw))
	for _, entry := range raw {
		var record SearchRecord
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
