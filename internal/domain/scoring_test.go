package domain

import (
	"math"
	"testing"
)

var testWeights = Weights{Trust: 0.4, Rating: 0.3, Price: 0.2, Reviews: 0.1}

var testTrust = TrustTable{
	"amazon":   0.95,
	"flipkart": 0.90,
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{
			name:    "valid weights",
			weights: Weights{Trust: 0.4, Rating: 0.3, Price: 0.2, Reviews: 0.1},
			wantErr: false,
		},
		{
			name:    "sum too low",
			weights: Weights{Trust: 0.4, Rating: 0.3, Price: 0.2, Reviews: 0.0},
			wantErr: true,
		},
		{
			name:    "sum too high",
			weights: Weights{Trust: 0.5, Rating: 0.3, Price: 0.2, Reviews: 0.1},
			wantErr: true,
		},
		{
			name:    "negative weight",
			weights: Weights{Trust: 1.2, Rating: -0.3, Price: 0.05, Reviews: 0.05},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestTrustTableDefault(t *testing.T) {
	if got := testTrust.Score("amazon"); !almostEqual(got, 0.95) {
		t.Errorf("expected 0.95 for amazon, got %f", got)
	}
	if got := testTrust.Score("unknown-shop"); !almostEqual(got, DefaultTrust) {
		t.Errorf("expected neutral default %f for unknown platform, got %f", DefaultTrust, got)
	}
}

func TestLexicalSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		listing Listing
		want    float64
	}{
		{
			name:    "all terms match",
			query:   "wireless headphones",
			listing: Listing{Name: "Wireless Headphones Pro", Description: "great sound"},
			want:    1.0,
		},
		{
			name:    "half the terms match",
			query:   "wireless speaker",
			listing: Listing{Name: "Wireless Headphones"},
			want:    0.5,
		},
		{
			name:    "match in category",
			query:   "audio",
			listing: Listing{Name: "Headphones", Category: "Audio"},
			want:    1.0,
		},
		{
			name:    "no terms match",
			query:   "garden hose",
			listing: Listing{Name: "Wireless Headphones", Description: "bluetooth 5.3"},
			want:    0.0,
		},
		{
			name:    "empty query",
			query:   "   ",
			listing: Listing{Name: "anything"},
			want:    0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LexicalSimilarity(tt.query, &tt.listing)
			if !almostEqual(got, tt.want) {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestPriceScoreExtremes(t *testing.T) {
	engine := NewEngine(testWeights, testTrust)

	listings := []Listing{
		{ProductURL: "cheap", Name: "x", Price: fp(10)},
		{ProductURL: "mid", Name: "x", Price: fp(55)},
		{ProductURL: "expensive", Name: "x", Price: fp(100)},
	}

	scored := engine.ScoreRealtime("x", listings)

	// With only the price component varying, recommendation scores
	// must decrease from cheapest to most expensive. Extract the price
	// component: rec = w_trust*0.5 + w_price*price_score.
	base := testWeights.Trust * DefaultTrust
	priceOf := func(s ScoredListing) float64 {
		return (s.RecommendationScore - base) / testWeights.Price
	}

	if got := priceOf(scored[0]); !almostEqual(got, 1.0) {
		t.Errorf("cheapest listing price_score: expected exactly 1.0, got %f", got)
	}
	if got := priceOf(scored[1]); !almostEqual(got, 0.5) {
		t.Errorf("mid listing price_score: expected 0.5, got %f", got)
	}
	if got := priceOf(scored[2]); !almostEqual(got, 0.0) {
		t.Errorf("most expensive listing price_score: expected exactly 0.0, got %f", got)
	}
}

func TestPriceScoreAllEqual(t *testing.T) {
	engine := NewEngine(testWeights, testTrust)

	listings := []Listing{
		{ProductURL: "a", Name: "x", Price: fp(42)},
		{ProductURL: "b", Name: "x", Price: fp(42)},
		{ProductURL: "c", Name: "x", Price: fp(42)},
	}

	scored := engine.ScoreRealtime("x", listings)

	base := testWeights.Trust * DefaultTrust
	for _, s := range scored {
		got := (s.RecommendationScore - base) / testWeights.Price
		if !almostEqual(got, 1.0) {
			t.Errorf("listing %s: expected price_score 1.0 for equal-price set, got %f", s.ProductURL, got)
		}
	}
}

func TestZeroMatchQueryRanksByRecommendation(t *testing.T) {
	engine := NewEngine(testWeights, testTrust)

	listings := []Listing{
		{ProductURL: "a", Name: "toaster", Price: fp(30), Rating: fp(2.0), Platform: "meesho"},
		{ProductURL: "b", Name: "kettle", Price: fp(30), Rating: fp(5.0), Platform: "amazon", ReviewCount: ip(500)},
	}

	scored := engine.ScoreRealtime("quantum flux capacitor", listings)

	for _, s := range scored {
		if s.SimilarityScore != 0.0 {
			t.Errorf("listing %s: expected similarity 0.0, got %f", s.ProductURL, s.SimilarityScore)
		}
		if !almostEqual(s.CombinedScore, 0.7*s.RecommendationScore) {
			t.Errorf("listing %s: combined score should be recommendation-only, got %f vs rec %f",
				s.ProductURL, s.CombinedScore, s.RecommendationScore)
		}
	}

	// The better-rated, better-trusted listing must still outrank.
	if scored[1].CombinedScore <= scored[0].CombinedScore {
		t.Error("expected the high-rating trusted listing to outscore the low-rating one")
	}
}

func TestReviewScoreNormalization(t *testing.T) {
	engine := NewEngine(Weights{Reviews: 1.0}, TrustTable{})

	listings := []Listing{
		{ProductURL: "a", Name: "x", Price: fp(10), ReviewCount: ip(100)},
		{ProductURL: "b", Name: "x", Price: fp(10), ReviewCount: ip(50)},
		{ProductURL: "c", Name: "x", Price: fp(10)},
	}

	scored := engine.ScoreRealtime("x", listings)

	if !almostEqual(scored[0].RecommendationScore, 1.0) {
		t.Errorf("max reviews: expected 1.0, got %f", scored[0].RecommendationScore)
	}
	if !almostEqual(scored[1].RecommendationScore, 0.5) {
		t.Errorf("half of max reviews: expected 0.5, got %f", scored[1].RecommendationScore)
	}
	if !almostEqual(scored[2].RecommendationScore, 0.0) {
		t.Errorf("absent review count: expected 0.0, got %f", scored[2].RecommendationScore)
	}
}

func TestTrainedBlendFavorsSimilarity(t *testing.T) {
	engine := NewEngine(testWeights, testTrust)

	candidates := []Candidate{
		{Listing: Listing{ProductURL: "a", Price: fp(10)}, Similarity: 0.9},
		{Listing: Listing{ProductURL: "b", Price: fp(10)}, Similarity: 0.1},
	}

	scored := engine.ScoreTrained(candidates)

	for i, c := range candidates {
		want := 0.6*c.Similarity + 0.4*scored[i].RecommendationScore
		if !almostEqual(scored[i].CombinedScore, want) {
			t.Errorf("candidate %s: expected trained blend %f, got %f",
				c.Listing.ProductURL, want, scored[i].CombinedScore)
		}
	}
}

func TestScoreEmptyCandidateSet(t *testing.T) {
	engine := NewEngine(testWeights, testTrust)

	if got := engine.ScoreRealtime("anything", nil); len(got) != 0 {
		t.Errorf("expected empty result for empty set, got %d", len(got))
	}
	if got := engine.ScoreTrained(nil); len(got) != 0 {
		t.Errorf("expected empty result for empty set, got %d", len(got))
	}
}
