package platform

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *float64
	}{
		{name: "rupee with separators", text: "₹1,234.56", want: fp(1234.56)},
		{name: "dollar with space", text: "$ 99", want: fp(99)},
		{name: "plain number", text: "1234", want: fp(1234)},
		{name: "empty", text: "", want: nil},
		{name: "no digits", text: "price unavailable", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.text)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("expected %f, got %f", *tt.want, *got)
			}
		})
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *float64
	}{
		{name: "out of five", text: "4.3 out of 5 stars", want: fp(4.3)},
		{name: "bare value", text: "3.8", want: fp(3.8)},
		{name: "clamped above five", text: "9.7", want: fp(5.0)},
		{name: "empty", text: "", want: nil},
		{name: "no number", text: "unrated", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRating(tt.text)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("expected %f, got %f", *tt.want, *got)
			}
		})
	}
}

func TestParseReviewCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *int
	}{
		{name: "with separator", text: "1,234 ratings", want: np(1234)},
		{name: "bare number", text: "87", want: np(87)},
		{name: "empty", text: "", want: nil},
		{name: "no digits", text: "no reviews yet", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReviewCount(tt.text)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("expected %d, got %d", *tt.want, *got)
			}
		})
	}
}

func fp(v float64) *float64 { return &v }
func np(v int) *int         { return &v }
