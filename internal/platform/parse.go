package platform

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	priceRe  = regexp.MustCompile(`[^\d.]`)
	ratingRe = regexp.MustCompile(`\d+(\.\d+)?`)
	digitRe  = regexp.MustCompile(`[^\d]`)
)

// ParsePrice extracts a currency-normalized price from marketplace
// text like "₹1,234.56" or "$ 99". Returns nil when no usable number
// is present.
func ParsePrice(text string) *float64 {
	if text == "" {
		return nil
	}
	clean := priceRe.ReplaceAllString(strings.ReplaceAll(text, ",", ""), "")
	if clean == "" || clean == "." {
		return nil
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseRating extracts a 0.0-5.0 rating from text like "4.3 out of 5
// stars". Values outside the range are clamped.
func ParseRating(text string) *float64 {
	if text == "" {
		return nil
	}
	match := ratingRe.FindString(text)
	if match == "" {
		return nil
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	if v > 5.0 {
		v = 5.0
	}
	if v < 0.0 {
		v = 0.0
	}
	return &v
}

// ParseReviewCount extracts a non-negative review count from text like
// "1,234 ratings". Returns nil when no digits are present.
func ParseReviewCount(text string) *int {
	if text == "" {
		return nil
	}
	clean := digitRe.ReplaceAllString(text, "")
	if clean == "" {
		return nil
	}
	v, err := strconv.Atoi(clean)
	if err != nil {
		return nil
	}
	return &v
}
