package config

import (
	"os"
	"testing"
	"time"
)

func TestGetenvFloat(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldSet bool
		def       float64
		want      float64
	}{
		{name: "set valid", value: "0.35", shouldSet: true, def: 0.1, want: 0.35},
		{name: "not set falls back", shouldSet: false, def: 0.1, want: 0.1},
		{name: "invalid falls back", value: "not-a-float", shouldSet: true, def: 0.2, want: 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "SCOUT_TEST_FLOAT"
			if tt.shouldSet {
				t.Setenv(key, tt.value)
			} else {
				os.Unsetenv(key)
			}

			if got := getenvFloat(key, tt.def); got != tt.want {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldSet bool
		def       time.Duration
		want      time.Duration
	}{
		{name: "set valid", value: "7s", shouldSet: true, def: time.Second, want: 7 * time.Second},
		{name: "not set falls back", shouldSet: false, def: 3 * time.Second, want: 3 * time.Second},
		{name: "invalid falls back", value: "soon", shouldSet: true, def: time.Minute, want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "SCOUT_TEST_DURATION"
			if tt.shouldSet {
				t.Setenv(key, tt.value)
			} else {
				os.Unsetenv(key)
			}

			if got := mustDuration(key, tt.def); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLoadValidatesWeights(t *testing.T) {
	tests := []struct {
		name      string
		weights   [4]string // trust, rating, price, reviews
		wantPanic bool
	}{
		{name: "defaults sum to one", weights: [4]string{"0.4", "0.3", "0.2", "0.1"}},
		{name: "drifting sum rejected", weights: [4]string{"0.4", "0.3", "0.2", "0.2"}, wantPanic: true},
		{name: "negative weight rejected", weights: [4]string{"1.2", "-0.3", "0.05", "0.05"}, wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SCOUT_REDIS_ADDR", "localhost:6379")
			t.Setenv("SCOUT_REDIS_PASSWORD_REQUIRED", "false")
			t.Setenv("SCOUT_WEIGHT_TRUST", tt.weights[0])
			t.Setenv("SCOUT_WEIGHT_RATING", tt.weights[1])
			t.Setenv("SCOUT_WEIGHT_PRICE", tt.weights[2])
			t.Setenv("SCOUT_WEIGHT_REVIEWS", tt.weights[3])

			defer func() {
				r := recover()
				if tt.wantPanic && r == nil {
					t.Error("expected Load to panic on invalid weights")
				}
				if !tt.wantPanic && r != nil {
					t.Errorf("expected Load to accept valid weights, panicked: %v", r)
				}
			}()
			Load()
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` laptop, "smartphone" ,, headphones `)
	want := []string{"laptop", "smartphone", "headphones"}

	if len(got) != len(want) {
		t.Fatalf("expected %d parts, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("part %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
