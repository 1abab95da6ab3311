package domain

import "testing"

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func TestApplyFilter(t *testing.T) {
	listings := []Listing{
		{ProductURL: "u1", Name: "cheap", Price: fp(10), Rating: fp(4.0), Platform: "amazon"},
		{ProductURL: "u2", Name: "mid", Price: fp(50), Rating: fp(3.0), Platform: "flipkart"},
		{ProductURL: "u3", Name: "pricey", Price: fp(200), Rating: fp(4.8), Platform: "amazon"},
		{ProductURL: "u4", Name: "no price", Platform: "meesho", Rating: fp(5.0)},
		{ProductURL: "u5", Name: "no rating", Price: fp(30), Platform: "myntra"},
	}

	tests := []struct {
		name     string
		spec     FilterSpec
		wantURLs []string
	}{
		{
			name:     "no constraints passes everything",
			spec:     FilterSpec{},
			wantURLs: []string{"u1", "u2", "u3", "u4", "u5"},
		},
		{
			name:     "min price drops cheaper and priceless",
			spec:     FilterSpec{MinPrice: fp(40)},
			wantURLs: []string{"u2", "u3"},
		},
		{
			name:     "max price drops pricier and priceless",
			spec:     FilterSpec{MaxPrice: fp(60)},
			wantURLs: []string{"u1", "u2", "u5"},
		},
		{
			name:     "price band",
			spec:     FilterSpec{MinPrice: fp(20), MaxPrice: fp(100)},
			wantURLs: []string{"u2", "u5"},
		},
		{
			name:     "platform allow list",
			spec:     FilterSpec{Platforms: []string{"amazon"}},
			wantURLs: []string{"u1", "u3"},
		},
		{
			name:     "min rating drops unrated",
			spec:     FilterSpec{MinRating: fp(3.5)},
			wantURLs: []string{"u1", "u3", "u4"},
		},
		{
			name:     "combined constraints",
			spec:     FilterSpec{MinPrice: fp(5), Platforms: []string{"amazon", "flipkart"}, MinRating: fp(4.0)},
			wantURLs: []string{"u1", "u3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilter(listings, tt.spec)

			if len(got) != len(tt.wantURLs) {
				t.Fatalf("expected %d listings, got %d", len(tt.wantURLs), len(got))
			}
			for i, url := range tt.wantURLs {
				if got[i].ProductURL != url {
					t.Errorf("position %d: expected %s, got %s", i, url, got[i].ProductURL)
				}
			}
		})
	}
}

func TestFilterSpecIsZero(t *testing.T) {
	if !(FilterSpec{}).IsZero() {
		t.Error("empty spec must report zero")
	}
	for name, spec := range map[string]FilterSpec{
		"min price": {MinPrice: fp(1)},
		"max price": {MaxPrice: fp(1)},
		"platforms": {Platforms: []string{"amazon"}},
		"rating":    {MinRating: fp(3)},
	} {
		if spec.IsZero() {
			t.Errorf("%s spec must not report zero", name)
		}
	}
}

func TestApplyFilterDoesNotMutate(t *testing.T) {
	listings := []Listing{
		{ProductURL: "u1", Price: fp(10)},
		{ProductURL: "u2", Price: fp(20)},
	}

	_ = ApplyFilter(listings, FilterSpec{MinPrice: fp(15)})

	if listings[0].ProductURL != "u1" || listings[1].ProductURL != "u2" {
		t.Error("input slice was mutated")
	}
	if len(listings) != 2 {
		t.Errorf("input length changed: %d", len(listings))
	}
}
