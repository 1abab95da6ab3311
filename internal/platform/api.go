package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MrSnakeDoc/scout/internal/domain"
	"github.com/MrSnakeDoc/scout/internal/utils"
)

// apiListing is the wire shape of a product returned by a marketplace
// search API. All numeric fields are optional on the wire.
type apiListing struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Brand         string   `json:"brand"`
	Price         *float64 `json:"price"`
	OriginalPrice *float64 `json:"original_price"`
	Rating        *float64 `json:"rating"`
	ReviewCount   *int     `json:"review_count"`
	ProductURL    string   `json:"product_url"`
	ImageURL      string   `json:"image_url"`
	Availability  string   `json:"availability"`
}

type apiResponse struct {
	Products []apiListing `json:"products"`
}

// APIAdapter fetches listings from a marketplace's JSON search API.
type APIAdapter struct {
	platform string
	baseURL  string
	client   *http.Client
}

// NewAPIAdapter builds an adapter for a JSON search endpoint. The
// client's own timeout stays zero; deadlines come from the caller's
// context so the aggregator controls them.
func NewAPIAdapter(platform, baseURL string, client *http.Client) *APIAdapter {
	if client == nil {
		client = &http.Client{}
	}
	return &APIAdapter{
		platform: platform,
		baseURL:  baseURL,
		client:   client,
	}
}

func (a *APIAdapter) Fetch(ctx context.Context, query string, maxResults int) ([]domain.Listing, error) {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url for %s: %w", a.platform, err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(maxResults))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", a.platform, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch from %s: %w", a.platform, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch from %s: unexpected status %d", a.platform, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", a.platform, err)
	}

	listings := make([]domain.Listing, 0, len(payload.Products))
	for _, p := range payload.Products {
		if len(listings) >= maxResults {
			break
		}
		if p.Name == "" || p.ProductURL == "" {
			continue
		}
		listings = append(listings, domain.Listing{
			Name:          p.Name,
			Description:   p.Description,
			Category:      p.Category,
			Brand:         p.Brand,
			Price:         p.Price,
			OriginalPrice: p.OriginalPrice,
			Rating:        clampRating(p.Rating),
			ReviewCount:   nonNegative(p.ReviewCount),
			Platform:      a.platform,
			ProductURL:    p.ProductURL,
			ImageURL:      p.ImageURL,
			Availability:  p.Availability,
		})
	}

	return listings, nil
}

const defaultUserAgent = "scout/1.0 (+https://github.com/MrSnakeDoc/scout)"

func clampRating(r *float64) *float64 {
	if r == nil {
		return nil
	}
	v := *r
	if v < 0 {
		v = 0
	}
	if v > 5 {
		v = 5
	}
	return &v
}

func nonNegative(n *int) *int {
	if n == nil || *n < 0 {
		return nil
	}
	return n
}

var _ Fetcher = (*APIAdapter)(nil)
