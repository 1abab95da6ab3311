package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MrSnakeDoc/scout/internal/domain"
	"github.com/MrSnakeDoc/scout/internal/utils"
)

// Selectors are the CSS selectors that locate listing fields on a
// marketplace search-results page. Item is required; empty field
// selectors leave the field unset.
type Selectors struct {
	Item          string `yaml:"item"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Category      string `yaml:"category"`
	Brand         string `yaml:"brand"`
	Price         string `yaml:"price"`
	OriginalPrice string `yaml:"original_price"`
	Rating        string `yaml:"rating"`
	Reviews       string `yaml:"reviews"`
	Link          string `yaml:"link"`
	Image         string `yaml:"image"`
	Availability  string `yaml:"availability"`
}

// HTMLAdapter scrapes listings from a marketplace's HTML search page
// using configured CSS selectors. The {query} placeholder in the
// search URL is replaced with the escaped query.
type HTMLAdapter struct {
	platform  string
	searchURL string
	selectors Selectors
	client    *http.Client
}

func NewHTMLAdapter(platform, searchURL string, selectors Selectors, client *http.Client) *HTMLAdapter {
	if client == nil {
		client = &http.Client{}
	}
	return &HTMLAdapter{
		platform:  platform,
		searchURL: searchURL,
		selectors: selectors,
		client:    client,
	}
}

func (a *HTMLAdapter) Fetch(ctx context.Context, query string, maxResults int) ([]domain.Listing, error) {
	target := strings.ReplaceAll(a.searchURL, "{query}", url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", a.platform, err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch from %s: %w", a.platform, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch from %s: unexpected status %d", a.platform, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s page: %w", a.platform, err)
	}

	base := resp.Request.URL

	var listings []domain.Listing
	doc.Find(a.selectors.Item).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		l, ok := a.extract(item, base)
		if ok {
			listings = append(listings, l)
		}
		return len(listings) < maxResults
	})

	return listings, nil
}

func (a *HTMLAdapter) extract(item *goquery.Selection, base *url.URL) (domain.Listing, bool) {
	name := text(item, a.selectors.Name)
	link := href(item, a.selectors.Link, base)
	if name == "" || link == "" {
		return domain.Listing{}, false
	}

	return domain.Listing{
		Name:          name,
		Description:   text(item, a.selectors.Description),
		Category:      text(item, a.selectors.Category),
		Brand:         text(item, a.selectors.Brand),
		Price:         ParsePrice(text(item, a.selectors.Price)),
		OriginalPrice: ParsePrice(text(item, a.selectors.OriginalPrice)),
		Rating:        ParseRating(text(item, a.selectors.Rating)),
		ReviewCount:   ParseReviewCount(text(item, a.selectors.Reviews)),
		Platform:      a.platform,
		ProductURL:    link,
		ImageURL:      src(item, a.selectors.Image, base),
		Availability:  text(item, a.selectors.Availability),
	}, true
}

func text(item *goquery.Selection, sel string) string {
	if sel == "" {
		return ""
	}
	return strings.TrimSpace(item.Find(sel).First().Text())
}

func href(item *goquery.Selection, sel string, base *url.URL) string {
	if sel == "" {
		return ""
	}
	v, ok := item.Find(sel).First().Attr("href")
	if !ok {
		return ""
	}
	return resolve(v, base)
}

func src(item *goquery.Selection, sel string, base *url.URL) string {
	if sel == "" {
		return ""
	}
	v, ok := item.Find(sel).First().Attr("src")
	if !ok {
		return ""
	}
	return resolve(v, base)
}

// resolve turns relative marketplace links into absolute URLs.
func resolve(raw string, base *url.URL) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	return u.String()
}

var _ Fetcher = (*HTMLAdapter)(nil)
