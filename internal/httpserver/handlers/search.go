package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/scout/internal/domain"
	"github.com/MrSnakeDoc/scout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/scout/internal/logger"
	"github.com/MrSnakeDoc/scout/internal/search"
)

// searchRequest is the POST body form of a search. The GET form carries
// the same fields as query parameters.
type searchRequest struct {
	Query     string   `json:"query"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty"`
	TopN      int      `json:"top_n,omitempty"`
	Mode      string   `json:"mode,omitempty"` // "" (live) or "catalog"
}

// Search handles GET /search?query=... and POST /search.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		var err error

		switch r.Method {
		case http.MethodPost:
			err = json.NewDecoder(r.Body).Decode(&req)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
		default:
			req, err = parseSearchParams(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		if req.Mode != "" && req.Mode != "catalog" {
			writeError(w, http.StatusBadRequest, "mode must be empty or \"catalog\"")
			return
		}

		filters := domain.FilterSpec{
			MinPrice:  req.MinPrice,
			MaxPrice:  req.MaxPrice,
			Platforms: normalizePlatforms(req.Platforms),
			MinRating: req.MinRating,
		}

		var resp *search.Response
		if req.Mode == "catalog" {
			resp, err = d.Search.SearchCatalog(r.Context(), req.Query, filters)
		} else {
			resp, err = d.Search.Search(r.Context(), req.Query, filters, req.TopN)
		}
		if err != nil {
			if errors.Is(err, search.ErrEmptyQuery) {
				writeError(w, http.StatusBadRequest, "query parameter is required")
				return
			}
			d.Logger.Error("search failed",
				logger.String("query", req.Query),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "search failed")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func parseSearchParams(r *http.Request) (searchRequest, error) {
	q := r.URL.Query()

	req := searchRequest{
		Query: strings.TrimSpace(q.Get("query")),
		Mode:  strings.TrimSpace(q.Get("mode")),
	}
	// "q" is accepted as a shorthand alias.
	if req.Query == "" {
		req.Query = strings.TrimSpace(q.Get("q"))
	}

	var err error
	if req.MinPrice, err = floatParam(q.Get("min_price"), "min_price"); err != nil {
		return req, err
	}
	if req.MaxPrice, err = floatParam(q.Get("max_price"), "max_price"); err != nil {
		return req, err
	}
	if req.MinRating, err = floatParam(q.Get("min_rating"), "min_rating"); err != nil {
		return req, err
	}

	req.Platforms = q["platform"]

	if raw := q.Get("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return req, errors.New("top_n must be a non-negative integer")
		}
		req.TopN = n
	}

	return req, nil
}

// normalizePlatforms lower-cases and trims platform names so GET
// params and POST bodies match the registry's names the same way.
func normalizePlatforms(platforms []string) []string {
	out := make([]string, 0, len(platforms))
	for _, p := range platforms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func floatParam(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New(name + " must be a number")
	}
	return &f, nil
}
