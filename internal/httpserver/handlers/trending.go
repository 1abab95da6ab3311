package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/scout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/scout/internal/logger"
	redisstore "github.com/MrSnakeDoc/scout/internal/store/redis"
)

const defaultTrendingLimit = 10

type trendingResponse struct {
	Terms []redisstore.TrendingTerm `json:"terms"`
}

// Trending handles GET /trending?limit=N.
func Trending(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultTrendingLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}

		terms, err := d.Store.TopSearches(r.Context(), limit)
		if err != nil {
			d.Logger.Error("failed to load trending terms",
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "trending unavailable")
			return
		}

		writeJSON(w, http.StatusOK, trendingResponse{Terms: terms})
	}
}
