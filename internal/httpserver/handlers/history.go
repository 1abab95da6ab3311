package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/scout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/scout/internal/logger"
	redisstore "github.com/MrSnakeDoc/scout/internal/store/redis"
)

const defaultHistoryLimit = 20

type historyResponse struct {
	Searches []redisstore.SearchRecord `json:"searches"`
}

// History handles GET /api/history and returns the most recent
// searches, newest first.
func History(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := defaultHistoryLimit
		if raw := r.URL.Query().Get("n"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				writeError(w, http.StatusBadRequest, "n must be a positive integer")
				return
			}
			n = parsed
		}

		searches, err := d.Store.RecentSearches(r.Context(), n)
		if err != nil {
			d.Logger.Error("failed to read search history",
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read search history")
			return
		}

		writeJSON(w, http.StatusOK, historyResponse{Searches: searches})
	}
}
