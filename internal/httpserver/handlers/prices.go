package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/scout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/scout/internal/logger"
	redisstore "github.com/MrSnakeDoc/scout/internal/store/redis"
)

const defaultPricePoints = 30

type pricesResponse struct {
	ListingID string                  `json:"listing_id"`
	Points    []redisstore.PricePoint `json:"points"`
}

// Prices handles GET /api/listings/{listingID}/prices and returns the
// recorded price points for one listing, newest first.
func Prices(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID := chi.URLParam(r, "listingID")
		if listingID == "" {
			writeError(w, http.StatusBadRequest, "listing id is required")
			return
		}

		n := defaultPricePoints
		if raw := r.URL.Query().Get("n"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				writeError(w, http.StatusBadRequest, "n must be a positive integer")
				return
			}
			n = parsed
		}

		points, err := d.Store.PriceHistory(r.Context(), listingID, n)
		if err != nil {
			d.Logger.Error("failed to read price history",
				logger.String("listing_id", listingID),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read price history")
			return
		}

		writeJSON(w, http.StatusOK, pricesResponse{
			ListingID: listingID,
			Points:    points,
		})
	}
}
