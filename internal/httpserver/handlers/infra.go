package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/scout/internal/httpserver/deps"
)

type componentStatus struct {
	OK             bool   `json:"ok"`
	ListingsLoaded *int   `json:"listings_loaded,omitempty"`
	LastRefresh    string `json:"last_refresh,omitempty"`
	LastFit        string `json:"last_fit,omitempty"`
	Mode           string `json:"mode,omitempty"`
	Impact         string `json:"impact,omitempty"`
	Error          string `json:"error,omitempty"`
}

type infraResponse struct {
	ScoringMode string                     `json:"scoring_mode"`
	Components  map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingCount := d.Catalog.Count()

		catalogStatus := componentStatus{
			OK:             true,
			ListingsLoaded: &listingCount,
			LastRefresh:    formatTime(d.Catalog.LastRefresh()),
			LastFit:        formatTime(d.Catalog.LastFit()),
		}

		components := map[string]componentStatus{
			"catalog": catalogStatus,
			"redis":   checkRedis(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			ScoringMode: scoringMode(d),
			Components:  components,
		})
	}
}

// scoringMode reports which similarity path empty fan-outs fall back
// to: "trained" when a fitted catalog model exists, "realtime" when
// lexical matching is the only option.
func scoringMode(d deps.Deps) string {
	if d.Catalog.Trained() {
		return "trained"
	}
	return "realtime"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02 15:04:05")
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "history-and-persistence-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "history-and-persistence-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "history-and-persistence-enabled",
		Error:  "none",
	}
}
