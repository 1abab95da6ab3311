package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/scout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/scout/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/scout/internal/httpserver/mw"
)

func init() { Register(registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	h := handlers.Search(d)

	if d.RateLimitDisabled {
		r.Get("/api/search", h)
		r.Post("/api/search", h)
		return
	}

	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateLimitBurst,
		RefillPerIPPerMin: d.RateLimitPerMin,
		TrustProxy:        d.TrustProxy,
	}))
	limited.Get("/api/search", h)
	limited.Post("/api/search", h)
}
