package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/scout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/scout/internal/httpserver/handlers"
)

func init() { Register(registerPrices) }

func registerPrices(r chi.Router, d deps.Deps) {
	r.Get("/api/listings/{listingID}/prices", handlers.Prices(d))
}
