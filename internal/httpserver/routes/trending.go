package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/scout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/scout/internal/httpserver/handlers"
)

func init() { Register(registerTrending) }

func registerTrending(r chi.Router, d deps.Deps) {
	r.Get("/api/trending", handlers.Trending(d))
}
