package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/scout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/scout/internal/httpserver/handlers"
)

func init() { Register(registerRefresh) }

func registerRefresh(r chi.Router, d deps.Deps) {
	r.Post("/refresh", handlers.Refresh(d))
}
