package http

import (
	"net/http"
	"time"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts every route on the original application's paths.
func NewRouter(
	authHandler *AuthHandler,
	cardHandler *CardHandler,
	cartHandler *CartHandler,
	sessions session.Store,
	requestTimeout time.Duration,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware(sessions))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth
	r.Post("/api/signup", authHandler.Signup)
	r.Post("/login", authHandler.Login)
	r.Post("/api/logout", authHandler.Logout)
	r.Get("/api/check-authentication", authHandler.CheckAuthentication)

	// Catalog
	r.Get("/api/cards", cardHandler.List)
	r.Get("/api/featured-cards", cardHandler.Featured)
	r.Get("/api/cards/search", cardHandler.Search)
	r.Get("/api/cards/suggestions", cardHandler.Suggestions)

	// Cart and stock
	r.Post("/add-to-cart", cartHandler.AddToCart)
	r.Get("/api/cart/{userId}", cartHandler.GetCart)
	r.Put("/api/cart/{userId}/{cartItemId}", cartHandler.UpdateQuantity)
	r.Delete("/api/cart/{userId}/{cartItemId}", cartHandler.RemoveFromCart)
	r.Put("/api/update-quantity/{cardId}/{setId}", cartHandler.UpdateSetQuantity)
	r.Put("/api/cards/adjust-quantity", cartHandler.AdjustQuantity)

	return r
}
