package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"murajaah-backend/internal/handlers"
	"murajaah-backend/internal/middleware"
	"murajaah-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	reviewHandler *handlers.ReviewHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Review routes
		r.Route("/review", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)

			r.Route("/items", func(r chi.Router) {
				r.Post("/", reviewHandler.AddItem)
				r.Get("/", reviewHandler.ListItems)
				r.Get("/{id}", reviewHandler.GetItem)
				r.Post("/{id}/grade", reviewHandler.Grade)
				r.Post("/{id}/reset", reviewHandler.Reset)
				r.Delete("/{id}", reviewHandler.Remove)
			})

			r.Get("/due", reviewHandler.Due)
			r.Get("/stats", reviewHandler.Stats)
			r.Get("/progress", reviewHandler.Progress)
		})

		// WebSocket
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
