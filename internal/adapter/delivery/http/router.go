// Package http provides the HTTP delivery layer for the redirect registry.
// It contains the router, the middleware for caller authentication and rate
// limiting, and the handlers for the public redirect path and the JSON API.
package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"

	"golinks/pkg/token"
)

// NewRouter wires the middleware chain and routes. The redirect-by-path
// catch-all stays at the root so any path outside /api/v1 is treated as a
// short path lookup. A nil limiter disables rate limiting.
func NewRouter(logger *httplog.Logger, registry redirectRegistry, tokens *token.Manager, limiter RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	if limiter != nil {
		r.Use(rateLimit(limiter))
	}

	h := newRedirectHandler(registry, validator.New())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", handlePing)

		r.Route("/links", func(r chi.Router) {
			// availability is deliberately public: it serves as an
			// "is this name taken" probe before signing in
			r.Get("/{shortPath}/availability", h.checkAvailability)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth(tokens))

				r.Post("/", h.createLink)
				r.Get("/{shortPath}/stats", h.linkStats)
			})
		})
	})

	r.Get("/", h.redirect)
	r.Get("/*", h.redirect)

	return r
}
