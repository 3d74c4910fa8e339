/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, the middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK (outermost first):
  1. RealIP:     Client address from X-Forwarded-For / X-Real-IP
  2. RequestID:  X-Request-Id, generated when missing or malformed
  3. Logger:     One slog line per request
  4. Recoverer:  Panic recovery (JSON 500 instead of crash)
  5. Metrics:    Prometheus RED metrics
  6. CORS:       Browser clients, GET only

ROUTES:
  GET /          Single-day meal       (rate limited)
  GET /week      13-day window         (rate limited)
  GET /healthz   Liveness
  GET /readyz    Store reachability
  GET /metrics   Prometheus exposition

SECURITY NOTE:
  No authentication. The API is read-only and public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RouterOptions tunes the middleware stack.
type RouterOptions struct {
	// RateLimit is requests per second shared by all clients. 0 disables.
	RateLimit float64
	RateBurst int

	// CORSOrigins defaults to all origins when empty.
	CORSOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst)
	}

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(h.Logger))
	r.Use(recoveryMiddleware(h.Logger))
	r.Use(metricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	// Meal routes
	r.Group(func(r chi.Router) {
		r.Use(rateLimitMiddleware(limiter))
		r.Get("/", h.GetMeal)
		r.Get("/week", h.GetWeek)
	})

	// Operational routes
	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
