package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterOptions carries the cross-cutting middleware the binary wires in.
type RouterOptions struct {
	AuthMiddleware func(http.Handler) http.Handler
	RequestLogger  func(http.Handler) http.Handler
}

// NewRouter constructs the API HTTP router with auth only.
func NewRouter(s *Server, auth func(http.Handler) http.Handler) http.Handler {
	return NewRouterWithOptions(s, RouterOptions{AuthMiddleware: auth})
}

// NewRouterWithOptions constructs the API HTTP router.
//
// This is intentionally a thin adapter: it wires routes and middleware and
// delegates every decision to the Server's handlers.
func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.RequestLogger != nil {
		r.Use(opts.RequestLogger)
	}
	r.Use(middleware.Recoverer)

	// Health endpoint is unauthenticated (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		if opts.AuthMiddleware != nil {
			r.Use(opts.AuthMiddleware)
		}

		r.Post("/trips", s.handleCreateTrip)
		r.Get("/trips", s.handleListMyTrips)
		r.Get("/trips/{tripId}", s.handleGetTrip)
		r.Post("/trips/{tripId}/members", s.handleJoinTrip)

		r.Put("/trips/{tripId}/preferences/me", s.handlePutMyPreferences)
		r.Patch("/trips/{tripId}/preferences/me", s.handlePatchMyPreferences)
		r.Get("/trips/{tripId}/preferences/me", s.handleGetMyPreferences)
		r.Delete("/trips/{tripId}/preferences/me", s.handleDeleteMyPreferences)
		r.Get("/trips/{tripId}/preferences", s.handleListPreferences)

		r.Get("/trips/{tripId}/consensus", s.handleGetConsensus)
	})

	return r
}
