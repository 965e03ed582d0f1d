package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/charitymap/charitymap/internal/middleware"
	"github.com/charitymap/charitymap/internal/middleware/metrics"
	"github.com/charitymap/charitymap/internal/setup"
)

// New builds the route table. The public read surface stays open; every
// mutation and identity endpoint requires a bearer token, invite minting
// additionally requires the admin claim.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(mw.RequestLogger)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public surface
	r.Post("/auth/login", h.Login)
	r.Post("/auth/register", h.Register)
	r.Get("/auth/verify-invite/{token}", h.VerifyInvite)
	r.Get("/events", h.ListEvents)
	r.Get("/events/{id}", h.GetEvent)

	// Authenticated surface
	r.Group(func(r chi.Router) {
		r.Use(authMw.NeedAuth())
		r.Get("/auth/me", h.Me)
		r.Post("/events", h.CreateEvent)
		r.Put("/events/{id}", h.UpdateEvent)
		r.Delete("/events/{id}", h.DeleteEvent)
		r.Get("/my-events", h.MyEvents)
	})

	// Admin surface
	r.Group(func(r chi.Router) {
		r.Use(authMw.AdminOnly())
		r.Post("/auth/create-invite", h.CreateInvite)
	})

	return r
}
