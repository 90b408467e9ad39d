// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/eventpulse/internal/auth"
	"github.com/tomtom215/eventpulse/internal/authz"
	"github.com/tomtom215/eventpulse/internal/middleware"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authn         *auth.Middleware
	authz         *authz.Middleware
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, authn *auth.Middleware, authzMW *authz.Middleware) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		authn:         authn,
		authz:         authzMW,
	}
}

// SetupChi builds the HTTP handler for every route.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Global middleware, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.Handle("/metrics", promhttp.Handler())
	r.With(router.chiMiddleware.RateLimit()).Get("/ws/events", h.EventsWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.With(router.chiMiddleware.RateLimitHealth()).Get("/health", h.Health)
		r.With(router.chiMiddleware.RateLimitHealth()).Head("/health", h.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitLogin())
			r.Post("/login", h.Login)
			r.Post("/refresh", h.Refresh)
		})

		// Everything below requires a valid access token and a role the
		// policy allows for the path.
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(router.authn.Authenticate)
			r.Use(router.authz.Authorize)

			r.Group(func(r chi.Router) {
				r.Use(chimiddleware.Compress(5, "application/json"))

				r.Get("/events", h.ListEvents)
				r.Post("/events", h.CreateEvent)
				r.Get("/events/{id}", h.GetEvent)
				r.Patch("/events/{id}", h.UpdateEvent)
				r.Delete("/events/{id}", h.DeleteEvent)

				r.Get("/users/{id}", h.GetUser)
				r.Patch("/users/{id}", h.UpdateUser)
				r.Get("/users/{id}/events", h.UserEvents)
				r.Get("/users/{id}/interested", h.ListInterested)
				r.Post("/users/{id}/interested", h.AddInterested)
				r.Delete("/users/{id}/interested/{eventID}", h.RemoveInterested)

				r.Route("/admin", func(r chi.Router) {
					r.Get("/monitored-users", h.MonitoredUsers)
					r.Post("/monitored-users/{id}/dismiss", h.DismissMonitoredUser)
					r.Get("/activity-logs", h.ActivityLogs)
					r.Post("/simulate", requireService(h.simulator != nil, "simulation", h.Simulate))
					r.Post("/monitor/sweep", requireService(h.sweeper != nil, "monitor", h.Sweep))
				})
			})

			r.Post("/files", requireService(h.files != nil, "file storage", h.UploadFile))
			r.Get("/files/{name}", requireService(h.files != nil, "file storage", h.DownloadFile))
		})
	})

	return r
}

// requireService substitutes a 503 handler for routes whose collaborator
// was not configured.
func requireService(available bool, name string, next http.HandlerFunc) http.HandlerFunc {
	if available {
		return next
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", name+" is not available", nil)
	}
}
