package rest

import (
	"log/slog"

	"github.com/frahmantamala/support-desk/internal/auth"
	"github.com/frahmantamala/support-desk/internal/contact"
	"github.com/frahmantamala/support-desk/internal/stats"
	"github.com/frahmantamala/support-desk/internal/ticket"
	"github.com/frahmantamala/support-desk/internal/transport"
	"github.com/frahmantamala/support-desk/internal/transport/middleware"
	"github.com/frahmantamala/support-desk/internal/transport/swagger"
	"github.com/frahmantamala/support-desk/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups everything the router mounts. Nil handlers leave their
// routes unmounted.
type Handlers struct {
	Auth    *auth.Handler
	User    *user.Handler
	Ticket  *ticket.Handler
	Contact *contact.Handler
	Stats   *stats.Handler
	Health  *HealthHandler
	Docs    *swagger.Document
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, logger *slog.Logger) {
	base := transport.NewBaseHandler(logger)

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.ClientMeta)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.MethodNotAllowed(base.MethodNotAllowed)
	router.NotFound(base.NotFound)

	if h.Docs != nil {
		router.Get("/openapi.yml", h.Docs.ServeSpec)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.MethodNotAllowed(base.MethodNotAllowed)
		r.NotFound(base.NotFound)

		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Contact != nil {
			r.Post("/contact", h.Contact.Submit)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.MethodNotAllowed(base.MethodNotAllowed)
			ar.NotFound(base.NotFound)
			ar.Post("/login", h.Auth.Login)
			ar.Post("/logout", h.Auth.Logout)
			ar.Post("/password-strength", h.Auth.PasswordStrength)
			if h.User != nil {
				ar.Post("/register", h.User.Register)
			}

			ar.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Post("/validate", h.Auth.Validate)
				pr.Post("/change-password", h.Auth.ChangePassword)
				pr.With(h.Auth.RequireRoles(auth.StaffRoles...)).Post("/validate-admin", h.Auth.ValidateAdmin)
			})
		})

		// Authenticated routes
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/profile", h.User.GetProfile)
				pr.Put("/profile", h.User.UpdateProfile)
				pr.Post("/profile", h.User.UpdateProfile)
			}

			if h.Ticket != nil {
				pr.Get("/tickets", h.Ticket.MyTickets)
				pr.Post("/tickets", h.Ticket.Create)
			}

			pr.Route("/admin", func(ar chi.Router) {
				ar.MethodNotAllowed(base.MethodNotAllowed)
				ar.NotFound(base.NotFound)
				ar.Group(func(sr chi.Router) {
					sr.Use(h.Auth.RequireRoles(auth.StaffRoles...))

					if h.Ticket != nil {
						sr.Get("/tickets", h.Ticket.List)
						sr.Get("/tickets/details", h.Ticket.Details)
						sr.Get("/tickets/{id}", h.Ticket.Details)
						sr.Post("/tickets/reply", h.Ticket.Reply)
						sr.Post("/tickets/{id}/reply", h.Ticket.Reply)
						sr.Post("/tickets/status", h.Ticket.UpdateStatus)
						sr.Post("/tickets/{id}/status", h.Ticket.UpdateStatus)
					}
					if h.Stats != nil {
						sr.Get("/stats", h.Stats.Dashboard)
					}
				})

				if h.User != nil {
					ar.Group(func(mr chi.Router) {
						mr.Use(h.Auth.RequireRoles(auth.UserManagerRoles...))
						mr.Get("/users", h.User.List)
						mr.Post("/users/toggle-status", h.User.ToggleStatus)
						mr.Post("/users/{id}/toggle-status", h.User.ToggleStatus)
					})
				}
			})
		})
	})
}
