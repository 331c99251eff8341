package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything NewRouter needs.
type Handlers struct {
	Auth          *AuthHandler
	Formations    *FormationHandler
	Registrations *RegistrationHandler
	Messages      *MessageHandler
	Projects      *ProjectHandler
	Books         *BookHandler
}

// NewRouter builds the full route tree. Admin-only subtrees are gated by
// AdminAuth; everything else is public.
func NewRouter(h Handlers, jwtSecret string, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(logger))          // structured access log
	r.Use(CORS)                    // permissive CORS for the SPA

	admin := AdminAuth(jwtSecret)

	r.Get("/health", HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.With(admin).Get("/me", h.Auth.Me)
		})

		r.Route("/formations", func(r chi.Router) {
			r.Get("/", h.Formations.List)
			r.Get("/{id}", h.Formations.Get)
			r.With(admin).Post("/", h.Formations.Create)
			r.With(admin).Put("/{id}", h.Formations.Update)
			r.With(admin).Delete("/{id}", h.Formations.Delete)
		})

		r.Route("/registrations", func(r chi.Router) {
			r.Post("/", h.Registrations.Create)
			r.Get("/verify/{token}", h.Registrations.Verify)
			r.Post("/resend-verification", h.Registrations.Resend)
			r.Post("/{id}/cancel", h.Registrations.Cancel)

			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Get("/", h.Registrations.List)
				// Fixed paths before the {id} wildcard.
				r.Get("/stats", h.Registrations.Stats)
				r.Get("/export", h.Registrations.Export)
				r.Post("/bulk-action", h.Registrations.BulkAction)
				r.Get("/{id}", h.Registrations.Get)
				r.Patch("/{id}/payment", h.Registrations.UpdatePayment)
				r.Post("/{id}/notice", h.Registrations.Notice)
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", h.Messages.Create)

			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Get("/", h.Messages.List)
				r.Get("/{id}", h.Messages.Get)
				r.Patch("/{id}/status", h.Messages.UpdateStatus)
				r.Post("/{id}/reply", h.Messages.Reply)
				r.Delete("/{id}", h.Messages.Delete)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.Projects.List)
			r.Get("/search", h.Projects.Search)
			r.With(admin).Get("/stats", h.Projects.Stats)
			r.Get("/{id}", h.Projects.Get)
			r.Get("/{id}/related", h.Projects.Related)
			r.With(admin).Post("/", h.Projects.Create)
			r.With(admin).Put("/{id}", h.Projects.Update)
			r.With(admin).Delete("/{id}", h.Projects.Delete)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.Books.List)
			r.Get("/{id}", h.Books.Get)
			r.With(admin).Post("/", h.Books.Create)
			r.With(admin).Put("/{id}", h.Books.Update)
			r.With(admin).Delete("/{id}", h.Books.Delete)
		})
	})

	// Static SPA build - serve the web/ directory at the root.
	webFS := http.Dir("./web")
	r.Handle("/*", http.FileServer(webFS))

	return r
}
