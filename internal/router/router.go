package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FACorreiaa/go-admin-dashboard/app/logger"
	"github.com/FACorreiaa/go-admin-dashboard/internal/api/auth"
	"github.com/FACorreiaa/go-admin-dashboard/internal/container"
)

// SetupRouter builds the HTTP surface: public auth routes, the gated
// dashboard routes behind JWT validation, and the operational
// endpoints.
func SetupRouter(c *container.Container, registry *prometheus.Registry) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.NewStructuredLogger(c.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", c.AuthHandler.Login)
			r.Post("/signup", c.AuthHandler.Signup)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(c.Logger, c.Config.JWT))

			r.Post("/auth/logout", c.AuthHandler.Logout)
			r.Get("/auth/session", c.AuthHandler.GetSession)

			r.Route("/records", func(r chi.Router) {
				r.Get("/", c.RecordHandler.List)
				r.Post("/", c.RecordHandler.Create)
				r.Post("/generate", c.RecordHandler.Generate)
				r.Post("/refresh", c.RecordHandler.Refresh)
				r.Put("/{id}", c.RecordHandler.Update)
				r.Delete("/{id}", c.RecordHandler.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", c.UserHandler.List)
				r.Post("/", c.UserHandler.Create)
				r.Post("/refresh", c.UserHandler.Refresh)
				r.Put("/{id}", c.UserHandler.Update)
				r.Delete("/{id}", c.UserHandler.Delete)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", c.ReportHandler.List)
				r.Post("/refresh", c.ReportHandler.Refresh)
			})

			r.Get("/notifications", c.NotificationHandler.List)
		})
	})

	return r
}
