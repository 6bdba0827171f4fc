package handlers

import (
	"net/http"

	"taskboard/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	RateLimit   float64
	Burst       int
	CORSOrigins []string
}

// NewRouter mounts the dashboard API.
func NewRouter(h *DashboardHandler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	if cfg.RateLimit > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimit, cfg.Burst))
	}
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIdHeader},
			ExposedHeaders: []string{middleware.RequestIdHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/health", h.HealthCheck) // GET /health

	r.Route("/api/dashboard", func(r chi.Router) {
		r.Get("/me", h.GetMe)                       // GET /api/dashboard/me
		r.Get("/summary", h.GetSummary)             // GET /api/dashboard/summary
		r.Get("/calendar", h.GetCalendar)           // GET /api/dashboard/calendar?year=&month=
		r.Get("/notifications", h.GetNotifications) // GET /api/dashboard/notifications
		r.Patch("/notifications/{id}/read", h.ReadNotification)
		r.Post("/refresh", h.Refresh)
		r.Delete("/comments/{id}", h.DeleteComment)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.GetTasks)  // GET /api/dashboard/tasks?status=&category=&priority=&mine=
			r.Post("/", h.SaveTask) // POST /api/dashboard/tasks

			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", h.DeleteTask)
				r.Patch("/{action}", h.TaskAction) // submit|approve|deny|toggle
				r.Get("/comments", h.GetComments)
				r.Post("/comments", h.PostComment)
			})
		})
	})

	return otelhttp.NewHandler(r, "taskboard.dashboard")
}
