package http

import (
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withCORS())
	router.Use(withGUnzip)
	router.Use(withCompression())
	if h.cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.cfg.RequestTimeout))
	}

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/health", h.health)
		r.Get("/api/version", h.version)

		r.Get("/api/auth/status", h.storeStatus)
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/reset-password", h.resetPassword)
	})

	// routes for any authenticated user
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/auth/me", h.getProfile)
		r.Put("/api/auth/me", h.updateProfile)

		r.Get("/api/tasks", h.listTasks)
		r.Patch("/api/tasks/{taskId}", h.updateTaskStatus)

		// admin only
		r.Group(func(r chi.Router) {
			r.Use(h.requireRoles(models.RoleAdmin))

			r.Post("/api/tasks", h.createTask)
			r.Get("/api/tasks/team/snapshot", h.teamSnapshot)
		})
	})

	router.NotFound(notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
