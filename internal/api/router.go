package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiranshivaraju/skillora/internal/api/handler"
	mw "github.com/kiranshivaraju/skillora/internal/api/middleware"
	"github.com/kiranshivaraju/skillora/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	Wizard    handler.Wizard
	Tasks     handler.TaskStatuser
	Analytics handler.Analytics
	Health    map[string]handler.Check
}

// NewRouter builds the Chi router with middleware stack and all routes.
// Routes whose service is nil answer 501.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/api/v1/health", handler.NewHealthHandler(deps.Health))

	r.Group(func(r chi.Router) {
		if deps.Auth != nil {
			r.Use(deps.Auth.Authenticate)
		}
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Get("/api/v1/presets", handler.NewPresetsHandler())

		r.Route("/api/v1/sessions", func(r chi.Router) {
			wz := deps.Wizard
			r.Post("/", orNotImplemented(wz != nil, func() http.HandlerFunc { return handler.NewUploadHandler(wz) }))
			r.Get("/", orNotImplemented(wz != nil, func() http.HandlerFunc { return handler.NewListSessionsHandler(wz) }))
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", orNotImplemented(wz != nil, func() http.HandlerFunc { return handler.NewGetSessionHandler(wz) }))
				r.Post("/mapping", orNotImplemented(wz != nil, func() http.HandlerFunc { return handler.NewMapHandler(wz) }))
				r.Post("/watch", orNotImplemented(wz != nil, func() http.HandlerFunc { return handler.NewStartWatchHandler(wz) }))
				r.Delete("/watch", orNotImplemented(wz != nil, func() http.HandlerFunc { return handler.NewCancelWatchHandler(wz) }))
				r.Get("/wait", orNotImplemented(wz != nil, func() http.HandlerFunc { return handler.NewWaitHandler(wz) }))
			})
		})

		r.Get("/api/v1/tasks/{taskID}", orNotImplemented(deps.Tasks != nil, func() http.HandlerFunc {
			return handler.NewTaskStatusHandler(deps.Tasks)
		}))

		r.Get("/api/v1/analytics/summary", orNotImplemented(deps.Analytics != nil, func() http.HandlerFunc {
			return handler.NewSummaryHandler(deps.Analytics)
		}))
		r.Get("/api/v1/analytics/stacks", orNotImplemented(deps.Analytics != nil, func() http.HandlerFunc {
			return handler.NewStacksHandler(deps.Analytics)
		}))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}

// orNotImplemented builds the handler when its service is wired, or a 501 placeholder.
func orNotImplemented(wired bool, build func() http.HandlerFunc) http.HandlerFunc {
	if wired {
		return build()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
