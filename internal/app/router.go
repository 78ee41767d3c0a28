package app

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kickzone/kickzone-admin/internal/analytics"
	"github.com/kickzone/kickzone-admin/internal/auth"
	"github.com/kickzone/kickzone-admin/internal/categories"
	"github.com/kickzone/kickzone-admin/internal/events"
	"github.com/kickzone/kickzone-admin/internal/grounds"
	"github.com/kickzone/kickzone-admin/internal/managers"
	"github.com/kickzone/kickzone-admin/internal/media"
	"github.com/kickzone/kickzone-admin/internal/notifications"
	"github.com/kickzone/kickzone-admin/internal/observability"
	"github.com/kickzone/kickzone-admin/internal/platform/httpx"
	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
	"github.com/kickzone/kickzone-admin/internal/staff"
	"github.com/kickzone/kickzone-admin/internal/users"
	"github.com/kickzone/kickzone-admin/web"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	RBACMiddleware rbac.Middleware
	Metrics        *observability.Metrics
	Health         HealthCheck

	AuthHandler          *auth.Handler
	DashboardHandler     *analytics.Handler
	UsersHandler         *users.Handler
	ManagersHandler      *managers.Handler
	StaffHandler         *staff.Handler
	CategoriesHandler    *categories.Handler
	GroundsHandler       *grounds.Handler
	EventsHandler        *events.Handler
	NotificationsHandler *notifications.Handler
	MediaHandler         *media.Handler
}

// NewRouter constructs the chi.Router with the console defaults.
func NewRouter(params RouterParams) http.Handler {
	if params.Logger == nil {
		params.Logger = slog.Default()
	}
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if params.Health != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := params.Health(ctx); err != nil {
				params.Logger.Warn("health check failed", slog.Any("error", err))
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	registerStaticTypes(params.Logger)
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	if params.AuthHandler != nil {
		params.AuthHandler.MountRoutes(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(params.RBACMiddleware.RequireSession)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			profile, _ := rbac.ProfileFromContext(r.Context())
			http.Redirect(w, r, rbac.LandingPath(profile, ""), http.StatusSeeOther)
		})

		if params.AuthHandler != nil {
			params.AuthHandler.MountAccountRoutes(r)
		}
		if params.DashboardHandler != nil {
			params.DashboardHandler.MountRoutes(r)
		}
		if params.UsersHandler != nil {
			params.UsersHandler.MountRoutes(r)
		}
		if params.ManagersHandler != nil {
			params.ManagersHandler.MountRoutes(r)
		}
		if params.StaffHandler != nil {
			params.StaffHandler.MountRoutes(r)
		}
		if params.CategoriesHandler != nil {
			params.CategoriesHandler.MountRoutes(r)
		}
		if params.GroundsHandler != nil {
			params.GroundsHandler.MountRoutes(r)
		}
		if params.EventsHandler != nil {
			params.EventsHandler.MountRoutes(r)
		}
		if params.NotificationsHandler != nil {
			params.NotificationsHandler.MountRoutes(r)
		}
		if params.MediaHandler != nil {
			params.MediaHandler.MountRoutes(r)
		}
	})

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
