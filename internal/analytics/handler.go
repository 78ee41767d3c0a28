package analytics

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
	"github.com/kickzone/kickzone-admin/internal/view"
)

// DashboardService is the subset of Service used by the handler.
type DashboardService interface {
	Dashboard(ctx context.Context, userID int64) (DashboardAnalytics, error)
	Invalidate(ctx context.Context) error
}

// Handler serves the analytics dashboard.
type Handler struct {
	logger    *slog.Logger
	service   DashboardService
	responder *view.Responder
	rbac      rbac.Middleware
}

// NewHandler builds the dashboard handler.
func NewHandler(logger *slog.Logger, service DashboardService, responder *view.Responder, guard rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, responder: responder, rbac: guard}
}

// MountRoutes registers the dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermViewDashboard))
		r.Get("/dashboard", h.show)
		r.Post("/dashboard/refresh", h.refresh)
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	profile, _ := rbac.ProfileFromContext(r.Context())
	stats, err := h.service.Dashboard(r.Context(), profile.ID)
	if err != nil {
		h.responder.RenderFailure(w, r, "pages/dashboard.html", "Dashboard", nil, err, "Failed to load dashboard")
		return
	}
	h.responder.Render(w, r, "pages/dashboard.html", "Dashboard", map[string]any{"Stats": stats}, http.StatusOK)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Invalidate(r.Context()); err != nil {
		h.responder.Fail(w, r, err, "/dashboard", "Failed to refresh dashboard")
		return
	}
	h.responder.Redirect(w, r, "/dashboard", shared.FlashSuccess, "Dashboard refreshed.")
}
