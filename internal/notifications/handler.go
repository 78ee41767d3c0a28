package notifications

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
	"github.com/kickzone/kickzone-admin/internal/view"
)

const pagePath = "/dashboard/notifications"

// Broadcaster is the backend contract used by the handler.
type Broadcaster interface {
	Broadcast(ctx context.Context, b Broadcast) error
}

// Handler serves the broadcast composer.
type Handler struct {
	logger    *slog.Logger
	service   Broadcaster
	responder *view.Responder
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds the notification handler.
func NewHandler(logger *slog.Logger, service Broadcaster, responder *view.Responder, guard rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, responder: responder, rbac: guard, validator: validator.New()}
}

// MountRoutes registers the composer routes. Only system administrators may
// broadcast.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAdmin())
		r.Get(pagePath, h.show)
		r.Post(pagePath, h.send)
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, b Broadcast, errs view.FormErrors, status int) {
	h.responder.Render(w, r, "pages/notifications/compose.html", "Notifications", map[string]any{
		"Form":   b,
		"Errors": errs,
	}, status)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, Broadcast{}, view.FormErrors{}, http.StatusOK)
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	b := Broadcast{Title: r.FormValue("title"), Description: r.FormValue("description")}
	if err := b.Normalize(); err != nil {
		h.render(w, r, b, view.FormErrors{"Form": err.Error()}, http.StatusBadRequest)
		return
	}
	if errs := view.Validate(h.validator, b); len(errs) > 0 {
		h.render(w, r, b, errs, http.StatusBadRequest)
		return
	}
	if err := h.service.Broadcast(r.Context(), b); err != nil {
		h.responder.RenderFailure(w, r, "pages/notifications/compose.html", "Notifications", map[string]any{
			"Form":   b,
			"Errors": view.FormErrors{},
		}, err, "Failed to send broadcast")
		return
	}
	h.logger.Info("broadcast sent", slog.String("title", b.Title))
	h.responder.Redirect(w, r, pagePath, shared.FlashSuccess, "Broadcast sent successfully!")
}
