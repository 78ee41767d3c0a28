package users

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
	"github.com/kickzone/kickzone-admin/internal/view"
)

const listPath = "/dashboard/users"

// UserService is the backend contract used by the handler.
type UserService interface {
	List(ctx context.Context, f Filters) (apiclient.Page[User], error)
	Stats(ctx context.Context) (Stats, error)
	Enable(ctx context.Context, id int64) error
	Disable(ctx context.Context, id int64) error
}

// Handler manages the end-user screens.
type Handler struct {
	logger    *slog.Logger
	service   UserService
	responder *view.Responder
	rbac      rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service UserService, responder *view.Responder, guard rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, responder: responder, rbac: guard}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermManageUsers))
		r.Get(listPath, h.listUsers)
		r.Get(listPath+"/{id}/{action:enable|disable}", h.confirmStatus)
		r.Post(listPath+"/{id}/{action:enable|disable}", h.changeStatus)
	})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, size := shared.PageParams(query)
	filters := Filters{
		Name:        strings.TrimSpace(query.Get("name")),
		Email:       strings.TrimSpace(query.Get("email")),
		PhoneNumber: strings.TrimSpace(query.Get("phoneNumber")),
		Page:        page,
		Size:        size,
	}
	data := map[string]any{"Query": query, "Filters": filters}

	// The headcount is decorative; a failure only hides the card.
	statsCh := make(chan *Stats, 1)
	go func() {
		stats, err := h.service.Stats(r.Context())
		if err != nil {
			h.logger.Warn("user stats unavailable", slog.Any("error", err))
			statsCh <- nil
			return
		}
		statsCh <- &stats
	}()

	result, err := h.service.List(r.Context(), filters)
	stats := <-statsCh
	if err != nil {
		h.responder.RenderFailure(w, r, "pages/users/list.html", "Users", data, err, "Failed to fetch users")
		return
	}
	data["Users"] = result.Content
	data["Pager"] = shared.NewPager(page, size, result.TotalElements, result.TotalPages)
	if stats != nil {
		data["Stats"] = *stats
	}
	h.responder.Render(w, r, "pages/users/list.html", "Users", data, http.StatusOK)
}

func (h *Handler) confirmStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	action := chi.URLParam(r, "action")
	c := view.Confirmation{
		Title:   "Enable User",
		Message: "Are you sure you want to enable this user? They will be able to sign in and book grounds again.",
		Action:  fmt.Sprintf("%s/%d/%s", listPath, id, action),
		Cancel:  listPath,
		Submit:  "Enable",
	}
	if action == "disable" {
		c.Title = "Disable User"
		c.Message = "Are you sure you want to disable this user? They will not be able to sign in."
		c.Submit = "Disable"
		c.Danger = true
	}
	h.responder.Confirm(w, r, c)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	action := chi.URLParam(r, "action")
	run := h.service.Enable
	if action == "disable" {
		run = h.service.Disable
	}
	if err := run(r.Context(), id); err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to "+action+" user")
		return
	}
	h.logger.Info("user status changed", slog.Int64("id", id), slog.String("action", action))
	h.responder.Redirect(w, r, listPath, shared.FlashSuccess, "User "+action+"d successfully")
}
