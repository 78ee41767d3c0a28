package grounds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kickzone/kickzone-admin/internal/platform/httpx"
	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
	"github.com/kickzone/kickzone-admin/internal/view"
)

const popularPage = "/dashboard/popular"

// GroundService is the backend contract used by the handler.
type GroundService interface {
	Search(ctx context.Context, name string) ([]Playground, error)
	Popular(ctx context.Context) ([]Playground, error)
	AddPopular(ctx context.Context, id int64) error
	RemovePopular(ctx context.Context, id int64) error
}

// Handler serves the popular grounds screen and the ground lookup used by
// the event form.
type Handler struct {
	logger    *slog.Logger
	service   GroundService
	responder *view.Responder
	rbac      rbac.Middleware
}

// NewHandler builds the grounds handler.
func NewHandler(logger *slog.Logger, service GroundService, responder *view.Responder, guard rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, responder: responder, rbac: guard}
}

// MountRoutes registers ground routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermManagePopular))
		r.Get(popularPage, h.popular)
		r.Post(popularPage+"/{id}", h.add)
		r.Get(popularPage+"/{id}/remove", h.confirmRemove)
		r.Post(popularPage+"/{id}/remove", h.remove)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermManageEvents, rbac.PermManagePopular))
		r.Get("/dashboard/grounds/search", h.search)
	})
}

func (h *Handler) popular(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	data := map[string]any{"Query": query}

	popular, err := h.service.Popular(r.Context())
	if err != nil {
		h.responder.RenderFailure(w, r, "pages/grounds/popular.html", "Popular Grounds", data, err, "Failed to load popular grounds")
		return
	}
	data["Popular"] = popular

	if query != "" {
		results, err := h.service.Search(r.Context(), query)
		if err != nil {
			h.responder.RenderFailure(w, r, "pages/grounds/popular.html", "Popular Grounds", data, err, "Failed to search grounds")
			return
		}
		data["Results"] = MarkPopular(results, popular)
		data["Searched"] = true
	}
	h.responder.Render(w, r, "pages/grounds/popular.html", "Popular Grounds", data, http.StatusOK)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	back := returnPath(r.PostFormValue("q"))
	if err := h.service.AddPopular(r.Context(), id); err != nil {
		h.responder.Fail(w, r, err, back, "Failed to add ground to popular list")
		return
	}
	h.responder.Redirect(w, r, back, shared.FlashSuccess, "Ground added to popular list")
}

func (h *Handler) confirmRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.responder.Confirm(w, r, view.Confirmation{
		Title:   "Remove Popular Ground",
		Message: "Remove this ground from the popular list?",
		Action:  fmt.Sprintf("%s/%d/remove", popularPage, id),
		Cancel:  popularPage,
		Submit:  "Remove",
		Danger:  true,
	})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.service.RemovePopular(r.Context(), id); err != nil {
		h.responder.Fail(w, r, err, popularPage, "Failed to remove ground from popular list")
		return
	}
	h.responder.Redirect(w, r, popularPage, shared.FlashSuccess, "Ground removed from popular list")
}

type searchHit struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Manager string `json:"manager,omitempty"`
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Search(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.logger.Warn("ground search", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	hits := make([]searchHit, 0, len(results))
	for _, p := range results {
		hits = append(hits, searchHit{ID: p.ID, Name: p.Name, Address: p.Address, Manager: strings.TrimSpace(p.ManagerName())})
	}
	httpx.JSON(w, http.StatusOK, hits)
}

func returnPath(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return popularPage
	}
	return popularPage + "?" + url.Values{"q": {query}}.Encode()
}
