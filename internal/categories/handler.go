package categories

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
	"github.com/kickzone/kickzone-admin/internal/view"
)

const listPath = "/dashboard/categories"

// CategoryService is the backend contract used by the handler.
type CategoryService interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (Category, error)
	Create(ctx context.Context, in Input, image *apiclient.File) (Category, error)
	Update(ctx context.Context, id int64, in Input, image *apiclient.File) (Category, error)
	Delete(ctx context.Context, id int64) error
}

// Handler serves the playground category screens.
type Handler struct {
	logger    *slog.Logger
	service   CategoryService
	responder *view.Responder
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds the category handler.
func NewHandler(logger *slog.Logger, service CategoryService, responder *view.Responder, guard rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, responder: responder, rbac: guard, validator: validator.New()}
}

// MountRoutes registers category routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermManageCategories))
		r.Get(listPath, h.list)
		r.Post(listPath, h.create)
		r.Get(listPath+"/{id}/edit", h.edit)
		r.Post(listPath+"/{id}", h.update)
		r.Get(listPath+"/{id}/delete", h.confirmDelete)
		r.Post(listPath+"/{id}/delete", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, Input{Color: DefaultColor}, view.FormErrors{}, http.StatusOK)
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, form Input, errs view.FormErrors, status int) {
	data := map[string]any{"Form": form, "Errors": errs}
	items, err := h.service.List(r.Context())
	if err != nil {
		h.responder.RenderFailure(w, r, "pages/categories/list.html", "Playground Categories", data, err, "Failed to load categories")
		return
	}
	data["Categories"] = items
	h.responder.Render(w, r, "pages/categories/list.html", "Playground Categories", data, status)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	form := parseForm(r)
	errs := view.Validate(h.validator, form)
	image, err := h.responder.Image(r, "image")
	if err != nil {
		errs["Image"] = err.Error()
	}
	if len(errs) > 0 {
		h.renderList(w, r, form, errs, http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), form, image)
	if err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to create category")
		return
	}
	h.logger.Info("category created", slog.Int64("id", created.ID))
	h.responder.Redirect(w, r, listPath, shared.FlashSuccess, "Category created successfully")
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to load category")
		return
	}
	form := Input{Name: category.Name, Color: category.Color, Deleted: category.Deleted}
	if form.Color == "" {
		form.Color = DefaultColor
	}
	h.renderEdit(w, r, category, form, view.FormErrors{}, http.StatusOK)
}

func (h *Handler) renderEdit(w http.ResponseWriter, r *http.Request, category Category, form Input, errs view.FormErrors, status int) {
	h.responder.Render(w, r, "pages/categories/edit.html", "Edit Category", map[string]any{
		"Category": category,
		"Form":     form,
		"Errors":   errs,
	}, status)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	form := parseForm(r)
	errs := view.Validate(h.validator, form)
	image, err := h.responder.Image(r, "image")
	if err != nil {
		errs["Image"] = err.Error()
	}
	if len(errs) > 0 {
		h.renderEdit(w, r, Category{ID: id, Name: form.Name, Image: r.PostFormValue("currentImage")}, form, errs, http.StatusBadRequest)
		return
	}
	if _, err := h.service.Update(r.Context(), id, form, image); err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to update category")
		return
	}
	h.responder.Redirect(w, r, listPath, shared.FlashSuccess, "Category updated successfully")
}

func (h *Handler) confirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.responder.Confirm(w, r, view.Confirmation{
		Title:   "Delete Category",
		Message: "Are you sure you want to delete this category?",
		Action:  fmt.Sprintf("%s/%d/delete", listPath, id),
		Cancel:  listPath,
		Submit:  "Delete",
		Danger:  true,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to delete category")
		return
	}
	h.responder.Redirect(w, r, listPath, shared.FlashSuccess, "Category deleted successfully")
}

func parseForm(r *http.Request) Input {
	// Multipart bodies are parsed by FormValue on first access.
	return Input{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Color:   strings.TrimSpace(r.FormValue("color")),
		Deleted: r.FormValue("deleted") == "on",
	}
}
