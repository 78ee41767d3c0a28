package managers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
	"github.com/kickzone/kickzone-admin/internal/view"
)

const listPath = "/dashboard/managers"

// ManagerService is the backend contract used by the handler.
type ManagerService interface {
	List(ctx context.Context, f Filters) (apiclient.Page[Manager], error)
	Get(ctx context.Context, id int64) (Manager, error)
	Create(ctx context.Context, in Input, picture *apiclient.File) (Manager, error)
	Update(ctx context.Context, id int64, in Input, picture *apiclient.File) (Manager, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, id int64, start, end string) (Stats, error)
}

// Handler serves the manager screens.
type Handler struct {
	logger    *slog.Logger
	service   ManagerService
	responder *view.Responder
	rbac      rbac.Middleware
	validator *validator.Validate
	now       func() time.Time
}

// NewHandler builds the manager handler.
func NewHandler(logger *slog.Logger, service ManagerService, responder *view.Responder, guard rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, responder: responder, rbac: guard, validator: validator.New(), now: time.Now}
}

// MountRoutes registers manager routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermManageManagers))
		r.Get(listPath, h.list)
		r.Get(listPath+"/new", h.newForm)
		r.Post(listPath, h.create)
		r.Get(listPath+"/{id}", h.detail)
		r.Get(listPath+"/{id}/edit", h.edit)
		r.Post(listPath+"/{id}", h.update)
		r.Get(listPath+"/{id}/delete", h.confirmDelete)
		r.Post(listPath+"/{id}/delete", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, size := shared.PageParams(query)
	filters := Filters{Email: strings.TrimSpace(query.Get("email")), Name: strings.TrimSpace(query.Get("name")), Page: page, Size: size}
	data := map[string]any{"Query": query, "Filters": filters}

	result, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.responder.RenderFailure(w, r, "pages/managers/list.html", "Managers", data, err, "Failed to fetch managers")
		return
	}
	data["Managers"] = result.Content
	data["Pager"] = shared.NewPager(page, size, result.TotalElements, result.TotalPages)
	h.responder.Render(w, r, "pages/managers/list.html", "Managers", data, http.StatusOK)
}

type managerForm struct {
	Input
	Features string
	Picture  string
}

func readForm(r *http.Request) managerForm {
	v := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
	features := v("popularFeatures")
	return managerForm{
		Input: Input{
			FirstName:         v("firstName"),
			LastName:          v("lastName"),
			Email:             v("email"),
			Password:          r.FormValue("password"),
			GroundName:        v("groundName"),
			GroundAddress:     v("groundAddress"),
			GroundDescription: v("groundDescription"),
			PopularFeatures:   ParseFeatures(features),
		},
		Features: features,
		Picture:  v("currentPicture"),
	}
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, id int64, form managerForm, errs view.FormErrors, status int) {
	title := "New Manager"
	action := listPath
	if id > 0 {
		title = "Edit Manager"
		action = fmt.Sprintf("%s/%d", listPath, id)
	}
	h.responder.Render(w, r, "pages/managers/form.html", title, map[string]any{
		"ID":     id,
		"Action": action,
		"Form":   form,
		"Errors": errs,
	}, status)
}

func (h *Handler) newForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, 0, managerForm{}, view.FormErrors{}, http.StatusOK)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	form := readForm(r)
	errs := view.Validate(h.validator, form.Input)
	picture, err := h.responder.Image(r, "groundPicture")
	if err != nil {
		errs["GroundPicture"] = err.Error()
	}
	if len(errs) > 0 {
		form.Password = ""
		h.renderForm(w, r, 0, form, errs, http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), form.Input, picture)
	if err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to create manager")
		return
	}
	h.logger.Info("manager created", slog.Int64("id", created.ID))
	h.responder.Redirect(w, r, listPath, shared.FlashSuccess, "Manager created successfully")
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to load manager")
		return
	}
	form := managerForm{Input: Input{FirstName: m.FirstName, LastName: m.LastName, Email: m.Email}}
	if g := m.Ground; g != nil {
		form.GroundName = g.Name
		form.GroundAddress = g.Address
		form.GroundDescription = g.Description
		form.PopularFeatures = g.PopularFeatures
		form.Features = strings.Join(g.PopularFeatures, ", ")
		form.Picture = g.Picture
	}
	h.renderForm(w, r, id, form, view.FormErrors{}, http.StatusOK)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	form := readForm(r)
	errs := view.ValidateExcept(h.validator, form.Input, "Password")
	if form.Password != "" && len(form.Password) < 6 {
		errs["Password"] = "Must be at least 6 characters."
	}
	picture, err := h.responder.Image(r, "groundPicture")
	if err != nil {
		errs["GroundPicture"] = err.Error()
	}
	if len(errs) > 0 {
		form.Password = ""
		h.renderForm(w, r, id, form, errs, http.StatusBadRequest)
		return
	}
	if _, err := h.service.Update(r.Context(), id, form.Input, picture); err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to update manager")
		return
	}
	h.responder.Redirect(w, r, listPath, shared.FlashSuccess, "Manager updated successfully")
}

func (h *Handler) confirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.responder.Confirm(w, r, view.Confirmation{
		Title:   "Delete Manager",
		Message: "Are you sure you want to delete this manager? Their ground will no longer be managed.",
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
		h.responder.Fail(w, r, err, listPath, "Failed to delete manager")
		return
	}
	h.responder.Redirect(w, r, listPath, shared.FlashSuccess, "Manager deleted successfully")
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	start, end := CurrentMonth(h.now())
	if v := strings.TrimSpace(r.URL.Query().Get("startDate")); v != "" {
		start = v
	}
	if v := strings.TrimSpace(r.URL.Query().Get("endDate")); v != "" {
		end = v
	}
	data := map[string]any{"StartDate": start, "EndDate": end, "ID": id}
	if !validRange(start, end) {
		data["LoadError"] = "Choose a start date on or before the end date."
		h.responder.Render(w, r, "pages/managers/detail.html", "Manager", data, http.StatusBadRequest)
		return
	}

	var (
		manager Manager
		stats   Stats
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		manager, err = h.service.Get(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = h.service.Stats(ctx, id, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		h.responder.RenderFailure(w, r, "pages/managers/detail.html", "Manager", data, err, "Failed to load manager statistics")
		return
	}
	data["Manager"] = manager
	data["Stats"] = stats
	h.responder.Render(w, r, "pages/managers/detail.html", manager.FullName(), data, http.StatusOK)
}

func validRange(start, end string) bool {
	from, err := time.Parse(DateLayout, start)
	if err != nil {
		return false
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		return false
	}
	return !to.Before(from)
}
