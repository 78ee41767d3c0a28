package staff

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

const listPath = "/dashboard/staff"

// StaffService is the backend contract used by the handler.
type StaffService interface {
	List(ctx context.Context, f Filters) (apiclient.Page[Staff], error)
	Get(ctx context.Context, id int64) (Staff, error)
	Create(ctx context.Context, in Input) (Staff, error)
	Update(ctx context.Context, id int64, in Input) (Staff, error)
	Delete(ctx context.Context, id int64) error
	Enable(ctx context.Context, id int64) error
	Disable(ctx context.Context, id int64) error
}

// Handler serves the staff screens. Every route is restricted to system
// administrators.
type Handler struct {
	logger    *slog.Logger
	service   StaffService
	responder *view.Responder
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds the staff handler.
func NewHandler(logger *slog.Logger, service StaffService, responder *view.Responder, guard rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, responder: responder, rbac: guard, validator: validator.New()}
}

// MountRoutes registers staff routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAdmin())
		r.Get(listPath, h.list)
		r.Get(listPath+"/new", h.newForm)
		r.Post(listPath, h.create)
		r.Get(listPath+"/{id}/edit", h.edit)
		r.Post(listPath+"/{id}", h.update)
		r.Get(listPath+"/{id}/delete", h.confirm(deleteAction))
		r.Post(listPath+"/{id}/delete", h.apply(deleteAction))
		r.Get(listPath+"/{id}/enable", h.confirm(enableAction))
		r.Post(listPath+"/{id}/enable", h.apply(enableAction))
		r.Get(listPath+"/{id}/disable", h.confirm(disableAction))
		r.Post(listPath+"/{id}/disable", h.apply(disableAction))
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, size := shared.PageParams(query)
	filters := Filters{
		Email:       strings.TrimSpace(query.Get("email")),
		Name:        strings.TrimSpace(query.Get("name")),
		PhoneNumber: strings.TrimSpace(query.Get("phoneNumber")),
		Page:        page,
		Size:        size,
	}
	data := map[string]any{"Query": query, "Filters": filters}

	result, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.responder.RenderFailure(w, r, "pages/staff/list.html", "Staff", data, err, "Failed to fetch staff")
		return
	}
	data["Staff"] = result.Content
	data["Pager"] = shared.NewPager(page, size, result.TotalElements, result.TotalPages)
	h.responder.Render(w, r, "pages/staff/list.html", "Staff", data, http.StatusOK)
}

func readForm(r *http.Request) (Input, []string) {
	_ = r.ParseForm()
	perms, invalid := rbac.ParsePermissions(r.PostForm["permissions"])
	return Input{
		FirstName:   strings.TrimSpace(r.PostFormValue("firstName")),
		LastName:    strings.TrimSpace(r.PostFormValue("lastName")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Password:    r.PostFormValue("password"),
		PhoneNumber: strings.TrimSpace(r.PostFormValue("phoneNumber")),
		Permissions: perms,
	}, invalid
}

func (h *Handler) check(in Input, invalid []string, creating bool) view.FormErrors {
	errs := view.Validate(h.validator, in)
	if creating && in.Password == "" {
		errs["Password"] = CheckMessage(ErrPasswordRequired)
	}
	if len(in.Permissions) == 0 {
		errs["Permissions"] = CheckMessage(ErrNoPermissions)
	}
	if len(invalid) > 0 {
		errs["Permissions"] = "Unknown permission: " + strings.Join(invalid, ", ") + "."
	}
	if len(errs) > 0 {
		if err := in.Check(creating); err != nil {
			errs["Form"] = CheckMessage(err)
		} else {
			errs["Form"] = "Please correct the highlighted fields"
		}
	}
	return errs
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, id int64, in Input, errs view.FormErrors, status int) {
	title := "Add Staff Member"
	action := listPath
	if id > 0 {
		title = "Edit Staff Member"
		action = fmt.Sprintf("%s/%d", listPath, id)
	}
	in.Password = ""
	h.responder.Render(w, r, "pages/staff/form.html", title, map[string]any{
		"ID":      id,
		"Action":  action,
		"Form":    in,
		"Errors":  errs,
		"Catalog": rbac.PermissionCatalog,
	}, status)
}

func (h *Handler) newForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, 0, Input{}, view.FormErrors{}, http.StatusOK)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	in, invalid := readForm(r)
	if errs := h.check(in, invalid, true); len(errs) > 0 {
		h.renderForm(w, r, 0, in, errs, http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to create staff")
		return
	}
	h.logger.Info("staff created", slog.Int64("id", created.ID), slog.Int("permissions", len(in.Permissions)))
	h.responder.Redirect(w, r, listPath, shared.FlashSuccess, "Staff created successfully")
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	member, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to load staff")
		return
	}
	in := Input{
		FirstName:   member.FirstName,
		LastName:    member.LastName,
		Email:       member.Email,
		PhoneNumber: member.PhoneNumber,
		Permissions: member.Permissions,
	}
	h.renderForm(w, r, id, in, view.FormErrors{}, http.StatusOK)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	in, invalid := readForm(r)
	if errs := h.check(in, invalid, false); len(errs) > 0 {
		h.renderForm(w, r, id, in, errs, http.StatusBadRequest)
		return
	}
	if _, err := h.service.Update(r.Context(), id, in); err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to update staff")
		return
	}
	h.responder.Redirect(w, r, listPath, shared.FlashSuccess, "Staff updated successfully")
}

type action struct {
	verb    string
	title   string
	message string
	done    string
	danger  bool
	run     func(StaffService, context.Context, int64) error
}

var (
	deleteAction = action{
		verb:    "delete",
		title:   "Delete Staff Member",
		message: "Are you sure you want to delete this staff member? This action cannot be undone.",
		done:    "Staff deleted successfully",
		danger:  true,
		run:     StaffService.Delete,
	}
	enableAction = action{
		verb:    "enable",
		title:   "Enable Staff Member",
		message: "Are you sure you want to enable this staff member? They will regain access to the console.",
		done:    "Staff enabled successfully",
		run:     StaffService.Enable,
	}
	disableAction = action{
		verb:    "disable",
		title:   "Disable Staff Member",
		message: "Are you sure you want to disable this staff member? They will not be able to sign in.",
		done:    "Staff disabled successfully",
		danger:  true,
		run:     StaffService.Disable,
	}
)

func (h *Handler) confirm(a action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := view.IDParam(r, "id")
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.responder.Confirm(w, r, view.Confirmation{
			Title:   a.title,
			Message: a.message,
			Action:  fmt.Sprintf("%s/%d/%s", listPath, id, a.verb),
			Cancel:  listPath,
			Submit:  strings.ToUpper(a.verb[:1]) + a.verb[1:],
			Danger:  a.danger,
		})
	}
}

func (h *Handler) apply(a action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := view.IDParam(r, "id")
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := a.run(h.service, r.Context(), id); err != nil {
			h.responder.Fail(w, r, err, listPath, "Failed to "+a.verb+" staff")
			return
		}
		h.logger.Info("staff "+a.verb, slog.Int64("id", id))
		h.responder.Redirect(w, r, listPath, shared.FlashSuccess, a.done)
	}
}
