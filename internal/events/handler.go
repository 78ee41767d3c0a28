package events

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
	"github.com/kickzone/kickzone-admin/internal/view"
)

const listPath = "/dashboard/events"

// EventService is the backend contract used by the handler.
type EventService interface {
	List(ctx context.Context, page, size int) (apiclient.Page[Event], error)
	Active(ctx context.Context) ([]Event, error)
	Get(ctx context.Context, id int64) (Event, error)
	Create(ctx context.Context, in Input, image *apiclient.File) (Event, error)
	Update(ctx context.Context, id int64, patch Patch, image *apiclient.File) (Event, error)
	Disable(ctx context.Context, id int64) error
	Registrations(ctx context.Context, id int64) ([]TeamRegistration, error)
}

// Handler serves the event screens.
type Handler struct {
	logger    *slog.Logger
	service   EventService
	responder *view.Responder
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds the event handler.
func NewHandler(logger *slog.Logger, service EventService, responder *view.Responder, guard rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, responder: responder, rbac: guard, validator: validator.New()}
}

// MountRoutes registers event routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermManageEvents))
		r.Get(listPath, h.list)
		r.Get(listPath+"/new", h.newForm)
		r.Post(listPath, h.create)
		r.Get(listPath+"/{id}/edit", h.edit)
		r.Post(listPath+"/{id}", h.update)
		r.Get(listPath+"/{id}/disable", h.confirmDisable)
		r.Post(listPath+"/{id}/disable", h.disable)
		r.Get(listPath+"/{id}/registrations", h.registrations)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, size := shared.PageParams(query)
	data := map[string]any{"Query": query, "ActiveOnly": query.Get("active") == "1"}

	if query.Get("active") == "1" {
		items, err := h.service.Active(r.Context())
		if err != nil {
			h.responder.RenderFailure(w, r, "pages/events/list.html", "Events", data, err, "Failed to fetch events")
			return
		}
		data["Events"] = items
		h.responder.Render(w, r, "pages/events/list.html", "Events", data, http.StatusOK)
		return
	}

	result, err := h.service.List(r.Context(), page, size)
	if err != nil {
		h.responder.RenderFailure(w, r, "pages/events/list.html", "Events", data, err, "Failed to fetch events")
		return
	}
	data["Events"] = result.Content
	data["Pager"] = shared.NewPager(page, size, result.TotalElements, result.TotalPages)
	h.responder.Render(w, r, "pages/events/list.html", "Events", data, http.StatusOK)
}

func (h *Handler) newForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, 0, eventForm{IsActive: true}, "", view.FormErrors{}, http.StatusOK)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, id int64, form eventForm, image string, errs view.FormErrors, status int) {
	title := "New Event"
	action := listPath
	if id > 0 {
		title = "Edit Event"
		action = fmt.Sprintf("%s/%d", listPath, id)
	}
	h.responder.Render(w, r, "pages/events/form.html", title, map[string]any{
		"ID":     id,
		"Action": action,
		"Form":   form,
		"Image":  image,
		"Errors": errs,
	}, status)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	form := readForm(r)
	in, errs := form.input()
	for field, msg := range view.Validate(h.validator, in) {
		if _, seen := errs[field]; !seen {
			errs[field] = msg
		}
	}
	image, err := h.responder.Image(r, "image")
	if err != nil {
		errs["Image"] = err.Error()
	}
	if len(errs) > 0 {
		h.renderForm(w, r, 0, form, "", errs, http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), in, image)
	if err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to create event")
		return
	}
	h.logger.Info("event created", slog.Int64("id", created.ID))
	h.responder.Redirect(w, r, listPath, shared.FlashSuccess, "Event created successfully")
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	event, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to load event")
		return
	}
	h.renderForm(w, r, id, formFromEvent(event), event.Image, view.FormErrors{}, http.StatusOK)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	form := readForm(r)
	patch, in, errs := form.patch()
	for field, msg := range view.Validate(h.validator, in) {
		if _, seen := errs[field]; !seen {
			errs[field] = msg
		}
	}
	image, err := h.responder.Image(r, "image")
	if err != nil {
		errs["Image"] = err.Error()
	}
	if len(errs) > 0 {
		h.renderForm(w, r, id, form, r.FormValue("currentImage"), errs, http.StatusBadRequest)
		return
	}
	if _, err := h.service.Update(r.Context(), id, patch, image); err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to update event")
		return
	}
	h.responder.Redirect(w, r, listPath, shared.FlashSuccess, "Event updated successfully")
}

func (h *Handler) confirmDisable(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.responder.Confirm(w, r, view.Confirmation{
		Title:   "Disable Event",
		Message: "Are you sure you want to cancel/disable this event?",
		Action:  fmt.Sprintf("%s/%d/disable", listPath, id),
		Cancel:  listPath,
		Submit:  "Disable",
		Danger:  true,
	})
}

func (h *Handler) disable(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.service.Disable(r.Context(), id); err != nil {
		h.responder.Fail(w, r, err, listPath, "Failed to disable event")
		return
	}
	h.responder.Redirect(w, r, listPath, shared.FlashSuccess, "Event disabled successfully")
}

func (h *Handler) registrations(w http.ResponseWriter, r *http.Request) {
	id, ok := view.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	team := r.URL.Query().Get("team")
	data := map[string]any{"Team": team}

	var (
		event Event
		regs  []TeamRegistration
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		event, err = h.service.Get(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		regs, err = h.service.Registrations(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		h.responder.RenderFailure(w, r, "pages/events/registrations.html", "Registrations", data, err, "Failed to load data")
		return
	}

	var players int
	for _, reg := range regs {
		players += reg.NumberOfPlayers
	}
	data["Event"] = event
	data["Registrations"] = FilterByTeam(regs, team)
	data["TotalTeams"] = len(regs)
	data["TotalPlayers"] = players
	h.responder.Render(w, r, "pages/events/registrations.html", event.Title+" · Registrations", data, http.StatusOK)
}
