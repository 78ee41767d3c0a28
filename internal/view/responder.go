package view

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
)

const loginPath = "/login"

// Responder renders pages and redirects with flashes for page handlers.
type Responder struct {
	engine      *Engine
	csrf        *shared.CSRFManager
	logger      *slog.Logger
	uploadLimit int64
}

// NewResponder builds a Responder.
func NewResponder(engine *Engine, csrf *shared.CSRFManager, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{engine: engine, csrf: csrf, logger: logger}
}

// WithUploadLimit caps the size of a single uploaded file.
func (p *Responder) WithUploadLimit(limit int64) *Responder {
	p.uploadLimit = limit
	return p
}

// Image reads an optional image upload from the multipart request.
func (p *Responder) Image(r *http.Request, field string) (*apiclient.File, error) {
	return FormImage(r, field, p.uploadLimit)
}

// Confirmation drives the shared confirm page used before destructive actions.
type Confirmation struct {
	Title   string
	Message string
	Action  string
	Cancel  string
	Submit  string
	Danger  bool
}

// Render writes the page with the layout chrome for the signed-in profile.
func (p *Responder) Render(w http.ResponseWriter, r *http.Request, name, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	viewData := TemplateData{Title: title, CurrentPath: r.URL.Path, Data: data}
	if sess != nil {
		if token, err := p.csrf.EnsureToken(r.Context(), sess); err == nil {
			viewData.CSRFToken = token
		}
		viewData.Flash = sess.PopFlash()
	}
	if profile, ok := rbac.ProfileFromContext(r.Context()); ok {
		viewData.Profile = &profile
		viewData.Nav = rbac.Navigation(profile)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if !p.engine.Has(name) {
		p.logger.Error("render template", slog.String("template", name), slog.String("error", "unknown page"))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if err := p.engine.Render(w, name, viewData); err != nil {
		p.logger.Error("render template", slog.String("template", name), slog.Any("error", err))
	}
}

// Redirect queues a flash and sends a 303 to location.
func (p *Responder) Redirect(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && message != "" {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// Fail reports a failed mutation and sends the operator back to location with
// state unchanged. An expired session goes to the login page instead.
func (p *Responder) Fail(w http.ResponseWriter, r *http.Request, err error, location, action string) {
	if p.expired(w, r, err) {
		return
	}
	p.logger.Error(action, slog.String("path", r.URL.Path), slog.Any("error", err))
	p.Redirect(w, r, location, shared.FlashError, FailureMessage(action, err))
}

// RenderFailure renders a page whose data could not be loaded.
func (p *Responder) RenderFailure(w http.ResponseWriter, r *http.Request, name, title string, data map[string]any, err error, action string) {
	if p.expired(w, r, err) {
		return
	}
	p.logger.Error(action, slog.String("path", r.URL.Path), slog.Any("error", err))
	if data == nil {
		data = map[string]any{}
	}
	data["LoadError"] = FailureMessage(action, err)
	status := http.StatusBadGateway
	if apiclient.IsNotFound(err) {
		status = http.StatusNotFound
	}
	p.Render(w, r, name, title, data, status)
}

// Confirm renders the confirmation page.
func (p *Responder) Confirm(w http.ResponseWriter, r *http.Request, c Confirmation) {
	if c.Submit == "" {
		c.Submit = "Confirm"
	}
	p.Render(w, r, "pages/confirm.html", c.Title, c, http.StatusOK)
}

// Expired redirects to the login page when err ended the session.
func (p *Responder) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, apiclient.ErrSessionExpired) {
		return false
	}
	p.Redirect(w, r, loginPath, shared.FlashError, shared.UserSafeMessage(err))
	return true
}

// FailureMessage combines the failed action with what can safely be shown
// about the cause.
func FailureMessage(action string, err error) string {
	safe := shared.UserSafeMessage(err)
	if safe == "" || safe == shared.GenericFailureMessage {
		return action + "."
	}
	return action + ": " + safe
}
