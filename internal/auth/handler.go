package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
	"github.com/kickzone/kickzone-admin/internal/users"
	"github.com/kickzone/kickzone-admin/internal/view"
)

const (
	loginPath   = "/login"
	accountPath = "/account"
)

// Authenticator signs operators in against the backend.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (Grant, error)
}

// PasswordChanger updates the password of the signed-in operator.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, in users.PasswordChange) error
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   Authenticator
	passwords PasswordChanger
	sessions  *shared.SessionManager
	responder *view.Responder
	validator *validator.Validate
	limiter   func(http.Handler) http.Handler
}

// NewHandler constructs a Handler instance. Sign-in attempts are limited to
// loginLimit per minute and client IP; zero disables the limit.
func NewHandler(logger *slog.Logger, service Authenticator, passwords PasswordChanger, sessions *shared.SessionManager, responder *view.Responder, loginLimit int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger:    logger,
		service:   service,
		passwords: passwords,
		sessions:  sessions,
		responder: responder,
		validator: validator.New(),
		limiter:   func(next http.Handler) http.Handler { return next },
	}
	if loginLimit > 0 {
		h.limiter = httprate.LimitByIP(loginLimit, time.Minute)
	}
	return h
}

// MountRoutes registers the public sign-in routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get(loginPath, h.showLogin)
	r.With(h.limiter).Post(loginPath, h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

// MountAccountRoutes registers the account pages. They expect a session
// guard in front of them.
func (h *Handler) MountAccountRoutes(r chi.Router) {
	r.Get(accountPath, h.showAccount)
	r.Post(accountPath+"/password", h.changePassword)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, email string, errs view.FormErrors, status int) {
	h.responder.Render(w, r, "pages/login.html", "Sign in", map[string]any{
		"Email":  email,
		"Errors": errs,
	}, status)
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if profile, err := rbac.LoadProfile(sess); err == nil {
			http.Redirect(w, r, rbac.LandingPath(profile, ""), http.StatusSeeOther)
			return
		}
	}
	h.renderLogin(w, r, "", view.FormErrors{}, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	creds := Credentials{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if errs := view.Validate(h.validator, creds); len(errs) > 0 {
		h.renderLogin(w, r, creds.Email, errs, http.StatusBadRequest)
		return
	}

	grant, err := h.service.Login(r.Context(), creds)
	if err != nil {
		h.logger.Info("sign-in rejected", slog.String("email", creds.Email), slog.Any("error", err))
		status := http.StatusUnauthorized
		if errors.Is(err, shared.ErrAccessDenied) {
			status = http.StatusForbidden
		}
		h.renderLogin(w, r, creds.Email, view.FormErrors{"Form": LoginMessage(err)}, status)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.sessions.Renew(sess)
	Persist(sess, grant)
	h.logger.Info("signed in", slog.Int64("user_id", grant.Profile.ID))
	h.responder.Redirect(w, r, rbac.LandingPath(grant.Profile, ""), shared.FlashSuccess, "Welcome back, Admin!")
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessions.Destroy(sess)
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

func (h *Handler) renderAccount(w http.ResponseWriter, r *http.Request, errs view.FormErrors, status int) {
	h.responder.Render(w, r, "pages/account.html", "Account", map[string]any{"Errors": errs}, status)
}

func (h *Handler) showAccount(w http.ResponseWriter, r *http.Request) {
	h.renderAccount(w, r, view.FormErrors{}, http.StatusOK)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	form := PasswordForm{
		OldPassword:     r.PostFormValue("oldPassword"),
		NewPassword:     r.PostFormValue("newPassword"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
	if err := h.validator.Struct(form); err != nil {
		h.renderAccount(w, r, passwordErrors(err), http.StatusBadRequest)
		return
	}
	err := h.passwords.ChangePassword(r.Context(), users.PasswordChange{OldPassword: form.OldPassword, NewPassword: form.NewPassword})
	if err != nil {
		h.responder.Fail(w, r, err, accountPath, "Failed to change password. Please check your current password")
		return
	}
	h.responder.Redirect(w, r, accountPath, shared.FlashSuccess, "Password changed successfully")
}

// passwordErrors reports a blank field before a confirmation mismatch.
func passwordErrors(err error) view.FormErrors {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Tag() != "eqfield" {
				return view.FormErrors{"Form": "Please fill in all fields"}
			}
		}
		return view.FormErrors{"ConfirmPassword": "Passwords do not match"}
	}
	return view.FormErrors{"Form": err.Error()}
}
