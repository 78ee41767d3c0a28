package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/shared"
)

const (
	loginPath   = "/login"
	accountPath = "/account"
	deniedText  = "You do not have permission to access that page."
)

type profileContextKey struct{}

// ContextWithProfile stores the signed-in profile in context.
func ContextWithProfile(ctx context.Context, profile Profile) context.Context {
	return context.WithValue(ctx, profileContextKey{}, profile)
}

// ProfileFromContext returns the profile placed by RequireSession.
func ProfileFromContext(ctx context.Context) (Profile, bool) {
	profile, ok := ctx.Value(profileContextKey{}).(Profile)
	return profile, ok
}

// Middleware wires session and permission guards for HTTP handlers.
type Middleware struct {
	Logger *slog.Logger
}

// RequireSession redirects to the login page unless a token and a readable
// profile are stored in the session. The profile is placed in the context.
func (m Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		var store apiclient.TokenStore
		if sess != nil {
			store = sess
		}
		profile, err := LoadProfile(store)
		if err != nil {
			if store != nil && store.Get(apiclient.KeyToken) != "" {
				if m.Logger != nil {
					m.Logger.Warn("discarding unreadable profile", slog.Any("error", err))
				}
				apiclient.ClearSession(store)
			}
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithProfile(r.Context(), profile)))
	})
}

// RequirePermission admits profiles holding perm.
func (m Middleware) RequirePermission(perm Permission) func(http.Handler) http.Handler {
	return m.RequireAny(perm)
}

// RequireAny admits profiles holding at least one of perms.
func (m Middleware) RequireAny(perms ...Permission) func(http.Handler) http.Handler {
	return m.guard(func(p Profile) bool { return len(perms) == 0 || p.HasAny(perms...) })
}

// RequireAdmin admits system administrators only.
func (m Middleware) RequireAdmin() func(http.Handler) http.Handler {
	return m.guard(Profile.IsSystemAdmin)
}

func (m Middleware) guard(allowed func(Profile) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, ok := ProfileFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			if allowed(profile) {
				next.ServeHTTP(w, r)
				return
			}
			m.deny(w, r, profile)
		})
	}
}

// deny sends the operator to the first page they may open.
func (m Middleware) deny(w http.ResponseWriter, r *http.Request, profile Profile) {
	if m.Logger != nil {
		m.Logger.Info("permission denied", slog.String("path", r.URL.Path), slog.Int64("user_id", profile.ID))
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: shared.FlashError, Message: deniedText})
	}
	http.Redirect(w, r, LandingPath(profile, r.URL.Path), http.StatusSeeOther)
}

// LandingPath returns the first navigation path visible to profile other than
// exclude, or the account page when none is visible.
func LandingPath(profile Profile, exclude string) string {
	for _, item := range Navigation(profile) {
		if item.Path != exclude {
			return item.Path
		}
	}
	return accountPath
}
