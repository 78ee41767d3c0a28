package testing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	stdtesting "testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
	"github.com/kickzone/kickzone-admin/internal/view"
)

// Harness serves page handlers with a signed-in session backed by miniredis.
type Harness struct {
	Redis     *redis.Client
	Sessions  *shared.SessionManager
	CSRF      *shared.CSRFManager
	Responder *view.Responder
	Guard     rbac.Middleware
}

// NewHarness builds a Harness whose resources are released with t.
func NewHarness(t stdtesting.TB) *Harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	engine, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	csrf := shared.NewCSRFManager("test-csrf-secret")
	return &Harness{
		Redis:     client,
		Sessions:  shared.NewSessionManager(client, "kz_test", time.Hour, false),
		CSRF:      csrf,
		Responder: view.NewResponder(engine, csrf, nil),
	}
}

// AdminProfile is a system administrator.
func AdminProfile() rbac.Profile {
	return rbac.Profile{ID: 1, Email: "admin@kickzone.test", FirstName: "Ada", LastName: "Admin", Role: rbac.RoleSystemAdmin}
}

// StaffProfile is a staff member holding perms.
func StaffProfile(perms ...rbac.Permission) rbac.Profile {
	granted := make([]string, 0, len(perms))
	for _, p := range perms {
		granted = append(granted, string(p))
	}
	return rbac.Profile{ID: 7, Email: "staff@kickzone.test", FirstName: "Sam", LastName: "Staff", Role: "ROLE_STAFF", Permissions: granted}
}

// Serve routes req through the handler routes registered by mount, as the
// signed-in profile. The session is committed afterwards and returned.
func (h *Harness) Serve(t stdtesting.TB, mount func(chi.Router), profile rbac.Profile, req *http.Request) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	sess, err := h.Sessions.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		t.Fatalf("marshal profile: %v", err)
	}
	sess.Set(apiclient.KeyToken, "test-token")
	sess.Set(apiclient.KeyUser, string(raw))

	ctx := shared.ContextWithSession(req.Context(), sess)
	ctx = apiclient.ContextWithTokens(ctx, sess)
	ctx = rbac.ContextWithProfile(ctx, profile)

	r := chi.NewRouter()
	mount(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req.WithContext(ctx))
	if err := h.Sessions.Commit(context.Background(), rec, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	return rec, sess
}

// ServeAnonymous routes req with an empty session and no profile.
func (h *Harness) ServeAnonymous(t stdtesting.TB, mount func(chi.Router), req *http.Request) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	sess, err := h.Sessions.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(req.Context(), sess)
	ctx = apiclient.ContextWithTokens(ctx, sess)

	r := chi.NewRouter()
	mount(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req.WithContext(ctx))
	if err := h.Sessions.Commit(context.Background(), rec, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	return rec, sess
}

// Form builds a url-encoded POST request.
func Form(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// Flash pops the next flash message text from sess, or "".
func Flash(sess *shared.Session) string {
	if msg := sess.PopFlash(); msg != nil {
		return msg.Message
	}
	return ""
}
