package rbac_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
)

func sessionRequest(t *testing.T, method, path string, values map[string]string) (*http.Request, *shared.Session) {
	t.Helper()
	mr := miniredis.RunT(t)
	manager := shared.NewSessionManager(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "kz", time.Hour, false)
	req := httptest.NewRequest(method, path, nil)
	sess, err := manager.Load(context.Background(), req)
	require.NoError(t, err)
	for k, v := range values {
		sess.Set(k, v)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess)), sess
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	profile, _ := rbac.ProfileFromContext(r.Context())
	_, _ = w.Write([]byte("hello " + profile.Email))
})

func TestRequireSessionRedirectsWithoutToken(t *testing.T) {
	req, _ := sessionRequest(t, http.MethodGet, "/dashboard", nil)
	res := httptest.NewRecorder()
	rbac.Middleware{}.RequireSession(okHandler).ServeHTTP(res, req)

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/login", res.Header().Get("Location"))
}

func TestRequireSessionClearsMalformedProfile(t *testing.T) {
	req, sess := sessionRequest(t, http.MethodGet, "/dashboard", map[string]string{
		"token":        "abc",
		"refreshToken": "def",
		"user":         "{not json",
	})
	res := httptest.NewRecorder()
	rbac.Middleware{}.RequireSession(okHandler).ServeHTTP(res, req)

	assert.Equal(t, "/login", res.Header().Get("Location"))
	assert.Empty(t, sess.Get("token"))
	assert.Empty(t, sess.Get("refreshToken"))
	assert.Empty(t, sess.Get("user"))
}

func TestRequireSessionPassesProfile(t *testing.T) {
	req, _ := sessionRequest(t, http.MethodGet, "/dashboard", map[string]string{
		"token": "abc",
		"user":  `{"email":"ops@kickzone.io","role":"ROLE_SYSTEM_ADMIN"}`,
	})
	res := httptest.NewRecorder()
	rbac.Middleware{}.RequireSession(okHandler).ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "hello ops@kickzone.io", res.Body.String())
}

func TestRequireAdminRedirectsStaffAway(t *testing.T) {
	req, sess := sessionRequest(t, http.MethodGet, "/dashboard/staff", map[string]string{
		"token": "abc",
		"user":  `{"role":"ROLE_STAFF","permissions":["MANAGE_USERS"]}`,
	})
	mw := rbac.Middleware{}
	res := httptest.NewRecorder()
	mw.RequireSession(mw.RequireAdmin()(okHandler)).ServeHTTP(res, req)

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/dashboard/users", res.Header().Get("Location"))
	flash := sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, shared.FlashError, flash.Kind)
}

func TestRequirePermission(t *testing.T) {
	mw := rbac.Middleware{}
	guarded := mw.RequireSession(mw.RequirePermission(rbac.PermManageEvents)(okHandler))

	req, _ := sessionRequest(t, http.MethodGet, "/dashboard/events", map[string]string{
		"token": "abc",
		"user":  `{"email":"e@kickzone.io","permissions":["MANAGE_EVENTS"]}`,
	})
	res := httptest.NewRecorder()
	guarded.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)

	req, _ = sessionRequest(t, http.MethodGet, "/dashboard/events", map[string]string{
		"token": "abc",
		"user":  `{"permissions":[]}`,
	})
	res = httptest.NewRecorder()
	guarded.ServeHTTP(res, req)
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/account", res.Header().Get("Location"))
}
