package staff

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/rbac"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(apiclient.New(srv.URL, time.Second))
}

func TestListFilters(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/staff", r.URL.Path)
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("size"))
		assert.Equal(t, "0700", q.Get("phoneNumber"))
		assert.False(t, q.Has("name"))
		_, _ = w.Write([]byte(`{"content":[{"id":3,"firstName":"Sam","lastName":"Staff","enabled":false,"permissions":["MANAGE_EVENTS"]},{"id":4,"firstName":"Kim"}],"page":{"totalElements":22,"totalPages":3,"size":10,"number":2}}`))
	})

	page, err := svc.List(context.Background(), Filters{PhoneNumber: "0700", Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.EqualValues(t, 22, page.TotalElements)
	assert.False(t, page.Content[0].Active())
	assert.True(t, page.Content[1].Active())
	assert.Equal(t, []rbac.Permission{rbac.PermManageEvents}, page.Content[0].Permissions)
}

func TestCreateSendsJSON(t *testing.T) {
	var got map[string]any
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/staff", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":5}`))
	})

	created, err := svc.Create(context.Background(), Input{
		FirstName: "Sam", LastName: "Staff", Email: "sam@kz.io", Password: "pw",
		Permissions: []rbac.Permission{rbac.PermManageUsers, rbac.PermViewDashboard},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, created.ID)
	assert.Equal(t, "pw", got["password"])
	assert.Equal(t, []any{"MANAGE_USERS", "VIEW_DASHBOARD"}, got["permissions"])
	assert.NotContains(t, got, "phoneNumber")
}

func TestUpdateOmitsBlankPassword(t *testing.T) {
	var got map[string]any
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/staff/5", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":5}`))
	})

	_, err := svc.Update(context.Background(), 5, Input{FirstName: "Sam", Permissions: []rbac.Permission{rbac.PermManageUsers}})
	require.NoError(t, err)
	assert.NotContains(t, got, "password")
}

func TestEnableDisableUsePatch(t *testing.T) {
	var calls []string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, svc.Enable(context.Background(), 5))
	require.NoError(t, svc.Disable(context.Background(), 5))
	require.NoError(t, svc.Delete(context.Background(), 5))
	assert.Equal(t, []string{"PATCH /staff/5/enable", "PATCH /staff/5/disable", "DELETE /staff/5"}, calls)
}

func TestInputCheck(t *testing.T) {
	valid := Input{FirstName: "Sam", LastName: "Staff", Email: "sam@kz.io", Password: "pw", Permissions: []rbac.Permission{rbac.PermManageUsers}}
	assert.NoError(t, valid.Check(true))

	missing := valid
	missing.LastName = " "
	assert.ErrorIs(t, missing.Check(true), ErrMissingFields)

	noPassword := valid
	noPassword.Password = ""
	assert.ErrorIs(t, noPassword.Check(true), ErrPasswordRequired)
	assert.NoError(t, noPassword.Check(false))

	noPerms := valid
	noPerms.Permissions = nil
	assert.ErrorIs(t, noPerms.Check(false), ErrNoPermissions)
}

func TestCheckMessage(t *testing.T) {
	assert.Equal(t, "Please fill in all required fields.", CheckMessage(ErrMissingFields))
	assert.Equal(t, "Password is required for new staff.", CheckMessage(ErrPasswordRequired))
	assert.Equal(t, "Please select at least one permission.", CheckMessage(ErrNoPermissions))
	assert.Empty(t, CheckMessage(nil))

	for _, err := range []error{ErrMissingFields, ErrPasswordRequired, ErrNoPermissions} {
		first := err.Error()[0]
		assert.True(t, first >= 'a' && first <= 'z', err.Error())
	}
}
