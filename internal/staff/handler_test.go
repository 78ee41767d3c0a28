package staff_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/staff"
	kztest "github.com/kickzone/kickzone-admin/testing"
)

type stubService struct {
	page     apiclient.Page[staff.Staff]
	filters  staff.Filters
	created  *staff.Input
	calls    []string
	failWith error
}

func (s *stubService) List(_ context.Context, f staff.Filters) (apiclient.Page[staff.Staff], error) {
	s.filters = f
	return s.page, nil
}

func (s *stubService) Get(_ context.Context, id int64) (staff.Staff, error) {
	return staff.Staff{ID: id, FirstName: "Sam", Permissions: []rbac.Permission{rbac.PermManageEvents}}, nil
}

func (s *stubService) Create(_ context.Context, in staff.Input) (staff.Staff, error) {
	s.created = &in
	return staff.Staff{ID: 9}, nil
}

func (s *stubService) Update(context.Context, int64, staff.Input) (staff.Staff, error) {
	return staff.Staff{}, nil
}

func (s *stubService) Delete(context.Context, int64) error { return s.record("delete") }

func (s *stubService) Enable(context.Context, int64) error { return s.record("enable") }

func (s *stubService) Disable(context.Context, int64) error { return s.record("disable") }

func (s *stubService) record(call string) error {
	s.calls = append(s.calls, call)
	return s.failWith
}

func mount(h *kztest.Harness, svc staff.StaffService) func(chi.Router) {
	return staff.NewHandler(nil, svc, h.Responder, h.Guard).MountRoutes
}

func TestListRendersPermissionLabels(t *testing.T) {
	h := kztest.NewHarness(t)
	disabled := false
	svc := &stubService{page: apiclient.Page[staff.Staff]{
		Content: []staff.Staff{{ID: 3, FirstName: "Sam", LastName: "Staff", Enabled: &disabled, Permissions: []rbac.Permission{rbac.PermManageCategories}}},
		TotalPages: 1, TotalElements: 1,
	}}

	rec, _ := h.Serve(t, mount(h, svc), kztest.AdminProfile(), httptest.NewRequest(http.MethodGet, "/dashboard/staff?name=sam", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sam", svc.filters.Name)
	body := rec.Body.String()
	assert.Contains(t, body, "Manage Playground Categories")
	assert.Contains(t, body, "/dashboard/staff/3/enable")
}

func TestStaffPagesAreAdminOnly(t *testing.T) {
	h := kztest.NewHarness(t)
	svc := &stubService{}

	rec, sess := h.Serve(t, mount(h, svc), kztest.StaffProfile(rbac.PermManageUsers), httptest.NewRequest(http.MethodGet, "/dashboard/staff", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/users", rec.Header().Get("Location"))
	assert.Equal(t, "You do not have permission to access that page.", kztest.Flash(sess))
}

func TestCreateRequiresPermission(t *testing.T) {
	h := kztest.NewHarness(t)
	svc := &stubService{}
	form := url.Values{"firstName": {"Sam"}, "lastName": {"Staff"}, "email": {"sam@kz.io"}, "password": {"secret"}}

	rec, _ := h.Serve(t, mount(h, svc), kztest.AdminProfile(), kztest.Form("/dashboard/staff", form))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please select at least one permission")
	assert.Nil(t, svc.created)
}

func TestCreateRequiresPasswordForNewStaff(t *testing.T) {
	h := kztest.NewHarness(t)
	svc := &stubService{}
	form := url.Values{"firstName": {"Sam"}, "lastName": {"Staff"}, "email": {"sam@kz.io"}, "permissions": {"MANAGE_EVENTS"}}

	rec, _ := h.Serve(t, mount(h, svc), kztest.AdminProfile(), kztest.Form("/dashboard/staff", form))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password is required for new staff")
}

func TestCreateStaff(t *testing.T) {
	h := kztest.NewHarness(t)
	svc := &stubService{}
	form := url.Values{
		"firstName": {"Sam"}, "lastName": {"Staff"}, "email": {"sam@kz.io"}, "password": {"secret"},
		"permissions": {"manage_events", "VIEW_DASHBOARD", "MANAGE_EVENTS"},
	}

	rec, sess := h.Serve(t, mount(h, svc), kztest.AdminProfile(), kztest.Form("/dashboard/staff", form))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, []rbac.Permission{rbac.PermManageEvents, rbac.PermViewDashboard}, svc.created.Permissions)
	assert.Equal(t, "Staff created successfully", kztest.Flash(sess))
}

func TestEditChecksGrantedPermissions(t *testing.T) {
	h := kztest.NewHarness(t)

	rec, _ := h.Serve(t, mount(h, &stubService{}), kztest.AdminProfile(), httptest.NewRequest(http.MethodGet, "/dashboard/staff/3/edit", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="MANAGE_EVENTS" checked`)
}

func TestDisableConfirmThenApply(t *testing.T) {
	h := kztest.NewHarness(t)
	svc := &stubService{}

	rec, _ := h.Serve(t, mount(h, svc), kztest.AdminProfile(), httptest.NewRequest(http.MethodGet, "/dashboard/staff/3/disable", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/dashboard/staff/3/disable")
	assert.Empty(t, svc.calls)

	rec, sess := h.Serve(t, mount(h, svc), kztest.AdminProfile(), kztest.Form("/dashboard/staff/3/disable", url.Values{}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"disable"}, svc.calls)
	assert.Equal(t, "Staff disabled successfully", kztest.Flash(sess))
}

func TestEnableFailureFlashesError(t *testing.T) {
	h := kztest.NewHarness(t)
	svc := &stubService{failWith: errors.New("boom")}

	rec, sess := h.Serve(t, mount(h, svc), kztest.AdminProfile(), kztest.Form("/dashboard/staff/3/enable", url.Values{}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/staff", rec.Header().Get("Location"))
	assert.Equal(t, "Failed to enable staff.", kztest.Flash(sess))
}
