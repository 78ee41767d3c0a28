package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

const (
	adminJSON = `{"id":1,"email":"ada@kickzone.test","firstName":"Ada","lastName":"Admin","role":"ROLE_SYSTEM_ADMIN"}`
	staffJSON = `{"id":7,"email":"sam@kickzone.test","firstName":"Sam","lastName":"Staff","role":"ROLE_STAFF","permissions":["MANAGE_EVENTS"]}`
)

// fixture is a fake backend plus a session file for one test.
type fixture struct {
	t       *testing.T
	mux     *http.ServeMux
	api     string
	session string

	mu    sync.Mutex
	calls []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{t: t, mux: http.NewServeMux()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls = append(f.calls, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	f.api = srv.URL
	f.session = filepath.Join(t.TempDir(), "session.json")
	return f
}

func (f *fixture) signIn(profile string) {
	f.t.Helper()
	data, err := json.Marshal(map[string]string{
		apiclient.KeyToken: "t1",
		apiclient.KeyUser:  profile,
	})
	require.NoError(f.t, err)
	require.NoError(f.t, os.WriteFile(f.session, data, 0o600))
}

func (f *fixture) run(stdin string, args ...string) (string, string, int) {
	f.t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--api=" + f.api, "--session=" + f.session}, args...)
	code := Execute(context.Background(), full, Streams{In: strings.NewReader(stdin), Out: &out, Err: &errOut})
	return out.String(), errOut.String(), code
}

func (f *fixture) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fixture) storedSession() map[string]string {
	f.t.Helper()
	data, err := os.ReadFile(f.session)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(f.t, err)
	var values map[string]string
	require.NoError(f.t, json.Unmarshal(data, &values))
	return values
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestLoginStoresSession(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["email"] != "ada@kickzone.test" || creds["password"] != "pw" {
			writeJSON(w, http.StatusUnauthorized, `{"message":"Bad credentials"}`)
			return
		}
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"token":"t9","refreshToken":"r9","id":1,"email":"ada@kickzone.test","firstName":"Ada","lastName":"Admin","role":"ROLE_SYSTEM_ADMIN"}`)
	})

	out, errOut, code := f.run("", "login", "-e", "ada@kickzone.test", "-p", "pw")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Welcome back, Ada Admin!")

	stored := f.storedSession()
	assert.Equal(t, "t9", stored[apiclient.KeyToken])
	assert.Equal(t, "r9", stored[apiclient.KeyRefreshToken])
	assert.Contains(t, stored[apiclient.KeyUser], "ROLE_SYSTEM_ADMIN")
}

func TestLoginPromptsForMissingCredentials(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"token":"t9","id":1,"email":"ada@kickzone.test","firstName":"Ada","role":"ROLE_SYSTEM_ADMIN"}`)
	})

	_, errOut, code := f.run("ada@kickzone.test\npw\n", "login")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "Email: ")
	assert.Contains(t, errOut, "Password: ")
	assert.Equal(t, "t9", f.storedSession()[apiclient.KeyToken])
}

func TestLoginRejectsStaffByDefault(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"token":"t9","id":7,"email":"sam@kickzone.test","role":"ROLE_STAFF","permissions":["MANAGE_EVENTS"]}`)
	})

	_, errOut, code := f.run("", "login", "-e", "sam@kickzone.test", "-p", "pw")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Access denied. You must be a System Admin.")
	assert.Nil(t, f.storedSession())
}

func TestLoginShowsBackendMessage(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)
	f.mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"Bad credentials"}`)
	})

	_, errOut, code := f.run("", "login", "-e", "ada@kickzone.test", "-p", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Error: Bad credentials")
	assert.False(t, f.called("POST /auth/refresh"))
	assert.Equal(t, "t1", f.storedSession()[apiclient.KeyToken])
}

func TestLogoutClearsSession(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)

	out, _, code := f.run("", "logout")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Signed out.")
	assert.Nil(t, f.storedSession())
}

func TestWhoamiRequiresLogin(t *testing.T) {
	f := newFixture(t)

	_, errOut, code := f.run("", "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not logged in; run `kzadmin login`")
}

func TestWhoamiShowsVisibleSections(t *testing.T) {
	f := newFixture(t)
	f.signIn(staffJSON)

	out, _, code := f.run("", "whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Sam Staff <sam@kickzone.test>")
	assert.Contains(t, out, "Permissions: Manage Events")
	assert.Contains(t, out, "Sections:    Events")
}

func TestUsersListPrintsTable(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)
	f.mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "ROLE_USER", q.Get("role"))
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "jane", q.Get("name"))
		writeJSON(w, http.StatusOK, `{"content":[{"id":3,"firstName":"Jane","lastName":"Doe","email":"jane@example.com","enabled":false}],"totalElements":25,"totalPages":3,"size":10,"number":1}`)
	})
	f.mux.HandleFunc("GET /users/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"totalUsers":1284}`)
	})

	out, errOut, code := f.run("", "users", "list", "--name", "jane", "--page", "2")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "Disabled")
	assert.Contains(t, out, "Page 2 of 3 · 25 total")
	assert.Contains(t, out, "Registered users: 1,284")
}

func TestUsersListJSON(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)
	f.mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":3,"firstName":"Jane","lastName":"Doe","email":"jane@example.com"}]`)
	})

	out, _, code := f.run("", "--json", "users", "list")
	require.Equal(t, 0, code)
	var page apiclient.Page[map[string]any]
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "jane@example.com", page.Content[0]["email"])
}

func TestExpiredSessionIsCleared(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)
	f.mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"Token expired"}`)
	})

	_, errOut, code := f.run("", "users", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "session expired; run `kzadmin login`")
	assert.Nil(t, f.storedSession())
}

func TestPermissionIsCheckedBeforeCalling(t *testing.T) {
	f := newFixture(t)
	f.signIn(staffJSON)

	_, errOut, code := f.run("", "categories", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "permission denied: requires Manage Playground Categories")

	_, errOut, code = f.run("", "staff", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "permission denied: system administrators only")

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Empty(t, f.calls)
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)
	f.mux.HandleFunc("DELETE /users/4", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	_, errOut, code := f.run("n\n", "managers", "delete", "4")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Delete manager 4? [y/N]: ")
	assert.Contains(t, errOut, "Error: aborted")
	assert.False(t, f.called("DELETE /users/4"))

	out, _, code := f.run("y\n", "managers", "delete", "4")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Manager deleted successfully.")
	assert.True(t, f.called("DELETE /users/4"))
}

func TestYesSkipsConfirmation(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)
	f.mux.HandleFunc("PATCH /staff/9/disable", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	out, errOut, code := f.run("", "--yes", "staff", "disable", "9")
	require.Equal(t, 0, code, errOut)
	assert.NotContains(t, errOut, "[y/N]")
	assert.Contains(t, out, "Staff disabled successfully.")
}

func TestFailedMutationShowsBackendMessage(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)
	f.mux.HandleFunc("DELETE /playground-categories/3", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, `{"message":"Category is in use"}`)
	})

	_, errOut, code := f.run("", "-y", "categories", "delete", "3")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Error: failed to delete category: Category is in use")
}

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestManagersCreateFromManifest(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)
	f.mux.HandleFunc("POST /users/managers", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "Jane", r.FormValue("firstName"))
		assert.Equal(t, "Riverside Arena", r.FormValue("groundName"))
		assert.Equal(t, "Parking,Showers", r.FormValue("popularFeatures"))
		writeJSON(w, http.StatusCreated, `{"id":42,"firstName":"Jane"}`)
	})
	manifest := writeManifest(t, `
firstName: Jane
lastName: Doe
email: jane@example.com
password: s3cret!
groundName: Riverside Arena
groundAddress: 1 River Road
popularFeatures: [Parking, Showers]
`)

	out, errOut, code := f.run("", "managers", "create", "-f", manifest)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Manager created successfully (id 42).")
}

func TestManagersCreateValidatesManifest(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)

	missing := writeManifest(t, "firstName: Jane\nlastName: Doe\nemail: jane@example.com\ngroundName: Arena\ngroundAddress: Road\n")
	_, errOut, code := f.run("", "managers", "create", "-f", missing)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid manifest: password: is required")

	typo := writeManifest(t, "firstName: Jane\nfirstname: Jane\n")
	_, errOut, code = f.run("", "managers", "create", "-f", typo)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "parse manifest")

	assert.False(t, f.called("POST /users/managers"))
}

func TestStaffCreateRejectsUnknownPermission(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)
	manifest := writeManifest(t, "firstName: Sam\nlastName: Staff\nemail: sam@kickzone.test\npassword: pw123456\npermissions: [MANAGE_EVENTS, LAUNCH_ROCKETS]\n")

	_, errOut, code := f.run("", "staff", "create", "-f", manifest)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown permissions: LAUNCH_ROCKETS")
	assert.False(t, f.called("POST /staff"))
}

func TestStaffCreateRequiresPassword(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)
	manifest := writeManifest(t, "firstName: Sam\nlastName: Staff\nemail: sam@kickzone.test\npermissions: [MANAGE_EVENTS]\n")

	_, errOut, code := f.run("", "staff", "create", "-f", manifest)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Error: Password is required for new staff.")
}

func TestStaffCreateSendsJSON(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)
	f.mux.HandleFunc("POST /staff", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sam@kickzone.test", body["email"])
		assert.Equal(t, []any{"MANAGE_EVENTS", "VIEW_DASHBOARD"}, body["permissions"])
		writeJSON(w, http.StatusCreated, `{"id":9}`)
	})
	manifest := writeManifest(t, "firstName: Sam\nlastName: Staff\nemail: sam@kickzone.test\npassword: pw123456\npermissions: [MANAGE_EVENTS, VIEW_DASHBOARD]\n")

	out, errOut, code := f.run("", "staff", "create", "-f", manifest)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Staff created successfully (id 9).")
}

func TestEventsCreateNormalizesDates(t *testing.T) {
	f := newFixture(t)
	f.signIn(staffJSON)
	f.mux.HandleFunc("POST /events", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var data map[string]any
		assert.NoError(t, json.Unmarshal([]byte(r.FormValue("data")), &data))
		assert.Equal(t, "2026-06-01 18:00:00", data["lastRegistrationDate"])
		assert.Equal(t, "09:00:00", data["timeFrom"])
		writeJSON(w, http.StatusCreated, `{"id":5}`)
	})
	manifest := writeManifest(t, `
title: Summer Cup
description: Five-a-side knockout
groundId: 12
lastRegistrationDate: "2026-06-01T18:00"
startTournamentDate: "2026-06-10 09:00:00"
timeFrom: "09:00"
timeTo: "17:00"
registrationFees: 25
isActive: true
`)

	out, errOut, code := f.run("", "events", "create", "-f", manifest)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Event created successfully (id 5).")
}

func TestBroadcastSendsNotification(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)
	f.mux.HandleFunc("POST /notifications/broadcast", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Pitch closed", body["title"])
		w.WriteHeader(http.StatusOK)
	})

	out, errOut, code := f.run("", "-y", "broadcast", "-t", " Pitch closed ", "-d", "Maintenance on Sunday")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Broadcast sent successfully!")

	_, errOut, code = f.run("", "-y", "broadcast", "-t", "Only a title")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Please fill in all fields")
}

func TestGroundsSearchMarksPopular(t *testing.T) {
	f := newFixture(t)
	f.signIn(adminJSON)
	f.mux.HandleFunc("GET /grounds", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "arena", r.URL.Query().Get("name"))
		writeJSON(w, http.StatusOK, `[{"id":1,"name":"North Arena"},{"id":2,"name":"South Arena"}]`)
	})
	f.mux.HandleFunc("GET /grounds/popular", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":2,"name":"South Arena"}]`)
	})

	out, errOut, code := f.run("", "--json", "grounds", "search", "arena")
	require.Equal(t, 0, code, errOut)
	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, false, results[0]["popular"])
	assert.Equal(t, true, results[1]["popular"])
}
