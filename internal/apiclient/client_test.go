package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

type lockedStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newLockedStore(values map[string]string) *lockedStore {
	return &lockedStore{values: values}
}

func (s *lockedStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

func (s *lockedStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *lockedStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

func sessionStore() apiclient.MemoryStore {
	return apiclient.MemoryStore{
		apiclient.KeyToken:        "stale",
		apiclient.KeyRefreshToken: "refresh-1",
		apiclient.KeyUser:         `{"id":1,"role":"ROLE_SYSTEM_ADMIN"}`,
	}
}

func TestDoAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, time.Second)
	store := apiclient.MemoryStore{apiclient.KeyToken: "abc"}
	ctx := apiclient.ContextWithTokens(context.Background(), store)

	var out map[string]bool
	require.NoError(t, client.GetJSON(ctx, "/users/stats", nil, &out))
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.True(t, out["ok"])
}

func TestDoWithoutTokenSendsNoAuthorization(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Values("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, time.Second)
	require.NoError(t, client.Delete(context.Background(), "/staff/1"))
	assert.Empty(t, gotAuth)
}

func TestDoRefreshesAndRetriesOnce(t *testing.T) {
	var calls, refreshes int32
	var retriedBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			atomic.AddInt32(&refreshes, 1)
			assert.Empty(t, r.Header.Get("Authorization"))
			var payload map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "refresh-1", payload["token"])
			_, _ = w.Write([]byte(`{"token":"fresh"}`))
		case "/notifications/broadcast":
			n := atomic.AddInt32(&calls, 1)
			body, _ := io.ReadAll(r.Body)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"expired"}`))
				return
			}
			if n == 2 {
				retriedBody = string(body)
			}
			_, _ = w.Write([]byte(`{"sent":3}`))
		}
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, time.Second)
	store := sessionStore()
	ctx := apiclient.ContextWithTokens(context.Background(), store)

	var out struct {
		Sent int `json:"sent"`
	}
	err := client.PostJSON(ctx, "/notifications/broadcast", map[string]string{"title": "Hi"}, &out)
	require.NoError(t, err)

	assert.Equal(t, 3, out.Sent)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshes))
	assert.JSONEq(t, `{"title":"Hi"}`, retriedBody)
	assert.Equal(t, "fresh", store.Get(apiclient.KeyToken))
	assert.Equal(t, "refresh-1", store.Get(apiclient.KeyRefreshToken))
}

func TestDoRetriedRequestIsNotRefreshedAgain(t *testing.T) {
	var calls, refreshes int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			atomic.AddInt32(&refreshes, 1)
			_, _ = w.Write([]byte(`{"token":"fresh"}`))
			return
		}
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, time.Second)
	store := sessionStore()
	ctx := apiclient.ContextWithTokens(context.Background(), store)

	err := client.GetJSON(ctx, "/users", nil, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apiclient.StatusCode(err))
	assert.False(t, errors.Is(err, apiclient.ErrSessionExpired))
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshes))
}

func TestDoWithoutRefreshTokenClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			t.Errorf("refresh must not be called without a refresh token")
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Token expired"}`))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, time.Second)
	store := sessionStore()
	store.Delete(apiclient.KeyRefreshToken)
	ctx := apiclient.ContextWithTokens(context.Background(), store)

	err := client.GetJSON(ctx, "/events", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apiclient.ErrSessionExpired)

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Token expired", apiErr.Message)
	assert.Empty(t, store)
}

func TestDoFailedRefreshClearsSession(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, time.Second)
	store := sessionStore()
	ctx := apiclient.ContextWithTokens(context.Background(), store)

	err := client.GetJSON(ctx, "/staff", nil, nil)
	assert.ErrorIs(t, err, apiclient.ErrSessionExpired)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.Empty(t, store.Get(apiclient.KeyToken))
	assert.Empty(t, store.Get(apiclient.KeyRefreshToken))
	assert.Empty(t, store.Get(apiclient.KeyUser))
}

func TestDoEmptyRefreshTokenResponseClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, time.Second)
	store := sessionStore()
	ctx := apiclient.ContextWithTokens(context.Background(), store)

	err := client.GetJSON(ctx, "/grounds", nil, nil)
	assert.ErrorIs(t, err, apiclient.ErrSessionExpired)
	assert.Empty(t, store)
}

func TestDoCoalescesConcurrentRefreshes(t *testing.T) {
	const workers = 5
	var refreshes int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			atomic.AddInt32(&refreshes, 1)
			<-release
			_, _ = w.Write([]byte(`{"token":"fresh"}`))
			return
		}
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, 5*time.Second)
	store := newLockedStore(map[string]string{
		apiclient.KeyToken:        "stale",
		apiclient.KeyRefreshToken: "refresh-1",
	})
	ctx := apiclient.ContextWithTokens(context.Background(), store)

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- client.GetJSON(ctx, "/analytics/dashboard", nil, nil)
		}()
	}
	time.Sleep(150 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshes))
	assert.Equal(t, "fresh", store.Get(apiclient.KeyToken))
}

func TestDoWithoutStorePropagates401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, time.Second)
	err := client.PostJSON(context.Background(), "/auth/login", map[string]string{"email": "a@b.c"}, nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, apiclient.ErrSessionExpired))
	assert.Equal(t, "Bad credentials", apiclient.Message(err))
}

func TestDoWithoutAccessTokenClearsLeftoverSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, time.Second)
	store := apiclient.MemoryStore{
		apiclient.KeyRefreshToken: "r",
		apiclient.KeyUser:         `{"id":1}`,
	}
	ctx := apiclient.ContextWithTokens(context.Background(), store)

	err := client.GetJSON(ctx, "/users", nil, nil)
	assert.ErrorIs(t, err, apiclient.ErrSessionExpired)
	assert.Empty(t, store)
}

func TestDoLoginRejectionKeepsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			t.Errorf("a rejected login must not refresh")
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, time.Second)
	store := sessionStore()
	ctx := apiclient.ContextWithTokens(context.Background(), store)

	err := client.PostJSON(ctx, "/auth/login", map[string]string{"email": "a@b.c"}, nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, apiclient.ErrSessionExpired))
	assert.Equal(t, "Bad credentials", apiclient.Message(err))
	assert.Equal(t, "stale", store.Get(apiclient.KeyToken))
}

func TestMutationHooksRunAfterSuccessfulWrites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/events/9/disable" {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"Event already disabled"}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var (
		mu    sync.Mutex
		calls []string
	)
	client := apiclient.New(srv.URL, time.Second, apiclient.WithMutationHook(func(_ context.Context, method, path string) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, method+" "+path)
	}))
	ctx := context.Background()

	require.NoError(t, client.GetJSON(ctx, "/events", nil, nil))
	require.NoError(t, client.PostJSON(ctx, "/auth/login", map[string]string{}, nil))
	require.NoError(t, client.PostJSON(ctx, "/grounds/3/popular", nil, nil))
	require.NoError(t, client.Delete(ctx, "/users/4"))
	require.Error(t, client.PatchJSON(ctx, "/events/9/disable", nil, nil))

	assert.Equal(t, []string{"POST /grounds/3/popular", "DELETE /users/4"}, calls)
}

func TestDoMapsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Event not found"}`))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL+"/", time.Second)
	err := client.GetJSON(context.Background(), "events/9", nil, nil)
	assert.True(t, apiclient.IsNotFound(err))
	assert.Equal(t, "Event not found", apiclient.Message(err))
	assert.Contains(t, err.Error(), "404")
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveUpstream(method, path string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, method+" "+path+" "+http.StatusText(status))
}

func TestDoReportsToObserver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	observer := &recordingObserver{}
	client := apiclient.New(srv.URL, time.Second, apiclient.WithObserver(observer))
	_, err := client.GetRaw(context.Background(), "/grounds/popular", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /grounds/popular OK"}, observer.calls)
}

func TestGetBlobReturnsBodyAndContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/uploads/grounds/a.png", r.URL.Path)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, time.Second)
	blob, err := client.GetBlob(context.Background(), "/uploads/grounds/a.png")
	require.NoError(t, err)
	defer blob.Body.Close()
	data, err := io.ReadAll(blob.Body)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", blob.ContentType)
}
