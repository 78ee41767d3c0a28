package events

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(apiclient.New(srv.URL, time.Second))
}

// dataPart returns the decoded JSON "data" part and whether an image part
// was present.
func dataPart(t *testing.T, r *http.Request) (map[string]any, bool) {
	t.Helper()
	reader, err := r.MultipartReader()
	if !assert.NoError(t, err) {
		return nil, false
	}
	var data map[string]any
	hasImage := false
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return data, hasImage
		}
		if !assert.NoError(t, err) {
			return data, hasImage
		}
		switch part.FormName() {
		case "data":
			assert.Equal(t, "application/json", part.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(part).Decode(&data))
		case "image":
			hasImage = true
		}
	}
}

func TestCreateSendsDataPart(t *testing.T) {
	var data map[string]any
	var hasImage bool
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/events", r.URL.Path)
		data, hasImage = dataPart(t, r)
		_, _ = w.Write([]byte(`{"id":12,"title":"Winter Cup"}`))
	})

	max := 16
	created, err := svc.Create(context.Background(), Input{
		Title:                "Winter Cup",
		Description:          "Five-a-side",
		GroundID:             3,
		LastRegistrationDate: "2026-11-01T18:00",
		RegistrationFees:     50,
		MaxRegistrations:     &max,
		IsActive:             true,
		StartTournamentDate:  "2026-11-10T09:00",
		TimeFrom:             "09:00",
		TimeTo:               "17:00",
	}, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 12, created.ID)

	assert.False(t, hasImage)
	assert.Equal(t, "Winter Cup", data["title"])
	assert.EqualValues(t, 3, data["groundId"])
	assert.Equal(t, "2026-11-01 18:00:00", data["lastRegistrationDate"])
	assert.Equal(t, "2026-11-10 09:00:00", data["startTournamentDate"])
	assert.Equal(t, "09:00:00", data["timeFrom"])
	assert.EqualValues(t, 16, data["maxRegistrations"])
	assert.Equal(t, true, data["isActive"])
}

func TestUpdateSendsOnlySuppliedFields(t *testing.T) {
	var data map[string]any
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/events/12", r.URL.Path)
		data, _ = dataPart(t, r)
		_, _ = w.Write([]byte(`{"id":12}`))
	})

	start := "2026-11-10T09:30"
	_, err := svc.Update(context.Background(), 12, Patch{StartTournamentDate: &start}, &apiclient.File{Name: "cup.png", Data: []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"startTournamentDate": "2026-11-10 09:30:00"}, data)
}

func TestListReadsNestedPageEnvelope(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("size"))
		_, _ = w.Write([]byte(`{"content":[{"id":1,"title":"Cup","ground":{"id":3,"name":"Arena"}}],"page":{"totalElements":11,"totalPages":3,"size":5,"number":2}}`))
	})

	page, err := svc.List(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 11, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Arena", page.Content[0].GroundName())
}

func TestDisableAndRegistrations(t *testing.T) {
	var calls []string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.URL.Path == "/events/4/registrations" {
			_, _ = w.Write([]byte(`[{"id":1,"teamName":"Red Lions","numberOfPlayers":7,"user":{"firstName":"Lina","lastName":"H","email":"l@x.io"}}]`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	require.NoError(t, svc.Disable(ctx, 4))
	regs, err := svc.Registrations(ctx, 4)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, 7, regs[0].NumberOfPlayers)
	assert.Equal(t, []string{"PATCH /events/4/disable", "GET /events/4/registrations"}, calls)
}
