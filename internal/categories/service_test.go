package categories

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

type capturedPart struct {
	contentType string
	filename    string
	body        string
}

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(apiclient.New(srv.URL, time.Second))
}

func readParts(t *testing.T, r *http.Request) map[string]capturedPart {
	t.Helper()
	reader, err := r.MultipartReader()
	if !assert.NoError(t, err) {
		return nil
	}
	parts := map[string]capturedPart{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return parts
		}
		if !assert.NoError(t, err) {
			return parts
		}
		body, _ := io.ReadAll(part)
		parts[part.FormName()] = capturedPart{contentType: part.Header.Get("Content-Type"), filename: part.FileName(), body: string(body)}
	}
}

func TestCreateWithImageSendsThreeParts(t *testing.T) {
	var parts map[string]capturedPart
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/playground-categories", r.URL.Path)
		parts = readParts(t, r)
		_, _ = w.Write([]byte(`{"id":3,"name":"Football","color":"#22c55e"}`))
	})

	created, err := svc.Create(context.Background(), Input{Name: "Football", Color: "#22c55e"}, &apiclient.File{Name: "ball.png", Data: pngBytes})
	require.NoError(t, err)
	assert.EqualValues(t, 3, created.ID)

	require.Len(t, parts, 3)
	assert.Equal(t, "Football", parts["name"].body)
	assert.Equal(t, "#22c55e", parts["color"].body)
	assert.Equal(t, "image/png", parts["image"].contentType)
	assert.Equal(t, "ball.png", parts["image"].filename)
}

func TestCreateWithoutImageOmitsPart(t *testing.T) {
	var parts map[string]capturedPart
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		parts = readParts(t, r)
		_, _ = w.Write([]byte(`{"id":4,"name":"Tennis"}`))
	})

	_, err := svc.Create(context.Background(), Input{Name: "Tennis"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, parts, "image")
	assert.Equal(t, DefaultColor, parts["color"].body)
}

func TestUpdateSendsDeletedFlag(t *testing.T) {
	var parts map[string]capturedPart
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/playground-categories/9", r.URL.Path)
		parts = readParts(t, r)
		_, _ = w.Write([]byte(`{"id":9,"name":"Padel"}`))
	})

	_, err := svc.Update(context.Background(), 9, Input{Name: "Padel", Color: "#ffffff", Deleted: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "true", parts["deleted"].body)
	assert.NotContains(t, parts, "image")
}

func TestListAcceptsBareArray(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Football"},{"id":2,"name":"Basketball"}]`))
	})

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Basketball", items[1].Name)
}

func TestDeleteReportsBackendMessage(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Category is in use"}`))
	})

	err := svc.Delete(context.Background(), 2)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apiclient.StatusCode(err))
	assert.Equal(t, "Category is in use", apiclient.Message(err))
}
