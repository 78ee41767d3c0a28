package apiclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

type row struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestDecodePageFlatEnvelope(t *testing.T) {
	raw := []byte(`{"content":[{"id":1,"name":"A"}],"totalElements":11,"totalPages":2,"size":10,"number":1,"first":false,"last":true}`)
	page, err := apiclient.DecodePage[row](raw)
	require.NoError(t, err)
	assert.Equal(t, []row{{ID: 1, Name: "A"}}, page.Content)
	assert.EqualValues(t, 11, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.Number)
	assert.True(t, page.HasPrev())
	assert.False(t, page.HasNext())
}

func TestDecodePageNestedEnvelope(t *testing.T) {
	raw := []byte(`{"content":[{"id":2,"name":"B"},{"id":3,"name":"C"}],"page":{"totalElements":32,"totalPages":4,"size":10,"number":0}}`)
	page, err := apiclient.DecodePage[row](raw)
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.EqualValues(t, 32, page.TotalElements)
	assert.Equal(t, 4, page.TotalPages)
	assert.Equal(t, 10, page.Size)
	assert.True(t, page.HasNext())
	assert.False(t, page.HasPrev())
}

func TestDecodePageBareArray(t *testing.T) {
	page, err := apiclient.DecodePage[row]([]byte(` [{"id":7,"name":"Arena"}] `))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, "Arena", page.Content[0].Name)
}

func TestDecodePageEmptyInputs(t *testing.T) {
	for _, raw := range []string{"", "null", "[]", `{"content":[]}`} {
		page, err := apiclient.DecodePage[row]([]byte(raw))
		require.NoError(t, err, raw)
		assert.NotNil(t, page.Content, raw)
		assert.True(t, page.Empty(), raw)
		assert.Zero(t, page.TotalPages, raw)
	}
}

func TestDecodePageRejectsGarbage(t *testing.T) {
	_, err := apiclient.DecodePage[row]([]byte(`{"content":"nope"}`))
	assert.Error(t, err)
}

func TestPageQueryDefaults(t *testing.T) {
	assert.Equal(t, "page=0&size=10", apiclient.PageQuery(-1, 0).Encode())
	assert.Equal(t, "page=1&size=25", apiclient.PageQuery(1, 25).Encode())

	q := apiclient.PageQuery(0, 10)
	apiclient.SetIfNotEmpty(q, "email", "")
	apiclient.SetIfNotEmpty(q, "name", "ali")
	assert.Equal(t, "name=ali&page=0&size=10", q.Encode())
}
