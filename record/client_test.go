package record

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCreateEncodesProperties(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pages", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":"page-1"}`))
	}))
	defer srv.Close()

	c := NewClient("tok", "db-1", WithBaseURL(srv.URL))
	id, err := c.Create(context.Background(), "My task", Fields{
		FieldStatus:  "Waiting",
		FieldCommand: "/create-content-post",
	})
	require.NoError(t, err)
	assert.Equal(t, "page-1", id)

	parent := got["parent"].(map[string]any)
	assert.Equal(t, "db-1", parent["database_id"])

	props := got["properties"].(map[string]any)
	status := props[FieldStatus].(map[string]any)
	assert.Equal(t, map[string]any{"name": "Waiting"}, status["select"])

	command := props[FieldCommand].(map[string]any)
	assert.Contains(t, command, "rich_text")

	name := props[FieldName].(map[string]any)
	assert.Contains(t, name, "title")
}

func TestClientUpdatePatchesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/pages/page-1", r.URL.Path)
		w.Write([]byte(`{"id":"page-1"}`))
	}))
	defer srv.Close()

	c := NewClient("tok", "db-1", WithBaseURL(srv.URL))
	err := c.Update(context.Background(), "page-1", Fields{FieldStatus: "Complete"})
	assert.NoError(t, err)
}

func TestClientGetDecodesRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pages/page-1", r.URL.Path)
		w.Write([]byte(`{
			"id": "page-1",
			"created_time": "2026-08-01T10:00:00.000Z",
			"properties": {
				"Name": {"title": [{"plain_text": "My task"}]},
				"Status": {"select": {"name": "Processing"}},
				"Content": {"rich_text": [{"text": {"content": "Banking made simple."}}]}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient("tok", "db-1", WithBaseURL(srv.URL))
	rec, err := c.Get(context.Background(), "page-1")
	require.NoError(t, err)

	assert.Equal(t, "page-1", rec.ID)
	assert.Equal(t, "My task", rec.Fields[FieldName])
	assert.Equal(t, "Processing", rec.Fields[FieldStatus])
	assert.Equal(t, "Banking made simple.", rec.Fields[FieldContent])
}

func TestClientGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("tok", "db-1", WithBaseURL(srv.URL))
	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientQuerySendsFilter(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/databases/db-1/query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"results":[{"id":"page-1","properties":{"Status":{"select":{"name":"Waiting"}}}}]}`))
	}))
	defer srv.Close()

	c := NewClient("tok", "db-1", WithBaseURL(srv.URL))
	recs, err := c.Query(context.Background(), Filter{Field: FieldStatus, Equals: "Waiting"}, 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Waiting", recs[0].Fields[FieldStatus])

	filter := got["filter"].(map[string]any)
	assert.Equal(t, FieldStatus, filter["property"])
	assert.Equal(t, map[string]any{"equals": "Waiting"}, filter["select"])
	assert.Equal(t, float64(5), got["page_size"])
}
