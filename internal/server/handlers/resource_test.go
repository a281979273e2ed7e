package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclinic/fhirsync/internal/server/storage/sqlite"
	"github.com/openclinic/fhirsync/pkg/api"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	NewResourceHandler(logger, store).Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func doRequest(t *testing.T, method, url, ifMatch string, body []byte) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if ifMatch != "" {
		req.Header.Set("If-Match", ifMatch)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, raw
}

func TestResourceHandler_CreateAndGet(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/api/v1/fhir/Patient/p-1"

	resp, raw := doRequest(t, http.MethodPut, url, "", []byte(`{"resourceType":"Patient","id":"p-1"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created api.ResourceResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "1", created.Version)

	resp, raw = doRequest(t, http.MethodGet, url, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got api.ResourceResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "1", got.Version)
	assert.JSONEq(t, `{"resourceType":"Patient","id":"p-1"}`, string(got.Resource))
}

func TestResourceHandler_CreateExisting(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/api/v1/fhir/Patient/p-1"

	resp, _ := doRequest(t, http.MethodPut, url, "", []byte(`{"v":1}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// A second precondition-free PUT is a create attempt against an existing
	// resource and must conflict
	resp, raw := doRequest(t, http.MethodPut, url, "", []byte(`{"v":2}`))
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var conflict api.ConflictResponse
	require.NoError(t, json.Unmarshal(raw, &conflict))
	assert.Equal(t, "1", conflict.CurrentVersion)
	assert.JSONEq(t, `{"v":1}`, string(conflict.Resource))
}

func TestResourceHandler_UpdateWithIfMatch(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/api/v1/fhir/Patient/p-1"

	resp, _ := doRequest(t, http.MethodPut, url, "", []byte(`{"v":1}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := doRequest(t, http.MethodPut, url, "1", []byte(`{"v":2}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated api.ResourceResponse
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, "2", updated.Version)
}

func TestResourceHandler_UpdateStaleVersion(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/api/v1/fhir/Patient/p-1"

	resp, _ := doRequest(t, http.MethodPut, url, "", []byte(`{"v":1}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doRequest(t, http.MethodPut, url, "1", []byte(`{"v":2}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Writing against the superseded version answers 409 with current state
	resp, raw := doRequest(t, http.MethodPut, url, "1", []byte(`{"v":3}`))
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var conflict api.ConflictResponse
	require.NoError(t, json.Unmarshal(raw, &conflict))
	assert.Equal(t, "2", conflict.CurrentVersion)
	assert.JSONEq(t, `{"v":2}`, string(conflict.Resource))
}

func TestResourceHandler_InvalidIfMatch(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/api/v1/fhir/Patient/p-1"

	resp, _ := doRequest(t, http.MethodPut, url, "not-a-version", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResourceHandler_InvalidBody(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/api/v1/fhir/Patient/p-1"

	resp, _ := doRequest(t, http.MethodPut, url, "", []byte(`{not json`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResourceHandler_Patch(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/api/v1/fhir/Patient/p-1"

	resp, _ := doRequest(t, http.MethodPut, url, "",
		[]byte(`{"name":"before","status":"active","note":"keep"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Merge patch: replace one key, remove another, keep the rest
	resp, raw := doRequest(t, http.MethodPatch, url, "1",
		[]byte(`{"name":"after","note":null}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var patched api.ResourceResponse
	require.NoError(t, json.Unmarshal(raw, &patched))
	assert.Equal(t, "2", patched.Version)
	assert.JSONEq(t, `{"name":"after","status":"active"}`, string(patched.Resource))
}

func TestResourceHandler_PatchStaleVersion(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/api/v1/fhir/Patient/p-1"

	resp, _ := doRequest(t, http.MethodPut, url, "", []byte(`{"v":1}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodPatch, url, "5", []byte(`{"v":2}`))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestResourceHandler_PatchMissing(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doRequest(t, http.MethodPatch, srv.URL+"/api/v1/fhir/Patient/missing", "1", []byte(`{}`))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResourceHandler_Delete(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/api/v1/fhir/Patient/p-1"

	resp, _ := doRequest(t, http.MethodPut, url, "", []byte(`{}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodDelete, url, "1", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// A deleted resource reads as absent
	resp, _ = doRequest(t, http.MethodGet, url, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResourceHandler_DeleteMissing(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doRequest(t, http.MethodDelete, srv.URL+"/api/v1/fhir/Patient/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResourceHandler_GetMissing(t *testing.T) {
	srv := newTestServer(t)

	resp, raw := doRequest(t, http.MethodGet, srv.URL+"/api/v1/fhir/Patient/missing", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp api.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.NotEmpty(t, errResp.Error)
}

func TestResourceHandler_List(t *testing.T) {
	srv := newTestServer(t)

	for _, id := range []string{"p-1", "p-2"} {
		resp, _ := doRequest(t, http.MethodPut, srv.URL+"/api/v1/fhir/Patient/"+id, "", []byte(`{}`))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, raw := doRequest(t, http.MethodGet, srv.URL+"/api/v1/fhir/Patient", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []api.ResourceResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 2)
}
