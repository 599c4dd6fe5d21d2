package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getveil/veil/pkg/anonymizer"
	"github.com/getveil/veil/pkg/models"
	"github.com/getveil/veil/pkg/store"
	"github.com/getveil/veil/pkg/testutils"
)

func newTestServer(t *testing.T) (*httptest.Server, *models.AppState) {
	t.Helper()

	cfg := testutils.NewTestConfig(t.TempDir())
	mappingStore, err := store.NewFileStore(cfg.MappingStore.File.Path, cfg.MappingStore.Secret)
	require.NoError(t, err)

	appState := &models.AppState{
		Anonymizer:   anonymizer.NewService(nil),
		MappingStore: mappingStore,
		Config:       cfg,
	}

	server := httptest.NewServer(setupRouter(appState))
	t.Cleanup(server.Close)
	return server, appState
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestVersionHeader(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(versionHeader))
}

func TestAnonymizeRoute(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/anonymize", AnonymizeRequest{
		Text: "Hello, my name is John Smith.",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body AnonymizeResponse
	decodeResponse(t, resp, &body)
	assert.Equal(t, "Hello, my name is name_1.", body.Text)
	assert.Equal(t, "John Smith", body.Mapping["name_1"])
	assert.Equal(t, 1, body.EntityCounts["Person Name"])
	assert.Empty(t, body.MappingKey)
}

func TestAnonymizeRouteMissingText(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/anonymize", AnonymizeRequest{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnonymizeRouteInvalidMode(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/anonymize", AnonymizeRequest{
		Text: "some text",
		Mode: "redact",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnonymizePersistAndDeanonymizeByKey(t *testing.T) {
	server, _ := newTestServer(t)
	original := "Hello, my name is John Smith."

	resp := postJSON(t, server.URL+"/api/v1/anonymize", AnonymizeRequest{
		Text:    original,
		Persist: true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var anonymized AnonymizeResponse
	decodeResponse(t, resp, &anonymized)
	require.NotEmpty(t, anonymized.MappingKey)

	resp = postJSON(t, server.URL+"/api/v1/deanonymize", DeanonymizeRequest{
		Text:       anonymized.Text,
		MappingKey: anonymized.MappingKey,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var restored DeanonymizeResponse
	decodeResponse(t, resp, &restored)
	assert.Equal(t, original, restored.Text)
}

func TestDeanonymizeInlineMapping(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/deanonymize", DeanonymizeRequest{
		Text:    "Hi name_1!",
		Mapping: models.Mapping{"name_1": "John"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var restored DeanonymizeResponse
	decodeResponse(t, resp, &restored)
	assert.Equal(t, "Hi John!", restored.Text)
}

func TestDeanonymizeUnknownKey(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/deanonymize", DeanonymizeRequest{
		Text:       "Hi name_1!",
		MappingKey: "0b6bec41-7a13-44ea-a66e-ae6a04b1e7b8",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeanonymizeInvalidKeyRejected(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/deanonymize", DeanonymizeRequest{
		Text:       "Hi name_1!",
		MappingKey: "../escape",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body APIError
	decodeResponse(t, resp, &body)
	assert.Contains(t, body.Message, "invalid mapping key")
}

func TestPreviewRoute(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/preview", PreviewRequest{
		Text: "Email a@b.com about SSN 123-45-6789.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var preview PreviewResponse
	decodeResponse(t, resp, &preview)
	assert.Equal(t, []string{"a@b.com"}, preview.Entities["Email Address"])
	assert.Equal(t, []string{"123-45-6789"}, preview.Entities["Social Security Number"])
}

func TestStatsRoute(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/stats", StatsRequest{
		Text: "Email a@b.com or c@d.com today.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats StatsResponse
	decodeResponse(t, resp, &stats)
	assert.Equal(t, 2, stats.Counts["Email Address"])
}

func TestClearMappingsRoute(t *testing.T) {
	server, appState := newTestServer(t)

	require.NoError(t, appState.MappingStore.Put(
		context.Background(),
		"some-key",
		models.Mapping{"name_1": "John"},
	))

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/mappings", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = appState.MappingStore.Get(context.Background(), "some-key")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAuthRequired(t *testing.T) {
	cfg := testutils.NewTestConfig(t.TempDir())
	cfg.Auth.Required = true
	cfg.Auth.Secret = "test-auth-secret"

	appState := &models.AppState{
		Anonymizer: anonymizer.NewService(nil),
		Config:     cfg,
	}
	server := httptest.NewServer(setupRouter(appState))
	t.Cleanup(server.Close)

	resp := postJSON(t, server.URL+"/api/v1/anonymize", AnonymizeRequest{Text: "hi"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
