package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/poiesic/counselbase/ai/mock"
	"github.com/poiesic/counselbase/core"
	"github.com/poiesic/counselbase/ingestion"
	"github.com/poiesic/counselbase/lexicon"
	"github.com/poiesic/counselbase/search"
	"github.com/poiesic/counselbase/storage"
	"github.com/poiesic/counselbase/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server   *Server
	handler  http.Handler
	provider *mock.MockProvider
	repo     storage.TranscriptRepository
}

func newTestEnv(t *testing.T) (*testEnv, func()) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)

	provider := mock.NewMockProvider().(*mock.MockProvider)

	l := lexicon.New()
	l.Add("i", "feel", "anxious", "sad", "all", "the", "time")
	gate := lexicon.NewGate(l)

	svc, err := search.NewService(repo, provider, gate)
	require.NoError(t, err)

	pipeline, err := ingestion.NewPipeline(repo, provider)
	require.NoError(t, err)

	srv := NewServer(svc, pipeline, repo, Config{Host: "127.0.0.1", Port: 0}, nil)

	env := &testEnv{
		server:   srv,
		handler:  srv.Routes(),
		provider: provider,
		repo:     repo,
	}
	cleanup := func() {
		pipeline.Release()
		repo.Close()
		backend.Close()
	}
	return env, cleanup
}

func (e *testEnv) seed(t *testing.T, context_, response string) {
	t.Helper()
	vector, err := e.provider.Embedder().EmbedText(context.Background(), context_)
	require.NoError(t, err)
	_, err = e.repo.AddTranscripts(context.Background(), &core.TranscriptRecord{
		Context:  context_,
		Response: response,
		Vector:   vector,
	})
	require.NoError(t, err)
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleSearch_Matched(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	env.seed(t, "i feel anxious all the time", "let us explore that anxiety")

	rec := postJSON(t, env.handler, "/api/search", map[string]string{"query": "i feel anxious"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "database_search", resp.Type)
	require.NotEmpty(t, resp.Data)
	assert.Equal(t, "i feel anxious all the time", resp.Data[0].Context)
	assert.Empty(t, resp.Reason)
}

func TestHandleSearch_Rejected(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	rec := postJSON(t, env.handler, "/api/search", map[string]string{"query": "zxqplonk"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Data)
	assert.Equal(t, "query_rejected", resp.Reason)
	assert.Equal(t, noMatchMessage, resp.Message)
}

func TestHandleSearch_NoMatch(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	rec := postJSON(t, env.handler, "/api/search", map[string]string{"query": "i feel sad"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "no_match", resp.Reason)
	assert.Empty(t, resp.Data)
}

func TestHandleSearch_BadRequest(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, env.handler, "/api/search", map[string]string{"query": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSearch_ProviderFailure(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	env.provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("provider unavailable")
	}

	rec := postJSON(t, env.handler, "/api/search", map[string]string{"query": "i feel sad"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func multipartUpload(t *testing.T, filename string, contents []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(datasetFormField, filename)
	require.NoError(t, err)
	_, err = fw.Write(contents)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandleUploadDataset(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	csv := "Context,Response\ni feel sad,tell me more\n,missing context\n"
	body, contentType := multipartUpload(t, "training.csv", []byte(csv))

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp ingestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Ingested)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, 3, resp.Skipped[0].Line)

	count, err := env.repo.CountTranscripts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHandleUploadDataset_UnsupportedFormat(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	body, contentType := multipartUpload(t, "training.pdf", []byte("not a dataset"))

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUploadDataset_MissingFile(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", strings.NewReader(""))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleStatus(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	env.seed(t, "i feel sad", "tell me more")

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp["transcripts"])
}

func TestHandleHealth(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
