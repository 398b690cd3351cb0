package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Folio/pkg/engine"
	"Folio/pkg/engine/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	e, err := engine.New(engine.Options{
		LogLevel:      logger.LevelError,
		FallbackProxy: "",
		MaxRetries:    1,
		SearchTTL:     time.Minute,
		DetailsTTL:    time.Minute,
		ChaptersTTL:   time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return NewServer(e, ":0")
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.Contains(t, body, "timestamp")
	assert.Contains(t, body, "caches")
	assert.Contains(t, body, "circuitBreakers")
}

func TestSearchRequiresQuery(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/search", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Query parameter is required", body["error"])
	assert.Equal(t, false, body["retryable"])
}

func TestSearchEmptyRegistry(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/search?query=sword", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "sword", body["query"])
	assert.Equal(t, float64(0), body["totalResults"])
	assert.Equal(t, "No results found", body["message"])
}

func TestBookRequiresURL(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/book/novelbin", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookUnknownSourceUsesGeneric(t *testing.T) {
	prose := strings.Repeat("body text for plausibility checks ", 5)
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<h1>Fallback Book</h1>
			<div class="synopsis">A book served by a site the system has no dedicated scraper for.</div>
			<p>` + prose + `</p>
			<a href="/c/chapter-1">Chapter 1</a>
		</body></html>`))
	}))
	defer origin.Close()

	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/book/some-new-site?url="+origin.URL, "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Fallback Book", body["title"])
	assert.Equal(t, "generic", body["source"])
}

func TestChapterRequiresURL(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/chapter/novelbin", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChapterContent(t *testing.T) {
	prose := strings.Repeat("The night market smelled of rain and charcoal. ", 15)
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<h1>Chapter 2: Night Market</h1>
			<div class="chapter-content"><p>` + prose + `</p></div>
		</body></html>`))
	}))
	defer origin.Close()

	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/chapter/novelfull?url="+origin.URL, "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Chapter 2: Night Market", body["title"])
	assert.Contains(t, body["content"], "night market")
	assert.NotZero(t, body["wordCount"])
}

func TestCacheClear(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/cache/clear", `{"type":"search"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/cache/clear", `{"type":"bogus"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// No body clears everything
	rec = doRequest(t, s, http.MethodPost, "/api/cache/clear", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBreakerReset(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/circuit-breakers/reset", `{"domain":"novelbin.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/circuit-breakers/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "All circuit breakers reset", body["message"])
}
