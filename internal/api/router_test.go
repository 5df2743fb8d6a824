package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"cocktail-finder/internal/infrastructure/config"
	"cocktail-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const liquorPair = `[{"title":"Vodka Collins","snippet":"Ingredients:\n- 2 oz vodka\n- 1 oz lemon\nInstructions:\n1. Shake.\n2. Top with soda.","filePath":null},` +
	`{"title":"Vodka Basil Smash","snippet":"Ingredients:\n- 2 oz vodka\n- 4 basil leaves\nInstructions:\n1. Muddle.\n2. Shake.","filePath":null}]`

// modelServer 模擬 generateContent 端點，回傳固定文字
func modelServer(t *testing.T, text string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	envelope, err := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"parts": []any{map[string]any{"text": text}}},
		}},
	})
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(envelope)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func testConfig(baseURL, apiKey string) *config.Config {
	return &config.Config{
		App:    config.AppConfig{Version: "test", Debug: false},
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 20},
		Gemini: config.GeminiConfig{
			APIKey:         apiKey,
			BaseURL:        baseURL,
			Model:          "gemini-test",
			TextTimeout:    2 * time.Second,
			CommentTimeout: time.Second,
		},
		Cache:       config.CacheConfig{Enabled: true, Backend: config.CacheBackendMemory, MaxSize: 10},
		Queue:       config.QueueConfig{Workers: 2, MaxSize: 10},
		RateLimit:   config.RateLimitConfig{Enabled: true, Requests: 100, Window: time.Minute},
		Image:       config.ImageConfig{MaxSizeBytes: 1 << 20},
		DedupWindow: time.Minute,
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	deps, err := NewDependencies(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(deps.Close)
	return SetupRouter(cfg, deps)
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_Search(t *testing.T) {
	server, calls := modelServer(t, liquorPair)
	router := newTestRouter(t, testConfig(server.URL, "test-key"))

	w := do(router, http.MethodPost, "/api/v1/search", `{"query":"vodka"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var body struct {
		Category string                    `json:"category"`
		Results  []common.NormalizedResult `json:"results"`
		Fallback bool                      `json:"fallback"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "liquor", body.Category)
	assert.False(t, body.Fallback)
	require.Len(t, body.Results, 2)
	assert.Equal(t, "Vodka Collins", body.Results[0].Title)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	// identical POST inside the dedup window is answered with the first response
	again := do(router, http.MethodPost, "/api/v1/search", `{"query":"vodka"}`)
	assert.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, w.Body.String(), again.Body.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestRouter_SpoofedForwardedForSharesOneBucket(t *testing.T) {
	server, _ := modelServer(t, liquorPair)
	cfg := testConfig(server.URL, "test-key")
	cfg.RateLimit.Requests = 2
	router := newTestRouter(t, cfg)

	allowed := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/comment", strings.NewReader(`{"title":"Negroni `+strconv.Itoa(i)+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("X-Forwarded-For", "198.51.100."+strconv.Itoa(i))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 2, allowed)
}

func TestRouter_MissingAPIKeyServesFallback(t *testing.T) {
	server, calls := modelServer(t, liquorPair)
	router := newTestRouter(t, testConfig(server.URL, ""))

	w := do(router, http.MethodPost, "/api/v1/search", `{"query":"margarita"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fallback":true`)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))

	assert.Equal(t, http.StatusServiceUnavailable, do(router, http.MethodGet, "/ready", "").Code)
}

func TestRouter_HealthAndLimits(t *testing.T) {
	server, _ := modelServer(t, liquorPair)
	cfg := testConfig(server.URL, "test-key")
	cfg.Server.MaxBodyBytes = 64
	router := newTestRouter(t, cfg)

	w := do(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"model":"gemini-test"`)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/live", "").Code)

	big := `{"query":"` + strings.Repeat("a", 128) + `"}`
	assert.Equal(t, http.StatusRequestEntityTooLarge, do(router, http.MethodPost, "/api/v1/search", big).Code)
	w = do(router, http.MethodGet, "/api/v1/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeNotFound)
}

func TestRouter_Comment(t *testing.T) {
	server, _ := modelServer(t, "Salt the rim and mind the lime.")
	router := newTestRouter(t, testConfig(server.URL, "test-key"))

	w := do(router, http.MethodPost, "/api/v1/comment", `{"title":"Classic Margarita","recipe_type":"classic"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Salt the rim and mind the lime.")
	assert.Contains(t, w.Body.String(), `"showUpgradeButton":true`)
}

func TestNewDependencies_CacheDisabled(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1", "k")
	cfg.Cache.Enabled = false

	deps, err := NewDependencies(context.Background(), cfg)
	require.NoError(t, err)
	defer deps.Close()
	assert.Nil(t, deps.Store)
	assert.Equal(t, "gemini-test", deps.AI.GetModel())
	assert.Equal(t, 2, deps.AI.QueueStatus().Workers)
}
