package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cocktail-finder/internal/core/ai/cache"
	"cocktail-finder/internal/core/ai/queue"
	"cocktail-finder/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReporter struct{}

func (stubReporter) QueueStatus() *queue.Status {
	return &queue.Status{Workers: 8, MaxQueueSize: 100}
}

func (stubReporter) GetModel() string { return "gemini-1.5-flash" }

func serve(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", h)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestHealthCheck(t *testing.T) {
	store := cache.NewManager(config.CacheConfig{MaxSize: 10})
	defer store.Close()
	h := NewHandler("1.2.3", stubReporter{}, store, true)

	w := serve(h.HealthCheck)
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "gemini-1.5-flash", resp.Model)
	require.NotNil(t, resp.Queue)
	assert.Equal(t, 8, resp.Queue.Workers)
	assert.Equal(t, config.CacheBackendMemory, resp.Cache["backend"])
}

func TestHealthCheck_NoCache(t *testing.T) {
	h := NewHandler("1.2.3", stubReporter{}, nil, true)

	w := serve(h.HealthCheck)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"cache"`)
}

func TestReadinessCheck(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(NewHandler("v", nil, nil, true).ReadinessCheck).Code)

	w := serve(NewHandler("v", nil, nil, false).ReadinessCheck)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not_ready")
}

func TestLivenessCheck(t *testing.T) {
	w := serve(NewHandler("v", nil, nil, false).LivenessCheck)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alive")
}
