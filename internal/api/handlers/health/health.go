package health

import (
	"net/http"
	"runtime"
	"time"

	"cocktail-finder/internal/core/ai/cache"
	"cocktail-finder/internal/core/ai/queue"
	"cocktail-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Model     string                 `json:"model"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *queue.Status          `json:"queue,omitempty"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// QueueReporter 提供隊列狀態
type QueueReporter interface {
	QueueStatus() *queue.Status
	GetModel() string
}

// Handler 健康檢查處理器
type Handler struct {
	version          string
	ai               QueueReporter
	cache            cache.Store
	apiKeyConfigured bool
}

// NewHandler 創建健康檢查處理器；store 可為 nil
func NewHandler(version string, ai QueueReporter, store cache.Store, apiKeyConfigured bool) *Handler {
	return &Handler{
		version:          version,
		ai:               ai,
		cache:            store,
		apiKeyConfigured: apiKeyConfigured,
	}
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if h.ai != nil {
		response.Model = h.ai.GetModel()
		response.Queue = h.ai.QueueStatus()
	}
	if h.cache != nil {
		if reporter, ok := h.cache.(cache.StatsReporter); ok {
			response.Cache = reporter.GetStats()
		} else {
			response.Cache = map[string]interface{}{"backend": h.cache.Name()}
		}
	}

	common.LogDebug("health check request",
		zap.String("client_ip", c.ClientIP()),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查：未設定 API key 時回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if !h.apiKeyConfigured {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "model api key is not configured",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
