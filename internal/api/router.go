package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cocktail-finder/internal/api/handlers/cocktail"
	"cocktail-finder/internal/api/handlers/health"
	"cocktail-finder/internal/api/middleware"
	"cocktail-finder/internal/core/ai/cache"
	"cocktail-finder/internal/core/ai/gemini"
	"cocktail-finder/internal/core/ai/provider"
	"cocktail-finder/internal/core/ai/queue"
	"cocktail-finder/internal/core/ai/service"
	"cocktail-finder/internal/core/image"
	"cocktail-finder/internal/core/recipe"
	"cocktail-finder/internal/infrastructure/config"
	"cocktail-finder/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由使用的服務
type Dependencies struct {
	AI       *service.Service
	Store    cache.Store
	Search   *recipe.SearchService
	Comments *recipe.CommentService
	Vision   *recipe.VisionService
	Dedup    *middleware.Deduplicator
	Limiter  *middleware.ClientLimiter
}

// NewDependencies 依設定建立所有服務
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	common.LogInfo("initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Int("queue_workers", cfg.Queue.Workers),
		zap.String("model", cfg.Gemini.Model),
	)

	store, err := cache.NewStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	client := gemini.NewClient(provider.Config{Model: cfg.Gemini.Model, BaseURL: cfg.Gemini.BaseURL})
	aiService := service.NewService(cfg.Gemini, client, queue.NewManager(cfg.Queue))

	comments := recipe.NewCommentService(aiService)
	var limiter *middleware.ClientLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewClientLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}
	return &Dependencies{
		AI:       aiService,
		Store:    store,
		Search:   recipe.NewSearchService(aiService, comments, store),
		Comments: comments,
		Vision:   recipe.NewVisionService(aiService, image.NewService(cfg.Image.MaxSizeBytes)),
		Dedup:    middleware.NewDeduplicator(cfg.DedupWindow),
		Limiter:  limiter,
	}, nil
}

// Close 釋放資源
func (d *Dependencies) Close() {
	if d.Dedup != nil {
		d.Dedup.Close()
	}
	if d.Limiter != nil {
		d.Limiter.Close()
	}
	if d.AI != nil {
		if err := d.AI.Close(); err != nil {
			common.LogWarn("failed to close ai service", zap.Error(err))
		}
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			common.LogWarn("failed to close cache", zap.Error(err))
		}
	}
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// 未設定代理時 ClientIP 只取連線來源，避免偽造 X-Forwarded-For 繞過限流
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		common.LogWarn("invalid trusted proxies, trusting none", zap.Strings("trusted_proxies", cfg.Server.TrustedProxies), zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(requestTimeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, deps.AI, deps.Store, cfg.Gemini.APIKey != "")
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	if deps.Limiter != nil {
		api.Use(deps.Limiter.Middleware())
	}
	if deps.Dedup != nil {
		api.Use(deps.Dedup.Middleware())
	}
	{
		h := cocktail.NewHandler(deps.Search, deps.Comments, deps.Vision, cfg.Gemini.APIKey, cfg.App.Debug)
		api.POST("/search", h.HandleSearch)
		api.POST("/comment", h.HandleComment)
		api.POST("/vision", h.HandleVision)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrNotFound.ToResponse(false))
	})

	common.LogInfo("router setup completed",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.Bool("rate_limit", deps.Limiter != nil),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}

// requestTimeout 為每個請求設定逾時
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeout),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrGatewayTimeout.ToResponse(false))
		}
	}
}
