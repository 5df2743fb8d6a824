package cocktail

import (
	"context"
	"net/http"
	"strings"
	"time"

	"cocktail-finder/internal/core/recipe"
	"cocktail-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Searcher 文字查詢
type Searcher interface {
	Search(ctx context.Context, query, apiKey string) *recipe.SearchResult
}

// Commenter 評語產生
type Commenter interface {
	GenerateComment(ctx context.Context, title string, ingredients []string, season recipe.Season, apiKey string, recipeType recipe.RecipeType) (common.EnhancedComment, error)
}

// Analyzer 圖片查詢
type Analyzer interface {
	Analyze(ctx context.Context, imageData, apiKey string, kind recipe.VisionKind) (*recipe.SearchResult, error)
}

// SearchRequest 查詢請求
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// CommentRequest 評語請求
type CommentRequest struct {
	Title       string   `json:"title" binding:"required"`
	Ingredients []string `json:"ingredients,omitempty"`
	Season      string   `json:"season,omitempty"`      // 空白時使用目前季節
	RecipeType  string   `json:"recipe_type,omitempty"` // classic 或 elevated
}

// CommentResponse 評語回應
type CommentResponse struct {
	EnhancedComment common.EnhancedComment `json:"enhancedComment"`
	Fallback        bool                   `json:"fallback"`
}

// VisionRequest 圖片請求
type VisionRequest struct {
	Image string `json:"image" binding:"required"` // data URI 或 base64
	Kind  string `json:"kind,omitempty"`           // liquor 或 food
}

// Handler 調酒 API 處理程序
type Handler struct {
	searcher  Searcher
	commenter Commenter
	analyzer  Analyzer
	apiKey    string
	debug     bool
	now       func() time.Time
}

// NewHandler 創建處理程序；apiKey 來自伺服器設定
func NewHandler(searcher Searcher, commenter Commenter, analyzer Analyzer, apiKey string, debug bool) *Handler {
	return &Handler{
		searcher:  searcher,
		commenter: commenter,
		analyzer:  analyzer,
		apiKey:    apiKey,
		debug:     debug,
		now:       time.Now,
	}
}

// HandleSearch POST /api/v1/search
func (h *Handler) HandleSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		h.badRequest(c, err, "query is required")
		return
	}

	result := h.searcher.Search(c.Request.Context(), req.Query, h.apiKey)

	common.LogInfo("search completed",
		zap.String("request_id", requestid.Get(c)),
		zap.String("category", result.Category.String()),
		zap.Int("results", len(result.Results)),
		zap.Bool("cache_hit", result.CacheHit),
		zap.Bool("fallback", result.Fallback),
	)

	c.JSON(http.StatusOK, result)
}

// HandleComment POST /api/v1/comment
func (h *Handler) HandleComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		h.badRequest(c, err, "title is required")
		return
	}

	recipeType := recipe.RecipeClassic
	switch strings.ToLower(strings.TrimSpace(req.RecipeType)) {
	case "", string(recipe.RecipeClassic):
	case string(recipe.RecipeElevated):
		recipeType = recipe.RecipeElevated
	default:
		h.badRequest(c, nil, "recipe_type must be classic or elevated")
		return
	}

	season := recipe.Season(strings.ToLower(strings.TrimSpace(req.Season)))
	if season == "" {
		season = recipe.SeasonFor(h.now())
	}

	comment, err := h.commenter.GenerateComment(c.Request.Context(), req.Title, req.Ingredients, season, h.apiKey, recipeType)
	if err != nil {
		common.LogWarn("comment generation failed, serving canned comment",
			zap.String("request_id", requestid.Get(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, CommentResponse{EnhancedComment: recipe.CannedComment(recipeType), Fallback: true})
		return
	}

	c.JSON(http.StatusOK, CommentResponse{EnhancedComment: comment})
}

// HandleVision POST /api/v1/vision
func (h *Handler) HandleVision(c *gin.Context) {
	var req VisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err, "image is required")
		return
	}

	kind, err := recipe.ParseVisionKind(req.Kind)
	if err != nil {
		h.badRequest(c, err, err.Error())
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), req.Image, h.apiKey, kind)
	if err != nil {
		if common.IsValidationError(err) {
			h.respondError(c, common.NewError(common.ErrInvalidImageFormat.Code, err.Error(), http.StatusBadRequest, err))
			return
		}
		common.LogError("vision request failed",
			zap.String("request_id", requestid.Get(c)),
			zap.Error(err),
		)
		h.respondError(c, common.NewError(common.ErrCodeInternalError, "vision request failed", http.StatusInternalServerError, err))
		return
	}

	common.LogInfo("vision completed",
		zap.String("request_id", requestid.Get(c)),
		zap.String("kind", string(kind)),
		zap.Int("results", len(result.Results)),
		zap.Bool("fallback", result.Fallback),
	)

	c.JSON(http.StatusOK, result)
}

func (h *Handler) badRequest(c *gin.Context, err error, message string) {
	h.respondError(c, common.NewError(common.ErrCodeInvalidRequest, message, http.StatusBadRequest, err))
}

func (h *Handler) respondError(c *gin.Context, e *common.CustomError) {
	if e.Err != nil {
		_ = c.Error(e.Err)
	}
	c.AbortWithStatusJSON(e.Status, e.ToResponse(h.debug))
}
