package recipe

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"cocktail-finder/internal/core/ai/cache"
	"cocktail-finder/internal/core/ai/provider"
	"cocktail-finder/internal/core/ai/service"
	"cocktail-finder/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SearchResult 一次查詢的結果
type SearchResult struct {
	Query           string                    `json:"query"`
	Category        Category                  `json:"category"`
	Results         []common.NormalizedResult `json:"results"`
	FormattedRecipe *common.FormattedRecipe   `json:"formattedRecipe"`
	Fallback        bool                      `json:"fallback"`
	CacheHit        bool                      `json:"cacheHit"`
}

// SearchService 查詢流程：分類、快取、prompt、模型、解析、映射
type SearchService struct {
	generator Generator
	comments  *CommentService
	store     cache.Store
	now       func() time.Time
	intn      func(int) int
}

// SearchOption 選項
type SearchOption func(*SearchService)

// WithClock 指定時間來源
func WithClock(now func() time.Time) SearchOption {
	return func(s *SearchService) { s.now = now }
}

// WithRand 指定亂數來源
func WithRand(intn func(int) int) SearchOption {
	return func(s *SearchService) { s.intn = intn }
}

// NewSearchService 創建查詢服務；store 可為 nil（停用快取）
func NewSearchService(generator Generator, comments *CommentService, store cache.Store, opts ...SearchOption) *SearchService {
	s := &SearchService{
		generator: generator,
		comments:  comments,
		store:     store,
		now:       time.Now,
		intn:      rand.Intn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchAndProcessResults 執行完整流程；模型或嚴格解析失敗時回傳錯誤
func (s *SearchService) FetchAndProcessResults(ctx context.Context, query, apiKey string) ([]common.NormalizedResult, error) {
	res, err := s.fetch(ctx, query, apiKey)
	if err != nil {
		return nil, err
	}
	return res.Results, nil
}

// Search 永不失敗：任何錯誤都以該分類的固定推薦取代
func (s *SearchService) Search(ctx context.Context, query, apiKey string) *SearchResult {
	res, err := s.fetch(ctx, query, apiKey)
	if err == nil {
		return res
	}

	category := Classify(query)
	common.LogWarn("search failed, serving fallback",
		zap.String("query", query),
		zap.String("category", category.String()),
		zap.Error(err),
	)
	return withFormattedRecipe(&SearchResult{
		Query:    strings.TrimSpace(query),
		Category: category,
		Results:  FallbackResults(category),
		Fallback: true,
	})
}

func (s *SearchService) fetch(ctx context.Context, query, apiKey string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.NewValidationError("query is required")
	}

	category := Classify(query)
	cacheable := category.Cacheable() && s.store != nil

	if cacheable {
		if res, ok := s.lookup(ctx, query, category); ok {
			return res, nil
		}
	}

	pc := NewPromptContext(s.now(), s.intn)
	text, err := s.generator.Generate(ctx, &provider.Request{
		Prompt:   BuildPrompt(category, query, pc),
		APIKey:   apiKey,
		Options:  provider.TextGeneration,
		CallSite: service.CallSiteSearch,
	})
	if err != nil {
		return nil, err
	}

	var results []common.NormalizedResult
	// 由殘缺回應重建的結果不寫入快取
	degraded := false
	if category.Strict() {
		raw, err := ParseStrict(text)
		if err != nil {
			return nil, err
		}
		results = MapResults(raw, MapOptions{Query: query, Now: s.now()})
	} else {
		raw := Parse(text)
		degraded = len(raw) == 1 && raw[0].Shape() == ShapeFallback
		results = MapResults(raw, MapOptions{Query: query, Now: s.now()})
	}

	res := &SearchResult{Query: query, Category: category, Results: results}
	if len(results) == 0 {
		res.Results = FallbackResults(category)
		res.Fallback = true
		return withFormattedRecipe(res), nil
	}

	if category == ClassicCocktail || category == GenericCocktail {
		s.attachComments(ctx, res.Results, pc.Season, apiKey)
	}
	withFormattedRecipe(res)

	if cacheable && !degraded {
		s.save(ctx, res)
	}
	return res, nil
}

func (s *SearchService) lookup(ctx context.Context, query string, category Category) (*SearchResult, bool) {
	entry, err := s.store.Get(ctx, query)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			common.LogCacheMiss(s.store.Name(), cache.Key(query))
		} else {
			common.LogWarn("cache lookup failed", zap.String("backend", s.store.Name()), zap.Error(err))
		}
		return nil, false
	}
	if len(entry.Results) == 0 {
		return nil, false
	}

	common.LogCacheHit(s.store.Name(), cache.Key(query))
	return &SearchResult{
		Query:           query,
		Category:        category,
		Results:         entry.Results,
		FormattedRecipe: entry.FormattedRecipe,
		CacheHit:        true,
	}, true
}

// save 寫入快取；失敗只記錄不影響回應
func (s *SearchService) save(ctx context.Context, res *SearchResult) {
	err := s.store.Set(ctx, &cache.Entry{
		Query:           res.Query,
		Results:         res.Results,
		FormattedRecipe: res.FormattedRecipe,
		CreatedAt:       s.now(),
	})
	if err != nil {
		common.LogWarn("cache write failed", zap.String("backend", s.store.Name()), zap.Error(err))
	}
}

// attachComments 兩份配方的評語同時產生；失敗的一方使用固定評語
func (s *SearchService) attachComments(ctx context.Context, results []common.NormalizedResult, season Season, apiKey string) {
	if s.comments == nil || len(results) < 2 {
		return
	}

	var g errgroup.Group
	for i, recipeType := range []RecipeType{RecipeClassic, RecipeElevated} {
		recipeType := recipeType
		r := &results[i]
		g.Go(func() error {
			comment, err := s.comments.GenerateComment(ctx, r.Title, ExtractIngredients(r.Snippet), season, apiKey, recipeType)
			if err != nil {
				common.LogWarn("comment generation failed", zap.String("title", r.Title), zap.Error(err))
				comment = CannedComment(recipeType)
			}
			r.EnhancedComment = &comment
			return nil
		})
	}
	_ = g.Wait()
}

func withFormattedRecipe(res *SearchResult) *SearchResult {
	if res.FormattedRecipe != nil || len(res.Results) == 0 {
		return res
	}
	first := res.Results[0]
	if text, ok := ExtractRecipeText(first.Snippet); ok {
		res.FormattedRecipe = &common.FormattedRecipe{Title: first.Title, Text: text}
	}
	return res
}
