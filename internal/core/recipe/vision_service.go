package recipe

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	aiimage "cocktail-finder/internal/core/ai/image"
	"cocktail-finder/internal/core/ai/provider"
	"cocktail-finder/internal/core/ai/service"
	"cocktail-finder/internal/core/image"
	"cocktail-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// VisionKind 圖片查詢類型
type VisionKind string

const (
	VisionLiquor VisionKind = "liquor"
	VisionFood   VisionKind = "food"
)

// ParseVisionKind 解析類型字串；空字串視為 liquor
func ParseVisionKind(s string) (VisionKind, error) {
	switch VisionKind(strings.ToLower(strings.TrimSpace(s))) {
	case VisionLiquor, "":
		return VisionLiquor, nil
	case VisionFood:
		return VisionFood, nil
	}
	return "", common.NewValidationError(fmt.Sprintf("unknown vision kind %q", s))
}

// VisionService 圖片流程：酒瓶辨識或餐點搭配
type VisionService struct {
	generator Generator
	images    *image.Service
	processor *aiimage.Processor
	now       func() time.Time
	intn      func(int) int
}

// NewVisionService 創建圖片服務
func NewVisionService(generator Generator, images *image.Service) *VisionService {
	return &VisionService{
		generator: generator,
		images:    images,
		processor: aiimage.NewProcessor(),
		now:       time.Now,
		intn:      rand.Intn,
	}
}

// Analyze 圖片無效時回傳 ValidationError；模型或解析失敗時改用固定推薦
func (s *VisionService) Analyze(ctx context.Context, imageData, apiKey string, kind VisionKind) (*SearchResult, error) {
	processed, err := s.images.ProcessImage(imageData)
	if err != nil {
		return nil, err
	}
	mimeType, data, err := s.processor.Split(processed)
	if err != nil {
		return nil, common.NewValidationError(err.Error())
	}

	pc := NewPromptContext(s.now(), s.intn)
	category, prompt, limit := Liquor, BuildVisionLiquorPrompt(pc), 1
	if kind == VisionFood {
		category, prompt, limit = FoodPairingQuery, BuildPrompt(FoodPairingQuery, "", pc), 3
	}

	res := &SearchResult{Category: category}
	text, err := s.generator.Generate(ctx, &provider.Request{
		Prompt:      prompt,
		APIKey:      apiKey,
		ImageBase64: data,
		MimeType:    mimeType,
		Options:     provider.VisionGeneration,
		CallSite:    service.CallSiteVision,
	})
	if err != nil {
		common.LogWarn("vision request failed, serving fallback",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		res.Results = FallbackResults(category)
		res.Fallback = true
		return withFormattedRecipe(res), nil
	}

	opts := MapOptions{TitleStyle: TitleUntitled, Now: s.now()}
	if kind == VisionFood {
		// 搭配建議常只有說明而缺少名稱
		opts.TitleStyle = TitleNumbered
	}
	results := MapResults(Parse(text), opts)
	if len(results) > limit {
		results = results[:limit]
	}
	if len(results) == 0 {
		results = FallbackResults(category)
		res.Fallback = true
	}
	res.Results = results
	return withFormattedRecipe(res), nil
}
