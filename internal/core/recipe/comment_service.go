package recipe

import (
	"context"
	"strings"
	"sync"

	"cocktail-finder/internal/core/ai/provider"
	"cocktail-finder/internal/core/ai/service"
	"cocktail-finder/internal/pkg/common"
)

// recentLineLimit 記住最近幾句評語，避免重複
const recentLineLimit = 12

// Generator 模型呼叫介面
type Generator interface {
	Generate(ctx context.Context, req *provider.Request) (string, error)
}

// CommentService 調酒師評語服務
type CommentService struct {
	generator Generator

	mu     sync.Mutex
	recent []string
	next   int
}

// NewCommentService 創建評語服務
func NewCommentService(generator Generator) *CommentService {
	return &CommentService{
		generator: generator,
		recent:    make([]string, 0, recentLineLimit),
	}
}

// GenerateComment 為一份配方產生一句評語；經典版會顯示升級按鈕
func (s *CommentService) GenerateComment(ctx context.Context, title string, ingredients []string, season Season, apiKey string, recipeType RecipeType) (common.EnhancedComment, error) {
	prompt := BuildCommentPrompt(title, ingredients, season, recipeType, s.RecentLines())

	text, err := s.generator.Generate(ctx, &provider.Request{
		Prompt:   prompt,
		APIKey:   apiKey,
		Options:  provider.CommentGeneration,
		CallSite: service.CallSiteComment,
	})
	if err != nil {
		return common.EnhancedComment{}, err
	}

	line := cleanComment(text)
	if line == "" {
		return common.EnhancedComment{}, common.NewUpstreamError(0, "empty comment", nil)
	}
	s.remember(line)

	return common.EnhancedComment{
		Text:              line,
		ShowUpgradeButton: recipeType == RecipeClassic,
	}, nil
}

// CannedComment 模型失敗時的固定評語
func CannedComment(recipeType RecipeType) common.EnhancedComment {
	if recipeType == RecipeElevated {
		return common.EnhancedComment{Text: "Same soul, sharper suit. This one is worth the extra shake."}
	}
	return common.EnhancedComment{
		Text:              "A classic for a reason. Want to see what happens when we dress it up?",
		ShowUpgradeButton: true,
	}
}

// RecentLines 最近的評語，由舊到新
func (s *CommentService) RecentLines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.recent) < recentLineLimit {
		return append([]string(nil), s.recent...)
	}
	out := make([]string, 0, recentLineLimit)
	out = append(out, s.recent[s.next:]...)
	return append(out, s.recent[:s.next]...)
}

func (s *CommentService) remember(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.recent) < recentLineLimit {
		s.recent = append(s.recent, line)
		return
	}
	s.recent[s.next] = line
	s.next = (s.next + 1) % recentLineLimit
}

// cleanComment 取第一個非空行並去除引號與 markdown 符號
func cleanComment(text string) string {
	for _, line := range strings.Split(common.StripCodeFences(text), "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "\"'`*_ ")
		if line != "" {
			return line
		}
	}
	return ""
}
