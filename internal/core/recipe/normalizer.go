package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"cocktail-finder/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	// FallbackTitle 完全無法解析時使用的標題
	FallbackTitle   = "Mixologist Suggestion"
	reconstructNote = "Reconstructed from a partial model response."
	fallbackSnippet = "Ingredients:\n- 2 oz gin\n- 0.75 oz fresh lemon juice\n- 0.75 oz simple syrup\n- Soda water\nInstructions:\n1. Shake gin, lemon juice and syrup with ice.\n2. Strain into a tall glass over fresh ice.\n3. Top with soda water and garnish with a lemon wheel."
)

var (
	titlePattern   = regexp.MustCompile(`(?i)(?:^|[{,\s"])title"?\s*:\s*"((?:[^"\\]|\\.)*)"`)
	snippetPattern = regexp.MustCompile(`(?i)(?:^|[{,\s"])snippet"?\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// Parse 寬鬆解析，永不失敗：去除 fence、截取 JSON、直接解析、修補後再解析，
// 全部失敗時用正則取出 title/snippet 組成單筆結果
func Parse(text string) []RawResult {
	results, err := parseStructured(text)
	if err == nil && !hasContent(results) {
		err = errors.New("no result has a title or snippet")
	}
	if err == nil {
		return results
	}

	common.LogDebug("falling back to partial reconstruction",
		zap.Error(err),
		zap.String("response_preview", common.Truncate(text, 200)),
	)
	return []RawResult{reconstruct(text)}
}

// ParseStrict 嚴格解析兩筆結果：結構化解析失敗或驗證不過時，先用 fence 區塊重試，
// 再直接解析原文；仍不符合時回傳 ParseError
func ParseStrict(text string) ([]RawResult, error) {
	results, err := parseStructured(text)
	if err == nil {
		if err = ValidatePair(results); err == nil {
			return results, nil
		}
	}
	firstErr := err

	for _, block := range common.FencedBlocks(text) {
		v, decodeErr := common.DecodeValue(block)
		if decodeErr != nil {
			continue
		}
		if candidate, convErr := toResults(v); convErr == nil && ValidatePair(candidate) == nil {
			return candidate, nil
		}
	}

	v, err := common.DecodeValue(strings.TrimSpace(text))
	if err != nil {
		return nil, common.NewParseError("model response is not valid JSON", errors.Join(firstErr, err))
	}
	candidate, err := toResults(v)
	if err != nil {
		return nil, common.NewParseError("model response has no recipe objects", err)
	}
	if err := ValidatePair(candidate); err != nil {
		return nil, common.NewParseError("model response failed validation", err)
	}
	return candidate, nil
}

// ValidatePair 恰好兩筆，每筆有非空字串 title、snippet，且有 filePath 鍵（可為 null）
func ValidatePair(results []RawResult) error {
	if len(results) != 2 {
		return fmt.Errorf("expected exactly 2 results, got %d", len(results))
	}
	for i, r := range results {
		if _, ok := r.String("title"); !ok {
			return fmt.Errorf("result %d: missing title", i)
		}
		if _, ok := r.String("snippet"); !ok {
			return fmt.Errorf("result %d: missing snippet", i)
		}
		fp, ok := r["filePath"]
		if !ok {
			return fmt.Errorf("result %d: missing filePath", i)
		}
		if _, isString := fp.(string); fp != nil && !isString {
			return fmt.Errorf("result %d: filePath must be a string or null", i)
		}
	}
	return nil
}

// parseStructured 先直接解析原文中的 JSON；失敗時 fence → 截取 → 解析 → 修補 → 再解析
func parseStructured(text string) ([]RawResult, error) {
	// 字串值內可能含有 ``` 片段，合法 JSON 不先去除 fence
	if block, err := common.ExtractJSONBlock(strings.TrimSpace(text)); err == nil {
		if v, err := common.DecodeValue(block); err == nil {
			if results, err := toResults(v); err == nil {
				return results, nil
			}
		}
	}

	body := common.StripCodeFences(text)

	block, err := common.ExtractJSONBlock(body)
	if err != nil {
		return nil, err
	}

	v, err := common.DecodeValue(block)
	if err != nil {
		repaired := common.RepairJSON(block)
		v, err = common.DecodeValue(repaired)
		if err != nil {
			return nil, fmt.Errorf("failed to parse repaired JSON: %w", err)
		}
	}
	return toResults(v)
}

func hasContent(results []RawResult) bool {
	for _, r := range results {
		if _, ok := r.String("title"); ok {
			return true
		}
		if _, ok := r.String("snippet"); ok {
			return true
		}
	}
	return false
}

// reconstruct 從原始文字取出 title/snippet，取不到時使用預設值
func reconstruct(text string) RawResult {
	title := extractQuoted(titlePattern, text)
	if title == "" {
		title = FallbackTitle
	}
	snippet := extractQuoted(snippetPattern, text)
	if snippet == "" {
		snippet = fallbackSnippet
	}
	return RawResult{
		"title":          title,
		"snippet":        snippet,
		"filePath":       nil,
		"why":            reconstructNote,
		reconstructedKey: true,
	}
}

func extractQuoted(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal([]byte(`"`+m[1]+`"`), &s); err != nil {
		s = m[1]
	}
	return strings.TrimSpace(s)
}
