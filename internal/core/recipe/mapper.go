package recipe

import (
	"fmt"
	"time"

	"cocktail-finder/internal/pkg/common"
)

const (
	// DefaultTitle 缺少標題時的預設值
	DefaultTitle = "Untitled Result"
	// DefaultSnippet 缺少內容時的預設值
	DefaultSnippet = "No snippet available."
)

// TitleStyle 缺少標題時的命名方式
type TitleStyle int

const (
	// TitleUntitled 使用 "Untitled Result"
	TitleUntitled TitleStyle = iota
	// TitleNumbered 使用 "Recommendation <n>"
	TitleNumbered
)

// MapOptions 映射選項
type MapOptions struct {
	TitleStyle TitleStyle
	Query      string
	Now        time.Time
}

// MapResults 將原始物件依序轉成穩定的輸出結構；title 與 snippet 都缺少的物件會被略過
func MapResults(raw []RawResult, opts MapOptions) []common.NormalizedResult {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	out := make([]common.NormalizedResult, 0, len(raw))
	for i, r := range raw {
		title, hasTitle := r.String("title")
		snippet, hasSnippet := r.String("snippet")
		if !hasTitle && !hasSnippet {
			continue
		}

		id, ok := r.ID()
		if !ok {
			id = fmt.Sprintf("gemini-result-%d-%d", i, now.UnixMilli())
		}

		if !hasTitle {
			title = defaultTitle(r, opts, len(out))
		}
		if !hasSnippet {
			snippet = DefaultSnippet
		}

		result := common.NormalizedResult{
			ID:         id,
			Title:      title,
			FilePath:   r.FilePath(),
			Snippet:    snippet,
			HasUpgrade: r.HasUpgrade(),
		}
		if why, ok := r.String("why"); ok {
			result.Why = why
		}
		if r.Shape() == ShapePairing {
			result.WinePairing = r.Pairing("winePairing")
			result.SpiritPairing = r.Pairing("spiritPairing")
			result.BeerPairing = r.Pairing("beerPairing")
		}
		out = append(out, result)
	}
	return out
}

func defaultTitle(r RawResult, opts MapOptions, position int) string {
	if r.Shape() == ShapePairing && opts.Query != "" {
		return "Pairings for " + opts.Query
	}
	if opts.TitleStyle == TitleNumbered {
		return fmt.Sprintf("Recommendation %d", position+1)
	}
	return DefaultTitle
}
