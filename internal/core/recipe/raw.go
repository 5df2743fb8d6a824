package recipe

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"cocktail-finder/internal/pkg/common"
)

// RawResult 模型回傳的單一物件；欄位可能缺少、改名或型別不符
type RawResult map[string]any

// Shape 可辨識的回應形狀
type Shape int

const (
	ShapeRecipe Shape = iota
	ShapePairing
	ShapeFallback
)

const reconstructedKey = "reconstructed"

var pairingKeys = []string{"winePairing", "spiritPairing", "beerPairing"}

// Shape 判斷物件屬於哪一種形狀
func (r RawResult) Shape() Shape {
	if b, ok := r[reconstructedKey].(bool); ok && b {
		return ShapeFallback
	}
	for _, k := range pairingKeys {
		if _, ok := r[k].(map[string]any); ok {
			return ShapePairing
		}
	}
	return ShapeRecipe
}

// String 取出非空字串欄位
func (r RawResult) String(key string) (string, bool) {
	s, ok := r[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Has 是否存在該鍵（值可為 null）
func (r RawResult) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// ID 字串或數字 id
func (r RawResult) ID() (string, bool) {
	switch v := r["id"].(type) {
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	}
	return "", false
}

// FilePath 依序取 filePath、file_path，都沒有時為 nil
func (r RawResult) FilePath() *string {
	for _, k := range []string{"filePath", "file_path"} {
		if s, ok := r.String(k); ok {
			return common.StringPtr(s)
		}
	}
	return nil
}

// HasUpgrade 布林或字串 "true"/"false"
func (r RawResult) HasUpgrade() *bool {
	switch v := r["hasUpgrade"].(type) {
	case bool:
		return common.BoolPtr(v)
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return common.BoolPtr(b)
		}
	}
	return nil
}

// Pairing 取出 {name, notes} 子物件；name 為空時為 nil
func (r RawResult) Pairing(key string) *common.Pairing {
	m, ok := r[key].(map[string]any)
	if !ok {
		return nil
	}
	sub := RawResult(m)
	name, ok := sub.String("name")
	if !ok {
		return nil
	}
	notes, _ := sub.String("notes")
	return &common.Pairing{Name: name, Notes: notes}
}

// toResults 將解碼後的值轉成物件陣列；物件若包著 recipes/results 陣列則展開
func toResults(v any) ([]RawResult, error) {
	switch t := v.(type) {
	case []any:
		out := make([]RawResult, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, RawResult(m))
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("array contains no objects")
		}
		return out, nil
	case map[string]any:
		for _, k := range []string{"recipes", "results"} {
			if inner, ok := t[k].([]any); ok {
				return toResults(inner)
			}
		}
		return []RawResult{RawResult(t)}, nil
	default:
		return nil, fmt.Errorf("unexpected JSON value of type %T", v)
	}
}
