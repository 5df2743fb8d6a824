package common

// NormalizedResult 前端讀取的穩定輸出結構；所有欄位皆有安全的預設值
type NormalizedResult struct {
	ID              string           `json:"id" bson:"id"`
	Title           string           `json:"title" bson:"title"`
	FilePath        *string          `json:"filePath" bson:"filePath"`
	Snippet         string           `json:"snippet" bson:"snippet"`
	Why             string           `json:"why,omitempty" bson:"why,omitempty"`
	HasUpgrade      *bool            `json:"hasUpgrade,omitempty" bson:"hasUpgrade,omitempty"`
	EnhancedComment *EnhancedComment `json:"enhancedComment,omitempty" bson:"enhancedComment,omitempty"`
	WinePairing     *Pairing         `json:"winePairing,omitempty" bson:"winePairing,omitempty"`
	SpiritPairing   *Pairing         `json:"spiritPairing,omitempty" bson:"spiritPairing,omitempty"`
	BeerPairing     *Pairing         `json:"beerPairing,omitempty" bson:"beerPairing,omitempty"`
}

// EnhancedComment 調酒師評語
type EnhancedComment struct {
	Text              string `json:"text" bson:"text"`
	ShowUpgradeButton bool   `json:"showUpgradeButton" bson:"showUpgradeButton"`
}

// Pairing 餐酒搭配
type Pairing struct {
	Name  string `json:"name" bson:"name"`
	Notes string `json:"notes" bson:"notes"`
}

// FormattedRecipe 從 snippet 整理出的完整配方（材料與步驟皆存在才會產生）
type FormattedRecipe struct {
	Title string `json:"title" bson:"title"`
	Text  string `json:"text" bson:"text"`
}

// StringPtr 回傳字串指標
func StringPtr(s string) *string {
	return &s
}

// BoolPtr 回傳布林指標
func BoolPtr(b bool) *bool {
	return &b
}
