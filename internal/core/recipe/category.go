package recipe

// Category 查詢分類，決定使用的 prompt 與快取策略
type Category int

const (
	GenericCocktail Category = iota
	ClassicCocktail
	Shooter
	FlavoredLiquor
	Food
	Liquor
	// FoodPairingQuery 只由圖片流程指定
	FoodPairingQuery
)

var categoryNames = map[Category]string{
	GenericCocktail:  "generic_cocktail",
	ClassicCocktail:  "classic_cocktail",
	Shooter:          "shooter",
	FlavoredLiquor:   "flavored_liquor",
	Food:             "food",
	Liquor:           "liquor",
	FoodPairingQuery: "food_pairing_query",
}

// String 分類名稱
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// MarshalText 讓 JSON 輸出分類名稱
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Cacheable 只有一般調酒查詢會讀寫快取；其餘分類都視為特殊查詢
func (c Category) Cacheable() bool {
	return c == GenericCocktail
}

// Strict 使用嚴格兩筆驗證的分類
func (c Category) Strict() bool {
	switch c {
	case Shooter, FlavoredLiquor, Liquor:
		return true
	}
	return false
}
