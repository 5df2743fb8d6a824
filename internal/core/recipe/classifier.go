package recipe

// Classify 依固定優先順序為查詢分類，第一個符合者勝出：
// 經典調酒 > 一口杯 > 食物 > 調味酒/基酒 > 一般調酒
func Classify(query string) Category {
	switch {
	case IsClassicCocktail(query):
		return ClassicCocktail
	case IsShooter(query):
		return Shooter
	case IsFood(query):
		return Food
	case IsFlavoredLiquor(query):
		return FlavoredLiquor
	case IsLiquor(query):
		return Liquor
	default:
		return GenericCocktail
	}
}
