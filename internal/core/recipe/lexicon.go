package recipe

import (
	"regexp"
	"strings"
)

// classicCocktails 經典調酒名稱
var classicCocktails = newWordSet(
	"margarita", "mojito", "old fashioned", "manhattan", "martini", "negroni",
	"daiquiri", "cosmopolitan", "mai tai", "pina colada", "piña colada",
	"moscow mule", "whiskey sour", "sidecar", "gimlet", "tom collins",
	"mint julep", "sazerac", "bloody mary", "paloma", "aviation", "french 75",
	"dark and stormy", "dark 'n' stormy", "caipirinha", "pisco sour",
	"boulevardier", "last word", "espresso martini", "aperol spritz",
	"long island iced tea", "tequila sunrise", "hurricane", "zombie",
	"white russian", "black russian", "mimosa", "bellini", "singapore sling",
	"gin fizz", "ramos gin fizz", "corpse reviver", "vieux carre", "vesper",
	"amaretto sour", "rob roy", "rusty nail", "grasshopper", "irish coffee",
	"hot toddy", "sea breeze", "cuba libre", "mudslide", "lemon drop martini",
	"appletini", "sangria", "penicillin", "paper plane", "jungle bird",
	"bramble", "clover club", "southside", "americano", "kir royale",
)

// foodItems 食物清單（完全比對）
var foodItems = newWordSet(
	"steak", "ribeye", "filet mignon", "salmon", "tuna", "chicken", "fried chicken",
	"pizza", "burger", "hamburger", "tacos", "taco", "sushi", "pasta", "lasagna",
	"lobster", "shrimp", "oysters", "crab", "scallops", "barbecue", "bbq",
	"brisket", "ribs", "lamb", "pork", "pork chops", "duck", "turkey", "ham",
	"cheese", "charcuterie", "chocolate", "dessert", "cheesecake", "curry",
	"ramen", "pho", "wings", "chicken wings", "nachos", "burrito", "enchiladas",
	"paella", "risotto", "salad", "caesar salad", "mac and cheese", "fish and chips",
	"dumplings", "pad thai", "fajitas", "quesadilla", "chili", "gumbo", "jambalaya",
)

// foodKeywords 出現即視為食物查詢
var foodKeywords = []string{"recipe", "dish", "food", "meal", "cook", "eat"}

// liquorTypes 基酒種類（完全比對）
var liquorTypes = newWordSet(
	"vodka", "gin", "rum", "white rum", "dark rum", "spiced rum", "tequila",
	"blanco tequila", "reposado", "anejo", "añejo", "mezcal", "whiskey", "whisky",
	"bourbon", "rye", "rye whiskey", "scotch", "irish whiskey", "brandy", "cognac",
	"armagnac", "pisco", "cachaca", "cachaça", "absinthe", "sake", "soju",
	"vermouth", "dry vermouth", "sweet vermouth", "triple sec", "cointreau",
	"grand marnier", "campari", "aperol", "amaretto", "kahlua", "chartreuse",
	"st germain", "champagne", "prosecco", "wine", "red wine", "white wine",
	"beer", "cider", "sangria", "moonshine", "everclear",
)

// flavoredBrands 調味酒品牌（完全或子字串比對）
var flavoredBrands = []string{
	"fireball", "rumchata", "skrewball", "screwball", "malibu", "smirnoff ice",
	"crown royal apple", "crown royal peach", "crown royal vanilla",
	"jack daniel's honey", "jack daniels honey", "jack daniel's fire",
	"jim beam apple", "jim beam honey", "bacardi limon", "absolut citron",
	"pinnacle whipped", "baileys", "goldschlager", "hpnotiq", "midori",
	"southern comfort", "ole smoky", "deep eddy",
}

const (
	flavorWords     = `vanilla|cherry|apple|green apple|peach|mango|raspberry|citron|lime|coconut|pineapple|honey|fire|watermelon|grapefruit|lemon|orange|whipped|cinnamon|blueberry|strawberry|salted caramel|caramel|chocolate|espresso|pumpkin spice|peanut butter|cucumber`
	baseSpiritWords = `vodka|rum|whiske?y|tequila|gin|bourbon|brandy|moonshine|schnapps`
)

// flavoredPatterns 六種調味烈酒句型
var flavoredPatterns = []*regexp.Regexp{
	// 品牌 + 口味
	regexp.MustCompile(`\b(smirnoff|absolut|ciroc|bacardi|crown royal|jim beam|jack daniel'?s|svedka|pinnacle|new amsterdam|three olives|stoli|stolichnaya)\s+(` + flavorWords + `)\b`),
	// 具名的調味烈酒
	regexp.MustCompile(`\b(fireball|rumchata|skrewball|screwball|goldschl[aä]ger|hpnotiq|midori|chambord|frangelico|limoncello|licor 43|tuaca)\b`),
	// 口味 + 基酒
	regexp.MustCompile(`\b(` + flavorWords + `|jalape[nñ]o|pepper|butterscotch|sour apple)\s+(` + baseSpiritWords + `)\b`),
	// 奶酒
	regexp.MustCompile(`\b(irish cream|cream liqueur|baileys|amarula|carolans|cr[eè]me de (cacao|menthe|cassis|banane))\b`),
	// 調味蘭姆酒品牌
	regexp.MustCompile(`\b(malibu|parrot bay|cruzan|captain morgan|bacardi)\s+(coconut|spiced|mango|pineapple|banana|limon|dragonberry|key lime|passion fruit)\b`),
	// 調味伏特加品牌
	regexp.MustCompile(`\b(ciroc|stoli|svedka|deep eddy|three olives|pinnacle|absolut)\s+(red berry|ruby red|sweet tea|peach|pineapple|coconut|apple|mango|blueberry|lemon|cherry|vanill?a|citron|mandrin|kurant|pear|raspberri|lime|grapefruit|cranberry)\b`),
}

// shooterPatterns 一口杯查詢
var shooterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bshooters?\b`),
	regexp.MustCompile(`\bshots?\b`),
	regexp.MustCompile(`\b(kamikaze|b-?52|j[aä]ger ?bomb|jello|buttery nipple|slippery nipple|washington apple|green tea|baby guinness|mind eraser|lemon drop|red headed slut|vegas bomb|irish car bomb|pickleback|snakebite|alabama slammer|oatmeal cookie|chocolate cake|scooby snack)\b.*\b(shot|shooter|bomb)s?\b`),
	regexp.MustCompile(`^(kamikaze|b-?52|j[aä]ger ?bomb|buttery nipple|slippery nipple|baby guinness|mind eraser|pickleback|vegas bomb|irish car bomb|alabama slammer|scooby snack)$`),
}

// 季節果汁、調味烈酒與特色利口酒範例，用於 prompt 變化
var (
	seasonalJuices = map[Season][]string{
		Spring: {"strawberry", "rhubarb", "blood orange", "cucumber", "lemon"},
		Summer: {"watermelon", "pineapple", "mango", "peach", "lime"},
		Fall:   {"apple cider", "pear", "cranberry", "pomegranate", "pumpkin"},
		Winter: {"blood orange", "grapefruit", "cranberry", "clementine", "pomegranate"},
	}
	flavoredSpiritPicks = []string{
		"vanilla vodka", "coconut rum", "honey bourbon", "cinnamon whiskey",
		"citrus vodka", "spiced rum", "peach vodka", "jalapeño tequila",
	}
	specialtyLiqueurs = []string{
		"St-Germain", "Chambord", "Frangelico", "Licor 43", "Amaro Nonino",
		"Chartreuse", "Luxardo Maraschino", "Falernum", "Aperol", "Cynar",
	}
)

// wordSet 小寫字串集合
type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// Has 完全比對
func (s wordSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// normalizeQuery 去除前後空白、轉小寫並合併連續空白
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// IsClassicCocktail 完全比對、「名稱 recipe」或以名稱為開頭/結尾的完整單字
func IsClassicCocktail(query string) bool {
	q := normalizeQuery(query)
	if q == "" {
		return false
	}
	if classicCocktails.Has(q) {
		return true
	}
	if name, ok := strings.CutSuffix(q, " recipe"); ok && classicCocktails.Has(name) {
		return true
	}
	for name := range classicCocktails {
		if strings.HasPrefix(q, name+" ") || strings.HasSuffix(q, " "+name) {
			return true
		}
	}
	return false
}

// IsShooter 一口杯查詢
func IsShooter(query string) bool {
	q := normalizeQuery(query)
	for _, re := range shooterPatterns {
		if re.MatchString(q) {
			return true
		}
	}
	return false
}

// IsFood 食物完全比對或包含食物關鍵字
func IsFood(query string) bool {
	q := normalizeQuery(query)
	if foodItems.Has(q) {
		return true
	}
	for _, kw := range foodKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// IsFlavoredLiquor 調味酒品牌或六種調味句型之一
func IsFlavoredLiquor(query string) bool {
	q := normalizeQuery(query)
	if q == "" {
		return false
	}
	for _, brand := range flavoredBrands {
		if q == brand || strings.Contains(q, brand) {
			return true
		}
	}
	for _, re := range flavoredPatterns {
		if re.MatchString(q) {
			return true
		}
	}
	return false
}

// IsLiquor 基酒完全比對
func IsLiquor(query string) bool {
	return liquorTypes.Has(normalizeQuery(query))
}
