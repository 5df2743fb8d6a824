package recipe

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// promptTemplate 純函數，不會失敗；查詢字串原樣嵌入
type promptTemplate func(query string, pc PromptContext) string

var templates = map[Category]promptTemplate{
	ClassicCocktail:  classicPrompt,
	Shooter:          shooterPrompt,
	FlavoredLiquor:   flavoredLiquorPrompt,
	Food:             foodPrompt,
	Liquor:           liquorPrompt,
	GenericCocktail:  genericPrompt,
	FoodPairingQuery: foodPairingPrompt,
}

const recipeFields = `Each object must have these fields:
- "title": string
- "snippet": string formatted as "Ingredients:\n- <amount> oz <ingredient>\n...\nInstructions:\n1. <step>\n..."
- "filePath": null`

// BuildPrompt 依分類渲染 prompt
func BuildPrompt(category Category, query string, pc PromptContext) string {
	tmpl, ok := templates[category]
	if !ok {
		tmpl = genericPrompt
	}
	return tmpl(strings.TrimSpace(query), pc)
}

// DisplayName 將查詢轉成標題大小寫，例如 "old fashioned" -> "Old Fashioned"
func DisplayName(query string) string {
	return cases.Title(language.English).String(normalizeQuery(query))
}

func classicPrompt(query string, pc PromptContext) string {
	name := DisplayName(query)
	return fmt.Sprintf(`You are a veteran bartender. A guest asked for "%s".
Return ONLY a JSON array with exactly 2 objects and no other text.
1. The first object is the classic, by-the-book recipe. Its title must be "Classic %s".
2. The second object is an elevated twist for a %s menu with a %s theme. Feature fresh %s juice or %s. Set "hasUpgrade": true on this object only.
%s
Use at most 6 ingredients per recipe and give every liquid measurement in oz.
Variation seed: %d`,
		query, name, pc.Season, pc.Theme, pc.Juice, pc.Liqueur, recipeFields, pc.Seed)
}

func shooterPrompt(query string, pc PromptContext) string {
	return fmt.Sprintf(`You are a bartender known for creative shots. A guest asked for "%s".
Return ONLY a JSON array with exactly 2 shooter recipes and no other text.
The first shooter is a crowd favourite; the second is an original shooter with a %s theme for %s.
%s
Use at most 4 ingredients per shooter, measure every ingredient in oz, and keep the total volume at or under 2 oz.
Variation seed: %d`,
		query, pc.Theme, pc.Season, recipeFields, pc.Seed)
}

func flavoredLiquorPrompt(query string, pc PromptContext) string {
	return fmt.Sprintf(`You are a mixologist who specialises in flavored spirits. A guest has a bottle of "%s".
Return ONLY a JSON array with exactly 2 cocktail recipes that feature "%s" as the main spirit and no other text.
The first cocktail is simple, with ingredients a home bar already has. The second pairs it with %s for a %s %s drink.
%s
Use at most 5 ingredients per recipe and give every measurement in oz.
Variation seed: %d`,
		query, query, pc.Liqueur, pc.Season, pc.Theme, recipeFields, pc.Seed)
}

func liquorPrompt(query string, pc PromptContext) string {
	return fmt.Sprintf(`You are a mixologist. A guest wants cocktails made with %s.
Return ONLY a JSON array with exactly 2 cocktail recipes that use %s as the base spirit and no other text.
The first cocktail uses fresh %s juice for %s. The second is a %s-themed signature drink that may include %s.
%s
Use at most 5 ingredients per recipe and give every measurement in oz.
Variation seed: %d`,
		query, query, pc.Juice, pc.Season, pc.Theme, pc.FlavoredSpirit, recipeFields, pc.Seed)
}

func foodPrompt(query string, pc PromptContext) string {
	return fmt.Sprintf(`You are a sommelier and mixologist. A guest is eating "%s".
Return ONLY a single JSON object and no other text, with exactly these fields:
- "title": string, the name of a cocktail that pairs with %s
- "snippet": string formatted as "Ingredients:\n- <amount> oz <ingredient>\n...\nInstructions:\n1. <step>\n..." with at most 5 ingredients, every measurement in oz
- "why": string, one sentence on why the cocktail suits the dish
- "filePath": null
- "winePairing": {"name": string, "notes": string}
- "spiritPairing": {"name": string, "notes": string}
- "beerPairing": {"name": string, "notes": string}
Lean toward %s flavors such as %s.
Variation seed: %d`,
		query, query, pc.Season, pc.Juice, pc.Seed)
}

func genericPrompt(query string, pc PromptContext) string {
	return fmt.Sprintf(`You are a creative mixologist. A guest asked for "%s".
Return ONLY a JSON array with exactly 2 cocktail recipes and no other text.
The first recipe answers the request directly. The second is a %s twist for %s using %s or %s.
%s
- "why": string, one sentence on why this drink matches the request
Use at most 6 ingredients per recipe and give every measurement in oz.
Variation seed: %d`,
		query, pc.Theme, pc.Season, pc.Juice, pc.FlavoredSpirit, recipeFields, pc.Seed)
}

func foodPairingPrompt(query string, pc PromptContext) string {
	dish := "the dish in this photo"
	if query != "" {
		dish = fmt.Sprintf("the dish in this photo (%s)", query)
	}
	return fmt.Sprintf(`You are a sommelier and mixologist. Identify %s.
Return ONLY a JSON array with exactly 3 drink pairings and no other text: one cocktail, one wine and one beer or spirit.
%s
- "why": string, one sentence on why the drink suits the dish
For the cocktail give at most 5 ingredients in oz; for wine or beer put tasting notes in the snippet.
Keep %s in mind.
Variation seed: %d`,
		dish, recipeFields, pc.Season, pc.Seed)
}

// BuildVisionLiquorPrompt 辨識酒瓶並回傳一份調酒
func BuildVisionLiquorPrompt(pc PromptContext) string {
	return fmt.Sprintf(`You are a bartender looking at a photo of a liquor bottle.
Identify the brand and type of spirit, then return ONLY a JSON array with exactly 1 cocktail recipe that uses it and no other text.
%s
- "why": string, naming the bottle you identified
Use at most 5 ingredients, every measurement in oz, and suit the recipe to %s with a %s theme.
Variation seed: %d`,
		recipeFields, pc.Season, pc.Theme, pc.Seed)
}

// RecipeType 評語類型
type RecipeType string

const (
	RecipeClassic  RecipeType = "classic"
	RecipeElevated RecipeType = "elevated"
)

// BuildCommentPrompt 調酒師短評；recent 列出不可重複的句子
func BuildCommentPrompt(title string, ingredients []string, season Season, recipeType RecipeType, recent []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a witty, warm bartender. Write one line (at most 25 words) to a guest about the %q cocktail.\n", title)
	if len(ingredients) > 0 {
		fmt.Fprintf(&sb, "It contains: %s.\n", strings.Join(ingredients, ", "))
	}
	fmt.Fprintf(&sb, "It is %s.\n", season)
	if recipeType == RecipeElevated {
		sb.WriteString("This is the elevated version; celebrate the upgrade.\n")
	} else {
		sb.WriteString("This is the classic version; tease that an elevated upgrade is one tap away.\n")
	}
	if len(recent) > 0 {
		sb.WriteString("Do not repeat or closely paraphrase any of these earlier lines:\n")
		for _, line := range recent {
			fmt.Fprintf(&sb, "- %s\n", line)
		}
	}
	sb.WriteString("Return only the line itself, with no quotes, markdown or JSON.")
	return sb.String()
}
