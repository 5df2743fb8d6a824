package recipe

import (
	"regexp"
	"strings"
)

var (
	ingredientsMarker  = regexp.MustCompile(`(?i)ingredients:`)
	instructionsMarker = regexp.MustCompile(`(?i)instructions:`)
	listMarker         = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)](?:\s|$))\s*`)
)

// ExtractRecipeText 取出材料與步驟，兩者都有內容時才回傳
// "Ingredients\n...\n\nSteps\n..."
func ExtractRecipeText(snippet string) (string, bool) {
	ingredients, steps := recipeSections(snippet)
	if len(ingredients) == 0 || len(steps) == 0 {
		return "", false
	}
	return "Ingredients\n" + strings.Join(ingredients, "\n") + "\n\nSteps\n" + strings.Join(steps, "\n"), true
}

// ExtractIngredients 只取材料行
func ExtractIngredients(snippet string) []string {
	ingredients, _ := recipeSections(snippet)
	return ingredients
}

func recipeSections(snippet string) (ingredients, steps []string) {
	ing := ingredientsMarker.FindStringIndex(snippet)
	ins := instructionsMarker.FindStringIndex(snippet)

	if ing != nil {
		end := len(snippet)
		if ins != nil && ins[0] > ing[1] {
			end = ins[0]
		}
		ingredients = cleanLines(snippet[ing[1]:end])
	}
	if ins != nil {
		steps = cleanLines(snippet[ins[1]:])
	}
	return ingredients, steps
}

// cleanLines 拆行、去除項目符號與編號、略過空行
func cleanLines(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
