package recipe

import (
	"cocktail-finder/internal/pkg/common"
)

// FallbackResults 模型流程沒有可用結果時的固定推薦，每種類型各一份
func FallbackResults(category Category) []common.NormalizedResult {
	switch category {
	case Food, FoodPairingQuery:
		return []common.NormalizedResult{{
			ID:      "fallback-food",
			Title:   "Classic Gin & Tonic",
			Snippet: "Ingredients:\n- 2 oz gin\n- 4 oz tonic water\n- Lime wedge\nInstructions:\n1. Fill a highball glass with ice.\n2. Add gin and top with tonic water.\n3. Squeeze in the lime wedge and stir gently.",
			Why:     "Crisp and bitter, it refreshes the palate between bites of almost any dish.",
			WinePairing: &common.Pairing{
				Name:  "Sauvignon Blanc",
				Notes: "Bright acidity and citrus notes that suit a wide range of dishes.",
			},
			SpiritPairing: &common.Pairing{
				Name:  "Añejo Tequila",
				Notes: "Oak and caramel notes, sipped neat.",
			},
			BeerPairing: &common.Pairing{
				Name:  "Belgian Witbier",
				Notes: "Light body with orange peel and coriander.",
			},
		}}
	case Liquor, FlavoredLiquor, Shooter:
		return []common.NormalizedResult{
			{
				ID:      "fallback-liquor-1",
				Title:   "Highball",
				Snippet: "Ingredients:\n- 2 oz spirit of your choice\n- 4 oz club soda\n- Citrus twist\nInstructions:\n1. Fill a highball glass with ice.\n2. Add the spirit and top with club soda.\n3. Garnish with a citrus twist.",
			},
			{
				ID:      "fallback-liquor-2",
				Title:   "Simple Sour",
				Snippet: "Ingredients:\n- 2 oz spirit of your choice\n- 0.75 oz fresh lemon juice\n- 0.75 oz simple syrup\nInstructions:\n1. Shake all ingredients with ice.\n2. Strain into a chilled coupe.",
			},
		}
	default:
		return []common.NormalizedResult{{
			ID:      "fallback-general",
			Title:   "House Margarita",
			Snippet: "Ingredients:\n- 2 oz blanco tequila\n- 1 oz fresh lime juice\n- 0.75 oz orange liqueur\n- Salt for the rim\nInstructions:\n1. Salt the rim of a rocks glass.\n2. Shake tequila, lime juice and orange liqueur with ice.\n3. Strain into the glass over fresh ice.",
		}}
	}
}
