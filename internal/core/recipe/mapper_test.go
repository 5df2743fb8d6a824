package recipe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapResults(t *testing.T) {
	raw := []RawResult{
		{"title": "Paloma", "snippet": "Ingredients:\n- 2 oz tequila", "filePath": nil},
		{"id": float64(7), "snippet": "Ingredients:\n- 2 oz gin", "file_path": "/img/gin.png", "hasUpgrade": "true", "why": " bright "},
	}

	got := MapResults(raw, MapOptions{Now: july4})
	require.Len(t, got, 2)

	assert.Equal(t, fmt.Sprintf("gemini-result-0-%d", july4.UnixMilli()), got[0].ID)
	assert.Equal(t, "Paloma", got[0].Title)
	assert.Nil(t, got[0].FilePath)
	assert.Nil(t, got[0].HasUpgrade)
	assert.Nil(t, got[0].EnhancedComment)

	assert.Equal(t, "7", got[1].ID)
	assert.Equal(t, DefaultTitle, got[1].Title)
	require.NotNil(t, got[1].FilePath)
	assert.Equal(t, "/img/gin.png", *got[1].FilePath)
	require.NotNil(t, got[1].HasUpgrade)
	assert.True(t, *got[1].HasUpgrade)
	assert.Equal(t, "bright", got[1].Why)
}

func TestMapResults_SkipsEmptyAndNumbersTitles(t *testing.T) {
	raw := []RawResult{
		{"foo": "bar"},
		{"snippet": "first"},
		{"title": ""},
		{"snippet": "second"},
	}

	got := MapResults(raw, MapOptions{TitleStyle: TitleNumbered, Now: july4})
	require.Len(t, got, 2)
	assert.Equal(t, "Recommendation 1", got[0].Title)
	assert.Equal(t, "Recommendation 2", got[1].Title)
	// ids keep the position in the raw response
	assert.Equal(t, fmt.Sprintf("gemini-result-1-%d", july4.UnixMilli()), got[0].ID)
}

func TestMapResults_MissingSnippet(t *testing.T) {
	got := MapResults([]RawResult{{"title": "Gimlet"}}, MapOptions{Now: july4})
	require.Len(t, got, 1)
	assert.Equal(t, DefaultSnippet, got[0].Snippet)
}

func TestMapResults_Pairing(t *testing.T) {
	raw := []RawResult{{
		"snippet":       "Ingredients:\n- 2 oz bourbon",
		"winePairing":   map[string]any{"name": "Cabernet Sauvignon", "notes": "firm tannins"},
		"spiritPairing": map[string]any{"name": "Rye Whiskey"},
		"beerPairing":   map[string]any{"name": "", "notes": "missing name"},
	}}

	got := MapResults(raw, MapOptions{Query: "steak", Now: july4})
	require.Len(t, got, 1)
	assert.Equal(t, "Pairings for steak", got[0].Title)
	require.NotNil(t, got[0].WinePairing)
	assert.Equal(t, "Cabernet Sauvignon", got[0].WinePairing.Name)
	assert.Equal(t, "firm tannins", got[0].WinePairing.Notes)
	require.NotNil(t, got[0].SpiritPairing)
	assert.Empty(t, got[0].SpiritPairing.Notes)
	assert.Nil(t, got[0].BeerPairing)
}

func TestMapResults_RecipeShapeIgnoresPairings(t *testing.T) {
	got := MapResults([]RawResult{{"title": "Mojito", "snippet": "mint"}}, MapOptions{Now: july4})
	require.Len(t, got, 1)
	assert.Nil(t, got[0].WinePairing)
}

func TestFallbackResults(t *testing.T) {
	food := FallbackResults(Food)
	require.Len(t, food, 1)
	assert.NotNil(t, food[0].WinePairing)
	assert.NotNil(t, food[0].SpiritPairing)
	assert.NotNil(t, food[0].BeerPairing)
	assert.Equal(t, food, FallbackResults(FoodPairingQuery))

	for _, c := range []Category{Liquor, FlavoredLiquor, Shooter} {
		assert.Len(t, FallbackResults(c), 2, c.String())
	}

	generic := FallbackResults(GenericCocktail)
	require.Len(t, generic, 1)
	assert.Equal(t, "House Margarita", generic[0].Title)

	for c := GenericCocktail; c <= FoodPairingQuery; c++ {
		for _, r := range FallbackResults(c) {
			_, ok := ExtractRecipeText(r.Snippet)
			assert.True(t, ok, r.Title)
			assert.NotEmpty(t, r.ID)
		}
	}
}
