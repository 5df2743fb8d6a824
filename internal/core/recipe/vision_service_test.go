package recipe

import (
	"bytes"
	"context"
	"encoding/base64"
	stdimage "image"
	"image/color"
	"image/png"
	"testing"

	"cocktail-finder/internal/core/ai/provider"
	"cocktail-finder/internal/core/ai/service"
	"cocktail-finder/internal/core/image"
	"cocktail-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

const fourPairings = `[
  {"title": "Yuzu Highball", "snippet": "Ingredients:\n- 2 oz Japanese whisky\nInstructions:\n1. Build.", "filePath": null},
  {"title": "Grüner Veltliner", "snippet": "Crisp and peppery.", "filePath": null},
  {"title": "Pilsner", "snippet": "Clean and bitter.", "filePath": null},
  {"title": "Extra", "snippet": "Should be dropped.", "filePath": null}
]`

func TestParseVisionKind(t *testing.T) {
	kind, err := ParseVisionKind("")
	require.NoError(t, err)
	assert.Equal(t, VisionLiquor, kind)

	kind, err = ParseVisionKind(" FOOD ")
	require.NoError(t, err)
	assert.Equal(t, VisionFood, kind)

	_, err = ParseVisionKind("dessert")
	assert.True(t, common.IsValidationError(err))
}

func TestAnalyze_Liquor(t *testing.T) {
	gen := scripted(pairResponse)
	svc := NewVisionService(gen, image.NewService(1<<20))

	res, err := svc.Analyze(context.Background(), pngDataURI(t), "key", VisionLiquor)
	require.NoError(t, err)
	assert.Equal(t, Liquor, res.Category)
	assert.False(t, res.Fallback)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "Classic Margarita", res.Results[0].Title)
	assert.NotNil(t, res.FormattedRecipe)

	calls := gen.callsFor(service.CallSiteVision)
	require.Len(t, calls, 1)
	assert.Equal(t, "image/jpeg", calls[0].MimeType)
	assert.NotEmpty(t, calls[0].ImageBase64)
	assert.NotContains(t, calls[0].ImageBase64, "data:")
	assert.Equal(t, provider.VisionGeneration, calls[0].Options)
	assert.Contains(t, calls[0].Prompt, "liquor bottle")
}

func TestAnalyze_FoodKeepsThree(t *testing.T) {
	gen := scripted(fourPairings)
	svc := NewVisionService(gen, image.NewService(1<<20))

	res, err := svc.Analyze(context.Background(), pngDataURI(t), "key", VisionFood)
	require.NoError(t, err)
	assert.Equal(t, FoodPairingQuery, res.Category)
	require.Len(t, res.Results, 3)
	assert.Equal(t, "Pilsner", res.Results[2].Title)
	assert.Contains(t, gen.callsFor(service.CallSiteVision)[0].Prompt, "exactly 3 drink pairings")
}

func TestAnalyze_FoodNumbersMissingTitles(t *testing.T) {
	gen := scripted(`[{"title": "Rioja", "snippet": "Soft tannins."}, {"snippet": "A hoppy IPA cuts the fat."}, {"snippet": "Bourbon neat."}]`)
	svc := NewVisionService(gen, image.NewService(1<<20))

	res, err := svc.Analyze(context.Background(), pngDataURI(t), "key", VisionFood)
	require.NoError(t, err)
	require.Len(t, res.Results, 3)
	assert.Equal(t, "Rioja", res.Results[0].Title)
	assert.Equal(t, "Recommendation 2", res.Results[1].Title)
	assert.Equal(t, "Recommendation 3", res.Results[2].Title)
}

func TestAnalyze_LiquorKeepsUntitledDefault(t *testing.T) {
	svc := NewVisionService(scripted(`[{"snippet": "Ingredients:\n- 2 oz gin"}]`), image.NewService(1<<20))

	res, err := svc.Analyze(context.Background(), pngDataURI(t), "key", VisionLiquor)
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, DefaultTitle, res.Results[0].Title)
}

func TestAnalyze_InvalidImage(t *testing.T) {
	gen := scripted(pairResponse)
	svc := NewVisionService(gen, image.NewService(1<<20))

	for _, in := range []string{"", "data:text/plain;base64,aGVsbG8=", "not base64 !!", base64.StdEncoding.EncodeToString([]byte("hello"))} {
		_, err := svc.Analyze(context.Background(), in, "key", VisionLiquor)
		assert.True(t, common.IsValidationError(err), in)
	}
	assert.Zero(t, gen.callCount())
}

func TestAnalyze_ImageTooLarge(t *testing.T) {
	svc := NewVisionService(scripted(pairResponse), image.NewService(16))

	_, err := svc.Analyze(context.Background(), pngDataURI(t), "key", VisionLiquor)
	assert.True(t, common.IsValidationError(err))
}

func TestAnalyze_ModelFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{respond: func(*provider.Request) (string, error) {
		return "", common.NewConfigError("gemini api key is not configured")
	}}
	svc := NewVisionService(gen, image.NewService(1<<20))

	res, err := svc.Analyze(context.Background(), pngDataURI(t), "", VisionFood)
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, FallbackResults(FoodPairingQuery), res.Results)
}
