package recipe

import (
	"context"
	"sync"
	"time"

	"cocktail-finder/internal/core/ai/provider"
)

// fakeGenerator 依 call site 回傳預先設定的回應
type fakeGenerator struct {
	mu      sync.Mutex
	calls   []provider.Request
	respond func(req *provider.Request) (string, error)
}

func (f *fakeGenerator) Generate(_ context.Context, req *provider.Request) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, *req)
	f.mu.Unlock()
	return f.respond(req)
}

func (f *fakeGenerator) callsFor(callSite string) []provider.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []provider.Request
	for _, c := range f.calls {
		if c.CallSite == callSite {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fixedRand 永遠回傳 0
func fixedRand(int) int { return 0 }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var july4 = time.Date(2025, time.July, 4, 18, 0, 0, 0, time.UTC)

const pairResponse = "```json\n" + `[
  {"title": "Classic Margarita", "snippet": "Ingredients:\n- 2 oz blanco tequila\n- 1 oz lime juice\n- 0.75 oz Cointreau\nInstructions:\n1. Shake with ice.\n2. Strain over ice.", "filePath": null},
  {"title": "Mango Chili Margarita", "snippet": "Ingredients:\n- 2 oz blanco tequila\n- 1 oz mango puree\nInstructions:\n1. Shake hard.\n2. Serve on the rocks.", "filePath": null, "hasUpgrade": true}
]` + "\n```"
