package recipe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(month time.Month, day int) time.Time {
	return time.Date(2025, month, day, 12, 0, 0, 0, time.UTC)
}

func TestSeasonFor(t *testing.T) {
	tests := []struct {
		month time.Month
		want  Season
	}{
		{time.January, Winter},
		{time.February, Winter},
		{time.March, Spring},
		{time.May, Spring},
		{time.June, Summer},
		{time.August, Summer},
		{time.September, Fall},
		{time.November, Fall},
		{time.December, Winter},
	}
	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, SeasonFor(date(tt.month, 1)))
		})
	}
}

func TestThemeFor(t *testing.T) {
	heads := func() bool { return true }
	tails := func() bool { return false }

	tests := []struct {
		name string
		when time.Time
		coin func() bool
		want Theme
	}{
		{"halloween window", date(time.October, 20), tails, ThemeHalloween},
		{"early october heads", date(time.October, 3), heads, ThemePinkOctober},
		{"early october tails", date(time.October, 3), tails, ThemeBold},
		{"christmas", date(time.December, 24), tails, ThemeChristmas},
		{"after christmas", date(time.December, 27), heads, ThemeBold},
		{"valentines", date(time.February, 14), tails, ThemeValentines},
		{"mothers day", date(time.May, 10), tails, ThemeMothersDay},
		{"fathers day", date(time.June, 15), tails, ThemeFathersDay},
		{"labor day august", date(time.August, 30), tails, ThemeLaborDay},
		{"labor day september", date(time.September, 2), tails, ThemeLaborDay},
		{"ordinary day", date(time.July, 4), heads, ThemeBold},
		{"nil coin", date(time.October, 1), nil, ThemeBold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ThemeFor(tt.when, tt.coin))
		})
	}
}

func TestNewPromptContext(t *testing.T) {
	pc := NewPromptContext(date(time.October, 5), fixedRand)

	assert.Equal(t, Fall, pc.Season)
	// intn(2) == 0 turns the coin to heads
	assert.Equal(t, ThemePinkOctober, pc.Theme)
	assert.Equal(t, 1, pc.Seed)
	assert.Equal(t, seasonalJuices[Fall][0], pc.Juice)
	assert.Equal(t, flavoredSpiritPicks[0], pc.FlavoredSpirit)
	assert.Equal(t, specialtyLiqueurs[0], pc.Liqueur)
}

func TestNewPromptContext_SeedRange(t *testing.T) {
	maxRand := func(n int) int { return n - 1 }
	pc := NewPromptContext(date(time.July, 1), maxRand)

	assert.Equal(t, 9999, pc.Seed)
	assert.Equal(t, ThemeBold, pc.Theme)
	juices := seasonalJuices[Summer]
	assert.Equal(t, juices[len(juices)-1], pc.Juice)
}
