package recipe

import (
	"time"
)

// Season 季節
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Fall   Season = "fall"
	Winter Season = "winter"
)

// Theme 節慶主題
type Theme string

const (
	ThemeHalloween   Theme = "Halloween"
	ThemeChristmas   Theme = "Christmas"
	ThemeValentines  Theme = "Valentine's Day"
	ThemeMothersDay  Theme = "Mother's Day"
	ThemeFathersDay  Theme = "Father's Day"
	ThemeLaborDay    Theme = "Labor Day"
	ThemePinkOctober Theme = "Pink October (breast cancer awareness)"
	ThemeBold        Theme = "Bold"
)

// SeasonFor 三到五月春、六到八月夏、九到十一月秋、其餘冬
func SeasonFor(t time.Time) Season {
	switch t.Month() {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Fall
	default:
		return Winter
	}
}

// ThemeFor 依日期決定主題；十月非萬聖節期間以 coin 決定粉紅十月或 Bold
func ThemeFor(t time.Time, coin func() bool) Theme {
	m, d := t.Month(), t.Day()
	switch {
	case m == time.October && d >= 15:
		return ThemeHalloween
	case m == time.December && d <= 25:
		return ThemeChristmas
	case m == time.February && d <= 14:
		return ThemeValentines
	case m == time.May && d <= 14:
		return ThemeMothersDay
	case m == time.June && d >= 10 && d <= 21:
		return ThemeFathersDay
	case (m == time.August && d >= 28) || (m == time.September && d <= 7):
		return ThemeLaborDay
	case m == time.October:
		if coin != nil && coin() {
			return ThemePinkOctober
		}
		return ThemeBold
	default:
		return ThemeBold
	}
}

// PromptContext prompt 的情境參數
type PromptContext struct {
	Now            time.Time
	Season         Season
	Theme          Theme
	Seed           int
	Juice          string
	FlavoredSpirit string
	Liqueur        string
}

// NewPromptContext 建立情境；intn 回傳 [0, n) 的亂數，方便測試注入
func NewPromptContext(now time.Time, intn func(int) int) PromptContext {
	season := SeasonFor(now)
	juices := seasonalJuices[season]

	return PromptContext{
		Now:            now,
		Season:         season,
		Theme:          ThemeFor(now, func() bool { return intn(2) == 0 }),
		Seed:           intn(9999) + 1,
		Juice:          juices[intn(len(juices))],
		FlavoredSpirit: flavoredSpiritPicks[intn(len(flavoredSpiritPicks))],
		Liqueur:        specialtyLiqueurs[intn(len(specialtyLiqueurs))],
	}
}
