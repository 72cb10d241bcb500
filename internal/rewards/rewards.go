// Package rewards turns game activity into coins, experience and levels.
package rewards

import "github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"

// Activity IDs with their one-time awards.
const (
	ActivityFirstBuy     = "first_buy"
	ActivityFirstSell    = "first_sell"
	ActivityFirstReport  = "first_report"
	ActivityGameFinished = "game_finished"
	ActivityGameProfit   = "game_profit"
)

type award struct {
	coins int
	xp    int
}

var awards = map[string]award{
	ActivityFirstBuy:     {coins: 10, xp: 25},
	ActivityFirstSell:    {coins: 10, xp: 25},
	ActivityFirstReport:  {coins: 5, xp: 10},
	ActivityGameFinished: {coins: 15, xp: 30},
	ActivityGameProfit:   {coins: 25, xp: 50},
}

const xpPerLevel = 100

// NewProgress returns a fresh level-1 progress state.
func NewProgress() model.Progress {
	return model.Progress{
		CompletedActivities: make(map[string]bool),
		Level:               1,
	}
}

// LevelForExperience maps cumulative XP to a level: every 100 XP is one
// level, starting at level 1.
func LevelForExperience(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/xpPerLevel + 1
}

// Grant awards the activity once. Repeat grants of a completed activity leave
// progress unchanged and report granted=false.
func Grant(progress model.Progress, activityID string) (model.Progress, bool) {
	if progress.CompletedActivities == nil {
		progress.CompletedActivities = make(map[string]bool)
	}

	a, known := awards[activityID]
	if !known || progress.CompletedActivities[activityID] {
		return progress, false
	}

	completed := make(map[string]bool, len(progress.CompletedActivities)+1)
	for id := range progress.CompletedActivities {
		completed[id] = true
	}
	completed[activityID] = true

	progress.CompletedActivities = completed
	progress.Coins += a.coins
	progress.Experience += a.xp
	progress.Level = LevelForExperience(progress.Experience)
	return progress, true
}

// GrantCoins adds repeatable coins (e.g. realized game profit) without
// touching the activity set.
func GrantCoins(progress model.Progress, coins int) model.Progress {
	if coins > 0 {
		progress.Coins += coins
	}
	return progress
}
