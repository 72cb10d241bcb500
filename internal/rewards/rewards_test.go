package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrant_AwardsOnce(t *testing.T) {
	progress := NewProgress()

	progress, granted := Grant(progress, ActivityFirstBuy)
	require.True(t, granted)
	assert.Equal(t, 10, progress.Coins)
	assert.Equal(t, 25, progress.Experience)
	assert.True(t, progress.CompletedActivities[ActivityFirstBuy])

	again, granted := Grant(progress, ActivityFirstBuy)
	assert.False(t, granted)
	assert.Equal(t, progress, again)
}

func TestGrant_UnknownActivity(t *testing.T) {
	progress := NewProgress()

	progress, granted := Grant(progress, "made_a_sandwich")
	assert.False(t, granted)
	assert.Equal(t, 0, progress.Coins)
	assert.Empty(t, progress.CompletedActivities)
}

func TestGrant_DoesNotMutateInput(t *testing.T) {
	original := NewProgress()

	granted, ok := Grant(original, ActivityGameProfit)
	require.True(t, ok)
	assert.Empty(t, original.CompletedActivities)
	assert.True(t, granted.CompletedActivities[ActivityGameProfit])
}

func TestGrant_LevelsUp(t *testing.T) {
	progress := NewProgress()

	for _, id := range []string{ActivityFirstBuy, ActivityFirstSell, ActivityGameFinished, ActivityGameProfit} {
		progress, _ = Grant(progress, id)
	}

	// 25 + 25 + 30 + 50 = 130 XP
	assert.Equal(t, 130, progress.Experience)
	assert.Equal(t, 2, progress.Level)
}

func TestLevelForExperience(t *testing.T) {
	assert.Equal(t, 1, LevelForExperience(0))
	assert.Equal(t, 1, LevelForExperience(99))
	assert.Equal(t, 2, LevelForExperience(100))
	assert.Equal(t, 4, LevelForExperience(350))
	assert.Equal(t, 1, LevelForExperience(-10))
}

func TestGrantCoins(t *testing.T) {
	progress := NewProgress()

	progress = GrantCoins(progress, 40)
	assert.Equal(t, 40, progress.Coins)

	progress = GrantCoins(progress, -5)
	assert.Equal(t, 40, progress.Coins)

	progress = GrantCoins(progress, 0)
	assert.Equal(t, 40, progress.Coins)
}
