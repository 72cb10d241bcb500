package stockGameService

import (
	"context"
	"testing"
	"time"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTradingGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	game, err := f.srv.StartTradingGame(ctx, chatID)
	require.NoError(t, err)

	assert.Equal(t, 1, game.Day)
	assert.Equal(t, 10, game.TotalDays)
	assert.True(t, game.Cash.Equal(decimal.NewFromInt(500)))
	assert.Zero(t, game.Shares)
	assert.False(t, game.Finished)
	assert.Contains(t, []string{"up", "down", "neutral"}, game.Trend)

	_, ok := map[string]bool{"FRUT": true, "TOYZ": true, "GAME": true, "CNDY": true, "ROBO": true, "PETS": true, "BIKE": true, "MOON": true}[game.Symbol]
	assert.True(t, ok, "unexpected game symbol %s", game.Symbol)

	loaded, err := f.srv.GetGame(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, game.Symbol, loaded.Symbol)
}

func TestGame_NoActiveGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.srv.GetGame(ctx, chatID)
	assert.ErrorIs(t, err, service.ErrNoActiveGame)

	_, err = f.srv.AdvanceGameDay(ctx, chatID)
	assert.ErrorIs(t, err, service.ErrNoActiveGame)

	_, err = f.srv.GameBuy(ctx, chatID)
	assert.ErrorIs(t, err, service.ErrNoActiveGame)
}

func TestGameBuySell_AllInAndFullLiquidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	game, err := f.srv.StartTradingGame(ctx, chatID)
	require.NoError(t, err)

	game, err = f.srv.GameBuy(ctx, chatID)
	require.NoError(t, err)
	assert.Positive(t, game.Shares)

	// all-in: remaining cash can't cover another share
	assert.True(t, game.Cash.LessThan(game.Price), "cash %s still covers price %s", game.Cash, game.Price)

	valueBefore := game.Value()

	game, err = f.srv.GameSell(ctx, chatID)
	require.NoError(t, err)
	assert.Zero(t, game.Shares)
	assert.True(t, game.Cash.Equal(valueBefore))

	_, err = f.srv.GameSell(ctx, chatID)
	assert.ErrorIs(t, err, service.ErrNoSuchHolding)
}

func TestAdvanceGameDay_StepsAndFinishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	game, err := f.srv.StartTradingGame(ctx, chatID)
	require.NoError(t, err)

	one := decimal.NewFromInt(1)
	for day := game.Day; !game.Finished; {
		game, err = f.srv.AdvanceGameDay(ctx, chatID)
		require.NoError(t, err)
		require.Equal(t, day+1, game.Day)
		require.True(t, game.Price.GreaterThanOrEqual(one))
		day = game.Day
	}

	assert.Equal(t, game.TotalDays, game.Day)
	assert.Zero(t, game.Shares, "finished game must be fully liquidated")

	_, err = f.srv.AdvanceGameDay(ctx, chatID)
	assert.ErrorIs(t, err, service.ErrGameFinished)

	_, err = f.srv.GameBuy(ctx, chatID)
	assert.ErrorIs(t, err, service.ErrGameFinished)
}

func TestFinishGame_GrantsRewards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.srv.RegisterPlayer(ctx, chatID, "Sam"))

	_, err := f.srv.StartTradingGame(ctx, chatID)
	require.NoError(t, err)

	game, err := f.srv.GetGame(ctx, chatID)
	require.NoError(t, err)
	for !game.Finished {
		game, err = f.srv.AdvanceGameDay(ctx, chatID)
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		progress, err := f.srv.GetProgress(ctx, chatID)
		return err == nil && progress.CompletedActivities["game_finished"]
	}, time.Second, 10*time.Millisecond)
}
