package stockGameService

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data/kvstore"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/market"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/rewards"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/service"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/utils"
	"github.com/shopspring/decimal"
)

// The trading mini-game: ten simulated days, one symbol, separate play cash.
// The kid decides each day whether to be in or out of the market; profit at
// the end converts into coins.

var gameTrends = []market.Trend{market.TrendUp, market.TrendDown, market.TrendNeutral}

// StartTradingGame opens a new game session, replacing any previous one.
func (s *StockGameService) StartTradingGame(ctx context.Context, chatID int64) (model.GameSession, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.StartTradingGame"

	slog.Debug("StartTradingGame start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	defer func() {
		slog.Debug("StartTradingGame finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	}()

	symbols := s.catalog.Symbols()
	if len(symbols) == 0 {
		return model.GameSession{}, service.ErrNotFound
	}
	symbol := symbols[s.market.Pick(len(symbols))]

	price, err := s.currentPrice(ctx, symbol)
	if err != nil {
		return model.GameSession{}, err
	}

	gameCash := decimal.NewFromFloat(s.cfg.Game.GameCash)
	game := model.GameSession{
		Symbol:     symbol,
		Day:        1,
		TotalDays:  s.cfg.Game.GameDays,
		Trend:      string(gameTrends[s.market.Pick(len(gameTrends))]),
		Cash:       gameCash,
		Price:      price,
		EntryValue: gameCash,
	}

	if err := s.saveGame(ctx, chatID, game); err != nil {
		return model.GameSession{}, err
	}
	return game, nil
}

// AdvanceGameDay steps the game price one day. The game finishes on its last
// day: the open position is liquidated and profit converts into coins.
func (s *StockGameService) AdvanceGameDay(ctx context.Context, chatID int64) (model.GameSession, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.AdvanceGameDay"

	slog.Debug("AdvanceGameDay start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	defer func() {
		slog.Debug("AdvanceGameDay finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	}()

	game, err := s.loadGame(ctx, chatID)
	if err != nil {
		return model.GameSession{}, err
	}
	if game.Finished {
		return model.GameSession{}, service.ErrGameFinished
	}

	game.Price = s.market.StepDay(game.Price, market.Trend(game.Trend))
	game.Day++

	if game.Day >= game.TotalDays {
		game = s.finishGame(ctx, chatID, game)
	}

	if err := s.saveGame(ctx, chatID, game); err != nil {
		return model.GameSession{}, err
	}
	return game, nil
}

// GameBuy invests all remaining game cash at the current game price.
func (s *StockGameService) GameBuy(ctx context.Context, chatID int64) (model.GameSession, error) {
	game, err := s.loadGame(ctx, chatID)
	if err != nil {
		return model.GameSession{}, err
	}
	if game.Finished {
		return model.GameSession{}, service.ErrGameFinished
	}

	shares := game.Cash.Div(game.Price).IntPart()
	if shares <= 0 {
		return model.GameSession{}, service.ErrInsufficientFunds
	}

	game.Shares += int(shares)
	game.Cash = game.Cash.Sub(game.Price.Mul(decimal.NewFromInt(shares)))

	if err := s.saveGame(ctx, chatID, game); err != nil {
		return model.GameSession{}, err
	}
	return game, nil
}

// GameSell liquidates the whole game position at the current game price.
func (s *StockGameService) GameSell(ctx context.Context, chatID int64) (model.GameSession, error) {
	game, err := s.loadGame(ctx, chatID)
	if err != nil {
		return model.GameSession{}, err
	}
	if game.Finished {
		return model.GameSession{}, service.ErrGameFinished
	}
	if game.Shares == 0 {
		return model.GameSession{}, service.ErrNoSuchHolding
	}

	game.Cash = game.Cash.Add(game.Price.Mul(decimal.NewFromInt(int64(game.Shares))))
	game.Shares = 0

	if err := s.saveGame(ctx, chatID, game); err != nil {
		return model.GameSession{}, err
	}
	return game, nil
}

// GetGame returns the active game session.
func (s *StockGameService) GetGame(ctx context.Context, chatID int64) (model.GameSession, error) {
	return s.loadGame(ctx, chatID)
}

// finishGame liquidates, marks the session finished and hands out rewards.
func (s *StockGameService) finishGame(ctx context.Context, chatID int64, game model.GameSession) model.GameSession {
	if game.Shares > 0 {
		game.Cash = game.Cash.Add(game.Price.Mul(decimal.NewFromInt(int64(game.Shares))))
		game.Shares = 0
	}
	game.Finished = true

	profit := game.Cash.Sub(game.EntryValue)

	bg := context.WithoutCancel(ctx)
	go s.grantActivity(bg, chatID, rewards.ActivityGameFinished)
	if profit.IsPositive() {
		go s.grantActivity(bg, chatID, rewards.ActivityGameProfit)
		// One coin per whole play-dollar earned.
		go s.grantCoins(bg, chatID, int(profit.IntPart()))
	}

	return game
}

func (s *StockGameService) loadGame(ctx context.Context, chatID int64) (model.GameSession, error) {
	data, err := s.snapshots.Load(ctx, gameKey(chatID))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return model.GameSession{}, service.ErrNoActiveGame
		}
		return model.GameSession{}, err
	}

	var game model.GameSession
	if err := json.Unmarshal(data, &game); err != nil {
		return model.GameSession{}, err
	}
	return game, nil
}

func (s *StockGameService) saveGame(ctx context.Context, chatID int64, game model.GameSession) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	return s.snapshots.Save(ctx, gameKey(chatID), data)
}
