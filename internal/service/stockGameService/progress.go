package stockGameService

import (
	"context"
	"errors"
	"log/slog"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data/repository"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/converter/dbConverter"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/rewards"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/service"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/utils"
)

// GetProgress returns the player's reward state, fresh for players who never
// earned anything yet.
func (s *StockGameService) GetProgress(ctx context.Context, chatID int64) (model.Progress, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.GetProgress"

	playerID, err := s.repo.GetPlayerID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Progress{}, service.ErrNotFound
		}
		slog.Error("got error from repo.GetPlayerID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Progress{}, err
	}

	return s.loadProgress(ctx, playerID)
}

func (s *StockGameService) loadProgress(ctx context.Context, playerID int64) (model.Progress, error) {
	dbProgress, err := s.repo.GetProgress(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return rewards.NewProgress(), nil
		}
		return model.Progress{}, err
	}
	return dbConverter.ConvertProgress(dbProgress), nil
}

// grantActivity awards a one-time activity and persists the updated progress.
// Best-effort: reward bookkeeping never fails a trade.
func (s *StockGameService) grantActivity(ctx context.Context, chatID int64, activityID string) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.grantActivity"

	playerID, err := s.repo.GetPlayerID(ctx, chatID)
	if err != nil {
		slog.Error("got error from repo.GetPlayerID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return
	}

	progress, err := s.loadProgress(ctx, playerID)
	if err != nil {
		slog.Error("can't load progress", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return
	}

	progress, granted := rewards.Grant(progress, activityID)
	if !granted {
		return
	}

	if err := s.repo.UpsertProgress(ctx, playerID, dbConverter.ConvertProgressToDb(playerID, progress)); err != nil {
		slog.Error("got error from repo.UpsertProgress", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return
	}

	slog.Info("activity granted", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("playerID", playerID), slog.String("activity", activityID))
}

// grantCoins adds repeatable coins (e.g. realized game profit).
func (s *StockGameService) grantCoins(ctx context.Context, chatID int64, coins int) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.grantCoins"

	playerID, err := s.repo.GetPlayerID(ctx, chatID)
	if err != nil {
		slog.Error("got error from repo.GetPlayerID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return
	}

	progress, err := s.loadProgress(ctx, playerID)
	if err != nil {
		slog.Error("can't load progress", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return
	}

	progress = rewards.GrantCoins(progress, coins)

	if err := s.repo.UpsertProgress(ctx, playerID, dbConverter.ConvertProgressToDb(playerID, progress)); err != nil {
		slog.Error("got error from repo.UpsertProgress", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}
}
