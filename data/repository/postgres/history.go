package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data/repository"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/converter/dbConverter"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model/dbModel"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/utils"
)

// InsertTransaction archives one executed trade for reporting. The live
// ledger snapshot stays the source of truth; this table only feeds history
// views and the parent report.
func (r *Postgres) InsertTransaction(ctx context.Context, playerID int64, tx model.Transaction) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO transactions(tx_id, player_id, symbol, shares, price_per_share, total_price, kind, dt_create)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		`

	slog.Debug("InsertTransaction start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertTransaction failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertTransaction completed", slog.String("rqID", rqID))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, tx.ID, playerID, tx.Symbol, tx.Shares, tx.PricePerShare, tx.Total(), string(tx.Kind), tx.Timestamp)
	return err
}

func (r *Postgres) GetTransactions(ctx context.Context, playerID int64, limit int) (transactions []model.Transaction, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT tx_id, player_id, symbol, shares, price_per_share, total_price, kind, dt_create
		FROM transactions
		WHERE player_id = $1
		ORDER BY dt_create DESC
		LIMIT $2
		`

	slog.Debug("GetTransactions start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetTransactions failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetTransactions completed", slog.String("rqID", rqID))
		}
	}()

	dbTransactions := []dbModel.Transaction{}
	err = r.txOrDb(ctx).SelectContext(ctx, &dbTransactions, query, playerID, limit)
	if err != nil {
		return nil, err
	}

	transactions = make([]model.Transaction, 0, len(dbTransactions))
	for _, dbTx := range dbTransactions {
		transactions = append(transactions, dbConverter.ConvertTransaction(dbTx))
	}

	return transactions, nil
}

func (r *Postgres) UpsertProgress(ctx context.Context, playerID int64, progress dbModel.Progress) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO progress(player_id, coins, level, experience, activities)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (player_id) DO UPDATE
		SET coins = EXCLUDED.coins, level = EXCLUDED.level, experience = EXCLUDED.experience, activities = EXCLUDED.activities
		`

	slog.Debug("UpsertProgress start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("UpsertProgress failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpsertProgress completed", slog.String("rqID", rqID))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, playerID, progress.Coins, progress.Level, progress.Experience, progress.Activities)
	return err
}

func (r *Postgres) GetProgress(ctx context.Context, playerID int64) (progress dbModel.Progress, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT player_id, coins, level, experience, activities
		FROM progress
		WHERE player_id = $1
		`

	slog.Debug("GetProgress start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetProgress failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetProgress completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, playerID).StructScan(&progress)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbModel.Progress{}, repository.ErrNotFound
		}
		return dbModel.Progress{}, err
	}

	return progress, nil
}
