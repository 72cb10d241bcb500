package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data/repository"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/utils"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

func (r *Postgres) RegisterPlayer(ctx context.Context, chatID int64, nickname string) (playerID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO players(chat_id, nickname) VALUES($1, $2) RETURNING player_id`

	slog.Debug("RegisterPlayer start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("RegisterPlayer failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("RegisterPlayer completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowContext(ctx, query, chatID, nickname).Scan(&playerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return 0, repository.ErrAlreadyExists
			}
		}
		return 0, err
	}

	return playerID, nil
}

func (r *Postgres) GetPlayerID(ctx context.Context, chatID int64) (playerID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT player_id FROM players WHERE chat_id = $1`

	slog.Debug("GetPlayerID start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetPlayerID failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPlayerID completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowContext(ctx, query, chatID).Scan(&playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}

	return playerID, nil
}
