package stockGameService

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/rewards"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/service"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/utils"
)

// GenerateReport renders the parent XLSX report and uploads it to cloud
// storage, returning the share link.
func (s *StockGameService) GenerateReport(ctx context.Context, chatID int64, nickname string) (downloadLink string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.GenerateReport"

	slog.Debug("GenerateReport start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	defer func() {
		slog.Debug("GenerateReport finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	}()

	summary, err := s.GetPortfolio(ctx, chatID)
	if err != nil {
		return "", err
	}

	transactions, err := s.GetHistory(ctx, chatID, s.cfg.Game.ReportTransactions)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		return "", err
	}

	progress, err := s.GetProgress(ctx, chatID)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		return "", err
	}

	report := model.Report{
		Nickname:     nickname,
		GeneratedAt:  time.Now().UTC(),
		Summary:      summary,
		Transactions: transactions,
		Progress:     progress,
	}

	fileBytes, fileExtension, err := s.reportGen.Generate(ctx, report)
	if err != nil {
		slog.Error("got error from reportGen.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	filename := fmt.Sprintf("stock_adventures_%d_%s%s", chatID, report.GeneratedAt.Format("2006-01-02"), fileExtension)

	downloadLink, err = s.cloud.UploadFile(ctx, bytes.NewReader(fileBytes), filename)
	if err != nil {
		slog.Error("got error from cloud.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	go s.grantActivity(context.WithoutCancel(ctx), chatID, rewards.ActivityFirstReport)

	return downloadLink, nil
}
