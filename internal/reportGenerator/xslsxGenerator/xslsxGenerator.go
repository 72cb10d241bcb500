package xslsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/utils"
	"github.com/xuri/excelize/v2"
)

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

// Generate renders the parent report: one sheet with the portfolio as it
// stands, one with the trade history, one with rewards progress.
func (g *XSLSXGenerator) Generate(ctx context.Context, report model.Report) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err := g.fillPortfolioSheet(f, report); err != nil {
		return nil, "", err
	}
	if err := g.fillHistorySheet(f, report); err != nil {
		return nil, "", err
	}
	if err := g.fillProgressSheet(f, report); err != nil {
		return nil, "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func headerStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
}

func (g *XSLSXGenerator) fillPortfolioSheet(f *excelize.File, report model.Report) error {
	const sheetName = "Portfolio"

	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	if err := f.MergeCell(sheetName, "A1", "F1"); err != nil {
		return err
	}
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s's portfolio — %s", report.Nickname, report.GeneratedAt.Format("2006-01-02")))

	styleID, err := headerStyle(f, "#cfe2f3") // light blue
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	_ = f.SetCellStr(sheetName, "A2", "company")
	_ = f.SetCellStr(sheetName, "B2", "symbol")
	_ = f.SetCellStr(sheetName, "C2", "shares")
	_ = f.SetCellStr(sheetName, "D2", "avg cost")
	_ = f.SetCellStr(sheetName, "E2", "price now")
	_ = f.SetCellStr(sheetName, "F2", "gain/loss")

	for i, position := range report.Summary.Positions {
		row := i + 3
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), position.Shortname)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), position.Symbol)
		_ = f.SetCellInt(sheetName, fmt.Sprintf("C%d", row), int64(position.Shares))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), position.AverageCost.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), position.CurrentPrice.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), position.GainLoss.InexactFloat64())
	}

	totalsRow := len(report.Summary.Positions) + 4
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", totalsRow), "cash")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", totalsRow), report.Summary.Cash.InexactFloat64())
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", totalsRow+1), "total value")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", totalsRow+1), report.Summary.TotalValue.InexactFloat64())

	return nil
}

func (g *XSLSXGenerator) fillHistorySheet(f *excelize.File, report model.Report) error {
	const sheetName = "History"

	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	if err := f.MergeCell(sheetName, "A1", "E1"); err != nil {
		return err
	}
	f.SetCellValue(sheetName, "A1", "Trade history")

	styleID, err := headerStyle(f, "#d9ead3") // light green
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	_ = f.SetCellStr(sheetName, "A2", "date")
	_ = f.SetCellStr(sheetName, "B2", "symbol")
	_ = f.SetCellStr(sheetName, "C2", "buy/sell")
	_ = f.SetCellStr(sheetName, "D2", "shares")
	_ = f.SetCellStr(sheetName, "E2", "price")

	for i, tx := range report.Transactions {
		row := i + 3
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), tx.Timestamp)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), tx.Symbol)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", row), string(tx.Kind))
		_ = f.SetCellInt(sheetName, fmt.Sprintf("D%d", row), int64(tx.Shares))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), tx.PricePerShare.InexactFloat64())
	}

	return nil
}

func (g *XSLSXGenerator) fillProgressSheet(f *excelize.File, report model.Report) error {
	const sheetName = "Progress"

	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	if err := f.MergeCell(sheetName, "A1", "B1"); err != nil {
		return err
	}
	f.SetCellValue(sheetName, "A1", "Rewards")

	styleID, err := headerStyle(f, "#f9cb9c") // light orange
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	_ = f.SetCellStr(sheetName, "A2", "level")
	_ = f.SetCellInt(sheetName, "B2", int64(report.Progress.Level))
	_ = f.SetCellStr(sheetName, "A3", "coins")
	_ = f.SetCellInt(sheetName, "B3", int64(report.Progress.Coins))
	_ = f.SetCellStr(sheetName, "A4", "experience")
	_ = f.SetCellInt(sheetName, "B4", int64(report.Progress.Experience))
	_ = f.SetCellStr(sheetName, "A5", "activities done")
	_ = f.SetCellInt(sheetName, "B5", int64(len(report.Progress.CompletedActivities)))

	return nil
}
