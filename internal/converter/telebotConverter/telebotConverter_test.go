package telebotConverter

import (
	"strings"
	"testing"
	"time"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestChartResponse_Sparkline(t *testing.T) {
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	points := []model.PricePoint{
		{Date: day, Price: decimal.NewFromInt(100)},
		{Date: day.AddDate(0, 0, 1), Price: decimal.NewFromInt(150)},
		{Date: day.AddDate(0, 0, 2), Price: decimal.NewFromInt(200)},
	}

	got := ChartResponse("FRUT", points)
	assert.Contains(t, got, "▁")
	assert.Contains(t, got, "█")
	assert.Contains(t, got, "low 100.00")
	assert.Contains(t, got, "high 200.00")
	assert.Contains(t, got, "now 200.00")
}

func TestChartResponse_FlatSeries(t *testing.T) {
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	points := []model.PricePoint{
		{Date: day, Price: decimal.NewFromInt(50)},
		{Date: day.AddDate(0, 0, 1), Price: decimal.NewFromInt(50)},
	}

	got := ChartResponse("TOYZ", points)
	assert.Contains(t, got, "▁▁")
}

func TestChartResponse_Empty(t *testing.T) {
	got := ChartResponse("FRUT", nil)
	assert.Contains(t, got, "No chart")
}

func TestTransactionResponse(t *testing.T) {
	buy := model.Transaction{Symbol: "FRUT", Shares: 2, PricePerShare: decimal.NewFromFloat(150.75), Kind: model.TransactionBuy}
	got := TransactionResponse(buy)
	assert.Contains(t, got, "bought 2 × FRUT")
	assert.Contains(t, got, "301.50 in total")

	sell := model.Transaction{Symbol: "FRUT", Shares: 2, PricePerShare: decimal.NewFromInt(160), Kind: model.TransactionSell}
	assert.Contains(t, TransactionResponse(sell), "sold 2 × FRUT")
}

func TestGameResponse(t *testing.T) {
	running := model.GameSession{
		Symbol: "MOON", Day: 3, TotalDays: 10, Trend: "up",
		Cash: decimal.NewFromInt(20), Shares: 4, Price: decimal.NewFromInt(120),
		EntryValue: decimal.NewFromInt(500),
	}
	got := GameResponse(running)
	assert.Contains(t, got, "day 3 of 10")
	assert.Contains(t, got, "buy / sell / next")

	won := model.GameSession{Finished: true, Cash: decimal.NewFromInt(600), EntryValue: decimal.NewFromInt(500)}
	assert.True(t, strings.Contains(GameResponse(won), "win of 100.00"))

	lost := model.GameSession{Finished: true, Cash: decimal.NewFromInt(400), EntryValue: decimal.NewFromInt(500)}
	assert.Contains(t, GameResponse(lost), "try again")
}

func TestPortfolioResponse_Empty(t *testing.T) {
	got := PortfolioResponse(model.PortfolioSummary{Cash: decimal.NewFromInt(1000), TotalValue: decimal.NewFromInt(1000)})
	assert.Contains(t, got, "No stocks yet")
	assert.Contains(t, got, "Cash: 1000.00")
}
