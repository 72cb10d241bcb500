package telebotConverter

import (
	"fmt"
	"strings"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

func CatalogResponse(stocks []model.CatalogStock) string {
	b := &strings.Builder{}
	b.WriteString("🏪 The stock shop:\n\n")
	for _, stock := range stocks {
		fmt.Fprintf(b, "%s %s — %s\n%s\n\n", stock.Emoji, stock.Symbol, stock.Shortname, stock.Blurb)
	}
	b.WriteString("Send /buy to pick one!")
	return b.String()
}

func StockInfoResponse(info model.StockInfo) string {
	return fmt.Sprintf(
		"%s %s — %s\nPrice now: %s coins\n%s",
		info.Emoji, info.Symbol, info.Shortname, info.Price.StringFixed(2), info.Blurb,
	)
}

func PortfolioResponse(summary model.PortfolioSummary) string {
	b := &strings.Builder{}
	b.WriteString("💼 Your portfolio:\n\n")

	if len(summary.Positions) == 0 {
		b.WriteString("No stocks yet — visit the /shop!\n")
	}

	for _, position := range summary.Positions {
		arrow := "➡️"
		if position.GainLoss.IsPositive() {
			arrow = "📈"
		} else if position.GainLoss.IsNegative() {
			arrow = "📉"
		}
		fmt.Fprintf(
			b,
			"%s %s: %d shares, worth %s (paid %s each, now %s)\n",
			arrow, position.Symbol, position.Shares,
			position.MarketValue.StringFixed(2),
			position.AverageCost.StringFixed(2),
			position.CurrentPrice.StringFixed(2),
		)
	}

	fmt.Fprintf(b, "\nCash: %s\nEverything together: %s", summary.Cash.StringFixed(2), summary.TotalValue.StringFixed(2))
	return b.String()
}

func TransactionResponse(tx model.Transaction) string {
	verb := "bought"
	if tx.Kind == model.TransactionSell {
		verb = "sold"
	}
	return fmt.Sprintf("✅ You %s %d × %s at %s — %s in total!", verb, tx.Shares, tx.Symbol, tx.PricePerShare.StringFixed(2), tx.Total().StringFixed(2))
}

func HistoryResponse(transactions []model.Transaction) string {
	if len(transactions) == 0 {
		return "No trades yet — your story starts with the first /buy!"
	}

	b := &strings.Builder{}
	b.WriteString("📜 Your latest trades:\n\n")
	for _, tx := range transactions {
		verb := "bought"
		if tx.Kind == model.TransactionSell {
			verb = "sold"
		}
		fmt.Fprintf(b, "%s — %s %d × %s at %s\n", tx.Timestamp.Format("Jan 2"), verb, tx.Shares, tx.Symbol, tx.PricePerShare.StringFixed(2))
	}
	return b.String()
}

// ChartResponse draws the series as a unicode sparkline so the price story
// fits in one chat message.
func ChartResponse(symbol string, points []model.PricePoint) string {
	if len(points) == 0 {
		return fmt.Sprintf("No chart for %s yet.", symbol)
	}

	low, high := points[0].Price, points[0].Price
	for _, p := range points {
		if p.Price.LessThan(low) {
			low = p.Price
		}
		if p.Price.GreaterThan(high) {
			high = p.Price
		}
	}

	span := high.Sub(low).InexactFloat64()
	b := &strings.Builder{}
	for _, p := range points {
		idx := 0
		if span > 0 {
			idx = int(p.Price.Sub(low).InexactFloat64() / span * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}

	return fmt.Sprintf(
		"%s over the last %d days:\n%s\nlow %s — high %s, now %s",
		symbol, len(points), b.String(),
		low.StringFixed(2), high.StringFixed(2), points[len(points)-1].Price.StringFixed(2),
	)
}

func NewsResponse(news []model.NewsItem) string {
	if len(news) == 0 {
		return "The newsroom is napping — check back soon!"
	}

	b := &strings.Builder{}
	b.WriteString("📰 Market news:\n\n")
	for _, item := range news {
		icon := "⚪"
		switch item.Sentiment {
		case "up":
			icon = "🟢"
		case "down":
			icon = "🔴"
		}
		fmt.Fprintf(b, "%s %s\n", icon, item.Headline)
	}
	return b.String()
}

func GameResponse(game model.GameSession) string {
	if game.Finished {
		profit := game.Cash.Sub(game.EntryValue)
		if profit.IsPositive() {
			return fmt.Sprintf("🏁 Game over! You turned %s into %s — that's a win of %s! 🎉", game.EntryValue.StringFixed(2), game.Cash.StringFixed(2), profit.StringFixed(2))
		}
		return fmt.Sprintf("🏁 Game over! You ended with %s of your %s. The market is tricky — try again!", game.Cash.StringFixed(2), game.EntryValue.StringFixed(2))
	}

	b := &strings.Builder{}
	fmt.Fprintf(b, "🎲 Trading game — day %d of %d\n", game.Day, game.TotalDays)
	fmt.Fprintf(b, "Stock: %s at %s\n", game.Symbol, game.Price.StringFixed(2))
	fmt.Fprintf(b, "Cash: %s, shares: %d (worth %s together)\n\n", game.Cash.StringFixed(2), game.Shares, game.Value().StringFixed(2))
	b.WriteString("Send: buy / sell / next")
	return b.String()
}

func ProgressResponse(progress model.Progress) string {
	return fmt.Sprintf(
		"⭐ Level %d\n🪙 %d coins\n✨ %d XP\n🏆 %d activities completed",
		progress.Level, progress.Coins, progress.Experience, len(progress.CompletedActivities),
	)
}
