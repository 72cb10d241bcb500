package market

import (
	"fmt"
	"time"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
)

// Headline templates per sentiment. Kept silly on purpose: the audience is
// kids learning what news has to do with prices.
var (
	upHeadlines = []string{
		"Everyone wants %s this week!",
		"%s just opened a giant new store!",
		"Kids can't stop talking about %s!",
		"%s won a big shiny award!",
	}
	downHeadlines = []string{
		"%s had a clumsy day at the factory...",
		"Fewer people bought %s this week.",
		"%s's newest idea didn't work out.",
		"Rainy days slowed %s down.",
	}
	neutralHeadlines = []string{
		"%s keeps doing its thing, steady as ever.",
		"A quiet week for %s.",
		"Nothing new to report about %s.",
	}
)

// Headline produces one news item for symbol matching the given sentiment.
// Which template fires depends on the generator's noise source.
func (g *Generator) Headline(symbol string, trend Trend) model.NewsItem {
	var pool []string
	switch trend {
	case TrendUp:
		pool = upHeadlines
	case TrendDown:
		pool = downHeadlines
	default:
		pool = neutralHeadlines
	}

	g.mu.Lock()
	headline := pool[g.rnd.Intn(len(pool))]
	g.mu.Unlock()

	return model.NewsItem{
		Symbol:    symbol,
		Headline:  fmt.Sprintf(headline, symbol),
		Sentiment: string(trend),
		CreatedAt: time.Now().UTC(),
	}
}
