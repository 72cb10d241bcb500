// Package market simulates price movement for the game. There is no real
// market feed: a symbol's trend, volatility and starting price are derived
// from the symbol text itself, so every symbol has a stable statistical
// personality across the whole game.
package market

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/shopspring/decimal"
)

var ErrInvalidArgument = errors.New("error invalid argument")

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

const (
	priceFloor    = 1.0
	dailyDriftPct = 0.02
	dailyNoisePct = 0.05
)

// symbolSeed sums the symbol's byte values. Everything symbol-dependent is
// derived from it.
func symbolSeed(symbol string) int64 {
	var seed int64
	for i := 0; i < len(symbol); i++ {
		seed += int64(symbol[i])
	}
	return seed
}

// symbolProfile returns the per-symbol walk constants: trend direction
// (+1, -1 or 0), volatility in [0.05, 0.95] and a starting price in
// [100, 150).
func symbolProfile(symbol string) (trend float64, volatility float64, startValue float64) {
	seed := symbolSeed(symbol)

	switch seed % 3 {
	case 0:
		trend = 1
	case 1:
		trend = -1
	default:
		trend = 0
	}

	volatility = float64(seed%10)/10 + 0.05
	startValue = float64(100 + seed%50)
	return trend, volatility, startValue
}

// SymbolTrend exposes the symbol's derived trend as a Trend value, used to
// keep the ticker and the news feed consistent with the chart walk.
func SymbolTrend(symbol string) Trend {
	trend, _, _ := symbolProfile(symbol)
	switch {
	case trend > 0:
		return TrendUp
	case trend < 0:
		return TrendDown
	default:
		return TrendNeutral
	}
}

// StartPrice is the symbol's derived walk origin, used as the quote before
// the first ticker step runs.
func StartPrice(symbol string) decimal.Decimal {
	_, _, start := symbolProfile(symbol)
	return decimal.NewFromFloat(start)
}

// Series generates exactly days price points for symbol, ascending calendar
// days ending today. The per-step noise source is seeded from the symbol, so
// two calls produce identical series.
func Series(symbol string, days int) ([]model.PricePoint, error) {
	if days <= 0 {
		return nil, ErrInvalidArgument
	}

	trend, volatility, value := symbolProfile(symbol)
	rnd := rand.New(rand.NewSource(symbolSeed(symbol)))

	today := time.Now().UTC().Truncate(24 * time.Hour)

	points := make([]model.PricePoint, 0, days)
	for i := 0; i < days; i++ {
		delta := (rnd.Float64()-0.5)*volatility*10 + trend*0.5
		value = math.Max(value+delta, priceFloor)
		value = math.Round(value*100) / 100

		points = append(points, model.PricePoint{
			Date:  today.AddDate(0, 0, -(days - 1 - i)),
			Price: decimal.NewFromFloat(value),
		})
	}

	return points, nil
}

// Generator steps live quotes and game-day prices forward. Unlike Series the
// step noise is drawn from the generator's own source, so the live ticker is
// intentionally non-reproducible; tests inject a fixed source.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Pick draws a random index in [0, n), used for game symbol and trend
// selection.
func (g *Generator) Pick(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Intn(n)
}

// StepDay moves a price one day forward: a ±2% drift for up/down trends plus
// uniform noise in [-5%, +5%], floored at 1 and rounded to 2 decimals.
func (g *Generator) StepDay(current decimal.Decimal, trend Trend) decimal.Decimal {
	var drift float64
	switch trend {
	case TrendUp:
		drift = dailyDriftPct
	case TrendDown:
		drift = -dailyDriftPct
	}

	g.mu.Lock()
	noise := (g.rnd.Float64()*2 - 1) * dailyNoisePct
	g.mu.Unlock()

	price, _ := current.Float64()
	price = price * (1 + drift + noise)
	price = math.Max(price, priceFloor)
	price = math.Round(price*100) / 100

	return decimal.NewFromFloat(price)
}
