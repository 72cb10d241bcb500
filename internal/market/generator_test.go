package market

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries_ShapeAndFloor(t *testing.T) {
	points, err := Series("AAA", 30)
	require.NoError(t, err)
	require.Len(t, points, 30)

	one := decimal.NewFromInt(1)
	for i, p := range points {
		assert.True(t, p.Price.GreaterThanOrEqual(one), "point %d price %s below floor", i, p.Price)
		if i > 0 {
			assert.True(t, p.Date.After(points[i-1].Date), "dates not strictly ascending at %d", i)
		}
	}
}

func TestSeries_DeterministicPerSymbol(t *testing.T) {
	first, err := Series("FRUT", 14)
	require.NoError(t, err)
	second, err := Series("FRUT", 14)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].Price.Equal(second[i].Price), "point %d differs: %s vs %s", i, first[i].Price, second[i].Price)
		assert.True(t, first[i].Date.Equal(second[i].Date))
	}

	other, err := Series("TOYZ", 14)
	require.NoError(t, err)

	same := true
	for i := range first {
		if !first[i].Price.Equal(other[i].Price) {
			same = false
			break
		}
	}
	assert.False(t, same, "distinct symbols produced identical series")
}

func TestSeries_InvalidDays(t *testing.T) {
	_, err := Series("AAA", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Series("AAA", -5)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSymbolProfile(t *testing.T) {
	// "AAA" sums to 195: 195%3=0 so up, start 100+195%50=145
	assert.Equal(t, TrendUp, SymbolTrend("AAA"))
	assert.True(t, StartPrice("AAA").Equal(decimal.NewFromInt(145)))

	// "C" is 67: 67%3=1 so down
	assert.Equal(t, TrendDown, SymbolTrend("C"))

	// "A" is 65: 65%3=2 so neutral
	assert.Equal(t, TrendNeutral, SymbolTrend("A"))
}

func TestStepDay_Bounds(t *testing.T) {
	g := NewWithSource(rand.NewSource(42))

	current := decimal.NewFromInt(100)
	for i := 0; i < 200; i++ {
		next := g.StepDay(current, TrendUp)

		// up trend: 2% drift plus at most 5% noise either way
		assert.True(t, next.GreaterThanOrEqual(decimal.NewFromInt(96)), "step %d fell to %s", i, next)
		assert.True(t, next.LessThanOrEqual(decimal.NewFromInt(108)), "step %d rose to %s", i, next)
	}
}

func TestStepDay_Floor(t *testing.T) {
	g := NewWithSource(rand.NewSource(7))

	one := decimal.NewFromInt(1)
	price := decimal.NewFromFloat(1.01)
	for i := 0; i < 500; i++ {
		price = g.StepDay(price, TrendDown)
		require.True(t, price.GreaterThanOrEqual(one), "step %d broke the floor: %s", i, price)
	}
}

func TestStepDay_NeutralHasNoDrift(t *testing.T) {
	g := NewWithSource(rand.NewSource(1))

	current := decimal.NewFromInt(100)
	next := g.StepDay(current, TrendNeutral)

	// pure noise stays within 5%
	assert.True(t, next.GreaterThanOrEqual(decimal.NewFromInt(95)))
	assert.True(t, next.LessThanOrEqual(decimal.NewFromInt(105)))
}

func TestPick(t *testing.T) {
	g := NewWithSource(rand.NewSource(3))

	for i := 0; i < 100; i++ {
		got := g.Pick(5)
		assert.GreaterOrEqual(t, got, 0)
		assert.Less(t, got, 5)
	}
}
