package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBuy_RecomputesAverageCost(t *testing.T) {
	l := New(dec("10000"))

	_, err := l.Buy("X", 10, dec("100"))
	require.NoError(t, err)

	_, err = l.Buy("X", 10, dec("200"))
	require.NoError(t, err)

	assert.Equal(t, 20, l.SharesOf("X"))

	holdings := l.Holdings()
	require.Len(t, holdings, 1)
	assert.True(t, holdings[0].AverageCost.Equal(dec("150")), "got average cost %s", holdings[0].AverageCost)
}

func TestBuy_InsufficientFundsLeavesStateUntouched(t *testing.T) {
	l := New(dec("100"))

	_, err := l.Buy("X", 1, dec("50"))
	require.NoError(t, err)

	before, err := l.Snapshot()
	require.NoError(t, err)

	_, err = l.Buy("Y", 10, dec("100"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	after, err := l.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestBuy_InvalidArgument(t *testing.T) {
	l := New(dec("1000"))

	_, err := l.Buy("", 1, dec("10"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = l.Buy("X", 0, dec("10"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = l.Buy("X", 1, dec("0"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = l.Sell("X", -1, dec("10"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSell_NoSuchHolding(t *testing.T) {
	l := New(dec("1000"))

	_, err := l.Sell("X", 1, dec("10"))
	assert.ErrorIs(t, err, ErrNoSuchHolding)
}

func TestSell_InsufficientShares(t *testing.T) {
	l := New(dec("1000"))

	_, err := l.Buy("X", 2, dec("10"))
	require.NoError(t, err)

	_, err = l.Sell("X", 3, dec("10"))
	assert.ErrorIs(t, err, ErrInsufficientShares)
	assert.Equal(t, 2, l.SharesOf("X"))
}

func TestSell_ClosesPositionRegardlessOfPrice(t *testing.T) {
	l := New(dec("1000"))

	_, err := l.Buy("X", 5, dec("50"))
	require.NoError(t, err)

	_, err = l.Sell("X", 5, dec("1.23"))
	require.NoError(t, err)

	assert.Equal(t, 0, l.SharesOf("X"))
	assert.Empty(t, l.Holdings())
}

func TestSell_PartialKeepsAverageCost(t *testing.T) {
	l := New(dec("1000"))

	_, err := l.Buy("X", 4, dec("100"))
	require.NoError(t, err)

	_, err = l.Sell("X", 1, dec("200"))
	require.NoError(t, err)

	holdings := l.Holdings()
	require.Len(t, holdings, 1)
	assert.Equal(t, 3, holdings[0].Shares)
	assert.True(t, holdings[0].AverageCost.Equal(dec("100")))
}

func TestEndToEndScenario(t *testing.T) {
	l := New(dec("1000"))

	tx, err := l.Buy("FRUT", 2, dec("150.75"))
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.True(t, l.Cash().Equal(dec("698.50")), "got cash %s", l.Cash())
	assert.Equal(t, 2, l.SharesOf("FRUT"))
	assert.Len(t, l.Transactions(), 1)

	_, err = l.Sell("FRUT", 2, dec("160.00"))
	require.NoError(t, err)
	assert.True(t, l.Cash().Equal(dec("1018.50")), "got cash %s", l.Cash())
	assert.Empty(t, l.Holdings())
	assert.Len(t, l.Transactions(), 2)
}

func TestSolvencyInvariant(t *testing.T) {
	l := New(dec("500"))

	ops := []func() error{
		func() error { _, err := l.Buy("A", 3, dec("120")); return err },
		func() error { _, err := l.Buy("B", 10, dec("90")); return err },
		func() error { _, err := l.Sell("A", 2, dec("15.50")); return err },
		func() error { _, err := l.Buy("B", 1, dec("99.99")); return err },
		func() error { _, err := l.Sell("A", 1, dec("200")); return err },
	}

	for _, op := range ops {
		_ = op()
		assert.False(t, l.Cash().IsNegative(), "cash went negative: %s", l.Cash())
	}
}

func TestValue(t *testing.T) {
	l := New(dec("1000"))

	_, err := l.Buy("A", 2, dec("100"))
	require.NoError(t, err)
	_, err = l.Buy("B", 3, dec("50"))
	require.NoError(t, err)

	value, err := l.Value(map[string]decimal.Decimal{
		"A": dec("110"),
		"B": dec("40"),
	})
	require.NoError(t, err)
	assert.True(t, value.Equal(dec("340")), "got value %s", value)

	_, err = l.Value(map[string]decimal.Decimal{"A": dec("110")})
	assert.Error(t, err)
}

func TestReset_Idempotent(t *testing.T) {
	l := New(dec("1000"))

	_, err := l.Buy("X", 2, dec("100"))
	require.NoError(t, err)

	l.Reset()
	once, err := l.Snapshot()
	require.NoError(t, err)

	l.Reset()
	twice, err := l.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.True(t, l.Cash().Equal(dec("1000")))
	assert.Empty(t, l.Holdings())
	assert.Empty(t, l.Transactions())
}
