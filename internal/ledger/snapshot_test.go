package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	l := New(dec("1000"))

	_, err := l.Buy("ZZZ", 2, dec("100"))
	require.NoError(t, err)
	_, err = l.Buy("AAA", 3, dec("50.25"))
	require.NoError(t, err)
	_, err = l.Sell("ZZZ", 1, dec("110"))
	require.NoError(t, err)

	data, err := l.Snapshot()
	require.NoError(t, err)

	restored := New(dec("1000"))
	require.NoError(t, restored.Restore(data))

	assert.True(t, restored.Cash().Equal(l.Cash()))
	assert.Equal(t, l.SharesOf("AAA"), restored.SharesOf("AAA"))
	assert.Equal(t, l.SharesOf("ZZZ"), restored.SharesOf("ZZZ"))
	assert.Equal(t, l.Transactions(), restored.Transactions())

	again, err := restored.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestSnapshot_HoldingsSortedBySymbol(t *testing.T) {
	l := New(dec("10000"))

	for _, symbol := range []string{"CCC", "AAA", "BBB"} {
		_, err := l.Buy(symbol, 1, dec("10"))
		require.NoError(t, err)
	}

	first, err := l.Snapshot()
	require.NoError(t, err)
	second, err := l.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, first, second)

	restored := New(dec("10000"))
	require.NoError(t, restored.Restore(first))
	third, err := restored.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestRestore_RejectsCorruptState(t *testing.T) {
	l := New(dec("1000"))

	assert.Error(t, l.Restore([]byte("not json")))
	assert.Error(t, l.Restore([]byte(`{"cash":"-5","holdings":[],"transactions":[]}`)))
	assert.Error(t, l.Restore([]byte(`{"cash":"10","holdings":[{"symbol":"X","shares":0,"averageCost":"1"}],"transactions":[]}`)))

	// failed restore must not have replaced the current state
	assert.True(t, l.Cash().Equal(dec("1000")))
}
