package catalog

import (
	"sort"
	"testing"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_CaseInsensitive(t *testing.T) {
	c := NewDefault()

	stock, ok := c.Get("frut")
	require.True(t, ok)
	assert.Equal(t, "FRUT", stock.Symbol)

	_, ok = c.Get("NOPE")
	assert.False(t, ok)
}

func TestAll_SortedAndCopied(t *testing.T) {
	c := NewDefault()

	stocks := c.All()
	require.NotEmpty(t, stocks)
	assert.True(t, sort.SliceIsSorted(stocks, func(i, j int) bool { return stocks[i].Symbol < stocks[j].Symbol }))

	stocks[0].Symbol = "HACK"
	_, ok := c.Get("HACK")
	assert.False(t, ok)
}

func TestReplace(t *testing.T) {
	c := NewDefault()

	c.Replace([]model.CatalogStock{
		{Symbol: "ZOO", Shortname: "Petting Zoo"},
		{Symbol: "ART", Shortname: "Finger Paints"},
	})

	assert.Equal(t, []string{"ART", "ZOO"}, c.Symbols())

	_, ok := c.Get("FRUT")
	assert.False(t, ok)

	stock, ok := c.Get("art")
	require.True(t, ok)
	assert.Equal(t, "Finger Paints", stock.Shortname)
}
