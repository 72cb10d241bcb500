// Package catalog holds the tradable symbol list shown in the shop. A
// built-in kid-friendly catalog ships with the game; the content service can
// replace it at runtime when a fresher one is available.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
)

var defaultStocks = []model.CatalogStock{
	{Symbol: "FRUT", Shortname: "Fruity Snacks Co", Emoji: "🍓", Sector: "Food", Blurb: "Makes the squishiest fruit snacks in town."},
	{Symbol: "TOYZ", Shortname: "Mega Toys", Emoji: "🧸", Sector: "Toys", Blurb: "Builders of robots, blocks and bouncy things."},
	{Symbol: "GAME", Shortname: "Pixel Games", Emoji: "🎮", Sector: "Games", Blurb: "Your favorite video games come from here."},
	{Symbol: "CNDY", Shortname: "Candy Mountain", Emoji: "🍭", Sector: "Food", Blurb: "Lollipops taller than you."},
	{Symbol: "ROBO", Shortname: "Robo Friends", Emoji: "🤖", Sector: "Tech", Blurb: "Friendly helper robots for every home."},
	{Symbol: "PETS", Shortname: "Happy Pets", Emoji: "🐶", Sector: "Pets", Blurb: "Everything your furry friends dream about."},
	{Symbol: "BIKE", Shortname: "Speedy Bikes", Emoji: "🚲", Sector: "Sports", Blurb: "The fastest bikes on the playground."},
	{Symbol: "MOON", Shortname: "Moon Rockets", Emoji: "🚀", Sector: "Space", Blurb: "One day they'll fly you to the moon."},
}

type Catalog struct {
	mu       sync.RWMutex
	stocks   []model.CatalogStock
	bySymbol map[string]model.CatalogStock
}

// NewDefault returns a catalog preloaded with the built-in symbol list.
func NewDefault() *Catalog {
	c := &Catalog{}
	c.Replace(defaultStocks)
	return c
}

// Replace swaps the whole symbol list, keeping shop ordering alphabetical.
func (c *Catalog) Replace(stocks []model.CatalogStock) {
	sorted := make([]model.CatalogStock, len(stocks))
	copy(sorted, stocks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	bySymbol := make(map[string]model.CatalogStock, len(sorted))
	for _, stock := range sorted {
		bySymbol[stock.Symbol] = stock
	}

	c.mu.Lock()
	c.stocks = sorted
	c.bySymbol = bySymbol
	c.mu.Unlock()
}

func (c *Catalog) Get(symbol string) (model.CatalogStock, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stock, ok := c.bySymbol[strings.ToUpper(symbol)]
	return stock, ok
}

func (c *Catalog) All() []model.CatalogStock {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stocks := make([]model.CatalogStock, len(c.stocks))
	copy(stocks, c.stocks)
	return stocks
}

func (c *Catalog) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	symbols := make([]string, 0, len(c.stocks))
	for _, stock := range c.stocks {
		symbols = append(symbols, stock.Symbol)
	}
	return symbols
}
