package model

// Action is the per-chat dialog state: what kind of message we expect next.
type Action int

const (
	DefaultState Action = iota
	ExpectingBuyTicker
	ExpectingBuyQuantity
	ExpectingSellTicker
	ExpectingSellQuantity
	InTradingGame
)

// Session keeps the per-chat dialog state between updates.
type Session struct {
	State       Action
	StockSymbol string
}
