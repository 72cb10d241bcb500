package model

import "github.com/shopspring/decimal"

// GameSession is one run of the day-stepped trading mini-game. The game has
// its own play cash and a single symbol whose price is stepped one day at a
// time, separate from the player's main portfolio.
type GameSession struct {
	Symbol     string          `json:"symbol"`
	Day        int             `json:"day"`
	TotalDays  int             `json:"totalDays"`
	Trend      string          `json:"trend"`
	Cash       decimal.Decimal `json:"cash"`
	Shares     int             `json:"shares"`
	Price      decimal.Decimal `json:"price"`
	EntryValue decimal.Decimal `json:"entryValue"`
	Finished   bool            `json:"finished"`
}

// Value is game cash plus the open position at the current game price.
func (g GameSession) Value() decimal.Decimal {
	return g.Cash.Add(g.Price.Mul(decimal.NewFromInt(int64(g.Shares))))
}
