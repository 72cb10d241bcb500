package model

import (
	"github.com/shopspring/decimal"
)

// Holding is a player's current position in one symbol. A holding with zero
// shares must not exist: it is removed on full liquidation.
type Holding struct {
	Symbol      string          `json:"symbol"`
	Shares      int             `json:"shares"`
	AverageCost decimal.Decimal `json:"averageCost"`
}

// Position is a holding enriched with its current quote.
type Position struct {
	Holding
	Shortname    string
	CurrentPrice decimal.Decimal
	MarketValue  decimal.Decimal
	GainLoss     decimal.Decimal
}

type PortfolioSummary struct {
	Cash          decimal.Decimal
	HoldingsValue decimal.Decimal
	TotalValue    decimal.Decimal
	Positions     []Position
}
