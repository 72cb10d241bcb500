package model

import "github.com/shopspring/decimal"

// CatalogStock is display metadata for one tradable symbol. The catalog never
// carries prices: quotes always come from the market simulator.
type CatalogStock struct {
	Symbol    string `json:"symbol"`
	Shortname string `json:"shortname"`
	Emoji     string `json:"emoji"`
	Sector    string `json:"sector"`
	Blurb     string `json:"blurb"`
}

// StockInfo is a catalog entry joined with its current simulated quote.
type StockInfo struct {
	CatalogStock
	Price decimal.Decimal
}
