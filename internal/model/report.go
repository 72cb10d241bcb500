package model

import "time"

// Report is everything the parent XLSX report renders for one player.
type Report struct {
	Nickname     string
	GeneratedAt  time.Time
	Summary      PortfolioSummary
	Transactions []Transaction
	Progress     Progress
}
