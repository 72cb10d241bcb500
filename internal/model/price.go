package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one day of a simulated price series. Dates within a series
// are ascending calendar days without duplicates.
type PricePoint struct {
	Date  time.Time
	Price decimal.Decimal
}
