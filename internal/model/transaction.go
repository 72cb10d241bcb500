package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionBuy  TransactionKind = "buy"
	TransactionSell TransactionKind = "sell"
)

// Transaction is an immutable record of one executed buy or sell. Appended by
// every successful ledger operation, never mutated or deleted.
type Transaction struct {
	ID            string          `json:"id"`
	Symbol        string          `json:"symbol"`
	Shares        int             `json:"shares"`
	PricePerShare decimal.Decimal `json:"pricePerShare"`
	Kind          TransactionKind `json:"kind"`
	Timestamp     time.Time       `json:"timestamp"`
}

func (t Transaction) Total() decimal.Decimal {
	return t.PricePerShare.Mul(decimal.NewFromInt(int64(t.Shares)))
}
