package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	TxID          string          `db:"tx_id"`
	PlayerID      int64           `db:"player_id"`
	Symbol        string          `db:"symbol"`
	Shares        int             `db:"shares"`
	PricePerShare decimal.Decimal `db:"price_per_share"`
	TotalPrice    decimal.Decimal `db:"total_price"`
	Kind          string          `db:"kind"`
	CreatedAt     time.Time       `db:"dt_create"`
}
