package ledger

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/shopspring/decimal"
)

// snapshot is the persisted aggregate shape: one JSON object holding cash,
// holdings and the transaction log together, so a restore always observes a
// consistent state.
type snapshot struct {
	Cash         decimal.Decimal     `json:"cash"`
	Holdings     []model.Holding     `json:"holdings"`
	Transactions []model.Transaction `json:"transactions"`
}

// Snapshot serializes the whole aggregate. Holdings are emitted in symbol
// order so equal states produce equal bytes.
func (l *Ledger) Snapshot() ([]byte, error) {
	holdings := l.Holdings()
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })

	return json.Marshal(snapshot{
		Cash:         l.cash,
		Holdings:     holdings,
		Transactions: l.Transactions(),
	})
}

// Restore replaces the aggregate state with a previously taken snapshot.
func (l *Ledger) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("unmarshal ledger snapshot: %w", err)
	}

	if snap.Cash.IsNegative() {
		return fmt.Errorf("ledger snapshot has negative cash %s", snap.Cash)
	}

	holdings := make(map[string]model.Holding, len(snap.Holdings))
	for _, h := range snap.Holdings {
		if h.Shares <= 0 {
			return fmt.Errorf("ledger snapshot holding %q has non-positive shares", h.Symbol)
		}
		holdings[h.Symbol] = h
	}

	l.cash = snap.Cash
	l.holdings = holdings
	l.transactions = snap.Transactions
	return nil
}
