// Package ledger holds the single source of truth for one player's simulated
// portfolio: cash balance, per-symbol holdings with average cost and the
// append-only transaction log. Every mutation validates first and applies the
// whole aggregate change or nothing at all.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidArgument    = errors.New("error invalid argument")
	ErrInsufficientFunds  = errors.New("error insufficient funds")
	ErrNoSuchHolding      = errors.New("error no such holding")
	ErrInsufficientShares = errors.New("error insufficient shares")
)

// Ledger is one player's portfolio aggregate. It is not safe for concurrent
// use: callers serialize access per player (the service loads, mutates and
// flushes one snapshot per operation).
type Ledger struct {
	startingCash decimal.Decimal
	cash         decimal.Decimal
	holdings     map[string]model.Holding
	transactions []model.Transaction
}

func New(startingCash decimal.Decimal) *Ledger {
	return &Ledger{
		startingCash: startingCash,
		cash:         startingCash,
		holdings:     make(map[string]model.Holding),
	}
}

// Buy debits cash and adds shares to the symbol's holding, recomputing the
// weighted average cost. The aggregate is untouched when the order is
// rejected.
func (l *Ledger) Buy(symbol string, shares int, pricePerShare decimal.Decimal) (model.Transaction, error) {
	if symbol == "" || shares <= 0 || !pricePerShare.IsPositive() {
		return model.Transaction{}, ErrInvalidArgument
	}

	sharesDec := decimal.NewFromInt(int64(shares))
	cost := pricePerShare.Mul(sharesDec)

	if cost.GreaterThan(l.cash) {
		return model.Transaction{}, ErrInsufficientFunds
	}

	l.cash = l.cash.Sub(cost)

	holding, ok := l.holdings[symbol]
	if ok {
		oldShares := decimal.NewFromInt(int64(holding.Shares))
		totalShares := oldShares.Add(sharesDec)
		holding.AverageCost = holding.AverageCost.Mul(oldShares).Add(cost).Div(totalShares)
		holding.Shares += shares
	} else {
		holding = model.Holding{Symbol: symbol, Shares: shares, AverageCost: pricePerShare}
	}
	l.holdings[symbol] = holding

	return l.append(symbol, shares, pricePerShare, model.TransactionBuy), nil
}

// Sell credits cash and removes shares from the symbol's holding. A sell that
// exhausts the position deletes the holding; partial sells keep the prior
// average cost for the remaining shares.
func (l *Ledger) Sell(symbol string, shares int, pricePerShare decimal.Decimal) (model.Transaction, error) {
	if symbol == "" || shares <= 0 || !pricePerShare.IsPositive() {
		return model.Transaction{}, ErrInvalidArgument
	}

	holding, ok := l.holdings[symbol]
	if !ok {
		return model.Transaction{}, ErrNoSuchHolding
	}

	if shares > holding.Shares {
		return model.Transaction{}, ErrInsufficientShares
	}

	proceeds := pricePerShare.Mul(decimal.NewFromInt(int64(shares)))
	l.cash = l.cash.Add(proceeds)

	holding.Shares -= shares
	if holding.Shares == 0 {
		delete(l.holdings, symbol)
	} else {
		l.holdings[symbol] = holding
	}

	return l.append(symbol, shares, pricePerShare, model.TransactionSell), nil
}

func (l *Ledger) append(symbol string, shares int, pricePerShare decimal.Decimal, kind model.TransactionKind) model.Transaction {
	tx := model.Transaction{
		ID:            uuid.NewString(),
		Symbol:        symbol,
		Shares:        shares,
		PricePerShare: pricePerShare,
		Kind:          kind,
		Timestamp:     time.Now().UTC(),
	}
	l.transactions = append(l.transactions, tx)
	return tx
}

// Value sums every holding at the supplied prices. A held symbol missing from
// the price set is a caller contract violation, surfaced as an error rather
// than a panic.
func (l *Ledger) Value(prices map[string]decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for symbol, holding := range l.holdings {
		price, ok := prices[symbol]
		if !ok {
			return decimal.Zero, fmt.Errorf("no price for held symbol %q", symbol)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(holding.Shares))))
	}
	return total, nil
}

// SharesOf returns the held share count for symbol, zero when no holding
// exists.
func (l *Ledger) SharesOf(symbol string) int {
	return l.holdings[symbol].Shares
}

func (l *Ledger) Cash() decimal.Decimal {
	return l.cash
}

// Holdings returns the current holdings as a copy, sorted order not
// guaranteed.
func (l *Ledger) Holdings() []model.Holding {
	holdings := make([]model.Holding, 0, len(l.holdings))
	for _, h := range l.holdings {
		holdings = append(holdings, h)
	}
	return holdings
}

// Transactions returns a copy of the append-only log, oldest first.
func (l *Ledger) Transactions() []model.Transaction {
	transactions := make([]model.Transaction, len(l.transactions))
	copy(transactions, l.transactions)
	return transactions
}

// Reset puts the ledger back to its starting state: starting cash, no
// holdings, empty transaction log. Triggered only by the explicit
// "start over" player action.
func (l *Ledger) Reset() {
	l.cash = l.startingCash
	l.holdings = make(map[string]model.Holding)
	l.transactions = nil
}
