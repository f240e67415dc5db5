// Package stats keeps rolling marketplace activity counters fed by
// committed transactions.
package stats

import (
	"sync"

	"github.com/dvtrade/cardmarket/internal/services/market/domain"
)

// KindStats holds the running totals for one transaction kind.
type KindStats struct {
	// Count is the number of committed transactions of this kind.
	Count int64
	// Volume is the total currency moved: prices for purchases, amounts
	// for transfers, zero for gifts.
	Volume int64
}

// Aggregator accumulates per-kind transaction counts and volume. It is safe
// for concurrent use and implements app.TransactionSubscriber.
type Aggregator struct {
	mu    sync.Mutex
	kinds map[domain.TransactionKind]KindStats
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{kinds: make(map[domain.TransactionKind]KindStats)}
}

// OnTransaction folds one committed transaction into the running totals.
func (a *Aggregator) OnTransaction(tx domain.Transaction) {
	if a == nil || tx == nil {
		return
	}

	var volume int64
	switch t := tx.(type) {
	case domain.DirectPurchase:
		volume = t.Price
	case domain.ResalePurchase:
		volume = t.Price
	case domain.PackPurchase:
		volume = t.Price
	case domain.CoinTransfer:
		volume = t.Amount
	case domain.Gift:
		// Gifts move cards, not currency.
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	current := a.kinds[tx.Kind()]
	current.Count++
	current.Volume += volume
	a.kinds[tx.Kind()] = current
}

// Snapshot returns a copy of the per-kind totals.
func (a *Aggregator) Snapshot() map[domain.TransactionKind]KindStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	snapshot := make(map[domain.TransactionKind]KindStats, len(a.kinds))
	for kind, totals := range a.kinds {
		snapshot[kind] = totals
	}
	return snapshot
}
