package app

import (
	"github.com/dvtrade/cardmarket/internal/services/market/domain"
)

// TransactionSubscriber receives every committed transaction. Delivery is
// fire-and-forget after the storage commit: a subscriber cannot veto or
// roll back the operation, and must return quickly.
type TransactionSubscriber interface {
	OnTransaction(tx domain.Transaction)
}

// publish fans a committed transaction out to subscribers.
func (s *Service) publish(tx domain.Transaction) {
	for _, sub := range s.subscribers {
		sub.OnTransaction(tx)
	}
}
