package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvtrade/cardmarket/internal/services/market/domain"
	"github.com/dvtrade/cardmarket/internal/services/market/storage"
)

// RunTiering performs one repricing run: a random walk over every catalog
// price followed by tier reassignment from the post-walk price ranks. Each
// card is persisted with a single-row update, so a run is idempotent and
// safe to repeat without coordinating with marketplace traffic.
func (s *Service) RunTiering(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "market.RunTiering")
	defer span.End()

	records, err := s.store.Catalog(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}
	catalog := make([]domain.Card, 0, len(records))
	for _, record := range records {
		catalog = append(catalog, cardFromRecord(record))
	}

	s.mu.Lock()
	updated := domain.RepriceCatalog(s.rng, catalog)
	s.mu.Unlock()

	applied := 0
	for _, card := range updated {
		err := s.store.UpdateCardPricing(ctx, card.ID, card.Price, card.Tier)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// Card left the catalog mid-run; nothing to reprice.
				continue
			}
			return applied, fmt.Errorf("update card %s: %w", card.ID, err)
		}
		applied++
	}
	return applied, nil
}
