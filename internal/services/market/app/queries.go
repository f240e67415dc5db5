package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dvtrade/cardmarket/internal/services/market/domain"
	"github.com/dvtrade/cardmarket/internal/services/market/storage"
)

// Window bounds a transaction history query to a recent period.
type Window string

const (
	WindowAll   Window = ""
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

func (w Window) since(now time.Time) (time.Time, error) {
	switch w {
	case WindowAll:
		return time.Time{}, nil
	case WindowDay:
		return now.Add(-24 * time.Hour), nil
	case WindowWeek:
		return now.Add(-7 * 24 * time.Hour), nil
	case WindowMonth:
		return now.Add(-30 * 24 * time.Hour), nil
	}
	return time.Time{}, domain.ErrInvalidRequest
}

// CardPage is one page of catalog entries.
type CardPage struct {
	Cards      []domain.Card
	TotalCards int
	Page       int
	TotalPages int
}

// GetCard returns one catalog entry.
func (s *Service) GetCard(ctx context.Context, cardID string) (domain.Card, error) {
	ctx, span := s.tracer.Start(ctx, "market.GetCard")
	defer span.End()

	return s.card(ctx, cardID)
}

// ListCards returns one page of the catalog, optionally filtered by a name
// keyword.
func (s *Service) ListCards(ctx context.Context, keyword string, page, limit int) (CardPage, error) {
	ctx, span := s.tracer.Start(ctx, "market.ListCards")
	defer span.End()

	result, err := s.store.ListCards(ctx, storage.ListCardsQuery{
		Keyword: keyword,
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return CardPage{}, fmt.Errorf("list cards: %w", err)
	}
	cards := make([]domain.Card, 0, len(result.Cards))
	for _, record := range result.Cards {
		cards = append(cards, cardFromRecord(record))
	}
	return CardPage{
		Cards:      cards,
		TotalCards: result.TotalCards,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	}, nil
}

// AccountInventory returns the owned stacks of an account.
func (s *Service) AccountInventory(ctx context.Context, accountID string) ([]storage.StackRecord, error) {
	ctx, span := s.tracer.Start(ctx, "market.AccountInventory")
	defer span.End()

	account, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	stacks, err := s.store.Inventory(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	return stacks, nil
}

// AccountListings returns the listings opened by the wallet address.
func (s *Service) AccountListings(ctx context.Context, address string) ([]domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "market.AccountListings")
	defer span.End()

	records, err := s.store.ListingsBySeller(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	listings := make([]domain.Listing, 0, len(records))
	for _, record := range records {
		listings = append(listings, listingFromRecord(record))
	}
	return listings, nil
}

// AccountTransactions returns the account's transaction history inside the
// window, newest first.
func (s *Service) AccountTransactions(ctx context.Context, accountID string, window Window) ([]domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "market.AccountTransactions")
	defer span.End()

	account, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.transactionsFor(ctx, account.ID, window)
}

// TransactionsByAddress returns the transaction history of the account
// behind a wallet address, newest first.
func (s *Service) TransactionsByAddress(ctx context.Context, address string, window Window) ([]domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "market.TransactionsByAddress")
	defer span.End()

	record, err := s.store.GetAccountByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("resolve address: %w", err)
	}
	return s.transactionsFor(ctx, record.ID, window)
}

func (s *Service) transactionsFor(ctx context.Context, accountID string, window Window) ([]domain.Transaction, error) {
	since, err := window.since(s.clock())
	if err != nil {
		return nil, err
	}
	records, err := s.store.TransactionsByAccount(ctx, accountID, since)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	transactions := make([]domain.Transaction, 0, len(records))
	for _, record := range records {
		tx, err := transactionFromRecord(record)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// transactionFromRecord rebuilds the tagged variant from a flattened row.
func transactionFromRecord(record storage.TransactionRecord) (domain.Transaction, error) {
	switch record.Kind {
	case domain.KindDirect:
		return domain.DirectPurchase{
			ID:        record.ID,
			BuyerID:   record.BuyerID,
			CardID:    record.CardID,
			Price:     record.Price,
			CreatedAt: record.CreatedAt,
		}, nil
	case domain.KindResale:
		return domain.ResalePurchase{
			ID:        record.ID,
			BuyerID:   record.BuyerID,
			SellerID:  record.SellerID,
			CardID:    record.CardID,
			ListingID: record.ListingID,
			Price:     record.Price,
			CreatedAt: record.CreatedAt,
		}, nil
	case domain.KindGift:
		return domain.Gift{
			ID:          record.ID,
			SenderID:    record.SenderID,
			RecipientID: record.RecipientID,
			CardID:      record.CardID,
			Amount:      record.Amount,
			CreatedAt:   record.CreatedAt,
		}, nil
	case domain.KindTransfer:
		return domain.CoinTransfer{
			ID:          record.ID,
			SenderID:    record.SenderID,
			RecipientID: record.RecipientID,
			Amount:      record.Amount,
			CreatedAt:   record.CreatedAt,
		}, nil
	case domain.KindBuyPack:
		return domain.PackPurchase{
			ID:        record.ID,
			BuyerID:   record.BuyerID,
			Price:     record.Price,
			Count:     record.Amount,
			CreatedAt: record.CreatedAt,
		}, nil
	}
	return nil, fmt.Errorf("unknown transaction kind %q", record.Kind)
}
