// Package app orchestrates marketplace operations over the storage layer.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dvtrade/cardmarket/internal/platform/id"
	"github.com/dvtrade/cardmarket/internal/random"
	"github.com/dvtrade/cardmarket/internal/services/market/domain"
	"github.com/dvtrade/cardmarket/internal/services/market/storage"
)

const (
	defaultStartingCards = 5
	// matchRetries bounds how many further listings a resale buy tries
	// after losing a race on the oldest one.
	matchRetries = 1
)

// BuyMode selects the source of a card purchase.
type BuyMode string

const (
	// BuyDirect purchases from the system pool at catalog price.
	BuyDirect BuyMode = "direct"
	// BuyResale purchases from the oldest open peer listing; with no open
	// listing it falls back to a direct purchase.
	BuyResale BuyMode = "resale"
)

// Service coordinates marketplace operations: it validates input, resolves
// identities, drives the atomic storage mutations, and publishes committed
// transactions to subscribers.
type Service struct {
	store  storage.MarketStore
	tracer trace.Tracer
	clock  func() time.Time

	mu      sync.Mutex
	rng     *rand.Rand
	entropy *ulid.MonotonicEntropy

	subscribers []TransactionSubscriber

	startingCards   int
	startingBalance int64
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithRand overrides the pseudo-random source used for pack draws, grant
// selection, and tiering walks.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// WithStartingCards sets how many random cards a new account is granted.
func WithStartingCards(n int) Option {
	return func(s *Service) { s.startingCards = n }
}

// WithStartingBalance sets the balance a new account opens with.
func WithStartingBalance(balance int64) Option {
	return func(s *Service) { s.startingBalance = balance }
}

// WithSubscriber registers a transaction subscriber.
func WithSubscriber(sub TransactionSubscriber) Option {
	return func(s *Service) {
		if sub != nil {
			s.subscribers = append(s.subscribers, sub)
		}
	}
}

// NewService creates a marketplace service over a store.
func NewService(store storage.MarketStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	s := &Service{
		store:         store,
		tracer:        otel.Tracer("market"),
		clock:         func() time.Time { return time.Now().UTC() },
		startingCards: defaultStartingCards,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, err
		}
		s.rng = rand.New(rand.NewSource(seed))
	}
	s.entropy = ulid.Monotonic(s.rng, 0)
	return s, nil
}

// newULID generates a creation-ordered identifier for listings and
// transactions.
func (s *Service) newULID(now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, err := ulid.New(ulid.Timestamp(now), s.entropy)
	if err != nil {
		return "", fmt.Errorf("generate ulid: %w", err)
	}
	return value.String(), nil
}

// RegisterAccount creates an account with a fresh wallet address, the
// starting balance, and a grant of random catalog cards.
func (s *Service) RegisterAccount(ctx context.Context, name string) (domain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "market.RegisterAccount")
	defer span.End()

	if err := domain.ValidateAccountName(name); err != nil {
		return domain.Account{}, err
	}

	accountID, err := id.NewID()
	if err != nil {
		return domain.Account{}, err
	}
	address, err := domain.NewWalletAddress()
	if err != nil {
		return domain.Account{}, err
	}

	grant, err := s.pickGrantCards(ctx)
	if err != nil {
		return domain.Account{}, err
	}

	account := storage.AccountRecord{
		ID:        accountID,
		Name:      name,
		Address:   address,
		Balance:   s.startingBalance,
		CreatedAt: s.clock(),
	}
	if err := s.store.CreateAccount(ctx, account, grant); err != nil {
		return domain.Account{}, fmt.Errorf("register account: %w", err)
	}
	return domain.Account{
		ID:        account.ID,
		Name:      account.Name,
		Address:   account.Address,
		Balance:   account.Balance,
		CreatedAt: account.CreatedAt,
	}, nil
}

// pickGrantCards selects up to startingCards distinct in-stock card types
// uniformly from the catalog.
func (s *Service) pickGrantCards(ctx context.Context) ([]string, error) {
	if s.startingCards <= 0 {
		return nil, nil
	}
	catalog, err := s.store.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	candidates := make([]string, 0, len(catalog))
	for _, card := range catalog {
		if card.Pool > 0 {
			candidates = append(candidates, card.ID)
		}
	}

	s.mu.Lock()
	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	s.mu.Unlock()

	if len(candidates) > s.startingCards {
		candidates = candidates[:s.startingCards]
	}
	return candidates, nil
}

// CreateCard adds a catalog entry.
func (s *Service) CreateCard(ctx context.Context, params domain.NewCardParams) (domain.Card, error) {
	ctx, span := s.tracer.Start(ctx, "market.CreateCard")
	defer span.End()

	if err := params.Validate(); err != nil {
		return domain.Card{}, err
	}
	cardID, err := id.NewID()
	if err != nil {
		return domain.Card{}, err
	}

	record := storage.CardRecord{
		ID:          cardID,
		Name:        params.Name,
		Description: params.Description,
		ImageURL:    params.ImageURL,
		Price:       params.Price,
		Tier:        1,
		Pool:        params.Pool,
		PoolInit:    params.Pool,
		CreatedAt:   s.clock(),
	}
	if err := s.store.CreateCard(ctx, record); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return domain.Card{}, domain.ErrCardAlreadyExists
		}
		return domain.Card{}, fmt.Errorf("create card: %w", err)
	}
	return cardFromRecord(record), nil
}

// BuyCard purchases one unit of a card for the buyer. Direct mode buys from
// the system pool at catalog price; resale mode matches the oldest open peer
// listing and falls back to a direct purchase when none exists.
func (s *Service) BuyCard(ctx context.Context, buyerID, cardID string, mode BuyMode) (domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "market.BuyCard")
	defer span.End()

	buyer, err := s.account(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	card, err := s.card(ctx, cardID)
	if err != nil {
		return nil, err
	}

	switch mode {
	case BuyDirect:
		return s.buyDirect(ctx, buyer, card)
	case BuyResale:
		return s.buyResale(ctx, buyer, card)
	default:
		return nil, domain.ErrInvalidRequest
	}
}

func (s *Service) buyDirect(ctx context.Context, buyer domain.Account, card domain.Card) (domain.Transaction, error) {
	now := s.clock()
	txID, err := s.newULID(now)
	if err != nil {
		return nil, err
	}
	purchase := domain.DirectPurchase{
		ID:        txID,
		BuyerID:   buyer.ID,
		CardID:    card.ID,
		Price:     card.Price,
		CreatedAt: now,
	}
	if err := s.store.ApplyDirectPurchase(ctx, purchase); err != nil {
		switch {
		case errors.Is(err, storage.ErrInsufficientFunds):
			return nil, domain.ErrInsufficientFunds
		case errors.Is(err, storage.ErrPoolExhausted):
			return nil, domain.ErrInsufficientStock
		}
		return nil, fmt.Errorf("buy card: %w", err)
	}
	s.publish(purchase)
	return purchase, nil
}

func (s *Service) buyResale(ctx context.Context, buyer domain.Account, card domain.Card) (domain.Transaction, error) {
	for attempt := 0; ; attempt++ {
		listing, err := s.store.OldestOpenListing(ctx, card.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// No open listing; degrade to a system sale.
				return s.buyDirect(ctx, buyer, card)
			}
			return nil, fmt.Errorf("match listing: %w", err)
		}

		seller, err := s.store.GetAccountByAddress(ctx, listing.SellerAddress)
		if err != nil {
			return nil, fmt.Errorf("resolve listing seller: %w", err)
		}

		now := s.clock()
		txID, err := s.newULID(now)
		if err != nil {
			return nil, err
		}
		purchase := domain.ResalePurchase{
			ID:        txID,
			BuyerID:   buyer.ID,
			SellerID:  seller.ID,
			CardID:    card.ID,
			ListingID: listing.ID,
			Price:     listing.Price,
			CreatedAt: now,
		}
		err = s.store.ApplyResalePurchase(ctx, purchase)
		if err == nil {
			s.publish(purchase)
			return purchase, nil
		}
		switch {
		case errors.Is(err, storage.ErrListingClosed):
			if attempt < matchRetries {
				continue
			}
			return nil, domain.ErrListingAlreadyMatched
		case errors.Is(err, storage.ErrInsufficientFunds):
			return nil, domain.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("buy listed card: %w", err)
	}
}

// SellCard escrows one owned unit and opens a listing at the ask price.
func (s *Service) SellCard(ctx context.Context, sellerID, cardID string, askPrice int64) (domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "market.SellCard")
	defer span.End()

	if err := domain.ValidateAskPrice(askPrice); err != nil {
		return domain.Listing{}, err
	}
	seller, err := s.account(ctx, sellerID)
	if err != nil {
		return domain.Listing{}, err
	}
	card, err := s.card(ctx, cardID)
	if err != nil {
		return domain.Listing{}, err
	}

	now := s.clock()
	listingID, err := s.newULID(now)
	if err != nil {
		return domain.Listing{}, err
	}
	record := storage.ListingRecord{
		ID:            listingID,
		CardID:        card.ID,
		SellerAddress: seller.Address,
		Price:         askPrice,
		Status:        domain.ListingStatusOpen,
		CreatedAt:     now,
	}
	if err := s.store.ApplyListing(ctx, record, seller.ID); err != nil {
		if errors.Is(err, storage.ErrInsufficientStock) {
			return domain.Listing{}, domain.ErrInsufficientStock
		}
		return domain.Listing{}, fmt.Errorf("open listing: %w", err)
	}
	return listingFromRecord(record), nil
}

// CancelSell removes the seller's open listing and returns the escrowed
// unit to their inventory.
func (s *Service) CancelSell(ctx context.Context, sellerID, listingID string) error {
	ctx, span := s.tracer.Start(ctx, "market.CancelSell")
	defer span.End()

	seller, err := s.account(ctx, sellerID)
	if err != nil {
		return err
	}
	err = s.store.ApplyCancelListing(ctx, listingID, seller.Address, seller.ID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return domain.ErrListingNotFound
	case errors.Is(err, storage.ErrNotOwner):
		return domain.ErrListingNotOwner
	case errors.Is(err, storage.ErrListingClosed):
		return domain.ErrListingAlreadyMatched
	}
	return fmt.Errorf("cancel listing: %w", err)
}

// GiftCard moves card units from the sender to the account behind the
// recipient wallet address, for free.
func (s *Service) GiftCard(ctx context.Context, senderID, recipientAddress, cardID string, amount int64) (domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "market.GiftCard")
	defer span.End()

	if amount <= 0 {
		return nil, domain.ErrInvalidRequest
	}
	sender, err := s.account(ctx, senderID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.recipient(ctx, recipientAddress)
	if err != nil {
		return nil, err
	}
	card, err := s.card(ctx, cardID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	txID, err := s.newULID(now)
	if err != nil {
		return nil, err
	}
	gift := domain.Gift{
		ID:          txID,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		CardID:      card.ID,
		Amount:      amount,
		CreatedAt:   now,
	}
	if err := s.store.ApplyGift(ctx, gift); err != nil {
		if errors.Is(err, storage.ErrInsufficientStock) {
			return nil, domain.ErrInsufficientStock
		}
		return nil, fmt.Errorf("gift card: %w", err)
	}
	s.publish(gift)
	return gift, nil
}

// TransferCoins moves currency from the sender to the account behind the
// recipient wallet address.
func (s *Service) TransferCoins(ctx context.Context, senderID, recipientAddress string, amount int64) (domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "market.TransferCoins")
	defer span.End()

	if amount <= 0 {
		return nil, domain.ErrInvalidRequest
	}
	sender, err := s.account(ctx, senderID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.recipient(ctx, recipientAddress)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	txID, err := s.newULID(now)
	if err != nil {
		return nil, err
	}
	transfer := domain.CoinTransfer{
		ID:          txID,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Amount:      amount,
		CreatedAt:   now,
	}
	if err := s.store.ApplyTransfer(ctx, transfer); err != nil {
		if errors.Is(err, storage.ErrInsufficientFunds) {
			return nil, domain.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("transfer coins: %w", err)
	}
	s.publish(transfer)
	return transfer, nil
}

// BuyCardPack buys a pack: one debit of the pack price and a rarity-weighted
// draw of cards moved from the system pool into the buyer's inventory.
func (s *Service) BuyCardPack(ctx context.Context, buyerID string, tier domain.PackTier) ([]domain.Card, error) {
	ctx, span := s.tracer.Start(ctx, "market.BuyCardPack")
	defer span.End()

	pack, ok := domain.PackByTier(tier)
	if !ok {
		return nil, domain.ErrInvalidRequest
	}
	buyer, err := s.account(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	records, err := s.store.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	catalog := make([]domain.Card, 0, len(records))
	for _, record := range records {
		catalog = append(catalog, cardFromRecord(record))
	}
	partition := domain.PartitionCatalog(catalog)

	s.mu.Lock()
	drawn, err := pack.Draw(s.rng, partition)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	now := s.clock()
	txID, err := s.newULID(now)
	if err != nil {
		return nil, err
	}
	purchase := domain.PackPurchase{
		ID:        txID,
		BuyerID:   buyer.ID,
		Price:     pack.Price,
		Count:     int64(len(drawn)),
		CreatedAt: now,
	}
	cardIDs := make([]string, len(drawn))
	for i, card := range drawn {
		cardIDs[i] = card.ID
	}
	if err := s.store.ApplyPackPurchase(ctx, purchase, cardIDs); err != nil {
		switch {
		case errors.Is(err, storage.ErrInsufficientFunds):
			return nil, domain.ErrInsufficientFunds
		case errors.Is(err, storage.ErrPoolExhausted):
			// Supply moved between the catalog snapshot and the commit.
			return nil, domain.ErrInsufficientStock
		}
		return nil, fmt.Errorf("buy pack: %w", err)
	}
	s.publish(purchase)
	return drawn, nil
}

func (s *Service) account(ctx context.Context, accountID string) (domain.Account, error) {
	record, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("load account: %w", err)
	}
	return accountFromRecord(record), nil
}

func (s *Service) recipient(ctx context.Context, address string) (domain.Account, error) {
	record, err := s.store.GetAccountByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Account{}, domain.ErrRecipientNotFound
		}
		return domain.Account{}, fmt.Errorf("resolve recipient: %w", err)
	}
	return accountFromRecord(record), nil
}

func (s *Service) card(ctx context.Context, cardID string) (domain.Card, error) {
	record, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Card{}, domain.ErrCardNotFound
		}
		return domain.Card{}, fmt.Errorf("load card: %w", err)
	}
	return cardFromRecord(record), nil
}

func accountFromRecord(record storage.AccountRecord) domain.Account {
	return domain.Account{
		ID:        record.ID,
		Name:      record.Name,
		Address:   record.Address,
		Balance:   record.Balance,
		CreatedAt: record.CreatedAt,
	}
}

func cardFromRecord(record storage.CardRecord) domain.Card {
	return domain.Card{
		ID:          record.ID,
		Name:        record.Name,
		Description: record.Description,
		ImageURL:    record.ImageURL,
		Price:       record.Price,
		Tier:        record.Tier,
		Pool:        record.Pool,
		PoolInit:    record.PoolInit,
		CreatedAt:   record.CreatedAt,
	}
}

func listingFromRecord(record storage.ListingRecord) domain.Listing {
	return domain.Listing{
		ID:            record.ID,
		CardID:        record.CardID,
		SellerAddress: record.SellerAddress,
		Price:         record.Price,
		Status:        record.Status,
		CreatedAt:     record.CreatedAt,
	}
}
