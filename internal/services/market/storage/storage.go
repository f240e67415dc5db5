// Package storage defines persistence contracts for marketplace state.
//
// Multi-entity marketplace operations are single store methods so the
// implementation can commit every mutation in one storage transaction:
// either all of the ledger, inventory, listing, pool, and transaction-log
// writes land, or none do. Quantity and balance changes are expressed as
// conditional updates; a condition miss surfaces as one of the sentinel
// errors below with no partial state left behind.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/dvtrade/cardmarket/internal/services/market/domain"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrInsufficientFunds indicates a debit would drive a balance negative.
	ErrInsufficientFunds = errors.New("balance cannot cover debit")
	// ErrInsufficientStock indicates an inventory removal exceeds the owned quantity.
	ErrInsufficientStock = errors.New("inventory cannot cover removal")
	// ErrPoolExhausted indicates a card's system pool cannot cover a decrement.
	ErrPoolExhausted = errors.New("card pool is exhausted")
	// ErrNotOwner indicates a listing operation by a non-seller.
	ErrNotOwner = errors.New("listing belongs to another seller")
	// ErrListingClosed indicates the listing is no longer open.
	ErrListingClosed = errors.New("listing is no longer open")
)

// AccountRecord captures one marketplace account row.
type AccountRecord struct {
	ID        string
	Name      string
	Address   string
	Balance   int64
	CreatedAt time.Time
}

// CardRecord captures one catalog entry row.
type CardRecord struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	Price       int64
	Tier        int
	Pool        int64
	PoolInit    int64
	CreatedAt   time.Time
}

// StackRecord captures one owned-stack row; quantity is always >= 1.
type StackRecord struct {
	AccountID string
	CardID    string
	Quantity  int64
}

// ListingRecord captures one peer resale listing row.
type ListingRecord struct {
	ID            string
	CardID        string
	SellerAddress string
	Price         int64
	Status        domain.ListingStatus
	CreatedAt     time.Time
}

// TransactionRecord is the flattened persisted form of a transaction
// variant; unused participant columns stay empty for each kind.
type TransactionRecord struct {
	ID          string
	Kind        domain.TransactionKind
	BuyerID     string
	SellerID    string
	SenderID    string
	RecipientID string
	CardID      string
	ListingID   string
	Price       int64
	Amount      int64
	CreatedAt   time.Time
}

// ListCardsQuery filters and paginates the public catalog.
type ListCardsQuery struct {
	Keyword string
	Page    int
	Limit   int
}

// CardPage is one page of catalog entries.
type CardPage struct {
	Cards      []CardRecord
	TotalCards int
	Page       int
	TotalPages int
}

// AccountStore persists accounts and their identity lookup paths.
type AccountStore interface {
	// CreateAccount inserts the account and applies the starting card
	// grant in the same transaction. Grant cards whose pool is already
	// exhausted are skipped, not failed.
	CreateAccount(ctx context.Context, account AccountRecord, grantCardIDs []string) error
	GetAccount(ctx context.Context, id string) (AccountRecord, error)
	// GetAccountByAddress resolves the public wallet address used by
	// peer-to-peer operations.
	GetAccountByAddress(ctx context.Context, address string) (AccountRecord, error)
}

// CatalogStore persists card catalog entries.
type CatalogStore interface {
	// CreateCard returns ErrAlreadyExists when the card name is taken.
	CreateCard(ctx context.Context, card CardRecord) error
	GetCard(ctx context.Context, id string) (CardRecord, error)
	ListCards(ctx context.Context, query ListCardsQuery) (CardPage, error)
	// Catalog returns every card, price-ascending.
	Catalog(ctx context.Context) ([]CardRecord, error)
	// UpdateCardPricing rewrites one card's price and tier; used by the
	// tiering engine and idempotent per run.
	UpdateCardPricing(ctx context.Context, cardID string, price int64, tier int) error
}

// InventoryStore reads account inventories.
type InventoryStore interface {
	Inventory(ctx context.Context, accountID string) ([]StackRecord, error)
}

// ListingStore reads the listing book.
type ListingStore interface {
	GetListing(ctx context.Context, id string) (ListingRecord, error)
	// OldestOpenListing returns the open listing with the earliest
	// creation time (id order as tie-break) or ErrNotFound.
	OldestOpenListing(ctx context.Context, cardID string) (ListingRecord, error)
	ListingsBySeller(ctx context.Context, sellerAddress string) ([]ListingRecord, error)
}

// TransactionLog reads the append-only transaction record.
type TransactionLog interface {
	// TransactionsByAccount returns records where the account appears in
	// any participant role, newest first, created at or after since.
	TransactionsByAccount(ctx context.Context, accountID string, since time.Time) ([]TransactionRecord, error)
}

// MarketMutations are the atomic multi-entity marketplace operations.
type MarketMutations interface {
	// ApplyDirectPurchase debits the buyer, decrements the card pool,
	// credits the buyer inventory, and appends the transaction record.
	ApplyDirectPurchase(ctx context.Context, tx domain.DirectPurchase) error
	// ApplyResalePurchase debits the buyer, credits the seller, marks the
	// listing sold, credits the buyer inventory, and appends the record.
	// Returns ErrListingClosed when a concurrent buyer won the listing.
	ApplyResalePurchase(ctx context.Context, tx domain.ResalePurchase) error
	// ApplyListing escrows one unit out of the seller inventory and opens
	// the listing.
	ApplyListing(ctx context.Context, listing ListingRecord, sellerAccountID string) error
	// ApplyCancelListing deletes the open listing and returns its unit to
	// the requester inventory. Returns ErrNotOwner when the requester
	// address is not the listing seller, ErrListingClosed when the
	// listing was already sold.
	ApplyCancelListing(ctx context.Context, listingID, requesterAddress, requesterAccountID string) error
	// ApplyGift moves card units between inventories and appends the record.
	ApplyGift(ctx context.Context, tx domain.Gift) error
	// ApplyTransfer moves currency between balances and appends the record.
	ApplyTransfer(ctx context.Context, tx domain.CoinTransfer) error
	// ApplyPackPurchase debits the buyer once, decrements each drawn
	// card's pool, credits the buyer inventory per draw, and appends one
	// record carrying the pack price and draw count.
	ApplyPackPurchase(ctx context.Context, tx domain.PackPurchase, cardIDs []string) error
}

// MarketStore is the full persistence surface of the marketplace.
type MarketStore interface {
	AccountStore
	CatalogStore
	InventoryStore
	ListingStore
	TransactionLog
	MarketMutations
}
