package domain

import "time"

// TransactionKind tags the variant of an economic event.
type TransactionKind string

const (
	KindDirect   TransactionKind = "direct"
	KindResale   TransactionKind = "resale"
	KindGift     TransactionKind = "gift"
	KindTransfer TransactionKind = "transfer"
	KindBuyPack  TransactionKind = "buypack"
)

// Transaction is an immutable record of one completed economic event.
// Each variant carries exactly the participant fields relevant to its kind.
type Transaction interface {
	TransactionID() string
	Kind() TransactionKind
	OccurredAt() time.Time
}

// DirectPurchase records a system sale: one unit moved Pool to inventory.
type DirectPurchase struct {
	ID        string
	BuyerID   string
	CardID    string
	Price     int64
	CreatedAt time.Time
}

func (t DirectPurchase) TransactionID() string { return t.ID }
func (DirectPurchase) Kind() TransactionKind   { return KindDirect }
func (t DirectPurchase) OccurredAt() time.Time { return t.CreatedAt }

// ResalePurchase records a peer sale matched through the listing book.
type ResalePurchase struct {
	ID        string
	BuyerID   string
	SellerID  string
	CardID    string
	ListingID string
	Price     int64
	CreatedAt time.Time
}

func (t ResalePurchase) TransactionID() string { return t.ID }
func (ResalePurchase) Kind() TransactionKind   { return KindResale }
func (t ResalePurchase) OccurredAt() time.Time { return t.CreatedAt }

// Gift records card units moved between accounts for free.
type Gift struct {
	ID          string
	SenderID    string
	RecipientID string
	CardID      string
	Amount      int64
	CreatedAt   time.Time
}

func (t Gift) TransactionID() string { return t.ID }
func (Gift) Kind() TransactionKind   { return KindGift }
func (t Gift) OccurredAt() time.Time { return t.CreatedAt }

// CoinTransfer records currency moved between accounts.
type CoinTransfer struct {
	ID          string
	SenderID    string
	RecipientID string
	Amount      int64
	CreatedAt   time.Time
}

func (t CoinTransfer) TransactionID() string { return t.ID }
func (CoinTransfer) Kind() TransactionKind   { return KindTransfer }
func (t CoinTransfer) OccurredAt() time.Time { return t.CreatedAt }

// PackPurchase records one pack draw: a single debit covering Count cards.
type PackPurchase struct {
	ID        string
	BuyerID   string
	Price     int64
	Count     int64
	CreatedAt time.Time
}

func (t PackPurchase) TransactionID() string { return t.ID }
func (PackPurchase) Kind() TransactionKind   { return KindBuyPack }
func (t PackPurchase) OccurredAt() time.Time { return t.CreatedAt }
