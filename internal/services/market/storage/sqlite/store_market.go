package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dvtrade/cardmarket/internal/services/market/domain"
	"github.com/dvtrade/cardmarket/internal/services/market/storage"
)

// The helpers below run inside one storage transaction and express every
// balance, pool, and quantity change as a conditional update checked via
// RowsAffected, so an invariant violation aborts the whole operation.

func debit(ctx context.Context, tx *sql.Tx, accountID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("debit amount must not be negative")
	}
	result, err := tx.ExecContext(
		ctx,
		`UPDATE accounts SET balance = balance - ?
		  WHERE id = ? AND balance >= ?`,
		amount,
		accountID,
		amount,
	)
	if err != nil {
		return fmt.Errorf("debit account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit account: %w", err)
	}
	if affected == 0 {
		return storage.ErrInsufficientFunds
	}
	return nil
}

func credit(ctx context.Context, tx *sql.Tx, accountID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("credit amount must not be negative")
	}
	result, err := tx.ExecContext(
		ctx,
		`UPDATE accounts SET balance = balance + ? WHERE id = ?`,
		amount,
		accountID,
	)
	if err != nil {
		return fmt.Errorf("credit account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("credit account: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// decrementPool reports whether the pool covered the decrement; the caller
// decides whether a miss skips the card or aborts the operation.
func decrementPool(ctx context.Context, tx *sql.Tx, cardID string, n int64) (bool, error) {
	result, err := tx.ExecContext(
		ctx,
		`UPDATE cards SET pool = pool - ?
		  WHERE id = ? AND pool >= ?`,
		n,
		cardID,
		n,
	)
	if err != nil {
		return false, fmt.Errorf("decrement card pool: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("decrement card pool: %w", err)
	}
	return affected > 0, nil
}

func addUnits(ctx context.Context, tx *sql.Tx, accountID, cardID string, n int64) error {
	if n <= 0 {
		return fmt.Errorf("unit count must be positive")
	}
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO stacks (account_id, card_id, quantity) VALUES (?, ?, ?)
		 ON CONFLICT (account_id, card_id)
		 DO UPDATE SET quantity = quantity + excluded.quantity`,
		accountID,
		cardID,
		n,
	)
	if err != nil {
		return fmt.Errorf("add inventory units: %w", err)
	}
	return nil
}

func removeUnits(ctx context.Context, tx *sql.Tx, accountID, cardID string, n int64) error {
	if n <= 0 {
		return fmt.Errorf("unit count must be positive")
	}
	// The schema rejects zero-quantity rows, so an exact drain deletes the
	// stack outright instead of decrementing through the constraint.
	result, err := tx.ExecContext(
		ctx,
		`DELETE FROM stacks WHERE account_id = ? AND card_id = ? AND quantity = ?`,
		accountID,
		cardID,
		n,
	)
	if err != nil {
		return fmt.Errorf("remove inventory units: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove inventory units: %w", err)
	}
	if affected > 0 {
		return nil
	}

	result, err = tx.ExecContext(
		ctx,
		`UPDATE stacks SET quantity = quantity - ?
		  WHERE account_id = ? AND card_id = ? AND quantity > ?`,
		n,
		accountID,
		cardID,
		n,
	)
	if err != nil {
		return fmt.Errorf("remove inventory units: %w", err)
	}
	affected, err = result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove inventory units: %w", err)
	}
	if affected == 0 {
		return storage.ErrInsufficientStock
	}
	return nil
}

// closeListing marks an open listing sold; a miss means a concurrent buyer
// already matched it.
func closeListing(ctx context.Context, tx *sql.Tx, listingID string) error {
	result, err := tx.ExecContext(
		ctx,
		`UPDATE listings SET status = ?
		  WHERE id = ? AND status = ?`,
		string(domain.ListingStatusSold),
		listingID,
		string(domain.ListingStatusOpen),
	)
	if err != nil {
		return fmt.Errorf("close listing: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("close listing: %w", err)
	}
	if affected == 0 {
		return storage.ErrListingClosed
	}
	return nil
}

// ApplyDirectPurchase moves one unit from the system pool to the buyer and
// debits the catalog price, all in one transaction.
func (s *Store) ApplyDirectPurchase(ctx context.Context, purchase domain.DirectPurchase) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := debit(ctx, tx, purchase.BuyerID, purchase.Price); err != nil {
		return err
	}
	taken, err := decrementPool(ctx, tx, purchase.CardID, 1)
	if err != nil {
		return err
	}
	if !taken {
		return storage.ErrPoolExhausted
	}
	if err := addUnits(ctx, tx, purchase.BuyerID, purchase.CardID, 1); err != nil {
		return err
	}
	if err := appendTransaction(ctx, tx, storage.TransactionRecord{
		ID:        purchase.ID,
		Kind:      domain.KindDirect,
		BuyerID:   purchase.BuyerID,
		CardID:    purchase.CardID,
		Price:     purchase.Price,
		CreatedAt: purchase.CreatedAt,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit direct purchase: %w", err)
	}
	return nil
}

// ApplyResalePurchase settles a matched listing: the buyer pays the listing
// price, the seller is credited, and the escrowed unit moves to the buyer.
// The escrow left the seller's inventory when the listing opened, so closing
// the listing performs no further removal.
func (s *Store) ApplyResalePurchase(ctx context.Context, purchase domain.ResalePurchase) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := closeListing(ctx, tx, purchase.ListingID); err != nil {
		return err
	}
	if err := debit(ctx, tx, purchase.BuyerID, purchase.Price); err != nil {
		return err
	}
	if err := credit(ctx, tx, purchase.SellerID, purchase.Price); err != nil {
		return err
	}
	if err := addUnits(ctx, tx, purchase.BuyerID, purchase.CardID, 1); err != nil {
		return err
	}
	if err := appendTransaction(ctx, tx, storage.TransactionRecord{
		ID:        purchase.ID,
		Kind:      domain.KindResale,
		BuyerID:   purchase.BuyerID,
		SellerID:  purchase.SellerID,
		CardID:    purchase.CardID,
		ListingID: purchase.ListingID,
		Price:     purchase.Price,
		CreatedAt: purchase.CreatedAt,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit resale purchase: %w", err)
	}
	return nil
}

// ApplyListing escrows one unit out of the seller inventory and opens the
// listing in the same transaction.
func (s *Store) ApplyListing(ctx context.Context, listing storage.ListingRecord, sellerAccountID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(listing.ID) == "" {
		return fmt.Errorf("listing id is required")
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := removeUnits(ctx, tx, sellerAccountID, listing.CardID, 1); err != nil {
		return err
	}
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO listings (id, card_id, seller_address, price, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		listing.ID,
		listing.CardID,
		listing.SellerAddress,
		listing.Price,
		string(domain.ListingStatusOpen),
		toMillis(listing.CreatedAt),
	); err != nil {
		return fmt.Errorf("open listing: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit listing: %w", err)
	}
	return nil
}

// ApplyCancelListing removes an open listing and returns the escrowed unit
// to the requester's inventory.
func (s *Store) ApplyCancelListing(ctx context.Context, listingID, requesterAddress, requesterAccountID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return fmt.Errorf("listing id is required")
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(
		ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ?`,
		listingID,
	)
	listing, err := scanListing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("load listing: %w", err)
	}
	if listing.SellerAddress != requesterAddress {
		return storage.ErrNotOwner
	}
	if listing.Status != domain.ListingStatusOpen {
		return storage.ErrListingClosed
	}

	if _, err := tx.ExecContext(
		ctx,
		`DELETE FROM listings WHERE id = ?`,
		listingID,
	); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if err := addUnits(ctx, tx, requesterAccountID, listing.CardID, 1); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cancel listing: %w", err)
	}
	return nil
}

// ApplyGift moves card units between two inventories for free.
func (s *Store) ApplyGift(ctx context.Context, gift domain.Gift) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if gift.Amount <= 0 {
		return fmt.Errorf("gift amount must be positive")
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := removeUnits(ctx, tx, gift.SenderID, gift.CardID, gift.Amount); err != nil {
		return err
	}
	if err := addUnits(ctx, tx, gift.RecipientID, gift.CardID, gift.Amount); err != nil {
		return err
	}
	if err := appendTransaction(ctx, tx, storage.TransactionRecord{
		ID:          gift.ID,
		Kind:        domain.KindGift,
		SenderID:    gift.SenderID,
		RecipientID: gift.RecipientID,
		CardID:      gift.CardID,
		Amount:      gift.Amount,
		CreatedAt:   gift.CreatedAt,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit gift: %w", err)
	}
	return nil
}

// ApplyTransfer moves currency between two balances.
func (s *Store) ApplyTransfer(ctx context.Context, transfer domain.CoinTransfer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if transfer.Amount <= 0 {
		return fmt.Errorf("transfer amount must be positive")
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := debit(ctx, tx, transfer.SenderID, transfer.Amount); err != nil {
		return err
	}
	if err := credit(ctx, tx, transfer.RecipientID, transfer.Amount); err != nil {
		return err
	}
	if err := appendTransaction(ctx, tx, storage.TransactionRecord{
		ID:          transfer.ID,
		Kind:        domain.KindTransfer,
		SenderID:    transfer.SenderID,
		RecipientID: transfer.RecipientID,
		Amount:      transfer.Amount,
		CreatedAt:   transfer.CreatedAt,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transfer: %w", err)
	}
	return nil
}

// ApplyPackPurchase settles one pack draw: a single debit of the pack price
// and a pool-to-inventory move per drawn card.
func (s *Store) ApplyPackPurchase(ctx context.Context, purchase domain.PackPurchase, cardIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if len(cardIDs) == 0 {
		return fmt.Errorf("pack draw must contain at least one card")
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := debit(ctx, tx, purchase.BuyerID, purchase.Price); err != nil {
		return err
	}
	for _, cardID := range cardIDs {
		taken, err := decrementPool(ctx, tx, cardID, 1)
		if err != nil {
			return err
		}
		if !taken {
			return storage.ErrPoolExhausted
		}
		if err := addUnits(ctx, tx, purchase.BuyerID, cardID, 1); err != nil {
			return err
		}
	}
	if err := appendTransaction(ctx, tx, storage.TransactionRecord{
		ID:        purchase.ID,
		Kind:      domain.KindBuyPack,
		BuyerID:   purchase.BuyerID,
		Price:     purchase.Price,
		Amount:    purchase.Count,
		CreatedAt: purchase.CreatedAt,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit pack purchase: %w", err)
	}
	return nil
}
