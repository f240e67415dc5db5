package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dvtrade/cardmarket/internal/services/market/domain"
	"github.com/dvtrade/cardmarket/internal/services/market/storage"
)

// appendTransaction writes one immutable transaction row inside tx.
func appendTransaction(ctx context.Context, tx *sql.Tx, record storage.TransactionRecord) error {
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("transaction id is required")
	}
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO transactions (
		   id, kind, buyer_id, seller_id, sender_id, recipient_id,
		   card_id, listing_id, price, amount, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		string(record.Kind),
		record.BuyerID,
		record.SellerID,
		record.SenderID,
		record.RecipientID,
		record.CardID,
		record.ListingID,
		record.Price,
		record.Amount,
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

// TransactionsByAccount returns records where the account appears in any
// participant role, newest first, created at or after since.
func (s *Store) TransactionsByAccount(ctx context.Context, accountID string, since time.Time) ([]storage.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, fmt.Errorf("account id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, kind, buyer_id, seller_id, sender_id, recipient_id,
		        card_id, listing_id, price, amount, created_at
		   FROM transactions
		  WHERE created_at >= ?
		    AND (buyer_id = ? OR seller_id = ? OR sender_id = ? OR recipient_id = ?)
		  ORDER BY created_at DESC, id DESC`,
		toMillis(since),
		accountID,
		accountID,
		accountID,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var records []storage.TransactionRecord
	for rows.Next() {
		var record storage.TransactionRecord
		var kind string
		var createdAt int64
		if err := rows.Scan(
			&record.ID,
			&kind,
			&record.BuyerID,
			&record.SellerID,
			&record.SenderID,
			&record.RecipientID,
			&record.CardID,
			&record.ListingID,
			&record.Price,
			&record.Amount,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		record.Kind = domain.TransactionKind(kind)
		record.CreatedAt = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return records, nil
}
