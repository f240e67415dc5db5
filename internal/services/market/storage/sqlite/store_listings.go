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

const listingColumns = `id, card_id, seller_address, price, status, created_at`

func scanListing(row interface{ Scan(...any) error }) (storage.ListingRecord, error) {
	var listing storage.ListingRecord
	var status string
	var createdAt int64
	err := row.Scan(
		&listing.ID,
		&listing.CardID,
		&listing.SellerAddress,
		&listing.Price,
		&status,
		&createdAt,
	)
	if err != nil {
		return storage.ListingRecord{}, err
	}
	listing.Status = domain.ListingStatus(status)
	listing.CreatedAt = fromMillis(createdAt)
	return listing, nil
}

// GetListing returns one listing by id.
func (s *Store) GetListing(ctx context.Context, id string) (storage.ListingRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.ListingRecord{}, err
	}
	if err := s.ready(); err != nil {
		return storage.ListingRecord{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.ListingRecord{}, fmt.Errorf("listing id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ?`,
		id,
	)
	listing, err := scanListing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ListingRecord{}, storage.ErrNotFound
		}
		return storage.ListingRecord{}, fmt.Errorf("get listing: %w", err)
	}
	return listing, nil
}

// OldestOpenListing returns the first open listing for a card in creation
// order, with the ULID id as the FIFO tie-break.
func (s *Store) OldestOpenListing(ctx context.Context, cardID string) (storage.ListingRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.ListingRecord{}, err
	}
	if err := s.ready(); err != nil {
		return storage.ListingRecord{}, err
	}
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return storage.ListingRecord{}, fmt.Errorf("card id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+listingColumns+`
		   FROM listings
		  WHERE card_id = ? AND status = ?
		  ORDER BY created_at ASC, id ASC
		  LIMIT 1`,
		cardID,
		string(domain.ListingStatusOpen),
	)
	listing, err := scanListing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ListingRecord{}, storage.ErrNotFound
		}
		return storage.ListingRecord{}, fmt.Errorf("match oldest listing: %w", err)
	}
	return listing, nil
}

// ListingsBySeller returns every listing for a seller address, newest first.
func (s *Store) ListingsBySeller(ctx context.Context, sellerAddress string) ([]storage.ListingRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	sellerAddress = strings.TrimSpace(sellerAddress)
	if sellerAddress == "" {
		return nil, fmt.Errorf("seller address is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+listingColumns+`
		   FROM listings
		  WHERE seller_address = ?
		  ORDER BY created_at DESC, id DESC`,
		sellerAddress,
	)
	if err != nil {
		return nil, fmt.Errorf("list seller listings: %w", err)
	}
	defer rows.Close()

	var listings []storage.ListingRecord
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("list seller listings: %w", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list seller listings: %w", err)
	}
	return listings, nil
}
