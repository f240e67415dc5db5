package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dvtrade/cardmarket/internal/services/market/storage"
)

const cardColumns = `id, name, description, image_url, price, tier, pool, pool_init, created_at`

func scanCard(row interface{ Scan(...any) error }) (storage.CardRecord, error) {
	var card storage.CardRecord
	var createdAt int64
	err := row.Scan(
		&card.ID,
		&card.Name,
		&card.Description,
		&card.ImageURL,
		&card.Price,
		&card.Tier,
		&card.Pool,
		&card.PoolInit,
		&createdAt,
	)
	if err != nil {
		return storage.CardRecord{}, err
	}
	card.CreatedAt = fromMillis(createdAt)
	return card, nil
}

// CreateCard inserts one catalog entry.
func (s *Store) CreateCard(ctx context.Context, card storage.CardRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(card.ID) == "" {
		return fmt.Errorf("card id is required")
	}
	if strings.TrimSpace(card.Name) == "" {
		return fmt.Errorf("card name is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cards (id, name, description, image_url, price, tier, pool, pool_init, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.ID,
		card.Name,
		card.Description,
		card.ImageURL,
		card.Price,
		card.Tier,
		card.Pool,
		card.PoolInit,
		toMillis(card.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "cards.") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create card: %w", err)
	}
	return nil
}

// GetCard returns one catalog entry by id.
func (s *Store) GetCard(ctx context.Context, id string) (storage.CardRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.CardRecord{}, err
	}
	if err := s.ready(); err != nil {
		return storage.CardRecord{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.CardRecord{}, fmt.Errorf("card id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = ?`,
		id,
	)
	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CardRecord{}, storage.ErrNotFound
		}
		return storage.CardRecord{}, fmt.Errorf("get card: %w", err)
	}
	return card, nil
}

// ListCards returns one filtered page of the catalog.
func (s *Store) ListCards(ctx context.Context, query storage.ListCardsQuery) (storage.CardPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.CardPage{}, err
	}
	if err := s.ready(); err != nil {
		return storage.CardPage{}, err
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 8
	}
	pattern := "%" + strings.TrimSpace(query.Keyword) + "%"

	var total int
	if err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM cards WHERE name LIKE ?`,
		pattern,
	).Scan(&total); err != nil {
		return storage.CardPage{}, fmt.Errorf("count cards: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+cardColumns+`
		   FROM cards
		  WHERE name LIKE ?
		  ORDER BY name ASC
		  LIMIT ? OFFSET ?`,
		pattern,
		query.Limit,
		(query.Page-1)*query.Limit,
	)
	if err != nil {
		return storage.CardPage{}, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	page := storage.CardPage{
		Cards:      make([]storage.CardRecord, 0, query.Limit),
		TotalCards: total,
		Page:       query.Page,
		TotalPages: (total + query.Limit - 1) / query.Limit,
	}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return storage.CardPage{}, fmt.Errorf("list cards: %w", err)
		}
		page.Cards = append(page.Cards, card)
	}
	if err := rows.Err(); err != nil {
		return storage.CardPage{}, fmt.Errorf("list cards: %w", err)
	}
	return page, nil
}

// Catalog returns every card ordered by ascending price.
func (s *Store) Catalog(ctx context.Context) ([]storage.CardRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+cardColumns+` FROM cards ORDER BY price ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	var cards []storage.CardRecord
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cards, nil
}

// UpdateCardPricing rewrites one card's price and tier.
func (s *Store) UpdateCardPricing(ctx context.Context, cardID string, price int64, tier int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return fmt.Errorf("card id is required")
	}
	if price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if tier < 1 || tier > 5 {
		return fmt.Errorf("tier must be within 1..5")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE cards SET price = ?, tier = ? WHERE id = ?`,
		price,
		tier,
		cardID,
	)
	if err != nil {
		return fmt.Errorf("update card pricing: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update card pricing: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
