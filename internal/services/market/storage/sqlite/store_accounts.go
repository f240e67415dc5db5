package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dvtrade/cardmarket/internal/services/market/storage"
)

// CreateAccount inserts one account row and applies the starting card grant
// in the same transaction. Grant cards with an exhausted pool are skipped.
func (s *Store) CreateAccount(ctx context.Context, account storage.AccountRecord, grantCardIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(account.ID) == "" {
		return fmt.Errorf("account id is required")
	}
	if strings.TrimSpace(account.Address) == "" {
		return fmt.Errorf("account address is required")
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO accounts (id, name, address, balance, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		account.ID,
		account.Name,
		account.Address,
		account.Balance,
		toMillis(account.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "accounts.") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create account: %w", err)
	}

	for _, cardID := range grantCardIDs {
		taken, err := decrementPool(ctx, tx, cardID, 1)
		if err != nil {
			return err
		}
		if !taken {
			// Pool raced to zero since the grant was drawn; skip the card.
			continue
		}
		if err := addUnits(ctx, tx, account.ID, cardID, 1); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit account: %w", err)
	}
	return nil
}

// GetAccount returns one account by internal id.
func (s *Store) GetAccount(ctx context.Context, id string) (storage.AccountRecord, error) {
	return s.getAccountBy(ctx, "id", id)
}

// GetAccountByAddress returns one account by public wallet address.
func (s *Store) GetAccountByAddress(ctx context.Context, address string) (storage.AccountRecord, error) {
	return s.getAccountBy(ctx, "address", address)
}

func (s *Store) getAccountBy(ctx context.Context, column, value string) (storage.AccountRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.AccountRecord{}, err
	}
	if err := s.ready(); err != nil {
		return storage.AccountRecord{}, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return storage.AccountRecord{}, fmt.Errorf("account %s is required", column)
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, address, balance, created_at
		   FROM accounts
		  WHERE `+column+` = ?`,
		value,
	)

	var account storage.AccountRecord
	var createdAt int64
	err := row.Scan(&account.ID, &account.Name, &account.Address, &account.Balance, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.AccountRecord{}, storage.ErrNotFound
		}
		return storage.AccountRecord{}, fmt.Errorf("get account by %s: %w", column, err)
	}
	account.CreatedAt = fromMillis(createdAt)
	return account, nil
}

// Inventory returns every owned stack for an account.
func (s *Store) Inventory(ctx context.Context, accountID string) ([]storage.StackRecord, error) {
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
		`SELECT account_id, card_id, quantity
		   FROM stacks
		  WHERE account_id = ?
		  ORDER BY card_id ASC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var stacks []storage.StackRecord
	for rows.Next() {
		var stack storage.StackRecord
		if err := rows.Scan(&stack.AccountID, &stack.CardID, &stack.Quantity); err != nil {
			return nil, fmt.Errorf("list inventory: %w", err)
		}
		stacks = append(stacks, stack)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return stacks, nil
}
