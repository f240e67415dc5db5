package domain

import (
	"strings"
	"time"
)

// Card is a catalog entry. Pool is the system-held remaining supply,
// decremented by direct sales, pack draws, and registration grants; it is
// a hard cap and never goes negative. Price and Tier are rewritten by the
// tiering engine.
type Card struct {
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

// NewCardParams carries the fields required to create a catalog entry.
type NewCardParams struct {
	Name        string
	Description string
	ImageURL    string
	Price       int64
	Pool        int64
}

// Validate checks catalog entry parameters before creation.
func (p NewCardParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrCardNameEmpty
	}
	if strings.TrimSpace(p.Description) == "" {
		return ErrCardDescriptionEmpty
	}
	if p.Price < 0 {
		return ErrInvalidRequest
	}
	if p.Pool < 0 {
		return ErrInvalidRequest
	}
	return nil
}
