package domain

import "time"

// ListingStatus describes the lifecycle of a peer resale listing.
type ListingStatus string

const (
	// ListingStatusOpen indicates the listing is waiting for a buyer.
	ListingStatusOpen ListingStatus = "open"
	// ListingStatusSold indicates the listing was matched; kept for audit.
	ListingStatusSold ListingStatus = "sold"
)

// Listing is one unit of a card held in escrow by a seller at an ask price.
// The unit leaves the seller's inventory when the listing opens and is only
// returned on cancellation. Listing ids are ULIDs, so id order is creation
// order and serves as the FIFO tie-break for matching.
type Listing struct {
	ID            string
	CardID        string
	SellerAddress string
	Price         int64
	Status        ListingStatus
	CreatedAt     time.Time
}

// ValidateAskPrice checks a seller's ask price for a new listing.
func ValidateAskPrice(price int64) error {
	if price <= 0 {
		return ErrInvalidRequest
	}
	return nil
}
