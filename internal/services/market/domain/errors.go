package domain

import (
	apperrors "github.com/dvtrade/cardmarket/internal/platform/errors"
)

var (
	// ErrAccountNotFound indicates the acting account does not exist.
	ErrAccountNotFound = apperrors.New(apperrors.CodeAccountNotFound, "account does not exist")
	// ErrCardNotFound indicates the card type is not in the catalog.
	ErrCardNotFound = apperrors.New(apperrors.CodeCardNotFound, "card does not exist")
	// ErrListingNotFound indicates the listing does not exist.
	ErrListingNotFound = apperrors.New(apperrors.CodeListingNotFound, "listing does not exist")
	// ErrRecipientNotFound indicates no account matches the recipient address.
	ErrRecipientNotFound = apperrors.New(apperrors.CodeRecipientNotFound, "recipient address does not match any account")
	// ErrInsufficientFunds indicates the account balance cannot cover the amount.
	ErrInsufficientFunds = apperrors.New(apperrors.CodeInsufficientFunds, "balance is not enough for this operation")
	// ErrInsufficientStock indicates the inventory or pool cannot cover the quantity.
	ErrInsufficientStock = apperrors.New(apperrors.CodeInsufficientStock, "not enough cards available for this operation")
	// ErrListingNotOwner indicates the requester does not own the listing.
	ErrListingNotOwner = apperrors.New(apperrors.CodeListingNotOwner, "listing belongs to another seller")
	// ErrListingAlreadyMatched indicates a concurrent buyer matched the listing first.
	ErrListingAlreadyMatched = apperrors.New(apperrors.CodeListingAlreadyMatched, "listing was matched by another buyer")
	// ErrInvalidRequest indicates a malformed amount, price, or pack tier.
	ErrInvalidRequest = apperrors.New(apperrors.CodeInvalidRequest, "request is malformed")

	// ErrAccountNameEmpty indicates a missing account display name.
	ErrAccountNameEmpty = apperrors.New(apperrors.CodeAccountNameEmpty, "account name is required")
	// ErrCardNameEmpty indicates a missing card name.
	ErrCardNameEmpty = apperrors.New(apperrors.CodeCardNameEmpty, "card name is required")
	// ErrCardDescriptionEmpty indicates a missing card description.
	ErrCardDescriptionEmpty = apperrors.New(apperrors.CodeCardDescriptionEmpty, "card description is required")
	// ErrCardAlreadyExists indicates a catalog entry with the same name exists.
	ErrCardAlreadyExists = apperrors.New(apperrors.CodeCardAlreadyExists, "card with this name already exists")
)
