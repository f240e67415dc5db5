// Package errors provides structured error handling for marketplace
// operations, with machine-readable codes and gRPC status mapping.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Lookup errors
	CodeAccountNotFound   Code = "MARKET_ACCOUNT_NOT_FOUND"
	CodeCardNotFound      Code = "MARKET_CARD_NOT_FOUND"
	CodeListingNotFound   Code = "MARKET_LISTING_NOT_FOUND"
	CodeRecipientNotFound Code = "MARKET_RECIPIENT_NOT_FOUND"

	// Balance and stock errors
	CodeInsufficientFunds Code = "MARKET_INSUFFICIENT_FUNDS"
	CodeInsufficientStock Code = "MARKET_INSUFFICIENT_STOCK"

	// Listing errors
	CodeListingNotOwner       Code = "MARKET_LISTING_NOT_OWNER"
	CodeListingAlreadyMatched Code = "MARKET_LISTING_ALREADY_MATCHED"

	// Validation errors
	CodeInvalidRequest Code = "MARKET_INVALID_REQUEST"

	// Catalog errors
	CodeCardNameEmpty        Code = "MARKET_CARD_NAME_EMPTY"
	CodeCardDescriptionEmpty Code = "MARKET_CARD_DESCRIPTION_EMPTY"
	CodeCardAlreadyExists    Code = "MARKET_CARD_ALREADY_EXISTS"

	// Account errors
	CodeAccountNameEmpty Code = "MARKET_ACCOUNT_NAME_EMPTY"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidRequest,
		CodeCardNameEmpty,
		CodeCardDescriptionEmpty,
		CodeAccountNameEmpty:
		return codes.InvalidArgument

	// NotFound - missing entities
	case CodeAccountNotFound,
		CodeCardNotFound,
		CodeListingNotFound,
		CodeRecipientNotFound:
		return codes.NotFound

	// FailedPrecondition - business rule rejections
	case CodeInsufficientFunds,
		CodeInsufficientStock:
		return codes.FailedPrecondition

	// PermissionDenied - acting on another account's listing
	case CodeListingNotOwner:
		return codes.PermissionDenied

	// Aborted - lost a concurrent match race; safe to retry
	case CodeListingAlreadyMatched:
		return codes.Aborted

	// AlreadyExists - uniqueness violations
	case CodeCardAlreadyExists:
		return codes.AlreadyExists

	default:
		return codes.Internal
	}
}
