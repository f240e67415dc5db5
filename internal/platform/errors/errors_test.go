package errors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	t.Parallel()

	base := New(CodeInsufficientFunds, "balance too low")
	other := New(CodeInsufficientFunds, "different message, same code")
	if !errors.Is(base, other) {
		t.Fatal("expected errors with equal codes to match")
	}
	mismatch := New(CodeInsufficientStock, "not enough cards")
	if errors.Is(base, mismatch) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestErrorUnwrapTraversesCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("sql: connection closed")
	wrapped := Wrap(CodeUnknown, "lookup account", cause)
	if !errors.Is(wrapped, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeAccountNotFound, codes.NotFound},
		{CodeCardNotFound, codes.NotFound},
		{CodeRecipientNotFound, codes.NotFound},
		{CodeInsufficientFunds, codes.FailedPrecondition},
		{CodeInsufficientStock, codes.FailedPrecondition},
		{CodeListingNotOwner, codes.PermissionDenied},
		{CodeListingAlreadyMatched, codes.Aborted},
		{CodeInvalidRequest, codes.InvalidArgument},
		{CodeCardAlreadyExists, codes.AlreadyExists},
		{CodeUnknown, codes.Internal},
	}
	for _, tc := range tests {
		if got := tc.code.GRPCCode(); got != tc.want {
			t.Fatalf("GRPCCode(%s) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestToGRPCStatusCarriesReason(t *testing.T) {
	t.Parallel()

	err := WithMetadata(CodeInsufficientFunds, "balance too low", map[string]string{
		"required": "1000",
	}).ToGRPCStatus()

	st, ok := status.FromError(err)
	if !ok {
		t.Fatal("expected a gRPC status error")
	}
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("status code = %v, want %v", st.Code(), codes.FailedPrecondition)
	}
	if st.Message() != "balance too low" {
		t.Fatalf("status message = %q, want %q", st.Message(), "balance too low")
	}
}
