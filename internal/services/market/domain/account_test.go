package domain

import (
	"errors"
	"testing"
)

func TestNewWalletAddressFormat(t *testing.T) {
	t.Parallel()

	addr, err := NewWalletAddress()
	if err != nil {
		t.Fatalf("new wallet address: %v", err)
	}
	if len(addr) != 64 {
		t.Fatalf("address length = %d, want 64", len(addr))
	}
	for _, r := range addr {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			t.Fatalf("unexpected character %q in address", r)
		}
	}

	other, err := NewWalletAddress()
	if err != nil {
		t.Fatalf("new wallet address: %v", err)
	}
	if addr == other {
		t.Fatal("expected distinct addresses")
	}
}

func TestValidateAccountName(t *testing.T) {
	t.Parallel()

	if err := ValidateAccountName("An Nguyen"); err != nil {
		t.Fatalf("valid name rejected: %v", err)
	}
	if err := ValidateAccountName("  "); !errors.Is(err, ErrAccountNameEmpty) {
		t.Fatalf("blank name error = %v, want %v", err, ErrAccountNameEmpty)
	}
}

func TestNewCardParamsValidate(t *testing.T) {
	t.Parallel()

	valid := NewCardParams{Name: "Violet", Description: "Marksman", Price: 1000, Pool: 100}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}

	tests := []struct {
		name   string
		params NewCardParams
		want   error
	}{
		{"empty name", NewCardParams{Description: "d", Price: 1}, ErrCardNameEmpty},
		{"empty description", NewCardParams{Name: "n", Price: 1}, ErrCardDescriptionEmpty},
		{"negative price", NewCardParams{Name: "n", Description: "d", Price: -1}, ErrInvalidRequest},
		{"negative pool", NewCardParams{Name: "n", Description: "d", Price: 1, Pool: -5}, ErrInvalidRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := tc.params.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidateAskPrice(t *testing.T) {
	t.Parallel()

	if err := ValidateAskPrice(1500); err != nil {
		t.Fatalf("valid price rejected: %v", err)
	}
	for _, price := range []int64{0, -100} {
		if err := ValidateAskPrice(price); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("price %d error = %v, want %v", price, err, ErrInvalidRequest)
		}
	}
}
