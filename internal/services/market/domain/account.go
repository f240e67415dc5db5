package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Account represents a marketplace participant with a spendable balance.
// The wallet address is the stable public identity used by peer-to-peer
// operations; other accounts never see the internal id.
type Account struct {
	ID        string
	Name      string
	Address   string
	Balance   int64
	CreatedAt time.Time
}

// NewWalletAddress derives a public wallet address from fresh random bytes.
// The address is a 64-character lowercase hex digest.
func NewWalletAddress() (string, error) {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	digest := sha256.Sum256(raw[:])
	return hex.EncodeToString(digest[:]), nil
}

// ValidateAccountName checks the display name for a new account.
func ValidateAccountName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrAccountNameEmpty
	}
	return nil
}
