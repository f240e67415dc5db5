// Package random derives seeds for the marketplace's math/rand sources.
//
// Pack draws, starting-hand shuffles, and the tiering price walk all run
// on seeded generators so tests can pin them; production seeds come from
// crypto/rand via NewSeed.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed returns a high-entropy seed read from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
