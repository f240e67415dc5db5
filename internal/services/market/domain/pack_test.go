package domain

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func catalogOfSize(n int) []Card {
	cards := make([]Card, 0, n)
	for i := range n {
		cards = append(cards, Card{
			ID:    fmt.Sprintf("card-%02d", i),
			Name:  fmt.Sprintf("Card %02d", i),
			Price: int64(100 * (i + 1)),
			Pool:  10,
		})
	}
	return cards
}

func TestTierForRoll(t *testing.T) {
	t.Parallel()

	thresholds := [4]int{50, 75, 90, 97}
	tests := []struct {
		roll int
		want int
	}{
		{0, 1},
		{49, 1},
		{50, 2},
		{74, 2},
		{75, 3},
		{89, 3},
		{90, 4},
		{96, 4},
		{97, 5},
		{99, 5},
	}
	for _, tc := range tests {
		if got := tierForRoll(tc.roll, thresholds); got != tc.want {
			t.Fatalf("tierForRoll(%d) = %d, want %d", tc.roll, got, tc.want)
		}
	}
}

func TestPartitionCatalogBoundaries(t *testing.T) {
	t.Parallel()

	// 20 cards: ceil boundaries at ranks 8, 12, 15, 18.
	p := PartitionCatalog(catalogOfSize(20))
	wantSizes := []int{8, 4, 3, 3, 2}
	for tier := 1; tier <= 5; tier++ {
		if got := len(p.TierCards(tier)); got != wantSizes[tier-1] {
			t.Fatalf("tier %d size = %d, want %d", tier, got, wantSizes[tier-1])
		}
	}

	// Cheapest card lands in tier 1, most expensive in tier 5.
	if got := p.TierCards(1)[0].ID; got != "card-00" {
		t.Fatalf("cheapest card = %s, want card-00", got)
	}
	last := p.TierCards(5)
	if got := last[len(last)-1].ID; got != "card-19" {
		t.Fatalf("most expensive card = %s, want card-19", got)
	}
}

func TestPartitionCatalogSmallCatalog(t *testing.T) {
	t.Parallel()

	// 3 cards: ceil(1.2)=2, ceil(1.8)=2, ceil(2.25)=3, ceil(2.7)=3.
	p := PartitionCatalog(catalogOfSize(3))
	wantSizes := []int{2, 0, 1, 0, 0}
	for tier := 1; tier <= 5; tier++ {
		if got := len(p.TierCards(tier)); got != wantSizes[tier-1] {
			t.Fatalf("tier %d size = %d, want %d", tier, got, wantSizes[tier-1])
		}
	}
}

func TestPackByTier(t *testing.T) {
	t.Parallel()

	pack, ok := PackByTier(PackTierStandard)
	if !ok {
		t.Fatal("expected standard pack to exist")
	}
	if pack.Price != 2500 {
		t.Fatalf("price = %d, want 2500", pack.Price)
	}
	if pack.Size != 5 {
		t.Fatalf("size = %d, want 5", pack.Size)
	}
	if _, ok := PackByTier(PackTier("mythic")); ok {
		t.Fatal("expected unknown pack tier to be rejected")
	}
}

func TestDrawIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	catalog := catalogOfSize(20)
	pack, _ := PackByTier(PackTierPremium)

	first, err := pack.Draw(rand.New(rand.NewSource(42)), PartitionCatalog(catalog))
	if err != nil {
		t.Fatalf("first draw: %v", err)
	}
	second, err := pack.Draw(rand.New(rand.NewSource(42)), PartitionCatalog(catalog))
	if err != nil {
		t.Fatalf("second draw: %v", err)
	}

	if len(first) != pack.Size {
		t.Fatalf("draw count = %d, want %d", len(first), pack.Size)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("draw %d = %s, want %s", i, second[i].ID, first[i].ID)
		}
	}
}

func TestDrawTracksSupplyWithinPack(t *testing.T) {
	t.Parallel()

	// One card per tier with a single unit each: any tier rolled twice
	// must fail rather than over-draw.
	cards := catalogOfSize(5)
	for i := range cards {
		cards[i].Pool = 1
	}
	pack := Pack{Tier: PackTierBasic, Price: 1000, Size: 5, Thresholds: [4]int{100, 100, 100, 100}}

	_, err := pack.Draw(rand.New(rand.NewSource(7)), PartitionCatalog(cards))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("draw error = %v, want %v", err, ErrInsufficientStock)
	}
}

func TestDrawFailsWhenTierExhausted(t *testing.T) {
	t.Parallel()

	cards := catalogOfSize(10)
	for i := range cards {
		cards[i].Pool = 0
	}
	pack, _ := PackByTier(PackTierBasic)

	_, err := pack.Draw(rand.New(rand.NewSource(1)), PartitionCatalog(cards))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("draw error = %v, want %v", err, ErrInsufficientStock)
	}
}
