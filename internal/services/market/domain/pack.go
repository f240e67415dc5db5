package domain

import (
	"math/rand"
	"sort"
)

// PackTier identifies one purchasable pack configuration.
type PackTier string

const (
	PackTierBasic    PackTier = "basic"
	PackTierStandard PackTier = "standard"
	PackTierPremium  PackTier = "premium"
)

// Pack describes the price, draw count, and rarity weighting of a pack.
// Thresholds are cumulative upper bounds over [0,100) for rarity tiers 1..4;
// rolls at or above the last threshold fall to tier 5.
type Pack struct {
	Tier       PackTier
	Price      int64
	Size       int
	Thresholds [4]int
}

var packs = map[PackTier]Pack{
	PackTierBasic:    {Tier: PackTierBasic, Price: 1000, Size: 3, Thresholds: [4]int{50, 75, 90, 97}},
	PackTierStandard: {Tier: PackTierStandard, Price: 2500, Size: 5, Thresholds: [4]int{40, 65, 85, 95}},
	PackTierPremium:  {Tier: PackTierPremium, Price: 5000, Size: 7, Thresholds: [4]int{25, 50, 75, 92}},
}

// PackByTier returns the pack configuration for a tier.
func PackByTier(tier PackTier) (Pack, bool) {
	p, ok := packs[tier]
	return p, ok
}

// tierForRoll maps a uniform roll in [0,100) to a rarity tier 1..5.
func tierForRoll(roll int, thresholds [4]int) int {
	for i, limit := range thresholds {
		if roll < limit {
			return i + 1
		}
	}
	return 5
}

// Partition groups the catalog into five rarity tiers by relative price
// rank: tier 1 holds the cheapest 40%, then 20%, 15%, 15%, and the most
// expensive 10% in tier 5. Boundaries are ceiling-rounded.
type Partition struct {
	tiers [5][]Card
}

// tierBoundaries returns the exclusive rank upper bound of tiers 1..4 for a
// catalog of n cards.
func tierBoundaries(n int) [4]int {
	return [4]int{
		(n*40 + 99) / 100,
		(n*60 + 99) / 100,
		(n*75 + 99) / 100,
		(n*90 + 99) / 100,
	}
}

// tierForRank maps a zero-based price-ascending rank to a rarity tier 1..5.
func tierForRank(rank, n int) int {
	bounds := tierBoundaries(n)
	for i, bound := range bounds {
		if rank < bound {
			return i + 1
		}
	}
	return 5
}

// PartitionCatalog sorts cards by ascending price (id as a stable tie-break)
// and slices them into rarity tiers.
func PartitionCatalog(cards []Card) Partition {
	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Price != sorted[j].Price {
			return sorted[i].Price < sorted[j].Price
		}
		return sorted[i].ID < sorted[j].ID
	})

	var p Partition
	for rank, card := range sorted {
		tier := tierForRank(rank, len(sorted))
		p.tiers[tier-1] = append(p.tiers[tier-1], card)
	}
	return p
}

// TierCards returns the cards assigned to a rarity tier 1..5.
func (p Partition) TierCards(tier int) []Card {
	if tier < 1 || tier > 5 {
		return nil
	}
	return p.tiers[tier-1]
}

// Draw samples the pack's card types from a partitioned catalog. Each draw
// rolls a rarity tier from the pack thresholds and picks uniformly among the
// tier's cards that still have pool supply, tracking supply consumed by
// earlier draws in the same pack. A roll landing on a tier with no supply
// fails the whole draw.
func (pk Pack) Draw(rng *rand.Rand, p Partition) ([]Card, error) {
	remaining := make(map[string]int64)
	for tier := 1; tier <= 5; tier++ {
		for _, card := range p.TierCards(tier) {
			remaining[card.ID] = card.Pool
		}
	}

	drawn := make([]Card, 0, pk.Size)
	for range pk.Size {
		tier := tierForRoll(rng.Intn(100), pk.Thresholds)
		candidates := make([]Card, 0, len(p.TierCards(tier)))
		for _, card := range p.TierCards(tier) {
			if remaining[card.ID] > 0 {
				candidates = append(candidates, card)
			}
		}
		if len(candidates) == 0 {
			return nil, ErrInsufficientStock
		}
		pick := candidates[rng.Intn(len(candidates))]
		remaining[pick.ID]--
		drawn = append(drawn, pick)
	}
	return drawn, nil
}
