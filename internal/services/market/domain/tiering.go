package domain

import "math/rand"

// maxPriceStep bounds the magnitude of one repricing walk step.
const maxPriceStep = 10

// RepriceCatalog applies an independent random walk to every card price and
// reassigns rarity tiers from the post-walk price ranks. Steps are uniform
// in 1..10 units with a random sign; prices never drop below zero. The
// returned slice holds updated copies ordered by ascending price; inputs are
// not mutated.
func RepriceCatalog(rng *rand.Rand, cards []Card) []Card {
	updated := make([]Card, len(cards))
	copy(updated, cards)

	for i := range updated {
		step := int64(1 + rng.Intn(maxPriceStep))
		if rng.Intn(2) == 0 {
			step = -step
		}
		price := updated[i].Price + step
		if price < 0 {
			price = 0
		}
		updated[i].Price = price
	}

	return AssignTiers(updated)
}

// AssignTiers recomputes every card's rarity tier from its price rank,
// using the same partition rule as pack draws. The returned slice is
// ordered by ascending price with id as a stable tie-break.
func AssignTiers(cards []Card) []Card {
	p := PartitionCatalog(cards)
	ranked := make([]Card, 0, len(cards))
	for tier := 1; tier <= 5; tier++ {
		for _, card := range p.TierCards(tier) {
			card.Tier = tier
			ranked = append(ranked, card)
		}
	}
	return ranked
}
