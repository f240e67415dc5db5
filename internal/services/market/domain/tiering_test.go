package domain

import (
	"math/rand"
	"testing"
)

func TestRepriceCatalogBoundsWalk(t *testing.T) {
	t.Parallel()

	cards := catalogOfSize(20)
	before := make(map[string]int64, len(cards))
	for _, card := range cards {
		before[card.ID] = card.Price
	}

	updated := RepriceCatalog(rand.New(rand.NewSource(99)), cards)
	if len(updated) != len(cards) {
		t.Fatalf("updated count = %d, want %d", len(updated), len(cards))
	}
	for _, card := range updated {
		delta := card.Price - before[card.ID]
		if delta == 0 && before[card.ID] > maxPriceStep {
			t.Fatalf("card %s price did not move", card.ID)
		}
		if delta > maxPriceStep || delta < -maxPriceStep {
			t.Fatalf("card %s moved by %d, want within ±%d", card.ID, delta, maxPriceStep)
		}
		if card.Price < 0 {
			t.Fatalf("card %s price went negative: %d", card.ID, card.Price)
		}
	}
}

func TestRepriceCatalogNeverNegative(t *testing.T) {
	t.Parallel()

	cards := []Card{
		{ID: "free", Name: "Free", Price: 0, Pool: 1},
		{ID: "cheap", Name: "Cheap", Price: 3, Pool: 1},
	}
	for seed := int64(0); seed < 50; seed++ {
		for _, card := range RepriceCatalog(rand.New(rand.NewSource(seed)), cards) {
			if card.Price < 0 {
				t.Fatalf("seed %d: card %s price went negative: %d", seed, card.ID, card.Price)
			}
		}
	}
}

func TestRepriceCatalogDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	cards := catalogOfSize(5)
	want := cards[0].Price
	RepriceCatalog(rand.New(rand.NewSource(3)), cards)
	if cards[0].Price != want {
		t.Fatalf("input price mutated: %d, want %d", cards[0].Price, want)
	}
}

func TestAssignTiersMatchesPartitionRule(t *testing.T) {
	t.Parallel()

	ranked := AssignTiers(catalogOfSize(20))
	wantTiers := map[string]int{
		"card-00": 1, // rank 0
		"card-07": 1, // rank 7, boundary at 8
		"card-08": 2,
		"card-11": 2, // boundary at 12
		"card-12": 3,
		"card-14": 3, // boundary at 15
		"card-15": 4,
		"card-17": 4, // boundary at 18
		"card-18": 5,
		"card-19": 5,
	}
	got := make(map[string]int, len(ranked))
	for _, card := range ranked {
		got[card.ID] = card.Tier
	}
	for id, want := range wantTiers {
		if got[id] != want {
			t.Fatalf("card %s tier = %d, want %d", id, got[id], want)
		}
	}

	for i := 1; i < len(ranked); i++ {
		if ranked[i].Price < ranked[i-1].Price {
			t.Fatalf("ranked output not price-ascending at %d", i)
		}
	}
}
