package seed

import (
	"context"
	"path/filepath"
	"testing"

	marketsqlite "github.com/dvtrade/cardmarket/internal/services/market/storage/sqlite"
)

const sampleCatalog = `
cards:
  - name: Blue Dragon
    description: A rare dragon
    image: https://cdn.example.com/blue-dragon.png
    price: 1200
    pool: 50
  - name: Goblin Scout
    description: A common scout
    price: 100
    pool: 500
`

func TestParse(t *testing.T) {
	t.Parallel()

	catalog, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(catalog.Cards) != 2 {
		t.Fatalf("len(Cards) = %d, want 2", len(catalog.Cards))
	}
	if catalog.Cards[0].Name != "Blue Dragon" {
		t.Errorf("Cards[0].Name = %q, want %q", catalog.Cards[0].Name, "Blue Dragon")
	}
	if catalog.Cards[0].Pool != 50 {
		t.Errorf("Cards[0].Pool = %d, want 50", catalog.Cards[0].Pool)
	}
}

func TestParseRejectsInvalidEntries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		yaml string
	}{
		{"missing name", "cards:\n  - description: no name\n    price: 10\n    pool: 1\n"},
		{"negative price", "cards:\n  - name: Bad\n    price: -1\n    pool: 1\n"},
		{"negative pool", "cards:\n  - name: Bad\n    price: 1\n    pool: -1\n"},
		{"malformed yaml", "cards: ["},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
		})
	}
}

func TestApplySkipsExistingCards(t *testing.T) {
	t.Parallel()

	store, err := marketsqlite.Open(filepath.Join(t.TempDir(), "market.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	catalog, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	first, err := Apply(context.Background(), store, catalog)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if first.Created != 2 || first.Skipped != 0 {
		t.Errorf("first run = %+v, want Created 2 Skipped 0", first)
	}

	second, err := Apply(context.Background(), store, catalog)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if second.Created != 0 || second.Skipped != 2 {
		t.Errorf("second run = %+v, want Created 0 Skipped 2", second)
	}

	cards, err := store.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if len(cards) != 2 {
		t.Errorf("len(cards) = %d, want 2", len(cards))
	}
}
