package seed

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	marketsqlite "github.com/dvtrade/cardmarket/internal/services/market/storage/sqlite"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.DBPath != "data/market.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "data/market.db")
	}
	if cfg.File != "catalog.yaml" {
		t.Errorf("File = %q, want %q", cfg.File, "catalog.yaml")
	}
}

func TestRunSeedsCatalog(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	catalogYAML := "cards:\n  - name: Blue Dragon\n    description: A rare dragon\n    price: 1200\n    pool: 50\n"
	if err := os.WriteFile(catalogPath, []byte(catalogYAML), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	dbPath := filepath.Join(dir, "market.db")
	var out bytes.Buffer
	cfg := Config{DBPath: dbPath, File: catalogPath}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "1 created, 0 skipped") {
		t.Errorf("output = %q, want created summary", out.String())
	}

	store, err := marketsqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()
	cards, err := store.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("len(cards) = %d, want 1", len(cards))
	}
	if cards[0].Name != "Blue Dragon" {
		t.Errorf("card name = %q, want %q", cards[0].Name, "Blue Dragon")
	}
}

func TestRunMissingCatalogFile(t *testing.T) {
	cfg := Config{
		DBPath: filepath.Join(t.TempDir(), "market.db"),
		File:   filepath.Join(t.TempDir(), "missing.yaml"),
	}
	if err := Run(context.Background(), cfg, nil); err == nil {
		t.Fatal("Run() error = nil, want error")
	}
}
