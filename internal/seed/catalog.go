// Package seed loads card catalog definitions from YAML and applies them
// to a marketplace store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dvtrade/cardmarket/internal/platform/id"
	"github.com/dvtrade/cardmarket/internal/services/market/storage"
)

// Entry is one card definition in a catalog file.
type Entry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Price       int64  `yaml:"price"`
	Pool        int64  `yaml:"pool"`
}

// Catalog is the YAML document shape of a catalog file.
type Catalog struct {
	Cards []Entry `yaml:"cards"`
}

// Load reads and validates a catalog file.
func Load(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Catalog{}, fmt.Errorf("catalog path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates catalog YAML.
func Parse(raw []byte) (Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog yaml: %w", err)
	}
	for i, entry := range catalog.Cards {
		if strings.TrimSpace(entry.Name) == "" {
			return Catalog{}, fmt.Errorf("catalog entry %d: name is required", i)
		}
		if entry.Price < 0 {
			return Catalog{}, fmt.Errorf("catalog entry %q: price must not be negative", entry.Name)
		}
		if entry.Pool < 0 {
			return Catalog{}, fmt.Errorf("catalog entry %q: pool must not be negative", entry.Name)
		}
	}
	return catalog, nil
}

// Result summarizes one catalog apply run.
type Result struct {
	Created int
	Skipped int
}

// Apply inserts missing catalog cards into the store. Cards whose name
// already exists are skipped, so repeated runs are safe.
func Apply(ctx context.Context, store storage.CatalogStore, catalog Catalog) (Result, error) {
	var result Result
	for _, entry := range catalog.Cards {
		cardID, err := id.NewID()
		if err != nil {
			return result, err
		}
		record := storage.CardRecord{
			ID:          cardID,
			Name:        entry.Name,
			Description: entry.Description,
			ImageURL:    entry.Image,
			Price:       entry.Price,
			Tier:        1,
			Pool:        entry.Pool,
			PoolInit:    entry.Pool,
			CreatedAt:   time.Now().UTC(),
		}
		err = store.CreateCard(ctx, record)
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, storage.ErrAlreadyExists):
			result.Skipped++
		default:
			return result, fmt.Errorf("seed card %q: %w", entry.Name, err)
		}
	}
	return result, nil
}
