// Package seed parses seed command flags and applies a catalog file to the
// market store.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	entrypoint "github.com/dvtrade/cardmarket/internal/platform/cmd"
	"github.com/dvtrade/cardmarket/internal/seed"
	marketsqlite "github.com/dvtrade/cardmarket/internal/services/market/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DBPath string `env:"CARDMARKET_DB_PATH" envDefault:"data/market.db"`
	File   string `env:"CARDMARKET_CATALOG_FILE" envDefault:"catalog.yaml"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The market SQLite database path")
	fs.StringVar(&cfg.File, "file", cfg.File, "The catalog YAML file to apply")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads the catalog file and inserts missing cards into the store.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return fmt.Errorf("database path is required")
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		catalog, err := seed.Load(cfg.File)
		if err != nil {
			return err
		}

		store, err := marketsqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open market sqlite store: %w", err)
		}
		defer store.Close()

		result, err := seed.Apply(ctx, store, catalog)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "seeded catalog: %d created, %d skipped\n", result.Created, result.Skipped)
		return nil
	})
}
