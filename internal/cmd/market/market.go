// Package market parses market command flags and launches the market runtime.
package market

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/dvtrade/cardmarket/internal/platform/cmd"
	marketserver "github.com/dvtrade/cardmarket/internal/services/market/app"
)

// Config holds market command configuration.
type Config struct {
	Port            int           `env:"CARDMARKET_PORT" envDefault:"8093"`
	DBPath          string        `env:"CARDMARKET_DB_PATH" envDefault:"data/market.db"`
	TieringInterval time.Duration `env:"CARDMARKET_TIERING_INTERVAL" envDefault:"1h"`
	StartingCards   int           `env:"CARDMARKET_STARTING_CARDS" envDefault:"5"`
	StartingBalance int64         `env:"CARDMARKET_STARTING_BALANCE" envDefault:"0"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The market health gRPC server port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The market SQLite database path")
	fs.DurationVar(&cfg.TieringInterval, "tiering-interval", cfg.TieringInterval, "Interval between catalog repricing runs")
	fs.IntVar(&cfg.StartingCards, "starting-cards", cfg.StartingCards, "Random cards granted to a new account")
	fs.Int64Var(&cfg.StartingBalance, "starting-balance", cfg.StartingBalance, "Balance a new account opens with")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the market runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMarket, func(context.Context) error {
		return marketserver.Run(ctx, marketserver.RuntimeConfig{
			Port:            cfg.Port,
			DBPath:          cfg.DBPath,
			TieringInterval: cfg.TieringInterval,
			StartingCards:   cfg.StartingCards,
			StartingBalance: cfg.StartingBalance,
		})
	})
}
