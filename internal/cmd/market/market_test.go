package market

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("market", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Port != 8093 {
		t.Errorf("Port = %d, want 8093", cfg.Port)
	}
	if cfg.DBPath != "data/market.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "data/market.db")
	}
	if cfg.TieringInterval != time.Hour {
		t.Errorf("TieringInterval = %v, want %v", cfg.TieringInterval, time.Hour)
	}
	if cfg.StartingCards != 5 {
		t.Errorf("StartingCards = %d, want 5", cfg.StartingCards)
	}
}

func TestParseConfigEnvOverride(t *testing.T) {
	t.Setenv("CARDMARKET_PORT", "9000")
	t.Setenv("CARDMARKET_TIERING_INTERVAL", "15m")

	fs := flag.NewFlagSet("market", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.TieringInterval != 15*time.Minute {
		t.Errorf("TieringInterval = %v, want %v", cfg.TieringInterval, 15*time.Minute)
	}
}

func TestParseConfigFlagsWinOverEnv(t *testing.T) {
	t.Setenv("CARDMARKET_PORT", "9000")

	fs := flag.NewFlagSet("market", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9100", "-db-path", "/tmp/other.db"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Port != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Port)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/tmp/other.db")
	}
}
