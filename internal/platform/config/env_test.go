package config

import "testing"

type envFixture struct {
	Addr  string `env:"CONFIG_TEST_ADDR" envDefault:"127.0.0.1:9000"`
	Limit int    `env:"CONFIG_TEST_LIMIT" envDefault:"8"`
}

func TestParseEnvAppliesDefaults(t *testing.T) {
	var cfg envFixture
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Fatalf("addr = %q, want %q", cfg.Addr, "127.0.0.1:9000")
	}
	if cfg.Limit != 8 {
		t.Fatalf("limit = %d, want 8", cfg.Limit)
	}
}

func TestParseEnvReadsEnvironment(t *testing.T) {
	t.Setenv("CONFIG_TEST_ADDR", "market:7070")
	t.Setenv("CONFIG_TEST_LIMIT", "3")

	var cfg envFixture
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "market:7070" {
		t.Fatalf("addr = %q, want %q", cfg.Addr, "market:7070")
	}
	if cfg.Limit != 3 {
		t.Fatalf("limit = %d, want 3", cfg.Limit)
	}
}
