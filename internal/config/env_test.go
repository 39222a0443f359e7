package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port     int           `env:"RARITY_TEST_PORT" envDefault:"123"`
	Interval time.Duration `env:"RARITY_TEST_INTERVAL" envDefault:"5s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 || cfg.Interval != 5*time.Second {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("RARITY_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
