package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, "log:\n  level: debug\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("server addr: got %s, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.MetricsAddr != ":9090" {
		t.Errorf("metrics addr: got %s", cfg.Server.MetricsAddr)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level: got %s, want debug", cfg.Log.Level)
	}
	if cfg.Pricing.RoundingIncrement != 5 {
		t.Errorf("rounding increment: got %v, want 5", cfg.Pricing.RoundingIncrement)
	}
	if cfg.Pricing.DefaultDeposit != 20 {
		t.Errorf("default deposit: got %v, want 20", cfg.Pricing.DefaultDeposit)
	}
	if cfg.Kafka.Enabled {
		t.Error("kafka should be disabled by default")
	}
}

func TestLoad_OverridesAndHelpers(t *testing.T) {
	path := writeConfigFile(t, `
server:
  addr: ":9999"
database:
  host: db.internal
  port: 5433
  user: pricing
  password: secret
  dbname: pricing
redis:
  host: cache.internal
  port: 6380
kafka:
  brokers: "k1:9092,k2:9092"
  enabled: true
pricing:
  rounding_increment: 1
  default_deposit: 35
  forecast_slots:
    - "6:00 PM"
    - "8:00 PM"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9999" {
		t.Errorf("server addr: got %s", cfg.Server.Addr)
	}
	wantDSN := "host=db.internal port=5433 user=pricing password=secret dbname=pricing sslmode=disable"
	if got := cfg.Database.GetDSN(); got != wantDSN {
		t.Errorf("dsn:\n got %s\nwant %s", got, wantDSN)
	}
	if got := cfg.Redis.GetRedisAddr(); got != "cache.internal:6380" {
		t.Errorf("redis addr: got %s", got)
	}
	brokers := cfg.Kafka.GetBrokerList()
	if len(brokers) != 2 || brokers[0] != "k1:9092" || brokers[1] != "k2:9092" {
		t.Errorf("brokers: got %v", brokers)
	}
	if cfg.Pricing.RoundingIncrement != 1 || cfg.Pricing.DefaultDeposit != 35 {
		t.Errorf("pricing overrides: %+v", cfg.Pricing)
	}
	if len(cfg.Pricing.ForecastSlots) != 2 {
		t.Errorf("forecast slots: got %v", cfg.Pricing.ForecastSlots)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
