package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalConfig = `
environment: test
clickhouse:
  host: localhost
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("logging defaults = %q/%q", cfg.Logging.Level, cfg.Logging.Format)
	}
	if cfg.Pipeline.TrainFraction != 0.8 {
		t.Errorf("train fraction = %v, want 0.8", cfg.Pipeline.TrainFraction)
	}
	if cfg.Pipeline.MinSamples != 30 {
		t.Errorf("min samples = %d, want 30", cfg.Pipeline.MinSamples)
	}
	if cfg.Pipeline.MinHorizonDays != 7 || cfg.Pipeline.MaxHorizonDays != 30 {
		t.Errorf("horizon bounds = [%d, %d]", cfg.Pipeline.MinHorizonDays, cfg.Pipeline.MaxHorizonDays)
	}
	if cfg.Pipeline.DefaultSymbol != "BNP" {
		t.Errorf("default symbol = %q", cfg.Pipeline.DefaultSymbol)
	}
	if cfg.ClickHouse.Port != 9000 || cfg.ClickHouse.Database != "stockcast" {
		t.Errorf("clickhouse defaults = %d/%q", cfg.ClickHouse.Port, cfg.ClickHouse.Database)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("cache ttl = %v", cfg.Cache.TTL)
	}
	if cfg.Queue.Workers != 2 {
		t.Errorf("queue workers = %d", cfg.Queue.Workers)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	body := `
environment: production
server:
  port: 9090
  read_timeout: 15s
pipeline:
  train_fraction: 0.75
  min_samples: 50
  max_horizon_days: 60
clickhouse:
  host: ch.internal
  port: 9440
  database: forecasts
cache:
  redis:
    enabled: true
    addr: redis.internal:6379
queue:
  enabled: true
  workers: 4
`
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("server = %d/%v", cfg.Server.Port, cfg.Server.ReadTimeout)
	}
	if cfg.Pipeline.TrainFraction != 0.75 || cfg.Pipeline.MinSamples != 50 {
		t.Errorf("pipeline = %v/%d", cfg.Pipeline.TrainFraction, cfg.Pipeline.MinSamples)
	}
	if cfg.Pipeline.MaxHorizonDays != 60 {
		t.Errorf("max horizon = %d", cfg.Pipeline.MaxHorizonDays)
	}
	if cfg.ClickHouse.Port != 9440 || cfg.ClickHouse.Database != "forecasts" {
		t.Errorf("clickhouse = %d/%q", cfg.ClickHouse.Port, cfg.ClickHouse.Database)
	}
	if !cfg.Queue.Enabled || cfg.Queue.Workers != 4 {
		t.Errorf("queue = %v/%d", cfg.Queue.Enabled, cfg.Queue.Workers)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "environment: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing environment",
			body: "clickhouse:\n  host: localhost\n",
			want: "environment",
		},
		{
			name: "missing clickhouse host",
			body: "environment: test\n",
			want: "clickhouse.host",
		},
		{
			name: "train fraction out of range",
			body: minimalConfig + "pipeline:\n  train_fraction: 1.5\n",
			want: "train_fraction",
		},
		{
			name: "horizon bounds inverted",
			body: minimalConfig + "pipeline:\n  min_horizon_days: 30\n  max_horizon_days: 7\n",
			want: "horizon",
		},
		{
			name: "events without brokers",
			body: minimalConfig + "events:\n  enabled: true\n",
			want: "brokers",
		},
		{
			name: "queue without redis",
			body: minimalConfig + "queue:\n  enabled: true\n",
			want: "redis",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("CLICKHOUSE_HOST", "ch.override")
	t.Setenv("REDIS_ADDR", "redis.override:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("KAFKA_TOPIC", "predictions")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if cfg.ClickHouse.Host != "ch.override" {
		t.Errorf("clickhouse host = %q", cfg.ClickHouse.Host)
	}
	if !cfg.Cache.Redis.Enabled || cfg.Cache.Redis.Addr != "redis.override:6379" {
		t.Errorf("redis = %v/%q", cfg.Cache.Redis.Enabled, cfg.Cache.Redis.Addr)
	}
	if !cfg.Events.Enabled || len(cfg.Events.Brokers) != 2 {
		t.Errorf("events = %v/%v", cfg.Events.Enabled, cfg.Events.Brokers)
	}
	if cfg.Events.Topic != "predictions" {
		t.Errorf("topic = %q", cfg.Events.Topic)
	}
}
