package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Pipeline struct {
		TrainFraction  float64       `yaml:"train_fraction"`
		MinSamples     int           `yaml:"min_samples"`
		MinHorizonDays int           `yaml:"min_horizon_days"`
		MaxHorizonDays int           `yaml:"max_horizon_days"`
		IntervalWidth  float64       `yaml:"interval_width"`
		FitTimeout     time.Duration `yaml:"fit_timeout"`
		DefaultSymbol  string        `yaml:"default_symbol"`
	} `yaml:"pipeline"`
	ClickHouse struct {
		Host        string        `yaml:"host"`
		Port        int           `yaml:"port"`
		Database    string        `yaml:"database"`
		User        string        `yaml:"user"`
		Password    string        `yaml:"password"`
		DialTimeout time.Duration `yaml:"dial_timeout"`
		ReadTimeout time.Duration `yaml:"read_timeout"`
	} `yaml:"clickhouse"`
	Cache struct {
		TTL   time.Duration `yaml:"ttl"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Queue struct {
		Enabled    bool          `yaml:"enabled"`
		Workers    int           `yaml:"workers"`
		RetryLimit int           `yaml:"retry_limit"`
		RetryDelay time.Duration `yaml:"retry_delay"`
		JobTTL     time.Duration `yaml:"job_ttl"`
	} `yaml:"queue"`
	Events struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
	} `yaml:"events"`
	UploadLimit struct {
		Capacity  float64 `yaml:"capacity"`
		PerSecond float64 `yaml:"per_second"`
	} `yaml:"upload_limit"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Brokers = strings.Split(v, ",")
		c.Events.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Events.Topic = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Pipeline.TrainFraction == 0 {
		c.Pipeline.TrainFraction = 0.8
	}
	if c.Pipeline.MinSamples == 0 {
		c.Pipeline.MinSamples = 30
	}
	if c.Pipeline.MinHorizonDays == 0 {
		c.Pipeline.MinHorizonDays = 7
	}
	if c.Pipeline.MaxHorizonDays == 0 {
		c.Pipeline.MaxHorizonDays = 30
	}
	if c.Pipeline.IntervalWidth == 0 {
		c.Pipeline.IntervalWidth = 1.96
	}
	if c.Pipeline.DefaultSymbol == "" {
		c.Pipeline.DefaultSymbol = "BNP"
	}
	if c.ClickHouse.Port == 0 {
		c.ClickHouse.Port = 9000
	}
	if c.ClickHouse.Database == "" {
		c.ClickHouse.Database = "stockcast"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Queue.Workers == 0 {
		c.Queue.Workers = 2
	}
	if c.Queue.RetryDelay == 0 {
		c.Queue.RetryDelay = 10 * time.Second
	}
	if c.Queue.JobTTL == 0 {
		c.Queue.JobTTL = 24 * time.Hour
	}
	if c.UploadLimit.Capacity == 0 {
		c.UploadLimit.Capacity = 5
	}
	if c.UploadLimit.PerSecond == 0 {
		c.UploadLimit.PerSecond = 0.5
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	if c.Pipeline.TrainFraction <= 0 || c.Pipeline.TrainFraction >= 1 {
		return fmt.Errorf("pipeline.train_fraction must be in (0, 1), got %v", c.Pipeline.TrainFraction)
	}
	if c.Pipeline.MinSamples < 2 {
		return fmt.Errorf("pipeline.min_samples must be at least 2")
	}
	if c.Pipeline.MinHorizonDays < 1 || c.Pipeline.MaxHorizonDays < c.Pipeline.MinHorizonDays {
		return fmt.Errorf("pipeline horizon bounds invalid: [%d, %d]", c.Pipeline.MinHorizonDays, c.Pipeline.MaxHorizonDays)
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers cannot be empty when events are enabled")
	}
	if c.Queue.Enabled && !c.Cache.Redis.Enabled {
		return fmt.Errorf("queue requires cache.redis to be enabled")
	}
	return nil
}
