package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the daemon configuration, loaded from YAML.
type Config struct {
	// Addr is the JSON-RPC listen address.
	Addr string `yaml:"addr"`
	// HTTPAddr is the HTTP API listen address. Empty disables it.
	HTTPAddr string `yaml:"httpAddr"`
	LogLevel string `yaml:"logLevel"`
	Notify   Notify `yaml:"notify"`
}

type Notify struct {
	// Buffer is the per-subscriber message buffer size.
	Buffer int          `yaml:"buffer"`
	Kafka  *KafkaNotify `yaml:"kafka"`
}

type KafkaNotify struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:     "127.0.0.1:7464",
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name to a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("bad log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
