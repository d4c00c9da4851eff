// Package config loads bot configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the bot configuration.
// Environment variables are parsed from the DEBITBOT_ prefix, e.g.
// DEBITBOT_CHANNEL_NAME, DEBITBOT_STORE_DRIVER.
type Config struct {
	// ChannelName is the community channel the bot watches; everything
	// else is ignored.
	ChannelName string `envconfig:"CHANNEL_NAME" default:"đại-gia-bđs"`

	// ThreadName is the notification thread created lazily inside the
	// community channel.
	ThreadName string `envconfig:"THREAD_NAME" default:"Debit"`

	// StoreDriver selects the ledger backend: json or sqlite.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"json"`

	// DataPath is the ledger file location. Defaults to ./data/debts.json
	// for the json driver and ./data/debts.db for sqlite.
	DataPath string `envconfig:"DATA_PATH" default:""`

	// WebhookURL, when set, routes outbound notices to this webhook
	// instead of stdout.
	WebhookURL string `envconfig:"WEBHOOK_URL" default:""`

	// MetricsAddr is the listen address of the Prometheus endpoint.
	// Empty disables it.
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9091"`
}

// New creates a Config from environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("DEBITBOT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.resolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolveDefaults() error {
	switch c.StoreDriver {
	case "json":
		if c.DataPath == "" {
			c.DataPath = "./data/debts.json"
		}
	case "sqlite":
		if c.DataPath == "" {
			c.DataPath = "./data/debts.db"
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}
	return nil
}
