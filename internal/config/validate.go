package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/robfig/cron/v3"
)

var (
	validOrders     = []string{"volume24hr", "volume", "liquidity"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	for _, o := range c.Polymarket.Orders {
		if !slices.Contains(validOrders, o) {
			return fmt.Errorf("polymarket.orders: unknown order %q", o)
		}
	}
	if c.Polymarket.PageSize < 1 || c.Polymarket.PageSize > 500 {
		return fmt.Errorf("polymarket.page_size must be between 1 and 500, got %d", c.Polymarket.PageSize)
	}
	if c.Polymarket.MaxPages < 1 {
		return errors.New("polymarket.max_pages must be >= 1")
	}
	if c.Polymarket.MaxRetries < 0 || c.Kalshi.MaxRetries < 0 {
		return errors.New("max_retries must be >= 0")
	}

	if c.Kalshi.IsEnabled() {
		if c.Kalshi.PageSize < 1 || c.Kalshi.PageSize > 200 {
			return fmt.Errorf("kalshi.page_size must be between 1 and 200, got %d", c.Kalshi.PageSize)
		}
		if c.Kalshi.MaxPages < 1 {
			return errors.New("kalshi.max_pages must be >= 1")
		}
		if c.Kalshi.PrivateKey != "" && c.Kalshi.PrivateKeyPath != "" {
			return errors.New("kalshi.private_key and kalshi.private_key_path are mutually exclusive")
		}
	}

	if c.Commentary.Enabled {
		if c.Commentary.APIKey == "" {
			return errors.New("commentary.api_key is required when commentary is enabled")
		}
		if c.Commentary.MaxTokens < 1 {
			return errors.New("commentary.max_tokens must be >= 1")
		}
	}

	if c.Selection.HistoryWindow < 1 {
		return errors.New("selection.history_window must be >= 1")
	}
	if c.Selection.MoversCount < 1 || c.Selection.TickerCount < 1 {
		return errors.New("selection.movers_count and selection.ticker_count must be >= 1")
	}

	if c.Database.Enabled {
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
	}

	if c.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
			return fmt.Errorf("schedule.cron: %w", err)
		}
	}

	if !slices.Contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	if !slices.Contains(validLogFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
