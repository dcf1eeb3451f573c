// Package config loads the YAML configuration for the catalog builder.
package config

import "time"

// Config is the root configuration for a catalog run.
type Config struct {
	Polymarket PolymarketConfig `yaml:"polymarket"`
	Kalshi     KalshiConfig     `yaml:"kalshi"`
	Commentary CommentaryConfig `yaml:"commentary"`
	Selection  SelectionConfig  `yaml:"selection"`
	Store      StoreConfig      `yaml:"store"`
	Database   DatabaseConfig   `yaml:"database"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// PolymarketConfig holds Gamma API settings.
type PolymarketConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Orders     []string      `yaml:"orders"`    // sort orders fetched and merged
	PageSize   int           `yaml:"page_size"` // markets per request
	MaxPages   int           `yaml:"max_pages"` // pages per sort order
	MinVolume  float64       `yaml:"min_volume"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RateLimit  float64       `yaml:"rate_limit"` // requests per second, 0 = unpaced
}

// KalshiConfig holds Kalshi API settings.
type KalshiConfig struct {
	Enabled        *bool         `yaml:"enabled"`
	RestURL        string        `yaml:"rest_url"`
	APIKey         string        `yaml:"api_key"`          // API key ID (for KALSHI-ACCESS-KEY header)
	PrivateKey     string        `yaml:"private_key"`      // Inline PEM, usually ${KALSHI_PRIVATE_KEY}
	PrivateKeyPath string        `yaml:"private_key_path"` // Path to RSA private key PEM file
	Categories     []string      `yaml:"categories"`       // Kalshi event categories kept; empty keeps all
	PageSize       int           `yaml:"page_size"`
	MaxPages       int           `yaml:"max_pages"`
	MinVolume      float64       `yaml:"min_volume"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	RateLimit      float64       `yaml:"rate_limit"`
}

// IsEnabled reports whether Kalshi is fetched. Defaults to true.
func (k KalshiConfig) IsEnabled() bool {
	return k.Enabled == nil || *k.Enabled
}

// HasCredentials reports whether request signing is configured.
func (k KalshiConfig) HasCredentials() bool {
	return k.APIKey != "" && (k.PrivateKey != "" || k.PrivateKeyPath != "")
}

// CommentaryConfig holds the text-generation settings.
type CommentaryConfig struct {
	Enabled   bool          `yaml:"enabled"`
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// SelectionConfig tunes hero, movers and ticker selection.
type SelectionConfig struct {
	HistoryWindow int `yaml:"history_window"` // hero topics remembered
	MoversCount   int `yaml:"movers_count"`
	TickerCount   int `yaml:"ticker_count"`
}

// StoreConfig locates the JSON state files.
type StoreConfig struct {
	DataDir      string `yaml:"data_dir"`
	CatalogFile  string `yaml:"catalog_file"`
	SnapshotFile string `yaml:"snapshot_file"`
}

// DatabaseConfig holds the optional Postgres archive.
type DatabaseConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ScheduleConfig holds the cron expression for scheduled mode. An empty
// spec means the binary runs once and exits.
type ScheduleConfig struct {
	Cron    string        `yaml:"cron"`
	Timeout time.Duration `yaml:"timeout"` // per-run deadline
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}
