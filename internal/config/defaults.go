package config

import (
	"os"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultGammaURL            = "https://gamma-api.polymarket.com"
	DefaultKalshiURL           = "https://api.elections.kalshi.com/trade-api/v2"
	DefaultPolymarketPageSize  = 100
	DefaultPolymarketMaxPages  = 3
	DefaultKalshiPageSize      = 200
	DefaultKalshiMaxPages      = 5
	DefaultMinVolume           = 10_000
	DefaultAPITimeout          = 15 * time.Second
	DefaultMaxRetries          = 2
	DefaultRateLimit           = 5
	DefaultCommentaryModel     = "claude-sonnet-4-5"
	DefaultCommentaryMaxTokens = 600
	DefaultCommentaryTimeout   = 45 * time.Second
	DefaultHistoryWindow       = 12
	DefaultMoversCount         = 6
	DefaultTickerCount         = 10
	DefaultDataDir             = "data"
	DefaultCatalogFile         = "markets.json"
	DefaultSnapshotFile        = "price_snapshot.json"
	DefaultDBPort              = 5432
	DefaultDBSSLMode           = "prefer"
	DefaultMaxConns            = 4
	DefaultMinConns            = 1
	DefaultRunTimeout          = 5 * time.Minute
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"
)

// DefaultPolymarketOrders are merged so that both the busiest markets today
// and the largest markets overall are candidates.
var DefaultPolymarketOrders = []string{"volume24hr", "volume"}

func (c *Config) applyDefaults() {
	// Polymarket defaults
	if c.Polymarket.BaseURL == "" {
		c.Polymarket.BaseURL = DefaultGammaURL
	}
	if len(c.Polymarket.Orders) == 0 {
		c.Polymarket.Orders = append([]string(nil), DefaultPolymarketOrders...)
	}
	if c.Polymarket.PageSize == 0 {
		c.Polymarket.PageSize = DefaultPolymarketPageSize
	}
	if c.Polymarket.MaxPages == 0 {
		c.Polymarket.MaxPages = DefaultPolymarketMaxPages
	}
	if c.Polymarket.MinVolume == 0 {
		c.Polymarket.MinVolume = DefaultMinVolume
	}
	if c.Polymarket.Timeout == 0 {
		c.Polymarket.Timeout = DefaultAPITimeout
	}
	if c.Polymarket.MaxRetries == 0 {
		c.Polymarket.MaxRetries = DefaultMaxRetries
	}
	if c.Polymarket.RateLimit == 0 {
		c.Polymarket.RateLimit = DefaultRateLimit
	}

	// Kalshi defaults
	if c.Kalshi.RestURL == "" {
		c.Kalshi.RestURL = DefaultKalshiURL
	}
	if c.Kalshi.PageSize == 0 {
		c.Kalshi.PageSize = DefaultKalshiPageSize
	}
	if c.Kalshi.MaxPages == 0 {
		c.Kalshi.MaxPages = DefaultKalshiMaxPages
	}
	if c.Kalshi.MinVolume == 0 {
		c.Kalshi.MinVolume = DefaultMinVolume
	}
	if c.Kalshi.Timeout == 0 {
		c.Kalshi.Timeout = DefaultAPITimeout
	}
	if c.Kalshi.MaxRetries == 0 {
		c.Kalshi.MaxRetries = DefaultMaxRetries
	}
	if c.Kalshi.RateLimit == 0 {
		c.Kalshi.RateLimit = DefaultRateLimit
	}

	// Commentary defaults
	if c.Commentary.APIKey == "" {
		c.Commentary.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if c.Commentary.Model == "" {
		c.Commentary.Model = DefaultCommentaryModel
	}
	if c.Commentary.MaxTokens == 0 {
		c.Commentary.MaxTokens = DefaultCommentaryMaxTokens
	}
	if c.Commentary.Timeout == 0 {
		c.Commentary.Timeout = DefaultCommentaryTimeout
	}

	// Selection defaults
	if c.Selection.HistoryWindow == 0 {
		c.Selection.HistoryWindow = DefaultHistoryWindow
	}
	if c.Selection.MoversCount == 0 {
		c.Selection.MoversCount = DefaultMoversCount
	}
	if c.Selection.TickerCount == 0 {
		c.Selection.TickerCount = DefaultTickerCount
	}

	// Store defaults
	if c.Store.DataDir == "" {
		c.Store.DataDir = DefaultDataDir
	}
	if c.Store.CatalogFile == "" {
		c.Store.CatalogFile = DefaultCatalogFile
	}
	if c.Store.SnapshotFile == "" {
		c.Store.SnapshotFile = DefaultSnapshotFile
	}

	applyDBDefaults(&c.Database.Postgres)

	if c.Schedule.Timeout == 0 {
		c.Schedule.Timeout = DefaultRunTimeout
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
