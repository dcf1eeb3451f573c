package writer

import (
	"time"

	"github.com/google/uuid"
)

// WriterConfig contains configuration for the catalog writer.
type WriterConfig struct {
	// BatchSize is the number of market rows sent per round trip.
	BatchSize int
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize: 500,
	}
}

// Slot names the featured position a market filled in a run.
type Slot string

const (
	SlotHero   Slot = "hero"
	SlotMover  Slot = "mover"
	SlotTicker Slot = "ticker"
	SlotNone   Slot = ""
)

// runRow represents a row for the catalog_runs table.
type runRow struct {
	RunID           uuid.UUID
	UpdatedAt       time.Time
	HeroSlug        *string
	HeroTopic       *string
	Markets         int
	DegradedSources []string
}

// marketRow represents a row for the catalog_markets table.
type marketRow struct {
	RunID         uuid.UUID
	Rank          int // 1-based position by cat_rank
	Slot          *string
	Source        string
	MarketID      string
	Slug          string
	Question      string
	Topic         string
	Category      string
	Prob          int  // Thousandths of a point (0-100,000)
	Change        *int // Thousandths of a point, nil = unknown
	Volume        int64
	Volume24h     int64
	EndDate       *time.Time
	TradingSignal string
	CatRank       float64
	RangeBucket   bool
}

// WriterMetrics holds metrics for a writer.
type WriterMetrics struct {
	Runs      int64
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64
}
