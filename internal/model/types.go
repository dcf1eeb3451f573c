package model

import (
	"math"
	"time"
)

// -----------------------------------------------------------------------------
// Enumerations
// -----------------------------------------------------------------------------

// Source identifies the exchange a market was fetched from.
type Source string

const (
	// SourcePolymarket is the primary source (Gamma API, 0-1 price scale).
	SourcePolymarket Source = "Polymarket"
	// SourceKalshi is the secondary source (trade API v2, cent price scale).
	SourceKalshi Source = "Kalshi"
)

// Direction is the display direction derived from a price change.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// DirectionDeadZone is the absolute change (points) below which a move is shown as flat.
const DirectionDeadZone = 0.5

// Signal is the discrete trading-signal label assigned by the classifier.
type Signal string

const (
	SignalKnifeEdge   Signal = "knife_edge"
	SignalMomentum    Signal = "momentum"
	SignalVolumeSpike Signal = "volume_spike"
	SignalStale       Signal = "stale"
	SignalActive      Signal = "active"
)

// Category is the display category of a market.
type Category string

const (
	CategoryPolitics   Category = "Politics"
	CategoryFinance    Category = "Finance"
	CategoryTechnology Category = "Technology"
	CategoryCrypto     Category = "Crypto"
	CategorySports     Category = "Sports"
	CategoryCulture    Category = "Culture"
	CategoryWorld      Category = "World"

	// CategoryFallback is assigned when no category can be derived.
	CategoryFallback = CategoryWorld
)

// Categories lists every display category in presentation order.
var Categories = []Category{
	CategoryPolitics,
	CategoryFinance,
	CategoryTechnology,
	CategoryCrypto,
	CategorySports,
	CategoryCulture,
	CategoryWorld,
}

// -----------------------------------------------------------------------------
// Market Record
// -----------------------------------------------------------------------------

// MarketRecord is the homogeneous post-normalization shape of a market.
type MarketRecord struct {
	Source     Source    `json:"source"`
	ID         string    `json:"id"`   // Source-specific identifier (Kalshi ticker, Polymarket market id)
	Slug       string    `json:"slug"` // Unique within a run after consolidation
	Question   string    `json:"question"`
	URL        string    `json:"url"`
	Prob       float64   `json:"prob"`       // 0-100
	ChangePts  *float64  `json:"change_pts"` // nil = unknown
	Direction  Direction `json:"direction"`
	Volume     float64   `json:"volume"`
	Volume24h  float64   `json:"volume_24h"`
	VolumeFmt  string    `json:"volume_fmt"`
	Liquidity  float64   `json:"liquidity"`
	EndDate    time.Time `json:"end_date,omitzero"`
	EndDateFmt string    `json:"end_date_fmt,omitempty"`
	Category   Category  `json:"category"`

	// Populated by the consolidator.
	Topic       string `json:"topic"`
	RangeBucket bool   `json:"range_bucket,omitempty"`

	// Populated by the signal classifier.
	TradingSignal Signal  `json:"trading_signal"`
	CatRank       float64 `json:"cat_rank"`
}

// Change returns the price change in points, treating unknown as zero.
func (m *MarketRecord) Change() float64 {
	if m.ChangePts == nil {
		return 0
	}
	return *m.ChangePts
}

// AbsChange returns the absolute price change in points, treating unknown as zero.
func (m *MarketRecord) AbsChange() float64 {
	return math.Abs(m.Change())
}

// SetChange stores a change rounded to one decimal and refreshes Direction.
// A nil change clears the value and marks the market flat.
func (m *MarketRecord) SetChange(change *float64) {
	if change == nil {
		m.ChangePts = nil
		m.Direction = DirectionFlat
		return
	}
	v := Round1(*change)
	m.ChangePts = &v
	m.Direction = DirectionFor(v)
}

// DirectionFor maps a change in points to a display direction.
func DirectionFor(change float64) Direction {
	switch {
	case change > DirectionDeadZone:
		return DirectionUp
	case change < -DirectionDeadZone:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
