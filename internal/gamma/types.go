// Package gamma provides a client for the Polymarket Gamma API.
package gamma

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a currency amount the Gamma API encodes as either a JSON string
// or a JSON number.
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// UnmarshalJSON accepts "123.45", 123.45, "" and null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*a = Amount{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", s, err)
	}
	*a = Amount{Value: d, Valid: true}
	return nil
}

// MarshalJSON encodes the amount as a JSON string, or null when unset.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value.String())
}

// Float64 returns the amount as a float, 0 when unset.
func (a Amount) Float64() float64 {
	if !a.Valid {
		return 0
	}
	f, _ := a.Value.Float64()
	return f
}

// NewAmount returns a valid Amount for v.
func NewAmount(v float64) Amount {
	return Amount{Value: decimal.NewFromFloat(v), Valid: true}
}

// Tag represents a tag on an event or market.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// Event is the parent event embedded in a market payload.
type Event struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Tags  []Tag  `json:"tags,omitempty"`
}

// Market represents a prediction market.
type Market struct {
	ID          string `json:"id"`
	Question    string `json:"question"`
	ConditionID string `json:"conditionId"`
	Slug        string `json:"slug"`
	Category    string `json:"category"`
	Active      bool   `json:"active"`
	Closed      bool   `json:"closed"`

	Volume       Amount `json:"volume"`
	VolumeNum    Amount `json:"volumeNum"`
	Volume24hr   Amount `json:"volume24hr"`
	Liquidity    Amount `json:"liquidity"`
	LiquidityNum Amount `json:"liquidityNum"`

	// Price change over the last day on the 0-1 scale.
	OneDayPriceChange Amount `json:"oneDayPriceChange"`

	// ISO 8601; either may be empty.
	EndDate    string `json:"endDate"`
	EndDateISO string `json:"endDateIso"`

	// These fields are JSON strings that need secondary parsing
	OutcomePrices string `json:"outcomePrices"` // JSON array as string
	Outcomes      string `json:"outcomes"`      // JSON array as string

	Events []Event `json:"events,omitempty"`
	Tags   []Tag   `json:"tags,omitempty"`
}

// ParseOutcomes parses the Outcomes JSON string into a slice of outcome names.
func (m *Market) ParseOutcomes() ([]string, error) {
	if m.Outcomes == "" {
		return nil, nil
	}
	var outcomes []string
	if err := json.Unmarshal([]byte(m.Outcomes), &outcomes); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// ParseOutcomePrices parses the OutcomePrices JSON string into a slice of prices.
func (m *Market) ParseOutcomePrices() ([]string, error) {
	if m.OutcomePrices == "" {
		return nil, nil
	}
	var prices []string
	if err := json.Unmarshal([]byte(m.OutcomePrices), &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

// TotalVolume prefers the numeric volume field and falls back to the string one.
func (m *Market) TotalVolume() float64 {
	if m.VolumeNum.Valid {
		return m.VolumeNum.Float64()
	}
	return m.Volume.Float64()
}

// TotalLiquidity prefers the numeric liquidity field and falls back to the string one.
func (m *Market) TotalLiquidity() float64 {
	if m.LiquidityNum.Valid {
		return m.LiquidityNum.Float64()
	}
	return m.Liquidity.Float64()
}

// Order is a Gamma sort key.
type Order string

const (
	OrderVolume24hr Order = "volume24hr"
	OrderVolume     Order = "volume"
	OrderLiquidity  Order = "liquidity"
)

// Filter contains query parameters for market listings.
type Filter struct {
	Active    *bool
	Closed    *bool
	TagSlug   string
	Order     Order
	Ascending bool
	Limit     int
	Offset    int
}
