package api

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DollarsToCents converts a dollar price string to cents.
// "0.52" -> 52, "0.5250" -> 52.5. Returns ok=false for empty or invalid input.
func DollarsToCents(dollars string) (float64, bool) {
	dollars = strings.TrimSpace(dollars)
	if dollars == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(dollars)
	if err != nil {
		return 0, false
	}

	return d.Shift(2).InexactFloat64(), true
}

// ParseTimestamp parses an ISO 8601 timestamp. Returns the zero time for
// empty or invalid input.
func ParseTimestamp(iso string) time.Time {
	if iso == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Try without timezone
		t, err = time.Parse("2006-01-02T15:04:05", iso)
		if err != nil {
			return time.Time{}
		}
	}

	return t.UTC()
}

// Quote returns the yes bid, yes ask and last trade price in cents,
// preferring the sub-penny dollar fields when present.
func (m *APIMarket) Quote() (bid, ask, last float64) {
	bid, ask, last = float64(m.YesBid), float64(m.YesAsk), float64(m.LastPrice)
	if v, ok := DollarsToCents(m.YesBidDollars); ok {
		bid = v
	}
	if v, ok := DollarsToCents(m.YesAskDollars); ok {
		ask = v
	}
	if v, ok := DollarsToCents(m.LastPriceDollars); ok {
		last = v
	}
	return bid, ask, last
}

// Question returns the display question for a market within ev. Markets of
// mutually exclusive multi-market events are titled
// "<event title> :: <bucket label>". Markets of other multi-market events
// keep their own title when they have one, since each is a separate question.
func (ev *APIEvent) Question(m *APIMarket) string {
	if len(ev.Markets) <= 1 {
		if m.Title != "" {
			return m.Title
		}
		return ev.Title
	}
	if !ev.MutuallyExclusive && m.Title != "" && m.Title != ev.Title {
		return m.Title
	}

	label := m.YesSubTitle
	if label == "" {
		label = m.Subtitle
	}
	if label == "" {
		label = m.Ticker
	}
	title := ev.Title
	if title == "" {
		title = m.Title
	}
	return title + " :: " + label
}
