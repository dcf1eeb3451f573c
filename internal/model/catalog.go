package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultHistoryWindow is three run-days of four runs each.
const DefaultHistoryWindow = 12

// RunNamespace scopes run ids derived from run instants.
var RunNamespace = uuid.MustParse("6f1d2c4e-3b7a-5e19-9c80-2a4d6b8f0e13")

// RunIDFor returns the run id for a run at t. Runs in the same second share
// an id, so rebuilding from identical inputs yields an identical catalog.
func RunIDFor(t time.Time) uuid.UUID {
	return uuid.NewSHA1(RunNamespace, []byte(t.UTC().Truncate(time.Second).Format(time.RFC3339)))
}

// Hero is the featured market together with its generated commentary.
type Hero struct {
	MarketRecord
	ProbTake string `json:"prob_take"`
}

// SidebarItem is one secondary link in the daily editorial.
type SidebarItem struct {
	Label    string `json:"label"`
	Question string `json:"question"`
	URL      string `json:"url"`
}

// DailyTake is the generated daily editorial.
type DailyTake struct {
	Headline      string        `json:"headline"`
	Deck          string        `json:"deck"`
	CategoryLabel string        `json:"category_label"`
	HeroURL       string        `json:"hero_url"`
	Sidebar       []SidebarItem `json:"sidebar"`
}

// Catalog is the pipeline output for one run. It is derived fresh each run
// and never mutated incrementally.
type Catalog struct {
	RunID           uuid.UUID      `json:"run_id"`
	Updated         string         `json:"updated"`
	UpdatedISO      time.Time      `json:"updated_iso"`
	Hero            *Hero          `json:"hero"`
	Movers          []MarketRecord `json:"movers"`
	Ticker          []MarketRecord `json:"ticker"`
	DailyTake       *DailyTake     `json:"daily_take"`
	HeroHistory     HeroHistory    `json:"hero_history"`
	AllMarkets      []MarketRecord `json:"all_markets"`
	DegradedSources []Source       `json:"degraded_sources,omitempty"`
}

// HeroHistory is the rolling list of topic keys that won the hero slot,
// oldest first.
type HeroHistory []string

// Contains reports whether topic appears anywhere in the window.
func (h HeroHistory) Contains(topic string) bool {
	for _, t := range h {
		if t == topic {
			return true
		}
	}
	return false
}

// Append returns a new history with topic appended and trimmed to the last
// window entries. The receiver is not modified.
func (h HeroHistory) Append(topic string, window int) HeroHistory {
	out := make(HeroHistory, 0, len(h)+1)
	out = append(out, h...)
	out = append(out, topic)
	if window > 0 && len(out) > window {
		out = out[len(out)-window:]
	}
	return out
}

// PriceSnapshot maps a source-specific market identifier to its probability
// at the end of the previous run. It is one run deep.
type PriceSnapshot struct {
	UpdatedISO time.Time          `json:"updated_iso"`
	Prices     map[string]float64 `json:"prices"`
}

// NewPriceSnapshot returns an empty snapshot stamped with t.
func NewPriceSnapshot(t time.Time) *PriceSnapshot {
	return &PriceSnapshot{
		UpdatedISO: t.UTC(),
		Prices:     make(map[string]float64),
	}
}

// Lookup returns the prior probability for id.
func (s *PriceSnapshot) Lookup(id string) (float64, bool) {
	if s == nil || s.Prices == nil {
		return 0, false
	}
	p, ok := s.Prices[id]
	return p, ok
}

// State is the persisted input of a run: the previous run's prices and the
// hero history carried in the previous catalog.
type State struct {
	Snapshot *PriceSnapshot
	History  HeroHistory
}
