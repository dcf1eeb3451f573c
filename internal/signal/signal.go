// Package signal labels each market with a trading signal and computes the
// cat_rank used to order the full catalog.
package signal

import (
	"cmp"
	"math"
	"slices"

	"github.com/rickgao/prob-markets/internal/model"
)

// Thresholds used by the decision table.
const (
	KnifeEdgeLow       = 40.0
	KnifeEdgeHigh      = 60.0
	KnifeEdgeMinVolume = 50_000.0
	MomentumMinChange  = 5.0
	SpikeMinShare      = 0.20
	SpikeMinVolume24h  = 10_000.0
	StaleMaxVolume     = 25_000.0
	StaleMaxChange     = 2.0

	KnifeEdgeBonus = 8.0
	StalePenalty   = 20.0
)

// Rule is one row of the decision table.
type Rule struct {
	Signal model.Signal
	Match  func(m *model.MarketRecord) bool
}

// Rules is evaluated in order; the first match wins. A market matching no
// rule is model.SignalActive.
var Rules = []Rule{
	{model.SignalKnifeEdge, func(m *model.MarketRecord) bool {
		return m.Prob >= KnifeEdgeLow && m.Prob <= KnifeEdgeHigh && m.Volume >= KnifeEdgeMinVolume
	}},
	{model.SignalMomentum, func(m *model.MarketRecord) bool {
		return m.AbsChange() >= MomentumMinChange
	}},
	{model.SignalVolumeSpike, func(m *model.MarketRecord) bool {
		return m.Volume24h >= SpikeMinShare*m.Volume && m.Volume24h >= SpikeMinVolume24h
	}},
	{model.SignalStale, func(m *model.MarketRecord) bool {
		return m.Volume < StaleMaxVolume && m.AbsChange() < StaleMaxChange
	}},
}

// Classify returns the signal for m.
func Classify(m *model.MarketRecord) model.Signal {
	for _, r := range Rules {
		if r.Match(m) {
			return r.Signal
		}
	}
	return model.SignalActive
}

// CatRank scores a market from its change, 24h volume and signal. Unknown
// change counts as zero.
func CatRank(change *float64, volume24h float64, sig model.Signal) float64 {
	var abs float64
	if change != nil {
		abs = math.Abs(*change)
	}
	rank := abs*3 + math.Log10(math.Max(volume24h, 0)+1)*2
	switch sig {
	case model.SignalKnifeEdge:
		rank += KnifeEdgeBonus
	case model.SignalStale:
		rank -= StalePenalty
	}
	return rank
}

// Apply sets TradingSignal and CatRank on every record in place.
func Apply(records []model.MarketRecord) {
	for i := range records {
		m := &records[i]
		m.TradingSignal = Classify(m)
		m.CatRank = CatRank(m.ChangePts, m.Volume24h, m.TradingSignal)
	}
}

// Rank sorts records by cat_rank descending. Ties go to the larger total
// volume, then the smaller slug, so the order is deterministic.
func Rank(records []model.MarketRecord) {
	slices.SortStableFunc(records, func(a, b model.MarketRecord) int {
		if c := cmp.Compare(b.CatRank, a.CatRank); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Volume, a.Volume); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
}
