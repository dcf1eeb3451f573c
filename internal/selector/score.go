package selector

import (
	"math"
	"time"

	"github.com/rickgao/prob-markets/internal/model"
)

// Buzz scoring weights.
const (
	ChangeWeight    = 2.5
	UrgencyMax      = 1.5
	UrgencyHorizon  = 7 * 24 * time.Hour
	RecencyMax      = 3.0
	RecencyFullRate = 0.15 // 24h share of total volume that earns the full bonus
)

// Buzz scores how newsworthy a market is at now.
func Buzz(m *model.MarketRecord, now time.Time) float64 {
	return m.AbsChange()*ChangeWeight +
		math.Log10(math.Max(m.Volume24h, 1))/10*3 +
		math.Log10(math.Max(m.Volume, 1))/10 +
		(1 - math.Abs(m.Prob-50)/50) +
		Urgency(m.EndDate, now) +
		Recency(m.Volume24h, m.Volume)
}

// Urgency grows linearly from 0 to UrgencyMax as the close date approaches
// within UrgencyHorizon. Unknown or past close dates earn nothing.
func Urgency(end, now time.Time) float64 {
	if end.IsZero() {
		return 0
	}
	left := end.Sub(now)
	if left < 0 || left > UrgencyHorizon {
		return 0
	}
	return UrgencyMax * (1 - float64(left)/float64(UrgencyHorizon))
}

// Recency grows linearly with the 24h share of total volume and caps at
// RecencyMax once the share reaches RecencyFullRate.
func Recency(volume24h, volume float64) float64 {
	if volume <= 0 || volume24h <= 0 {
		return 0
	}
	return RecencyMax * math.Min(1, volume24h/volume/RecencyFullRate)
}

// HeroScore is Buzz less the repeat penalty when m's topic is in history.
func (s *Selector) HeroScore(m *model.MarketRecord, history model.HeroHistory, now time.Time) float64 {
	score := Buzz(m, now)
	if history.Contains(m.Topic) {
		score -= s.cfg.RepeatPenalty
	}
	return score
}
