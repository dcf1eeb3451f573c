// Package selector picks the hero, movers and ticker for a run.
//
// The hero is the eligible market with the highest buzz, penalized when its
// topic featured recently. Movers are the next best by buzz under a looser
// volume floor. The ticker takes the next markets by cat_rank. A topic
// appears at most once across all three, and range-bucket survivors are
// never featured.
package selector

import (
	"cmp"
	"log/slog"
	"slices"
	"time"

	"github.com/rickgao/prob-markets/internal/model"
	"github.com/rickgao/prob-markets/internal/signal"
)

// Config holds selection thresholds.
type Config struct {
	Hero          Tier
	Mover         Tier
	ProbLow       float64 // exclusive
	ProbHigh      float64 // exclusive
	RepeatPenalty float64
	MoversCount   int
	TickerCount   int
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		Hero:          Tier{MinVolume: 250_000, MinVolumeSports: 25_000_000},
		Mover:         Tier{MinVolume: 50_000, MinVolumeSports: 2_500_000},
		ProbLow:       2,
		ProbHigh:      98,
		RepeatPenalty: 15,
		MoversCount:   6,
		TickerCount:   10,
	}
}

// Selection is the outcome of Select.
type Selection struct {
	Hero      *model.MarketRecord
	HeroScore float64
	Movers    []model.MarketRecord
	Ticker    []model.MarketRecord
}

// Selector applies gates and scoring.
type Selector struct {
	cfg    Config
	logger *slog.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

// New creates a Selector.
func New(cfg Config, opts ...Option) *Selector {
	s := &Selector{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type scored struct {
	rec   *model.MarketRecord
	score float64
}

// byScore orders by score descending, then volume descending, then slug.
func byScore(a, b scored) int {
	if c := cmp.Compare(b.score, a.score); c != 0 {
		return c
	}
	if c := cmp.Compare(b.rec.Volume, a.rec.Volume); c != 0 {
		return c
	}
	return cmp.Compare(a.rec.Slug, b.rec.Slug)
}

// Select picks from the consolidated, classified records. history is the
// window of recent hero topics; now anchors the urgency bonus. The input is
// not modified.
func (s *Selector) Select(records []model.MarketRecord, history model.HeroHistory, now time.Time) Selection {
	pool := slices.Clone(records)
	signal.Rank(pool)

	var sel Selection
	usedTopic := make(map[string]bool)
	usedSlug := make(map[string]bool)
	take := func(m *model.MarketRecord) {
		usedTopic[m.Topic] = true
		usedSlug[m.Slug] = true
	}

	// Hero
	heroGates := s.Gates(s.cfg.Hero)
	var heroes []scored
	rejected := make(map[string]int)
	for i := range pool {
		m := &pool[i]
		if reason := Rejection(heroGates, m); reason != "" {
			rejected[reason]++
			continue
		}
		heroes = append(heroes, scored{m, s.HeroScore(m, history, now)})
	}
	if len(heroes) > 0 {
		slices.SortStableFunc(heroes, byScore)
		hero := *heroes[0].rec
		sel.Hero = &hero
		sel.HeroScore = heroes[0].score
		take(&hero)
	}

	// Movers
	moverGates := s.Gates(s.cfg.Mover)
	var movers []scored
	for i := range pool {
		m := &pool[i]
		if usedSlug[m.Slug] || Rejection(moverGates, m) != "" {
			continue
		}
		movers = append(movers, scored{m, Buzz(m, now)})
	}
	slices.SortStableFunc(movers, byScore)
	for _, c := range movers {
		if len(sel.Movers) >= s.cfg.MoversCount {
			break
		}
		if usedTopic[c.rec.Topic] {
			continue
		}
		sel.Movers = append(sel.Movers, *c.rec)
		take(c.rec)
	}

	// Ticker, in cat_rank order
	for i := range pool {
		if len(sel.Ticker) >= s.cfg.TickerCount {
			break
		}
		m := &pool[i]
		if m.RangeBucket || usedSlug[m.Slug] || usedTopic[m.Topic] {
			continue
		}
		sel.Ticker = append(sel.Ticker, *m)
		take(m)
	}

	attrs := []any{
		"candidates", len(pool),
		"hero_eligible", len(heroes),
		"movers", len(sel.Movers),
		"ticker", len(sel.Ticker),
		"rejected", rejected,
	}
	if sel.Hero != nil {
		attrs = append(attrs, "hero", sel.Hero.Slug, "hero_score", sel.HeroScore)
	}
	s.logger.Debug("selected markets", attrs...)

	return sel
}
