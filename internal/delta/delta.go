// Package delta computes each market's price change for the run.
//
// Sources whose API reports a usable prior price are trusted, subject to a
// plausibility check. Sources whose prior price is unusable (Kalshi reports
// it as zero) are corrected against the PriceSnapshot saved by the previous
// run.
package delta

import (
	"log/slog"
	"time"

	"github.com/rickgao/prob-markets/internal/model"
)

// Stats counts how each record's change was derived.
type Stats struct {
	FromSnapshot int // change = prob - prior
	FirstSeen    int // snapshot source with no prior; change unknown
	Trusted      int // API-reported change kept
	Implausible  int // API-reported change forced to 0
}

// Corrector derives change_pts and direction for a run.
type Corrector struct {
	logger          *slog.Logger
	snapshotSources map[model.Source]bool
}

// Option configures a Corrector.
type Option func(*Corrector)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Corrector) {
		c.logger = logger
	}
}

// WithSnapshotSources replaces the set of sources corrected against the
// price snapshot.
func WithSnapshotSources(sources ...model.Source) Option {
	return func(c *Corrector) {
		c.snapshotSources = make(map[model.Source]bool, len(sources))
		for _, s := range sources {
			c.snapshotSources[s] = true
		}
	}
}

// New creates a Corrector. By default only Kalshi is snapshot-corrected.
func New(opts ...Option) *Corrector {
	c := &Corrector{
		logger:          slog.Default(),
		snapshotSources: map[model.Source]bool{model.SourceKalshi: true},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UsesSnapshot reports whether src is corrected against the snapshot.
func (c *Corrector) UsesSnapshot(src model.Source) bool {
	return c.snapshotSources[src]
}

// Correct returns a copy of records with change_pts rounded to one decimal
// and direction recomputed. A nil prior behaves as an empty snapshot.
func (c *Corrector) Correct(records []model.MarketRecord, prior *model.PriceSnapshot) ([]model.MarketRecord, Stats) {
	var stats Stats
	out := make([]model.MarketRecord, len(records))
	copy(out, records)

	for i := range out {
		rec := &out[i]
		if c.UsesSnapshot(rec.Source) {
			p, ok := prior.Lookup(rec.ID)
			if !ok {
				rec.SetChange(nil)
				stats.FirstSeen++
				continue
			}
			rec.SetChange(model.Float(rec.Prob - p))
			stats.FromSnapshot++
			continue
		}

		if rec.ChangePts == nil {
			rec.SetChange(nil)
			continue
		}
		if !Plausible(rec.Prob, *rec.ChangePts) {
			c.logger.Debug("implausible delta",
				"source", rec.Source,
				"slug", rec.Slug,
				"prob", rec.Prob,
				"change", *rec.ChangePts,
			)
			rec.SetChange(model.Float(0))
			stats.Implausible++
			continue
		}
		rec.SetChange(rec.ChangePts)
		stats.Trusted++
	}

	if stats.Implausible > 0 {
		c.logger.Warn("discarded implausible deltas", "count", stats.Implausible)
	}
	c.logger.Debug("corrected deltas",
		"from_snapshot", stats.FromSnapshot,
		"first_seen", stats.FirstSeen,
		"trusted", stats.Trusted,
		"implausible", stats.Implausible,
	)
	return out, stats
}

// Plausible reports whether the prior probability implied by prob and
// change lies within [0, 100].
func Plausible(prob, change float64) bool {
	prev := prob - change
	return prev >= 0 && prev <= 100
}

// Capture builds the next run's snapshot from every record of a
// snapshot-corrected source. Pass records before consolidation so that
// discarded ladder and bucket members keep their priors.
func (c *Corrector) Capture(records []model.MarketRecord, now time.Time) *model.PriceSnapshot {
	snap := model.NewPriceSnapshot(now)
	for _, rec := range records {
		if c.UsesSnapshot(rec.Source) {
			snap.Prices[rec.ID] = rec.Prob
		}
	}
	return snap
}
