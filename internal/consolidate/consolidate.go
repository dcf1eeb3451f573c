// Package consolidate collapses families of markets that describe one
// underlying event into a single representative.
//
// Two families are recognized, both keyed by topic.Fingerprint:
//
//   - date ladders, the same event at successive deadlines ("by Mar 7",
//     "by Mar 14"); the member with the most 24h volume survives.
//   - range buckets, mutually exclusive brackets of one quantity
//     ("220-229 seats", Kalshi "::" sub-markets); the most likely bracket
//     survives and is marked RangeBucket.
//
// Discarded members are removed from the run entirely.
package consolidate

import (
	"log/slog"

	"github.com/rickgao/prob-markets/internal/model"
	"github.com/rickgao/prob-markets/internal/topic"
)

// Stats counts what a Run removed.
type Stats struct {
	Input          int
	DuplicateSlugs int
	LadderDropped  int
	BucketDropped  int
	Output         int
}

// Consolidator runs the slug, date-ladder and range-bucket passes.
type Consolidator struct {
	logger *slog.Logger
}

// Option configures a Consolidator.
type Option func(*Consolidator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Consolidator) {
		c.logger = logger
	}
}

// New creates a Consolidator.
func New(opts ...Option) *Consolidator {
	c := &Consolidator{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type family int

const (
	familyNone family = iota
	familyLadder
	familyBucket
)

type entry struct {
	rec    model.MarketRecord
	family family
}

// Run returns the surviving records in input order with Topic filled in.
// The input slice is not modified.
func (c *Consolidator) Run(records []model.MarketRecord) ([]model.MarketRecord, Stats) {
	stats := Stats{Input: len(records)}

	entries := make([]entry, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if seen[rec.Slug] {
			stats.DuplicateSlugs++
			continue
		}
		seen[rec.Slug] = true

		rec.Topic = topic.Fingerprint(rec.Question)
		rec.RangeBucket = false
		e := entry{rec: rec}
		switch {
		case topic.HasRange(rec.Question):
			e.family = familyBucket
		case topic.HasDate(rec.Question):
			e.family = familyLadder
		}
		entries = append(entries, e)
	}

	keep := make([]bool, len(entries))
	for i := range keep {
		keep[i] = true
	}
	stats.LadderDropped = collapse(entries, keep, familyLadder, ladderBetter)
	stats.BucketDropped = collapse(entries, keep, familyBucket, bucketBetter)

	out := make([]model.MarketRecord, 0, len(entries))
	for i, e := range entries {
		if !keep[i] {
			continue
		}
		if e.family == familyBucket {
			e.rec.RangeBucket = true
		}
		out = append(out, e.rec)
	}
	stats.Output = len(out)

	c.logger.Debug("consolidated markets",
		"input", stats.Input,
		"duplicate_slugs", stats.DuplicateSlugs,
		"ladder_dropped", stats.LadderDropped,
		"bucket_dropped", stats.BucketDropped,
		"output", stats.Output,
	)
	return out, stats
}

// collapse keeps the best member of every topic group within fam and clears
// keep for the rest. It returns the number of members discarded.
func collapse(entries []entry, keep []bool, fam family, better func(a, b *model.MarketRecord) bool) int {
	best := make(map[string]int)
	dropped := 0
	for i := range entries {
		if entries[i].family != fam {
			continue
		}
		key := entries[i].rec.Topic
		j, ok := best[key]
		if !ok {
			best[key] = i
			continue
		}
		dropped++
		if better(&entries[i].rec, &entries[j].rec) {
			keep[j] = false
			best[key] = i
		} else {
			keep[i] = false
		}
	}
	return dropped
}

// ladderBetter orders ladder members by 24h volume, then total volume, then
// slug ascending.
func ladderBetter(a, b *model.MarketRecord) bool {
	if a.Volume24h != b.Volume24h {
		return a.Volume24h > b.Volume24h
	}
	if a.Volume != b.Volume {
		return a.Volume > b.Volume
	}
	return a.Slug < b.Slug
}

// bucketBetter orders bucket members by probability, then 24h volume, then
// slug ascending.
func bucketBetter(a, b *model.MarketRecord) bool {
	if a.Prob != b.Prob {
		return a.Prob > b.Prob
	}
	if a.Volume24h != b.Volume24h {
		return a.Volume24h > b.Volume24h
	}
	return a.Slug < b.Slug
}
