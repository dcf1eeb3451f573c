// Package catalog runs the ranking pipeline end to end and assembles the
// published Catalog.
//
// A build is a pure function of the fetched payloads, the prior State and
// now; the caller loads state before and persists the returned catalog and
// snapshot after. Nothing is persisted when Build fails.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"
	_ "time/tzdata" // DisplayLocation on hosts without a zoneinfo database

	"github.com/google/uuid"

	"github.com/rickgao/prob-markets/internal/commentary"
	"github.com/rickgao/prob-markets/internal/consolidate"
	"github.com/rickgao/prob-markets/internal/delta"
	"github.com/rickgao/prob-markets/internal/model"
	"github.com/rickgao/prob-markets/internal/normalize"
	"github.com/rickgao/prob-markets/internal/selector"
	"github.com/rickgao/prob-markets/internal/signal"
	"github.com/rickgao/prob-markets/internal/source"
)

// ErrBothSourcesUnavailable is returned when no configured source produced
// data. No catalog is built.
var ErrBothSourcesUnavailable = errors.New("both sources unavailable")

// ErrNoMarkets is returned when the sources answered but no record survived
// normalization. No catalog is built, so the previous state stays in place.
var ErrNoMarkets = errors.New("no markets after normalization")

// DisplayLocation is the zone of the human-readable timestamp.
const DisplayLocation = "America/New_York"

// Stats summarizes one build.
type Stats struct {
	Polymarket  int // raw markets fetched
	Kalshi      int // raw events fetched
	Normalized  int
	Consolidate consolidate.Stats
	Delta       delta.Stats
}

// Result is the output of a successful build.
type Result struct {
	Catalog  *model.Catalog
	Snapshot *model.PriceSnapshot // next run's prior prices
	Stats    Stats
}

// Builder wires the pipeline stages together.
type Builder struct {
	polymarket source.PolymarketFetcher
	kalshi     source.KalshiFetcher

	normalizer   *normalize.Normalizer
	consolidator *consolidate.Consolidator
	corrector    *delta.Corrector
	selector     *selector.Selector
	commentary   commentary.Generator

	historyWindow int
	location      *time.Location
	newRunID      func(time.Time) uuid.UUID
	logger        *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithPolymarket sets the Polymarket fetcher.
func WithPolymarket(f source.PolymarketFetcher) Option {
	return func(b *Builder) {
		b.polymarket = f
	}
}

// WithKalshi sets the Kalshi fetcher.
func WithKalshi(f source.KalshiFetcher) Option {
	return func(b *Builder) {
		b.kalshi = f
	}
}

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(b *Builder) {
		b.normalizer = n
	}
}

// WithSelector replaces the default selector.
func WithSelector(s *selector.Selector) Option {
	return func(b *Builder) {
		b.selector = s
	}
}

// WithCommentary sets the commentary generator.
func WithCommentary(g commentary.Generator) Option {
	return func(b *Builder) {
		b.commentary = g
	}
}

// WithHistoryWindow sets how many hero topics are remembered.
func WithHistoryWindow(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.historyWindow = n
		}
	}
}

// WithLocation sets the zone of the human-readable timestamp.
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) {
		b.location = loc
	}
}

// WithRunID overrides run id generation. The default derives the id from
// the run instant.
func WithRunID(fn func(time.Time) uuid.UUID) Option {
	return func(b *Builder) {
		b.newRunID = fn
	}
}

// WithLogger sets the logger for the builder and the default stages.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// New creates a Builder. Stages not supplied through options get their
// defaults, sharing the builder's logger.
func New(opts ...Option) (*Builder, error) {
	b := &Builder{
		commentary:    commentary.Noop{},
		historyWindow: model.DefaultHistoryWindow,
		newRunID:      model.RunIDFor,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.polymarket == nil && b.kalshi == nil {
		return nil, errors.New("catalog builder needs at least one source")
	}
	if b.location == nil {
		loc, err := time.LoadLocation(DisplayLocation)
		if err != nil {
			return nil, fmt.Errorf("load location %s: %w", DisplayLocation, err)
		}
		b.location = loc
	}
	if b.normalizer == nil {
		b.normalizer = normalize.New(normalize.WithLogger(b.logger))
	}
	if b.selector == nil {
		b.selector = selector.New(selector.DefaultConfig(), selector.WithLogger(b.logger))
	}
	b.consolidator = consolidate.New(consolidate.WithLogger(b.logger))
	b.corrector = delta.New(delta.WithLogger(b.logger))

	return b, nil
}

// Build runs the pipeline once.
func (b *Builder) Build(ctx context.Context, state model.State, now time.Time) (*Result, error) {
	var (
		stats    Stats
		degraded []model.Source
		errs     []error
		records  []model.MarketRecord
	)

	// Fetch, sequentially. A failing source degrades the run.
	kalshiOK := false
	if b.polymarket != nil {
		markets, err := b.polymarket.FetchPolymarket(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			b.logger.Warn("source degraded", "source", model.SourcePolymarket, "error", err)
			degraded = append(degraded, model.SourcePolymarket)
			errs = append(errs, err)
		} else {
			stats.Polymarket = len(markets)
			records = append(records, b.normalizer.Polymarket(markets)...)
		}
	}
	if b.kalshi != nil {
		events, err := b.kalshi.FetchKalshi(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			b.logger.Warn("source degraded", "source", model.SourceKalshi, "error", err)
			degraded = append(degraded, model.SourceKalshi)
			errs = append(errs, err)
		} else {
			kalshiOK = true
			stats.Kalshi = len(events)
			records = append(records, b.normalizer.Kalshi(events)...)
		}
	}
	if len(degraded) == b.sources() {
		return nil, fmt.Errorf("%w: %w", ErrBothSourcesUnavailable, errors.Join(errs...))
	}
	stats.Normalized = len(records)
	if len(records) == 0 {
		b.logger.Warn("no markets after normalization",
			"polymarket", stats.Polymarket,
			"kalshi_events", stats.Kalshi,
		)
		return nil, ErrNoMarkets
	}

	// Next snapshot from every normalized record, before consolidation. If
	// the snapshot source is down the prior prices carry forward.
	next := b.corrector.Capture(records, now)
	if !kalshiOK && state.Snapshot != nil {
		next.Prices = maps.Clone(state.Snapshot.Prices)
	}

	consolidated, cstats := b.consolidator.Run(records)
	stats.Consolidate = cstats

	corrected, dstats := b.corrector.Correct(consolidated, state.Snapshot)
	stats.Delta = dstats

	signal.Apply(corrected)
	signal.Rank(corrected)

	sel := b.selector.Select(corrected, state.History, now)

	updated := now.UTC().Truncate(time.Second)
	cat := &model.Catalog{
		RunID:           b.newRunID(updated),
		Updated:         model.FormatUpdated(now, b.location),
		UpdatedISO:      updated,
		Movers:          nonNil(sel.Movers),
		Ticker:          nonNil(sel.Ticker),
		HeroHistory:     state.History,
		AllMarkets:      nonNil(corrected),
		DegradedSources: degraded,
	}
	if cat.HeroHistory == nil {
		cat.HeroHistory = model.HeroHistory{}
	}
	if sel.Hero != nil {
		cat.Hero = &model.Hero{MarketRecord: *sel.Hero}
		cat.HeroHistory = state.History.Append(sel.Hero.Topic, b.historyWindow)
		b.annotate(ctx, cat, now)
	} else {
		b.logger.Warn("no hero eligible", "markets", len(corrected))
	}

	b.logger.Info("built catalog",
		"run_id", cat.RunID,
		"polymarket", stats.Polymarket,
		"kalshi_events", stats.Kalshi,
		"normalized", stats.Normalized,
		"consolidated", cstats.Output,
		"implausible", dstats.Implausible,
		"hero", heroSlug(cat.Hero),
		"movers", len(cat.Movers),
		"ticker", len(cat.Ticker),
		"degraded", degraded,
	)

	return &Result{Catalog: cat, Snapshot: next, Stats: stats}, nil
}

// annotate requests the hero take and the daily editorial. Failures leave
// the fields empty.
func (b *Builder) annotate(ctx context.Context, cat *model.Catalog, now time.Time) {
	take, err := b.commentary.HeroTake(ctx, cat.Hero.MarketRecord)
	if err != nil {
		b.logger.Warn("hero commentary unavailable", "slug", cat.Hero.Slug, "error", err)
	}
	cat.Hero.ProbTake = take

	daily, err := b.commentary.DailyTake(ctx, commentary.Digest{
		Date:   now.In(b.location),
		Hero:   cat.Hero.MarketRecord,
		Movers: cat.Movers,
	})
	if err != nil {
		b.logger.Warn("daily take unavailable", "error", err)
		return
	}
	cat.DailyTake = daily
}

func (b *Builder) sources() int {
	n := 0
	if b.polymarket != nil {
		n++
	}
	if b.kalshi != nil {
		n++
	}
	return n
}

func nonNil(records []model.MarketRecord) []model.MarketRecord {
	if records == nil {
		return []model.MarketRecord{}
	}
	return records
}

func heroSlug(h *model.Hero) string {
	if h == nil {
		return ""
	}
	return h.Slug
}
