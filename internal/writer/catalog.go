package writer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/prob-markets/internal/model"
)

// DB is the subset of *pgxpool.Pool the writer uses.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

const (
	insertRun = `
		INSERT INTO catalog_runs (run_id, updated_at, hero_slug, hero_topic, markets, degraded_sources)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id) DO NOTHING
	`
	insertMarket = `
		INSERT INTO catalog_markets (run_id, rank, slot, source, market_id, slug, question, topic, category, prob, change, volume, volume_24h, end_date, trading_signal, cat_rank, range_bucket)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (run_id, slug) DO NOTHING
	`
)

// CatalogWriter archives catalogs.
type CatalogWriter struct {
	cfg     WriterConfig
	db      DB
	logger  *slog.Logger
	metrics WriterMetrics
}

// NewCatalogWriter creates a new CatalogWriter.
func NewCatalogWriter(cfg WriterConfig, db DB, logger *slog.Logger) *CatalogWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultWriterConfig().BatchSize
	}
	return &CatalogWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
	}
}

// Stats returns current metrics.
func (w *CatalogWriter) Stats() WriterMetrics {
	return w.metrics
}

// Write archives one catalog. The run row travels in the first batch so
// market rows never reference a missing run.
func (w *CatalogWriter) Write(ctx context.Context, cat *model.Catalog) error {
	start := time.Now()
	run := transformRun(cat)
	rows := transformMarkets(cat)

	inserted, conflicts := 0, 0
	for i, batch := range w.batches(run, rows) {
		ins, conf, err := w.send(ctx, batch)
		if err != nil {
			w.metrics.Errors++
			return fmt.Errorf("archive run %s batch %d: %w", run.RunID, i, err)
		}
		inserted += ins
		conflicts += conf
		w.metrics.Flushes++
	}

	w.metrics.Runs++
	w.metrics.Inserts += int64(inserted)
	w.metrics.Conflicts += int64(conflicts)

	w.logger.Info("archived catalog",
		"run_id", run.RunID,
		"markets", len(rows),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return nil
}

// batches splits the run into round trips of at most BatchSize market rows.
func (w *CatalogWriter) batches(run runRow, rows []marketRow) []*pgx.Batch {
	first := &pgx.Batch{}
	first.Queue(insertRun, run.RunID, run.UpdatedAt, run.HeroSlug, run.HeroTopic, run.Markets, run.DegradedSources)

	out := []*pgx.Batch{first}
	cur := first
	n := 0
	for _, r := range rows {
		if n == w.cfg.BatchSize {
			cur = &pgx.Batch{}
			out = append(out, cur)
			n = 0
		}
		cur.Queue(insertMarket,
			r.RunID, r.Rank, r.Slot, r.Source, r.MarketID, r.Slug, r.Question, r.Topic, r.Category,
			r.Prob, r.Change, r.Volume, r.Volume24h, r.EndDate, r.TradingSignal, r.CatRank, r.RangeBucket,
		)
		n++
	}
	return out
}

// send executes a batch and counts rows skipped by ON CONFLICT.
func (w *CatalogWriter) send(ctx context.Context, batch *pgx.Batch) (inserted, conflicts int, err error) {
	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range batch.Len() {
		ct, err := results.Exec()
		if err != nil {
			return 0, 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		} else {
			inserted++
		}
	}
	return inserted, conflicts, nil
}

// transformRun converts a catalog to its catalog_runs row.
func transformRun(cat *model.Catalog) runRow {
	row := runRow{
		RunID:           cat.RunID,
		UpdatedAt:       cat.UpdatedISO.UTC(),
		Markets:         len(cat.AllMarkets),
		DegradedSources: make([]string, 0, len(cat.DegradedSources)),
	}
	if cat.Hero != nil {
		row.HeroSlug = optionalString(cat.Hero.Slug)
		row.HeroTopic = optionalString(cat.Hero.Topic)
	}
	for _, s := range cat.DegradedSources {
		row.DegradedSources = append(row.DegradedSources, string(s))
	}
	return row
}

// transformMarkets converts the ranked markets to catalog_markets rows.
func transformMarkets(cat *model.Catalog) []marketRow {
	slots := make(map[string]Slot)
	if cat.Hero != nil {
		slots[cat.Hero.Slug] = SlotHero
	}
	for _, m := range cat.Movers {
		slots[m.Slug] = SlotMover
	}
	for _, m := range cat.Ticker {
		slots[m.Slug] = SlotTicker
	}

	rows := make([]marketRow, 0, len(cat.AllMarkets))
	for i, m := range cat.AllMarkets {
		row := marketRow{
			RunID:         cat.RunID,
			Rank:          i + 1,
			Slot:          optionalString(string(slots[m.Slug])),
			Source:        string(m.Source),
			MarketID:      m.ID,
			Slug:          m.Slug,
			Question:      m.Question,
			Topic:         m.Topic,
			Category:      string(m.Category),
			Prob:          pointsToInternal(m.Prob),
			Change:        optionalPoints(m.ChangePts),
			Volume:        int64(m.Volume),
			Volume24h:     int64(m.Volume24h),
			TradingSignal: string(m.TradingSignal),
			CatRank:       m.CatRank,
			RangeBucket:   m.RangeBucket,
		}
		if !m.EndDate.IsZero() {
			end := m.EndDate.UTC()
			row.EndDate = &end
		}
		rows = append(rows, row)
	}
	return rows
}
