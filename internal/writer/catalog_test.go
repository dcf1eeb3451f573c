package writer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/prob-markets/internal/model"
)

// fakeDB records batches and answers every Exec with one affected row
// unless the statement's slug is listed in conflicts.
type fakeDB struct {
	batches   []*pgx.Batch
	execs     []string
	conflicts map[string]bool
	err       error
}

func (f *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), f.err
}

func (f *fakeDB) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batches = append(f.batches, b)
	return &fakeResults{db: f, queued: b.QueuedQueries}
}

type fakeResults struct {
	db     *fakeDB
	queued []*pgx.QueuedQuery
	next   int
}

func (r *fakeResults) Exec() (pgconn.CommandTag, error) {
	if r.db.err != nil {
		return pgconn.CommandTag{}, r.db.err
	}
	q := r.queued[r.next]
	r.next++
	if strings.Contains(q.SQL, "catalog_markets") && r.db.conflicts[q.Arguments[5].(string)] {
		return pgconn.NewCommandTag("INSERT 0 0"), nil
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *fakeResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (r *fakeResults) QueryRow() pgx.Row        { return nil }
func (r *fakeResults) Close() error             { return nil }

var runID = uuid.MustParse("6f1c2b4e-3a7d-4c59-9e0b-8d2f1a6c7e33")

func testCatalog() *model.Catalog {
	all := []model.MarketRecord{
		{Source: model.SourcePolymarket, ID: "501", Slug: "iran", Topic: "us strike iran <date>", Category: model.CategoryWorld, Prob: 34.25, ChangePts: model.Float(9.5), Volume: 4_200_000.6, Volume24h: 900_000, TradingSignal: model.SignalMomentum, CatRank: 40.1},
		{Source: model.SourceKalshi, ID: "KXFED-26MAR-C25", Slug: "KXFED-26MAR-C25", Topic: "fed decision <date>", Category: model.CategoryFinance, Prob: 61, Volume: 800_000, TradingSignal: model.SignalActive, CatRank: 12, RangeBucket: true},
		{Source: model.SourcePolymarket, ID: "777", Slug: "btc", Topic: "bitcoin hit <num>", Category: model.CategoryCrypto, Prob: 12.7, ChangePts: model.Float(-0.7), EndDate: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), CatRank: 5},
		{Source: model.SourcePolymarket, ID: "900", Slug: "oscars", Topic: "oscars", Prob: 80, CatRank: 1},
	}
	return &model.Catalog{
		RunID:           runID,
		UpdatedISO:      time.Date(2026, 3, 7, 20, 4, 0, 0, time.UTC),
		Hero:            &model.Hero{MarketRecord: all[0]},
		Movers:          []model.MarketRecord{all[2]},
		Ticker:          []model.MarketRecord{all[1]},
		AllMarkets:      all,
		DegradedSources: []model.Source{model.SourceKalshi},
	}
}

func TestPointsToInternal(t *testing.T) {
	tests := []struct {
		points float64
		want   int
	}{
		{0, 0},
		{100, 100000},
		{52.3, 52300},
		{0.7, 700},
		{-9.5, -9500},
		{34.25, 34250},
	}

	for _, tt := range tests {
		if got := pointsToInternal(tt.points); got != tt.want {
			t.Errorf("pointsToInternal(%v) = %d, want %d", tt.points, got, tt.want)
		}
	}
}

func TestTransformRun(t *testing.T) {
	row := transformRun(testCatalog())

	if row.RunID != runID {
		t.Errorf("RunID = %s, want %s", row.RunID, runID)
	}
	if row.HeroSlug == nil || *row.HeroSlug != "iran" {
		t.Errorf("HeroSlug = %v, want iran", row.HeroSlug)
	}
	if row.HeroTopic == nil || *row.HeroTopic != "us strike iran <date>" {
		t.Errorf("HeroTopic = %v, want us strike iran <date>", row.HeroTopic)
	}
	if row.Markets != 4 {
		t.Errorf("Markets = %d, want 4", row.Markets)
	}
	if len(row.DegradedSources) != 1 || row.DegradedSources[0] != "Kalshi" {
		t.Errorf("DegradedSources = %v, want [Kalshi]", row.DegradedSources)
	}
}

func TestTransformRun_NoHero(t *testing.T) {
	cat := testCatalog()
	cat.Hero = nil
	cat.DegradedSources = nil

	row := transformRun(cat)
	if row.HeroSlug != nil || row.HeroTopic != nil {
		t.Errorf("hero columns = %v/%v, want nil", row.HeroSlug, row.HeroTopic)
	}
	if row.DegradedSources == nil {
		t.Error("DegradedSources should be empty, not nil")
	}
}

func TestTransformMarkets(t *testing.T) {
	rows := transformMarkets(testCatalog())
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}

	wantSlots := []string{"hero", "ticker", "mover", ""}
	for i, row := range rows {
		if row.Rank != i+1 {
			t.Errorf("rows[%d].Rank = %d, want %d", i, row.Rank, i+1)
		}
		got := ""
		if row.Slot != nil {
			got = *row.Slot
		}
		if got != wantSlots[i] {
			t.Errorf("rows[%d].Slot = %q, want %q", i, got, wantSlots[i])
		}
	}

	hero := rows[0]
	if hero.Prob != 34250 {
		t.Errorf("Prob = %d, want 34250", hero.Prob)
	}
	if hero.Change == nil || *hero.Change != 9500 {
		t.Errorf("Change = %v, want 9500", hero.Change)
	}
	if hero.Volume != 4_200_000 {
		t.Errorf("Volume = %d, want 4200000", hero.Volume)
	}
	if hero.EndDate != nil {
		t.Errorf("EndDate = %v, want nil", hero.EndDate)
	}

	if rows[1].Change != nil {
		t.Errorf("unknown change stored as %d, want nil", *rows[1].Change)
	}
	if !rows[1].RangeBucket {
		t.Error("RangeBucket should be carried")
	}
	if rows[2].EndDate == nil || !rows[2].EndDate.Equal(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("EndDate = %v, want 2026-12-31", rows[2].EndDate)
	}
}

func TestCatalogWriter_Write(t *testing.T) {
	db := &fakeDB{conflicts: map[string]bool{"btc": true}}
	w := NewCatalogWriter(WriterConfig{BatchSize: 3}, db, nil)

	if err := w.Write(context.Background(), testCatalog()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if len(db.batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(db.batches))
	}
	if n := db.batches[0].Len(); n != 4 {
		t.Errorf("first batch = %d queries, want 4 (run + 3 markets)", n)
	}
	if n := db.batches[1].Len(); n != 1 {
		t.Errorf("second batch = %d queries, want 1", n)
	}
	if !strings.Contains(db.batches[0].QueuedQueries[0].SQL, "catalog_runs") {
		t.Error("run row should be queued first")
	}

	stats := w.Stats()
	if stats.Runs != 1 {
		t.Errorf("Runs = %d, want 1", stats.Runs)
	}
	if stats.Inserts != 4 {
		t.Errorf("Inserts = %d, want 4", stats.Inserts)
	}
	if stats.Conflicts != 1 {
		t.Errorf("Conflicts = %d, want 1", stats.Conflicts)
	}
	if stats.Flushes != 2 {
		t.Errorf("Flushes = %d, want 2", stats.Flushes)
	}
}

func TestCatalogWriter_WriteError(t *testing.T) {
	db := &fakeDB{err: errors.New("connection reset")}
	w := NewCatalogWriter(DefaultWriterConfig(), db, nil)

	err := w.Write(context.Background(), testCatalog())
	if err == nil {
		t.Fatal("Write() should fail")
	}
	if !strings.Contains(err.Error(), runID.String()) {
		t.Errorf("error %q should name the run", err)
	}
	if w.Stats().Errors != 1 {
		t.Errorf("Errors = %d, want 1", w.Stats().Errors)
	}
}

func TestCatalogWriter_EnsureSchema(t *testing.T) {
	db := &fakeDB{}
	w := NewCatalogWriter(WriterConfig{}, db, nil)

	if err := w.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if len(db.execs) != 1 || db.execs[0] != Schema {
		t.Errorf("execs = %d, want the schema once", len(db.execs))
	}
	if w.cfg.BatchSize != DefaultWriterConfig().BatchSize {
		t.Errorf("BatchSize = %d, want default", w.cfg.BatchSize)
	}
}
