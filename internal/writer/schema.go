package writer

import (
	"context"
	"fmt"
)

// Schema creates the archive tables. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS catalog_runs (
	run_id           UUID PRIMARY KEY,
	updated_at       TIMESTAMPTZ NOT NULL,
	hero_slug        TEXT,
	hero_topic       TEXT,
	markets          INTEGER NOT NULL,
	degraded_sources TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS catalog_markets (
	run_id         UUID NOT NULL REFERENCES catalog_runs (run_id),
	rank           INTEGER NOT NULL,
	slot           TEXT,
	source         TEXT NOT NULL,
	market_id      TEXT NOT NULL,
	slug           TEXT NOT NULL,
	question       TEXT NOT NULL,
	topic          TEXT NOT NULL,
	category       TEXT NOT NULL,
	prob           INTEGER NOT NULL,
	change         INTEGER,
	volume         BIGINT NOT NULL,
	volume_24h     BIGINT NOT NULL,
	end_date       TIMESTAMPTZ,
	trading_signal TEXT NOT NULL,
	cat_rank       DOUBLE PRECISION NOT NULL,
	range_bucket   BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (run_id, slug)
);

CREATE INDEX IF NOT EXISTS catalog_markets_slug_idx ON catalog_markets (slug, run_id);
`

// EnsureSchema creates the archive tables if they do not exist.
func (w *CatalogWriter) EnsureSchema(ctx context.Context) error {
	if _, err := w.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create catalog schema: %w", err)
	}
	return nil
}
