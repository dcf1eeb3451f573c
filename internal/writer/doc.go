// Package writer archives catalog runs to PostgreSQL.
//
// Each run becomes one catalog_runs row plus one catalog_markets row per
// ranked market, tagged with the slot it filled (hero, mover, ticker or
// none). Inserts are append-only and keyed by run id, so replaying a run
// is a no-op.
//
// Probabilities and changes are stored as integer thousandths of a point
// (0-100,000 = 0%-100%) to keep one extra decimal beyond display precision.
package writer
