// Package database provides the PostgreSQL connection pool for the optional
// catalog archive. Each run appends one catalog_runs row and its ranked
// markets; the JSON files remain the source of truth for the next run.
package database
