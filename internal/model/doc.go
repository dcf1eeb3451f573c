// Package model defines shared data types used across the market-ranking pipeline.
//
// Conventions:
//   - Probabilities: float64 percent-of-yes on a 0-100 scale, one decimal
//   - Price changes: float64 probability points; nil means unknown
//   - Volumes: float64 US dollars
//   - IDs: source-specific strings (Kalshi ticker, Polymarket market id), uuid.UUID for run IDs
package model
