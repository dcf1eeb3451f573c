// Package source wraps the two market fetch capabilities consumed by the
// catalog builder: Polymarket markets paged by sort order and Kalshi open
// events filtered by category.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/rickgao/prob-markets/internal/api"
	"github.com/rickgao/prob-markets/internal/gamma"
	"github.com/rickgao/prob-markets/internal/model"
)

// ErrSourceUnavailable is wrapped by every fetch error that leaves a source
// with no usable data for the run.
var ErrSourceUnavailable = errors.New("source unavailable")

// unavailable wraps err so that it matches ErrSourceUnavailable.
func unavailable(src model.Source, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, src, err)
}

// PolymarketFetcher returns raw Gamma markets.
type PolymarketFetcher interface {
	FetchPolymarket(ctx context.Context) ([]gamma.Market, error)
}

// KalshiFetcher returns raw Kalshi events with nested markets.
type KalshiFetcher interface {
	FetchKalshi(ctx context.Context) ([]api.APIEvent, error)
}

var (
	_ PolymarketFetcher = (*Polymarket)(nil)
	_ KalshiFetcher     = (*Kalshi)(nil)
)

// -----------------------------------------------------------------------------
// Polymarket
// -----------------------------------------------------------------------------

// Polymarket fetches active markets once per sort order and merges them.
type Polymarket struct {
	client   *gamma.Client
	orders   []gamma.Order
	pageSize int
	maxPages int
	logger   *slog.Logger
}

// PolymarketConfig configures a Polymarket fetcher.
type PolymarketConfig struct {
	Orders   []gamma.Order
	PageSize int
	MaxPages int // per order
}

// NewPolymarket creates a Polymarket fetcher. A nil logger uses slog.Default().
func NewPolymarket(client *gamma.Client, cfg PolymarketConfig, logger *slog.Logger) *Polymarket {
	if logger == nil {
		logger = slog.Default()
	}
	orders := cfg.Orders
	if len(orders) == 0 {
		orders = []gamma.Order{gamma.OrderVolume24hr, gamma.OrderVolume}
	}
	return &Polymarket{
		client:   client,
		orders:   orders,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		logger:   logger,
	}
}

// FetchPolymarket reads every configured sort order and returns the union,
// de-duplicated by market id in first-seen order. A failing order is logged
// and skipped; the source is unavailable only when every order fails.
func (p *Polymarket) FetchPolymarket(ctx context.Context) ([]gamma.Market, error) {
	active, closed := true, false

	var (
		out  []gamma.Market
		seen = make(map[string]bool)
		errs []error
	)
	for _, order := range p.orders {
		markets, err := p.client.FetchMarketPages(ctx, gamma.Filter{
			Active: &active,
			Closed: &closed,
			Order:  order,
			Limit:  p.pageSize,
		}, p.maxPages)
		if err != nil {
			p.logger.Warn("polymarket order failed", "order", order, "error", err)
			errs = append(errs, fmt.Errorf("order %s: %w", order, err))
			continue
		}

		added := 0
		for _, m := range markets {
			if m.ID == "" || seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			out = append(out, m)
			added++
		}
		p.logger.Debug("fetched polymarket order", "order", order, "markets", len(markets), "new", added)
	}

	if len(errs) == len(p.orders) {
		return nil, unavailable(model.SourcePolymarket, errors.Join(errs...))
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Kalshi
// -----------------------------------------------------------------------------

// Kalshi fetches open events with nested markets.
type Kalshi struct {
	client     *api.Client
	categories []string
	pageSize   int
	maxPages   int
	logger     *slog.Logger
}

// KalshiConfig configures a Kalshi fetcher.
type KalshiConfig struct {
	Categories []string // event categories kept, case-insensitive; empty keeps all
	PageSize   int
	MaxPages   int
}

// NewKalshi creates a Kalshi fetcher. A nil logger uses slog.Default().
func NewKalshi(client *api.Client, cfg KalshiConfig, logger *slog.Logger) *Kalshi {
	if logger == nil {
		logger = slog.Default()
	}
	categories := make([]string, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		categories = append(categories, strings.ToLower(strings.TrimSpace(c)))
	}
	return &Kalshi{
		client:     client,
		categories: categories,
		pageSize:   cfg.PageSize,
		maxPages:   cfg.MaxPages,
		logger:     logger,
	}
}

// FetchKalshi returns open events in the configured categories.
func (k *Kalshi) FetchKalshi(ctx context.Context) ([]api.APIEvent, error) {
	events, err := k.client.GetOpenEvents(ctx, k.pageSize, k.maxPages)
	if err != nil {
		return nil, unavailable(model.SourceKalshi, err)
	}

	kept := FilterCategories(events, k.categories)
	k.logger.Debug("fetched kalshi events", "events", len(events), "kept", len(kept))
	return kept, nil
}

// FilterCategories keeps events whose category is in categories, compared
// case-insensitively. Empty categories keeps everything.
func FilterCategories(events []api.APIEvent, categories []string) []api.APIEvent {
	if len(categories) == 0 {
		return events
	}
	out := make([]api.APIEvent, 0, len(events))
	for _, ev := range events {
		if slices.Contains(categories, strings.ToLower(ev.Category)) {
			out = append(out, ev)
		}
	}
	return out
}
