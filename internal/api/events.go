package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// DefaultPaginationTimeout bounds GetOpenEvents when the context has no
// deadline.
const DefaultPaginationTimeout = 2 * time.Minute

// StatusOpen selects events still trading.
const StatusOpen = "open"

// GetEvents fetches a page of events.
func (c *Client) GetEvents(ctx context.Context, opts GetEventsOptions) (*EventsResponse, error) {
	query := url.Values{}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.SeriesTicker != "" {
		query.Set("series_ticker", opts.SeriesTicker)
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.WithNestedMarkets {
		query.Set("with_nested_markets", "true")
	}

	var resp EventsResponse
	if err := c.get(ctx, "/events", query, &resp); err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}

	return &resp, nil
}

// GetOpenEvents pages through open events with nested markets, stopping
// after maxPages pages (0 means no limit). Uses DefaultPaginationTimeout if
// the context has no deadline.
func (c *Client) GetOpenEvents(ctx context.Context, pageSize, maxPages int) ([]APIEvent, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultPaginationTimeout)
		defer cancel()
	}

	var allEvents []APIEvent
	opts := GetEventsOptions{
		Limit:             pageSize,
		Status:            StatusOpen,
		WithNestedMarkets: true,
	}

	for page := 0; maxPages <= 0 || page < maxPages; page++ {
		resp, err := c.GetEvents(ctx, opts)
		if err != nil {
			return nil, err
		}

		allEvents = append(allEvents, resp.Events...)

		if resp.Cursor == "" {
			break
		}
		opts.Cursor = resp.Cursor
	}

	c.logger.Debug("fetched open events", "events", len(allEvents))
	return allEvents, nil
}
