package gamma

import (
	"context"
	"net/url"
	"strconv"
)

// FetchMarkets fetches one page of markets.
func (c *Client) FetchMarkets(ctx context.Context, filter *Filter) ([]Market, error) {
	var markets []Market
	if err := c.get(ctx, "/markets", buildQuery(filter), &markets); err != nil {
		return nil, err
	}
	return markets, nil
}

// FetchMarketPages pages through markets matching filter until a short page
// is returned or maxPages pages have been read. filter.Limit sets the page size.
func (c *Client) FetchMarketPages(ctx context.Context, filter Filter, maxPages int) ([]Market, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	var all []Market
	for page := 0; maxPages <= 0 || page < maxPages; page++ {
		batch, err := c.FetchMarkets(ctx, &filter)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)

		if len(batch) < filter.Limit {
			break
		}
		filter.Offset += len(batch)
	}

	return all, nil
}

// buildQuery builds URL query parameters from a Filter.
func buildQuery(f *Filter) url.Values {
	v := url.Values{}
	if f == nil {
		return v
	}
	if f.Active != nil {
		v.Set("active", strconv.FormatBool(*f.Active))
	}
	if f.Closed != nil {
		v.Set("closed", strconv.FormatBool(*f.Closed))
	}
	if f.TagSlug != "" {
		v.Set("tag_slug", f.TagSlug)
	}
	if f.Order != "" {
		v.Set("order", string(f.Order))
		v.Set("ascending", strconv.FormatBool(f.Ascending))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		v.Set("offset", strconv.Itoa(f.Offset))
	}
	return v
}
