// Package normalize converts Polymarket and Kalshi payloads into the common
// model.MarketRecord shape. Probabilities land on the 0-100 scale and
// currency amounts in dollars. Records that cannot be normalized are dropped
// and logged.
package normalize

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/prob-markets/internal/api"
	"github.com/rickgao/prob-markets/internal/gamma"
	"github.com/rickgao/prob-markets/internal/model"
)

const (
	polymarketURL = "https://polymarket.com/event/"
	kalshiURL     = "https://kalshi.com/markets/"
)

// Normalizer converts source payloads into MarketRecords.
type Normalizer struct {
	logger          *slog.Logger
	minVolumePoly   float64
	minVolumeKalshi float64
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger used to report dropped records.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// WithMinVolume drops records whose total volume is below the given floors.
func WithMinVolume(polymarket, kalshi float64) Option {
	return func(n *Normalizer) {
		n.minVolumePoly = polymarket
		n.minVolumeKalshi = kalshi
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{logger: slog.Default()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Polymarket normalizes Gamma markets. Duplicate slugs keep the first.
func (n *Normalizer) Polymarket(markets []gamma.Market) []model.MarketRecord {
	out := make([]model.MarketRecord, 0, len(markets))
	seen := make(map[string]bool, len(markets))
	dropped := 0

	for i := range markets {
		rec, err := PolymarketRecord(&markets[i])
		if err != nil {
			n.drop(err)
			dropped++
			continue
		}
		if rec.Volume < n.minVolumePoly || seen[rec.Slug] {
			continue
		}
		seen[rec.Slug] = true
		out = append(out, rec)
	}

	n.logger.Debug("normalized polymarket",
		"input", len(markets),
		"kept", len(out),
		"malformed", dropped,
	)
	return out
}

// Kalshi normalizes the nested markets of Kalshi events. Duplicate tickers
// keep the first.
func (n *Normalizer) Kalshi(events []api.APIEvent) []model.MarketRecord {
	var out []model.MarketRecord
	seen := make(map[string]bool)
	input, dropped := 0, 0

	for i := range events {
		ev := &events[i]
		for j := range ev.Markets {
			input++
			rec, err := KalshiRecord(ev, &ev.Markets[j])
			if err != nil {
				n.drop(err)
				dropped++
				continue
			}
			if rec.Volume < n.minVolumeKalshi || seen[rec.Slug] {
				continue
			}
			seen[rec.Slug] = true
			out = append(out, rec)
		}
	}

	n.logger.Debug("normalized kalshi",
		"events", len(events),
		"input", input,
		"kept", len(out),
		"malformed", dropped,
	)
	return out
}

func (n *Normalizer) drop(err error) {
	var mErr *MalformedRecordError
	if errors.As(err, &mErr) {
		n.logger.Debug("dropped malformed record",
			"source", mErr.Source,
			"id", mErr.ID,
			"reason", mErr.Reason,
		)
		return
	}
	n.logger.Debug("dropped record", "error", err)
}

// PolymarketRecord normalizes one Gamma market. The API-reported daily
// change is carried as-is; plausibility is checked by the delta corrector.
func PolymarketRecord(m *gamma.Market) (model.MarketRecord, error) {
	src := model.SourcePolymarket
	if m.ID == "" {
		return model.MarketRecord{}, malformed(src, "", "missing id")
	}

	yes, err := yesPrice(m)
	if err != nil {
		return model.MarketRecord{}, malformed(src, m.ID, "%v", err)
	}
	if yes < 0 || yes > 1 {
		return model.MarketRecord{}, malformed(src, m.ID, "price %v outside 0-1", yes)
	}

	slug := m.Slug
	if slug == "" {
		slug = m.ID
	}
	pageSlug := slug
	var tagSlugs []string
	if len(m.Events) > 0 {
		if m.Events[0].Slug != "" {
			pageSlug = m.Events[0].Slug
		}
		for _, t := range m.Events[0].Tags {
			tagSlugs = append(tagSlugs, t.Slug)
		}
	}
	for _, t := range m.Tags {
		tagSlugs = append(tagSlugs, t.Slug)
	}

	rec := model.MarketRecord{
		Source:    src,
		ID:        m.ID,
		Slug:      slug,
		Question:  strings.TrimSpace(m.Question),
		URL:       polymarketURL + pageSlug,
		Prob:      model.Round1(yes * 100),
		Volume:    m.TotalVolume(),
		Volume24h: m.Volume24hr.Float64(),
		Liquidity: m.TotalLiquidity(),
		EndDate:   parseEndDate(m.EndDate, m.EndDateISO),
		Category:  PolymarketCategory(tagSlugs, m.Category, m.Question),
	}
	if m.OneDayPriceChange.Valid {
		rec.SetChange(model.Float(m.OneDayPriceChange.Float64() * 100))
	} else {
		rec.SetChange(nil)
	}
	finish(&rec)
	return rec, nil
}

// yesPrice returns the price of the "Yes" outcome, or the first outcome
// when outcome names are absent.
func yesPrice(m *gamma.Market) (float64, error) {
	prices, err := m.ParseOutcomePrices()
	if err != nil {
		return 0, errors.New("unparseable outcome prices")
	}
	if len(prices) == 0 {
		return 0, errors.New("missing outcome prices")
	}

	idx := 0
	if outcomes, err := m.ParseOutcomes(); err == nil {
		for i, o := range outcomes {
			if strings.EqualFold(o, "yes") && i < len(prices) {
				idx = i
				break
			}
		}
	}

	p, err := strconv.ParseFloat(strings.TrimSpace(prices[idx]), 64)
	if err != nil {
		return 0, errors.New("unparseable probability")
	}
	return p, nil
}

// KalshiRecord normalizes one market of a Kalshi event. Change is left
// unknown; Kalshi's previous-price fields are unreliable and the delta
// corrector derives change from the price snapshot instead.
func KalshiRecord(ev *api.APIEvent, m *api.APIMarket) (model.MarketRecord, error) {
	src := model.SourceKalshi
	if m.Ticker == "" {
		return model.MarketRecord{}, malformed(src, "", "missing ticker")
	}

	bid, ask, last := m.Quote()
	var prob float64
	switch {
	case bid > 0 || ask > 0:
		prob = (bid + ask) / 2
	case last > 0:
		prob = last
	default:
		return model.MarketRecord{}, malformed(src, m.Ticker, "no quote")
	}
	if prob > 100 {
		return model.MarketRecord{}, malformed(src, m.Ticker, "price %v outside 0-100", prob)
	}

	question := ev.Question(m)
	rec := model.MarketRecord{
		Source:    src,
		ID:        m.Ticker,
		Slug:      m.Ticker,
		Question:  question,
		URL:       kalshiURL + m.Ticker,
		Prob:      model.Round1(prob),
		Volume:    float64(m.Volume) / 100,
		Volume24h: float64(m.Volume24h) / 100,
		Liquidity: float64(m.Liquidity) / 100,
		EndDate:   api.ParseTimestamp(m.CloseTime),
		Category:  KalshiCategory(ev.Category, question),
	}
	rec.SetChange(nil)
	finish(&rec)
	return rec, nil
}

// finish fills the display fields derived from the numeric ones.
func finish(rec *model.MarketRecord) {
	rec.VolumeFmt = model.FormatVolume(rec.Volume)
	rec.EndDateFmt = model.FormatEndDate(rec.EndDate)
	if rec.Category == "" {
		rec.Category = model.CategoryFallback
	}
}

func parseEndDate(values ...string) time.Time {
	for _, v := range values {
		if v == "" {
			continue
		}
		if t := api.ParseTimestamp(v); !t.IsZero() {
			return t
		}
		if t, err := time.Parse(time.DateOnly, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
