// Package commentary generates short editorial text for a catalog: a take
// on the hero market and a daily editorial built from a digest of the run.
//
// Generation is best effort. Every failure is returned wrapped in
// ErrUnavailable and callers continue with empty text.
package commentary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickgao/prob-markets/internal/model"
)

// ErrUnavailable is wrapped by every generation failure.
var ErrUnavailable = errors.New("commentary unavailable")

// Generator produces commentary for a run.
type Generator interface {
	HeroTake(ctx context.Context, hero model.MarketRecord) (string, error)
	DailyTake(ctx context.Context, digest Digest) (*model.DailyTake, error)
}

// Digest is the slice of a run the daily editorial is written from.
type Digest struct {
	Date   time.Time
	Hero   model.MarketRecord
	Movers []model.MarketRecord
}

// SidebarSize is the number of sidebar links kept in a daily take.
const SidebarSize = 3

// HouseStyle is the system prompt shared by every request.
const HouseStyle = "You write for The Prob, a prediction markets newsletter. " +
	"The north star: help readers make money in prediction markets. " +
	"Every piece of copy should deliver alpha, not just news. " +
	"Ask what the price move signals, whether the market is right, and what a sharp bettor would do. " +
	"Voice: sharp, confident, dry wit, slightly irreverent. " +
	"Intelligent but not academic. Opinionated but not arrogant. " +
	"NEVER use em dashes. Use a comma or start a new sentence instead. " +
	"Short sentences. Active voice. Numbers as numerals ($2M, 47%). " +
	"No hedging. No fluff. No filler."

// Clean trims generated text and replaces em dashes, which the house style
// forbids, with commas.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " \u2014 ", ", ")
	s = strings.ReplaceAll(s, "\u2014", ", ")
	s = strings.ReplaceAll(s, " -- ", ", ")
	return s
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}

// Noop is a Generator that always reports ErrUnavailable. It stands in
// when commentary is disabled.
type Noop struct{}

var errDisabled = errors.New("disabled")

// HeroTake implements Generator.
func (Noop) HeroTake(context.Context, model.MarketRecord) (string, error) {
	return "", unavailable("hero take", errDisabled)
}

// DailyTake implements Generator.
func (Noop) DailyTake(context.Context, Digest) (*model.DailyTake, error) {
	return nil, unavailable("daily take", errDisabled)
}
