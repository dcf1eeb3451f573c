package delta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/prob-markets/internal/model"
)

func kalshi(id string, prob float64) model.MarketRecord {
	return model.MarketRecord{Source: model.SourceKalshi, ID: id, Slug: id, Prob: prob}
}

func poly(id string, prob float64, change *float64) model.MarketRecord {
	return model.MarketRecord{Source: model.SourcePolymarket, ID: id, Slug: id, Prob: prob, ChangePts: change}
}

func TestCorrect_Snapshot(t *testing.T) {
	prior := model.NewPriceSnapshot(time.Now())
	prior.Prices["KXA"] = 40.0
	prior.Prices["KXB"] = 55.25

	records := []model.MarketRecord{
		kalshi("KXA", 47.0),
		kalshi("KXB", 50.0),
		kalshi("KXNEW", 12.0),
	}

	got, stats := New().Correct(records, prior)

	require.NotNil(t, got[0].ChangePts)
	assert.Equal(t, 7.0, *got[0].ChangePts)
	assert.Equal(t, model.DirectionUp, got[0].Direction)

	require.NotNil(t, got[1].ChangePts)
	assert.Equal(t, -5.3, *got[1].ChangePts, "rounded to one decimal")
	assert.Equal(t, model.DirectionDown, got[1].Direction)

	assert.Nil(t, got[2].ChangePts, "first sighting has no change")
	assert.Equal(t, model.DirectionFlat, got[2].Direction)

	assert.Equal(t, Stats{FromSnapshot: 2, FirstSeen: 1}, stats)
}

func TestCorrect_IgnoresReportedChangeForSnapshotSource(t *testing.T) {
	// Kalshi's previous price arrives as zero, so a naive change equals prob.
	rec := kalshi("KXA", 47.0)
	rec.ChangePts = model.Float(47.0)

	got, _ := New().Correct([]model.MarketRecord{rec}, nil)
	assert.Nil(t, got[0].ChangePts)
}

func TestCorrect_Trusted(t *testing.T) {
	records := []model.MarketRecord{
		poly("up", 60, model.Float(4.04)),
		poly("flat", 60, model.Float(0.4)),
		poly("unknown", 60, nil),
		poly("bad-high", 10, model.Float(-95)), // implies prior 105
		poly("bad-low", 10, model.Float(30)),   // implies prior -20
		poly("edge", 100, model.Float(100)),    // implies prior 0
	}

	got, stats := New().Correct(records, nil)

	assert.Equal(t, 4.0, *got[0].ChangePts)
	assert.Equal(t, model.DirectionUp, got[0].Direction)
	assert.Equal(t, model.DirectionFlat, got[1].Direction)
	assert.Nil(t, got[2].ChangePts)
	assert.Equal(t, 0.0, *got[3].ChangePts)
	assert.Equal(t, model.DirectionFlat, got[3].Direction)
	assert.Equal(t, 0.0, *got[4].ChangePts)
	assert.Equal(t, 100.0, *got[5].ChangePts)

	assert.Equal(t, 2, stats.Implausible)
	assert.Equal(t, 3, stats.Trusted)
}

func TestCorrect_DoesNotModifyInput(t *testing.T) {
	records := []model.MarketRecord{poly("bad", 10, model.Float(30))}
	_, _ = New().Correct(records, nil)
	assert.Equal(t, 30.0, *records[0].ChangePts)
}

func TestWithSnapshotSources(t *testing.T) {
	prior := model.NewPriceSnapshot(time.Now())
	prior.Prices["p1"] = 50

	c := New(WithSnapshotSources(model.SourcePolymarket))
	assert.True(t, c.UsesSnapshot(model.SourcePolymarket))
	assert.False(t, c.UsesSnapshot(model.SourceKalshi))

	got, _ := c.Correct([]model.MarketRecord{poly("p1", 53, model.Float(-20))}, prior)
	assert.Equal(t, 3.0, *got[0].ChangePts)
}

func TestPlausible(t *testing.T) {
	assert.True(t, Plausible(50, 10))
	assert.True(t, Plausible(0, 0))
	assert.True(t, Plausible(100, 100))
	assert.False(t, Plausible(5, 6))
	assert.False(t, Plausible(95, -6))
}

func TestCapture(t *testing.T) {
	now := time.Date(2026, 3, 7, 20, 0, 0, 0, time.UTC)
	records := []model.MarketRecord{
		kalshi("KXA", 47.0),
		kalshi("KXB", 12.5),
		poly("p1", 60, nil),
	}

	snap := New().Capture(records, now)

	assert.Equal(t, now, snap.UpdatedISO)
	assert.Equal(t, map[string]float64{"KXA": 47.0, "KXB": 12.5}, snap.Prices)
}

// The snapshot captured by one run feeds the next.
func TestCaptureThenCorrect(t *testing.T) {
	c := New()
	snap := c.Capture([]model.MarketRecord{kalshi("KXA", 40.0)}, time.Now())

	got, _ := c.Correct([]model.MarketRecord{kalshi("KXA", 47.0)}, snap)
	require.NotNil(t, got[0].ChangePts)
	assert.Equal(t, 7.0, *got[0].ChangePts)
}
