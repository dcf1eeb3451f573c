package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/prob-markets/internal/model"
	"github.com/rickgao/prob-markets/internal/topic"
)

func rec(slug, question string, prob, vol, vol24 float64) model.MarketRecord {
	return model.MarketRecord{
		Source:    model.SourcePolymarket,
		ID:        slug,
		Slug:      slug,
		Question:  question,
		Prob:      prob,
		Volume:    vol,
		Volume24h: vol24,
	}
}

func slugs(records []model.MarketRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Slug
	}
	return out
}

func TestRun_DateLadderKeepsMaxVolume24h(t *testing.T) {
	input := []model.MarketRecord{
		rec("strike-mar-7", "Will the US strike Iran by Mar 7?", 12, 2_000_000, 40_000),
		rec("strike-mar-14", "Will the US strike Iran by Mar 14?", 21, 1_500_000, 310_000),
		rec("strike-mar-31", "Will the US strike Iran by March 31, 2026?", 35, 3_000_000, 95_000),
		rec("other", "Who will win the Super Bowl?", 30, 5_000_000, 100_000),
	}

	got, stats := New().Run(input)

	assert.Equal(t, []string{"strike-mar-14", "other"}, slugs(got))
	assert.Equal(t, 2, stats.LadderDropped)
	assert.False(t, got[0].RangeBucket)
	assert.Equal(t, topic.Fingerprint("Will the US strike Iran by Mar 14?"), got[0].Topic)
}

func TestRun_DateLadderTies(t *testing.T) {
	input := []model.MarketRecord{
		rec("b", "Fed cut by June?", 40, 100, 50),
		rec("a", "Fed cut by July?", 40, 100, 50),
		rec("c", "Fed cut by August?", 40, 900, 50),
	}

	got, _ := New().Run(input)
	assert.Equal(t, []string{"c"}, slugs(got), "larger total volume breaks the 24h tie")

	got, _ = New().Run(input[:2])
	assert.Equal(t, []string{"a"}, slugs(got), "smaller slug breaks the remaining tie")
}

func TestRun_RangeBucketKeepsMaxProb(t *testing.T) {
	input := []model.MarketRecord{
		rec("KXFED-H0", "Fed decision in March :: Hold", 61.5, 1_200_000, 90_000),
		rec("KXFED-C25", "Fed decision in March :: Cut 25bps", 35, 800_000, 120_000),
		rec("KXFED-C50", "Fed decision in March :: Cut 50bps", 2, 50_000, 1_000),
		rec("seats-210", "Will Democrats win 210-219 House seats?", 18, 300_000, 10_000),
		rec("seats-220", "Will Democrats win 220-229 House seats?", 44, 250_000, 12_000),
	}

	got, stats := New().Run(input)

	require.Equal(t, []string{"KXFED-H0", "seats-220"}, slugs(got))
	assert.Equal(t, 3, stats.BucketDropped)
	for _, r := range got {
		assert.True(t, r.RangeBucket, r.Slug)
	}
}

func TestRun_LoneBucketStillMarked(t *testing.T) {
	got, _ := New().Run([]model.MarketRecord{
		rec("KXTWEETS-250", "Elon Musk # of tweets Mar 7 - Mar 14 :: 250+", 30, 100_000, 5_000),
	})
	require.Len(t, got, 1)
	assert.True(t, got[0].RangeBucket)
}

func TestRun_SlugDedupFirstWins(t *testing.T) {
	input := []model.MarketRecord{
		rec("dup", "Will it snow in Miami?", 10, 100, 10),
		rec("dup", "Will it snow in Miami?", 90, 100, 10),
	}

	got, stats := New().Run(input)
	require.Len(t, got, 1)
	assert.Equal(t, 10.0, got[0].Prob)
	assert.Equal(t, 1, stats.DuplicateSlugs)
}

func TestRun_UnsharedTopicsPassThrough(t *testing.T) {
	input := []model.MarketRecord{
		rec("a", "Will Bitcoin reach $100k by Mar 7?", 10, 100, 10),
		rec("b", "Will Ethereum reach $5k by Mar 7?", 20, 100, 10),
		rec("c", "Who will win the Super Bowl?", 30, 100, 10),
	}

	got, stats := New().Run(input)
	assert.Equal(t, []string{"a", "b", "c"}, slugs(got))
	assert.Equal(t, 0, stats.LadderDropped+stats.BucketDropped)
}

func TestRun_DoesNotModifyInput(t *testing.T) {
	input := []model.MarketRecord{
		rec("a", "Will Democrats win 220-229 House seats?", 10, 100, 10),
	}
	_, _ = New().Run(input)
	assert.Empty(t, input[0].Topic)
	assert.False(t, input[0].RangeBucket)
}

// Every consolidated group keeps exactly one member: the 24h-volume max for
// ladders and the probability max for buckets.
func TestRun_GroupProperty(t *testing.T) {
	input := []model.MarketRecord{
		rec("l1", "Will Zelensky and Putin meet by March 31?", 10, 1000, 300),
		rec("l2", "Will Zelenskyy and Putin meet by June 30, 2026?", 20, 1000, 700),
		rec("l3", "Will Zelensky and Putin meet before 2027?", 30, 1000, 500),
		rec("b1", "Bitcoin price on Friday :: $90,000 to $94,999", 22, 1000, 10),
		rec("b2", "Bitcoin price on Friday :: $95,000 to $99,999", 48, 1000, 10),
		rec("b3", "Bitcoin price on Friday :: $100,000 or above", 30, 1000, 10),
	}

	got, _ := New().Run(input)

	byTopic := make(map[string][]model.MarketRecord)
	for _, r := range got {
		byTopic[r.Topic] = append(byTopic[r.Topic], r)
	}
	for key, members := range byTopic {
		assert.Len(t, members, 1, key)
	}
	assert.ElementsMatch(t, []string{"l2", "b2"}, slugs(got))
}
