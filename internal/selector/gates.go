package selector

import (
	"regexp"
	"strings"

	"github.com/rickgao/prob-markets/internal/model"
)

// Gate is one eligibility check. Every gate must pass.
type Gate struct {
	Name string
	Pass func(m *model.MarketRecord) bool
}

// JunkPatterns match market families that never make a good headline:
// celebrity prop bets, micro-denomination price bands and social-media
// counts. Patterns run against the lowercased question.
var JunkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bwill .+ (?:say|says|mention|wear)\b`),
	regexp.MustCompile(`#\s*of\s+(?:tweets|posts|truth social posts)`),
	regexp.MustCompile(`\b(?:tweets?|retweets|followers|subscribers)\b`),
	regexp.MustCompile(`\$0\.0\d*`),
	regexp.MustCompile(`\bprice (?:of|on|at) .+ \$?\d[\d,.]*\s*(?:-|to)\s*\$?\d`),
}

// Tier is a pair of volume floors: one for sports and one for everything
// else.
type Tier struct {
	MinVolume       float64
	MinVolumeSports float64
}

// Floor returns the volume floor that applies to m.
func (t Tier) Floor(m *model.MarketRecord) float64 {
	if m.Category == model.CategorySports {
		return t.MinVolumeSports
	}
	return t.MinVolume
}

// Gates returns the ordered eligibility checks for a tier.
func (s *Selector) Gates(t Tier) []Gate {
	return []Gate{
		{"volume", func(m *model.MarketRecord) bool {
			return m.Volume >= t.Floor(m)
		}},
		{"unresolved", func(m *model.MarketRecord) bool {
			return m.Prob > s.cfg.ProbLow && m.Prob < s.cfg.ProbHigh
		}},
		{"not_junk", func(m *model.MarketRecord) bool {
			return !IsJunk(m.Question)
		}},
		{"not_range_bucket", func(m *model.MarketRecord) bool {
			return !m.RangeBucket
		}},
	}
}

// Rejection returns the name of the first failing gate, or "" if m passes
// them all.
func Rejection(gates []Gate, m *model.MarketRecord) string {
	for _, g := range gates {
		if !g.Pass(m) {
			return g.Name
		}
	}
	return ""
}

// IsJunk reports whether the question matches a JunkPatterns entry.
func IsJunk(question string) bool {
	q := strings.ToLower(question)
	for _, re := range JunkPatterns {
		if re.MatchString(q) {
			return true
		}
	}
	return false
}
