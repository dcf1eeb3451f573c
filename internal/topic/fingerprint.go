// Package topic derives coarse topic keys from market question text.
//
// A key groups markets that describe the same underlying event at different
// deadlines, thresholds or brackets. The rules are heuristic: unrelated
// markets may share a key (false merge) and one event phrased two ways may
// produce two keys (false split). Both are accepted; the rule tables in
// rules.go are the single place to extend.
package topic

import (
	"strings"
	"unicode"
)

// Fingerprint returns the topic key for a question.
func Fingerprint(question string) string {
	q := strings.ToLower(question)
	if i := strings.Index(q, SubBucketDelimiter); i >= 0 {
		q = q[:i]
	}
	q = TickerParen.ReplaceAllString(q, " ")
	q = apply(q, DateRules)
	q = apply(q, RangeRules)
	q = apply(q, NumberRules)
	q = apply(q, SynonymRules)
	return tokens(q)
}

// HasDate reports whether the question carries a date or deadline token,
// the structural marker of a date ladder.
func HasDate(question string) bool {
	q := strings.ToLower(question)
	if i := strings.Index(q, SubBucketDelimiter); i >= 0 {
		q = q[:i]
	}
	return matchAny(q, DateRules)
}

// HasRange reports whether the question is one bracket of a range family:
// a Kalshi sub-bucket or a numeric span.
func HasRange(question string) bool {
	if strings.Contains(question, SubBucketDelimiter) {
		return true
	}
	q := apply(strings.ToLower(question), DateRules)
	return matchAny(q, RangeRules)
}

func apply(s string, rules []Rule) string {
	for _, r := range rules {
		s = r.Pattern.ReplaceAllString(s, r.Replace)
	}
	return s
}

func matchAny(s string, rules []Rule) bool {
	for _, r := range rules {
		if r.Pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// tokens strips punctuation and currency symbols, drops stopwords and
// repeated placeholders, and joins what remains with single spaces.
func tokens(s string) string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if !isPlaceholder(f) {
			f = strings.Map(func(r rune) rune {
				if unicode.IsLetter(r) || unicode.IsDigit(r) {
					return r
				}
				return -1
			}, f)
		}
		if f == "" || Stopwords[f] {
			continue
		}
		if n := len(out); n > 0 && out[n-1] == f && isPlaceholder(f) {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

func isPlaceholder(s string) bool {
	return s == PlaceholderDate || s == PlaceholderRange || s == PlaceholderNum
}
