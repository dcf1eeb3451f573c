package topic

import "regexp"

// Placeholders substituted for collapsed tokens.
const (
	PlaceholderDate  = "<date>"
	PlaceholderRange = "<range>"
	PlaceholderNum   = "<num>"
)

// SubBucketDelimiter separates an event title from a sub-bucket label in
// Kalshi multi-market events ("Fed decision in March :: Cut 25bps").
const SubBucketDelimiter = "::"

// Rule rewrites every match of Pattern with Replace.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

func rule(name, pattern, replace string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern), Replace: replace}
}

// Patterns operate on lowercased text.
const (
	month     = `(?:january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)`
	bareMonth = `(?:january|february|march|april|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)`
	amount    = `\$?\d[\d,]*(?:\.\d+)?\s?(?:k|m|b|bn|%)?`
)

// TickerParen matches short parenthetical ticker-style segments such as
// "(BTC)" or "(KXFED-25)". Longer parentheticals are left in the text.
var TickerParen = regexp.MustCompile(`\(\s*[a-z0-9.\-]{1,12}\s*\)`)

// DateRules collapse specific dates and deadlines so that "by Mar 7" and
// "by Mar 14" fingerprint identically. ISO dates must run before RangeRules.
var DateRules = []Rule{
	rule("iso_date", `\b\d{4}-\d{2}-\d{2}\b`, " "+PlaceholderDate+" "),
	rule("month_day", `\b`+month+`\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`, " "+PlaceholderDate+" "),
	rule("numeric_date", `\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`, " "+PlaceholderDate+" "),
	rule("quarter", `\bq[1-4](?:\s+\d{4})?\b`, " "+PlaceholderDate+" "),
	rule("month", `\b`+bareMonth+`\b(?:\s+\d{4})?`, " "+PlaceholderDate+" "),
	rule("weekday", `\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`, " "+PlaceholderDate+" "),
	rule("year", `\b20\d{2}\b`, " "+PlaceholderDate+" "),
}

// RangeRules collapse numeric brackets ("10-20 seats", "between $1 and $2").
var RangeRules = []Rule{
	rule("between", `\bbetween\s+`+amount+`\s+and\s+`+amount, " "+PlaceholderRange+" "),
	rule("span", amount+`\s*(?:-|–|\bto\b)\s*`+amount, " "+PlaceholderRange+" "),
	rule("open_ended", `\d[\d,]*\s?\+`, " "+PlaceholderRange+" "),
}

// NumberRules collapse the remaining thresholds: currency, percentages, counts.
var NumberRules = []Rule{
	rule("currency", `\$\s?\d[\d,]*(?:\.\d+)?\s?(?:k|m|b|bn|t|million|billion|trillion)?\b`, " "+PlaceholderNum+" "),
	rule("percent", `\d+(?:\.\d+)?\s?(?:%|percent\b|pct\b|bps\b|bp\b)`, " "+PlaceholderNum+" "),
	rule("number", `\b\d[\d,]*(?:\.\d+)?(?:k|m|b)?\b`, " "+PlaceholderNum+" "),
}

// SynonymRules fold recurring topic phrasings to one canonical phrase.
var SynonymRules = []Rule{
	rule("strike", `\b(?:launch(?:es|ed)?\s+)?(?:an?\s+)?(?:military\s+)?(?:air\s?strikes?|strikes?|bomb(?:s|ed|ing)?|attacks?|action\s+against|invade[sd]?|invasion\s+of)\b`, "strike"),
	rule("us", `(?:\bu\.s\.a?\.?|\busa\b|\bunited states\b|\bamerica\b)`, "us"),
	rule("election", `\b(?:presidential election|general election|elections?|electoral|be elected|wins? the (?:presidency|race))\b`, "election"),
	rule("fed", `\b(?:federal reserve|fomc|the fed)\b`, "fed"),
	rule("rate_cut", `\b(?:rate cuts?|cuts? (?:interest )?rates|lower (?:interest )?rates)\b`, "rate cut"),
	rule("ceasefire", `\b(?:cease-fire|ceasefire|truce)\b`, "ceasefire"),
	rule("trump", `\b(?:donald j\.? trump|donald trump|president trump|trump)\b`, "trump"),
	rule("biden", `\b(?:joe biden|president biden|biden)\b`, "biden"),
	rule("musk", `\b(?:elon musk|musk|elon)\b`, "musk"),
	rule("powell", `\b(?:jerome powell|jay powell|powell)\b`, "powell"),
	rule("zelensky", `\b(?:volodymyr zelensky[y]?|zelenskyy|zelensky)\b`, "zelensky"),
	rule("putin", `\b(?:vladimir putin|putin)\b`, "putin"),
	rule("netanyahu", `\b(?:benjamin netanyahu|netanyahu|bibi)\b`, "netanyahu"),
	rule("bitcoin", `\b(?:bitcoin|btc)\b`, "bitcoin"),
	rule("ethereum", `\b(?:ethereum|eth)\b`, "ethereum"),
}

// Stopwords are dropped from the final key.
var Stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "will": true, "be": true, "is": true,
	"are": true, "does": true, "do": true, "by": true, "before": true,
	"after": true, "on": true, "in": true, "at": true, "of": true, "to": true,
	"for": true, "end": true, "this": true, "that": true, "his": true,
	"her": true, "its": true,
}
