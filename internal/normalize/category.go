package normalize

import (
	"strings"

	"github.com/rickgao/prob-markets/internal/model"
)

// kalshiCategories maps Kalshi event categories to display categories.
var kalshiCategories = map[string]model.Category{
	"politics":               model.CategoryPolitics,
	"elections":              model.CategoryPolitics,
	"economics":              model.CategoryFinance,
	"financials":             model.CategoryFinance,
	"companies":              model.CategoryFinance,
	"science and technology": model.CategoryTechnology,
	"crypto":                 model.CategoryCrypto,
	"sports":                 model.CategorySports,
	"entertainment":          model.CategoryCulture,
	"social":                 model.CategoryCulture,
	"world":                  model.CategoryWorld,
	"climate and weather":    model.CategoryWorld,
	"health":                 model.CategoryWorld,
}

// tagCategories maps Polymarket tag slugs to display categories.
var tagCategories = map[string]model.Category{
	"politics":    model.CategoryPolitics,
	"elections":   model.CategoryPolitics,
	"us-politics": model.CategoryPolitics,
	"trump":       model.CategoryPolitics,
	"economy":     model.CategoryFinance,
	"finance":     model.CategoryFinance,
	"business":    model.CategoryFinance,
	"fed-rates":   model.CategoryFinance,
	"stocks":      model.CategoryFinance,
	"tech":        model.CategoryTechnology,
	"ai":          model.CategoryTechnology,
	"science":     model.CategoryTechnology,
	"crypto":      model.CategoryCrypto,
	"bitcoin":     model.CategoryCrypto,
	"ethereum":    model.CategoryCrypto,
	"sports":      model.CategorySports,
	"nba":         model.CategorySports,
	"nfl":         model.CategorySports,
	"soccer":      model.CategorySports,
	"pop-culture": model.CategoryCulture,
	"culture":     model.CategoryCulture,
	"movies":      model.CategoryCulture,
	"music":       model.CategoryCulture,
	"geopolitics": model.CategoryWorld,
	"world":       model.CategoryWorld,
	"middle-east": model.CategoryWorld,
	"ukraine":     model.CategoryWorld,
}

// categoryKeywords is checked in order; the first category with a keyword
// present in the question wins.
var categoryKeywords = []struct {
	category model.Category
	keywords []string
}{
	{model.CategorySports, []string{
		"nfl", "nba", "mlb", "nhl", "ufc", "soccer", "football", "basketball",
		"baseball", "hockey", "super bowl", "world series", "stanley cup",
		"champions league", "premier league", "world cup", "playoffs", "mvp",
		"grand slam", "wimbledon", "f1", "grand prix",
	}},
	{model.CategoryCrypto, []string{
		"bitcoin", "btc", "ethereum", "eth", "crypto", "solana", "dogecoin",
		"stablecoin", "xrp", "memecoin", "coinbase", "binance",
	}},
	{model.CategoryTechnology, []string{
		"ai", "openai", "chatgpt", "gpt", "anthropic", "nvidia", "apple",
		"google", "microsoft", "spacex", "starship", "tesla", "iphone", "chip",
	}},
	{model.CategoryFinance, []string{
		"fed", "federal reserve", "interest rate", "rate cut", "inflation",
		"cpi", "gdp", "recession", "unemployment", "s&p", "nasdaq", "dow",
		"stock", "ipo", "tariff", "treasury", "earnings",
	}},
	{model.CategoryPolitics, []string{
		"president", "congress", "senate", "house", "election", "primary",
		"nominee", "governor", "mayor", "republican", "democrat", "gop",
		"trump", "biden", "vance", "newsom", "supreme court", "cabinet",
		"impeach", "shutdown", "prime minister", "parliament",
	}},
	{model.CategoryCulture, []string{
		"oscar", "oscars", "grammy", "emmy", "movie", "film", "album",
		"box office", "netflix", "taylor swift", "celebrity", "tiktok",
		"youtube", "spotify", "eurovision",
	}},
	{model.CategoryWorld, []string{
		"war", "russia", "ukraine", "china", "taiwan", "iran", "israel",
		"gaza", "ceasefire", "nato", "sanctions", "strike", "invasion",
		"north korea", "venezuela", "pope",
	}},
}

// KalshiCategory maps a Kalshi event category, falling back to keyword
// detection on the question.
func KalshiCategory(eventCategory, question string) model.Category {
	if c, ok := kalshiCategories[strings.ToLower(strings.TrimSpace(eventCategory))]; ok {
		return c
	}
	return CategoryFromQuestion(question)
}

// PolymarketCategory maps the first recognized tag slug, then the market's
// own category string, then keywords in the question.
func PolymarketCategory(tagSlugs []string, category, question string) model.Category {
	for _, slug := range tagSlugs {
		if c, ok := tagCategories[strings.ToLower(slug)]; ok {
			return c
		}
	}
	if c, ok := tagCategories[strings.ToLower(strings.ReplaceAll(strings.TrimSpace(category), " ", "-"))]; ok {
		return c
	}
	return CategoryFromQuestion(question)
}

// CategoryFromQuestion detects a category from whole-word keywords in the
// question text. Unmatched questions land in model.CategoryFallback.
func CategoryFromQuestion(question string) model.Category {
	text := " " + wordsOnly(question) + " "
	for _, ck := range categoryKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(text, " "+kw+" ") {
				return ck.category
			}
		}
	}
	return model.CategoryFallback
}

// wordsOnly lowercases s and replaces every rune other than letters, digits
// and '&' with a space.
func wordsOnly(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r == '&' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}), " ")
}
