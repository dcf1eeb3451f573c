package commentary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rickgao/prob-markets/internal/model"
)

func describe(b *strings.Builder, m *model.MarketRecord) {
	fmt.Fprintf(b, "Market: %s\n", m.Question)
	fmt.Fprintf(b, "Source: %s\n", m.Source)
	fmt.Fprintf(b, "Category: %s\n", m.Category)
	fmt.Fprintf(b, "Current odds: %.1f%%\n", m.Prob)
	if m.ChangePts != nil {
		fmt.Fprintf(b, "24h change: %+.1f points\n", *m.ChangePts)
	}
	fmt.Fprintf(b, "Volume: %s\n", m.VolumeFmt)
	if m.EndDateFmt != "" {
		fmt.Fprintf(b, "Closes: %s\n", m.EndDateFmt)
	}
}

func heroPrompt(m *model.MarketRecord) string {
	var b strings.Builder
	describe(&b, m)
	b.WriteString("\nWrite a two-sentence take on this market for the top of today's issue. ")
	b.WriteString("Say what the odds imply and whether a sharp bettor should agree. ")
	b.WriteString("No quotes. No intro phrases. Just the two sentences.")
	return b.String()
}

func dailyPrompt(d *Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n\nTop market:\n", d.Date.Format("January 2, 2006"))
	describe(&b, &d.Hero)
	b.WriteString("\nOther movers:\n")
	for _, m := range d.Movers {
		fmt.Fprintf(&b, "- [%s] %s (%.1f%%", m.Slug, m.Question, m.Prob)
		if m.ChangePts != nil {
			fmt.Fprintf(&b, ", %+.1f pts", *m.ChangePts)
		}
		b.WriteString(")\n")
	}
	fmt.Fprintf(&b, `
Write today's editorial about the top market. Reply with JSON only, no prose around it:
{"headline": "under 80 characters", "deck": "two or three sentences", "category_label": "one or two words", "sidebar": [{"label": "short hook", "slug": "slug of another mover"}]}
Use at most %d sidebar entries, each a different mover slug from the list above.`, SidebarSize)
	return b.String()
}

type dailyReply struct {
	Headline      string `json:"headline"`
	Deck          string `json:"deck"`
	CategoryLabel string `json:"category_label"`
	Sidebar       []struct {
		Label string `json:"label"`
		Slug  string `json:"slug"`
	} `json:"sidebar"`
}

// parseDaily decodes the JSON object embedded in text. Sidebar entries are
// resolved against the digest movers; unknown or repeated slugs are dropped.
func parseDaily(text string, d *Digest) (*model.DailyTake, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no json object in reply")
	}

	var reply dailyReply
	if err := json.Unmarshal([]byte(text[start:end+1]), &reply); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	if strings.TrimSpace(reply.Headline) == "" {
		return nil, fmt.Errorf("reply has no headline")
	}

	movers := make(map[string]*model.MarketRecord, len(d.Movers))
	for i := range d.Movers {
		movers[d.Movers[i].Slug] = &d.Movers[i]
	}

	take := &model.DailyTake{
		Headline:      Clean(reply.Headline),
		Deck:          Clean(reply.Deck),
		CategoryLabel: Clean(reply.CategoryLabel),
		HeroURL:       d.Hero.URL,
		Sidebar:       []model.SidebarItem{},
	}
	for _, item := range reply.Sidebar {
		if len(take.Sidebar) >= SidebarSize {
			break
		}
		m, ok := movers[item.Slug]
		if !ok {
			continue
		}
		delete(movers, item.Slug)
		take.Sidebar = append(take.Sidebar, model.SidebarItem{
			Label:    Clean(item.Label),
			Question: m.Question,
			URL:      m.URL,
		})
	}
	if take.CategoryLabel == "" {
		take.CategoryLabel = string(d.Hero.Category)
	}
	return take, nil
}
