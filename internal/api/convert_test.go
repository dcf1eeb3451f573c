package api

import (
	"math"
	"testing"
	"time"
)

func TestDollarsToCents(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"0.52", 52, true},
		{"0.5250", 52.5, true},
		{"0.00", 0, true},
		{"1.00", 100, true},
		{"  0.52  ", 52, true},
		{"", 0, false},
		{"invalid", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := DollarsToCents(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("DollarsToCents(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DollarsToCents(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	if got := ParseTimestamp(""); !got.IsZero() {
		t.Errorf("ParseTimestamp(\"\") = %v, want zero", got)
	}
	if got := ParseTimestamp("invalid"); !got.IsZero() {
		t.Errorf("ParseTimestamp(\"invalid\") = %v, want zero", got)
	}

	want := time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC)
	if got := ParseTimestamp("2026-03-07T15:00:00Z"); !got.Equal(want) {
		t.Errorf("ParseTimestamp(RFC3339) = %v, want %v", got, want)
	}
	if got := ParseTimestamp("2026-03-07T10:00:00-05:00"); !got.Equal(want) {
		t.Errorf("ParseTimestamp(offset) = %v, want %v", got, want)
	}
	if got := ParseTimestamp("2026-03-07T15:00:00"); !got.Equal(want) {
		t.Errorf("ParseTimestamp(no zone) = %v, want %v", got, want)
	}
}

func TestAPIMarket_Quote(t *testing.T) {
	t.Run("cents only", func(t *testing.T) {
		m := APIMarket{YesBid: 40, YesAsk: 44, LastPrice: 41}
		bid, ask, last := m.Quote()
		if bid != 40 || ask != 44 || last != 41 {
			t.Errorf("Quote() = (%v, %v, %v), want (40, 44, 41)", bid, ask, last)
		}
	})

	t.Run("dollar strings win", func(t *testing.T) {
		m := APIMarket{YesBid: 40, YesAsk: 44, YesBidDollars: "0.4050", YesAskDollars: "0.4350"}
		bid, ask, _ := m.Quote()
		if math.Abs(bid-40.5) > 1e-9 || math.Abs(ask-43.5) > 1e-9 {
			t.Errorf("Quote() = (%v, %v), want (40.5, 43.5)", bid, ask)
		}
	})
}

func TestAPIEvent_Question(t *testing.T) {
	single := APIEvent{
		Title:   "Will the Fed cut rates in March?",
		Markets: []APIMarket{{Ticker: "KXFEDCUT-26MAR", Title: "Fed cut in March?"}},
	}
	if got := single.Question(&single.Markets[0]); got != "Fed cut in March?" {
		t.Errorf("Question() = %q, want %q", got, "Fed cut in March?")
	}

	multi := APIEvent{
		Title:             "Fed decision in March",
		MutuallyExclusive: true,
		Markets: []APIMarket{
			{Ticker: "KXFED-H0", YesSubTitle: "Hold"},
			{Ticker: "KXFED-C25", Subtitle: "Cut 25bps"},
			{Ticker: "KXFED-C50"},
		},
	}
	want := []string{
		"Fed decision in March :: Hold",
		"Fed decision in March :: Cut 25bps",
		"Fed decision in March :: KXFED-C50",
	}
	for i := range multi.Markets {
		if got := multi.Question(&multi.Markets[i]); got != want[i] {
			t.Errorf("Question(%d) = %q, want %q", i, got, want[i])
		}
	}
}

func TestAPIEvent_Question_NotMutuallyExclusive(t *testing.T) {
	ev := APIEvent{
		Title: "Which companies will announce layoffs in March?",
		Markets: []APIMarket{
			{Ticker: "KXLAYOFF-AAPL", Title: "Will Apple announce layoffs in March?", YesSubTitle: "Apple"},
			{Ticker: "KXLAYOFF-MSFT", YesSubTitle: "Microsoft"},
		},
	}

	if got, want := ev.Question(&ev.Markets[0]), "Will Apple announce layoffs in March?"; got != want {
		t.Errorf("Question(0) = %q, want %q", got, want)
	}
	// Without a market title the bucket label is the only distinguishing text.
	if got, want := ev.Question(&ev.Markets[1]), "Which companies will announce layoffs in March? :: Microsoft"; got != want {
		t.Errorf("Question(1) = %q, want %q", got, want)
	}

	ev.MutuallyExclusive = true
	if got, want := ev.Question(&ev.Markets[0]), "Which companies will announce layoffs in March? :: Apple"; got != want {
		t.Errorf("Question(0) exclusive = %q, want %q", got, want)
	}
}
