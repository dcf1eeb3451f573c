package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDirectionFor(t *testing.T) {
	tests := []struct {
		change float64
		want   Direction
	}{
		{0, DirectionFlat},
		{0.5, DirectionFlat},
		{-0.5, DirectionFlat},
		{0.6, DirectionUp},
		{-0.6, DirectionDown},
		{12, DirectionUp},
	}

	for _, tt := range tests {
		if got := DirectionFor(tt.change); got != tt.want {
			t.Errorf("DirectionFor(%v) = %q, want %q", tt.change, got, tt.want)
		}
	}
}

func TestMarketRecord_SetChange(t *testing.T) {
	t.Run("rounds and sets direction", func(t *testing.T) {
		var m MarketRecord
		m.SetChange(Float(6.96))
		if m.ChangePts == nil || *m.ChangePts != 7.0 {
			t.Fatalf("ChangePts = %v, want 7.0", m.ChangePts)
		}
		if m.Direction != DirectionUp {
			t.Errorf("Direction = %q, want %q", m.Direction, DirectionUp)
		}
	})

	t.Run("nil change is flat", func(t *testing.T) {
		m := MarketRecord{ChangePts: Float(3), Direction: DirectionUp}
		m.SetChange(nil)
		if m.ChangePts != nil {
			t.Errorf("ChangePts = %v, want nil", *m.ChangePts)
		}
		if m.Direction != DirectionFlat {
			t.Errorf("Direction = %q, want %q", m.Direction, DirectionFlat)
		}
		if m.AbsChange() != 0 {
			t.Errorf("AbsChange() = %v, want 0", m.AbsChange())
		}
	})
}

func TestFormatVolume(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{2_450_000, "$2.5M"},
		{1_000_000, "$1.0M"},
		{450_000, "$450K"},
		{999, "$999"},
		{0, "$0"},
	}

	for _, tt := range tests {
		if got := FormatVolume(tt.v); got != tt.want {
			t.Errorf("FormatVolume(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFormatEndDate(t *testing.T) {
	if got := FormatEndDate(time.Date(2026, 3, 7, 23, 0, 0, 0, time.UTC)); got != "Mar 7" {
		t.Errorf("FormatEndDate() = %q, want %q", got, "Mar 7")
	}
	if got := FormatEndDate(time.Time{}); got != "" {
		t.Errorf("FormatEndDate(zero) = %q, want empty", got)
	}
}

func TestHeroHistory(t *testing.T) {
	t.Run("append trims to window", func(t *testing.T) {
		var h HeroHistory
		for _, topic := range []string{"a", "b", "c", "d"} {
			h = h.Append(topic, 3)
		}
		if len(h) != 3 {
			t.Fatalf("len = %d, want 3", len(h))
		}
		if h[0] != "b" || h[2] != "d" {
			t.Errorf("history = %v, want [b c d]", h)
		}
		if h.Contains("a") {
			t.Error("expired topic should not be contained")
		}
		if !h.Contains("c") {
			t.Error("topic c should be contained")
		}
	})

	t.Run("append does not alias receiver", func(t *testing.T) {
		h := make(HeroHistory, 2, 10)
		h[0], h[1] = "x", "y"
		a := h.Append("a", 0)
		b := h.Append("b", 0)
		if a[2] != "a" || b[2] != "b" {
			t.Errorf("appends aliased: a=%v b=%v", a, b)
		}
	})
}

func TestPriceSnapshot_Lookup(t *testing.T) {
	var nilSnap *PriceSnapshot
	if _, ok := nilSnap.Lookup("X"); ok {
		t.Error("nil snapshot should not find entries")
	}

	s := NewPriceSnapshot(time.Now())
	s.Prices["KXFED-26MAR"] = 40
	p, ok := s.Lookup("KXFED-26MAR")
	if !ok || p != 40 {
		t.Errorf("Lookup() = %v, %v; want 40, true", p, ok)
	}
}

func TestHero_JSONFlattensRecord(t *testing.T) {
	h := Hero{
		MarketRecord: MarketRecord{Slug: "fed-cut", Prob: 47},
		ProbTake:     "Traders are leaning in.",
	}
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"slug":"fed-cut"`, `"prob":47`, `"prob_take":"Traders are leaning in."`, `"change_pts":null`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
}

func TestRunIDFor(t *testing.T) {
	at := time.Date(2026, 3, 7, 20, 4, 0, 0, time.UTC)

	id := RunIDFor(at)
	if id.Version() != 5 {
		t.Errorf("Version() = %d, want 5", id.Version())
	}
	if got := RunIDFor(at.Add(900 * time.Millisecond)); got != id {
		t.Errorf("RunIDFor(same second) = %v, want %v", got, id)
	}
	if got := RunIDFor(at.In(time.FixedZone("EST", -5*60*60))); got != id {
		t.Errorf("RunIDFor(other zone) = %v, want %v", got, id)
	}
	if got := RunIDFor(at.Add(time.Second)); got == id {
		t.Errorf("RunIDFor(next second) = %v, want a different id", got)
	}
}
