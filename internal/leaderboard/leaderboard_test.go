package leaderboard

import (
	"errors"
	"testing"

	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Anne Bonny  ", "Anne Bonny"},
		{"Calico   Jack\tRackham", "Calico Jack Rackha"},
		{`<b>"Black" Bart</b>`, "bBlack Bart/b"},
		{"Bartholomew Roberts the Third", "Bartholomew Roberts "},
		{"Tom & Jerry", "Tom Jerry"},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := SanitizeName(tc.in); got != tc.want {
			t.Fatalf("SanitizeName(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateBounds(t *testing.T) {
	cases := []struct {
		cat   Category
		value int
		day   int
		ok    bool
	}{
		{NetWorth, 15000, 1, true},
		{NetWorth, 15001, 1, false},
		{NetWorth, 60000, 10, true},
		{DaysAtSea, 10000, 10000, true},
		{DaysAtSea, 10001, 10001, false},
		{ContractsCompleted, 30, 10, true},
		{ContractsCompleted, 31, 10, false},
		{QuestlinesCompleted, 1, 1, true},
		{QuestlinesCompleted, 2, 10, false},
		{QuestlinesCompleted, 2, 11, true},
		{TradingProfit, 100000, 10, true},
		{TradingProfit, 100001, 10, false},
		{NetWorth, -1, 5, false},
	}
	for _, tc := range cases {
		err := Validate(tc.cat, tc.value, tc.day)
		if tc.ok && err != nil {
			t.Fatalf("%s %d day %d: %v", tc.cat, tc.value, tc.day, err)
		}
		if !tc.ok && !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("%s %d day %d: got %v want ErrOutOfBounds", tc.cat, tc.value, tc.day, err)
		}
	}
	if err := Validate("fastestSloop", 1, 1); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("unknown category: %v", err)
	}
}

func TestSubmission(t *testing.T) {
	cfg := tuning.Defaults()
	gs := &state.GameState{}
	gs.Player.Faction = tuning.FactionPirates
	gs.Player.Days = 4
	gs.Player.Gold = 900
	gs.Player.Cargo = map[string]int{"rum": 4, "silk": 1}
	gs.Player.Stats.ContractsCompleted = 2

	e, err := Submission(&cfg, gs, NetWorth, "  Mary   Read ", "run-1")
	if err != nil {
		t.Fatalf("submission: %v", err)
	}
	if e.Name != "Mary Read" || e.Score != 900+4*25+80 || e.Day != 4 || e.Faction != tuning.FactionPirates {
		t.Fatalf("entry: %+v", e)
	}
	if _, err := Submission(&cfg, gs, NetWorth, "<>", "run-1"); !errors.Is(err, ErrNoName) {
		t.Fatalf("empty name: %v", err)
	}
	gs.Player.Stats.ContractsCompleted = 13
	if _, err := Submission(&cfg, gs, ContractsCompleted, "Mary", ""); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("too many contracts: %v", err)
	}
}

func TestParseAndFormat(t *testing.T) {
	for _, c := range Categories {
		got, err := Parse(string(c))
		if err != nil || got != c || c.Info().Name == "" {
			t.Fatalf("parse %s: %v", c, err)
		}
	}
	if _, err := Parse("bogus"); err == nil {
		t.Fatalf("expected error")
	}
	if got := Format(NetWorth, 1234567); got != "1,234,567g" {
		t.Fatalf("format: %q", got)
	}
	if got := Format(DaysAtSea, 12); got != "12 days" {
		t.Fatalf("format: %q", got)
	}
}
