package chase

import (
	"testing"
	"time"

	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

func newState() *state.GameState {
	return &state.GameState{
		RNG: mathx.NewRNG(3),
		Player: state.Player{
			Faction:    tuning.FactionEnglish,
			Gold:       1000,
			Supplies:   30,
			Cargo:      map[string]int{"rum": 10},
			Reputation: map[string]int{},
			Titles:     map[string]int{},
			Ship:       state.Ship{Hull: 100, Rigging: 100, Morale: 80},
		},
		Pending: &state.Encounter{Kind: state.EncounterPirate, Cost: 50},
	}
}

func start(t *testing.T, cfg *tuning.Tuning, gs *state.GameState) (*state.Chase, *FakeClock) {
	t.Helper()
	clk := NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	c, r := Start(cfg, gs, clk)
	if !r.Success {
		t.Fatalf("start: %s", r.Reason)
	}
	return c, clk
}

func TestStartNeedsSomethingToRunFrom(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState()
	gs.Pending = &state.Encounter{Kind: state.EncounterWreck}
	if _, r := Start(&cfg, gs, RealClock{}); r.Reason != ReasonCannotRun {
		t.Fatalf("wreck: got %q", r.Reason)
	}
}

func TestStartUsesShipOdds(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState()
	c, _ := start(t, &cfg, gs)
	if c.EscapeChance < cfg.Chase.MinEscape || c.EscapeChance > cfg.Chase.MaxEscape {
		t.Fatalf("escape: got %v", c.EscapeChance)
	}
	if c.DurationMs < cfg.Chase.MinDurationMs || c.DurationMs > cfg.Chase.MaxDurationMs {
		t.Fatalf("duration: got %d", c.DurationMs)
	}
}

func TestActionsOncePerChase(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState()
	c, clk := start(t, &cfg, gs)
	c.EscapeChance = 0.5

	if r := Act(&cfg, gs, clk, state.ChaseTrim); !r.Success {
		t.Fatalf("trim: %s", r.Reason)
	}
	if c.EscapeChance != 0.6 {
		t.Fatalf("after trim: got %v want 0.6", c.EscapeChance)
	}
	if gs.Player.Ship.Rigging != 95 {
		t.Fatalf("rigging: got %v want 95", gs.Player.Ship.Rigging)
	}
	if r := Act(&cfg, gs, clk, state.ChaseTrim); r.Reason != ReasonUsed {
		t.Fatalf("second trim: got %q", r.Reason)
	}
	if r := Act(&cfg, gs, clk, state.ChaseJettison); !r.Success {
		t.Fatalf("jettison: %s", r.Reason)
	}
	if gs.Player.Cargo["rum"] != 8 || c.Jettisoned != 2 {
		t.Fatalf("jettison: rum %d thrown %d", gs.Player.Cargo["rum"], c.Jettisoned)
	}
	if r := Act(&cfg, gs, clk, "pray"); r.Reason != ReasonUnknown {
		t.Fatalf("unknown: got %q", r.Reason)
	}
}

func TestEscapeCapped(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState()
	c, clk := start(t, &cfg, gs)
	c.EscapeChance = 0.9
	Act(&cfg, gs, clk, state.ChaseJettison)
	if c.EscapeChance != cfg.Chase.ActionCap {
		t.Fatalf("cap: got %v want %v", c.EscapeChance, cfg.Chase.ActionCap)
	}
}

func TestJukeCooldownAndOnce(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState()
	c, clk := start(t, &cfg, gs)
	if r := Act(&cfg, gs, clk, state.ChaseTrim); !r.Success {
		t.Fatalf("trim: %s", r.Reason)
	}
	clk.Advance(time.Second)
	if r := Act(&cfg, gs, clk, state.ChaseJuke); r.Reason != ReasonCooldown {
		t.Fatalf("juke right after trim: got %q", r.Reason)
	}
	clk.Advance(2 * time.Second)
	before := c.EscapeChance
	if r := Act(&cfg, gs, clk, state.ChaseJuke); !r.Success {
		t.Fatalf("juke after cooldown: %s", r.Reason)
	}
	if c.EscapeChance <= before {
		t.Fatalf("juke did not help: %v -> %v", before, c.EscapeChance)
	}
	clk.Advance(time.Duration(cfg.Chase.JukeCooldownMs) * time.Millisecond)
	if r := Act(&cfg, gs, clk, state.ChaseJuke); r.Reason != ReasonUsed {
		t.Fatalf("second juke: got %q", r.Reason)
	}
}

func TestTickResolvesOnce(t *testing.T) {
	cfg := tuning.Defaults()
	cfg.Chase.HazardChance = 0
	gs := newState()
	c, clk := start(t, &cfg, gs)
	c.EscapeChance = 0

	clk.Advance(time.Second)
	rep, _ := Tick(&cfg, gs, clk)
	if rep.Done || rep.RemainingMs != c.DurationMs-1000 {
		t.Fatalf("mid chase: %+v", rep)
	}

	clk.Advance(time.Minute)
	rep, _ = Tick(&cfg, gs, clk)
	if !rep.Done || rep.Escaped {
		t.Fatalf("resolve: %+v", rep)
	}
	if gs.Player.Gold != 950 || gs.Pending != nil {
		t.Fatalf("caught by pirates: gold %d pending %v", gs.Player.Gold, gs.Pending)
	}

	rep, _ = Tick(&cfg, gs, clk)
	if !rep.Done || gs.Player.Gold != 950 {
		t.Fatalf("second poll changed state: %+v gold %d", rep, gs.Player.Gold)
	}
	if r := Act(&cfg, gs, clk, state.ChaseRisky); r.Reason != ReasonNoChase {
		t.Fatalf("act after resolve: got %q", r.Reason)
	}
}

func TestTickEscape(t *testing.T) {
	cfg := tuning.Defaults()
	cfg.Chase.HazardChance = 0
	gs := newState()
	gs.Pending = &state.Encounter{Kind: state.EncounterBountyHunter, Hunter: "Captain Blackwood", Strength: 1.2}
	gs.Player.Bounty = 300
	c, clk := start(t, &cfg, gs)
	c.EscapeChance = 1

	clk.Advance(time.Duration(c.DurationMs) * time.Millisecond)
	rep, _ := Tick(&cfg, gs, clk)
	if !rep.Escaped {
		t.Fatalf("escape: %+v", rep)
	}
	if gs.Player.Bounty != 310 || gs.Player.Stats.ChasesEscaped != 1 {
		t.Fatalf("after escape: bounty %d escapes %d", gs.Player.Bounty, gs.Player.Stats.ChasesEscaped)
	}
}

func TestHazardsRollPerSecond(t *testing.T) {
	cfg := tuning.Defaults()
	cfg.Chase.HazardChance = 1
	cfg.Chase.HazardTypes = []string{HazardRocks}
	gs := newState()
	c, clk := start(t, &cfg, gs)

	clk.Advance(3500 * time.Millisecond)
	rep, _ := Tick(&cfg, gs, clk)
	if rep.Hazard != HazardRocks || len(c.Hazards) != 3 {
		t.Fatalf("hazards: %+v %v", rep, c.Hazards)
	}
	if gs.Player.Ship.Hull != 85 {
		t.Fatalf("hull: got %v want 85", gs.Player.Ship.Hull)
	}
}
