package progression

import (
	"testing"

	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

func newState(cfg *tuning.Tuning) *state.GameState {
	return &state.GameState{Player: state.Player{
		Faction:    tuning.FactionEnglish,
		Gold:       1000,
		Days:       1,
		Cargo:      map[string]int{},
		Reputation: map[string]int{},
		Titles:     map[string]int{},
	}}
}

func TestPowerUsesBasePrices(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg)
	gs.Player.Gold = 10000
	gs.Player.Cargo["silk"] = 10
	gs.Player.Upgrades = []string{"vault"}
	gs.Player.Days = 20
	gs.Player.Stats.ContractsCompleted = 3
	// 10000*.0005 + 800*.001 + 200 + merchant tier 3 at 10000 gold *50 + voyager tier 1 *50 + 40 + 30
	want := 5 + 0 + 200 + 150 + 50 + 40 + 30
	if got := Power(&cfg, &gs.Player); got != want {
		t.Fatalf("power: got %d want %d", got, want)
	}
}

func TestPhaseThresholds(t *testing.T) {
	cfg := tuning.Defaults()
	cases := map[int]string{0: PhaseEarly, 499: PhaseEarly, 500: PhaseMid, 1500: PhaseLate, 3000: PhaseEndgame}
	for power, want := range cases {
		if got := PhaseFor(&cfg, power); got != want {
			t.Fatalf("power %d: got %s want %s", power, got, want)
		}
	}
}

func TestScalingClamps(t *testing.T) {
	if got := Scaling(10000, 1, -0.0001, 0.7, 1); got != 0.7 {
		t.Fatalf("floor: got %v want 0.7", got)
	}
	if got := Scaling(0, 1, 0.0005, 1, 2); got != 1 {
		t.Fatalf("base: got %v want 1", got)
	}
	if got := Scaling(5000, 1, 0.0005, 1, 2); got != 2 {
		t.Fatalf("cap: got %v want 2", got)
	}
}

func TestTierExtrapolation(t *testing.T) {
	cfg := tuning.Defaults()
	tr, _ := cfg.Title(tuning.TrackSmuggler)
	cases := []struct {
		v    float64
		want int
	}{{0, 0}, {4, 0}, {5, 1}, {199, 4}, {200, 5}, {299, 5}, {300, 6}, {500, 8}}
	for _, c := range cases {
		if got := TierFor(tr, c.v); got != c.want {
			t.Fatalf("value %v: got tier %d want %d", c.v, got, c.want)
		}
	}
	if got := TierName(tr, 7); got != "Phantom 3" {
		t.Fatalf("extrapolated name: got %q", got)
	}
	if got := NextThreshold(tr, 250); got != 300 {
		t.Fatalf("next threshold: got %v want 300", got)
	}
}

func TestUpdateTitlesMonotonic(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg)
	gs.Player.Gold = 6000
	UpdateTitles(&cfg, gs)
	if gs.Player.Titles[tuning.TrackMerchant] != 3 {
		t.Fatalf("merchant tier: got %d want 3", gs.Player.Titles[tuning.TrackMerchant])
	}
	gs.Player.Gold = 0
	UpdateTitles(&cfg, gs)
	if gs.Player.Titles[tuning.TrackMerchant] != 3 {
		t.Fatalf("titles must not drop")
	}
}

func TestRepChangeClamped(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg)
	p := &gs.Player
	for i := 0; i < 50; i++ {
		ApplyRepChange(&cfg, p, tuning.FactionPirates, 17)
	}
	if p.Reputation[tuning.FactionPirates] != 100 {
		t.Fatalf("upper clamp: got %d", p.Reputation[tuning.FactionPirates])
	}
	for i := 0; i < 50; i++ {
		ApplyRepChange(&cfg, p, tuning.FactionPirates, -33)
	}
	if p.Reputation[tuning.FactionPirates] != -100 {
		t.Fatalf("lower clamp: got %d", p.Reputation[tuning.FactionPirates])
	}
}

func TestRepChangeTitleScaling(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg)
	p := &gs.Player
	p.Titles[tuning.TrackSmuggler] = 5 // 20% loss reduction
	if got := ApplyRepChange(&cfg, p, tuning.FactionEnglish, -10); got != -8 {
		t.Fatalf("reduced loss: got %d want -8", got)
	}
	p.Titles[tuning.TrackMerchant] = 10 // x1.2 gains
	if got := ApplyRepChange(&cfg, p, tuning.FactionEnglish, 10); got != 12 {
		t.Fatalf("boosted gain: got %d want 12", got)
	}
	if p.RepChanges.Lost != 8 || p.RepChanges.Gained != 12 {
		t.Fatalf("rep change stats: %+v", p.RepChanges)
	}
}

func TestEstimateCargoValueUsesMemory(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg)
	gs.Player.Cargo["rum"] = 2
	if got := EstimateCargoValue(&cfg, gs); got != 50 {
		t.Fatalf("base valuation: got %d want 50", got)
	}
	gs.Player.LastPrices = map[string]map[string]state.PriceMemo{"tortuga": {"rum": {Price: 40, Day: 1}}}
	if got := EstimateCargoValue(&cfg, gs); got != 80 {
		t.Fatalf("recorded valuation: got %d want 80", got)
	}
}
