package ship

import (
	"math"
	"testing"

	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

func newState(cfg *tuning.Tuning, faction string) *state.GameState {
	gs := &state.GameState{
		RNG: mathx.NewRNG(42),
		Player: state.Player{
			Faction:    faction,
			Days:       1,
			Supplies:   30,
			ShipClass:  cfg.DefaultShipClass(),
			Cargo:      map[string]int{},
			Reputation: map[string]int{},
			Titles:     map[string]int{},
		},
	}
	gs.Player.Ship = Fresh(cfg, &gs.Player)
	return gs
}

func TestCapacityByFaction(t *testing.T) {
	cfg := tuning.Defaults()
	cases := []struct {
		faction string
		want    int
	}{
		{tuning.FactionPirates, 50},
		{tuning.FactionEnglish, 50},
		{tuning.FactionEITC, 60},
	}
	for _, tc := range cases {
		gs := newState(&cfg, tc.faction)
		if got := Capacity(&cfg, &gs.Player); got != tc.want {
			t.Fatalf("%s capacity: got %d want %d", tc.faction, got, tc.want)
		}
	}
}

func TestCapacityUpgradesAndFloor(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg, tuning.FactionEnglish)
	gs.Player.Upgrades = []string{"reinforcedHold", "vault"}
	if got := Capacity(&cfg, &gs.Player); got != 42 {
		t.Fatalf("capacity: got %d want 42", got)
	}
	gs.Player.ShipClass = "sloop"
	gs.Player.Upgrades = append(gs.Player.Upgrades, "smugglerCompartments")
	if got := Capacity(&cfg, &gs.Player); got != 23 {
		t.Fatalf("sloop capacity: got %d want 23", got)
	}
}

func TestCanCarryCategoryLimit(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg, tuning.FactionEnglish)
	p := &gs.Player
	p.Upgrades = []string{"luxuryLocker"}
	if got := CategoryCapacity(&cfg, p, tuning.CategoryCommodity); got != 47 {
		t.Fatalf("commodity cap: got %d want 47", got)
	}
	if got := CategoryCapacity(&cfg, p, tuning.CategoryLuxury); got != 58 {
		t.Fatalf("luxury cap: got %d want 58", got)
	}
	p.AddCargo("rum", 47)
	if r := CanCarry(&cfg, p, "rum", 1); r.Reason != state.ReasonCategoryLimit {
		t.Fatalf("rum: got %+v", r)
	}
	if r := CanCarry(&cfg, p, "silk", 3); !r.Success {
		t.Fatalf("silk 3: got %+v", r)
	}
	if r := CanCarry(&cfg, p, "silk", 4); r.Reason != state.ReasonHoldFull {
		t.Fatalf("silk 4: got %+v", r)
	}
}

func TestSpeedModifiers(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg, tuning.FactionPirates)
	if got := Speed(&cfg, gs); math.Abs(got-1.2) > 1e-9 {
		t.Fatalf("pirate speed: got %f want 1.2", got)
	}
	gs.Player.Ship.Rigging = 10
	if got := Speed(&cfg, gs); math.Abs(got-0.84) > 1e-9 {
		t.Fatalf("low rigging speed: got %f want 0.84", got)
	}
	gs.Player.Ship.Rigging = 100
	gs.Player.Days = 55
	if got := Speed(&cfg, gs); math.Abs(got-0.84) > 1e-9 {
		t.Fatalf("doldrums speed: got %f want 0.84", got)
	}
}

func TestWindEffect(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg, tuning.FactionEnglish)
	gs.Wind = state.Wind{Direction: 2, Strength: 3}
	if got := WindEffect(&cfg, gs, tuning.Vec2{X: 1}); math.Abs(got-1.4) > 1e-9 {
		t.Fatalf("downwind: got %f", got)
	}
	if got := WindEffect(&cfg, gs, tuning.Vec2{X: -1}); math.Abs(got-0.72) > 1e-9 {
		t.Fatalf("upwind: got %f", got)
	}
	if got := WindEffect(&cfg, gs, tuning.Vec2{Z: 1}); got != 1 {
		t.Fatalf("crosswind: got %f", got)
	}
	gs.Player.Upgrades = []string{"swiftSails"}
	if got := WindEffect(&cfg, gs, tuning.Vec2{X: 1}); math.Abs(got-1.52) > 1e-9 {
		t.Fatalf("swift sails: got %f", got)
	}
	gs.Wind.Strength = 0
	if got := WindEffect(&cfg, gs, tuning.Vec2{X: 1}); got != 1 {
		t.Fatalf("calm: got %f", got)
	}
}

func TestSupplyRateSeason(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg, tuning.FactionEnglish)
	if got := SupplyRate(&cfg, gs); got != 1 {
		t.Fatalf("base: got %f", got)
	}
	gs.Player.Days = 40
	gs.Player.Upgrades = []string{"swiftSails"}
	if got := SupplyRate(&cfg, gs); math.Abs(got-2.25) > 1e-9 {
		t.Fatalf("monsoon swift sails: got %f want 2.25", got)
	}
	gs.Player.Supplies = 1
	ConsumeSupplies(&cfg, gs)
	if gs.Player.Supplies != 0 {
		t.Fatalf("supplies: got %d want 0", gs.Player.Supplies)
	}
}

func TestDailyWear(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg, tuning.FactionEnglish)
	ApplyDailyWear(&cfg, gs, true)
	s := gs.Player.Ship
	if s.Hull != 94.5 || math.Abs(s.Rigging-96.7) > 1e-9 || s.Morale != 99.5 {
		t.Fatalf("storm wear: got %+v", s)
	}
}

func TestRepairAndCosts(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg, tuning.FactionEnglish)
	p := &gs.Player
	p.Ship.Hull = 20
	RepairHull(&cfg, p, 10, true)
	if p.Ship.Hull != 25 {
		t.Fatalf("sea repair on critical hull: got %f want 25", p.Ship.Hull)
	}
	RepairHull(&cfg, p, 500, false)
	if p.Ship.Hull != 100 {
		t.Fatalf("hull capped: got %f", p.Ship.Hull)
	}
	if got := RepairCost(&cfg, p, KindHull, 10); got != 30 {
		t.Fatalf("hull cost: got %d want 30", got)
	}
	if got := RepairCost(&cfg, p, KindRest, 30); got != 20 {
		t.Fatalf("rest cost: got %d want 20", got)
	}
	p.ShipClass = "sloop"
	p.Officers = []state.Officer{{ID: "bosun", Role: "bosun"}}
	if got := RepairCost(&cfg, p, KindHull, 10); got != 15 {
		t.Fatalf("sloop bosun cost: got %d want 15", got)
	}
}

func TestOfficers(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg, tuning.FactionEnglish)
	if _, r := Hire(&cfg, gs, "cook"); r.Success {
		t.Fatalf("unknown officer hired")
	}
	for _, id := range []string{"navigator", "gunner"} {
		if _, r := Hire(&cfg, gs, id); !r.Success {
			t.Fatalf("hire %s: %+v", id, r)
		}
	}
	if _, r := Hire(&cfg, gs, "navigator"); r.Reason != ReasonRoleTaken {
		t.Fatalf("duplicate role: got %+v", r)
	}
	Hire(&cfg, gs, "surgeon")
	if _, r := Hire(&cfg, gs, "bosun"); r.Reason != ReasonCrewFull {
		t.Fatalf("full crew: got %+v", r)
	}
	if got := Wages(&cfg, &gs.Player); got != 32 {
		t.Fatalf("wages: got %d want 32", got)
	}
	if r := Fire(&gs.Player, "gunner"); !r.Success || len(gs.Player.Officers) != 2 {
		t.Fatalf("fire: got %+v, %d left", r, len(gs.Player.Officers))
	}
	if r := Fire(&gs.Player, "gunner"); r.Success {
		t.Fatalf("fired twice")
	}
}

func TestUpkeepAndDockingFee(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg, tuning.FactionEnglish)
	p := &gs.Player
	if got := DailyUpkeep(&cfg, p); got != 5 {
		t.Fatalf("upkeep: got %d want 5", got)
	}
	p.Upgrades = []string{"vault"}
	p.Officers = []state.Officer{{ID: "quartermaster", Role: "quartermaster"}}
	// (3+1+2)*1 + 8 = 14, *0.75 = 10.5
	if got := DailyUpkeep(&cfg, p); got != 11 {
		t.Fatalf("upkeep with quartermaster: got %d want 11", got)
	}
	if got := DockingFee(&cfg, p, "tortuga"); got != 25 {
		t.Fatalf("fee: got %d want 25", got)
	}
	p.Reputation[tuning.FactionPirates] = -25
	if got := DockingFee(&cfg, p, "tortuga"); got != 75 {
		t.Fatalf("hostile fee: got %d want 75", got)
	}
}

func TestEscapeChanceAndDuration(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg, tuning.FactionEnglish)
	// 0.5 + (100-50)*0.003
	if got := EscapeChance(&cfg, gs); math.Abs(got-0.65) > 1e-9 {
		t.Fatalf("escape: got %f want 0.65", got)
	}
	gs.Player.Bounty = 700
	gs.Player.Ship.Rigging = 10
	gs.Player.AddCargo("iron", 10)
	if got := EscapeChance(&cfg, gs); got != cfg.Chase.MinEscape {
		t.Fatalf("floored escape: got %f", got)
	}
	if got := ChaseDuration(&cfg, &gs.Player); got != 16500 {
		t.Fatalf("duration: got %d want 16500", got)
	}
	gs.Player.ShipClass = "sloop"
	gs.Player.Cargo = map[string]int{}
	if got := ChaseDuration(&cfg, &gs.Player); got != 14100 {
		t.Fatalf("sloop duration: got %d want 14100", got)
	}
}

func TestLossHelpers(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(&cfg, tuning.FactionEnglish)
	p := &gs.Player
	if got := Tribute(&cfg, p, 100); got != 70 {
		t.Fatalf("english tribute: got %d want 70", got)
	}
	p.Upgrades = []string{"vault", "reinforcedHold"}
	if got := Tribute(&cfg, p, 100); got != 42 {
		t.Fatalf("vault tribute: got %d want 42", got)
	}
	if got := GoldLoss(&cfg, p, 100); got != 70 {
		t.Fatalf("gold loss: got %d want 70", got)
	}
	if got := CargoLoss(&cfg, p, 10); got != 5 {
		t.Fatalf("cargo loss: got %f want 5", got)
	}
}
