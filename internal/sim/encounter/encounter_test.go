package encounter

import (
	"testing"

	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

func newState(faction string) *state.GameState {
	return &state.GameState{
		RNG: mathx.NewRNG(11),
		Player: state.Player{
			Faction:    faction,
			Gold:       1000,
			Days:       5,
			Supplies:   30,
			Cargo:      map[string]int{},
			Reputation: map[string]int{},
			Titles:     map[string]int{},
			Ship:       state.Ship{Hull: 100, Rigging: 100, Morale: 80},
		},
		Position: tuning.Vec2{X: 150, Z: -80},
	}
}

func TestTributeFloorWithEmptyPurse(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	gs.Player.Gold = 0
	if got := TributeCost(&cfg, gs); got != 50 {
		t.Fatalf("tribute: got %d want 50", got)
	}
}

func TestTributeUnpaidCostsCargo(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	gs.Player.Gold = 10
	gs.Player.Cargo["rum"] = 10
	gs.Pending = &state.Encounter{Kind: state.EncounterPirate, Cost: 50}

	out := PayTribute(&cfg, gs)
	if !out.Success {
		t.Fatalf("pay: %s", out.Reason)
	}
	if gs.Player.Cargo["rum"] != 7 || out.Lost["rum"] != 3 {
		t.Fatalf("rum: got %d lost %d want 7 lost 3", gs.Player.Cargo["rum"], out.Lost["rum"])
	}
	if gs.Player.Gold != 10 {
		t.Fatalf("gold: got %d want 10", gs.Player.Gold)
	}
	if gs.Pending != nil {
		t.Fatalf("encounter still pending")
	}
}

func TestLoseCargoRoundsUp(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	gs.Player.Cargo["rum"] = 10
	gs.Player.Cargo["sugar"] = 1
	lost := LoseCargo(&cfg, &gs.Player, 0.3)
	if lost["rum"] != 3 || lost["sugar"] != 1 {
		t.Fatalf("lost: got %v", lost)
	}
	if _, ok := gs.Player.Cargo["sugar"]; ok {
		t.Fatalf("empty cargo entry kept")
	}
}

func TestInspectionCleanHoldPasses(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	gs.Player.Contracts.Active = []state.Contract{{ID: 1}}
	gs.Pending = &state.Encounter{Kind: state.EncounterInspection}

	out := Submit(&cfg, gs)
	if !out.Success || len(out.Lost) != 0 {
		t.Fatalf("clean inspection: %+v", out)
	}
	if gs.World.Crackdown != 5 {
		t.Fatalf("crackdown: got %d want 5", gs.World.Crackdown)
	}
	if !gs.Player.Contracts.Active[0].WasInspected {
		t.Fatalf("contract not marked inspected")
	}
	if gs.Player.Stats.Inspections != 1 {
		t.Fatalf("inspections: got %d want 1", gs.Player.Stats.Inspections)
	}
}

func TestInspectionSeizesContraband(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	gs.Player.Cargo["gunpowder"] = 4
	gs.Player.Cargo["rum"] = 2
	gs.Pending = &state.Encounter{Kind: state.EncounterInspection}

	out := Submit(&cfg, gs)
	if !out.Success {
		t.Fatalf("submit: %s", out.Reason)
	}
	if gs.Player.Cargo["gunpowder"] != 0 || gs.Player.Cargo["rum"] != 2 {
		t.Fatalf("cargo: got %v", gs.Player.Cargo)
	}
	if out.Gold > -110 {
		t.Fatalf("fine: got %d want at least 110", -out.Gold)
	}
	if gs.Player.Bounty != 40 {
		t.Fatalf("bounty: got %d want 40", gs.Player.Bounty)
	}
	if gs.World.Crackdown != 15 {
		t.Fatalf("crackdown: got %d want 15", gs.World.Crackdown)
	}
	if gs.Player.Heat != 15 {
		t.Fatalf("heat: got %v want 15", gs.Player.Heat)
	}
}

func TestInspectionUnpaidFineMarksCriminal(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	gs.Player.Gold = 0
	gs.Player.Cargo["gunpowder"] = 4
	gs.Pending = &state.Encounter{Kind: state.EncounterInspection}

	Submit(&cfg, gs)
	if gs.Player.Bounty != 90 {
		t.Fatalf("bounty: got %d want 90", gs.Player.Bounty)
	}
	if gs.Player.Heat != 25 {
		t.Fatalf("heat: got %v want 25", gs.Player.Heat)
	}
	if gs.Player.Cargo["gunpowder"] != 0 {
		t.Fatalf("contraband kept")
	}
}

func TestInspectionOnlyWhenWatched(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	if c := InspectionChance(&cfg, gs); c != 0 {
		t.Fatalf("far from patrols: got %v want 0", c)
	}
	gs.Player.Heat = 40
	if c := InspectionChance(&cfg, gs); c <= 0 {
		t.Fatalf("hot ship: got %v want > 0", c)
	}
	gs.Player.Heat = 0
	gs.Position = tuning.Vec2{X: 10, Z: 10}
	if c := InspectionChance(&cfg, gs); c <= 0 {
		t.Fatalf("near Port Royal: got %v want > 0", c)
	}
}

func TestStormChanceGrowsAtSea(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	a := StormChance(&cfg, gs)
	gs.Player.DaysSinceDock = 30
	b := StormChance(&cfg, gs)
	if b <= a {
		t.Fatalf("storm chance: %v after 30 days, %v at start", b, a)
	}
}

func TestRollSkipsDockedAndPending(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	gs.IsDocked = true
	for i := 0; i < 200; i++ {
		if _, ok := Roll(&cfg, gs); ok {
			t.Fatalf("rolled while docked")
		}
	}
	gs.IsDocked = false
	rolled := false
	for i := 0; i < 500 && !rolled; i++ {
		_, rolled = Roll(&cfg, gs)
	}
	if !rolled || gs.Pending == nil {
		t.Fatalf("no encounter in 500 days at sea")
	}
	if gs.Pending.Day != gs.Player.Days {
		t.Fatalf("day: got %d want %d", gs.Pending.Day, gs.Player.Days)
	}
	if _, ok := Roll(&cfg, gs); ok {
		t.Fatalf("rolled over a pending encounter")
	}
}

func TestPardonCosts(t *testing.T) {
	cfg := tuning.Defaults()
	p := &newState(tuning.FactionEITC).Player
	if _, ok := PardonCost(&cfg, p, tuning.FactionEnglish); ok {
		t.Fatalf("pardon offered with no bounty")
	}
	p.Bounty = 100
	cases := []struct {
		faction string
		want    int
		ok      bool
	}{
		{tuning.FactionEnglish, 700, true},
		{tuning.FactionEITC, 550, true},
		{tuning.FactionNeutral, 1100, true},
		{tuning.FactionPirates, 0, false},
	}
	for _, c := range cases {
		got, ok := PardonCost(&cfg, p, c.faction)
		if got != c.want || ok != c.ok {
			t.Fatalf("%s: got %d,%v want %d,%v", c.faction, got, ok, c.want, c.ok)
		}
	}
}

func TestBuyPardon(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	gs.Player.Bounty = 100
	gs.Player.HuntersDefeated = []string{"Captain Blackwood"}
	if _, r := BuyPardon(&cfg, gs); r.Reason != state.ReasonNotDocked {
		t.Fatalf("at sea: got %q", r.Reason)
	}
	gs.IsDocked, gs.CurrentIsland = true, "tortuga"
	if _, r := BuyPardon(&cfg, gs); r.Reason != ReasonNoPardon {
		t.Fatalf("tortuga: got %q", r.Reason)
	}
	gs.CurrentIsland = "portRoyal"
	cost, r := BuyPardon(&cfg, gs)
	if !r.Success || cost != 700 {
		t.Fatalf("pardon: got %d %+v", cost, r)
	}
	if gs.Player.Gold != 300 || gs.Player.Bounty != 0 || gs.Player.HuntersDefeated != nil {
		t.Fatalf("after pardon: gold %d bounty %d hunters %v", gs.Player.Gold, gs.Player.Bounty, gs.Player.HuntersDefeated)
	}
}

func TestNextHunterEscalatesForInfamous(t *testing.T) {
	cfg := tuning.Defaults()
	p := &newState(tuning.FactionEITC).Player
	p.HuntersDefeated = []string{"Captain Blackwood"}

	p.Bounty = 300
	if h, _ := NextHunter(&cfg, p); h.Name != "The Iron Maiden" {
		t.Fatalf("hunted: got %q", h.Name)
	}
	p.Bounty = 700
	if h, _ := NextHunter(&cfg, p); h.Name != "Admiral Graves" {
		t.Fatalf("infamous: got %q", h.Name)
	}
	p.HuntersDefeated = append(p.HuntersDefeated, "The Iron Maiden", "Admiral Graves")
	if _, ok := NextHunter(&cfg, p); ok {
		t.Fatalf("hunter left after all were beaten")
	}
}

func TestHunterBribeAndOdds(t *testing.T) {
	p := &state.Player{Bounty: 400}
	if got := HunterBribe(p, tuning.Hunter{Strength: 1.2}); got != 420 {
		t.Fatalf("bribe: got %d want 420", got)
	}
	if got := HunterWinChance(2.0); got != 0.1 {
		t.Fatalf("win chance: got %v want 0.1", got)
	}
}

func TestFleeParleyForPirates(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionPirates)
	gs.Pending = &state.Encounter{Kind: state.EncounterPirate, Cost: 80}
	out := Flee(&cfg, gs)
	if out.Chase || gs.Pending != nil {
		t.Fatalf("pirate parley: %+v", out)
	}

	gs = newState(tuning.FactionEnglish)
	gs.Pending = &state.Encounter{Kind: state.EncounterPirate, Cost: 80}
	out = Flee(&cfg, gs)
	if !out.Chase || gs.Pending == nil {
		t.Fatalf("flee should start a chase: %+v", out)
	}
}

func TestEscapedHunterAddsBounty(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	gs.Player.Bounty = 320
	gs.Pending = &state.Encounter{Kind: state.EncounterBountyHunter, Hunter: "Captain Blackwood", Strength: 1.2}
	Escaped(&cfg, gs)
	if gs.Player.Bounty != 330 || gs.Player.Stats.ChasesEscaped != 1 || gs.Pending != nil {
		t.Fatalf("escape: bounty %d escapes %d", gs.Player.Bounty, gs.Player.Stats.ChasesEscaped)
	}
	if gs.Player.Ship.Morale != 85 {
		t.Fatalf("morale: got %v want 85", gs.Player.Ship.Morale)
	}
}

func TestShareNeedsSupplies(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	gs.Player.Supplies = 3
	gs.Pending = &state.Encounter{Kind: state.EncounterDesperate, Good: "rum", Quantity: 5, Price: 20}
	if out := Respond(&cfg, gs, ChoiceShare); out.Success || gs.Pending == nil {
		t.Fatalf("share without supplies: %+v", out)
	}
	gs.Player.Supplies = 30
	if out := Respond(&cfg, gs, ChoiceShare); !out.Success {
		t.Fatalf("share: %s", out.Reason)
	}
	if gs.Player.Supplies != 25 || gs.Player.MerchantFavor != 1 {
		t.Fatalf("after share: supplies %d favor %d", gs.Player.Supplies, gs.Player.MerchantFavor)
	}
}

func TestBuyLotChecksGold(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	gs.Player.Gold = 50
	gs.Pending = &state.Encounter{Kind: state.EncounterMerchant, Good: "rum", Quantity: 5, Price: 15}
	if out := BuyLot(&cfg, gs); out.Reason != state.ReasonNotEnoughGold {
		t.Fatalf("poor buy: got %q", out.Reason)
	}
	gs.Player.Gold = 100
	out := BuyLot(&cfg, gs)
	if !out.Success || gs.Player.Gold != 25 || gs.Player.Cargo["rum"] != 5 {
		t.Fatalf("buy: %+v gold %d", out, gs.Player.Gold)
	}
	if gs.Player.PurchaseHistory["rum"] != 15 {
		t.Fatalf("purchase price: got %d want 15", gs.Player.PurchaseHistory["rum"])
	}
}

func TestReportRunnerCoolsHeat(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	gs.Player.Heat = 20
	gs.Pending = &state.Encounter{Kind: state.EncounterRunner, Cost: 150}
	out := Respond(&cfg, gs, ChoiceReport)
	if !out.Success || gs.Player.Heat != 10 {
		t.Fatalf("report: %+v heat %v", out, gs.Player.Heat)
	}
	if out.Gold < 50 || out.Gold > 99 {
		t.Fatalf("reward: got %d want 50..99", out.Gold)
	}
}

func TestRespondRejectsMismatch(t *testing.T) {
	cfg := tuning.Defaults()
	gs := newState(tuning.FactionEITC)
	if out := Respond(&cfg, gs, ChoicePay); out.Reason != ReasonNoEncounter {
		t.Fatalf("nothing pending: got %q", out.Reason)
	}
	gs.Pending = &state.Encounter{Kind: state.EncounterWreck}
	if out := Respond(&cfg, gs, ChoiceSubmit); out.Success || gs.Pending == nil {
		t.Fatalf("submit to a wreck: %+v", out)
	}
}
