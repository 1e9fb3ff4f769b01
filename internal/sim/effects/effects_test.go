package effects

import (
	"testing"

	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

func TestReduceCapsTitleEffects(t *testing.T) {
	list := []Effect{
		{"a", RepLossReduction, 0.4},
		{"b", RepLossReduction, 0.4},
		{"c", TariffReduction, 0.3},
		{"d", TitleTributeReduction, 1},
	}
	m := Reduce(list)
	if m.RepLossReduction != 0.5 {
		t.Fatalf("rep loss reduction: got %v want 0.5", m.RepLossReduction)
	}
	if m.TariffReduction != 0.2 {
		t.Fatalf("tariff reduction: got %v want 0.2", m.TariffReduction)
	}
	if m.TitleTributeReduction != 0.4 {
		t.Fatalf("title tribute: got %v want 0.4", m.TitleTributeReduction)
	}
	if m.RepGainMult != 1 || m.UpkeepMult != 1 {
		t.Fatalf("multipliers should default to 1: %+v", m)
	}
}

func TestEquipmentFromFactionUpgradesCrew(t *testing.T) {
	cfg := tuning.Defaults()
	p := &state.Player{
		Faction:  tuning.FactionEITC,
		Upgrades: []string{"smugglerCompartments", "luxuryLocker"},
		Officers: []state.Officer{{ID: "o1", Role: "quartermaster"}, {ID: "o2", Role: "gunner"}},
	}
	m := Reduce(Equipment(&cfg, p))
	if m.CargoBonus != 0.2 || m.TradeBonus != 0.05 {
		t.Fatalf("eitc bonuses: %+v", m)
	}
	if m.CapacityPenalty != 4 || m.LuxuryCap != 8 || m.CommodityCap != -3 {
		t.Fatalf("capacity effects: %+v", m)
	}
	if got, want := m.UpkeepMult, 0.75*1.25; got != want {
		t.Fatalf("upkeep mult: got %v want %v", got, want)
	}
	if m.SupplyCost != 0.25 {
		t.Fatalf("supply cost extra: got %v want 0.25", m.SupplyCost)
	}
}

func TestTitlesScaleByTier(t *testing.T) {
	cfg := tuning.Defaults()
	m := Reduce(Titles(&cfg, map[string]int{"merchant": 3, "voyager": 2}, map[string]int{"eitc": 60, "english": 50}))
	if got, want := m.RepGainMult, 1.06; got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("rep gain: got %v want %v", got, want)
	}
	if got := m.TitleInspectionReduction; got < 0.04-1e-9 || got > 0.04+1e-9 {
		t.Fatalf("inspection: got %v want 0.04", got)
	}
	if m.TariffReduction != 0.05 {
		t.Fatalf("standing tariff: got %v want 0.05 (only rep > 50 counts)", m.TariffReduction)
	}
}
