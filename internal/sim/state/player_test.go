package state

import (
	"testing"

	"havenvoy.game/internal/sim/tuning"
)

func TestCargoBookkeeping(t *testing.T) {
	cfg := tuning.Defaults()
	p := Player{PurchaseLocation: map[string]string{}}
	p.AddCargo("timber", 4)
	p.AddCargo("rum", 2)
	p.PurchaseLocation["rum"] = "havana"
	if got, want := p.CargoUsed(&cfg), 4*3+2; got != want {
		t.Fatalf("cargo used: got %d want %d", got, want)
	}
	if got := p.CategoryUsed(&cfg, tuning.CategoryCommodity); got != 14 {
		t.Fatalf("commodity used: got %d want 14", got)
	}
	if got := p.RemoveCargo("rum", 5); got != 2 {
		t.Fatalf("removed: got %d want 2", got)
	}
	if _, ok := p.Cargo["rum"]; ok {
		t.Fatalf("empty cargo entry should be deleted")
	}
	if _, ok := p.PurchaseLocation["rum"]; ok {
		t.Fatalf("purchase location should be cleared with the cargo")
	}
	if goods := p.CargoGoods(&cfg); len(goods) != 1 || goods[0] != "timber" {
		t.Fatalf("cargo goods: %v", goods)
	}
}

func TestInfluenceShares(t *testing.T) {
	in := Influence{English: 60, EITC: 15, Pirates: 15, Stability: 100}
	in.Set(tuning.FactionPirates, 20)
	if in.Share(tuning.FactionPirates) != 20 || in.Total() != 95 {
		t.Fatalf("influence: %+v", in)
	}
}

func TestDiscoverOnce(t *testing.T) {
	var p Player
	if !p.Discover("healersIsle") || p.Discover("healersIsle") {
		t.Fatalf("discover should succeed exactly once")
	}
}
