package game

import (
	"errors"
	"testing"
	"time"

	"havenvoy.game/internal/persistence/save"
	"havenvoy.game/internal/sim/chase"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

func startSession(t *testing.T, cfg *tuning.Tuning, faction string, opts ...Option) *Session {
	t.Helper()
	s, err := New(cfg, faction, 7, opts...)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return s
}

// dockedAt sails the short hop from the spawn point and docks.
func dockedAt(t *testing.T, s *Session, island string) {
	t.Helper()
	if v := s.SailTo(island); !v.Success || !v.Arrived {
		t.Fatalf("sail to %s: %+v", island, v)
	}
	if r := s.Dock(island); !r.Success {
		t.Fatalf("dock %s: %s", island, r.Reason)
	}
}

func TestNewRejectsUnplayableFaction(t *testing.T) {
	cfg := tuning.Defaults()
	for _, f := range []string{tuning.FactionNeutral, "dutch", ""} {
		if _, err := New(&cfg, f, 1); err == nil {
			t.Fatalf("faction %q: expected error", f)
		}
	}
}

func TestNewGame(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	p := s.State().Player
	if p.Gold != 1000 || p.Supplies != 30 || p.Days != 1 {
		t.Fatalf("start: gold %d supplies %d days %d", p.Gold, p.Supplies, p.Days)
	}
	if p.ShipClass != "brigantine" || p.Ship.Hull != 100 {
		t.Fatalf("ship: %s hull %.0f", p.ShipClass, p.Ship.Hull)
	}
	if p.Reputation[tuning.FactionEnglish] != 25 || p.Reputation[tuning.FactionPirates] != -25 {
		t.Fatalf("rep: %+v", p.Reputation)
	}
	if len(s.State().Islands) != len(cfg.Islands) {
		t.Fatalf("islands: got %d want %d", len(s.State().Islands), len(cfg.Islands))
	}
	if r := s.Dock("portRoyal"); r.Success || r.Reason != ReasonTooFar {
		t.Fatalf("dock from spawn: %+v", r.Result)
	}
}

func TestSameSeedSameGame(t *testing.T) {
	cfg := tuning.Defaults()
	a, _ := startSession(t, &cfg, tuning.FactionEITC).Save()
	b, _ := startSession(t, &cfg, tuning.FactionEITC).Save()
	if string(a) != string(b) {
		t.Fatalf("same seed produced different games")
	}
}

func TestPirateCargoScenario(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionPirates)
	if got := s.Capacity().Total; got != 50 {
		t.Fatalf("capacity: got %d want 50", got)
	}
	dockedAt(t, s, "portRoyal")
	if tr := s.Buy("rum", 5); !tr.Success {
		t.Fatalf("buy: %s", tr.Reason)
	}
	if got := s.Capacity().Used; got != 5 {
		t.Fatalf("cargo used: got %d want 5", got)
	}
}

func TestTradeNeedsPort(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	if tr := s.Buy("rum", 1); tr.Success || tr.Reason != state.ReasonNotDocked {
		t.Fatalf("buy at sea: %+v", tr.Result)
	}
	dockedAt(t, s, "portRoyal")
	if r := s.Undock(); !r.Success {
		t.Fatalf("undock: %s", r.Reason)
	}
	if s.State().CurrentIsland != "" || s.State().IsDocked {
		t.Fatalf("undock left state docked")
	}
	if tr := s.Sell("rum", 1); tr.Success {
		t.Fatalf("sell after undock succeeded")
	}
}

func TestDockBlockedByEncounter(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	s.SailTo("portRoyal")
	s.State().Pending = &state.Encounter{Kind: state.EncounterStorm}
	if r := s.Dock("portRoyal"); r.Success || r.Reason != ReasonEncounter {
		t.Fatalf("dock with encounter: %+v", r.Result)
	}
}

func TestDockResupplies(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	s.State().Player.Supplies = 5
	dockedAt(t, s, "portRoyal")
	p := s.State().Player
	if p.Supplies != 20 {
		t.Fatalf("supplies: got %d want 20", p.Supplies)
	}
}

func TestAdvanceDayAtSea(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	r := s.AdvanceDay()
	p := s.State().Player
	if r.Day != 2 || p.Days != 2 || p.DaysSinceDock != 1 || !r.AtSea {
		t.Fatalf("day: report %d days %d since dock %d", r.Day, p.Days, p.DaysSinceDock)
	}
	if p.Supplies != 30-r.SuppliesUsed || r.SuppliesUsed < 1 {
		t.Fatalf("supplies: %d used %d", p.Supplies, r.SuppliesUsed)
	}
	if p.Gold != 1000-r.Upkeep || r.Upkeep <= 0 {
		t.Fatalf("upkeep: gold %d upkeep %d", p.Gold, r.Upkeep)
	}
}

func TestExpiredSmugglingContractFailsOnce(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	dockedAt(t, s, "portRoyal")
	p := &s.State().Player
	p.Contracts.Active = append(p.Contracts.Active, state.Contract{
		ID: 99, Type: tuning.ContractSmuggling, Destination: "tortuga", Requirement: state.RequireDeliver,
		Good: "gunpowder", Quantity: 4, Gold: 300, Rep: 10, RepFaction: tuning.FactionPirates,
		Deadline: 20, AcceptedDay: p.Days, Status: state.ContractActive,
	})
	start := p.Reputation[tuning.FactionPirates]

	for range 19 {
		s.AdvanceDay()
	}
	if len(p.Contracts.Active) != 1 {
		t.Fatalf("contract expired early on day %d", p.Days)
	}
	s.AdvanceDay()
	s.AdvanceDay()
	if len(p.Contracts.Active) != 0 || len(p.Contracts.Failed) != 1 {
		t.Fatalf("after deadline: active %d failed %d", len(p.Contracts.Active), len(p.Contracts.Failed))
	}
	after := p.Reputation[tuning.FactionPirates]
	if after >= start {
		t.Fatalf("rep: got %d, expected below %d", after, start)
	}
	for range 9 {
		s.AdvanceDay()
	}
	if got := p.Reputation[tuning.FactionPirates]; got != after || len(p.Contracts.Failed) != 1 {
		t.Fatalf("penalty applied again: rep %d failed %d", got, len(p.Contracts.Failed))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEITC)
	dockedAt(t, s, "portRoyal")
	s.Buy("sugar", 3)
	s.AdvanceDay()

	blob, err := s.Save()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(&cfg, blob)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	again, err := loaded.Save()
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	if string(blob) != string(again) {
		t.Fatalf("round trip changed the save")
	}
	if loaded.State().Player.Cargo["sugar"] != 3 {
		t.Fatalf("sugar: got %d want 3", loaded.State().Player.Cargo["sugar"])
	}
}

func TestLoadOrNew(t *testing.T) {
	cfg := tuning.Defaults()
	s, fresh, err := LoadOrNew(&cfg, []byte("{not json"), tuning.FactionEnglish, 3)
	if err != nil || !fresh || s == nil {
		t.Fatalf("corrupt blob: fresh %v err %v", fresh, err)
	}
	_, _, err = LoadOrNew(&cfg, []byte(`{"save_version": 99, "player": {"faction": "english"}}`), tuning.FactionEnglish, 3)
	if !errors.Is(err, save.ErrFutureVersion) {
		t.Fatalf("future save: got %v", err)
	}
	blob, _ := s.Save()
	if _, fresh, err := LoadOrNew(&cfg, blob, tuning.FactionPirates, 9); err != nil || fresh {
		t.Fatalf("valid blob: fresh %v err %v", fresh, err)
	}
}

func TestBuyUpgradeOnce(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	dockedAt(t, s, "portRoyal")
	before := s.State().Player.Gold
	cost, r := s.BuyUpgrade("luxuryLocker")
	if !r.Success {
		t.Fatalf("buy upgrade: %s", r.Reason)
	}
	if got := s.State().Player.Gold; got != before-cost {
		t.Fatalf("gold: got %d want %d", got, before-cost)
	}
	if _, r := s.BuyUpgrade("luxuryLocker"); r.Success || r.Reason != ReasonOwned {
		t.Fatalf("second buy: %+v", r)
	}
	if _, r := s.BuyUpgrade("cannons-of-doom"); r.Reason != ReasonUnknownUpgrade {
		t.Fatalf("unknown upgrade: %+v", r)
	}
}

func TestBuyUpgradeKeepsCargoInHold(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	dockedAt(t, s, "portRoyal")
	p := &s.State().Player
	p.Gold = 5000
	p.AddCargo("rum", ship.Capacity(&cfg, p)-p.CargoUsed(&cfg))

	for _, id := range []string{"reinforcedHold", "luxuryLocker"} {
		if _, r := s.BuyUpgrade(id); r.Success || r.Reason != ReasonCargoTooLarge {
			t.Fatalf("%s with a full hold: %+v", id, r)
		}
	}
	if p.Gold != 5000 || len(p.Upgrades) != 0 {
		t.Fatalf("failed buy changed state: gold %d upgrades %v", p.Gold, p.Upgrades)
	}

	p.RemoveCargo("rum", 10)
	if _, r := s.BuyUpgrade("reinforcedHold"); !r.Success {
		t.Fatalf("reinforced hold: %s", r.Reason)
	}
	if used, total := p.CargoUsed(&cfg), ship.Capacity(&cfg, p); used > total {
		t.Fatalf("cargo %d over capacity %d", used, total)
	}
}

func TestFailedAcceptLeavesBoardAlone(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	dockedAt(t, s, "portRoyal")
	gs := s.State()
	gs.World.Boards["portRoyal"].Contracts = nil
	nextID := gs.NextContractID

	if _, r := s.AcceptContract(nextID + 50); r.Success || r.Reason != ReasonNotOnBoard {
		t.Fatalf("accept off the board: %+v", r)
	}
	if len(s.ContractBoard()) != 0 || gs.NextContractID != nextID {
		t.Fatalf("board regenerated: %d contracts, next id %d want %d", len(s.ContractBoard()), gs.NextContractID, nextID)
	}
}

func TestBuyShipNeedsRoomForCargo(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	dockedAt(t, s, "portRoyal")
	p := &s.State().Player
	p.AddCargo("timber", 15)
	if _, r := s.BuyShip("sloop"); r.Success || r.Reason != ReasonCargoTooLarge {
		t.Fatalf("sloop with 45 cargo: %+v", r)
	}
	if p.ShipClass != "brigantine" {
		t.Fatalf("class changed to %s", p.ShipClass)
	}
	p.RemoveCargo("timber", 15)
	p.Ship.Morale = 60
	if _, r := s.BuyShip("sloop"); !r.Success {
		t.Fatalf("sloop: %s", r.Reason)
	}
	if p.Ship.Hull != 80 || p.Ship.Morale != 60 {
		t.Fatalf("new ship: hull %.0f morale %.0f", p.Ship.Hull, p.Ship.Morale)
	}
}

func TestRepairHull(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	dockedAt(t, s, "portRoyal")
	p := &s.State().Player
	if _, r := s.Repair(ship.KindHull); r.Reason != ReasonNothingToFix {
		t.Fatalf("repair sound hull: %+v", r)
	}
	p.Ship.Hull = 50
	before := p.Gold
	cost, r := s.Repair(ship.KindHull)
	if !r.Success {
		t.Fatalf("repair: %s", r.Reason)
	}
	if p.Ship.Hull != 100 || p.Gold != before-cost {
		t.Fatalf("hull %.0f gold %d cost %d", p.Ship.Hull, p.Gold, cost)
	}
}

func TestRepairAtSea(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	p := &s.State().Player
	p.Ship.Hull = 60
	fixed, r := s.RepairAtSea()
	if !r.Success || fixed != 10 {
		t.Fatalf("sea repair: fixed %.0f %+v", fixed, r)
	}
	if p.Supplies != 28 {
		t.Fatalf("supplies: got %d want 28", p.Supplies)
	}
}

func TestHireOfficerCharges(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	if _, r := s.HireOfficer("navigator"); r.Reason != state.ReasonNotDocked {
		t.Fatalf("hire at sea: %+v", r)
	}
	dockedAt(t, s, "portRoyal")
	before := s.State().Player.Gold
	if _, r := s.HireOfficer("navigator"); !r.Success {
		t.Fatalf("hire: %s", r.Reason)
	}
	if got := s.State().Player.Gold; got != before-100 {
		t.Fatalf("gold: got %d want %d", got, before-100)
	}
	if _, r := s.HireOfficer("navigator"); r.Success {
		t.Fatalf("duplicate role hired")
	}
	if r := s.FireOfficer("navigator"); !r.Success {
		t.Fatalf("fire: %s", r.Reason)
	}
}

func TestCoveDockAndFence(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionPirates)
	gs := s.State()
	p := &gs.Player
	if r := s.DockCove("smugglersReef"); r.Reason != ReasonUndiscovered {
		t.Fatalf("undiscovered cove: %+v", r)
	}
	p.Discover("smugglersReef")
	if v := s.SailToCove("smugglersReef"); !v.Success {
		t.Fatalf("sail to cove: %s", v.Reason)
	}
	for gs.Pending != nil || (gs.Chase != nil && !gs.Chase.Resolved) {
		gs.Pending, gs.Chase = nil, nil
		s.SailToCove("smugglersReef")
	}
	p.Heat = 30
	p.AddCargo("gunpowder", 2)
	if r := s.DockCove("smugglersReef"); !r.Success {
		t.Fatalf("dock cove: %s", r.Reason)
	}
	if p.Heat != 10 {
		t.Fatalf("heat: got %.0f want 10", p.Heat)
	}
	gold := p.Gold
	out := s.UseCoveService(ServiceFence)
	if !out.Success || out.Gold != 150 || p.Gold != gold+150 || p.Cargo["gunpowder"] != 0 {
		t.Fatalf("fence: %+v gold %d", out, p.Gold)
	}
	if out := s.UseCoveService(ServiceRepair); out.Reason != ReasonNoService {
		t.Fatalf("repair at reef: %+v", out.Result)
	}
	if tr := s.Buy("rum", 1); tr.Success {
		t.Fatalf("bought from a cove")
	}
}

func TestVoyageStopsAtEncounterOrArrives(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	v := s.SailTo("barbados")
	if !v.Success {
		t.Fatalf("sail: %s", v.Reason)
	}
	gs := s.State()
	is, _ := cfg.Island("barbados")
	switch {
	case v.Arrived:
		if d := is.Position.Distance(gs.Position); d > cfg.Settings.DockDistance {
			t.Fatalf("arrived %.1f from port", d)
		}
		if len(v.Days) != v.Planned {
			t.Fatalf("days: got %d want %d", len(v.Days), v.Planned)
		}
	case v.Encounter != nil:
		if gs.Pending == nil || gs.Pending.Kind != v.Encounter.Kind {
			t.Fatalf("encounter not pending")
		}
		if r := s.SailTo("barbados"); r.Success {
			t.Fatalf("sailed past a pending encounter")
		}
	default:
		t.Fatalf("voyage neither arrived nor met anything")
	}
	if gs.Player.Days != 1+len(v.Days) {
		t.Fatalf("days: got %d want %d", gs.Player.Days, 1+len(v.Days))
	}
}

func TestChaseThroughSession(t *testing.T) {
	cfg := tuning.Defaults()
	clk := chase.NewFakeClock(time.Unix(1000, 0))
	s := startSession(t, &cfg, tuning.FactionEnglish, WithClock(clk))
	gs := s.State()
	gs.Pending = &state.Encounter{Kind: state.EncounterPirate, Day: gs.Player.Days}

	c, r := s.StartChase()
	if !r.Success || c == nil {
		t.Fatalf("start: %+v", r)
	}
	if r := s.ChaseAction(state.ChaseTrim); !r.Success {
		t.Fatalf("trim: %s", r.Reason)
	}
	if r := s.Dock("portRoyal"); r.Reason != ReasonInChase {
		t.Fatalf("dock mid-chase: %+v", r.Result)
	}
	clk.Advance(time.Duration(c.DurationMs) * time.Millisecond)
	rep, r := s.ChaseTick(s.Now())
	if !r.Success || !rep.Done {
		t.Fatalf("tick: %+v %+v", rep, r)
	}
	if !gs.Chase.Resolved || gs.Pending != nil {
		t.Fatalf("chase not settled: resolved %v pending %v", gs.Chase.Resolved, gs.Pending)
	}
}

func TestStatsAndQueries(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionEnglish)
	st := s.Stats()
	if st.Days != 1 || st.Gold != 1000 || st.NetWorth < 1000 {
		t.Fatalf("stats: %+v", st)
	}
	if n := s.Notoriety(); n.Bounty != 0 || n.Level != "clean" {
		t.Fatalf("notoriety: %+v", n)
	}
	if s.ContractBoard() != nil {
		t.Fatalf("board at sea")
	}
	dockedAt(t, s, "portRoyal")
	if len(s.ContractBoard()) == 0 {
		t.Fatalf("empty board at port")
	}
	if len(s.Prices("portRoyal")) != 10 {
		t.Fatalf("prices: got %d want 10", len(s.Prices("portRoyal")))
	}
	if len(s.TitleProgress()) != len(cfg.Titles) {
		t.Fatalf("title progress: got %d want %d", len(s.TitleProgress()), len(cfg.Titles))
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	cfg := tuning.Defaults()
	s := startSession(t, &cfg, tuning.FactionPirates)
	s.AdvanceDay()
	path := t.TempDir() + "/run.sav.zst"
	if err := s.SaveFile(path); err != nil {
		t.Fatalf("save file: %v", err)
	}
	loaded, h, err := LoadFile(&cfg, path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if h.Day != 2 || h.Faction != tuning.FactionPirates || loaded.State().Player.Days != 2 {
		t.Fatalf("header %+v days %d", h, loaded.State().Player.Days)
	}
	if _, _, err := LoadFile(&cfg, path+".missing"); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}
