package game

import (
	"slices"

	"havenvoy.game/internal/sim/contracts"
	"havenvoy.game/internal/sim/economy"
	"havenvoy.game/internal/sim/progression"
	"havenvoy.game/internal/sim/questlines"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/sim/world"
)

const (
	ReasonAlreadyDocked = "Already docked"
	ReasonTooFar        = "Too far"
	ReasonBlockaded     = "Blockaded"
	ReasonEncounter     = "Encounter pending"
	ReasonInChase       = "Chase in progress"
	ReasonUnknownCove   = "Unknown cove"
	ReasonUndiscovered  = "Cove not discovered"
	ReasonNotAtCove     = "Not at a cove"
	ReasonNoService     = "Service not offered here"
	ReasonNothingToSell = "Nothing to fence"
	ReasonNoDamage      = "Ship is fine"
	ReasonMoraleFull    = "Morale is full"
	ReasonLooted        = "Treasure already claimed"
)

// Cove services.
const (
	ServiceFence    = "fence"
	ServiceSalvage  = "salvage"
	ServiceRepair   = "repair"
	ServiceRest     = "rest"
	ServiceTreasure = "treasure"
	ServiceCharts   = "charts"
	ServiceRumors   = "rumors"
)

const (
	dockHeatRelief = 10
	coveHeatRelief = 20
	salvageCost    = 50
	coveRestCost   = 25
	chartsCost     = 75
	fenceMult      = 1.5
)

// DockReport is what happened on arrival at a port.
type DockReport struct {
	state.Result
	Island       string             `json:"island,omitempty"`
	UsedPass     bool               `json:"used_pass,omitempty"`
	Fee          int                `json:"fee,omitempty"`
	Completed    []state.Contract   `json:"completed,omitempty"`
	Quest        questlines.Outcome `json:"quest"`
	NewTitles    []string           `json:"new_titles,omitempty"`
	Resupplied   int                `json:"resupplied,omitempty"`
	ResupplyCost int                `json:"resupply_cost,omitempty"`
	Rumors       []state.Rumor      `json:"rumors,omitempty"`
}

func dockFail(reason string) DockReport { return DockReport{Result: state.Fail(reason)} }

// canMoor checks the ship is free to put in anywhere.
func (s *Session) canMoor() state.Result {
	gs := s.gs
	switch {
	case gs.IsDocked:
		return state.Fail(ReasonAlreadyDocked)
	case gs.Chase != nil && !gs.Chase.Resolved:
		return state.Fail(ReasonInChase)
	case gs.Pending != nil:
		return state.Fail(ReasonEncounter)
	}
	return state.OK()
}

// Dock puts in at island. The ship must be within docking distance, and a
// blockaded port needs a valid blockade pass.
func (s *Session) Dock(island string) DockReport {
	cfg, gs, p := s.cfg, s.gs, s.player()
	if r := s.canMoor(); !r.Success {
		return DockReport{Result: r}
	}
	is, ok := cfg.Island(island)
	if !ok {
		return dockFail(state.ReasonUnknownIsland)
	}
	if is.Position.Distance(gs.Position) > cfg.Settings.DockDistance {
		return dockFail(ReasonTooFar)
	}
	rep := DockReport{Result: state.OK(), Island: island}
	if gs.World.PortState(island) == tuning.PortBlockaded || world.IsBlockaded(&gs.World, island) {
		if p.BlockadePass < p.Days {
			return dockFail(ReasonBlockaded)
		}
		rep.UsedPass = true
	}

	gs.IsDocked = true
	gs.CurrentIsland = island
	gs.CurrentCove = ""
	p.DaysSinceDock = 0

	if fee := ship.DockingFee(cfg, p, island); fee > 0 {
		p.Gold = max(0, p.Gold-fee)
		rep.Fee = fee
	}
	economy.RecordVisit(p, island)
	risk.RecordDock(cfg, &p.Meta, island)

	friendly := risk.Friendly(p.Faction, is.Faction)
	risk.DecayBounty(cfg, p, true, friendly)
	risk.DecayHeat(cfg, p, true, friendly)
	if is.Faction == tuning.FactionEnglish || is.Faction == tuning.FactionEITC {
		if p.ContrabandUnits(cfg) > 0 {
			risk.AddHeat(cfg, p, float64(cfg.Settings.HeatGainDockEnglishEIT))
		}
	} else {
		p.Heat = max(0, p.Heat-dockHeatRelief)
	}

	rep.Completed = contracts.EvaluateOnDock(cfg, gs, island)
	rep.Quest = questlines.CheckDock(cfg, gs, island)
	contracts.Board(cfg, gs, island)
	rep.NewTitles = progression.UpdateTitles(cfg, gs)
	rep.Resupplied, rep.ResupplyCost = resupply(cfg, p)
	economy.RecordAllPrices(cfg, gs, island)
	rep.Rumors = world.Rumors(cfg, gs, island)
	return rep
}

// resupply tops the hold up at the port chandler when supplies run low.
func resupply(cfg *tuning.Tuning, p *state.Player) (units, cost int) {
	st := cfg.Settings
	if p.Supplies >= st.ResupplyBelow || st.ResupplyCost <= 0 {
		return 0, 0
	}
	units = min(st.SupplyMax-p.Supplies, p.Gold/st.ResupplyCost, st.ResupplyCap)
	if units <= 0 {
		return 0, 0
	}
	cost = units * st.ResupplyCost
	p.Gold -= cost
	p.Supplies += units
	return units, cost
}

// Undock leaves port or cove and ends the visit's trade fatigue.
func (s *Session) Undock() state.Result {
	gs := s.gs
	if !gs.IsDocked {
		return state.Fail(state.ReasonNotDocked)
	}
	economy.ResetVisit(s.player())
	gs.IsDocked = false
	gs.CurrentIsland = ""
	gs.CurrentCove = ""
	return state.OK()
}

// Explore searches the waters around the ship for an undiscovered cove.
func (s *Session) Explore() (string, state.Result) {
	if s.gs.IsDocked {
		return "", state.Fail(ReasonAlreadyDocked)
	}
	return world.Explore(s.cfg, s.gs), state.OK()
}

// DockCove puts in at a discovered hidden cove. Coves shed heat.
func (s *Session) DockCove(id string) state.Result {
	cfg, gs, p := s.cfg, s.gs, s.player()
	if r := s.canMoor(); !r.Success {
		return r
	}
	c, ok := cfg.Cove(id)
	if !ok {
		return state.Fail(ReasonUnknownCove)
	}
	if !p.HasDiscovered(id) {
		return state.Fail(ReasonUndiscovered)
	}
	if c.Position.Distance(gs.Position) > world.CoveDockRadius {
		return state.Fail(ReasonTooFar)
	}
	gs.IsDocked = true
	gs.CurrentCove = id
	gs.CurrentIsland = ""
	p.DaysSinceDock = 0
	p.Heat = max(0, p.Heat-coveHeatRelief)
	return state.OK()
}

// CoveOutcome is the result of one cove service.
type CoveOutcome struct {
	state.Result
	Gold     int            `json:"gold,omitempty"`
	Goods    map[string]int `json:"goods,omitempty"`
	Revealed string         `json:"revealed,omitempty"`
	Hint     string         `json:"hint,omitempty"`
}

func coveFail(reason string) CoveOutcome { return CoveOutcome{Result: state.Fail(reason)} }

// UseCoveService buys a service at the cove the ship is moored at.
func (s *Session) UseCoveService(service string) CoveOutcome {
	cfg, gs, p := s.cfg, s.gs, s.player()
	if !gs.IsDocked || gs.CurrentCove == "" {
		return coveFail(ReasonNotAtCove)
	}
	c, ok := cfg.Cove(gs.CurrentCove)
	if !ok {
		return coveFail(ReasonUnknownCove)
	}
	if !slices.Contains(c.Services, service) {
		return coveFail(ReasonNoService)
	}

	switch service {
	case ServiceFence:
		total, sold := 0, map[string]int{}
		for _, g := range p.CargoGoods(cfg) {
			good, _ := cfg.Good(g)
			if good.Category != tuning.CategoryContraband {
				continue
			}
			qty := p.Cargo[g]
			total += int(good.BasePrice*fenceMult) * qty
			sold[g] = p.RemoveCargo(g, qty)
		}
		if len(sold) == 0 {
			return coveFail(ReasonNothingToSell)
		}
		p.Gold += total
		return CoveOutcome{Result: state.OK(), Gold: total, Goods: sold}

	case ServiceSalvage:
		if p.Gold < salvageCost {
			return coveFail(state.ReasonNotEnoughGold)
		}
		var pool []string
		for _, g := range cfg.Goods {
			if g.Category != tuning.CategoryContraband {
				pool = append(pool, g.ID)
			}
		}
		if len(pool) == 0 {
			return coveFail(state.ReasonUnknownGood)
		}
		g := pool[gs.RNG.Intn(len(pool))]
		qty := gs.RNG.Between(2, 5)
		if r := ship.CanCarry(cfg, p, g, qty); !r.Success {
			return CoveOutcome{Result: r}
		}
		p.Gold -= salvageCost
		p.AddCargo(g, qty)
		return CoveOutcome{Result: state.OK(), Gold: -salvageCost, Goods: map[string]int{g: qty}}

	case ServiceRepair:
		dmg := (ship.MaxHull(cfg, p) - p.Ship.Hull) + (ship.MaxRigging(cfg, p) - p.Ship.Rigging)
		if dmg <= 0 {
			return coveFail(ReasonNoDamage)
		}
		cost := int(dmg * 0.5)
		if p.Gold < cost {
			return coveFail(state.ReasonNotEnoughGold)
		}
		p.Gold -= cost
		p.Ship.Hull = ship.MaxHull(cfg, p)
		p.Ship.Rigging = ship.MaxRigging(cfg, p)
		return CoveOutcome{Result: state.OK(), Gold: -cost}

	case ServiceRest:
		if p.Ship.Morale >= ship.MaxMorale(cfg, p) {
			return coveFail(ReasonMoraleFull)
		}
		if p.Gold < coveRestCost {
			return coveFail(state.ReasonNotEnoughGold)
		}
		p.Gold -= coveRestCost
		p.Ship.Morale = ship.MaxMorale(cfg, p)
		return CoveOutcome{Result: state.OK(), Gold: -coveRestCost}

	case ServiceTreasure:
		for _, id := range p.TreasuresFound {
			if id == c.ID {
				return coveFail(ReasonLooted)
			}
		}
		gold := 200 + gs.RNG.Intn(300)
		p.TreasuresFound = append(p.TreasuresFound, c.ID)
		p.Gold += gold
		return CoveOutcome{Result: state.OK(), Gold: gold}

	case ServiceCharts:
		if p.Gold < chartsCost {
			return coveFail(state.ReasonNotEnoughGold)
		}
		p.Gold -= chartsCost
		return CoveOutcome{Result: state.OK(), Gold: -chartsCost, Revealed: world.AddChartFragment(cfg, gs)}

	case ServiceRumors:
		out := CoveOutcome{Result: state.OK()}
		if hint, ok := world.CoveRumor(cfg, gs); ok {
			out.Hint = hint.Hint
		}
		return out
	}
	return coveFail(ReasonNoService)
}
