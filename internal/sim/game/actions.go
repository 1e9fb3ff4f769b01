package game

import (
	"slices"

	"havenvoy.game/internal/sim/contracts"
	"havenvoy.game/internal/sim/economy"
	"havenvoy.game/internal/sim/encounter"
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/progression"
	"havenvoy.game/internal/sim/questlines"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

const (
	ReasonUnknownUpgrade = "Unknown upgrade"
	ReasonOwned          = "Already owned"
	ReasonUnknownShip    = "Unknown ship"
	ReasonCargoTooLarge  = "Too much cargo for that ship"
	ReasonNothingToFix   = "Nothing to repair"
	ReasonUnknownRepair  = "Unknown repair"
	ReasonNotOnBoard     = "Contract not offered here"
	ReasonNoQuestline    = "No active questline"
	ReasonNotAtSea       = "Not at sea"
	ReasonNoSupplies     = "Not enough supplies"
)

// seaRepairChunk is the hull points one sea repair supply buys.
const seaRepairChunk = 5

// Buy purchases at the port the ship is docked at.
func (s *Session) Buy(good string, qty int) economy.Trade {
	island, r := s.docked()
	if !r.Success {
		return economy.Trade{Result: r}
	}
	return economy.Buy(s.cfg, s.gs, good, island, qty)
}

// Sell sells at the port the ship is docked at.
func (s *Session) Sell(good string, qty int) economy.Trade {
	island, r := s.docked()
	if !r.Success {
		return economy.Trade{Result: r}
	}
	return economy.Sell(s.cfg, s.gs, good, island, qty)
}

// AcceptContract takes a contract from the current port's board.
func (s *Session) AcceptContract(id int) (state.Contract, state.Result) {
	island, r := s.docked()
	if !r.Success {
		return state.Contract{}, r
	}
	if !slices.ContainsFunc(contracts.Posted(s.gs, island), func(c state.Contract) bool { return c.ID == id }) {
		return state.Contract{}, state.Fail(ReasonNotOnBoard)
	}
	return contracts.Accept(s.cfg, s.gs, id)
}

// AbandonContract drops an active contract anywhere at sea or in port.
func (s *Session) AbandonContract(id int) state.Result {
	if !contracts.Abandon(s.cfg, s.gs, id) {
		return state.Fail(contracts.ReasonNotFound)
	}
	return state.OK()
}

// StartQuestline begins a questline. It can be picked up in any port.
func (s *Session) StartQuestline(id string) state.Result {
	if _, r := s.docked(); !r.Success {
		return r
	}
	return questlines.Start(s.cfg, s.gs, id)
}

func (s *Session) AbandonQuestline() state.Result {
	if !questlines.Abandon(s.player()) {
		return state.Fail(ReasonNoQuestline)
	}
	return state.OK()
}

// HireOfficer signs on an officer for the role's hiring fee.
func (s *Session) HireOfficer(role string) (state.Officer, state.Result) {
	cfg, p := s.cfg, s.player()
	if _, r := s.docked(); !r.Success {
		return state.Officer{}, r
	}
	def, ok := cfg.Officer(role)
	if !ok {
		return state.Officer{}, state.Fail(ship.ReasonUnknownOfficer)
	}
	if p.Gold < def.HireCost {
		return state.Officer{}, state.Fail(state.ReasonNotEnoughGold)
	}
	o, r := ship.Hire(cfg, s.gs, role)
	if !r.Success {
		return o, r
	}
	p.Gold -= def.HireCost
	return o, r
}

// FireOfficer dismisses an officer by id or role. No refund.
func (s *Session) FireOfficer(idOrRole string) state.Result {
	return ship.Fire(s.player(), idOrRole)
}

// UpgradeCost is the current price of an upgrade after power scaling.
func (s *Session) UpgradeCost(id string) (int, bool) {
	u, ok := s.cfg.Upgrade(id)
	if !ok {
		return 0, false
	}
	return progression.ScaledCost(s.cfg, s.player(), u.Cost), true
}

// BuyUpgrade fits an upgrade. Each upgrade is owned at most once.
func (s *Session) BuyUpgrade(id string) (int, state.Result) {
	p := s.player()
	if _, r := s.docked(); !r.Success {
		return 0, r
	}
	cost, ok := s.UpgradeCost(id)
	if !ok {
		return 0, state.Fail(ReasonUnknownUpgrade)
	}
	if p.HasUpgrade(id) {
		return 0, state.Fail(ReasonOwned)
	}
	if p.Gold < cost {
		return 0, state.Fail(state.ReasonNotEnoughGold)
	}
	prev := p.Upgrades
	p.Upgrades = append(p.Upgrades[:len(p.Upgrades):len(p.Upgrades)], id)
	if !s.cargoFits() {
		p.Upgrades = prev
		return 0, state.Fail(ReasonCargoTooLarge)
	}
	p.Gold -= cost
	return cost, state.OK()
}

// cargoFits reports whether the cargo fits the current hold and its category limits.
func (s *Session) cargoFits() bool {
	cfg, p := s.cfg, s.player()
	if p.CargoUsed(cfg) > ship.Capacity(cfg, p) {
		return false
	}
	for _, cat := range []string{tuning.CategoryCommodity, tuning.CategoryLuxury, tuning.CategoryContraband} {
		if p.CategoryUsed(cfg, cat) > ship.CategoryCapacity(cfg, p, cat) {
			return false
		}
	}
	return true
}

// BuyShip trades up to another class. Cargo must fit the new hold; the hull
// and rigging come new, the crew keeps its morale.
func (s *Session) BuyShip(class string) (int, state.Result) {
	cfg, p := s.cfg, s.player()
	if _, r := s.docked(); !r.Success {
		return 0, r
	}
	if !cfg.HasShipClass(class) {
		return 0, state.Fail(ReasonUnknownShip)
	}
	if p.ShipClass == class {
		return 0, state.Fail(ReasonOwned)
	}
	sc := cfg.ShipClass(class)
	cost := progression.ScaledCost(cfg, p, sc.Cost)
	if p.Gold < cost {
		return 0, state.Fail(state.ReasonNotEnoughGold)
	}
	prev := p.ShipClass
	p.ShipClass = class
	if !s.cargoFits() {
		p.ShipClass = prev
		return 0, state.Fail(ReasonCargoTooLarge)
	}
	p.Gold -= cost
	morale := p.Ship.Morale
	p.Ship = ship.Fresh(cfg, p)
	p.Ship.Morale = min(morale, ship.MaxMorale(cfg, p))
	return cost, state.OK()
}

// Repair fully restores hull or rigging, or rests the crew, at dock prices.
func (s *Session) Repair(kind string) (int, state.Result) {
	cfg, p := s.cfg, s.player()
	if _, r := s.docked(); !r.Success {
		return 0, r
	}
	var amount float64
	switch kind {
	case ship.KindHull:
		amount = ship.MaxHull(cfg, p) - p.Ship.Hull
	case ship.KindRigging:
		amount = ship.MaxRigging(cfg, p) - p.Ship.Rigging
	case ship.KindRest:
		amount = ship.MaxMorale(cfg, p) - p.Ship.Morale
	default:
		return 0, state.Fail(ReasonUnknownRepair)
	}
	if amount <= 0 {
		return 0, state.Fail(ReasonNothingToFix)
	}
	cost := ship.RepairCost(cfg, p, kind, amount)
	if p.Gold < cost {
		return 0, state.Fail(state.ReasonNotEnoughGold)
	}
	p.Gold -= cost
	switch kind {
	case ship.KindHull:
		ship.RepairHull(cfg, p, amount, false)
	case ship.KindRigging:
		ship.RepairRigging(cfg, p, amount)
	case ship.KindRest:
		p.Ship.Morale = ship.MaxMorale(cfg, p)
	}
	return cost, state.OK()
}

// RepairAtSea patches the hull with supplies. A critical hull takes less from it.
func (s *Session) RepairAtSea() (float64, state.Result) {
	cfg, p := s.cfg, s.player()
	if s.gs.IsDocked {
		return 0, state.Fail(ReasonNotAtSea)
	}
	sc := cfg.ShipCondition
	amount := min(sc.SeaRepairRate, ship.MaxHull(cfg, p)-p.Ship.Hull)
	if amount <= 0 {
		return 0, state.Fail(ReasonNothingToFix)
	}
	cost := max(1, mathx.Ceil(amount/seaRepairChunk)*sc.SeaRepairSupplies)
	if p.Supplies < cost {
		return 0, state.Fail(ReasonNoSupplies)
	}
	p.Supplies -= cost
	before := p.Ship.Hull
	ship.RepairHull(cfg, p, amount, true)
	return p.Ship.Hull - before, state.OK()
}

// PayPardon clears the bounty at the current port, if the port's faction offers pardons.
func (s *Session) PayPardon() (int, state.Result) {
	return encounter.BuyPardon(s.cfg, s.gs)
}

// PardonCost quotes the pardon at the current port.
func (s *Session) PardonCost() (int, bool) {
	island, r := s.docked()
	if !r.Success {
		return 0, false
	}
	return encounter.PardonCost(s.cfg, s.player(), islandFaction(s.cfg, island))
}

// islandFaction is the island's allegiance, neutral when unknown.
func islandFaction(cfg *tuning.Tuning, island string) string {
	if is, ok := cfg.Island(island); ok {
		return is.Faction
	}
	return tuning.FactionNeutral
}
