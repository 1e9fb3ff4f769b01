package contracts

import (
	"fmt"
	"slices"

	"havenvoy.game/internal/sim/progression"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/sim/world"
)

// Failure reasons.
const (
	ReasonTooMany  = "Too many active contracts"
	ReasonNotFound = "Contract not found"
)

const (
	abandonRepPenalty  = 3
	smugglingCrackdown = 15
)

func find(gs *state.GameState, cfg *tuning.Tuning, id int) (*state.Board, int) {
	for _, is := range cfg.Islands {
		b := gs.World.Boards[is.ID]
		if b == nil {
			continue
		}
		if i := slices.IndexFunc(b.Contracts, func(c state.Contract) bool { return c.ID == id }); i >= 0 {
			return b, i
		}
	}
	return nil, -1
}

// Accept moves a board contract into the active list, taking any deposit
// and upfront supplies first.
func Accept(cfg *tuning.Tuning, gs *state.GameState, id int) (state.Contract, state.Result) {
	p := &gs.Player
	if len(p.Contracts.Active) >= cfg.Settings.MaxActiveContracts {
		return state.Contract{}, state.Fail(ReasonTooMany)
	}
	b, i := find(gs, cfg, id)
	if b == nil {
		return state.Contract{}, state.Fail(ReasonNotFound)
	}
	c := b.Contracts[i]
	ct, _ := cfg.ContractType(c.Type)
	deposit := 0
	if ct.DepositPct > 0 {
		deposit = int(float64(c.Gold) * ct.DepositPct)
		if p.Gold < deposit {
			return state.Contract{}, state.Fail(fmt.Sprintf("Need %dg deposit", deposit))
		}
	}
	if ct.SupplyCost > 0 && p.Supplies < ct.SupplyCost {
		return state.Contract{}, state.Fail(fmt.Sprintf("Need %d supplies", ct.SupplyCost))
	}

	p.Gold -= deposit
	p.Supplies -= ct.SupplyCost
	c.Deposit = deposit
	c.AcceptedDay = p.Days
	c.Status = state.ContractActive
	b.Contracts = slices.Delete(b.Contracts, i, i+1)
	p.Contracts.Active = append(p.Contracts.Active, c)
	return c, state.OK()
}

// Abandon drops an active contract for a small reputation hit. The deposit is forfeit.
func Abandon(cfg *tuning.Tuning, gs *state.GameState, id int) bool {
	p := &gs.Player
	i := slices.IndexFunc(p.Contracts.Active, func(c state.Contract) bool { return c.ID == id })
	if i < 0 {
		return false
	}
	c := p.Contracts.Active[i]
	p.Contracts.Active = slices.Delete(p.Contracts.Active, i, i+1)
	c.Status = state.ContractAbandoned
	p.Contracts.Failed = append(p.Contracts.Failed, c)
	progression.ApplyRepChange(cfg, p, c.RepFaction, -abandonRepPenalty)
	return true
}

// MarkInspected flags every active contract that forbids inspections.
func MarkInspected(p *state.Player) {
	for i := range p.Contracts.Active {
		p.Contracts.Active[i].WasInspected = true
	}
}

// Ready reports whether a contract's requirement is met by the player right now.
// It does not check the destination.
func Ready(p *state.Player, c state.Contract) bool {
	switch c.Requirement {
	case state.RequireDeliver:
		return p.Cargo[c.Good] >= c.Quantity
	case state.RequireReach:
		return !(c.NoInspection && c.WasInspected)
	case state.RequireSupplies:
		return p.Supplies >= c.MinSupplies
	}
	return true
}

// Plan lists the active contracts that would settle on docking at island.
func Plan(p *state.Player, island string) []state.Contract {
	var out []state.Contract
	for _, c := range p.Contracts.Active {
		if c.Destination == island && Ready(p, c) {
			out = append(out, c)
		}
	}
	return out
}

// EvaluateOnDock settles every contract bound for island whose requirement
// is met, consuming delivered cargo and paying rewards plus any deposit.
func EvaluateOnDock(cfg *tuning.Tuning, gs *state.GameState, island string) []state.Contract {
	p := &gs.Player
	done := Plan(p, island)
	if len(done) == 0 {
		return nil
	}
	p.Contracts.Active = slices.DeleteFunc(p.Contracts.Active, func(c state.Contract) bool {
		return slices.ContainsFunc(done, func(d state.Contract) bool { return d.ID == c.ID })
	})
	for i := range done {
		c := &done[i]
		if c.Requirement == state.RequireDeliver {
			p.RemoveCargo(c.Good, c.Quantity)
			if g, ok := cfg.Good(c.Good); ok && g.Category == tuning.CategoryContraband {
				p.Stats.ContrabandTraded += c.Quantity
			}
		}
		p.Gold += c.Gold + c.Deposit
		progression.ApplyRepChange(cfg, p, c.RepFaction, c.Rep)
		c.Status = state.ContractCompleted
		p.Contracts.Completed = append(p.Contracts.Completed, *c)
		p.Stats.ContractsCompleted++
		if ct, ok := cfg.ContractType(c.Type); ok && ct.HeatGain > 0 {
			risk.AddHeat(cfg, p, float64(ct.HeatGain))
		}
		if c.Type == tuning.ContractSmuggling {
			world.RaiseCrackdown(cfg, &gs.World, smugglingCrackdown)
		}
	}
	return done
}

// Expire fails every active contract whose deadline has passed. Each
// contract is removed from the active list as it fails, so its reputation
// penalty lands once.
func Expire(cfg *tuning.Tuning, gs *state.GameState) []state.Contract {
	p := &gs.Player
	var expired []state.Contract
	kept := p.Contracts.Active[:0]
	for _, c := range p.Contracts.Active {
		if p.Days-c.AcceptedDay >= c.Deadline {
			expired = append(expired, c)
			continue
		}
		kept = append(kept, c)
	}
	p.Contracts.Active = kept
	for _, c := range expired {
		c.Status = state.ContractFailed
		p.Contracts.Failed = append(p.Contracts.Failed, c)
		rep := c.Rep
		if rep < 0 {
			rep = -rep
		}
		progression.ApplyRepChange(cfg, p, c.RepFaction, -rep)
	}
	return expired
}

// Progress is the presentation view of an active contract.
type Progress struct {
	Contract state.Contract `json:"contract"`
	Ready    bool           `json:"ready"`
	Have     int            `json:"have,omitempty"`
	Need     int            `json:"need,omitempty"`
	DaysLeft int            `json:"days_left"`
}

func ActiveProgress(p *state.Player) []Progress {
	out := make([]Progress, 0, len(p.Contracts.Active))
	for _, c := range p.Contracts.Active {
		pr := Progress{Contract: c, Ready: Ready(p, c), DaysLeft: c.Deadline - (p.Days - c.AcceptedDay)}
		switch c.Requirement {
		case state.RequireDeliver:
			pr.Have, pr.Need = p.Cargo[c.Good], c.Quantity
		case state.RequireSupplies:
			pr.Have, pr.Need = p.Supplies, c.MinSupplies
		}
		out = append(out, pr)
	}
	return out
}
