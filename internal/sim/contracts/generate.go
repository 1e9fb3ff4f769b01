// Package contracts runs the per-island contract boards and the player's
// contract lifecycle: available, active, then completed, failed or abandoned.
package contracts

import (
	"fmt"
	"math"

	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/progression"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

const (
	minBoardSize      = 3
	travelUnitsPerDay = 30.0
	minDeadline       = 2

	smugglingGood      = "gunpowder"
	smugglingRewardMul = 1.5
	errandGoldMul      = 0.6
	errandRepMul       = 1.5
)

// typePool weights contract types for a route. Pirate ports double the
// smuggling odds; faction ports add errands.
func typePool(from, to tuning.Island) []string {
	pool := []string{tuning.ContractDelivery, tuning.ContractCourier, tuning.ContractSupply}
	if from.Faction == tuning.FactionPirates || to.Faction == tuning.FactionPirates {
		pool = append(pool, tuning.ContractSmuggling, tuning.ContractSmuggling)
	}
	if from.Faction != tuning.FactionNeutral {
		pool = append(pool, tuning.ContractFaction)
	}
	return pool
}

// Generate draws a fresh board of contracts offered at island.
func Generate(cfg *tuning.Tuning, gs *state.GameState, island string) []state.Contract {
	from, ok := cfg.Island(island)
	if !ok {
		return nil
	}
	var dests []tuning.Island
	for _, is := range cfg.Islands {
		if is.ID != island {
			dests = append(dests, is)
		}
	}
	if len(dests) == 0 {
		return nil
	}
	var goods []string
	for _, g := range cfg.Goods {
		if g.Category != tuning.CategoryContraband {
			goods = append(goods, g.ID)
		}
	}

	rng := &gs.RNG
	n := minBoardSize + rng.Intn(max(1, cfg.Settings.ContractBoardSize-minBoardSize+1))
	powerMult := progression.ContractRewardMult(cfg, &gs.Player)
	out := make([]state.Contract, 0, n)
	for range n {
		to := mathx.Pick(rng, dests)
		ct, ok := cfg.ContractType(mathx.Pick(rng, typePool(from, to)))
		if !ok {
			continue
		}
		dist := from.Position.Distance(to.Position)
		baseDays := math.Ceil(dist / travelUnitsPerDay)
		urgency := 0.8 + rng.Float64()*0.4
		riskFactor := ct.RiskMult * (1 + risk.RouteRiskBetween(cfg, from.ID, to.ID)*0.5)

		c := state.Contract{
			ID:          gs.NewContractID(),
			Type:        ct.ID,
			Origin:      from.ID,
			Destination: to.ID,
			Deadline:    max(minDeadline, mathx.Floor(baseDays*(1.5+(1-urgency)*2))),
			Gold:        mathx.Floor(ct.BaseReward * (1 + dist/100) * riskFactor * urgency * powerMult),
			Rep:         ct.RepReward,
			RepFaction:  from.Faction,
			Risk:        riskFactor,
			Status:      state.ContractAvailable,
		}
		if c.RepFaction == tuning.FactionNeutral {
			c.RepFaction = tuning.FactionEnglish
			if rng.Coin() {
				c.RepFaction = tuning.FactionEITC
			}
		}

		switch ct.ID {
		case tuning.ContractDelivery:
			c.Requirement = state.RequireDeliver
			c.Good = mathx.Pick(rng, goods)
			c.Quantity = rng.Between(3, 10)
		case tuning.ContractSmuggling:
			c.Requirement = state.RequireDeliver
			c.Good = smugglingGood
			c.Quantity = rng.Between(2, 6)
			c.RepFaction = tuning.FactionPirates
			c.Gold = mathx.Floor(float64(c.Gold) * smugglingRewardMul)
		case tuning.ContractCourier:
			c.Requirement = state.RequireReach
			c.NoInspection = rng.Coin()
		case tuning.ContractSupply:
			c.Requirement = state.RequireSupplies
			c.MinSupplies = rng.Between(10, 19)
		case tuning.ContractFaction:
			c.Requirement = state.RequireReach
			c.Gold = mathx.Floor(float64(c.Gold) * errandGoldMul)
			c.Rep = mathx.Floor(float64(c.Rep) * errandRepMul)
		}
		c.Title = title(cfg, c, to.Name)
		out = append(out, c)
	}
	return out
}

func title(cfg *tuning.Tuning, c state.Contract, dest string) string {
	switch c.Type {
	case tuning.ContractDelivery:
		name := "goods"
		if g, ok := cfg.Good(c.Good); ok {
			name = g.Name
		}
		return fmt.Sprintf("Deliver %s to %s", name, dest)
	case tuning.ContractSmuggling:
		return "Smuggle cargo to " + dest
	case tuning.ContractCourier:
		return "Urgent dispatch to " + dest
	case tuning.ContractSupply:
		return "Supply run to " + dest
	case tuning.ContractFaction:
		return "Official business at " + dest
	}
	return "Contract to " + dest
}

// Board returns the island's board, regenerating it when it is missing,
// empty or older than the refresh interval.
// Posted is the island's board as last generated, without refreshing it.
func Posted(gs *state.GameState, island string) []state.Contract {
	if b := gs.World.Boards[island]; b != nil {
		return b.Contracts
	}
	return nil
}

func Board(cfg *tuning.Tuning, gs *state.GameState, island string) *state.Board {
	w := &gs.World
	if w.Boards == nil {
		w.Boards = map[string]*state.Board{}
	}
	b := w.Boards[island]
	if b == nil || len(b.Contracts) == 0 || gs.Player.Days-b.Day >= cfg.Settings.ContractRefreshDays {
		b = &state.Board{Day: gs.Player.Days, Contracts: Generate(cfg, gs, island)}
		w.Boards[island] = b
	}
	return b
}
