package encounter

import (
	"fmt"

	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/progression"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/sim/world"
)

const (
	wreckSupplyCap   = 30
	desperateShare   = 5
	desperateFairPct = 0.8
)

// MerchantOffer rolls a discounted lot from an adrift trader or a floating market.
func MerchantOffer(cfg *tuning.Tuning, gs *state.GameState, kind string) state.Encounter {
	p := &gs.Player
	g := mathx.Pick(&gs.RNG, cfg.Goods)
	enc := cfg.Balance.Encounters
	discount := progression.PlayerScaling(cfg, p, enc.MerchantDiscountMax, -0.0001, enc.MerchantDiscountMin, enc.MerchantDiscountMax)
	return state.Encounter{
		Kind:     kind,
		Good:     g.ID,
		Quantity: gs.RNG.Between(3, 7),
		Price:    max(1, mathx.Floor(g.BasePrice*(1-discount))),
	}
}

// DesperateOffer rolls a stranded trader short on provisions.
func DesperateOffer(cfg *tuning.Tuning, gs *state.GameState) state.Encounter {
	var legal []tuning.Good
	for _, g := range cfg.Goods {
		if g.Category != tuning.CategoryContraband {
			legal = append(legal, g)
		}
	}
	g := mathx.Pick(&gs.RNG, legal)
	return state.Encounter{
		Kind:     state.EncounterDesperate,
		Good:     g.ID,
		Quantity: gs.RNG.Between(5, 14),
		Price:    max(1, mathx.Floor(g.BasePrice*desperateFairPct)),
	}
}

func takeLot(cfg *tuning.Tuning, gs *state.GameState, enc *state.Encounter, price int) (Outcome, bool) {
	p := &gs.Player
	total := price * enc.Quantity
	if p.Gold < total {
		return failed(state.ReasonNotEnoughGold), false
	}
	if r := ship.CanCarry(cfg, p, enc.Good, enc.Quantity); !r.Success {
		return Outcome{Result: r}, false
	}
	p.Gold -= total
	p.AddCargo(enc.Good, enc.Quantity)
	if p.PurchaseHistory == nil {
		p.PurchaseHistory = map[string]int{}
	}
	p.PurchaseHistory[enc.Good] = price
	delete(p.PurchaseLocation, enc.Good)
	if g, _ := cfg.Good(enc.Good); g.Category == tuning.CategoryContraband {
		risk.AddHeat(cfg, p, float64(cfg.Settings.HeatGainContraband))
	}
	return Outcome{Result: state.OK(), Gold: -total, Gained: map[string]int{enc.Good: enc.Quantity}}, true
}

// BuyLot accepts a merchant's or desperate trader's price.
func BuyLot(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	enc, ok := pending(gs, state.EncounterMerchant, state.EncounterMarket, state.EncounterDesperate)
	if !ok {
		return failed(ReasonNoEncounter)
	}
	out, ok := takeLot(cfg, gs, enc, enc.Price)
	if !ok {
		return out
	}
	if enc.Kind == state.EncounterDesperate {
		out.Message = "A fair trade. The merchant thanks you."
	} else {
		out.Message = fmt.Sprintf("You buy %d %s at %dg each.", enc.Quantity, enc.Good, enc.Price)
	}
	Clear(gs)
	return out
}

// Plunder robs a desperate trader. The law hears of it.
func Plunder(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	enc, ok := pending(gs, state.EncounterDesperate)
	if !ok {
		return failed(ReasonNoEncounter)
	}
	out, ok := takeLot(cfg, gs, enc, 0)
	if !ok {
		return out
	}
	p := &gs.Player
	progression.ApplyRepChange(cfg, p, tuning.FactionEnglish, -8)
	progression.ApplyRepChange(cfg, p, tuning.FactionEITC, -5)
	Clear(gs)
	out.Message = "You take the cargo by force."
	return out
}

// Share gives a desperate trader provisions and earns merchant favor.
func Share(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	if _, ok := pending(gs, state.EncounterDesperate); !ok {
		return failed(ReasonNoEncounter)
	}
	p := &gs.Player
	if p.Supplies < desperateShare {
		return failed("Not enough supplies")
	}
	p.Supplies -= desperateShare
	progression.ApplyRepChange(cfg, p, tuning.FactionEnglish, 10)
	progression.ApplyRepChange(cfg, p, tuning.FactionEITC, 8)
	p.MerchantFavor++
	out := done(gs, "The merchant will not forget your kindness.")
	out.Supplies = -desperateShare
	return out
}

// WreckPositiveChance is the odds a wreck holds anything worth taking.
func WreckPositiveChance(cfg *tuning.Tuning, p *state.Player) float64 {
	return progression.PlayerScaling(cfg, p, cfg.Balance.Encounters.WreckPositiveChance, -0.0001, 0.5, 0.9)
}

// Salvage searches a wreck.
func Salvage(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	if _, ok := pending(gs, state.EncounterWreck); !ok {
		return failed(ReasonNoEncounter)
	}
	p := &gs.Player
	rng := &gs.RNG
	roll := rng.Float64()
	if !rng.Chance(WreckPositiveChance(cfg, p)) {
		switch {
		case roll < 0.5:
			return done(gs, "The wreck has already been picked clean.")
		case roll < 0.8:
			n := min(p.Supplies, rng.Between(1, 2))
			p.Supplies -= n
			out := done(gs, "Rotten timbers give way. You lose some supplies.")
			out.Supplies = -n
			return out
		}
		n := min(p.Gold, rng.Between(10, 29))
		p.Gold -= n
		out := done(gs, "Scavengers were waiting. You lose some gold.")
		out.Gold = -n
		return out
	}
	switch {
	case roll < 0.15:
		cove := world.AddChartFragment(cfg, gs)
		out := done(gs, "You find a fragment of an old chart.")
		out.Cove = cove
		return out
	case roll < 0.45:
		n := max(0, min(rng.Between(3, 7), wreckSupplyCap-p.Supplies))
		p.Supplies += n
		out := done(gs, "You salvage supplies from the wreck.")
		out.Supplies = n
		return out
	case roll < 0.8:
		n := mathx.Floor(float64(20+rng.Intn(50)) * (1 + float64(progression.Power(cfg, p))*0.0002))
		p.Gold += n
		out := done(gs, fmt.Sprintf("You find %dg in a sea chest.", n))
		out.Gold = n
		return out
	}
	g := mathx.Pick(rng, cfg.Goods)
	qty := rng.Between(1, 3)
	if !ship.CanCarry(cfg, p, g.ID, qty).Success {
		return done(gs, "There is cargo aboard, but no room in your hold.")
	}
	p.AddCargo(g.ID, qty)
	if g.Category == tuning.CategoryContraband {
		risk.AddHeat(cfg, p, float64(cfg.Settings.HeatGainContraband)/2)
	}
	out := done(gs, fmt.Sprintf("You salvage %d %s.", qty, g.Name))
	out.Gained = map[string]int{g.ID: qty}
	return out
}

// HireRunner pays a blockade runner for safe passage for three days.
func HireRunner(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	enc, ok := pending(gs, state.EncounterRunner)
	if !ok {
		return failed(ReasonNoEncounter)
	}
	p := &gs.Player
	if p.Gold < enc.Cost {
		return failed(state.ReasonNotEnoughGold)
	}
	p.Gold -= enc.Cost
	p.BlockadePass = p.Days + 3
	progression.ApplyRepChange(cfg, p, tuning.FactionPirates, 5)
	progression.ApplyRepChange(cfg, p, tuning.FactionEnglish, -3)
	out := done(gs, "The runner will see you through the blockade.")
	out.Gold = -enc.Cost
	return out
}

// ReportRunner turns a blockade runner in to the navy for a reward.
func ReportRunner(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	if _, ok := pending(gs, state.EncounterRunner); !ok {
		return failed(ReasonNoEncounter)
	}
	p := &gs.Player
	reward := 50 + gs.RNG.Intn(50)
	p.Gold += reward
	progression.ApplyRepChange(cfg, p, tuning.FactionEnglish, 10)
	progression.ApplyRepChange(cfg, p, tuning.FactionPirates, -15)
	risk.AddHeat(cfg, p, -10)
	out := done(gs, fmt.Sprintf("The navy pays %dg for the tip.", reward))
	out.Gold = reward
	return out
}

// BribeBlockade pays the blockading squadron to look away.
func BribeBlockade(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	enc, ok := pending(gs, state.EncounterBlockade)
	if !ok {
		return failed(ReasonNoEncounter)
	}
	p := &gs.Player
	if p.Gold < enc.Cost {
		return failed(state.ReasonNotEnoughGold)
	}
	p.Gold -= enc.Cost
	p.LastBlockadeDay = p.Days
	if b := gs.World.Blockades[enc.Island]; b != nil {
		world.ModifyInfluence(cfg, &gs.World, enc.Island, b.Faction, -2)
	}
	out := done(gs, fmt.Sprintf("%dg buys your way through.", enc.Cost))
	out.Gold = -enc.Cost
	return out
}

// Ignore declines an optional encounter.
func Ignore(gs *state.GameState) Outcome {
	enc, ok := pending(gs, state.EncounterMerchant, state.EncounterMarket, state.EncounterDesperate,
		state.EncounterWreck, state.EncounterRunner, state.EncounterBlockade)
	if !ok {
		return failed(ReasonNoEncounter)
	}
	if enc.Kind == state.EncounterBlockade {
		return done(gs, "You turn back from the blockade.")
	}
	return done(gs, "You sail on.")
}
