package encounter

import (
	"fmt"

	"havenvoy.game/internal/sim/contracts"
	"havenvoy.game/internal/sim/effects"
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/progression"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/sim/world"
)

// Outcome reports what a response to an encounter did to the player.
type Outcome struct {
	state.Result
	Message  string         `json:"message,omitempty"`
	Gold     int            `json:"gold,omitempty"`
	Supplies int            `json:"supplies,omitempty"`
	Lost     map[string]int `json:"lost,omitempty"`
	Gained   map[string]int `json:"gained,omitempty"`
	Cove     string         `json:"cove,omitempty"`
	// Chase is set when the player chose to run and a pursuit must decide it.
	Chase bool `json:"chase,omitempty"`
	// Days is extra time spent that the caller must advance.
	Days int `json:"days,omitempty"`
}

func failed(reason string) Outcome { return Outcome{Result: state.Fail(reason)} }

func done(gs *state.GameState, msg string) Outcome {
	Clear(gs)
	return Outcome{Result: state.OK(), Message: msg}
}

// LoseCargo removes ceil(qty*frac) of every good in the hold.
func LoseCargo(cfg *tuning.Tuning, p *state.Player, frac float64) map[string]int {
	if frac <= 0 {
		return nil
	}
	lost := map[string]int{}
	for _, g := range p.CargoGoods(cfg) {
		if n := p.RemoveCargo(g, mathx.Ceil(float64(p.Cargo[g])*frac)); n > 0 {
			lost[g] = n
		}
	}
	return lost
}

// confiscate takes every unit of contraband.
func confiscate(cfg *tuning.Tuning, p *state.Player) map[string]int {
	lost := map[string]int{}
	for _, g := range p.CargoGoods(cfg) {
		good, _ := cfg.Good(g)
		if good.Category == tuning.CategoryContraband {
			lost[g] = p.RemoveCargo(g, p.Cargo[g])
		}
	}
	return lost
}

func lawRep(cfg *tuning.Tuning, p *state.Player, delta int) {
	progression.ApplyRepChange(cfg, p, tuning.FactionEnglish, delta)
	progression.ApplyRepChange(cfg, p, tuning.FactionEITC, delta)
}

// PayTribute hands over the pirates' demand. A purse too light to pay costs
// part of the hold instead.
func PayTribute(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	enc, ok := pending(gs, state.EncounterPirate, state.EncounterPirateFleet)
	if !ok {
		return failed(ReasonNoEncounter)
	}
	p := &gs.Player
	if p.Gold < enc.Cost {
		lost := LoseCargo(cfg, p, ship.CargoLoss(cfg, p, 0.3))
		out := done(gs, "Unable to pay, the pirates strip your hold.")
		out.Lost = lost
		return out
	}
	p.Gold -= enc.Cost
	out := done(gs, fmt.Sprintf("You pay %dg in tribute.", enc.Cost))
	out.Gold = -enc.Cost
	return out
}

// FightWinChance shrinks as the player's power phase advances.
func FightWinChance(cfg *tuning.Tuning, p *state.Player) float64 {
	enc := cfg.Balance.Encounters
	phase := progression.PhaseIndex(progression.Phase(cfg, p))
	return max(0.2, enc.PirateFightWinBase-enc.PirateFightWinPenalty*float64(phase))
}

// FightPirates resolves a boarding action.
func FightPirates(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	if _, ok := pending(gs, state.EncounterPirate, state.EncounterPirateFleet); !ok {
		return failed(ReasonNoEncounter)
	}
	p := &gs.Player
	enc := cfg.Balance.Encounters
	if gs.RNG.Chance(FightWinChance(cfg, p)) {
		power := float64(progression.Power(cfg, p))
		loot := mathx.Floor(float64(enc.PirateLootBase) + power*enc.PirateLootPowerMult + gs.RNG.Float64()*100)
		p.Gold += loot
		progression.ApplyRepChange(cfg, p, tuning.FactionPirates, 5)
		out := done(gs, fmt.Sprintf("Victory! You take %dg in plunder.", loot))
		out.Gold = loot
		return out
	}
	cargoFrac, goldFrac := 0.5, 0.1
	if progression.PhaseIndex(progression.Phase(cfg, p)) >= 2 {
		cargoFrac, goldFrac = 0.6, 0.15
	}
	lost := LoseCargo(cfg, p, ship.CargoLoss(cfg, p, cargoFrac))
	gold := min(p.Gold, ship.GoldLoss(cfg, p, float64(p.Gold)*goldFrac))
	p.Gold -= gold
	ship.DamageHull(p, 15)
	out := done(gs, "Defeated. The pirates loot your ship.")
	out.Lost, out.Gold = lost, -gold
	return out
}

// Flee answers a pirate, hunter or blockade encounter by running. Pirates
// let one of their own pass; everyone else gives chase.
func Flee(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	enc, ok := pending(gs, state.EncounterPirate, state.EncounterPirateFleet, state.EncounterBountyHunter, state.EncounterBlockade)
	if !ok {
		return failed(ReasonNoEncounter)
	}
	if gs.Player.Faction == tuning.FactionPirates && enc.Kind != state.EncounterBountyHunter && enc.Kind != state.EncounterBlockade {
		return done(gs, "The pirates recognize your colors and let you pass.")
	}
	return Outcome{Result: state.OK(), Message: "You crowd on sail and run!", Chase: true}
}

// Escaped settles a pursuit the player won.
func Escaped(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	if gs.Pending == nil {
		return failed(ReasonNoEncounter)
	}
	p := &gs.Player
	p.Stats.ChasesEscaped++
	ship.RestoreMorale(cfg, p, 5)
	if gs.Pending.Kind == state.EncounterBountyHunter {
		risk.AddBounty(cfg, p, 10)
	}
	return done(gs, "You escaped!")
}

// Caught settles a pursuit the player lost: pirates take their tribute,
// hunters force a fight and blockaders collect a double bribe.
func Caught(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	if gs.Pending == nil {
		return failed(ReasonNoEncounter)
	}
	switch gs.Pending.Kind {
	case state.EncounterBountyHunter:
		return FightHunter(cfg, gs)
	case state.EncounterBlockade:
		enc := gs.Pending
		p := &gs.Player
		cost := enc.Cost * 2
		if p.Gold < cost {
			lost := LoseCargo(cfg, p, ship.CargoLoss(cfg, p, 0.2))
			out := done(gs, "The blockade seizes part of your cargo.")
			out.Lost = lost
			return out
		}
		p.Gold -= cost
		out := done(gs, fmt.Sprintf("Caught running the blockade. Fined %dg.", cost))
		out.Gold = -cost
		return out
	}
	return PayTribute(cfg, gs)
}

// Submit lets the patrol search the hold.
func Submit(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	if _, ok := pending(gs, state.EncounterInspection); !ok {
		return failed(ReasonNoEncounter)
	}
	p := &gs.Player
	b := cfg.Balance.Bounty
	contracts.MarkInspected(p)
	p.Stats.Inspections++
	world.RaiseCrackdown(cfg, &gs.World, 5)

	qty := p.ContrabandUnits(cfg)
	if qty == 0 {
		return done(gs, "The inspectors find nothing. You may proceed.")
	}
	power := float64(progression.Power(cfg, p))
	if effects.For(cfg, p).InspectionReduction > 0 && gs.RNG.Chance(max(0.15, 0.25-power*0.00005)) {
		return done(gs, "Your hidden compartments hold. The inspectors leave empty-handed.")
	}

	fine := 50 + qty*15 + mathx.Floor(power*0.05)
	if p.Gold >= fine {
		p.Gold -= fine
		lost := confiscate(cfg, p)
		risk.AddHeat(cfg, p, 15)
		risk.AddBounty(cfg, p, b.ContrabandBounty*qty)
		world.RaiseCrackdown(cfg, &gs.World, 10)
		out := done(gs, fmt.Sprintf("Contraband seized. You pay a %dg fine.", fine))
		out.Gold, out.Lost = -fine, lost
		return out
	}
	lost := confiscate(cfg, p)
	lawRep(cfg, p, -15)
	risk.AddHeat(cfg, p, 25)
	risk.AddBounty(cfg, p, b.BaseGainPerCrime+b.ContrabandBounty*qty)
	out := done(gs, "Contraband seized. Unable to pay the fine, you are marked a criminal.")
	out.Lost = lost
	return out
}

// FleeInspection tries to outrun a patrol. The odds depend only on the bounty level.
func FleeInspection(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	if _, ok := pending(gs, state.EncounterInspection); !ok {
		return failed(ReasonNoEncounter)
	}
	p := &gs.Player
	b := cfg.Balance.Bounty
	level := risk.PlayerLevel(cfg, p)
	if gs.RNG.Chance(risk.LevelValue(b.FleeChance, level, 0.5)) {
		risk.AddHeat(cfg, p, 20)
		risk.AddBounty(cfg, p, b.FleeingBounty)
		p.Stats.ChasesEscaped++
		return done(gs, "You slip away from the patrol.")
	}
	qty := p.ContrabandUnits(cfg)
	contracts.MarkInspected(p)
	p.Stats.Inspections++
	lost := confiscate(cfg, p)
	gold := mathx.Floor(float64(p.Gold) * 0.2)
	p.Gold -= gold
	lawRep(cfg, p, -20)
	risk.AddHeat(cfg, p, 30)
	risk.AddBounty(cfg, p, b.BaseGainPerCrime+b.FleeingBounty+b.ContrabandBounty*qty)
	world.RaiseCrackdown(cfg, &gs.World, 20)
	out := done(gs, "The patrol runs you down.")
	out.Lost, out.Gold = lost, -gold
	return out
}

// RideOut pushes through a storm at the cost of supplies and maybe cargo.
func RideOut(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	enc, ok := pending(gs, state.EncounterStorm, state.EncounterStormsEye)
	if !ok {
		return failed(ReasonNoEncounter)
	}
	p := &gs.Player
	rng := &gs.RNG
	sup, cargoChance, cargoFrac := rng.Between(2, 4), 0.3, 0.15
	if enc.Kind == state.EncounterStormsEye {
		sup, cargoChance, cargoFrac = rng.Between(4, 7), 0.5, 0.25
		ship.DamageHull(p, 10)
		ship.DamageRigging(cfg, p, 10)
	}
	sup = min(sup, p.Supplies)
	p.Supplies -= sup
	var lost map[string]int
	if rng.Chance(cargoChance) {
		lost = LoseCargo(cfg, p, ship.CargoLoss(cfg, p, cargoFrac))
	}
	p.Stats.StormsWeathered++
	out := done(gs, "You ride out the storm.")
	out.Supplies, out.Lost = -sup, lost
	return out
}

// WaitOut shelters for a day, spending one supply.
func WaitOut(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	if _, ok := pending(gs, state.EncounterStorm, state.EncounterStormsEye); !ok {
		return failed(ReasonNoEncounter)
	}
	p := &gs.Player
	sup := min(1, p.Supplies)
	p.Supplies -= sup
	p.Stats.StormsWeathered++
	out := done(gs, "You wait for the storm to pass.")
	out.Supplies, out.Days = -sup, 1
	return out
}
