package encounter

import (
	"fmt"
	"slices"

	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// Pardon failure reasons.
const (
	ReasonNoBounty = "No bounty to pardon"
	ReasonNoPardon = "No pardons offered here"
)

// NextHunter picks who comes after the player. The infamous draw ever
// deadlier hunters as they beat the lesser ones.
func NextHunter(cfg *tuning.Tuning, p *state.Player) (tuning.Hunter, bool) {
	var left []tuning.Hunter
	for _, h := range cfg.BountyHunters.Hunters {
		if !slices.Contains(p.HuntersDefeated, h.Name) {
			left = append(left, h)
		}
	}
	if len(left) == 0 {
		return tuning.Hunter{}, false
	}
	i := 0
	if risk.PlayerLevel(cfg, p) == risk.LevelInfamous {
		i = min(len(left)-1, len(p.HuntersDefeated))
	}
	return left[i], true
}

// HunterBribe is what a hunter asks to forget the contract on the player's head.
func HunterBribe(p *state.Player, h tuning.Hunter) int {
	return mathx.Floor(100 + float64(p.Bounty)*0.5 + h.Strength*100)
}

// SpawnHunter rolls for a bounty hunter on the player's trail.
func SpawnHunter(cfg *tuning.Tuning, gs *state.GameState) (state.Encounter, bool) {
	p := &gs.Player
	c := HunterChance(cfg, p)
	if c <= 0 || !gs.RNG.Chance(c) {
		return state.Encounter{}, false
	}
	h, ok := NextHunter(cfg, p)
	if !ok {
		return state.Encounter{}, false
	}
	return state.Encounter{
		Kind:     state.EncounterBountyHunter,
		Hunter:   h.Name,
		Strength: h.Strength,
		Cost:     HunterBribe(p, h),
	}, true
}

func hunterByName(cfg *tuning.Tuning, name string) tuning.Hunter {
	for _, h := range cfg.BountyHunters.Hunters {
		if h.Name == name {
			return h
		}
	}
	return tuning.Hunter{Name: name}
}

// BribeHunter pays the hunter off. The bounty stands.
func BribeHunter(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	enc, ok := pending(gs, state.EncounterBountyHunter)
	if !ok {
		return failed(ReasonNoEncounter)
	}
	p := &gs.Player
	if p.Gold < enc.Cost {
		return failed(state.ReasonNotEnoughGold)
	}
	p.Gold -= enc.Cost
	out := done(gs, fmt.Sprintf("%s takes %dg and sails off.", enc.Hunter, enc.Cost))
	out.Gold = -enc.Cost
	return out
}

// HunterWinChance is the odds of beating a hunter of the given strength.
func HunterWinChance(strength float64) float64 {
	return max(0.1, 0.5-strength*0.2)
}

// FightHunter resolves a duel with a bounty hunter.
func FightHunter(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	enc, ok := pending(gs, state.EncounterBountyHunter)
	if !ok {
		return failed(ReasonNoEncounter)
	}
	p := &gs.Player
	if gs.RNG.Chance(HunterWinChance(enc.Strength)) {
		h := hunterByName(cfg, enc.Hunter)
		p.Gold += h.Reward
		if !slices.Contains(p.HuntersDefeated, h.Name) {
			p.HuntersDefeated = append(p.HuntersDefeated, h.Name)
		}
		risk.AddBounty(cfg, p, -50)
		out := done(gs, fmt.Sprintf("You defeat %s and claim %dg.", h.Name, h.Reward))
		out.Gold = h.Reward
		return out
	}
	gold := min(p.Gold, ship.GoldLoss(cfg, p, float64(p.Gold)*0.4))
	p.Gold -= gold
	lost := LoseCargo(cfg, p, ship.CargoLoss(cfg, p, 0.3))
	ship.DamageHull(p, 25)
	risk.AddBounty(cfg, p, 30)
	out := done(gs, fmt.Sprintf("%s beats you and takes a cut.", enc.Hunter))
	out.Gold, out.Lost = -gold, lost
	return out
}

// PardonCost is the price of a clean slate at a port of the given
// allegiance. Pirate ports offer none.
func PardonCost(cfg *tuning.Tuning, p *state.Player, faction string) (int, bool) {
	if faction == tuning.FactionPirates || p.Bounty <= 0 {
		return 0, false
	}
	pc, ok := cfg.BountyHunters.PardonCosts[faction]
	if !ok {
		pc, ok = cfg.BountyHunters.PardonCosts[tuning.FactionNeutral]
	}
	if !ok {
		return 0, false
	}
	return mathx.Ceil(pc.Base + float64(p.Bounty)*pc.PerBounty), true
}

// BuyPardon clears the bounty at the island the player is docked at.
func BuyPardon(cfg *tuning.Tuning, gs *state.GameState) (int, state.Result) {
	if !gs.IsDocked || gs.CurrentIsland == "" {
		return 0, state.Fail(state.ReasonNotDocked)
	}
	is, ok := cfg.Island(gs.CurrentIsland)
	if !ok {
		return 0, state.Fail(state.ReasonUnknownIsland)
	}
	p := &gs.Player
	if p.Bounty <= 0 {
		return 0, state.Fail(ReasonNoBounty)
	}
	cost, ok := PardonCost(cfg, p, is.Faction)
	if !ok {
		return 0, state.Fail(ReasonNoPardon)
	}
	if p.Gold < cost {
		return 0, state.Fail(state.ReasonNotEnoughGold)
	}
	p.Gold -= cost
	risk.Pardon(p)
	return cost, state.OK()
}
