// Package ship covers the vessel itself: hold capacity, speed and supplies,
// hull, rigging and crew morale, officers and their wages, and how hard the
// ship is to catch.
package ship

import (
	"havenvoy.game/internal/sim/effects"
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/sim/world"
)

const minCapacity = 20

// Class returns the player's ship class definition.
func Class(cfg *tuning.Tuning, p *state.Player) tuning.ShipClass {
	return cfg.ShipClass(p.ShipClass)
}

// Capacity is the total hold weight the ship can carry.
func Capacity(cfg *tuning.Tuning, p *state.Player) int {
	m := effects.For(cfg, p)
	c := float64(Class(cfg, p).CargoCapacity)*(1+m.CargoBonus) - float64(m.CapacityPenalty)
	return mathx.Floor(max(minCapacity, c))
}

// CategoryCapacity is the hold limit for one good category.
func CategoryCapacity(cfg *tuning.Tuning, p *state.Player, category string) int {
	c := Capacity(cfg, p)
	m := effects.For(cfg, p)
	switch category {
	case tuning.CategoryLuxury:
		c += m.LuxuryCap
	case tuning.CategoryCommodity:
		c += m.CommodityCap
	}
	return max(0, c)
}

// CanCarry checks both the total and the category limit for qty more units.
func CanCarry(cfg *tuning.Tuning, p *state.Player, good string, qty int) state.Result {
	g, ok := cfg.Good(good)
	if !ok {
		return state.Fail(state.ReasonUnknownGood)
	}
	w := g.Weight * qty
	if p.CargoUsed(cfg)+w > Capacity(cfg, p) {
		return state.Fail(state.ReasonHoldFull)
	}
	if p.CategoryUsed(cfg, g.Category)+w > CategoryCapacity(cfg, p, g.Category) {
		return state.Fail(state.ReasonCategoryLimit)
	}
	return state.OK()
}

// Speed is the ship's base sailing speed before wind.
func Speed(cfg *tuning.Tuning, gs *state.GameState) float64 {
	p := &gs.Player
	m := effects.For(cfg, p)
	s := cfg.Settings.BaseShipSpeed * Class(cfg, p).BaseSpeed
	s *= (1 + m.SpeedBonus) * (1 - m.SpeedPenalty) * (1 + m.CrewSpeed)
	if p.Ship.Rigging < cfg.ShipCondition.CriticalThreshold {
		s *= 1 - cfg.ShipCondition.LowRiggingSpeed
	}
	return s * world.Season(cfg, gs).SpeedMult
}

// WindEffect is the speed multiplier for sailing along dir.
func WindEffect(cfg *tuning.Tuning, gs *state.GameState, dir tuning.Vec2) float64 {
	w := gs.Wind
	if w.Direction < 0 || w.Direction >= len(cfg.Wind.Directions) || w.Strength < 0 || w.Strength >= len(cfg.Wind.Strengths) {
		return 1
	}
	ws := cfg.Wind.Strengths[w.Strength].Mult
	if ws == 0 {
		return 1
	}
	wd := cfg.Wind.Directions[w.Direction]
	dot := dir.X*wd.X + dir.Z*wd.Z
	switch {
	case dot > 0.5:
		return 1 + ws*(1+effects.For(cfg, &gs.Player).WindBonus)
	case dot < -0.5:
		return 1 - ws*0.7
	}
	return 1
}

// SupplyRate is the supplies consumed per day at sea.
func SupplyRate(cfg *tuning.Tuning, gs *state.GameState) float64 {
	rate := cfg.Settings.BaseSupplyRate + effects.For(cfg, &gs.Player).SupplyCost
	rate *= world.Season(cfg, gs).SupplyCostMult
	if ev, ok := world.SeasonalEvent(cfg, gs); ok && ev.Effects.SupplyCost > 0 {
		rate *= ev.Effects.SupplyCost
	}
	return rate
}

// ConsumeSupplies eats one day of supplies. The fractional part is rolled.
func ConsumeSupplies(cfg *tuning.Tuning, gs *state.GameState) int {
	rate := SupplyRate(cfg, gs)
	n := mathx.Floor(rate)
	if gs.RNG.Chance(rate - float64(n)) {
		n++
	}
	n = min(n, gs.Player.Supplies)
	gs.Player.Supplies -= n
	return n
}

// CargoLoss reduces a storm or fight loss by the hold's protection.
func CargoLoss(cfg *tuning.Tuning, p *state.Player, base float64) float64 {
	return base * (1 - effects.For(cfg, p).CargoProtection)
}

func GoldLoss(cfg *tuning.Tuning, p *state.Player, base float64) int {
	return mathx.Floor(base * (1 - effects.For(cfg, p).GoldProtection))
}

// Tribute is what pirates demand after the vault, faction and title reductions.
func Tribute(cfg *tuning.Tuning, p *state.Player, base float64) int {
	m := effects.For(cfg, p)
	return mathx.Floor(base * (1 - m.TributeReduction) * m.TributeMult * (1 - m.TitleTributeReduction))
}
