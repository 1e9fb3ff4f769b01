package ship

import (
	"havenvoy.game/internal/sim/effects"
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/sim/world"
)

// Repair kinds.
const (
	KindHull    = "hull"
	KindRigging = "rigging"
	KindRest    = "rest"
)

func MaxHull(cfg *tuning.Tuning, p *state.Player) float64 {
	return float64(Class(cfg, p).HullMax)
}

func MaxRigging(cfg *tuning.Tuning, p *state.Player) float64 {
	return float64(Class(cfg, p).RiggingMax)
}

func MaxMorale(cfg *tuning.Tuning, p *state.Player) float64 {
	return cfg.ShipCondition.MaxMorale + float64(effects.For(cfg, p).MaxMorale)
}

// Fresh returns a ship in perfect condition for the player's class.
func Fresh(cfg *tuning.Tuning, p *state.Player) state.Ship {
	return state.Ship{Hull: MaxHull(cfg, p), Rigging: MaxRigging(cfg, p), Morale: MaxMorale(cfg, p)}
}

func DamageHull(p *state.Player, amount float64) {
	p.Ship.Hull = max(0, p.Ship.Hull-amount)
}

// DamageRigging applies rigging wear, softened by a bosun.
func DamageRigging(cfg *tuning.Tuning, p *state.Player, amount float64) {
	amount *= effects.For(cfg, p).RiggingWearMult
	p.Ship.Rigging = max(0, p.Ship.Rigging-amount)
}

// DamageMorale lowers morale. A bosun's discipline costs a little extra.
func DamageMorale(cfg *tuning.Tuning, p *state.Player, amount float64) {
	amount += effects.For(cfg, p).MoralePenalty * 0.1
	p.Ship.Morale = max(0, p.Ship.Morale-amount)
}

// RepairHull patches the hull. Repairs at sea on a critical hull are less effective.
func RepairHull(cfg *tuning.Tuning, p *state.Player, amount float64, atSea bool) {
	if atSea && p.Ship.Hull < cfg.ShipCondition.CriticalThreshold {
		amount *= 1 - cfg.ShipCondition.LowHullRepairPenalty
	}
	p.Ship.Hull = min(MaxHull(cfg, p), p.Ship.Hull+amount)
}

func RepairRigging(cfg *tuning.Tuning, p *state.Player, amount float64) {
	p.Ship.Rigging = min(MaxRigging(cfg, p), p.Ship.Rigging+amount)
}

func RestoreMorale(cfg *tuning.Tuning, p *state.Player, amount float64) {
	amount *= effects.For(cfg, p).MoraleRecovery
	p.Ship.Morale = min(MaxMorale(cfg, p), p.Ship.Morale+amount)
}

// ApplyDailyWear wears the ship for one day at sea.
func ApplyDailyWear(cfg *tuning.Tuning, gs *state.GameState, storm bool) {
	sc := cfg.ShipCondition
	p := &gs.Player

	hull := sc.HullWearBase
	if storm {
		hull += sc.HullWearStorm
	}
	if float64(p.CargoUsed(cfg)) > float64(Capacity(cfg, p))*0.9 {
		hull += sc.HullWearOverload
	}
	DamageHull(p, hull)

	rig := sc.RiggingWearBase
	if storm {
		rig += sc.RiggingWearStorm
	}
	if gs.Wind.Strength >= 3 {
		rig += sc.RiggingWearHighWind
	}
	DamageRigging(cfg, p, rig)

	morale := sc.MoraleWearBase
	if world.Season(cfg, gs).SpeedMult < 1 {
		morale += sc.MoraleDoldrumsExtra
	}
	if p.Supplies < 10 {
		morale += sc.MoraleLowSupplies
	}
	DamageMorale(cfg, p, morale)
}

// RepairCost is the dock price for repairing amount points of kind.
func RepairCost(cfg *tuning.Tuning, p *state.Player, kind string, amount float64) int {
	sc := cfg.ShipCondition
	var cost float64
	switch kind {
	case KindHull:
		cost = amount * sc.DockRepairCostHull
	case KindRigging:
		cost = amount * sc.DockRepairCostRig
	case KindRest:
		cost = float64(max(5, mathx.Ceil(amount*0.5)) + 5)
	}
	cost *= Class(cfg, p).RepairCostMult
	cost *= 1 - effects.For(cfg, p).RepairDiscount
	return max(1, mathx.Ceil(cost))
}

// Critical reports whether any ship stat is below the critical threshold.
func Critical(cfg *tuning.Tuning, p *state.Player) bool {
	th := cfg.ShipCondition.CriticalThreshold
	return p.Ship.Hull < th || p.Ship.Rigging < th || p.Ship.Morale < th
}

// CheckMutiny rolls for mutiny when morale is critical.
func CheckMutiny(cfg *tuning.Tuning, gs *state.GameState) bool {
	if gs.Player.Ship.Morale >= cfg.ShipCondition.CriticalThreshold {
		return false
	}
	return gs.RNG.Chance(cfg.ShipCondition.MutinyChance)
}
