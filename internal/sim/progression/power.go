// Package progression scores how strong a player has become and scales
// rewards and costs against it. Every value here is computed from base
// prices and recorded prices only, never from live market prices.
package progression

import (
	"math"

	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// Game phases.
const (
	PhaseEarly   = "early"
	PhaseMid     = "mid"
	PhaseLate    = "late"
	PhaseEndgame = "endgame"
)

// BaseCargoValue values the hold at configured base prices.
func BaseCargoValue(cfg *tuning.Tuning, p *state.Player) float64 {
	v := 0.0
	for g, q := range p.Cargo {
		if good, ok := cfg.Good(g); ok {
			v += good.BasePrice * float64(q)
		}
	}
	return v
}

// Power is the composite progression score.
func Power(cfg *tuning.Tuning, p *state.Player) int {
	w := cfg.Balance.PowerScore
	tiers := 0
	for _, tr := range cfg.Titles {
		tiers += safeTier(tr, p)
	}
	days := p.Days
	if days <= 0 {
		days = 1
	}
	power := float64(p.Gold)*w.GoldWeight +
		BaseCargoValue(cfg, p)*w.CargoWeight +
		float64(len(p.Upgrades))*w.UpgradeWeight +
		float64(tiers)*w.TitleWeight +
		float64(days)*w.DaysWeight +
		float64(p.Stats.ContractsCompleted)*w.ContractsWeight
	return mathx.Floor(power)
}

// safeTier walks the configured ladder without extrapolation. Merchant
// standing uses gold alone so power never depends on a price.
func safeTier(tr tuning.TitleTrack, p *state.Player) int {
	var v float64
	switch tr.ID {
	case tuning.TrackMerchant:
		v = float64(p.Gold)
	case tuning.TrackSmuggler:
		v = float64(p.Stats.ContrabandTraded)
	case tuning.TrackVoyager:
		v = float64(p.Days)
	}
	tier := 0
	for i, th := range tr.Thresholds {
		if v < th {
			break
		}
		tier = i + 1
	}
	return tier
}

func Phase(cfg *tuning.Tuning, p *state.Player) string {
	return PhaseFor(cfg, Power(cfg, p))
}

func PhaseFor(cfg *tuning.Tuning, power int) string {
	t := cfg.Balance.PowerThresholds
	pw := float64(power)
	switch {
	case pw >= t.Endgame:
		return PhaseEndgame
	case pw >= t.Late:
		return PhaseLate
	case pw >= t.Mid:
		return PhaseMid
	}
	return PhaseEarly
}

// PhaseIndex orders phases 0..3.
func PhaseIndex(phase string) int {
	switch phase {
	case PhaseMid:
		return 1
	case PhaseLate:
		return 2
	case PhaseEndgame:
		return 3
	}
	return 0
}

// Scaling returns clamp(base + power*slope, lo, hi).
func Scaling(power int, base, slope, lo, hi float64) float64 {
	return mathx.Clamp(base+float64(power)*slope, lo, hi)
}

// PlayerScaling is Scaling at the player's current power.
func PlayerScaling(cfg *tuning.Tuning, p *state.Player, base, slope, lo, hi float64) float64 {
	return Scaling(Power(cfg, p), base, slope, lo, hi)
}

// UpgradeCostMult grows purchase costs with power.
func UpgradeCostMult(cfg *tuning.Tuning, p *state.Player) float64 {
	pr := cfg.Balance.Progression
	return PlayerScaling(cfg, p, 1, pr.UpgradeCostPowerMult, 1, pr.UpgradeCostMax)
}

// ContractRewardMult shrinks contract rewards with power.
func ContractRewardMult(cfg *tuning.Tuning, p *state.Player) float64 {
	pr := cfg.Balance.Progression
	return PlayerScaling(cfg, p, pr.ContractRewardBase, pr.ContractRewardPowerMult, pr.ContractRewardMin, pr.ContractRewardBase)
}

// ScaledCost applies the upgrade cost multiplier to a configured price.
func ScaledCost(cfg *tuning.Tuning, p *state.Player, cost int) int {
	return int(math.Floor(float64(cost) * UpgradeCostMult(cfg, p)))
}
