package ship

import (
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

const navigatorEscapeBonus = 0.1

// EscapeChance is the odds of outrunning a pursuer.
func EscapeChance(cfg *tuning.Tuning, gs *state.GameState) float64 {
	ch := cfg.Chase
	p := &gs.Player
	c := ch.BaseEscapeChance + Class(cfg, p).EscapeBonus
	c += float64(gs.Wind.Strength) * ch.WindSpeedFactor
	c -= float64(p.CargoUsed(cfg)) * ch.CargoWeightPenalty
	if p.Ship.Rigging < cfg.ShipCondition.CriticalThreshold {
		c -= cfg.ShipCondition.LowRiggingEscape
	} else {
		c += (p.Ship.Rigging - 50) * ch.RiggingFactor
	}
	if p.HasOfficer("navigator") {
		c += navigatorEscapeBonus
	}
	c -= risk.LevelValue(cfg.Balance.Bounty.EscapePenalty, risk.PlayerLevel(cfg, p), 0)
	return mathx.Clamp(c, ch.MinEscape, ch.MaxEscape)
}

// ChaseDuration is how long a pursuit lasts in milliseconds. Fast, light ships end it sooner.
func ChaseDuration(cfg *tuning.Tuning, p *state.Player) int {
	ch := cfg.Chase
	d := float64(ch.BaseDurationMs) - (Class(cfg, p).BaseSpeed-1)*3000 + float64(p.CargoUsed(cfg))*50
	return mathx.ClampInt(mathx.Round(d), ch.MinDurationMs, ch.MaxDurationMs)
}
