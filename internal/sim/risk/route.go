package risk

import (
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/progression"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// RouteRisk scores the current voyage in [0,1] from cargo value, allegiance,
// destination waters, heat and time at sea.
func RouteRisk(cfg *tuning.Tuning, gs *state.GameState) float64 {
	p := &gs.Player
	r := min(0.4, float64(progression.EstimateCargoValue(cfg, gs))/2000)
	switch p.Faction {
	case tuning.FactionPirates:
		r += 0.1
	case tuning.FactionEITC:
		r += 0.05
	}
	if is, ok := cfg.Island(p.Destination); ok {
		switch is.Faction {
		case tuning.FactionPirates:
			r += 0.15
		case tuning.FactionEnglish, tuning.FactionEITC:
			r += 0.05
		}
	}
	r += p.Heat / 500
	r += min(0.1, float64(p.DaysSinceDock)/20)
	return mathx.Clamp01(r)
}

// RouteRiskBetween is the static danger of a passage, used when pricing contracts.
func RouteRiskBetween(cfg *tuning.Tuning, from, to string) float64 {
	r := 0.0
	if is, ok := cfg.Island(to); ok && is.Faction == tuning.FactionPirates {
		r += 0.3
	}
	if is, ok := cfg.Island(from); ok && is.Faction == tuning.FactionPirates {
		r += 0.2
	}
	return min(1, r)
}
