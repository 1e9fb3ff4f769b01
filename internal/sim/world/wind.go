package world

import (
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// TickWind counts down to the next wind shift. Seasons nudge the new strength.
func TickWind(cfg *tuning.Tuning, gs *state.GameState) bool {
	w := &gs.Wind
	w.DaysUntilChange--
	if w.DaysUntilChange > 0 {
		return false
	}
	RollWind(cfg, gs)
	return true
}

// RollWind picks a fresh direction and strength.
func RollWind(cfg *tuning.Tuning, gs *state.GameState) {
	w := &gs.Wind
	w.Direction = gs.RNG.Intn(len(cfg.Wind.Directions))
	bias := Season(cfg, gs).WindBias / 2
	w.Strength = mathx.ClampInt(gs.RNG.Intn(len(cfg.Wind.Strengths))+bias, 0, len(cfg.Wind.Strengths)-1)
	w.DaysUntilChange = cfg.Settings.WindChangeDays
}

// WindName describes the current wind, e.g. "Strong NE".
func WindName(cfg *tuning.Tuning, w state.Wind) string {
	if w.Direction < 0 || w.Direction >= len(cfg.Wind.Directions) || w.Strength < 0 || w.Strength >= len(cfg.Wind.Strengths) {
		return ""
	}
	return cfg.Wind.Strengths[w.Strength].Name + " " + cfg.Wind.Directions[w.Direction].Name
}
