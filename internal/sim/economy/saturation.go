package economy

import (
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// SaturationPenalty is the sell multiplier once a port has absorbed too
// much of one good.
func SaturationPenalty(cfg *tuning.Tuning, w *state.World, island, good string) float64 {
	ds := cfg.Balance.DemandSaturation
	if !ds.Enabled {
		return 1
	}
	sat := w.SaturationAt(island, good)
	if sat <= ds.Threshold {
		return 1
	}
	return max(ds.MaxPenalty, 1-float64(sat-ds.Threshold)*ds.DecayRate)
}

// AddSaturation records units sold. Habitual goods saturate faster.
func AddSaturation(cfg *tuning.Tuning, gs *state.GameState, island, good string, qty int) {
	if !cfg.Balance.DemandSaturation.Enabled {
		return
	}
	mult := risk.ModifiersFor(cfg, &gs.Player.Meta, risk.Context{Good: good}).Saturation
	gs.World.AddSaturation(island, good, mathx.Ceil(float64(qty)*mult))
}

// DecaySaturation recovers every port by the daily amount and drops empty entries.
func DecaySaturation(cfg *tuning.Tuning, w *state.World) {
	ds := cfg.Balance.DemandSaturation
	if !ds.Enabled {
		return
	}
	for island, goods := range w.Saturation {
		for g, n := range goods {
			n -= ds.RecoveryPerDay
			if n <= 0 {
				delete(goods, g)
			} else {
				goods[g] = n
			}
		}
		if len(goods) == 0 {
			delete(w.Saturation, island)
		}
	}
}

// FenceUsed is contraband already fenced at a port in the current window.
func FenceUsed(cfg *tuning.Tuning, gs *state.GameState, island string) int {
	f := gs.World.FenceUsage[island]
	if f == nil || gs.Player.Days-f.LastDay >= cfg.Balance.Smuggling.FenceLimitDecayDays {
		return 0
	}
	return f.Used
}

func FenceRemaining(cfg *tuning.Tuning, gs *state.GameState, island string) int {
	return max(0, cfg.Balance.Smuggling.FenceLimit-FenceUsed(cfg, gs, island))
}

func addFence(cfg *tuning.Tuning, gs *state.GameState, island string, qty int) {
	w := &gs.World
	if w.FenceUsage == nil {
		w.FenceUsage = map[string]*state.Fence{}
	}
	used := FenceUsed(cfg, gs, island)
	w.FenceUsage[island] = &state.Fence{Used: used + qty, LastDay: gs.Player.Days}
}
