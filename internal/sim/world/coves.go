package world

import (
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

const (
	fragmentsPerChart = 3
	exploreRange      = 100
	exploreChance     = 0.1
	// CoveDockRadius is how close the ship must be to put in at a known cove.
	CoveDockRadius = 40
)

// AddChartFragment stores a fragment; a full chart reveals a random hidden
// cove, whose id is returned.
func AddChartFragment(cfg *tuning.Tuning, gs *state.GameState) string {
	gs.Player.ChartFragments++
	if gs.Player.ChartFragments < fragmentsPerChart {
		return ""
	}
	return UseChart(cfg, gs)
}

// UseChart spends a full chart on a random undiscovered cove.
func UseChart(cfg *tuning.Tuning, gs *state.GameState) string {
	p := &gs.Player
	if p.ChartFragments < fragmentsPerChart {
		return ""
	}
	p.ChartFragments -= fragmentsPerChart
	hidden := undiscoveredCoves(cfg, p)
	if len(hidden) == 0 {
		return ""
	}
	c := mathx.Pick(&gs.RNG, hidden)
	p.Discover(c.ID)
	return c.ID
}

// CoveAt returns a discovered cove within radius of the ship.
func CoveAt(cfg *tuning.Tuning, gs *state.GameState, radius float64) (tuning.Cove, bool) {
	for _, c := range cfg.HiddenCoves {
		if !gs.Player.HasDiscovered(c.ID) {
			continue
		}
		if c.Position.Distance(gs.Position) < radius {
			return c, true
		}
	}
	return tuning.Cove{}, false
}

// Explore rolls to find a hidden cove near the ship; closer is likelier.
func Explore(cfg *tuning.Tuning, gs *state.GameState) string {
	for _, c := range cfg.HiddenCoves {
		if gs.Player.HasDiscovered(c.ID) {
			continue
		}
		d := c.Position.Distance(gs.Position)
		if d >= exploreRange {
			continue
		}
		if gs.RNG.Chance(exploreChance * (1 - d/exploreRange)) {
			gs.Player.Discover(c.ID)
			return c.ID
		}
	}
	return ""
}

// CoveHint returns a hidden cove a true cove rumor at this port points to.
func CoveHint(cfg *tuning.Tuning, gs *state.GameState, island string) (tuning.Cove, bool) {
	for _, r := range Rumors(cfg, gs, island) {
		if r.Type != "cove" || !r.True {
			continue
		}
		hidden := undiscoveredCoves(cfg, &gs.Player)
		if len(hidden) == 0 {
			return tuning.Cove{}, false
		}
		return mathx.Pick(&gs.RNG, hidden), true
	}
	return tuning.Cove{}, false
}

// CoveRumor is a hint to a random undiscovered cove, as told in a cove tavern.
func CoveRumor(cfg *tuning.Tuning, gs *state.GameState) (tuning.Cove, bool) {
	hidden := undiscoveredCoves(cfg, &gs.Player)
	if len(hidden) == 0 {
		return tuning.Cove{}, false
	}
	return mathx.Pick(&gs.RNG, hidden), true
}
