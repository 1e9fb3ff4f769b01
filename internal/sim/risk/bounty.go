package risk

import (
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// Bounty levels, lowest first.
const (
	LevelClean    = "clean"
	LevelWanted   = "wanted"
	LevelHunted   = "hunted"
	LevelInfamous = "infamous"
)

// Level buckets a bounty. Thresholds are inclusive.
func Level(cfg *tuning.Tuning, bounty int) string {
	t := cfg.Balance.Bounty.Thresholds
	switch {
	case bounty >= t.Infamous:
		return LevelInfamous
	case bounty >= t.Hunted:
		return LevelHunted
	case bounty >= t.Wanted:
		return LevelWanted
	}
	return LevelClean
}

func PlayerLevel(cfg *tuning.Tuning, p *state.Player) string { return Level(cfg, p.Bounty) }

// AddBounty is a no-op while bounties are disabled. Bounty never drops below zero.
func AddBounty(cfg *tuning.Tuning, p *state.Player, amount int) {
	if !cfg.Balance.Bounty.Enabled {
		return
	}
	p.Bounty = max(0, p.Bounty+amount)
}

func DecayBounty(cfg *tuning.Tuning, p *state.Player, docked, friendly bool) {
	b := cfg.Balance.Bounty
	if !b.Enabled {
		return
	}
	decay := b.DecayPerDay
	if docked && friendly {
		decay = b.DecayDocked
	}
	p.Bounty = max(0, p.Bounty-decay)
}

// LevelValue looks up a per-level table, returning def for missing levels.
func LevelValue(table map[string]float64, level string, def float64) float64 {
	if v, ok := table[level]; ok {
		return v
	}
	return def
}

// Pardon wipes the bounty and the record of hunters beaten.
func Pardon(p *state.Player) {
	p.Bounty = 0
	p.HuntersDefeated = nil
}
