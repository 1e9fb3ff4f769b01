// Package risk tracks the player's notoriety: contraband heat, the bounty
// ledger, behavioral meta-pressure, and the per-voyage route risk score.
package risk

import (
	"havenvoy.game/internal/sim/effects"
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

const MaxHeat = 100

// AddHeat moves heat by amount, clamped to [0, MaxHeat]. Gains are scaled by
// the crew heat multiplier; reductions are not.
func AddHeat(cfg *tuning.Tuning, p *state.Player, amount float64) {
	if amount > 0 {
		amount *= effects.For(cfg, p).HeatMult
	}
	p.Heat = mathx.Clamp(p.Heat+amount, 0, MaxHeat)
}

// DecayHeat applies one day of heat decay: slowest at sea, fastest docked at a friendly port.
func DecayHeat(cfg *tuning.Tuning, p *state.Player, docked, friendly bool) {
	s := cfg.Balance.Smuggling
	decay := s.HeatDecayBase
	switch {
	case !docked:
		decay = s.HeatDecayAtSea
	case friendly:
		decay = s.HeatDecayFriendly
	}
	p.Heat = max(0, p.Heat-decay)
}

// SellHeat is the heat raised by fencing qty units of contraband.
func SellHeat(cfg *tuning.Tuning, qty int) float64 {
	s := cfg.Balance.Smuggling
	return float64(s.HeatGainBase + qty*s.HeatGainPerUnit)
}

// Friendly reports whether an island of the given allegiance counts as home water.
func Friendly(playerFaction, islandFaction string) bool {
	return islandFaction == playerFaction || islandFaction == tuning.FactionNeutral
}
