package world

import (
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// PortChange records one port state transition.
type PortChange struct {
	Island string `json:"island"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// PortState returns the configured effects of an island's current state.
func PortState(cfg *tuning.Tuning, gs *state.GameState, island string) tuning.PortState {
	return cfg.PortState(gs.World.PortState(island))
}

// UpdatePortStates rolls each island for a transition.
func UpdatePortStates(cfg *tuning.Tuning, gs *state.GameState) []PortChange {
	if gs.World.PortStates == nil {
		gs.World.PortStates = map[string]string{}
	}
	var out []PortChange
	for _, is := range cfg.Islands {
		if !gs.RNG.Chance(cfg.Settings.PortStateChangeChance) {
			continue
		}
		cur := gs.World.PortState(is.ID)
		next := nextPortState(cfg, gs, is)
		if next != cur {
			gs.World.PortStates[is.ID] = next
			out = append(out, PortChange{Island: is.ID, From: cur, To: next})
		}
	}
	return out
}

// nextPortState cascades: season, allegiance, market balance, random unrest, then the default split.
func nextPortState(cfg *tuning.Tuning, gs *state.GameState, is tuning.Island) string {
	season := Season(cfg, gs).ID
	roll := gs.RNG.Float64()
	switch {
	case season == tuning.SeasonMonsoon && roll < 0.2:
		return tuning.PortFlooded
	case season == tuning.SeasonDoldrums && roll < 0.15:
		return tuning.PortStruggling
	case is.Faction == tuning.FactionPirates && roll < 0.25:
		return tuning.PortLawless
	}

	supply, demand := 0, 0
	if live := gs.Islands[is.ID]; live != nil {
		for _, m := range live.Markets {
			supply += m.Supply
			demand += m.Demand
		}
	}
	ratio := float64(supply) / float64(max(1, demand))
	switch {
	case ratio < 0.3:
		if gs.RNG.Coin() {
			return tuning.PortStarving
		}
		return tuning.PortStruggling
	case ratio > 1.5:
		return tuning.PortProsperous
	case roll < 0.05:
		return tuning.PortBlockaded
	case roll < 0.08:
		return tuning.PortLawless
	case roll < 0.6:
		return tuning.PortProsperous
	}
	return tuning.PortStruggling
}
