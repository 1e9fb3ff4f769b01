package world

import (
	"sort"

	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// Conflict reports blockades and war zones that began or ended during a tick.
type Conflict struct {
	Island  string `json:"island"`
	Kind    string `json:"kind"`
	Started bool   `json:"started"`
	Winner  string `json:"winner,omitempty"`
}

func IsBlockaded(w *state.World, island string) bool {
	b := w.Blockades[island]
	return b != nil && b.DaysLeft > 0
}

func IsWarZone(w *state.World, island string) bool {
	z := w.WarZones[island]
	return z != nil && z.DaysLeft > 0
}

// StartBlockade closes an island's port. An island holds at most one blockade.
func StartBlockade(cfg *tuning.Tuning, gs *state.GameState, island, faction string) bool {
	w := &gs.World
	if IsBlockaded(w, island) {
		return false
	}
	if w.Blockades == nil {
		w.Blockades = map[string]*state.Blockade{}
	}
	w.Blockades[island] = &state.Blockade{
		Faction:  faction,
		DaysLeft: cfg.WarFronts.BlockadeDuration,
		Strength: 50 + gs.RNG.Intn(50),
	}
	if w.PortStates == nil {
		w.PortStates = map[string]string{}
	}
	w.PortStates[island] = tuning.PortBlockaded
	return true
}

// StartWarZone marks an island as fought over by two factions.
func StartWarZone(cfg *tuning.Tuning, gs *state.GameState, island string, factions [2]string) bool {
	w := &gs.World
	if IsWarZone(w, island) {
		return false
	}
	if w.WarZones == nil {
		w.WarZones = map[string]*state.WarZone{}
	}
	w.WarZones[island] = &state.WarZone{
		Factions:  factions,
		DaysLeft:  cfg.WarFronts.WarZoneDuration,
		Intensity: 50 + gs.RNG.Intn(50),
	}
	return true
}

// BlockadeRisk is the extra danger of sailing near a blockaded or contested port.
func BlockadeRisk(w *state.World, island string) float64 {
	r := 0.0
	if IsBlockaded(w, island) {
		r += 0.3
	}
	if IsWarZone(w, island) {
		r += 0.2
	}
	return r
}

func updateBlockades(cfg *tuning.Tuning, gs *state.GameState) []Conflict {
	w := &gs.World
	var out []Conflict
	for _, is := range cfg.Islands {
		b := w.Blockades[is.ID]
		if b == nil {
			continue
		}
		b.DaysLeft--
		if b.DaysLeft > 0 {
			continue
		}
		delete(w.Blockades, is.ID)
		if w.PortStates[is.ID] == tuning.PortBlockaded {
			w.PortStates[is.ID] = tuning.PortStruggling
		}
		out = append(out, Conflict{Island: is.ID, Kind: "blockade"})
	}

	if !gs.RNG.Chance(cfg.WarFronts.BlockadeSpawnChance) {
		return out
	}
	var candidates []tuning.Island
	for _, is := range cfg.Islands {
		in := Influence(cfg, w, is.ID)
		if (in.Stability < cfg.WarFronts.UnstableBelow || IsContested(cfg, w, is.ID)) && !IsBlockaded(w, is.ID) {
			candidates = append(candidates, is)
		}
	}
	if len(candidates) == 0 {
		return out
	}
	target := candidates[gs.RNG.Intn(len(candidates))]
	var by string
	switch target.Faction {
	case tuning.FactionEnglish:
		by = tuning.FactionPirates
	case tuning.FactionPirates:
		by = tuning.FactionEnglish
	default:
		by = tuning.FactionEnglish
		if gs.RNG.Coin() {
			by = tuning.FactionPirates
		}
	}
	if StartBlockade(cfg, gs, target.ID, by) {
		out = append(out, Conflict{Island: target.ID, Kind: "blockade", Started: true})
	}
	return out
}

// updateWarZones resolves finished wars with a coin flip between the two sides.
func updateWarZones(cfg *tuning.Tuning, gs *state.GameState) []Conflict {
	w := &gs.World
	var out []Conflict
	for _, is := range cfg.Islands {
		z := w.WarZones[is.ID]
		if z == nil {
			continue
		}
		z.DaysLeft--
		if z.DaysLeft > 0 {
			continue
		}
		winner := z.Factions[0]
		if gs.RNG.Coin() {
			winner = z.Factions[1]
		}
		delete(w.WarZones, is.ID)
		ModifyInfluence(cfg, w, is.ID, winner, cfg.WarFronts.WarVictoryInfluence)
		out = append(out, Conflict{Island: is.ID, Kind: "war", Winner: winner})
	}

	if !gs.RNG.Chance(cfg.WarFronts.WarZoneSpawnChance) {
		return out
	}
	var contested []string
	for _, is := range cfg.Islands {
		if IsContested(cfg, w, is.ID) && !IsWarZone(w, is.ID) {
			contested = append(contested, is.ID)
		}
	}
	if len(contested) == 0 {
		return out
	}
	target := contested[gs.RNG.Intn(len(contested))]
	in := Influence(cfg, w, target)
	sides := append([]string(nil), tuning.PlayerFactions...)
	sort.SliceStable(sides, func(i, j int) bool { return in.Share(sides[i]) > in.Share(sides[j]) })
	if StartWarZone(cfg, gs, target, [2]string{sides[0], sides[1]}) {
		out = append(out, Conflict{Island: target, Kind: "war", Started: true})
	}
	return out
}
