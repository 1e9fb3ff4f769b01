// Package encounter rolls and resolves what happens to the player at sea:
// pirates, naval inspections, storms, blockades, bounty hunters and the
// odd merchant or wreck.
package encounter

import (
	"havenvoy.game/internal/sim/effects"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/sim/world"
)

const (
	// NearRadius is how close an island must be to shape local odds.
	NearRadius     = 150.0
	hostileRadius  = 100.0
	blockadeRadius = 100.0
	heatWatched    = 30.0
)

// Nearest returns the closest island to the ship and its distance.
func Nearest(cfg *tuning.Tuning, gs *state.GameState) (tuning.Island, float64) {
	var best tuning.Island
	bestDist := -1.0
	for _, is := range cfg.Islands {
		d := is.Position.Distance(gs.Position)
		if bestDist < 0 || d < bestDist {
			best, bestDist = is, d
		}
	}
	return best, bestDist
}

// Nearby returns the closest island within NearRadius.
func Nearby(cfg *tuning.Tuning, gs *state.GameState) (tuning.Island, bool) {
	is, d := Nearest(cfg, gs)
	if d < 0 || d > NearRadius {
		return tuning.Island{}, false
	}
	return is, true
}

// NearHostileWaters reports whether a navy or company port is within patrol range.
func NearHostileWaters(cfg *tuning.Tuning, gs *state.GameState) bool {
	for _, is := range cfg.Islands {
		if is.Faction != tuning.FactionEnglish && is.Faction != tuning.FactionEITC {
			continue
		}
		if is.Position.Distance(gs.Position) < hostileRadius {
			return true
		}
	}
	return false
}

// metaContext builds the notoriety context for the waters the ship is in.
func metaContext(cfg *tuning.Tuning, gs *state.GameState) risk.Context {
	is, ok := Nearby(cfg, gs)
	if !ok {
		return risk.Context{}
	}
	ctx := risk.Context{Port: is.ID, Faction: is.Faction}
	if last := gs.Player.Meta.LastPort; last != "" && last != is.ID {
		ctx.Route = risk.RouteKey(last, is.ID)
	}
	return ctx
}

// PirateChance is the daily chance of a pirate encounter.
func PirateChance(cfg *tuning.Tuning, gs *state.GameState) float64 {
	p := &gs.Player
	c := cfg.Settings.PirateEncounterChance * effects.For(cfg, p).PirateChanceMult
	c *= world.Season(cfg, gs).PiratesMult
	if ev, ok := world.SeasonalEvent(cfg, gs); ok && ev.Effects.PiratesMult > 0 {
		c *= ev.Effects.PiratesMult
	}
	c *= 1 + risk.RouteRisk(cfg, gs)*0.5
	c *= risk.ModifiersFor(cfg, &p.Meta, metaContext(cfg, gs)).PirateChance
	if is, ok := Nearby(cfg, gs); ok {
		c += world.PortState(cfg, gs, is.ID).PirateRisk
	}
	if convoyNearby(cfg, gs) {
		c *= 1 - cfg.Balance.Encounters.ConvoyProtection
	}
	return min(1, c)
}

// Watched reports whether the navy is looking for the player at all.
func Watched(cfg *tuning.Tuning, gs *state.GameState) bool {
	p := &gs.Player
	return NearHostileWaters(cfg, gs) || p.Heat > heatWatched || risk.PlayerLevel(cfg, p) != risk.LevelClean
}

// InspectionChance is the daily chance of being stopped by a patrol. It is
// zero unless the player is Watched.
func InspectionChance(cfg *tuning.Tuning, gs *state.GameState) float64 {
	if !Watched(cfg, gs) {
		return 0
	}
	p := &gs.Player
	b := cfg.Balance.Bounty
	level := risk.PlayerLevel(cfg, p)
	m := effects.For(cfg, p)

	c := cfg.Encounters.Inspection * (1 + p.Heat/100)
	c *= risk.LevelValue(b.InspectMult, level, 1)
	c *= 1 + float64(gs.World.Crackdown)/100
	if ev, ok := world.SeasonalEvent(cfg, gs); ok && ev.Effects.InspectMult > 0 {
		c *= ev.Effects.InspectMult
	}
	if is, ok := Nearby(cfg, gs); ok {
		c *= world.PortState(cfg, gs, is.ID).InspectMult
	}
	// Compartments work less well on a known face.
	c *= 1 - m.InspectionReduction*(1-risk.LevelValue(b.CompartmentPenalty, level, 0))
	c *= 1 - m.CrewInspectionReduction
	c *= 1 - m.TitleInspectionReduction
	c *= risk.ModifiersFor(cfg, &p.Meta, metaContext(cfg, gs)).InspectionChance
	return min(1, c)
}

// StormChance grows with time away from port.
func StormChance(cfg *tuning.Tuning, gs *state.GameState) float64 {
	p := &gs.Player
	c := cfg.Encounters.Storm * (1 + float64(p.DaysSinceDock)/30)
	c *= world.Season(cfg, gs).StormMult
	if ev, ok := world.SeasonalEvent(cfg, gs); ok && ev.Effects.StormMult > 0 {
		c *= ev.Effects.StormMult
	}
	c *= risk.ModifiersFor(cfg, &p.Meta, metaContext(cfg, gs)).StormChance
	return min(1, c)
}

// HunterChance is the daily chance a bounty hunter picks up the trail.
func HunterChance(cfg *tuning.Tuning, p *state.Player) float64 {
	return risk.LevelValue(cfg.BountyHunters.EncounterChance, risk.PlayerLevel(cfg, p), 0)
}

// NearbyBlockade returns a blockaded island within intercept range.
func NearbyBlockade(cfg *tuning.Tuning, gs *state.GameState) (string, bool) {
	for _, is := range cfg.Islands {
		if world.IsBlockaded(&gs.World, is.ID) && is.Position.Distance(gs.Position) < blockadeRadius {
			return is.ID, true
		}
	}
	return "", false
}

func convoyNearby(cfg *tuning.Tuning, gs *state.GameState) bool {
	for _, s := range world.NearbyDrift(cfg, gs, 0) {
		if s.EncounterType == state.EncounterConvoy {
			return true
		}
	}
	return false
}
