package world

import (
	"math"

	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// Map bounds drift entities wrap around.
const (
	mapHalfWidth  = 280
	mapHalfHeight = 230
)

func driftWeight(cfg *tuning.Tuning, gs *state.GameState, kind string) float64 {
	season := Season(cfg, gs).ID
	switch {
	case kind == tuning.DriftStormFront && season == tuning.SeasonMonsoon:
		return 3
	case kind == tuning.DriftPirateFleet && season == tuning.SeasonDoldrums:
		return 2
	case kind == tuning.DriftFloatingMarket && season == tuning.SeasonTradeWinds:
		return 2
	case kind == tuning.DriftNavyConvoy && gs.World.Crackdown > 30:
		return 2
	}
	return 1
}

// SpawnDrift adds one entity of the given kind, or a season-weighted kind
// when kind is empty. It returns false when the sea is already full.
func SpawnDrift(cfg *tuning.Tuning, gs *state.GameState, kind string) bool {
	w := &gs.World
	if len(w.Drift) >= cfg.Settings.MaxDriftEntities || len(cfg.DriftEntities) == 0 {
		return false
	}
	rng := &gs.RNG
	if kind == "" {
		total := 0.0
		for _, d := range cfg.DriftEntities {
			total += driftWeight(cfg, gs, d.ID)
		}
		r := rng.Float64() * total
		kind = cfg.DriftEntities[len(cfg.DriftEntities)-1].ID
		for _, d := range cfg.DriftEntities {
			r -= driftWeight(cfg, gs, d.ID)
			if r <= 0 {
				kind = d.ID
				break
			}
		}
	}
	dk, ok := cfg.DriftKind(kind)
	if !ok {
		return false
	}

	var pos tuning.Vec2
	if rng.Chance(0.3) {
		is := cfg.Islands[rng.Intn(len(cfg.Islands))]
		pos = tuning.Vec2{X: is.Position.X + (rng.Float64()-0.5)*100, Z: is.Position.Z + (rng.Float64()-0.5)*100}
	} else {
		switch rng.Intn(4) {
		case 0:
			pos = tuning.Vec2{X: -250, Z: (rng.Float64() - 0.5) * 400}
		case 1:
			pos = tuning.Vec2{X: 250, Z: (rng.Float64() - 0.5) * 400}
		case 2:
			pos = tuning.Vec2{X: (rng.Float64() - 0.5) * 500, Z: -200}
		default:
			pos = tuning.Vec2{X: (rng.Float64() - 0.5) * 500, Z: 200}
		}
	}
	heading := rng.Float64() * 2 * math.Pi
	w.NextDriftID++
	w.Drift = append(w.Drift, state.DriftEntity{
		ID:       w.NextDriftID,
		Kind:     kind,
		Position: pos,
		Heading:  heading,
		Velocity: velocity(heading, dk.Speed),
		Lifetime: dk.Lifetime + rng.Intn(5),
	})
	return true
}

func velocity(heading, speed float64) tuning.Vec2 {
	return tuning.Vec2{X: math.Sin(heading) * speed, Z: math.Cos(heading) * speed}
}

func wrap(v, half float64) float64 {
	switch {
	case v < -half:
		return half
	case v > half:
		return -half
	}
	return v
}

func updateDrift(cfg *tuning.Tuning, gs *state.GameState) {
	w := &gs.World
	kept := w.Drift[:0]
	for _, e := range w.Drift {
		e.Position.X += e.Velocity.X
		e.Position.Z += e.Velocity.Z
		e.Lifetime--
		if gs.RNG.Chance(0.2) {
			e.Heading += (gs.RNG.Float64() - 0.5) * 0.5
			if dk, ok := cfg.DriftKind(e.Kind); ok {
				e.Velocity = velocity(e.Heading, dk.Speed)
			}
		}
		e.Position.X = wrap(e.Position.X, mapHalfWidth)
		e.Position.Z = wrap(e.Position.Z, mapHalfHeight)
		if e.Lifetime > 0 {
			kept = append(kept, e)
		}
	}
	w.Drift = kept
	if gs.RNG.Chance(cfg.Settings.DriftSpawnChance) {
		SpawnDrift(cfg, gs, "")
	}
}

// Sighting is a drift entity within reach of the player.
type Sighting struct {
	Entity        state.DriftEntity `json:"entity"`
	Distance      float64           `json:"distance"`
	EncounterType string            `json:"encounter_type"`
}

// NearbyDrift lists entities whose effect radius reaches within radius of the player.
func NearbyDrift(cfg *tuning.Tuning, gs *state.GameState, radius float64) []Sighting {
	var out []Sighting
	for _, e := range gs.World.Drift {
		dk, ok := cfg.DriftKind(e.Kind)
		if !ok {
			continue
		}
		d := e.Position.Distance(gs.Position)
		if d < radius+dk.EffectRadius {
			out = append(out, Sighting{Entity: e, Distance: d, EncounterType: dk.EncounterType})
		}
	}
	return out
}
