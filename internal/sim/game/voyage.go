package game

import (
	"math"
	"time"

	"havenvoy.game/internal/sim/chase"
	"havenvoy.game/internal/sim/encounter"
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

const (
	// unitsPerDay is how far a ship of speed 1 sails in a day with no wind.
	unitsPerDay = 120.0
	// approachRadius is the short hop that costs no time.
	approachRadius = 80.0
)

// VoyageReport covers every day of a passage. A voyage stops early at the
// first encounter, leaving the ship part way along the course.
type VoyageReport struct {
	state.Result
	Destination string           `json:"destination,omitempty"`
	Planned     int              `json:"planned_days"`
	Days        []DayReport      `json:"days,omitempty"`
	Encounter   *state.Encounter `json:"encounter,omitempty"`
	Arrived     bool             `json:"arrived"`
}

func voyageFail(reason string) VoyageReport { return VoyageReport{Result: state.Fail(reason)} }

// SailTo sets course for an island and sails until arrival or an encounter.
// The ship ends inside docking distance; it does not dock.
func (s *Session) SailTo(island string) VoyageReport {
	is, ok := s.cfg.Island(island)
	if !ok {
		return voyageFail(state.ReasonUnknownIsland)
	}
	return s.sail(island, is.Position, s.cfg.Settings.DockDistance/2)
}

// SailToCove sails to a discovered hidden cove.
func (s *Session) SailToCove(id string) VoyageReport {
	c, ok := s.cfg.Cove(id)
	if !ok {
		return voyageFail(ReasonUnknownCove)
	}
	if !s.player().HasDiscovered(id) {
		return voyageFail(ReasonUndiscovered)
	}
	return s.sail(id, c.Position, 10)
}

func (s *Session) sail(dest string, at tuning.Vec2, standoff float64) VoyageReport {
	gs := s.gs
	if gs.IsDocked {
		return voyageFail(ReasonAlreadyDocked)
	}
	if gs.Chase != nil && !gs.Chase.Resolved {
		return voyageFail(ReasonInChase)
	}
	if gs.Pending != nil {
		return voyageFail(ReasonEncounter)
	}

	start := gs.Position
	target := approach(start, at, standoff)
	rep := VoyageReport{Result: state.OK(), Destination: dest}
	gs.Player.Destination = dest

	dist := start.Distance(target)
	if dist <= approachRadius {
		gs.Position = target
		rep.Arrived = true
		return rep
	}

	dir := tuning.Vec2{X: (target.X - start.X) / dist, Z: (target.Z - start.Z) / dist}
	pace := ship.Speed(s.cfg, gs) * ship.WindEffect(s.cfg, gs, dir) * unitsPerDay
	days := 1
	if pace > 0 {
		days = max(1, mathx.Ceil(dist/pace))
	}
	rep.Planned = days

	for d := 1; d <= days; d++ {
		t := float64(d) / float64(days)
		gs.Position = tuning.Vec2{X: start.X + (target.X-start.X)*t, Z: start.Z + (target.Z-start.Z)*t}
		rep.Days = append(rep.Days, s.AdvanceDay())
		if d == days {
			break
		}
		if enc, ok := encounter.Roll(s.cfg, gs); ok {
			rep.Encounter = &enc
			return rep
		}
	}
	gs.Position = target
	rep.Arrived = true
	return rep
}

// approach is the point standoff units short of at, on the line from from.
func approach(from, at tuning.Vec2, standoff float64) tuning.Vec2 {
	dx, dz := from.X-at.X, from.Z-at.Z
	d := math.Hypot(dx, dz)
	if d <= standoff {
		return from
	}
	return tuning.Vec2{X: at.X + dx/d*standoff, Z: at.Z + dz/d*standoff}
}

// RollEncounter rolls the day's encounter table at the ship's position.
func (s *Session) RollEncounter() (state.Encounter, bool) {
	if s.gs.Chase != nil && !s.gs.Chase.Resolved {
		return state.Encounter{}, false
	}
	return encounter.Roll(s.cfg, s.gs)
}

// PendingEncounter is the encounter awaiting the player's choice, if any.
func (s *Session) PendingEncounter() (*state.Encounter, []string) {
	if s.gs.Pending == nil {
		return nil, nil
	}
	return s.gs.Pending, encounter.Choices(s.gs.Pending.Kind)
}

// EncounterResponse is an encounter outcome plus whatever it set in motion.
type EncounterResponse struct {
	encounter.Outcome
	Days  []DayReport  `json:"days,omitempty"`
	Chase *state.Chase `json:"chase_state,omitempty"`
}

// RespondEncounter answers the pending encounter. Waiting out a storm passes
// days; running starts a chase.
func (s *Session) RespondEncounter(choice string) EncounterResponse {
	out := EncounterResponse{Outcome: encounter.Respond(s.cfg, s.gs, choice)}
	if !out.Success {
		return out
	}
	for range out.Outcome.Days {
		out.Days = append(out.Days, s.AdvanceDay())
	}
	if out.Outcome.Chase {
		c, r := chase.Start(s.cfg, s.gs, s.clock)
		if !r.Success {
			out.Result = r
			return out
		}
		out.Chase = c
	}
	return out
}

// Now is the session clock's current time.
func (s *Session) Now() time.Time { return s.clock.Now() }

// StartChase begins, or returns, the chase for the pending encounter.
func (s *Session) StartChase() (*state.Chase, state.Result) {
	return chase.Start(s.cfg, s.gs, s.clock)
}

// ChaseAction spends one of the chase actions.
func (s *Session) ChaseAction(action string) state.Result {
	return chase.Act(s.cfg, s.gs, s.clock, action)
}

// ChaseTick advances the chase to now, resolving it once its time is up.
func (s *Session) ChaseTick(now time.Time) (chase.Report, state.Result) {
	return chase.Tick(s.cfg, s.gs, instant(now))
}

type instant time.Time

func (i instant) Now() time.Time { return time.Time(i) }
