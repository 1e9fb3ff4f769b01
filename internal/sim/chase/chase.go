// Package chase runs a timed pursuit. The host polls Tick with its clock;
// the pursuit resolves once when the clock passes the deadline.
package chase

import (
	"slices"

	"havenvoy.game/internal/sim/encounter"
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// Failure reasons.
const (
	ReasonNoChase   = "No chase in progress"
	ReasonCannotRun = "Nothing to run from"
	ReasonUsed      = "Action already used"
	ReasonCooldown  = "Not ready yet"
	ReasonOver      = "The chase is over"
	ReasonUnknown   = "Unknown action"
)

const tickMs = 1000

// Hazards.
const (
	HazardRocks    = "rocks"
	HazardStorm    = "storm"
	HazardShallows = "shallows"
)

var runnable = []string{
	state.EncounterPirate,
	state.EncounterPirateFleet,
	state.EncounterBountyHunter,
	state.EncounterBlockade,
}

// Start opens a pursuit for the pending encounter.
func Start(cfg *tuning.Tuning, gs *state.GameState, clk Clock) (*state.Chase, state.Result) {
	if gs.Pending == nil || !slices.Contains(runnable, gs.Pending.Kind) {
		return nil, state.Fail(ReasonCannotRun)
	}
	if gs.Chase != nil && !gs.Chase.Resolved {
		return gs.Chase, state.OK()
	}
	c := &state.Chase{
		Kind:         gs.Pending.Kind,
		StartedAt:    clk.Now(),
		DurationMs:   ship.ChaseDuration(cfg, &gs.Player),
		EscapeChance: ship.EscapeChance(cfg, gs),
		LastActionMs: -cfg.Chase.JukeCooldownMs,
	}
	gs.Chase = c
	return c, state.OK()
}

func elapsedMs(c *state.Chase, clk Clock) int {
	return int(clk.Now().Sub(c.StartedAt).Milliseconds())
}

func shift(cfg *tuning.Tuning, c *state.Chase, d float64) {
	c.EscapeChance = mathx.Clamp(c.EscapeChance+d, cfg.Chase.MinEscape, cfg.Chase.ActionCap)
}

// Act spends one of the player's maneuvers. Each works once per chase, and
// a juke also needs the cooldown to pass since the previous maneuver.
func Act(cfg *tuning.Tuning, gs *state.GameState, clk Clock, action string) state.Result {
	c := gs.Chase
	if c == nil || c.Resolved {
		return state.Fail(ReasonNoChase)
	}
	now := elapsedMs(c, clk)
	if now >= c.DurationMs {
		return state.Fail(ReasonOver)
	}
	p := &gs.Player
	if slices.Contains(c.Used, action) {
		return state.Fail(ReasonUsed)
	}
	switch action {
	case state.ChaseJuke:
		if now-c.LastActionMs < cfg.Chase.JukeCooldownMs {
			return state.Fail(ReasonCooldown)
		}
		shift(cfg, c, cfg.Chase.JukeBonus)
	case state.ChaseTrim:
		shift(cfg, c, 0.10)
		ship.DamageRigging(cfg, p, 5)
	case state.ChaseJettison:
		for _, n := range encounter.LoseCargo(cfg, p, ship.CargoLoss(cfg, p, 0.2)) {
			c.Jettisoned += n
		}
		shift(cfg, c, 0.15)
	case state.ChaseRisky:
		if gs.RNG.Coin() {
			shift(cfg, c, 0.25)
		} else {
			shift(cfg, c, -0.20)
			ship.DamageHull(p, 15)
		}
	default:
		return state.Fail(ReasonUnknown)
	}
	c.Used = append(c.Used, action)
	c.LastActionMs = now
	return state.OK()
}

// Report is one poll of a pursuit.
type Report struct {
	RemainingMs  int               `json:"remaining_ms"`
	EscapeChance float64           `json:"escape_chance"`
	Hazard       string            `json:"hazard,omitempty"`
	Done         bool              `json:"done"`
	Escaped      bool              `json:"escaped"`
	Outcome      encounter.Outcome `json:"outcome"`
}

// Tick advances the pursuit to the clock's time. Each whole second rolls
// for a hazard; at the deadline the escape roll is made and the encounter
// is settled. Polling a resolved chase changes nothing.
func Tick(cfg *tuning.Tuning, gs *state.GameState, clk Clock) (Report, state.Result) {
	c := gs.Chase
	if c == nil {
		return Report{}, state.Fail(ReasonNoChase)
	}
	if c.Resolved {
		return Report{Done: true, Escaped: c.Escaped, EscapeChance: c.EscapeChance}, state.OK()
	}
	now := min(elapsedMs(c, clk), c.DurationMs)
	var rep Report
	for c.TicksRolled < now/tickMs {
		c.TicksRolled++
		if h := hazard(cfg, gs, c); h != "" {
			rep.Hazard = h
		}
	}
	rep.RemainingMs = c.DurationMs - now
	rep.EscapeChance = c.EscapeChance
	if now < c.DurationMs {
		return rep, state.OK()
	}

	c.Resolved = true
	c.Escaped = gs.RNG.Chance(c.EscapeChance)
	rep.Done, rep.Escaped = true, c.Escaped
	if c.Escaped {
		rep.Outcome = encounter.Escaped(cfg, gs)
	} else {
		rep.Outcome = encounter.Caught(cfg, gs)
	}
	return rep, state.OK()
}

func hazard(cfg *tuning.Tuning, gs *state.GameState, c *state.Chase) string {
	if len(cfg.Chase.HazardTypes) == 0 || !gs.RNG.Chance(cfg.Chase.HazardChance) {
		return ""
	}
	h := mathx.Pick(&gs.RNG, cfg.Chase.HazardTypes)
	p := &gs.Player
	switch h {
	case HazardRocks:
		ship.DamageHull(p, 5)
	case HazardStorm:
		ship.DamageRigging(cfg, p, 5)
		shift(cfg, c, 0.05)
	case HazardShallows:
		shift(cfg, c, -0.05)
	}
	c.Hazards = append(c.Hazards, h)
	return h
}
