// Package world advances the shared sea: seasons and events, port states,
// faction influence with its blockades and war zones, drifting fleets,
// harbor rumors, hidden coves and the wind.
package world

import (
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// SeasonDay maps an absolute day (1-based) onto the season cycle.
func SeasonDay(cfg *tuning.Tuning, days int) int {
	if days < 1 {
		days = 1
	}
	return mathx.Mod(days-1, cfg.Settings.SeasonCycleDays) + 1
}

// Season returns the season in effect on the player's current day.
func Season(cfg *tuning.Tuning, gs *state.GameState) tuning.Season {
	return cfg.SeasonFor(SeasonDay(cfg, gs.Player.Days))
}

// SeasonalEvent returns the active seasonal event definition, if any.
func SeasonalEvent(cfg *tuning.Tuning, gs *state.GameState) (tuning.SeasonalEvent, bool) {
	ev := gs.World.SeasonalEvent
	if ev == nil || ev.DaysLeft <= 0 {
		return tuning.SeasonalEvent{}, false
	}
	for _, e := range cfg.SeasonalEvents {
		if e.ID == ev.ID {
			return e, true
		}
	}
	return tuning.SeasonalEvent{}, false
}

// RegionalEvent returns the active regional event definition when it covers island.
func RegionalEvent(cfg *tuning.Tuning, gs *state.GameState, island string) (tuning.RegionalEvent, bool) {
	ev := gs.World.RegionalEvent
	if ev == nil || ev.DaysLeft <= 0 {
		return tuning.RegionalEvent{}, false
	}
	covered := false
	for _, id := range ev.Islands {
		if id == island {
			covered = true
			break
		}
	}
	if !covered {
		return tuning.RegionalEvent{}, false
	}
	for _, e := range cfg.RegionalEvents {
		if e.ID == ev.ID {
			return e, true
		}
	}
	return tuning.RegionalEvent{}, false
}

// LocalEvent returns the event running on an island, if any.
func LocalEvent(cfg *tuning.Tuning, gs *state.GameState, island string) (tuning.LocalEvent, bool) {
	is := gs.Islands[island]
	if is == nil || is.Event == nil {
		return tuning.LocalEvent{}, false
	}
	for _, e := range cfg.LocalEvents {
		if e.ID == is.Event.ID {
			return e, true
		}
	}
	return tuning.LocalEvent{}, false
}

// RaiseCrackdown adds to the crackdown level, capped at the configured maximum.
func RaiseCrackdown(cfg *tuning.Tuning, w *state.World, n int) {
	w.Crackdown = mathx.ClampInt(w.Crackdown+n, 0, cfg.Settings.CrackdownMaxLevel)
}

const (
	regionalEventChance = 0.05
	seasonalEventChance = 0.03
	localEventChance    = 0.08
)

func tickRegionalEvent(cfg *tuning.Tuning, gs *state.GameState) {
	w := &gs.World
	if w.RegionalEvent != nil {
		w.RegionalEvent.DaysLeft--
		if w.RegionalEvent.DaysLeft <= 0 {
			w.RegionalEvent = nil
		}
	}
	if w.RegionalEvent != nil || len(cfg.RegionalEvents) == 0 || !gs.RNG.Chance(regionalEventChance) {
		return
	}
	ev := mathx.Pick(&gs.RNG, cfg.RegionalEvents)
	ids := make([]string, 0, len(cfg.Islands))
	for _, is := range cfg.Islands {
		ids = append(ids, is.ID)
	}
	mathx.Shuffle(&gs.RNG, ids)
	n := min(3+gs.RNG.Intn(3), len(ids))
	w.RegionalEvent = &state.RegionalEvent{ID: ev.ID, DaysLeft: ev.Duration, Islands: ids[:n]}
}

func tickSeasonalEvent(cfg *tuning.Tuning, gs *state.GameState) {
	w := &gs.World
	if w.SeasonalEvent != nil {
		w.SeasonalEvent.DaysLeft--
		if w.SeasonalEvent.DaysLeft <= 0 {
			w.SeasonalEvent = nil
		}
	}
	if w.SeasonalEvent != nil || !gs.RNG.Chance(seasonalEventChance) {
		return
	}
	season := Season(cfg, gs).ID
	var eligible []tuning.SeasonalEvent
	for _, e := range cfg.SeasonalEvents {
		if e.Season == "any" || e.Season == season {
			eligible = append(eligible, e)
		}
	}
	if len(eligible) == 0 {
		return
	}
	ev := mathx.Pick(&gs.RNG, eligible)
	w.SeasonalEvent = &state.SeasonalEvent{ID: ev.ID, DaysLeft: ev.Duration}
}

// TickLocalEvents counts down island events and occasionally starts new ones.
func TickLocalEvents(cfg *tuning.Tuning, gs *state.GameState) {
	if len(cfg.LocalEvents) == 0 {
		return
	}
	for _, ci := range cfg.Islands {
		is := gs.Islands[ci.ID]
		if is == nil {
			continue
		}
		if is.Event != nil {
			is.Event.DaysLeft--
			if is.Event.DaysLeft <= 0 {
				is.Event = nil
			}
		}
		if is.Event == nil && gs.RNG.Chance(localEventChance) {
			ev := mathx.Pick(&gs.RNG, cfg.LocalEvents)
			is.Event = &state.LocalEvent{ID: ev.ID, DaysLeft: ev.Duration}
		}
	}
}
