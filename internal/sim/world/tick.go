package world

import (
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// Report summarizes what changed on the sea during one tick.
type Report struct {
	PortChanges   []PortChange `json:"port_changes,omitempty"`
	Conflicts     []Conflict   `json:"conflicts,omitempty"`
	SeasonChanged string       `json:"season_changed,omitempty"`
	RegionalEvent string       `json:"regional_event,omitempty"`
	SeasonalEvent string       `json:"seasonal_event,omitempty"`
}

// Tick advances the shared world by one day, in fixed order: crackdown,
// regional event, drift, port states, influence with blockades and wars,
// seasonal event, season bookkeeping.
func Tick(cfg *tuning.Tuning, gs *state.GameState) Report {
	var r Report
	w := &gs.World
	w.Crackdown = max(0, w.Crackdown-cfg.Settings.CrackdownDecayPerDay)

	hadRegional := w.RegionalEvent != nil
	tickRegionalEvent(cfg, gs)
	if !hadRegional && w.RegionalEvent != nil {
		r.RegionalEvent = w.RegionalEvent.ID
	}

	updateDrift(cfg, gs)
	r.PortChanges = UpdatePortStates(cfg, gs)

	updateInfluence(cfg, w)
	r.Conflicts = append(r.Conflicts, updateBlockades(cfg, gs)...)
	r.Conflicts = append(r.Conflicts, updateWarZones(cfg, gs)...)

	hadSeasonal := w.SeasonalEvent != nil
	tickSeasonalEvent(cfg, gs)
	if !hadSeasonal && w.SeasonalEvent != nil {
		r.SeasonalEvent = w.SeasonalEvent.ID
	}

	cur := Season(cfg, gs).ID
	if w.LastSeason != "" && w.LastSeason != cur {
		r.SeasonChanged = cur
	}
	w.LastSeason = cur
	return r
}
