package ship

import (
	"havenvoy.game/internal/sim/effects"
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// Crew failure reasons.
const (
	ReasonUnknownOfficer = "Unknown officer type"
	ReasonCrewFull       = "Crew full"
	ReasonRoleTaken      = "Already have this role"
	ReasonNoSuchOfficer  = "No such officer"
)

func crewName(cfg *tuning.Tuning, rng *mathx.RNG) string {
	first, last := cfg.CrewNames.First, cfg.CrewNames.Last
	if len(first) == 0 || len(last) == 0 {
		return "Nameless"
	}
	return mathx.Pick(rng, first) + " " + mathx.Pick(rng, last)
}

// Hire adds an officer. Hiring cost is the caller's concern.
func Hire(cfg *tuning.Tuning, gs *state.GameState, id string) (state.Officer, state.Result) {
	p := &gs.Player
	if _, ok := cfg.Officer(id); !ok {
		return state.Officer{}, state.Fail(ReasonUnknownOfficer)
	}
	if len(p.Officers) >= cfg.Settings.MaxOfficers {
		return state.Officer{}, state.Fail(ReasonCrewFull)
	}
	if p.HasOfficer(id) {
		return state.Officer{}, state.Fail(ReasonRoleTaken)
	}
	o := state.Officer{ID: id, Role: id, Name: crewName(cfg, &gs.RNG), HiredDay: p.Days}
	p.Officers = append(p.Officers, o)
	return o, state.OK()
}

// Fire dismisses the officer with the given id or role.
func Fire(p *state.Player, idOrRole string) state.Result {
	for i, o := range p.Officers {
		if o.ID == idOrRole || o.Role == idOrRole {
			p.Officers = append(p.Officers[:i], p.Officers[i+1:]...)
			return state.OK()
		}
	}
	return state.Fail(ReasonNoSuchOfficer)
}

// Wages is the daily pay of every officer aboard.
func Wages(cfg *tuning.Tuning, p *state.Player) int {
	total := 0
	for _, o := range p.Officers {
		if def, ok := cfg.Officer(o.Role); ok {
			total += def.BaseWage
		} else {
			total += 5
		}
	}
	return total
}

// DailyUpkeep is crew wages and maintenance, scaled by class and officers.
func DailyUpkeep(cfg *tuning.Tuning, p *state.Player) int {
	up := cfg.Balance.Upkeep
	if !up.Enabled {
		return 0
	}
	base := float64(up.CrewWagesPerDay + len(p.Upgrades)*up.CrewWagesPerUpgrade + up.MaintenancePerDay)
	base = base*Class(cfg, p).UpkeepMult + float64(Wages(cfg, p))
	return mathx.Ceil(base * effects.For(cfg, p).UpkeepMult)
}

// DockingFee is charged on arrival. Hostile ports and a predictable port habit cost extra.
func DockingFee(cfg *tuning.Tuning, p *state.Player, island string) int {
	up := cfg.Balance.Upkeep
	if !up.Enabled {
		return 0
	}
	fee := float64(up.DockingFee)
	if is, ok := cfg.Island(island); ok && is.Faction != tuning.FactionNeutral && is.Faction != p.Faction {
		if p.Reputation[is.Faction] < -20 {
			fee += float64(up.DockingFeeHostile)
		}
	}
	mods := risk.ModifiersFor(cfg, &p.Meta, risk.Context{Port: island})
	return mathx.Ceil(fee * mods.DockFee)
}
