package game

import (
	"havenvoy.game/internal/sim/contracts"
	"havenvoy.game/internal/sim/economy"
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/progression"
	"havenvoy.game/internal/sim/questlines"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/world"
)

const lowSupplies = 5

type Mutiny struct {
	GoldLost     int `json:"gold_lost"`
	SuppliesLost int `json:"supplies_lost"`
}

// DayReport is everything a host may want to surface about one day.
type DayReport struct {
	Day          int              `json:"day"`
	AtSea        bool             `json:"at_sea"`
	SuppliesUsed int              `json:"supplies_used"`
	Upkeep       int              `json:"upkeep"`
	Mutiny       *Mutiny          `json:"mutiny,omitempty"`
	QuestFailed  bool             `json:"quest_failed,omitempty"`
	Notices      []risk.Notice    `json:"notices,omitempty"`
	World        world.Report     `json:"world"`
	Expired      []state.Contract `json:"expired,omitempty"`
	NewTitles    []string         `json:"new_titles,omitempty"`
	WindChanged  bool             `json:"wind_changed,omitempty"`

	HullCritical    bool `json:"hull_critical,omitempty"`
	RiggingCritical bool `json:"rigging_critical,omitempty"`
	LowSupplies     bool `json:"low_supplies,omitempty"`
	Stranded        bool `json:"stranded,omitempty"`
}

// AdvanceDay runs one day. The order is fixed: calendar, supplies, upkeep,
// wear and mutiny, questline deadline, notoriety decay, markets, the world,
// contract expiry, titles, wind. Supplies and wear only apply at sea.
func (s *Session) AdvanceDay() DayReport {
	cfg, gs, p := s.cfg, s.gs, s.player()
	_, docked := gs.DockedAt()
	atSea := !docked && gs.CurrentCove == ""

	p.Days++
	if atSea {
		p.DaysSinceDock++
	}
	p.SeasonDay = world.SeasonDay(cfg, p.Days)
	r := DayReport{Day: p.Days, AtSea: atSea}

	if atSea {
		r.SuppliesUsed = ship.ConsumeSupplies(cfg, gs)
	}

	if up := ship.DailyUpkeep(cfg, p); up > 0 {
		p.Gold = max(0, p.Gold-up)
		p.Stats.TotalUpkeep += up
		r.Upkeep = up
	}

	if atSea {
		ship.ApplyDailyWear(cfg, gs, false)
		if ship.CheckMutiny(cfg, gs) {
			m := &Mutiny{GoldLost: mathx.Floor(float64(p.Gold) * 0.1), SuppliesLost: mathx.Floor(float64(p.Supplies) * 0.2)}
			p.Gold = max(0, p.Gold-m.GoldLost)
			p.Supplies = max(0, p.Supplies-m.SuppliesLost)
			ship.RestoreMorale(cfg, p, 20)
			r.Mutiny = m
		}
	}
	th := cfg.ShipCondition.CriticalThreshold
	r.HullCritical = p.Ship.Hull < th
	r.RiggingCritical = p.Ship.Rigging < th

	r.QuestFailed = questlines.CheckDeadline(cfg, p)

	friendly := false
	if docked {
		if is, ok := cfg.Island(gs.CurrentIsland); ok {
			friendly = risk.Friendly(p.Faction, is.Faction)
		}
	}
	risk.DecayHeat(cfg, p, docked, friendly)
	risk.DecayBounty(cfg, p, docked, friendly)
	economy.DecaySaturation(cfg, &gs.World)
	r.Notices = risk.UpdateDaily(cfg, &p.Meta, p.Days, &gs.RNG)

	economy.MarketDay(cfg, gs)
	world.TickLocalEvents(cfg, gs)
	r.World = world.Tick(cfg, gs)

	r.Expired = contracts.Expire(cfg, gs)
	r.NewTitles = progression.UpdateTitles(cfg, gs)
	r.WindChanged = world.TickWind(cfg, gs)

	if p.Supplies <= 0 {
		p.Supplies = 0
		r.Stranded = atSea
	} else if p.Supplies <= lowSupplies {
		r.LowSupplies = true
	}
	return r
}
