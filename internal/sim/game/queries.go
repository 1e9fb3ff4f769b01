package game

import (
	"havenvoy.game/internal/sim/contracts"
	"havenvoy.game/internal/sim/economy"
	"havenvoy.game/internal/sim/progression"
	"havenvoy.game/internal/sim/questlines"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/sim/world"
)

func (s *Session) Prices(island string) []economy.Quote {
	return economy.Prices(s.cfg, s.gs, island)
}

// Deals ranks buy-here, sell-elsewhere trades from remembered prices.
func (s *Session) Deals(island string) []economy.Deal {
	return economy.Deals(s.cfg, s.gs, island)
}

// NearbyDrift lists drift entities whose reach comes within radius of the ship.
func (s *Session) NearbyDrift(radius float64) []world.Sighting {
	return world.NearbyDrift(s.cfg, s.gs, radius)
}

type Capacity struct {
	Total      int            `json:"total"`
	Used       int            `json:"used"`
	Categories map[string]int `json:"categories"`
	CatUsed    map[string]int `json:"category_used"`
}

func (s *Session) Capacity() Capacity {
	cfg, p := s.cfg, s.player()
	c := Capacity{
		Total:      ship.Capacity(cfg, p),
		Used:       p.CargoUsed(cfg),
		Categories: map[string]int{},
		CatUsed:    map[string]int{},
	}
	for _, cat := range []string{tuning.CategoryCommodity, tuning.CategoryLuxury, tuning.CategoryContraband} {
		c.Categories[cat] = ship.CategoryCapacity(cfg, p, cat)
		c.CatUsed[cat] = p.CategoryUsed(cfg, cat)
	}
	return c
}

// RouteRisk is the danger of the waters between the last port and the destination.
func (s *Session) RouteRisk() float64 {
	return risk.RouteRisk(s.cfg, s.gs)
}

func (s *Session) TitleProgress() []progression.TitleStatus {
	return progression.TitleProgress(s.cfg, s.gs)
}

type Notoriety struct {
	Heat   float64      `json:"heat"`
	Bounty int          `json:"bounty"`
	Level  string       `json:"level"`
	Meta   risk.Summary `json:"meta"`
}

func (s *Session) Notoriety() Notoriety {
	p := s.player()
	return Notoriety{
		Heat:   p.Heat,
		Bounty: p.Bounty,
		Level:  risk.PlayerLevel(s.cfg, p),
		Meta:   risk.Summarize(&p.Meta),
	}
}

// ContractBoard is the current port's board, or nil at sea.
func (s *Session) ContractBoard() []state.Contract {
	island, ok := s.gs.DockedAt()
	if !ok {
		return nil
	}
	return contracts.Posted(s.gs, island)
}

type QuestProgress struct {
	Contracts []contracts.Progress            `json:"contracts"`
	Active    *questlines.Status              `json:"questline,omitempty"`
	Available []tuning.Questline              `json:"available"`
	Completed map[string]int                  `json:"completed_tiers"`
	Records   map[string]*state.QuestProgress `json:"records"`
}

func (s *Session) QuestProgress() QuestProgress {
	cfg, p := s.cfg, s.player()
	q := QuestProgress{
		Contracts: contracts.ActiveProgress(p),
		Available: questlines.Available(cfg, p),
		Completed: questlines.CompletedTiers(cfg, p),
		Records:   p.Questlines,
	}
	if st, ok := questlines.Active(cfg, p); ok {
		q.Active = &st
	}
	return q
}

// Stats are the numbers the leaderboard ranks.
type Stats struct {
	NetWorth            int    `json:"net_worth"`
	Days                int    `json:"days"`
	ContractsCompleted  int    `json:"contracts_completed"`
	QuestlinesCompleted int    `json:"questlines_completed"`
	TradingProfit       int    `json:"trading_profit"`
	Gold                int    `json:"gold"`
	Power               int    `json:"power"`
	Phase               string `json:"phase"`
}

func (s *Session) Stats() Stats {
	cfg, p := s.cfg, s.player()
	return Stats{
		NetWorth:            progression.NetWorth(cfg, s.gs),
		Days:                p.Days,
		ContractsCompleted:  p.Stats.ContractsCompleted,
		QuestlinesCompleted: p.Stats.QuestlinesCompleted,
		TradingProfit:       p.Stats.TotalProfit,
		Gold:                p.Gold,
		Power:               progression.Power(cfg, p),
		Phase:               progression.Phase(cfg, p),
	}
}
