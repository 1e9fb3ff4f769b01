package state

import (
	"slices"

	"havenvoy.game/internal/sim/tuning"
)

type Player struct {
	Faction       string `json:"faction"`
	Gold          int    `json:"gold"`
	Days          int    `json:"days"`
	DaysSinceDock int    `json:"days_since_dock"`
	SeasonDay     int    `json:"season_day"`
	Supplies      int    `json:"supplies"`
	Destination   string `json:"destination,omitempty"`

	Cargo            map[string]int    `json:"cargo"`
	PurchaseHistory  map[string]int    `json:"purchase_history"`
	PurchaseLocation map[string]string `json:"purchase_location"`

	Reputation map[string]int `json:"reputation"`
	RepChanges RepChanges     `json:"rep_changes"`

	Heat            float64  `json:"heat"`
	Bounty          int      `json:"bounty"`
	HuntersDefeated []string `json:"hunters_defeated"`

	Titles         map[string]int `json:"titles"`
	HonoraryTitles []string       `json:"honorary_titles"`
	Upgrades       []string       `json:"upgrades"`

	Ship      Ship      `json:"ship"`
	ShipClass string    `json:"ship_class"`
	Officers  []Officer `json:"officers"`
	NextCrew  int       `json:"next_crew"`

	MerchantFavor int `json:"merchant_favor"`

	Contracts       Contracts                 `json:"contracts"`
	ActiveQuestline string                    `json:"active_questline,omitempty"`
	Questlines      map[string]*QuestProgress `json:"questlines"`

	Meta Meta `json:"meta"`

	DiscoveredCoves []string `json:"discovered_coves"`
	ChartFragments  int      `json:"chart_fragments"`
	TreasuresFound  []string `json:"treasures_found"`

	PortVisits map[string]PortVisit            `json:"port_visits"`
	LastPrices map[string]map[string]PriceMemo `json:"last_prices"`

	TradesThisVisit int                   `json:"trades_this_visit"`
	VisitTrades     map[string]VisitTrade `json:"visit_trades,omitempty"`
	BlockadePass    int                   `json:"blockade_pass"`
	LastBlockadeDay int                   `json:"last_blockade_day"`

	Stats Stats `json:"stats"`
}

type RepChanges struct {
	Gained int `json:"gained"`
	Lost   int `json:"lost"`
}

type Ship struct {
	Hull    float64 `json:"hull"`
	Rigging float64 `json:"rigging"`
	Morale  float64 `json:"morale"`
}

type Officer struct {
	ID       string `json:"id"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	HiredDay int    `json:"hired_day"`
}

// PortVisit keeps the two most recent dock days so the visit cooldown can be
// measured against the previous call rather than the current one.
type PortVisit struct {
	Last     int `json:"last"`
	Previous int `json:"previous"`
}

// VisitTrade remembers unit prices of this visit's trades in one good,
// so a good cannot be flipped at the port it was just traded at.
type VisitTrade struct {
	Bought int `json:"bought,omitempty"`
	Sold   int `json:"sold,omitempty"`
}

type PriceMemo struct {
	Price int `json:"price"`
	Day   int `json:"day"`
}

type Stats struct {
	TotalProfit         int `json:"total_profit"`
	TotalUpkeep         int `json:"total_upkeep"`
	ContractsCompleted  int `json:"contracts_completed"`
	QuestlinesCompleted int `json:"questlines_completed"`
	ContrabandTraded    int `json:"contraband_traded"`
	ChasesEscaped       int `json:"chases_escaped"`
	StormsWeathered     int `json:"storms_weathered"`
	Inspections         int `json:"inspections"`
}

func (p *Player) HasUpgrade(id string) bool { return slices.Contains(p.Upgrades, id) }

func (p *Player) HasOfficer(role string) bool {
	for _, o := range p.Officers {
		if o.Role == role {
			return true
		}
	}
	return false
}

func (p *Player) HasDiscovered(cove string) bool { return slices.Contains(p.DiscoveredCoves, cove) }

func (p *Player) Discover(cove string) bool {
	if p.HasDiscovered(cove) {
		return false
	}
	p.DiscoveredCoves = append(p.DiscoveredCoves, cove)
	return true
}

// AddCargo adds qty units. Capacity checks are the caller's job.
func (p *Player) AddCargo(good string, qty int) {
	if qty <= 0 {
		return
	}
	if p.Cargo == nil {
		p.Cargo = map[string]int{}
	}
	p.Cargo[good] += qty
}

// RemoveCargo removes up to qty units and returns how many were removed.
// Entries that reach zero are deleted along with their purchase memory.
func (p *Player) RemoveCargo(good string, qty int) int {
	have := p.Cargo[good]
	if qty > have {
		qty = have
	}
	if qty <= 0 {
		return 0
	}
	if have-qty == 0 {
		delete(p.Cargo, good)
		delete(p.PurchaseLocation, good)
	} else {
		p.Cargo[good] = have - qty
	}
	return qty
}

// CargoUsed is the total weight in the hold.
func (p *Player) CargoUsed(cfg *tuning.Tuning) int {
	used := 0
	for g, q := range p.Cargo {
		good, ok := cfg.Good(g)
		if !ok {
			continue
		}
		used += good.Weight * q
	}
	return used
}

// CategoryUsed is the weight held for one good category.
func (p *Player) CategoryUsed(cfg *tuning.Tuning, category string) int {
	used := 0
	for g, q := range p.Cargo {
		good, ok := cfg.Good(g)
		if !ok || good.Category != category {
			continue
		}
		used += good.Weight * q
	}
	return used
}

// ContrabandUnits counts units of contraband in the hold.
func (p *Player) ContrabandUnits(cfg *tuning.Tuning) int {
	n := 0
	for g, q := range p.Cargo {
		if good, ok := cfg.Good(g); ok && good.Category == tuning.CategoryContraband {
			n += q
		}
	}
	return n
}

// CargoGoods lists held goods in table order so callers iterate deterministically.
func (p *Player) CargoGoods(cfg *tuning.Tuning) []string {
	out := make([]string, 0, len(p.Cargo))
	for _, g := range cfg.Goods {
		if p.Cargo[g.ID] > 0 {
			out = append(out, g.ID)
		}
	}
	return out
}
