package state

import "havenvoy.game/internal/sim/tuning"

type World struct {
	Crackdown int `json:"crackdown"`

	RegionalEvent *RegionalEvent `json:"regional_event,omitempty"`
	SeasonalEvent *SeasonalEvent `json:"seasonal_event,omitempty"`
	LastSeason    string         `json:"last_season"`

	PortStates map[string]string     `json:"port_states"`
	Influence  map[string]*Influence `json:"influence"`
	Blockades  map[string]*Blockade  `json:"blockades"`
	WarZones   map[string]*WarZone   `json:"war_zones"`

	Drift       []DriftEntity `json:"drift"`
	NextDriftID int           `json:"next_drift_id"`

	Boards map[string]*Board      `json:"boards"`
	Rumors map[string]*RumorBoard `json:"rumors"`

	// Saturation is units sold per island and good.
	Saturation map[string]map[string]int `json:"saturation"`
	FenceUsage map[string]*Fence         `json:"fence_usage"`
}

type RegionalEvent struct {
	ID       string   `json:"id"`
	DaysLeft int      `json:"days_left"`
	Islands  []string `json:"islands"`
}

type SeasonalEvent struct {
	ID       string `json:"id"`
	DaysLeft int    `json:"days_left"`
}

// Influence holds faction shares on one island. English+EITC+Pirates never exceeds 100.
type Influence struct {
	English   float64 `json:"english"`
	EITC      float64 `json:"eitc"`
	Pirates   float64 `json:"pirates"`
	Stability float64 `json:"stability"`
}

// Share returns the share for a player faction.
func (in *Influence) Share(faction string) float64 {
	switch faction {
	case tuning.FactionEnglish:
		return in.English
	case tuning.FactionEITC:
		return in.EITC
	case tuning.FactionPirates:
		return in.Pirates
	}
	return 0
}

func (in *Influence) Set(faction string, v float64) {
	switch faction {
	case tuning.FactionEnglish:
		in.English = v
	case tuning.FactionEITC:
		in.EITC = v
	case tuning.FactionPirates:
		in.Pirates = v
	}
}

func (in *Influence) Total() float64 { return in.English + in.EITC + in.Pirates }

type Blockade struct {
	Faction  string `json:"faction"`
	DaysLeft int    `json:"days_left"`
	Strength int    `json:"strength"`
}

type WarZone struct {
	Factions  [2]string `json:"factions"`
	DaysLeft  int       `json:"days_left"`
	Intensity int       `json:"intensity"`
}

type DriftEntity struct {
	ID       int         `json:"id"`
	Kind     string      `json:"kind"`
	Position tuning.Vec2 `json:"position"`
	Heading  float64     `json:"heading"`
	Velocity tuning.Vec2 `json:"velocity"`
	Lifetime int         `json:"lifetime"`
}

type Board struct {
	Day       int        `json:"day"`
	Contracts []Contract `json:"contracts"`
}

type Rumor struct {
	Text    string `json:"text"`
	Type    string `json:"type"`
	True    bool   `json:"true"`
	DaysOld int    `json:"days_old"`
}

type RumorBoard struct {
	Day    int     `json:"day"`
	Rumors []Rumor `json:"rumors"`
}

type Fence struct {
	Used    int `json:"used"`
	LastDay int `json:"last_day"`
}

// PortState returns the island's port state, prosperous when unset.
func (w *World) PortState(island string) string {
	if s, ok := w.PortStates[island]; ok && s != "" {
		return s
	}
	return tuning.PortProsperous
}

// SaturationAt returns units sold of a good at an island.
func (w *World) SaturationAt(island, good string) int {
	return w.Saturation[island][good]
}

func (w *World) AddSaturation(island, good string, units int) {
	if w.Saturation == nil {
		w.Saturation = map[string]map[string]int{}
	}
	m := w.Saturation[island]
	if m == nil {
		m = map[string]int{}
		w.Saturation[island] = m
	}
	m[good] += units
}
