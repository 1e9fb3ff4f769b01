package risk

import (
	"slices"
	"sort"
	"strings"

	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// Meta-pressure categories, in the order milestones are checked.
var Categories = []string{"route", "good", "port", "faction"}

// RouteKey names a route independent of direction.
func RouteKey(a, b string) string {
	ends := []string{a, b}
	sort.Strings(ends)
	return strings.Join(ends, ">")
}

func push(window []string, v string, size int) []string {
	window = append(window, v)
	if over := len(window) - size; over > 0 {
		window = slices.Delete(window, 0, over)
	}
	return window
}

// counts returns item frequencies and the items in first-seen order.
func counts(window []string) (map[string]int, []string) {
	c := make(map[string]int, len(window))
	var order []string
	for _, v := range window {
		if c[v] == 0 {
			order = append(order, v)
		}
		c[v]++
	}
	return c, order
}

func window(m *state.Meta, category string) []string {
	switch category {
	case "route":
		return m.Routes
	case "good":
		return m.Goods
	case "port":
		return m.Ports
	case "faction":
		return m.Factions
	}
	return nil
}

func threshold(cfg *tuning.Tuning, category string) float64 {
	t := cfg.MetaPressure.Thresholds
	switch category {
	case "route":
		return t.Route
	case "good":
		return t.Good
	case "port":
		return t.Port
	case "faction":
		return t.Faction
	}
	return 1
}

// intensity scales a share above th onto [0,1].
func intensity(share, th float64) float64 {
	if share <= th {
		return 0
	}
	return mathx.Clamp01((share - th) / (1 - th))
}

// Bias is the intensity of the most frequent item in a window.
func Bias(w []string, th float64) float64 {
	if len(w) == 0 {
		return 0
	}
	c, _ := counts(w)
	top := 0
	for _, n := range c {
		top = max(top, n)
	}
	return intensity(float64(top)/float64(len(w)), th)
}

// RecordRoute records a completed passage and the port arrived at.
func RecordRoute(cfg *tuning.Tuning, m *state.Meta, from, to string) {
	if !cfg.MetaPressure.Enabled {
		return
	}
	size := cfg.MetaPressure.WindowSize
	m.Routes = push(m.Routes, RouteKey(from, to), size)
	if is, ok := cfg.Island(to); ok {
		m.Ports = push(m.Ports, to, size)
		m.Factions = push(m.Factions, is.Faction, size)
	}
	m.LastPort = to
	Recalc(cfg, m)
}

// RecordDock records a dock: a route when arriving from a different port,
// otherwise just the port and its faction.
func RecordDock(cfg *tuning.Tuning, m *state.Meta, island string) {
	if !cfg.MetaPressure.Enabled {
		return
	}
	if m.LastPort != "" && m.LastPort != island {
		RecordRoute(cfg, m, m.LastPort, island)
		return
	}
	is, ok := cfg.Island(island)
	if !ok {
		return
	}
	size := cfg.MetaPressure.WindowSize
	m.LastPort = island
	m.Ports = push(m.Ports, island, size)
	m.Factions = push(m.Factions, is.Faction, size)
	Recalc(cfg, m)
}

// RecordTrade records a profitable sale. Unprofitable sales are ignored.
func RecordTrade(cfg *tuning.Tuning, m *state.Meta, good string, profit int) {
	if !cfg.MetaPressure.Enabled || profit <= 0 {
		return
	}
	m.Goods = push(m.Goods, good, cfg.MetaPressure.WindowSize)
	Recalc(cfg, m)
}

// Recalc recomputes every category bias from the windows.
func Recalc(cfg *tuning.Tuning, m *state.Meta) {
	for _, c := range Categories {
		m.Pressure.Set(c, Bias(window(m, c), threshold(cfg, c)))
	}
	m.Pressure.Total = total(cfg, m.Pressure)
}

func total(cfg *tuning.Tuning, p state.Pressure) float64 {
	mp := cfg.MetaPressure
	return max(p.Route, p.Good, p.Port*mp.PortWeight, p.Faction*mp.FactionWeight)
}

// Notice is a one-shot message emitted when a category crosses a milestone.
type Notice struct {
	Category  string  `json:"category"`
	Milestone float64 `json:"milestone"`
	Text      string  `json:"text"`
}

// UpdateDaily decays pressure once per day and reports milestones crossed.
// A second call for the same day is a no-op.
func UpdateDaily(cfg *tuning.Tuning, m *state.Meta, day int, rng *mathx.RNG) []Notice {
	mp := cfg.MetaPressure
	if !mp.Enabled || m.LastUpdateDay >= day {
		return nil
	}
	m.LastUpdateDay = day
	for _, c := range Categories {
		m.Pressure.Set(c, max(0, m.Pressure.Get(c)-mp.DecayPerDay))
	}
	m.Pressure.Total = total(cfg, m.Pressure)
	return checkMilestones(cfg, m, rng)
}

func checkMilestones(cfg *tuning.Tuning, m *state.Meta, rng *mathx.RNG) []Notice {
	mp := cfg.MetaPressure
	if len(mp.Milestones) == 0 {
		return nil
	}
	var out []Notice
	for _, c := range Categories {
		p := m.Pressure.Get(c)
		last := m.Milestones.Get(c)
		crossed := 0.0
		for _, ms := range mp.Milestones {
			if p >= ms && ms > last {
				crossed = ms
			}
		}
		if crossed > 0 {
			m.Milestones.Set(c, crossed)
			if fl, ok := mp.Flavor[c]; ok {
				pool := fl.Rising
				if p >= mp.PeakAt {
					pool = fl.Peak
				}
				if len(pool) > 0 {
					out = append(out, Notice{Category: c, Milestone: crossed, Text: mathx.Pick(rng, pool)})
				}
			}
		}
		if p < mp.Milestones[0] && last > 0 {
			m.Milestones.Set(c, 0)
		}
	}
	return out
}

// Context names the route, good, port and faction an action touches. Empty fields are ignored.
type Context struct {
	Route   string
	Good    string
	Port    string
	Faction string
}

// Modifiers are the multipliers meta-pressure applies to other systems. Neutral is 1.
type Modifiers struct {
	PirateChance     float64 `json:"pirate_chance_mult"`
	StormChance      float64 `json:"storm_chance_mult"`
	SellPrice        float64 `json:"sell_price_mult"`
	Saturation       float64 `json:"saturation_mult"`
	DockFee          float64 `json:"dock_fee_mult"`
	InspectionChance float64 `json:"inspection_chance_mult"`
}

func Neutral() Modifiers {
	return Modifiers{PirateChance: 1, StormChance: 1, SellPrice: 1, Saturation: 1, DockFee: 1, InspectionChance: 1}
}

// share is the fraction of a window held by item.
func share(w []string, item string) float64 {
	if item == "" || len(w) == 0 {
		return 0
	}
	n := 0
	for _, v := range w {
		if v == item {
			n++
		}
	}
	return float64(n) / float64(len(w))
}

// ModifiersFor derives multipliers from how often the context's own items recur.
func ModifiersFor(cfg *tuning.Tuning, m *state.Meta, ctx Context) Modifiers {
	mods := Neutral()
	mp := cfg.MetaPressure
	if !mp.Enabled {
		return mods
	}
	caps := mp.Caps
	if strings.Contains(ctx.Route, ">") {
		if i := intensity(share(m.Routes, ctx.Route), mp.Thresholds.Route); i > 0 {
			mods.PirateChance += i * caps.PirateChance
			mods.StormChance += i * caps.StormChance
		}
	}
	if i := intensity(share(m.Goods, ctx.Good), mp.Thresholds.Good); i > 0 {
		mods.SellPrice -= i * caps.PriceReduction
		mods.Saturation += i * (caps.SaturationMult - 1)
	}
	if i := intensity(share(m.Ports, ctx.Port), mp.Thresholds.Port); i > 0 {
		mods.DockFee += i * caps.DockFeeIncrease
		mods.InspectionChance += i * caps.InspectionChance
	}
	if i := intensity(share(m.Factions, ctx.Faction), mp.Thresholds.Faction); i > 0 {
		mods.InspectionChance += i * caps.InspectionChance * 0.5
	}
	return mods
}

// Summary is the notoriety readout shown to the player.
type Summary struct {
	Total        float64 `json:"total"`
	Primary      string  `json:"primary"`
	PrimaryValue float64 `json:"primary_value"`
	TopItem      string  `json:"top_item,omitempty"`
	Route        float64 `json:"route"`
	Good         float64 `json:"good"`
	Port         float64 `json:"port"`
	Faction      float64 `json:"faction"`
}

func Summarize(m *state.Meta) Summary {
	primary := Categories[0]
	for _, c := range Categories[1:] {
		if m.Pressure.Get(c) > m.Pressure.Get(primary) {
			primary = c
		}
	}
	s := Summary{
		Total:        m.Pressure.Total,
		Primary:      primary,
		PrimaryValue: m.Pressure.Get(primary),
		Route:        m.Pressure.Route,
		Good:         m.Pressure.Good,
		Port:         m.Pressure.Port,
		Faction:      m.Pressure.Faction,
	}
	c, order := counts(window(m, primary))
	top := 0
	for _, item := range order {
		if c[item] > top {
			top = c[item]
			s.TopItem = item
		}
	}
	return s
}
