// Package economy prices goods and executes trades. Prices are pure functions
// of the tuning table and the game state; only Buy, Sell and the daily market
// drift mutate anything.
package economy

import (
	"slices"

	"havenvoy.game/internal/sim/effects"
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/sim/world"
)

// Preference bias on the base price.
const (
	exportBias = 0.8
	importBias = 1.2
)

const (
	favorDiscountPerPoint = 0.02
	maxFavorDiscount      = 0.10
)

func clampFactor(v float64) float64 { return mathx.Clamp(v, 0.5, 2) }

// BasePrice is the market price of a good at an island before any
// player-specific discount or bonus.
func BasePrice(cfg *tuning.Tuning, gs *state.GameState, good, island string) int {
	g, ok := cfg.Good(good)
	if !ok {
		return 0
	}
	is, ok := cfg.Island(island)
	if !ok {
		return int(g.BasePrice)
	}
	def, ok := is.Market(good)
	live := gs.Market(island, good)
	if !ok || live == nil {
		return int(g.BasePrice)
	}

	tS, tD := float64(def.TargetSupply), float64(def.TargetDemand)
	scarcity := clampFactor(1 + (tS-float64(live.Supply))/tS)
	demand := clampFactor(1 + (float64(live.Demand)-tD)/tD)
	bias := 1.0
	switch def.Preference {
	case tuning.PrefExports:
		bias = exportBias
	case tuning.PrefImports:
		bias = importBias
	}
	tariff := Tariff(cfg, gs, island)

	event := 1.0
	if ev, ok := world.LocalEvent(cfg, gs, island); ok && slices.Contains(ev.Affects, g.Category) {
		event = ev.Multiplier
	}
	if ev, ok := world.RegionalEvent(cfg, gs, island); ok {
		if m := ev.CategoryMult[g.Category]; m > 0 {
			event *= m
		}
	}

	ps := world.PortState(cfg, gs, island)
	port := ps.PriceMult
	if port <= 0 {
		port = 1
	}
	if ps.FoodMult > 0 && ps.FoodCategory == g.Category {
		port *= ps.FoodMult
	}
	if ps.SmugglerBonus > 0 && g.Category == tuning.CategoryContraband {
		port *= ps.SmugglerBonus
	}
	if ps.MaterialBonus > 0 && slices.Contains(ps.Materials, good) {
		port *= ps.MaterialBonus
	}

	season := world.Season(cfg, gs).PriceMult
	if season <= 0 {
		season = 1
	}
	if ev, ok := world.SeasonalEvent(cfg, gs); ok {
		if m := ev.Effects.Category(g.Category); m > 0 {
			season *= m
		}
	}

	return max(1, mathx.Round(g.BasePrice*scarcity*demand*bias*tariff*event*port*season))
}

// Tariff is the duty a foreign port charges the player, from 0.9 to 2.
func Tariff(cfg *tuning.Tuning, gs *state.GameState, island string) float64 {
	is, ok := cfg.Island(island)
	if !ok {
		return 1
	}
	p := &gs.Player
	if is.Faction == tuning.FactionNeutral || is.Faction == p.Faction {
		return 1
	}
	t := 1.0
	if f, ok := cfg.Faction(is.Faction); ok {
		t += f.TaxRate
	}
	rep := p.Reputation[is.Faction]
	switch {
	case rep < -50:
		t += 0.3
	case rep < -20:
		t += 0.15
	case rep > 50:
		t -= 0.1
	}
	t *= 1 - effects.For(cfg, p).TariffReduction
	t *= world.PortState(cfg, gs, island).TariffMult
	if ev, ok := world.SeasonalEvent(cfg, gs); ok && ev.Effects.TariffMult != nil {
		t *= *ev.Effects.TariffMult
	}
	return mathx.Clamp(t, 0.9, 2)
}

// BuyPrice applies the player's discounts to the base price.
func BuyPrice(cfg *tuning.Tuning, gs *state.GameState, good, island string) int {
	base := BasePrice(cfg, gs, good, island)
	g, _ := cfg.Good(good)
	p := &gs.Player
	m := effects.For(cfg, p)
	d := 1 - m.TradeBonus
	if g.Category == tuning.CategoryContraband {
		d *= (1 - m.ContrabandBonus) * (1 - m.ContrabandTradeBonus)
	}
	if p.MerchantFavor > 0 {
		d *= 1 - min(maxFavorDiscount, float64(p.MerchantFavor)*favorDiscountPerPoint)
	}
	return max(1, mathx.Round(float64(base)*d))
}

// SellPrice applies the player's bonuses and the notoriety penalty for
// leaning on one good.
func SellPrice(cfg *tuning.Tuning, gs *state.GameState, good, island string) int {
	base := BasePrice(cfg, gs, good, island)
	g, _ := cfg.Good(good)
	p := &gs.Player
	m := effects.For(cfg, p)
	b := 1 + m.TradeBonus
	if g.Category == tuning.CategoryContraband {
		b *= (1 + m.ContrabandBonus) * (1 + m.ContrabandTradeBonus)
	}
	b *= risk.ModifiersFor(cfg, &p.Meta, risk.Context{Good: good}).SellPrice
	return max(1, mathx.Round(float64(base)*b))
}

// Quote is one row of a port's price board.
type Quote struct {
	Good   string `json:"good"`
	Base   int    `json:"base"`
	Buy    int    `json:"buy"`
	Sell   int    `json:"sell"`
	Supply int    `json:"supply"`
	Demand int    `json:"demand"`
	Trend  string `json:"trend"`
}

// Prices lists the island's market in table order.
func Prices(cfg *tuning.Tuning, gs *state.GameState, island string) []Quote {
	is, ok := cfg.Island(island)
	if !ok {
		return nil
	}
	var out []Quote
	for _, g := range cfg.Goods {
		if _, ok := is.Market(g.ID); !ok {
			continue
		}
		live := gs.Market(island, g.ID)
		if live == nil {
			continue
		}
		base := BasePrice(cfg, gs, g.ID, island)
		out = append(out, Quote{
			Good:   g.ID,
			Base:   base,
			Buy:    BuyPrice(cfg, gs, g.ID, island),
			Sell:   SellPrice(cfg, gs, g.ID, island),
			Supply: live.Supply,
			Demand: live.Demand,
			Trend:  Trend(&gs.Player, island, g.ID, base),
		})
	}
	return out
}
