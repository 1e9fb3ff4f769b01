package economy

import (
	"fmt"

	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/sim/world"
)

// Trade is the outcome of a buy or sell.
type Trade struct {
	state.Result
	Good     string `json:"good,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
	Price    int    `json:"price,omitempty"`
	Total    int    `json:"total,omitempty"`
	Profit   int    `json:"profit,omitempty"`
}

func fail(reason string) Trade { return Trade{Result: state.Fail(reason)} }

func validate(cfg *tuning.Tuning, gs *state.GameState, good, island string, qty int) (tuning.Good, *state.Market, string) {
	if qty <= 0 {
		return tuning.Good{}, nil, state.ReasonInvalidQuantity
	}
	g, ok := cfg.Good(good)
	if !ok {
		return tuning.Good{}, nil, state.ReasonUnknownGood
	}
	if _, ok := cfg.Island(island); !ok {
		return tuning.Good{}, nil, state.ReasonUnknownIsland
	}
	m := gs.Market(island, good)
	if m == nil {
		return tuning.Good{}, nil, state.ReasonUnknownGood
	}
	return g, m, ""
}

// BuyQuote is the unit price Buy would charge, including anti-spam and the
// flip guard.
func BuyQuote(cfg *tuning.Tuning, gs *state.GameState, good, island string, qty int) int {
	p := &gs.Player
	price := max(1, mathx.Round(float64(BuyPrice(cfg, gs, good, island))*BuyMult(cfg, p, island, qty)))
	if vt, ok := p.VisitTrades[good]; ok && vt.Sold > 0 {
		price = max(price, vt.Sold)
	}
	return price
}

// SellQuote is the unit price Sell would pay.
func SellQuote(cfg *tuning.Tuning, gs *state.GameState, good, island string, qty int) int {
	p := &gs.Player
	price := max(1, mathx.Round(float64(SellPrice(cfg, gs, good, island))*
		SaturationPenalty(cfg, &gs.World, island, good)*SellMult(cfg, p, island, qty)))
	if vt, ok := p.VisitTrades[good]; ok && vt.Bought > 0 {
		price = min(price, vt.Bought)
	}
	return price
}

func noteVisitTrade(p *state.Player, good string, bought, sold int) {
	if p.VisitTrades == nil {
		p.VisitTrades = map[string]state.VisitTrade{}
	}
	vt := p.VisitTrades[good]
	if bought > 0 && (vt.Bought == 0 || bought < vt.Bought) {
		vt.Bought = bought
	}
	if sold > 0 {
		vt.Sold = max(vt.Sold, sold)
	}
	p.VisitTrades[good] = vt
}

// Buy purchases qty units. A failed buy changes nothing.
func Buy(cfg *tuning.Tuning, gs *state.GameState, good, island string, qty int) Trade {
	g, m, reason := validate(cfg, gs, good, island, qty)
	if reason != "" {
		return fail(reason)
	}
	p := &gs.Player
	price := BuyQuote(cfg, gs, good, island, qty)
	if qty > m.Supply {
		return fail(state.ReasonNotEnoughStock)
	}
	if price*qty > p.Gold {
		return fail(state.ReasonNotEnoughGold)
	}
	if r := ship.CanCarry(cfg, p, good, qty); !r.Success {
		return Trade{Result: r}
	}

	p.Gold -= price * qty
	p.AddCargo(good, qty)
	if p.PurchaseHistory == nil {
		p.PurchaseHistory = map[string]int{}
	}
	if p.PurchaseLocation == nil {
		p.PurchaseLocation = map[string]string{}
	}
	p.PurchaseHistory[good] = price
	p.PurchaseLocation[good] = island
	m.Supply -= qty
	RecordPrice(p, island, good, BasePrice(cfg, gs, good, island))
	p.TradesThisVisit++
	noteVisitTrade(p, good, price, 0)
	world.TradeInfluence(cfg, &gs.World, island, p.Faction)
	if g.Category == tuning.CategoryContraband {
		risk.AddHeat(cfg, p, float64(cfg.Settings.HeatGainContraband))
	}
	return Trade{Result: state.OK(), Good: good, Quantity: qty, Price: price, Total: price * qty}
}

// Sell sells qty units. Contraband is limited by the port's fence.
func Sell(cfg *tuning.Tuning, gs *state.GameState, good, island string, qty int) Trade {
	g, m, reason := validate(cfg, gs, good, island, qty)
	if reason != "" {
		return fail(reason)
	}
	p := &gs.Player
	if qty > p.Cargo[good] {
		return fail(state.ReasonNotInCargo)
	}
	contraband := g.Category == tuning.CategoryContraband
	if contraband {
		if left := FenceRemaining(cfg, gs, island); qty > left {
			return fail(fmt.Sprintf("%s: fence can only take %d more", state.ReasonFenceLimit, left))
		}
	}

	price := SellQuote(cfg, gs, good, island, qty)
	revenue := price * qty
	p.Gold += revenue
	p.RemoveCargo(good, qty)
	m.Supply += qty
	RecordPrice(p, island, good, BasePrice(cfg, gs, good, island))
	AddSaturation(cfg, gs, island, good, qty)
	p.TradesThisVisit++
	noteVisitTrade(p, good, 0, price)

	profit := (price - p.PurchaseHistory[good]) * qty
	if profit > 0 {
		risk.RecordTrade(cfg, &p.Meta, good, profit)
		p.Stats.TotalProfit += profit
	}
	world.TradeInfluence(cfg, &gs.World, island, p.Faction)
	if contraband {
		risk.AddHeat(cfg, p, risk.SellHeat(cfg, qty))
		addFence(cfg, gs, island, qty)
		p.Stats.ContrabandTraded += qty
		world.SmuggleInfluence(cfg, &gs.World, island)
	}
	return Trade{Result: state.OK(), Good: good, Quantity: qty, Price: price, Total: revenue, Profit: max(0, profit)}
}
