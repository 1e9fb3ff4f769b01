package economy

import (
	"sort"

	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// MarketDay drifts every market toward its targets with a little noise.
func MarketDay(cfg *tuning.Tuning, gs *state.GameState) {
	for _, is := range cfg.Islands {
		live := gs.Islands[is.ID]
		if live == nil {
			continue
		}
		for _, def := range is.Markets {
			m := live.Markets[def.Good]
			if m == nil {
				continue
			}
			tS, tD := def.TargetSupply, def.TargetDemand
			s := float64(m.Supply) + float64(tS-m.Supply)*0.05 + (gs.RNG.Float64()-0.5)*4
			d := float64(m.Demand) + float64(tD-m.Demand)*0.03 + (gs.RNG.Float64()-0.5)*2
			m.Supply = mathx.ClampInt(mathx.Round(s), 0, 2*tS)
			m.Demand = mathx.ClampInt(mathx.Round(d), 0, 2*tD)
		}
	}
}

// RecordPrice remembers a base price seen at a port.
func RecordPrice(p *state.Player, island, good string, price int) {
	if p.LastPrices == nil {
		p.LastPrices = map[string]map[string]state.PriceMemo{}
	}
	memo := p.LastPrices[island]
	if memo == nil {
		memo = map[string]state.PriceMemo{}
		p.LastPrices[island] = memo
	}
	memo[good] = state.PriceMemo{Price: price, Day: p.Days}
}

// RecordAllPrices notes every price on the island's board.
func RecordAllPrices(cfg *tuning.Tuning, gs *state.GameState, island string) {
	is, ok := cfg.Island(island)
	if !ok {
		return
	}
	for _, m := range is.Markets {
		RecordPrice(&gs.Player, island, m.Good, BasePrice(cfg, gs, m.Good, island))
	}
}

// Price trends.
const (
	TrendNone   = "none"
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// Trend compares a current price with the remembered one, with a 5% band.
func Trend(p *state.Player, island, good string, current int) string {
	memo, ok := p.LastPrices[island][good]
	if !ok || memo.Price <= 0 {
		return TrendNone
	}
	last := float64(memo.Price)
	switch {
	case float64(current) > last*1.05:
		return TrendUp
	case float64(current) < last*0.95:
		return TrendDown
	}
	return TrendStable
}

// Confidence levels for remembered prices.
const (
	ConfidenceNone = "none"
	ConfidenceHigh = "high"
	ConfidenceMed  = "med"
	ConfidenceLow  = "low"
)

// LastSeen is the most recent day any price was recorded at island.
func LastSeen(p *state.Player, island string) (int, bool) {
	memo, ok := p.LastPrices[island]
	if !ok || len(memo) == 0 {
		return 0, false
	}
	day := 0
	for _, m := range memo {
		day = max(day, m.Day)
	}
	return day, true
}

// Confidence grades how stale an island's remembered prices are. Company
// captains keep better books.
func Confidence(p *state.Player, island string) (string, int) {
	seen, ok := LastSeen(p, island)
	if !ok {
		return ConfidenceNone, 0
	}
	age := p.Days - seen
	bonus := 0
	if p.Faction == tuning.FactionEITC {
		bonus = 2
	}
	switch {
	case age <= 3+bonus:
		return ConfidenceHigh, age
	case age <= 7+bonus:
		return ConfidenceMed, age
	}
	return ConfidenceLow, age
}

// Deal is a buy-here, sell-there opportunity from remembered prices.
type Deal struct {
	Good            string  `json:"good"`
	BuyIsland       string  `json:"buy_island"`
	SellIsland      string  `json:"sell_island"`
	BuyPrice        int     `json:"buy_price"`
	SellPrice       int     `json:"sell_price"`
	Profit          int     `json:"profit"`
	ProfitPerWeight float64 `json:"profit_per_weight"`
	Confidence      string  `json:"confidence"`
	HighMargin      bool    `json:"high_margin"`
}

const (
	maxDeals       = 5
	minDealProfit  = 5
	highMarginTopN = 3
)

// Deals ranks the best margins from island to every other remembered port.
func Deals(cfg *tuning.Tuning, gs *state.GameState, island string) []Deal {
	p := &gs.Player
	current := map[string]int{}
	for _, g := range cfg.Goods {
		current[g.ID] = BasePrice(cfg, gs, g.ID, island)
	}
	var out []Deal
	for _, dest := range cfg.Islands {
		if dest.ID == island {
			continue
		}
		conf, _ := Confidence(p, dest.ID)
		if conf == ConfidenceNone {
			continue
		}
		for _, g := range cfg.Goods {
			memo, ok := p.LastPrices[dest.ID][g.ID]
			if !ok || memo.Price <= 0 {
				continue
			}
			profit := memo.Price - current[g.ID]
			if profit <= minDealProfit {
				continue
			}
			out = append(out, Deal{
				Good:            g.ID,
				BuyIsland:       island,
				SellIsland:      dest.ID,
				BuyPrice:        current[g.ID],
				SellPrice:       memo.Price,
				Profit:          profit,
				ProfitPerWeight: float64(profit) / float64(g.Weight),
				Confidence:      conf,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProfitPerWeight > out[j].ProfitPerWeight })
	if len(out) > maxDeals {
		out = out[:maxDeals]
	}
	for i := range out {
		out[i].HighMargin = i < highMarginTopN || out[i].ProfitPerWeight >= cfg.Settings.HighMarginThreshold
	}
	return out
}
