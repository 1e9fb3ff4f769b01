package progression

import (
	"fmt"
	"math"

	"havenvoy.game/internal/sim/effects"
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// EstimateCargoValue values the hold at recorded prices: the current
// island's memory first, then any visited island in table order, then base.
func EstimateCargoValue(cfg *tuning.Tuning, gs *state.GameState) int {
	p := &gs.Player
	v := 0
	for _, g := range p.CargoGoods(cfg) {
		good, _ := cfg.Good(g)
		price := int(good.BasePrice)
		if memo, ok := p.LastPrices[gs.CurrentIsland][g]; ok && gs.CurrentIsland != "" && memo.Price > 0 {
			price = memo.Price
		} else {
			for _, is := range cfg.Islands {
				if memo, ok := p.LastPrices[is.ID][g]; ok && memo.Price > 0 {
					price = memo.Price
					break
				}
			}
		}
		v += price * p.Cargo[g]
	}
	return v
}

func NetWorth(cfg *tuning.Tuning, gs *state.GameState) int {
	return gs.Player.Gold + EstimateCargoValue(cfg, gs)
}

// TrackValue is the monotonic quantity a title track climbs on.
func TrackValue(cfg *tuning.Tuning, gs *state.GameState, track string) float64 {
	switch track {
	case tuning.TrackMerchant:
		return float64(NetWorth(cfg, gs))
	case tuning.TrackSmuggler:
		return float64(gs.Player.Stats.ContrabandTraded)
	case tuning.TrackVoyager:
		return float64(gs.Player.Days)
	}
	return 0
}

// TierFor walks the ladder; past the last threshold one extra tier is
// earned per half of the last threshold.
func TierFor(tr tuning.TitleTrack, v float64) int {
	n := len(tr.Thresholds)
	tier := 0
	for i, th := range tr.Thresholds {
		if v < th {
			break
		}
		tier = i + 1
	}
	if tier >= n && n > 0 {
		last := tr.Thresholds[n-1]
		tier = n + int(math.Floor((v-last)/(last*0.5)))
	}
	return tier
}

// TierName returns the rank title for a tier, numbering ranks past the last name.
func TierName(tr tuning.TitleTrack, tier int) string {
	if tier < len(tr.TierNames) {
		return tr.TierNames[tier]
	}
	last := tr.TierNames[len(tr.TierNames)-1]
	return fmt.Sprintf("%s %d", last, tier-len(tr.TierNames)+2)
}

// NextThreshold is the value needed for the next tier.
func NextThreshold(tr tuning.TitleTrack, v float64) float64 {
	for _, th := range tr.Thresholds {
		if v < th {
			return th
		}
	}
	last := tr.Thresholds[len(tr.Thresholds)-1]
	extra := math.Floor((v-last)/(last*0.5)) + 1
	return last + extra*(last*0.5)
}

// TitleStatus is one row of the title progress query.
type TitleStatus struct {
	Track string  `json:"track"`
	Tier  int     `json:"tier"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Next  float64 `json:"next"`
}

func TitleProgress(cfg *tuning.Tuning, gs *state.GameState) []TitleStatus {
	out := make([]TitleStatus, 0, len(cfg.Titles))
	for _, tr := range cfg.Titles {
		v := TrackValue(cfg, gs, tr.ID)
		tier := gs.Player.Titles[tr.ID]
		out = append(out, TitleStatus{Track: tr.ID, Tier: tier, Name: TierName(tr, tier), Value: v, Next: NextThreshold(tr, v)})
	}
	return out
}

// UpdateTitles raises stored tiers; they never go down. It returns the tracks that rose.
func UpdateTitles(cfg *tuning.Tuning, gs *state.GameState) []string {
	p := &gs.Player
	if p.Titles == nil {
		p.Titles = map[string]int{}
	}
	var raised []string
	for _, tr := range cfg.Titles {
		tier := TierFor(tr, TrackValue(cfg, gs, tr.ID))
		if tier > p.Titles[tr.ID] {
			p.Titles[tr.ID] = tier
			raised = append(raised, tr.ID)
		}
	}
	return raised
}

// ApplyRepChange scales delta by title modifiers, clamps reputation to
// [-100, 100] and returns the change actually applied.
func ApplyRepChange(cfg *tuning.Tuning, p *state.Player, faction string, delta int) int {
	if delta == 0 {
		return 0
	}
	m := effects.Reduce(effects.Titles(cfg, p.Titles, p.Reputation))
	if delta > 0 {
		delta = mathx.Round(float64(delta) * m.RepGainMult)
	} else {
		delta = mathx.Round(float64(delta) * (1 - m.RepLossReduction))
	}
	if p.Reputation == nil {
		p.Reputation = map[string]int{}
	}
	old := p.Reputation[faction]
	p.Reputation[faction] = mathx.ClampInt(old+delta, -100, 100)
	if delta > 0 {
		p.RepChanges.Gained += delta
	} else {
		p.RepChanges.Lost += -delta
	}
	return p.Reputation[faction] - old
}
