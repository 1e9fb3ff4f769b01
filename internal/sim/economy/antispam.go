package economy

import (
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// Fatigue is the price penalty for trading too often in one visit.
func Fatigue(cfg *tuning.Tuning, p *state.Player) float64 {
	tf := cfg.Balance.TradeFatigue
	if !tf.Enabled {
		return 0
	}
	excess := max(0, p.TradesThisVisit-tf.TransactionsPerVisit)
	return min(tf.MaxPenalty, float64(excess)*tf.PenaltyPerTrade)
}

// VisitPenalty punishes returning to a port before the cooldown has passed.
// It measures from the visit before the current one.
func VisitPenalty(cfg *tuning.Tuning, p *state.Player, island string) float64 {
	pv := cfg.Balance.PortVisitCooldown
	if !pv.Enabled {
		return 0
	}
	v, ok := p.PortVisits[island]
	if !ok || v.Previous <= 0 {
		return 0
	}
	since := p.Days - v.Previous
	if since >= pv.MinDaysBetween {
		return 0
	}
	return min(pv.MaxPenalty, float64(pv.MinDaysBetween-since)*pv.PenaltyPerEarlyDay)
}

// BulkPenalty only counts the units above the threshold.
func BulkPenalty(cfg *tuning.Tuning, qty int) float64 {
	bt := cfg.Balance.BulkTrade
	if !bt.Enabled {
		return 0
	}
	return min(bt.MaxPenalty, float64(max(0, qty-bt.Threshold))*bt.PenaltyPerUnit)
}

func penalties(cfg *tuning.Tuning, p *state.Player, island string, qty int) float64 {
	return Fatigue(cfg, p) + VisitPenalty(cfg, p, island) + BulkPenalty(cfg, qty)
}

// SellMult lowers the sale price, never below the configured floor.
func SellMult(cfg *tuning.Tuning, p *state.Player, island string, qty int) float64 {
	return max(cfg.Balance.AntiSpam.SellFloor, 1-penalties(cfg, p, island, qty))
}

// BuyMult raises the purchase price at reduced weight, up to the ceiling.
func BuyMult(cfg *tuning.Tuning, p *state.Player, island string, qty int) float64 {
	as := cfg.Balance.AntiSpam
	return min(as.BuyCeiling, 1+penalties(cfg, p, island, qty)*as.BuyWeight)
}

// RecordVisit stamps a dock day, keeping the previous one.
func RecordVisit(p *state.Player, island string) {
	if p.PortVisits == nil {
		p.PortVisits = map[string]state.PortVisit{}
	}
	v := p.PortVisits[island]
	p.PortVisits[island] = state.PortVisit{Last: p.Days, Previous: v.Last}
}

// ResetVisit clears per-visit trade counters on leaving port.
func ResetVisit(p *state.Player) {
	p.TradesThisVisit = 0
	p.VisitTrades = nil
}
