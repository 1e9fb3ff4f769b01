// Package effects turns a player's equipment, crew, faction and titles into a
// flat list of tagged effects, then folds that list into capped Modifiers.
package effects

import (
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

type Kind int

const (
	CargoBonus Kind = iota + 1
	CapacityPenalty
	LuxuryCap
	CommodityCap
	SpeedBonus
	SpeedPenalty
	CrewSpeed
	WindBonus
	SupplyCost
	CargoProtection
	GoldProtection
	TributeReduction
	TitleTributeReduction
	InspectionReduction
	CrewInspectionReduction
	TitleInspectionReduction
	ContrabandTradeBonus
	TradeBonus
	ContrabandBonus
	PirateChanceMult
	TributeMult
	UpkeepMult
	CombatBonus
	LootBonus
	FenceBonus
	HeatMult
	MoraleRecovery
	MaxMorale
	RepairDiscount
	RiggingWearMult
	MoralePenalty
	RepGain
	RepLossReduction
	TariffReduction
)

// Effect is one contribution to the player's modifiers.
type Effect struct {
	Source string
	Kind   Kind
	Value  float64
}

// Modifiers is the reduced, capped view every system reads.
// Multiplier fields start at 1; reductions and bonuses start at 0.
type Modifiers struct {
	CargoBonus      float64
	CapacityPenalty int
	LuxuryCap       int
	CommodityCap    int

	SpeedBonus   float64
	SpeedPenalty float64
	CrewSpeed    float64
	WindBonus    float64
	SupplyCost   float64

	CargoProtection float64
	GoldProtection  float64

	TributeReduction      float64
	TitleTributeReduction float64

	InspectionReduction      float64
	CrewInspectionReduction  float64
	TitleInspectionReduction float64

	ContrabandTradeBonus float64
	TradeBonus           float64
	ContrabandBonus      float64

	PirateChanceMult float64
	TributeMult      float64
	UpkeepMult       float64

	CombatBonus     float64
	LootBonus       float64
	FenceBonus      float64
	HeatMult        float64
	MoraleRecovery  float64
	MaxMorale       int
	RepairDiscount  float64
	RiggingWearMult float64
	MoralePenalty   float64

	RepGainMult      float64
	RepLossReduction float64
	TariffReduction  float64
}

// Caps applied by Reduce.
const (
	maxRepLossReduction    = 0.5
	maxTitleInspection     = 0.5
	maxTitleTribute        = 0.4
	maxTariffReduction     = 0.2
	maxSpeedPenalty        = 0.9
	maxProtection          = 0.9
	maxCrewInspection      = 0.9
	maxInspectionReduction = 0.9
)

// Reduce folds effects into Modifiers. Reductions and bonuses add; multipliers multiply.
func Reduce(list []Effect) Modifiers {
	m := Modifiers{
		PirateChanceMult: 1,
		TributeMult:      1,
		UpkeepMult:       1,
		HeatMult:         1,
		MoraleRecovery:   1,
		RiggingWearMult:  1,
		RepGainMult:      1,
	}
	for _, e := range list {
		switch e.Kind {
		case CargoBonus:
			m.CargoBonus += e.Value
		case CapacityPenalty:
			m.CapacityPenalty += int(e.Value)
		case LuxuryCap:
			m.LuxuryCap += int(e.Value)
		case CommodityCap:
			m.CommodityCap += int(e.Value)
		case SpeedBonus:
			m.SpeedBonus += e.Value
		case SpeedPenalty:
			m.SpeedPenalty += e.Value
		case CrewSpeed:
			m.CrewSpeed += e.Value
		case WindBonus:
			m.WindBonus += e.Value
		case SupplyCost:
			m.SupplyCost += e.Value
		case CargoProtection:
			m.CargoProtection = 1 - (1-m.CargoProtection)*(1-e.Value)
		case GoldProtection:
			m.GoldProtection += e.Value
		case TributeReduction:
			m.TributeReduction += e.Value
		case TitleTributeReduction:
			m.TitleTributeReduction += e.Value
		case InspectionReduction:
			m.InspectionReduction += e.Value
		case CrewInspectionReduction:
			m.CrewInspectionReduction += e.Value
		case TitleInspectionReduction:
			m.TitleInspectionReduction += e.Value
		case ContrabandTradeBonus:
			m.ContrabandTradeBonus += e.Value
		case TradeBonus:
			m.TradeBonus += e.Value
		case ContrabandBonus:
			m.ContrabandBonus += e.Value
		case PirateChanceMult:
			m.PirateChanceMult *= e.Value
		case TributeMult:
			m.TributeMult *= e.Value
		case UpkeepMult:
			m.UpkeepMult *= e.Value
		case CombatBonus:
			m.CombatBonus += e.Value
		case LootBonus:
			m.LootBonus += e.Value
		case FenceBonus:
			m.FenceBonus += e.Value
		case HeatMult:
			m.HeatMult *= e.Value
		case MoraleRecovery:
			m.MoraleRecovery *= e.Value
		case MaxMorale:
			m.MaxMorale += int(e.Value)
		case RepairDiscount:
			m.RepairDiscount += e.Value
		case RiggingWearMult:
			m.RiggingWearMult *= e.Value
		case MoralePenalty:
			m.MoralePenalty += e.Value
		case RepGain:
			m.RepGainMult += e.Value
		case RepLossReduction:
			m.RepLossReduction += e.Value
		case TariffReduction:
			m.TariffReduction += e.Value
		}
	}
	m.RepLossReduction = min(m.RepLossReduction, maxRepLossReduction)
	m.TitleInspectionReduction = min(m.TitleInspectionReduction, maxTitleInspection)
	m.TitleTributeReduction = min(m.TitleTributeReduction, maxTitleTribute)
	m.TariffReduction = min(m.TariffReduction, maxTariffReduction)
	m.SpeedPenalty = min(m.SpeedPenalty, maxSpeedPenalty)
	m.CargoProtection = min(m.CargoProtection, maxProtection)
	m.GoldProtection = min(m.GoldProtection, maxProtection)
	m.TributeReduction = min(m.TributeReduction, maxProtection)
	m.InspectionReduction = min(m.InspectionReduction, maxInspectionReduction)
	m.CrewInspectionReduction = min(m.CrewInspectionReduction, maxCrewInspection)
	m.RepairDiscount = min(m.RepairDiscount, maxProtection)
	return m
}

// Equipment lists effects from faction, upgrades and officers in table order.
func Equipment(cfg *tuning.Tuning, p *state.Player) []Effect {
	var out []Effect
	add := func(src string, k Kind, v float64) {
		if v != 0 {
			out = append(out, Effect{Source: src, Kind: k, Value: v})
		}
	}

	if f, ok := cfg.Faction(p.Faction); ok {
		src := "faction:" + f.ID
		add(src, CargoBonus, f.CargoBonus)
		add(src, SpeedBonus, f.SpeedBonus)
		add(src, TradeBonus, f.PriceBonus)
		add(src, ContrabandBonus, f.ContrabandBonus)
		if f.PirateChanceMult != 1 {
			add(src, PirateChanceMult, f.PirateChanceMult)
		}
		if f.TributeMult != 1 {
			add(src, TributeMult, f.TributeMult)
		}
	}

	for _, u := range cfg.Upgrades {
		if !p.HasUpgrade(u.ID) {
			continue
		}
		src := "upgrade:" + u.ID
		e := u.Effects
		add(src, WindBonus, e.WindBonus)
		add(src, SupplyCost, e.SupplyCostExtra)
		add(src, CargoProtection, e.CargoProtection)
		add(src, SpeedPenalty, e.SpeedPenalty)
		add(src, CapacityPenalty, float64(e.CapacityPenalty))
		add(src, LuxuryCap, float64(e.LuxuryCapBonus))
		add(src, CommodityCap, -float64(e.CommodityCapPenalty))
		add(src, InspectionReduction, e.InspectionReduction)
		add(src, ContrabandTradeBonus, e.ContrabandProfitBonus)
		add(src, TributeReduction, e.TributeReduction)
		add(src, GoldProtection, e.GoldProtection)
	}

	for _, o := range cfg.Officers {
		if !p.HasOfficer(o.ID) {
			continue
		}
		src := "officer:" + o.ID
		e := o.Effects
		if e.UpkeepMult != 0 {
			add(src, UpkeepMult, e.UpkeepMult)
		}
		if e.MaintenanceMult != 0 {
			add(src, UpkeepMult, e.MaintenanceMult)
		}
		add(src, CargoProtection, e.CargoProtection)
		add(src, CrewSpeed, e.SpeedBonus)
		add(src, CombatBonus, e.CombatBonus)
		add(src, LootBonus, e.LootBonus)
		add(src, CrewInspectionReduction, e.InspectionReduction)
		add(src, FenceBonus, e.FenceBonus)
		if e.HeatMult != 0 {
			add(src, HeatMult, e.HeatMult)
		}
		if e.MoraleRecovery != 0 {
			add(src, MoraleRecovery, e.MoraleRecovery)
		}
		add(src, MaxMorale, float64(e.MaxMoraleBonus))
		add(src, SupplyCost, e.SupplyCostExtra)
		add(src, RepairDiscount, e.RepairDiscount)
		if e.RiggingWearMult != 0 {
			add(src, RiggingWearMult, e.RiggingWearMult)
		}
		add(src, MoralePenalty, e.MoralePenalty)
	}
	return out
}

// reputationTariffStanding is the rep above which a faction grants a tariff break.
const reputationTariffStanding = 50

// Titles lists per-tier title effects plus the standing tariff break for each
// faction the player is well regarded by.
func Titles(cfg *tuning.Tuning, tiers, rep map[string]int) []Effect {
	var out []Effect
	for _, tr := range cfg.Titles {
		tier := tiers[tr.ID]
		if tier <= 0 {
			continue
		}
		src := "title:" + tr.ID
		n := float64(tier)
		e := tr.PerTier
		if e.RepGainMult != 0 {
			out = append(out, Effect{src, RepGain, e.RepGainMult * n})
		}
		if e.RepLossReduction != 0 {
			out = append(out, Effect{src, RepLossReduction, e.RepLossReduction * n})
		}
		if e.InspectionReduction != 0 {
			out = append(out, Effect{src, TitleInspectionReduction, e.InspectionReduction * n})
		}
		if e.TributeReduction != 0 {
			out = append(out, Effect{src, TitleTributeReduction, e.TributeReduction * n})
		}
	}
	for _, f := range tuning.PlayerFactions {
		if rep[f] > reputationTariffStanding {
			out = append(out, Effect{"standing:" + f, TariffReduction, 0.05})
		}
	}
	return out
}

// For reduces every effect the player currently carries.
func For(cfg *tuning.Tuning, p *state.Player) Modifiers {
	list := Equipment(cfg, p)
	list = append(list, Titles(cfg, p.Titles, p.Reputation)...)
	return Reduce(list)
}
