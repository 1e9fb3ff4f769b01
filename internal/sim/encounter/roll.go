package encounter

import (
	"havenvoy.game/internal/sim/progression"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/sim/world"
)

const (
	stormsEyeDriftChance  = 0.25
	stormsEyeSeasonChance = 0.2
	heavyStormSeason      = 2.0

	driftMerchants = "merchants"
)

// Roll draws at most one encounter for the day, in a fixed priority order,
// and leaves it pending on the state. The player is never interrupted
// while docked.
func Roll(cfg *tuning.Tuning, gs *state.GameState) (state.Encounter, bool) {
	if gs.IsDocked || gs.Pending != nil {
		return state.Encounter{}, false
	}
	enc, ok := roll(cfg, gs)
	if !ok {
		return state.Encounter{}, false
	}
	enc.Day = gs.Player.Days
	gs.Pending = &enc
	return enc, true
}

func roll(cfg *tuning.Tuning, gs *state.GameState) (state.Encounter, bool) {
	rng := &gs.RNG
	if island, ok := NearbyBlockade(cfg, gs); ok && rng.Chance(cfg.Balance.Encounters.BlockadeChance) {
		b := gs.World.Blockades[island]
		return state.Encounter{Kind: state.EncounterBlockade, Island: island, Cost: BlockadeBribe(b)}, true
	}

	if enc, ok := SpawnHunter(cfg, gs); ok {
		return enc, true
	}

	for _, s := range world.NearbyDrift(cfg, gs, 0) {
		switch s.EncounterType {
		case state.EncounterPirateFleet:
			return state.Encounter{Kind: state.EncounterPirateFleet, Cost: TributeCost(cfg, gs)}, true
		case state.EncounterConvoy:
			// A convoy only stops ships it has reason to search.
			if gs.Player.ContrabandUnits(cfg) > 0 {
				return state.Encounter{Kind: state.EncounterInspection}, true
			}
		case state.EncounterMarket:
			return MerchantOffer(cfg, gs, state.EncounterMarket), true
		case state.EncounterStorm:
			if rng.Chance(stormsEyeDriftChance) {
				return state.Encounter{Kind: state.EncounterStormsEye}, true
			}
			return state.Encounter{Kind: state.EncounterStorm}, true
		case driftMerchants:
			return MerchantOffer(cfg, gs, state.EncounterMerchant), true
		}
	}

	if rng.Chance(PirateChance(cfg, gs)) {
		return state.Encounter{Kind: state.EncounterPirate, Cost: TributeCost(cfg, gs)}, true
	}
	if c := InspectionChance(cfg, gs); c > 0 && rng.Chance(c) {
		return state.Encounter{Kind: state.EncounterInspection}, true
	}
	season := world.Season(cfg, gs)
	if rng.Chance(StormChance(cfg, gs)) {
		if season.StormMult >= heavyStormSeason && rng.Chance(stormsEyeSeasonChance) {
			return state.Encounter{Kind: state.EncounterStormsEye}, true
		}
		return state.Encounter{Kind: state.EncounterStorm}, true
	}
	if rng.Chance(cfg.Encounters.DesperateMerchant * season.StormMult) {
		return DesperateOffer(cfg, gs), true
	}
	if _, ok := NearbyBlockade(cfg, gs); ok && rng.Chance(cfg.Encounters.BlockadeRunner*2) {
		return state.Encounter{Kind: state.EncounterRunner, Cost: 100 + rng.Intn(150)}, true
	}

	safe := 1 + (1-risk.RouteRisk(cfg, gs))*0.3
	if rng.Chance(cfg.Encounters.AdriftMerchant * safe) {
		return MerchantOffer(cfg, gs, state.EncounterMerchant), true
	}
	if rng.Chance(cfg.Encounters.WreckSalvage * safe) {
		return state.Encounter{Kind: state.EncounterWreck}, true
	}
	return state.Encounter{}, false
}

// TributeCost is what pirates demand: a share of the purse that grows with
// power and bounty, never below the minimum.
func TributeCost(cfg *tuning.Tuning, gs *state.GameState) int {
	p := &gs.Player
	enc := cfg.Balance.Encounters
	rate := enc.PirateStrengthBase + float64(progression.Power(cfg, p))*enc.PirateStrengthPower
	rate *= 1 + float64(p.Bounty)*cfg.Balance.Bounty.TributeBountyMult
	base := max(enc.PirateMinTribute, int(float64(p.Gold)*rate)+enc.PirateMinTribute)
	return ship.Tribute(cfg, p, float64(base))
}

// BlockadeBribe is the price of slipping through a blockade.
func BlockadeBribe(b *state.Blockade) int {
	if b == nil {
		return 100
	}
	return 100 + b.Strength*2
}

// Clear drops the pending encounter.
func Clear(gs *state.GameState) { gs.Pending = nil }

func pending(gs *state.GameState, kinds ...string) (*state.Encounter, bool) {
	if gs.Pending == nil {
		return nil, false
	}
	for _, k := range kinds {
		if gs.Pending.Kind == k {
			return gs.Pending, true
		}
	}
	return nil, false
}

// ReasonNoEncounter is returned when a response does not match the pending encounter.
const ReasonNoEncounter = "No such encounter"
