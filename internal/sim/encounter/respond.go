package encounter

import (
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// Responses a player can give to a pending encounter.
const (
	ChoicePay     = "pay"
	ChoiceFight   = "fight"
	ChoiceFlee    = "flee"
	ChoiceSubmit  = "submit"
	ChoiceRideOut = "ride_out"
	ChoiceWait    = "wait"
	ChoiceBuy     = "buy"
	ChoiceTake    = "take"
	ChoiceShare   = "share"
	ChoiceSalvage = "salvage"
	ChoiceHire    = "hire"
	ChoiceReport  = "report"
	ChoiceIgnore  = "ignore"
)

// Choices lists the valid responses to an encounter kind.
func Choices(kind string) []string {
	switch kind {
	case state.EncounterPirate, state.EncounterPirateFleet:
		return []string{ChoicePay, ChoiceFight, ChoiceFlee}
	case state.EncounterBountyHunter:
		return []string{ChoicePay, ChoiceFight, ChoiceFlee}
	case state.EncounterInspection:
		return []string{ChoiceSubmit, ChoiceFlee}
	case state.EncounterStorm, state.EncounterStormsEye:
		return []string{ChoiceRideOut, ChoiceWait}
	case state.EncounterMerchant, state.EncounterMarket:
		return []string{ChoiceBuy, ChoiceIgnore}
	case state.EncounterDesperate:
		return []string{ChoiceBuy, ChoiceTake, ChoiceShare, ChoiceIgnore}
	case state.EncounterWreck:
		return []string{ChoiceSalvage, ChoiceIgnore}
	case state.EncounterRunner:
		return []string{ChoiceHire, ChoiceReport, ChoiceIgnore}
	case state.EncounterBlockade:
		return []string{ChoicePay, ChoiceFlee, ChoiceIgnore}
	}
	return nil
}

// Respond applies the player's choice to the pending encounter.
func Respond(cfg *tuning.Tuning, gs *state.GameState, choice string) Outcome {
	if gs.Pending == nil {
		return failed(ReasonNoEncounter)
	}
	kind := gs.Pending.Kind
	switch choice {
	case ChoicePay:
		switch kind {
		case state.EncounterBountyHunter:
			return BribeHunter(cfg, gs)
		case state.EncounterBlockade:
			return BribeBlockade(cfg, gs)
		}
		return PayTribute(cfg, gs)
	case ChoiceFight:
		if kind == state.EncounterBountyHunter {
			return FightHunter(cfg, gs)
		}
		return FightPirates(cfg, gs)
	case ChoiceFlee:
		if kind == state.EncounterInspection {
			return FleeInspection(cfg, gs)
		}
		return Flee(cfg, gs)
	case ChoiceSubmit:
		return Submit(cfg, gs)
	case ChoiceRideOut:
		return RideOut(cfg, gs)
	case ChoiceWait:
		return WaitOut(cfg, gs)
	case ChoiceBuy:
		return BuyLot(cfg, gs)
	case ChoiceTake:
		return Plunder(cfg, gs)
	case ChoiceShare:
		return Share(cfg, gs)
	case ChoiceSalvage:
		return Salvage(cfg, gs)
	case ChoiceHire:
		return HireRunner(cfg, gs)
	case ChoiceReport:
		return ReportRunner(cfg, gs)
	case ChoiceIgnore:
		return Ignore(gs)
	}
	return failed(ReasonNoEncounter)
}
