// Package state holds the single mutable aggregate of a game session.
// It has no behavior beyond bookkeeping helpers that keep its invariants.
package state

import (
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/tuning"
)

// Result is the outcome of a player action. A failed action leaves state untouched.
type Result struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

func OK() Result { return Result{Success: true} }

func Fail(reason string) Result { return Result{Reason: reason} }

// Failure reasons shared across packages.
const (
	ReasonNotDocked       = "Not docked"
	ReasonNotEnoughGold   = "Not enough gold"
	ReasonNotEnoughStock  = "Not enough stock"
	ReasonNotInCargo      = "Not enough cargo"
	ReasonHoldFull        = "Hold full"
	ReasonCategoryLimit   = "Category limit"
	ReasonFenceLimit      = "Fence limit reached"
	ReasonUnknownGood     = "Unknown good"
	ReasonUnknownIsland   = "Unknown island"
	ReasonInvalidQuantity = "Invalid quantity"
)

type GameState struct {
	SaveVersion    int       `json:"save_version"`
	Seed           int64     `json:"seed"`
	RNG            mathx.RNG `json:"rng"`
	NextContractID int       `json:"next_contract_id"`

	Player  Player             `json:"player"`
	Islands map[string]*Island `json:"islands"`
	World   World              `json:"world"`
	Wind    Wind               `json:"wind"`

	Position      tuning.Vec2 `json:"position"`
	CurrentIsland string      `json:"current_island,omitempty"`
	CurrentCove   string      `json:"current_cove,omitempty"`
	IsDocked      bool        `json:"is_docked"`

	// Pending is an encounter waiting for the player's choice.
	Pending *Encounter `json:"pending,omitempty"`
	Chase   *Chase     `json:"chase,omitempty"`
}

type Island struct {
	ID      string             `json:"id"`
	Markets map[string]*Market `json:"markets"`
	Event   *LocalEvent        `json:"event,omitempty"`
}

type Market struct {
	Supply int `json:"supply"`
	Demand int `json:"demand"`
}

type LocalEvent struct {
	ID       string `json:"id"`
	DaysLeft int    `json:"days_left"`
}

type Wind struct {
	Direction       int `json:"direction"`
	Strength        int `json:"strength"`
	DaysUntilChange int `json:"days_until_change"`
}

// Market returns the island's market for a good, or nil.
func (gs *GameState) Market(island, good string) *Market {
	is := gs.Islands[island]
	if is == nil {
		return nil
	}
	return is.Markets[good]
}

// DockedAt reports the island the player is docked at, if any.
func (gs *GameState) DockedAt() (string, bool) {
	if !gs.IsDocked || gs.CurrentIsland == "" {
		return "", false
	}
	return gs.CurrentIsland, true
}

// NewContractID hands out the next session-scoped contract id.
func (gs *GameState) NewContractID() int {
	gs.NextContractID++
	return gs.NextContractID
}
