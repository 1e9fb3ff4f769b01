package state

// Encounter kinds.
const (
	EncounterPirate       = "pirate"
	EncounterPirateFleet  = "pirateFleet"
	EncounterInspection   = "inspection"
	EncounterConvoy       = "convoy"
	EncounterStorm        = "storm"
	EncounterStormsEye    = "stormsEye"
	EncounterMerchant     = "merchant"
	EncounterDesperate    = "desperateMerchant"
	EncounterWreck        = "wreck"
	EncounterBlockade     = "blockade"
	EncounterRunner       = "blockadeRunner"
	EncounterBountyHunter = "bountyHunter"
	EncounterMarket       = "market"
)

// Encounter is a rolled event awaiting the player's response.
type Encounter struct {
	Kind     string  `json:"kind"`
	Island   string  `json:"island,omitempty"`
	Good     string  `json:"good,omitempty"`
	Quantity int     `json:"quantity,omitempty"`
	Price    int     `json:"price,omitempty"`
	Cost     int     `json:"cost,omitempty"`
	Hunter   string  `json:"hunter,omitempty"`
	Strength float64 `json:"strength,omitempty"`
	Day      int     `json:"day"`
}
