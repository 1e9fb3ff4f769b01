package state

// Contract statuses.
const (
	ContractAvailable = "available"
	ContractActive    = "active"
	ContractCompleted = "completed"
	ContractFailed    = "failed"
	ContractAbandoned = "abandoned"
)

// Requirement kinds.
const (
	RequireDeliver  = "deliver"
	RequireReach    = "reach"
	RequireSupplies = "supplies"
)

type Contract struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Requirement string `json:"requirement"`

	Good        string `json:"good,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	MinSupplies int    `json:"min_supplies,omitempty"`

	NoInspection bool `json:"no_inspection,omitempty"`
	WasInspected bool `json:"was_inspected,omitempty"`

	Gold       int     `json:"gold"`
	Rep        int     `json:"rep"`
	RepFaction string  `json:"rep_faction"`
	Deposit    int     `json:"deposit,omitempty"`
	Risk       float64 `json:"risk"`

	Deadline    int    `json:"deadline"`
	AcceptedDay int    `json:"accepted_day,omitempty"`
	Status      string `json:"status"`
}

type Contracts struct {
	Active    []Contract `json:"active"`
	Completed []Contract `json:"completed"`
	Failed    []Contract `json:"failed"`
}

// QuestProgress tracks one questline. Completed is permanent.
type QuestProgress struct {
	Step      int  `json:"step"`
	Delivered int  `json:"delivered"`
	StartDay  int  `json:"start_day"`
	Completed bool `json:"completed"`
	Failed    bool `json:"failed,omitempty"`
}
