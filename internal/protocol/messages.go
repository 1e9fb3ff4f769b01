package protocol

// HELLO (client -> server). An empty RunID starts a new game.
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	CaptainName     string `json:"captain_name"`
	Faction         string `json:"faction,omitempty"`
	Seed            *int64 `json:"seed,omitempty"`
	RunID           string `json:"run_id,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	RunID           string   `json:"run_id"`
	Resumed         bool     `json:"resumed"`
	Fresh           bool     `json:"fresh,omitempty"`
	Faction         string   `json:"faction"`
	Seed            int64    `json:"seed"`
	TuningDigest    string   `json:"tuning_digest"`
	Actions         []string `json:"actions"`
	Islands         []string `json:"islands"`
	Goods           []string `json:"goods"`
}

// ACT (client -> server): one player action. Only the fields the action
// uses are read.
type ActMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id"`
	Action          string `json:"action"`

	Good      string `json:"good,omitempty"`
	Qty       int    `json:"qty,omitempty"`
	Island    string `json:"island,omitempty"`
	Cove      string `json:"cove,omitempty"`
	Contract  int    `json:"contract,omitempty"`
	Questline string `json:"questline,omitempty"`
	Officer   string `json:"officer,omitempty"`
	Upgrade   string `json:"upgrade,omitempty"`
	Ship      string `json:"ship,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Choice    string `json:"choice,omitempty"`
	Service   string `json:"service,omitempty"`
	Query     string `json:"query,omitempty"`
	Category  string `json:"category,omitempty"`
}

// RESULT (server -> client): the outcome of one ACT.
type ResultMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	ActID           string   `json:"act_id"`
	Action          string   `json:"action"`
	OK              bool     `json:"ok"`
	Code            string   `json:"code,omitempty"`
	Reason          string   `json:"reason,omitempty"`
	DidYouMean      []string `json:"did_you_mean,omitempty"`
	Data            any      `json:"data,omitempty"`
}

// STATE (server -> client): the captain's dashboard after each ACT.
type StateMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	RunID           string         `json:"run_id"`
	Day             int            `json:"day"`
	SeasonDay       int            `json:"season_day"`
	Faction         string         `json:"faction"`
	Gold            int            `json:"gold"`
	Supplies        int            `json:"supplies"`
	Position        [2]float64     `json:"position"`
	Docked          bool           `json:"docked"`
	Island          string         `json:"island,omitempty"`
	Cove            string         `json:"cove,omitempty"`
	Destination     string         `json:"destination,omitempty"`
	Cargo           map[string]int `json:"cargo"`
	CargoUsed       int            `json:"cargo_used"`
	CargoCapacity   int            `json:"cargo_capacity"`
	Reputation      map[string]int `json:"reputation"`
	Heat            float64        `json:"heat"`
	Bounty          int            `json:"bounty"`
	ShipClass       string         `json:"ship_class"`
	Hull            float64        `json:"hull"`
	Rigging         float64        `json:"rigging"`
	Morale          float64        `json:"morale"`
	Wind            WindObs        `json:"wind"`
	Pending         *PendingObs    `json:"pending,omitempty"`
	ChaseActive     bool           `json:"chase_active,omitempty"`
}

type WindObs struct {
	Direction string `json:"direction"`
	Strength  string `json:"strength"`
}

type PendingObs struct {
	Kind    string   `json:"kind"`
	Choices []string `json:"choices"`
}

// ERROR (server -> client): a message that could not be handled at all.
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}
