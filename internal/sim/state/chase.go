package state

import "time"

// Chase actions.
const (
	ChaseTrim     = "trim"
	ChaseJettison = "jettison"
	ChaseRisky    = "risky"
	ChaseJuke     = "juke"
)

// Chase is a pursuit in progress. It is advanced by the host's clock and
// resolves exactly once.
type Chase struct {
	Kind         string    `json:"kind"`
	StartedAt    time.Time `json:"started_at"`
	DurationMs   int       `json:"duration_ms"`
	EscapeChance float64   `json:"escape_chance"`
	Used         []string  `json:"used,omitempty"`
	LastActionMs int       `json:"last_action_ms"`
	TicksRolled  int       `json:"ticks_rolled"`
	Jettisoned   int       `json:"jettisoned,omitempty"`
	Hazards      []string  `json:"hazards,omitempty"`
	Resolved     bool      `json:"resolved"`
	Escaped      bool      `json:"escaped"`
}

// Deadline is when the pursuit ends.
func (c *Chase) Deadline() time.Time {
	return c.StartedAt.Add(time.Duration(c.DurationMs) * time.Millisecond)
}
