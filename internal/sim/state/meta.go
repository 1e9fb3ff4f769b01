package state

// Meta windows hold the most recent items per category, oldest first.
type Meta struct {
	Routes   []string `json:"routes"`
	Goods    []string `json:"goods"`
	Ports    []string `json:"ports"`
	Factions []string `json:"factions"`

	Pressure      Pressure `json:"pressure"`
	LastUpdateDay int      `json:"last_update_day"`
	Milestones    Pressure `json:"milestones"`
	LastPort      string   `json:"last_port,omitempty"`
}

// Pressure holds one value per category. Total is unused for milestones.
type Pressure struct {
	Route   float64 `json:"route"`
	Good    float64 `json:"good"`
	Port    float64 `json:"port"`
	Faction float64 `json:"faction"`
	Total   float64 `json:"total"`
}

// Get returns the value for a category name.
func (p Pressure) Get(category string) float64 {
	switch category {
	case "route":
		return p.Route
	case "good":
		return p.Good
	case "port":
		return p.Port
	case "faction":
		return p.Faction
	}
	return 0
}

func (p *Pressure) Set(category string, v float64) {
	switch category {
	case "route":
		p.Route = v
	case "good":
		p.Good = v
	case "port":
		p.Port = v
	case "faction":
		p.Faction = v
	}
}
