// Package save turns a game into a versioned blob and back. Decoding always
// runs Migrate, so callers never see a state from an older schema.
package save

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/sim/world"
)

var (
	// ErrCorrupt means the blob could not be parsed as a save at all.
	ErrCorrupt = errors.New("save: corrupt blob")
	// ErrFutureVersion means the blob was written by a newer build.
	ErrFutureVersion = errors.New("save: version newer than supported")
)

// Schema versions. Version 1 predates ship classes, crew and meta-pressure.
const (
	V1 = 1
	V2 = 2
)

type envelope struct {
	*state.GameState
	TuningDigest string `json:"tuning_digest,omitempty"`
}

type versionProbe struct {
	SaveVersion *int            `json:"save_version"`
	Player      json.RawMessage `json:"player"`
}

// Encode serializes the full game, stamped with the tuning digest.
func Encode(cfg *tuning.Tuning, gs *state.GameState) ([]byte, error) {
	if gs == nil {
		return nil, errors.New("save: nil state")
	}
	b, err := json.Marshal(envelope{GameState: gs, TuningDigest: cfg.Digest()})
	if err != nil {
		return nil, fmt.Errorf("save: encode: %w", err)
	}
	return b, nil
}

// Decode parses a blob and migrates it to the current schema. A blob that is
// not a save fails with ErrCorrupt; a blob from a newer schema fails with
// ErrFutureVersion. A blob without a version is treated as V1.
func Decode(cfg *tuning.Tuning, blob []byte) (*state.GameState, error) {
	if len(bytes.TrimSpace(blob)) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrCorrupt)
	}
	var probe versionProbe
	if err := json.Unmarshal(blob, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(probe.Player) == 0 || string(probe.Player) == "null" {
		return nil, fmt.Errorf("%w: no player", ErrCorrupt)
	}
	v := V1
	if probe.SaveVersion != nil {
		v = *probe.SaveVersion
	}
	if v < 0 {
		return nil, fmt.Errorf("%w: version %d", ErrCorrupt, v)
	}
	if v > Current(cfg) {
		return nil, fmt.Errorf("%w: %d > %d", ErrFutureVersion, v, Current(cfg))
	}

	gs := &state.GameState{}
	if err := json.Unmarshal(blob, &envelope{GameState: gs}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if v == 0 {
		v = V1
	}
	gs.SaveVersion = v
	Migrate(cfg, gs)
	return gs, nil
}

// Current is the schema version this build writes.
func Current(cfg *tuning.Tuning) int {
	if cfg.SaveVersion > 0 {
		return cfg.SaveVersion
	}
	return V2
}

// Migrate upgrades gs in place to the current schema. Fields already present
// are never touched, so running it twice changes nothing.
func Migrate(cfg *tuning.Tuning, gs *state.GameState) {
	if gs.SaveVersion < V2 {
		migrateV1(cfg, gs)
	}
	fillPlayer(cfg, &gs.Player)
	fillIslands(cfg, gs)
	fillWorld(cfg, &gs.World)
	if gs.RNG.State == 0 {
		gs.RNG = mathx.NewRNG(gs.Seed)
	}
	if gs.Wind.DaysUntilChange <= 0 {
		gs.Wind.DaysUntilChange = max(1, cfg.Settings.WindChangeDays)
	}
	gs.SaveVersion = max(gs.SaveVersion, Current(cfg))
}

// migrateV1 adds the ship a V1 save never had.
func migrateV1(cfg *tuning.Tuning, gs *state.GameState) {
	p := &gs.Player
	if p.ShipClass == "" || !cfg.HasShipClass(p.ShipClass) {
		p.ShipClass = cfg.DefaultShipClass()
	}
	if p.Ship == (state.Ship{}) {
		p.Ship = ship.Fresh(cfg, p)
	}
	if p.Meta.LastUpdateDay == 0 {
		p.Meta.LastUpdateDay = p.Days
	}
}

func fillPlayer(cfg *tuning.Tuning, p *state.Player) {
	if p.Cargo == nil {
		p.Cargo = map[string]int{}
	}
	if p.PurchaseHistory == nil {
		p.PurchaseHistory = map[string]int{}
	}
	if p.PurchaseLocation == nil {
		p.PurchaseLocation = map[string]string{}
	}
	if p.Reputation == nil {
		p.Reputation = map[string]int{}
		if f, ok := cfg.Faction(p.Faction); ok {
			for k, v := range f.StartingRep {
				p.Reputation[k] = v
			}
		}
	}
	for _, f := range tuning.PlayerFactions {
		if _, ok := p.Reputation[f]; !ok {
			p.Reputation[f] = 0
		}
	}
	if p.Titles == nil {
		p.Titles = map[string]int{}
	}
	if p.Questlines == nil {
		p.Questlines = map[string]*state.QuestProgress{}
	}
	if p.PortVisits == nil {
		p.PortVisits = map[string]state.PortVisit{}
	}
	if p.LastPrices == nil {
		p.LastPrices = map[string]map[string]state.PriceMemo{}
	}
	if p.ShipClass == "" {
		p.ShipClass = cfg.DefaultShipClass()
	}
	if p.Upgrades == nil {
		p.Upgrades = []string{}
	}
	if p.Officers == nil {
		p.Officers = []state.Officer{}
	}
	if p.HuntersDefeated == nil {
		p.HuntersDefeated = []string{}
	}
	if p.HonoraryTitles == nil {
		p.HonoraryTitles = []string{}
	}
	if p.DiscoveredCoves == nil {
		p.DiscoveredCoves = []string{}
	}
	if p.TreasuresFound == nil {
		p.TreasuresFound = []string{}
	}
	if p.Contracts.Active == nil {
		p.Contracts.Active = []state.Contract{}
	}
	if p.Contracts.Completed == nil {
		p.Contracts.Completed = []state.Contract{}
	}
	if p.Contracts.Failed == nil {
		p.Contracts.Failed = []state.Contract{}
	}
}

// fillIslands seeds any island or market the save does not know about at its
// target levels.
func fillIslands(cfg *tuning.Tuning, gs *state.GameState) {
	if gs.Islands == nil {
		gs.Islands = map[string]*state.Island{}
	}
	for _, ci := range cfg.Islands {
		is := gs.Islands[ci.ID]
		if is == nil {
			is = &state.Island{ID: ci.ID}
			gs.Islands[ci.ID] = is
		}
		if is.ID == "" {
			is.ID = ci.ID
		}
		if is.Markets == nil {
			is.Markets = map[string]*state.Market{}
		}
		for _, m := range ci.Markets {
			if is.Markets[m.Good] == nil {
				is.Markets[m.Good] = &state.Market{Supply: m.TargetSupply, Demand: m.TargetDemand}
			}
		}
	}
}

func fillWorld(cfg *tuning.Tuning, w *state.World) {
	if w.PortStates == nil {
		w.PortStates = map[string]string{}
	}
	for _, is := range cfg.Islands {
		if w.PortStates[is.ID] == "" {
			w.PortStates[is.ID] = tuning.PortProsperous
		}
	}
	world.InitInfluence(cfg, w)
	if w.Blockades == nil {
		w.Blockades = map[string]*state.Blockade{}
	}
	if w.WarZones == nil {
		w.WarZones = map[string]*state.WarZone{}
	}
	if w.Drift == nil {
		w.Drift = []state.DriftEntity{}
	}
	if w.Boards == nil {
		w.Boards = map[string]*state.Board{}
	}
	if w.Rumors == nil {
		w.Rumors = map[string]*state.RumorBoard{}
	}
	if w.Saturation == nil {
		w.Saturation = map[string]map[string]int{}
	}
	if w.FenceUsage == nil {
		w.FenceUsage = map[string]*state.Fence{}
	}
}
