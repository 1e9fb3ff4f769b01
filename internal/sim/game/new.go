package game

import (
	"havenvoy.game/internal/persistence/save"
	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/sim/world"
)

// homePort is where every voyage starts.
const homePort = "portRoyal"

func createState(cfg *tuning.Tuning, faction string, seed int64) *state.GameState {
	gs := &state.GameState{
		SaveVersion: save.Current(cfg),
		Seed:        seed,
		RNG:         mathx.NewRNG(seed),
		Islands:     make(map[string]*state.Island, len(cfg.Islands)),
	}
	rng := &gs.RNG
	for _, ci := range cfg.Islands {
		is := &state.Island{ID: ci.ID, Markets: make(map[string]*state.Market, len(ci.Markets))}
		for _, m := range ci.Markets {
			is.Markets[m.Good] = &state.Market{
				Supply: max(0, m.TargetSupply+mathx.Floor((rng.Float64()-0.5)*20)),
				Demand: max(0, m.TargetDemand+mathx.Floor((rng.Float64()-0.5)*10)),
			}
		}
		gs.Islands[ci.ID] = is
	}

	fc, _ := cfg.Faction(faction)
	rep := make(map[string]int, len(fc.StartingRep))
	for k, v := range fc.StartingRep {
		rep[k] = v
	}
	p := &gs.Player
	*p = state.Player{
		Faction:    faction,
		Gold:       cfg.Settings.StartingGold,
		Days:       1,
		SeasonDay:  1,
		Supplies:   cfg.Settings.StartingSupplies,
		Reputation: rep,
		ShipClass:  cfg.DefaultShipClass(),
	}
	p.Ship = ship.Fresh(cfg, p)
	gs.Position = spawnNear(cfg, homePort)

	world.InitInfluence(cfg, &gs.World)
	world.RollWind(cfg, gs)
	save.Migrate(cfg, gs)
	return gs
}

// spawnNear is a point just off an island, clear of the docking circle's edge.
func spawnNear(cfg *tuning.Tuning, island string) tuning.Vec2 {
	is, ok := cfg.Island(island)
	if !ok && len(cfg.Islands) > 0 {
		is = cfg.Islands[0]
	}
	return tuning.Vec2{X: is.Position.X, Z: is.Position.Z + cfg.Settings.IslandSpawnOffset}
}
