package world

import (
	"math"

	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// Contested is reported when no faction holds a controlling share.
const Contested = "contested"

func homeInfluence(home string) *state.Influence {
	share := func(f string) float64 {
		switch home {
		case f:
			return 60
		case tuning.FactionNeutral:
			return 30
		}
		return 15
	}
	return &state.Influence{
		English:   share(tuning.FactionEnglish),
		EITC:      share(tuning.FactionEITC),
		Pirates:   share(tuning.FactionPirates),
		Stability: 100,
	}
}

// InitInfluence seeds missing islands from their home allegiance.
func InitInfluence(cfg *tuning.Tuning, w *state.World) {
	if w.Influence == nil {
		w.Influence = map[string]*state.Influence{}
	}
	for _, is := range cfg.Islands {
		if w.Influence[is.ID] == nil {
			w.Influence[is.ID] = homeInfluence(is.Faction)
		}
	}
}

// Influence returns an island's shares, seeding them on first use.
func Influence(cfg *tuning.Tuning, w *state.World, island string) *state.Influence {
	InitInfluence(cfg, w)
	if in := w.Influence[island]; in != nil {
		return in
	}
	return &state.Influence{English: 33, EITC: 33, Pirates: 33, Stability: 100}
}

// Dominant returns the faction holding a controlling share, or Contested.
func Dominant(cfg *tuning.Tuning, w *state.World, island string) string {
	in := Influence(cfg, w, island)
	th := cfg.WarFronts.ControlThreshold
	for _, f := range tuning.PlayerFactions {
		if in.Share(f) >= th {
			return f
		}
	}
	return Contested
}

func IsContested(cfg *tuning.Tuning, w *state.World, island string) bool {
	return Dominant(cfg, w, island) == Contested
}

// ModifyInfluence shifts one faction's share and takes any excess over 100
// from the other two in proportion. Large swings cost stability.
func ModifyInfluence(cfg *tuning.Tuning, w *state.World, island, faction string, amount float64) {
	InitInfluence(cfg, w)
	in := w.Influence[island]
	if in == nil {
		return
	}
	in.Set(faction, mathx.Clamp(in.Share(faction)+amount, 0, 100))
	if excess := in.Total() - 100; excess > 0 {
		others := make([]string, 0, 2)
		otherTotal := 0.0
		for _, f := range tuning.PlayerFactions {
			if f != faction {
				others = append(others, f)
				otherTotal += in.Share(f)
			}
		}
		if otherTotal > 0 {
			for _, f := range others {
				in.Set(f, max(0, in.Share(f)-in.Share(f)/otherTotal*excess))
			}
		}
	}
	if math.Abs(amount) > 2 {
		in.Stability = max(0, in.Stability-math.Abs(amount)*0.5)
	}
}

func TradeInfluence(cfg *tuning.Tuning, w *state.World, island, faction string) {
	ModifyInfluence(cfg, w, island, faction, cfg.WarFronts.InfluencePerTrade)
}

func QuestInfluence(cfg *tuning.Tuning, w *state.World, island, faction string) {
	ModifyInfluence(cfg, w, island, faction, cfg.WarFronts.InfluencePerQuest)
}

// SmuggleInfluence favors the pirates and shakes the island's stability.
func SmuggleInfluence(cfg *tuning.Tuning, w *state.World, island string) {
	ModifyInfluence(cfg, w, island, tuning.FactionPirates, math.Abs(cfg.WarFronts.InfluencePerSmuggle))
	if in := w.Influence[island]; in != nil {
		in.Stability = max(0, in.Stability-5)
	}
}

// updateInfluence recovers stability and drifts every island toward its home faction.
func updateInfluence(cfg *tuning.Tuning, w *state.World) {
	InitInfluence(cfg, w)
	wf := cfg.WarFronts
	for _, is := range cfg.Islands {
		in := w.Influence[is.ID]
		in.Stability = min(100, in.Stability+wf.StabilityRecovery)
		if is.Faction != tuning.FactionNeutral {
			ModifyInfluence(cfg, w, is.ID, is.Faction, wf.HomeDrift)
		}
	}
}
