package world

import (
	"strings"

	"havenvoy.game/internal/sim/mathx"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

var (
	rumorFactions   = []string{"Navy", "Company", "Pirates"}
	rumorDirections = []string{"north", "south", "east", "west"}
)

func undiscoveredCoves(cfg *tuning.Tuning, p *state.Player) []tuning.Cove {
	var out []tuning.Cove
	for _, c := range cfg.HiddenCoves {
		if !p.HasDiscovered(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// GenerateRumors fills a port's rumor board. Cove hints are skipped once every cove is known.
func GenerateRumors(cfg *tuning.Tuning, gs *state.GameState, island string) []state.Rumor {
	if len(cfg.RumorTemplates) == 0 {
		return nil
	}
	rng := &gs.RNG
	var others []tuning.Island
	for _, is := range cfg.Islands {
		if is.ID != island {
			others = append(others, is)
		}
	}
	n := 2 + rng.Intn(max(1, cfg.Settings.MaxRumorsPerPort-1))
	var out []state.Rumor
	for i := 0; i < n; i++ {
		tpl := mathx.Pick(rng, cfg.RumorTemplates)
		text := tpl.Template
		if len(others) > 0 {
			text = strings.Replace(text, "{island}", mathx.Pick(rng, others).Name, 1)
		}
		text = strings.Replace(text, "{good}", mathx.Pick(rng, cfg.Goods).Name, 1)
		text = strings.Replace(text, "{faction}", mathx.Pick(rng, rumorFactions), 1)
		text = strings.Replace(text, "{direction}", mathx.Pick(rng, rumorDirections), 1)
		if tpl.Type == "cove" {
			hidden := undiscoveredCoves(cfg, &gs.Player)
			if len(hidden) == 0 {
				continue
			}
			text = mathx.Pick(rng, hidden).Hint
		}
		out = append(out, state.Rumor{
			Text:    text,
			Type:    tpl.Type,
			True:    rng.Chance(tpl.Accuracy),
			DaysOld: rng.Intn(3),
		})
	}
	return out
}

// Rumors returns a port's board, regenerating it once it has gone stale.
func Rumors(cfg *tuning.Tuning, gs *state.GameState, island string) []state.Rumor {
	w := &gs.World
	if w.Rumors == nil {
		w.Rumors = map[string]*state.RumorBoard{}
	}
	b := w.Rumors[island]
	if b == nil || gs.Player.Days-b.Day >= cfg.Settings.RumorRefreshDays {
		b = &state.RumorBoard{Day: gs.Player.Days, Rumors: GenerateRumors(cfg, gs, island)}
		w.Rumors[island] = b
	}
	return b.Rumors
}
