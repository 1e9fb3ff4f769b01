// Package questlines runs multi-step faction storylines. A player follows at
// most one at a time; a completed questline never repeats and unlocks the
// next tier of its faction.
package questlines

import (
	"fmt"
	"slices"

	"havenvoy.game/internal/sim/progression"
	"havenvoy.game/internal/sim/risk"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/sim/world"
)

// Failure reasons.
const (
	ReasonUnknown   = "Unknown questline"
	ReasonActive    = "Already on a questline"
	ReasonCompleted = "Questline already completed"
	ReasonLocked    = "Complete the previous tier first"
	ReasonSourced   = "Goods must be sourced from another port!"
)

// CompletedTiers returns the highest completed tier per faction.
func CompletedTiers(cfg *tuning.Tuning, p *state.Player) map[string]int {
	out := map[string]int{}
	for id, pr := range p.Questlines {
		if pr == nil || !pr.Completed {
			continue
		}
		if q, ok := cfg.Questline(id); ok {
			out[q.Faction] = max(out[q.Faction], q.Tier)
		}
	}
	return out
}

// Unlocked reports whether a questline's tier gate is open.
func Unlocked(cfg *tuning.Tuning, p *state.Player, q tuning.Questline) bool {
	return q.Requires <= 0 || CompletedTiers(cfg, p)[q.Faction] >= q.Requires
}

// Available lists questlines the player may start, in table order.
func Available(cfg *tuning.Tuning, p *state.Player) []tuning.Questline {
	var out []tuning.Questline
	for _, q := range cfg.Questlines {
		if pr := p.Questlines[q.ID]; pr != nil && pr.Completed {
			continue
		}
		if Unlocked(cfg, p, q) {
			out = append(out, q)
		}
	}
	return out
}

func Start(cfg *tuning.Tuning, gs *state.GameState, id string) state.Result {
	p := &gs.Player
	q, ok := cfg.Questline(id)
	if !ok {
		return state.Fail(ReasonUnknown)
	}
	if p.ActiveQuestline != "" {
		return state.Fail(ReasonActive)
	}
	if pr := p.Questlines[id]; pr != nil && pr.Completed {
		return state.Fail(ReasonCompleted)
	}
	if !Unlocked(cfg, p, q) {
		return state.Fail(ReasonLocked)
	}
	if p.Questlines == nil {
		p.Questlines = map[string]*state.QuestProgress{}
	}
	p.ActiveQuestline = id
	p.Questlines[id] = &state.QuestProgress{StartDay: p.Days}
	return state.OK()
}

// Status is the presentation view of the active questline.
type Status struct {
	Questline     tuning.Questline `json:"questline"`
	Step          tuning.QuestStep `json:"step"`
	StepIndex     int              `json:"step_index"`
	TotalSteps    int              `json:"total_steps"`
	Delivered     int              `json:"delivered"`
	DaysRemaining int              `json:"days_remaining"`
}

// Active returns the active questline's progress.
func Active(cfg *tuning.Tuning, p *state.Player) (Status, bool) {
	if p.ActiveQuestline == "" {
		return Status{}, false
	}
	q, ok := cfg.Questline(p.ActiveQuestline)
	pr := p.Questlines[p.ActiveQuestline]
	if !ok || pr == nil || pr.Step >= len(q.Steps) {
		return Status{}, false
	}
	return Status{
		Questline:     q,
		Step:          q.Steps[pr.Step],
		StepIndex:     pr.Step,
		TotalSteps:    len(q.Steps),
		Delivered:     pr.Delivered,
		DaysRemaining: q.Deadline - (p.Days - pr.StartDay),
	}, true
}

// Outcome reports what a dock did to the active questline.
type Outcome struct {
	Advanced  bool                    `json:"advanced"`
	Completed bool                    `json:"completed"`
	Blocked   bool                    `json:"blocked,omitempty"`
	Delivered int                     `json:"delivered,omitempty"`
	Needed    int                     `json:"needed,omitempty"`
	Reward    int                     `json:"reward,omitempty"`
	Rewards   *tuning.QuestlineReward `json:"rewards,omitempty"`
	Message   string                  `json:"message,omitempty"`
}

func hasGoods(p *state.Player, goods map[string]int) bool {
	if len(goods) == 0 {
		return false
	}
	for g, n := range goods {
		if p.Cargo[g] < n {
			return false
		}
	}
	return true
}

func takeGoods(p *state.Player, goods map[string]int) {
	for g, n := range goods {
		p.RemoveCargo(g, n)
	}
}

// CheckDock evaluates the active step against a dock at island.
func CheckDock(cfg *tuning.Tuning, gs *state.GameState, island string) Outcome {
	p := &gs.Player
	st, ok := Active(cfg, p)
	if !ok {
		return Outcome{}
	}
	pr := p.Questlines[p.ActiveQuestline]
	step := st.Step
	switch step.Type {
	case tuning.StepDeliverCount:
		if step.To != island || !hasGoods(p, step.Goods) {
			return Outcome{}
		}
		for g := range step.Goods {
			if p.PurchaseLocation[g] == island {
				return Outcome{Blocked: true, Message: ReasonSourced}
			}
		}
		takeGoods(p, step.Goods)
		pr.Delivered++
		p.Gold += step.Reward
		need := max(1, step.Count)
		if pr.Delivered < need {
			return Outcome{
				Delivered: pr.Delivered,
				Needed:    need,
				Reward:    step.Reward,
				Message:   fmt.Sprintf("Delivery %d/%d", pr.Delivered, need),
			}
		}
		out := advance(cfg, gs)
		out.Reward = step.Reward
		out.Message = step.Desc + " complete!"
		return out
	case tuning.StepCollect:
		if step.At != island {
			return Outcome{}
		}
		out := advance(cfg, gs)
		out.Message = "Payment collected!"
		return out
	case tuning.StepDeliver:
		if (step.To != "" && step.To != island) || !hasGoods(p, step.Goods) {
			return Outcome{}
		}
		takeGoods(p, step.Goods)
		return advance(cfg, gs)
	case tuning.StepVisit:
		if step.At != "" && step.At != island {
			return Outcome{}
		}
		return advance(cfg, gs)
	}
	return Outcome{}
}

func advance(cfg *tuning.Tuning, gs *state.GameState) Outcome {
	p := &gs.Player
	q, _ := cfg.Questline(p.ActiveQuestline)
	pr := p.Questlines[p.ActiveQuestline]
	pr.Step++
	pr.Delivered = 0
	if pr.Step < len(q.Steps) {
		return Outcome{Advanced: true}
	}
	complete(cfg, gs, q, pr)
	r := q.Rewards
	return Outcome{Advanced: true, Completed: true, Rewards: &r}
}

func complete(cfg *tuning.Tuning, gs *state.GameState, q tuning.Questline, pr *state.QuestProgress) {
	p := &gs.Player
	r := q.Rewards
	p.Gold += r.Gold
	last := q.Steps[len(q.Steps)-1]
	for _, f := range tuning.PlayerFactions {
		n := r.Reputation[f]
		if n == 0 {
			continue
		}
		progression.ApplyRepChange(cfg, p, f, n)
		if _, ok := cfg.Island(last.At); ok && n > 0 {
			world.QuestInfluence(cfg, &gs.World, last.At, f)
		}
	}
	if r.Title != "" && !slices.Contains(p.HonoraryTitles, r.Title) {
		p.HonoraryTitles = append(p.HonoraryTitles, r.Title)
	}
	if r.Pardon {
		risk.Pardon(p)
	}
	if r.Unlocks != "" {
		p.Discover(r.Unlocks)
	}
	pr.Completed = true
	p.ActiveQuestline = ""
	p.Stats.QuestlinesCompleted++
}

// CheckDeadline fails the active questline once its deadline has run out.
// A failed questline may be started again.
func CheckDeadline(cfg *tuning.Tuning, p *state.Player) bool {
	st, ok := Active(cfg, p)
	if !ok || st.DaysRemaining > 0 {
		return false
	}
	p.Questlines[p.ActiveQuestline].Failed = true
	p.ActiveQuestline = ""
	return true
}

// Abandon drops the active questline without penalty.
func Abandon(p *state.Player) bool {
	if p.ActiveQuestline == "" {
		return false
	}
	if pr := p.Questlines[p.ActiveQuestline]; pr != nil {
		pr.Failed = true
	}
	p.ActiveQuestline = ""
	return true
}
