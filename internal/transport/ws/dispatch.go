package ws

import (
	"context"
	"errors"

	"havenvoy.game/internal/leaderboard"
	"havenvoy.game/internal/persistence/archive"
	"havenvoy.game/internal/protocol"
	"havenvoy.game/internal/sim/chase"
	"havenvoy.game/internal/sim/encounter"
	"havenvoy.game/internal/sim/game"
	"havenvoy.game/internal/sim/questlines"
	"havenvoy.game/internal/sim/ship"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

const leaderboardLimit = 10

type dispatched struct {
	res      protocol.ResultMsg
	days     []game.DayReport
	readOnly bool
}

func resultMsg(act protocol.ActMsg, r state.Result) protocol.ResultMsg {
	return protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		ActID:           act.ID,
		Action:          act.Action,
		OK:              r.Success,
		Code:            protocol.CodeForReason(r.Reason),
		Reason:          r.Reason,
	}
}

func (r *run) reply(act protocol.ActMsg, res state.Result, data any) protocol.ResultMsg {
	m := resultMsg(act, res)
	m.Data = data
	if !res.Success {
		m.DidYouMean = r.suggest(act, res.Reason)
	}
	return m
}

// dispatch maps one act onto the session.
func (r *run) dispatch(ctx context.Context, act protocol.ActMsg) dispatched {
	s := r.sess
	ok := state.OK()
	switch act.Action {
	case protocol.ActAdvanceDay:
		rep := s.AdvanceDay()
		return dispatched{res: r.reply(act, ok, rep), days: []game.DayReport{rep}}
	case protocol.ActSailTo:
		v := s.SailTo(act.Island)
		return dispatched{res: r.reply(act, v.Result, v), days: v.Days}
	case protocol.ActSailToCove:
		v := s.SailToCove(act.Cove)
		return dispatched{res: r.reply(act, v.Result, v), days: v.Days}
	case protocol.ActDock:
		v := s.Dock(act.Island)
		return dispatched{res: r.reply(act, v.Result, v)}
	case protocol.ActUndock:
		return dispatched{res: r.reply(act, s.Undock(), nil)}
	case protocol.ActDockCove:
		return dispatched{res: r.reply(act, s.DockCove(act.Cove), nil)}
	case protocol.ActCoveService:
		v := s.UseCoveService(act.Service)
		return dispatched{res: r.reply(act, v.Result, v)}
	case protocol.ActExplore:
		found, res := s.Explore()
		return dispatched{res: r.reply(act, res, map[string]string{"found": found})}
	case protocol.ActBuy:
		v := s.Buy(act.Good, act.Qty)
		return dispatched{res: r.reply(act, v.Result, v)}
	case protocol.ActSell:
		v := s.Sell(act.Good, act.Qty)
		return dispatched{res: r.reply(act, v.Result, v)}
	case protocol.ActAcceptContract:
		c, res := s.AcceptContract(act.Contract)
		return dispatched{res: r.reply(act, res, c)}
	case protocol.ActAbandonContract:
		return dispatched{res: r.reply(act, s.AbandonContract(act.Contract), nil)}
	case protocol.ActStartQuestline:
		return dispatched{res: r.reply(act, s.StartQuestline(act.Questline), nil)}
	case protocol.ActAbandonQuestline:
		return dispatched{res: r.reply(act, s.AbandonQuestline(), nil)}
	case protocol.ActHire:
		o, res := s.HireOfficer(act.Officer)
		return dispatched{res: r.reply(act, res, o)}
	case protocol.ActFire:
		return dispatched{res: r.reply(act, s.FireOfficer(act.Officer), nil)}
	case protocol.ActBuyUpgrade:
		cost, res := s.BuyUpgrade(act.Upgrade)
		return dispatched{res: r.reply(act, res, map[string]int{"cost": cost})}
	case protocol.ActBuyShip:
		cost, res := s.BuyShip(act.Ship)
		return dispatched{res: r.reply(act, res, map[string]int{"cost": cost})}
	case protocol.ActRepair:
		cost, res := s.Repair(act.Kind)
		return dispatched{res: r.reply(act, res, map[string]int{"cost": cost})}
	case protocol.ActRepairAtSea:
		fixed, res := s.RepairAtSea()
		return dispatched{res: r.reply(act, res, map[string]float64{"repaired": fixed})}
	case protocol.ActPayPardon:
		cost, res := s.PayPardon()
		return dispatched{res: r.reply(act, res, map[string]int{"cost": cost})}
	case protocol.ActRollEncounter:
		enc, hit := s.RollEncounter()
		if !hit {
			return dispatched{res: r.reply(act, ok, nil)}
		}
		return dispatched{res: r.reply(act, ok, enc)}
	case protocol.ActRespond:
		v := s.RespondEncounter(act.Choice)
		return dispatched{res: r.reply(act, v.Result, v), days: v.Days}
	case protocol.ActStartChase:
		c, res := s.StartChase()
		return dispatched{res: r.reply(act, res, c)}
	case protocol.ActChase:
		return dispatched{res: r.reply(act, s.ChaseAction(act.Choice), nil)}
	case protocol.ActChaseTick:
		rep, res := s.ChaseTick(s.Now())
		return dispatched{res: r.reply(act, res, rep)}
	case protocol.ActQuery:
		return r.query(ctx, act)
	case protocol.ActSave:
		if err := r.persist(); err != nil {
			r.srv.log.Printf("run %s: save: %v", r.id, err)
			m := resultMsg(act, state.Fail("Save failed"))
			m.Code = protocol.ErrInternal
			return dispatched{res: m}
		}
		return dispatched{res: r.reply(act, ok, map[string]int{"day": s.State().Player.Days}), readOnly: true}
	case protocol.ActSubmitScore:
		return r.submit(ctx, act)
	case protocol.ActRetire:
		return r.retire(ctx, act)
	}
	m := resultMsg(act, state.Fail("Unknown action"))
	m.Code = protocol.ErrUnknownAction
	m.DidYouMean = protocol.Suggest(act.Action, protocol.Actions, 3)
	return dispatched{res: m, readOnly: true}
}

func (r *run) query(ctx context.Context, act protocol.ActMsg) dispatched {
	s := r.sess
	island := act.Island
	if island == "" {
		island = s.State().CurrentIsland
	}
	var data any
	switch act.Query {
	case protocol.QueryPrices:
		if _, ok := s.Config().Island(island); !ok {
			return dispatched{res: r.reply(act, state.Fail(state.ReasonUnknownIsland), nil), readOnly: true}
		}
		data = s.Prices(island)
	case protocol.QueryDeals:
		if _, ok := s.Config().Island(island); !ok {
			return dispatched{res: r.reply(act, state.Fail(state.ReasonUnknownIsland), nil), readOnly: true}
		}
		data = s.Deals(island)
	case protocol.QueryCapacity:
		data = s.Capacity()
	case protocol.QueryRouteRisk:
		data = map[string]float64{"risk": s.RouteRisk()}
	case protocol.QueryTitles:
		data = s.TitleProgress()
	case protocol.QueryNotoriety:
		data = s.Notoriety()
	case protocol.QueryBoard:
		data = s.ContractBoard()
	case protocol.QueryQuests:
		data = s.QuestProgress()
	case protocol.QueryStats:
		data = s.Stats()
	case protocol.QueryPending:
		enc, choices := s.PendingEncounter()
		data = map[string]any{"encounter": enc, "choices": choices}
	case protocol.QueryDrift:
		// qty widens the search radius in map units.
		data = s.NearbyDrift(float64(act.Qty))
	case protocol.QueryLeaderboard:
		idx := r.srv.cfg.Index
		if idx == nil {
			m := resultMsg(act, state.Fail("Leaderboard unavailable"))
			m.Code = protocol.ErrBlocked
			return dispatched{res: m, readOnly: true}
		}
		cat := leaderboard.NetWorth
		if act.Category != "" {
			c, err := leaderboard.Parse(act.Category)
			if err != nil {
				return dispatched{res: r.categoryFail(act), readOnly: true}
			}
			cat = c
		}
		top, err := idx.Top(ctx, cat, leaderboardLimit)
		if err != nil {
			r.srv.log.Printf("run %s: leaderboard: %v", r.id, err)
			m := resultMsg(act, state.Fail("Leaderboard unavailable"))
			m.Code = protocol.ErrInternal
			return dispatched{res: m, readOnly: true}
		}
		data = map[string]any{"category": cat.Info(), "entries": top}
	}
	return dispatched{res: r.reply(act, state.OK(), data), readOnly: true}
}

func (r *run) categoryFail(act protocol.ActMsg) protocol.ResultMsg {
	m := resultMsg(act, state.Fail("Unknown category"))
	names := make([]string, 0, len(leaderboard.Categories))
	for _, c := range leaderboard.Categories {
		names = append(names, string(c))
	}
	m.DidYouMean = protocol.Suggest(act.Category, names, 3)
	return m
}

func (r *run) submit(ctx context.Context, act protocol.ActMsg) dispatched {
	cat, err := leaderboard.Parse(act.Category)
	if err != nil {
		return dispatched{res: r.categoryFail(act), readOnly: true}
	}
	e, err := r.submitOne(ctx, cat)
	if err != nil {
		return dispatched{res: r.scoreFail(act, err), readOnly: true}
	}
	return dispatched{res: r.reply(act, state.OK(), e), readOnly: true}
}

func (r *run) submitOne(ctx context.Context, cat leaderboard.Category) (leaderboard.Entry, error) {
	e, err := leaderboard.Submission(r.sess.Config(), r.sess.State(), cat, r.captain, r.id)
	if err != nil {
		return e, err
	}
	if idx := r.srv.cfg.Index; idx != nil {
		if err := idx.SubmitScore(ctx, e); err != nil {
			return e, err
		}
	}
	return e, nil
}

func (r *run) scoreFail(act protocol.ActMsg, err error) protocol.ResultMsg {
	m := resultMsg(act, state.Fail(err.Error()))
	switch {
	case errors.Is(err, leaderboard.ErrOutOfBounds), errors.Is(err, leaderboard.ErrNoName):
		m.Code = protocol.ErrBadRequest
	case errors.Is(err, leaderboard.ErrUnknownCategory):
		m.Code = protocol.ErrInvalidTarget
	default:
		r.srv.log.Printf("run %s: submit score: %v", r.id, err)
		m.Code = protocol.ErrInternal
	}
	return m
}

// retire ends the run: every category that passes validation is submitted,
// the final save is archived, and the connection closes.
func (r *run) retire(ctx context.Context, act protocol.ActMsg) dispatched {
	var entries []leaderboard.Entry
	for _, c := range leaderboard.Categories {
		e, err := r.submitOne(ctx, c)
		if err != nil {
			r.srv.log.Printf("run %s: retire %s: %v", r.id, c, err)
			continue
		}
		entries = append(entries, e)
	}
	data := map[string]any{"scores": entries}
	if err := r.persist(); err != nil {
		r.srv.log.Printf("run %s: retire save: %v", r.id, err)
	} else if path, err := archive.ArchiveRun(r.srv.cfg.DataDir, r.id, r.srv.SavePath(r.id)); err != nil {
		r.srv.log.Printf("run %s: archive: %v", r.id, err)
	} else {
		data["archive"] = path
	}
	r.retired = true
	return dispatched{res: r.reply(act, state.OK(), data)}
}

// suggest offers near-miss ids for an "Unknown ..." failure.
func (r *run) suggest(act protocol.ActMsg, reason string) []string {
	cfg := r.sess.Config()
	var input string
	var candidates []string
	switch reason {
	case state.ReasonUnknownGood:
		input, candidates = act.Good, goodIDs(cfg)
	case state.ReasonUnknownIsland:
		input, candidates = act.Island, islandIDs(cfg)
	case game.ReasonUnknownCove:
		input, candidates = act.Cove, ids(cfg.HiddenCoves, func(v tuning.Cove) string { return v.ID })
	case questlines.ReasonUnknown:
		input, candidates = act.Questline, ids(cfg.Questlines, func(v tuning.Questline) string { return v.ID })
	case ship.ReasonUnknownOfficer:
		input, candidates = act.Officer, ids(cfg.Officers, func(v tuning.Officer) string { return v.ID })
	case game.ReasonUnknownUpgrade:
		input, candidates = act.Upgrade, ids(cfg.Upgrades, func(v tuning.Upgrade) string { return v.ID })
	case game.ReasonUnknownShip:
		input, candidates = act.Ship, ids(cfg.ShipClasses, func(v tuning.ShipClass) string { return v.ID })
	case game.ReasonUnknownRepair:
		input, candidates = act.Kind, []string{ship.KindHull, ship.KindRigging, ship.KindRest}
	case chase.ReasonUnknown:
		input, candidates = act.Choice, []string{state.ChaseTrim, state.ChaseJettison, state.ChaseRisky, state.ChaseJuke}
	case encounter.ReasonNoEncounter:
		if enc, choices := r.sess.PendingEncounter(); enc != nil {
			input, candidates = act.Choice, choices
		}
	case game.ReasonNoService:
		input, candidates = act.Service, []string{
			game.ServiceFence, game.ServiceSalvage, game.ServiceRepair, game.ServiceRest,
			game.ServiceTreasure, game.ServiceCharts, game.ServiceRumors,
		}
	}
	if input == "" || len(candidates) == 0 {
		return nil
	}
	return protocol.Suggest(input, candidates, 3)
}

func ids[T any](xs []T, id func(T) string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		out = append(out, id(x))
	}
	return out
}
