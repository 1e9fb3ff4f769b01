package ws

import (
	"context"
	"encoding/json"
	"maps"
	"strconv"

	"havenvoy.game/internal/leaderboard"
	"havenvoy.game/internal/persistence/indexdb"
	dlog "havenvoy.game/internal/persistence/log"
	"havenvoy.game/internal/protocol"
	"havenvoy.game/internal/sim/game"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// run is one connected game. Only the connection's reader goroutine touches it.
type run struct {
	srv     *Server
	id      string
	captain string
	sess    *game.Session
	retired bool
}

// handleRaw decodes one client message and returns the replies to send.
func (r *run) handleRaw(ctx context.Context, msg []byte) ([]any, bool) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return []any{errorMsg(protocol.ErrProtoBadRequest, "malformed JSON")}, false
	}
	if base.Type != protocol.TypeAct {
		return []any{errorMsg(protocol.ErrProtoBadRequest, "expected ACT, got "+strconv.Quote(base.Type))}, false
	}
	if base.ProtocolVersion != protocol.Version {
		return []any{errorMsg(protocol.ErrProtoVersion, "protocol_version must be "+protocol.Version)}, false
	}

	var act protocol.ActMsg
	// Decode leniently first so a schema failure can still echo the act id.
	_ = json.Unmarshal(msg, &act)
	if err := protocol.ValidateAct(msg); err != nil {
		res := resultMsg(act, state.Result{Reason: err.Error()})
		res.Code = protocol.ErrProtoBadRequest
		if act.Action != "" && !isAction(act.Action) {
			res.Code = protocol.ErrUnknownAction
			res.DidYouMean = protocol.Suggest(act.Action, protocol.Actions, 3)
		}
		return []any{res}, false
	}
	return r.handle(ctx, act)
}

// handle applies one validated act, records it, and answers with a RESULT
// and, unless the act was read-only, a fresh STATE.
func (r *run) handle(ctx context.Context, act protocol.ActMsg) ([]any, bool) {
	p := &r.sess.State().Player
	goldBefore := p.Gold

	d := r.dispatch(ctx, act)
	for _, rep := range d.days {
		r.logDay(rep)
	}
	if d.readOnly {
		return []any{d.res}, false
	}

	r.audit(act, d.res, p.Gold-goldBefore)
	if !r.retired {
		if err := r.persist(); err != nil {
			r.srv.log.Printf("run %s: autosave: %v", r.id, err)
		}
	}
	return []any{d.res, r.stateMsg()}, r.retired
}

func isAction(a string) bool {
	for _, v := range protocol.Actions {
		if v == a {
			return true
		}
	}
	return false
}

func (r *run) persist() error {
	path := r.srv.SavePath(r.id)
	if err := r.sess.SaveFile(path); err != nil {
		return err
	}
	if idx := r.srv.cfg.Index; idx != nil {
		gs := r.sess.State()
		worth, _ := leaderboard.Value(r.sess.Config(), gs, leaderboard.NetWorth)
		idx.RecordRun(indexdb.RunRow{
			RunID:        r.id,
			Faction:      gs.Player.Faction,
			Seed:         gs.Seed,
			TuningDigest: r.sess.Config().Digest(),
			Day:          gs.Player.Days,
			NetWorth:     worth,
			SavePath:     path,
		})
	}
	return nil
}

func (r *run) logDay(rep game.DayReport) {
	dl, idx := r.srv.cfg.DayLog, r.srv.cfg.Index
	if dl == nil && idx == nil {
		return
	}
	cfg, gs := r.sess.Config(), r.sess.State()
	worth, _ := leaderboard.Value(cfg, gs, leaderboard.NetWorth)
	events := len(rep.Notices) + len(rep.World.PortChanges) + len(rep.World.Conflicts)
	if rep.World.RegionalEvent != "" {
		events++
	}
	if rep.World.SeasonalEvent != "" {
		events++
	}
	e := dlog.DayEntry{
		Run:          r.id,
		Day:          rep.Day,
		Faction:      gs.Player.Faction,
		Gold:         gs.Player.Gold,
		Supplies:     gs.Player.Supplies,
		NetWorth:     worth,
		AtSea:        rep.AtSea,
		Upkeep:       rep.Upkeep,
		Mutiny:       rep.Mutiny != nil,
		Expired:      len(rep.Expired),
		Events:       events,
		TuningDigest: cfg.Digest(),
	}
	if dl != nil {
		if err := dl.WriteDay(e); err != nil {
			r.srv.log.Printf("run %s: day log: %v", r.id, err)
		}
	}
	if idx != nil {
		_ = idx.WriteDay(e)
	}
}

func (r *run) audit(act protocol.ActMsg, res protocol.ResultMsg, goldDelta int) {
	al := r.srv.cfg.Audit
	if al == nil {
		return
	}
	err := al.WriteAudit(dlog.AuditEntry{
		Run:    r.id,
		Day:    r.sess.State().Player.Days,
		Action: act.Action,
		Target: target(act),
		Qty:    act.Qty,
		Gold:   goldDelta,
		OK:     res.OK,
		Reason: res.Reason,
	})
	if err != nil {
		r.srv.log.Printf("run %s: audit: %v", r.id, err)
	}
}

// target names what an act was aimed at, for the audit trail.
func target(act protocol.ActMsg) string {
	for _, v := range []string{act.Good, act.Island, act.Cove, act.Questline, act.Officer, act.Upgrade, act.Ship, act.Kind, act.Choice, act.Service, act.Category} {
		if v != "" {
			return v
		}
	}
	if act.Contract > 0 {
		return "contract:" + strconv.Itoa(act.Contract)
	}
	return ""
}

func (r *run) stateMsg() protocol.StateMsg {
	cfg, gs := r.sess.Config(), r.sess.State()
	p := &gs.Player
	hold := r.sess.Capacity()
	m := protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		RunID:           r.id,
		Day:             p.Days,
		SeasonDay:       p.SeasonDay,
		Faction:         p.Faction,
		Gold:            p.Gold,
		Supplies:        p.Supplies,
		Position:        [2]float64{gs.Position.X, gs.Position.Z},
		Docked:          gs.IsDocked,
		Island:          gs.CurrentIsland,
		Cove:            gs.CurrentCove,
		Destination:     p.Destination,
		Cargo:           maps.Clone(p.Cargo),
		CargoUsed:       hold.Used,
		CargoCapacity:   hold.Total,
		Reputation:      maps.Clone(p.Reputation),
		Heat:            p.Heat,
		Bounty:          p.Bounty,
		ShipClass:       p.ShipClass,
		Hull:            p.Ship.Hull,
		Rigging:         p.Ship.Rigging,
		Morale:          p.Ship.Morale,
		Wind:            windObs(cfg, gs.Wind),
		ChaseActive:     gs.Chase != nil && !gs.Chase.Resolved,
	}
	if m.Cargo == nil {
		m.Cargo = map[string]int{}
	}
	if m.Reputation == nil {
		m.Reputation = map[string]int{}
	}
	if enc, choices := r.sess.PendingEncounter(); enc != nil {
		m.Pending = &protocol.PendingObs{Kind: enc.Kind, Choices: choices}
	}
	return m
}

func windObs(cfg *tuning.Tuning, w state.Wind) protocol.WindObs {
	var o protocol.WindObs
	if w.Direction >= 0 && w.Direction < len(cfg.Wind.Directions) {
		o.Direction = cfg.Wind.Directions[w.Direction].Name
	}
	if w.Strength >= 0 && w.Strength < len(cfg.Wind.Strengths) {
		o.Strength = cfg.Wind.Strengths[w.Strength].Name
	}
	return o
}

func islandIDs(cfg *tuning.Tuning) []string {
	out := make([]string, 0, len(cfg.Islands))
	for _, v := range cfg.Islands {
		out = append(out, v.ID)
	}
	return out
}

func goodIDs(cfg *tuning.Tuning) []string {
	out := make([]string, 0, len(cfg.Goods))
	for _, v := range cfg.Goods {
		out = append(out, v.ID)
	}
	return out
}
