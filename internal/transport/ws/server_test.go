package ws

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"havenvoy.game/internal/persistence/indexdb"
	dlog "havenvoy.game/internal/persistence/log"
	"havenvoy.game/internal/protocol"
	"havenvoy.game/internal/sim/chase"
	"havenvoy.game/internal/sim/tuning"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	cfg := tuning.Defaults()
	idx, err := indexdb.OpenSQLite(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	days := dlog.NewDayLogger(dir)
	audit := dlog.NewAuditLogger(dir)
	t.Cleanup(func() {
		_ = idx.Close()
		_ = days.Close()
		_ = audit.Close()
	})
	return NewServer(Config{
		Tuning:  &cfg,
		DataDir: dir,
		Logger:  log.New(io.Discard, "", 0),
		DayLog:  days,
		Audit:   audit,
		Index:   idx,
		Clock:   chase.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	})
}

func openRun(t *testing.T, s *Server, hello protocol.HelloMsg) *run {
	t.Helper()
	if hello.CaptainName == "" {
		hello.CaptainName = "Anne Bonny"
	}
	if hello.Seed == nil {
		seed := int64(7)
		hello.Seed = &seed
	}
	rn, welcome, code, err := s.open(hello)
	if err != nil {
		t.Fatalf("open: %s %v", code, err)
	}
	if welcome.RunID != rn.id || welcome.TuningDigest == "" || len(welcome.Actions) != len(protocol.Actions) {
		t.Fatalf("welcome: %+v", welcome)
	}
	return rn
}

func act(t *testing.T, rn *run, raw string) (protocol.ResultMsg, *protocol.StateMsg) {
	t.Helper()
	replies, _ := rn.handleRaw(context.Background(), []byte(raw))
	if len(replies) == 0 {
		t.Fatalf("no reply to %s", raw)
	}
	res, ok := replies[0].(protocol.ResultMsg)
	if !ok {
		t.Fatalf("reply to %s: %#v", raw, replies[0])
	}
	var st *protocol.StateMsg
	if len(replies) > 1 {
		m := replies[1].(protocol.StateMsg)
		st = &m
	}
	return res, st
}

func actJSON(id, action string, fields string) string {
	s := `{"type":"ACT","protocol_version":"1.0","id":"` + id + `","action":"` + action + `"`
	if fields != "" {
		s += "," + fields
	}
	return s + "}"
}

func TestActsUpdateStateAndSave(t *testing.T) {
	s := newTestServer(t)
	rn := openRun(t, s, protocol.HelloMsg{Faction: tuning.FactionEnglish})
	defer s.release(rn.id)

	res, st := act(t, rn, actJSON("a1", protocol.ActSailTo, `"island":"portRoyal"`))
	if !res.OK || res.ActID != "a1" || st == nil {
		t.Fatalf("sail: %+v", res)
	}
	res, _ = act(t, rn, actJSON("a2", protocol.ActDock, `"island":"portRoyal"`))
	if !res.OK {
		t.Fatalf("dock: %+v", res)
	}
	res, st = act(t, rn, actJSON("a3", protocol.ActBuy, `"good":"rum","qty":5`))
	if !res.OK || st == nil || st.Cargo["rum"] != 5 || !st.Docked || st.Island != "portRoyal" {
		t.Fatalf("buy: %+v state %+v", res, st)
	}

	b, _ := json.Marshal(st)
	if err := protocol.Validate(protocol.SchemaState, b); err != nil {
		t.Fatalf("state fails its schema: %v", err)
	}
	if _, err := os.Stat(s.SavePath(rn.id)); err != nil {
		t.Fatalf("autosave missing: %v", err)
	}
}

func TestBadActsAreExplained(t *testing.T) {
	s := newTestServer(t)
	rn := openRun(t, s, protocol.HelloMsg{Faction: tuning.FactionEnglish})
	defer s.release(rn.id)

	res, st := act(t, rn, actJSON("b1", protocol.ActBuy, `"good":"rum"`))
	if res.OK || res.Code != protocol.ErrProtoBadRequest || res.ActID != "b1" || st != nil {
		t.Fatalf("missing qty: %+v", res)
	}

	res, _ = act(t, rn, actJSON("b2", "SEL", `"good":"rum","qty":1`))
	if res.Code != protocol.ErrUnknownAction || !slices.Contains(res.DidYouMean, protocol.ActSell) {
		t.Fatalf("unknown action: %+v", res)
	}

	act(t, rn, actJSON("b3", protocol.ActSailTo, `"island":"portRoyal"`))
	act(t, rn, actJSON("b4", protocol.ActDock, `"island":"portRoyal"`))
	res, _ = act(t, rn, actJSON("b5", protocol.ActBuy, `"good":"rumm","qty":1`))
	if res.OK || res.Code != protocol.ErrInvalidTarget || !slices.Contains(res.DidYouMean, "rum") {
		t.Fatalf("unknown good: %+v", res)
	}

	res, _ = act(t, rn, actJSON("b6", protocol.ActSailTo, `"island":"tortuga "`))
	if res.OK || len(res.DidYouMean) == 0 || res.DidYouMean[0] != "tortuga" {
		t.Fatalf("unknown island: %+v", res)
	}

	replies, _ := rn.handleRaw(context.Background(), []byte(`{"type":"HELLO","protocol_version":"1.0"}`))
	if e, ok := replies[0].(protocol.ErrorMsg); !ok || e.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("non-ACT: %#v", replies[0])
	}
}

func TestQueriesAreReadOnly(t *testing.T) {
	s := newTestServer(t)
	rn := openRun(t, s, protocol.HelloMsg{Faction: tuning.FactionPirates})
	defer s.release(rn.id)

	res, st := act(t, rn, actJSON("q1", protocol.ActQuery, `"query":"prices","island":"portRoyal"`))
	if !res.OK || st != nil {
		t.Fatalf("prices: %+v", res)
	}
	b, _ := json.Marshal(res.Data)
	var quotes []map[string]any
	if err := json.Unmarshal(b, &quotes); err != nil || len(quotes) != 10 {
		t.Fatalf("quotes: %d %v", len(quotes), err)
	}
	if res, _ := act(t, rn, actJSON("q2", protocol.ActQuery, `"query":"prices"`)); res.OK {
		t.Fatalf("prices at sea with no island should fail: %+v", res)
	}
	for _, q := range []string{protocol.QueryCapacity, protocol.QueryStats, protocol.QueryNotoriety, protocol.QueryPending, protocol.QueryDrift, protocol.QueryLeaderboard} {
		if res, _ := act(t, rn, actJSON("q3", protocol.ActQuery, `"query":"`+q+`"`)); !res.OK {
			t.Fatalf("query %s: %+v", q, res)
		}
	}
}

func TestRunClaimAndResume(t *testing.T) {
	s := newTestServer(t)
	rn := openRun(t, s, protocol.HelloMsg{Faction: tuning.FactionEITC})
	act(t, rn, actJSON("r1", protocol.ActAdvanceDay, ""))

	if _, _, code, err := s.open(protocol.HelloMsg{CaptainName: "Mary", RunID: rn.id}); err == nil || code != protocol.ErrConflict {
		t.Fatalf("second claim: %s %v", code, err)
	}
	s.release(rn.id)

	again := openRun(t, s, protocol.HelloMsg{RunID: rn.id})
	if again.sess.State().Player.Days != 2 || again.sess.State().Player.Faction != tuning.FactionEITC {
		t.Fatalf("resumed: day %d faction %s", again.sess.State().Player.Days, again.sess.State().Player.Faction)
	}
	s.release(rn.id)

	if err := os.WriteFile(s.SavePath(rn.id), []byte("not a save"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, welcome, _, err := s.open(protocol.HelloMsg{CaptainName: "Mary", RunID: rn.id, Faction: tuning.FactionPirates})
	if err != nil || !welcome.Fresh || welcome.Resumed || welcome.Faction != tuning.FactionPirates {
		t.Fatalf("corrupt save: %+v %v", welcome, err)
	}
	s.release(rn.id)

	if _, _, code, err := s.open(protocol.HelloMsg{CaptainName: "Mary", RunID: "run_missing"}); err == nil || code != protocol.ErrRunNotFound {
		t.Fatalf("missing run: %s %v", code, err)
	}
}

func TestRetireSubmitsAndArchives(t *testing.T) {
	s := newTestServer(t)
	rn := openRun(t, s, protocol.HelloMsg{Faction: tuning.FactionEnglish, CaptainName: "Calico Jack"})
	defer s.release(rn.id)

	res, st := act(t, rn, actJSON("s1", protocol.ActSubmitScore, `"category":"netWorht"`))
	if res.OK || !slices.Contains(res.DidYouMean, "netWorth") || st != nil {
		t.Fatalf("bad category: %+v", res)
	}

	replies, closeAfter := rn.handleRaw(context.Background(), []byte(actJSON("s2", protocol.ActRetire, "")))
	res = replies[0].(protocol.ResultMsg)
	if !res.OK || !closeAfter || !rn.retired {
		t.Fatalf("retire: %+v close=%v", res, closeAfter)
	}
	archived, _ := filepath.Glob(filepath.Join(s.cfg.DataDir, "archives", rn.id, "day_*.sav.zst"))
	if len(archived) != 1 {
		t.Fatalf("archive: %v", archived)
	}

	top, err := s.cfg.Index.Top(context.Background(), "netWorth", 5)
	if err != nil || len(top) != 1 || top[0].Name != "Calico Jack" || top[0].RunID != rn.id {
		t.Fatalf("leaderboard: %+v %v", top, err)
	}
}

func TestWebsocketSession(t *testing.T) {
	s := newTestServer(t)
	hs := httptest.NewServer(s.Handler())
	defer hs.Close()

	url := "ws" + strings.TrimPrefix(hs.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	read := func(want string) map[string]any {
		t.Helper()
		var m map[string]any
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read %s: %v", want, err)
		}
		if m["type"] != want {
			t.Fatalf("got %v want %s: %+v", m["type"], want, m)
		}
		return m
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"HELLO","protocol_version":"1.0","captain_name":"Mary Read","faction":"pirates","seed":11}`)); err != nil {
		t.Fatalf("hello: %v", err)
	}
	welcome := read(protocol.TypeWelcome)
	if welcome["faction"] != "pirates" || welcome["seed"].(float64) != 11 {
		t.Fatalf("welcome: %+v", welcome)
	}
	if st := read(protocol.TypeState); st["day"].(float64) != 1 {
		t.Fatalf("state: %+v", st)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(actJSON("w1", protocol.ActAdvanceDay, ""))); err != nil {
		t.Fatalf("act: %v", err)
	}
	if res := read(protocol.TypeResult); res["ok"] != true || res["act_id"] != "w1" {
		t.Fatalf("result: %+v", res)
	}
	if st := read(protocol.TypeState); st["day"].(float64) != 2 {
		t.Fatalf("state after day: %+v", st)
	}
}

func TestHandshakeRejectsBadVersion(t *testing.T) {
	s := newTestServer(t)
	hs := httptest.NewServer(s.Handler())
	defer hs.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(hs.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"HELLO","protocol_version":"0.9","captain_name":"x"}`))
	var e protocol.ErrorMsg
	if err := conn.ReadJSON(&e); err != nil || e.Code != protocol.ErrProtoVersion {
		t.Fatalf("error: %+v %v", e, err)
	}
}
