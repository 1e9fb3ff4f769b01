package indexdb

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"havenvoy.game/internal/leaderboard"
	dlog "havenvoy.game/internal/persistence/log"
	"havenvoy.game/internal/sim/tuning"
)

func openTemp(t *testing.T) (*Index, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	return idx, path
}

func TestIndex_QueueDropStats(t *testing.T) {
	s := &Index{ch: make(chan req, 1)}
	s.ch <- req{kind: reqDay, day: dlog.DayEntry{Day: 1}}

	_ = s.WriteDay(dlog.DayEntry{Day: 2})
	s.RecordRun(RunRow{RunID: "r1"})
	s.RecordRun(RunRow{})

	st := s.Stats()
	if st.DropDayTotal != 1 || st.DropRunTotal != 1 {
		t.Fatalf("drops: day=%d run=%d want 1 and 1", st.DropDayTotal, st.DropRunTotal)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}

func TestIndex_ScoresRankedAndBounded(t *testing.T) {
	idx, _ := openTemp(t)
	defer idx.Close()
	ctx := context.Background()

	for _, e := range []leaderboard.Entry{
		{Name: "Anne", Category: leaderboard.NetWorth, Score: 4000, Faction: "pirates", Day: 10},
		{Name: "Mary", Category: leaderboard.NetWorth, Score: 9000, Faction: "english", Day: 12},
		{Name: "  Jack  ", Category: leaderboard.NetWorth, Score: 6500, Faction: "eitc", Day: 8},
		{Name: "Anne", Category: leaderboard.DaysAtSea, Score: 10, Faction: "pirates", Day: 10},
	} {
		if err := idx.SubmitScore(ctx, e); err != nil {
			t.Fatalf("submit %+v: %v", e, err)
		}
	}
	err := idx.SubmitScore(ctx, leaderboard.Entry{Name: "Cheat", Category: leaderboard.NetWorth, Score: 1_000_000, Day: 1})
	if !errors.Is(err, leaderboard.ErrOutOfBounds) {
		t.Fatalf("cheat: got %v want ErrOutOfBounds", err)
	}
	if err := idx.SubmitScore(ctx, leaderboard.Entry{Name: "x", Category: "speed", Score: 1, Day: 1}); !errors.Is(err, leaderboard.ErrUnknownCategory) {
		t.Fatalf("unknown category: %v", err)
	}

	top, err := idx.Top(ctx, leaderboard.NetWorth, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].Name != "Mary" || top[1].Name != "Jack" {
		t.Fatalf("top: %+v", top)
	}

	best, err := idx.Best(ctx, "Anne")
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if best[leaderboard.NetWorth] != 4000 || best[leaderboard.DaysAtSea] != 10 {
		t.Fatalf("best: %+v", best)
	}
}

func TestIndex_DaysAndRunsWritten(t *testing.T) {
	idx, path := openTemp(t)
	cfg := tuning.Defaults()
	if err := idx.UpsertTuning(context.Background(), &cfg); err != nil {
		t.Fatalf("UpsertTuning: %v", err)
	}
	for d := 2; d <= 4; d++ {
		_ = idx.WriteDay(dlog.DayEntry{Run: "r1", Day: d, Gold: 1000 - d, NetWorth: 1100, AtSea: d%2 == 0})
	}
	idx.RecordRun(RunRow{RunID: "r1", Faction: "english", Seed: 7, TuningDigest: cfg.Digest(), Day: 4, NetWorth: 1100})
	idx.RecordRun(RunRow{RunID: "r1", Faction: "english", Seed: 7, TuningDigest: cfg.Digest(), Day: 5, NetWorth: 1200})
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var days, atSea int
	if err := db.QueryRow(`SELECT COUNT(*), SUM(at_sea) FROM days WHERE run_id='r1'`).Scan(&days, &atSea); err != nil {
		t.Fatalf("days: %v", err)
	}
	if days != 3 || atSea != 2 {
		t.Fatalf("days=%d atSea=%d want 3 and 2", days, atSea)
	}
	var lastDay, worth int
	if err := db.QueryRow(`SELECT last_day, net_worth FROM runs WHERE run_id='r1'`).Scan(&lastDay, &worth); err != nil {
		t.Fatalf("runs: %v", err)
	}
	if lastDay != 5 || worth != 1200 {
		t.Fatalf("run row: day=%d worth=%d", lastDay, worth)
	}
	var digest string
	if err := db.QueryRow(`SELECT digest FROM tunings`).Scan(&digest); err != nil || digest != cfg.Digest() {
		t.Fatalf("tuning digest: %q %v", digest, err)
	}
}

func TestPostgresPlaceholders(t *testing.T) {
	s := &Index{dialect: DialectPostgres}
	if got := s.bind(`SELECT a FROM t WHERE b=? AND c=?`); got != `SELECT a FROM t WHERE b=$1 AND c=$2` {
		t.Fatalf("bind: %s", got)
	}
	got := s.upsert("runs", []string{"run_id", "day"}, "run_id")
	want := `INSERT INTO runs(run_id,day) VALUES($1,$2) ON CONFLICT (run_id) DO UPDATE SET day=EXCLUDED.day`
	if got != want {
		t.Fatalf("upsert:\n got %s\nwant %s", got, want)
	}
	lite := &Index{dialect: DialectSQLite}
	if got := lite.upsert("meta", []string{"key", "value"}, "key"); got != `INSERT OR REPLACE INTO meta(key,value) VALUES(?,?)` {
		t.Fatalf("sqlite upsert: %s", got)
	}
	if d, err := ParseDialect(" Postgres "); err != nil || d != DialectPostgres {
		t.Fatalf("parse: %v %v", d, err)
	}
	if _, err := ParseDialect("mysql"); err == nil {
		t.Fatalf("expected error for mysql")
	}
}
