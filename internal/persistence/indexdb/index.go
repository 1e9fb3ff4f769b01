// Package indexdb is the queryable side index: the leaderboard and a per-run
// day index. The JSONL logs stay the source of truth; day rows are written
// asynchronously and dropped when the writer falls behind.
package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"havenvoy.game/internal/leaderboard"
	dlog "havenvoy.game/internal/persistence/log"
	"havenvoy.game/internal/sim/tuning"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case "", DialectSQLite:
		return DialectSQLite, nil
	case DialectPostgres:
		return d, nil
	}
	return "", fmt.Errorf("unsupported db dialect %q", s)
}

type Index struct {
	dialect Dialect
	db      *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropDay atomic.Uint64
	dropRun atomic.Uint64
}

type reqKind int

const (
	reqDay reqKind = iota + 1
	reqRun
)

type req struct {
	kind reqKind
	day  dlog.DayEntry
	run  RunRow
}

// RunRow is the index row of one game.
type RunRow struct {
	RunID        string `json:"run_id"`
	Faction      string `json:"faction"`
	Seed         int64  `json:"seed"`
	TuningDigest string `json:"tuning_digest"`
	Day          int    `json:"day"`
	NetWorth     int    `json:"net_worth"`
	SavePath     string `json:"save_path,omitempty"`
}

// Stats reports the async writer's queue.
type Stats struct {
	QueueDepth    int    `json:"queue_depth"`
	QueueCapacity int    `json:"queue_capacity"`
	DropDayTotal  uint64 `json:"drop_day_total"`
	DropRunTotal  uint64 `json:"drop_run_total"`
}

// OpenSQLite opens or creates an index file at path.
func OpenSQLite(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return Open(context.Background(), DialectSQLite, path)
}

// Open connects to dsn with the given dialect and applies the schema.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Index, error) {
	driver := "sqlite"
	switch dialect {
	case DialectSQLite:
	case DialectPostgres:
		driver = "pgx"
		if dsn == "" {
			return nil, errors.New("postgres dialect requires a dsn")
		}
	default:
		return nil, fmt.Errorf("unsupported db dialect %q", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		if err := initPragmas(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := initSchema(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Index{
		dialect: dialect,
		db:      db,
		ch:      make(chan req, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if dialect == DialectPostgres {
		serial = "BIGSERIAL PRIMARY KEY"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tunings (
			digest TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			faction TEXT NOT NULL,
			seed BIGINT NOT NULL,
			tuning_digest TEXT NOT NULL,
			last_day INTEGER NOT NULL,
			net_worth INTEGER NOT NULL,
			save_path TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS days (
			run_id TEXT NOT NULL,
			day INTEGER NOT NULL,
			gold INTEGER NOT NULL,
			net_worth INTEGER NOT NULL,
			at_sea INTEGER NOT NULL,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (run_id, day)
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			id ` + serial + `,
			category TEXT NOT NULL,
			name TEXT NOT NULL,
			score BIGINT NOT NULL,
			faction TEXT NOT NULL,
			day INTEGER NOT NULL,
			run_id TEXT NOT NULL,
			submitted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_category_score ON scores(category, score)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_name ON scores(name)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *Index) Dialect() Dialect { return s.dialect }

// bind rewrites ? placeholders into $n for postgres.
func (s *Index) bind(q string) string {
	if s.dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// upsert is INSERT OR REPLACE in either dialect, keyed on conflict columns.
func (s *Index) upsert(table string, cols []string, conflict string) string {
	ph := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
	if s.dialect != DialectPostgres {
		return fmt.Sprintf("INSERT OR REPLACE INTO %s(%s) VALUES(%s)", table, strings.Join(cols, ","), ph)
	}
	var set []string
	for _, c := range cols {
		if !strings.Contains(","+conflict+",", ","+c+",") {
			set = append(set, fmt.Sprintf("%s=EXCLUDED.%s", c, c))
		}
	}
	return s.bind(fmt.Sprintf("INSERT INTO %s(%s) VALUES(%s) ON CONFLICT (%s) DO UPDATE SET %s",
		table, strings.Join(cols, ","), ph, conflict, strings.Join(set, ",")))
}

func (s *Index) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *Index) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:    len(s.ch),
		QueueCapacity: cap(s.ch),
		DropDayTotal:  s.dropDay.Load(),
		DropRunTotal:  s.dropRun.Load(),
	}
}

// WriteDay queues a day row. It never blocks.
func (s *Index) WriteDay(entry dlog.DayEntry) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{kind: reqDay, day: entry}:
	default:
		s.dropDay.Add(1)
	}
	return nil
}

// RecordRun queues the latest summary of a run.
func (s *Index) RecordRun(r RunRow) {
	if s == nil || s.closed.Load() || r.RunID == "" {
		return
	}
	select {
	case s.ch <- req{kind: reqRun, run: r}:
	default:
		s.dropRun.Add(1)
	}
}

// UpsertTuning stores the canonical JSON of the tuning in use under its digest.
func (s *Index) UpsertTuning(ctx context.Context, cfg *tuning.Tuning) error {
	if s == nil {
		return nil
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.upsert("meta", []string{"key", "value"}, "key"), "schema_version", "1"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, s.upsert("tunings", []string{"digest", "json", "updated_at"}, "digest"), cfg.Digest(), string(b), now); err != nil {
		return err
	}
	return tx.Commit()
}

// SubmitScore validates and stores a leaderboard entry.
func (s *Index) SubmitScore(ctx context.Context, e leaderboard.Entry) error {
	if _, err := leaderboard.Parse(string(e.Category)); err != nil {
		return err
	}
	e.Name = leaderboard.SanitizeName(e.Name)
	if e.Name == "" {
		return leaderboard.ErrNoName
	}
	if err := leaderboard.Validate(e.Category, e.Score, e.Day); err != nil {
		return err
	}
	q := s.bind(`INSERT INTO scores(category,name,score,faction,day,run_id,submitted_at) VALUES(?,?,?,?,?,?,?)`)
	_, err := s.db.ExecContext(ctx, q, string(e.Category), e.Name, e.Score, e.Faction, e.Day, e.RunID,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("submit score: %w", err)
	}
	return nil
}

// Top returns the best limit scores in a category, highest first.
func (s *Index) Top(ctx context.Context, c leaderboard.Category, limit int) ([]leaderboard.Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	q := s.bind(`SELECT name,score,faction,day,run_id FROM scores WHERE category=? ORDER BY score DESC, id ASC LIMIT ?`)
	rows, err := s.db.QueryContext(ctx, q, string(c), limit)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()
	var out []leaderboard.Entry
	for rows.Next() {
		e := leaderboard.Entry{Category: c}
		if err := rows.Scan(&e.Name, &e.Score, &e.Faction, &e.Day, &e.RunID); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Best returns a captain's best score in every category they have entered.
func (s *Index) Best(ctx context.Context, name string) (map[leaderboard.Category]int, error) {
	q := s.bind(`SELECT category, MAX(score) FROM scores WHERE name=? GROUP BY category`)
	rows, err := s.db.QueryContext(ctx, q, leaderboard.SanitizeName(name))
	if err != nil {
		return nil, fmt.Errorf("best scores: %w", err)
	}
	defer rows.Close()
	out := map[leaderboard.Category]int{}
	for rows.Next() {
		var (
			c     string
			score int
		)
		if err := rows.Scan(&c, &score); err != nil {
			return nil, fmt.Errorf("scan best: %w", err)
		}
		out[leaderboard.Category(c)] = score
	}
	return out, rows.Err()
}

// Runs lists indexed runs, most recently updated first.
func (s *Index) Runs(ctx context.Context, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	q := s.bind(`SELECT run_id,faction,seed,tuning_digest,last_day,net_worth,save_path FROM runs ORDER BY updated_at DESC LIMIT ?`)
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.RunID, &r.Faction, &r.Seed, &r.TuningDigest, &r.Day, &r.NetWorth, &r.SavePath); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Index) loop() {
	ctx := context.Background()

	insertDay, _ := s.db.Prepare(s.upsert("days", []string{"run_id", "day", "gold", "net_worth", "at_sea", "raw_json"}, "run_id,day"))
	insertRun, _ := s.db.Prepare(s.upsert("runs", []string{"run_id", "faction", "seed", "tuning_digest", "last_day", "net_worth", "save_path", "updated_at"}, "run_id"))
	defer func() {
		if insertDay != nil {
			_ = insertDay.Close()
		}
		if insertRun != nil {
			_ = insertRun.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 500
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqDay:
			d := r.day
			if insertDay == nil || d.Run == "" {
				break
			}
			raw, _ := json.Marshal(d)
			atSea := 0
			if d.AtSea {
				atSea = 1
			}
			if _, err := tx.Stmt(insertDay).Exec(d.Run, d.Day, d.Gold, d.NetWorth, atSea, string(raw)); err != nil {
				rollback()
				continue
			}
			opCount++

		case reqRun:
			ru := r.run
			if insertRun == nil {
				break
			}
			if _, err := tx.Stmt(insertRun).Exec(
				ru.RunID,
				ru.Faction,
				ru.Seed,
				ru.TuningDigest,
				ru.Day,
				ru.NetWorth,
				ru.SavePath,
				time.Now().UTC().Format(time.RFC3339Nano),
			); err != nil {
				rollback()
				continue
			}
			opCount++
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait || len(s.ch) == 0 {
			commit()
		}
	}

	commit()
}
