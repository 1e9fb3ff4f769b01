package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"havenvoy.game/internal/leaderboard"
	"havenvoy.game/internal/persistence/indexdb"
	persistlog "havenvoy.game/internal/persistence/log"
	"havenvoy.game/internal/sim/tuning"
	"havenvoy.game/internal/transport/ws"
)

// serverConfig is read from the environment; flags override it.
type serverConfig struct {
	Addr       string `env:"HAVENVOY_ADDR" envDefault:":8080"`
	DataDir    string `env:"HAVENVOY_DATA" envDefault:"./data"`
	DBDialect  string `env:"HAVENVOY_DB_DIALECT" envDefault:"sqlite"`
	DBDSN      string `env:"HAVENVOY_DB_DSN"`
	TuningPath string `env:"HAVENVOY_TUNING"`
	AdminHTTP  bool   `env:"HAVENVOY_ENABLE_ADMIN_HTTP" envDefault:"true"`
	PprofHTTP  bool   `env:"HAVENVOY_ENABLE_PPROF_HTTP"`
}

func main() {
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	var cfg serverConfig
	if err := env.Parse(&cfg); err != nil {
		logger.Fatalf("parse env: %v", err)
	}
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "http listen address")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "runtime data directory (saves, logs, archives, index)")
	flag.StringVar(&cfg.DBDialect, "db", cfg.DBDialect, "index backend: sqlite, postgres or none")
	flag.StringVar(&cfg.DBDSN, "dsn", cfg.DBDSN, "index DSN (sqlite path or postgres URL)")
	flag.StringVar(&cfg.TuningPath, "tuning", cfg.TuningPath, "path to a tuning yaml (default: built-in tuning)")
	flag.Parse()

	tune := tuning.Defaults()
	if tp := strings.TrimSpace(cfg.TuningPath); tp != "" {
		t, err := tuning.Load(tp)
		if err != nil {
			logger.Fatalf("load tuning: %v", err)
		}
		tune = t
	}
	logger.Printf("tuning digest=%s", tune.Digest())

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Fatalf("data dir: %v", err)
	}

	idx, err := openIndex(cfg, &tune, logger)
	if err != nil {
		logger.Fatalf("open index backend: %v", err)
	}
	if idx != nil {
		defer idx.Close()
	}

	dayLog := persistlog.NewDayLogger(cfg.DataDir)
	auditLog := persistlog.NewAuditLogger(cfg.DataDir)
	defer dayLog.Close()
	defer auditLog.Close()

	ctx, cancel := signalContext()
	defer cancel()

	wsSrv := ws.NewServer(ws.Config{
		Tuning:  &tune,
		DataDir: cfg.DataDir,
		Logger:  logger,
		DayLog:  dayLog,
		Audit:   auditLog,
		Index:   idx,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP havenvoy_active_runs Runs currently held by a connection.\n")
		fmt.Fprintf(rw, "# TYPE havenvoy_active_runs gauge\n")
		fmt.Fprintf(rw, "havenvoy_active_runs %d\n", wsSrv.ActiveRuns())
		writeIndexMetrics(rw, idx)
	})
	mux.HandleFunc("/v1/leaderboard", leaderboardHandler(idx))
	mux.HandleFunc("/v1/ws", wsSrv.Handler())

	if cfg.AdminHTTP {
		// Local-only admin endpoints.
		mux.HandleFunc("/admin/v1/runs", func(rw http.ResponseWriter, r *http.Request) {
			if !isLoopbackRemote(r.RemoteAddr) {
				http.Error(rw, "forbidden", http.StatusForbidden)
				return
			}
			if idx == nil {
				http.Error(rw, "index disabled", http.StatusServiceUnavailable)
				return
			}
			runs, err := idx.Runs(r.Context(), queryInt(r, "limit", 50))
			if err != nil {
				http.Error(rw, err.Error(), http.StatusInternalServerError)
				return
			}
			rw.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(rw).Encode(map[string]any{"runs": runs, "tuning_digest": tune.Digest()})
		})
	} else {
		logger.Printf("admin endpoints disabled (HAVENVOY_ENABLE_ADMIN_HTTP=false)")
	}
	if cfg.PprofHTTP {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s data=%s", cfg.Addr, cfg.DataDir)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

// leaderboardHandler serves GET /v1/leaderboard?category=netWorth&limit=10.
func leaderboardHandler(idx *indexdb.Index) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if idx == nil {
			http.Error(rw, "leaderboard disabled", http.StatusServiceUnavailable)
			return
		}
		cat := leaderboard.NetWorth
		if q := strings.TrimSpace(r.URL.Query().Get("category")); q != "" {
			c, err := leaderboard.Parse(q)
			if err != nil {
				http.Error(rw, err.Error(), http.StatusBadRequest)
				return
			}
			cat = c
		}
		limit := min(max(queryInt(r, "limit", 10), 1), 100)
		top, err := idx.Top(r.Context(), cat, limit)
		if err != nil {
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}
		type row struct {
			leaderboard.Entry
			Rank      int    `json:"rank"`
			Formatted string `json:"formatted"`
		}
		rows := make([]row, 0, len(top))
		for i, e := range top {
			rows = append(rows, row{Entry: e, Rank: i + 1, Formatted: leaderboard.Format(cat, e.Score)})
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(map[string]any{"category": cat.Info(), "entries": rows})
	}
}

func writeIndexMetrics(rw http.ResponseWriter, idx *indexdb.Index) {
	if idx == nil {
		return
	}
	s := idx.Stats()
	fmt.Fprintf(rw, "# HELP havenvoy_index_queue_depth Current index write queue depth.\n")
	fmt.Fprintf(rw, "# TYPE havenvoy_index_queue_depth gauge\n")
	fmt.Fprintf(rw, "havenvoy_index_queue_depth %d\n", s.QueueDepth)

	fmt.Fprintf(rw, "# HELP havenvoy_index_queue_capacity Index write queue capacity.\n")
	fmt.Fprintf(rw, "# TYPE havenvoy_index_queue_capacity gauge\n")
	fmt.Fprintf(rw, "havenvoy_index_queue_capacity %d\n", s.QueueCapacity)

	fmt.Fprintf(rw, "# HELP havenvoy_index_dropped_total Index rows dropped because the queue was full.\n")
	fmt.Fprintf(rw, "# TYPE havenvoy_index_dropped_total counter\n")
	fmt.Fprintf(rw, "havenvoy_index_dropped_total{kind=%q} %d\n", "day", s.DropDayTotal)
	fmt.Fprintf(rw, "havenvoy_index_dropped_total{kind=%q} %d\n", "run", s.DropRunTotal)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil {
		return def
	}
	return v
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
