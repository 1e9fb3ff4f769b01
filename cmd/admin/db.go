package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"havenvoy.game/internal/leaderboard"
	"havenvoy.game/internal/persistence/indexdb"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	dialect := fs.String("dialect", envOr("HAVENVOY_DB_DIALECT", "sqlite"), "index dialect: sqlite or postgres")
	dsn := fs.String("dsn", os.Getenv("HAVENVOY_DB_DSN"), "index DSN (default: <data>/index/havenvoy.sqlite)")
	category := fs.String("category", string(leaderboard.NetWorth), "leaderboard category (top)")
	name := fs.String("name", "", "captain name (best)")
	limit := fs.Int("limit", 20, "result limit")
	asJSON := fs.Bool("json", false, "print JSON lines")
	_ = fs.Parse(args)

	q := "top"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}

	d, err := indexdb.ParseDialect(*dialect)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	path := strings.TrimSpace(*dsn)
	if path == "" && d == indexdb.DialectSQLite {
		path = filepath.Join(*dataDir, "index", "havenvoy.sqlite")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	var idx *indexdb.Index
	if d == indexdb.DialectSQLite {
		idx, err = indexdb.OpenSQLite(path)
	} else {
		idx, err = indexdb.Open(ctx, d, path)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer idx.Close()

	switch q {
	case "top":
		cat, err := leaderboard.Parse(*category)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		top, err := idx.Top(ctx, cat, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		if !*asJSON {
			printer.Printf("%s: %s\n", cat.Info().Name, cat.Info().Description)
		}
		for i, e := range top {
			if *asJSON {
				printJSON(e)
				continue
			}
			printer.Printf("%3d. %-20s %-8s %s (day %d)\n", i+1, e.Name, e.Faction, leaderboard.Format(cat, e.Score), e.Day)
		}

	case "best":
		if strings.TrimSpace(*name) == "" {
			fmt.Fprintln(os.Stderr, "missing -name")
			os.Exit(2)
		}
		best, err := idx.Best(ctx, leaderboard.SanitizeName(*name))
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		if *asJSON {
			printJSON(best)
			return
		}
		for _, c := range leaderboard.Categories {
			if v, ok := best[c]; ok {
				printer.Printf("%-20s %s\n", c.Info().Name, leaderboard.Format(c, v))
			}
		}

	case "runs":
		runs, err := idx.Runs(ctx, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		for _, r := range runs {
			if *asJSON {
				printJSON(r)
				continue
			}
			printer.Printf("%s\t%s\tday %d\tnet worth %dg\tseed %d\n", r.RunID, r.Faction, r.Day, r.NetWorth, r.Seed)
		}

	default:
		fmt.Fprintln(os.Stderr, "unknown query:", q)
		fmt.Fprintln(os.Stderr, "usage: admin db [-data ./data] [-dialect sqlite|postgres] [-dsn DSN] top|best|runs")
		os.Exit(2)
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
