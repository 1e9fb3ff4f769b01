package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	persistlog "havenvoy.game/internal/persistence/log"
	"havenvoy.game/internal/persistence/save"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "rollback":
			rollbackCmd(os.Args[2:])
			return
		case "audit":
			auditCmd(os.Args[2:])
			return
		case "db":
			dbCmd(os.Args[2:])
			return
		case "state":
			stateCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

var printer = message.NewPrinter(language.English)

// listCmd prints the header of every live save.
func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	_ = fs.Parse(args)

	rows, err := listSaves(filepath.Join(*dataDir, "saves"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	writeSaves(os.Stdout, rows)
}

type saveRow struct {
	RunID  string
	Header save.Header
	Err    error
}

func listSaves(dir string) ([]saveRow, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []saveRow
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sav.zst") {
			continue
		}
		h, err := save.ReadHeader(filepath.Join(dir, name))
		out = append(out, saveRow{RunID: strings.TrimSuffix(name, ".sav.zst"), Header: h, Err: err})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RunID < out[j].RunID })
	return out, nil
}

func writeSaves(w io.Writer, rows []saveRow) {
	for _, r := range rows {
		if r.Err != nil {
			printer.Fprintf(w, "%s\tunreadable: %v\n", r.RunID, r.Err)
			continue
		}
		printer.Fprintf(w, "%s\tv%d\t%s\tday %d\tseed %d\n", r.RunID, r.Header.Version, r.Header.Faction, r.Header.Day, r.Header.Seed)
	}
}

// rollbackCmd restores a retired run's archived save as its live save so the
// captain can resume from it.
func rollbackCmd(args []string) {
	fs := flag.NewFlagSet("rollback", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	runID := fs.String("run", "", "run id (required)")
	archived := fs.String("archive", "", "archived save to restore (optional; defaults to the latest)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*runID) == "" {
		fmt.Fprintln(os.Stderr, "missing -run")
		os.Exit(2)
	}
	src, h, err := rollback(*dataDir, *runID, *archived)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rollback:", err)
		os.Exit(1)
	}
	printer.Printf("rollback ok: run=%s day=%d from=%s\n", *runID, h.Day, filepath.Base(src))
}

func rollback(dataDir, runID, archived string) (string, save.Header, error) {
	if filepath.Base(runID) != runID {
		return "", save.Header{}, fmt.Errorf("bad run id %q", runID)
	}
	src := strings.TrimSpace(archived)
	if src == "" {
		src = latestArchive(filepath.Join(dataDir, "archives", runID))
	}
	if src == "" {
		return "", save.Header{}, fmt.Errorf("no archived save for %s", runID)
	}
	h, err := save.ReadHeader(src)
	if err != nil {
		return src, h, err
	}
	b, err := os.ReadFile(src)
	if err != nil {
		return src, h, err
	}
	dst := filepath.Join(dataDir, "saves", runID+".sav.zst")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return src, h, err
	}
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return src, h, err
	}
	return src, h, os.Rename(tmp, dst)
}

func latestArchive(dir string) string {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var best string
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "day_") || !strings.HasSuffix(name, ".sav.zst") {
			continue
		}
		// day_%05d sorts by day.
		if name > best {
			best = name
		}
	}
	if best == "" {
		return ""
	}
	return filepath.Join(dir, best)
}

// auditCmd prints a run's audit trail.
func auditCmd(args []string) {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	runID := fs.String("run", "", "run id (optional)")
	action := fs.String("action", "", "only this action (optional)")
	failed := fs.Bool("failed", false, "only failed actions")
	_ = fs.Parse(args)

	recs, err := readAudit(filepath.Join(*dataDir, "audit"), *runID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read audit:", err)
		os.Exit(1)
	}
	for _, e := range recs {
		if *action != "" && !strings.EqualFold(e.Action, *action) {
			continue
		}
		if *failed && e.OK {
			continue
		}
		status := "ok"
		if !e.OK {
			status = "FAIL " + e.Reason
		}
		printer.Printf("%s day %d %s %s qty=%d gold=%+d %s\n", e.Run, e.Day, e.Action, e.Target, e.Qty, e.Gold, status)
	}
}

func readAudit(dir, runID string) ([]persistlog.AuditEntry, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "audit-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var out []persistlog.AuditEntry
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		dec, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		sc := bufio.NewScanner(dec)
		sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
		for sc.Scan() {
			var e persistlog.AuditEntry
			if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
				dec.Close()
				_ = f.Close()
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if runID == "" || e.Run == runID {
				out = append(out, e)
			}
		}
		err = sc.Err()
		dec.Close()
		_ = f.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
