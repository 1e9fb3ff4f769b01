package main

import (
	"bufio"
	"bytes"
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

	"havenvoy.game/internal/leaderboard"
	persistlog "havenvoy.game/internal/persistence/log"
	"havenvoy.game/internal/persistence/save"
	"havenvoy.game/internal/sim/game"
	"havenvoy.game/internal/sim/tuning"
)

func main() {
	var (
		savePath   = flag.String("save", "", "path to .sav.zst")
		tuningPath = flag.String("tuning", "", "tuning yaml the run was played with (default: built-in)")
		days       = flag.Int("days", 0, "advance this many idle days after loading")
		verify     = flag.Bool("verify", false, "advance twice from the save and require identical results")
		daysDir    = flag.String("day_logs", "", "days dir containing days-*.jsonl.zst (optional)")
	)
	flag.Parse()

	if *savePath == "" {
		fmt.Fprintln(os.Stderr, "missing -save")
		os.Exit(2)
	}

	tune := tuning.Defaults()
	if *tuningPath != "" {
		t, err := tuning.Load(*tuningPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
		tune = t
	}

	s, h, err := game.LoadFile(&tune, *savePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read save:", err)
		os.Exit(1)
	}
	if h.TuningDigest != "" && h.TuningDigest != tune.Digest() {
		fmt.Fprintf(os.Stderr, "warning: save tuning %s differs from loaded tuning %s\n", h.TuningDigest, tune.Digest())
	}
	summarize(os.Stdout, s, h)

	if *daysDir != "" {
		runID := strings.TrimSuffix(filepath.Base(*savePath), ".sav.zst")
		files, err := listDayFiles(*daysDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "list day logs:", err)
			os.Exit(1)
		}
		var logged []persistlog.DayEntry
		for _, path := range files {
			got, err := readDayLog(path, runID)
			if err != nil {
				fmt.Fprintln(os.Stderr, "day log:", err)
				os.Exit(1)
			}
			logged = append(logged, got...)
		}
		fmt.Printf("day log: %d entries for run %s\n", len(logged), runID)
		for _, e := range logged {
			fmt.Println(formatDayEntry(e))
		}
	}

	if *verify {
		blob, err := s.Save()
		if err != nil {
			fmt.Fprintln(os.Stderr, "encode:", err)
			os.Exit(1)
		}
		if err := verifyDeterminism(&tune, blob, max(*days, 1)); err != nil {
			fmt.Fprintln(os.Stderr, "verify:", err)
			os.Exit(1)
		}
		fmt.Printf("replay ok: %d days reproduced identically\n", max(*days, 1))
	}

	for i := 0; i < *days; i++ {
		rep := s.AdvanceDay()
		fmt.Println(formatDay(s, rep))
	}
	if *days > 0 {
		summarize(os.Stdout, s, save.Header{Version: h.Version, Faction: h.Faction, Day: s.State().Player.Days, Seed: h.Seed, TuningDigest: tune.Digest()})
	}
}

var printer = message.NewPrinter(language.English)

func summarize(w io.Writer, s *game.Session, h save.Header) {
	cfg, gs := s.Config(), s.State()
	p := &gs.Player
	worth, _ := leaderboard.Value(cfg, gs, leaderboard.NetWorth)
	where := "at sea"
	switch {
	case gs.IsDocked && gs.CurrentCove != "":
		where = "moored at " + gs.CurrentCove
	case gs.IsDocked:
		where = "docked at " + gs.CurrentIsland
	}
	printer.Fprintf(w, "save v%d faction=%s day=%d seed=%d tuning=%s\n", h.Version, p.Faction, p.Days, gs.Seed, h.TuningDigest)
	printer.Fprintf(w, "  %s, gold=%d supplies=%d net_worth=%d ship=%s hull=%.0f\n", where, p.Gold, p.Supplies, worth, p.ShipClass, p.Ship.Hull)
	printer.Fprintf(w, "  contracts active=%d completed=%d questlines=%d profit=%d\n",
		len(p.Contracts.Active), p.Stats.ContractsCompleted, p.Stats.QuestlinesCompleted, p.Stats.TotalProfit)
}

func formatDay(s *game.Session, rep game.DayReport) string {
	p := &s.State().Player
	line := printer.Sprintf("day %d: gold=%d supplies=%d upkeep=%d", rep.Day, p.Gold, p.Supplies, rep.Upkeep)
	if rep.Mutiny != nil {
		line += printer.Sprintf(" mutiny(-%dg)", rep.Mutiny.GoldLost)
	}
	if n := len(rep.Expired); n > 0 {
		line += printer.Sprintf(" expired=%d", n)
	}
	if rep.World.SeasonChanged != "" {
		line += " season=" + rep.World.SeasonChanged
	}
	return line
}

func formatDayEntry(e persistlog.DayEntry) string {
	where := "port"
	if e.AtSea {
		where = "sea"
	}
	return printer.Sprintf("  day %d (%s): gold=%d supplies=%d net_worth=%d events=%d", e.Day, where, e.Gold, e.Supplies, e.NetWorth, e.Events)
}

// verifyDeterminism advances two sessions restored from the same blob and
// requires byte-identical saves afterwards.
func verifyDeterminism(cfg *tuning.Tuning, blob []byte, days int) error {
	var out [2][]byte
	for i := range out {
		s, err := game.Load(cfg, blob)
		if err != nil {
			return err
		}
		for d := 0; d < days; d++ {
			s.AdvanceDay()
		}
		if out[i], err = s.Save(); err != nil {
			return err
		}
	}
	if !bytes.Equal(out[0], out[1]) {
		return fmt.Errorf("state diverged after %d days", days)
	}
	return nil
}

func listDayFiles(dir string) ([]string, error) {
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
		if strings.HasPrefix(name, "days-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

// readDayLog returns the entries of one log file belonging to runID.
func readDayLog(path, runID string) ([]persistlog.DayEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	var out []persistlog.DayEntry
	for sc.Scan() {
		var entry persistlog.DayEntry
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		if entry.Run == runID {
			out = append(out, entry)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
