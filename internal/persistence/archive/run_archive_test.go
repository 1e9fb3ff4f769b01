package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"havenvoy.game/internal/persistence/save"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

func TestArchiveRun_CopiesSaveWithMeta(t *testing.T) {
	cfg := tuning.Defaults()
	dir := t.TempDir()

	gs := &state.GameState{Seed: 42}
	gs.Player.Faction = tuning.FactionEITC
	gs.Player.Days = 33
	save.Migrate(&cfg, gs)

	src := filepath.Join(dir, "saves", "r1.sav.zst")
	if err := save.WriteFile(src, &cfg, gs); err != nil {
		t.Fatalf("write save: %v", err)
	}

	dst, err := ArchiveRun(dir, "r1", src)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if filepath.Base(dst) != "day_00033.sav.zst" {
		t.Fatalf("archived name: %s", dst)
	}
	want, _ := os.ReadFile(src)
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read archived: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("archived content differs")
	}

	b, err := os.ReadFile(filepath.Join(filepath.Dir(dst), "meta.json"))
	if err != nil {
		t.Fatalf("expected meta.json to exist: %v", err)
	}
	var meta RunArchiveMeta
	if err := json.Unmarshal(b, &meta); err != nil {
		t.Fatalf("meta: %v", err)
	}
	if meta.RunID != "r1" || meta.Faction != tuning.FactionEITC || meta.Day != 33 || meta.Seed != 42 {
		t.Fatalf("meta: %+v", meta)
	}
}

func TestArchiveRun_RejectsPathRunID(t *testing.T) {
	if _, err := ArchiveRun(t.TempDir(), "../escape", "x"); err == nil {
		t.Fatalf("expected error")
	}
}
