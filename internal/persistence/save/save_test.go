package save

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

func v1Blob(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"seed": 42,
		"player": map[string]any{
			"faction":  "pirates",
			"gold":     700,
			"days":     12,
			"supplies": 18,
			"cargo":    map[string]int{"rum": 4},
		},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cfg := tuning.Defaults()
	for _, blob := range []string{"", "   ", "{", `[1,2]`, `{"save_version": 2}`, `{"player": null}`, `{"save_version": -1, "player": {}}`} {
		if _, err := Decode(&cfg, []byte(blob)); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("blob %q: got %v want ErrCorrupt", blob, err)
		}
	}
}

func TestDecodeFutureVersion(t *testing.T) {
	cfg := tuning.Defaults()
	_, err := Decode(&cfg, []byte(`{"save_version": 3, "player": {"faction": "eitc"}}`))
	if !errors.Is(err, ErrFutureVersion) {
		t.Fatalf("got %v want ErrFutureVersion", err)
	}
}

func TestDecodeMigratesV1(t *testing.T) {
	cfg := tuning.Defaults()
	gs, err := Decode(&cfg, v1Blob(t))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	p := gs.Player
	if gs.SaveVersion != V2 {
		t.Fatalf("version: got %d want %d", gs.SaveVersion, V2)
	}
	if p.ShipClass != cfg.DefaultShipClass() || p.Ship.Hull <= 0 {
		t.Fatalf("ship: class %q hull %.0f", p.ShipClass, p.Ship.Hull)
	}
	if p.Gold != 700 || p.Days != 12 || p.Cargo["rum"] != 4 {
		t.Fatalf("fields lost: %+v", p)
	}
	if p.Reputation[tuning.FactionPirates] != 50 || p.Reputation[tuning.FactionEnglish] != -30 {
		t.Fatalf("rep: %+v", p.Reputation)
	}
	if p.Meta.LastUpdateDay != 12 {
		t.Fatalf("meta day: got %d want 12", p.Meta.LastUpdateDay)
	}
	if len(gs.Islands) != len(cfg.Islands) || gs.Islands["portRoyal"].Markets["rum"] == nil {
		t.Fatalf("islands not seeded")
	}
	if gs.World.PortStates["portRoyal"] != tuning.PortProsperous {
		t.Fatalf("port state: %q", gs.World.PortStates["portRoyal"])
	}
	if gs.RNG.State == 0 {
		t.Fatalf("rng not seeded")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	cfg := tuning.Defaults()
	gs, err := Decode(&cfg, v1Blob(t))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	first, err := Encode(&cfg, gs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	Migrate(&cfg, gs)
	Migrate(&cfg, gs)
	second, _ := Encode(&cfg, gs)
	if string(first) != string(second) {
		t.Fatalf("migrate changed a current save")
	}
}

func TestMigrateKeepsExistingValues(t *testing.T) {
	cfg := tuning.Defaults()
	gs := &state.GameState{SaveVersion: V2, Seed: 5}
	gs.Player.Faction = tuning.FactionEnglish
	gs.Player.ShipClass = "galleon"
	gs.Player.Reputation = map[string]int{tuning.FactionEnglish: 90}
	Migrate(&cfg, gs)
	if gs.Player.ShipClass != "galleon" {
		t.Fatalf("class overwritten: %s", gs.Player.ShipClass)
	}
	if gs.Player.Reputation[tuning.FactionEnglish] != 90 || gs.Player.Reputation[tuning.FactionPirates] != 0 {
		t.Fatalf("rep: %+v", gs.Player.Reputation)
	}
}

func TestEncodeStampsDigest(t *testing.T) {
	cfg := tuning.Defaults()
	gs, _ := Decode(&cfg, v1Blob(t))
	b, err := Encode(&cfg, gs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var probe struct {
		Digest  string `json:"tuning_digest"`
		Version int    `json:"save_version"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if probe.Digest != cfg.Digest() || probe.Version != V2 {
		t.Fatalf("probe: %+v", probe)
	}
	if _, err := Encode(&cfg, nil); err == nil {
		t.Fatalf("expected error for nil state")
	}
}

func TestFileRoundTrip(t *testing.T) {
	cfg := tuning.Defaults()
	gs, _ := Decode(&cfg, v1Blob(t))
	path := filepath.Join(t.TempDir(), "saves", "slot1.sav.zst")

	if err := WriteFile(path, &cfg, gs); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("temp file left behind: %v", err)
	}
	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if h.Faction != tuning.FactionPirates || h.Day != 12 || h.Seed != 42 || h.Version != V2 {
		t.Fatalf("header: %+v", h)
	}
	got, h2, err := ReadFile(path, &cfg)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if h2 != h {
		t.Fatalf("headers differ: %+v vs %+v", h2, h)
	}
	a, _ := Encode(&cfg, gs)
	b, _ := Encode(&cfg, got)
	if string(a) != string(b) {
		t.Fatalf("file round trip changed the game")
	}
}

func TestReadFileErrors(t *testing.T) {
	cfg := tuning.Defaults()
	dir := t.TempDir()
	if _, _, err := ReadFile(filepath.Join(dir, "missing"), &cfg); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing: got %v", err)
	}
	bad := filepath.Join(dir, "bad")
	if err := os.WriteFile(bad, []byte("plain text, not zstd"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadFile(bad, &cfg); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("bad file: got %v want ErrCorrupt", err)
	}
}
