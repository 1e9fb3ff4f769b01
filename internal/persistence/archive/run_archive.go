// Package archive keeps a copy of every finished run's save beside a small
// meta.json, so retired games stay inspectable after their slot is reused.
package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"havenvoy.game/internal/persistence/save"
)

type RunArchiveMeta struct {
	RunID        string `json:"run_id"`
	Faction      string `json:"faction"`
	Day          int    `json:"day"`
	Seed         int64  `json:"seed"`
	Version      int    `json:"version"`
	TuningDigest string `json:"tuning_digest"`
	Save         string `json:"save"`
	CreatedAt    string `json:"created_at"`
}

// ArchiveRun copies a save file written by save.WriteFile into
// `dataDir/archives/<runID>/` and returns the archived path.
func ArchiveRun(dataDir, runID, savePath string) (string, error) {
	if runID == "" || filepath.Base(runID) != runID {
		return "", fmt.Errorf("archive: bad run id %q", runID)
	}
	h, err := save.ReadHeader(savePath)
	if err != nil {
		return "", fmt.Errorf("archive: %w", err)
	}

	archiveDir := filepath.Join(dataDir, "archives", runID)
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(archiveDir, fmt.Sprintf("day_%05d.sav.zst", h.Day))
	if err := copyFile(savePath, dst); err != nil {
		return "", err
	}

	meta := RunArchiveMeta{
		RunID:        runID,
		Faction:      h.Faction,
		Day:          h.Day,
		Seed:         h.Seed,
		Version:      h.Version,
		TuningDigest: h.TuningDigest,
		Save:         filepath.Base(dst),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339Nano),
	}
	if b, err := json.MarshalIndent(meta, "", "  "); err == nil {
		_ = os.WriteFile(filepath.Join(archiveDir, "meta.json"), b, 0o644)
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
