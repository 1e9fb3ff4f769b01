package save

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// Header is the first line of a save file, readable without decoding the body.
type Header struct {
	Version      int    `json:"version"`
	Faction      string `json:"faction"`
	Day          int    `json:"day"`
	Seed         int64  `json:"seed"`
	TuningDigest string `json:"tuning_digest"`
}

// WriteFile stores the game as a zstd stream: one JSON header line, then the
// blob Encode produces. The file is written beside path and renamed into place.
func WriteFile(path string, cfg *tuning.Tuning, gs *state.GameState) error {
	blob, err := Encode(cfg, gs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := writeStream(f, cfg, gs, blob); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func writeStream(w io.Writer, cfg *tuning.Tuning, gs *state.GameState, blob []byte) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 64*1024)

	hb, _ := json.Marshal(Header{
		Version:      gs.SaveVersion,
		Faction:      gs.Player.Faction,
		Day:          gs.Player.Days,
		Seed:         gs.Seed,
		TuningDigest: cfg.Digest(),
	})
	if _, err := bw.Write(hb); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		_ = enc.Close()
		return err
	}
	if _, err := bw.Write(blob); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadHeader returns only the header line of a save file.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	return h, nil
}

// ReadFile loads and migrates a save written by WriteFile. A missing file is
// returned as is so callers can test it with errors.Is(err, fs.ErrNotExist).
func ReadFile(path string, cfg *tuning.Tuning) (*state.GameState, Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return nil, h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, h, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return nil, h, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return nil, h, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	body, err := io.ReadAll(br)
	if err != nil {
		return nil, h, fmt.Errorf("%w: body: %v", ErrCorrupt, err)
	}
	gs, err := Decode(cfg, body)
	if err != nil {
		return nil, h, err
	}
	return gs, h, nil
}
