// Package game orchestrates one player's session. It owns the mutable
// GameState and applies the sim packages to it in a fixed order; hosts drive
// it through day advances and player actions and read it through queries.
package game

import (
	"errors"
	"fmt"

	"havenvoy.game/internal/persistence/save"
	"havenvoy.game/internal/sim/chase"
	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

// Session is not safe for concurrent use. Hosts serialize calls per session.
type Session struct {
	cfg   *tuning.Tuning
	gs    *state.GameState
	clock chase.Clock
}

type Option func(*Session)

// WithClock replaces the wall clock chases are timed against.
func WithClock(c chase.Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

func newSession(cfg *tuning.Tuning, gs *state.GameState, opts []Option) *Session {
	s := &Session{cfg: cfg, gs: gs, clock: chase.RealClock{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// New starts a fresh game for a player faction.
func New(cfg *tuning.Tuning, faction string, seed int64, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("game: nil tuning")
	}
	if faction == tuning.FactionNeutral {
		return nil, fmt.Errorf("game: faction %q is not playable", faction)
	}
	if _, ok := cfg.Faction(faction); !ok {
		return nil, fmt.Errorf("game: unknown faction %q", faction)
	}
	return newSession(cfg, createState(cfg, faction, seed), opts), nil
}

// Load restores a session from a save blob.
func Load(cfg *tuning.Tuning, blob []byte, opts ...Option) (*Session, error) {
	gs, err := save.Decode(cfg, blob)
	if err != nil {
		return nil, fmt.Errorf("game: load: %w", err)
	}
	return newSession(cfg, gs, opts), nil
}

// LoadOrNew restores blob, or starts fresh when blob is empty or corrupt.
// fresh reports whether a new game was created. A save from a newer build is
// still an error so it is never overwritten.
func LoadOrNew(cfg *tuning.Tuning, blob []byte, faction string, seed int64, opts ...Option) (s *Session, fresh bool, err error) {
	if len(blob) > 0 {
		s, err = Load(cfg, blob, opts...)
		if err == nil {
			return s, false, nil
		}
		if !errors.Is(err, save.ErrCorrupt) {
			return nil, false, err
		}
	}
	s, err = New(cfg, faction, seed, opts...)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

// LoadFile restores a session from a save file written by SaveFile.
func LoadFile(cfg *tuning.Tuning, path string, opts ...Option) (*Session, save.Header, error) {
	gs, h, err := save.ReadFile(path, cfg)
	if err != nil {
		return nil, h, fmt.Errorf("game: load %s: %w", path, err)
	}
	return newSession(cfg, gs, opts), h, nil
}

// SaveFile writes the session to path atomically.
func (s *Session) SaveFile(path string) error {
	return save.WriteFile(path, s.cfg, s.gs)
}

// Save serializes the full session.
func (s *Session) Save() ([]byte, error) {
	return save.Encode(s.cfg, s.gs)
}

func (s *Session) Config() *tuning.Tuning { return s.cfg }

// State exposes the live state. Callers must not mutate it.
func (s *Session) State() *state.GameState { return s.gs }

func (s *Session) player() *state.Player { return &s.gs.Player }

// docked returns the island the player is docked at, failing otherwise.
func (s *Session) docked() (string, state.Result) {
	island, ok := s.gs.DockedAt()
	if !ok {
		return "", state.Fail(state.ReasonNotDocked)
	}
	return island, state.OK()
}
