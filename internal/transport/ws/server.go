package ws

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"havenvoy.game/internal/persistence/indexdb"
	dlog "havenvoy.game/internal/persistence/log"
	"havenvoy.game/internal/persistence/save"
	"havenvoy.game/internal/protocol"
	"havenvoy.game/internal/sim/chase"
	"havenvoy.game/internal/sim/game"
	"havenvoy.game/internal/sim/tuning"
)

// Config wires a Server. Only Tuning and DataDir are required; the loggers
// and the index are skipped when nil.
type Config struct {
	Tuning  *tuning.Tuning
	DataDir string
	Logger  *log.Logger
	DayLog  *dlog.DayLogger
	Audit   *dlog.AuditLogger
	Index   *indexdb.Index
	Clock   chase.Clock
}

type Server struct {
	cfg Config
	log *log.Logger

	upgrader websocket.Upgrader

	mu     sync.Mutex
	active map[string]struct{}
}

func NewServer(c Config) *Server {
	logger := c.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[ws] ", log.LstdFlags|log.Lmicroseconds)
	}
	return &Server{
		cfg: c,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		active: map[string]struct{}{},
	}
}

// SavePath is where a run's autosave lives.
func (s *Server) SavePath(runID string) string {
	return filepath.Join(s.cfg.DataDir, "saves", runID+".sav.zst")
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		rn := s.handshake(conn)
		if rn == nil {
			return
		}
		defer s.release(rn.id)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		out := make(chan []byte, 16)

		// Writer goroutine.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		send := func(v any) bool {
			b, err := json.Marshal(v)
			if err != nil {
				s.log.Printf("run %s: marshal %T: %v", rn.id, v, err)
				return true
			}
			select {
			case out <- b:
				return true
			case <-ctx.Done():
				return false
			}
		}

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			replies, closeAfter := rn.handleRaw(ctx, msg)
			for _, m := range replies {
				if !send(m) {
					break
				}
			}
			if closeAfter {
				break
			}
		}

		// Drain what is queued before the socket closes.
		close(out)
		<-done
		if !rn.retired {
			if err := rn.persist(); err != nil {
				s.log.Printf("run %s: final save: %v", rn.id, err)
			}
		}
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	}
}

func (s *Server) handshake(conn *websocket.Conn) *run {
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return nil
	}
	if base.ProtocolVersion != protocol.Version {
		_ = writeJSON(conn, errorMsg(protocol.ErrProtoVersion, "protocol_version must be "+protocol.Version))
		return nil
	}
	if err := protocol.Validate(protocol.SchemaHello, msg); err != nil {
		_ = writeJSON(conn, errorMsg(protocol.ErrProtoBadRequest, err.Error()))
		return nil
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		_ = writeJSON(conn, errorMsg(protocol.ErrProtoBadRequest, err.Error()))
		return nil
	}

	rn, welcome, code, err := s.open(hello)
	if err != nil {
		_ = writeJSON(conn, errorMsg(code, err.Error()))
		return nil
	}
	if err := writeJSON(conn, welcome); err != nil {
		s.release(rn.id)
		return nil
	}
	if err := writeJSON(conn, rn.stateMsg()); err != nil {
		s.release(rn.id)
		return nil
	}
	return rn
}

var errRunBusy = errors.New("run is open on another connection")

// open resumes or starts the run a HELLO names and claims it. A resumed save
// that no longer decodes starts a fresh game under the same run id.
func (s *Server) open(hello protocol.HelloMsg) (*run, protocol.WelcomeMsg, string, error) {
	faction := hello.Faction
	if faction == "" {
		faction = tuning.FactionEnglish
	}
	seed := time.Now().UnixNano()
	if hello.Seed != nil {
		seed = *hello.Seed
	}
	var opts []game.Option
	if s.cfg.Clock != nil {
		opts = append(opts, game.WithClock(s.cfg.Clock))
	}

	runID := hello.RunID
	resumed, fresh := false, false
	if runID == "" {
		runID = newRunID()
	}
	if !s.claim(runID) {
		return nil, protocol.WelcomeMsg{}, protocol.ErrConflict, errRunBusy
	}

	var sess *game.Session
	var err error
	if hello.RunID != "" {
		sess, _, err = game.LoadFile(s.cfg.Tuning, s.SavePath(runID), opts...)
		switch {
		case err == nil:
			resumed = true
		case errors.Is(err, fs.ErrNotExist):
			s.release(runID)
			return nil, protocol.WelcomeMsg{}, protocol.ErrRunNotFound, errors.New("no saved run " + runID)
		case errors.Is(err, save.ErrFutureVersion):
			s.release(runID)
			return nil, protocol.WelcomeMsg{}, protocol.ErrRunCorrupt, err
		case errors.Is(err, save.ErrCorrupt):
			s.log.Printf("run %s: %v; starting fresh", runID, err)
			sess, fresh = nil, true
		default:
			s.release(runID)
			return nil, protocol.WelcomeMsg{}, protocol.ErrInternal, err
		}
	}
	if sess == nil {
		sess, err = game.New(s.cfg.Tuning, faction, seed, opts...)
		if err != nil {
			s.release(runID)
			return nil, protocol.WelcomeMsg{}, protocol.ErrBadRequest, err
		}
	}

	rn := &run{srv: s, id: runID, captain: hello.CaptainName, sess: sess}
	if err := rn.persist(); err != nil {
		s.log.Printf("run %s: initial save: %v", runID, err)
	}
	gs := sess.State()
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		RunID:           runID,
		Resumed:         resumed,
		Fresh:           fresh,
		Faction:         gs.Player.Faction,
		Seed:            gs.Seed,
		TuningDigest:    s.cfg.Tuning.Digest(),
		Actions:         protocol.Actions,
		Islands:         islandIDs(s.cfg.Tuning),
		Goods:           goodIDs(s.cfg.Tuning),
	}
	s.log.Printf("run %s: captain %q (%s) resumed=%v fresh=%v", runID, hello.CaptainName, gs.Player.Faction, resumed, fresh)
	return rn, welcome, "", nil
}

func (s *Server) claim(runID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[runID]; ok {
		return false
	}
	s.active[runID] = struct{}{}
	return true
}

func (s *Server) release(runID string) {
	s.mu.Lock()
	delete(s.active, runID)
	s.mu.Unlock()
}

// ActiveRuns is the number of runs currently held by a connection.
func (s *Server) ActiveRuns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

func newRunID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return "run_" + hex.EncodeToString(b[:])
}

func errorMsg(code, message string) protocol.ErrorMsg {
	return protocol.ErrorMsg{Type: protocol.TypeError, ProtocolVersion: protocol.Version, Code: code, Message: message}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
