package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"havenvoy.game/internal/persistence/indexdb"
	"havenvoy.game/internal/sim/tuning"
)

// openIndex opens the read-model index the host records runs, days and
// scores into. It does not affect simulation determinism; "none" disables it.
func openIndex(cfg serverConfig, tune *tuning.Tuning, logger *log.Logger) (*indexdb.Index, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.DBDialect))
	switch backend {
	case "none", "off", "disabled":
		logger.Printf("index disabled (HAVENVOY_DB_DIALECT=%s)", backend)
		return nil, nil
	}
	dialect, err := indexdb.ParseDialect(backend)
	if err != nil {
		return nil, err
	}

	var idx *indexdb.Index
	switch dialect {
	case indexdb.DialectSQLite:
		dsn := strings.TrimSpace(cfg.DBDSN)
		if dsn == "" {
			dsn = filepath.Join(cfg.DataDir, "index", "havenvoy.sqlite")
		}
		idx, err = indexdb.OpenSQLite(dsn)
	case indexdb.DialectPostgres:
		if strings.TrimSpace(cfg.DBDSN) == "" {
			return nil, fmt.Errorf("HAVENVOY_DB_DIALECT=postgres but HAVENVOY_DB_DSN is empty")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		idx, err = indexdb.Open(ctx, dialect, cfg.DBDSN)
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := idx.UpsertTuning(ctx, tune); err != nil {
		logger.Printf("index: upsert tuning: %v", err)
	}
	logger.Printf("index backend=%s", dialect)
	return idx, nil
}
