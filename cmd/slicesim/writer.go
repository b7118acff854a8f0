package main

import (
	"os"

	"github.com/google/uuid"

	"slicesim/internal/config"
	"slicesim/internal/sim"
	"slicesim/internal/store"
)

// newWriters sets up snapshot writers based on flags, config, and env vars.
// It returns the writer fan-out, the optional store, and a cleanup function.
func newWriters(cfg *config.Config, printOnly, tui bool, logFile string) (sim.SnapshotWriter, *store.Store, func(), error) {
	var writers []sim.SnapshotWriter
	var cleanups []func()

	switch {
	case tui:
		tw := sim.NewTUIWriter()
		writers = append(writers, tw)
		cleanups = append(cleanups, tw.Close)
	case printOnly:
		writers = append(writers, sim.NewColorStdoutWriter(cfg))
	default:
		writers = append(writers, &sim.StdoutWriter{})
	}

	endpoint := cfg.Greptime.Endpoint
	if env := os.Getenv("GREPTIMEDB_ENDPOINT"); env != "" {
		endpoint = env
	}
	if !printOnly && endpoint != "" {
		database := cfg.Greptime.Database
		if database == "" {
			database = "public"
		}
		gw, err := sim.NewGreptimeWriter(endpoint, database, uuid.New().String())
		if err != nil {
			return nil, nil, nil, err
		}
		writers = append(writers, gw)
	}

	var st *store.Store
	if dsn := cfg.StoreDSN; dsn != "" && !printOnly {
		s, err := store.Open(dsn, store.Thresholds{
			HighLoad:     cfg.Alerts.HighLoad,
			LatencySpike: cfg.Alerts.LatencySpike,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		st = s
		writers = append(writers, s)
		cleanups = append(cleanups, func() { _ = s.Close() })
	}

	if logFile != "" {
		fw, err := sim.NewFileWriter(logFile)
		if err != nil {
			return nil, nil, nil, err
		}
		writers = append(writers, fw)
		cleanups = append(cleanups, func() { _ = fw.Close() })
	}

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	if len(writers) == 1 {
		return writers[0], st, cleanup, nil
	}
	return sim.NewMultiWriter(writers...), st, cleanup, nil
}
