package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"slicesim/internal/config"
	"slicesim/internal/device"
	"slicesim/internal/sim"
)

func TestNewWritersDefault(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, st, cleanup, err := newWriters(config.Default(), false, false, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := w.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected *sim.StdoutWriter, got %T", w)
	}
	if st != nil {
		t.Fatalf("expected no store without a DSN")
	}
}

func TestNewWritersPrintOnly(t *testing.T) {
	cfg := config.Default()
	cfg.Greptime.Endpoint = "greptime:4001"
	cfg.StoreDSN = "postgres://unused"
	w, st, cleanup, err := newWriters(cfg, true, false, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	// print-only suppresses all network sinks
	if _, ok := w.(*sim.ColorStdoutWriter); !ok {
		t.Fatalf("expected *sim.ColorStdoutWriter, got %T", w)
	}
	if st != nil {
		t.Fatalf("expected no store in print-only mode")
	}
}

func TestNewWritersLogFile(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	path := filepath.Join(t.TempDir(), "telemetry.jsonl")
	w, _, cleanup, err := newWriters(config.Default(), false, false, path)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if _, ok := w.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", w)
	}
	snap := device.MetricsSnapshot{Timestamp: time.Now(), TotalDevices: 1}
	if err := w.Write(snap); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	cleanup()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected log file to be non-empty")
	}
}
