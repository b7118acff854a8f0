package sim

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"slicesim/internal/device"
)

// ReplayLog replays snapshots from r to writer. A speed >0 reproduces the
// recorded inter-snapshot gaps, scaled by the multiplier; speed <= 0 inserts
// no artificial delay.
func ReplayLog(r io.Reader, writer SnapshotWriter, speed float64) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var snap device.MetricsSnapshot
		if err := dec.Decode(&snap); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !prev.IsZero() && speed > 0 {
			diff := snap.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.Write(snap); err != nil {
			return err
		}
		prev = snap.Timestamp
	}
}

// ReplayLogFile opens a file and replays its snapshots.
func ReplayLogFile(path string, writer SnapshotWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, writer, speed)
}
