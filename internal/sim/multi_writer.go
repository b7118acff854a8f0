package sim

import "slicesim/internal/device"

// MultiWriter fans out snapshots to multiple writers.
type MultiWriter struct {
	writers []SnapshotWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(writers ...SnapshotWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write sends a snapshot to all writers, returning the first error.
func (mw *MultiWriter) Write(snap device.MetricsSnapshot) error {
	for _, w := range mw.writers {
		if err := w.Write(snap); err != nil {
			return err
		}
	}
	return nil
}
