// Writer implementation printing snapshots to STDOUT
package sim

import (
	"encoding/json"
	"fmt"

	"slicesim/internal/device"
)

// StdoutWriter prints aggregate snapshots to STDOUT as JSON lines.
type StdoutWriter struct{}

// Write outputs a single snapshot.
func (w *StdoutWriter) Write(snap device.MetricsSnapshot) error {
	data, _ := json.Marshal(snap)
	fmt.Println(string(data))
	return nil
}
