// ColorStdoutWriter prints human-friendly, colorized snapshots to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"slicesim/internal/config"
	"slicesim/internal/device"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// Load thresholds matching the congested/degraded bands of the network.
const (
	loadCongested = 80.0
	loadDegraded  = 60.0
)

// ColorStdoutWriter prints snapshots using ANSI colors.
type ColorStdoutWriter struct {
	cfg  *config.Config
	out  io.Writer
	once sync.Once
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.Config) *ColorStdoutWriter {
	return &ColorStdoutWriter{cfg: cfg, out: os.Stdout}
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}

	fmt.Fprintln(w.out, "Simulation Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Tick Interval:\t%s\n", w.cfg.TickInterval.Duration())
	fmt.Fprintf(tw, "Capacity (Mbps):\t%.0f\n", w.cfg.CapacityMbps)
	fmt.Fprintf(tw, "History Length:\t%d\n", w.cfg.HistoryLength)
	fmt.Fprintf(tw, "Hub Buffer:\t%d\n", w.cfg.HubBuffer)
	tw.Flush()

	if len(w.cfg.SeedDevices) > 0 {
		fmt.Fprintln(w.out, "\nSeed Devices:")
		tw = tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Type\tSlice\tCount\n")
		for _, g := range w.cfg.SeedDevices {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", g.DeviceType, g.SliceType, g.Count)
		}
		tw.Flush()
	}
	fmt.Fprintln(w.out)
}

func loadColor(load float64) string {
	switch {
	case load > loadCongested:
		return colorRed
	case load > loadDegraded:
		return colorYellow
	default:
		return colorGreen
	}
}

// Write outputs a single snapshot in colorized format.
func (w *ColorStdoutWriter) Write(snap device.MetricsSnapshot) error {
	w.once.Do(w.printOverview)

	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, snap.Timestamp.Format(time.RFC3339), colorReset)
	fmt.Fprintf(w.out, "%sload=%.2f%%%s ", loadColor(snap.NetworkLoad), snap.NetworkLoad, colorReset)
	fmt.Fprintf(w.out, "%sdevices=%d%s ", colorBlue, snap.TotalDevices, colorReset)
	fmt.Fprintf(w.out, "%slatency=%.2fms%s ", colorCyan, snap.AvgLatency, colorReset)
	fmt.Fprintf(w.out, "%sthroughput=%.2f%s ", colorMagenta, snap.Throughput, colorReset)
	for _, s := range device.Slices() {
		fmt.Fprintf(w.out, "%s%s=%d%s ", colorGray, s, snap.SliceDistribution[s], colorReset)
	}
	fmt.Fprintln(w.out)
	return nil
}
