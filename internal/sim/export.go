package sim

import (
	"encoding/json"
	"os"
	"time"

	"slicesim/internal/device"
)

// ExportDocument is the persisted snapshot format produced by Export.
type ExportDocument struct {
	ExportedAt time.Time             `json:"exported_at"`
	Metrics    ExportMetrics         `json:"metrics"`
	Devices    []device.DeviceSummary `json:"devices"`
}

// ExportMetrics carries the aggregate fields of an export.
type ExportMetrics struct {
	NetworkLoad       float64                      `json:"network_load"`
	TotalDevices      int                          `json:"total_devices"`
	AvgLatency        float64                      `json:"avg_latency"`
	Throughput        float64                      `json:"throughput"`
	SliceDistribution map[device.SliceType]int     `json:"slice_distribution"`
}

// Export writes the given snapshot to path as an indented JSON document.
func Export(path string, snap device.MetricsSnapshot) (ExportDocument, error) {
	doc := ExportDocument{
		ExportedAt: time.Now().UTC(),
		Metrics: ExportMetrics{
			NetworkLoad:       snap.NetworkLoad,
			TotalDevices:      snap.TotalDevices,
			AvgLatency:        snap.AvgLatency,
			Throughput:        snap.Throughput,
			SliceDistribution: snap.SliceDistribution,
		},
		Devices: snap.Devices,
	}
	f, err := os.Create(path)
	if err != nil {
		return ExportDocument{}, err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return ExportDocument{}, err
	}
	return doc, nil
}
