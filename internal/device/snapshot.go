package device

import (
	"os"
	"time"
)

// DeviceSummary is the trimmed per-device view included in a snapshot.
type DeviceSummary struct {
	ID         string     `json:"id"`
	Type       DeviceType `json:"type"`
	Slice      SliceType  `json:"slice"`
	Latency    float64    `json:"latency"`
	Throughput float64    `json:"throughput"`
}

// MetricsSnapshot is the aggregate view of the network at one instant.
// Values carry full precision; rounding happens at the API boundary.
type MetricsSnapshot struct {
	Timestamp         time.Time         `json:"timestamp"`   // TIME INDEX
	NetworkLoad       float64           `json:"network_load"`
	TotalDevices      int               `json:"total_devices"`
	AvgLatency        float64           `json:"avg_latency"`
	Throughput        float64           `json:"throughput"`
	SliceDistribution map[SliceType]int `json:"slice_distribution"`
	Devices           []DeviceSummary   `json:"devices"`
}

// MetricsTableName holds the table name used when writing snapshots to
// GreptimeDB. It defaults to "slice_metrics" but can be overridden via the
// SLICE_METRICS_TABLE environment variable.
var MetricsTableName = func() string {
	if env := os.Getenv("SLICE_METRICS_TABLE"); env != "" {
		return env
	}
	return "slice_metrics"
}()

func (MetricsSnapshot) TableName() string {
	return MetricsTableName
}
