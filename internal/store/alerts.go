package store

import (
	"fmt"

	"slicesim/internal/device"
)

// Thresholds configure when snapshots raise alerts.
type Thresholds struct {
	HighLoad     float64 // network load percentage
	LatencySpike float64 // average latency in ms
}

// EvaluateAlerts inspects a snapshot against the thresholds and returns the
// alerts it violates. Pure function; persistence happens in the caller.
func EvaluateAlerts(snap device.MetricsSnapshot, t Thresholds) []Alert {
	var alerts []Alert
	if t.HighLoad > 0 && snap.NetworkLoad > t.HighLoad {
		alerts = append(alerts, Alert{
			Timestamp: snap.Timestamp,
			AlertType: AlertHighLoad,
			Severity:  SeverityCritical,
			Message:   fmt.Sprintf("network load %.2f%% exceeds %.0f%%", snap.NetworkLoad, t.HighLoad),
		})
	}
	if t.LatencySpike > 0 && snap.AvgLatency > t.LatencySpike {
		alerts = append(alerts, Alert{
			Timestamp: snap.Timestamp,
			AlertType: AlertLatencySpike,
			Severity:  SeverityWarning,
			Message:   fmt.Sprintf("average latency %.2fms exceeds %.0fms", snap.AvgLatency, t.LatencySpike),
		})
	}
	return alerts
}
