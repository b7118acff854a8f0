package sim

import (
	"time"

	"slicesim/internal/device"
)

// deviceListLimit caps the per-device listing carried in a snapshot.
const deviceListLimit = 20

// DefaultCapacityMbps is the throughput ceiling used for the load percentage
// when the config does not override it.
const DefaultCapacityMbps = 10000.0

// Aggregator derives summary statistics from a registry snapshot.
type Aggregator struct {
	capacity float64
}

// NewAggregator creates an aggregator with the given capacity ceiling.
// A non-positive capacity falls back to DefaultCapacityMbps.
func NewAggregator(capacityMbps float64) *Aggregator {
	if capacityMbps <= 0 {
		capacityMbps = DefaultCapacityMbps
	}
	return &Aggregator{capacity: capacityMbps}
}

// Compute is a pure function of the device snapshot. An empty snapshot yields
// a zero-valued result with the full slice distribution present.
func (a *Aggregator) Compute(devices []device.Device, now time.Time) device.MetricsSnapshot {
	dist := make(map[device.SliceType]int, len(device.Slices()))
	for _, s := range device.Slices() {
		dist[s] = 0
	}

	snap := device.MetricsSnapshot{
		Timestamp:         now.UTC(),
		SliceDistribution: dist,
		Devices:           []device.DeviceSummary{},
	}
	if len(devices) == 0 {
		return snap
	}

	var latencySum, throughputSum float64
	for _, d := range devices {
		latencySum += d.Latency
		throughputSum += d.Throughput
		dist[d.Slice]++
	}

	snap.TotalDevices = len(devices)
	snap.AvgLatency = latencySum / float64(len(devices))
	snap.Throughput = throughputSum
	snap.NetworkLoad = throughputSum / a.capacity * 100
	if snap.NetworkLoad > 100 {
		snap.NetworkLoad = 100
	}

	limit := len(devices)
	if limit > deviceListLimit {
		limit = deviceListLimit
	}
	for _, d := range devices[:limit] {
		snap.Devices = append(snap.Devices, device.DeviceSummary{
			ID:         d.ID,
			Type:       d.Type,
			Slice:      d.Slice,
			Latency:    d.Latency,
			Throughput: d.Throughput,
		})
	}
	return snap
}
