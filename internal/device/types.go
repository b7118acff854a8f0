// Device and slice types for the 5G slice simulator.
package device

import "time"

// SliceType identifies a 5G network slice.
type SliceType string

// Known network slices.
const (
	SliceEMBB  SliceType = "eMBB"
	SliceURLLC SliceType = "URLLC"
	SliceMMTC  SliceType = "mMTC"
)

// Slices lists all known slice types in a fixed order.
func Slices() []SliceType {
	return []SliceType{SliceEMBB, SliceURLLC, SliceMMTC}
}

// DeviceType identifies the kind of simulated endpoint.
type DeviceType string

// Known device types.
const (
	TypeSmartphone DeviceType = "smartphone"
	TypeIoT        DeviceType = "iot"
	TypeVehicle    DeviceType = "vehicle"
)

// Device holds runtime state for one simulated connected endpoint.
// Latency and Throughput are mutated each tick and stay >= 1.0.
type Device struct {
	ID          string     `json:"id"`
	Type        DeviceType `json:"type"`
	Slice       SliceType  `json:"slice"`
	ConnectedAt time.Time  `json:"connected_at"`
	Latency     float64    `json:"latency"`
	Throughput  float64    `json:"throughput"`
}
