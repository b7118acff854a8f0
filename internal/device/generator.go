package device

import (
	"fmt"
	"math/rand"
)

// Metric bounds applied on every perturbation.
const (
	latencyJitter    = 2.0
	throughputJitter = 10.0
	metricFloor      = 1.0
)

// Range bounds a uniformly drawn metric value.
type Range struct {
	Min float64
	Max float64
}

// Profiles maps slices and device types to their metric ranges.
// Latency is keyed by slice only; throughput by (device type, slice).
type Profiles struct {
	Latency    map[SliceType]Range
	Throughput map[DeviceType]map[SliceType]Range
}

// defaultLatencyRange is used when a slice has no latency profile.
// Throughput has no such fallback: an unknown combination is an error.
var defaultLatencyRange = Range{Min: 10, Max: 50}

// DefaultProfiles returns the built-in metric ranges.
func DefaultProfiles() Profiles {
	return Profiles{
		Latency: map[SliceType]Range{
			SliceURLLC: {Min: 1, Max: 5},
			SliceEMBB:  {Min: 10, Max: 30},
			SliceMMTC:  {Min: 50, Max: 200},
		},
		Throughput: map[DeviceType]map[SliceType]Range{
			TypeSmartphone: {
				SliceEMBB:  {Min: 100, Max: 1000},
				SliceURLLC: {Min: 50, Max: 200},
				SliceMMTC:  {Min: 10, Max: 50},
			},
			TypeVehicle: {
				SliceEMBB:  {Min: 50, Max: 500},
				SliceURLLC: {Min: 100, Max: 500},
				SliceMMTC:  {Min: 20, Max: 100},
			},
			TypeIoT: {
				SliceEMBB:  {Min: 10, Max: 100},
				SliceURLLC: {Min: 5, Max: 50},
				SliceMMTC:  {Min: 1, Max: 10},
			},
		},
	}
}

// ErrUnknownProfile is returned when a (device type, slice) combination has no
// configured throughput range.
var ErrUnknownProfile = fmt.Errorf("unknown device/slice profile")

// Generator draws initial and incremental metric values. The random source is
// injected so tests can seed it for deterministic sequences.
type Generator struct {
	rng      *rand.Rand
	profiles Profiles
}

// NewGenerator creates a Generator using the given random source and profiles.
func NewGenerator(rng *rand.Rand, profiles Profiles) *Generator {
	return &Generator{rng: rng, profiles: profiles}
}

// Initial draws starting latency and throughput for a new device.
func (g *Generator) Initial(dt DeviceType, st SliceType) (latency, throughput float64, err error) {
	lr, ok := g.profiles.Latency[st]
	if !ok {
		lr = defaultLatencyRange
	}
	byType, ok := g.profiles.Throughput[dt]
	if !ok {
		return 0, 0, fmt.Errorf("%w: device type %q", ErrUnknownProfile, dt)
	}
	tr, ok := byType[st]
	if !ok {
		return 0, 0, fmt.Errorf("%w: device type %q slice %q", ErrUnknownProfile, dt, st)
	}
	return g.uniform(lr), g.uniform(tr), nil
}

// Perturb applies a small random delta to both metrics and clamps them to the
// strictly-positive floor.
func (g *Generator) Perturb(latency, throughput float64) (float64, float64) {
	latency += g.rng.Float64()*2*latencyJitter - latencyJitter
	throughput += g.rng.Float64()*2*throughputJitter - throughputJitter
	if latency < metricFloor {
		latency = metricFloor
	}
	if throughput < metricFloor {
		throughput = metricFloor
	}
	return latency, throughput
}

func (g *Generator) uniform(r Range) float64 {
	return r.Min + g.rng.Float64()*(r.Max-r.Min)
}
