package sim

import (
	"fmt"
	"sync"
	"time"

	"slicesim/internal/device"
)

// Registry owns all live device records. Every mutation and snapshot is
// serialized by its mutex so readers never observe a half-updated device.
type Registry struct {
	mu      sync.Mutex
	devices map[string]*device.Device
	order   []string
	counter int
	gen     *device.Generator
	now     func() time.Time
}

// NewRegistry creates an empty registry backed by the given generator.
func NewRegistry(gen *device.Generator) *Registry {
	return &Registry{
		devices: make(map[string]*device.Device),
		gen:     gen,
		now:     time.Now,
	}
}

// Add allocates the next sequence number, draws initial metrics, and inserts
// the new device. Fails only on an unknown (type, slice) combination.
func (r *Registry) Add(dt device.DeviceType, st device.SliceType) (device.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lat, tp, err := r.gen.Initial(dt, st)
	if err != nil {
		return device.Device{}, err
	}

	r.counter++
	d := &device.Device{
		ID:          fmt.Sprintf("%s_%04d", dt, r.counter),
		Type:        dt,
		Slice:       st,
		ConnectedAt: r.now().UTC(),
		Latency:     lat,
		Throughput:  tp,
	}
	r.devices[d.ID] = d
	r.order = append(r.order, d.ID)
	return *d, nil
}

// Remove deletes the device with the given id. Absence is not an error; the
// boolean reports whether anything was removed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[id]; !ok {
		return false
	}
	delete(r.devices, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Snapshot returns a point-in-time copy of all devices in insertion order,
// safe to aggregate over without holding the registry lock.
func (r *Registry) Snapshot() []device.Device {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]device.Device, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.devices[id])
	}
	return out
}

// Count returns the number of live devices.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.devices)
}

// PerturbAll applies one metric perturbation to every device and returns how
// many were updated.
func (r *Registry) PerturbAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.devices {
		d.Latency, d.Throughput = r.gen.Perturb(d.Latency, d.Throughput)
	}
	return len(r.devices)
}

// Reset removes all devices and restarts the sequence counter.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.devices = make(map[string]*device.Device)
	r.order = nil
	r.counter = 0
}
