// Simulator orchestrating the device registry and metric ticks.
package sim

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"slicesim/internal/config"
	"slicesim/internal/device"
	"slicesim/internal/logging"
)

// SnapshotWriter is an interface to support different output writers.
type SnapshotWriter interface {
	Write(device.MetricsSnapshot) error
}

// Simulator owns the registry, aggregator, broadcast hub, and tick loop. The
// hosting layer calls its synchronous methods and subscribes for live updates.
type Simulator struct {
	registry *Registry
	agg      *Aggregator
	hub      *Hub
	history  *History
	writer   SnapshotWriter

	tickInterval time.Duration
	now          func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSimulator wires the registry, aggregator, and hub from config. writer may
// be nil when no snapshot sink is configured.
func NewSimulator(cfg *config.Config, writer SnapshotWriter, rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	gen := device.NewGenerator(rng, cfg.Profiles())
	return &Simulator{
		registry:     NewRegistry(gen),
		agg:          NewAggregator(cfg.CapacityMbps),
		hub:          NewHub(cfg.HubBuffer),
		history:      NewHistory(cfg.HistoryLength),
		writer:       writer,
		tickInterval: cfg.TickInterval.Duration(),
		now:          time.Now,
	}
}

// Start launches the tick loop. Calling Start on a running simulator is a
// no-op.
func (s *Simulator) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	done := make(chan struct{})
	s.done = done
	go func() {
		defer close(done)
		s.Run(runCtx)
	}()
}

// Stop cancels the tick loop and waits for the in-flight cycle to finish.
// Stopping a stopped simulator is a no-op.
func (s *Simulator) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the tick loop is active.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Run drives the tick loop until the context is done.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "tick_interval", s.tickInterval)
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			log.Info("stopping simulator")
			return
		}
	}
}

// tick perturbs all device metrics, aggregates, and publishes the result.
// An empty registry skips the cycle entirely.
func (s *Simulator) tick(ctx context.Context) {
	log := logging.FromContext(ctx)

	if s.registry.PerturbAll() == 0 {
		return
	}

	snap := s.agg.Compute(s.registry.Snapshot(), s.now())
	s.history.Push(snap)

	if s.writer != nil {
		if err := s.writer.Write(snap); err != nil {
			log.Error("snapshot write failed", "err", err)
		}
	}
	s.hub.Publish(snap)
}

// AddDevice inserts one new device into the registry.
func (s *Simulator) AddDevice(dt device.DeviceType, st device.SliceType) (device.Device, error) {
	return s.registry.Add(dt, st)
}

// AddDevices inserts count devices sharing the single registry counter. It
// stops on the first error, returning whatever was added so far.
func (s *Simulator) AddDevices(dt device.DeviceType, st device.SliceType, count int) ([]device.Device, error) {
	if count <= 0 {
		count = 1
	}
	added := make([]device.Device, 0, count)
	for i := 0; i < count; i++ {
		d, err := s.registry.Add(dt, st)
		if err != nil {
			return added, err
		}
		added = append(added, d)
	}
	return added, nil
}

// RemoveDevice removes a device by id, reporting whether it existed.
func (s *Simulator) RemoveDevice(id string) bool {
	return s.registry.Remove(id)
}

// Devices returns a copy of all live devices in insertion order.
func (s *Simulator) Devices() []device.Device {
	return s.registry.Snapshot()
}

// DeviceCount returns the number of live devices.
func (s *Simulator) DeviceCount() int {
	return s.registry.Count()
}

// Metrics computes a point-in-time aggregate snapshot on demand.
func (s *Simulator) Metrics() device.MetricsSnapshot {
	return s.agg.Compute(s.registry.Snapshot(), s.now())
}

// History returns up to n recent snapshots, oldest first.
func (s *Simulator) History(n int) []device.MetricsSnapshot {
	return s.history.Recent(n)
}

// Reset clears all devices, the sequence counter, and the snapshot history.
func (s *Simulator) Reset() {
	s.registry.Reset()
	s.history.Clear()
}

// Subscribe registers a live snapshot subscription with the broadcast hub.
func (s *Simulator) Subscribe() *Subscription {
	return s.hub.Subscribe()
}

// Unsubscribe removes a subscription; unknown subscriptions are ignored.
func (s *Simulator) Unsubscribe(sub *Subscription) {
	s.hub.Unsubscribe(sub)
}

// Seed populates the registry from the configured device mix.
func (s *Simulator) Seed(groups []config.SeedGroup) error {
	for _, g := range groups {
		if _, err := s.AddDevices(device.DeviceType(g.DeviceType), device.SliceType(g.SliceType), g.Count); err != nil {
			return err
		}
	}
	return nil
}
