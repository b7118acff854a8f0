package sim

import (
	"sync"

	"github.com/google/uuid"

	"slicesim/internal/device"
)

// defaultHubBuffer is the per-subscriber channel depth when none is configured.
const defaultHubBuffer = 8

// Subscription is one delivery destination for published snapshots.
type Subscription struct {
	id string
	ch chan device.MetricsSnapshot
}

// Updates returns the channel snapshots are delivered on. The hub closes it
// when the subscription is removed.
func (s *Subscription) Updates() <-chan device.MetricsSnapshot {
	return s.ch
}

// Hub fans out snapshots to all registered subscribers. Its lock is
// independent of the registry so subscriber churn never blocks the tick loop
// on device mutations, and vice versa.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	buffer int
}

// NewHub creates a hub with the given per-subscriber buffer depth.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultHubBuffer
	}
	return &Hub{
		subs:   make(map[string]*Subscription),
		buffer: buffer,
	}
}

// Subscribe registers a new delivery destination.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		id: uuid.New().String(),
		ch: make(chan device.MetricsSnapshot, h.buffer),
	}
	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscription and closes its channel. Removing an
// unknown subscription is a no-op.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	delete(h.subs, sub.id)
	close(sub.ch)
}

// Publish delivers a snapshot to every subscriber without blocking. A
// subscriber whose buffer is full is dropped from the hub instead of delaying
// the others; publish order is preserved per subscriber by its channel.
func (h *Hub) Publish(snap device.MetricsSnapshot) {
	var stale []*Subscription

	h.mu.RLock()
	for _, sub := range h.subs {
		select {
		case sub.ch <- snap:
		default:
			stale = append(stale, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range stale {
		h.Unsubscribe(sub)
	}
}

// SubscriberCount returns the number of active subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
