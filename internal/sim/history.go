package sim

import (
	"sync"

	"github.com/gammazero/deque"

	"slicesim/internal/device"
)

// defaultHistoryLength bounds the in-memory snapshot ring.
const defaultHistoryLength = 100

// History keeps the most recent aggregate snapshots in a bounded ring.
type History struct {
	mu    sync.Mutex
	ring  deque.Deque[device.MetricsSnapshot]
	limit int
}

// NewHistory creates a history ring keeping at most limit snapshots.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = defaultHistoryLength
	}
	return &History{limit: limit}
}

// Push appends a snapshot, evicting the oldest when full.
func (h *History) Push(snap device.MetricsSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ring.PushBack(snap)
	if h.ring.Len() > h.limit {
		h.ring.PopFront()
	}
}

// Recent returns up to n snapshots, oldest first. n <= 0 returns everything.
func (h *History) Recent(n int) []device.MetricsSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	total := h.ring.Len()
	if n <= 0 || n > total {
		n = total
	}
	out := make([]device.MetricsSnapshot, 0, n)
	for i := total - n; i < total; i++ {
		out = append(out, h.ring.At(i))
	}
	return out
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ring.Len()
}

// Clear drops all stored snapshots.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ring.Clear()
}
