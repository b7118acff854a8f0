package sim

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"slicesim/internal/device"
)

type fakeProgram struct{ msgs []tea.Msg }

func (p *fakeProgram) Send(msg tea.Msg) { p.msgs = append(p.msgs, msg) }

func TestTUIWriterForwardsSnapshots(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p, done: make(chan struct{})}

	if err := w.Write(snapshotAt(4)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if len(p.msgs) != 1 {
		t.Fatalf("expected 1 forwarded message, got %d", len(p.msgs))
	}
	msg, ok := p.msgs[0].(snapshotMsg)
	if !ok {
		t.Fatalf("expected snapshotMsg, got %T", p.msgs[0])
	}
	if msg.TotalDevices != 4 {
		t.Errorf("unexpected snapshot in message: %+v", msg.MetricsSnapshot)
	}
}

func TestTUIModelUpdateAndView(t *testing.T) {
	m := newTUIModel()
	if !strings.Contains(m.View(), "waiting for first tick") {
		t.Errorf("expected placeholder view before first snapshot")
	}

	snap := snapshotAt(2)
	snap.AvgLatency = 12.5
	snap.Devices = []device.DeviceSummary{
		{ID: "smartphone_0001", Type: device.TypeSmartphone, Slice: device.SliceEMBB, Latency: 15, Throughput: 120},
		{ID: "iot_0002", Type: device.TypeIoT, Slice: device.SliceMMTC, Latency: 80, Throughput: 2},
	}
	next, _ := m.Update(snapshotMsg{snap})
	m = next.(tuiModel)

	view := m.View()
	for _, want := range []string{"smartphone_0001", "iot_0002", "12.50 ms", "devices:"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTUIModelQuitKeys(t *testing.T) {
	m := newTUIModel()
	for _, key := range []string{"q", "ctrl+c"} {
		var msg tea.KeyMsg
		if key == "q" {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("expected quit command for %q", key)
		}
	}
}
