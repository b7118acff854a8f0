package sim

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"slicesim/internal/device"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// snapshotMsg carries a new aggregate snapshot into the TUI.
type snapshotMsg struct{ device.MetricsSnapshot }

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	borderStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

// TUIWriter renders live snapshots using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter. When the
// user quits the TUI, the process receives an interrupt so the simulator
// shuts down with it.
func NewTUIWriter() *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(), tea.WithAltScreen())
	w.program = p
	go func() {
		_ = p.Start()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements SnapshotWriter.
func (w *TUIWriter) Write(snap device.MetricsSnapshot) error {
	w.program.Send(snapshotMsg{snap})
	return nil
}

// Close stops the TUI without signalling the process.
func (w *TUIWriter) Close() {
	w.sendSignal.Store(false)
	if p, ok := w.program.(*tea.Program); ok {
		p.Quit()
		<-w.done
	}
}

type tuiModel struct {
	snap    device.MetricsSnapshot
	hasSnap bool
	devices table.Model
}

func newTUIModel() tuiModel {
	cols := []table.Column{
		{Title: "ID", Width: 18},
		{Title: "Type", Width: 12},
		{Title: "Slice", Width: 7},
		{Title: "Latency", Width: 10},
		{Title: "Throughput", Width: 12},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(deviceListLimit))
	return tuiModel{devices: t}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case snapshotMsg:
		m.snap = msg.MetricsSnapshot
		m.hasSnap = true
		rows := make([]table.Row, 0, len(m.snap.Devices))
		for _, d := range m.snap.Devices {
			rows = append(rows, table.Row{
				d.ID,
				string(d.Type),
				string(d.Slice),
				fmt.Sprintf("%.2f ms", d.Latency),
				fmt.Sprintf("%.2f Mbps", d.Throughput),
			})
		}
		m.devices.SetRows(rows)
	}
	var cmd tea.Cmd
	m.devices, cmd = m.devices.Update(msg)
	return m, cmd
}

func (m tuiModel) View() string {
	header := titleStyle.Render("slicesim 5G network slices")
	if !m.hasSnap {
		return header + "\n\n" + labelStyle.Render("waiting for first tick... (q to quit)")
	}

	loadStyle := okStyle
	switch {
	case m.snap.NetworkLoad > loadCongested:
		loadStyle = alertStyle
	case m.snap.NetworkLoad > loadDegraded:
		loadStyle = warnStyle
	}

	summary := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		labelStyle.Render("load:"), loadStyle.Render(fmt.Sprintf("%.2f%%", m.snap.NetworkLoad)),
		labelStyle.Render("devices:"), fmt.Sprintf("%d", m.snap.TotalDevices),
		labelStyle.Render("avg latency:"), fmt.Sprintf("%.2f ms", m.snap.AvgLatency),
		labelStyle.Render("throughput:"), fmt.Sprintf("%.2f Mbps", m.snap.Throughput),
	)

	dist := ""
	for _, s := range device.Slices() {
		dist += fmt.Sprintf("%s %d  ", labelStyle.Render(string(s)+":"), m.snap.SliceDistribution[s])
	}

	footer := labelStyle.Render(m.snap.Timestamp.Format(time.RFC3339) + "  (q to quit)")
	return header + "\n\n" + summary + "\n" + dist + "\n" +
		borderStyle.Render(m.devices.View()) + "\n" + footer
}
