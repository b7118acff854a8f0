package sim

import (
	"bytes"
	"strings"
	"testing"

	"slicesim/internal/config"
	"slicesim/internal/device"
)

func TestColorStdoutWriterOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.SeedDevices = []config.SeedGroup{{DeviceType: "iot", SliceType: "mMTC", Count: 3}}
	w := &ColorStdoutWriter{cfg: cfg, out: &buf}

	snap := snapshotAt(2)
	snap.NetworkLoad = 95
	snap.SliceDistribution = map[device.SliceType]int{
		device.SliceEMBB: 1, device.SliceURLLC: 0, device.SliceMMTC: 1,
	}
	if err := w.Write(snap); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Write(snap); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	out := buf.String()
	if n := strings.Count(out, "Simulation Configuration:"); n != 1 {
		t.Errorf("config overview must print exactly once, got %d", n)
	}
	if !strings.Contains(out, "Seed Devices:") {
		t.Errorf("expected seed device table in overview")
	}
	for _, want := range []string{"load=95.00%", "devices=2", "eMBB=1", "mMTC=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !strings.Contains(out, colorRed) {
		t.Errorf("load above congestion threshold should render red")
	}
}

func TestLoadColorBands(t *testing.T) {
	cases := []struct {
		load float64
		want string
	}{
		{10, colorGreen},
		{60, colorGreen},
		{61, colorYellow},
		{80, colorYellow},
		{81, colorRed},
	}
	for _, c := range cases {
		if got := loadColor(c.load); got != c.want {
			t.Errorf("loadColor(%.0f) = %q, want %q", c.load, got, c.want)
		}
	}
}
