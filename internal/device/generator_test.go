package device

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)), DefaultProfiles())
}

func TestInitialWithinRanges(t *testing.T) {
	gen := newTestGenerator(1)
	for i := 0; i < 100; i++ {
		lat, tp, err := gen.Initial(TypeSmartphone, SliceEMBB)
		if err != nil {
			t.Fatalf("Initial returned error: %v", err)
		}
		if lat < 10 || lat > 30 {
			t.Errorf("latency %f outside eMBB range [10,30]", lat)
		}
		if tp < 100 || tp > 1000 {
			t.Errorf("throughput %f outside smartphone/eMBB range [100,1000]", tp)
		}
	}
}

func TestInitialUnknownThroughputCombination(t *testing.T) {
	gen := newTestGenerator(1)
	_, _, err := gen.Initial(DeviceType("toaster"), SliceEMBB)
	if !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
	_, _, err = gen.Initial(TypeIoT, SliceType("xMBB"))
	if !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile for unknown slice, got %v", err)
	}
}

func TestInitialLatencyFallbackForUnknownSlice(t *testing.T) {
	// Unknown slices fall back to the default latency range, but throughput
	// still has to be configured for the combination.
	profiles := DefaultProfiles()
	profiles.Throughput[TypeIoT][SliceType("custom")] = Range{Min: 1, Max: 2}
	gen := NewGenerator(rand.New(rand.NewSource(7)), profiles)

	for i := 0; i < 50; i++ {
		lat, _, err := gen.Initial(TypeIoT, SliceType("custom"))
		if err != nil {
			t.Fatalf("Initial returned error: %v", err)
		}
		if lat < 10 || lat > 50 {
			t.Errorf("fallback latency %f outside [10,50]", lat)
		}
	}
}

func TestPerturbClampsToFloor(t *testing.T) {
	gen := newTestGenerator(42)
	lat, tp := 1.0, 1.0
	for i := 0; i < 1000; i++ {
		lat, tp = gen.Perturb(lat, tp)
		if lat < 1.0 {
			t.Fatalf("latency %f dropped below floor", lat)
		}
		if tp < 1.0 {
			t.Fatalf("throughput %f dropped below floor", tp)
		}
	}
}

func TestPerturbDeterministicWithSeed(t *testing.T) {
	a := newTestGenerator(99)
	b := newTestGenerator(99)
	latA, tpA := 20.0, 300.0
	latB, tpB := 20.0, 300.0
	for i := 0; i < 10; i++ {
		latA, tpA = a.Perturb(latA, tpA)
		latB, tpB = b.Perturb(latB, tpB)
	}
	if latA != latB || tpA != tpB {
		t.Errorf("same seed diverged: (%f,%f) vs (%f,%f)", latA, tpA, latB, tpB)
	}
}

func TestMetricsSnapshotTableName(t *testing.T) {
	orig := MetricsTableName
	MetricsTableName = "custom"
	defer func() { MetricsTableName = orig }()
	if (MetricsSnapshot{}).TableName() != "custom" {
		t.Errorf("expected custom table name, got %s", (MetricsSnapshot{}).TableName())
	}
}
