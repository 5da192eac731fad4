package backend

import (
	"log/slog"
	"os"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestDummySetAndRestore(t *testing.T) {
	d, err := NewDummy(nil, testLogger())
	if err != nil {
		t.Fatalf("NewDummy: %v", err)
	}

	saved := make([]uint16, dummyRampSize)
	copy(saved, d.Ramp(2))

	if err := d.SetTemperature(3700, [3]float64{1.0, 1.0, 1.0}); err != nil {
		t.Fatalf("SetTemperature: %v", err)
	}
	if d.Kelvin() != 3700 {
		t.Errorf("expected 3700K applied, got %d", d.Kelvin())
	}

	// Warm temperature suppresses the blue channel relative to the
	// saved neutral ramp.
	top := dummyRampSize - 1
	if d.Ramp(2)[top] >= saved[top] {
		t.Errorf("expected blue channel reduced at 3700K, got %d >= %d", d.Ramp(2)[top], saved[top])
	}

	if err := d.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if d.Ramp(2)[top] != saved[top] {
		t.Errorf("expected restore to reapply saved ramp, got %d want %d", d.Ramp(2)[top], saved[top])
	}
	if d.Kelvin() != neutralTemp {
		t.Errorf("expected neutral after restore, got %d", d.Kelvin())
	}
}

func TestDummyRepeatedSet(t *testing.T) {
	d, err := NewDummy(nil, testLogger())
	if err != nil {
		t.Fatalf("NewDummy: %v", err)
	}

	for _, kelvin := range []int{5500, 5000, 4500, 4000, 3700} {
		if err := d.SetTemperature(kelvin, [3]float64{1.0, 1.0, 1.0}); err != nil {
			t.Fatalf("SetTemperature(%d): %v", kelvin, err)
		}
	}
	if d.Kelvin() != 3700 {
		t.Errorf("expected last applied temperature 3700, got %d", d.Kelvin())
	}
}
