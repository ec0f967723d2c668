package view

import "testing"

// TestResolveAlwaysNonEmpty verifies lo < hi for every degenerate window,
// including inverted percentages and collapsed ranges.
func TestResolveAlwaysNonEmpty(t *testing.T) {
	cases := []struct {
		name           string
		minPct, maxPct int
		dataMin        float64
		dataMax        float64
	}{
		{"inverted", 900, 100, 0, 100},
		{"equal", 500, 500, -50, 50},
		{"full", 0, 1000, 0, 255},
		{"both zero", 0, 0, 0, 1000},
		{"both max", 1000, 1000, 0, 1000},
	}
	for _, tc := range cases {
		w := WindowLevel{MinPct: tc.minPct, MaxPct: tc.maxPct}
		lo, hi := w.Resolve(tc.dataMin, tc.dataMax)
		if lo >= hi {
			t.Errorf("%s: expected lo < hi, got [%f, %f]", tc.name, lo, hi)
		}
	}
}

// TestResolveConstantVolume verifies the zero-width data range guard.
func TestResolveConstantVolume(t *testing.T) {
	w := FullRange()
	lo, hi := w.Resolve(42, 42)
	if lo != 42 {
		t.Errorf("Expected lo=42, got %f", lo)
	}
	if hi != 43 {
		t.Errorf("Expected hi=lo+1, got %f", hi)
	}
}

// TestResolveLinearMapping checks the percentage-to-intensity formula.
func TestResolveLinearMapping(t *testing.T) {
	w := WindowLevel{MinPct: 100, MaxPct: 900}
	lo, hi := w.Resolve(0, 1000)
	if lo != 100 {
		t.Errorf("Expected lo=100, got %f", lo)
	}
	if hi != 900 {
		t.Errorf("Expected hi=900, got %f", hi)
	}

	// Same percentages against a different range.
	lo, hi = w.Resolve(-500, 500)
	if lo != -400 {
		t.Errorf("Expected lo=-400, got %f", lo)
	}
	if hi != 400 {
		t.Errorf("Expected hi=400, got %f", hi)
	}
}

// TestSetMinPctWidensMax verifies the invariant correction: a lower bound at
// or above the upper bound widens the upper bound, never errors.
func TestSetMinPctWidensMax(t *testing.T) {
	w := WindowLevel{MinPct: 0, MaxPct: 500}
	w.SetMinPct(500)
	if w.MinPct >= w.MaxPct {
		t.Errorf("Expected min < max after correction, got %d >= %d", w.MinPct, w.MaxPct)
	}

	// At the top of the slider range the lower bound must give way.
	w = WindowLevel{MinPct: 0, MaxPct: 1000}
	w.SetMinPct(1000)
	if w.MinPct >= w.MaxPct {
		t.Errorf("Expected min < max at slider top, got %d >= %d", w.MinPct, w.MaxPct)
	}
	if w.MaxPct > WindowScale {
		t.Errorf("Max escaped the slider range: %d", w.MaxPct)
	}
}

func TestSetMaxPctClampsUpward(t *testing.T) {
	w := WindowLevel{MinPct: 400, MaxPct: 800}
	w.SetMaxPct(200)
	if w.MaxPct <= w.MinPct {
		t.Errorf("Expected max > min after correction, got %d <= %d", w.MaxPct, w.MinPct)
	}
}

// TestPresets verifies the name table and tenths conversion.
func TestPresets(t *testing.T) {
	w := FullRange()
	if !w.ApplyPreset("Brain") {
		t.Fatal("Brain preset not found")
	}
	if w.MinPct != 0 || w.MaxPct != 400 {
		t.Errorf("Expected Brain = (0, 400) tenths, got (%d, %d)", w.MinPct, w.MaxPct)
	}

	if w.ApplyPreset("Nonexistent") {
		t.Error("Unknown preset should not apply")
	}
	if w.MinPct != 0 || w.MaxPct != 400 {
		t.Error("Unknown preset must leave the window unchanged")
	}

	for _, name := range PresetNames() {
		if _, ok := LookupPreset(name); !ok {
			t.Errorf("PresetNames lists %q but lookup fails", name)
		}
	}
}
