package render

import (
	"testing"
	"time"

	"nifti-viewer/internal/view"
)

// TestMirrorReconciliation verifies parameters changed inside fullscreen land
// on the primary renderer after exit, through the reconciliation callback.
func TestMirrorReconciliation(t *testing.T) {
	primaryEngine := &fakeEngine{}
	primary := NewRenderer(primaryEngine)
	primary.SetVolume(grayVolume("t1", [3]int{4, 4, 4}, 10), nil, false)

	var reconciled *Params
	m := EnterMirror(primary, &fakeEngine{}, func(p Params) {
		reconciled = &p
	})

	p := m.Params()
	p.Colormap = CmapBone
	p.Background = 0.8
	m.SetParams(p)

	m.Exit()

	if reconciled == nil {
		t.Fatal("Reconciliation callback never fired")
	}
	if reconciled.Colormap != CmapBone || reconciled.Background != 0.8 {
		t.Errorf("Callback got stale params: %+v", reconciled)
	}
	if primary.Params.Colormap != CmapBone {
		t.Errorf("Expected primary colormap bone, got %s", primary.Params.Colormap)
	}
	if primary.Params.Background != 0.8 {
		t.Errorf("Expected primary background 0.8, got %f", primary.Params.Background)
	}
	if m.Active() {
		t.Error("Mirror must be inactive after exit")
	}
}

// TestMirrorExitRendersPrimary verifies the primary surface re-renders once
// after reconciliation.
func TestMirrorExitRendersPrimary(t *testing.T) {
	primaryEngine := &fakeEngine{}
	primary := NewRenderer(primaryEngine)
	primary.SetVolume(grayVolume("t1", [3]int{4, 4, 4}, 10), nil, false)
	primary.Render(true)
	before := primaryEngine.applied

	m := EnterMirror(primary, &fakeEngine{}, nil)
	m.Exit()
	if primaryEngine.applied != before+1 {
		t.Errorf("Expected one primary re-render on exit, got %d", primaryEngine.applied-before)
	}

	// A second exit is a no-op.
	m.Exit()
	if primaryEngine.applied != before+1 {
		t.Error("Double exit must not re-render again")
	}
}

// TestMirrorSwitchModalityPreservesWindow verifies the central correctness
// requirement: the held percentages survive a modality switch and the clim
// re-resolves against the new volume's own range.
func TestMirrorSwitchModalityPreservesWindow(t *testing.T) {
	primary := NewRenderer(&fakeEngine{})
	a := grayVolume("a", [3]int{2, 2, 2}, 0)
	a.Data[0] = 1000
	primary.SetVolume(a, nil, false)
	primary.Params.Window = view.WindowLevel{MinPct: 100, MaxPct: 900}

	m := EnterMirror(primary, &fakeEngine{}, nil)

	b := grayVolume("b", [3]int{2, 2, 2}, 0)
	b.Data[0] = 10
	m.SwitchModality("b", b, nil)

	p := m.Params()
	if p.Window.MinPct != 100 || p.Window.MaxPct != 900 {
		t.Errorf("Percentages lost: (%d, %d)", p.Window.MinPct, p.Window.MaxPct)
	}
	lo, hi := m.Renderer().Clim()
	if lo != 1 || hi != 9 {
		t.Errorf("Expected clim [1, 9] against the new range, got [%f, %f]", lo, hi)
	}
	if m.Current != "b" {
		t.Errorf("Expected current modality b, got %s", m.Current)
	}
}

// TestMirrorRefreshAfterPatientChange verifies every derived quantity updates
// while the in-progress contrast selection is kept.
func TestMirrorRefreshAfterPatientChange(t *testing.T) {
	primary := NewRenderer(&fakeEngine{})
	primary.SetVolume(grayVolume("t1", [3]int{2, 2, 2}, 5), nil, false)

	m := EnterMirror(primary, &fakeEngine{}, nil)
	p := m.Params()
	p.Window = view.WindowLevel{MinPct: 250, MaxPct: 750}
	m.SetParams(p)

	next := grayVolume("t1", [3]int{2, 2, 2}, 0)
	next.Data[0] = 100
	m.RefreshAfterPatientChange("case-two (2/3)", []string{"t1", "seg"}, "t1", next, nil)

	if m.PatientLabel != "case-two (2/3)" {
		t.Errorf("Label not refreshed: %s", m.PatientLabel)
	}
	if len(m.Modalities) != 2 {
		t.Errorf("Modality list not refreshed: %v", m.Modalities)
	}
	got := m.Params().Window
	if got.MinPct != 250 || got.MaxPct != 750 {
		t.Errorf("Contrast selection lost: (%d, %d)", got.MinPct, got.MaxPct)
	}
	lo, hi := m.Renderer().Clim()
	if lo != 25 || hi != 75 {
		t.Errorf("Expected clim [25, 75], got [%f, %f]", lo, hi)
	}
}

// TestMirrorEntryResetsCamera verifies entering fullscreen fits the mirror
// camera on its own engine.
func TestMirrorEntryResetsCamera(t *testing.T) {
	primary := NewRenderer(&fakeEngine{})
	primary.SetVolume(grayVolume("t1", [3]int{2, 2, 2}, 5), nil, false)

	mirrorEngine := &fakeEngine{}
	EnterMirror(primary, mirrorEngine, nil)
	if mirrorEngine.resets != 1 {
		t.Errorf("Expected camera fit on entry, got %d resets", mirrorEngine.resets)
	}
}

// TestClickCounter verifies the time-windowed double-click protocol.
func TestClickCounter(t *testing.T) {
	c := NewClickCounter()
	t0 := time.Now()

	if c.Press(t0) {
		t.Error("First press must not toggle")
	}
	if !c.Press(t0.Add(100 * time.Millisecond)) {
		t.Error("Second press within the timeout must toggle")
	}

	// The counter resets after a toggle: the next pair toggles again.
	if c.Press(t0.Add(200 * time.Millisecond)) {
		t.Error("Press after a toggle must start a new count")
	}
	if !c.Press(t0.Add(250 * time.Millisecond)) {
		t.Error("Expected a second toggle from the next pair")
	}
}

// TestClickCounterTimeout verifies clicks spaced past the window never
// toggle.
func TestClickCounterTimeout(t *testing.T) {
	c := NewClickCounter()
	t0 := time.Now()

	if c.Press(t0) {
		t.Error("First press must not toggle")
	}
	if c.Press(t0.Add(500 * time.Millisecond)) {
		t.Error("Press past the timeout must restart counting, not toggle")
	}
	if !c.Press(t0.Add(700 * time.Millisecond)) {
		t.Error("Pair within the window after restart must toggle")
	}
}
