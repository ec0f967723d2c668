package render

import (
	"time"

	"nifti-viewer/internal/volume"
)

// DoubleClickTimeout is the window within which a second primary-button
// press counts toward a fullscreen toggle.
const DoubleClickTimeout = 300 * time.Millisecond

// ClickCounter implements time-windowed double-click detection. A second
// press within the timeout fires the toggle and resets the counter; a press
// after the timeout restarts counting at one.
type ClickCounter struct {
	Timeout time.Duration
	count   int
	last    time.Time
}

// NewClickCounter returns a counter with the default timeout.
func NewClickCounter() *ClickCounter {
	return &ClickCounter{Timeout: DoubleClickTimeout}
}

// Press records a primary-button press at the given time and reports whether
// it completes a double-click.
func (c *ClickCounter) Press(now time.Time) bool {
	if !c.last.IsZero() && now.Sub(c.last) < c.Timeout {
		c.count++
		if c.count >= 2 {
			c.count = 0
			c.last = now
			return true
		}
	} else {
		c.count = 1
	}
	c.last = now
	return false
}

// Mirror duplicates the primary renderer's state into an independent
// fullscreen surface. While active, the mirror is the sole writer of the
// parameter model; on exit the final parameters are written back to the
// primary renderer through the reconciliation callback, then re-rendered.
type Mirror struct {
	renderer *Renderer
	primary  *Renderer
	onExit   func(Params)

	Modalities   []string
	Current      string
	PatientLabel string

	active bool
}

// EnterMirror creates a mirror over the given fullscreen engine, copies the
// primary renderer's parameters and volumes, and renders with a camera fit
// (entering fullscreen for the first time always resets the camera).
func EnterMirror(primary *Renderer, engine Engine, onExit func(Params)) *Mirror {
	m := &Mirror{
		renderer: NewRenderer(engine),
		primary:  primary,
		onExit:   onExit,
		active:   true,
	}
	m.renderer.Params = primary.Params
	m.renderer.SetVolume(primary.Base(), primary.Overlay(), false)
	m.renderer.Render(true)
	return m
}

// Active reports whether the mirror surface is live.
func (m *Mirror) Active() bool { return m.active }

// Renderer exposes the mirror's own renderer for its control panel.
func (m *Mirror) Renderer() *Renderer { return m.renderer }

// Params returns the mirror's working parameter copy.
func (m *Mirror) Params() Params { return m.renderer.Params }

// SetParams replaces the working copy and re-renders, preserving the camera.
func (m *Mirror) SetParams(p Params) {
	m.renderer.Params = p
	m.renderer.Render(false)
}

// SwitchModality swaps the mirrored volumes. The new volume's data range is
// re-derived while the held window percentages are preserved, so the same
// relative contrast applies to the new intensity range.
func (m *Mirror) SwitchModality(name string, base, overlay *volume.Volume) {
	m.Current = name
	m.renderer.SetVolume(base, overlay, false)
	m.renderer.Render(false)
}

// RefreshAfterPatientChange re-derives every displayed quantity after
// navigating patients while mirrored: label, modality list, volumes, and
// the absolute contrast bounds, without losing the in-progress window.
func (m *Mirror) RefreshAfterPatientChange(label string, modalities []string, current string, base, overlay *volume.Volume) {
	m.PatientLabel = label
	m.Modalities = modalities
	m.Current = current
	m.renderer.SetVolume(base, overlay, false)
	m.renderer.Render(false)
}

// ResetCamera refits the mirror camera.
func (m *Mirror) ResetCamera() {
	if e := m.renderer.Engine(); e != nil {
		e.ResetCamera()
	}
}

// Exit discards the mirror surface: the working parameters become the single
// source of truth, written back to the primary renderer before its controls
// re-sync and a final re-render runs.
func (m *Mirror) Exit() Params {
	if !m.active {
		return m.renderer.Params
	}
	m.active = false
	p := m.renderer.Params
	m.primary.Params = p
	if m.onExit != nil {
		m.onExit(p)
	}
	m.primary.Render(false)
	return p
}
