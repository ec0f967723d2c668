package view

// ZoomStep is the per-scroll-tick zoom factor. Scrolling down zooms out by
// ZoomStep, scrolling up zooms in by 1/ZoomStep.
const ZoomStep = 1.2

// Span is a half-open axis interval in slice coordinates.
type Span struct {
	Min, Max float64
}

// Width returns the interval length.
func (s Span) Width() float64 { return s.Max - s.Min }

// Canvas2D holds per-view zoom/pan state, independent of the slice index.
// When no zoom or pan has been applied the view autoscales to the full
// slice extent.
type Canvas2D struct {
	X, Y Span
	// zoomed is false while the view tracks the full extent.
	zoomed bool

	extentW, extentH float64

	panning          bool
	panX, panY       float64 // cursor at drag start
	panXSpan, panYSpan Span  // bounds at drag start
}

// NewCanvas2D returns an autoscaled canvas state.
func NewCanvas2D() *Canvas2D {
	return &Canvas2D{}
}

// SetExtent records the full slice extent used when autoscaled.
func (c *Canvas2D) SetExtent(w, h float64) {
	c.extentW, c.extentH = w, h
}

// Bounds returns the current view bounds: the stored zoomed bounds, or the
// full extent when autoscaled.
func (c *Canvas2D) Bounds() (x, y Span) {
	if c.zoomed {
		return c.X, c.Y
	}
	return Span{0, c.extentW}, Span{0, c.extentH}
}

// Zoomed reports whether explicit bounds are active.
func (c *Canvas2D) Zoomed() bool { return c.zoomed }

// ZoomAt scales the view around the data point under the cursor, which stays
// fixed on screen. out=true grows the visible span by ZoomStep, out=false
// shrinks it by 1/ZoomStep.
func (c *Canvas2D) ZoomAt(cx, cy float64, out bool) {
	factor := 1.0 / ZoomStep
	if out {
		factor = ZoomStep
	}
	xs, ys := c.Bounds()
	if xs.Width() <= 0 || ys.Width() <= 0 {
		return
	}

	relX := (cx - xs.Min) / xs.Width()
	relY := (cy - ys.Min) / ys.Width()
	newW := xs.Width() * factor
	newH := ys.Width() * factor

	c.X = Span{Min: cx - relX*newW, Max: cx + (1-relX)*newW}
	c.Y = Span{Min: cy - relY*newH, Max: cy + (1-relY)*newH}
	c.zoomed = true
}

// BeginPan starts a middle-button drag at the given data coordinates.
func (c *Canvas2D) BeginPan(cx, cy float64) {
	c.panning = true
	c.panX, c.panY = cx, cy
	c.panXSpan, c.panYSpan = c.Bounds()
}

// PanTo translates the bounds by the cursor delta since drag start. No-op
// unless a pan is active.
func (c *Canvas2D) PanTo(cx, cy float64) {
	if !c.panning {
		return
	}
	dx := c.panX - cx
	dy := c.panY - cy
	c.X = Span{Min: c.panXSpan.Min + dx, Max: c.panXSpan.Max + dx}
	c.Y = Span{Min: c.panYSpan.Min + dy, Max: c.panYSpan.Max + dy}
	c.zoomed = true
}

// PanBounds returns the bounds captured at drag start. Cursor positions
// during the drag must be mapped through these, not the moving bounds.
func (c *Canvas2D) PanBounds() (x, y Span) {
	return c.panXSpan, c.panYSpan
}

// EndPan finishes a drag.
func (c *Canvas2D) EndPan() {
	c.panning = false
}

// Panning reports whether a drag is in progress.
func (c *Canvas2D) Panning() bool { return c.panning }

// Reset clears stored bounds and returns to autoscale. Triggered by
// double-click on a 2D view; slice indices are not affected.
func (c *Canvas2D) Reset() {
	c.zoomed = false
	c.panning = false
}
