// Package sliceview provides the 2D slice widget: one anatomical plane with
// crosshairs, segmentation overlay, zoom/pan, and a slice slider.
package sliceview

import (
	stdimage "image"
	"image/color"

	"nifti-viewer/internal/app"
	"nifti-viewer/internal/image"
	"nifti-viewer/internal/render"
	"nifti-viewer/internal/view"
	"nifti-viewer/internal/volume"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// SliceView displays one anatomical plane of the active modality.
type SliceView struct {
	state *app.State
	axis  volume.Axis

	area   *viewArea
	slider *widget.Slider
	label  *widget.Label

	container *fyne.Container

	// updating suppresses slider callbacks while the widget syncs itself
	// from state changes.
	updating bool
}

// New creates a slice view for one axis and wires it to the state events.
func New(state *app.State, axis volume.Axis) *SliceView {
	sv := &SliceView{
		state: state,
		axis:  axis,
		label: widget.NewLabel(axis.String()),
	}

	sv.area = newViewArea(sv)

	sv.slider = widget.NewSlider(0, 1)
	sv.slider.Step = 1
	sv.slider.OnChanged = func(val float64) {
		if sv.updating {
			return
		}
		sv.state.SetSlice(sv.axis, int(val))
	}

	bar := fynecanvas.NewRaster(func(w, h int) stdimage.Image {
		return image.ScalarBar(render.CmapGray, w, h)
	})
	bar.SetMinSize(fyne.NewSize(10, 0))

	sv.container = container.NewBorder(
		sv.label,  // top
		sv.slider, // bottom
		nil,
		bar,
		sv.area,
	)

	state.On(app.EventSlicesChanged, func(interface{}) { sv.sync() })
	state.On(app.EventModalityChanged, func(interface{}) { sv.sync() })
	state.On(app.EventParamsChanged, func(interface{}) { sv.Refresh() })

	return sv
}

// Container returns the widget tree for layout.
func (sv *SliceView) Container() fyne.CanvasObject {
	return sv.container
}

// Canvas returns the zoom/pan state for this view.
func (sv *SliceView) Canvas() *view.Canvas2D {
	return sv.state.Canvases[sv.axis]
}

// Refresh redraws the slice raster.
func (sv *SliceView) Refresh() {
	sv.area.Refresh()
}

// sync updates the slider range and value from the slice state, then redraws.
func (sv *SliceView) sync() {
	sv.updating = true
	sv.slider.Max = float64(sv.state.Slices.Max(sv.axis))
	sv.slider.SetValue(float64(sv.state.Slices.Get(sv.axis)))
	sv.updating = false
	sv.label.SetText(sv.titleText())
	sv.area.Refresh()
}

func (sv *SliceView) titleText() string {
	return sv.axis.String()
}

// renderSlice rasterizes the current plane region into the viewport size.
func (sv *SliceView) renderSlice(w, h int) stdimage.Image {
	v := sv.state.ActiveVolume()
	if v == nil {
		return stdimage.NewUniform(color.Black)
	}
	idx := sv.state.Slices.Get(sv.axis)
	plane := v.ExtractSlice(sv.axis, idx)

	layer := image.NewLayer(plane)
	layer.Lo, layer.Hi = sv.state.Renderer.Clim()
	layer.Colormap = render.CmapGray

	comp := image.NewComposite(layer)
	if overlay := sv.state.ActiveOverlay(); overlay != nil {
		comp.Mask = overlay.ExtractSlice(sv.axis, idx)
		comp.MaskOn = true
	}
	comp.CrossH, comp.CrossV = sv.state.Slices.Crosshairs(sv.axis)

	full := comp.Render()

	xs, ys := sv.Canvas().Bounds()
	region := stdimage.Rect(int(xs.Min), int(ys.Min), int(xs.Max), int(ys.Max))
	return image.ScaleRegion(full, region, w, h)
}

// toPlane maps a widget position to slice-plane coordinates through the
// current zoom/pan bounds.
func (sv *SliceView) toPlane(pos fyne.Position) (float64, float64) {
	size := sv.area.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return 0, 0
	}
	xs, ys := sv.Canvas().Bounds()
	px := xs.Min + float64(pos.X)/float64(size.Width)*xs.Width()
	py := ys.Min + float64(pos.Y)/float64(size.Height)*ys.Width()
	return px, py
}

// viewArea is the interactive raster region of a slice view.
type viewArea struct {
	widget.BaseWidget
	sv     *SliceView
	raster *fynecanvas.Raster
}

var (
	_ fyne.Tappable       = (*viewArea)(nil)
	_ fyne.DoubleTappable = (*viewArea)(nil)
	_ fyne.Scrollable     = (*viewArea)(nil)
	_ desktop.Mouseable   = (*viewArea)(nil)
	_ desktop.Hoverable   = (*viewArea)(nil)
)

func newViewArea(sv *SliceView) *viewArea {
	va := &viewArea{sv: sv}
	va.raster = fynecanvas.NewRaster(func(w, h int) stdimage.Image {
		return sv.renderSlice(w, h)
	})
	va.ExtendBaseWidget(va)
	return va
}

func (va *viewArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(va.raster)
}

func (va *viewArea) MinSize() fyne.Size {
	return fyne.NewSize(160, 160)
}

// Tapped maps a click onto the other two axes per the crosshair table.
func (va *viewArea) Tapped(ev *fyne.PointEvent) {
	px, py := va.sv.toPlane(ev.Position)
	va.sv.state.ClickSlice(va.sv.axis, int(px), int(py))
}

// DoubleTapped resets this view's zoom/pan; slice indices are untouched.
func (va *viewArea) DoubleTapped(*fyne.PointEvent) {
	va.sv.Canvas().Reset()
	va.Refresh()
}

// Scrolled zooms around the data point under the cursor.
func (va *viewArea) Scrolled(ev *fyne.ScrollEvent) {
	px, py := va.sv.toPlane(ev.Position)
	va.sv.Canvas().ZoomAt(px, py, ev.Scrolled.DY < 0)
	va.Refresh()
}

// MouseDown starts a middle-button pan.
func (va *viewArea) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonTertiary {
		return
	}
	px, py := va.sv.toPlane(ev.Position)
	va.sv.Canvas().BeginPan(px, py)
}

// MouseUp finishes a pan drag.
func (va *viewArea) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonTertiary {
		return
	}
	va.sv.Canvas().EndPan()
}

func (va *viewArea) MouseIn(*desktop.MouseEvent) {}

func (va *viewArea) MouseOut() {
	va.sv.Canvas().EndPan()
}

// MouseMoved translates the view while a pan drag is active. The cursor is
// mapped through the bounds captured at drag start so the delta stays stable
// as the bounds move.
func (va *viewArea) MouseMoved(ev *desktop.MouseEvent) {
	c := va.sv.Canvas()
	if !c.Panning() {
		return
	}
	size := va.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	xs, ys := c.PanBounds()
	px := xs.Min + float64(ev.Position.X)/float64(size.Width)*xs.Width()
	py := ys.Min + float64(ev.Position.Y)/float64(size.Height)*ys.Width()
	c.PanTo(px, py)
	va.Refresh()
}
