// Package volumeview provides the 3D composite widget: a software
// maximum-intensity projection of the windowed volume with the segmentation
// overlay, driven through the render.Engine scene protocol.
package volumeview

import (
	stdimage "image"
	"image/color"
	"time"

	"nifti-viewer/internal/render"
	"nifti-viewer/internal/volume"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// View displays the 3D composite and detects the fullscreen double-click.
type View struct {
	widget.BaseWidget

	engine *Engine
	raster *fynecanvas.Raster
	clicks *render.ClickCounter

	// OnToggleFullscreen fires when a double-click lands within the timeout.
	OnToggleFullscreen func()
}

var _ fyne.Tappable = (*View)(nil)
var _ fyne.SecondaryTappable = (*View)(nil)

// New creates the widget and its software engine.
func New() *View {
	v := &View{
		engine: NewEngine(),
		clicks: render.NewClickCounter(),
	}
	v.raster = fynecanvas.NewRaster(v.engine.Rasterize)
	v.engine.onChange = v.Refresh
	v.ExtendBaseWidget(v)
	return v
}

// Engine returns the widget's render engine for attaching to a renderer.
func (v *View) Engine() *Engine { return v.engine }

// SetDoubleClickTimeout overrides the fullscreen toggle detection window.
func (v *View) SetDoubleClickTimeout(d time.Duration) {
	v.clicks.Timeout = d
}

func (v *View) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

func (v *View) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

// Tapped counts primary clicks toward the fullscreen toggle.
func (v *View) Tapped(*fyne.PointEvent) {
	if v.clicks.Press(time.Now()) && v.OnToggleFullscreen != nil {
		v.OnToggleFullscreen()
	}
}

// TappedSecondary orbits the camera to the next principal axis.
func (v *View) TappedSecondary(*fyne.PointEvent) {
	v.engine.orbit()
	v.Refresh()
}

// Engine is a software render.Engine: it rasterizes the scene description by
// maximum-intensity projection along the camera's dominant axis. It keeps
// exactly one extra pass alive; Apply tears down the previous one first.
type Engine struct {
	scene      *render.Scene
	cam        render.Camera
	background float64

	// extraPass is the attached always-visible overlay pass, nil when the
	// scene composites in the main pass.
	extraPass *render.Isosurface

	onChange func()
}

var _ render.Engine = (*Engine)(nil)

// NewEngine creates an engine with an unset camera.
func NewEngine() *Engine {
	return &Engine{}
}

// HasExtraPass reports whether an always-visible pass is attached.
func (e *Engine) HasExtraPass() bool { return e.extraPass != nil }

// Apply replaces the scene graph. Any previously attached extra pass is
// removed before the new one is installed.
func (e *Engine) Apply(s *render.Scene) {
	e.extraPass = nil
	e.scene = s
	if s != nil && s.OverlayPass != nil {
		e.extraPass = s.OverlayPass
	}
	if e.onChange != nil {
		e.onChange()
	}
}

// Camera returns the current view transform.
func (e *Engine) Camera() render.Camera { return e.cam }

// SetCamera restores a captured transform.
func (e *Engine) SetCamera(cam render.Camera) {
	e.cam = cam
	if e.onChange != nil {
		e.onChange()
	}
}

// ResetCamera fits the default isometric orientation.
func (e *Engine) ResetCamera() {
	e.cam = render.Camera{
		Position: [3]float64{1, 1, 1},
		Focal:    [3]float64{0, 0, 0},
		Up:       [3]float64{0, 0, 1},
		Valid:    true,
	}
	if e.onChange != nil {
		e.onChange()
	}
}

// SetBackground sets the surface background brightness.
func (e *Engine) SetBackground(level float64) {
	e.background = level
	if e.onChange != nil {
		e.onChange()
	}
}

// orbit rotates the view direction to the next principal axis.
func (e *Engine) orbit() {
	p := e.cam.Position
	e.cam.Position = [3]float64{p[2], p[0], p[1]}
	e.cam.Valid = true
}

// projectionAxis picks the volume axis most aligned with the view direction.
func (e *Engine) projectionAxis() int {
	d := [3]float64{
		e.cam.Position[0] - e.cam.Focal[0],
		e.cam.Position[1] - e.cam.Focal[1],
		e.cam.Position[2] - e.cam.Focal[2],
	}
	axis := 2
	best := 0.0
	for i, v := range d {
		if v < 0 {
			v = -v
		}
		if v > best {
			best = v
			axis = i
		}
	}
	return axis
}

// Rasterize renders the scene into a widget-sized image.
func (e *Engine) Rasterize(w, h int) stdimage.Image {
	bg := uint8(clamp01(e.background)*255 + 0.5)
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, maxInt(w, 1), maxInt(h, 1)))
	fill(img, color.RGBA{R: bg, G: bg, B: bg, A: 255})

	s := e.scene
	if s == nil {
		return img
	}

	axis := e.projectionAxis()
	if s.Volume != nil {
		e.projectVolume(img, axis)
	}
	for i := range s.Meshes {
		e.projectMask(img, axis, &s.Meshes[i])
	}
	if e.extraPass != nil {
		// Layered pass: drawn last, never occluded by the base volume.
		e.projectMask(img, axis, e.extraPass)
	}
	e.drawScalarBar(img)
	return img
}

// projectVolume splats the maximum windowed intensity along the projection
// axis through the colormap and opacity transfer.
func (e *Engine) projectVolume(img *stdimage.RGBA, axis int) {
	s := e.scene
	v := s.Volume
	u, w2 := otherAxes(axis)
	nu, nv := v.Dims[u], v.Dims[w2]
	depth := v.Dims[axis]
	span := s.ClimMax - s.ClimMin
	if span <= 0 {
		span = 1
	}

	b := img.Bounds()
	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			iu := px * nu / b.Dx()
			iv := py * nv / b.Dy()
			var best float64
			for d := 0; d < depth; d++ {
				val := float64(voxelAt(v, axis, d, u, iu, w2, iv))
				t := (val - s.ClimMin) / span
				if t > best {
					best = t
				}
			}
			if best <= 0 {
				continue
			}
			if best > 1 {
				best = 1
			}
			a := s.Opacity.Transfer(best)
			if a <= 0 {
				continue
			}
			c := s.Colormap.Map(best)
			img.SetRGBA(px, py, blendOver(img.RGBAAt(px, py), c, a))
		}
	}
}

// projectMask splats mask-positive columns at the surface color and opacity.
func (e *Engine) projectMask(img *stdimage.RGBA, axis int, iso *render.Isosurface) {
	if iso.Mask == nil || iso.Opacity <= 0 {
		return
	}
	v := iso.Mask
	u, w2 := otherAxes(axis)
	nu, nv := v.Dims[u], v.Dims[w2]
	depth := v.Dims[axis]

	b := img.Bounds()
	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			iu := px * nu / b.Dx()
			iv := py * nv / b.Dy()
			hit := false
			for d := 0; d < depth; d++ {
				if float64(voxelAt(v, axis, d, u, iu, w2, iv)) > iso.Threshold {
					hit = true
					break
				}
			}
			if hit {
				img.SetRGBA(px, py, blendOver(img.RGBAAt(px, py), iso.Color, iso.Opacity))
			}
		}
	}
}

// drawScalarBar renders the color scale strip along the right edge.
func (e *Engine) drawScalarBar(img *stdimage.RGBA) {
	s := e.scene
	b := img.Bounds()
	barW := 8
	if b.Dx() <= barW*4 {
		return
	}
	x0 := b.Max.X - barW - 2
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := 1 - float64(y-b.Min.Y)/float64(b.Dy()-1)
		c := s.Colormap.Map(t)
		for x := x0; x < x0+barW; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	// Tick marks flip to black over bright backgrounds.
	tick := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if s.ScalarBarBlack {
		tick = color.RGBA{A: 255}
	}
	for _, fy := range []float64{0, 0.5, 1} {
		y := b.Min.Y + int(fy*float64(b.Dy()-1))
		for x := x0 - 2; x < x0; x++ {
			img.SetRGBA(x, y, tick)
		}
	}
}

func voxelAt(v *volume.Volume, axis, d, u, iu, w, iw int) float32 {
	var coord [3]int
	coord[axis] = d
	coord[u] = iu
	coord[w] = iw
	return v.At(coord[0], coord[1], coord[2])
}

func otherAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

func blendOver(dst, src color.RGBA, a float64) color.RGBA {
	mix := func(d, s uint8) uint8 {
		v := float64(d)*(1-a) + float64(s)*a
		if v > 255 {
			v = 255
		}
		return uint8(v + 0.5)
	}
	return color.RGBA{R: mix(dst.R, src.R), G: mix(dst.G, src.G), B: mix(dst.B, src.B), A: 255}
}

func fill(img *stdimage.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
