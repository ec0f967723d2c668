package render

import (
	"image/color"

	"nifti-viewer/internal/view"
	"nifti-viewer/internal/volume"
)

// Camera is an opaque 3D view transform. Engines interpret the fields; the
// renderer only captures and reapplies them so that parameter changes never
// reset the user's viewpoint.
type Camera struct {
	Position [3]float64
	Focal    [3]float64
	Up       [3]float64
	Valid    bool
}

// Isosurface describes a surface extraction request at a fixed threshold.
type Isosurface struct {
	Mask      *volume.Volume
	Threshold float64
	Color     color.RGBA
	Opacity   float64
}

// Light is an auxiliary light source added when shading is enabled.
type Light struct {
	Headlight bool
	Position  [3]float64
}

// Scene is the desired scene description for one render: everything an
// engine needs to rebuild its scene graph from scratch. Engines must remove
// any previously attached extra pass before attaching OverlayPass, so
// toggling the always-visible mode never accumulates passes.
type Scene struct {
	// Volume is the (possibly decimated) base volume, nil when the active
	// modality is itself a segmentation.
	Volume   *volume.Volume
	Colormap Colormap
	Opacity  OpacityPreset
	ClimMin  float64
	ClimMax  float64
	Shade    bool
	Lights   []Light

	Background     float64
	ScalarBarBlack bool

	// Meshes render in the main pass, depth-correct against the volume.
	Meshes []Isosurface
	// OverlayPass, when non-nil, renders in a second pass layered above the
	// main pass with a transparent background and the shared camera.
	OverlayPass *Isosurface
}

var overlayRed = color.RGBA{R: 255, A: 255}

const (
	segSurfaceOpacity   = 0.7 // segmentation-as-base isosurface
	overlayOpacityFloor = 0.1
	overlayFallback     = 0.8 // always-visible opacity when slider is at 0
	isoThreshold        = 0.5
)

// Renderer owns the render parameters and builds scenes from the active
// volume pair. The engine may be nil (no 3D capability); all state logic
// still runs so the 2D views stay functional.
type Renderer struct {
	engine Engine
	sub    *volume.Subsampler

	Params Params

	base    *volume.Volume
	overlay *volume.Volume

	dataMin, dataMax float64
	rendered         bool // camera has been fit at least once
}

// NewRenderer creates a renderer over the given engine (nil for 2D-only
// mode) with default parameters.
func NewRenderer(engine Engine) *Renderer {
	return &Renderer{
		engine: engine,
		sub:    volume.NewSubsampler(),
		Params: DefaultParams(),
	}
}

// HasEngine reports whether a 3D engine is attached.
func (r *Renderer) HasEngine() bool { return r.engine != nil }

// Engine returns the attached engine, nil in 2D-only mode.
func (r *Renderer) Engine() Engine { return r.engine }

// Subsampler returns the decimation settings for configuration.
func (r *Renderer) Subsampler() *volume.Subsampler { return r.sub }

// SetVolume replaces the base volume and optional segmentation overlay.
// The data range is re-derived; the held window percentages are preserved
// unless resetWindow is set.
func (r *Renderer) SetVolume(base, overlay *volume.Volume, resetWindow bool) {
	r.base = base
	r.overlay = overlay
	if base != nil {
		r.dataMin, r.dataMax = base.Range()
	} else {
		r.dataMin, r.dataMax = 0, 0
	}
	if resetWindow {
		r.Params.Window = view.FullRange()
	}
}

// Base returns the active base volume.
func (r *Renderer) Base() *volume.Volume { return r.base }

// Overlay returns the active segmentation overlay, nil when absent.
func (r *Renderer) Overlay() *volume.Volume { return r.overlay }

// DataRange returns the active volume's intensity range.
func (r *Renderer) DataRange() (min, max float64) { return r.dataMin, r.dataMax }

// Clim resolves the held percentage window against the active data range.
func (r *Renderer) Clim() (lo, hi float64) {
	return r.Params.Window.Resolve(r.dataMin, r.dataMax)
}

// BuildScene constructs the desired scene description from the current
// volumes and parameters. It is pure with respect to the engine.
func (r *Renderer) BuildScene() *Scene {
	if r.base == nil {
		return nil
	}
	base, overlay, _ := r.sub.Decimate(r.base, r.overlay)
	lo, hi := r.Clim()

	s := &Scene{
		Colormap:       r.Params.Colormap,
		Opacity:        r.Params.Opacity,
		ClimMin:        lo,
		ClimMax:        hi,
		Shade:          r.Params.Shade,
		Background:     r.Params.Background,
		ScalarBarBlack: ScalarBarBlack(r.Params.Background),
	}

	if r.base.IsSegmentation() {
		// Binary/label masks get an isosurface only, no volumetric blending.
		if base.HasPositive() {
			s.Meshes = append(s.Meshes, Isosurface{
				Mask:      base,
				Threshold: isoThreshold,
				Color:     overlayRed,
				Opacity:   segSurfaceOpacity,
			})
		}
		return s
	}

	s.Volume = base
	if r.Params.Shade {
		s.Lights = append(s.Lights, Light{Headlight: true, Position: [3]float64{1, 1, 1}})
	}

	if overlay != nil && overlay.HasPositive() {
		iso := Isosurface{
			Mask:      overlay,
			Threshold: isoThreshold,
			Color:     overlayRed,
			Opacity:   r.Params.OverlayOpacity,
		}
		if r.Params.OverlayAlwaysVisible {
			iso.Opacity = alwaysVisibleOpacity(r.Params.OverlayOpacity)
			s.OverlayPass = &iso
		} else {
			s.Meshes = append(s.Meshes, iso)
		}
	}
	return s
}

// alwaysVisibleOpacity floors the overlay opacity so the layered pass stays
// visible: max(0.1, o) when the user set a positive opacity, 0.8 when the
// slider sits at exactly 0.
func alwaysVisibleOpacity(o float64) float64 {
	if o > 0 {
		if o < overlayOpacityFloor {
			return overlayOpacityFloor
		}
		return o
	}
	return overlayFallback
}

// Render rebuilds the engine scene. Unless resetCamera is set (or this is
// the first render), the camera transform is captured before the rebuild
// and reapplied afterwards.
func (r *Renderer) Render(resetCamera bool) {
	if r.engine == nil {
		return
	}
	scene := r.BuildScene()
	if scene == nil {
		return
	}

	var cam Camera
	if !resetCamera && r.rendered {
		cam = r.engine.Camera()
	}

	r.engine.SetBackground(r.Params.Background)
	r.engine.Apply(scene)

	if cam.Valid {
		r.engine.SetCamera(cam)
	} else {
		r.engine.ResetCamera()
	}
	r.rendered = true
}
