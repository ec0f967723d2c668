package render

import "nifti-viewer/internal/view"

// OpacityPreset selects the shape of the volumetric opacity transfer
// function. All presets keep near-zero intensities transparent.
type OpacityPreset string

const (
	OpacitySoft   OpacityPreset = "soft"   // gentle S-curve
	OpacityMedium OpacityPreset = "medium" // linear ramp
	OpacityStrong OpacityPreset = "strong" // emphasizes high values
)

// OpacityPresets lists the presets in menu order.
var OpacityPresets = []OpacityPreset{OpacitySoft, OpacityMedium, OpacityStrong}

// ValidOpacityPreset reports whether name is a known preset.
func ValidOpacityPreset(name string) bool {
	for _, p := range OpacityPresets {
		if string(p) == name {
			return true
		}
	}
	return false
}

// Transfer evaluates the preset's opacity transfer function at normalized
// intensity t in [0,1]. All shapes are monotonic with f(0)=0.
func (p OpacityPreset) Transfer(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t > 1 {
		t = 1
	}
	switch p {
	case OpacitySoft:
		// Smoothstep S-curve.
		return t * t * (3 - 2*t)
	case OpacityStrong:
		return t * t * t
	default:
		return t
	}
}

// Params is the full rendering-state parameter model. The primary surface
// and the fullscreen mirror are two views over this one model; the mirror
// holds a copy while active and writes it back on exit.
type Params struct {
	Colormap             Colormap
	Opacity              OpacityPreset
	Shade                bool
	Background           float64 // grayscale 0 (black) .. 1 (white)
	Window               view.WindowLevel
	OverlayOpacity       float64 // 0 = computed but not drawn
	OverlayAlwaysVisible bool
}

// DefaultParams returns the parameter defaults applied on "reset view".
func DefaultParams() Params {
	return Params{
		Colormap:   CmapGray,
		Opacity:    OpacityMedium,
		Shade:      false,
		Background: 0,
		Window:     view.FullRange(),
	}
}

// ScalarBarBlack reports whether scalar-bar text should be drawn black for
// the given background brightness (threshold 0.5, brighter backgrounds get
// black text).
func ScalarBarBlack(background float64) bool {
	return background > 0.5
}
