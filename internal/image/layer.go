// Package image rasterizes 2D volume slices: windowed colormap mapping,
// segmentation overlay blending, crosshairs, and the scalar bar.
package image

import (
	"image"
	"image/color"

	"nifti-viewer/internal/render"
	"nifti-viewer/internal/volume"
)

// Layer is one slice plane prepared for rasterization. The window bounds are
// absolute intensities already resolved from the percentage state.
type Layer struct {
	Plane    *volume.SlicePlane
	Lo, Hi   float64
	Colormap render.Colormap
	Visible  bool
	Opacity  float64
}

// NewLayer wraps a slice plane with full opacity and the gray colormap.
func NewLayer(plane *volume.SlicePlane) *Layer {
	return &Layer{
		Plane:    plane,
		Lo:       0,
		Hi:       1,
		Colormap: render.CmapGray,
		Visible:  true,
		Opacity:  1.0,
	}
}

// Normalize maps an intensity into [0,1] within the layer window.
func (l *Layer) Normalize(v float64) float64 {
	span := l.Hi - l.Lo
	if span <= 0 {
		return 0
	}
	t := (v - l.Lo) / span
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// ColorAt returns the rasterized color at plane coordinates (x, y).
func (l *Layer) ColorAt(x, y int) color.RGBA {
	if l.Plane == nil {
		return color.RGBA{A: 255}
	}
	return l.Colormap.Map(l.Normalize(float64(l.Plane.At(x, y))))
}

// Render rasterizes the full plane into an RGBA image.
func (l *Layer) Render() *image.RGBA {
	if l.Plane == nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	img := image.NewRGBA(image.Rect(0, 0, l.Plane.W, l.Plane.H))
	for y := 0; y < l.Plane.H; y++ {
		for x := 0; x < l.Plane.W; x++ {
			img.SetRGBA(x, y, l.ColorAt(x, y))
		}
	}
	return img
}
