// Package render provides the rendering-state engine: render parameters,
// colormaps, the desired-scene description built from a volume plus optional
// segmentation overlay, and the fullscreen mirror protocol.
package render

import "image/color"

// Colormap is one of the fixed set of transfer colormaps.
type Colormap string

const (
	CmapGray    Colormap = "gray"
	CmapBone    Colormap = "bone"
	CmapHot     Colormap = "hot"
	CmapViridis Colormap = "viridis"
	CmapMagma   Colormap = "magma"
	CmapPlasma  Colormap = "plasma"
)

// Colormaps lists the available colormaps in menu order.
var Colormaps = []Colormap{CmapGray, CmapBone, CmapHot, CmapViridis, CmapMagma, CmapPlasma}

// ValidColormap reports whether name is a known colormap.
func ValidColormap(name string) bool {
	for _, c := range Colormaps {
		if string(c) == name {
			return true
		}
	}
	return false
}

type cmapStop struct {
	pos     float64
	r, g, b float64
}

// Control points for each colormap, interpolated linearly. The perceptual
// maps use a handful of anchor colors rather than full 256-entry tables.
var cmapStops = map[Colormap][]cmapStop{
	CmapGray: {
		{0, 0, 0, 0},
		{1, 1, 1, 1},
	},
	CmapBone: {
		{0, 0, 0, 0},
		{0.375, 0.32, 0.32, 0.44},
		{0.75, 0.66, 0.78, 0.78},
		{1, 1, 1, 1},
	},
	CmapHot: {
		{0, 0.04, 0, 0},
		{0.36, 1, 0, 0},
		{0.74, 1, 1, 0},
		{1, 1, 1, 1},
	},
	CmapViridis: {
		{0, 0.267, 0.005, 0.329},
		{0.25, 0.229, 0.322, 0.546},
		{0.5, 0.128, 0.567, 0.551},
		{0.75, 0.369, 0.789, 0.383},
		{1, 0.993, 0.906, 0.144},
	},
	CmapMagma: {
		{0, 0.001, 0.000, 0.014},
		{0.25, 0.281, 0.061, 0.493},
		{0.5, 0.716, 0.215, 0.475},
		{0.75, 0.987, 0.535, 0.382},
		{1, 0.987, 0.991, 0.750},
	},
	CmapPlasma: {
		{0, 0.050, 0.030, 0.528},
		{0.25, 0.494, 0.012, 0.658},
		{0.5, 0.798, 0.280, 0.470},
		{0.75, 0.973, 0.586, 0.252},
		{1, 0.940, 0.975, 0.131},
	},
}

// Map converts a normalized intensity t in [0,1] to a color. Values outside
// the range are clamped.
func (c Colormap) Map(t float64) color.RGBA {
	stops, ok := cmapStops[c]
	if !ok {
		stops = cmapStops[CmapGray]
	}
	if t <= stops[0].pos {
		return stopColor(stops[0])
	}
	last := stops[len(stops)-1]
	if t >= last.pos {
		return stopColor(last)
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].pos {
			a, b := stops[i-1], stops[i]
			f := (t - a.pos) / (b.pos - a.pos)
			return color.RGBA{
				R: lerp8(a.r, b.r, f),
				G: lerp8(a.g, b.g, f),
				B: lerp8(a.b, b.b, f),
				A: 255,
			}
		}
	}
	return stopColor(last)
}

func stopColor(s cmapStop) color.RGBA {
	return color.RGBA{R: lerp8(s.r, s.r, 0), G: lerp8(s.g, s.g, 0), B: lerp8(s.b, s.b, 0), A: 255}
}

func lerp8(a, b, f float64) uint8 {
	v := (a + (b-a)*f) * 255
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v + 0.5)
}
