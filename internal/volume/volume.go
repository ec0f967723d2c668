// Package volume provides 3D scalar volume data, the per-subject modality
// store, and volume decimation.
package volume

import (
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Axis identifies one of the three anatomical slicing axes.
type Axis int

const (
	Sagittal Axis = iota // X axis, side view
	Coronal              // Y axis, front view
	Axial                // Z axis, top view
)

func (a Axis) String() string {
	switch a {
	case Sagittal:
		return "Sagittal (Side)"
	case Coronal:
		return "Coronal (Front)"
	case Axial:
		return "Axial (Top)"
	default:
		return "Unknown"
	}
}

// Volume is a single 3D scalar modality. Data is stored in x-fastest order:
// index = x + y*nx + z*nx*ny. Immutable once loaded.
type Volume struct {
	Name    string
	Data    []float32
	Dims    [3]int     // nx, ny, nz
	Spacing [3]float64 // voxel spacing in mm

	rangeValid bool
	min, max   float32
}

// New creates a volume over the given data. The data slice is not copied;
// callers must not mutate it afterwards.
func New(name string, data []float32, dims [3]int, spacing [3]float64) *Volume {
	return &Volume{Name: name, Data: data, Dims: dims, Spacing: spacing}
}

// VoxelCount returns the total number of voxels.
func (v *Volume) VoxelCount() int {
	return v.Dims[0] * v.Dims[1] * v.Dims[2]
}

// At returns the scalar at (x, y, z). Out-of-range coordinates return 0.
func (v *Volume) At(x, y, z int) float32 {
	if x < 0 || y < 0 || z < 0 || x >= v.Dims[0] || y >= v.Dims[1] || z >= v.Dims[2] {
		return 0
	}
	return v.Data[x+y*v.Dims[0]+z*v.Dims[0]*v.Dims[1]]
}

// Range returns the data minimum and maximum. An empty volume reports (0, 0).
// The result is cached after the first call.
func (v *Volume) Range() (min, max float64) {
	if !v.rangeValid {
		if len(v.Data) > 0 {
			v.min, v.max = v.Data[0], v.Data[0]
			for _, s := range v.Data {
				if s < v.min {
					v.min = s
				}
				if s > v.max {
					v.max = s
				}
			}
		}
		v.rangeValid = true
	}
	return float64(v.min), float64(v.max)
}

// HasPositive reports whether any voxel is greater than zero. Used to skip
// isosurface extraction for empty masks.
func (v *Volume) HasPositive() bool {
	_, max := v.Range()
	return max > 0
}

// IsSegmentation reports whether the modality name marks this volume as a
// segmentation mask ("seg" anywhere in the name, case-insensitive).
func (v *Volume) IsSegmentation() bool {
	return strings.Contains(strings.ToLower(v.Name), "seg")
}

// Stats summarizes a volume for the info panel.
type Stats struct {
	Min, Max  float64
	Mean, Std float64
}

// Summary computes min/max/mean/std over all voxels.
func (v *Volume) Summary() Stats {
	min, max := v.Range()
	vals := make([]float64, len(v.Data))
	for i, s := range v.Data {
		vals[i] = float64(s)
	}
	mean, std := stat.MeanStdDev(vals, nil)
	if len(vals) < 2 {
		std = 0
	}
	return Stats{Min: min, Max: max, Mean: mean, Std: std}
}

// SlicePlane is one extracted 2D slice. Values are laid out row-major with
// the plane's own width and height; X/Y name the volume axes the plane
// coordinates map to.
type SlicePlane struct {
	Values []float32
	W, H   int
}

// At returns the slice value at plane coordinates (x, y), 0 out of range.
func (p *SlicePlane) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= p.W || y >= p.H {
		return 0
	}
	return p.Values[x+y*p.W]
}

// ExtractSlice pulls the 2D plane at index along the given axis. The plane's
// horizontal coordinate is the first remaining axis and the vertical
// coordinate the second, matching the crosshair conventions of the 2D views:
//
//	sagittal -> (coronal, axial), coronal -> (sagittal, axial),
//	axial    -> (sagittal, coronal)
//
// The index is clamped to the valid range.
func (v *Volume) ExtractSlice(axis Axis, index int) *SlicePlane {
	index = clampInt(index, 0, v.Dims[int(axis)]-1)
	var w, h int
	switch axis {
	case Sagittal:
		w, h = v.Dims[1], v.Dims[2]
	case Coronal:
		w, h = v.Dims[0], v.Dims[2]
	default:
		w, h = v.Dims[0], v.Dims[1]
	}
	p := &SlicePlane{Values: make([]float32, w*h), W: w, H: h}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var s float32
			switch axis {
			case Sagittal:
				s = v.At(index, x, y)
			case Coronal:
				s = v.At(x, index, y)
			default:
				s = v.At(x, y, index)
			}
			p.Values[x+y*w] = s
		}
	}
	return p
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
