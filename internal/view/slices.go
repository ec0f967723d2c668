package view

import "nifti-viewer/internal/volume"

// SliceState tracks the three synchronized slice indices and derives the
// crosshair positions each 2D view draws for the other two axes.
type SliceState struct {
	Index [3]int // sagittal, coronal, axial
	Dims  [3]int
}

// NewSliceState returns a state with no volume shape (all dims 1).
func NewSliceState() *SliceState {
	return &SliceState{Dims: [3]int{1, 1, 1}}
}

// SetShape records the active volume's dimensions and resets all three
// indices to the midpoint, matching the behavior on loading a new volume.
func (s *SliceState) SetShape(dims [3]int) {
	for i, d := range dims {
		if d < 1 {
			d = 1
		}
		s.Dims[i] = d
		s.Index[i] = d / 2
	}
}

// Set moves one axis to the given index, clamped to the valid range.
func (s *SliceState) Set(axis volume.Axis, index int) {
	s.Index[axis] = clampInt(index, 0, s.Dims[axis]-1)
}

// Get returns the current index for an axis.
func (s *SliceState) Get(axis volume.Axis) int {
	return s.Index[axis]
}

// Max returns the largest valid index for an axis.
func (s *SliceState) Max(axis volume.Axis) int {
	return s.Dims[axis] - 1
}

// ResetToMidpoints recenters all three indices without changing the shape.
func (s *SliceState) ResetToMidpoints() {
	for i, d := range s.Dims {
		s.Index[i] = d / 2
	}
}

// Click maps a click at plane coordinates (x, y) on one view onto the other
// two axes. The clicked view's own index is unchanged; targets are clamped:
//
//	sagittal view: x -> coronal, y -> axial
//	coronal view:  x -> sagittal, y -> axial
//	axial view:    x -> sagittal, y -> coronal
func (s *SliceState) Click(axis volume.Axis, x, y int) {
	switch axis {
	case volume.Sagittal:
		s.Set(volume.Coronal, x)
		s.Set(volume.Axial, y)
	case volume.Coronal:
		s.Set(volume.Sagittal, x)
		s.Set(volume.Axial, y)
	case volume.Axial:
		s.Set(volume.Sagittal, x)
		s.Set(volume.Coronal, y)
	}
}

// Crosshairs returns the horizontal and vertical crosshair positions for a
// view: the horizontal line marks the vertical plane axis of the view, the
// vertical line the horizontal plane axis.
func (s *SliceState) Crosshairs(axis volume.Axis) (h, v int) {
	switch axis {
	case volume.Sagittal:
		return s.Index[volume.Axial], s.Index[volume.Coronal]
	case volume.Coronal:
		return s.Index[volume.Axial], s.Index[volume.Sagittal]
	default:
		return s.Index[volume.Coronal], s.Index[volume.Sagittal]
	}
}
