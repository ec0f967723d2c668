package volume

// PerformanceThreshold is the voxel count above which volumes are decimated
// before 3D scene construction. 2D slice views always use full resolution.
const PerformanceThreshold = 10_000_000

// Subsampler decimates volumes by a uniform stride when they exceed a voxel
// budget, rescaling spacing so the physical extent is preserved.
type Subsampler struct {
	Threshold int
	Stride    int
}

// NewSubsampler returns a subsampler with the default threshold and stride 2.
func NewSubsampler() *Subsampler {
	return &Subsampler{Threshold: PerformanceThreshold, Stride: 2}
}

// StrideFor returns the stride to apply to the given volume: the configured
// stride when over threshold, otherwise 1.
func (s *Subsampler) StrideFor(v *Volume) int {
	if v == nil {
		return 1
	}
	if v.VoxelCount() > s.Threshold {
		return s.Stride
	}
	return 1
}

// Apply decimates the volume by the given stride. Stride 1 (or a nil volume)
// returns the input unchanged. Each spacing component is multiplied by the
// stride.
func (s *Subsampler) Apply(v *Volume, stride int) *Volume {
	if v == nil || stride <= 1 {
		return v
	}
	dims := [3]int{
		(v.Dims[0] + stride - 1) / stride,
		(v.Dims[1] + stride - 1) / stride,
		(v.Dims[2] + stride - 1) / stride,
	}
	data := make([]float32, dims[0]*dims[1]*dims[2])
	i := 0
	for z := 0; z < v.Dims[2]; z += stride {
		for y := 0; y < v.Dims[1]; y += stride {
			for x := 0; x < v.Dims[0]; x += stride {
				data[i] = v.At(x, y, z)
				i++
			}
		}
	}
	spacing := [3]float64{
		v.Spacing[0] * float64(stride),
		v.Spacing[1] * float64(stride),
		v.Spacing[2] * float64(stride),
	}
	return New(v.Name, data, dims, spacing)
}

// Decimate applies the threshold rule to a base volume and an optional
// overlay: both are decimated by the same stride, chosen from the base.
func (s *Subsampler) Decimate(base, overlay *Volume) (*Volume, *Volume, int) {
	stride := s.StrideFor(base)
	return s.Apply(base, stride), s.Apply(overlay, stride), stride
}
