package volume

import "testing"

func uniformVolume(name string, dims [3]int, spacing [3]float64, val float32) *Volume {
	data := make([]float32, dims[0]*dims[1]*dims[2])
	for i := range data {
		data[i] = val
	}
	return New(name, data, dims, spacing)
}

// TestDecimateOverThreshold verifies a 256^3 volume (16.7M voxels) halves in
// each dimension with spacing doubled.
func TestDecimateOverThreshold(t *testing.T) {
	s := NewSubsampler()
	v := uniformVolume("t1", [3]int{256, 256, 256}, [3]float64{1, 1, 1.5}, 7)

	base, _, stride := s.Decimate(v, nil)
	if stride != 2 {
		t.Fatalf("Expected stride 2, got %d", stride)
	}
	if base.Dims != [3]int{128, 128, 128} {
		t.Errorf("Expected dims (128,128,128), got %v", base.Dims)
	}
	if base.Spacing != [3]float64{2, 2, 3} {
		t.Errorf("Expected spacing doubled, got %v", base.Spacing)
	}
	if base.At(64, 64, 64) != 7 {
		t.Errorf("Decimated data corrupted: got %f", base.At(64, 64, 64))
	}
}

// TestDecimateUnderThreshold verifies small volumes pass through untouched.
func TestDecimateUnderThreshold(t *testing.T) {
	s := NewSubsampler()
	v := uniformVolume("t1", [3]int{64, 64, 64}, [3]float64{1, 1, 1}, 1)

	base, _, stride := s.Decimate(v, nil)
	if stride != 1 {
		t.Fatalf("Expected stride 1, got %d", stride)
	}
	if base != v {
		t.Error("Under threshold the input volume must be returned unchanged")
	}
}

// TestDecimateAppliesSameStrideToOverlay verifies base and overlay stay in
// register after decimation.
func TestDecimateAppliesSameStrideToOverlay(t *testing.T) {
	s := NewSubsampler()
	base := uniformVolume("t1", [3]int{256, 256, 256}, [3]float64{1, 1, 1}, 1)
	mask := uniformVolume("seg", [3]int{256, 256, 256}, [3]float64{1, 1, 1}, 1)

	b, m, _ := s.Decimate(base, mask)
	if b.Dims != m.Dims {
		t.Errorf("Base and overlay dims diverged: %v vs %v", b.Dims, m.Dims)
	}
}

// TestDecimateOddDims verifies rounding up keeps every strided sample.
func TestDecimateOddDims(t *testing.T) {
	s := &Subsampler{Threshold: 10, Stride: 2}
	v := uniformVolume("t1", [3]int{5, 3, 3}, [3]float64{1, 1, 1}, 2)
	out := s.Apply(v, 2)
	if out.Dims != [3]int{3, 2, 2} {
		t.Errorf("Expected dims (3,2,2), got %v", out.Dims)
	}
	if got := out.VoxelCount(); got != 12 {
		t.Errorf("Expected 12 voxels, got %d", got)
	}
}
