package nifti

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

// synthesize builds a minimal NIfTI-1 stream around the given voxel payload.
func synthesize(t *testing.T, order binary.ByteOrder, datatype int16, bitpix int16, dims [3]int, payload interface{}, slope, inter float32) []byte {
	t.Helper()

	hdr := header{
		SizeofHdr: headerSize,
		Datatype:  datatype,
		Bitpix:    bitpix,
		VoxOffset: 352,
		SclSlope:  slope,
		SclInter:  inter,
	}
	hdr.Dim[0] = 3
	hdr.Dim[1], hdr.Dim[2], hdr.Dim[3] = int16(dims[0]), int16(dims[1]), int16(dims[2])
	hdr.Pixdim[1], hdr.Pixdim[2], hdr.Pixdim[3] = 0.5, 0.5, 2.0
	copy(hdr.Magic[:], "n+1\x00")

	var buf bytes.Buffer
	if err := binary.Write(&buf, order, &hdr); err != nil {
		t.Fatalf("Failed to encode header: %v", err)
	}
	if buf.Len() != headerSize {
		t.Fatalf("Header layout drifted: %d bytes", buf.Len())
	}
	buf.Write(make([]byte, 4)) // extension gap to vox_offset 352
	if err := binary.Write(&buf, order, payload); err != nil {
		t.Fatalf("Failed to encode payload: %v", err)
	}
	return buf.Bytes()
}

// TestDecodeFloat32 verifies the common little-endian float volume path.
func TestDecodeFloat32(t *testing.T) {
	payload := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	raw := synthesize(t, binary.LittleEndian, dtFloat32, 32, [3]int{2, 2, 2}, payload, 1, 0)

	v, err := Decode(bytes.NewReader(raw), "t1_gd")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if v.Name != "t1_gd" {
		t.Errorf("Expected name t1_gd, got %s", v.Name)
	}
	if v.Dims != [3]int{2, 2, 2} {
		t.Errorf("Expected dims (2,2,2), got %v", v.Dims)
	}
	if v.Spacing != [3]float64{0.5, 0.5, 2.0} {
		t.Errorf("Expected spacing (0.5,0.5,2.0), got %v", v.Spacing)
	}
	for i, want := range payload {
		if v.Data[i] != want {
			t.Errorf("Voxel %d: expected %f, got %f", i, want, v.Data[i])
		}
	}
}

// TestDecodeBigEndian verifies byte-order detection from sizeof_hdr.
func TestDecodeBigEndian(t *testing.T) {
	payload := []int16{10, 20, 30, 40, 50, 60, 70, 80}
	raw := synthesize(t, binary.BigEndian, dtInt16, 16, [3]int{2, 2, 2}, payload, 1, 0)

	v, err := Decode(bytes.NewReader(raw), "flair")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if v.Data[0] != 10 || v.Data[7] != 80 {
		t.Errorf("Big-endian voxels misread: %v", v.Data)
	}
}

// TestDecodeAppliesScaling verifies scl_slope/scl_inter are applied.
func TestDecodeAppliesScaling(t *testing.T) {
	payload := []uint8{0, 1, 2, 3, 4, 5, 6, 7}
	raw := synthesize(t, binary.LittleEndian, dtUint8, 8, [3]int{2, 2, 2}, payload, 2, 10)

	v, err := Decode(bytes.NewReader(raw), "t1_pre")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if v.Data[3] != 16 {
		t.Errorf("Expected voxel 3 scaled to 16, got %f", v.Data[3])
	}
}

// TestDecodeRejectsGarbage verifies non-NIfTI input fails cleanly.
func TestDecodeRejectsGarbage(t *testing.T) {
	raw := make([]byte, headerSize+16)
	if _, err := Decode(bytes.NewReader(raw), "x"); err == nil {
		t.Error("Expected an error for a zeroed header")
	}

	// Valid sizeof_hdr but bad magic.
	binary.LittleEndian.PutUint32(raw[0:4], headerSize)
	if _, err := Decode(bytes.NewReader(raw), "x"); err == nil {
		t.Error("Expected an error for bad magic")
	}
}

// TestDecodeTrailingSingleton4D verifies 4D volumes with a singleton time
// axis pass while real 4D volumes are rejected.
func TestDecodeTrailingSingleton4D(t *testing.T) {
	payload := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	raw := synthesize(t, binary.LittleEndian, dtFloat32, 32, [3]int{2, 2, 2}, payload, 1, 0)
	// Patch dim[0]=4, dim[4]=1.
	binary.LittleEndian.PutUint16(raw[40:42], 4)
	binary.LittleEndian.PutUint16(raw[48:50], 1)
	if _, err := Decode(bytes.NewReader(raw), "x"); err != nil {
		t.Errorf("Trailing-singleton 4D must decode: %v", err)
	}

	binary.LittleEndian.PutUint16(raw[48:50], 5)
	if _, err := Decode(bytes.NewReader(raw), "x"); err == nil {
		t.Error("Real 4D volumes must be rejected")
	}
}

func TestIsVolumeFile(t *testing.T) {
	cases := map[string]bool{
		"t1_gd.nii":     true,
		"seg.NII.GZ":    true,
		"notes.txt":     false,
		"volume.nii.gz": true,
		"img.gz":        false,
	}
	for path, want := range cases {
		if got := IsVolumeFile(path); got != want {
			t.Errorf("IsVolumeFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestModalityName(t *testing.T) {
	if got := ModalityName("/data/case1/t1_gd.nii.gz"); got != "t1_gd" {
		t.Errorf("Expected t1_gd, got %s", got)
	}
	if got := ModalityName("seg.nii"); got != "seg" {
		t.Errorf("Expected seg, got %s", got)
	}
}

// TestDecodeNonFiniteSpacing verifies zero or NaN pixdim falls back to 1mm.
func TestDecodeNonFiniteSpacing(t *testing.T) {
	payload := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	raw := synthesize(t, binary.LittleEndian, dtFloat32, 32, [3]int{2, 2, 2}, payload, 1, 0)
	binary.LittleEndian.PutUint32(raw[80:84], 0)                            // pixdim[1] = 0
	binary.LittleEndian.PutUint32(raw[84:88], math.Float32bits(float32(math.NaN()))) // pixdim[2] = NaN

	v, err := Decode(bytes.NewReader(raw), "x")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if v.Spacing[0] != 1 || v.Spacing[1] != 1 {
		t.Errorf("Expected spacing fallback to 1, got %v", v.Spacing)
	}
}
