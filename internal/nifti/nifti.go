// Package nifti reads NIfTI-1 volume files (.nii, .nii.gz) into float32
// volumes with voxel spacing. Only the header fields the viewer needs are
// interpreted.
package nifti

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"nifti-viewer/internal/volume"
)

const (
	headerSize = 348

	dtUint8   = 2
	dtInt16   = 4
	dtInt32   = 8
	dtFloat32 = 16
	dtFloat64 = 64
)

// header is the subset of the NIfTI-1 header layout the reader interprets.
// Field offsets follow the nifti1.h struct; unused regions are padding.
type header struct {
	SizeofHdr int32
	_         [36]byte
	Dim       [8]int16
	_         [14]byte
	Datatype  int16
	Bitpix    int16
	_         [2]byte
	Pixdim    [8]float32
	VoxOffset float32
	SclSlope  float32
	SclInter  float32
	_         [224]byte
	Magic     [4]byte
}

// IsVolumeFile reports whether the path looks like a NIfTI file.
func IsVolumeFile(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(name, ".nii") || strings.HasSuffix(name, ".nii.gz")
}

// ModalityName derives the modality name from a file path by stripping the
// NIfTI extensions.
func ModalityName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".nii")
	return name
}

// Load reads a NIfTI-1 file into a Volume. Voxel values are converted to
// float32 with the header's scaling slope/intercept applied; spacing comes
// from pixdim. Only 3D (or trailing-singleton 4D) volumes are accepted.
func Load(path string) (*volume.Volume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open volume: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	return Decode(r, ModalityName(path))
}

// Decode reads a NIfTI-1 stream. The byte order is detected from the
// sizeof_hdr field.
func Decode(r io.Reader, name string) (*volume.Volume, error) {
	raw := make([]byte, headerSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var order binary.ByteOrder = binary.LittleEndian
	if int32(binary.LittleEndian.Uint32(raw[0:4])) != headerSize {
		if int32(binary.BigEndian.Uint32(raw[0:4])) != headerSize {
			return nil, fmt.Errorf("not a NIfTI-1 file (sizeof_hdr mismatch)")
		}
		order = binary.BigEndian
	}

	var hdr header
	if err := binary.Read(bytes.NewReader(raw), order, &hdr); err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}
	if m := string(hdr.Magic[:3]); m != "n+1" && m != "ni1" {
		return nil, fmt.Errorf("not a NIfTI-1 file (bad magic %q)", m)
	}

	ndim := int(hdr.Dim[0])
	if ndim < 3 {
		return nil, fmt.Errorf("unsupported dimensionality %d", ndim)
	}
	for i := 4; i <= ndim; i++ {
		if hdr.Dim[i] > 1 {
			return nil, fmt.Errorf("unsupported %dD volume", ndim)
		}
	}
	dims := [3]int{int(hdr.Dim[1]), int(hdr.Dim[2]), int(hdr.Dim[3])}
	if dims[0] < 1 || dims[1] < 1 || dims[2] < 1 {
		return nil, fmt.Errorf("invalid dimensions %v", dims)
	}
	spacing := [3]float64{
		float64(hdr.Pixdim[1]),
		float64(hdr.Pixdim[2]),
		float64(hdr.Pixdim[3]),
	}
	for i, s := range spacing {
		if s <= 0 || math.IsNaN(s) {
			spacing[i] = 1
		}
	}

	// Skip the gap between the header and the voxel data.
	if skip := int64(hdr.VoxOffset) - headerSize; skip > 0 {
		if _, err := io.CopyN(io.Discard, r, skip); err != nil {
			return nil, fmt.Errorf("failed to seek voxel data: %w", err)
		}
	}

	count := dims[0] * dims[1] * dims[2]
	data, err := readVoxels(r, order, int(hdr.Datatype), count)
	if err != nil {
		return nil, err
	}

	slope, inter := hdr.SclSlope, hdr.SclInter
	if slope != 0 && (slope != 1 || inter != 0) {
		for i := range data {
			data[i] = data[i]*slope + inter
		}
	}

	return volume.New(name, data, dims, spacing), nil
}

func readVoxels(r io.Reader, order binary.ByteOrder, datatype, count int) ([]float32, error) {
	data := make([]float32, count)
	switch datatype {
	case dtUint8:
		buf := make([]uint8, count)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("failed to read voxels: %w", err)
		}
		for i, v := range buf {
			data[i] = float32(v)
		}
	case dtInt16:
		buf := make([]int16, count)
		if err := binary.Read(r, order, buf); err != nil {
			return nil, fmt.Errorf("failed to read voxels: %w", err)
		}
		for i, v := range buf {
			data[i] = float32(v)
		}
	case dtInt32:
		buf := make([]int32, count)
		if err := binary.Read(r, order, buf); err != nil {
			return nil, fmt.Errorf("failed to read voxels: %w", err)
		}
		for i, v := range buf {
			data[i] = float32(v)
		}
	case dtFloat32:
		if err := binary.Read(r, order, data); err != nil {
			return nil, fmt.Errorf("failed to read voxels: %w", err)
		}
	case dtFloat64:
		buf := make([]float64, count)
		if err := binary.Read(r, order, buf); err != nil {
			return nil, fmt.Errorf("failed to read voxels: %w", err)
		}
		for i, v := range buf {
			data[i] = float32(v)
		}
	default:
		return nil, fmt.Errorf("unsupported datatype %d", datatype)
	}
	return data, nil
}
