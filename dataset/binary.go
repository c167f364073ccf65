package dataset

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Binary matrix file layout, little endian:
//
//	[0:4)   magic "KDEM"
//	[4:8)   format version (currently 1)
//	[8:16)  rows
//	[16:24) dim
//	[24:)   rows*dim float64 coordinates, row-major
//
// The 24-byte header keeps the coordinate block 8-byte aligned so that a
// memory mapping can be reinterpreted as []float64 directly.
const (
	binaryMagic   = uint32(0x4d45444b) // "KDEM"
	binaryVersion = uint32(1)
	headerSize    = 24
)

// WriteBinary writes the matrix in the binary format understood by OpenBinary.
func WriteBinary(m *Matrix, path string) error {
	buf := make([]byte, headerSize+8*len(m.data))
	binary.LittleEndian.PutUint32(buf[0:4], binaryMagic)
	binary.LittleEndian.PutUint32(buf[4:8], binaryVersion)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(m.rows))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(m.dim))
	for i, v := range m.data {
		binary.LittleEndian.PutUint64(buf[headerSize+8*i:], math.Float64bits(v))
	}
	return os.WriteFile(path, buf, 0o644)
}

// parseBinaryHeader validates the header and returns (rows, dim).
func parseBinaryHeader(buf []byte, size int64) (int, int, error) {
	if len(buf) < headerSize {
		return 0, 0, fmt.Errorf("dataset: binary file too short (%d bytes)", len(buf))
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != binaryMagic {
		return 0, 0, fmt.Errorf("dataset: bad magic, not a matrix file")
	}
	if v := binary.LittleEndian.Uint32(buf[4:8]); v != binaryVersion {
		return 0, 0, fmt.Errorf("dataset: unsupported format version %d", v)
	}

	rows := int(binary.LittleEndian.Uint64(buf[8:16]))
	dim := int(binary.LittleEndian.Uint64(buf[16:24]))
	if rows <= 0 || dim <= 0 {
		return 0, 0, ErrEmpty
	}
	if want := int64(headerSize) + 8*int64(rows)*int64(dim); size != want {
		return 0, 0, fmt.Errorf("dataset: file size %d does not match %dx%d matrix (want %d)", size, rows, dim, want)
	}
	return rows, dim, nil
}

// readBinaryData decodes the coordinate block into a heap-allocated matrix.
func readBinaryData(buf []byte, rows, dim int) *Matrix {
	data := make([]float64, rows*dim)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[headerSize+8*i:]))
	}
	return &Matrix{rows: rows, dim: dim, data: data}
}
