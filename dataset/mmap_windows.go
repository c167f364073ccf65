//go:build windows

package dataset

import (
	"os"
	"sync/atomic"
)

// MappedMatrix is a read-only matrix loaded from a binary file. On Windows
// the file contents are read into the heap instead of memory-mapped.
type MappedMatrix struct {
	*Matrix
	closed atomic.Bool
}

// OpenBinary loads the binary matrix file at path.
func OpenBinary(path string) (*MappedMatrix, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	rows, dim, err := parseBinaryHeader(buf, fi.Size())
	if err != nil {
		return nil, err
	}

	return &MappedMatrix{Matrix: readBinaryData(buf, rows, dim)}, nil
}

// Close releases the matrix. It is idempotent.
func (m *MappedMatrix) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	m.Matrix = nil
	return nil
}
