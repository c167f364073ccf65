//go:build !windows

package dataset

import (
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MappedMatrix is a read-only matrix backed by a memory-mapped binary file.
// The coordinate data is accessed zero-copy; no row may be used after Close.
type MappedMatrix struct {
	*Matrix
	raw    []byte
	closed atomic.Bool
}

// OpenBinary maps the binary matrix file at path into memory.
func OpenBinary(path string) (*MappedMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	raw, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	rows, dim, err := parseBinaryHeader(raw, fi.Size())
	if err != nil {
		_ = unix.Munmap(raw)
		return nil, err
	}

	// The coordinate block starts at an 8-byte aligned offset of a
	// page-aligned mapping, so the reinterpretation below is safe.
	data := unsafe.Slice((*float64)(unsafe.Pointer(&raw[headerSize])), rows*dim)

	return &MappedMatrix{
		Matrix: &Matrix{rows: rows, dim: dim, data: data},
		raw:    raw,
	}, nil
}

// Close unmaps the file. It is idempotent.
func (m *MappedMatrix) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	raw := m.raw
	m.raw = nil
	m.Matrix = nil
	return unix.Munmap(raw)
}
