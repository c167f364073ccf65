package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// maxLineBytes bounds a single row of text input (1M coordinates of ~20
// characters each is far beyond any dataset this library targets).
const maxLineBytes = 32 * 1024 * 1024

// Load reads a whitespace-separated text matrix, one row per line.
// Files ending in ".gz" are decompressed transparently.
func Load(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("dataset: open gzip %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	return Read(r)
}

// Read parses a whitespace-separated text matrix from r.
func Read(r io.Reader) (*Matrix, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var (
		data []float64
		rows int
		dim  int
	)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if rows == 0 {
			dim = len(fields)
		} else if len(fields) != dim {
			return nil, &ErrRaggedRows{Row: rows, Expected: dim, Actual: len(fields)}
		}

		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("dataset: row %d: %w", rows, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrEmpty
	}

	return &Matrix{rows: rows, dim: dim, data: data}, nil
}

// Save writes the matrix as whitespace-separated text, one row per line.
// Files ending in ".gz" are compressed transparently.
func Save(m *Matrix, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	var w io.Writer = f
	var zw *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		zw = gzip.NewWriter(f)
		w = zw
	}

	bw := bufio.NewWriter(w)
	writeErr := func() error {
		for i := 0; i < m.rows; i++ {
			row := m.Row(i)
			for j, v := range row {
				if j > 0 {
					if err := bw.WriteByte(' '); err != nil {
						return err
					}
				}
				if _, err := bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
					return err
				}
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		if err := bw.Flush(); err != nil {
			return err
		}
		if zw != nil {
			return zw.Close()
		}
		return nil
	}()
	if writeErr != nil {
		f.Close()
		return writeErr
	}
	return f.Close()
}
