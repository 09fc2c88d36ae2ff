// Package catz opens trace sources, transparently gunzipping compressed ones.
package catz

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// SourceReader is a read-only handle on a trace source.
// Closing it releases the underlying file.
type SourceReader interface {
	io.ReadCloser
	Path() string
}

// OpenSource opens path for reading.
// Paths ending in .gz are read through a gzip reader.
// A missing path returns an error wrapping os.ErrNotExist.
func OpenSource(path string) (SourceReader, error) {
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		return NewGZFileReader(path)
	}
	return NewFileReader(path)
}

type FileReader struct {
	f      *os.File
	br     *bufio.Reader
	closed bool
}

func NewFileReader(path string) (*FileReader, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if st, err := fi.Stat(); err == nil && st.IsDir() {
		_ = fi.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &FileReader{f: fi, br: bufio.NewReaderSize(fi, 64*1024)}, nil
}

func (r *FileReader) Path() string {
	return r.f.Name()
}

// Read satisfies the io.Reader interface.
func (r *FileReader) Read(p []byte) (int, error) {
	return r.br.Read(p)
}

// Close satisfies the io.Closer interface. Closing twice is a no-op.
func (r *FileReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.f.Close()
}

type GZFileReader struct {
	f      *os.File
	gzr    *gzip.Reader
	closed bool
}

func NewGZFileReader(path string) (*GZFileReader, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	gzr, err := gzip.NewReader(fi)
	if err != nil {
		_ = fi.Close()
		return nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	return &GZFileReader{f: fi, gzr: gzr}, nil
}

func (g *GZFileReader) Path() string {
	return g.f.Name()
}

// Read satisfies the io.Reader interface.
func (g *GZFileReader) Read(p []byte) (int, error) {
	return g.gzr.Read(p)
}

// Close satisfies the io.Closer interface.
// It closes the gzip reader and the file.
func (g *GZFileReader) Close() error {
	if g.closed {
		return nil
	}
	defer func() {
		g.closed = true
	}()
	if err := g.gzr.Close(); err != nil {
		_ = g.f.Close()
		return err
	}
	return g.f.Close()
}

// LineCount counts the remaining lines of the source. It consumes the reader.
func LineCount(r io.Reader) (int, error) {
	count := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
