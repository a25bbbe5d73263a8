package umfile

import (
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
)

// Source is the byte stream fields are read from. When backed by a path it
// survives the container closing its handle: reads reopen the file for
// their duration.
type Source struct {
	mu   sync.Mutex
	path string
	file *os.File
	ra   io.ReaderAt
}

func openSource(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	return &Source{path: path, file: f}, nil
}

func readerSource(ra io.ReaderAt) *Source {
	return &Source{ra: ra}
}

// Path returns the file path, or "" for in-memory sources.
func (s *Source) Path() string { return s.path }

// ReadAt implements io.ReaderAt.
func (s *Source) ReadAt(p []byte, off int64) (int, error) {
	if s.ra != nil {
		return s.ra.ReadAt(p, off)
	}
	s.mu.Lock()
	f := s.file
	s.mu.Unlock()
	if f != nil {
		return f.ReadAt(p, off)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return 0, errors.Wrapf(err, "reopening %s", s.path)
	}
	n, err := f.ReadAt(p, off)
	return n, errors.CombineErrors(err, f.Close())
}

// readRange reads up to n bytes at off, returning fewer at end of file.
func (s *Source) readRange(off int64, n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := s.ReadAt(buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "reading %d bytes at %d", n, off)
	}
	return buf[:read], nil
}

// Close releases the open handle. Later reads reopen by path.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
