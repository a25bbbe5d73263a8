package binary

import (
	"encoding/binary"
	"io"
)

// Writer writes fixed-width words to an io.WriterAt.
type Writer struct {
	w        io.WriterAt
	order    binary.ByteOrder
	wordSize int
	pos      int64
}

// NewWriter creates a word writer with the given configuration.
func NewWriter(w io.WriterAt, cfg Config) *Writer {
	if cfg.ByteOrder == nil {
		cfg.ByteOrder = binary.BigEndian
	}
	return &Writer{
		w:        w,
		order:    cfg.ByteOrder,
		wordSize: cfg.WordSize,
	}
}

// At returns a new writer positioned at the given byte offset.
// The new writer shares the underlying io.WriterAt but has independent position.
func (w *Writer) At(offset int64) *Writer {
	return &Writer{
		w:        w.w,
		order:    w.order,
		wordSize: w.wordSize,
		pos:      offset,
	}
}

// Pos returns the current write position in bytes.
func (w *Writer) Pos() int64 {
	return w.pos
}

// WordPos returns the current position as a 0-based word offset.
func (w *Writer) WordPos() int64 {
	return w.pos / int64(w.wordSize)
}

// WriteBytes writes the given bytes at the current position.
func (w *Writer) WriteBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	n, err := w.w.WriteAt(data, w.pos)
	w.pos += int64(n)
	return err
}

// WriteInts writes signed integer words.
func (w *Writer) WriteInts(vals []int64) error {
	return w.WriteBytes(EncodeInts(vals, w.wordSize, w.order))
}

// WriteReals writes floating point words.
func (w *Writer) WriteReals(vals []float64) error {
	return w.WriteBytes(EncodeReals(vals, w.wordSize, w.order))
}

// WritePadding writes zero bytes to align to the given alignment.
func (w *Writer) WritePadding(alignment int64) error {
	if alignment <= 1 {
		return nil
	}
	remainder := w.pos % alignment
	if remainder == 0 {
		return nil
	}
	return w.WriteZeros(int(alignment - remainder))
}

// WriteZeros writes n zero bytes.
func (w *Writer) WriteZeros(n int) error {
	if n <= 0 {
		return nil
	}
	return w.WriteBytes(make([]byte, n))
}

// BufferWriterAt is an in-memory io.WriterAt that grows on demand.
type BufferWriterAt struct {
	buf []byte
}

// WriteAt implements io.WriterAt.
func (b *BufferWriterAt) WriteAt(p []byte, off int64) (int, error) {
	end := int(off) + len(p)
	if end > len(b.buf) {
		grown := make([]byte, end)
		copy(grown, b.buf)
		b.buf = grown
	}
	copy(b.buf[off:], p)
	return len(p), nil
}

// ReadAt implements io.ReaderAt over the written bytes.
func (b *BufferWriterAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b.buf)) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Bytes returns the written bytes.
func (b *BufferWriterAt) Bytes() []byte {
	return b.buf
}
