// Package binary provides word-oriented binary I/O for UM file parsing.
package binary

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/cockroachdb/errors"
)

// ErrInvalidWordSize is returned when a word size other than 4 or 8 is used.
var ErrInvalidWordSize = errors.New("invalid word size: must be 4 or 8")

// WordsPerSector is the number of words in one disk sector. Field payloads
// and the data section are padded to whole sectors.
const WordsPerSector = 512

// Reader reads fixed-width words from an io.ReaderAt.
type Reader struct {
	r        io.ReaderAt
	order    binary.ByteOrder
	wordSize int
	pos      int64
}

// Config holds reader and writer configuration.
type Config struct {
	ByteOrder binary.ByteOrder
	WordSize  int // 4 or 8 bytes
}

// DefaultConfig returns the configuration of a standard 64-bit UM file:
// big-endian 8-byte words.
func DefaultConfig() Config {
	return Config{
		ByteOrder: binary.BigEndian,
		WordSize:  8,
	}
}

// Validate checks the word size.
func (c Config) Validate() error {
	if c.WordSize != 4 && c.WordSize != 8 {
		return errors.Wrapf(ErrInvalidWordSize, "got %d", c.WordSize)
	}
	return nil
}

// SectorBytes returns the size of one sector in bytes.
func (c Config) SectorBytes() int64 {
	return int64(WordsPerSector * c.WordSize)
}

// NewReader creates a word reader with the given configuration.
func NewReader(r io.ReaderAt, cfg Config) *Reader {
	if cfg.ByteOrder == nil {
		cfg.ByteOrder = binary.BigEndian
	}
	return &Reader{
		r:        r,
		order:    cfg.ByteOrder,
		wordSize: cfg.WordSize,
	}
}

// At returns a new reader positioned at the given byte offset.
// The new reader shares the underlying io.ReaderAt but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{
		r:        r.r,
		order:    r.order,
		wordSize: r.wordSize,
		pos:      offset,
	}
}

// AtWord returns a reader positioned at a 1-based word number.
func (r *Reader) AtWord(word int64) *Reader {
	return r.At((word - 1) * int64(r.wordSize))
}

// Pos returns the current read position in bytes.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := r.r.ReadAt(buf, r.pos)
	if err != nil {
		if errors.Is(err, io.EOF) && read == n {
			err = nil
		} else if errors.Is(err, io.EOF) {
			return nil, errors.Wrapf(io.ErrUnexpectedEOF, "reading %d bytes at %d", n, r.pos)
		} else {
			return nil, err
		}
	}
	r.pos += int64(n)
	return buf, nil
}

// ReadInts reads n signed integer words.
func (r *Reader) ReadInts(n int) ([]int64, error) {
	buf, err := r.ReadBytes(n * r.wordSize)
	if err != nil {
		return nil, err
	}
	return DecodeInts(buf, r.wordSize, r.order), nil
}

// ReadReals reads n floating point words.
func (r *Reader) ReadReals(n int) ([]float64, error) {
	buf, err := r.ReadBytes(n * r.wordSize)
	if err != nil {
		return nil, err
	}
	return DecodeReals(buf, r.wordSize, r.order), nil
}

// DecodeInts interprets buf as a sequence of signed words.
// Trailing bytes that do not fill a word are ignored.
func DecodeInts(buf []byte, wordSize int, order binary.ByteOrder) []int64 {
	n := len(buf) / wordSize
	out := make([]int64, n)
	for i := range out {
		w := buf[i*wordSize:]
		if wordSize == 4 {
			out[i] = int64(int32(order.Uint32(w)))
		} else {
			out[i] = int64(order.Uint64(w))
		}
	}
	return out
}

// DecodeReals interprets buf as a sequence of IEEE floating point words.
func DecodeReals(buf []byte, wordSize int, order binary.ByteOrder) []float64 {
	n := len(buf) / wordSize
	out := make([]float64, n)
	for i := range out {
		w := buf[i*wordSize:]
		if wordSize == 4 {
			out[i] = float64(math.Float32frombits(order.Uint32(w)))
		} else {
			out[i] = math.Float64frombits(order.Uint64(w))
		}
	}
	return out
}

// EncodeInts encodes signed words. Values are truncated for 4-byte words.
func EncodeInts(vals []int64, wordSize int, order binary.ByteOrder) []byte {
	buf := make([]byte, len(vals)*wordSize)
	for i, v := range vals {
		w := buf[i*wordSize:]
		if wordSize == 4 {
			order.PutUint32(w, uint32(int32(v)))
		} else {
			order.PutUint64(w, uint64(v))
		}
	}
	return buf
}

// EncodeReals encodes IEEE floating point words, narrowing for 4-byte words.
func EncodeReals(vals []float64, wordSize int, order binary.ByteOrder) []byte {
	buf := make([]byte, len(vals)*wordSize)
	for i, v := range vals {
		w := buf[i*wordSize:]
		if wordSize == 4 {
			order.PutUint32(w, math.Float32bits(float32(v)))
		} else {
			order.PutUint64(w, math.Float64bits(v))
		}
	}
	return buf
}
