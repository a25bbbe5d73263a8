// Package wgdos implements the WGDOS row-wise packing used by UM fields
// with packing code 1.
//
// A packed field starts with three 32-bit words: the total length of the
// packed field in 32-bit words, the packing accuracy (a power of two
// exponent) and the grid size as columns<<16 | rows. Each row follows as a
// base value in IBM single precision, a descriptor word holding the flags
// and bit width in its upper half and the row's data length in 32-bit words
// in its lower half, then the row's bit stream. The bit stream holds an
// optional missing-data bitmap, an optional zero bitmap and the quantised
// values of the remaining points, each nbits wide, MSB first.
//
// Values are quantised as round((x - base) / 2^accuracy), so the unpacked
// value is within 2^accuracy / 2 of the original.
package wgdos

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/cockroachdb/errors"
)

var (
	// ErrCorrupt is returned when packed data is truncated or inconsistent.
	ErrCorrupt = errors.New("wgdos: corrupt packed data")
	// ErrAccuracy is returned when the accuracy is too fine for the data range.
	ErrAccuracy = errors.New("wgdos: accuracy too fine for data range")
	// ErrShape is returned for grids that cannot be described by the header.
	ErrShape = errors.New("wgdos: invalid grid shape")
)

const (
	flagMissing = 0x20
	flagZero    = 0x40
	maskBits    = 0x1F

	headerWords = 3
	maxDim      = 0xFFFF
)

// Pack packs a rows x cols grid of values (row-major). Points equal to mdi
// are recorded in a missing-data bitmap. The result is padded to a whole
// number of 64-bit words.
func Pack(values []float64, rows, cols int, mdi float64, accuracy int) ([]byte, error) {
	if rows < 0 || cols < 0 || rows > maxDim || cols > maxDim {
		return nil, errors.Wrapf(ErrShape, "%d x %d", rows, cols)
	}
	if len(values) != rows*cols {
		return nil, errors.Wrapf(ErrShape, "%d values for %d x %d grid", len(values), rows, cols)
	}
	scale := math.Ldexp(1, accuracy)

	out := make([]byte, headerWords*4, headerWords*4+len(values)*4)
	be := binary.BigEndian
	be.PutUint32(out[4:], uint32(int32(accuracy)))
	be.PutUint32(out[8:], uint32(cols)<<16|uint32(rows))

	for r := 0; r < rows; r++ {
		row, err := packRow(values[r*cols:(r+1)*cols], mdi, scale)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", r)
		}
		out = append(out, row...)
	}

	be.PutUint32(out[0:], uint32(len(out)/4))
	if rem := len(out) % 8; rem != 0 {
		out = append(out, make([]byte, 8-rem)...)
	}
	return out, nil
}

func packRow(row []float64, mdi, scale float64) ([]byte, error) {
	var hasMissing, hasZero bool
	minVal := math.Inf(1)
	remaining := 0
	for _, v := range row {
		switch {
		case v == mdi:
			hasMissing = true
		case v == 0:
			hasZero = true
		default:
			remaining++
			if v < minVal {
				minVal = v
			}
		}
	}

	var baseIBM uint32
	// The base must not exceed the row minimum or the smallest values
	// would be clamped to it.
	if remaining > 0 {
		baseIBM = floorIBM(minVal)
	}
	base := FromIBM(baseIBM)

	quantised := make([]uint64, 0, remaining)
	var maxQ uint64
	for _, v := range row {
		if v == mdi || v == 0 {
			continue
		}
		q := math.Round((v - base) / scale)
		if q < 0 {
			q = 0
		}
		if q >= 1<<31 {
			return nil, errors.Wrapf(ErrAccuracy, "value %g with base %g", v, base)
		}
		u := uint64(q)
		quantised = append(quantised, u)
		if u > maxQ {
			maxQ = u
		}
	}
	nbits := uint(bits.Len64(maxQ))

	var bw bitWriter
	if hasMissing {
		for _, v := range row {
			bw.writeBool(v == mdi)
		}
	}
	if hasZero {
		for _, v := range row {
			bw.writeBool(v == 0)
		}
	}
	if nbits > 0 {
		for _, q := range quantised {
			bw.write(q, nbits)
		}
	}
	data := bw.finish()

	nwords := len(data) / 4
	if nwords > maxDim {
		return nil, errors.Wrapf(ErrShape, "row needs %d words", nwords)
	}
	flags := uint32(nbits)
	if hasMissing {
		flags |= flagMissing
	}
	if hasZero {
		flags |= flagZero
	}

	out := make([]byte, 8, 8+len(data))
	binary.BigEndian.PutUint32(out[0:], baseIBM)
	binary.BigEndian.PutUint32(out[4:], flags<<16|uint32(nwords))
	return append(out, data...), nil
}

// Unpack unpacks a WGDOS field into rows*cols values (row-major). Missing
// points are set to mdi. rows and cols must match the packed header.
func Unpack(b []byte, mdi float64, rows, cols int) ([]float64, error) {
	if len(b) < headerWords*4 {
		return nil, errors.Wrapf(ErrCorrupt, "%d bytes is shorter than the header", len(b))
	}
	be := binary.BigEndian
	total := int(be.Uint32(b[0:]))
	accuracy := int(int32(be.Uint32(b[4:])))
	dims := be.Uint32(b[8:])
	pCols, pRows := int(dims>>16), int(dims&0xFFFF)
	if pRows != rows || pCols != cols {
		return nil, errors.Wrapf(ErrShape, "packed grid is %d x %d, expected %d x %d", pRows, pCols, rows, cols)
	}
	if total*4 > len(b) || total < headerWords {
		return nil, errors.Wrapf(ErrCorrupt, "length %d words exceeds %d bytes", total, len(b))
	}
	scale := math.Ldexp(1, accuracy)

	out := make([]float64, rows*cols)
	pos := headerWords * 4
	for r := 0; r < rows; r++ {
		if pos+8 > total*4 {
			return nil, errors.Wrapf(ErrCorrupt, "row %d header truncated", r)
		}
		base := FromIBM(be.Uint32(b[pos:]))
		desc := be.Uint32(b[pos+4:])
		flags, nwords := desc>>16, int(desc&0xFFFF)
		pos += 8
		if pos+nwords*4 > total*4 {
			return nil, errors.Wrapf(ErrCorrupt, "row %d data truncated", r)
		}
		br := bitReader{buf: b[pos : pos+nwords*4]}
		pos += nwords * 4

		dst := out[r*cols : (r+1)*cols]
		if err := unpackRow(&br, dst, flags, base, scale, mdi); err != nil {
			return nil, errors.Wrapf(err, "row %d", r)
		}
	}
	return out, nil
}

func unpackRow(br *bitReader, dst []float64, flags uint32, base, scale, mdi float64) error {
	n := len(dst)
	missing := make([]bool, n)
	zero := make([]bool, n)
	if flags&flagMissing != 0 {
		for i := range missing {
			v, err := br.readBool()
			if err != nil {
				return err
			}
			missing[i] = v
		}
	}
	if flags&flagZero != 0 {
		for i := range zero {
			v, err := br.readBool()
			if err != nil {
				return err
			}
			zero[i] = v
		}
	}
	nbits := uint(flags & maskBits)
	for i := range dst {
		switch {
		case missing[i]:
			dst[i] = mdi
		case zero[i]:
			dst[i] = 0
		default:
			var q uint64
			if nbits > 0 {
				var err error
				if q, err = br.read(nbits); err != nil {
					return err
				}
			}
			dst[i] = base + float64(q)*scale
		}
	}
	return nil
}

// bitWriter accumulates an MSB-first bit stream.
type bitWriter struct {
	buf []byte
	acc uint64
	n   uint
}

func (w *bitWriter) write(v uint64, nbits uint) {
	w.acc = w.acc<<nbits | v&(1<<nbits-1)
	w.n += nbits
	for w.n >= 8 {
		w.n -= 8
		w.buf = append(w.buf, byte(w.acc>>w.n))
	}
	w.acc &= 1<<w.n - 1
}

func (w *bitWriter) writeBool(b bool) {
	if b {
		w.write(1, 1)
	} else {
		w.write(0, 1)
	}
}

// finish flushes partial bits and pads to a 32-bit boundary.
func (w *bitWriter) finish() []byte {
	if w.n > 0 {
		w.write(0, 8-w.n)
	}
	for len(w.buf)%4 != 0 {
		w.buf = append(w.buf, 0)
	}
	return w.buf
}

type bitReader struct {
	buf []byte
	pos uint // in bits
}

func (r *bitReader) read(nbits uint) (uint64, error) {
	if r.pos+nbits > uint(len(r.buf))*8 {
		return 0, errors.Wrap(ErrCorrupt, "bit stream exhausted")
	}
	var v uint64
	for i := uint(0); i < nbits; i++ {
		bit := (r.buf[r.pos/8] >> (7 - r.pos%8)) & 1
		v = v<<1 | uint64(bit)
		r.pos++
	}
	return v, nil
}

func (r *bitReader) readBool() (bool, error) {
	v, err := r.read(1)
	return v == 1, err
}
