package packing

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
	ubinary "github.com/robert-malhotra/go-umfile/internal/binary"
	"github.com/robert-malhotra/go-umfile/internal/wgdos"
)

// Packing method digits (N1).
const (
	MethodNone  = 0
	MethodWGDOS = 1
	MethodCray  = 2
	MethodGRIB  = 3
	MethodRLE   = 4
)

// DataType is the lbuser1 data type of a field.
type DataType int

const (
	Real    DataType = 1
	Integer DataType = 2
	Logical DataType = 3
)

// ErrUnsupported is returned for packing methods that cannot be decoded.
var ErrUnsupported = errors.New("unsupported packing method")

// ErrShortPayload is returned when a payload holds fewer values than needed.
var ErrShortPayload = errors.New("payload too short")

// Params describes how a payload is laid out.
type Params struct {
	WordSize int
	Order    binary.ByteOrder
	DataType DataType
	// Count is the number of values to decode; 0 decodes every whole word.
	Count int
	// Rows and Cols give the grid for methods that pack row by row.
	Rows, Cols int
	MDI        float64
	Accuracy   int
}

// Transform is implemented by every packing method.
type Transform interface {
	// Method returns the N1 digit.
	Method() int

	// Decode turns a payload into values.
	Decode(input []byte, p Params) ([]float64, error)

	// Encode turns values into a payload.
	Encode(values []float64, p Params) ([]byte, error)
}

// methodNames maps known methods to names for better error messages.
var methodNames = map[int]string{
	MethodNone:  "unpacked",
	MethodWGDOS: "WGDOS",
	MethodCray:  "32-bit",
	MethodGRIB:  "GRIB",
	MethodRLE:   "run length",
}

// New creates the transform for a packing method.
func New(method int) (Transform, error) {
	switch method {
	case MethodNone:
		return Unpacked{}, nil
	case MethodWGDOS:
		return WGDOS{}, nil
	case MethodCray:
		return Narrowed{}, nil
	}
	if name, known := methodNames[method]; known {
		return nil, errors.Wrapf(ErrUnsupported, "%s packing (N1=%d)", name, method)
	}
	return nil, errors.Wrapf(ErrUnsupported, "N1=%d", method)
}

// Unpacked stores one value per word of the file's word size.
type Unpacked struct{}

func (Unpacked) Method() int { return MethodNone }

func (Unpacked) Decode(input []byte, p Params) ([]float64, error) {
	return decodeWords(input, p.WordSize, p)
}

func (Unpacked) Encode(values []float64, p Params) ([]byte, error) {
	return encodeWords(values, p.WordSize, p), nil
}

// Narrowed stores one value per 4-byte word regardless of the file's word size.
type Narrowed struct{}

func (Narrowed) Method() int { return MethodCray }

func (Narrowed) Decode(input []byte, p Params) ([]float64, error) {
	return decodeWords(input, 4, p)
}

func (Narrowed) Encode(values []float64, p Params) ([]byte, error) {
	return encodeWords(values, 4, p), nil
}

// WGDOS packs values row by row to the field's accuracy.
type WGDOS struct{}

func (WGDOS) Method() int { return MethodWGDOS }

func (WGDOS) Decode(input []byte, p Params) ([]float64, error) {
	return wgdos.Unpack(input, p.MDI, p.Rows, p.Cols)
}

func (WGDOS) Encode(values []float64, p Params) ([]byte, error) {
	return wgdos.Pack(values, p.Rows, p.Cols, p.MDI, p.Accuracy)
}

func decodeWords(input []byte, wordSize int, p Params) ([]float64, error) {
	if p.Count > 0 && len(input) < p.Count*wordSize {
		return nil, errors.Wrapf(ErrShortPayload, "%d bytes for %d values of %d bytes",
			len(input), p.Count, wordSize)
	}
	if p.Count > 0 {
		input = input[:p.Count*wordSize]
	}
	order := byteOrder(p)
	if p.DataType == Integer || p.DataType == Logical {
		ints := ubinary.DecodeInts(input, wordSize, order)
		out := make([]float64, len(ints))
		for i, v := range ints {
			out[i] = float64(v)
		}
		return out, nil
	}
	return ubinary.DecodeReals(input, wordSize, order), nil
}

func encodeWords(values []float64, wordSize int, p Params) []byte {
	order := byteOrder(p)
	if p.DataType == Integer || p.DataType == Logical {
		ints := make([]int64, len(values))
		for i, v := range values {
			ints[i] = int64(math.Round(v))
		}
		return ubinary.EncodeInts(ints, wordSize, order)
	}
	return ubinary.EncodeReals(values, wordSize, order)
}

func byteOrder(p Params) binary.ByteOrder {
	if p.Order == nil {
		return binary.BigEndian
	}
	return p.Order
}
