package umfile

import (
	"encoding/binary"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cockroachdb/errors"
)

// CodecKey is the three lowest decimal digits (N3N2N1) of lbpack.
type CodecKey int

// MaskKind says which land/sea mask points a codec stores.
type MaskKind int

const (
	MaskNone MaskKind = iota
	MaskLand
	MaskSea
)

// PackingCode is a decoded lbpack word.
type PackingCode struct {
	// NumberFormat is N4: 0 native, 2 IEEE, 3 IBM-compatible.
	NumberFormat int
	Key          CodecKey
}

// SplitPacking decodes lbpack, rejecting number formats other than 0, 2 and 3.
func SplitPacking(lbpack int64) (PackingCode, error) {
	nf := int((lbpack / 1000) % 10)
	switch nf {
	case 0, 2, 3:
	default:
		return PackingCode{}, errors.Wrapf(ErrNumberFormat, "lbpack %d has number format %d", lbpack, nf)
	}
	return PackingCode{NumberFormat: nf, Key: CodecKey(lbpack - int64(nf)*1000)}, nil
}

// ReadContext carries what a decoder needs beyond the payload.
type ReadContext struct {
	WordSize int
	Order    binary.ByteOrder
	// Mask is the land/sea mask field, for land/sea packed codecs.
	Mask *Field
}

// DecodeFunc turns a stored payload into data. ref is the lookup entry as
// read from the file.
type DecodeFunc func(ref *Field, raw []byte, rc *ReadContext) (*Array, error)

// WriteContext is built once per write and shared by its write operators.
type WriteContext struct {
	WordSize int
	Order    binary.ByteOrder
	// Land and Sea hold the grid points of the file's land/sea mask, or nil
	// when the file has no mask field.
	Land *roaring.Bitmap
	Sea  *roaring.Bitmap
}

// WriteOperator encodes a field's data. It returns the payload and the
// value to record in lblrec.
type WriteOperator interface {
	ToBytes(f *Field) ([]byte, int64, error)
}

// Codec pairs the read and write sides of one packing code.
type Codec struct {
	Key  CodecKey
	Name string
	Mask MaskKind
	// Decode is nil for codes that can be copied but not decoded.
	Decode    DecodeFunc
	NewWriter func(wc *WriteContext) WriteOperator
}

// Registry maps codec keys to codecs.
type Registry struct {
	codecs map[CodecKey]Codec
}

// NewRegistry builds a registry from codecs, rejecting duplicate keys.
func NewRegistry(codecs ...Codec) (*Registry, error) {
	r := &Registry{codecs: make(map[CodecKey]Codec, len(codecs))}
	for _, c := range codecs {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func mustRegistry(codecs ...Codec) *Registry {
	r, err := NewRegistry(codecs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds a codec.
func (r *Registry) Register(c Codec) error {
	if _, ok := r.codecs[c.Key]; ok {
		return errors.Wrapf(ErrDuplicateCodec, "key %03d", c.Key)
	}
	r.codecs[c.Key] = c
	return nil
}

// Lookup returns the codec for a key.
func (r *Registry) Lookup(k CodecKey) (Codec, bool) {
	c, ok := r.codecs[k]
	return c, ok
}

// Keys returns the registered keys in ascending order.
func (r *Registry) Keys() []CodecKey {
	keys := make([]CodecKey, 0, len(r.codecs))
	for k := range r.codecs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Clone returns an independent copy.
func (r *Registry) Clone() *Registry {
	out := &Registry{codecs: make(map[CodecKey]Codec, len(r.codecs))}
	for k, c := range r.codecs {
		out.codecs[k] = c
	}
	return out
}

// readCodec returns the codec used to read a key. Unknown keys get a codec
// that can be copied verbatim but fails on decode.
func (r *Registry) readCodec(k CodecKey) Codec {
	if c, ok := r.codecs[k]; ok {
		return c
	}
	return Codec{Key: k, Name: "unsupported"}
}
