package umfile

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// Provider supplies a field's data on demand.
type Provider interface {
	Data() (*Array, error)
}

// Operator computes a field's data from one or more source fields.
// Operators hold no per-field state; results are recomputed on every call.
type Operator interface {
	Transform(sources []*Field) (*Array, error)
}

// OperatorFunc adapts a function to the Operator interface.
type OperatorFunc func(sources []*Field) (*Array, error)

// Transform calls fn.
func (fn OperatorFunc) Transform(sources []*Field) (*Array, error) { return fn(sources) }

// RawProvider reads a field's payload from its source file and decodes it
// with the codec chosen by the packing code.
type RawProvider struct {
	ref      *Field
	src      *Source
	offset   int64
	wordSize int
	order    binary.ByteOrder
	codec    Codec
	lsm      *Field
}

// Reference returns the lookup entry as it was read from the file.
func (p *RawProvider) Reference() *Field { return p.ref }

// Offset returns the byte offset of the payload.
func (p *RawProvider) Offset() int64 { return p.offset }

// RequiresMask reports whether decoding needs a land/sea mask field.
func (p *RawProvider) RequiresMask() bool { return p.codec.Mask != MaskNone }

// SetMask sets the land/sea mask field used to expand the payload.
func (p *RawProvider) SetMask(lsm *Field) { p.lsm = lsm }

// ReadBytes returns the stored payload: lbnrec words, or lblrec words when
// lbnrec is unset as in model dumps.
func (p *RawProvider) ReadBytes() ([]byte, error) {
	n := p.ref.LBNRec()
	if n <= 0 {
		n = p.ref.LBLRec()
	}
	return p.src.readRange(p.offset, int(n)*p.wordSize)
}

// Data reads and decodes the payload.
func (p *RawProvider) Data() (*Array, error) {
	if p.codec.Decode == nil {
		return nil, errors.Wrapf(ErrUnsupportedPacking, "lbpack %d", p.ref.LBPack())
	}
	raw, err := p.ReadBytes()
	if err != nil {
		return nil, err
	}
	rc := &ReadContext{WordSize: p.wordSize, Order: p.order, Mask: p.lsm}
	arr, err := p.codec.Decode(p.ref, raw, rc)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s field", p.codec.Name)
	}
	return arr, nil
}

// TransformProvider derives data from source fields through an operator.
type TransformProvider struct {
	op      Operator
	sources []*Field
}

// Data runs the operator.
func (p *TransformProvider) Data() (*Array, error) {
	return p.op.Transform(p.sources)
}

// Bind attaches op to result so that result's data is computed from sources.
func Bind(op Operator, result *Field, sources ...*Field) {
	result.SetProvider(&TransformProvider{op: op, sources: sources})
}

// Derive returns a copy of src whose data is op applied to src and any
// extra sources.
func Derive(op Operator, src *Field, extra ...*Field) *Field {
	out := src.Copy()
	Bind(op, out, append([]*Field{src}, extra...)...)
	return out
}

// ArrayProvider holds data in memory.
type ArrayProvider struct {
	arr *Array
}

// NewArrayProvider wraps an array.
func NewArrayProvider(a *Array) *ArrayProvider { return &ArrayProvider{arr: a} }

// Data returns the held array.
func (p *ArrayProvider) Data() (*Array, error) { return p.arr, nil }
