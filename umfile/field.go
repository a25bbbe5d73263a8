package umfile

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/robert-malhotra/go-umfile/internal/binary"
	"github.com/robert-malhotra/go-umfile/internal/header"
)

// Field is one lookup entry plus the provider of its data.
//
// The 45 integer words and 19 real words are addressed by 1-based position
// (1-45 integers, 46-64 reals) or by name through the mapping of the
// field's release.
type Field struct {
	ints     [LookupInts]int64
	reals    [LookupReals]float64
	provider Provider
}

// NewField creates a field from its integer and real words.
func NewField(ints []int64, reals []float64) (*Field, error) {
	if len(ints) != LookupInts || len(reals) != LookupReals {
		return nil, errors.Wrapf(ErrLookupLength, "got %d integer and %d real words, want %d and %d",
			len(ints), len(reals), LookupInts, LookupReals)
	}
	f := &Field{}
	copy(f.ints[:], ints)
	copy(f.reals[:], reals)
	return f, nil
}

// EmptyField returns a field marked unused: integers -99, reals 0.
func EmptyField() *Field {
	f := &Field{}
	for i := range f.ints {
		f.ints[i] = emptyWord
	}
	return f
}

// Int returns the integer word at a 1-based position (1-45).
func (f *Field) Int(pos int) int64 { return f.ints[pos-1] }

// SetInt sets the integer word at a 1-based position (1-45).
func (f *Field) SetInt(pos int, v int64) { f.ints[pos-1] = v }

// Real returns the real word at a 1-based position (46-64).
func (f *Field) Real(pos int) float64 { return f.reals[pos-1-LookupInts] }

// SetReal sets the real word at a 1-based position (46-64).
func (f *Field) SetReal(pos int, v float64) { f.reals[pos-1-LookupInts] = v }

// Ints returns a copy of the integer words.
func (f *Field) Ints() []int64 {
	out := make([]int64, LookupInts)
	copy(out, f.ints[:])
	return out
}

// Reals returns a copy of the real words.
func (f *Field) Reals() []float64 {
	out := make([]float64, LookupReals)
	copy(out, f.reals[:])
	return out
}

// Release returns lbrel.
func (f *Field) Release() int64 { return f.ints[posLBREL-1] }

// Names returns the name mapping of the field's release, or nil when the
// release is not recognised.
func (f *Field) Names() header.Mapping { return releaseNames(f.Release()) }

func (f *Field) lookupName(name string) (int, error) {
	names := f.Names()
	if names == nil {
		return 0, errors.Wrapf(ErrUnknownRelease, "lbrel %d", f.Release())
	}
	return names.Lookup(name)
}

// NamedInt returns an integer word by name.
func (f *Field) NamedInt(name string) (int64, error) {
	pos, err := f.lookupName(name)
	if err != nil {
		return 0, err
	}
	if pos > LookupInts {
		return 0, errors.Wrapf(ErrInvalidArgument, "%q is a real word", name)
	}
	return f.Int(pos), nil
}

// NamedReal returns a real word by name.
func (f *Field) NamedReal(name string) (float64, error) {
	pos, err := f.lookupName(name)
	if err != nil {
		return 0, err
	}
	if pos <= LookupInts {
		return 0, errors.Wrapf(ErrInvalidArgument, "%q is an integer word", name)
	}
	return f.Real(pos), nil
}

// SetNamedInt sets an integer word by name.
func (f *Field) SetNamedInt(name string, v int64) error {
	pos, err := f.lookupName(name)
	if err != nil {
		return err
	}
	if pos > LookupInts {
		return errors.Wrapf(ErrInvalidArgument, "%q is a real word", name)
	}
	f.SetInt(pos, v)
	return nil
}

// SetNamedReal sets a real word by name.
func (f *Field) SetNamedReal(name string, v float64) error {
	pos, err := f.lookupName(name)
	if err != nil {
		return err
	}
	if pos <= LookupInts {
		return errors.Wrapf(ErrInvalidArgument, "%q is an integer word", name)
	}
	f.SetReal(pos, v)
	return nil
}

// Typed accessors for the lookup words the pipeline uses.
func (f *Field) LBFT() int64 { return f.Int(posLBFT) }
func (f *Field) LBLRec() int64 { return f.Int(posLBLREC) }
func (f *Field) LBCode() int64 { return f.Int(posLBCODE) }
func (f *Field) LBHem() int64 { return f.Int(posLBHEM) }
func (f *Field) LBRow() int64 { return f.Int(posLBROW) }
func (f *Field) LBNpt() int64 { return f.Int(posLBNPT) }
func (f *Field) LBPack() int64 { return f.Int(posLBPACK) }
func (f *Field) LBProc() int64 { return f.Int(posLBPROC) }
func (f *Field) LBEgin() int64 { return f.Int(posLBEGIN) }
func (f *Field) LBNRec() int64 { return f.Int(posLBNREC) }
func (f *Field) LBUser1() int64 { return f.Int(posLBUSER1) }
func (f *Field) LBUser3() int64 { return f.Int(posLBUSER3) }
func (f *Field) LBUser4() int64 { return f.Int(posLBUSER4) }
func (f *Field) Bacc() float64 { return f.Real(posBACC) }
func (f *Field) BZY() float64 { return f.Real(posBZY) }
func (f *Field) BDY() float64 { return f.Real(posBDY) }
func (f *Field) BZX() float64 { return f.Real(posBZX) }
func (f *Field) BDX() float64 { return f.Real(posBDX) }
func (f *Field) BMDI() float64 { return f.Real(posBMDI) }
func (f *Field) SetLBPack(v int64) { f.SetInt(posLBPACK, v) }

// StashCode returns lbuser4.
func (f *Field) StashCode() int64 { return f.LBUser4() }

// IsEmpty reports whether the entry is an unused slot.
func (f *Field) IsEmpty() bool { return f.ints[0] == emptyWord }

// IsLandSeaMask reports whether the field is a land/sea mask.
func (f *Field) IsLandSeaMask() bool {
	r := f.Release()
	return (r == 2 || r == 3) && f.LBUser4() == landSeaMaskCode
}

// hasGrid reports whether the release defines lbrow and lbnpt.
func (f *Field) hasGrid() bool {
	r := f.Release()
	return r == 2 || r == 3
}

// NumValues returns the number of lookup words (64).
func (f *Field) NumValues() int { return LookupLength }

// Copy returns a copy of the lookup words sharing the same data provider.
func (f *Field) Copy() *Field {
	c := *f
	return &c
}

// Provider returns the field's data provider, or nil.
func (f *Field) Provider() Provider { return f.provider }

// SetProvider replaces the field's data provider.
func (f *Field) SetProvider(p Provider) { f.provider = p }

// SetData attaches an in-memory array as the field's data.
func (f *Field) SetData(a *Array) { f.provider = &ArrayProvider{arr: a} }

// Data returns the field's data. It returns (nil, nil) when the field has
// no provider.
func (f *Field) Data() (*Array, error) {
	if f.provider == nil {
		return nil, nil
	}
	return f.provider.Data()
}

// CanCopyDeferred reports whether the field's payload can be copied
// verbatim when written with the given packing: the data has not been
// touched since it was read and the packing is unchanged.
func (f *Field) CanCopyDeferred(lbpack int64, bacc float64) bool {
	p, ok := f.provider.(*RawProvider)
	if !ok {
		return false
	}
	return p.ref.LBPack() == lbpack && p.ref.Bacc() == bacc
}

// RawPayload returns the bytes of a field read from a file, exactly as
// stored.
func (f *Field) RawPayload() ([]byte, error) {
	p, ok := f.provider.(*RawProvider)
	if !ok {
		return nil, errors.Wrap(ErrInvalidArgument, "field data was not read from a file")
	}
	return p.ReadBytes()
}

// Equal reports whether both fields have identical lookup words and data.
func (f *Field) Equal(other *Field) (bool, error) {
	if f.ints != other.ints {
		return false, nil
	}
	for i := range f.reals {
		if f.reals[i] != other.reals[i] {
			return false, nil
		}
	}
	a, err := f.Data()
	if err != nil {
		return false, err
	}
	b, err := other.Data()
	if err != nil {
		return false, err
	}
	return a.Equal(b), nil
}

func (f *Field) writeTo(w *binary.Writer) error {
	if err := w.WriteInts(f.ints[:]); err != nil {
		return err
	}
	return w.WriteReals(f.reals[:])
}

func (f *Field) String() string {
	if f.IsEmpty() {
		return "Field(empty)"
	}
	return fmt.Sprintf("Field(lbrel=%d, stash=%d, lbft=%d, lbpack=%d)",
		f.Release(), f.LBUser4(), f.LBFT(), f.LBPack())
}
