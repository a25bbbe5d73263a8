package umfile

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Array is an n-dimensional row-major block of values.
type Array struct {
	Shape  []int
	Values []float64
}

// NewArray creates an array, checking that values fills shape. A single
// dimension of -1 is inferred from the number of values.
func NewArray(values []float64, shape ...int) (*Array, error) {
	shape, err := resolveShape(len(values), shape)
	if err != nil {
		return nil, err
	}
	return &Array{Shape: shape, Values: values}, nil
}

// Full creates an array with every value set to v.
func Full(v float64, shape ...int) *Array {
	n := 1
	for _, d := range shape {
		n *= d
	}
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = v
	}
	s := make([]int, len(shape))
	copy(s, shape)
	return &Array{Shape: s, Values: vals}
}

func resolveShape(n int, shape []int) ([]int, error) {
	out := make([]int, len(shape))
	copy(out, shape)
	infer := -1
	size := 1
	for i, d := range out {
		switch {
		case d == -1 && infer < 0:
			infer = i
		case d < 0:
			return nil, errors.Wrapf(ErrInvalidArgument, "invalid shape %v", shape)
		default:
			size *= d
		}
	}
	if infer >= 0 {
		if size == 0 || n%size != 0 {
			return nil, errors.Wrapf(ErrInvalidArgument, "cannot reshape %d values to %v", n, shape)
		}
		out[infer] = n / size
		size = n
	}
	if size != n {
		return nil, errors.Wrapf(ErrInvalidArgument, "%d values do not fill shape %v", n, shape)
	}
	return out, nil
}

// Len returns the number of values.
func (a *Array) Len() int { return len(a.Values) }

// Rows returns the size of the second to last dimension (1 for 1-D arrays).
func (a *Array) Rows() int {
	if len(a.Shape) < 2 {
		return 1
	}
	return a.Shape[len(a.Shape)-2]
}

// Cols returns the size of the last dimension.
func (a *Array) Cols() int {
	if len(a.Shape) == 0 {
		return 0
	}
	return a.Shape[len(a.Shape)-1]
}

// At returns the value at the given 0-based index. It panics on a bad index.
func (a *Array) At(idx ...int) float64 {
	return a.Values[a.offset(idx)]
}

// Set sets the value at the given 0-based index.
func (a *Array) Set(v float64, idx ...int) {
	a.Values[a.offset(idx)] = v
}

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.Shape) {
		panic("umfile: index rank does not match array")
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= a.Shape[i] {
			panic("umfile: array index out of range")
		}
		off = off*a.Shape[i] + x
	}
	return off
}

// Reshape returns a view of the same values with a new shape.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	s, err := resolveShape(len(a.Values), shape)
	if err != nil {
		return nil, err
	}
	return &Array{Shape: s, Values: a.Values}, nil
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	s := make([]int, len(a.Shape))
	copy(s, a.Shape)
	v := make([]float64, len(a.Values))
	copy(v, a.Values)
	return &Array{Shape: s, Values: v}
}

// Equal reports whether both arrays have the same shape and values.
// NaNs compare equal to each other.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Shape) != len(b.Shape) || len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return false
		}
	}
	for i := range a.Values {
		x, y := a.Values[i], b.Values[i]
		if x != y && !(math.IsNaN(x) && math.IsNaN(y)) {
			return false
		}
	}
	return true
}
