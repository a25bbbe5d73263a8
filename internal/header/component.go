package header

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/robert-malhotra/go-umfile/internal/binary"
)

var (
	// ErrSizeMismatch is returned when a component is built from the wrong
	// number of words.
	ErrSizeMismatch = errors.New("header component size mismatch")
	// ErrUnknownName is returned for a name missing from a component's mapping.
	ErrUnknownName = errors.New("unknown header name")
	// ErrOutOfRange is returned for a position outside a component.
	ErrOutOfRange = errors.New("header position out of range")
)

// Component is a header block that can be written back to a file.
type Component interface {
	Shape() []int
	Write(w *binary.Writer) error
	Clone() Component
	Equal(other Component) bool
}

// Mapping maps a symbolic name to a 1-based word position.
type Mapping map[string]int

// Lookup returns the position of name.
func (m Mapping) Lookup(name string) (int, error) {
	pos, ok := m[name]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownName, "%q", name)
	}
	return pos, nil
}

// Names returns the mapped names ordered by position.
func (m Mapping) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if m[names[i]] != m[names[j]] {
			return m[names[i]] < m[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Integers is a 1-D block of integer words.
type Integers struct {
	names Mapping
	vals  []int64
}

// NewIntegers creates an integer component holding a copy of vals.
func NewIntegers(vals []int64, names Mapping) *Integers {
	v := make([]int64, len(vals))
	copy(v, vals)
	return &Integers{names: names, vals: v}
}

// EmptyIntegers creates an integer component of n words set to MDI.
func EmptyIntegers(n int, names Mapping) *Integers {
	v := make([]int64, n)
	for i := range v {
		v[i] = MDI
	}
	return &Integers{names: names, vals: v}
}

// ReadIntegers reads n integer words from the reader's position.
func ReadIntegers(r *binary.Reader, n int, names Mapping) (*Integers, error) {
	vals, err := r.ReadInts(n)
	if err != nil {
		return nil, err
	}
	return &Integers{names: names, vals: vals}, nil
}

// Len returns the number of words.
func (c *Integers) Len() int { return len(c.vals) }

// Shape returns [n].
func (c *Integers) Shape() []int { return []int{len(c.vals)} }

// Names returns the component's name mapping.
func (c *Integers) Names() Mapping { return c.names }

// Raw returns a copy of the words.
func (c *Integers) Raw() []int64 {
	out := make([]int64, len(c.vals))
	copy(out, c.vals)
	return out
}

// At returns the word at a 1-based position.
func (c *Integers) At(pos int) (int64, error) {
	if pos < 1 || pos > len(c.vals) {
		return 0, errors.Wrapf(ErrOutOfRange, "position %d of %d", pos, len(c.vals))
	}
	return c.vals[pos-1], nil
}

// SetAt sets the word at a 1-based position.
func (c *Integers) SetAt(pos int, v int64) error {
	if pos < 1 || pos > len(c.vals) {
		return errors.Wrapf(ErrOutOfRange, "position %d of %d", pos, len(c.vals))
	}
	c.vals[pos-1] = v
	return nil
}

// Get returns a word by name.
func (c *Integers) Get(name string) (int64, error) {
	pos, err := c.names.Lookup(name)
	if err != nil {
		return 0, err
	}
	return c.At(pos)
}

// Set sets a word by name.
func (c *Integers) Set(name string, v int64) error {
	pos, err := c.names.Lookup(name)
	if err != nil {
		return err
	}
	return c.SetAt(pos, v)
}

// Write writes the words at the writer's position.
func (c *Integers) Write(w *binary.Writer) error {
	return w.WriteInts(c.vals)
}

// Clone returns a deep copy.
func (c *Integers) Clone() Component {
	return NewIntegers(c.vals, c.names)
}

// Equal reports whether other holds the same integer words.
func (c *Integers) Equal(other Component) bool {
	o, ok := other.(*Integers)
	if !ok {
		return false
	}
	return equalInts(c.vals, o.vals)
}

// Reals is a 1-D block of real words.
type Reals struct {
	names Mapping
	vals  []float64
}

// NewReals creates a real component holding a copy of vals.
func NewReals(vals []float64, names Mapping) *Reals {
	v := make([]float64, len(vals))
	copy(v, vals)
	return &Reals{names: names, vals: v}
}

// EmptyReals creates a real component of n words set to RealMDI.
func EmptyReals(n int, names Mapping) *Reals {
	v := make([]float64, n)
	for i := range v {
		v[i] = RealMDI
	}
	return &Reals{names: names, vals: v}
}

// ReadReals reads n real words from the reader's position.
func ReadReals(r *binary.Reader, n int, names Mapping) (*Reals, error) {
	vals, err := r.ReadReals(n)
	if err != nil {
		return nil, err
	}
	return &Reals{names: names, vals: vals}, nil
}

// Len returns the number of words.
func (c *Reals) Len() int { return len(c.vals) }

// Shape returns [n].
func (c *Reals) Shape() []int { return []int{len(c.vals)} }

// Names returns the component's name mapping.
func (c *Reals) Names() Mapping { return c.names }

// Raw returns a copy of the words.
func (c *Reals) Raw() []float64 {
	out := make([]float64, len(c.vals))
	copy(out, c.vals)
	return out
}

// At returns the word at a 1-based position.
func (c *Reals) At(pos int) (float64, error) {
	if pos < 1 || pos > len(c.vals) {
		return 0, errors.Wrapf(ErrOutOfRange, "position %d of %d", pos, len(c.vals))
	}
	return c.vals[pos-1], nil
}

// SetAt sets the word at a 1-based position.
func (c *Reals) SetAt(pos int, v float64) error {
	if pos < 1 || pos > len(c.vals) {
		return errors.Wrapf(ErrOutOfRange, "position %d of %d", pos, len(c.vals))
	}
	c.vals[pos-1] = v
	return nil
}

// Get returns a word by name.
func (c *Reals) Get(name string) (float64, error) {
	pos, err := c.names.Lookup(name)
	if err != nil {
		return 0, err
	}
	return c.At(pos)
}

// Set sets a word by name.
func (c *Reals) Set(name string, v float64) error {
	pos, err := c.names.Lookup(name)
	if err != nil {
		return err
	}
	return c.SetAt(pos, v)
}

// Write writes the words at the writer's position.
func (c *Reals) Write(w *binary.Writer) error {
	return w.WriteReals(c.vals)
}

// Clone returns a deep copy.
func (c *Reals) Clone() Component {
	return NewReals(c.vals, c.names)
}

// Equal reports whether other holds the same real words.
func (c *Reals) Equal(other Component) bool {
	o, ok := other.(*Reals)
	if !ok {
		return false
	}
	return equalReals(c.vals, o.vals)
}

// Reals2D is a 2-D block of real words of shape (dim1, dim2), stored
// column-major. Names address columns (the second dimension).
type Reals2D struct {
	names Mapping
	dim1  int
	dim2  int
	vals  []float64
}

// NewReals2D creates a 2-D component from column-major values.
func NewReals2D(vals []float64, dim1, dim2 int, names Mapping) (*Reals2D, error) {
	if dim1 < 0 || dim2 < 0 || len(vals) != dim1*dim2 {
		return nil, errors.Wrapf(ErrSizeMismatch,
			"%d values for shape (%d, %d)", len(vals), dim1, dim2)
	}
	v := make([]float64, len(vals))
	copy(v, vals)
	return &Reals2D{names: names, dim1: dim1, dim2: dim2, vals: v}, nil
}

// EmptyReals2D creates a 2-D component with every word set to RealMDI.
func EmptyReals2D(dim1, dim2 int, names Mapping) *Reals2D {
	v := make([]float64, dim1*dim2)
	for i := range v {
		v[i] = RealMDI
	}
	return &Reals2D{names: names, dim1: dim1, dim2: dim2, vals: v}
}

// ReadReals2D reads dim1*dim2 real words from the reader's position.
func ReadReals2D(r *binary.Reader, dim1, dim2 int, names Mapping) (*Reals2D, error) {
	vals, err := r.ReadReals(dim1 * dim2)
	if err != nil {
		return nil, err
	}
	return &Reals2D{names: names, dim1: dim1, dim2: dim2, vals: vals}, nil
}

// Shape returns [dim1, dim2].
func (c *Reals2D) Shape() []int { return []int{c.dim1, c.dim2} }

// Names returns the component's column name mapping.
func (c *Reals2D) Names() Mapping { return c.names }

// Raw returns a copy of the column-major words.
func (c *Reals2D) Raw() []float64 {
	out := make([]float64, len(c.vals))
	copy(out, c.vals)
	return out
}

func (c *Reals2D) index(i, j int) (int, error) {
	if i < 1 || i > c.dim1 || j < 1 || j > c.dim2 {
		return 0, errors.Wrapf(ErrOutOfRange, "(%d, %d) of (%d, %d)", i, j, c.dim1, c.dim2)
	}
	return (j-1)*c.dim1 + (i - 1), nil
}

// At returns the word at 1-based (i, j).
func (c *Reals2D) At(i, j int) (float64, error) {
	idx, err := c.index(i, j)
	if err != nil {
		return 0, err
	}
	return c.vals[idx], nil
}

// Set sets the word at 1-based (i, j).
func (c *Reals2D) Set(i, j int, v float64) error {
	idx, err := c.index(i, j)
	if err != nil {
		return err
	}
	c.vals[idx] = v
	return nil
}

// Column returns a copy of the named column.
func (c *Reals2D) Column(name string) ([]float64, error) {
	j, err := c.columnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, c.dim1)
	copy(out, c.vals[(j-1)*c.dim1:j*c.dim1])
	return out, nil
}

// SetColumn replaces the named column.
func (c *Reals2D) SetColumn(name string, vals []float64) error {
	j, err := c.columnIndex(name)
	if err != nil {
		return err
	}
	if len(vals) != c.dim1 {
		return errors.Wrapf(ErrSizeMismatch, "column %q needs %d values, got %d", name, c.dim1, len(vals))
	}
	copy(c.vals[(j-1)*c.dim1:j*c.dim1], vals)
	return nil
}

// FillColumn sets every word of the named column to v.
func (c *Reals2D) FillColumn(name string, v float64) error {
	j, err := c.columnIndex(name)
	if err != nil {
		return err
	}
	col := c.vals[(j-1)*c.dim1 : j*c.dim1]
	for i := range col {
		col[i] = v
	}
	return nil
}

func (c *Reals2D) columnIndex(name string) (int, error) {
	j, err := c.names.Lookup(name)
	if err != nil {
		return 0, err
	}
	if j > c.dim2 {
		return 0, errors.Wrapf(ErrOutOfRange, "column %q (%d) of %d", name, j, c.dim2)
	}
	return j, nil
}

// Write writes the words at the writer's position.
func (c *Reals2D) Write(w *binary.Writer) error {
	return w.WriteReals(c.vals)
}

// Clone returns a deep copy.
func (c *Reals2D) Clone() Component {
	out, _ := NewReals2D(c.vals, c.dim1, c.dim2, c.names)
	return out
}

// Equal reports whether other has the same shape and words.
func (c *Reals2D) Equal(other Component) bool {
	o, ok := other.(*Reals2D)
	if !ok {
		return false
	}
	return c.dim1 == o.dim1 && c.dim2 == o.dim2 && equalReals(c.vals, o.vals)
}

func equalInts(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalReals(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
