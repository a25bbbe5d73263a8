package header

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/robert-malhotra/go-umfile/internal/binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFixedSize(t *testing.T) {
	for _, n := range []int{0, 255, 257} {
		_, err := NewFixed(make([]int64, n))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSizeMismatch), "n=%d: %v", n, err)
	}

	f, err := NewFixed(make([]int64, FixedLength))
	require.NoError(t, err)
	assert.Equal(t, []int{256}, f.Shape())
}

func TestEmptyFixed(t *testing.T) {
	f := EmptyFixed()
	for _, v := range f.Raw() {
		require.Equal(t, MDI, v)
	}
}

func TestFixedNamedAccess(t *testing.T) {
	f := EmptyFixed()
	require.NoError(t, f.SetNamed("dataset_type", 3))
	assert.Equal(t, int64(3), f.At(DatasetType))

	f.Set(LookupStart, 1024)
	v, err := f.Get("lookup_start")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), v)

	_, err = f.Get("no_such_word")
	assert.True(t, errors.Is(err, ErrUnknownName))
	assert.True(t, errors.Is(f.SetNamed("no_such_word", 1), ErrUnknownName))
}

func TestFixedRoundTrip(t *testing.T) {
	words := make([]int64, FixedLength)
	for i := range words {
		words[i] = int64(i * 3)
	}
	f, err := NewFixed(words)
	require.NoError(t, err)

	buf := &binary.BufferWriterAt{}
	require.NoError(t, f.Write(binary.NewWriter(buf, binary.DefaultConfig())))
	require.Len(t, buf.Bytes(), FixedLength*8)

	got, err := ReadFixed(binary.NewReader(buf, binary.DefaultConfig()))
	require.NoError(t, err)
	assert.True(t, f.Equal(got))

	got.Set(DataStart, 9)
	assert.False(t, f.Equal(got))
}

func TestIntegersAccess(t *testing.T) {
	names := Mapping{"num_cols": 6, "num_rows": 7}
	c := EmptyIntegers(46, names)
	assert.Equal(t, []int{46}, c.Shape())

	require.NoError(t, c.Set("num_rows", 144))
	v, err := c.At(7)
	require.NoError(t, err)
	assert.Equal(t, int64(144), v)

	v, err = c.Get("num_cols")
	require.NoError(t, err)
	assert.Equal(t, MDI, v)

	_, err = c.At(47)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	_, err = c.At(0)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	short := EmptyIntegers(3, names)
	_, err = short.Get("num_rows")
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestRealsClone(t *testing.T) {
	c := NewReals([]float64{1, 2, 3}, Mapping{"col_spacing": 1})
	d := c.Clone().(*Reals)
	require.True(t, c.Equal(d))

	require.NoError(t, d.Set("col_spacing", 0.5))
	assert.False(t, c.Equal(d))
	v, _ := c.Get("col_spacing")
	assert.Equal(t, 1.0, v)
}

func TestReals2DColumnMajor(t *testing.T) {
	const levels, kinds = 3, 4
	vals := make([]float64, levels*kinds)
	for i := range vals {
		vals[i] = float64(i)
	}
	c, err := NewReals2D(vals, levels, kinds, Mapping{"eta_at_theta": 1, "eta_at_rho": 2})
	require.NoError(t, err)
	assert.Equal(t, []int{levels, kinds}, c.Shape())

	for j := 1; j <= kinds; j++ {
		for i := 1; i <= levels; i++ {
			v, err := c.At(i, j)
			require.NoError(t, err)
			assert.Equal(t, float64((j-1)*levels+i-1), v)
		}
	}

	col, err := c.Column("eta_at_rho")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4, 5}, col)

	require.NoError(t, c.FillColumn("eta_at_theta", 0.25))
	col, _ = c.Column("eta_at_theta")
	assert.Equal(t, []float64{0.25, 0.25, 0.25}, col)

	err = c.SetColumn("eta_at_rho", []float64{1})
	assert.True(t, errors.Is(err, ErrSizeMismatch))

	_, err = NewReals2D(vals, 5, 5, nil)
	assert.True(t, errors.Is(err, ErrSizeMismatch))
}

func TestReals2DRoundTrip(t *testing.T) {
	for _, ws := range []int{4, 8} {
		cfg := binary.DefaultConfig()
		cfg.WordSize = ws
		c := EmptyReals2D(2, 3, nil)
		require.NoError(t, c.Set(2, 3, 7.5))

		buf := &binary.BufferWriterAt{}
		require.NoError(t, c.Write(binary.NewWriter(buf, cfg)))
		got, err := ReadReals2D(binary.NewReader(buf, cfg), 2, 3, nil)
		require.NoError(t, err)
		assert.True(t, c.Equal(got), "word size %d", ws)
	}
}

func TestMappingNames(t *testing.T) {
	m := Mapping{"b": 2, "a": 1, "c": 3}
	assert.Equal(t, []string{"a", "b", "c"}, m.Names())
}
