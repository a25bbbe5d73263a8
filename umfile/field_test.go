package umfile

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/robert-malhotra/go-umfile/internal/header"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFieldLength(t *testing.T) {
	_, err := NewField(make([]int64, 44), make([]float64, LookupReals))
	assert.True(t, errors.Is(err, ErrLookupLength))
	_, err = NewField(make([]int64, LookupInts), make([]float64, 20))
	assert.True(t, errors.Is(err, ErrLookupLength))
}

func TestEmptyField(t *testing.T) {
	f := EmptyField()
	assert.True(t, f.IsEmpty())
	assert.Nil(t, f.Names())
	for _, v := range f.Ints() {
		assert.Equal(t, int64(-99), v)
	}
	for _, v := range f.Reals() {
		assert.Zero(t, v)
	}
	assert.Equal(t, "Field(empty)", f.String())

	data, err := f.Data()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFieldPositions(t *testing.T) {
	f := gridField(t, 3, 4, 0)
	f.SetInt(LookupInts, 7)
	f.SetReal(LookupInts+1, 1.5)
	f.SetReal(LookupLength, 2.5)
	assert.Equal(t, int64(7), f.Int(45))
	assert.Equal(t, 1.5, f.Real(46))
	assert.Equal(t, 2.5, f.Reals()[LookupReals-1])
	assert.Equal(t, LookupLength, f.NumValues())
}

func TestFieldNamesByRelease(t *testing.T) {
	f := gridField(t, 3, 4, 0)
	require.NoError(t, f.SetNamedInt("lbsec", 30))
	assert.Equal(t, int64(30), f.Int(6))
	require.NoError(t, f.SetNamedReal("bzy", -90))
	assert.Equal(t, -90.0, f.BZY())

	_, err := f.NamedInt("bzy")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = f.NamedReal("lbrow")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = f.NamedInt("lbday")
	assert.Error(t, err)

	f.SetInt(posLBREL, 2)
	day, err := f.NamedInt("lbday")
	require.NoError(t, err)
	assert.Equal(t, int64(30), day)

	f.SetInt(posLBREL, header.MDI)
	pack, err := f.NamedInt("lbpack")
	require.NoError(t, err)
	assert.Zero(t, pack)
	_, err = f.NamedInt("lbrow")
	assert.Error(t, err)

	f.SetInt(posLBREL, 4)
	_, err = f.NamedInt("lbpack")
	assert.True(t, errors.Is(err, ErrUnknownRelease))
	assert.Error(t, f.SetNamedInt("lbpack", 1))
}

func TestIsLandSeaMask(t *testing.T) {
	f := gridField(t, 3, 4, 0)
	assert.False(t, f.IsLandSeaMask())
	f.SetInt(posLBUSER4, 30)
	assert.True(t, f.IsLandSeaMask())
	f.SetInt(posLBREL, 2)
	assert.True(t, f.IsLandSeaMask())
	f.SetInt(posLBREL, header.MDI)
	assert.False(t, f.IsLandSeaMask())
}

func TestFieldCopySharesData(t *testing.T) {
	f := gridField(t, 3, 4, 0)
	c := f.Copy()
	c.SetInt(posLBFT, 3)
	assert.Zero(t, f.LBFT())

	equal, err := f.Equal(c)
	require.NoError(t, err)
	assert.False(t, equal)

	c.SetInt(posLBFT, 0)
	equal, err = f.Equal(c)
	require.NoError(t, err)
	assert.True(t, equal)

	assert.False(t, f.CanCopyDeferred(f.LBPack(), f.Bacc()))
	_, err = f.RawPayload()
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestDerive(t *testing.T) {
	double := OperatorFunc(func(sources []*Field) (*Array, error) {
		data, err := sources[0].Data()
		if err != nil {
			return nil, err
		}
		out := data.Clone()
		for i := range out.Values {
			out.Values[i] *= 2
		}
		return out, nil
	})

	src := gridField(t, 3, 4, 0)
	derived := Derive(double, src)
	data, err := derived.Data()
	require.NoError(t, err)
	assert.Equal(t, 24.0, data.At(2, 3))

	// Derived data follows later changes to the source.
	src.SetData(Full(1, 3, 4))
	data, err = derived.Data()
	require.NoError(t, err)
	assert.Equal(t, 2.0, data.At(0, 0))
}

func TestArray(t *testing.T) {
	a, err := NewArray([]float64{1, 2, 3, 4, 5, 6}, -1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, a.Shape)
	assert.Equal(t, 2, a.Rows())
	assert.Equal(t, 3, a.Cols())
	assert.Equal(t, 6.0, a.At(1, 2))

	_, err = NewArray([]float64{1, 2, 3}, 2, 2)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = NewArray([]float64{1, 2, 3}, -1, 2)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = NewArray([]float64{1, 2}, -1, -1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	b, err := a.Reshape(3, 2)
	require.NoError(t, err)
	b.Set(9, 0, 1)
	assert.Equal(t, 9.0, a.At(0, 1))

	c := a.Clone()
	c.Set(0, 0, 0)
	assert.Equal(t, 1.0, a.At(0, 0))

	nan := Full(math.NaN(), 2)
	assert.True(t, nan.Equal(nan.Clone()))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
	assert.Panics(t, func() { a.At(2, 0) })
}
