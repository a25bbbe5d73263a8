package wgdos

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMDI = -1073741824.0

func testGrid(rows, cols int) []float64 {
	rng := rand.New(rand.NewSource(7))
	vals := make([]float64, rows*cols)
	for i := range vals {
		vals[i] = 200 + rng.Float64()*100
	}
	// A run of zeros and a few missing points exercise both bitmaps.
	for i := 3; i < 9; i++ {
		vals[cols+i] = 0
	}
	vals[2*cols+1] = testMDI
	vals[2*cols+4] = testMDI
	return vals
}

func TestIBMRoundTrip(t *testing.T) {
	cases := []float64{0, 1, -1, 0.5, 118.625, -3.0e-5, 1.0e10, 1.0 / 16}
	for _, v := range cases {
		got := FromIBM(ToIBM(v))
		if v == 0 {
			assert.Equal(t, 0.0, got)
			continue
		}
		assert.InEpsilon(t, v, got, 1e-6, "value %g", v)
	}
	// Exactly representable values survive unchanged.
	assert.Equal(t, 118.625, FromIBM(ToIBM(118.625)))
	assert.Equal(t, uint32(0x41100000), ToIBM(1))
	assert.Equal(t, uint32(0xC276A000), ToIBM(-118.625))
}

func TestPackAccuracy(t *testing.T) {
	const rows, cols = 5, 17
	vals := testGrid(rows, cols)
	for _, acc := range []int{-10, -6, -2, 0, 2} {
		packed, err := Pack(vals, rows, cols, testMDI, acc)
		require.NoError(t, err)
		assert.Zero(t, len(packed)%8, "acc=%d: not padded to 64-bit words", acc)

		got, err := Unpack(packed, testMDI, rows, cols)
		require.NoError(t, err)
		tol := math.Ldexp(1, acc) / 2 * (1 + 1e-9)
		for i, v := range vals {
			switch v {
			case testMDI:
				assert.Equal(t, testMDI, got[i])
			case 0:
				assert.Equal(t, 0.0, got[i])
			default:
				assert.LessOrEqual(t, math.Abs(got[i]-v), tol, "acc=%d point %d", acc, i)
			}
		}
	}
}

func TestPackAccuracyLargeValues(t *testing.T) {
	for _, tc := range []struct {
		acc  int
		vals []float64
	}{
		{-20, []float64{200.000010681, 200.00002, 200.0001, 200.000011}},
		{-6, []float64{100000.04, 100000.5, 100001, 100000.1}},
		{-6, []float64{-100000.04, -99999.5, -99990, -100000.01}},
		{-8, []float64{4095.999, 4096.2, 4095.9995, 4100}},
	} {
		packed, err := Pack(tc.vals, 1, len(tc.vals), testMDI, tc.acc)
		require.NoError(t, err)
		got, err := Unpack(packed, testMDI, 1, len(tc.vals))
		require.NoError(t, err)
		tol := math.Ldexp(1, tc.acc) / 2 * (1 + 1e-9)
		for i, v := range tc.vals {
			assert.LessOrEqual(t, math.Abs(got[i]-v), tol, "acc=%d value %v decoded as %v", tc.acc, v, got[i])
		}
	}
}

func TestFloorIBM(t *testing.T) {
	for _, v := range []float64{200.000010681, 100000.04, -100000.04, 4095.9999999, -1e-3, 0.1} {
		assert.LessOrEqual(t, FromIBM(floorIBM(v)), v, "value %v", v)
		assert.InEpsilon(t, v, FromIBM(floorIBM(v)), 1e-6, "value %v", v)
	}
	assert.Equal(t, ToIBM(118.625), floorIBM(118.625))
}

func TestRepackIdempotent(t *testing.T) {
	const rows, cols = 6, 11
	vals := testGrid(rows, cols)
	first, err := Pack(vals, rows, cols, testMDI, -8)
	require.NoError(t, err)
	unpacked, err := Unpack(first, testMDI, rows, cols)
	require.NoError(t, err)

	second, err := Pack(unpacked, rows, cols, testMDI, -8)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPackConstantRows(t *testing.T) {
	vals := []float64{4, 4, 4, 4, testMDI, testMDI, testMDI, testMDI}
	packed, err := Pack(vals, 2, 4, testMDI, 0)
	require.NoError(t, err)
	got, err := Unpack(packed, testMDI, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, vals, got)
}

func TestPackErrors(t *testing.T) {
	_, err := Pack(make([]float64, 5), 2, 3, testMDI, 0)
	assert.True(t, errors.Is(err, ErrShape))

	_, err = Pack([]float64{1, 1e12}, 1, 2, testMDI, -20)
	assert.True(t, errors.Is(err, ErrAccuracy))
}

func TestUnpackErrors(t *testing.T) {
	packed, err := Pack(testGrid(3, 12), 3, 12, testMDI, -4)
	require.NoError(t, err)

	_, err = Unpack(packed, testMDI, 4, 12)
	assert.True(t, errors.Is(err, ErrShape))

	_, err = Unpack(packed[:20], testMDI, 3, 12)
	assert.True(t, errors.Is(err, ErrCorrupt))

	_, err = Unpack(packed[:4], testMDI, 3, 12)
	assert.True(t, errors.Is(err, ErrCorrupt))
}
