package packing

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cockroachdb/errors"
)

// ErrMaskMismatch is returned when stored points and a mask disagree.
var ErrMaskMismatch = errors.New("land/sea mask does not match field")

// Points returns the indices of mask values equal to want.
func Points(mask []float64, want float64) *roaring.Bitmap {
	bm := roaring.New()
	for i, v := range mask {
		if v == want {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// PointsExcept returns the indices of mask values not equal to v.
func PointsExcept(mask []float64, v float64) *roaring.Bitmap {
	bm := roaring.New()
	for i, m := range mask {
		if m != v {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// Scatter places values at the given points of a grid of size points,
// filling every other point with fill.
func Scatter(values []float64, points *roaring.Bitmap, size int, fill float64) ([]float64, error) {
	if uint64(len(values)) != points.GetCardinality() {
		return nil, errors.Wrapf(ErrMaskMismatch, "%d stored values for %d mask points",
			len(values), points.GetCardinality())
	}
	if !points.IsEmpty() && int(points.Maximum()) >= size {
		return nil, errors.Wrapf(ErrMaskMismatch, "mask point %d outside grid of %d", points.Maximum(), size)
	}
	out := make([]float64, size)
	for i := range out {
		out[i] = fill
	}
	for i, idx := range points.ToArray() {
		out[idx] = values[i]
	}
	return out, nil
}

// Gather returns the values at the given points, in point order.
func Gather(values []float64, points *roaring.Bitmap) ([]float64, error) {
	if !points.IsEmpty() && int(points.Maximum()) >= len(values) {
		return nil, errors.Wrapf(ErrMaskMismatch, "mask point %d outside grid of %d",
			points.Maximum(), len(values))
	}
	idx := points.ToArray()
	out := make([]float64, len(idx))
	for i, p := range idx {
		out[i] = values[p]
	}
	return out, nil
}
