package packing

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestNewKnownMethods(t *testing.T) {
	for _, m := range []int{MethodNone, MethodWGDOS, MethodCray} {
		tr, err := New(m)
		if err != nil {
			t.Fatalf("New(%d) failed: %v", m, err)
		}
		if tr.Method() != m {
			t.Errorf("expected method %d, got %d", m, tr.Method())
		}
	}
}

func TestNewUnsupported(t *testing.T) {
	_, err := New(MethodGRIB)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if got := err.Error(); got != "GRIB packing (N1=3): unsupported packing method" {
		t.Errorf("unexpected message %q", got)
	}
	for _, m := range []int{MethodRLE, 9, -1} {
		if _, err := New(m); !errors.Is(err, ErrUnsupported) {
			t.Errorf("N1=%d: expected ErrUnsupported, got %v", m, err)
		}
	}
}

func TestUnpackedDecode(t *testing.T) {
	buf := make([]byte, 32)
	for i, v := range []float64{1.5, 2.5, 3.5, 99} {
		binary.BigEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	vals, err := Unpacked{}.Decode(buf, Params{WordSize: 8, DataType: Real, Count: 3})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(vals) != 3 || vals[0] != 1.5 || vals[2] != 3.5 {
		t.Errorf("unexpected values %v", vals)
	}

	if _, err := (Unpacked{}).Decode(buf, Params{WordSize: 8, Count: 5}); !errors.Is(err, ErrShortPayload) {
		t.Errorf("expected ErrShortPayload, got %v", err)
	}
}

func TestIntegerRoundTrip(t *testing.T) {
	p := Params{WordSize: 8, DataType: Integer}
	buf, err := Unpacked{}.Encode([]float64{-3, 0, 7}, p)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if got := int64(binary.BigEndian.Uint64(buf)); got != -3 {
		t.Errorf("expected -3 encoded as integer, got %d", got)
	}
	vals, err := Unpacked{}.Decode(buf, p)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if vals[0] != -3 || vals[1] != 0 || vals[2] != 7 {
		t.Errorf("unexpected values %v", vals)
	}
}

func TestNarrowedUsesFourByteWords(t *testing.T) {
	p := Params{WordSize: 8, DataType: Real}
	buf, err := Narrowed{}.Encode([]float64{0.5, -4}, p)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(buf) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(buf))
	}
	vals, err := Narrowed{}.Decode(buf, p)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if vals[0] != 0.5 || vals[1] != -4 {
		t.Errorf("unexpected values %v", vals)
	}
}

func TestWGDOSTransform(t *testing.T) {
	p := Params{Rows: 2, Cols: 3, MDI: -1e30, Accuracy: -4}
	in := []float64{1, 2, 3, 4, 5, -1e30}
	buf, err := WGDOS{}.Encode(in, p)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out, err := WGDOS{}.Decode(buf, p)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for i := range in {
		if math.Abs(out[i]-in[i]) > 1.0/32 {
			t.Errorf("point %d: expected %g, got %g", i, in[i], out[i])
		}
	}
}

func TestScatterGather(t *testing.T) {
	lsm := []float64{1, 0, 0, 1, 1, 0}
	land := Points(lsm, 1)
	if land.GetCardinality() != 3 {
		t.Fatalf("expected 3 land points, got %d", land.GetCardinality())
	}

	grid, err := Scatter([]float64{10, 20, 30}, land, len(lsm), -99)
	if err != nil {
		t.Fatalf("Scatter failed: %v", err)
	}
	want := []float64{10, -99, -99, 20, 30, -99}
	for i := range want {
		if grid[i] != want[i] {
			t.Errorf("point %d: expected %g, got %g", i, want[i], grid[i])
		}
	}

	got, err := Gather(grid, land)
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(got) != 3 || got[0] != 10 || got[1] != 20 || got[2] != 30 {
		t.Errorf("unexpected gathered values %v", got)
	}

	sea := PointsExcept(lsm, 1)
	if sea.GetCardinality() != 3 || !sea.Contains(1) {
		t.Errorf("unexpected sea points %v", sea.ToArray())
	}
}

func TestScatterMismatch(t *testing.T) {
	land := Points([]float64{1, 1, 0}, 1)
	if _, err := Scatter([]float64{1, 2, 3}, land, 3, 0); !errors.Is(err, ErrMaskMismatch) {
		t.Errorf("expected ErrMaskMismatch, got %v", err)
	}
	if _, err := Gather([]float64{1}, land); !errors.Is(err, ErrMaskMismatch) {
		t.Errorf("expected ErrMaskMismatch, got %v", err)
	}
}
