package umfile

import (
	"github.com/cockroachdb/errors"
	"github.com/robert-malhotra/go-umfile/internal/packing"
)

func fieldsFileCodecs() *Registry {
	return mustRegistry(
		gridCodec(0, "unpacked", packing.MethodNone),
		gridCodec(1, "WGDOS", packing.MethodWGDOS),
		gridCodec(2, "32-bit", packing.MethodCray),
		landSeaCodec(120, "land-packed", packing.MethodNone, MaskLand),
		landSeaCodec(220, "sea-packed", packing.MethodNone, MaskSea),
		landSeaCodec(122, "32-bit land-packed", packing.MethodCray, MaskLand),
		landSeaCodec(222, "32-bit sea-packed", packing.MethodCray, MaskSea),
	)
}

func lbcCodecs() *Registry {
	return mustRegistry(
		lbcCodec(0, "LBC unpacked", packing.MethodNone),
		lbcCodec(2, "LBC 32-bit", packing.MethodCray),
	)
}

func params(f *Field, wordSize int, rc *ReadContext) packing.Params {
	p := packing.Params{
		WordSize: wordSize,
		DataType: packing.DataType(f.LBUser1()),
		MDI:      f.BMDI(),
		Accuracy: int(f.Bacc()),
	}
	if rc != nil {
		p.Order = rc.Order
	}
	if p.DataType != packing.Integer && p.DataType != packing.Logical {
		p.DataType = packing.Real
	}
	return p
}

// gridCodec stores the whole grid, lbrow x lbnpt values.
func gridCodec(key CodecKey, name string, method int) Codec {
	return Codec{
		Key:  key,
		Name: name,
		Decode: func(ref *Field, raw []byte, rc *ReadContext) (*Array, error) {
			tr, err := packing.New(method)
			if err != nil {
				return nil, err
			}
			p := params(ref, rc.WordSize, rc)
			var shape []int
			if ref.hasGrid() {
				p.Rows, p.Cols = int(ref.LBRow()), int(ref.LBNpt())
				p.Count = p.Rows * p.Cols
				shape = []int{p.Rows, p.Cols}
			} else {
				p.Count = int(ref.LBLRec())
				shape = []int{p.Count}
			}
			vals, err := tr.Decode(raw, p)
			if err != nil {
				return nil, err
			}
			return NewArray(vals, shape...)
		},
		NewWriter: func(wc *WriteContext) WriteOperator {
			return &transformWriter{wc: wc, method: method}
		},
	}
}

// landSeaCodec stores only the land or sea points of the file's mask.
func landSeaCodec(key CodecKey, name string, method int, mask MaskKind) Codec {
	return Codec{
		Key:  key,
		Name: name,
		Mask: mask,
		Decode: func(ref *Field, raw []byte, rc *ReadContext) (*Array, error) {
			if rc.Mask == nil {
				return nil, errors.Wrap(ErrNoLandSeaMask, "land/sea packed field")
			}
			lsm, err := rc.Mask.Data()
			if err != nil {
				return nil, errors.Wrap(err, "reading land/sea mask")
			}
			if lsm == nil {
				return nil, errors.Wrap(ErrNoLandSeaMask, "mask field has no data")
			}
			tr, err := packing.New(method)
			if err != nil {
				return nil, err
			}
			p := params(ref, rc.WordSize, rc)
			p.Count = int(ref.LBLRec())
			stored, err := tr.Decode(raw, p)
			if err != nil {
				return nil, err
			}

			want := 1.0
			if mask == MaskSea {
				want = 0.0
			}
			points := packing.Points(lsm.Values, want)
			rows, cols := int(rc.Mask.LBRow()), int(rc.Mask.LBNpt())
			vals, err := packing.Scatter(stored, points, rows*cols, ref.BMDI())
			if err != nil {
				return nil, err
			}
			return NewArray(vals, rows, cols)
		},
		NewWriter: func(wc *WriteContext) WriteOperator {
			return &transformWriter{wc: wc, method: method, mask: mask}
		},
	}
}

// lbcCodec stores levels x boundary points, with lbhem - 100 levels.
func lbcCodec(key CodecKey, name string, method int) Codec {
	return Codec{
		Key:  key,
		Name: name,
		Decode: func(ref *Field, raw []byte, rc *ReadContext) (*Array, error) {
			tr, err := packing.New(method)
			if err != nil {
				return nil, err
			}
			p := params(ref, rc.WordSize, rc)
			p.Count = int(ref.LBLRec())
			vals, err := tr.Decode(raw, p)
			if err != nil {
				return nil, err
			}
			levels := int(ref.LBHem() - 100)
			if levels <= 0 {
				return nil, errors.Wrapf(ErrInvalidArgument, "lbhem %d does not give a level count", ref.LBHem())
			}
			return NewArray(vals, levels, -1)
		},
		NewWriter: func(wc *WriteContext) WriteOperator {
			return &transformWriter{wc: wc, method: method}
		},
	}
}

// transformWriter encodes field data with a packing transform.
type transformWriter struct {
	wc     *WriteContext
	method int
	mask   MaskKind
}

func (w *transformWriter) ToBytes(f *Field) ([]byte, int64, error) {
	data, err := f.Data()
	if err != nil {
		return nil, 0, err
	}
	if data == nil {
		return nil, 0, errors.Wrapf(ErrInvalidArgument, "%s has no data", f)
	}
	tr, err := packing.New(w.method)
	if err != nil {
		return nil, 0, err
	}
	p := params(f, w.wc.WordSize, nil)
	p.Order = w.wc.Order

	vals := data.Values
	switch w.mask {
	case MaskLand, MaskSea:
		points := w.wc.Land
		if w.mask == MaskSea {
			points = w.wc.Sea
		}
		if points == nil {
			return nil, 0, errors.Wrap(ErrNoLandSeaMask, "cannot land/sea pack without a land/sea mask")
		}
		if vals, err = packing.Gather(vals, points); err != nil {
			return nil, 0, err
		}
	}
	if w.method == packing.MethodWGDOS {
		p.Rows, p.Cols = data.Rows(), data.Cols()
	}

	buf, err := tr.Encode(vals, p)
	if err != nil {
		return nil, 0, err
	}
	if w.method == packing.MethodWGDOS {
		return buf, int64(len(buf) / w.wc.WordSize), nil
	}
	return buf, int64(len(vals)), nil
}
