package umfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/robert-malhotra/go-umfile/internal/alloc"
	"github.com/robert-malhotra/go-umfile/internal/binary"
	"github.com/robert-malhotra/go-umfile/internal/header"
	"github.com/robert-malhotra/go-umfile/internal/packing"
)

const sectorWords = binary.WordsPerSector

// disabledAccuracy in bacc turns WGDOS packing off for a field.
const disabledAccuracy = -99

// WriteFile writes the file to path. The data goes to a temporary file in
// the same directory which replaces path only once it is complete.
func (f *File) WriteFile(path string) error {
	if path == "" {
		return errors.Wrap(ErrInvalidArgument, "no output path")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	tmpPath := tmp.Name()
	fail := func(err error) error {
		return errors.CombineErrors(err, os.Remove(tmpPath))
	}

	if err := f.Encode(tmp); err != nil {
		return fail(errors.CombineErrors(err, tmp.Close()))
	}
	if err := tmp.Sync(); err != nil {
		return fail(errors.CombineErrors(errors.Wrap(err, "syncing"), tmp.Close()))
	}
	if err := tmp.Close(); err != nil {
		return fail(errors.Wrap(err, "closing temporary file"))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fail(errors.Wrapf(err, "replacing %s", path))
	}

	// Payload offsets have moved, so fields read from the replaced file
	// must now read from the new one.
	if f.src != nil && f.src.Path() == path {
		return f.rebind(path)
	}
	return nil
}

func (f *File) rebind(path string) error {
	src, err := openSource(path)
	if err != nil {
		return err
	}
	old := f.src
	f.src = src
	return errors.CombineErrors(f.attach(f.Fields, nil), old.Close())
}

// Encode writes the complete file to w: components, then field payloads,
// then the lookup, and the fixed length header last. Lookup positions and
// record lengths of the fields are updated as they are written.
func (f *File) Encode(w io.WriterAt) error {
	cfg := f.config()
	ws := int64(cfg.WordSize)
	bw := binary.NewWriter(w, cfg)
	fixed := f.fixed
	a := alloc.New(header.FixedLength)

	for _, cs := range f.ft.Components {
		c := f.components[cs.Name]
		if c == nil {
			cs.record(fixed, nil, 0)
			continue
		}
		word := a.Alloc(int64(size(c.Shape())), cs.Name)
		cs.record(fixed, c, word+1)
		if err := c.Write(bw.At(word * ws)); err != nil {
			return errors.Wrapf(err, "writing %s", cs.Name)
		}
	}

	fixed.Set(header.TotalPrognosticFields, header.MDI)
	if len(f.Fields) == 0 {
		for _, pos := range []int{header.LookupStart, header.LookupDim1, header.LookupDim2,
			header.DataStart, header.DataDim1, header.DataDim2} {
			fixed.Set(pos, header.MDI)
		}
		return f.writeFixed(bw)
	}

	lookupStart := a.EOF() + 1
	a.Alloc(int64(LookupLength*len(f.Fields)), "lookup")
	a.Align(f.opts.dataAlignment)
	dataStart := a.EOF() + 1
	fixed.Set(header.LookupStart, lookupStart)
	fixed.Set(header.LookupDim1, LookupLength)
	fixed.Set(header.LookupDim2, int64(len(f.Fields)))
	fixed.Set(header.DataStart, dataStart)

	wc := &WriteContext{WordSize: cfg.WordSize, Order: cfg.ByteOrder}
	if f.ft.landSea {
		if err := f.extractMasks(wc); err != nil {
			return err
		}
	}

	writers := make(map[CodecKey]WriteOperator)
	for i, fld := range f.Fields {
		if fld.IsEmpty() || fld.Names() == nil {
			continue
		}
		word := a.EOF()
		dw := bw.At(word * ws)
		fld.SetInt(posLBEGIN, word)

		if fld.LBPack()%10 == packing.MethodWGDOS && int64(fld.Bacc()) == disabledAccuracy {
			fld.SetLBPack(10 * (fld.LBPack() / 10))
		}

		if fld.CanCopyDeferred(fld.LBPack(), fld.Bacc()) {
			raw, err := fld.RawPayload()
			if err != nil {
				return errors.Wrapf(err, "field %d", i)
			}
			if n := fld.LBLRec() * ws; int64(len(raw)) > n {
				raw = raw[:n]
			}
			if err := dw.WriteBytes(raw); err != nil {
				return errors.Wrapf(err, "writing field %d", i)
			}
			// Dump payloads have no record length; the output is sector
			// addressed so give them one.
			if fld.LBNRec() <= 0 {
				fld.SetInt(posLBNREC, roundUp(fld.LBLRec(), sectorWords))
			}
		} else {
			wo, err := f.writer(writers, wc, fld)
			if err != nil {
				return errors.Wrapf(err, "field %d", i)
			}
			buf, n, err := wo.ToBytes(fld)
			if err != nil {
				return errors.Wrapf(err, "packing field %d", i)
			}
			if err := dw.WriteBytes(buf); err != nil {
				return errors.Wrapf(err, "writing field %d", i)
			}
			fld.SetInt(posLBLREC, n)
			fld.SetInt(posLBNREC, roundUp(n, sectorWords))
		}

		if err := dw.WritePadding(cfg.SectorBytes()); err != nil {
			return errors.Wrapf(err, "padding field %d", i)
		}
		a.Alloc(dw.WordPos()-word, fmt.Sprintf("field %d", i))
	}

	fixed.Set(header.DataDim1, a.EOF()-dataStart+1)
	if f.ft.clearDataShape {
		fixed.Set(header.DataDim1, 0)
		fixed.Set(header.DataDim2, 0)
	}
	if err := a.Validate(); err != nil {
		return err
	}

	lw := bw.At((lookupStart - 1) * ws)
	for i, fld := range f.Fields {
		if err := fld.writeTo(lw); err != nil {
			return errors.Wrapf(err, "writing lookup entry %d", i)
		}
	}

	stats := a.Stats()
	f.opts.logger.Debug("wrote file",
		"type", f.ft.Name,
		"fields", len(f.Fields),
		"data_start", dataStart,
		"words", a.EOF(),
		"padding_words", stats.PaddingWords)
	return f.writeFixed(bw)
}

func (f *File) writeFixed(bw *binary.Writer) error {
	if err := f.fixed.Write(bw.At(0)); err != nil {
		return errors.Wrap(err, "writing fixed length header")
	}
	return nil
}

// writer returns the write operator for a field's packing code, creating
// it on first use.
func (f *File) writer(writers map[CodecKey]WriteOperator, wc *WriteContext, fld *Field) (WriteOperator, error) {
	pc, err := SplitPacking(fld.LBPack())
	if err != nil {
		return nil, err
	}
	if wo, ok := writers[pc.Key]; ok {
		return wo, nil
	}
	c, ok := f.registry.Lookup(pc.Key)
	if !ok || c.NewWriter == nil {
		return nil, errors.Wrapf(ErrNoWriteCodec, "cannot save data with lbpack=%d", fld.LBPack())
	}
	wo := c.NewWriter(wc)
	writers[pc.Key] = wo
	return wo, nil
}

// extractMasks reads the land/sea mask once for every land/sea packed
// field of the write. A mask whose own packing cannot be written is
// ignored.
func (f *File) extractMasks(wc *WriteContext) error {
	for _, fld := range f.Fields {
		if !fld.IsLandSeaMask() {
			continue
		}
		pc, err := SplitPacking(fld.LBPack())
		if err != nil {
			return err
		}
		if c, ok := f.registry.Lookup(pc.Key); !ok || c.NewWriter == nil {
			continue
		}
		data, err := fld.Data()
		if err != nil {
			return errors.Wrap(err, "reading land/sea mask")
		}
		if data == nil {
			continue
		}
		wc.Land = packing.Points(data.Values, 1)
		wc.Sea = packing.PointsExcept(data.Values, 1)
	}
	return nil
}

func roundUp(n, multiple int64) int64 {
	if r := n % multiple; r != 0 {
		return n + multiple - r
	}
	return n
}

func size(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
