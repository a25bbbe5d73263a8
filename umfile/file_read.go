package umfile

import (
	"github.com/cockroachdb/errors"
	"github.com/robert-malhotra/go-umfile/internal/binary"
	"github.com/robert-malhotra/go-umfile/internal/header"
)

// read parses the fixed length header, the components and the lookup.
func (f *File) read() error {
	cfg := f.config()
	ws := int64(cfg.WordSize)
	r := binary.NewReader(f.src, cfg)

	fixed, err := header.ReadFixed(r)
	if err != nil {
		return errors.Wrap(err, "reading fixed length header")
	}
	if dt := fixed.At(header.DatasetType); !f.ft.AcceptsDatasetType(dt) {
		return errors.Wrapf(ErrDatasetType, "%s cannot hold dataset type %d (accepts %v)",
			f.ft.Name, dt, f.ft.DatasetTypes)
	}
	f.fixed = fixed

	for _, cs := range f.ft.Components {
		c, err := cs.read(r, fixed)
		if err != nil {
			return errors.Wrapf(err, "reading %s", cs.Name)
		}
		if c != nil {
			f.components[cs.Name] = c
		}
	}

	lookupStart := fixed.At(header.LookupStart)
	if lookupStart <= 0 {
		f.opts.logger.Debug("read file without lookup", "path", f.path, "type", f.ft.Name)
		return nil
	}
	dim1, dim2 := fixed.At(header.LookupDim1), fixed.At(header.LookupDim2)
	if dim1 != LookupLength {
		return errors.Wrapf(ErrLookupLength, "lookup entries have %d words, want %d", dim1, LookupLength)
	}
	if dim2 < 0 {
		return errors.Wrapf(ErrLookupLength, "lookup has %d entries", dim2)
	}
	buf, err := r.AtWord(lookupStart).ReadBytes(int(dim1 * dim2 * ws))
	if err != nil {
		return errors.Wrap(err, "reading lookup")
	}

	fields := make([]*Field, dim2)
	for i := range fields {
		col := buf[int64(i)*dim1*ws : int64(i+1)*dim1*ws]
		ints := binary.DecodeInts(col[:LookupInts*ws], cfg.WordSize, cfg.ByteOrder)
		reals := binary.DecodeReals(col[LookupInts*ws:], cfg.WordSize, cfg.ByteOrder)
		if fields[i], err = NewField(ints, reals); err != nil {
			return err
		}
	}

	// Dumps store no offsets: payloads follow one another from the start
	// of the data section.
	modelDump := len(fields) > 0 && fields[0].LBNRec() == 0
	var offsets []int64
	if modelDump {
		offsets = make([]int64, len(fields))
		running := (fixed.At(header.DataStart) - 1) * ws
		for i, fld := range fields {
			if fld.IsEmpty() {
				continue
			}
			offsets[i] = running
			running += fld.LBLRec() * ws
		}
	}
	if err := f.attach(fields, offsets); err != nil {
		return err
	}
	f.Fields = fields

	f.opts.logger.Debug("read file",
		"path", f.path,
		"type", f.ft.Name,
		"dataset_type", fixed.At(header.DatasetType),
		"fields", len(fields),
		"model_dump", modelDump)
	return nil
}

// attach binds a provider reading from the file's source to every
// non-empty field. offsets gives the payload byte offsets; when nil they
// are taken from lbegin. Land/sea packed fields are pointed at the latest
// mask field before them, or at the last one when none precedes them.
func (f *File) attach(fields []*Field, offsets []int64) error {
	ws := int64(f.opts.wordSize)
	var (
		lsm     *Field
		pending []*RawProvider
	)
	for i, fld := range fields {
		if !fld.IsEmpty() {
			pc, err := SplitPacking(fld.LBPack())
			if err != nil {
				return errors.Wrapf(err, "field %d", i)
			}
			offset := fld.LBEgin() * ws
			if offsets != nil {
				offset = offsets[i]
			}
			ref := fld.Copy()
			ref.provider = nil
			p := &RawProvider{
				ref:      ref,
				src:      f.src,
				offset:   offset,
				wordSize: f.opts.wordSize,
				order:    f.opts.order,
				codec:    f.registry.readCodec(pc.Key),
			}
			fld.provider = p
			if fld.IsLandSeaMask() {
				lsm = fld
			}
			switch {
			case !p.RequiresMask():
			case lsm != nil:
				p.SetMask(lsm)
			default:
				pending = append(pending, p)
			}
		}
	}
	if len(pending) == 0 {
		return nil
	}
	if lsm == nil {
		f.opts.logger.Warn("land/sea packed fields without a land/sea mask",
			"path", f.path, "fields", len(pending))
		return nil
	}
	for _, p := range pending {
		p.SetMask(lsm)
	}
	return nil
}
