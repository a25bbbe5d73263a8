package umfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/robert-malhotra/go-umfile/internal/binary"
	"github.com/robert-malhotra/go-umfile/internal/header"
)

// File is a UM file held in memory: its headers, its fields and, when read
// from disk, the source their data is read from on demand.
type File struct {
	// Fields are the lookup entries in file order.
	Fields []*Field

	path       string
	src        *Source
	ft         *FileType
	opts       *options
	registry   *Registry
	fixed      *header.Fixed
	components map[string]header.Component

	writable bool
	closed   bool
}

// New creates an empty file of the given type: an empty fixed length
// header, no components and no fields.
func New(ft *FileType, opts ...Option) (*File, error) {
	if ft == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "nil file type")
	}
	o := applyOptions(opts)
	cfg := binary.Config{ByteOrder: o.order, WordSize: o.wordSize}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg := ft.codecs()
	for _, c := range o.codecs {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return &File{
		ft:         ft,
		opts:       o,
		registry:   reg,
		fixed:      header.EmptyFixed(),
		components: make(map[string]header.Component),
	}, nil
}

// FromTemplate creates a file of the given type and applies a template.
func FromTemplate(ft *FileType, tmpl Template, opts ...Option) (*File, error) {
	f, err := New(ft, opts...)
	if err != nil {
		return nil, err
	}
	if err := f.applyTemplate(tmpl); err != nil {
		return nil, err
	}
	return f, nil
}

// Open reads the headers and lookup of a file. Field data is read only
// when requested.
func Open(path string, ft *FileType, opts ...Option) (*File, error) {
	f, err := New(ft, opts...)
	if err != nil {
		return nil, err
	}
	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	f.path = path
	f.src = src
	if err := f.read(); err != nil {
		return nil, errors.CombineErrors(errors.Wrapf(err, "reading %s", path), src.Close())
	}
	return f, nil
}

// OpenForUpdate opens a file whose changes are written back on Flush or
// Close.
func OpenForUpdate(path string, ft *FileType, opts ...Option) (*File, error) {
	f, err := Open(path, ft, opts...)
	if err != nil {
		return nil, err
	}
	f.writable = true
	return f, nil
}

// Create creates a file from a template, bound to path. Nothing is written
// until Flush or Close.
func Create(path string, ft *FileType, tmpl Template, opts ...Option) (*File, error) {
	f, err := FromTemplate(ft, tmpl, opts...)
	if err != nil {
		return nil, err
	}
	f.path = path
	f.writable = true
	return f, nil
}

// Read reads a file from an in-memory or otherwise already open source.
func Read(ra io.ReaderAt, ft *FileType, opts ...Option) (*File, error) {
	f, err := New(ft, opts...)
	if err != nil {
		return nil, err
	}
	f.src = readerSource(ra)
	if err := f.read(); err != nil {
		return nil, err
	}
	return f, nil
}

// Load opens a file whose type is chosen from its dataset type:
// 1, 2 and 3 are FieldsFiles, 4 ancillary files and 5 LBC files.
func Load(path string, opts ...Option) (*File, error) {
	o := applyOptions(opts)
	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	r := binary.NewReader(src, binary.Config{ByteOrder: o.order, WordSize: o.wordSize})
	fixed, err := header.ReadFixed(r)
	closeErr := src.Close()
	if err != nil {
		return nil, errors.CombineErrors(errors.Wrapf(err, "reading %s", path), closeErr)
	}
	if closeErr != nil {
		return nil, closeErr
	}
	ft, err := fileTypeFor(fixed.At(header.DatasetType))
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return Open(path, ft, opts...)
}

// Close writes the file if it was opened for update or created, then
// releases the source handle. Fields read from the file can still load
// their data afterwards.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	var err error
	if f.writable {
		err = f.Flush()
	}
	f.closed = true
	if f.src != nil {
		err = errors.CombineErrors(err, f.src.Close())
	}
	return err
}

// Flush writes the file to the path it is bound to.
func (f *File) Flush() error {
	if f.closed {
		return ErrClosed
	}
	if !f.writable {
		return ErrNotWritable
	}
	return f.WriteFile(f.path)
}

// Type returns the file type.
func (f *File) Type() *FileType { return f.ft }

// Path returns the path the file is bound to, if any.
func (f *File) Path() string { return f.path }

// WordSize returns the word size in bytes.
func (f *File) WordSize() int { return f.opts.wordSize }

// Registry returns the file's codec registry.
func (f *File) Registry() *Registry { return f.registry }

// FixedLengthHeader returns the fixed length header.
func (f *File) FixedLengthHeader() *header.Fixed { return f.fixed }

// SetFixedLengthHeader replaces the fixed length header.
func (f *File) SetFixedLengthHeader(h *header.Fixed) { f.fixed = h }

// Component returns a named component, or nil when absent.
func (f *File) Component(name string) header.Component { return f.components[name] }

// SetComponent installs or, with a nil component, removes a named component.
func (f *File) SetComponent(name string, c header.Component) error {
	cs, ok := f.ft.Component(name)
	if !ok {
		return errors.Wrapf(ErrComponent, "%s has no component %q", f.ft.Name, name)
	}
	if c == nil {
		delete(f.components, name)
		return nil
	}
	if len(c.Shape()) != cs.Dims() {
		return errors.Wrapf(ErrComponent, "%s needs %d dimensions, got shape %v", name, cs.Dims(), c.Shape())
	}
	f.components[name] = c
	return nil
}

// IntegerConstants returns the integer constants, or nil when absent.
func (f *File) IntegerConstants() *header.Integers {
	c, _ := f.components[IntegerConstantsName].(*header.Integers)
	return c
}

// RealConstants returns the real constants, or nil when absent.
func (f *File) RealConstants() *header.Reals {
	c, _ := f.components[RealConstantsName].(*header.Reals)
	return c
}

// LevelDependentConstants returns the level dependent constants, or nil
// when absent.
func (f *File) LevelDependentConstants() *header.Reals2D {
	c, _ := f.components[LevelDependentConstantsName].(*header.Reals2D)
	return c
}

// RowDependentConstants returns the row dependent constants, or nil when
// absent.
func (f *File) RowDependentConstants() *header.Reals2D {
	c, _ := f.components[RowDependentConstantsName].(*header.Reals2D)
	return c
}

// ColumnDependentConstants returns the column dependent constants, or nil
// when absent.
func (f *File) ColumnDependentConstants() *header.Reals2D {
	c, _ := f.components[ColumnDependentConstantsName].(*header.Reals2D)
	return c
}

// Copy returns a new file of the same type with copies of the headers and,
// when includeFields is set, copies of the fields sharing their data
// providers.
func (f *File) Copy(includeFields bool) *File {
	out := &File{
		ft:         f.ft,
		opts:       f.opts,
		registry:   f.registry.Clone(),
		fixed:      f.fixed.Copy(),
		components: make(map[string]header.Component, len(f.components)),
	}
	for name, c := range f.components {
		out.components[name] = c.Clone()
	}
	if includeFields {
		out.Fields = make([]*Field, len(f.Fields))
		for i, fld := range f.Fields {
			out.Fields[i] = fld.Copy()
		}
	}
	return out
}

// PurgeEmpty removes every empty lookup entry.
func (f *File) PurgeEmpty() {
	kept := f.Fields[:0]
	for _, fld := range f.Fields {
		if !fld.IsEmpty() {
			kept = append(kept, fld)
		}
	}
	for i := len(kept); i < len(f.Fields); i++ {
		f.Fields[i] = nil
	}
	f.Fields = kept
}

func (f *File) String() string {
	var items []string
	for _, cs := range f.ft.Components {
		if c := f.components[cs.Name]; c != nil {
			shape := c.Shape()
			if len(shape) == 1 {
				items = append(items, fmt.Sprintf("%s=(%d)", cs.Name, shape[0]))
			} else {
				items = append(items, fmt.Sprintf("%s=(%d, %d)", cs.Name, shape[0], shape[1]))
			}
		}
	}
	if len(f.Fields) > 0 {
		items = append(items, fmt.Sprintf("fields=%d", len(f.Fields)))
	}
	return fmt.Sprintf("<%s: %s>", f.ft.Name, strings.Join(items, ", "))
}

func (f *File) config() binary.Config {
	return binary.Config{ByteOrder: f.opts.order, WordSize: f.opts.wordSize}
}
