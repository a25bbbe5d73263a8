package umfile

import (
	"encoding/binary"
	"log/slog"
)

// DataStartAlignment is the default alignment, in words, of the data section.
const DataStartAlignment = 524288

// Option configures a File.
type Option func(*options)

type options struct {
	wordSize      int
	order         binary.ByteOrder
	logger        *slog.Logger
	codecs        []Codec
	tolerance     *GridTolerance
	stash         StashTable
	dataAlignment int64
}

func defaultOptions() *options {
	return &options{
		wordSize:      8,
		order:         binary.BigEndian,
		logger:        slog.New(slog.DiscardHandler),
		dataAlignment: DataStartAlignment,
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithWordSize sets the size in bytes of a file word (4 or 8).
func WithWordSize(size int) Option {
	return func(o *options) {
		o.wordSize = size
	}
}

// WithByteOrder sets the byte order of the file. UM files are big-endian.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(o *options) {
		if order != nil {
			o.order = order
		}
	}
}

// WithLogger sets the logger used for read and write progress.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCodec adds a codec to the file's registry, extending the built-in set.
func WithCodec(c Codec) Option {
	return func(o *options) {
		o.codecs = append(o.codecs, c)
	}
}

// WithGridTolerance overrides the file type's regular grid tolerance.
func WithGridTolerance(t GridTolerance) Option {
	return func(o *options) {
		o.tolerance = &t
	}
}

// WithStash enables grid checks based on STASH grid codes during validation.
func WithStash(s StashTable) Option {
	return func(o *options) {
		o.stash = s
	}
}

// WithDataStartAlignment sets the alignment in words of the data section.
// Values that are not a positive multiple of the sector size are ignored.
func WithDataStartAlignment(words int64) Option {
	return func(o *options) {
		if words > 0 && words%sectorWords == 0 {
			o.dataAlignment = words
		}
	}
}
