// Package umfile reads, modifies, validates and writes UM binary files
// (FieldsFiles, dumps, ancillaries and lateral boundary condition files).
package umfile

import (
	"github.com/cockroachdb/errors"
	"github.com/robert-malhotra/go-umfile/internal/packing"
)

// Structural errors. These are fatal for the operation that hits them.
var (
	ErrClosed          = errors.New("file is closed")
	ErrNotWritable     = errors.New("file is not open for writing")
	ErrDatasetType     = errors.New("dataset type not handled by file type")
	ErrNumberFormat    = errors.New("unsupported number format")
	ErrLookupLength    = errors.New("inconsistent lookup entry lengths")
	ErrComponent       = errors.New("invalid header component")
	ErrTemplate        = errors.New("invalid template")
	ErrNoWriteCodec    = errors.New("no write codec for packing code")
	ErrDuplicateCodec  = errors.New("codec already registered")
	ErrUnknownRelease  = errors.New("unrecognised lookup header release")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Deferred errors, returned from Field.Data.
var (
	ErrUnsupportedPacking = errors.New("unsupported packing code")
	ErrNoLandSeaMask      = errors.New("land/sea mask required but not present")
	ErrMaskMismatch       = packing.ErrMaskMismatch
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("validation failed")
