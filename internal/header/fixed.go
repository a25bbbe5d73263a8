package header

import (
	"github.com/cockroachdb/errors"
	"github.com/robert-malhotra/go-umfile/internal/binary"
)

// Missing data indicators.
const (
	MDI     int64   = -32768
	RealMDI float64 = -1073741824.0
)

// FixedLength is the number of words in the fixed length header.
const FixedLength = 256

// Fixed length header word positions (1-based).
const (
	DataSetFormatVersion = 1
	SubModel             = 2
	VertCoordType        = 3
	HorizGridType        = 4
	DatasetType          = 5
	RunIdentifier        = 6
	ExperimentNumber     = 7
	Calendar             = 8
	GridStaggering       = 9
	TimeType             = 10
	ProjectionNumber     = 11
	ModelVersion         = 12
	ObsFileType          = 14
	LastFieldopType      = 15

	T1Year    = 21
	T1Month   = 22
	T1Day     = 23
	T1Hour    = 24
	T1Minute  = 25
	T1Second  = 26
	T1YearDay = 27

	T2Year    = 28
	T2Month   = 29
	T2Day     = 30
	T2Hour    = 31
	T2Minute  = 32
	T2Second  = 33
	T2YearDay = 34

	T3Year    = 35
	T3Month   = 36
	T3Day     = 37
	T3Hour    = 38
	T3Minute  = 39
	T3Second  = 40
	T3YearDay = 41

	IntegerConstantsStart         = 100
	IntegerConstantsLength        = 101
	RealConstantsStart            = 105
	RealConstantsLength           = 106
	LevelDependentConstantsStart  = 110
	LevelDependentConstantsDim1   = 111
	LevelDependentConstantsDim2   = 112
	RowDependentConstantsStart    = 115
	RowDependentConstantsDim1     = 116
	RowDependentConstantsDim2     = 117
	ColumnDependentConstantsStart = 120
	ColumnDependentConstantsDim1  = 121
	ColumnDependentConstantsDim2  = 122
	FieldsOfConstantsStart        = 125
	FieldsOfConstantsDim1         = 126
	FieldsOfConstantsDim2         = 127
	ExtraConstantsStart           = 130
	ExtraConstantsLength          = 131
	TempHistoryfileStart          = 135
	TempHistoryfileLength         = 136
	CompressedFieldIndex1Start    = 140
	CompressedFieldIndex1Length   = 141
	CompressedFieldIndex2Start    = 142
	CompressedFieldIndex2Length   = 143
	CompressedFieldIndex3Start    = 144
	CompressedFieldIndex3Length   = 145
	LookupStart                   = 150
	LookupDim1                    = 151
	LookupDim2                    = 152
	TotalPrognosticFields         = 153
	DataStart                     = 160
	DataDim1                      = 161
	DataDim2                      = 162
)

// FixedNames maps fixed length header names to word positions.
var FixedNames = Mapping{
	"data_set_format_version": DataSetFormatVersion,
	"sub_model":               SubModel,
	"vert_coord_type":         VertCoordType,
	"horiz_grid_type":         HorizGridType,
	"dataset_type":            DatasetType,
	"run_identifier":          RunIdentifier,
	"experiment_number":       ExperimentNumber,
	"calendar":                Calendar,
	"grid_staggering":         GridStaggering,
	"time_type":               TimeType,
	"projection_number":       ProjectionNumber,
	"model_version":           ModelVersion,
	"obs_file_type":           ObsFileType,
	"last_fieldop_type":       LastFieldopType,

	"t1_year": T1Year, "t1_month": T1Month, "t1_day": T1Day,
	"t1_hour": T1Hour, "t1_minute": T1Minute, "t1_second": T1Second,
	"t1_year_day": T1YearDay,
	"t2_year": T2Year, "t2_month": T2Month, "t2_day": T2Day,
	"t2_hour": T2Hour, "t2_minute": T2Minute, "t2_second": T2Second,
	"t2_year_day": T2YearDay,
	"t3_year": T3Year, "t3_month": T3Month, "t3_day": T3Day,
	"t3_hour": T3Hour, "t3_minute": T3Minute, "t3_second": T3Second,
	"t3_year_day": T3YearDay,

	"integer_constants_start":          IntegerConstantsStart,
	"integer_constants_length":         IntegerConstantsLength,
	"real_constants_start":             RealConstantsStart,
	"real_constants_length":            RealConstantsLength,
	"level_dependent_constants_start":  LevelDependentConstantsStart,
	"level_dependent_constants_dim1":   LevelDependentConstantsDim1,
	"level_dependent_constants_dim2":   LevelDependentConstantsDim2,
	"row_dependent_constants_start":    RowDependentConstantsStart,
	"row_dependent_constants_dim1":     RowDependentConstantsDim1,
	"row_dependent_constants_dim2":     RowDependentConstantsDim2,
	"column_dependent_constants_start": ColumnDependentConstantsStart,
	"column_dependent_constants_dim1":  ColumnDependentConstantsDim1,
	"column_dependent_constants_dim2":  ColumnDependentConstantsDim2,
	"fields_of_constants_start":        FieldsOfConstantsStart,
	"fields_of_constants_dim1":         FieldsOfConstantsDim1,
	"fields_of_constants_dim2":         FieldsOfConstantsDim2,
	"extra_constants_start":            ExtraConstantsStart,
	"extra_constants_length":           ExtraConstantsLength,
	"temp_historyfile_start":           TempHistoryfileStart,
	"temp_historyfile_length":          TempHistoryfileLength,
	"compressed_field_index1_start":    CompressedFieldIndex1Start,
	"compressed_field_index1_length":   CompressedFieldIndex1Length,
	"compressed_field_index2_start":    CompressedFieldIndex2Start,
	"compressed_field_index2_length":   CompressedFieldIndex2Length,
	"compressed_field_index3_start":    CompressedFieldIndex3Start,
	"compressed_field_index3_length":   CompressedFieldIndex3Length,
	"lookup_start":                     LookupStart,
	"lookup_dim1":                      LookupDim1,
	"lookup_dim2":                      LookupDim2,
	"total_prognostic_fields":          TotalPrognosticFields,
	"data_start":                       DataStart,
	"data_dim1":                        DataDim1,
	"data_dim2":                        DataDim2,
}

// Fixed is the fixed length header.
type Fixed struct {
	words []int64
}

// NewFixed creates a fixed length header from exactly 256 words.
func NewFixed(words []int64) (*Fixed, error) {
	if len(words) != FixedLength {
		return nil, errors.Wrapf(ErrSizeMismatch,
			"fixed length header must be %d words, got %d", FixedLength, len(words))
	}
	w := make([]int64, FixedLength)
	copy(w, words)
	return &Fixed{words: w}, nil
}

// EmptyFixed returns a fixed length header with every word set to MDI.
func EmptyFixed() *Fixed {
	w := make([]int64, FixedLength)
	for i := range w {
		w[i] = MDI
	}
	return &Fixed{words: w}
}

// ReadFixed reads the fixed length header from the reader's position.
func ReadFixed(r *binary.Reader) (*Fixed, error) {
	words, err := r.ReadInts(FixedLength)
	if err != nil {
		return nil, errors.Wrap(err, "reading fixed length header")
	}
	return &Fixed{words: words}, nil
}

// At returns the word at a 1-based position. It panics if pos is outside
// 1..256, as positions are fixed by the format.
func (f *Fixed) At(pos int) int64 {
	return f.words[pos-1]
}

// Set sets the word at a 1-based position.
func (f *Fixed) Set(pos int, v int64) {
	f.words[pos-1] = v
}

// Get returns a word by name.
func (f *Fixed) Get(name string) (int64, error) {
	pos, err := FixedNames.Lookup(name)
	if err != nil {
		return 0, err
	}
	return f.words[pos-1], nil
}

// SetNamed sets a word by name.
func (f *Fixed) SetNamed(name string, v int64) error {
	pos, err := FixedNames.Lookup(name)
	if err != nil {
		return err
	}
	f.words[pos-1] = v
	return nil
}

// Shape returns [256].
func (f *Fixed) Shape() []int {
	return []int{FixedLength}
}

// Raw returns a copy of the words.
func (f *Fixed) Raw() []int64 {
	out := make([]int64, len(f.words))
	copy(out, f.words)
	return out
}

// Write writes the header at the writer's position.
func (f *Fixed) Write(w *binary.Writer) error {
	return w.WriteInts(f.words)
}

// Clone returns a deep copy.
func (f *Fixed) Clone() Component {
	return f.Copy()
}

// Copy returns a deep copy with its concrete type.
func (f *Fixed) Copy() *Fixed {
	return &Fixed{words: f.Raw()}
}

// Equal reports whether other is a fixed header with identical words.
func (f *Fixed) Equal(other Component) bool {
	o, ok := other.(*Fixed)
	if !ok {
		return false
	}
	return equalInts(f.words, o.words)
}
