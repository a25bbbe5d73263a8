package umfile

import (
	"github.com/cockroachdb/errors"
	"github.com/robert-malhotra/go-umfile/internal/binary"
	"github.com/robert-malhotra/go-umfile/internal/header"
)

// Component names.
const (
	FixedLengthHeaderName        = "fixed_length_header"
	IntegerConstantsName         = "integer_constants"
	RealConstantsName            = "real_constants"
	LevelDependentConstantsName  = "level_dependent_constants"
	RowDependentConstantsName    = "row_dependent_constants"
	ColumnDependentConstantsName = "column_dependent_constants"
	FieldsOfConstantsName        = "fields_of_constants"
	ExtraConstantsName           = "extra_constants"
	TempHistoryfileName          = "temp_historyfile"
	CompressedFieldIndex1Name    = "compressed_field_index1"
	CompressedFieldIndex2Name    = "compressed_field_index2"
	CompressedFieldIndex3Name    = "compressed_field_index3"
)

type componentKind int

const (
	integerKind componentKind = iota
	realKind
	reals2DKind
)

// ComponentSpec describes one header component of a file type.
type ComponentSpec struct {
	Name string
	// CreateDims are the dimensions of a newly created component. A zero
	// dimension has no default and must be supplied.
	CreateDims []int

	kind  componentKind
	names header.Mapping
	// Fixed length header positions of the start word and dimensions.
	// dim2 is zero for 1-D components.
	start, dim1, dim2 int
}

// Dims returns the number of dimensions (1 or 2).
func (s ComponentSpec) Dims() int {
	if s.kind == reals2DKind {
		return 2
	}
	return 1
}

// Names returns the name mapping of the component.
func (s ComponentSpec) Names() header.Mapping { return s.names }

func (s ComponentSpec) create(dims []int) (header.Component, error) {
	if len(dims) == 0 {
		dims = s.CreateDims
	}
	if len(dims) != len(s.CreateDims) {
		return nil, errors.Wrapf(ErrComponent, "%s takes %d dimensions, got %v", s.Name, len(s.CreateDims), dims)
	}
	// Missing dimensions fall back to the defaults.
	full := make([]int, len(dims))
	for i, d := range dims {
		if d <= 0 {
			d = s.CreateDims[i]
		}
		if d <= 0 {
			return nil, errors.Wrapf(ErrComponent, "%s needs dimension %d to be given", s.Name, i+1)
		}
		full[i] = d
	}
	switch s.kind {
	case integerKind:
		return header.EmptyIntegers(full[0], s.names), nil
	case realKind:
		return header.EmptyReals(full[0], s.names), nil
	default:
		return header.EmptyReals2D(full[0], full[1], s.names), nil
	}
}

// read reads the component described by the fixed length header, returning
// nil when its start word is not positive.
func (s ComponentSpec) read(r *binary.Reader, fixed *header.Fixed) (header.Component, error) {
	start := fixed.At(s.start)
	if start <= 0 {
		return nil, nil
	}
	cr := r.AtWord(start)
	dim1 := int(fixed.At(s.dim1))
	if dim1 < 0 {
		return nil, errors.Wrapf(ErrComponent, "%s has length %d", s.Name, dim1)
	}
	switch s.kind {
	case integerKind:
		return header.ReadIntegers(cr, dim1, s.names)
	case realKind:
		return header.ReadReals(cr, dim1, s.names)
	default:
		dim2 := int(fixed.At(s.dim2))
		if dim2 < 0 {
			return nil, errors.Wrapf(ErrComponent, "%s has shape (%d, %d)", s.Name, dim1, dim2)
		}
		return header.ReadReals2D(cr, dim1, dim2, s.names)
	}
}

// record stores the position and shape of a component in the fixed length
// header. A nil component records MDI for all of them.
func (s ComponentSpec) record(fixed *header.Fixed, c header.Component, word int64) {
	if c == nil {
		fixed.Set(s.start, header.MDI)
		fixed.Set(s.dim1, header.MDI)
		if s.dim2 != 0 {
			fixed.Set(s.dim2, header.MDI)
		}
		return
	}
	shape := c.Shape()
	fixed.Set(s.start, word)
	fixed.Set(s.dim1, int64(shape[0]))
	if s.dim2 != 0 {
		fixed.Set(s.dim2, int64(shape[1]))
	}
}

// GridTolerance is how far, in grid spacings, a field's extent may differ
// from the file's grid before validation fails.
type GridTolerance struct {
	Lon float64
	Lat float64
}

// FileType describes one kind of UM file: which dataset types it accepts,
// its header components and the packing codes it can read and write.
type FileType struct {
	Name         string
	DatasetTypes []int64
	Components   []ComponentSpec
	Tolerance    GridTolerance

	// Lengths of the mandatory constants and the number of columns of the
	// level dependent constants.
	intConstants   int
	realConstants  int
	levelColumns   int
	levelsFromName string
	levelsOffset   int

	codecs func() *Registry
	// dumpSpecial enables the dump special field check for dataset
	// types 1 and 2.
	dumpSpecial bool
	// landSea enables the land/sea packed field check.
	landSea bool
	// pointExtent measures the grid check between first and last P points
	// in field grid spacings, and checks the start point too.
	pointExtent bool
	// stopOnHeader skips field checks when the header checks failed.
	stopOnHeader bool
	// clearDataShape zeroes data_dim1 and data_dim2 after writing.
	clearDataShape bool
}

// AcceptsDatasetType reports whether dt is one of the file type's dataset
// types.
func (ft *FileType) AcceptsDatasetType(dt int64) bool {
	for _, v := range ft.DatasetTypes {
		if v == dt {
			return true
		}
	}
	return false
}

// Component returns the description of a named component.
func (ft *FileType) Component(name string) (ComponentSpec, bool) {
	for _, s := range ft.Components {
		if s.Name == name {
			return s, true
		}
	}
	return ComponentSpec{}, false
}

// Codecs returns a new registry of the file type's built-in codecs.
func (ft *FileType) Codecs() *Registry { return ft.codecs() }

func (ft *FileType) String() string { return ft.Name }

var ffIntegerNames = header.Mapping{
	"timestep": 1, "meaning_interval": 2, "dumps_in_mean": 3,
	"num_cols": 6, "num_rows": 7, "num_p_levels": 8, "num_wet_levels": 9,
	"num_soil_levels": 10, "num_cloud_levels": 11, "num_tracer_levels": 12,
	"num_boundary_levels": 13, "num_passive_tracers": 14, "num_field_types": 15,
	"n_steps_since_river": 16, "height_algorithm": 17, "num_radiation_vars": 18,
	"river_row_length": 19, "river_num_rows": 20, "integer_mdi": 21,
	"triffid_call_period": 22, "triffid_last_step": 23, "first_constant_rho": 24,
	"num_land_points": 25, "num_ozone_levels": 26, "num_tracer_adv_levels": 27,
	"num_soil_hydr_levels": 28, "num_conv_levels": 34, "radiation_timestep": 35,
	"amip_flag": 36, "amip_first_year": 37, "amip_first_month": 38,
	"amip_current_day": 39, "ozone_current_month": 40, "sh_zonal_flag": 41,
	"sh_zonal_begin": 42, "sh_zonal_period": 43, "suhe_level_weight": 44,
	"suhe_level_cutoff": 45, "frictional_timescale": 46,
}

var ffRealNames = header.Mapping{
	"col_spacing": 1, "row_spacing": 2, "start_lat": 3, "start_lon": 4,
	"north_pole_lat": 5, "north_pole_lon": 6, "atmos_year": 8, "atmos_day": 9,
	"atmos_hour": 10, "atmos_minute": 11, "atmos_second": 12,
	"top_theta_height": 16, "mean_diabatic_flux": 18, "mass": 19,
	"energy": 20, "energy_drift": 21, "real_mdi": 29,
}

var ffLevelNames = header.Mapping{
	"eta_at_theta": 1, "eta_at_rho": 2, "rhcrit": 3, "soil_thickness": 4,
	"zsea_at_theta": 5, "c_at_theta": 6, "zsea_at_rho": 7, "c_at_rho": 8,
}

var lbcIntegerNames = header.Mapping{
	"num_times": 3, "num_cols": 6, "num_rows": 7, "num_p_levels": 8,
	"num_wet_levels": 9, "num_field_types": 15, "height_algorithm": 17,
	"integer_mdi": 21, "first_constant_rho": 24,
}

var ancilIntegerNames = header.Mapping{
	"num_times": 3, "num_cols": 6, "num_rows": 7, "num_levels": 8,
	"num_field_types": 15,
}

var ancilRealNames = header.Mapping{
	"col_spacing": 1, "row_spacing": 2, "start_lat": 3, "start_lon": 4,
	"north_pole_lat": 5, "north_pole_lon": 6,
}

var fourLevelNames = header.Mapping{
	"eta_at_theta": 1, "eta_at_rho": 2, "rhcrit": 3, "soil_thickness": 4,
}

var rowNames = header.Mapping{"phi_p": 1, "phi_v": 2}

var columnNames = header.Mapping{"lambda_p": 1, "lambda_u": 2}

// standardComponents returns the five named components followed, when full
// is set, by the opaque ones.
func standardComponents(ints, reals header.Mapping, nInts, nReals, levelCols int, full bool) []ComponentSpec {
	levels := ffLevelNames
	if levelCols == 4 {
		levels = fourLevelNames
	}
	specs := []ComponentSpec{
		{Name: IntegerConstantsName, CreateDims: []int{nInts}, kind: integerKind, names: ints,
			start: header.IntegerConstantsStart, dim1: header.IntegerConstantsLength},
		{Name: RealConstantsName, CreateDims: []int{nReals}, kind: realKind, names: reals,
			start: header.RealConstantsStart, dim1: header.RealConstantsLength},
		{Name: LevelDependentConstantsName, CreateDims: []int{0, levelCols}, kind: reals2DKind, names: levels,
			start: header.LevelDependentConstantsStart, dim1: header.LevelDependentConstantsDim1,
			dim2: header.LevelDependentConstantsDim2},
		{Name: RowDependentConstantsName, CreateDims: []int{0, 2}, kind: reals2DKind, names: rowNames,
			start: header.RowDependentConstantsStart, dim1: header.RowDependentConstantsDim1,
			dim2: header.RowDependentConstantsDim2},
		{Name: ColumnDependentConstantsName, CreateDims: []int{0, 2}, kind: reals2DKind, names: columnNames,
			start: header.ColumnDependentConstantsStart, dim1: header.ColumnDependentConstantsDim1,
			dim2: header.ColumnDependentConstantsDim2},
	}
	if !full {
		return specs
	}
	return append(specs,
		ComponentSpec{Name: FieldsOfConstantsName, CreateDims: []int{0, 0}, kind: reals2DKind,
			start: header.FieldsOfConstantsStart, dim1: header.FieldsOfConstantsDim1,
			dim2: header.FieldsOfConstantsDim2},
		ComponentSpec{Name: ExtraConstantsName, CreateDims: []int{0}, kind: integerKind,
			start: header.ExtraConstantsStart, dim1: header.ExtraConstantsLength},
		ComponentSpec{Name: TempHistoryfileName, CreateDims: []int{0}, kind: integerKind,
			start: header.TempHistoryfileStart, dim1: header.TempHistoryfileLength},
		ComponentSpec{Name: CompressedFieldIndex1Name, CreateDims: []int{0}, kind: integerKind,
			start: header.CompressedFieldIndex1Start, dim1: header.CompressedFieldIndex1Length},
		ComponentSpec{Name: CompressedFieldIndex2Name, CreateDims: []int{0}, kind: integerKind,
			start: header.CompressedFieldIndex2Start, dim1: header.CompressedFieldIndex2Length},
		ComponentSpec{Name: CompressedFieldIndex3Name, CreateDims: []int{0}, kind: integerKind,
			start: header.CompressedFieldIndex3Start, dim1: header.CompressedFieldIndex3Length},
	)
}

// FieldsFile is the file type of FieldsFiles and model dumps.
var FieldsFile = &FileType{
	Name:           "FieldsFile",
	DatasetTypes:   []int64{1, 2, 3},
	Components:     standardComponents(ffIntegerNames, ffRealNames, 46, 38, 8, true),
	Tolerance:      GridTolerance{Lon: 1.0, Lat: 1.5},
	intConstants:   46,
	realConstants:  38,
	levelColumns:   8,
	levelsFromName: "num_p_levels",
	levelsOffset:   1,
	codecs:         fieldsFileCodecs,
	dumpSpecial:    true,
	landSea:        true,
}

// LBCFile is the file type of lateral boundary condition files.
var LBCFile = &FileType{
	Name:           "LBCFile",
	DatasetTypes:   []int64{5},
	Components:     standardComponents(lbcIntegerNames, ffRealNames, 46, 38, 4, false),
	Tolerance:      GridTolerance{Lon: 1.01, Lat: 1.01},
	intConstants:   46,
	realConstants:  38,
	levelColumns:   4,
	levelsFromName: "num_p_levels",
	levelsOffset:   1,
	codecs:         lbcCodecs,
	pointExtent:    true,
	stopOnHeader:   true,
	clearDataShape: true,
}

// AncilFile is the file type of ancillary files.
var AncilFile = &FileType{
	Name:           "AncilFile",
	DatasetTypes:   []int64{4},
	Components:     standardComponents(ancilIntegerNames, ancilRealNames, 15, 6, 4, true),
	Tolerance:      GridTolerance{Lon: 1.01, Lat: 1.01},
	intConstants:   15,
	realConstants:  6,
	levelColumns:   4,
	levelsFromName: "num_levels",
	codecs:         fieldsFileCodecs,
	landSea:        true,
	pointExtent:    true,
}

// fileTypeFor returns the file type handling a dataset type.
func fileTypeFor(dt int64) (*FileType, error) {
	for _, ft := range []*FileType{FieldsFile, LBCFile, AncilFile} {
		if ft.AcceptsDatasetType(dt) {
			return ft, nil
		}
	}
	return nil, errors.Wrapf(ErrDatasetType, "unknown dataset type %d", dt)
}
