package umfile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/robert-malhotra/go-umfile/internal/header"
)

// maxListedFields is how many field indices a grouped message lists.
const maxListedFields = 5

// Issue is one failed check.
type Issue struct {
	// Component names the header component checked, or "" for field checks.
	Component string
	// Field is the index of the field checked, or -1 for header checks.
	Field   int
	Check   string
	Message string
}

// ValidationError reports every check a file failed.
type ValidationError struct {
	Path   string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("Failed to validate\n")
	if e.Path != "" {
		fmt.Fprintf(&b, "File: %s\n", e.Path)
	}

	// Field messages are grouped so that a problem shared by many fields
	// is reported once.
	var (
		order  []string
		fields = make(map[string][]int)
	)
	for _, is := range e.Issues {
		if is.Field < 0 {
			b.WriteString(is.Message)
			b.WriteByte('\n')
			continue
		}
		if _, ok := fields[is.Message]; !ok {
			order = append(order, is.Message)
		}
		fields[is.Message] = append(fields[is.Message], is.Field)
	}
	for _, msg := range order {
		idx := fields[msg]
		b.WriteString("Field validation failures:\n  Fields (")
		b.WriteString(listFields(idx))
		b.WriteString(")\n")
		b.WriteString(msg)
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

func listFields(idx []int) string {
	sort.Ints(idx)
	n := len(idx)
	if n > maxListedFields {
		idx = idx[:maxListedFields]
	}
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = fmt.Sprint(v)
	}
	s := strings.Join(parts, ", ")
	if n > maxListedFields {
		s += fmt.Sprintf(", ... %d total", n)
	}
	return s
}

// Validate checks that the headers have the sizes the file type requires
// and that every field's grid agrees with the file's grid. It returns nil
// or a *ValidationError listing every failed check.
func (f *File) Validate() error {
	v := &validator{
		f:     f,
		ft:    f.ft,
		tol:   f.ft.Tolerance,
		stash: f.opts.stash,
		ic:    f.IntegerConstants(),
		rc:    f.RealConstants(),
	}
	if f.opts.tolerance != nil {
		v.tol = *f.opts.tolerance
	}

	v.checkHeader()
	if !v.ft.stopOnHeader || len(v.issues) == 0 {
		v.checkFields()
	}
	if len(v.issues) == 0 {
		return nil
	}
	f.opts.logger.Debug("validation failed", "path", f.path, "issues", len(v.issues))
	return &ValidationError{Path: f.path, Issues: v.issues}
}

type validator struct {
	f      *File
	ft     *FileType
	tol    GridTolerance
	stash  StashTable
	ic     *header.Integers
	rc     *header.Reals
	issues []Issue
}

func (v *validator) header(component, check, format string, args ...any) {
	v.issues = append(v.issues, Issue{Component: component, Field: -1, Check: check,
		Message: fmt.Sprintf(format, args...)})
}

func (v *validator) field(i int, check, format string, args ...any) {
	v.issues = append(v.issues, Issue{Field: i, Check: check, Message: fmt.Sprintf(format, args...)})
}

// intConst returns a named integer constant, if present.
func (v *validator) intConst(name string) (int64, bool) {
	if v.ic == nil {
		return 0, false
	}
	x, err := v.ic.Get(name)
	return x, err == nil
}

// realConst returns a named real constant, if present.
func (v *validator) realConst(name string) (float64, bool) {
	if v.rc == nil {
		return 0, false
	}
	x, err := v.rc.Get(name)
	return x, err == nil
}

func (v *validator) checkHeader() {
	fixed := v.f.fixed
	if dt := fixed.At(header.DatasetType); !v.ft.AcceptsDatasetType(dt) {
		v.header(FixedLengthHeaderName, "dataset_type",
			"Incorrect dataset_type (found %d, should be one of %v)", dt, v.ft.DatasetTypes)
	}
	if gs := fixed.At(header.GridStaggering); gs != 3 && gs != 6 {
		v.header(FixedLengthHeaderName, "grid_staggering",
			"Unsupported grid_staggering (found %d, can support one of [3 6])", gs)
	}

	if v.ic == nil {
		v.header(IntegerConstantsName, "present", "Integer constants not found")
	} else if n := v.ic.Len(); n != v.ft.intConstants {
		v.header(IntegerConstantsName, "length",
			"Incorrect number of integer constants, (found %d, should be %d)", n, v.ft.intConstants)
	}
	if v.rc == nil {
		v.header(RealConstantsName, "present", "Real constants not found")
	} else if n := v.rc.Len(); n != v.ft.realConstants {
		v.header(RealConstantsName, "length",
			"Incorrect number of real constants, (found %d, should be %d)", n, v.ft.realConstants)
	}
	if v.ft.stopOnHeader && len(v.issues) > 0 {
		return
	}

	ldc := v.f.LevelDependentConstants()
	if ldc == nil {
		v.header(LevelDependentConstantsName, "present", "Level dependent constants not found")
	} else if levels, ok := v.intConst(v.ft.levelsFromName); ok {
		want := []int{int(levels) + v.ft.levelsOffset, v.ft.levelColumns}
		if got := ldc.Shape(); !sameShape(got, want) {
			v.header(LevelDependentConstantsName, "shape",
				"Incorrectly shaped level dependent constants based on file type and number of "+
					"levels in integer_constants (found %s, should be %s)", shapeString(got), shapeString(want))
		}
	}

	if rdc := v.f.RowDependentConstants(); rdc != nil {
		if rows, ok := v.intConst("num_rows"); ok {
			// ENDGame row dependent constants have an extra row.
			if fixed.At(header.GridStaggering) == 6 {
				rows++
			}
			want := []int{int(rows), 2}
			if got := rdc.Shape(); !sameShape(got, want) {
				v.header(RowDependentConstantsName, "shape",
					"Incorrectly shaped row dependent constants based on file type and number of "+
						"rows in integer_constants (found %s, should be %s)", shapeString(got), shapeString(want))
			}
		}
	}

	if cdc := v.f.ColumnDependentConstants(); cdc != nil {
		if cols, ok := v.intConst("num_cols"); ok {
			want := []int{int(cols), 2}
			if got := cdc.Shape(); !sameShape(got, want) {
				v.header(ColumnDependentConstantsName, "shape",
					"Incorrectly shaped column dependent constants based on file type and number of "+
						"columns in integer_constants (found %s, should be %s)", shapeString(got), shapeString(want))
			}
		}
	}
}

func (v *validator) checkFields() {
	dt := v.f.fixed.At(header.DatasetType)
	variable := v.f.RowDependentConstants() != nil && v.f.ColumnDependentConstants() != nil
	for i, fld := range v.f.Fields {
		rel := fld.Release()
		switch {
		case v.ft.dumpSpecial && (dt == 1 || dt == 2) && rel == dumpSpecialRelease:
			if (fld.LBPack()/1000)%10 != 2 {
				v.field(i, "dump_special", "Field is special dump field but does not have lbpack N4 == 2")
			}
		case rel != 2 && rel != 3:
			if rel != emptyWord {
				v.field(i, "release", "Field has unrecognised release number %d", rel)
			}
		case v.ft.landSea && (fld.LBPack()%100)/10 == 2:
			if fld.LBRow() != 0 {
				v.field(i, "land_sea", "Field rows not set to zero for land/sea packed field")
			}
			if fld.LBNpt() != 0 {
				v.field(i, "land_sea", "Field columns not set to zero for land/sea packed field")
			}
		case variable:
			v.checkVariableField(i, fld)
		default:
			v.checkRegularField(i, fld)
		}
	}
}

func (v *validator) checkVariableField(i int, fld *Field) {
	if cols, ok := v.intConst("num_cols"); ok && abs64(fld.LBNpt()-cols) > 1 {
		v.field(i, "variable_grid", "Field column count inconsistent with variable resolution grid constants")
	}
	if rows, ok := v.intConst("num_rows"); ok && abs64(fld.LBRow()-rows) > 1 {
		v.field(i, "variable_grid", "Field row count inconsistent with variable resolution grid constants")
	}

	rmdi, ok := v.realConst("real_mdi")
	if !ok {
		rmdi = header.RealMDI
	}
	for _, c := range []struct {
		val  float64
		desc string
	}{
		{fld.BZX(), "start longitude (bzx)"},
		{fld.BZY(), "start latitude (bzy)"},
		{fld.BDX(), "longitude interval (bdx)"},
		{fld.BDY(), "latitude interval (bdy)"},
	} {
		if c.val != rmdi {
			v.field(i, "variable_grid", "Field %s not RMDI in variable resolution file", c.desc)
		}
	}
}

// fileGrid is the P grid the file's constants describe.
type fileGrid struct {
	cols, rows             int64
	startLon, startLat     float64
	colSpacing, rowSpacing float64
}

func (v *validator) grid() (fileGrid, bool) {
	var g fileGrid
	var ok [6]bool
	g.cols, ok[0] = v.intConst("num_cols")
	g.rows, ok[1] = v.intConst("num_rows")
	g.startLon, ok[2] = v.realConst("start_lon")
	g.startLat, ok[3] = v.realConst("start_lat")
	g.colSpacing, ok[4] = v.realConst("col_spacing")
	g.rowSpacing, ok[5] = v.realConst("row_spacing")
	for _, b := range ok {
		if !b {
			return g, false
		}
	}
	return g, true
}

func (v *validator) checkRegularField(i int, fld *Field) {
	g, ok := v.grid()
	if !ok {
		// Missing constants are reported by the header checks.
		return
	}
	if v.stash != nil {
		if e, found := v.stash.Lookup(fld.StashCode()); found && v.checkStashGrid(i, fld, g, e) {
			return
		}
	}
	v.checkExtent(i, fld, g)
}

// checkExtent compares the far edge of the field's grid with the far edge
// of the file's grid.
func (v *validator) checkExtent(i int, fld *Field, g fileGrid) {
	if v.ft.pointExtent {
		v.checkPointExtent(i, fld, g)
		return
	}
	fieldEndLon := fld.BZX() + float64(fld.LBNpt())*fld.BDX()
	fileEndLon := g.startLon + float64(g.cols)*g.colSpacing
	if d, limit := math.Abs(fieldEndLon-fileEndLon), v.tol.Lon*g.colSpacing; d > limit {
		v.field(i, "regular_grid",
			"Field grid longitudes inconsistent: column count or start does not match the file grid\n"+
				"  File grid : ends at %g, spacing %g\n"+
				"  Field grid: ends at %g, spacing %g (limit %g)", fileEndLon, g.colSpacing, fieldEndLon, fld.BDX(), limit)
	}

	fieldEndLat := fld.BZY() + float64(fld.LBRow())*fld.BDY()
	fileEndLat := g.startLat + float64(g.rows)*g.rowSpacing
	if d, limit := math.Abs(fieldEndLat-fileEndLat), v.tol.Lat*g.rowSpacing; d > limit {
		v.field(i, "regular_grid",
			"Field grid latitudes inconsistent: row count or start does not match the file grid\n"+
				"  File grid : ends at %g, spacing %g\n"+
				"  Field grid: ends at %g, spacing %g (limit %g)", fileEndLat, g.rowSpacing, fieldEndLat, fld.BDY(), limit)
	}
}

// checkPointExtent requires the field's first and last points to lie
// within the tolerance, in field grid spacings, of the file's first and
// last P points.
func (v *validator) checkPointExtent(i int, fld *Field, g fileGrid) {
	fieldStartLon := fld.BZX() + fld.BDX()
	fieldEndLon := fld.BZX() + float64(fld.LBNpt())*fld.BDX()
	fileEndLon := g.startLon + float64(g.cols-1)*g.colSpacing
	if gridSteps(fieldStartLon-g.startLon, fld.BDX()) > v.tol.Lon ||
		gridSteps(fieldEndLon-fileEndLon, fld.BDX()) > v.tol.Lon {
		v.field(i, "regular_grid",
			"Field grid longitudes inconsistent\n"+
				"  File grid : %g to %g, spacing %g\n"+
				"  Field grid: %g to %g, spacing %g\n"+
				"  Extents should be within %g field grid-spacings",
			g.startLon, fileEndLon, g.colSpacing, fieldStartLon, fieldEndLon, fld.BDX(), v.tol.Lon)
	}

	fieldStartLat := fld.BZY() + fld.BDY()
	fieldEndLat := fld.BZY() + float64(fld.LBRow())*fld.BDY()
	fileEndLat := g.startLat + float64(g.rows-1)*g.rowSpacing
	if gridSteps(fieldStartLat-g.startLat, fld.BDY()) > v.tol.Lat ||
		gridSteps(fieldEndLat-fileEndLat, fld.BDY()) > v.tol.Lat {
		v.field(i, "regular_grid",
			"Field grid latitudes inconsistent\n"+
				"  File grid : %g to %g, spacing %g\n"+
				"  Field grid: %g to %g, spacing %g\n"+
				"  Extents should be within %g field grid-spacings",
			g.startLat, fileEndLat, g.rowSpacing, fieldStartLat, fieldEndLat, fld.BDY(), v.tol.Lat)
	}
}

// gridSteps returns |d| in units of spacing. A zero spacing only matches a
// zero difference.
func gridSteps(d, spacing float64) float64 {
	if d == 0 {
		return 0
	}
	if spacing == 0 {
		return math.Inf(1)
	}
	return math.Abs(d / spacing)
}

// checkStashGrid compares the field with the grid its STASH grid type
// expects under the file's grid staggering. It reports false when the grid
// type or field is one it cannot handle, leaving the extent check to run.
func (v *validator) checkStashGrid(i int, fld *Field, g fileGrid, e StashEntry) bool {
	stagger := v.f.fixed.At(header.GridStaggering)
	newDynamics, endGame := stagger == 3, stagger == 6

	var (
		cols, rows         = g.cols, g.rows
		startLon, startLat = g.startLon, g.startLat
		lonSpacing         = g.colSpacing
		latSpacing         = g.rowSpacing
		halfCol, halfRow   = g.colSpacing / 2, g.rowSpacing / 2
	)
	switch e.Grid {
	case GridP, GridPLand, GridPSea, GridPLBC, GridPLBCSmall, GridPLBCHalo:
		if endGame {
			startLon += halfCol
			startLat += halfRow
		}
	case GridU:
		if newDynamics {
			startLon += halfCol
		} else if endGame {
			startLat += halfRow
		}
	case GridULBC:
		if newDynamics {
			startLon += halfCol
			cols--
		} else if endGame {
			startLat += halfRow
		}
	case GridV, GridVLBC:
		if newDynamics {
			startLat += halfRow
			rows--
		} else if endGame {
			startLon += halfCol
			rows++
		}
	case GridUV, GridUVLand, GridUVSea:
		if newDynamics {
			startLon += halfCol
			startLat += halfRow
			rows--
		} else if endGame {
			rows++
		}
	case GridRiver:
		if v.f.fixed.At(header.HorizGridType) != 0 {
			v.field(i, "stash_grid", "Field is river routing diag, which is invalid for non-Global domains")
			return true
		}
		startLon, startLat = 0.5, -89.5
		cols, rows = 360, 180
		lonSpacing, latSpacing = 1.0, 1.0
	default:
		return false
	}

	// Zonal means do not cover the grid.
	if fld.LBProc()&64 != 0 {
		return false
	}

	tol := g.colSpacing * 0.001
	if cols != fld.LBNpt() || math.Abs(lonSpacing-fld.BDX()) > tol ||
		math.Abs(startLon-(fld.BZX()+fld.BDX())) > tol {
		v.field(i, "stash_grid",
			"Field grid longitudes inconsistent (STASH grid: %d)\n"+
				"  Field (Expected): %d points from %g, spacing %g\n"+
				"  Field (Lookup)  : %d points from %g, spacing %g",
			e.Grid, cols, startLon, lonSpacing, fld.LBNpt(), fld.BZX()+fld.BDX(), fld.BDX())
	}
	tol = g.rowSpacing * 0.001
	if rows != fld.LBRow() || math.Abs(latSpacing-fld.BDY()) > tol ||
		math.Abs(startLat-(fld.BZY()+fld.BDY())) > tol {
		v.field(i, "stash_grid",
			"Field grid latitudes inconsistent (STASH grid: %d)\n"+
				"  Field (Expected): %d points from %g, spacing %g\n"+
				"  Field (Lookup)  : %d points from %g, spacing %g",
			e.Grid, rows, startLat, latSpacing, fld.LBRow(), fld.BZY()+fld.BDY(), fld.BDY())
	}
	return true
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func shapeString(s []int) string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = fmt.Sprint(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
