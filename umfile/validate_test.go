package umfile

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/robert-malhotra/go-umfile/internal/header"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationIssues(t *testing.T, f *File) []Issue {
	t.Helper()
	err := f.Validate()
	if err == nil {
		return nil
	}
	require.True(t, errors.Is(err, ErrValidation))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	return ve.Issues
}

func TestValidateRegularGrid(t *testing.T) {
	for _, tc := range []struct {
		name       string
		bzx, bzy   float64
		rows, cols int
		bad        string
	}{
		{name: "exact", rows: 3, cols: 4},
		{name: "extra column within tolerance", rows: 3, cols: 5},
		{name: "start longitude beyond tolerance", bzx: 0.0001, rows: 3, cols: 5, bad: "longitudes"},
		{name: "extra rows", rows: 5, cols: 4, bad: "latitudes"},
		{name: "latitude at tolerance", bzy: 0.25, rows: 4, cols: 4},
		{name: "latitude beyond tolerance", bzy: 0.2501, rows: 4, cols: 4, bad: "latitudes"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestFile(t)
			fld := gridField(t, tc.rows, tc.cols, 0)
			fld.SetReal(posBZX, tc.bzx)
			fld.SetReal(posBZY, tc.bzy)
			f.Fields = []*Field{fld}

			issues := validationIssues(t, f)
			if tc.bad == "" {
				assert.Empty(t, issues)
				return
			}
			require.Len(t, issues, 1)
			assert.Equal(t, 0, issues[0].Field)
			assert.Equal(t, "regular_grid", issues[0].Check)
			assert.Contains(t, issues[0].Message, "Field grid "+tc.bad+" inconsistent")
		})
	}
}

// ancilTemplate describes the same grid as gridTemplate for an ancillary
// file.
func ancilTemplate() Template {
	return Template{
		FixedLengthHeaderName: {Values: map[string]float64{
			"dataset_type":    4,
			"grid_staggering": 3,
		}},
		IntegerConstantsName: {Values: map[string]float64{
			"num_cols": 4, "num_rows": 3, "num_levels": 1,
		}},
		RealConstantsName: {Values: map[string]float64{
			"col_spacing": 0.5, "row_spacing": 0.5, "start_lat": 0, "start_lon": 0,
		}},
		LevelDependentConstantsName: {Dims: []int{1, 4}},
	}
}

func TestValidateAncilGrid(t *testing.T) {
	for _, tc := range []struct {
		name       string
		dx, dy     float64
		rows, cols int
		bad        string
	}{
		{name: "exact", rows: 3, cols: 4},
		{name: "one extra column", rows: 3, cols: 5},
		{name: "two extra columns", rows: 3, cols: 6, bad: "longitudes"},
		{name: "two extra rows", rows: 5, cols: 4, bad: "latitudes"},
		{name: "shifted two columns east", dx: 1.0, rows: 3, cols: 4, bad: "longitudes"},
		{name: "longitude shift below tolerance", dx: 0.5 * (1.01 - 0.0001), rows: 3, cols: 4},
		{name: "longitude shift beyond tolerance", dx: 0.5 * (1.01 + 0.0001), rows: 3, cols: 4, bad: "longitudes"},
		{name: "latitude shift below tolerance", dy: 0.5 * (1.01 - 0.0001), rows: 3, cols: 4},
		{name: "latitude shift beyond tolerance", dy: 0.5 * (1.01 + 0.0001), rows: 3, cols: 4, bad: "latitudes"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, err := FromTemplate(AncilFile, ancilTemplate())
			require.NoError(t, err)
			// The first point of the field is at bzx+bdx, bzy+bdy.
			fld := gridField(t, tc.rows, tc.cols, 0)
			fld.SetReal(posBZX, -0.5+tc.dx)
			fld.SetReal(posBZY, -0.5+tc.dy)
			f.Fields = []*Field{fld}

			issues := validationIssues(t, f)
			if tc.bad == "" {
				assert.Empty(t, issues)
				return
			}
			require.Len(t, issues, 1)
			assert.Equal(t, "regular_grid", issues[0].Check)
			assert.Contains(t, issues[0].Message, "Field grid "+tc.bad+" inconsistent")
		})
	}
}

func TestValidateGridToleranceOption(t *testing.T) {
	f := newTestFile(t, WithGridTolerance(GridTolerance{Lon: 0.5, Lat: 0.5}))
	f.Fields = []*Field{gridField(t, 3, 5, 0)}
	issues := validationIssues(t, f)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "longitudes")
}

func TestValidateHeader(t *testing.T) {
	tmpl := gridTemplate(3)
	tmpl[FixedLengthHeaderName].Values["grid_staggering"] = 4
	tmpl[IntegerConstantsName] = Settings{Dims: []int{40}}
	delete(tmpl, RealConstantsName)
	delete(tmpl, LevelDependentConstantsName)
	f, err := FromTemplate(FieldsFile, tmpl)
	require.NoError(t, err)
	f.FixedLengthHeader().Set(header.DatasetType, 4)

	var msgs []string
	for _, is := range validationIssues(t, f) {
		assert.Equal(t, -1, is.Field)
		msgs = append(msgs, is.Message)
	}
	assert.Equal(t, []string{
		"Incorrect dataset_type (found 4, should be one of [1 2 3])",
		"Unsupported grid_staggering (found 4, can support one of [3 6])",
		"Incorrect number of integer constants, (found 40, should be 46)",
		"Real constants not found",
		"Level dependent constants not found",
	}, msgs)
}

func TestValidateLevelShape(t *testing.T) {
	tmpl := gridTemplate(3)
	tmpl[LevelDependentConstantsName] = Settings{Dims: []int{5, 8}}
	f, err := FromTemplate(FieldsFile, tmpl)
	require.NoError(t, err)

	issues := validationIssues(t, f)
	require.Len(t, issues, 1)
	assert.Equal(t, LevelDependentConstantsName, issues[0].Component)
	assert.Contains(t, issues[0].Message, "(found (5, 8), should be (6, 8))")
}

func TestValidateRowAndColumnShapes(t *testing.T) {
	tmpl := gridTemplate(3)
	tmpl[FixedLengthHeaderName].Values["grid_staggering"] = 6
	tmpl[RowDependentConstantsName] = Settings{Dims: []int{3, 2}}
	tmpl[ColumnDependentConstantsName] = Settings{Dims: []int{5, 2}}
	f, err := FromTemplate(FieldsFile, tmpl)
	require.NoError(t, err)

	issues := validationIssues(t, f)
	require.Len(t, issues, 2)
	assert.Contains(t, issues[0].Message, "row dependent constants")
	assert.Contains(t, issues[0].Message, "should be (4, 2)")
	assert.Contains(t, issues[1].Message, "column dependent constants")
}

func TestValidateFieldChecks(t *testing.T) {
	tmpl := gridTemplate(1)
	f, err := FromTemplate(FieldsFile, tmpl)
	require.NoError(t, err)

	dumpOK := gridField(t, 3, 4, 2000)
	dumpOK.SetInt(posLBREL, header.MDI)
	dumpBad := gridField(t, 3, 4, 0)
	dumpBad.SetInt(posLBREL, header.MDI)
	release := gridField(t, 3, 4, 0)
	release.SetInt(posLBREL, 5)
	landOK := gridField(t, 3, 4, 120)
	landOK.SetInt(posLBROW, 0)
	landOK.SetInt(posLBNPT, 0)
	landBad := gridField(t, 3, 4, 120)
	// N4 is the thousands digit even when lbpack has five digits.
	dumpWide := gridField(t, 3, 4, 12000)
	dumpWide.SetInt(posLBREL, header.MDI)
	f.Fields = []*Field{dumpOK, dumpBad, release, EmptyField(), landOK, landBad, dumpWide}

	var got []Issue
	for _, is := range validationIssues(t, f) {
		got = append(got, Issue{Field: is.Field, Check: is.Check})
	}
	assert.Equal(t, []Issue{
		{Field: 1, Check: "dump_special"},
		{Field: 2, Check: "release"},
		{Field: 5, Check: "land_sea"},
		{Field: 5, Check: "land_sea"},
	}, got)
}

func TestValidateVariableResolution(t *testing.T) {
	tmpl := gridTemplate(3)
	tmpl[RowDependentConstantsName] = Settings{Dims: []int{3, 2}}
	tmpl[ColumnDependentConstantsName] = Settings{Dims: []int{4, 2}}
	f, err := FromTemplate(FieldsFile, tmpl)
	require.NoError(t, err)

	good := gridField(t, 4, 5, 0)
	for _, pos := range []int{posBZX, posBZY, posBDX, posBDY} {
		good.SetReal(pos, header.RealMDI)
	}
	bad := good.Copy()
	bad.SetInt(posLBNPT, 6)
	bad.SetReal(posBDY, 0.5)
	f.Fields = []*Field{good, bad}

	issues := validationIssues(t, f)
	require.Len(t, issues, 2)
	assert.Equal(t, 1, issues[0].Field)
	assert.Equal(t, "Field column count inconsistent with variable resolution grid constants", issues[0].Message)
	assert.Equal(t, "Field latitude interval (bdy) not RMDI in variable resolution file", issues[1].Message)
}

func TestValidateStashGrid(t *testing.T) {
	stash := StashMap{}
	stash.Add(StashEntry{Model: 1, Section: 0, Item: 2, Name: "U", Grid: GridU})
	stash.Add(StashEntry{Model: 1, Section: 0, Item: 4, Name: "THETA", Grid: GridP})
	f := newTestFile(t, WithStash(stash))

	// On the new dynamics grid u points are half a column east of p points.
	u := gridField(t, 3, 4, 0)
	u.SetInt(posLBUSER4, 2)
	u.SetReal(posBZX, -0.25)
	u.SetReal(posBZY, -0.5)
	badU := u.Copy()
	badU.SetReal(posBZX, 0)
	theta := gridField(t, 3, 4, 0)
	theta.SetInt(posLBUSER4, 4)
	theta.SetReal(posBZX, -0.5)
	theta.SetReal(posBZY, -0.5)
	// Not in the table, so only the extent is checked.
	other := gridField(t, 3, 4, 0)
	other.SetInt(posLBUSER4, 99)
	f.Fields = []*Field{u, badU, theta, other}

	issues := validationIssues(t, f)
	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].Field)
	assert.Equal(t, "stash_grid", issues[0].Check)
	assert.Contains(t, issues[0].Message, "Field grid longitudes inconsistent (STASH grid: 18)")
}

func TestValidateRiverGrid(t *testing.T) {
	stash := StashMap{}
	stash.Add(StashEntry{Section: 26, Item: 4, Grid: GridRiver})
	f := newTestFile(t, WithStash(stash))
	f.FixedLengthHeader().Set(header.HorizGridType, 3)
	fld := gridField(t, 180, 360, 0)
	fld.SetInt(posLBUSER4, 26004)
	f.Fields = []*Field{fld}

	issues := validationIssues(t, f)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "river routing")
}

func TestValidateLBCStopsAfterHeader(t *testing.T) {
	tmpl := gridTemplate(5)
	tmpl[IntegerConstantsName] = Settings{Dims: []int{10}}
	tmpl[LevelDependentConstantsName] = Settings{Dims: []int{6, 4}}
	f, err := FromTemplate(LBCFile, tmpl)
	require.NoError(t, err)
	bad := lbcField(t)
	bad.SetInt(posLBREL, 9)
	f.Fields = []*Field{bad}

	issues := validationIssues(t, f)
	require.Len(t, issues, 1)
	assert.Equal(t, IntegerConstantsName, issues[0].Component)
}

func TestValidationErrorMessage(t *testing.T) {
	f := newTestFile(t)
	for i := 0; i < 7; i++ {
		f.Fields = append(f.Fields, gridField(t, 8, 4, 0))
	}
	f.FixedLengthHeader().Set(header.GridStaggering, 2)
	f.path = "test.ff"

	msg := f.Validate().Error()
	assert.Contains(t, msg, "Failed to validate\nFile: test.ff\nUnsupported grid_staggering")
	assert.Contains(t, msg, "Field validation failures:\n  Fields (0, 1, 2, 3, 4, ... 7 total)\n"+
		"Field grid latitudes inconsistent")
}
