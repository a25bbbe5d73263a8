package main

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/robert-malhotra/go-umfile/internal/header"
	"github.com/robert-malhotra/go-umfile/umfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestFile writes a FieldsFile holding one WGDOS packed 3 x 4 field
// and one empty lookup entry, returning the field's values.
func writeTestFile(t *testing.T, path string) []float64 {
	t.Helper()
	tmpl := umfile.Template{
		umfile.FixedLengthHeaderName: {Values: map[string]float64{
			"dataset_type": 3, "grid_staggering": 3,
		}},
		umfile.IntegerConstantsName: {Values: map[string]float64{
			"num_cols": 4, "num_rows": 3, "num_p_levels": 5,
		}},
		umfile.RealConstantsName: {Values: map[string]float64{
			"col_spacing": 0.5, "row_spacing": 0.5, "start_lat": 0, "start_lon": 0,
		}},
		umfile.LevelDependentConstantsName: {Dims: []int{6, 8}},
	}
	f, err := umfile.FromTemplate(umfile.FieldsFile, tmpl, umfile.WithDataStartAlignment(512))
	require.NoError(t, err)

	fld, err := umfile.NewField(make([]int64, umfile.LookupInts), make([]float64, umfile.LookupReals))
	require.NoError(t, err)
	// Named access needs a known release, so lbrel is set by position.
	fld.SetInt(22, 3)
	require.NoError(t, fld.SetNamedInt("lbrow", 3))
	require.NoError(t, fld.SetNamedInt("lbnpt", 4))
	require.NoError(t, fld.SetNamedInt("lbuser1", 1))
	require.NoError(t, fld.SetNamedInt("lbpack", 1))
	require.NoError(t, fld.SetNamedReal("bacc", -6))
	require.NoError(t, fld.SetNamedReal("bdx", 0.5))
	require.NoError(t, fld.SetNamedReal("bdy", 0.5))
	require.NoError(t, fld.SetNamedReal("bmdi", header.RealMDI))

	vals := []float64{280.1, 280.2, 281.5, 279.9, 278, 277.25, 276.5, 275, 290, 291.125, 292, 293.5}
	arr, err := umfile.NewArray(vals, 3, 4)
	require.NoError(t, err)
	fld.SetData(arr)
	f.Fields = []*umfile.Field{fld, umfile.EmptyField()}
	require.NoError(t, f.WriteFile(path))
	return vals
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		purgeEmpty, unpack, summaryAll = false, false, false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.ff")
	writeTestFile(t, good)

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, good+": OK")

	missing := filepath.Join(dir, "missing.ff")
	out, err = execute(t, "validate", "-c", "2", good, missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed validation")
	assert.Contains(t, out, good+": OK")
	assert.Contains(t, out, missing+": ")
}

func TestRewriteCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.ff")
	vals := writeTestFile(t, in)

	out := filepath.Join(dir, "out.ff")
	_, err := execute(t, "rewrite", "--purge-empty", "--unpack", in, out)
	require.NoError(t, err)

	f, err := umfile.Load(out)
	require.NoError(t, err)
	defer f.Close()
	require.Len(t, f.Fields, 1)
	assert.Zero(t, f.Fields[0].LBPack())

	data, err := f.Fields[0].Data()
	require.NoError(t, err)
	require.Len(t, data.Values, len(vals))
	for i, v := range vals {
		assert.InDelta(t, v, data.Values[i], math.Ldexp(1, -6)/2, "point %d", i)
	}
}

func TestSummaryCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.ff")
	writeTestFile(t, path)

	out, err := execute(t, "summary", "--all", path)
	require.NoError(t, err)
	assert.Contains(t, out, "FieldsFile")
}
