package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/robert-malhotra/go-umfile/internal/header"
	"github.com/robert-malhotra/go-umfile/umfile"
	"github.com/spf13/cobra"
)

var summaryAll bool

var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "print the headers and lookup of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().BoolVarP(
		&summaryAll, "all", "a", false, "include empty lookup entries")
}

func runSummary(cmd *cobra.Command, args []string) error {
	f, err := umfile.Load(args[0], fileOptions()...)
	if err != nil {
		return err
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "=== %s ===\n%s\n\n", args[0], f)
	fixed := f.FixedLengthHeader()
	for _, name := range []string{"dataset_type", "grid_staggering", "horiz_grid_type",
		"lookup_start", "lookup_dim2", "data_start", "data_dim1"} {
		v, err := fixed.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-16s %s\n", name, word(v))
	}
	fmt.Fprintln(out)
	writeLookupTable(out, f, summaryAll)
	return nil
}

func writeLookupTable(w io.Writer, f *umfile.File, all bool) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Field", "lbrel", "STASH", "lbft", "lbpack", "Packing", "Grid", "lblrec"})
	for i, fld := range f.Fields {
		if fld.IsEmpty() {
			if all {
				tbl.Append([]string{strconv.Itoa(i), "empty", "", "", "", "", "", ""})
			}
			continue
		}
		packing := "unknown"
		if pc, err := umfile.SplitPacking(fld.LBPack()); err == nil {
			if c, ok := f.Registry().Lookup(pc.Key); ok {
				packing = c.Name
			}
		}
		tbl.Append([]string{
			strconv.Itoa(i),
			word(fld.Release()),
			strconv.FormatInt(fld.StashCode(), 10),
			strconv.FormatInt(fld.LBFT(), 10),
			strconv.FormatInt(fld.LBPack(), 10),
			packing,
			fmt.Sprintf("%d x %d", fld.LBRow(), fld.LBNpt()),
			strconv.FormatInt(fld.LBLRec(), 10),
		})
	}
	tbl.Render()
}

func word(v int64) string {
	if v == header.MDI {
		return "MDI"
	}
	return strconv.FormatInt(v, 10)
}
