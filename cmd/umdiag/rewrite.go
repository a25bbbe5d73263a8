package main

import (
	"github.com/robert-malhotra/go-umfile/umfile"
	"github.com/spf13/cobra"
)

var (
	purgeEmpty bool
	unpack     bool
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite <in> <out>",
	Short: "read a file and write it out again",
	Args:  cobra.ExactArgs(2),
	RunE:  runRewrite,
}

func init() {
	rewriteCmd.Flags().BoolVar(
		&purgeEmpty, "purge-empty", false, "drop empty lookup entries")
	rewriteCmd.Flags().BoolVar(
		&unpack, "unpack", false, "store WGDOS and 32-bit packed fields unpacked")
}

func runRewrite(cmd *cobra.Command, args []string) error {
	f, err := umfile.Load(args[0], fileOptions()...)
	if err != nil {
		return err
	}
	defer f.Close()

	if purgeEmpty {
		f.PurgeEmpty()
	}
	if unpack {
		for _, fld := range f.Fields {
			if fld.IsEmpty() || fld.Names() == nil {
				continue
			}
			pc, err := umfile.SplitPacking(fld.LBPack())
			if err != nil {
				return err
			}
			// Only WGDOS and 32-bit packing are undone; other codes are kept.
			if pc.Key == 1 || pc.Key == 2 {
				fld.SetLBPack(int64(pc.NumberFormat) * 1000)
			}
		}
	}
	return f.WriteFile(args[1])
}
