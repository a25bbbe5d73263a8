package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/robert-malhotra/go-umfile/umfile"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	stashMasterPath string
	concurrency     int
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "check the headers and field grids of files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(
		&stashMasterPath, "stashmaster", "s", "", "STASHmaster file enabling grid type checks")
	validateCmd.Flags().IntVarP(
		&concurrency, "concurrency", "c", 4, "number of files validated at once")
}

func runValidate(cmd *cobra.Command, args []string) error {
	var extra []umfile.Option
	if stashMasterPath != "" {
		stash, err := loadStashMaster(stashMasterPath)
		if err != nil {
			return err
		}
		extra = append(extra, umfile.WithStash(stash))
	}
	opts := fileOptions(extra...)

	results := make([]error, len(args))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, path := range args {
		g.Go(func() error {
			results[i] = validateFile(path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for i, err := range results {
		if err == nil {
			fmt.Fprintf(out, "%s: OK\n", args[i])
			continue
		}
		failed++
		fmt.Fprintf(out, "%s: %v\n", args[i], err)
	}
	if failed > 0 {
		return errors.Newf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}

func validateFile(path string, opts []umfile.Option) error {
	f, err := umfile.Load(path, opts...)
	if err != nil {
		return err
	}
	return errors.CombineErrors(f.Validate(), f.Close())
}

func loadStashMaster(path string) (umfile.StashMap, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening STASHmaster")
	}
	defer r.Close()
	return umfile.ParseStashMaster(r)
}
