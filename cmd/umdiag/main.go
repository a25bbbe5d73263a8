// Command umdiag inspects, validates and rewrites UM files.
package main

import (
	"log/slog"
	"os"

	"github.com/robert-malhotra/go-umfile/umfile"
	"github.com/spf13/cobra"
)

var (
	wordSize int
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:          "umdiag [command] (flags)",
	Short:        "UM file diagnostic tool",
	SilenceUsage: true,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		summaryCmd,
		validateCmd,
		rewriteCmd,
	)
	rootCmd.PersistentFlags().IntVarP(
		&wordSize, "word-size", "w", 8, "size in bytes of a file word (4 or 8)")
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "log read and write progress")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// fileOptions returns the options shared by every command.
func fileOptions(extra ...umfile.Option) []umfile.Option {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return append([]umfile.Option{
		umfile.WithWordSize(wordSize),
		umfile.WithLogger(logger),
	}, extra...)
}
