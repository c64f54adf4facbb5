package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"g4t/internal/diag"
	"g4t/internal/diagfmt"
	"g4t/internal/driver"
	"g4t/internal/rewrite"
	"g4t/internal/source"
)

func driverOptions(cmd *cobra.Command) driver.Options {
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	return driver.Options{MaxDiagnostics: maxDiagnostics}
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

func prettyOpts(cmd *cobra.Command, f *os.File) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:       useColor(cmd, f),
		ShowContext: true,
		ShowNotes:   true,
		PathMode:    diagfmt.PathModeAuto,
	}
}

// reportDiagnostics выводит мешок в stderr, соблюдая --quiet
func reportDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if quiet && !bag.HasErrors() {
		return
	}
	if bag.Len() == 0 {
		return
	}
	diagfmt.Pretty(os.Stderr, bag, fs, prettyOpts(cmd, os.Stderr))
}

// runEdit is the shared driver for all mutating commands: preview to
// stdout by default, write in place with --write.
func runEdit(cmd *cobra.Command, path string, op func(text string) rewrite.Result) error {
	write, _ := cmd.Flags().GetBool("write")

	outcome, err := driver.ApplyEdit(path, write, driverOptions(cmd), op)
	if err != nil {
		return err
	}
	if !outcome.Result.OK {
		return fmt.Errorf("%s", outcome.Result.Reason)
	}
	if outcome.Verify != nil && outcome.Verify.HasErrors() {
		fmt.Fprintln(os.Stderr, "warning: the rewritten grammar has structural issues:")
		diagfmt.Pretty(os.Stderr, outcome.Verify, outcome.VerifyFS, prettyOpts(cmd, os.Stderr))
	}
	if write {
		fmt.Fprintf(os.Stderr, "updated %s\n", path)
		return nil
	}
	// превью в stdout; --write применяет
	fmt.Print(outcome.Result.Text)
	return nil
}
