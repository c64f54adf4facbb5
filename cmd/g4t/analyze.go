package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"g4t/internal/diag"
	"g4t/internal/diagfmt"
	"g4t/internal/driver"
	"g4t/internal/source"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <file.g4|directory>",
	Short: "Run the full diagnostic battery over a grammar or a directory",
	Long: `Analyze scans, models and validates grammar files: undefined and
unused rules, duplicates, hidden left recursion, alternative ambiguities,
lexer mode problems and naming conventions.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	analyzeCmd.Flags().Bool("strict", false, "report undefined references even with an external vocabulary")
	analyzeCmd.Flags().Int("jobs", 0, "parallel workers for directory analysis (0 = NumCPU)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	target := args[0]
	format, _ := cmd.Flags().GetString("format")
	strict, _ := cmd.Flags().GetBool("strict")
	jobs, _ := cmd.Flags().GetInt("jobs")

	opts := driverOptions(cmd)
	opts.Strict = strict
	opts.Jobs = jobs

	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	if info.IsDir() {
		merged := diag.NewBag(driver.DefaultMaxDiagnostics)
		fs, results, err := driver.AnalyzeDir(cmd.Context(), target, opts)
		if err != nil {
			return err
		}
		for _, res := range results {
			merged.Merge(res.Bag)
		}
		merged.Sort()
		return emitAnalysis(cmd, merged, fs, format)
	}

	fs, res, err := driver.AnalyzeFile(target, opts)
	if err != nil {
		return err
	}
	return emitAnalysis(cmd, res.Bag, fs, format)
}

func emitAnalysis(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, format string) error {
	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, bag, fs, prettyOpts(cmd, os.Stdout))
	case "json":
		if err := diagfmt.JSON(os.Stdout, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			PathMode:         diagfmt.PathModeAuto,
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if bag.HasErrors() {
		return fmt.Errorf("analysis reported errors")
	}
	return nil
}
