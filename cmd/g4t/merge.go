package main

import (
	"github.com/spf13/cobra"

	"g4t/internal/rewrite"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [flags] file.g4 FIRST SECOND NEW",
	Short: "Combine two rules into one with the union of their alternatives",
	Long: `Merge replaces FIRST and SECOND with a single rule NEW whose body is
the alternatives of both, at the position of whichever came first.
References to the old names are left alone; run rename afterwards to
repoint them.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args[0], func(text string) rewrite.Result {
			return rewrite.Merge(text, args[1], args[2], args[3])
		})
	},
}

func init() {
	mergeCmd.Flags().Bool("write", false, "write the result back instead of previewing")
}
