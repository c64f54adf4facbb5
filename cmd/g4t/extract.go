package main

import (
	"github.com/spf13/cobra"

	"g4t/internal/rewrite"
)

var extractCmd = &cobra.Command{
	Use:   "extract [flags] file.g4 FRAGNAME PATTERN",
	Short: "Pull a repeated lexer pattern out into a named fragment",
	Long: `Extract declares a new fragment FRAGNAME with body PATTERN and
replaces every verbatim occurrence of PATTERN inside lexer rule bodies
with a reference to it.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args[0], func(text string) rewrite.Result {
			return rewrite.Extract(text, args[1], args[2])
		})
	},
}

func init() {
	extractCmd.Flags().Bool("write", false, "write the result back instead of previewing")
}
