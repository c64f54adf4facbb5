package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"g4t/internal/rewrite"
)

var inlineCmd = &cobra.Command{
	Use:   "inline [flags] file.g4 NAME",
	Short: "Substitute a rule's body into every reference and drop the rule",
	Long: `Inline replaces each reference to NAME with its body and removes the
declaration. Multi-alternative bodies are parenthesized at every site;
alternative labels do not survive inlining and are stripped. Recursive
rules and rules on an import-free reference cycle are rejected.`,
	Args: cobra.ExactArgs(2),
	RunE: runInline,
}

func init() {
	inlineCmd.Flags().Bool("force", false, "parenthesize even single-alternative bodies")
	inlineCmd.Flags().Bool("dry-run", false, "report what would change without changing it")
	inlineCmd.Flags().Bool("write", false, "write the result back instead of previewing")
}

func runInline(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if dryRun {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		res := rewrite.Inline(string(data), args[1], rewrite.InlineOptions{Force: force, DryRun: true})
		if !res.OK {
			return fmt.Errorf("%s", res.Reason)
		}
		fmt.Printf("would inline %s into %d site(s)\n", args[1], res.Count)
		fmt.Printf("alternatives: %d, parenthesized: %v\n", res.AltCount, res.Parenthesized)
		return nil
	}

	return runEdit(cmd, args[0], func(text string) rewrite.Result {
		return rewrite.Inline(text, args[1], rewrite.InlineOptions{Force: force})
	})
}
