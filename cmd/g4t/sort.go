package main

import (
	"strings"

	"github.com/spf13/cobra"

	"g4t/internal/rewrite"
)

var sortCmd = &cobra.Command{
	Use:   "sort [flags] file.g4 STRATEGY",
	Short: "Reorder rule declarations (alphabetical|type|dependency|usage)",
	Long: `Sort moves whole rule declarations between their existing slots.
Comments attached to a rule travel with it; blank-line gaps stay put,
and rules never cross a lexer mode boundary. The dependency strategy
requires --anchor.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		anchor, _ := cmd.Flags().GetString("anchor")
		groups, _ := cmd.Flags().GetString("groups")

		opts := rewrite.SortOptions{Anchor: anchor}
		if groups != "" {
			for _, g := range strings.Split(groups, ",") {
				opts.GroupOrder = append(opts.GroupOrder, strings.TrimSpace(g))
			}
		}
		return runEdit(cmd, args[0], func(text string) rewrite.Result {
			return rewrite.Sort(text, args[1], opts)
		})
	},
}

func init() {
	sortCmd.Flags().String("anchor", "", "focal rule for the dependency strategy")
	sortCmd.Flags().String("groups", "", "comma-separated group order for the type strategy")
	sortCmd.Flags().Bool("write", false, "write the result back instead of previewing")
}
