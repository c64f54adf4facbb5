package main

import (
	"github.com/spf13/cobra"

	"g4t/internal/rewrite"
)

var ruleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Add, remove or update single rule declarations",
}

var ruleAddCmd = &cobra.Command{
	Use:   "add [flags] file.g4 NAME BODY",
	Short: "Insert a new rule, matching the file's formatting style",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		fragment, _ := cmd.Flags().GetBool("fragment")
		after, _ := cmd.Flags().GetString("after")
		before, _ := cmd.Flags().GetString("before")
		return runEdit(cmd, args[0], func(text string) rewrite.Result {
			return rewrite.Add(text, args[1], args[2], rewrite.AddOptions{
				Fragment: fragment,
				After:    after,
				Before:   before,
			})
		})
	},
}

var ruleRemoveCmd = &cobra.Command{
	Use:   "remove [flags] file.g4 NAME",
	Short: "Delete a rule declaration, leaving references untouched",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args[0], func(text string) rewrite.Result {
			return rewrite.Remove(text, args[1])
		})
	},
}

var ruleUpdateCmd = &cobra.Command{
	Use:   "update [flags] file.g4 NAME BODY",
	Short: "Replace a rule's body, keeping its header and surroundings",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args[0], func(text string) rewrite.Result {
			return rewrite.Update(text, args[1], args[2])
		})
	},
}

func init() {
	ruleAddCmd.Flags().Bool("fragment", false, "declare the rule as a fragment")
	ruleAddCmd.Flags().String("after", "", "place the new rule after this one")
	ruleAddCmd.Flags().String("before", "", "place the new rule before this one")

	for _, c := range []*cobra.Command{ruleAddCmd, ruleRemoveCmd, ruleUpdateCmd} {
		c.Flags().Bool("write", false, "write the result back instead of previewing")
	}
	ruleCmd.AddCommand(ruleAddCmd, ruleRemoveCmd, ruleUpdateCmd)
}
