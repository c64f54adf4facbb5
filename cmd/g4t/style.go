package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"g4t/internal/driver"
	"g4t/internal/style"
)

var styleCmd = &cobra.Command{
	Use:   "style [flags] file.g4",
	Short: "Show the formatting conventions inferred from a grammar file",
	Args:  cobra.ExactArgs(1),
	RunE:  runStyle,
}

func init() {
	styleCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type stylePayload struct {
	ColonOnOwnLine         bool   `json:"colon_on_own_line"`
	SpaceBeforeColon       bool   `json:"space_before_colon"`
	SemiOnOwnLine          bool   `json:"semi_on_own_line"`
	Indent                 string `json:"indent"`
	BlankLinesBetweenRules int    `json:"blank_lines_between_rules"`
}

func runStyle(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	fs, res, err := driver.AnalyzeFile(args[0], driverOptions(cmd))
	if err != nil {
		return err
	}
	reportDiagnostics(cmd, res.Bag, fs)

	st := style.Infer(res.Grammar)

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stylePayload{
			ColonOnOwnLine:         st.ColonOnOwnLine,
			SpaceBeforeColon:       st.SpaceBeforeColon,
			SemiOnOwnLine:          st.SemiOnOwnLine,
			Indent:                 st.Indent,
			BlankLinesBetweenRules: st.BlankLinesBetweenRules,
		})
	}

	fmt.Printf("colon on own line:  %v\n", st.ColonOnOwnLine)
	fmt.Printf("space before colon: %v\n", st.SpaceBeforeColon)
	fmt.Printf("semi on own line:   %v\n", st.SemiOnOwnLine)
	fmt.Printf("indent unit:        %q\n", st.Indent)
	fmt.Printf("blank lines:        %d\n", st.BlankLinesBetweenRules)
	return nil
}
