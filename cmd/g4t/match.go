package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"g4t/internal/driver"
	"g4t/internal/sim"
)

var matchCmd = &cobra.Command{
	Use:   "match [flags] file.g4 rule [input]",
	Short: "Check whether sample input can match a parser rule",
	Long: `Match tokenizes the input with the grammar's simulated lexer and
runs a bounded-depth match of the named parser rule over the token
stream. The verdict carries a confidence level; it is advisory, not a
substitute for the real generated parser.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type matchPayload struct {
	Rule       string   `json:"rule"`
	Matched    bool     `json:"matched"`
	Consumed   int      `json:"consumed"`
	Tokens     int      `json:"tokens"`
	Confidence string   `json:"confidence"`
	Partial    bool     `json:"partial,omitempty"`
	FailOffset int      `json:"fail_offset,omitempty"`
	Expected   []string `json:"expected,omitempty"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	filePath, ruleName := args[0], args[1]
	format, _ := cmd.Flags().GetString("format")

	input, err := readInputArg(args[1:])
	if err != nil {
		return err
	}

	fs, result, err := driver.MatchRule(cmd.Context(), filePath, ruleName, input, nil, driverOptions(cmd))
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	reportDiagnostics(cmd, result.Bag, fs)

	rep := result.Report
	total := len(sim.Significant(result.Tokens))

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(matchPayload{
			Rule:       ruleName,
			Matched:    rep.Matched,
			Consumed:   rep.Consumed,
			Tokens:     total,
			Confidence: string(rep.Confidence),
			Partial:    rep.Partial,
			FailOffset: rep.FailOffset,
			Expected:   rep.Expected,
		}); err != nil {
			return err
		}
	} else {
		if rep.Matched {
			fmt.Printf("rule %s matched %d of %d token(s), confidence %s\n",
				ruleName, rep.Consumed, total, rep.Confidence)
		} else {
			fmt.Printf("rule %s did not match (stopped at token %d of %d)\n",
				ruleName, rep.FailOffset, total)
			if len(rep.Expected) > 0 {
				fmt.Printf("expected: %s\n", strings.Join(rep.Expected, ", "))
			}
			if rep.Partial {
				fmt.Println("the input is a correct prefix; more input could complete the rule")
			}
		}
	}

	if !rep.Matched {
		return fmt.Errorf("no match")
	}
	return nil
}
