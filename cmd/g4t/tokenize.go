package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"g4t/internal/diagfmt"
	"g4t/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.g4 [input]",
	Short: "Run the simulated lexer of a grammar over sample input",
	Long: `Tokenize compiles the grammar's lexer rules into matchers and runs
maximal-munch tokenization over the given input (second argument, or
stdin when omitted). No parser generation is involved.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("all", false, "include skipped tokens in the output")
}

func readInputArg(args []string) (string, error) {
	if len(args) == 2 {
		return args[1], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	format, _ := cmd.Flags().GetString("format")
	showAll, _ := cmd.Flags().GetBool("all")

	input, err := readInputArg(args)
	if err != nil {
		return err
	}

	fs, result, err := driver.TokenizeInput(filePath, input, driverOptions(cmd))
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	reportDiagnostics(cmd, result.Bag, fs)

	tokens := result.Tokens
	if !showAll {
		kept := tokens[:0:0]
		for _, tok := range tokens {
			if !tok.Skipped {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, tokens)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
