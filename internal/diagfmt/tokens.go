package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"g4t/internal/sim"
)

type TokenOutput struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Channel string `json:"channel,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []sim.Token) error {
	for i, tok := range tokens {
		fmt.Fprintf(w, "%3d: %-15s %q at %d:%d", i+1, tok.Type, tok.Text, tok.Line, tok.Col)
		if tok.Channel != "" {
			fmt.Fprintf(w, " (channel %s)", tok.Channel)
		}
		if tok.Skipped {
			fmt.Fprint(w, " (skipped)")
		}
		fmt.Fprintln(w)
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []sim.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Type:    tok.Type,
			Text:    tok.Text,
			Channel: tok.Channel,
			Skipped: tok.Skipped,
			Start:   tok.Start,
			End:     tok.End,
			Line:    tok.Line,
			Col:     tok.Col,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
