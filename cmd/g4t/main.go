package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"g4t/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "g4t",
	Short: "Grammar workbench: analyze, simulate and refactor .g4 files",
	Long: `g4t inspects, validates and rewrites grammar files without ever
invoking a grammar compiler: structural scanning, reference and
ambiguity analysis, lexer/parser simulation, and formatting-preserving
refactorings.`,
	SilenceUsage: true,
}

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(ruleCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(inlineCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(styleCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
