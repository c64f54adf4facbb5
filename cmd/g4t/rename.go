package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"g4t/internal/driver"
	"g4t/internal/resolve"
	"g4t/internal/rewrite"
)

var renameCmd = &cobra.Command{
	Use:   "rename [flags] <file.g4|directory> OLD NEW",
	Short: "Rename a rule and every reference to it",
	Long: `Rename rewrites the rule's declaration and all whole-word references,
leaving string literals, comments and unrelated identifiers alone.
Given a directory it renames across every grammar file in it, so
imported-grammar references stay consistent.`,
	Args: cobra.ExactArgs(3),
	RunE: runRename,
}

func init() {
	renameCmd.Flags().Bool("write", false, "write the result back instead of previewing")
}

func runRename(cmd *cobra.Command, args []string) error {
	target, oldName, newName := args[0], args[1], args[2]

	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return runEdit(cmd, target, func(text string) rewrite.Result {
			return rewrite.Rename(text, oldName, newName)
		})
	}

	write, _ := cmd.Flags().GetBool("write")

	paths, err := grammarFilesIn(target)
	if err != nil {
		return err
	}
	files := make(map[string]string, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		files[p] = string(data)
	}

	updated, counts, err := resolve.RenameAll(files, oldName, newName)
	if err != nil {
		return err
	}

	touched := make([]string, 0, len(updated))
	for p := range updated {
		touched = append(touched, p)
	}
	sort.Strings(touched)

	for _, p := range touched {
		fmt.Fprintf(os.Stderr, "%s: %d occurrence(s)\n", p, counts[p])
		if write {
			if err := driver.SafeWrite(p, []byte(files[p]), []byte(updated[p])); err != nil {
				return err
			}
		}
	}
	if !write {
		fmt.Fprintln(os.Stderr, "preview only; pass --write to apply")
	}
	return nil
}

// grammarFilesIn собирает *.g4 в детерминированном порядке
func grammarFilesIn(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".g4") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
