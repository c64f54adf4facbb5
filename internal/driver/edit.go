package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"g4t/internal/diag"
	"g4t/internal/grammar"
	"g4t/internal/rewrite"
	"g4t/internal/source"
)

// safeWriteMinLines: below this size the shrink guard does not apply;
// small files legitimately shrink to almost nothing.
const safeWriteMinLines = 10

// EditOutcome is one rewrite applied through the driver: the raw result
// plus diagnostics from re-scanning the mutated text.
type EditOutcome struct {
	Path   string
	Result rewrite.Result
	// Verify holds structural diagnostics of the NEW text. A rewrite that
	// introduces a scan error is suspect even when the splice succeeded.
	Verify *diag.Bag
	// VerifyFS resolves Verify spans.
	VerifyFS *source.FileSet
	// Written is set when the file on disk was actually replaced.
	Written bool
}

// ApplyEdit reads path, runs op on its content, verifies the result by
// re-parsing, and optionally writes back through the SafeWrite guard.
func ApplyEdit(path string, write bool, opts Options, op func(text string) rewrite.Result) (*EditOutcome, error) {
	old, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	out := &EditOutcome{Path: path}
	out.Result = op(string(old))
	if !out.Result.OK {
		return out, nil
	}

	// повторный прогон сканера по новому тексту
	manifest := manifestFor(filepath.Dir(path), opts)
	bag := diag.NewBag(opts.maxDiagnostics())
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(out.Result.Text))
	grammar.Parse(fs.Get(id), diag.BagReporter{Bag: bag}, scanOptions(manifest))
	bag.Sort()
	out.Verify = bag
	out.VerifyFS = fs

	if !write {
		return out, nil
	}
	if err := SafeWrite(path, old, []byte(out.Result.Text)); err != nil {
		return out, err
	}
	out.Written = true
	return out, nil
}

// SafeWrite atomically replaces path with newContent, refusing suspicious
// shrinkage: when the old content is more than safeWriteMinLines lines and
// the new content has fewer than half as many, something likely went wrong
// upstream and the caller must pass --force (by bypassing this helper).
func SafeWrite(path string, oldContent, newContent []byte) error {
	oldLines := bytes.Count(oldContent, []byte("\n"))
	newLines := bytes.Count(newContent, []byte("\n"))
	if oldLines > safeWriteMinLines && newLines*2 < oldLines {
		return fmt.Errorf("refusing to write %s: content shrank from %d to %d lines; use a preview to inspect the result",
			path, oldLines, newLines)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".g4t-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(newContent); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(tmp.Name(), path)
}
