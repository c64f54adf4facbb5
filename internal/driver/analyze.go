// Package driver wires the scanner, model builder, analyzers and rewrite
// engine into the operations the CLI exposes. It owns file loading,
// manifest handling and parallelism; the packages underneath stay pure.
package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"g4t/internal/analysis"
	"g4t/internal/diag"
	"g4t/internal/grammar"
	"g4t/internal/project"
	"g4t/internal/scan"
	"g4t/internal/source"
)

// DefaultMaxDiagnostics bounds the bag when the caller does not say.
const DefaultMaxDiagnostics = 256

// Options configure one driver invocation.
type Options struct {
	MaxDiagnostics int
	Strict         bool
	Jobs           int
	// Manifest overrides grammar.toml discovery; nil means discover.
	Manifest *project.Manifest
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// FileResult is the analysis outcome for one grammar file.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Grammar *grammar.Grammar
	Bag     *diag.Bag
}

func manifestFor(dir string, opts Options) *project.Manifest {
	if opts.Manifest != nil {
		return opts.Manifest
	}
	m, err := project.LoadForDir(dir)
	if err != nil {
		// битый манифест не должен валить анализ, работаем по умолчаниям
		return project.Default()
	}
	return m
}

func scanOptions(m *project.Manifest) scan.Options {
	var opts scan.Options
	if m.Scan.MaxRuleLines > 0 {
		opts.MaxRuleLines = uint32(m.Scan.MaxRuleLines)
	}
	return opts
}

func analysisOptions(m *project.Manifest, opts Options) analysis.Options {
	return analysis.Options{
		Strict:        opts.Strict,
		DisableNaming: m.Naming.Disable,
		PrefixLen:     m.Naming.PrefixLen,
	}
}

// AnalyzeFile loads one grammar and runs the full analysis battery.
func AnalyzeFile(path string, opts Options) (*source.FileSet, *FileResult, error) {
	dir := filepath.Dir(path)
	manifest := manifestFor(dir, opts)

	fileSet := source.NewFileSetWithBase(dir)
	id, err := fileSet.Load(path)
	if err != nil {
		return nil, nil, err
	}

	res := analyzeLoaded(fileSet, id, path, manifest, opts)
	return fileSet, res, nil
}

func analyzeLoaded(fileSet *source.FileSet, id source.FileID, path string, manifest *project.Manifest, opts Options) *FileResult {
	bag := diag.NewBag(opts.maxDiagnostics())
	rep := diag.BagReporter{Bag: bag}

	g := grammar.Parse(fileSet.Get(id), rep, scanOptions(manifest))

	aopts := analysisOptions(manifest, opts)
	aopts.KnownTokens = resolveVocabTokens(filepath.Dir(path), g, manifest)
	analysis.Analyze(g, rep, aopts)
	bag.Sort()

	return &FileResult{Path: path, FileID: id, Grammar: g, Bag: bag}
}

// listGrammarFiles возвращает отсортированный список всех *.g4 в директории
func listGrammarFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".g4") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// AnalyzeDir analyzes every *.g4 under dir in parallel. Results come back
// in path order regardless of scheduling.
func AnalyzeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []*FileResult, error) {
	files, err := listGrammarFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	manifest := manifestFor(dir, opts)

	// предзагрузка: FileSet не рассчитан на конкурентный Load
	ids := make([]source.FileID, len(files))
	loadErrs := make([]error, len(files))
	for i, path := range files {
		ids[i], loadErrs[i] = fileSet.Load(path)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if loadErrs[i] != nil {
				bag := diag.NewBag(opts.maxDiagnostics())
				bag.Add(diag.NewError(diag.ScanLoadFailed, source.Span{},
					"failed to load file: "+loadErrs[i].Error()))
				results[i] = &FileResult{Path: path, Bag: bag}
				return nil
			}
			results[i] = analyzeLoaded(fileSet, ids[i], path, manifest, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return fileSet, results, nil
}
