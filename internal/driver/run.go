// Package driver orchestrates the generation pipeline: load and inspect
// packages, validate every marked type, synthesize artifacts for the ones
// that pass, and write one generated file per type. A type that fails
// validation contributes a diagnostic and nothing else; other types and
// packages are unaffected. Packages are processed in parallel.
package driver

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"enumgen/internal/diag"
	"enumgen/internal/inspect"
	"enumgen/internal/source"
	"enumgen/internal/synth"
	"enumgen/internal/validate"
)

// Options configures a driver run.
type Options struct {
	// Patterns are go/packages patterns; defaults to ./... when empty.
	Patterns []string
	// Dir is the working directory for pattern resolution.
	Dir        string
	BuildFlags []string
	// Jobs bounds per-package parallelism (0 = GOMAXPROCS).
	Jobs int
	// CheckOnly runs validation without synthesizing or writing anything.
	CheckOnly bool
	// DryRun synthesizes but does not write files.
	DryRun bool
	// Cache enables the on-disk result cache.
	Cache bool
	// CacheDir overrides the cache location (tests).
	CacheDir string
	// Suffix is the output file suffix; synth.DefaultSuffix when empty.
	Suffix string
	// Header is an extra comment line for generated files.
	Header         string
	MaxDiagnostics int
	// Events receives progress events when non-nil. The channel is not
	// closed by the driver.
	Events chan<- Event
}

// PackageResult is the outcome for one package.
type PackageResult struct {
	PkgPath string
	Dir     string
	Bag     *diag.Bag
	// Written lists generated file paths (or would-be paths on DryRun).
	Written    []string
	FromCache  bool
	LoadErrors []string
}

// Result is the outcome of a whole run.
type Result struct {
	FileSet  *source.FileSet
	Packages []PackageResult
}

// HasErrors reports whether any package produced an error diagnostic.
func (r *Result) HasErrors() bool {
	for i := range r.Packages {
		if r.Packages[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Run executes the pipeline over every matched package.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if len(opts.Patterns) == 0 {
		opts.Patterns = []string{"./..."}
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	if opts.Suffix == "" {
		opts.Suffix = synth.DefaultSuffix
	}

	fs := source.NewFileSet()
	if opts.Dir != "" {
		if abs, err := filepath.Abs(opts.Dir); err == nil {
			fs.SetBaseDir(abs)
		}
	}

	var cache *Cache
	if opts.Cache && !opts.CheckOnly && !opts.DryRun {
		var err error
		if opts.CacheDir != "" {
			cache, err = OpenCacheAt(opts.CacheDir)
		} else {
			cache, err = OpenCache("enumgen")
		}
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
	}

	opts.emit(Event{Stage: StageInspect})
	pkgs, err := inspect.Load(ctx, fs, opts.Patterns, inspect.Options{
		Dir:            opts.Dir,
		BuildFlags:     opts.BuildFlags,
		MaxDiagnostics: opts.MaxDiagnostics,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		FileSet:  fs,
		Packages: make([]PackageResult, len(pkgs)),
	}

	// File contents and spans are fixed after inspection; from here on the
	// FileSet is read-only and packages are independent.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i, pkg := range pkgs {
		i, pkg := i, pkg
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result.Packages[i] = processPackage(fs, pkg, cache, &opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range result.Packages {
		result.Packages[i].Bag.Dedup()
		result.Packages[i].Bag.Sort()
	}
	return result, nil
}

func processPackage(fs *source.FileSet, pkg *inspect.Package, cache *Cache, opts *Options) PackageResult {
	res := PackageResult{
		PkgPath:    pkg.PkgPath,
		Dir:        pkg.Dir,
		Bag:        pkg.Bag,
		LoadErrors: pkg.LoadErrors,
	}

	var key [32]byte
	if cache != nil {
		// Artifacts from earlier runs live inside the package; keep them
		// out of the digest or the key would never repeat.
		generated := make(map[string]bool, len(pkg.Types))
		for i := range pkg.Types {
			generated[synth.FileName(pkg.Types[i].Name, opts.Suffix)] = true
		}
		digest := pkg.Digest(fs, func(path string) bool {
			return generated[filepath.Base(path)]
		})
		key = cacheKey(pkg.PkgPath, digest, opts.Suffix, opts.Header)
		var payload Payload
		if ok, err := cache.Get(key, &payload); err == nil && ok && outputsUpToDate(&payload) {
			for _, out := range payload.Outputs {
				res.Written = append(res.Written, out.Path)
			}
			res.FromCache = true
			opts.emit(Event{PkgPath: pkg.PkgPath, Stage: StageCached})
			opts.emit(Event{PkgPath: pkg.PkgPath, Stage: StageDone})
			return res
		}
	}

	opts.emit(Event{PkgPath: pkg.PkgPath, Stage: StageValidate})

	var outputs []OutputMeta
	for i := range pkg.Types {
		td := &pkg.Types[i]
		vt, d := validate.Type(td)
		if d != nil {
			res.Bag.Add(*d)
			continue
		}
		if opts.CheckOnly {
			continue
		}

		opts.emit(Event{PkgPath: pkg.PkgPath, Stage: StageSynth})
		frag, err := synth.Fragment(vt, synth.Options{
			PackageName: pkg.Name,
			Header:      opts.Header,
		})
		if err != nil {
			res.Bag.Add(diag.NewError(diag.IOWriteFileError, td.Span,
				fmt.Sprintf("synthesize %s: %v", td.Name, err)))
			continue
		}

		path := filepath.Join(pkg.Dir, synth.FileName(td.Name, opts.Suffix))
		if !opts.DryRun {
			opts.emit(Event{PkgPath: pkg.PkgPath, Stage: StageWrite, Path: path})
			if err := os.WriteFile(path, frag, 0o644); err != nil {
				res.Bag.Add(diag.NewError(diag.IOWriteFileError, td.Span,
					fmt.Sprintf("write %s: %v", path, err)))
				continue
			}
		}
		res.Written = append(res.Written, path)
		outputs = append(outputs, OutputMeta{Path: path, Hash: sha256.Sum256(frag)})
	}

	// A cache hit replays no diagnostics, so warnings must force a re-run
	// too, not just errors.
	if cache != nil && !res.Bag.HasWarnings() && len(pkg.LoadErrors) == 0 {
		// Best effort: a failed Put only costs a regeneration next run.
		_ = cache.Put(key, &Payload{
			Schema:  cacheSchemaVersion,
			PkgPath: pkg.PkgPath,
			Outputs: outputs,
		})
	}

	opts.emit(Event{PkgPath: pkg.PkgPath, Stage: StageDone, Failed: res.Bag.HasErrors()})
	return res
}
