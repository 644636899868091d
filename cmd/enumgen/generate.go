package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"enumgen/internal/driver"
	"enumgen/internal/synth"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] [patterns...]",
	Short: "Generate variant descriptors for marked types",
	Long:  `Generate scans the matched packages for //enumgen:derive interfaces and writes one <type>_variants.go file per valid type. Patterns follow go list syntax and default to ./...`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().String("dir", "", "working directory for pattern resolution")
	generateCmd.Flags().Int("jobs", 0, "max parallel package workers (0=auto)")
	generateCmd.Flags().Bool("cache", false, "skip packages whose inputs and outputs are unchanged since the last run")
	generateCmd.Flags().Bool("dry-run", false, "synthesize without writing files")
	generateCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
	generateCmd.Flags().String("suffix", "", "generated file suffix (default "+synth.DefaultSuffix+")")
	generateCmd.Flags().String("header", "", "extra comment line for generated files")
	generateCmd.Flags().String("format", "pretty", "diagnostic output format (pretty|short|json)")
	generateCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	generateCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("failed to get dir flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	suffix, err := cmd.Flags().GetString("suffix")
	if err != nil {
		return fmt.Errorf("failed to get suffix flag: %w", err)
	}
	header, err := cmd.Flags().GetString("header")
	if err != nil {
		return fmt.Errorf("failed to get header flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	patterns := args
	manifest, found, err := loadProjectManifest(dir)
	if err != nil {
		return err
	}
	if found {
		if suffix == "" {
			suffix = manifest.Config.Generate.Suffix
		}
		if header == "" {
			header = manifest.Config.Generate.Header
		}
		if len(patterns) == 0 {
			patterns = manifest.Config.Packages.Patterns
		}
		if dir == "" {
			dir = manifest.Root
		}
	}

	opts := driver.Options{
		Patterns:       patterns,
		Dir:            dir,
		Jobs:           jobs,
		DryRun:         dryRun,
		Cache:          useCache,
		Suffix:         suffix,
		Header:         header,
		MaxDiagnostics: maxDiagnostics,
	}

	useTUI := shouldUseTUI(mode) && format == "pretty" && !quiet
	var result *driver.Result
	if useTUI {
		result, err = runWithUI(cmd.Context(), "enumgen generate", opts)
	} else {
		result, err = driver.Run(cmd.Context(), opts)
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	renderOpts, err := readRenderOptions(cmd, format)
	if err != nil {
		return err
	}
	if _, err := renderDiagnostics(result, renderOpts); err != nil {
		return err
	}

	if !quiet && format == "pretty" {
		reportWritten(result, dryRun)
	}
	reportLoadErrors(result)

	if result.HasErrors() || hasLoadErrors(result) {
		return silentExit(cmd)
	}
	return nil
}

func reportWritten(result *driver.Result, dryRun bool) {
	verb := "wrote"
	if dryRun {
		verb = "would write"
	}
	for i := range result.Packages {
		pkg := &result.Packages[i]
		for _, path := range pkg.Written {
			if pkg.FromCache {
				fmt.Fprintf(os.Stdout, "up to date %s\n", path)
				continue
			}
			fmt.Fprintf(os.Stdout, "%s %s\n", verb, path)
		}
	}
}

func reportLoadErrors(result *driver.Result) {
	for i := range result.Packages {
		pkg := &result.Packages[i]
		for _, msg := range pkg.LoadErrors {
			fmt.Fprintf(os.Stderr, "%s: %s\n", pkg.PkgPath, msg)
		}
	}
}

func hasLoadErrors(result *driver.Result) bool {
	for i := range result.Packages {
		if len(result.Packages[i].LoadErrors) > 0 {
			return true
		}
	}
	return false
}
