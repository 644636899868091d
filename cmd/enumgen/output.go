package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"enumgen/internal/diag"
	"enumgen/internal/diagfmt"
	"enumgen/internal/driver"
)

// renderOptions bundles the presentation knobs shared by generate and check.
type renderOptions struct {
	format    string
	withNotes bool
	pathMode  diagfmt.PathMode
	useColor  bool
}

func readRenderOptions(cmd *cobra.Command, format string) (renderOptions, error) {
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return renderOptions{}, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return renderOptions{}, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return renderOptions{}, fmt.Errorf("failed to get color flag: %w", err)
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	return renderOptions{
		format:    format,
		withNotes: withNotes,
		pathMode:  pathMode,
		useColor:  colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout)),
	}, nil
}

// renderDiagnostics prints every diagnostic in the run result and reports
// whether anything was printed.
func renderDiagnostics(result *driver.Result, opts renderOptions) (bool, error) {
	merged := diag.NewBag(1)
	for i := range result.Packages {
		merged.Merge(result.Packages[i].Bag)
	}
	merged.Sort()
	if merged.Len() == 0 {
		return false, nil
	}

	switch opts.format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, merged, result.FileSet, diagfmt.PrettyOpts{
			Color:     opts.useColor,
			Context:   2,
			PathMode:  opts.pathMode,
			ShowNotes: opts.withNotes,
		})
	case "short":
		output := diag.FormatShort(merged.Items(), result.FileSet, opts.withNotes)
		if output != "" {
			fmt.Fprintln(os.Stdout, output)
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, merged, result.FileSet, diagfmt.JSONOpts{
			PathMode:     opts.pathMode,
			IncludeNotes: opts.withNotes,
		}); err != nil {
			return true, fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return false, fmt.Errorf("unknown format: %s", opts.format)
	}
	return true, nil
}

// silentExit suppresses cobra usage output when diagnostics were already
// printed and the command must still fail.
func silentExit(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return fmt.Errorf("")
}
