package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"enumgen/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [patterns...]",
	Short: "Validate marked types without writing files",
	Long:  `Check runs the same validation as generate but never writes anything. It exits non-zero when any marked type is invalid, which makes it suitable for CI`,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("dir", "", "working directory for pattern resolution")
	checkCmd.Flags().Int("jobs", 0, "max parallel package workers (0=auto)")
	checkCmd.Flags().String("format", "pretty", "diagnostic output format (pretty|short|json)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("failed to get dir flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
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

	patterns := args
	manifest, found, err := loadProjectManifest(dir)
	if err != nil {
		return err
	}
	if found {
		if len(patterns) == 0 {
			patterns = manifest.Config.Packages.Patterns
		}
		if dir == "" {
			dir = manifest.Root
		}
	}

	result, err := driver.Run(cmd.Context(), driver.Options{
		Patterns:       patterns,
		Dir:            dir,
		Jobs:           jobs,
		CheckOnly:      true,
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	renderOpts, err := readRenderOptions(cmd, format)
	if err != nil {
		return err
	}
	printed, err := renderDiagnostics(result, renderOpts)
	if err != nil {
		return err
	}
	reportLoadErrors(result)

	if result.HasErrors() || hasLoadErrors(result) {
		return silentExit(cmd)
	}
	if !printed && !quiet && format == "pretty" {
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
	}
	return nil
}
