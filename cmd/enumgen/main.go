package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"enumgen/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "enumgen",
	Short: "Variant descriptor generator for Go sum types",
	Long:  `enumgen derives a compile-time variant count and an ordered variant list for interface-based sum types marked with //enumgen:derive`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
