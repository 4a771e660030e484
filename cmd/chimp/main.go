package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"chimp/internal/version"
)

// newRootCmd builds the command tree. Commands keep their state in their own
// flag sets, so every call returns an independent tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chimp",
		Short: "Scope and symbol resolver for chimp syntax trees",
		Long: `chimp resolves the names of chimp programs: it reads syntax tree documents,
builds a symbol table per module and reports names that resolve nowhere.`,
		// Устанавливаем версию для автоматического флага --version
		Version:           version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return setupTracing(cmd) },
		PersistentPostRun: func(cmd *cobra.Command, _ []string) { closeTracer(cmd) },
	}

	// Добавляем команды
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per unit")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	return rootCmd
}

// main executes the root command and exits with status 1 when it fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag for output going to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(f) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, errInvalidFlag("color", colorFlag, "auto|on|off")
	}
}
