package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"chimp/internal/builtins"
	"chimp/internal/diag"
	"chimp/internal/driver"
	"chimp/internal/observ"
	"chimp/internal/project"
	"chimp/internal/source"
	"chimp/internal/symfmt"
)

// errUnitsFailed is returned after diagnostics have been printed; main only
// turns it into the exit status.
var errUnitsFailed = errors.New("resolution finished with errors")

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [flags] [file|directory...]",
		Short: "Build symbol tables for syntax tree documents",
		Long: `Resolve reads syntax tree documents (.json, .msgpack, .mp), builds the scope
tree of each module and classifies every name as declared, free or builtin.
Directories are searched recursively. Without arguments the project root
(the directory holding chimp.toml) or the current directory is used.`,
		RunE: runResolve,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto, overrides [resolve].jobs)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the resolution cache")
	cmd.Flags().StringArray("builtin", nil, "extra builtin name (repeatable)")
	cmd.Flags().Bool("validate", true, "check symbol table invariants after each build (overrides [resolve].validate)")
	cmd.Flags().String("ui", "off", "progress UI (auto|on|off)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("show-builtins", false, "list builtin references in scope listings")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	return cmd
}

type resolveFlags struct {
	format       string
	ui           uiMode
	withNotes    bool
	showBuiltins bool
	fullPath     bool
	quiet        bool
	timings      bool
}

// runResolve executes "resolve": it merges chimp.toml with flags, resolves
// every unit, prints the results and fails when any unit has errors.
func runResolve(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	flags, err := readResolveFlags(cmd)
	if err != nil {
		return err
	}
	manifest, found, err := project.Load(".")
	if err != nil {
		return err
	}
	cfg := project.DefaultConfig()
	if found {
		cfg = manifest.Config
	}
	opts, err := resolveOptions(cmd, cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"."}
		if found {
			args = []string{manifest.Root}
		}
	}
	files, err := driver.CollectUnits(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		if !flags.quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), "no syntax tree documents found")
		}
		return nil
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if cfg.Cache.Enabled && !noCache {
		dir, err := manifest.CacheDir()
		if err != nil {
			return err
		}
		cache, err := driver.OpenDiskCache(dir)
		if err != nil {
			return err
		}
		opts.Cache = cache
	}

	var timer *observ.Timer
	if flags.timings {
		timer = observ.NewTimer()
		opts.Timer = timer
	}

	var results []*driver.UnitResult
	if shouldUseTUI(flags.ui, flags.format) {
		results, err = runResolveWithUI(cmd.Context(), cmd.OutOrStdout(), "resolving", files, opts)
	} else {
		results, err = driver.ResolveUnits(cmd.Context(), files, opts)
	}
	if err != nil {
		return err
	}

	if err := printResults(cmd, results, flags); err != nil {
		return err
	}
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	for _, res := range results {
		if res.Failed() {
			// PersistentPostRun is not called on error
			closeTracer(cmd)
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return errUnitsFailed
		}
	}
	return nil
}

func readResolveFlags(cmd *cobra.Command) (resolveFlags, error) {
	var (
		out resolveFlags
		err error
	)
	if out.format, err = cmd.Flags().GetString("format"); err != nil {
		return out, fmt.Errorf("failed to get format flag: %w", err)
	}
	out.format = strings.ToLower(out.format)
	switch out.format {
	case "pretty", "json", "short":
	default:
		return out, errInvalidFlag("format", out.format, "pretty|json|short")
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return out, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if out.ui, err = readUIMode(uiValue); err != nil {
		return out, err
	}
	if out.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return out, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if out.showBuiltins, err = cmd.Flags().GetBool("show-builtins"); err != nil {
		return out, fmt.Errorf("failed to get show-builtins flag: %w", err)
	}
	if out.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return out, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if out.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return out, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if out.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return out, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return out, nil
}

// resolveOptions merges the manifest with the flags the user set.
func resolveOptions(cmd *cobra.Command, cfg project.Config) (driver.ResolveOptions, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.ResolveOptions{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs := cfg.Resolve.Jobs
	if cmd.Flags().Changed("jobs") {
		if jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return driver.ResolveOptions{}, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	validate := cfg.Resolve.Validate
	if cmd.Flags().Changed("validate") {
		if validate, err = cmd.Flags().GetBool("validate"); err != nil {
			return driver.ResolveOptions{}, fmt.Errorf("failed to get validate flag: %w", err)
		}
	}
	extra, err := cmd.Flags().GetStringArray("builtin")
	if err != nil {
		return driver.ResolveOptions{}, fmt.Errorf("failed to get builtin flag: %w", err)
	}
	names := append(append([]string(nil), cfg.Resolve.Builtins...), extra...)

	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return driver.ResolveOptions{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return driver.ResolveOptions{
		MaxDiagnostics: maxDiagnostics,
		Builtins:       builtins.New(names),
		Validate:       validate,
		EnableTimings:  timings,
		Jobs:           jobs,
	}, nil
}

func printResults(cmd *cobra.Command, results []*driver.UnitResult, flags resolveFlags) error {
	out := cmd.OutOrStdout()
	pathMode := symfmt.PathModeAuto
	if flags.fullPath {
		pathMode = symfmt.PathModeAbsolute
	}
	for _, res := range results {
		res.Bag.Sort()
	}

	switch flags.format {
	case "json":
		units := make([]symfmt.Unit, 0, len(results))
		for _, res := range results {
			units = append(units, symfmt.Unit{
				Path:     res.Path,
				Bag:      res.Bag,
				FileSet:  res.FileSet,
				Snapshot: res.Snapshot,
				Cached:   res.Cached,
			})
		}
		return symfmt.JSON(out, units, symfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     flags.withNotes,
		})
	case "short":
		for _, res := range results {
			if s := diag.FormatShort(res.Bag.Items(), res.FileSet, flags.withNotes); s != "" {
				fmt.Fprint(out, s)
			}
		}
		return nil
	}

	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	opts := symfmt.PrettyOpts{
		Color:        color,
		PathMode:     pathMode,
		ShowNotes:    flags.withNotes,
		ShowBuiltins: flags.showBuiltins,
	}
	for _, res := range results {
		printPrettyUnit(out, res, opts, flags.quiet)
	}
	return nil
}

func printPrettyUnit(out io.Writer, res *driver.UnitResult, opts symfmt.PrettyOpts, quiet bool) {
	symfmt.Pretty(out, res.Bag, res.FileSet, opts)
	if res.Snapshot == nil || quiet {
		return
	}
	symfmt.Scopes(out, res.Snapshot, opts)
	summary := symfmt.Summary(res.Snapshot)
	if res.Cached {
		summary += " (cached)"
	}
	fmt.Fprintln(out, summary)
}

// formatPathForOutput prints path relative to base when it is inside it.
func formatPathForOutput(base, path string) string {
	f := source.File{Path: path}
	return f.RelPath(base)
}
