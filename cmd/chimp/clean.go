package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chimp/internal/driver"
	"chimp/internal/project"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove cached resolution results",
		Long:  "Remove every entry of the resolution cache used by the current project (or the user cache when no chimp.toml is found).",
		Args:  cobra.NoArgs,
		RunE:  runClean,
	}
}

func runClean(cmd *cobra.Command, _ []string) error {
	manifest, _, err := project.Load(".")
	if err != nil {
		return err
	}
	dir, err := manifest.CacheDir()
	if err != nil {
		return err
	}
	cache, err := driver.OpenDiskCache(dir)
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clean %q: %w", dir, err)
	}
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "removed cache entries in %s\n", dir)
	}
	return nil
}
