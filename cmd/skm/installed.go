package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skm-dev/skm/pkg/config"
	"github.com/skm-dev/skm/pkg/discover"
	"github.com/skm-dev/skm/pkg/presenter"
	"github.com/skm-dev/skm/pkg/target"
)

var installedCmd = &cobra.Command{
	Use:   "installed",
	Short: "Show skills installed in a target directory",
	Long: `Walk the per-tool destination directories under a target directory and
show the installed content, grouped by tool with inferred bundle names.

Bundle names for OpenCode and Cursor entries are reconstructed from the
{bundle}-{name} convention and are best-effort when names contain hyphens.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, err := resolveRoot(cmd.Flags())
		if err != nil {
			return err
		}

		// Known bundle names sharpen compound-name splitting; a failing
		// source should not keep us from showing local state.
		var known []string
		if cfg, err := config.LoadOrDefault(); err == nil {
			if names, err := cfg.Registry().BundleNames(cmd.Context()); err == nil {
				known = names
			}
		}

		entries, err := discover.New(discover.WithKnownBundles(known...)).Discover(root)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			presenter.Info("No installed skills found.")
			return nil
		}

		for _, tool := range target.Tools {
			var toolEntries []discover.Entry
			for _, entry := range entries {
				if entry.Tool == tool {
					toolEntries = append(toolEntries, entry)
				}
			}
			if len(toolEntries) == 0 {
				continue
			}

			presenter.Section(tool.Name())
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "BUNDLE\tNAME\tTYPE\tPATH")
			for _, entry := range toolEntries {
				bundleName := entry.Bundle
				if bundleName == "" {
					bundleName = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", bundleName, entry.Name, entry.Type, entry.Path)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			presenter.Info("")
		}
		return nil
	},
}

func init() {
	installedCmd.Flags().BoolP("global", "g", false, "Inspect the user home directory instead of the current directory")
	installedCmd.Flags().String("target", "", "Target directory (default: current directory)")
}
