package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skm-dev/skm/pkg/config"
	"github.com/skm-dev/skm/pkg/discover"
	"github.com/skm-dev/skm/pkg/manifest"
	"github.com/skm-dev/skm/pkg/presenter"
	"github.com/skm-dev/skm/pkg/target"
)

var rmCmd = &cobra.Command{
	Use:     "rm <bundle>",
	Aliases: []string{"remove", "uninstall"},
	Short:   "Remove an installed bundle from a target directory",
	Long: `Remove every file attributed to a bundle from the per-tool destination
directories under a target directory. Without a tool flag the bundle is
removed from all tools at once. Directories the install created are
pruned when they become empty.

Examples:
  skm rm my-bundle                # Remove from every tool in the current directory
  skm rm my-bundle --opencode     # Remove only the OpenCode copy
  skm rm my-bundle --commands -g  # Remove only commands, under the home directory`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundleName := args[0]
		flags := cmd.Flags()

		root, err := resolveRoot(flags)
		if err != nil {
			return err
		}
		types := resolveTypes(flags)

		// Unlike install, an absent tool flag means every tool.
		var tool *target.Tool
		if name, _ := flags.GetString("tool"); name != "" {
			t, err := target.Parse(name)
			if err != nil {
				return err
			}
			tool = &t
		} else if opencode, _ := flags.GetBool("opencode"); opencode {
			t := target.OpenCode
			tool = &t
		} else if cursor, _ := flags.GetBool("cursor"); cursor {
			t := target.Cursor
			tool = &t
		} else if claude, _ := flags.GetBool("claude"); claude {
			t := target.Claude
			tool = &t
		}

		var known []string
		if cfg, err := config.LoadOrDefault(); err == nil {
			if names, err := cfg.Registry().BundleNames(cmd.Context()); err == nil {
				known = names
			}
		}

		d := discover.New(discover.WithKnownBundles(known...))
		report, err := d.Remove(cmd.Context(), root, bundleName, tool, types)
		if err != nil {
			return err
		}

		if report.FoundNothing() {
			presenter.Info(fmt.Sprintf("Nothing installed for %q; nothing to remove.", bundleName))
			return nil
		}

		for _, entry := range report.Removed {
			presenter.Info(fmt.Sprintf("  removed %s", entry.Path))
		}
		for _, entry := range report.Failed {
			presenter.Warning(fmt.Sprintf("  failed to remove %s", entry.Path))
		}

		// A full removal also drops the bundle's install manifest entry.
		if len(types) == 0 {
			removeManifestEntries(cmd, root, bundleName, tool)
		}

		if len(report.Failed) > 0 {
			return errors.Errorf("failed to remove %d file(s)", len(report.Failed))
		}
		presenter.Success(fmt.Sprintf("Removed %s (%d file(s)).", bundleName, len(report.Removed)))
		return nil
	},
}

func removeManifestEntries(cmd *cobra.Command, root, bundleName string, tool *target.Tool) {
	tools := target.Tools
	if tool != nil {
		tools = []target.Tool{*tool}
	}
	for _, t := range tools {
		m := manifest.Load(cmd.Context(), t, root)
		if !m.RemoveBundle(bundleName) {
			continue
		}
		if err := m.Save(t, root); err != nil {
			presenter.Warning(fmt.Sprintf("Could not update install manifest for %s: %v", t.Name(), err))
		}
	}
}

func init() {
	flags := rmCmd.Flags()
	flags.Bool("claude", false, "Only remove the Claude copy")
	flags.Bool("opencode", false, "Only remove the OpenCode copy")
	flags.Bool("cursor", false, "Only remove the Cursor copy")
	flags.String("tool", "", "Only remove from this tool (claude, opencode, cursor)")
	flags.BoolP("global", "g", false, "Remove from the user home directory instead of the current directory")
	flags.String("target", "", "Target directory (default: current directory)")
	flags.Bool("skills", false, "Only remove skills")
	flags.Bool("agents", false, "Only remove agents")
	flags.Bool("commands", false, "Only remove commands")
	flags.Bool("rules", false, "Only remove rules")
}
