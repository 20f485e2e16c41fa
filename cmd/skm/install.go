package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/skm-dev/skm/pkg/bundle"
	"github.com/skm-dev/skm/pkg/config"
	"github.com/skm-dev/skm/pkg/install"
	"github.com/skm-dev/skm/pkg/manifest"
	"github.com/skm-dev/skm/pkg/presenter"
	"github.com/skm-dev/skm/pkg/source"
	"github.com/skm-dev/skm/pkg/target"
)

var installCmd = &cobra.Command{
	Use:   "install <bundle>",
	Short: "Install a bundle to a tool's directory layout",
	Long: `Install a bundle from the configured sources into a tool's directory
conventions. Sources are searched in priority order; the first bundle
matching the name wins.

Examples:
  skm install my-bundle                 # Install to Claude in the current directory
  skm install my-bundle --opencode      # Install to OpenCode
  skm install my-bundle --cursor -g     # Install to Cursor under the home directory
  skm install my-bundle --commands      # Only install commands
  skm install my-bundle --source work   # Only search the source labeled 'work'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(cmd, args[0])
	},
}

func init() {
	addInstallFlags(installCmd)
}

// addInstallFlags registers the install flag set. The root command carries
// the same flags so 'skm <bundle>' behaves like 'skm install <bundle>'.
func addInstallFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Bool("opencode", false, "Install to OpenCode instead of the default tool")
	flags.Bool("cursor", false, "Install to Cursor instead of the default tool")
	flags.String("tool", "", "Target tool (claude, opencode, cursor)")
	flags.BoolP("global", "g", false, "Install under the user home directory instead of the current directory")
	flags.String("target", "", "Target directory (default: current directory)")
	flags.String("source", "", "Only search the source with this label")
	flags.Bool("skills", false, "Only install skills")
	flags.Bool("agents", false, "Only install agents")
	flags.Bool("commands", false, "Only install commands")
	flags.Bool("rules", false, "Only install rules")
}

// resolveTool picks the target tool from flags, falling back to the
// configured default.
func resolveTool(flags *pflag.FlagSet, cfg *config.Config) (target.Tool, error) {
	if name, _ := flags.GetString("tool"); name != "" {
		return target.Parse(name)
	}
	if opencode, _ := flags.GetBool("opencode"); opencode {
		return target.OpenCode, nil
	}
	if cursor, _ := flags.GetBool("cursor"); cursor {
		return target.Cursor, nil
	}
	if cfg.DefaultTool != "" {
		return target.Parse(cfg.DefaultTool)
	}
	return target.Claude, nil
}

// resolveTypes collects the content type filter from flags. Empty means
// all types.
func resolveTypes(flags *pflag.FlagSet) []bundle.ContentType {
	var types []bundle.ContentType
	for _, t := range bundle.ContentTypes {
		if enabled, _ := flags.GetBool(t.DirName()); enabled {
			types = append(types, t)
		}
	}
	return types
}

// resolveRoot picks the install root: --target wins, then --global, then
// the current directory.
func resolveRoot(flags *pflag.FlagSet) (string, error) {
	if dir, _ := flags.GetString("target"); dir != "" {
		return dir, nil
	}
	if global, _ := flags.GetBool("global"); global {
		return target.GlobalRoot()
	}
	return ".", nil
}

func runInstall(cmd *cobra.Command, bundleName string) error {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}

	tool, err := resolveTool(cmd.Flags(), cfg)
	if err != nil {
		return err
	}
	root, err := resolveRoot(cmd.Flags())
	if err != nil {
		return err
	}
	types := resolveTypes(cmd.Flags())

	registry := cfg.Registry()
	ctx := cmd.Context()

	var b *bundle.Bundle
	var src source.Source
	if label, _ := cmd.Flags().GetString("source"); label != "" {
		src = registry.FindSource(label)
		if src == nil {
			return errors.Errorf("no source labeled %q is configured", label)
		}
		bundles, _, err := src.ListBundles(ctx)
		if err != nil {
			return err
		}
		for i := range bundles {
			if bundles[i].Name == bundleName {
				b = &bundles[i]
				break
			}
		}
		if b == nil {
			return errors.Errorf("bundle %q not found in source %s", bundleName, src.DisplayPath())
		}
	} else {
		b, src, err = registry.FindBundle(ctx, bundleName)
		if err != nil {
			return err
		}
	}

	presenter.Info(fmt.Sprintf("Installing %s to %s...", b.Name, tool.Name()))

	engine := install.NewEngine(tool, install.WithRoot(root))
	report := engine.Install(ctx, b, types)

	written, overwritten, failed := report.Counts()
	for _, f := range report.Files {
		switch f.Status {
		case install.Failed:
			presenter.Error(f.Err, f.Path)
		default:
			presenter.Info(fmt.Sprintf("  %s: %s (%s)", f.Type, f.Path, f.Status))
		}
	}

	if written+overwritten > 0 {
		m := manifest.Load(ctx, tool, root)
		m.RecordInstall(b.Name, src.DisplayPath())
		if err := m.Save(tool, root); err != nil {
			presenter.Warning(fmt.Sprintf("Could not update install manifest: %v", err))
		}
	}

	switch {
	case failed > 0:
		return errors.Errorf("%d of %d files failed to install", failed, len(report.Files))
	case written+overwritten == 0:
		presenter.Warning("No files to install.")
	default:
		presenter.Success(fmt.Sprintf("Installed %d file(s).", written+overwritten))
	}
	return nil
}
