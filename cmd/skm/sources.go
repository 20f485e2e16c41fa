package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skm-dev/skm/pkg/config"
	"github.com/skm-dev/skm/pkg/presenter"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage configured bundle sources",
	Long: `Manage the ordered list of bundle sources. Order is priority: when two
sources provide a bundle with the same name, the earlier source wins.

Without a subcommand the configured sources are listed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSourcesList()
	},
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add <path-or-url>",
	Short: "Add a source directory or git repository",
	Long: `Add a source. Arguments starting with https://, git@, or ending in .git
are treated as git repositories; everything else is a local directory.

Examples:
  skm sources add ~/my-skills
  skm sources add https://github.com/acme/skills.git --name acme`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrDefault()
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		entry := config.SourceConfig{Type: "local", Path: args[0], Name: name}
		if looksLikeGitURL(args[0]) {
			entry = config.SourceConfig{Type: "git", URL: args[0], Name: name}
		}

		if !cfg.AddSource(entry) {
			presenter.Warning(fmt.Sprintf("Source %s is already configured.", entry.Display()))
			return nil
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		presenter.Success(fmt.Sprintf("Added %s source %s.", entry.Type, entry.Display()))
		if entry.Type == "git" {
			presenter.Info("Run 'skm update' to fetch it.")
		}
		return nil
	},
}

var sourcesRmCmd = &cobra.Command{
	Use:     "rm <path-or-url-or-name>",
	Aliases: []string{"remove"},
	Short:   "Remove a configured source",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrDefault()
		if err != nil {
			return err
		}
		if !cfg.RemoveSource(args[0]) {
			return errors.Errorf("no configured source matches %q", args[0])
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		presenter.Success(fmt.Sprintf("Removed source %s.", args[0]))
		return nil
	},
}

var sourcesMoveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Reorder a source (positions are 1-based)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.Errorf("invalid position %q", args[0])
		}
		to, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Errorf("invalid position %q", args[1])
		}

		cfg, err := config.LoadOrDefault()
		if err != nil {
			return err
		}
		if err := cfg.MoveSource(from-1, to-1); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		presenter.Success(fmt.Sprintf("Moved source %d to position %d.", from, to))
		return runSourcesList()
	},
}

func runSourcesList() error {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}
	if len(cfg.Sources) == 0 {
		presenter.Info("No sources configured. Add one with 'skm sources add <path-or-url>'.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTYPE\tNAME\tLOCATION")
	for i, src := range cfg.Sources {
		name := src.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, src.Type, name, src.Display())
	}
	return tw.Flush()
}

func looksLikeGitURL(arg string) bool {
	return strings.HasPrefix(arg, "https://") ||
		strings.HasPrefix(arg, "http://") ||
		strings.HasPrefix(arg, "git@") ||
		strings.HasPrefix(arg, "ssh://") ||
		strings.HasSuffix(arg, ".git")
}

func init() {
	sourcesAddCmd.Flags().String("name", "", "Label for referring to the source")
	sourcesCmd.AddCommand(sourcesAddCmd, sourcesRmCmd, sourcesMoveCmd)
}
