package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skm-dev/skm/pkg/bundle"
	"github.com/skm-dev/skm/pkg/config"
	"github.com/skm-dev/skm/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bundles available from the configured sources",
	Long: `List every bundle the configured sources provide, in priority order.
When two sources provide the same bundle name, the earlier source wins.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadOrDefault()
		if err != nil {
			return err
		}

		listings, err := cfg.Registry().ListBySource(cmd.Context())
		if err != nil {
			return err
		}

		total := 0
		for _, listing := range listings {
			total += len(listing.Bundles)
		}
		if total == 0 {
			presenter.Info("No bundles found. Add sources with 'skm sources add <path-or-url>'.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "BUNDLE\tSOURCE\tCONTENT\tDESCRIPTION")
		for _, listing := range listings {
			for _, b := range listing.Bundles {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					b.Name, listing.Source.DisplayPath(), contentSummary(&b), b.Meta.Description)
			}
		}
		return tw.Flush()
	},
}

// contentSummary renders a compact per-type count, e.g. "2 skills, 1 command".
func contentSummary(b *bundle.Bundle) string {
	var parts []string
	for _, t := range bundle.ContentTypes {
		n := len(b.FilesOfType(t))
		switch {
		case n == 1:
			parts = append(parts, fmt.Sprintf("1 %s", t))
		case n > 1:
			parts = append(parts, fmt.Sprintf("%d %ss", n, t))
		}
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, ", ")
}
