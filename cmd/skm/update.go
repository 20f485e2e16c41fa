package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skm-dev/skm/pkg/config"
	"github.com/skm-dev/skm/pkg/presenter"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Clone or pull every configured git source",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadOrDefault()
		if err != nil {
			return err
		}

		gitSources := cfg.GitSources()
		if len(gitSources) == 0 {
			presenter.Info("No git sources configured.")
			return nil
		}

		ctx := cmd.Context()
		failures := 0
		for _, src := range gitSources {
			changed, err := src.Update(ctx)
			if err != nil {
				presenter.Error(err, fmt.Sprintf("Failed to update %s", src.URL()))
				failures++
				continue
			}
			if changed {
				presenter.Success(fmt.Sprintf("Updated %s.", src.URL()))
			} else {
				presenter.Info(fmt.Sprintf("%s is already up to date.", src.URL()))
			}
		}

		if failures > 0 {
			return errors.Errorf("%d of %d git sources failed to update", failures, len(gitSources))
		}
		return nil
	},
}
