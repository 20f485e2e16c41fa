package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skm-dev/skm/pkg/logger"
	"github.com/skm-dev/skm/pkg/presenter"
)

func init() {
	viper.SetEnvPrefix("SKM")
	viper.AutomaticEnv()
}

var rootCmd = &cobra.Command{
	Use:   "skm [bundle]",
	Short: "Skill bundle manager for AI coding assistants",
	Long: `skm manages reusable skill bundles (markdown instruction files) and
installs them into the directory conventions of Claude, OpenCode, and Cursor.

Running skm with a bundle name is shorthand for 'skm install <bundle>'.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if level := viper.GetString("log_level"); level != "" {
			if err := logger.SetLogLevel(level); err != nil {
				return err
			}
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runInstall(cmd, args[0])
	},
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text or json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	addInstallFlags(rootCmd)

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(installedCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
