package main

import (
	"github.com/sourceplane/wfviz/internal/config"
	"github.com/sourceplane/wfviz/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg *config.Config

	outputFile  string
	viewMode    string
	transitive  bool
	changedOnly bool
	baseBranch  string
	workflowDir string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wfviz",
		Short: "CI workflow visualizer: dependencies, execution levels and stats",
		Long: "wfviz reads CI workflow definitions (name, on, jobs with needs/if/steps) and shows " +
			"job dependencies, a leveled execution order and workflow statistics",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupConfig(cmd)
		},
	}

	defaults := config.Defaults()
	rootCmd.PersistentFlags().String("config", "", "Config file (default .wfviz.yaml in the working directory)")
	rootCmd.PersistentFlags().StringP("format", "f", defaults.Format, "Output format (text/json/yaml)")
	rootCmd.PersistentFlags().String("log-level", defaults.LogLevel, "Log level (debug/info/warn/error)")
	rootCmd.PersistentFlags().Bool("no-color", defaults.NoColor, "Disable colored output")
	rootCmd.PersistentFlags().Int("next-runs", defaults.NextRuns, "Upcoming runs listed per cron schedule")

	registerValidateCommand(rootCmd)
	registerPlanCommand(rootCmd)
	registerStatsCommand(rootCmd)
	registerJobCommand(rootCmd)
	registerGraphCommand(rootCmd)
	registerTriggersCommand(rootCmd)
	registerRunCommand(rootCmd)
	registerServeCommand(rootCmd)

	return rootCmd
}

func setupConfig(cmd *cobra.Command) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	_, err = logging.New(cfg.LogLevel)
	return err
}
