package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func registerStatsCommand(root *cobra.Command) {
	statsCmd := &cobra.Command{
		Use:   "stats <workflow>",
		Short: "Show workflow statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStats(cmd, args[0])
		},
	}
	root.AddCommand(statsCmd)
}

func showStats(cmd *cobra.Command, path string) error {
	s, err := loadSession(cmd, path)
	if err != nil {
		return err
	}

	if cfg.Format != "text" {
		return printStructured(cmd, s.Stats())
	}
	fmt.Fprint(cmd.OutOrStdout(), viewer(s).ViewStats())
	return nil
}
