package main

import (
	"fmt"
	"time"

	"github.com/sourceplane/wfviz/internal/trigger"
	"github.com/spf13/cobra"
)

func registerTriggersCommand(root *cobra.Command) {
	triggersCmd := &cobra.Command{
		Use:   "triggers <workflow>",
		Short: "Describe the events that start a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showTriggers(cmd, args[0])
		},
	}
	root.AddCommand(triggersCmd)
}

func showTriggers(cmd *cobra.Command, path string) error {
	s, err := loadSession(cmd, path)
	if err != nil {
		return err
	}

	descriptions := trigger.NewDescriber(cfg.NextRuns).Describe(s.Workflow(), time.Now())
	if cfg.Format != "text" {
		return printStructured(cmd, descriptions)
	}
	fmt.Fprint(cmd.OutOrStdout(), viewer(s).ViewTriggers(descriptions))
	return nil
}
