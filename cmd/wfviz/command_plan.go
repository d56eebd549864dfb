package main

import (
	"fmt"
	"time"

	"github.com/sourceplane/wfviz/internal/render"
	"github.com/spf13/cobra"
)

func registerPlanCommand(root *cobra.Command) {
	planCmd := &cobra.Command{
		Use:   "plan <workflow>",
		Short: "Show the leveled execution order of a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showPlan(cmd, args[0])
		},
	}
	root.AddCommand(planCmd)

	planCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Also write the report to a file (.json or .yaml)")
	planCmd.Flags().StringVarP(&viewMode, "view", "v", "levels", "Text view (levels/dependencies)")
}

func showPlan(cmd *cobra.Command, path string) error {
	s, err := loadSession(cmd, path)
	if err != nil {
		return err
	}

	progress(cmd, "□ Planning execution order...")
	report := s.Report(time.Now())

	if outputFile != "" {
		if err := render.NewRenderer().WriteReport(report, outputFile); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		progress(cmd, "✓ Saved to: %s", outputFile)
	}

	if cfg.Format != "text" {
		return printStructured(cmd, report)
	}

	v := viewer(s)
	switch viewMode {
	case "levels":
		fmt.Fprint(cmd.OutOrStdout(), v.ViewLevels())
	case "dependencies":
		fmt.Fprint(cmd.OutOrStdout(), v.ViewDependencies())
	default:
		return fmt.Errorf("unknown view %q (want levels or dependencies)", viewMode)
	}
	return nil
}
