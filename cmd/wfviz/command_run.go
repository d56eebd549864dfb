package main

import (
	"github.com/sourceplane/wfviz/internal/runner"
	"github.com/spf13/cobra"
)

var (
	runExecute bool
	runWorkDir string
)

func registerRunCommand(root *cobra.Command) {
	runCmd := &cobra.Command{
		Use:   "run <workflow>",
		Short: "Walk a workflow's execution order locally",
		Long:  "Walk the jobs of a workflow level by level. By default nothing is executed; with --execute the `run` steps are run with sh -c and `uses` steps are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, args[0])
		},
	}
	root.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExecute, "execute", "x", false, "Actually execute commands (default is dry-run)")
	runCmd.Flags().StringVar(&runWorkDir, "workdir", ".", "Working directory for executed steps")
}

func runWorkflow(cmd *cobra.Command, path string) error {
	s, err := loadSession(cmd, path)
	if err != nil {
		return err
	}

	dryRun := !runExecute
	if dryRun {
		progress(cmd, "□ Dry-run mode enabled. Use --execute to run commands.")
	}

	r := runner.NewRunner(runWorkDir, cmd.OutOrStdout(), cmd.ErrOrStderr(), dryRun)
	if err := r.Run(cmd.Context(), s.Workflow(), s.ExecutionOrder()); err != nil {
		return err
	}

	if dryRun {
		progress(cmd, "✓ Dry-run complete")
	} else {
		progress(cmd, "✓ Run complete")
	}
	return nil
}
