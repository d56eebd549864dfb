package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func registerJobCommand(root *cobra.Command) {
	jobCmd := &cobra.Command{
		Use:   "job <workflow> <job-id>",
		Short: "Show one job with its dependencies, dependents and steps",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showJob(cmd, args[0], args[1])
		},
	}
	root.AddCommand(jobCmd)

	jobCmd.Flags().BoolVarP(&transitive, "transitive", "t", false, "Include indirect dependencies and dependents")
}

func showJob(cmd *cobra.Command, path, id string) error {
	s, err := loadSession(cmd, path)
	if err != nil {
		return err
	}

	job, found := s.JobByID(id)
	if !found {
		return fmt.Errorf("job not found: %s", id)
	}

	dependencies, dependents := s.JobDependencies(id), s.JobsThatDependOn(id)
	if transitive {
		dependencies, dependents = s.TransitiveDependencies(id), s.TransitiveDependents(id)
	}

	if cfg.Format != "text" {
		return printStructured(cmd, map[string]interface{}{
			"job":          job,
			"dependencies": dependencies,
			"dependents":   dependents,
		})
	}

	fmt.Fprint(cmd.OutOrStdout(), viewer(s).ViewJob(id))
	if transitive {
		fmt.Fprintf(cmd.OutOrStdout(), "\nAll dependencies: %v\nAll dependents:   %v\n", dependencies, dependents)
	}
	return nil
}
