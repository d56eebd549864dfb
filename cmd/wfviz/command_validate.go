package main

import (
	"fmt"

	"github.com/sourceplane/wfviz/internal/git"
	"github.com/sourceplane/wfviz/internal/schema"
	"github.com/spf13/cobra"
)

func registerValidateCommand(root *cobra.Command) {
	validateCmd := &cobra.Command{
		Use:   "validate [workflow...]",
		Short: "Validate workflow files",
		Long: "Check that a workflow has a name, triggers and at least one job. With --strict the workflow is also checked against the bundled JSON schema. " +
			"With --changed every workflow under --dir that differs from the --base branch is validated.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateWorkflows(cmd, args)
		},
	}
	root.AddCommand(validateCmd)

	validateCmd.Flags().Bool("strict", false, "Also lint the workflow against the JSON schema")
	validateCmd.Flags().BoolVar(&changedOnly, "changed", false, "Validate workflows changed relative to the base branch (requires git)")
	validateCmd.Flags().StringVar(&baseBranch, "base", "main", "Base branch for change detection")
	validateCmd.Flags().StringVar(&workflowDir, "dir", ".github/workflows", "Workflow directory for change detection")
}

func validateWorkflows(cmd *cobra.Command, args []string) error {
	paths := args
	if changedOnly {
		changed, err := git.NewChangeDetector(baseBranch, ".").ChangedWorkflows(cmd.Context(), workflowDir)
		if err != nil {
			return fmt.Errorf("failed to detect changed workflows: %w", err)
		}
		if len(changed) == 0 {
			progress(cmd, "✓ No workflows have changed")
			return nil
		}
		paths = append(paths, changed...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no workflow given (pass a file or use --changed)")
	}

	failed := 0
	for _, path := range paths {
		err := validateWorkflow(cmd, path)
		if err == nil {
			continue
		}
		if len(paths) == 1 {
			return err
		}
		failed++
		progress(cmd, "✗ %v", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d workflows failed validation", failed, len(paths))
	}
	return nil
}

func validateWorkflow(cmd *cobra.Command, path string) error {
	s, err := loadSession(cmd, path)
	if err != nil {
		return err
	}
	wf := s.Workflow()
	progress(cmd, "✓ Workflow %q is valid (%d jobs)", wf.Name, len(wf.Jobs))

	if missing := s.MissingDependencies(); len(missing) > 0 {
		for _, id := range wf.JobIDs() {
			for _, dep := range missing[id] {
				progress(cmd, "! job %s needs unknown job %s", id, dep)
			}
		}
	}
	if cycles := s.Cycles(); len(cycles) > 0 {
		progress(cmd, "! dependency cycle between: %v", cycles)
	}

	if !cfg.Strict {
		return nil
	}

	progress(cmd, "□ Linting against workflow schema...")
	linter, err := schema.NewLinter()
	if err != nil {
		return err
	}
	result, err := linter.Check(s.State().Document)
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	if cfg.Format != "text" {
		if err := printStructured(cmd, result); err != nil {
			return err
		}
	} else {
		for _, v := range result.Violations {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", v)
		}
	}
	if !result.Valid {
		return &schema.LintError{Violations: result.Violations}
	}

	progress(cmd, "✓ All validation passed")
	return nil
}
