package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/sourceplane/wfviz/internal/model"
	"go.uber.org/zap"
)

// ErrUnresolved is returned when asked to execute jobs whose dependencies
// could not be ordered
var ErrUnresolved = errors.New("workflow has jobs with unresolved dependencies")

// Runner walks a workflow's execution order level by level.
// Jobs in a level are run one after another; `if` expressions are shown but
// not evaluated.
type Runner struct {
	WorkDir string
	Stdout  io.Writer
	Stderr  io.Writer
	DryRun  bool

	logger *zap.Logger
}

func NewRunner(workDir string, stdout, stderr io.Writer, dryRun bool) *Runner {
	return &Runner{
		WorkDir: workDir,
		Stdout:  stdout,
		Stderr:  stderr,
		DryRun:  dryRun,
		logger:  zap.L().Named("runner"),
	}
}

func (r *Runner) Run(ctx context.Context, wf *model.Workflow, order model.ExecutionOrder) error {
	if wf == nil {
		return fmt.Errorf("workflow cannot be nil")
	}
	if len(order.Unordered) > 0 && !r.DryRun {
		return fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(order.Unordered, ", "))
	}

	for i, level := range order.Levels {
		fmt.Fprintf(r.Stdout, "▶ Level %d\n", i+1)
		for _, id := range level {
			job, ok := wf.Job(id)
			if !ok {
				continue
			}
			if err := r.runJob(ctx, wf, job); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *Runner) runJob(ctx context.Context, wf *model.Workflow, job *model.Job) error {
	header := fmt.Sprintf("→ Job %s", job.ID)
	if job.RunsOn != "" {
		header += fmt.Sprintf(" (%s)", job.RunsOn)
	}
	fmt.Fprintln(r.Stdout, header)
	if job.If != "" {
		fmt.Fprintf(r.Stdout, "  if: %s\n", job.If)
	}
	if job.Uses != "" {
		fmt.Fprintf(r.Stdout, "  ↷ reusable workflow %s (skipped)\n", job.Uses)
		return nil
	}

	for _, step := range job.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := step.DisplayName()
		fmt.Fprintf(r.Stdout, "  - Step %s\n", firstLine(name))

		if step.Run == "" {
			if step.Uses != "" {
				fmt.Fprintf(r.Stdout, "    ↷ action %s (skipped)\n", step.Uses)
			}
			continue
		}
		if r.DryRun {
			for _, line := range strings.Split(strings.TrimRight(step.Run, "\n"), "\n") {
				fmt.Fprintf(r.Stdout, "    %s\n", line)
			}
			continue
		}

		r.logger.Debug("executing step", zap.String("job", job.ID), zap.String("step", name))
		cmd := exec.CommandContext(ctx, "sh", "-c", step.Run)
		cmd.Dir = r.WorkDir
		cmd.Env = mergeEnv(os.Environ(), wf.Env, job.Env, step.Env)
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("job %s step %s failed: %w", job.ID, firstLine(name), err)
		}
	}

	return nil
}

// mergeEnv appends the variables of each scope in order; later scopes win.
// Keys are sorted so the environment is deterministic.
func mergeEnv(base []string, scopes ...map[string]string) []string {
	env := append([]string{}, base...)
	for _, scope := range scopes {
		keys := make([]string, 0, len(scope))
		for key := range scope {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			env = append(env, key+"="+scope[key])
		}
	}
	return env
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
