package git

import (
	"context"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// gitFunc runs a git subcommand and returns its stdout
type gitFunc func(ctx context.Context, args ...string) ([]byte, error)

// ChangeDetector detects files that have changed in git
type ChangeDetector struct {
	baseBranch string // branch to compare against (e.g., "main", "develop")
	git        gitFunc
	logger     *zap.Logger
}

// NewChangeDetector creates a change detector running git in workDir
func NewChangeDetector(baseBranch, workDir string) *ChangeDetector {
	return &ChangeDetector{
		baseBranch: baseBranch,
		git: func(ctx context.Context, args ...string) ([]byte, error) {
			cmd := exec.CommandContext(ctx, "git", args...)
			cmd.Dir = workDir
			return cmd.Output()
		},
		logger: zap.L().Named("git"),
	}
}

// ChangedFiles returns the files that differ from the base branch, plus
// staged and unstaged changes, sorted
func (cd *ChangeDetector) ChangedFiles(ctx context.Context) ([]string, error) {
	files := make(map[string]bool)
	collect := func(output []byte) {
		for _, f := range strings.Split(strings.TrimSpace(string(output)), "\n") {
			if f != "" {
				files[f] = true
			}
		}
	}

	for _, args := range [][]string{
		{"diff", "--name-only"},
		{"diff", "--cached", "--name-only"},
	} {
		if output, err := cd.git(ctx, args...); err == nil {
			collect(output)
		}
	}

	compareRef := cd.baseBranch
	if compareRef == "" {
		compareRef = "main"
	}

	// In CI the base branch often only exists as origin/<branch>.
	output, err := cd.git(ctx, "diff", "--name-only", compareRef)
	if err != nil {
		output, err = cd.git(ctx, "diff", "--name-only", "origin/"+compareRef)
	}
	if err != nil {
		// Detached HEAD: diff against the merge base
		base, mergeErr := cd.git(ctx, "merge-base", "HEAD", "origin/"+compareRef)
		if mergeErr != nil {
			cd.logger.Debug("no base to compare against", zap.String("base", compareRef), zap.Error(err))
			return nil, err
		}
		output, err = cd.git(ctx, "diff", "--name-only", strings.TrimSpace(string(base)))
		if err != nil {
			return nil, err
		}
	}
	collect(output)

	result := make([]string, 0, len(files))
	for f := range files {
		result = append(result, f)
	}
	sort.Strings(result)
	return result, nil
}

// ChangedWorkflows returns the changed .yml/.yaml files under dir
func (cd *ChangeDetector) ChangedWorkflows(ctx context.Context, dir string) ([]string, error) {
	files, err := cd.ChangedFiles(ctx)
	if err != nil {
		return nil, err
	}

	dir = strings.TrimSuffix(filepath.ToSlash(dir), "/")
	workflows := make([]string, 0)
	for _, file := range files {
		if dir != "" && dir != "." && !strings.HasPrefix(file, dir+"/") {
			continue
		}
		switch filepath.Ext(file) {
		case ".yml", ".yaml":
			workflows = append(workflows, file)
		}
	}
	return workflows, nil
}
