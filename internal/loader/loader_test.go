package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sourceplane/wfviz/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWorkflow = `
name: CI
on:
  push:
    branches: [main]
  schedule: null
env:
  GO_VERSION: "1.22"
jobs:
  lint:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - run: make lint
  build:
    name: Build
    runs-on: [self-hosted, linux]
    needs: lint
    if: github.ref == 'refs/heads/main'
    timeout-minutes: 30
    strategy:
      fail-fast: false
      max-parallel: 2
      matrix:
        go: ["1.21", "1.22"]
    steps:
      - name: Setup
        uses: actions/setup-go@v5
        with:
          go-version: ${{ matrix.go }}
      - name: Build
        run: go build ./...
        env:
          CGO_ENABLED: "0"
  deploy:
    needs: [build, lint]
    steps: []
`

func TestLoad(t *testing.T) {
	wf, doc, err := Load(sampleWorkflow)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "CI", wf.Name)
	assert.Equal(t, map[string]string{"GO_VERSION": "1.22"}, wf.Env)
	assert.Equal(t, []string{"lint", "build", "deploy"}, wf.JobIDs())

	require.Len(t, wf.Triggers, 2)
	assert.Equal(t, "push", wf.Triggers[0].Name)
	assert.True(t, wf.Triggers[1].Null)

	lint, ok := wf.Job("lint")
	require.True(t, ok)
	assert.Nil(t, lint.Needs)
	assert.Equal(t, "ubuntu-latest", lint.RunsOn)
	assert.Len(t, lint.Steps, 2)
	assert.False(t, lint.HasMatrix())

	build, ok := wf.Job("build")
	require.True(t, ok)
	assert.Equal(t, "Build", build.Name)
	assert.Equal(t, "self-hosted, linux", build.RunsOn)
	assert.Equal(t, "lint", build.Needs)
	assert.Equal(t, "github.ref == 'refs/heads/main'", build.If)
	assert.Equal(t, 30, build.TimeoutMinutes)
	require.NotNil(t, build.Strategy)
	assert.True(t, build.HasMatrix())
	require.NotNil(t, build.Strategy.FailFast)
	assert.False(t, *build.Strategy.FailFast)
	assert.Equal(t, 2, build.Strategy.MaxParallel)
	require.Len(t, build.Steps, 2)
	assert.Equal(t, "actions/setup-go@v5", build.Steps[0].Uses)
	assert.Equal(t, "${{ matrix.go }}", build.Steps[0].With["go-version"])
	assert.Equal(t, "0", build.Steps[1].Env["CGO_ENABLED"])

	deploy, ok := wf.Job("deploy")
	require.True(t, ok)
	assert.Equal(t, []string{"build", "lint"}, deploy.Needs)
	assert.Empty(t, deploy.Steps)
}

func TestLoadToleratesMalformedJobs(t *testing.T) {
	src := `
name: CI
on: push
jobs:
  odd: 42
  partial:
    steps: not-a-list
    needs: {x: y}
    if: false
  nulls:
    needs: ~
    strategy:
      matrix: ~
`
	wf, _, err := Load(src)
	require.NoError(t, err)
	require.Len(t, wf.Jobs, 3)

	for _, job := range wf.Jobs {
		assert.Empty(t, job.Steps, job.ID)
		assert.Nil(t, job.Needs, job.ID)
		assert.Empty(t, job.If, job.ID)
		assert.False(t, job.HasMatrix(), job.ID)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("whitespace only", func(t *testing.T) {
		_, _, err := Load("  \n\t ")
		assert.ErrorIs(t, err, ErrNoContent)
		assert.False(t, IsParseError(err))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, _, err := Load("name: [unclosed\n")
		require.Error(t, err)
		assert.True(t, IsParseError(err))
		assert.Contains(t, err.Error(), "failed to parse workflow YAML")
	})

	t.Run("validation failure", func(t *testing.T) {
		_, doc, err := Load("name: CI\non: push\n")
		assert.ErrorIs(t, err, schema.ErrMissingJobs)
		assert.NotNil(t, doc)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ci.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleWorkflow), 0644))

	wf, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "CI", wf.Name)

	_, err = LoadFile(filepath.Join(dir, "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseRejectsDuplicateKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		line string
	}{
		{
			name: "duplicate job",
			raw:  "name: CI\non: push\njobs:\n  A: {}\n  A:\n    needs: [B]\n  B: {}\n",
			line: `line 5: mapping key "A" already defined at line 4`,
		},
		{
			name: "duplicate top-level key",
			raw:  "name: CI\nname: Other\non: push\njobs:\n  A: {}\n",
			line: `line 2: mapping key "name" already defined at line 1`,
		},
		{
			name: "duplicate step key",
			raw:  "name: CI\non: push\njobs:\n  A:\n    steps:\n      - run: a\n        run: b\n",
			line: `mapping key "run"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(tt.raw)
			require.Error(t, err)
			assert.True(t, IsParseError(err))
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestParseAllowsRepeatedKeysAcrossMappings(t *testing.T) {
	raw := `
name: CI
on: push
defaults: &defaults
  runs-on: ubuntu-latest
jobs:
  A:
    <<: *defaults
    steps:
      - run: a
  B:
    <<: *defaults
    needs: A
    steps:
      - run: b
`
	wf, _, err := Load(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, wf.JobIDs())
}
