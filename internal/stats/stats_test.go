package stats

import (
	"testing"

	"github.com/sourceplane/wfviz/internal/loader"
	"github.com/sourceplane/wfviz/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	src := `
name: CI
on:
  push: {}
  schedule: null
  workflow_dispatch:
  pull_request: false
jobs:
  lint:
    steps:
      - run: make lint
  test:
    needs: lint
    steps:
      - run: go vet ./...
      - run: go test ./...
  release:
    if: startsWith(github.ref, 'refs/tags/')
    strategy:
      matrix:
        os: [linux, darwin]
`
	wf, _, err := loader.Load(src)
	require.NoError(t, err)

	s := Aggregate(wf)
	assert.Equal(t, 3, s.TotalJobs)
	assert.Equal(t, 3, s.TotalSteps)
	assert.Equal(t, []string{"push", "pull_request"}, s.Triggers)
	assert.True(t, s.HasMatrix)
	assert.True(t, s.HasConditions)
	assert.True(t, s.HasDependencies)
}

func TestAggregateTriggerScenario(t *testing.T) {
	wf, _, err := loader.Load("name: CI\non: {push: {}, schedule: null}\njobs:\n  a: {}\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"push"}, Aggregate(wf).Triggers)
}

func TestAggregateFlags(t *testing.T) {
	plain := model.NewWorkflow("ci", []model.Trigger{{Name: "push"}}, []*model.Job{{ID: "a"}, {ID: "b"}})
	s := Aggregate(plain)
	assert.Equal(t, 2, s.TotalJobs)
	assert.Equal(t, 0, s.TotalSteps)
	assert.False(t, s.HasMatrix)
	assert.False(t, s.HasConditions)
	assert.False(t, s.HasDependencies)

	// An empty needs list is still a declaration.
	declared := model.NewWorkflow("ci", nil, []*model.Job{{ID: "a", Needs: []string{}}})
	assert.True(t, Aggregate(declared).HasDependencies)

	empty := Aggregate(nil)
	assert.Equal(t, 0, empty.TotalJobs)
	assert.Equal(t, []string{}, empty.Triggers)
}
