package planner

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/sourceplane/wfviz/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dep(name string, dependsOn ...string) model.JobDependency {
	if dependsOn == nil {
		dependsOn = []string{}
	}
	return model.JobDependency{JobName: name, DependsOn: dependsOn, Conditions: []string{}}
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name      string
		input     []model.JobDependency
		levels    [][]string
		unordered []string
	}{
		{
			name:   "empty",
			input:  nil,
			levels: [][]string{},
		},
		{
			name:   "fan out",
			input:  []model.JobDependency{dep("A"), dep("B", "A"), dep("C", "A")},
			levels: [][]string{{"A"}, {"B", "C"}},
		},
		{
			name:      "two job cycle",
			input:     []model.JobDependency{dep("A", "B"), dep("B", "A")},
			levels:    [][]string{{"A", "B"}},
			unordered: []string{"A", "B"},
		},
		{
			name:   "all independent keeps declaration order",
			input:  []model.JobDependency{dep("z"), dep("a"), dep("m")},
			levels: [][]string{{"z", "a", "m"}},
		},
		{
			name:   "chain gives singleton levels",
			input:  []model.JobDependency{dep("a"), dep("b", "a"), dep("c", "b"), dep("d", "c")},
			levels: [][]string{{"a"}, {"b"}, {"c"}, {"d"}},
		},
		{
			name:   "chain declared in reverse",
			input:  []model.JobDependency{dep("d", "c"), dep("c", "b"), dep("b", "a"), dep("a")},
			levels: [][]string{{"a"}, {"b"}, {"c"}, {"d"}},
		},
		{
			name:      "missing dependency is never satisfied",
			input:     []model.JobDependency{dep("build"), dep("deploy", "ghost"), dep("notify", "build")},
			levels:    [][]string{{"build"}, {"notify"}, {"deploy"}},
			unordered: []string{"deploy"},
		},
		{
			name:      "self dependency",
			input:     []model.JobDependency{dep("a", "a"), dep("b")},
			levels:    [][]string{{"b"}, {"a"}},
			unordered: []string{"a"},
		},
		{
			name:      "cycle behind a satisfied prefix",
			input:     []model.JobDependency{dep("lint"), dep("x", "lint", "y"), dep("y", "x"), dep("z", "y")},
			levels:    [][]string{{"lint"}, {"x", "y", "z"}},
			unordered: []string{"x", "y", "z"},
		},
		{
			name:   "diamond",
			input:  []model.JobDependency{dep("a"), dep("b", "a"), dep("c", "a"), dep("d", "b", "c")},
			levels: [][]string{{"a"}, {"b", "c"}, {"d"}},
		},
		{
			name:   "duplicate names placed once",
			input:  []model.JobDependency{dep("a"), dep("b", "a"), dep("a", "b")},
			levels: [][]string{{"a"}, {"b"}},
		},
		{
			name:   "repeated dependency",
			input:  []model.JobDependency{dep("a"), dep("b", "a", "a")},
			levels: [][]string{{"a"}, {"b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := Plan(tt.input)
			assert.Equal(t, tt.levels, order.Levels)
			if tt.unordered == nil {
				assert.Empty(t, order.Unordered)
			} else {
				assert.Equal(t, tt.unordered, order.Unordered)
			}
			assert.Equal(t, tt.levels, Levels(tt.input))
		})
	}
}

// randomDeps builds n jobs with random dependencies, some missing and some cyclic.
func randomDeps(r *rand.Rand, n int) []model.JobDependency {
	jobs := make([]model.JobDependency, n)
	for i := range jobs {
		dependsOn := []string{}
		for k := r.Intn(3); k > 0; k-- {
			target := r.Intn(n + 2) // n and n+1 name missing jobs
			dependsOn = append(dependsOn, fmt.Sprintf("job%d", target))
		}
		jobs[i] = dep(fmt.Sprintf("job%d", i), dependsOn...)
	}
	return jobs
}

func TestPlanProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		n := r.Intn(12)
		input := randomDeps(r, n)
		order := Plan(input)

		// Totality: levels partition exactly the job ids.
		placed := make([]string, 0, n)
		levelOf := make(map[string]int, n)
		for i, level := range order.Levels {
			require.NotEmpty(t, level)
			for _, name := range level {
				_, dup := levelOf[name]
				require.False(t, dup, "job %s placed twice", name)
				levelOf[name] = i
				placed = append(placed, name)
			}
		}
		expected := make([]string, 0, n)
		for _, job := range input {
			expected = append(expected, job.JobName)
		}
		sort.Strings(placed)
		sort.Strings(expected)
		require.Equal(t, expected, placed)
		require.LessOrEqual(t, len(order.Levels), n+1)

		// Ordering: outside the escaped remainder, dependencies come first.
		escaped := make(map[string]bool)
		for _, name := range order.Unordered {
			escaped[name] = true
		}
		if len(order.Unordered) > 0 {
			require.Equal(t, order.Unordered, order.Levels[len(order.Levels)-1])
		}
		for _, job := range input {
			if escaped[job.JobName] {
				continue
			}
			for _, d := range job.DependsOn {
				depLevel, exists := levelOf[d]
				require.True(t, exists, "placed job %s depends on unplaced %s", job.JobName, d)
				require.Less(t, depLevel, levelOf[job.JobName])
			}
		}

		// Determinism.
		require.Equal(t, order, Plan(input))
	}
}

func TestDetectCycles(t *testing.T) {
	tests := []struct {
		name     string
		input    []model.JobDependency
		expected []string
	}{
		{name: "acyclic", input: []model.JobDependency{dep("a"), dep("b", "a")}, expected: []string{}},
		{name: "pair", input: []model.JobDependency{dep("a", "b"), dep("b", "a")}, expected: []string{"a", "b"}},
		{name: "self", input: []model.JobDependency{dep("a", "a"), dep("b", "a")}, expected: []string{"a"}},
		{
			name:     "dependent of a cycle is not on it",
			input:    []model.JobDependency{dep("x", "y"), dep("y", "x"), dep("z", "y")},
			expected: []string{"x", "y"},
		},
		{
			name:     "cycle reached through a finished job",
			input:    []model.JobDependency{dep("a", "b", "c"), dep("b", "a"), dep("c", "b")},
			expected: []string{"a", "b", "c"},
		},
		{name: "missing targets ignored", input: []model.JobDependency{dep("a", "ghost")}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewJobGraph(tt.input).DetectCycles())
		})
	}
}

func TestBuildGraph(t *testing.T) {
	wf := model.NewWorkflow("ci", nil, []*model.Job{
		{ID: "lint", RunsOn: "ubuntu-latest", Steps: []model.Step{{Run: "make lint"}}},
		{ID: "test", Name: "Unit tests", Needs: "lint", Strategy: &model.Strategy{Matrix: map[string]interface{}{"go": []interface{}{"1.22"}}},
			Steps: []model.Step{{Run: "a"}, {Run: "b"}}},
		{ID: "deploy", Needs: []string{"test", "ghost"}, If: "success()"},
	})

	graph := BuildGraph(wf)

	require.Len(t, graph.Nodes, 3)
	assert.Equal(t, "ubuntu-latest · 1 step", graph.Nodes[0].Summary)
	assert.Equal(t, "Unit tests", graph.Nodes[1].Label)
	assert.Equal(t, "2 steps · 1 dependency · matrix", graph.Nodes[1].Summary)
	assert.Equal(t, "0 steps · 2 dependencies · if", graph.Nodes[2].Summary)
	assert.True(t, graph.Nodes[2].HasIf)
	assert.Equal(t, 2, graph.Nodes[2].Needs)

	assert.Equal(t, []Edge{
		{ID: "lint->test", Source: "lint", Target: "test"},
		{ID: "test->deploy", Source: "test", Target: "deploy"},
	}, graph.Edges)
	assert.Equal(t, []string{"deploy"}, graph.Roots)

	empty := BuildGraph(nil)
	assert.Empty(t, empty.Nodes)
	assert.Empty(t, empty.Edges)
}
