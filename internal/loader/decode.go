package loader

import (
	"strconv"
	"strings"

	"github.com/sourceplane/wfviz/internal/model"
	"github.com/sourceplane/wfviz/internal/normalize"
	"gopkg.in/yaml.v3"
)

// Decode builds a workflow from a validated document tree. Malformed job
// and step bodies never fail decoding; the affected fields stay empty.
func Decode(doc *yaml.Node) *model.Workflow {
	root := doc
	if root != nil && root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	jobs := make([]*model.Job, 0)
	jobsNode := normalize.Lookup(root, "jobs")
	if jobsNode != nil && jobsNode.Kind == yaml.AliasNode {
		jobsNode = jobsNode.Alias
	}
	if jobsNode != nil && jobsNode.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(jobsNode.Content); i += 2 {
			jobs = append(jobs, decodeJob(jobsNode.Content[i].Value, jobsNode.Content[i+1]))
		}
	}

	wf := model.NewWorkflow(
		normalize.Scalar(normalize.Lookup(root, "name")),
		normalize.Triggers(normalize.Lookup(root, "on")),
		jobs,
	)
	wf.Env = decodeEnv(normalize.Lookup(root, "env"))
	return wf
}

func decodeJob(id string, body *yaml.Node) *model.Job {
	job := &model.Job{
		ID:    id,
		Steps: make([]model.Step, 0),
	}

	job.Name = normalize.Scalar(normalize.Lookup(body, "name"))
	job.RunsOn = strings.Join(normalize.StringList(normalize.Lookup(body, "runs-on")), ", ")
	job.Needs = decodeNeeds(normalize.Lookup(body, "needs"))
	if cond := normalize.Lookup(body, "if"); normalize.Truthy(cond) {
		job.If = normalize.Scalar(cond)
	}
	job.Env = decodeEnv(normalize.Lookup(body, "env"))
	job.Uses = normalize.Scalar(normalize.Lookup(body, "uses"))

	if timeout, err := strconv.Atoi(normalize.Scalar(normalize.Lookup(body, "timeout-minutes"))); err == nil {
		job.TimeoutMinutes = timeout
	}

	if strategy := normalize.Lookup(body, "strategy"); strategy != nil && strategy.Kind == yaml.MappingNode {
		job.Strategy = decodeStrategy(strategy)
	}

	steps := normalize.Lookup(body, "steps")
	if steps != nil && steps.Kind == yaml.AliasNode {
		steps = steps.Alias
	}
	if steps != nil && steps.Kind == yaml.SequenceNode {
		for _, item := range steps.Content {
			job.Steps = append(job.Steps, decodeStep(item))
		}
	}

	return job
}

// decodeNeeds keeps the declared shape: nil, a string, or a []string.
// A present but falsy value ("" or null) counts as absent.
func decodeNeeds(node *yaml.Node) interface{} {
	if !normalize.Truthy(node) {
		return nil
	}
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value
	case yaml.SequenceNode:
		return normalize.SequenceScalars(node)
	}
	return nil
}

func decodeStrategy(node *yaml.Node) *model.Strategy {
	strategy := &model.Strategy{}

	if matrix := normalize.Lookup(node, "matrix"); normalize.Truthy(matrix) {
		strategy.Matrix = normalize.Value(matrix)
		if strategy.Matrix == nil {
			strategy.Matrix = map[string]interface{}{}
		}
	}
	if failFast, err := strconv.ParseBool(normalize.Scalar(normalize.Lookup(node, "fail-fast"))); err == nil {
		strategy.FailFast = &failFast
	}
	if maxParallel, err := strconv.Atoi(normalize.Scalar(normalize.Lookup(node, "max-parallel"))); err == nil {
		strategy.MaxParallel = maxParallel
	}
	return strategy
}

func decodeStep(node *yaml.Node) model.Step {
	step := model.Step{
		ID:   normalize.Scalar(normalize.Lookup(node, "id")),
		Name: normalize.Scalar(normalize.Lookup(node, "name")),
		Uses: normalize.Scalar(normalize.Lookup(node, "uses")),
		Run:  normalize.Scalar(normalize.Lookup(node, "run")),
		If:   normalize.Scalar(normalize.Lookup(node, "if")),
		Env:  decodeEnv(normalize.Lookup(node, "env")),
	}

	if with, ok := normalize.Value(normalize.Lookup(node, "with")).(map[string]interface{}); ok {
		step.With = with
	}
	return step
}

// decodeEnv keeps the scalar entries of an env mapping
func decodeEnv(node *yaml.Node) map[string]string {
	if node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}

	env := make(map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i+1].Kind == yaml.ScalarNode {
			env[node.Content[i].Value] = normalize.Scalar(node.Content[i+1])
		}
	}
	return env
}
