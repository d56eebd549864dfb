package model

// JobDependency is the normalized dependency record of one job
type JobDependency struct {
	JobName       string   `yaml:"jobName" json:"jobName"`
	DependsOn     []string `yaml:"dependsOn" json:"dependsOn"`
	HasConditions bool     `yaml:"hasConditions" json:"hasConditions"`
	Conditions    []string `yaml:"conditions" json:"conditions"` // the job's own `if`, 0 or 1 entries
}

// ExecutionOrder is a sequence of levels; jobs in a level can run in parallel.
type ExecutionOrder struct {
	Levels [][]string `yaml:"levels" json:"levels"`
	// Unordered lists the jobs dumped into the final level because their
	// dependencies could never be satisfied (cycle or missing job).
	Unordered []string `yaml:"unordered,omitempty" json:"unordered,omitempty"`
}

// WorkflowStats is a summary snapshot of a workflow
type WorkflowStats struct {
	TotalJobs       int      `yaml:"totalJobs" json:"totalJobs"`
	TotalSteps      int      `yaml:"totalSteps" json:"totalSteps"`
	Triggers        []string `yaml:"triggers" json:"triggers"`
	HasMatrix       bool     `yaml:"hasMatrix" json:"hasMatrix"`
	HasConditions   bool     `yaml:"hasConditions" json:"hasConditions"`
	HasDependencies bool     `yaml:"hasDependencies" json:"hasDependencies"`
}

// TriggerDescription is a display summary of one trigger
type TriggerDescription struct {
	Name    string   `yaml:"name" json:"name"`
	Details []string `yaml:"details,omitempty" json:"details,omitempty"`
	// NextRuns holds RFC 3339 timestamps for schedule triggers.
	NextRuns []string `yaml:"nextRuns,omitempty" json:"nextRuns,omitempty"`
}

// Report is the serializable snapshot of a loaded workflow
type Report struct {
	APIVersion   string               `yaml:"apiVersion" json:"apiVersion"`
	Kind         string               `yaml:"kind" json:"kind"`
	Name         string               `yaml:"name" json:"name"`
	Stats        WorkflowStats        `yaml:"stats" json:"stats"`
	Triggers     []TriggerDescription `yaml:"triggers" json:"triggers"`
	Order        ExecutionOrder       `yaml:"order" json:"order"`
	Dependencies []JobDependency      `yaml:"dependencies" json:"dependencies"`
	Cycles       []string             `yaml:"cycles,omitempty" json:"cycles,omitempty"`
}
