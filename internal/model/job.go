package model

// Job is a named unit of work, identified by its key under `jobs`
type Job struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	RunsOn string `yaml:"runs-on,omitempty" json:"runs-on,omitempty"`
	// Needs is the raw declaration: nil, a string, or a []string.
	Needs          interface{}       `yaml:"needs,omitempty" json:"needs,omitempty"`
	If             string            `yaml:"if,omitempty" json:"if,omitempty"`
	Strategy       *Strategy         `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	Steps          []Step            `yaml:"steps" json:"steps"`
	Env            map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	TimeoutMinutes int               `yaml:"timeout-minutes,omitempty" json:"timeout-minutes,omitempty"`
	Uses           string            `yaml:"uses,omitempty" json:"uses,omitempty"` // reusable workflow
}

// Strategy describes how a job fans out into variants
type Strategy struct {
	Matrix      interface{} `yaml:"matrix,omitempty" json:"matrix,omitempty"`
	FailFast    *bool       `yaml:"fail-fast,omitempty" json:"fail-fast,omitempty"`
	MaxParallel int         `yaml:"max-parallel,omitempty" json:"max-parallel,omitempty"`
}

// Step is a single ordered action within a job
type Step struct {
	ID   string                 `yaml:"id,omitempty" json:"id,omitempty"`
	Name string                 `yaml:"name,omitempty" json:"name,omitempty"`
	Uses string                 `yaml:"uses,omitempty" json:"uses,omitempty"`
	Run  string                 `yaml:"run,omitempty" json:"run,omitempty"`
	With map[string]interface{} `yaml:"with,omitempty" json:"with,omitempty"`
	If   string                 `yaml:"if,omitempty" json:"if,omitempty"`
	Env  map[string]string      `yaml:"env,omitempty" json:"env,omitempty"`
}

// DisplayName returns the job's name, falling back to its id
func (j *Job) DisplayName() string {
	if j.Name != "" {
		return j.Name
	}
	return j.ID
}

// HasMatrix reports whether the job declares a non-empty strategy.matrix
func (j *Job) HasMatrix() bool {
	return j.Strategy != nil && j.Strategy.Matrix != nil
}

// DisplayName returns the step name, then its action or command.
func (s Step) DisplayName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Uses != "":
		return s.Uses
	default:
		return s.Run
	}
}
