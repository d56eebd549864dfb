package model

// Workflow is a validated CI workflow document.
// Jobs and Triggers keep the order in which they were declared.
type Workflow struct {
	Name     string            `yaml:"name" json:"name"`
	Triggers []Trigger         `yaml:"on" json:"on"`
	Jobs     []*Job            `yaml:"jobs" json:"jobs"`
	Env      map[string]string `yaml:"env,omitempty" json:"env,omitempty"`

	index map[string]*Job
}

// Trigger is one entry of the workflow's `on` mapping
type Trigger struct {
	Name   string      `yaml:"name" json:"name"`
	Config interface{} `yaml:"config,omitempty" json:"config,omitempty"`
	// Null is set only for an explicit YAML null value.
	Null bool `yaml:"null,omitempty" json:"null,omitempty"`
}

// NewWorkflow creates a workflow and indexes its jobs by id.
// When ids repeat, the first declaration wins the index.
func NewWorkflow(name string, triggers []Trigger, jobs []*Job) *Workflow {
	wf := &Workflow{
		Name:     name,
		Triggers: triggers,
		Jobs:     jobs,
		index:    make(map[string]*Job, len(jobs)),
	}
	for _, job := range jobs {
		if _, exists := wf.index[job.ID]; !exists {
			wf.index[job.ID] = job
		}
	}
	return wf
}

// Job returns the job declared under id.
func (w *Workflow) Job(id string) (*Job, bool) {
	if w == nil {
		return nil, false
	}
	if w.index == nil {
		for _, job := range w.Jobs {
			if job.ID == id {
				return job, true
			}
		}
		return nil, false
	}
	job, ok := w.index[id]
	return job, ok
}

// JobIDs returns job ids in declaration order
func (w *Workflow) JobIDs() []string {
	ids := make([]string, 0, len(w.Jobs))
	for _, job := range w.Jobs {
		ids = append(ids, job.ID)
	}
	return ids
}
