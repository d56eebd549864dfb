package schema

import (
	"errors"

	"github.com/sourceplane/wfviz/internal/normalize"
	"gopkg.in/yaml.v3"
)

// Structural validation errors, checked in this order.
var (
	ErrMissingName     = errors.New("workflow must have a name")
	ErrMissingTriggers = errors.New("workflow must define triggers (on)")
	ErrMissingJobs     = errors.New("workflow must have at least one job")
)

// IsValidationError reports whether err is a structural validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingName) ||
		errors.Is(err, ErrMissingTriggers) ||
		errors.Is(err, ErrMissingJobs)
}

// Validate checks the top-level shape of a parsed workflow document and
// returns the first failure. Job bodies are not inspected.
func Validate(doc *yaml.Node) error {
	root := documentRoot(doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return ErrMissingName
	}

	if !normalize.Truthy(normalize.Lookup(root, "name")) {
		return ErrMissingName
	}
	if !normalize.Truthy(normalize.Lookup(root, "on")) {
		return ErrMissingTriggers
	}

	jobs := normalize.Lookup(root, "jobs")
	if jobs != nil && jobs.Kind == yaml.AliasNode {
		jobs = jobs.Alias
	}
	if jobs == nil || jobs.Kind != yaml.MappingNode || len(jobs.Content) == 0 {
		return ErrMissingJobs
	}

	return nil
}

// documentRoot unwraps a document node to its content.
func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc == nil {
		return nil
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		doc = doc.Content[0]
	}
	if doc.Kind == yaml.AliasNode {
		return doc.Alias
	}
	return doc
}
