package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/workflow.schema.yaml
var workflowSchemaYAML []byte

const workflowSchemaURL = "wfviz://schemas/workflow.schema.json"

// Violation is a single schema violation
type Violation struct {
	Location string `json:"location" yaml:"location"` // JSON pointer into the document
	Message  string `json:"message" yaml:"message"`
}

func (v Violation) String() string {
	location := v.Location
	if location == "" {
		location = "/"
	}
	return fmt.Sprintf("%s: %s", location, v.Message)
}

// LintError lists every violation found by a Linter
type LintError struct {
	Violations []Violation
}

func (e *LintError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.String())
	}
	return fmt.Sprintf("workflow has %d schema violation(s):\n  %s", len(e.Violations), strings.Join(lines, "\n  "))
}

// Linter checks workflow documents against the bundled JSON schema
type Linter struct {
	schema *jsonschema.Schema
}

// NewLinter compiles the bundled workflow schema
func NewLinter() (*Linter, error) {
	schema, err := compileSchema(workflowSchemaURL, workflowSchemaYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow schema: %w", err)
	}
	return &Linter{schema: schema}, nil
}

// Lint validates a parsed document. It returns a *LintError when the
// document violates the schema.
func (l *Linter) Lint(doc *yaml.Node) error {
	if l.schema == nil {
		return fmt.Errorf("workflow schema not loaded")
	}

	instance, err := toJSONValue(doc)
	if err != nil {
		return err
	}

	err = l.schema.Validate(instance)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("failed to validate workflow: %w", err)
	}

	violations := make([]Violation, 0)
	collectViolations(ve, &violations)
	sort.SliceStable(violations, func(a, b int) bool {
		return violations[a].Location < violations[b].Location
	})
	return &LintError{Violations: violations}
}

// collectViolations flattens a validation error tree into its leaves
func collectViolations(ve *jsonschema.ValidationError, out *[]Violation) {
	if len(ve.Causes) == 0 {
		*out = append(*out, Violation{Location: ve.InstanceLocation, Message: ve.Message})
		return
	}
	for _, cause := range ve.Causes {
		collectViolations(cause, out)
	}
}

// compileSchema compiles a YAML (or JSON) schema document registered under url
func compileSchema(url string, data []byte) (*jsonschema.Schema, error) {
	var schemaData interface{}
	if err := yaml.Unmarshal(data, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	jsonData, err := json.Marshal(schemaData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(jsonData)); err != nil {
		return nil, fmt.Errorf("failed to register schema: %w", err)
	}

	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return schema, nil
}

// toJSONValue converts a YAML tree into the value shapes encoding/json produces
func toJSONValue(doc *yaml.Node) (interface{}, error) {
	var data interface{}
	if doc != nil {
		if err := doc.Decode(&data); err != nil {
			return nil, fmt.Errorf("failed to decode workflow: %w", err)
		}
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert workflow to JSON: %w", err)
	}

	var value interface{}
	if err := json.Unmarshal(jsonData, &value); err != nil {
		return nil, fmt.Errorf("failed to convert workflow to JSON: %w", err)
	}
	return value, nil
}

// Result is the outcome of a strict check: structural validation followed
// by schema lint
type Result struct {
	Valid      bool        `json:"valid" yaml:"valid"`
	Error      string      `json:"error,omitempty" yaml:"error,omitempty"`
	Violations []Violation `json:"violations" yaml:"violations"`
}

// Check validates a document and, when it is structurally valid, lints it.
// The returned error is reserved for failures of the check itself.
func (l *Linter) Check(doc *yaml.Node) (Result, error) {
	result := Result{Valid: true, Violations: make([]Violation, 0)}

	if err := Validate(doc); err != nil {
		result.Valid = false
		result.Error = err.Error()
		return result, nil
	}

	err := l.Lint(doc)
	var lintErr *LintError
	switch {
	case err == nil:
	case errors.As(err, &lintErr):
		result.Valid = false
		result.Violations = lintErr.Violations
	default:
		return result, err
	}
	return result, nil
}
