package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sourceplane/wfviz/internal/model"
	"github.com/sourceplane/wfviz/internal/schema"
	"gopkg.in/yaml.v3"
)

// ErrNoContent is returned for empty or whitespace-only input
var ErrNoContent = errors.New("no content: please provide a workflow YAML document")

// ParseError reports input that is not well-formed YAML
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse workflow YAML: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is a *ParseError
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Parse turns raw text into a YAML document tree. Only the first document
// of a multi-document stream is used.
func Parse(raw string) (*yaml.Node, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNoContent
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := uniqueKeys(&doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &doc, nil
}

// uniqueKeys rejects mappings that repeat a scalar key. Decoding into a
// yaml.Node skips the check yaml.v3 applies to maps and structs.
func uniqueKeys(node *yaml.Node) error {
	if node == nil || node.Kind == yaml.AliasNode {
		return nil
	}

	if node.Kind == yaml.MappingNode {
		seen := make(map[string]int, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode || key.Tag == "!!merge" {
				continue
			}
			if line, dup := seen[key.Value]; dup {
				return fmt.Errorf("line %d: mapping key %q already defined at line %d", key.Line, key.Value, line)
			}
			seen[key.Value] = key.Line
		}
	}

	for _, child := range node.Content {
		if err := uniqueKeys(child); err != nil {
			return err
		}
	}
	return nil
}

// Load parses, validates and decodes a workflow. The parsed tree is returned
// alongside the workflow for callers that lint it.
func Load(raw string) (*model.Workflow, *yaml.Node, error) {
	doc, err := Parse(raw)
	if err != nil {
		return nil, nil, err
	}

	if err := schema.Validate(doc); err != nil {
		return nil, doc, err
	}

	return Decode(doc), doc, nil
}

// ReadSource reads a workflow file; "-" reads standard input.
func ReadSource(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read workflow file %s: %w", path, err)
	}
	return string(data), nil
}

// LoadFile reads and loads a workflow file
func LoadFile(path string) (*model.Workflow, error) {
	raw, err := ReadSource(path)
	if err != nil {
		return nil, err
	}

	wf, _, err := Load(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow %s: %w", path, err)
	}
	return wf, nil
}
