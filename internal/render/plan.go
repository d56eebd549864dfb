package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourceplane/wfviz/internal/model"
	"github.com/sourceplane/wfviz/internal/planner"
	"gopkg.in/yaml.v3"
)

// Renderer serializes workflow reports and graphs
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON renders a value as indented JSON
func (r *Renderer) RenderJSON(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RenderYAML renders a value as YAML
func (r *Renderer) RenderYAML(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

// RenderDOT renders a graph in Graphviz DOT syntax. Nodes keep declaration
// order; conditional jobs are dashed.
func (r *Renderer) RenderDOT(name string, graph planner.Graph) []byte {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("digraph %s {\n", quoteDOT(name)))
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, style=rounded];\n")

	for _, node := range graph.Nodes {
		label := node.Label
		if node.Summary != "" {
			label += "\n" + node.Summary
		}
		attrs := "label=" + quoteDOT(label)
		if node.HasIf {
			attrs += ", style=\"rounded,dashed\""
		}
		sb.WriteString(fmt.Sprintf("  %s [%s];\n", quoteDOT(node.ID), attrs))
	}

	for _, edge := range graph.Edges {
		sb.WriteString(fmt.Sprintf("  %s -> %s;\n", quoteDOT(edge.Source), quoteDOT(edge.Target)))
	}

	sb.WriteString("}\n")
	return []byte(sb.String())
}

func quoteDOT(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}

// Render renders a report in the named format: json or yaml
func (r *Renderer) Render(report *model.Report, format string) ([]byte, error) {
	switch format {
	case "json":
		return r.RenderJSON(report)
	case "yaml", "yml":
		return r.RenderYAML(report)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport writes a report to file (JSON or YAML based on extension)
func (r *Renderer) WriteReport(report *model.Report, path string) error {
	var data []byte
	var err error

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = r.RenderYAML(report)
	default:
		data, err = r.RenderJSON(report)
	}
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}

	return nil
}
