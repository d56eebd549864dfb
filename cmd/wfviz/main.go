package main

import (
	"fmt"
	"os"

	"github.com/sourceplane/wfviz/internal/loader"
	"github.com/sourceplane/wfviz/internal/render"
	"github.com/sourceplane/wfviz/internal/session"
	"github.com/spf13/cobra"
)

// progress writes a status line to stderr so stdout stays machine-readable
func progress(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

// loadSession reads a workflow file ("-" for stdin) into a new session
func loadSession(cmd *cobra.Command, path string) (*session.Session, error) {
	progress(cmd, "□ Loading workflow %s...", path)
	raw, err := loader.ReadSource(path)
	if err != nil {
		return nil, err
	}

	s := session.New()
	if err := s.Load(raw); err != nil {
		return nil, fmt.Errorf("failed to load workflow %s: %w", path, err)
	}
	return s, nil
}

func viewer(s *session.Session) *render.WorkflowViewer {
	styles := render.DefaultStyles()
	if cfg.NoColor {
		styles = render.PlainStyles()
	}
	return render.NewWorkflowViewer(s, styles)
}

// printStructured writes v to stdout in the configured json or yaml format
func printStructured(cmd *cobra.Command, v interface{}) error {
	renderer := render.NewRenderer()
	var (
		data []byte
		err  error
	)
	switch cfg.Format {
	case "yaml":
		data, err = renderer.RenderYAML(v)
	default:
		data, err = renderer.RenderJSON(v)
	}
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
