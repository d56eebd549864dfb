package main

import (
	"github.com/sourceplane/wfviz/internal/render"
	"github.com/spf13/cobra"
)

func registerGraphCommand(root *cobra.Command) {
	graphCmd := &cobra.Command{
		Use:   "graph <workflow>",
		Short: "Export the job graph (Graphviz DOT in text format)",
		Example: "  wfviz graph ci.yml | dot -Tsvg > ci.svg\n" +
			"  wfviz graph ci.yml -f json",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showGraph(cmd, args[0])
		},
	}
	root.AddCommand(graphCmd)
}

func showGraph(cmd *cobra.Command, path string) error {
	s, err := loadSession(cmd, path)
	if err != nil {
		return err
	}

	if cfg.Format != "text" {
		return printStructured(cmd, s.Graph())
	}
	_, err = cmd.OutOrStdout().Write(render.NewRenderer().RenderDOT(s.Workflow().Name, s.Graph()))
	return err
}
