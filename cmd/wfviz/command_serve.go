package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sourceplane/wfviz/internal/schema"
	"github.com/sourceplane/wfviz/internal/server"
	"github.com/sourceplane/wfviz/internal/session"
	"github.com/spf13/cobra"
)

func registerServeCommand(root *cobra.Command) {
	serveCmd := &cobra.Command{
		Use:   "serve [workflow]",
		Short: "Serve the workflow API over HTTP",
		Long:  "Start an HTTP API for loading a workflow (PUT /workflow) and querying its dependencies, execution order and statistics. An optional workflow file is loaded at startup.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, args)
		},
	}
	root.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "localhost:8080", "Listen address")
}

func serve(cmd *cobra.Command, args []string) error {
	s := session.New()
	if len(args) == 1 {
		loaded, err := loadSession(cmd, args[0])
		if err != nil {
			return err
		}
		s = loaded
	}

	linter, err := schema.NewLinter()
	if err != nil {
		return err
	}

	srv := server.NewServer(cfg.Addr, s, linter, cfg.NextRuns)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	progress(cmd, "✓ Listening on %s", cfg.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return srv.Stop()
	}
}
