package main

import (
	"context"
	"os"

	"dssrules/internal/mcp"
	"dssrules/internal/rules"
	"dssrules/internal/supervisor"

	"github.com/spf13/cobra"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, dir, err := opts.load()
	if err != nil {
		return err
	}

	var srv *mcp.Server
	sup := supervisor.New(opts.logger, cfg.LivenessDelay,
		supervisor.WithIdleHook(func() { srv.NotifyIdle() }),
	)
	svc := rules.NewService(dir, sup.Bootstrapped(), opts.logger)
	srv = mcp.NewServer(svc, opts.logger, version)

	opts.logger.Info("Starting DSS rules server", "rulesDir", dir, "version", version)

	return sup.Run(ctx, func(ctx context.Context) error {
		return srv.Serve(ctx, os.Stdin, os.Stdout)
	})
}
