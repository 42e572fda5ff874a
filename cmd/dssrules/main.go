// Package main is the entry point for the dssrules CLI.
//
// Without a subcommand dssrules runs the MCP server on stdin/stdout, which
// is how assistants launch it. The other subcommands run the same retrieval
// and listing operations from a shell, sync a git-backed rules directory,
// and manage the access token used for private remotes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dssrules/internal/config"
	"dssrules/internal/logging"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	appLogger := logging.NewAppLogger()
	logging.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(appLogger).ExecuteContext(ctx); err != nil {
		appLogger.Error("dssrules failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	logger     *logging.AppLogger
	configPath string
	rulesDir   string
}

func newApp(logger *logging.AppLogger) *cobra.Command {
	opts := &rootOptions{logger: logger}

	cmd := &cobra.Command{
		Use:           "dssrules",
		Short:         "Serve DSS rule documents to AI assistants over MCP",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+config.ConfigPath()+")")
	flags.StringVar(&opts.rulesDir, "rules-dir", "", "rules directory, overrides the config file")

	cmd.AddCommand(
		newServeCommand(opts),
		newGetCommand(opts),
		newListCommand(opts),
		newSyncCommand(opts),
		newTokenCommand(opts),
	)
	return cmd
}

// load reads the configuration and applies the --rules-dir override.
func (o *rootOptions) load() (*config.Config, string, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}

	if o.rulesDir != "" {
		cfg.RulesDir = o.rulesDir
		if err := cfg.Validate(); err != nil {
			return nil, "", err
		}
	}

	dir, err := cfg.ResolvedRulesDir()
	if err != nil {
		return nil, "", err
	}
	o.logger.Debug("Configuration loaded", "rulesDir", dir)
	o.logger.DebugObject("config", cfg)
	return cfg, dir, nil
}
